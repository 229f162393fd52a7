package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"wcm/internal/models"
)

const campaignColumns = `id, name, description, message, media_url, media_type, scheduled_time, status, user_id, created_at, updated_at`

type campaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func scanCampaign(row interface {
	Scan(dest ...interface{}) error
}) (*models.Campaign, error) {
	campaign := &models.Campaign{}
	err := row.Scan(
		&campaign.ID,
		&campaign.Name,
		&campaign.Description,
		&campaign.Message,
		&campaign.MediaURL,
		&campaign.MediaType,
		&campaign.ScheduledTime,
		&campaign.Status,
		&campaign.UserID,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

// Create creates a new campaign. The caller assigns the UUID.
func (r *campaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	query := `
		INSERT INTO campaigns (id, name, description, message, media_url, media_type, scheduled_time, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		campaign.ID,
		campaign.Name,
		campaign.Description,
		campaign.Message,
		campaign.MediaURL,
		campaign.MediaType,
		campaign.ScheduledTime,
		campaign.Status,
		campaign.UserID,
	).Scan(&campaign.CreatedAt, &campaign.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

// GetByID retrieves a campaign by ID regardless of owner. Internal use only
// (scheduler sweep, report cache worker); API paths go through
// GetByIDForOwner.
func (r *campaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

	campaign, err := scanCampaign(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return campaign, nil
}

// GetByIDForOwner retrieves a campaign by ID scoped to its owner. A campaign
// owned by someone else is indistinguishable from a missing one.
func (r *campaignRepository) GetByIDForOwner(ctx context.Context, id string, userID int) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1 AND user_id = $2`

	campaign, err := scanCampaign(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return campaign, nil
}

// List retrieves the owner's campaigns, newest first, with optional status
// filter and pagination.
func (r *campaignRepository) List(ctx context.Context, userID int, filters CampaignFilters) ([]*models.Campaign, int, error) {
	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`SELECT ` + campaignColumns + ` FROM campaigns WHERE user_id = $1`)

	args := []interface{}{userID}
	argPos := 2

	if filters.Status != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")

	limit := filters.PageSize
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := (filters.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*models.Campaign{}
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	countQuery := "SELECT COUNT(*) FROM campaigns WHERE user_id = $1"
	countArgs := []interface{}{userID}

	if filters.Status != nil {
		countQuery += " AND status = $2"
		countArgs = append(countArgs, *filters.Status)
	}

	var totalCount int
	err = r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	return campaigns, totalCount, nil
}

// UpdateStatus updates campaign status
func (r *campaignRepository) UpdateStatus(ctx context.Context, id string, status models.CampaignStatus) error {
	query := `
		UPDATE campaigns
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update campaign status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ClaimForSending flips a campaign to sending only if it is still in
// draft or scheduled. The conditional update is the sole guard against
// duplicate dispatch.
func (r *campaignRepository) ClaimForSending(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE campaigns
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND status IN ($3, $4)
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		models.CampaignStatusSending,
		id,
		models.CampaignStatusDraft,
		models.CampaignStatusScheduled,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim campaign for sending: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows == 1, nil
}

// ListDue retrieves scheduled campaigns whose scheduled_time has elapsed.
// Selecting on status keeps repeated sweep ticks idempotent.
func (r *campaignRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns
		WHERE status = $1 AND scheduled_time <= $2
		ORDER BY scheduled_time ASC`

	rows, err := r.db.QueryContext(ctx, query, models.CampaignStatusScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*models.Campaign{}
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	return campaigns, nil
}

// Delete deletes an owner's campaign. Recipients go with it via the
// ON DELETE CASCADE foreign key.
func (r *campaignRepository) Delete(ctx context.Context, id string, userID int) error {
	query := `DELETE FROM campaigns WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
