package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wcm/internal/models"
)

type recipientRepository struct {
	db *sql.DB
}

// NewRecipientRepository creates a new recipient repository
func NewRecipientRepository(db *sql.DB) RecipientRepository {
	return &recipientRepository{db: db}
}

// CreateBatch inserts one pending recipient row per phone number inside a
// transaction. Duplicate numbers are preserved as separate rows.
func (r *recipientRepository) CreateBatch(ctx context.Context, campaignID string, phoneNumbers []string) ([]*models.Recipient, error) {
	recipients := make([]*models.Recipient, 0, len(phoneNumbers))
	if len(phoneNumbers) == 0 {
		return recipients, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipients (campaign_id, phone_number, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, phone := range phoneNumbers {
		recipient := &models.Recipient{
			CampaignID:  campaignID,
			PhoneNumber: phone,
			Status:      models.RecipientStatusPending,
		}

		err := stmt.QueryRowContext(ctx, campaignID, phone, models.RecipientStatusPending).Scan(&recipient.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create recipient: %w", err)
		}

		recipients = append(recipients, recipient)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return recipients, nil
}

// GetByCampaignID retrieves all recipients for a campaign
func (r *recipientRepository) GetByCampaignID(ctx context.Context, campaignID string) ([]*models.Recipient, error) {
	query := `
		SELECT id, campaign_id, phone_number, status, sent_at, delivered_at, error_message
		FROM recipients
		WHERE campaign_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipients: %w", err)
	}
	defer rows.Close()

	recipients := []*models.Recipient{}
	for rows.Next() {
		recipient := &models.Recipient{}
		err := rows.Scan(
			&recipient.ID,
			&recipient.CampaignID,
			&recipient.PhoneNumber,
			&recipient.Status,
			&recipient.SentAt,
			&recipient.DeliveredAt,
			&recipient.ErrorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		recipients = append(recipients, recipient)
	}

	return recipients, nil
}

// MarkDelivered moves a pending recipient to delivered. Terminal rows are
// left untouched.
func (r *recipientRepository) MarkDelivered(ctx context.Context, id int) error {
	query := `
		UPDATE recipients
		SET status = $1, sent_at = CURRENT_TIMESTAMP, delivered_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND status = $3
	`

	_, err := r.db.ExecContext(ctx, query, models.RecipientStatusDelivered, id, models.RecipientStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark recipient delivered: %w", err)
	}

	return nil
}

// MarkFailed moves a pending recipient to failed with a diagnostic message.
func (r *recipientRepository) MarkFailed(ctx context.Context, id int, errorMessage string) error {
	query := `
		UPDATE recipients
		SET status = $1, sent_at = CURRENT_TIMESTAMP, error_message = $2
		WHERE id = $3 AND status = $4
	`

	_, err := r.db.ExecContext(ctx, query, models.RecipientStatusFailed, errorMessage, id, models.RecipientStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark recipient failed: %w", err)
	}

	return nil
}
