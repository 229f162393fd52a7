package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wcm/internal/models"
)

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

// CampaignReport computes the delivery summary for one campaign straight
// from recipient rows. The success rate is filled in by the caller.
func (r *reportRepository) CampaignReport(ctx context.Context, campaignID string) (*models.Report, error) {
	query := `
		SELECT
			c.id,
			c.name,
			c.status,
			COUNT(rc.id) AS total,
			COUNT(rc.id) FILTER (WHERE rc.status = 'delivered') AS delivered,
			COUNT(rc.id) FILTER (WHERE rc.status = 'failed') AS failed,
			COUNT(rc.id) FILTER (WHERE rc.status = 'pending') AS pending
		FROM campaigns c
		LEFT JOIN recipients rc ON rc.campaign_id = c.id
		WHERE c.id = $1
		GROUP BY c.id, c.name, c.status
	`

	report := &models.Report{}
	err := r.db.QueryRowContext(ctx, query, campaignID).Scan(
		&report.CampaignID,
		&report.CampaignName,
		&report.Status,
		&report.Total,
		&report.Delivered,
		&report.Failed,
		&report.Pending,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign report: %w", err)
	}

	report.SuccessRate = models.SuccessRate(report.Delivered, report.Total)
	return report, nil
}

// OwnerReports computes per-campaign summaries for all of an owner's
// campaigns, newest first. Campaigns without recipients appear with zero
// counts.
func (r *reportRepository) OwnerReports(ctx context.Context, userID int) ([]*models.Report, error) {
	query := `
		SELECT
			c.id,
			c.name,
			c.status,
			COUNT(rc.id) AS total,
			COUNT(rc.id) FILTER (WHERE rc.status = 'delivered') AS delivered,
			COUNT(rc.id) FILTER (WHERE rc.status = 'failed') AS failed,
			COUNT(rc.id) FILTER (WHERE rc.status = 'pending') AS pending
		FROM campaigns c
		LEFT JOIN recipients rc ON rc.campaign_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id, c.name, c.status
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}
	defer rows.Close()

	reports := []*models.Report{}
	for rows.Next() {
		report := &models.Report{}
		err := rows.Scan(
			&report.CampaignID,
			&report.CampaignName,
			&report.Status,
			&report.Total,
			&report.Delivered,
			&report.Failed,
			&report.Pending,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		report.SuccessRate = models.SuccessRate(report.Delivered, report.Total)
		reports = append(reports, report)
	}

	return reports, nil
}

// OwnerSummary rolls recipient counts up across all of an owner's campaigns.
func (r *reportRepository) OwnerSummary(ctx context.Context, userID int) (*models.ReportSummary, error) {
	query := `
		SELECT
			COUNT(DISTINCT c.id) AS campaigns,
			COUNT(rc.id) AS total,
			COUNT(rc.id) FILTER (WHERE rc.status = 'delivered') AS delivered,
			COUNT(rc.id) FILTER (WHERE rc.status = 'failed') AS failed,
			COUNT(rc.id) FILTER (WHERE rc.status = 'pending') AS pending
		FROM campaigns c
		LEFT JOIN recipients rc ON rc.campaign_id = c.id
		WHERE c.user_id = $1
	`

	summary := &models.ReportSummary{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&summary.Campaigns,
		&summary.Total,
		&summary.Delivered,
		&summary.Failed,
		&summary.Pending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get report summary: %w", err)
	}

	summary.SuccessRate = models.SuccessRate(summary.Delivered, summary.Total)
	return summary, nil
}

// UpsertCache writes a computed report into the reports cache table. Only
// the worker calls this; reads never depend on the cache.
func (r *reportRepository) UpsertCache(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (campaign_id, total, delivered, failed, pending, success_rate, refreshed_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		ON CONFLICT (campaign_id) DO UPDATE SET
			total = EXCLUDED.total,
			delivered = EXCLUDED.delivered,
			failed = EXCLUDED.failed,
			pending = EXCLUDED.pending,
			success_rate = EXCLUDED.success_rate,
			refreshed_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		report.CampaignID,
		report.Total,
		report.Delivered,
		report.Failed,
		report.Pending,
		report.SuccessRate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert report cache: %w", err)
	}

	return nil
}
