package service

import (
	"context"
	"errors"
	"fmt"

	"wcm/internal/models"
	"wcm/internal/repository"
)

// ReportService computes delivery reports on demand and maintains the
// worker-side cache.
type ReportService struct {
	campaignRepo repository.CampaignRepository
	reportRepo   repository.ReportRepository
}

// NewReportService creates a new report service
func NewReportService(campaignRepo repository.CampaignRepository, reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{
		campaignRepo: campaignRepo,
		reportRepo:   reportRepo,
	}
}

// CampaignReport returns the delivery summary for one owned campaign.
func (s *ReportService) CampaignReport(ctx context.Context, campaignID string, userID int) (*models.Report, error) {
	if _, err := s.campaignRepo.GetByIDForOwner(ctx, campaignID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "campaign", ID: campaignID}
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	report, err := s.reportRepo.CampaignReport(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "campaign", ID: campaignID}
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return report, nil
}

// OwnerReports returns per-campaign summaries for all the owner's campaigns.
func (s *ReportService) OwnerReports(ctx context.Context, userID int) ([]*models.Report, error) {
	reports, err := s.reportRepo.OwnerReports(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}
	return reports, nil
}

// OwnerSummary returns the rolled-up totals across all the owner's campaigns.
func (s *ReportService) OwnerSummary(ctx context.Context, userID int) (*models.ReportSummary, error) {
	summary, err := s.reportRepo.OwnerSummary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report summary: %w", err)
	}
	return summary, nil
}

// RefreshCache recomputes one campaign's report and writes it to the cache
// table. Called by the worker for each report job.
func (s *ReportService) RefreshCache(ctx context.Context, campaignID string) error {
	report, err := s.reportRepo.CampaignReport(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Campaign deleted between job publish and consume; nothing to do.
			return nil
		}
		return fmt.Errorf("failed to compute report: %w", err)
	}

	if err := s.reportRepo.UpsertCache(ctx, report); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}

	return nil
}
