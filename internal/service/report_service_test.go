package service

import (
	"context"
	"errors"
	"testing"

	"wcm/internal/models"
	"wcm/internal/repository"
)

func TestCampaignReport_Success(t *testing.T) {
	campaignRepo := NewMockCampaignRepository()
	reportRepo := NewMockReportRepository()
	reportRepo.CampaignReportFunc = func(ctx context.Context, campaignID string) (*models.Report, error) {
		return &models.Report{
			CampaignID:  campaignID,
			Status:      models.CampaignStatusCompleted,
			Total:       10,
			Delivered:   8,
			Failed:      2,
			SuccessRate: models.SuccessRate(8, 10),
		}, nil
	}
	svc := NewReportService(campaignRepo, reportRepo)

	report, err := svc.CampaignReport(context.Background(), "c1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.SuccessRate != 80.00 {
		t.Errorf("expected success rate 80.00, got %v", report.SuccessRate)
	}
	if report.Delivered+report.Failed+report.Pending != report.Total {
		t.Error("recipient counts do not add up to total")
	}
}

func TestCampaignReport_NotOwned(t *testing.T) {
	campaignRepo := NewMockCampaignRepository()
	campaignRepo.GetByIDForOwnerFunc = func(ctx context.Context, id string, userID int) (*models.Campaign, error) {
		return nil, repository.ErrNotFound
	}
	svc := NewReportService(campaignRepo, NewMockReportRepository())

	_, err := svc.CampaignReport(context.Background(), "c1", 99)

	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError for foreign campaign, got %v", err)
	}
}

func TestRefreshCache_WritesReport(t *testing.T) {
	reportRepo := NewMockReportRepository()
	reportRepo.CampaignReportFunc = func(ctx context.Context, campaignID string) (*models.Report, error) {
		return &models.Report{CampaignID: campaignID, Total: 3, Delivered: 3, SuccessRate: 100}, nil
	}
	svc := NewReportService(NewMockCampaignRepository(), reportRepo)

	if err := svc.RefreshCache(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reportRepo.Upserted) != 1 {
		t.Fatalf("expected 1 cache upsert, got %d", len(reportRepo.Upserted))
	}
	if reportRepo.Upserted[0].CampaignID != "c1" {
		t.Errorf("cached the wrong campaign: %s", reportRepo.Upserted[0].CampaignID)
	}
}

func TestRefreshCache_DeletedCampaignIsNoop(t *testing.T) {
	reportRepo := NewMockReportRepository()
	reportRepo.CampaignReportFunc = func(ctx context.Context, campaignID string) (*models.Report, error) {
		return nil, repository.ErrNotFound
	}
	svc := NewReportService(NewMockCampaignRepository(), reportRepo)

	if err := svc.RefreshCache(context.Background(), "gone"); err != nil {
		t.Fatalf("expected nil for a deleted campaign, got %v", err)
	}
	if len(reportRepo.Upserted) != 0 {
		t.Error("expected no cache write for a deleted campaign")
	}
}

func TestSuccessRate(t *testing.T) {
	cases := []struct {
		delivered int
		total     int
		want      float64
	}{
		{8, 10, 80.00},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{0, 5, 0},
		{5, 5, 100},
		{0, 0, 0}, // no recipients must not divide by zero
	}

	for _, tc := range cases {
		if got := models.SuccessRate(tc.delivered, tc.total); got != tc.want {
			t.Errorf("SuccessRate(%d, %d) = %v, want %v", tc.delivered, tc.total, got, tc.want)
		}
	}
}
