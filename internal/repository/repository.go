package repository

import (
	"context"
	"errors"
	"time"

	"wcm/internal/models"
)

// ErrNotFound is returned when a row does not exist or is not visible to the
// requesting owner. Callers translate it into their own error types.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint is violated.
var ErrDuplicate = errors.New("duplicate")

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}

// CampaignFilters defines filters for listing campaigns
type CampaignFilters struct {
	Page     int
	PageSize int
	Status   *models.CampaignStatus
}

// CampaignRepository defines campaign data access operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	GetByIDForOwner(ctx context.Context, id string, userID int) (*models.Campaign, error)
	List(ctx context.Context, userID int, filters CampaignFilters) ([]*models.Campaign, int, error)
	UpdateStatus(ctx context.Context, id string, status models.CampaignStatus) error
	// ClaimForSending atomically flips a draft/scheduled campaign to sending.
	// It reports false when the campaign was not claimable, which is the only
	// mutual exclusion between a user-triggered send and the scheduler sweep.
	ClaimForSending(ctx context.Context, id string) (bool, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.Campaign, error)
	Delete(ctx context.Context, id string, userID int) error
}

// RecipientRepository defines recipient data access operations
type RecipientRepository interface {
	CreateBatch(ctx context.Context, campaignID string, phoneNumbers []string) ([]*models.Recipient, error)
	GetByCampaignID(ctx context.Context, campaignID string) ([]*models.Recipient, error)
	MarkDelivered(ctx context.Context, id int) error
	MarkFailed(ctx context.Context, id int, errorMessage string) error
}

// ReportRepository defines delivery report aggregation and caching
type ReportRepository interface {
	CampaignReport(ctx context.Context, campaignID string) (*models.Report, error)
	OwnerReports(ctx context.Context, userID int) ([]*models.Report, error)
	OwnerSummary(ctx context.Context, userID int) (*models.ReportSummary, error)
	UpsertCache(ctx context.Context, report *models.Report) error
}
