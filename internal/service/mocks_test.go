package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wcm/internal/models"
	"wcm/internal/repository"
)

// MockUserRepository mocks repository.UserRepository
type MockUserRepository struct {
	CreateFunc     func(ctx context.Context, user *models.User) error
	GetByIDFunc    func(ctx context.Context, id int) (*models.User, error)
	GetByLoginFunc func(ctx context.Context, login string) (*models.User, error)

	Calls map[string]int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Calls: make(map[string]int)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	user.CreatedAt = time.Now()
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	m.Calls["GetByLogin"]++
	if m.GetByLoginFunc != nil {
		return m.GetByLoginFunc(ctx, login)
	}
	return nil, repository.ErrNotFound
}

// MockCampaignRepository mocks repository.CampaignRepository. Call counts are
// mutex guarded because the send fan-out touches the repo from goroutines.
type MockCampaignRepository struct {
	CreateFunc          func(ctx context.Context, campaign *models.Campaign) error
	GetByIDFunc         func(ctx context.Context, id string) (*models.Campaign, error)
	GetByIDForOwnerFunc func(ctx context.Context, id string, userID int) (*models.Campaign, error)
	ListFunc            func(ctx context.Context, userID int, filters repository.CampaignFilters) ([]*models.Campaign, int, error)
	UpdateStatusFunc    func(ctx context.Context, id string, status models.CampaignStatus) error
	ClaimForSendingFunc func(ctx context.Context, id string) (bool, error)
	ListDueFunc         func(ctx context.Context, now time.Time) ([]*models.Campaign, error)
	DeleteFunc          func(ctx context.Context, id string, userID int) error

	mu       sync.Mutex
	calls    map[string]int
	statuses map[string]models.CampaignStatus // statuses recorded via UpdateStatus
}

func NewMockCampaignRepository() *MockCampaignRepository {
	return &MockCampaignRepository{
		calls:    make(map[string]int),
		statuses: make(map[string]models.CampaignStatus),
	}
}

func (m *MockCampaignRepository) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// RecordedStatus returns the last status written through UpdateStatus.
func (m *MockCampaignRepository) RecordedStatus(id string) (models.CampaignStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.statuses[id]
	return status, ok
}

func (m *MockCampaignRepository) record(method string) {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
}

func (m *MockCampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	m.record("Create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, campaign)
	}
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = time.Now()
	return nil
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	m.record("GetByID")
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return NewTestCampaign(id), nil
}

func (m *MockCampaignRepository) GetByIDForOwner(ctx context.Context, id string, userID int) (*models.Campaign, error) {
	m.record("GetByIDForOwner")
	if m.GetByIDForOwnerFunc != nil {
		return m.GetByIDForOwnerFunc(ctx, id, userID)
	}
	campaign := NewTestCampaign(id)
	campaign.UserID = userID
	return campaign, nil
}

func (m *MockCampaignRepository) List(ctx context.Context, userID int, filters repository.CampaignFilters) ([]*models.Campaign, int, error) {
	m.record("List")
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, filters)
	}
	return []*models.Campaign{}, 0, nil
}

func (m *MockCampaignRepository) UpdateStatus(ctx context.Context, id string, status models.CampaignStatus) error {
	m.record("UpdateStatus")
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	m.mu.Lock()
	m.statuses[id] = status
	m.mu.Unlock()
	return nil
}

func (m *MockCampaignRepository) ClaimForSending(ctx context.Context, id string) (bool, error) {
	m.record("ClaimForSending")
	if m.ClaimForSendingFunc != nil {
		return m.ClaimForSendingFunc(ctx, id)
	}
	return true, nil
}

func (m *MockCampaignRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Campaign, error) {
	m.record("ListDue")
	if m.ListDueFunc != nil {
		return m.ListDueFunc(ctx, now)
	}
	return []*models.Campaign{}, nil
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id string, userID int) error {
	m.record("Delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, userID)
	}
	return nil
}

// MockRecipientRepository mocks repository.RecipientRepository and records
// terminal statuses per recipient. MarkDelivered/MarkFailed run concurrently
// during a send, so all state is mutex guarded.
type MockRecipientRepository struct {
	CreateBatchFunc     func(ctx context.Context, campaignID string, phoneNumbers []string) ([]*models.Recipient, error)
	GetByCampaignIDFunc func(ctx context.Context, campaignID string) ([]*models.Recipient, error)
	MarkDeliveredFunc   func(ctx context.Context, id int) error
	MarkFailedFunc      func(ctx context.Context, id int, errorMessage string) error

	mu       sync.Mutex
	calls    map[string]int
	statuses map[int]models.RecipientStatus
	errors   map[int]string
}

func NewMockRecipientRepository() *MockRecipientRepository {
	return &MockRecipientRepository{
		calls:    make(map[string]int),
		statuses: make(map[int]models.RecipientStatus),
		errors:   make(map[int]string),
	}
}

func (m *MockRecipientRepository) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// RecordedStatus returns the terminal status written for a recipient.
func (m *MockRecipientRepository) RecordedStatus(id int) (models.RecipientStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.statuses[id]
	return status, ok
}

// RecordedError returns the error message written for a failed recipient.
func (m *MockRecipientRepository) RecordedError(id int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[id]
}

func (m *MockRecipientRepository) record(method string) {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
}

func (m *MockRecipientRepository) CreateBatch(ctx context.Context, campaignID string, phoneNumbers []string) ([]*models.Recipient, error) {
	m.record("CreateBatch")
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, campaignID, phoneNumbers)
	}
	recipients := make([]*models.Recipient, len(phoneNumbers))
	for i, phone := range phoneNumbers {
		recipients[i] = &models.Recipient{
			ID:          i + 1,
			CampaignID:  campaignID,
			PhoneNumber: phone,
			Status:      models.RecipientStatusPending,
		}
	}
	return recipients, nil
}

func (m *MockRecipientRepository) GetByCampaignID(ctx context.Context, campaignID string) ([]*models.Recipient, error) {
	m.record("GetByCampaignID")
	if m.GetByCampaignIDFunc != nil {
		return m.GetByCampaignIDFunc(ctx, campaignID)
	}
	return []*models.Recipient{}, nil
}

func (m *MockRecipientRepository) MarkDelivered(ctx context.Context, id int) error {
	m.record("MarkDelivered")
	if m.MarkDeliveredFunc != nil {
		return m.MarkDeliveredFunc(ctx, id)
	}
	m.mu.Lock()
	m.statuses[id] = models.RecipientStatusDelivered
	m.mu.Unlock()
	return nil
}

func (m *MockRecipientRepository) MarkFailed(ctx context.Context, id int, errorMessage string) error {
	m.record("MarkFailed")
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, id, errorMessage)
	}
	m.mu.Lock()
	m.statuses[id] = models.RecipientStatusFailed
	m.errors[id] = errorMessage
	m.mu.Unlock()
	return nil
}

// MockReportRepository mocks repository.ReportRepository
type MockReportRepository struct {
	CampaignReportFunc func(ctx context.Context, campaignID string) (*models.Report, error)
	OwnerReportsFunc   func(ctx context.Context, userID int) ([]*models.Report, error)
	OwnerSummaryFunc   func(ctx context.Context, userID int) (*models.ReportSummary, error)
	UpsertCacheFunc    func(ctx context.Context, report *models.Report) error

	Calls    map[string]int
	Upserted []*models.Report
}

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{Calls: make(map[string]int)}
}

func (m *MockReportRepository) CampaignReport(ctx context.Context, campaignID string) (*models.Report, error) {
	m.Calls["CampaignReport"]++
	if m.CampaignReportFunc != nil {
		return m.CampaignReportFunc(ctx, campaignID)
	}
	return &models.Report{CampaignID: campaignID}, nil
}

func (m *MockReportRepository) OwnerReports(ctx context.Context, userID int) ([]*models.Report, error) {
	m.Calls["OwnerReports"]++
	if m.OwnerReportsFunc != nil {
		return m.OwnerReportsFunc(ctx, userID)
	}
	return []*models.Report{}, nil
}

func (m *MockReportRepository) OwnerSummary(ctx context.Context, userID int) (*models.ReportSummary, error) {
	m.Calls["OwnerSummary"]++
	if m.OwnerSummaryFunc != nil {
		return m.OwnerSummaryFunc(ctx, userID)
	}
	return &models.ReportSummary{}, nil
}

func (m *MockReportRepository) UpsertCache(ctx context.Context, report *models.Report) error {
	m.Calls["UpsertCache"]++
	if m.UpsertCacheFunc != nil {
		return m.UpsertCacheFunc(ctx, report)
	}
	m.Upserted = append(m.Upserted, report)
	return nil
}

// MockReportPublisher mocks the report job publisher
type MockReportPublisher struct {
	PublishReportJobFunc func(campaignID string) error

	mu        sync.Mutex
	Published []string
}

func NewMockReportPublisher() *MockReportPublisher {
	return &MockReportPublisher{}
}

func (m *MockReportPublisher) PublishReportJob(campaignID string) error {
	if m.PublishReportJobFunc != nil {
		return m.PublishReportJobFunc(campaignID)
	}
	m.mu.Lock()
	m.Published = append(m.Published, campaignID)
	m.mu.Unlock()
	return nil
}

func (m *MockReportPublisher) PublishedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}

// Test fixtures

// NewTestCampaign returns a draft campaign with the given ID.
func NewTestCampaign(id string) *models.Campaign {
	return &models.Campaign{
		ID:        id,
		Name:      "Test Campaign",
		Message:   "Hello there!",
		Status:    models.CampaignStatusDraft,
		UserID:    1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// NewTestRecipients returns count pending recipients for a campaign.
func NewTestRecipients(campaignID string, count int) []*models.Recipient {
	recipients := make([]*models.Recipient, count)
	for i := 0; i < count; i++ {
		recipients[i] = &models.Recipient{
			ID:          i + 1,
			CampaignID:  campaignID,
			PhoneNumber: fmt.Sprintf("+25470001%04d", i+1),
			Status:      models.RecipientStatusPending,
		}
	}
	return recipients
}
