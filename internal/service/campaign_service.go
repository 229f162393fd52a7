package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"wcm/internal/models"
	"wcm/internal/repository"
)

// ReportPublisher enqueues report refresh jobs after a send completes.
type ReportPublisher interface {
	PublishReportJob(campaignID string) error
}

// CampaignService handles campaign lifecycle and the send pipeline
type CampaignService struct {
	campaignRepo  repository.CampaignRepository
	recipientRepo repository.RecipientRepository
	sender        *SenderService
	publisher     ReportPublisher

	sends sync.WaitGroup // in-flight send fan-outs
}

// NewCampaignService creates a new campaign service. publisher may be nil
// when no queue is configured; report cache refreshes are then skipped.
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	recipientRepo repository.RecipientRepository,
	sender *SenderService,
	publisher ReportPublisher,
) *CampaignService {
	return &CampaignService{
		campaignRepo:  campaignRepo,
		recipientRepo: recipientRepo,
		sender:        sender,
		publisher:     publisher,
	}
}

// CreateCampaignRequest represents a request to create a campaign
type CreateCampaignRequest struct {
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	Message       string     `json:"message"`
	MediaURL      *string    `json:"media_url,omitempty"`
	MediaType     *string    `json:"media_type,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	PhoneNumbers  []string   `json:"phone_numbers"`
}

// Validate validates the create campaign request
func (r *CreateCampaignRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Message == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}

// SendCampaignResult represents the result of triggering a send
type SendCampaignResult struct {
	CampaignID string                `json:"campaign_id"`
	Recipients int                   `json:"recipients"`
	Status     models.CampaignStatus `json:"status"`
}

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// CreateCampaign creates a new campaign with its recipient rows. The
// campaign starts in draft, or scheduled when scheduled_time is in the
// future. Recipient duplicates are kept as separate rows.
func (s *CampaignService) CreateCampaign(ctx context.Context, userID int, req *CreateCampaignRequest) (*models.Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	campaign := &models.Campaign{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Description:   req.Description,
		Message:       req.Message,
		MediaURL:      req.MediaURL,
		MediaType:     req.MediaType,
		ScheduledTime: req.ScheduledTime,
		Status:        models.CampaignStatusDraft,
		UserID:        userID,
	}

	if campaign.IsScheduled() {
		campaign.Status = models.CampaignStatusScheduled
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	recipients, err := s.recipientRepo.CreateBatch(ctx, campaign.ID, req.PhoneNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipients: %w", err)
	}
	campaign.Recipients = recipients

	return campaign, nil
}

// GetCampaign retrieves an owner's campaign with its recipients attached.
func (s *CampaignService) GetCampaign(ctx context.Context, id string, userID int) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByIDForOwner(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "campaign", ID: id}
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	recipients, err := s.recipientRepo.GetByCampaignID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipients: %w", err)
	}
	campaign.Recipients = recipients

	return campaign, nil
}

// ListCampaigns lists an owner's campaigns, newest first.
func (s *CampaignService) ListCampaigns(ctx context.Context, userID int, filters repository.CampaignFilters) ([]*models.Campaign, *PaginationInfo, error) {
	campaigns, total, err := s.campaignRepo.List(ctx, userID, filters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	pagination := &PaginationInfo{
		Page:       filters.Page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}

	return campaigns, pagination, nil
}

// UpdateStatus sets a campaign's status. Only the status value itself is
// validated; transition legality is enforced by the send path.
func (s *CampaignService) UpdateStatus(ctx context.Context, id string, userID int, status models.CampaignStatus) error {
	if !models.ValidCampaignStatus(status) {
		return &ValidationError{Message: fmt.Sprintf("invalid status: %s", status)}
	}

	if _, err := s.campaignRepo.GetByIDForOwner(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "campaign", ID: id}
		}
		return fmt.Errorf("failed to get campaign: %w", err)
	}

	if err := s.campaignRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "campaign", ID: id}
		}
		return fmt.Errorf("failed to update status: %w", err)
	}

	return nil
}

// DeleteCampaign deletes an owner's campaign; recipients cascade with it.
func (s *CampaignService) DeleteCampaign(ctx context.Context, id string, userID int) error {
	if err := s.campaignRepo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "campaign", ID: id}
		}
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// SendCampaign triggers the send pipeline for an owner's campaign. The
// status flip to sending is synchronous; delivery runs in the background.
func (s *CampaignService) SendCampaign(ctx context.Context, id string, userID int) (*SendCampaignResult, error) {
	if _, err := s.campaignRepo.GetByIDForOwner(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "campaign", ID: id}
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return s.startSend(ctx, id)
}

// TriggerSend starts the send pipeline without owner scoping. Used by the
// scheduler sweep, which acts on campaigns it selected itself.
func (s *CampaignService) TriggerSend(ctx context.Context, id string) (*SendCampaignResult, error) {
	return s.startSend(ctx, id)
}

// startSend claims the campaign, loads its recipients and launches the
// delivery fan-out. The claim is a conditional update, so a concurrent
// trigger (user vs sweep) wins exactly once.
func (s *CampaignService) startSend(ctx context.Context, id string) (*SendCampaignResult, error) {
	claimed, err := s.campaignRepo.ClaimForSending(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to claim campaign: %w", err)
	}
	if !claimed {
		campaign, err := s.campaignRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &NotFoundError{Resource: "campaign", ID: id}
			}
			return nil, fmt.Errorf("failed to get campaign: %w", err)
		}
		return nil, &InvalidStateError{CampaignID: id, Status: campaign.Status}
	}

	recipients, err := s.recipientRepo.GetByCampaignID(ctx, id)
	if err != nil {
		// Send setup failed after the claim: park the campaign in failed
		// rather than leaving it stuck in sending.
		if updateErr := s.campaignRepo.UpdateStatus(ctx, id, models.CampaignStatusFailed); updateErr != nil {
			log.Printf("Failed to mark campaign %s failed: %v", id, updateErr)
		}
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}

	s.sends.Add(1)
	go func() {
		defer s.sends.Done()
		// The request context dies with the HTTP response; deliveries
		// run against a fresh one.
		s.ProcessSend(context.Background(), id, recipients)
	}()

	return &SendCampaignResult{
		CampaignID: id,
		Recipients: len(recipients),
		Status:     models.CampaignStatusSending,
	}, nil
}

// ProcessSend resolves every recipient to a terminal status and then marks
// the campaign completed. The completed transition is sequenced strictly
// after the last recipient update; a campaign with zero recipients
// completes immediately.
func (s *CampaignService) ProcessSend(ctx context.Context, campaignID string, recipients []*models.Recipient) {
	var wg sync.WaitGroup
	for _, recipient := range recipients {
		if recipient.IsTerminal() {
			continue
		}

		wg.Add(1)
		go func(recipient *models.Recipient) {
			defer wg.Done()

			result := s.sender.Deliver(recipient.PhoneNumber)
			if result.Delivered {
				if err := s.recipientRepo.MarkDelivered(ctx, recipient.ID); err != nil {
					log.Printf("Failed to mark recipient %d delivered: %v", recipient.ID, err)
				}
			} else {
				if err := s.recipientRepo.MarkFailed(ctx, recipient.ID, result.ErrorMessage); err != nil {
					log.Printf("Failed to mark recipient %d failed: %v", recipient.ID, err)
				}
			}
		}(recipient)
	}
	wg.Wait()

	if err := s.campaignRepo.UpdateStatus(ctx, campaignID, models.CampaignStatusCompleted); err != nil {
		log.Printf("Failed to complete campaign %s: %v", campaignID, err)
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReportJob(campaignID); err != nil {
			// Worker cache refresh is best effort; reads recompute anyway.
			log.Printf("Warning: failed to publish report job for campaign %s: %v", campaignID, err)
		}
	}
}

// WaitForSends blocks until all in-flight send fan-outs have finished.
// Used on shutdown and in tests.
func (s *CampaignService) WaitForSends() {
	s.sends.Wait()
}
