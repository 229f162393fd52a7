package models

import (
	"fmt"
	"time"
)

// CampaignStatus represents valid campaign statuses
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSending   CampaignStatus = "sending"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusFailed    CampaignStatus = "failed"
)

// ValidCampaignStatus reports whether s is a known status value.
func ValidCampaignStatus(s CampaignStatus) bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusScheduled, CampaignStatusSending,
		CampaignStatusCompleted, CampaignStatusFailed:
		return true
	}
	return false
}

// Campaign represents a single outbound message definition plus its
// recipient list and lifecycle status.
type Campaign struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Description   *string        `json:"description,omitempty" db:"description"`
	Message       string         `json:"message" db:"message"`
	MediaURL      *string        `json:"media_url,omitempty" db:"media_url"`
	MediaType     *string        `json:"media_type,omitempty" db:"media_type"`
	ScheduledTime *time.Time     `json:"scheduled_time,omitempty" db:"scheduled_time"`
	Status        CampaignStatus `json:"status" db:"status"`
	UserID        int            `json:"user_id" db:"user_id"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`

	// Recipients is attached on detail reads only.
	Recipients []*Recipient `json:"recipients,omitempty" db:"-"`
}

// Validate checks if the campaign fields are valid
func (c *Campaign) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("campaign name is required")
	}
	if c.Message == "" {
		return fmt.Errorf("campaign message is required")
	}
	return nil
}

// IsScheduled checks if campaign is scheduled for the future
func (c *Campaign) IsScheduled() bool {
	return c.ScheduledTime != nil && c.ScheduledTime.After(time.Now())
}

// CanSend checks if campaign can enter the send pipeline
func (c *Campaign) CanSend() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusScheduled
}
