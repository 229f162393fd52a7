package models

import "time"

// RecipientStatus represents valid recipient delivery statuses
type RecipientStatus string

const (
	RecipientStatusPending   RecipientStatus = "pending"
	RecipientStatusDelivered RecipientStatus = "delivered"
	RecipientStatusFailed    RecipientStatus = "failed"
)

// Recipient represents one phone number's delivery record within a campaign.
// Duplicates are preserved as separate rows.
type Recipient struct {
	ID           int             `json:"id" db:"id"`
	CampaignID   string          `json:"campaign_id" db:"campaign_id"`
	PhoneNumber  string          `json:"phone_number" db:"phone_number"`
	Status       RecipientStatus `json:"status" db:"status"`
	SentAt       *time.Time      `json:"sent_at,omitempty" db:"sent_at"`
	DeliveredAt  *time.Time      `json:"delivered_at,omitempty" db:"delivered_at"`
	ErrorMessage *string         `json:"error_message,omitempty" db:"error_message"`
}

// IsTerminal reports whether the recipient has reached a final status.
// Terminal recipients are never moved back to pending.
func (r *Recipient) IsTerminal() bool {
	return r.Status == RecipientStatusDelivered || r.Status == RecipientStatusFailed
}
