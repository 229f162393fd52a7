package service

import (
	"fmt"

	"wcm/internal/models"
)

// NotFoundError represents a resource not found error. Cross-owner access
// surfaces as this same error so existence never leaks.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// InvalidStateError represents an operation attempted against a campaign in
// the wrong lifecycle state (e.g. sending an already-sent campaign).
type InvalidStateError struct {
	CampaignID string
	Status     models.CampaignStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("campaign %s cannot be sent: status is %s", e.CampaignID, e.Status)
}

// ConflictError represents a conflict error (e.g., duplicate username)
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

// AuthError represents failed authentication. The message is deliberately
// generic for bad credentials.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}
