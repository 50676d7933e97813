package models

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses
const (
	ApplicationStatusApplied     = "applied"
	ApplicationStatusUnderReview = "under_review"
	ApplicationStatusShortlisted = "shortlisted"
	ApplicationStatusHired       = "hired"
	ApplicationStatusRejected    = "rejected"
	ApplicationStatusWithdrawn   = "withdrawn"
)

// Valid state transitions: from -> []to
var ValidApplicationTransitions = map[string][]string{
	ApplicationStatusApplied:     {ApplicationStatusUnderReview, ApplicationStatusRejected, ApplicationStatusWithdrawn},
	ApplicationStatusUnderReview: {ApplicationStatusShortlisted, ApplicationStatusRejected, ApplicationStatusWithdrawn},
	ApplicationStatusShortlisted: {ApplicationStatusHired, ApplicationStatusRejected, ApplicationStatusWithdrawn},
	ApplicationStatusHired:       {},
	ApplicationStatusRejected:    {},
	ApplicationStatusWithdrawn:   {},
}

func IsValidApplicationTransition(from, to string) bool {
	return transitionAllowed(ValidApplicationTransitions, from, to)
}

func transitionAllowed(table map[string][]string, from, to string) bool {
	allowed, ok := table[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Application is a creator's request to join a campaign. One per
// (campaign_id, creator_owner_id) pair, enforced by the store.
type Application struct {
	ID              uuid.UUID  `json:"id"`
	CampaignID      uuid.UUID  `json:"campaign_id"`
	CreatorOwnerID  uuid.UUID  `json:"creator_owner_id"`
	Status          string     `json:"status"`
	Pitch           string     `json:"pitch"`
	ProposedRate    int64      `json:"proposed_rate"` // minor units
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	AppliedAt       time.Time  `json:"applied_at"`
	ShortlistedAt   *time.Time `json:"shortlisted_at,omitempty"`
	HiredAt         *time.Time `json:"hired_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	WithdrawnAt     *time.Time `json:"withdrawn_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	CampaignID     *uuid.UUID
	CreatorOwnerID *uuid.UUID
	BrandOwnerID   *uuid.UUID // through campaigns
	Status         *string
	Limit          int
	Offset         int
}
