package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusPublished = "published"
	CampaignStatusPaused    = "paused"
	CampaignStatusCancelled = "cancelled"
	CampaignStatusCompleted = "completed"
)

var ValidCampaignTransitions = map[string][]string{
	CampaignStatusDraft:     {CampaignStatusPublished, CampaignStatusCancelled},
	CampaignStatusPublished: {CampaignStatusPaused, CampaignStatusCompleted, CampaignStatusCancelled},
	CampaignStatusPaused:    {CampaignStatusPublished, CampaignStatusCancelled},
	CampaignStatusCancelled: {},
	CampaignStatusCompleted: {},
}

func IsValidCampaignTransition(from, to string) bool {
	return transitionAllowed(ValidCampaignTransitions, from, to)
}

type Campaign struct {
	ID                  uuid.UUID  `json:"id"`
	BrandOwnerID        uuid.UUID  `json:"brand_owner_id"`
	Title               string     `json:"title"`
	Brief               *string    `json:"brief,omitempty"`
	Status              string     `json:"status"`
	Budget              int64      `json:"budget"` // minor units
	Currency            string     `json:"currency"`
	MaxCreators         int        `json:"max_creators"`
	CurrentCreators     int        `json:"current_creators"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// AcceptsApplications reports whether a creator may apply right now.
// Capacity is re-checked under the hire transaction; this is the apply-time
// precondition only.
func (c *Campaign) AcceptsApplications(now time.Time) bool {
	if c.Status != CampaignStatusPublished {
		return false
	}
	if c.ApplicationDeadline != nil && now.After(*c.ApplicationDeadline) {
		return false
	}
	return c.CurrentCreators < c.MaxCreators
}

type CampaignFilter struct {
	BrandOwnerID *uuid.UUID
	Status       *string
	Limit        int
	Offset       int
}
