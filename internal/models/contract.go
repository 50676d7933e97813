package models

import (
	"time"

	"github.com/google/uuid"
)

// Contract statuses
const (
	ContractStatusDraft                   = "draft"
	ContractStatusPendingCreatorSignature = "pending_creator_signature"
	ContractStatusActive                  = "active"
	ContractStatusCompleted               = "completed"
	ContractStatusCancelled               = "cancelled"
)

var ValidContractTransitions = map[string][]string{
	ContractStatusDraft:                   {ContractStatusPendingCreatorSignature, ContractStatusCancelled},
	ContractStatusPendingCreatorSignature: {ContractStatusActive, ContractStatusCancelled},
	ContractStatusActive:                  {ContractStatusCompleted, ContractStatusCancelled},
	ContractStatusCompleted:               {},
	ContractStatusCancelled:               {},
}

func IsValidContractTransition(from, to string) bool {
	return transitionAllowed(ValidContractTransitions, from, to)
}

// Contract is the binding agreement created once a creator is hired.
// At most one per application, enforced by the store.
type Contract struct {
	ID            uuid.UUID  `json:"id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	BrandUserID   uuid.UUID  `json:"brand_user_id"`
	CreatorUserID uuid.UUID  `json:"creator_user_id"`
	Status        string     `json:"status"`
	Terms         *string    `json:"terms,omitempty"`
	TotalAmount   int64      `json:"total_amount"` // minor units
	Currency      string     `json:"currency"`
	SignedAt      *time.Time `json:"signed_at,omitempty"`
	CancelReason  *string    `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ContractFilter struct {
	BrandUserID   *uuid.UUID
	CreatorUserID *uuid.UUID
	Status        *string
	Limit         int
	Offset        int
}
