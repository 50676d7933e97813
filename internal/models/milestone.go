package models

import (
	"time"

	"github.com/google/uuid"
)

// Milestone statuses
const (
	MilestoneStatusPending   = "pending"
	MilestoneStatusReady     = "ready"
	MilestoneStatusPaid      = "paid"
	MilestoneStatusCancelled = "cancelled"
)

// Milestone trigger types. CONTRACT_SIGNED milestones are flipped to ready
// inside the contract-signing transaction; DATE milestones by the worker when
// due_date passes; MANUAL and DELIVERABLE_APPROVED by an explicit brand action.
const (
	MilestoneTriggerContractSigned      = "contract_signed"
	MilestoneTriggerManual              = "manual"
	MilestoneTriggerDate                = "date"
	MilestoneTriggerDeliverableApproved = "deliverable_approved"
)

var ValidMilestoneTransitions = map[string][]string{
	MilestoneStatusPending:   {MilestoneStatusReady, MilestoneStatusCancelled},
	MilestoneStatusReady:     {MilestoneStatusPaid, MilestoneStatusCancelled},
	MilestoneStatusPaid:      {},
	MilestoneStatusCancelled: {},
}

func IsValidMilestoneTransition(from, to string) bool {
	return transitionAllowed(ValidMilestoneTransitions, from, to)
}

func IsValidMilestoneTrigger(trigger string) bool {
	switch trigger {
	case MilestoneTriggerContractSigned, MilestoneTriggerManual,
		MilestoneTriggerDate, MilestoneTriggerDeliverableApproved:
		return true
	}
	return false
}

type Milestone struct {
	ID          uuid.UUID  `json:"id"`
	ContractID  uuid.UUID  `json:"contract_id"`
	Title       string     `json:"title"`
	Amount      int64      `json:"amount"` // minor units
	Status      string     `json:"status"`
	TriggerType string     `json:"trigger_type"`
	OrderIndex  int        `json:"order_index"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
