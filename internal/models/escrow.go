package models

import (
	"time"

	"github.com/google/uuid"
)

// Escrow statuses
const (
	EscrowStatusPendingDeposit    = "pending_deposit"
	EscrowStatusFunded            = "funded"
	EscrowStatusPartiallyReleased = "partially_released"
	EscrowStatusFullyReleased     = "fully_released"
	EscrowStatusRefunded          = "refunded"
	EscrowStatusDisputed          = "disputed"
)

// Disputed resolution paths return to a funded state matching the released
// amount, or refund the remainder.
var ValidEscrowTransitions = map[string][]string{
	EscrowStatusPendingDeposit:    {EscrowStatusFunded},
	EscrowStatusFunded:            {EscrowStatusPartiallyReleased, EscrowStatusFullyReleased, EscrowStatusRefunded, EscrowStatusDisputed},
	EscrowStatusPartiallyReleased: {EscrowStatusFullyReleased, EscrowStatusRefunded, EscrowStatusDisputed},
	EscrowStatusFullyReleased:     {},
	EscrowStatusRefunded:          {},
	EscrowStatusDisputed:          {EscrowStatusFunded, EscrowStatusPartiallyReleased, EscrowStatusRefunded},
}

func IsValidEscrowTransition(from, to string) bool {
	return transitionAllowed(ValidEscrowTransitions, from, to)
}

// Releasable reports whether milestone payments may be created against the
// escrow in its current status.
func (e *EscrowTransaction) Releasable() bool {
	return e.Status == EscrowStatusFunded || e.Status == EscrowStatusPartiallyReleased
}

// EscrowTransaction holds a contract's funds. One per contract, enforced by
// the store. PlatformFee and FeeBPS are frozen at funding time; later fee-rate
// changes never alter an existing escrow.
type EscrowTransaction struct {
	ID             uuid.UUID  `json:"id"`
	ContractID     uuid.UUID  `json:"contract_id"`
	TotalAmount    int64      `json:"total_amount"` // minor units
	PlatformFee    int64      `json:"platform_fee"`
	FeeBPS         int        `json:"fee_bps"`
	ReleasedAmount int64      `json:"released_amount"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	FundedAt       *time.Time `json:"funded_at,omitempty"`
	RefundedAt     *time.Time `json:"refunded_at,omitempty"`
	DisputedAt     *time.Time `json:"disputed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Payment statuses
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
)

var ValidPaymentTransitions = map[string][]string{
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusFailed},
	PaymentStatusProcessing: {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted:  {},
	PaymentStatusFailed:     {},
}

func IsValidPaymentTransition(from, to string) bool {
	return transitionAllowed(ValidPaymentTransitions, from, to)
}

// Payment is a payout created against a funded escrow when a milestone is
// released. NetAmount = Amount - PlatformFee for the milestone's share.
type Payment struct {
	ID                  uuid.UUID  `json:"id"`
	EscrowTransactionID uuid.UUID  `json:"escrow_transaction_id"`
	MilestoneID         *uuid.UUID `json:"milestone_id,omitempty"`
	Amount              int64      `json:"amount"` // minor units, gross
	PlatformFee         int64      `json:"platform_fee"`
	NetAmount           int64      `json:"net_amount"`
	Status              string     `json:"status"`
	FailureReason       *string    `json:"failure_reason,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}
