package dto

import "time"

type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Role        string  `json:"role"` // brand / creator
	DisplayName string  `json:"display_name"`
	ChannelURL  *string `json:"channel_url,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Campaigns

type CreateCampaignRequest struct {
	Title               string     `json:"title"`
	Brief               *string    `json:"brief,omitempty"`
	Budget              int64      `json:"budget"` // minor units
	Currency            string     `json:"currency,omitempty"`
	MaxCreators         int        `json:"max_creators"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
}

type TransitionRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

// Applications

type SubmitApplicationRequest struct {
	CampaignID   string `json:"campaign_id"`
	Pitch        string `json:"pitch"`
	ProposedRate int64  `json:"proposed_rate"` // minor units
}

// Contracts

type MilestoneRequest struct {
	Title       string     `json:"title"`
	Amount      int64      `json:"amount"` // minor units
	TriggerType string     `json:"trigger_type"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type CreateContractRequest struct {
	ApplicationID string             `json:"application_id"`
	Terms         *string            `json:"terms,omitempty"`
	TotalAmount   int64              `json:"total_amount"` // minor units
	Currency      string             `json:"currency,omitempty"`
	Milestones    []MilestoneRequest `json:"milestones"`
}

type CancelContractRequest struct {
	Reason string `json:"reason"`
}

// Escrow

type ResolveDisputeRequest struct {
	Refund bool `json:"refund"`
}

type PaymentFailedRequest struct {
	Reason string `json:"reason"`
}
