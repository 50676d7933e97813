package models

import (
	"testing"
	"time"
)

func testTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestIsValidApplicationTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{ApplicationStatusApplied, ApplicationStatusUnderReview, true},
		{ApplicationStatusUnderReview, ApplicationStatusShortlisted, true},
		{ApplicationStatusShortlisted, ApplicationStatusHired, true},

		// Rejection allowed from every non-terminal status
		{ApplicationStatusApplied, ApplicationStatusRejected, true},
		{ApplicationStatusUnderReview, ApplicationStatusRejected, true},
		{ApplicationStatusShortlisted, ApplicationStatusRejected, true},

		// Withdrawal allowed from every non-terminal status
		{ApplicationStatusApplied, ApplicationStatusWithdrawn, true},
		{ApplicationStatusUnderReview, ApplicationStatusWithdrawn, true},
		{ApplicationStatusShortlisted, ApplicationStatusWithdrawn, true},

		// No skipping stages
		{ApplicationStatusApplied, ApplicationStatusShortlisted, false},
		{ApplicationStatusApplied, ApplicationStatusHired, false},
		{ApplicationStatusUnderReview, ApplicationStatusHired, false},

		// Terminal statuses
		{ApplicationStatusHired, ApplicationStatusRejected, false},
		{ApplicationStatusHired, ApplicationStatusWithdrawn, false},
		{ApplicationStatusRejected, ApplicationStatusUnderReview, false},
		{ApplicationStatusWithdrawn, ApplicationStatusApplied, false},

		{"nonexistent", ApplicationStatusHired, false},
		{ApplicationStatusApplied, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := IsValidApplicationTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("IsValidApplicationTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestIsValidContractTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{ContractStatusDraft, ContractStatusPendingCreatorSignature, true},
		{ContractStatusDraft, ContractStatusCancelled, true},
		{ContractStatusPendingCreatorSignature, ContractStatusActive, true},
		{ContractStatusPendingCreatorSignature, ContractStatusCancelled, true},
		{ContractStatusActive, ContractStatusCompleted, true},
		{ContractStatusActive, ContractStatusCancelled, true},

		{ContractStatusDraft, ContractStatusActive, false},
		{ContractStatusDraft, ContractStatusCompleted, false},
		{ContractStatusCompleted, ContractStatusCancelled, false},
		{ContractStatusCancelled, ContractStatusActive, false},
		{ContractStatusActive, ContractStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := IsValidContractTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("IsValidContractTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestIsValidEscrowTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{EscrowStatusPendingDeposit, EscrowStatusFunded, true},
		{EscrowStatusFunded, EscrowStatusPartiallyReleased, true},
		{EscrowStatusFunded, EscrowStatusFullyReleased, true},
		{EscrowStatusFunded, EscrowStatusRefunded, true},
		{EscrowStatusFunded, EscrowStatusDisputed, true},
		{EscrowStatusPartiallyReleased, EscrowStatusFullyReleased, true},
		{EscrowStatusPartiallyReleased, EscrowStatusRefunded, true},
		{EscrowStatusPartiallyReleased, EscrowStatusDisputed, true},

		// Dispute resolution paths
		{EscrowStatusDisputed, EscrowStatusFunded, true},
		{EscrowStatusDisputed, EscrowStatusPartiallyReleased, true},
		{EscrowStatusDisputed, EscrowStatusRefunded, true},
		{EscrowStatusDisputed, EscrowStatusFullyReleased, false},

		{EscrowStatusPendingDeposit, EscrowStatusPartiallyReleased, false},
		{EscrowStatusPendingDeposit, EscrowStatusRefunded, false},
		{EscrowStatusFullyReleased, EscrowStatusRefunded, false},
		{EscrowStatusRefunded, EscrowStatusFunded, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := IsValidEscrowTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("IsValidEscrowTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestIsValidCampaignTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{CampaignStatusDraft, CampaignStatusPublished, true},
		{CampaignStatusPublished, CampaignStatusPaused, true},
		{CampaignStatusPaused, CampaignStatusPublished, true},
		{CampaignStatusPublished, CampaignStatusCompleted, true},
		{CampaignStatusPublished, CampaignStatusCancelled, true},

		{CampaignStatusDraft, CampaignStatusPaused, false},
		{CampaignStatusDraft, CampaignStatusCompleted, false},
		{CampaignStatusCompleted, CampaignStatusPublished, false},
		{CampaignStatusCancelled, CampaignStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := IsValidCampaignTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("IsValidCampaignTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestAllStatusesHaveTransitionEntry(t *testing.T) {
	cases := []struct {
		name     string
		table    map[string][]string
		statuses []string
	}{
		{"application", ValidApplicationTransitions, []string{
			ApplicationStatusApplied, ApplicationStatusUnderReview, ApplicationStatusShortlisted,
			ApplicationStatusHired, ApplicationStatusRejected, ApplicationStatusWithdrawn,
		}},
		{"contract", ValidContractTransitions, []string{
			ContractStatusDraft, ContractStatusPendingCreatorSignature, ContractStatusActive,
			ContractStatusCompleted, ContractStatusCancelled,
		}},
		{"escrow", ValidEscrowTransitions, []string{
			EscrowStatusPendingDeposit, EscrowStatusFunded, EscrowStatusPartiallyReleased,
			EscrowStatusFullyReleased, EscrowStatusRefunded, EscrowStatusDisputed,
		}},
		{"milestone", ValidMilestoneTransitions, []string{
			MilestoneStatusPending, MilestoneStatusReady, MilestoneStatusPaid, MilestoneStatusCancelled,
		}},
		{"payment", ValidPaymentTransitions, []string{
			PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed,
		}},
		{"campaign", ValidCampaignTransitions, []string{
			CampaignStatusDraft, CampaignStatusPublished, CampaignStatusPaused,
			CampaignStatusCancelled, CampaignStatusCompleted,
		}},
	}

	for _, tc := range cases {
		for _, status := range tc.statuses {
			if _, ok := tc.table[status]; !ok {
				t.Errorf("%s status %q missing from transition table", tc.name, status)
			}
		}
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	cases := []struct {
		name     string
		table    map[string][]string
		terminal []string
	}{
		{"application", ValidApplicationTransitions, []string{ApplicationStatusHired, ApplicationStatusRejected, ApplicationStatusWithdrawn}},
		{"contract", ValidContractTransitions, []string{ContractStatusCompleted, ContractStatusCancelled}},
		{"escrow", ValidEscrowTransitions, []string{EscrowStatusFullyReleased, EscrowStatusRefunded}},
		{"milestone", ValidMilestoneTransitions, []string{MilestoneStatusPaid, MilestoneStatusCancelled}},
		{"payment", ValidPaymentTransitions, []string{PaymentStatusCompleted, PaymentStatusFailed}},
	}

	for _, tc := range cases {
		for _, status := range tc.terminal {
			if transitions := tc.table[status]; len(transitions) != 0 {
				t.Errorf("%s terminal status %q should have no transitions, got %v", tc.name, status, transitions)
			}
		}
	}
}

func TestCampaignAcceptsApplications(t *testing.T) {
	now := testTime()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		campaign Campaign
		expected bool
	}{
		{"published with room", Campaign{Status: CampaignStatusPublished, MaxCreators: 3, CurrentCreators: 1}, true},
		{"draft", Campaign{Status: CampaignStatusDraft, MaxCreators: 3}, false},
		{"paused", Campaign{Status: CampaignStatusPaused, MaxCreators: 3}, false},
		{"full", Campaign{Status: CampaignStatusPublished, MaxCreators: 2, CurrentCreators: 2}, false},
		{"deadline passed", Campaign{Status: CampaignStatusPublished, MaxCreators: 3, ApplicationDeadline: &past}, false},
		{"deadline ahead", Campaign{Status: CampaignStatusPublished, MaxCreators: 3, ApplicationDeadline: &future}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.campaign.AcceptsApplications(now); got != tt.expected {
				t.Errorf("AcceptsApplications() = %v, want %v", got, tt.expected)
			}
		})
	}
}
