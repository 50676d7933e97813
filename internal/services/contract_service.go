package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/authz"
	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/events"
	"github.com/creator-marketplace/backend/internal/models"
)

type ContractService struct {
	contracts    ContractStore
	applications ApplicationStore
	campaigns    CampaignStore
	escrows      EscrowStore
	audit        AuditStore
	publisher    events.Publisher
	cfg          *config.Config
	log          *zap.Logger
}

func NewContractService(
	contracts ContractStore,
	applications ApplicationStore,
	campaigns CampaignStore,
	escrows EscrowStore,
	audit AuditStore,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *ContractService {
	return &ContractService{
		contracts:    contracts,
		applications: applications,
		campaigns:    campaigns,
		escrows:      escrows,
		audit:        audit,
		publisher:    publisher,
		cfg:          cfg,
		log:          log,
	}
}

type CreateContractInput struct {
	ApplicationID uuid.UUID
	Terms         *string
	TotalAmount   int64
	Currency      string
	Milestones    []models.Milestone
}

// Create drafts a contract for a hired application. Milestone amounts must
// sum exactly to the contract total; a mismatch is rejected, never adjusted.
func (s *ContractService) Create(ctx context.Context, actorID uuid.UUID, in CreateContractInput) (*models.Contract, []models.Milestone, error) {
	app, err := s.applications.GetByID(ctx, in.ApplicationID)
	if err != nil {
		return nil, nil, err
	}
	campaign, err := s.campaigns.GetByID(ctx, app.CampaignID)
	if err != nil {
		return nil, nil, err
	}
	if err := authz.CanCreateContract(campaign, actorID); err != nil {
		return nil, nil, err
	}
	if app.Status != models.ApplicationStatusHired {
		return nil, nil, apperr.InvalidState("contracts can only be created for hired applications")
	}

	if in.TotalAmount <= 0 {
		return nil, nil, apperr.Validation("total_amount must be positive")
	}
	var sum int64
	for i := range in.Milestones {
		m := &in.Milestones[i]
		if m.Title == "" {
			return nil, nil, apperr.Validation("milestone %d: title is required", i+1)
		}
		if m.Amount <= 0 {
			return nil, nil, apperr.Validation("milestone %d: amount must be positive", i+1)
		}
		if !models.IsValidMilestoneTrigger(m.TriggerType) {
			return nil, nil, apperr.Validation("milestone %d: unknown trigger type %q", i+1, m.TriggerType)
		}
		if m.TriggerType == models.MilestoneTriggerDate && m.DueDate == nil {
			return nil, nil, apperr.Validation("milestone %d: date trigger requires a due_date", i+1)
		}
		m.OrderIndex = i
		sum += m.Amount
	}
	// Milestones may cover only part of the total; the remainder stays in
	// escrow until refunded. They can never promise more than the total.
	if sum > in.TotalAmount {
		return nil, nil, apperr.Validation("milestone amounts sum to %d, exceeding total %d", sum, in.TotalAmount)
	}
	if in.Currency == "" {
		in.Currency = s.cfg.DefaultCurrency
	}

	contract := &models.Contract{
		ApplicationID: in.ApplicationID,
		BrandUserID:   campaign.BrandOwnerID,
		CreatorUserID: app.CreatorOwnerID,
		Status:        models.ContractStatusDraft,
		Terms:         in.Terms,
		TotalAmount:   in.TotalAmount,
		Currency:      in.Currency,
	}
	milestones, err := s.contracts.CreateWithMilestones(ctx, contract, in.Milestones)
	if err != nil {
		return nil, nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		ActorType:   "user",
		Action:      "contract_created",
		EntityType:  "contract",
		EntityID:    &contract.ID,
		Meta: map[string]any{
			"application_id": in.ApplicationID.String(),
			"total_amount":   in.TotalAmount,
			"milestones":     len(milestones),
		},
	})
	return contract, milestones, nil
}

// Send hands the draft to the creator for signature.
func (s *ContractService) Send(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*models.Contract, error) {
	return s.simpleTransition(ctx, id, actorID, models.ContractStatusPendingCreatorSignature)
}

// Sign activates the contract. Signature-triggered milestones become ready in
// the same commit.
func (s *ContractService) Sign(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*models.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanTransitionContract(contract, actorID, models.ContractStatusActive); err != nil {
		return nil, err
	}
	if !models.IsValidContractTransition(contract.Status, models.ContractStatusActive) {
		return nil, apperr.InvalidTransition("contract", contract.Status, models.ContractStatusActive)
	}

	oldStatus := contract.Status
	if err := s.contracts.Activate(ctx, id); err != nil {
		return nil, err
	}
	contract, err = s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, contract, &actorID, "user", oldStatus, models.ContractStatusActive)

	milestones, err := s.contracts.Milestones(ctx, id)
	if err != nil {
		return contract, nil
	}
	for i := range milestones {
		m := &milestones[i]
		if m.TriggerType == models.MilestoneTriggerContractSigned && m.Status == models.MilestoneStatusReady {
			s.recordMilestoneTransition(ctx, m, &actorID, "system", models.MilestoneStatusPending, models.MilestoneStatusReady)
		}
	}
	return contract, nil
}

// Cancel aborts the contract and cancels its unpaid milestones. Not allowed
// while the escrow still holds funds; those paths go through refund or
// dispute resolution first.
func (s *ContractService) Cancel(ctx context.Context, id uuid.UUID, actorID uuid.UUID, reason string) (*models.Contract, error) {
	if reason == "" {
		return nil, apperr.Validation("a cancellation reason is required")
	}
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanTransitionContract(contract, actorID, models.ContractStatusCancelled); err != nil {
		return nil, err
	}
	if !models.IsValidContractTransition(contract.Status, models.ContractStatusCancelled) {
		return nil, apperr.InvalidTransition("contract", contract.Status, models.ContractStatusCancelled)
	}

	escrow, err := s.escrows.GetByContractID(ctx, id)
	if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}
	if escrow != nil {
		switch escrow.Status {
		case models.EscrowStatusFunded, models.EscrowStatusPartiallyReleased, models.EscrowStatusDisputed:
			return nil, apperr.InvalidState("escrow still holds funds, refund or resolve the dispute first")
		}
	}

	oldStatus := contract.Status
	if err := s.contracts.CancelWithMilestones(ctx, id, oldStatus, reason); err != nil {
		return nil, err
	}
	contract, err = s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, contract, &actorID, "user", oldStatus, models.ContractStatusCancelled)
	return contract, nil
}

// Complete closes an active contract once every milestone is settled and the
// escrow has been emptied one way or the other.
func (s *ContractService) Complete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*models.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanTransitionContract(contract, actorID, models.ContractStatusCompleted); err != nil {
		return nil, err
	}
	if !models.IsValidContractTransition(contract.Status, models.ContractStatusCompleted) {
		return nil, apperr.InvalidTransition("contract", contract.Status, models.ContractStatusCompleted)
	}

	milestones, err := s.contracts.Milestones(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range milestones {
		switch milestones[i].Status {
		case models.MilestoneStatusPaid, models.MilestoneStatusCancelled:
		default:
			return nil, apperr.InvalidState("milestone %q is still %s", milestones[i].Title, milestones[i].Status)
		}
	}

	escrow, err := s.escrows.GetByContractID(ctx, id)
	if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}
	if escrow != nil {
		switch escrow.Status {
		case models.EscrowStatusFullyReleased, models.EscrowStatusRefunded:
		default:
			return nil, apperr.InvalidState("escrow is %s, it must be fully released or refunded", escrow.Status)
		}
	}

	oldStatus := contract.Status
	if err := s.contracts.UpdateStatus(ctx, id, oldStatus, models.ContractStatusCompleted); err != nil {
		return nil, err
	}
	contract, err = s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, contract, &actorID, "user", oldStatus, models.ContractStatusCompleted)
	return contract, nil
}

// MarkMilestoneReady flips a manual or deliverable-approved milestone to
// ready on the brand's say-so.
func (s *ContractService) MarkMilestoneReady(ctx context.Context, milestoneID uuid.UUID, actorID uuid.UUID) (*models.Milestone, error) {
	m, err := s.contracts.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	contract, err := s.contracts.GetByID(ctx, m.ContractID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanMarkMilestoneReady(contract, actorID); err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusActive {
		return nil, apperr.InvalidState("contract is %s, milestones can only progress on active contracts", contract.Status)
	}
	switch m.TriggerType {
	case models.MilestoneTriggerManual, models.MilestoneTriggerDeliverableApproved:
	default:
		return nil, apperr.InvalidState("%s milestones become ready automatically", m.TriggerType)
	}
	if !models.IsValidMilestoneTransition(m.Status, models.MilestoneStatusReady) {
		return nil, apperr.InvalidTransition("milestone", m.Status, models.MilestoneStatusReady)
	}

	oldStatus := m.Status
	if err := s.contracts.MarkMilestoneReady(ctx, milestoneID); err != nil {
		return nil, err
	}
	m, err = s.contracts.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}

	s.recordMilestoneTransition(ctx, m, &actorID, "user", oldStatus, models.MilestoneStatusReady)
	return m, nil
}

// ReadyDueMilestones flips date-triggered milestones whose due date has
// passed. Run by the worker.
func (s *ContractService) ReadyDueMilestones(ctx context.Context, limit int) (int, error) {
	due, err := s.contracts.ListDueDateMilestones(ctx, limit)
	if err != nil {
		return 0, err
	}
	flipped := 0
	for i := range due {
		m := &due[i]
		if err := s.contracts.MarkMilestoneReady(ctx, m.ID); err != nil {
			if apperr.IsKind(err, apperr.KindConflict) {
				continue
			}
			return flipped, err
		}
		s.recordMilestoneTransition(ctx, m, nil, "system", models.MilestoneStatusPending, models.MilestoneStatusReady)
		flipped++
	}
	return flipped, nil
}

func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	return s.contracts.GetByID(ctx, id)
}

func (s *ContractService) List(ctx context.Context, f models.ContractFilter) ([]models.Contract, error) {
	return s.contracts.List(ctx, f)
}

func (s *ContractService) Milestones(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error) {
	return s.contracts.Milestones(ctx, contractID)
}

func (s *ContractService) GetMilestone(ctx context.Context, id uuid.UUID) (*models.Milestone, error) {
	return s.contracts.GetMilestone(ctx, id)
}

func (s *ContractService) Events(ctx context.Context, contractID uuid.UUID) ([]models.AuditLog, error) {
	return s.audit.GetByEntity(ctx, "contract", contractID, 100, 0)
}

func (s *ContractService) simpleTransition(ctx context.Context, id uuid.UUID, actorID uuid.UUID, target string) (*models.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanTransitionContract(contract, actorID, target); err != nil {
		return nil, err
	}
	if !models.IsValidContractTransition(contract.Status, target) {
		return nil, apperr.InvalidTransition("contract", contract.Status, target)
	}

	oldStatus := contract.Status
	if err := s.contracts.UpdateStatus(ctx, id, oldStatus, target); err != nil {
		return nil, err
	}
	contract, err = s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, contract, &actorID, "user", oldStatus, target)
	return contract, nil
}

func (s *ContractService) recordTransition(ctx context.Context, c *models.Contract, actorID *uuid.UUID, actorType, from, to string) {
	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("contract_status_%s_to_%s", from, to),
		EntityType:  "contract",
		EntityID:    &c.ID,
		Meta:        map[string]any{"old_status": from, "new_status": to},
	})
	_ = s.publisher.Publish(ctx, events.StreamTransitions,
		events.Transition(events.EventContractStatusChanged, c.ID.String(), from, to))
}

func (s *ContractService) recordMilestoneTransition(ctx context.Context, m *models.Milestone, actorID *uuid.UUID, actorType, from, to string) {
	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("milestone_status_%s_to_%s", from, to),
		EntityType:  "milestone",
		EntityID:    &m.ID,
		Meta: map[string]any{
			"contract_id": m.ContractID.String(),
			"old_status":  from,
			"new_status":  to,
		},
	})
	_ = s.publisher.Publish(ctx, events.StreamTransitions,
		events.Transition(events.EventMilestoneStatusChanged, m.ID.String(), from, to))
}
