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
	"github.com/creator-marketplace/backend/internal/fees"
	"github.com/creator-marketplace/backend/internal/models"
)

type EscrowService struct {
	escrows   EscrowStore
	contracts ContractStore
	audit     AuditStore
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
}

func NewEscrowService(escrows EscrowStore, contracts ContractStore, audit AuditStore, publisher events.Publisher, cfg *config.Config, log *zap.Logger) *EscrowService {
	return &EscrowService{
		escrows:   escrows,
		contracts: contracts,
		audit:     audit,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
	}
}

// Fund opens the escrow for an active contract. The platform fee rate is
// frozen on the escrow row; later config changes never touch it.
func (s *EscrowService) Fund(ctx context.Context, contractID uuid.UUID, actorID uuid.UUID) (*models.EscrowTransaction, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanFundEscrow(contract, actorID); err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusActive {
		return nil, apperr.InvalidState("contract is %s, only active contracts can be funded", contract.Status)
	}

	fee, _ := fees.Compute(contract.TotalAmount, s.cfg.PlatformFeeBPS)
	escrow := &models.EscrowTransaction{
		ContractID:  contractID,
		TotalAmount: contract.TotalAmount,
		PlatformFee: fee,
		FeeBPS:      s.cfg.PlatformFeeBPS,
		Currency:    contract.Currency,
		Status:      models.EscrowStatusPendingDeposit,
	}
	if err := s.escrows.Create(ctx, escrow); err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		ActorType:   "user",
		Action:      "escrow_created",
		EntityType:  "escrow",
		EntityID:    &escrow.ID,
		Meta: map[string]any{
			"contract_id":  contractID.String(),
			"total_amount": escrow.TotalAmount,
			"fee_bps":      escrow.FeeBPS,
		},
	})
	return escrow, nil
}

// ConfirmFunding records the deposit confirmation from the payment processor.
// Admin-only, standing in for the processor's signed callback.
func (s *EscrowService) ConfirmFunding(ctx context.Context, escrowID uuid.UUID, actorID uuid.UUID) (*models.EscrowTransaction, error) {
	if !s.cfg.IsAdmin(actorID) {
		return nil, apperr.Forbidden("only operators can confirm deposits")
	}
	escrow, err := s.escrows.GetByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if !models.IsValidEscrowTransition(escrow.Status, models.EscrowStatusFunded) {
		return nil, apperr.InvalidTransition("escrow", escrow.Status, models.EscrowStatusFunded)
	}

	if err := s.escrows.MarkFunded(ctx, escrowID); err != nil {
		return nil, err
	}
	oldStatus := escrow.Status
	escrow, err = s.escrows.GetByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, escrow, &actorID, "admin", oldStatus, models.EscrowStatusFunded)
	return escrow, nil
}

// ReleaseMilestone pays out one ready milestone. The milestone's fee share is
// computed from the rate frozen on the escrow, not the current config. A lost
// race is retried once against fresh state.
func (s *EscrowService) ReleaseMilestone(ctx context.Context, milestoneID uuid.UUID, actorID uuid.UUID) (*models.Payment, error) {
	p, err := s.releaseOnce(ctx, milestoneID, actorID)
	if apperr.IsKind(err, apperr.KindConflict) {
		s.log.Debug("milestone release lost a race, retrying",
			zap.String("milestone_id", milestoneID.String()))
		return s.releaseOnce(ctx, milestoneID, actorID)
	}
	return p, err
}

func (s *EscrowService) releaseOnce(ctx context.Context, milestoneID uuid.UUID, actorID uuid.UUID) (*models.Payment, error) {
	m, err := s.contracts.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	contract, err := s.contracts.GetByID(ctx, m.ContractID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanReleaseMilestone(contract, actorID); err != nil {
		return nil, err
	}
	if m.Status != models.MilestoneStatusReady {
		return nil, apperr.InvalidTransition("milestone", m.Status, models.MilestoneStatusPaid)
	}
	escrow, err := s.escrows.GetByContractID(ctx, m.ContractID)
	if err != nil {
		return nil, err
	}

	fee, net := fees.Compute(m.Amount, escrow.FeeBPS)
	payment, updated, err := s.escrows.Release(ctx, escrow.ID, milestoneID, m.Amount, fee, net)
	if err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		ActorType:   "user",
		Action:      fmt.Sprintf("milestone_status_%s_to_%s", models.MilestoneStatusReady, models.MilestoneStatusPaid),
		EntityType:  "milestone",
		EntityID:    &milestoneID,
		Meta: map[string]any{
			"contract_id": m.ContractID.String(),
			"payment_id":  payment.ID.String(),
			"amount":      payment.Amount,
			"net_amount":  payment.NetAmount,
		},
	})
	_ = s.publisher.Publish(ctx, events.StreamTransitions,
		events.Transition(events.EventMilestoneStatusChanged, milestoneID.String(), models.MilestoneStatusReady, models.MilestoneStatusPaid))

	if updated.Status != escrow.Status {
		s.recordTransition(ctx, updated, &actorID, "user", escrow.Status, updated.Status)
	}
	return payment, nil
}

// OpenDispute freezes the escrow. Either contract party may raise it.
func (s *EscrowService) OpenDispute(ctx context.Context, escrowID uuid.UUID, actorID uuid.UUID) (*models.EscrowTransaction, error) {
	escrow, err := s.escrows.GetByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	contract, err := s.contracts.GetByID(ctx, escrow.ContractID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanOpenDispute(contract, actorID); err != nil {
		return nil, err
	}
	return s.move(ctx, escrow, &actorID, "user", models.EscrowStatusDisputed)
}

// ResolveDispute closes a dispute. Resume returns the escrow to the funded
// state matching what has already been released; refund sends the remainder
// back to the brand.
func (s *EscrowService) ResolveDispute(ctx context.Context, escrowID uuid.UUID, actorID uuid.UUID, refund bool) (*models.EscrowTransaction, error) {
	if !s.cfg.IsAdmin(actorID) {
		return nil, apperr.Forbidden("only operators can resolve disputes")
	}
	escrow, err := s.escrows.GetByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if escrow.Status != models.EscrowStatusDisputed {
		return nil, apperr.InvalidState("escrow is %s, there is no dispute to resolve", escrow.Status)
	}

	target := models.EscrowStatusFunded
	if refund {
		target = models.EscrowStatusRefunded
	} else if escrow.ReleasedAmount > 0 {
		target = models.EscrowStatusPartiallyReleased
	}
	return s.move(ctx, escrow, &actorID, "admin", target)
}

// Refund returns unreleased funds to the brand.
func (s *EscrowService) Refund(ctx context.Context, escrowID uuid.UUID, actorID uuid.UUID) (*models.EscrowTransaction, error) {
	if !s.cfg.IsAdmin(actorID) {
		return nil, apperr.Forbidden("only operators can refund an escrow")
	}
	escrow, err := s.escrows.GetByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	return s.move(ctx, escrow, &actorID, "admin", models.EscrowStatusRefunded)
}

func (s *EscrowService) move(ctx context.Context, escrow *models.EscrowTransaction, actorID *uuid.UUID, actorType, target string) (*models.EscrowTransaction, error) {
	if !models.IsValidEscrowTransition(escrow.Status, target) {
		return nil, apperr.InvalidTransition("escrow", escrow.Status, target)
	}
	oldStatus := escrow.Status
	if err := s.escrows.UpdateStatus(ctx, escrow.ID, oldStatus, target); err != nil {
		return nil, err
	}
	escrow, err := s.escrows.GetByID(ctx, escrow.ID)
	if err != nil {
		return nil, err
	}
	s.recordTransition(ctx, escrow, actorID, actorType, oldStatus, target)
	return escrow, nil
}

// MarkPaymentProcessing, MarkPaymentCompleted and MarkPaymentFailed record
// settlement progress reported by the payment processor. Admin-gated like
// ConfirmFunding.
func (s *EscrowService) MarkPaymentProcessing(ctx context.Context, paymentID uuid.UUID, actorID uuid.UUID) (*models.Payment, error) {
	return s.movePayment(ctx, paymentID, actorID, models.PaymentStatusProcessing, nil)
}

func (s *EscrowService) MarkPaymentCompleted(ctx context.Context, paymentID uuid.UUID, actorID uuid.UUID) (*models.Payment, error) {
	return s.movePayment(ctx, paymentID, actorID, models.PaymentStatusCompleted, nil)
}

func (s *EscrowService) MarkPaymentFailed(ctx context.Context, paymentID uuid.UUID, actorID uuid.UUID, reason string) (*models.Payment, error) {
	if reason == "" {
		return nil, apperr.Validation("a failure reason is required")
	}
	return s.movePayment(ctx, paymentID, actorID, models.PaymentStatusFailed, &reason)
}

func (s *EscrowService) movePayment(ctx context.Context, paymentID uuid.UUID, actorID uuid.UUID, target string, failureReason *string) (*models.Payment, error) {
	if !s.cfg.IsAdmin(actorID) {
		return nil, apperr.Forbidden("only operators can report settlement status")
	}
	p, err := s.escrows.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !models.IsValidPaymentTransition(p.Status, target) {
		return nil, apperr.InvalidTransition("payment", p.Status, target)
	}

	oldStatus := p.Status
	if err := s.escrows.UpdatePaymentStatus(ctx, paymentID, oldStatus, target, failureReason); err != nil {
		return nil, err
	}
	p, err = s.escrows.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		ActorType:   "admin",
		Action:      fmt.Sprintf("payment_status_%s_to_%s", oldStatus, target),
		EntityType:  "payment",
		EntityID:    &paymentID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": target},
	})
	_ = s.publisher.Publish(ctx, events.StreamTransitions,
		events.Transition(events.EventPaymentStatusChanged, paymentID.String(), oldStatus, target))
	return p, nil
}

func (s *EscrowService) Get(ctx context.Context, id uuid.UUID) (*models.EscrowTransaction, error) {
	return s.escrows.GetByID(ctx, id)
}

func (s *EscrowService) GetByContract(ctx context.Context, contractID uuid.UUID) (*models.EscrowTransaction, error) {
	return s.escrows.GetByContractID(ctx, contractID)
}

func (s *EscrowService) Payments(ctx context.Context, escrowID uuid.UUID) ([]models.Payment, error) {
	return s.escrows.ListPayments(ctx, escrowID)
}

func (s *EscrowService) Events(ctx context.Context, escrowID uuid.UUID) ([]models.AuditLog, error) {
	return s.audit.GetByEntity(ctx, "escrow", escrowID, 100, 0)
}

func (s *EscrowService) recordTransition(ctx context.Context, e *models.EscrowTransaction, actorID *uuid.UUID, actorType, from, to string) {
	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("escrow_status_%s_to_%s", from, to),
		EntityType:  "escrow",
		EntityID:    &e.ID,
		Meta: map[string]any{
			"old_status":      from,
			"new_status":      to,
			"released_amount": e.ReleasedAmount,
		},
	})
	_ = s.publisher.Publish(ctx, events.StreamTransitions,
		events.Transition(events.EventEscrowStatusChanged, e.ID.String(), from, to))
}
