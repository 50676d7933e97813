package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/authz"
	"github.com/creator-marketplace/backend/internal/events"
	"github.com/creator-marketplace/backend/internal/models"
)

type ApplicationService struct {
	applications ApplicationStore
	campaigns    CampaignStore
	users        UserStore
	audit        AuditStore
	publisher    events.Publisher
	log          *zap.Logger
}

func NewApplicationService(applications ApplicationStore, campaigns CampaignStore, users UserStore, audit AuditStore, publisher events.Publisher, log *zap.Logger) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		campaigns:    campaigns,
		users:        users,
		audit:        audit,
		publisher:    publisher,
		log:          log,
	}
}

type SubmitApplicationInput struct {
	CampaignID   uuid.UUID
	Pitch        string
	ProposedRate int64
}

func (s *ApplicationService) Submit(ctx context.Context, actorID uuid.UUID, in SubmitApplicationInput) (*models.Application, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanSubmitApplication(actor); err != nil {
		return nil, err
	}
	if in.Pitch == "" {
		return nil, apperr.Validation("pitch is required")
	}
	if in.ProposedRate <= 0 {
		return nil, apperr.Validation("proposed_rate must be positive")
	}

	campaign, err := s.campaigns.GetByID(ctx, in.CampaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.AcceptsApplications(time.Now()) {
		return nil, apperr.InvalidState("campaign is not accepting applications")
	}

	app := &models.Application{
		CampaignID:     in.CampaignID,
		CreatorOwnerID: actorID,
		Status:         models.ApplicationStatusApplied,
		Pitch:          in.Pitch,
		ProposedRate:   in.ProposedRate,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		ActorType:   "user",
		Action:      "application_submitted",
		EntityType:  "application",
		EntityID:    &app.ID,
		Meta:        map[string]any{"campaign_id": in.CampaignID.String(), "proposed_rate": in.ProposedRate},
	})
	return app, nil
}

// Transition moves an application to a target status on behalf of actorID.
// Hiring runs through the capacity-checked store transaction; a concurrent
// modification is retried once against fresh state before surfacing Conflict.
func (s *ApplicationService) Transition(ctx context.Context, appID uuid.UUID, actorID uuid.UUID, target string, reason *string) (*models.Application, error) {
	app, err := s.transitionOnce(ctx, appID, actorID, target, reason)
	if apperr.IsKind(err, apperr.KindConflict) {
		s.log.Debug("application transition lost a race, retrying",
			zap.String("application_id", appID.String()), zap.String("target", target))
		return s.transitionOnce(ctx, appID, actorID, target, reason)
	}
	return app, err
}

func (s *ApplicationService) transitionOnce(ctx context.Context, appID uuid.UUID, actorID uuid.UUID, target string, reason *string) (*models.Application, error) {
	app, err := s.applications.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	campaign, err := s.campaigns.GetByID(ctx, app.CampaignID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanTransitionApplication(campaign, app, actorID, target); err != nil {
		return nil, err
	}
	if !models.IsValidApplicationTransition(app.Status, target) {
		return nil, apperr.InvalidTransition("application", app.Status, target)
	}
	if target == models.ApplicationStatusRejected && (reason == nil || *reason == "") {
		return nil, apperr.Validation("a rejection reason is required")
	}

	oldStatus := app.Status
	if target == models.ApplicationStatusHired {
		// Hire also claims a campaign slot; both happen in one commit.
		err = s.applications.Hire(ctx, app.ID, campaign.ID)
	} else {
		err = s.applications.UpdateStatus(ctx, app.ID, oldStatus, target, reason)
	}
	if err != nil {
		return nil, err
	}
	app, err = s.applications.GetByID(ctx, app.ID)
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, app, &actorID, "user", oldStatus, target)
	return app, nil
}

func (s *ApplicationService) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return s.applications.GetByID(ctx, id)
}

func (s *ApplicationService) List(ctx context.Context, f models.ApplicationFilter) ([]models.Application, error) {
	return s.applications.List(ctx, f)
}

// RejectOpenForCampaign system-rejects every non-terminal application on a
// closed campaign. Used by the worker after the deadline sweep.
func (s *ApplicationService) RejectOpenForCampaign(ctx context.Context, campaignID uuid.UUID, reason string) (int, error) {
	open, err := s.applications.ListOpenByCampaign(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	rejected := 0
	for i := range open {
		app := &open[i]
		if err := s.applications.UpdateStatus(ctx, app.ID, app.Status, models.ApplicationStatusRejected, &reason); err != nil {
			if apperr.IsKind(err, apperr.KindConflict) {
				continue
			}
			return rejected, err
		}
		s.recordTransition(ctx, app, nil, "system", app.Status, models.ApplicationStatusRejected)
		rejected++
	}
	return rejected, nil
}

func (s *ApplicationService) recordTransition(ctx context.Context, app *models.Application, actorID *uuid.UUID, actorType, from, to string) {
	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("application_status_%s_to_%s", from, to),
		EntityType:  "application",
		EntityID:    &app.ID,
		Meta:        map[string]any{"old_status": from, "new_status": to},
	})
	_ = s.publisher.Publish(ctx, events.StreamTransitions,
		events.Transition(events.EventApplicationStatusChanged, app.ID.String(), from, to))
}
