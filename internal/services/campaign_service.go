package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/authz"
	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/events"
	"github.com/creator-marketplace/backend/internal/models"
)

type CampaignService struct {
	campaigns CampaignStore
	audit     AuditStore
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
}

func NewCampaignService(campaigns CampaignStore, audit AuditStore, publisher events.Publisher, cfg *config.Config, log *zap.Logger) *CampaignService {
	return &CampaignService{campaigns: campaigns, audit: audit, publisher: publisher, cfg: cfg, log: log}
}

type CreateCampaignInput struct {
	Title               string
	Brief               *string
	Budget              int64
	Currency            string
	MaxCreators         int
	ApplicationDeadline *time.Time
}

func (s *CampaignService) Create(ctx context.Context, brandOwnerID uuid.UUID, in CreateCampaignInput) (*models.Campaign, error) {
	if in.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if in.Budget <= 0 {
		return nil, apperr.Validation("budget must be positive")
	}
	if in.MaxCreators <= 0 {
		return nil, apperr.Validation("max_creators must be positive")
	}
	if in.Currency == "" {
		in.Currency = s.cfg.DefaultCurrency
	}

	campaign := &models.Campaign{
		BrandOwnerID:        brandOwnerID,
		Title:               in.Title,
		Brief:               in.Brief,
		Status:              models.CampaignStatusDraft,
		Budget:              in.Budget,
		Currency:            in.Currency,
		MaxCreators:         in.MaxCreators,
		ApplicationDeadline: in.ApplicationDeadline,
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &brandOwnerID,
		ActorType:   "user",
		Action:      "campaign_created",
		EntityType:  "campaign",
		EntityID:    &campaign.ID,
		Meta:        map[string]any{"budget": campaign.Budget, "max_creators": campaign.MaxCreators},
	})
	return campaign, nil
}

// Transition moves a campaign along its lifecycle after an owner check.
func (s *CampaignService) Transition(ctx context.Context, id uuid.UUID, actorID uuid.UUID, target string) (*models.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanManageCampaign(campaign, actorID); err != nil {
		return nil, err
	}
	if !models.IsValidCampaignTransition(campaign.Status, target) {
		return nil, apperr.InvalidTransition("campaign", campaign.Status, target)
	}
	if target == models.CampaignStatusCancelled && campaign.CurrentCreators > 0 {
		return nil, apperr.Conflict("campaign has hired creators and cannot be cancelled")
	}

	oldStatus := campaign.Status
	if err := s.campaigns.UpdateStatus(ctx, id, oldStatus, target); err != nil {
		return nil, err
	}
	campaign, err = s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, campaign, &actorID, "user", oldStatus, target)
	return campaign, nil
}

func (s *CampaignService) Update(ctx context.Context, id uuid.UUID, actorID uuid.UUID, in CreateCampaignInput) (*models.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanManageCampaign(campaign, actorID); err != nil {
		return nil, err
	}
	if campaign.Status != models.CampaignStatusDraft && campaign.Status != models.CampaignStatusPaused {
		return nil, apperr.InvalidState("campaign can only be edited while draft or paused")
	}
	if in.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if in.Budget <= 0 {
		return nil, apperr.Validation("budget must be positive")
	}
	if in.MaxCreators < campaign.CurrentCreators {
		return nil, apperr.Validation("max_creators cannot drop below the %d creators already hired", campaign.CurrentCreators)
	}

	campaign.Title = in.Title
	campaign.Brief = in.Brief
	campaign.Budget = in.Budget
	campaign.MaxCreators = in.MaxCreators
	campaign.ApplicationDeadline = in.ApplicationDeadline
	if err := s.campaigns.UpdateDetails(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *CampaignService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanManageCampaign(campaign, actorID); err != nil {
		return err
	}
	if campaign.Status != models.CampaignStatusDraft {
		return apperr.InvalidState("only draft campaigns can be deleted")
	}
	return s.campaigns.Delete(ctx, id)
}

func (s *CampaignService) Get(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return s.campaigns.GetByID(ctx, id)
}

func (s *CampaignService) List(ctx context.Context, f models.CampaignFilter) ([]models.Campaign, error) {
	return s.campaigns.List(ctx, f)
}

// CompleteExpired closes published campaigns whose application deadline has
// passed and returns the IDs it closed. Run by the worker, which then rejects
// the campaigns' open applications.
func (s *CampaignService) CompleteExpired(ctx context.Context, limit int) ([]uuid.UUID, error) {
	expired, err := s.campaigns.ListExpiredOpen(ctx, limit)
	if err != nil {
		return nil, err
	}
	var closed []uuid.UUID
	for i := range expired {
		c := &expired[i]
		if err := s.campaigns.UpdateStatus(ctx, c.ID, models.CampaignStatusPublished, models.CampaignStatusCompleted); err != nil {
			if apperr.IsKind(err, apperr.KindConflict) {
				continue
			}
			return closed, err
		}
		s.recordTransition(ctx, c, nil, "system", models.CampaignStatusPublished, models.CampaignStatusCompleted)
		closed = append(closed, c.ID)
	}
	return closed, nil
}

func (s *CampaignService) recordTransition(ctx context.Context, c *models.Campaign, actorID *uuid.UUID, actorType, from, to string) {
	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("campaign_status_%s_to_%s", from, to),
		EntityType:  "campaign",
		EntityID:    &c.ID,
		Meta:        map[string]any{"old_status": from, "new_status": to},
	})
	_ = s.publisher.Publish(ctx, events.StreamTransitions,
		events.Transition(events.EventCampaignStatusChanged, c.ID.String(), from, to))
}
