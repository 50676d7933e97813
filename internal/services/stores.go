package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/creator-marketplace/backend/internal/models"
)

// Store interfaces are satisfied by the pgx repositories. Services depend on
// these rather than the concrete repos so tests can substitute in-memory
// fakes.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Touch(ctx context.Context, id uuid.UUID) error
	UpdateChannelStats(ctx context.Context, id uuid.UUID, followers, avgViews *int) error
	ListCreatorsForStatsRefresh(ctx context.Context, staleAfter time.Duration, limit int) ([]models.User, error)
}

type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	List(ctx context.Context, f models.CampaignFilter) ([]models.Campaign, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error
	UpdateDetails(ctx context.Context, c *models.Campaign) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListExpiredOpen(ctx context.Context, limit int) ([]models.Campaign, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	List(ctx context.Context, f models.ApplicationFilter) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string, reason *string) error
	Hire(ctx context.Context, appID, campaignID uuid.UUID) error
	ListOpenByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Application, error)
}

type ContractStore interface {
	CreateWithMilestones(ctx context.Context, c *models.Contract, milestones []models.Milestone) ([]models.Milestone, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*models.Contract, error)
	List(ctx context.Context, f models.ContractFilter) ([]models.Contract, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error
	Activate(ctx context.Context, id uuid.UUID) error
	CancelWithMilestones(ctx context.Context, id uuid.UUID, from string, reason string) error
	Milestones(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error)
	GetMilestone(ctx context.Context, id uuid.UUID) (*models.Milestone, error)
	MarkMilestoneReady(ctx context.Context, id uuid.UUID) error
	ListDueDateMilestones(ctx context.Context, limit int) ([]models.Milestone, error)
}

type EscrowStore interface {
	Create(ctx context.Context, e *models.EscrowTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowTransaction, error)
	GetByContractID(ctx context.Context, contractID uuid.UUID) (*models.EscrowTransaction, error)
	MarkFunded(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error
	Release(ctx context.Context, escrowID, milestoneID uuid.UUID, amount, fee, net int64) (*models.Payment, *models.EscrowTransaction, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListPayments(ctx context.Context, escrowID uuid.UUID) ([]models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to string, failureReason *string) error
}

type AuditStore interface {
	Log(ctx context.Context, entry models.AuditLog) error
	GetByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit, offset int) ([]models.AuditLog, error)
}
