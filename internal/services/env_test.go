package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/models"
)

type testEnv struct {
	store *memStore
	pub   *capturePublisher
	cfg   *config.Config

	users        *UserService
	campaigns    *CampaignService
	applications *ApplicationService
	contracts    *ContractService
	escrows      *EscrowService

	adminID uuid.UUID
	brand   *models.User
	creator *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	pub := &capturePublisher{}
	adminID := uuid.New()
	cfg := &config.Config{
		PlatformFeeBPS:  1000,
		DefaultCurrency: "USD",
		AdminUserIDs:    []uuid.UUID{adminID},
		JWTSecret:       "test-secret",
		JWTExpiration:   time.Hour,
	}
	log := zap.NewNop()

	env := &testEnv{
		store:   store,
		pub:     pub,
		cfg:     cfg,
		adminID: adminID,
	}
	env.users = NewUserService(store, store, cfg, log)
	env.campaigns = NewCampaignService(fakeCampaigns{store}, store, pub, cfg, log)
	env.applications = NewApplicationService(fakeApplications{store}, fakeCampaigns{store}, store, store, pub, log)
	env.contracts = NewContractService(fakeContracts{store}, fakeApplications{store}, fakeCampaigns{store}, fakeEscrows{store}, store, pub, cfg, log)
	env.escrows = NewEscrowService(fakeEscrows{store}, fakeContracts{store}, store, pub, cfg, log)

	env.brand = env.seedUser(t, models.RoleBrand, "brand@acme.test")
	env.creator = env.seedUser(t, models.RoleCreator, "creator@channel.test")
	return env
}

func (e *testEnv) seedUser(t *testing.T, role, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x", Role: role, DisplayName: email}
	require.NoError(t, e.store.Create(context.Background(), u))
	return u
}

func (e *testEnv) seedCampaign(t *testing.T, status string, maxCreators int) *models.Campaign {
	t.Helper()
	c := &models.Campaign{
		BrandOwnerID: e.brand.ID,
		Title:        "Spring launch",
		Status:       status,
		Budget:       100_000,
		Currency:     "USD",
		MaxCreators:  maxCreators,
	}
	require.NoError(t, e.store.CreateCampaign(context.Background(), c))
	return c
}

func (e *testEnv) seedApplication(t *testing.T, campaign *models.Campaign, creator *models.User, status string) *models.Application {
	t.Helper()
	a := &models.Application{
		CampaignID:     campaign.ID,
		CreatorOwnerID: creator.ID,
		Status:         status,
		Pitch:          "I make videos",
		ProposedRate:   10_000,
	}
	require.NoError(t, e.store.CreateApplication(context.Background(), a))
	return a
}

// seedActiveContract walks a hired application into a signed contract with
// the given milestones.
func (e *testEnv) seedActiveContract(t *testing.T, milestones []models.Milestone) (*models.Contract, []models.Milestone) {
	t.Helper()
	ctx := context.Background()

	campaign := e.seedCampaign(t, models.CampaignStatusPublished, 3)
	app := e.seedApplication(t, campaign, e.creator, models.ApplicationStatusHired)

	var total int64
	for _, m := range milestones {
		total += m.Amount
	}
	contract, _, err := e.contracts.Create(ctx, e.brand.ID, CreateContractInput{
		ApplicationID: app.ID,
		TotalAmount:   total,
		Milestones:    milestones,
	})
	require.NoError(t, err)

	_, err = e.contracts.Send(ctx, contract.ID, e.brand.ID)
	require.NoError(t, err)
	contract, err = e.contracts.Sign(ctx, contract.ID, e.creator.ID)
	require.NoError(t, err)

	created, err := e.contracts.Milestones(ctx, contract.ID)
	require.NoError(t, err)
	return contract, created
}

// seedFundedEscrow funds and confirms the escrow for a contract.
func (e *testEnv) seedFundedEscrow(t *testing.T, contractID uuid.UUID) *models.EscrowTransaction {
	t.Helper()
	ctx := context.Background()
	escrow, err := e.escrows.Fund(ctx, contractID, e.brand.ID)
	require.NoError(t, err)
	escrow, err = e.escrows.ConfirmFunding(ctx, escrow.ID, e.adminID)
	require.NoError(t, err)
	return escrow
}
