package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/events"
	"github.com/creator-marketplace/backend/internal/models"
)

// memStore is an in-memory stand-in for the pgx repositories. It mirrors
// their semantics: guarded status updates fail with Conflict when the row
// moved, unique constraints fail with Conflict, the hire and release
// transactions enforce capacity and over-release the way the SQL does.
type memStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*models.User
	campaigns    map[uuid.UUID]*models.Campaign
	applications map[uuid.UUID]*models.Application
	contracts    map[uuid.UUID]*models.Contract
	milestones   map[uuid.UUID]*models.Milestone
	escrows      map[uuid.UUID]*models.EscrowTransaction
	payments     map[uuid.UUID]*models.Payment
	auditLog     []models.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uuid.UUID]*models.User{},
		campaigns:    map[uuid.UUID]*models.Campaign{},
		applications: map[uuid.UUID]*models.Application{},
		contracts:    map[uuid.UUID]*models.Contract{},
		milestones:   map[uuid.UUID]*models.Milestone{},
		escrows:      map[uuid.UUID]*models.EscrowTransaction{},
		payments:     map[uuid.UUID]*models.Payment{},
	}
}

// --- UserStore ---

func (m *memStore) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperr.Conflict("email already registered")
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user %s not found", id)
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user with email %s not found", email)
}

func (m *memStore) Touch(ctx context.Context, id uuid.UUID) error { return nil }

func (m *memStore) UpdateChannelStats(ctx context.Context, id uuid.UUID, followers, avgViews *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("user %s not found", id)
	}
	u.Followers = followers
	u.AvgViews = avgViews
	now := time.Now()
	u.StatsFetchedAt = &now
	return nil
}

func (m *memStore) ListCreatorsForStatsRefresh(ctx context.Context, staleAfter time.Duration, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if u.Role == models.RoleCreator && u.ChannelURL != nil && u.StatsFetchedAt == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

// --- CampaignStore ---

func (m *memStore) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *memStore) GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, apperr.NotFound("campaign %s not found", id)
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListCampaigns(ctx context.Context, f models.CampaignFilter) ([]models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Campaign
	for _, c := range m.campaigns {
		if f.BrandOwnerID != nil && c.BrandOwnerID != *f.BrandOwnerID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) UpdateCampaignStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.Status != from {
		return apperr.Conflict("campaign %s was modified concurrently", id)
	}
	c.Status = to
	c.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) UpdateCampaignDetails(ctx context.Context, c *models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.campaigns[c.ID]
	if !ok {
		return apperr.NotFound("campaign %s not found", c.ID)
	}
	cp := *c
	cp.Status = stored.Status
	cp.CurrentCreators = stored.CurrentCreators
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *memStore) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.applications {
		if a.CampaignID == id {
			return apperr.Conflict("campaign has applications and cannot be deleted")
		}
	}
	delete(m.campaigns, id)
	return nil
}

func (m *memStore) ListExpiredOpen(ctx context.Context, limit int) ([]models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var out []models.Campaign
	for _, c := range m.campaigns {
		if c.Status == models.CampaignStatusPublished && c.ApplicationDeadline != nil && c.ApplicationDeadline.Before(now) {
			out = append(out, *c)
		}
	}
	return out, nil
}

// --- ApplicationStore ---

func (m *memStore) CreateApplication(ctx context.Context, a *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.applications {
		if existing.CampaignID == a.CampaignID && existing.CreatorOwnerID == a.CreatorOwnerID {
			return apperr.Conflict("creator has already applied to this campaign")
		}
	}
	a.ID = uuid.New()
	a.AppliedAt = time.Now()
	a.UpdatedAt = a.AppliedAt
	cp := *a
	m.applications[a.ID] = &cp
	return nil
}

func (m *memStore) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return nil, apperr.NotFound("application %s not found", id)
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) ListApplications(ctx context.Context, f models.ApplicationFilter) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Application
	for _, a := range m.applications {
		if f.CampaignID != nil && a.CampaignID != *f.CampaignID {
			continue
		}
		if f.CreatorOwnerID != nil && a.CreatorOwnerID != *f.CreatorOwnerID {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *memStore) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, from, to string, reason *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok || a.Status != from {
		return apperr.Conflict("application %s was modified concurrently", id)
	}
	now := time.Now()
	a.Status = to
	switch to {
	case models.ApplicationStatusShortlisted:
		a.ShortlistedAt = &now
	case models.ApplicationStatusRejected:
		a.RejectionReason = reason
		a.RejectedAt = &now
	case models.ApplicationStatusWithdrawn:
		a.WithdrawnAt = &now
	}
	a.UpdatedAt = now
	return nil
}

func (m *memStore) Hire(ctx context.Context, appID, campaignID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[campaignID]
	if !ok {
		return apperr.NotFound("campaign %s not found", campaignID)
	}
	if c.CurrentCreators >= c.MaxCreators {
		return apperr.InvalidState("campaign has no remaining creator slots")
	}
	a, ok := m.applications[appID]
	if !ok || a.Status != models.ApplicationStatusShortlisted {
		return apperr.Conflict("application %s was modified concurrently", appID)
	}
	a.Status = models.ApplicationStatusHired
	now := time.Now()
	a.HiredAt = &now
	c.CurrentCreators++
	return nil
}

func (m *memStore) ListOpenByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Application
	for _, a := range m.applications {
		if a.CampaignID != campaignID {
			continue
		}
		switch a.Status {
		case models.ApplicationStatusApplied, models.ApplicationStatusUnderReview, models.ApplicationStatusShortlisted:
			out = append(out, *a)
		}
	}
	return out, nil
}

// --- ContractStore ---

func (m *memStore) CreateWithMilestones(ctx context.Context, c *models.Contract, milestones []models.Milestone) ([]models.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.contracts {
		if existing.ApplicationID == c.ApplicationID {
			return nil, apperr.Conflict("a contract already exists for this application")
		}
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.contracts[c.ID] = &cp

	created := make([]models.Milestone, 0, len(milestones))
	for _, in := range milestones {
		in.ID = uuid.New()
		in.ContractID = c.ID
		in.Status = models.MilestoneStatusPending
		in.CreatedAt = time.Now()
		mcp := in
		m.milestones[in.ID] = &mcp
		created = append(created, in)
	}
	return created, nil
}

func (m *memStore) GetContract(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok {
		return nil, apperr.NotFound("contract %s not found", id)
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contracts {
		if c.ApplicationID == applicationID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("no contract for application %s", applicationID)
}

func (m *memStore) ListContracts(ctx context.Context, f models.ContractFilter) ([]models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Contract
	for _, c := range m.contracts {
		if f.BrandUserID != nil && c.BrandUserID != *f.BrandUserID {
			continue
		}
		if f.CreatorUserID != nil && c.CreatorUserID != *f.CreatorUserID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) UpdateContractStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok || c.Status != from {
		return apperr.Conflict("contract %s was modified concurrently", id)
	}
	c.Status = to
	c.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) Activate(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok || c.Status != models.ContractStatusPendingCreatorSignature {
		return apperr.Conflict("contract %s was modified concurrently", id)
	}
	now := time.Now()
	c.Status = models.ContractStatusActive
	c.SignedAt = &now
	for _, ms := range m.milestones {
		if ms.ContractID == id && ms.TriggerType == models.MilestoneTriggerContractSigned && ms.Status == models.MilestoneStatusPending {
			ms.Status = models.MilestoneStatusReady
			ms.ReadyAt = &now
		}
	}
	return nil
}

func (m *memStore) CancelWithMilestones(ctx context.Context, id uuid.UUID, from string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok || c.Status != from {
		return apperr.Conflict("contract %s was modified concurrently", id)
	}
	now := time.Now()
	c.Status = models.ContractStatusCancelled
	c.CancelReason = &reason
	for _, ms := range m.milestones {
		if ms.ContractID != id {
			continue
		}
		switch ms.Status {
		case models.MilestoneStatusPending, models.MilestoneStatusReady:
			ms.Status = models.MilestoneStatusCancelled
			ms.CancelledAt = &now
		}
	}
	return nil
}

func (m *memStore) Milestones(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Milestone
	for _, ms := range m.milestones {
		if ms.ContractID == contractID {
			out = append(out, *ms)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *memStore) GetMilestone(ctx context.Context, id uuid.UUID) (*models.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.milestones[id]
	if !ok {
		return nil, apperr.NotFound("milestone %s not found", id)
	}
	cp := *ms
	return &cp, nil
}

func (m *memStore) MarkMilestoneReady(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.milestones[id]
	if !ok || ms.Status != models.MilestoneStatusPending {
		return apperr.Conflict("milestone %s was modified concurrently", id)
	}
	now := time.Now()
	ms.Status = models.MilestoneStatusReady
	ms.ReadyAt = &now
	return nil
}

func (m *memStore) ListDueDateMilestones(ctx context.Context, limit int) ([]models.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var out []models.Milestone
	for _, ms := range m.milestones {
		if ms.TriggerType != models.MilestoneTriggerDate || ms.Status != models.MilestoneStatusPending {
			continue
		}
		if ms.DueDate == nil || ms.DueDate.After(now) {
			continue
		}
		c, ok := m.contracts[ms.ContractID]
		if !ok || c.Status != models.ContractStatusActive {
			continue
		}
		out = append(out, *ms)
	}
	return out, nil
}

// --- EscrowStore ---

func (m *memStore) CreateEscrow(ctx context.Context, e *models.EscrowTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.escrows {
		if existing.ContractID == e.ContractID {
			return apperr.Conflict("escrow already exists for contract %s", e.ContractID)
		}
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	m.escrows[e.ID] = &cp
	return nil
}

func (m *memStore) GetEscrow(ctx context.Context, id uuid.UUID) (*models.EscrowTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.escrows[id]
	if !ok {
		return nil, apperr.NotFound("escrow %s not found", id)
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) GetByContractID(ctx context.Context, contractID uuid.UUID) (*models.EscrowTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.escrows {
		if e.ContractID == contractID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("no escrow for contract %s", contractID)
}

func (m *memStore) MarkFunded(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.escrows[id]
	if !ok || e.Status != models.EscrowStatusPendingDeposit {
		return apperr.Conflict("escrow %s was modified concurrently", id)
	}
	now := time.Now()
	e.Status = models.EscrowStatusFunded
	e.FundedAt = &now
	return nil
}

func (m *memStore) UpdateEscrowStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.escrows[id]
	if !ok || e.Status != from {
		return apperr.Conflict("escrow %s was modified concurrently", id)
	}
	now := time.Now()
	e.Status = to
	switch to {
	case models.EscrowStatusDisputed:
		e.DisputedAt = &now
	case models.EscrowStatusRefunded:
		e.RefundedAt = &now
	}
	return nil
}

func (m *memStore) Release(ctx context.Context, escrowID, milestoneID uuid.UUID, amount, fee, net int64) (*models.Payment, *models.EscrowTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.escrows[escrowID]
	if !ok {
		return nil, nil, apperr.NotFound("escrow %s not found", escrowID)
	}
	if !e.Releasable() {
		return nil, nil, apperr.InvalidState("escrow is %s, funds cannot be released", e.Status)
	}
	if e.ReleasedAmount+amount > e.TotalAmount {
		return nil, nil, apperr.OverRelease("release of %d would exceed escrow total %d (already released %d)",
			amount, e.TotalAmount, e.ReleasedAmount)
	}
	ms, ok := m.milestones[milestoneID]
	if !ok || ms.Status != models.MilestoneStatusReady {
		return nil, nil, apperr.Conflict("milestone %s was modified concurrently", milestoneID)
	}
	now := time.Now()
	ms.Status = models.MilestoneStatusPaid
	ms.PaidAt = &now

	p := &models.Payment{
		ID:                  uuid.New(),
		EscrowTransactionID: escrowID,
		MilestoneID:         &milestoneID,
		Amount:              amount,
		PlatformFee:         fee,
		NetAmount:           net,
		Status:              models.PaymentStatusPending,
		CreatedAt:           now,
	}
	m.payments[p.ID] = p

	e.ReleasedAmount += amount
	if e.ReleasedAmount == e.TotalAmount {
		e.Status = models.EscrowStatusFullyReleased
	} else {
		e.Status = models.EscrowStatusPartiallyReleased
	}
	pcp := *p
	ecp := *e
	return &pcp, &ecp, nil
}

func (m *memStore) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, apperr.NotFound("payment %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListPayments(ctx context.Context, escrowID uuid.UUID) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Payment
	for _, p := range m.payments {
		if p.EscrowTransactionID == escrowID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to string, failureReason *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok || p.Status != from {
		return apperr.Conflict("payment %s was modified concurrently", id)
	}
	now := time.Now()
	p.Status = to
	switch to {
	case models.PaymentStatusCompleted:
		p.CompletedAt = &now
	case models.PaymentStatusFailed:
		p.FailureReason = failureReason
	}
	return nil
}

// --- AuditStore ---

func (m *memStore) Log(ctx context.Context, entry models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	m.auditLog = append(m.auditLog, entry)
	return nil
}

func (m *memStore) GetByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit, offset int) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AuditLog
	for _, l := range m.auditLog {
		if l.EntityType == entityType && l.EntityID != nil && *l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(ctx context.Context, stream string, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) byType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Adapters presenting memStore under each store interface. Needed because
// the interfaces reuse method names like Create and GetByID.

type fakeCampaigns struct{ *memStore }

func (f fakeCampaigns) Create(ctx context.Context, c *models.Campaign) error {
	return f.CreateCampaign(ctx, c)
}
func (f fakeCampaigns) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return f.GetCampaign(ctx, id)
}
func (f fakeCampaigns) List(ctx context.Context, fl models.CampaignFilter) ([]models.Campaign, error) {
	return f.ListCampaigns(ctx, fl)
}
func (f fakeCampaigns) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	return f.UpdateCampaignStatus(ctx, id, from, to)
}
func (f fakeCampaigns) UpdateDetails(ctx context.Context, c *models.Campaign) error {
	return f.UpdateCampaignDetails(ctx, c)
}
func (f fakeCampaigns) Delete(ctx context.Context, id uuid.UUID) error {
	return f.DeleteCampaign(ctx, id)
}

type fakeApplications struct{ *memStore }

func (f fakeApplications) Create(ctx context.Context, a *models.Application) error {
	return f.CreateApplication(ctx, a)
}
func (f fakeApplications) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return f.GetApplication(ctx, id)
}
func (f fakeApplications) List(ctx context.Context, fl models.ApplicationFilter) ([]models.Application, error) {
	return f.ListApplications(ctx, fl)
}
func (f fakeApplications) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string, reason *string) error {
	return f.UpdateApplicationStatus(ctx, id, from, to, reason)
}

type fakeContracts struct{ *memStore }

func (f fakeContracts) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	return f.GetContract(ctx, id)
}
func (f fakeContracts) List(ctx context.Context, fl models.ContractFilter) ([]models.Contract, error) {
	return f.ListContracts(ctx, fl)
}
func (f fakeContracts) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	return f.UpdateContractStatus(ctx, id, from, to)
}

type fakeEscrows struct{ *memStore }

func (f fakeEscrows) Create(ctx context.Context, e *models.EscrowTransaction) error {
	return f.CreateEscrow(ctx, e)
}
func (f fakeEscrows) GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowTransaction, error) {
	return f.GetEscrow(ctx, id)
}
func (f fakeEscrows) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	return f.UpdateEscrowStatus(ctx, id, from, to)
}
