package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/models"
)

type ContractRepo struct {
	pool *pgxpool.Pool
}

func NewContractRepo(pool *pgxpool.Pool) *ContractRepo {
	return &ContractRepo{pool: pool}
}

const contractColumns = `id, application_id, brand_user_id, creator_user_id, status, terms,
       total_amount, currency, signed_at, cancel_reason, created_at, updated_at`

const milestoneColumns = `id, contract_id, title, amount, status, trigger_type, order_index,
       due_date, ready_at, paid_at, cancelled_at, created_at`

func scanContract(row interface{ Scan(dest ...any) error }, c *models.Contract) error {
	return row.Scan(&c.ID, &c.ApplicationID, &c.BrandUserID, &c.CreatorUserID, &c.Status, &c.Terms,
		&c.TotalAmount, &c.Currency, &c.SignedAt, &c.CancelReason, &c.CreatedAt, &c.UpdatedAt)
}

func scanMilestone(row interface{ Scan(dest ...any) error }, m *models.Milestone) error {
	return row.Scan(&m.ID, &m.ContractID, &m.Title, &m.Amount, &m.Status, &m.TriggerType, &m.OrderIndex,
		&m.DueDate, &m.ReadyAt, &m.PaidAt, &m.CancelledAt, &m.CreatedAt)
}

// CreateWithMilestones inserts the contract and its milestones in one
// transaction. The unique constraint on application_id closes the race
// between concurrent creation requests: the loser sees Conflict.
func (r *ContractRepo) CreateWithMilestones(ctx context.Context, c *models.Contract, milestones []models.Milestone) ([]models.Milestone, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO contracts (application_id, brand_user_id, creator_user_id, status, terms, total_amount, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.ApplicationID, c.BrandUserID, c.CreatorUserID, c.Status, c.Terms, c.TotalAmount, c.Currency,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("a contract already exists for this application")
	}
	if err != nil {
		return nil, err
	}

	created := make([]models.Milestone, 0, len(milestones))
	for _, m := range milestones {
		m.ContractID = c.ID
		m.Status = models.MilestoneStatusPending
		err = tx.QueryRow(ctx, `
			INSERT INTO milestones (contract_id, title, amount, status, trigger_type, order_index, due_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`, m.ContractID, m.Title, m.Amount, m.Status, m.TriggerType, m.OrderIndex, m.DueDate).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		created = append(created, m)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *ContractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	var c models.Contract
	err := scanContract(r.pool.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id), &c)
	if isNoRows(err) {
		return nil, apperr.NotFound("contract %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContractRepo) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*models.Contract, error) {
	var c models.Contract
	err := scanContract(r.pool.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE application_id = $1`, applicationID), &c)
	if isNoRows(err) {
		return nil, apperr.NotFound("no contract for application %s", applicationID)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContractRepo) List(ctx context.Context, f models.ContractFilter) ([]models.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.BrandUserID != nil {
		where = append(where, fmt.Sprintf("brand_user_id = $%d", argIdx))
		args = append(args, *f.BrandUserID)
		argIdx++
	}
	if f.CreatorUserID != nil {
		where = append(where, fmt.Sprintf("creator_user_id = $%d", argIdx))
		args = append(args, *f.CreatorUserID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []models.Contract
	for rows.Next() {
		var c models.Contract
		if err := scanContract(rows, &c); err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// UpdateStatus performs a guarded status move without side effects. Used for
// draft -> pending_creator_signature and active -> completed.
func (r *ContractRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE contracts SET status = $1, updated_at = now() WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Conflict("contract %s was modified concurrently", id)
	}
	return nil
}

// Activate signs the contract and flips its contract-signed milestones to
// ready in the same transaction — the cascade is part of the signing commit,
// never a follow-up write.
func (r *ContractRepo) Activate(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE contracts SET status = $1, signed_at = now(), updated_at = now()
		WHERE id = $2 AND status = $3
	`, models.ContractStatusActive, id, models.ContractStatusPendingCreatorSignature)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Conflict("contract %s was modified concurrently", id)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE milestones SET status = $1, ready_at = now()
		WHERE contract_id = $2 AND status = $3 AND trigger_type = $4
	`, models.MilestoneStatusReady, id, models.MilestoneStatusPending, models.MilestoneTriggerContractSigned); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CancelWithMilestones cancels the contract and every pending or ready
// milestone in one commit.
func (r *ContractRepo) CancelWithMilestones(ctx context.Context, id uuid.UUID, from string, reason string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE contracts SET status = $1, cancel_reason = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`, models.ContractStatusCancelled, reason, id, from)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Conflict("contract %s was modified concurrently", id)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE milestones SET status = $1, cancelled_at = now()
		WHERE contract_id = $2 AND status IN ($3, $4)
	`, models.MilestoneStatusCancelled, id, models.MilestoneStatusPending, models.MilestoneStatusReady); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ContractRepo) Milestones(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+milestoneColumns+` FROM milestones WHERE contract_id = $1 ORDER BY order_index, created_at
	`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []models.Milestone
	for rows.Next() {
		var m models.Milestone
		if err := scanMilestone(rows, &m); err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func (r *ContractRepo) GetMilestone(ctx context.Context, id uuid.UUID) (*models.Milestone, error) {
	var m models.Milestone
	err := scanMilestone(r.pool.QueryRow(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE id = $1`, id), &m)
	if isNoRows(err) {
		return nil, apperr.NotFound("milestone %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MarkMilestoneReady flips a pending milestone to ready (manual and
// deliverable-approval triggers, and the worker's date trigger).
func (r *ContractRepo) MarkMilestoneReady(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE milestones SET status = $1, ready_at = now() WHERE id = $2 AND status = $3
	`, models.MilestoneStatusReady, id, models.MilestoneStatusPending)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Conflict("milestone %s was modified concurrently", id)
	}
	return nil
}

// ListDueDateMilestones returns pending date-trigger milestones on active
// contracts whose due date has passed.
func (r *ContractRepo) ListDueDateMilestones(ctx context.Context, limit int) ([]models.Milestone, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+aliasedColumns("m", milestoneColumns)+`
		FROM milestones m
		JOIN contracts c ON c.id = m.contract_id
		WHERE m.status = $1 AND m.trigger_type = $2 AND m.due_date IS NOT NULL AND m.due_date < now()
		  AND c.status = $3
		LIMIT $4
	`, models.MilestoneStatusPending, models.MilestoneTriggerDate, models.ContractStatusActive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	milestones, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Milestone, error) {
		var m models.Milestone
		err := scanMilestone(row, &m)
		return m, err
	})
	if err != nil {
		return nil, err
	}
	return milestones, nil
}
