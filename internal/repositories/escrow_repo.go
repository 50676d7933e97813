package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/models"
)

type EscrowRepo struct {
	pool *pgxpool.Pool
}

func NewEscrowRepo(pool *pgxpool.Pool) *EscrowRepo {
	return &EscrowRepo{pool: pool}
}

const escrowColumns = `id, contract_id, total_amount, platform_fee, fee_bps, released_amount,
       currency, status, funded_at, refunded_at, disputed_at, created_at, updated_at`

const paymentColumns = `id, escrow_transaction_id, milestone_id, amount, platform_fee, net_amount,
       status, failure_reason, completed_at, created_at`

func scanEscrow(row interface{ Scan(dest ...any) error }, e *models.EscrowTransaction) error {
	return row.Scan(&e.ID, &e.ContractID, &e.TotalAmount, &e.PlatformFee, &e.FeeBPS, &e.ReleasedAmount,
		&e.Currency, &e.Status, &e.FundedAt, &e.RefundedAt, &e.DisputedAt, &e.CreatedAt, &e.UpdatedAt)
}

func scanPayment(row interface{ Scan(dest ...any) error }, p *models.Payment) error {
	return row.Scan(&p.ID, &p.EscrowTransactionID, &p.MilestoneID, &p.Amount, &p.PlatformFee, &p.NetAmount,
		&p.Status, &p.FailureReason, &p.CompletedAt, &p.CreatedAt)
}

// Create inserts the escrow for a contract. The unique constraint on
// contract_id means a concurrent funding request loses with Conflict.
func (r *EscrowRepo) Create(ctx context.Context, e *models.EscrowTransaction) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO escrow_transactions (contract_id, total_amount, platform_fee, fee_bps, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, released_amount, created_at, updated_at
	`, e.ContractID, e.TotalAmount, e.PlatformFee, e.FeeBPS, e.Currency, e.Status,
	).Scan(&e.ID, &e.ReleasedAmount, &e.CreatedAt, &e.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("escrow already exists for contract %s", e.ContractID)
	}
	return err
}

func (r *EscrowRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowTransaction, error) {
	var e models.EscrowTransaction
	err := scanEscrow(r.pool.QueryRow(ctx, `SELECT `+escrowColumns+` FROM escrow_transactions WHERE id = $1`, id), &e)
	if isNoRows(err) {
		return nil, apperr.NotFound("escrow %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EscrowRepo) GetByContractID(ctx context.Context, contractID uuid.UUID) (*models.EscrowTransaction, error) {
	var e models.EscrowTransaction
	err := scanEscrow(r.pool.QueryRow(ctx, `SELECT `+escrowColumns+` FROM escrow_transactions WHERE contract_id = $1`, contractID), &e)
	if isNoRows(err) {
		return nil, apperr.NotFound("no escrow for contract %s", contractID)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// MarkFunded records the payment processor's deposit confirmation.
func (r *EscrowRepo) MarkFunded(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions SET status = $1, funded_at = now(), updated_at = now()
		WHERE id = $2 AND status = $3
	`, models.EscrowStatusFunded, id, models.EscrowStatusPendingDeposit)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Conflict("escrow %s was modified concurrently", id)
	}
	return nil
}

// UpdateStatus performs a guarded escrow status move, stamping disputed_at or
// refunded_at when entering those states.
func (r *EscrowRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	query := `UPDATE escrow_transactions SET status = $1, updated_at = now()`
	switch to {
	case models.EscrowStatusDisputed:
		query += ", disputed_at = now()"
	case models.EscrowStatusRefunded:
		query += ", refunded_at = now()"
	}
	query += ` WHERE id = $2 AND status = $3`

	ct, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Conflict("escrow %s was modified concurrently", id)
	}
	return nil
}

// Release pays out one ready milestone against the escrow: payment insert,
// milestone -> paid, released_amount increment and status recompute, all in
// one commit. The escrow row is locked first so the over-release check holds
// at commit time. A release that would exceed the total is rejected, never
// clamped.
func (r *EscrowRepo) Release(ctx context.Context, escrowID, milestoneID uuid.UUID, amount, fee, net int64) (*models.Payment, *models.EscrowTransaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var e models.EscrowTransaction
	err = scanEscrow(tx.QueryRow(ctx, `
		SELECT `+escrowColumns+` FROM escrow_transactions WHERE id = $1 FOR UPDATE
	`, escrowID), &e)
	if isNoRows(err) {
		return nil, nil, apperr.NotFound("escrow %s not found", escrowID)
	}
	if err != nil {
		return nil, nil, err
	}

	if !e.Releasable() {
		return nil, nil, apperr.InvalidState("escrow is %s, funds cannot be released", e.Status)
	}
	if e.ReleasedAmount+amount > e.TotalAmount {
		return nil, nil, apperr.OverRelease("release of %d would exceed escrow total %d (already released %d)",
			amount, e.TotalAmount, e.ReleasedAmount)
	}

	ct, err := tx.Exec(ctx, `
		UPDATE milestones SET status = $1, paid_at = now() WHERE id = $2 AND status = $3
	`, models.MilestoneStatusPaid, milestoneID, models.MilestoneStatusReady)
	if err != nil {
		return nil, nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, nil, apperr.Conflict("milestone %s was modified concurrently", milestoneID)
	}

	p := models.Payment{
		EscrowTransactionID: escrowID,
		MilestoneID:         &milestoneID,
		Amount:              amount,
		PlatformFee:         fee,
		NetAmount:           net,
		Status:              models.PaymentStatusPending,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO payments (escrow_transaction_id, milestone_id, amount, platform_fee, net_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, p.EscrowTransactionID, p.MilestoneID, p.Amount, p.PlatformFee, p.NetAmount, p.Status).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	e.ReleasedAmount += amount
	if e.ReleasedAmount == e.TotalAmount {
		e.Status = models.EscrowStatusFullyReleased
	} else {
		e.Status = models.EscrowStatusPartiallyReleased
	}
	if _, err := tx.Exec(ctx, `
		UPDATE escrow_transactions SET released_amount = $1, status = $2, updated_at = now() WHERE id = $3
	`, e.ReleasedAmount, e.Status, escrowID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &p, &e, nil
}

func (r *EscrowRepo) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := scanPayment(r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id), &p)
	if isNoRows(err) {
		return nil, apperr.NotFound("payment %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *EscrowRepo) ListPayments(ctx context.Context, escrowID uuid.UUID) ([]models.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments WHERE escrow_transaction_id = $1 ORDER BY created_at
	`, escrowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// UpdatePaymentStatus records processor settlement progress, stamping
// completed_at or the failure reason.
func (r *EscrowRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to string, failureReason *string) error {
	query := `UPDATE payments SET status = $1`
	args := []any{to, id, from}
	switch to {
	case models.PaymentStatusCompleted:
		query += ", completed_at = now()"
	case models.PaymentStatusFailed:
		query += ", failure_reason = $4"
		args = append(args, failureReason)
	}
	query += ` WHERE id = $2 AND status = $3`

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Conflict("payment %s was modified concurrently", id)
	}
	return nil
}
