package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/models"
)

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

const applicationColumns = `id, campaign_id, creator_owner_id, status, pitch, proposed_rate,
       rejection_reason, applied_at, shortlisted_at, hired_at, rejected_at, withdrawn_at, updated_at`

func scanApplication(row interface{ Scan(dest ...any) error }, a *models.Application) error {
	return row.Scan(&a.ID, &a.CampaignID, &a.CreatorOwnerID, &a.Status, &a.Pitch, &a.ProposedRate,
		&a.RejectionReason, &a.AppliedAt, &a.ShortlistedAt, &a.HiredAt, &a.RejectedAt, &a.WithdrawnAt, &a.UpdatedAt)
}

func (r *ApplicationRepo) Create(ctx context.Context, a *models.Application) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO applications (campaign_id, creator_owner_id, status, pitch, proposed_rate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, applied_at, updated_at
	`, a.CampaignID, a.CreatorOwnerID, a.Status, a.Pitch, a.ProposedRate).Scan(&a.ID, &a.AppliedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("creator has already applied to this campaign")
	}
	return err
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var a models.Application
	err := scanApplication(r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id), &a)
	if isNoRows(err) {
		return nil, apperr.NotFound("application %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApplicationRepo) List(ctx context.Context, f models.ApplicationFilter) ([]models.Application, error) {
	query := `SELECT ` + aliasedColumns("a", applicationColumns) + ` FROM applications a`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.BrandOwnerID != nil {
		query += ` JOIN campaigns c ON c.id = a.campaign_id`
		where = append(where, fmt.Sprintf("c.brand_owner_id = $%d", argIdx))
		args = append(args, *f.BrandOwnerID)
		argIdx++
	}
	if f.CampaignID != nil {
		where = append(where, fmt.Sprintf("a.campaign_id = $%d", argIdx))
		args = append(args, *f.CampaignID)
		argIdx++
	}
	if f.CreatorOwnerID != nil {
		where = append(where, fmt.Sprintf("a.creator_owner_id = $%d", argIdx))
		args = append(args, *f.CreatorOwnerID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("a.status = $%d", argIdx))
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
	query += fmt.Sprintf(" ORDER BY a.applied_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var a models.Application
		if err := scanApplication(rows, &a); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// statusStampColumn maps a target application status to the timestamp column
// stamped alongside the transition.
func statusStampColumn(to string) string {
	switch to {
	case models.ApplicationStatusShortlisted:
		return "shortlisted_at"
	case models.ApplicationStatusHired:
		return "hired_at"
	case models.ApplicationStatusRejected:
		return "rejected_at"
	case models.ApplicationStatusWithdrawn:
		return "withdrawn_at"
	}
	return ""
}

// UpdateStatus performs a guarded transition from -> to, stamping the matching
// timestamp column and, for rejections, the reason. A zero-row update means
// the row moved concurrently and surfaces as Conflict for the caller to
// re-validate.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string, reason *string) error {
	query := `UPDATE applications SET status = $1, updated_at = now()`
	if col := statusStampColumn(to); col != "" {
		query += ", " + col + " = now()"
	}
	args := []any{to, id, from}
	if reason != nil {
		query += ", rejection_reason = $4"
		args = append(args, *reason)
	}
	query += ` WHERE id = $2 AND status = $3`

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Conflict("application %s was modified concurrently", id)
	}
	return nil
}

// Hire moves an application from shortlisted to hired and increments the
// campaign's hired-creator counter in one transaction. The campaign row is
// locked first so the capacity check holds at commit time: two concurrent
// hires against the last slot serialize here and exactly one succeeds.
func (r *ApplicationRepo) Hire(ctx context.Context, appID, campaignID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var maxCreators, current int
	err = tx.QueryRow(ctx, `
		SELECT max_creators, current_creators FROM campaigns WHERE id = $1 FOR UPDATE
	`, campaignID).Scan(&maxCreators, &current)
	if isNoRows(err) {
		return apperr.NotFound("campaign %s not found", campaignID)
	}
	if err != nil {
		return err
	}
	if current >= maxCreators {
		return apperr.InvalidState("campaign has no remaining creator slots")
	}

	ct, err := tx.Exec(ctx, `
		UPDATE applications SET status = $1, hired_at = now(), updated_at = now()
		WHERE id = $2 AND status = $3
	`, models.ApplicationStatusHired, appID, models.ApplicationStatusShortlisted)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Conflict("application %s was modified concurrently", appID)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE campaigns SET current_creators = current_creators + 1, updated_at = now() WHERE id = $1
	`, campaignID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListOpenByCampaign returns applications still in a non-terminal status for
// the worker's deadline expiry sweep.
func (r *ApplicationRepo) ListOpenByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Application, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE campaign_id = $1 AND status IN ('applied', 'under_review', 'shortlisted')
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var a models.Application
		if err := scanApplication(rows, &a); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
