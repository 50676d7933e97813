package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/models"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `id, brand_owner_id, title, brief, status, budget, currency,
       max_creators, current_creators, application_deadline, created_at, updated_at`

func scanCampaign(row interface{ Scan(dest ...any) error }, c *models.Campaign) error {
	return row.Scan(&c.ID, &c.BrandOwnerID, &c.Title, &c.Brief, &c.Status, &c.Budget, &c.Currency,
		&c.MaxCreators, &c.CurrentCreators, &c.ApplicationDeadline, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (brand_owner_id, title, brief, status, budget, currency, max_creators, application_deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, current_creators, created_at, updated_at
	`, c.BrandOwnerID, c.Title, c.Brief, c.Status, c.Budget, c.Currency, c.MaxCreators, c.ApplicationDeadline,
	).Scan(&c.ID, &c.CurrentCreators, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var c models.Campaign
	err := scanCampaign(r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id), &c)
	if isNoRows(err) {
		return nil, apperr.NotFound("campaign %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) List(ctx context.Context, f models.CampaignFilter) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.BrandOwnerID != nil {
		where = append(where, fmt.Sprintf("brand_owner_id = $%d", argIdx))
		args = append(args, *f.BrandOwnerID)
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

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// UpdateStatus performs a guarded status move. The WHERE clause re-checks the
// expected current status so a concurrent transition loses cleanly instead of
// overwriting.
func (r *CampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET status = $1, updated_at = now() WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Conflict("campaign %s was modified concurrently", id)
	}
	return nil
}

func (r *CampaignRepo) UpdateDetails(ctx context.Context, c *models.Campaign) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET title = $1, brief = $2, budget = $3, currency = $4,
		       max_creators = $5, application_deadline = $6, updated_at = now()
		WHERE id = $7
	`, c.Title, c.Brief, c.Budget, c.Currency, c.MaxCreators, c.ApplicationDeadline, c.ID)
	return err
}

// Delete removes a campaign that has no applications yet. Campaigns with
// dependent records are never deleted.
func (r *CampaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM applications WHERE campaign_id = $1`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("campaign %s has applications and cannot be deleted", id)
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("campaign %s not found", id)
	}
	return nil
}

// ListExpiredOpen returns published campaigns whose application deadline has
// passed, for the worker's application expiry sweep.
func (r *CampaignRepo) ListExpiredOpen(ctx context.Context, limit int) ([]models.Campaign, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status = 'published' AND application_deadline IS NOT NULL AND application_deadline < now()
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
