package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, password_hash, role, display_name, channel_url,
       followers, avg_views, stats_fetched_at, created_at, last_active_at`

func scanUser(row interface{ Scan(dest ...any) error }, u *models.User) error {
	return row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.DisplayName, &u.ChannelURL,
		&u.Followers, &u.AvgViews, &u.StatsFetchedAt, &u.CreatedAt, &u.LastActiveAt)
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role, display_name, channel_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, last_active_at
	`, u.Email, u.PasswordHash, u.Role, u.DisplayName, u.ChannelURL).Scan(&u.ID, &u.CreatedAt, &u.LastActiveAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("email %s is already registered", u.Email)
	}
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), &u)
	if isNoRows(err) {
		return nil, apperr.NotFound("user %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email), &u)
	if isNoRows(err) {
		return nil, apperr.NotFound("no account for %s", email)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Touch(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_active_at = now() WHERE id = $1`, id)
	return err
}

func (r *UserRepo) UpdateChannelStats(ctx context.Context, id uuid.UUID, followers, avgViews *int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET followers = $1, avg_views = $2, stats_fetched_at = now() WHERE id = $3
	`, followers, avgViews, id)
	return err
}

// ListCreatorsForStatsRefresh returns creators with a channel URL whose stats
// snapshot is older than staleAfter (or missing).
func (r *UserRepo) ListCreatorsForStatsRefresh(ctx context.Context, staleAfter time.Duration, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role = 'creator' AND channel_url IS NOT NULL
		  AND (stats_fetched_at IS NULL OR stats_fetched_at < now() - ($1 || ' seconds')::interval)
		ORDER BY stats_fetched_at NULLS FIRST
		LIMIT $2
	`, fmt.Sprintf("%d", int(staleAfter.Seconds())), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
