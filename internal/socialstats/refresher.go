package socialstats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creator-marketplace/backend/internal/models"
)

type ProfileStore interface {
	ListCreatorsForStatsRefresh(ctx context.Context, staleAfter time.Duration, limit int) ([]models.User, error)
	UpdateChannelStats(ctx context.Context, id uuid.UUID, followers, avgViews *int) error
}

// Refresher keeps creators' follower and view counts current. One instance
// runs inside the worker.
type Refresher struct {
	fetcher    *Fetcher
	profiles   ProfileStore
	staleAfter time.Duration
	batchSize  int
	log        *zap.Logger
}

func NewRefresher(fetcher *Fetcher, profiles ProfileStore, staleAfter time.Duration, batchSize int, log *zap.Logger) *Refresher {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &Refresher{
		fetcher:    fetcher,
		profiles:   profiles,
		staleAfter: staleAfter,
		batchSize:  batchSize,
		log:        log,
	}
}

// RefreshOnce updates one batch of stale creator profiles and reports how
// many it touched. A failed fetch skips the creator rather than aborting the
// batch.
func (r *Refresher) RefreshOnce(ctx context.Context) (int, error) {
	creators, err := r.profiles.ListCreatorsForStatsRefresh(ctx, r.staleAfter, r.batchSize)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range creators {
		c := &creators[i]
		if c.ChannelURL == nil || *c.ChannelURL == "" {
			continue
		}
		stats, err := r.fetcher.Fetch(ctx, *c.ChannelURL)
		if err != nil {
			r.log.Warn("channel stats fetch failed",
				zap.String("user_id", c.ID.String()),
				zap.String("url", *c.ChannelURL),
				zap.Error(err),
			)
			continue
		}
		if err := r.profiles.UpdateChannelStats(ctx, c.ID, stats.Followers, stats.AvgViews); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
