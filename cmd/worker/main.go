package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/db"
	"github.com/creator-marketplace/backend/internal/events"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/creator-marketplace/backend/internal/services"
	"github.com/creator-marketplace/backend/internal/socialstats"
)

const sweepBatchSize = 100

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	userRepo := repositories.NewUserRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	applicationRepo := repositories.NewApplicationRepo(pool)
	contractRepo := repositories.NewContractRepo(pool)
	escrowRepo := repositories.NewEscrowRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	campaignService := services.NewCampaignService(campaignRepo, auditRepo, publisher, cfg, log)
	applicationService := services.NewApplicationService(applicationRepo, campaignRepo, userRepo, auditRepo, publisher, log)
	contractService := services.NewContractService(contractRepo, applicationRepo, campaignRepo, escrowRepo, auditRepo, publisher, cfg, log)

	fetcher := socialstats.NewFetcher(cfg.StatsFetchTimeoutMS, cfg.StatsFetchMaxRetries, log)
	refresher := socialstats.NewRefresher(fetcher, userRepo, cfg.StatsRefreshInterval, 0, log)

	log.Info("worker started")

	// Run jobs on tickers
	deadlineTicker := time.NewTicker(1 * time.Minute)
	milestoneTicker := time.NewTicker(1 * time.Minute)
	statsTicker := time.NewTicker(cfg.StatsRefreshInterval)
	defer deadlineTicker.Stop()
	defer milestoneTicker.Stop()
	defer statsTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-deadlineTicker.C:
			runCampaignDeadlines(ctx, campaignService, applicationService, log)
		case <-milestoneTicker.C:
			runMilestoneDueDates(ctx, contractService, log)
		case <-statsTicker.C:
			runStatsRefresh(ctx, refresher, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runCampaignDeadlines(ctx context.Context, campaigns *services.CampaignService, applications *services.ApplicationService, log *zap.Logger) {
	closed, err := campaigns.CompleteExpired(ctx, sweepBatchSize)
	if err != nil {
		log.Error("failed to complete expired campaigns", zap.Error(err))
		return
	}

	for _, campaignID := range closed {
		log.Info("campaign deadline passed, closing", zap.String("campaign_id", campaignID.String()))
		rejected, err := applications.RejectOpenForCampaign(ctx, campaignID, "campaign closed")
		if err != nil {
			log.Error("failed to reject open applications", zap.String("campaign_id", campaignID.String()), zap.Error(err))
			continue
		}
		if rejected > 0 {
			log.Info("rejected open applications", zap.String("campaign_id", campaignID.String()), zap.Int("count", rejected))
		}
	}
}

func runMilestoneDueDates(ctx context.Context, contracts *services.ContractService, log *zap.Logger) {
	readied, err := contracts.ReadyDueMilestones(ctx, sweepBatchSize)
	if err != nil {
		log.Error("failed to ready due milestones", zap.Error(err))
		return
	}
	if readied > 0 {
		log.Info("readied due milestones", zap.Int("count", readied))
	}
}

func runStatsRefresh(ctx context.Context, refresher *socialstats.Refresher, log *zap.Logger) {
	updated, err := refresher.RefreshOnce(ctx)
	if err != nil {
		log.Error("stats refresh failed", zap.Error(err))
		return
	}
	log.Info("creator stats refreshed", zap.Int("count", updated))
}
