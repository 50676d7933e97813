package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/http/handlers"
	"github.com/creator-marketplace/backend/internal/middleware"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	campaignHandler *handlers.CampaignHandler,
	applicationHandler *handlers.ApplicationHandler,
	contractHandler *handlers.ContractHandler,
	escrowHandler *handlers.EscrowHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public, rate-limited)
	authGroup := api.Group("/auth", middleware.RateLimitMiddleware(rdb, 20, time.Minute))
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// User
	protected.Get("/me", userHandler.GetMe)

	// Campaigns
	protected.Post("/campaigns", campaignHandler.Create)
	protected.Get("/campaigns", campaignHandler.List)
	protected.Get("/campaigns/:id", campaignHandler.Get)
	protected.Put("/campaigns/:id", campaignHandler.Update)
	protected.Delete("/campaigns/:id", campaignHandler.Delete)
	protected.Post("/campaigns/:id/transition", campaignHandler.Transition)

	// Applications
	protected.Post("/applications", applicationHandler.Submit)
	protected.Get("/applications", applicationHandler.List)
	protected.Get("/applications/:id", applicationHandler.Get)
	protected.Post("/applications/:id/transition", applicationHandler.Transition)

	// Contracts
	protected.Post("/contracts", contractHandler.Create)
	protected.Get("/contracts", contractHandler.List)
	protected.Get("/contracts/:id", contractHandler.Get)
	protected.Post("/contracts/:id/send", contractHandler.Send)
	protected.Post("/contracts/:id/sign", contractHandler.Sign)
	protected.Post("/contracts/:id/cancel", contractHandler.Cancel)
	protected.Post("/contracts/:id/complete", contractHandler.Complete)
	protected.Get("/contracts/:id/milestones", contractHandler.Milestones)
	protected.Get("/contracts/:id/events", contractHandler.Events)

	// Milestones
	protected.Post("/milestones/:id/ready", contractHandler.MarkMilestoneReady)
	protected.Post("/milestones/:id/release", escrowHandler.ReleaseMilestone)

	// Escrow
	protected.Post("/contracts/:id/escrow", escrowHandler.Fund)
	protected.Get("/contracts/:id/escrow", escrowHandler.GetByContract)
	protected.Get("/escrows/:id", escrowHandler.Get)
	protected.Post("/escrows/:id/dispute", escrowHandler.OpenDispute)
	protected.Get("/escrows/:id/payments", escrowHandler.Payments)
	protected.Get("/escrows/:id/events", escrowHandler.Events)

	// Operator endpoints: deposit confirmations, refunds, dispute
	// resolution and settlement callbacks
	admin := protected.Group("", middleware.AdminMiddleware(cfg))
	admin.Post("/escrows/:id/confirm", escrowHandler.ConfirmFunding)
	admin.Post("/escrows/:id/resolve", escrowHandler.ResolveDispute)
	admin.Post("/escrows/:id/refund", escrowHandler.Refund)
	admin.Post("/payments/:id/processing", escrowHandler.PaymentProcessing)
	admin.Post("/payments/:id/completed", escrowHandler.PaymentCompleted)
	admin.Post("/payments/:id/failed", escrowHandler.PaymentFailed)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
