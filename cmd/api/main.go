package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/campushub/rewards-service/internal/cache"
	"github.com/campushub/rewards-service/internal/config"
	"github.com/campushub/rewards-service/internal/handler"
	"github.com/campushub/rewards-service/internal/model"
	"github.com/campushub/rewards-service/internal/repository"
	"github.com/campushub/rewards-service/internal/service"
	"github.com/campushub/rewards-service/internal/validator"
	"github.com/campushub/rewards-service/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Balance cache is optional; an empty REDIS_ADDR disables it and all
	// balance reads go straight to PostgreSQL.
	var balanceCache *cache.BalanceCache
	if cfg.Redis.Addr != "" {
		balanceCache, err = cache.NewBalanceCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.BalanceTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("balance cache enabled")
	} else {
		log.Info().Msg("balance cache disabled")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Campus Rewards Service",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit (explicit, prevents large payloads)
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator
	validate := validator.New()

	// Initialize components (layered architecture)
	rewardRepo := repository.NewRewardRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	redemptionRepo := repository.NewRedemptionRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	// The concrete *cache.BalanceCache must only reach the services as a
	// nil interface when disabled, hence the explicit branching.
	var invalidator service.BalanceCacheInterface
	var cacheReader service.BalanceCacheReaderInterface
	if balanceCache != nil {
		invalidator = balanceCache
		cacheReader = balanceCache
	}

	rewardService := service.NewRewardService(pool, rewardRepo, userRepo, redemptionRepo, notificationRepo, invalidator,
		service.RewardServiceOptions{
			DedupWindow: cfg.Rewards.DedupWindow,
			MaxAttempts: cfg.Rewards.RedeemMaxAttempts,
		})
	pointsService := service.NewPointsService(userRepo, cacheReader, cfg.Rewards.LeaderboardLimit)
	notificationService := service.NewNotificationService(notificationRepo)

	rewardHandler := handler.NewRewardHandler(rewardService, validate)
	redeemHandler := handler.NewRedeemHandler(rewardService)
	pointsHandler := handler.NewPointsHandler(pointsService, redemptionRepo)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Reward catalog and redemption routes
	app.Get("/api/rewards", rewardHandler.ListRewards)
	app.Post("/api/rewards", handler.RequireUser(), handler.RequireRole(model.RoleAdmin, model.RoleOrganizer), rewardHandler.CreateReward)
	app.Post("/api/rewards/:id/redeem", handler.RequireUser(), redeemHandler.Redeem)

	// Points and leaderboard routes
	app.Get("/api/points/balance", handler.RequireUser(), pointsHandler.Balance)
	app.Get("/api/points/history", handler.RequireUser(), pointsHandler.History)
	app.Get("/api/leaderboard", pointsHandler.Leaderboard)

	// Notification routes
	app.Get("/api/notifications", handler.RequireUser(), notificationHandler.List)
	app.Patch("/api/notifications/:id/read", handler.RequireUser(), notificationHandler.MarkRead)
	app.Delete("/api/notifications/:id", handler.RequireUser(), notificationHandler.Delete)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	if balanceCache != nil {
		if err := balanceCache.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis connection")
		}
	}
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
