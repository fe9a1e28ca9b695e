package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/birdieplay/birdieplay-backend/api/routes"
	"github.com/birdieplay/birdieplay-backend/internal/config"
	"github.com/birdieplay/birdieplay-backend/internal/handlers"
	"github.com/birdieplay/birdieplay-backend/internal/services"
	"github.com/birdieplay/birdieplay-backend/pkg/notify"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	mongorepo "github.com/birdieplay/birdieplay-backend/internal/repositories/mongodb"
	"github.com/birdieplay/birdieplay-backend/pkg/mongodb"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	userRepo := mongorepo.NewUserRepository(db)
	scoreRepo := mongorepo.NewScoreRepository(db)
	subRepo := mongorepo.NewSubscriptionRepository(db)
	drawRepo := mongorepo.NewDrawRepository(db)
	entryRepo := mongorepo.NewDrawEntryRepository(db)
	donationRepo := mongorepo.NewDonationRepository(db)
	jackpotRepo := mongorepo.NewJackpotRepository(db)
	charityRepo := mongorepo.NewCharityRepository(db)
	payoutRepo := mongorepo.NewCharityPayoutRepository(db)
	settingsRepo := mongorepo.NewDrawSettingsRepository(db)
	auditRepo := mongorepo.NewAuditEventRepository(db)

	// Services
	auditService := services.NewAuditService(auditRepo)
	eligibilityService := services.NewEligibilityService(subRepo, userRepo, scoreRepo, cfg.Draw.TestAccountEmail)
	notifier := notify.NewGateway(cfg)
	drawService := services.NewDrawService(
		drawRepo, entryRepo, donationRepo, scoreRepo, subRepo, userRepo,
		jackpotRepo, settingsRepo, eligibilityService, auditService, notifier,
	)
	settlementService := services.NewSettlementService(
		entryRepo, drawRepo, userRepo, donationRepo, charityRepo, payoutRepo, auditService,
	)
	subscriptionService := services.NewSubscriptionService(subRepo, drawRepo, userRepo)
	settingsService := services.NewSettingsService(settingsRepo, auditService)
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo, scoreRepo, charityRepo)
	charityService := services.NewCharityService(charityRepo)

	// Handlers
	deps := routes.HandlerDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService),
		UserHandler:         handlers.NewUserHandler(userService),
		DrawHandler:         handlers.NewDrawHandler(drawService, eligibilityService),
		SettlementHandler:   handlers.NewSettlementHandler(settlementService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(subscriptionService),
		CharityHandler:      handlers.NewCharityHandler(charityService),
		SettingsHandler:     handlers.NewSettingsHandler(settingsService, auditService),
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
