package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kmarzh/scrim-scoreboard/broadcast"
	"github.com/kmarzh/scrim-scoreboard/config"
	"github.com/kmarzh/scrim-scoreboard/db"
	"github.com/kmarzh/scrim-scoreboard/handlers"
	"github.com/kmarzh/scrim-scoreboard/models"
	api "github.com/kmarzh/scrim-scoreboard/routes"
	"github.com/kmarzh/scrim-scoreboard/services"
	"github.com/kmarzh/scrim-scoreboard/storage"
	"github.com/kmarzh/scrim-scoreboard/syncstore"
	"github.com/kmarzh/scrim-scoreboard/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	ctx := context.Background()
	if err := storage.EnsureSchema(ctx, dbConn); err != nil {
		logger.Error("failed to ensure KV schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Tiered store: primary and mirror slots plus timestamped backups, tried
	// in that order on read.
	store, err := storage.NewTieredStore(logger, nil,
		storage.NewPostgresTier(dbConn, "primary"),
		storage.NewPostgresTier(dbConn, "mirror"),
		storage.NewPostgresBackupTier(dbConn, 20),
	)
	if err != nil {
		logger.Error("failed to build tiered store", slog.Any("error", err))
		os.Exit(1)
	}

	bus := broadcast.NewBus()
	syncer := syncstore.NewSyncer(store, bus, cfg.ReconcileInterval, logger)
	collections := syncstore.NewCollections(syncer)

	if err := syncer.Start(ctx); err != nil {
		logger.Error("failed to start syncer", slog.Any("error", err))
		os.Exit(1)
	}
	defer syncer.Stop()

	var uploader storage.FileUploader
	if cfg.EvidenceUploadsEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize evidence uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("evidence uploader initialized")
	} else {
		logger.Info("evidence uploads disabled (bucket not configured)")
	}

	wsHub := broadcast.NewHub(logger)
	go wsHub.Run()

	auditService := services.NewAuditService(collections, logger)
	authService := services.NewAuthService(collections, logger)
	teamService := services.NewTeamService(collections, utils.GenerateAccessCode)
	leaderboardService := services.NewLeaderboardService(collections)
	tournamentService := services.NewTournamentService(collections, leaderboardService, logger)
	submissionService := services.NewSubmissionService(collections, auditService, logger)
	adjustmentService := services.NewAdjustmentService(collections, auditService)
	logger.Info("services initialized")

	if err := authService.EnsureAdmin(ctx, cfg.AdminLogin, cfg.AdminPassword); err != nil {
		logger.Error("failed to seed admin account", slog.Any("error", err))
		os.Exit(1)
	}

	wireOverlayBridge(bus, wsHub, collections, leaderboardService, logger)

	authHandler := handlers.NewAuthHandler(authService, teamService, cfg.JWTSecretKey)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	teamHandler := handlers.NewTeamHandler(teamService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	adjustmentHandler := handlers.NewAdjustmentHandler(adjustmentService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	evidenceHandler := handlers.NewEvidenceHandler(uploader)
	auditHandler := handlers.NewAuditHandler(auditService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		tournamentHandler,
		teamHandler,
		submissionHandler,
		adjustmentHandler,
		leaderboardHandler,
		evidenceHandler,
		auditHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
	}
	logger.Info("application exited")
}

// wireOverlayBridge forwards collection changes from the in-process bus to
// the websocket rooms. Every scoring-relevant change triggers a leaderboard
// recomputation pushed to each active tournament's viewers; each viewer
// context could equally recompute locally from the same collections.
func wireOverlayBridge(
	bus *broadcast.Bus,
	hub *broadcast.Hub,
	collections *syncstore.Collections,
	leaderboard services.LeaderboardService,
	logger *slog.Logger,
) {
	const bridgeOrigin = "overlay-bridge"

	push := func(_ string, _ []byte) {
		ctx := context.Background()
		for _, t := range collections.Tournaments.Read(ctx) {
			if t.Status != models.TournamentActive {
				continue
			}
			stats, err := leaderboard.Compute(ctx, t.ID)
			if err != nil {
				logger.Warn("overlay push failed", slog.String("tournament_id", t.ID), slog.Any("error", err))
				continue
			}
			hub.BroadcastToRoom(t.ID, broadcast.HubMessage{
				Type:         "LEADERBOARD_UPDATED",
				Payload:      stats,
				TournamentID: t.ID,
			})
		}
	}

	for _, topic := range []string{
		syncstore.CollectionMatches,
		syncstore.CollectionAdjustments,
		syncstore.CollectionTeams,
		syncstore.CollectionTournaments,
	} {
		bus.Subscribe(bridgeOrigin, topic, push)
	}
}
