package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"contesthub/config"
	"contesthub/database"
	"contesthub/middleware"
	"contesthub/realtime"
	v1 "contesthub/routes/v1"
	"contesthub/services"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout   = 10 * time.Second
	realtimeBuffer    = 256
	systemMetricsTick = 15 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and the bootstrap admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		if err := database.Populate(db, cfg.AdminEmail); err != nil {
			return err
		}
		log.Info("Database migrated")
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Populate(db, cfg.AdminEmail); err != nil {
		return err
	}

	redisClient, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, role cache disabled")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	verifier, err := newVerifier(ctx, cfg.Auth)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(realtimeBuffer)
	go hub.Run(ctx)
	middleware.UpdateSystemMetrics(ctx, systemMetricsTick)

	users := services.NewUserService(db, services.NewRoleCache(redisClient, cfg.Redis.RoleTTL))
	router := v1.NewRouter(cfg, v1.Dependencies{
		DB:           db,
		Verifier:     verifier,
		Users:        users,
		Contests:     services.NewContestService(db),
		Participants: services.NewParticipantService(db),
		Payments: services.NewPaymentService(db, services.NewStripeProvider(cfg.Payment.StripeSecretKey),
			cfg.Payment.Currency, cfg.ClientURL),
		Stats:    services.NewStatsService(db),
		Hub:      hub,
		Notifier: services.NewWinnerNotifier(cfg.Mail, cfg.ClientURL, cfg.Payment.Currency),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		log.WithField("port", cfg.Port).Info("ContestHub listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newVerifier(ctx context.Context, cfg config.AuthConfig) (services.IdentityVerifier, error) {
	if cfg.Provider == config.AuthProviderJWT {
		return services.NewJWTVerifier(cfg.JWTSecret), nil
	}
	return services.NewFirebaseVerifier(ctx, cfg.FirebaseCredentials)
}
