// Command server runs the hospital-portal communication backend: the chat,
// notification, live-event, and assistant HTTP API.
//
// Startup order: env + config, logging, database (migrations, tracing
// plugin), OpenTelemetry, hub, router, HTTP server. Shutdown is graceful on
// SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/carewire/go-hospital-backend/internal/config"
	httpapi "github.com/carewire/go-hospital-backend/internal/http"
	"github.com/carewire/go-hospital-backend/internal/hub"
	"github.com/carewire/go-hospital-backend/internal/observability"
	"github.com/carewire/go-hospital-backend/internal/repo"
	"github.com/carewire/go-hospital-backend/internal/services"
	"github.com/carewire/go-hospital-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// notifStore adapts the notification repository to the hub's durable store
// contract.
type notifStore struct {
	db *gorm.DB
}

func (s notifStore) SaveNotification(ctx context.Context, userID, category, title, body string) (string, string, error) {
	n, err := repo.CreateNotification(ctx, s.db, userID, category, title, body)
	if err != nil {
		return "", "", err
	}
	return n.ID, n.CreatedAt.Format(time.RFC3339), nil
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	log.Info().Str("version", version).Str("db", cfg.DBPath).Msg("starting server")

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup opentelemetry")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Fatal().Err(err).Msg("enable gorm tracing")
		}
	}

	liveHub := hub.New(notifStore{db: db}, log.Logger, cfg.ChannelBufSize)

	var assistant services.AssistantClient
	if cfg.AssistantEnabled && cfg.AssistantURL != "" {
		assistant = &services.HTTPAssistant{URL: cfg.AssistantURL}
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, liveHub, assistant, cfg)

	// WriteTimeout stays 0: a fixed write deadline would cut long-lived
	// event streams. Handlers bound their own work via request contexts.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info().Msg("server stopped")
}
