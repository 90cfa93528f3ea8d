// Command server runs the super-app backend API.
//
// Startup order: env file, config, logger, tracing, database, in-memory
// stores, HTTP router, then the listener with graceful shutdown on SIGINT
// or SIGTERM.
//
// @title        Superapp Backend API
// @version      1.0
// @description  Backend core for the super-app client: chats, catalog, fulfillment orders, assistant, preferences.
// @BasePath     /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/nkarpov/go-superapp-backend/internal/catalog"
	"github.com/nkarpov/go-superapp-backend/internal/config"
	"github.com/nkarpov/go-superapp-backend/internal/fulfillment"
	httpapi "github.com/nkarpov/go-superapp-backend/internal/http"
	"github.com/nkarpov/go-superapp-backend/internal/observability"
	"github.com/nkarpov/go-superapp-backend/internal/repo"
	"github.com/nkarpov/go-superapp-backend/internal/sysutil"
)

// version is stamped by the build via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	store := catalog.NewStore()
	feed := fulfillment.NewFeed(50)
	orders := fulfillment.NewManager(fulfillment.Config{
		SearchDelay: cfg.Fulfillment.SearchDelay,
		ResetDelay:  cfg.Fulfillment.ResetDelay,
	}, fulfillment.NewRealClock(), feed)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, store, orders, feed, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
		return
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
