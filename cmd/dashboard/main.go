// Command dashboard serves the Growthzi dashboard: session handling, the
// website dashboard and editor, and the role administration panel, all on
// top of the Growthzi backend API.
//
//	@title			Growthzi Dashboard API
//	@version		1.0
//	@description	Session, dashboard, site editor and role administration for Growthzi generated websites.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/growthzi/dashboard/docs"
	"github.com/growthzi/dashboard/internal/api"
	"github.com/growthzi/dashboard/internal/api/handler"
	"github.com/growthzi/dashboard/internal/api/metrics"
	"github.com/growthzi/dashboard/internal/core/ports"
	"github.com/growthzi/dashboard/internal/core/service"
	"github.com/growthzi/dashboard/internal/infrastructure/backend"
	"github.com/growthzi/dashboard/internal/infrastructure/config"
	filestore "github.com/growthzi/dashboard/internal/infrastructure/store/file"
	memorystore "github.com/growthzi/dashboard/internal/infrastructure/store/memory"
	redisstore "github.com/growthzi/dashboard/internal/infrastructure/store/redis"
	"github.com/growthzi/dashboard/pkg/logger"
)

const (
	serviceName     = "growthzi-dashboard"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log := logger.Init(logger.Options{Service: serviceName})
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty && !cfg.IsProduction(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("dashboard stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	checks := map[string]handler.Checker{}

	tokens, closeTokens, err := openTokenStore(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer closeTokens()

	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
	}, tokens, logger.Component("backend"), backend.WithObserver(metrics.BackendObserver{}))
	if err != nil {
		return err
	}
	checks["backend"] = client

	sessions := service.NewSessionStore(backend.NewAuthAPI(client), tokens, log)
	api.WatchSession(ctx, sessions, metrics.TrackSession)

	e := api.NewRouter(api.Deps{
		Sessions: sessions,
		Sites:    service.NewSiteService(backend.NewWebsiteAPI(client), cfg.Backend.PreviewURL, log),
		Admin:    service.NewAdminService(backend.NewAdminAPI(client), log),
		Notices:  service.NewNotices(),
		Checks:   checks,
		Logger:   log,
	})

	// Requests arriving before the token is resolved see the loading state.
	go func() {
		snap := sessions.Initialize(ctx)
		log.Info().
			Bool("authenticated", snap.Authenticated()).
			Str("role", snap.Role().String()).
			Msg("session resolved")
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("backend", client.BaseURL()).
			Str("token_store", cfg.Token.Store).
			Msg("dashboard listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openTokenStore builds the configured TokenStore and registers its
// readiness check when it has one.
func openTokenStore(ctx context.Context, cfg *config.Config, checks map[string]handler.Checker) (ports.TokenStore, func(), error) {
	switch cfg.Token.Store {
	case config.StoreRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		store := redisstore.NewTokenStore(rdb, cfg.Token.Key)
		checks["redis"] = store
		return store, func() { _ = rdb.Close() }, nil
	case config.StoreMemory:
		return memorystore.NewTokenStore(), func() {}, nil
	default:
		return filestore.NewTokenStore(cfg.Token.File, cfg.Token.Key), func() {}, nil
	}
}
