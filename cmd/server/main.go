// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/marquee/internal/api"
	"github.com/tomtom215/marquee/internal/auth"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/database"
	"github.com/tomtom215/marquee/internal/events"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/review"
	"github.com/tomtom215/marquee/internal/supervisor"
	"github.com/tomtom215/marquee/internal/supervisor/services"
	catalogsync "github.com/tomtom215/marquee/internal/sync"
	ws "github.com/tomtom215/marquee/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	issueToken := flag.String("issue-token", "", "print an admin token for `subject` and exit")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if *issueToken != "" {
		if err := printToken(&cfg.Security, *issueToken); err != nil {
			logging.Fatal().Err(err).Msg("Failed to issue token")
		}
		return
	}

	logging.Info().Str("version", version).Msg("Starting Marquee with supervisor tree")
	logging.Info().
		Str("db_driver", cfg.Database.Driver).
		Str("environment", cfg.Server.Environment).
		Int("sync_pages", cfg.Sync.Pages).
		Dur("sync_interval", cfg.Sync.Interval).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Str("driver", db.Driver()).Msg("Database initialized successfully")

	// TMDB source: token bucket inside the client, circuit breaker around it
	source := catalogsync.NewCircuitBreakerSource(catalogsync.NewTMDBClient(&cfg.TMDB))

	bus := events.NewBus(logging.NewWatermillAdapter(logging.WithComponent("events")))
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	synchronizer := catalogsync.NewSynchronizer(source, db, &cfg.Sync, bus)
	syncManager := catalogsync.NewManager(synchronizer, &cfg.Sync, cfg.Server.SyncTimeout, bus)

	reviewService, closeReviewCache := newReviewService(cfg)
	defer closeReviewCache()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	wsHub := ws.NewHub()
	forwarder, err := events.NewForwarder(bus.Subscriber(), wsHub, logging.NewWatermillAdapter(logging.WithComponent("event-forwarder")))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event forwarder")
	}

	var jwtManager *auth.JWTManager
	if cfg.Security.JWTSecret != "" {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled for POST /api/v1/sync")
	} else {
		logging.Warn().Msg("JWT_SECRET is not set: POST /api/v1/sync is open to anyone who can reach the server")
	}
	enforcer, err := newEnforcer(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize access policy")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	handler := api.NewHandler(cfg, api.Deps{
		Catalog: db,
		Sync:    syncManager,
		Reviews: reviewService,
		Videos:  source,
		Version: version,
	})
	defer handler.Close()

	router := api.NewRouter(
		handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		auth.NewMiddleware(jwtManager, enforcer),
		ws.NewHandler(wsHub, cfg.Security.CORSOrigins),
	)

	// The write timeout must outlive a synchronous POST /sync; the handler
	// extends its own deadline, every other route keeps the short one.
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(forwarder)
	if cfg.Sync.Interval > 0 || cfg.Sync.OnStartup {
		tree.AddMessagingService(services.NewSyncService(syncManager))
		logging.Info().Dur("interval", cfg.Sync.Interval).Bool("on_startup", cfg.Sync.OnStartup).Msg("Sync scheduler added to supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	cancel()

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// newReviewService builds the review service and returns a cleanup func for
// its cache. A cache that fails to open is logged and skipped.
func newReviewService(cfg *config.Config) (*review.Service, func()) {
	client := review.NewOpenAIClient(&cfg.OpenAI)
	cleanup := func() {}

	if !cfg.ReviewCache.Enabled {
		return review.NewService(client, client.Model(), nil), cleanup
	}

	reviewCache, err := review.OpenBadgerCache(cfg.ReviewCache.Path, cfg.ReviewCache.TTL)
	if err != nil {
		logging.Warn().Err(err).Msg("Review cache unavailable, generating every review")
		return review.NewService(client, client.Model(), nil), cleanup
	}
	cleanup = func() {
		if err := reviewCache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing review cache")
		}
	}
	return review.NewService(client, client.Model(), reviewCache), cleanup
}

// newEnforcer loads the access policy from security.policy_path, or the
// built-in policy when unset.
func newEnforcer(sec *config.SecurityConfig) (*auth.Enforcer, error) {
	if sec.PolicyPath == "" {
		return auth.NewEnforcer("")
	}
	policy, err := os.ReadFile(sec.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", sec.PolicyPath, err)
	}
	logging.Info().Str("path", sec.PolicyPath).Msg("Loaded access policy")
	return auth.NewEnforcer(string(policy))
}

// printToken writes an admin token for subject to stdout.
func printToken(sec *config.SecurityConfig, subject string) error {
	jwtManager, err := auth.NewJWTManager(sec)
	if err != nil {
		return err
	}
	token, err := jwtManager.GenerateToken(subject, auth.RoleAdmin)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, token)
	return err
}
