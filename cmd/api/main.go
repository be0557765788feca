// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the identity and registration backend of the PWD registry.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build token service and policy enforcer.
//  7. Wire HTTP handlers.
//  8. Start HTTP server and background jobs with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/pwdregistry/internal/api"
	"github.com/taibuivan/pwdregistry/internal/platform/authz"
	"github.com/taibuivan/pwdregistry/internal/platform/config"
	"github.com/taibuivan/pwdregistry/internal/platform/constants"
	"github.com/taibuivan/pwdregistry/internal/platform/migration"
	pgstore "github.com/taibuivan/pwdregistry/internal/platform/postgres"
	redisstore "github.com/taibuivan/pwdregistry/internal/platform/redis"
	"github.com/taibuivan/pwdregistry/internal/platform/sec"
	"github.com/taibuivan/pwdregistry/internal/registry"
	"github.com/taibuivan/pwdregistry/internal/users/auth"
	"github.com/taibuivan/pwdregistry/internal/users/profile"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Startup deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Tokens & Policy ────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	policy, err := authz.NewDefaultEnforcer()
	must(log, err, "initialize policy enforcer")

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	profileService, err := profile.NewService(profile.NewRepository(pool), cfg.ProfileCacheSize, cfg.DefaultRoleID)
	must(log, err, "initialize profile service")

	sessionRepository := auth.NewSessionRepository(pool)
	authService := auth.NewService(
		auth.NewAccountRepository(pool),
		sessionRepository,
		auth.NewVerificationTokenRepository(rdb),
		auth.NewResendThrottle(rdb),
		jwtSvc,
		profileService,
		auth.NewLogMailer(log),
		auth.Options{
			PublicBaseURL:      cfg.PublicBaseURL,
			VerifyTokenTTL:     cfg.VerifyTokenTTL,
			ResendConfirmDelay: cfg.ResendConfirmDelay,
			DefaultRoleID:      cfg.DefaultRoleID,
		},
	)

	registryService := registry.NewService(registry.NewRepository(pool))

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, !cfg.IsDevelopment()),
		Profile:   profile.NewHandler(profileService),
		Registry:  registry.NewHandler(registryService),
	}

	// ── 8. HTTP Server & Background Jobs ──────────────────────────────────
	appCtx, appCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer appCancel()

	server := api.NewServer(appCtx, cfg, log, jwtSvc, policy, handlers)

	go purgeExpiredSessions(appCtx, sessionRepository, log)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-appCtx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
	)
}

// purgeExpiredSessions deletes expired refresh sessions until ctx ends.
func purgeExpiredSessions(ctx context.Context, sessions auth.SessionRepository, log *slog.Logger) {
	ticker := time.NewTicker(constants.SessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := sessions.DeleteExpired(ctx)
			if err != nil {
				log.Warn("session_cleanup_failed", slog.Any("error", err))
				continue
			}
			if deleted > 0 {
				log.Info("session_cleanup_completed", slog.Int64("deleted", deleted))
			}
		}
	}
}

// must logs a structured fatal error and exits when err is non-nil. Use it
// for startup wiring only.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
