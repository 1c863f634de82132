// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the authentication HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from the environment (and an optional .env file).
//  3. Open the credential store: PostgreSQL with migrations, or in-memory.
//  4. Connect to Redis when a URL is configured and wrap the store with the user cache.
//  5. Build the hasher, token service and authentication strategies.
//  6. Start HTTP server with graceful shutdown.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/api"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/config"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/constants"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/migration"
	pgstore "github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/postgres"
	redisstore "github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/redis"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/sec"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage", cfg.StorageDriver),
		slog.Bool("cache", cfg.CacheEnabled()),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	var health api.HealthDependencies

	// ── 3. Credential Storage ─────────────────────────────────────────────
	var repository auth.UserRepository

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		repository = auth.NewUserRepository(pool)
		health.CheckDatabase = func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}

	case config.StorageMemory:
		log.Warn("using_in_memory_storage", slog.String("note", "accounts are lost on restart"))
		repository = auth.NewMemoryUserRepository()
	}

	// ── 4. Redis User Cache ───────────────────────────────────────────────
	if cfg.CacheEnabled() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer closeRedis(log, rdb)

		repository = auth.NewCachedUserRepository(repository, auth.NewRedisUserCache(rdb, cfg.UserCacheTTL))
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}

	// ── 5. Auth Wiring ────────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	hasher := sec.NewBcryptHasher()
	store := auth.NewCredentialStore(repository, hasher)

	authHandler := auth.NewHandler(
		auth.NewService(store, tokenService),
		auth.NewCredentialStrategy(store, hasher),
		auth.NewTokenStrategy(store, tokenService),
	)

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(health, log)

	server := api.NewServer(cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		return
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the process-wide JSON logger and installs it as default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

func closeRedis(log *slog.Logger, client *goredis.Client) {
	log.Info("closing redis client")
	if err := client.Close(); err != nil {
		log.Error("redis close error", slog.Any("error", err))
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
