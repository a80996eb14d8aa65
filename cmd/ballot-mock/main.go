// Command ballot-mock serves the voting API in memory for local development
// and end-to-end testing of the ballot client.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ballotbox/ballot/internal/api"
	"github.com/ballotbox/ballot/internal/backend"
	"github.com/ballotbox/ballot/internal/infrastructure/config"
	redisdb "github.com/ballotbox/ballot/internal/infrastructure/db/redis"
	"github.com/ballotbox/ballot/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("ballot-mock stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadServer(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "ballot-mock",
	})

	guard, closeGuard, err := buildGuard(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeGuard()

	store := backend.NewMemoryStore()
	auth := backend.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL)
	election := backend.NewElectionService(store, store, guard, log)

	if err := backend.Seed(ctx, auth, election, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.Candidates); err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Auth:      auth,
		Election:  election,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("vote_guard", cfg.VoteGuard).
			Str("admin", cfg.Seed.AdminEmail).
			Msg("ballot-mock listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildGuard picks the ballot box. With Redis, several mock instances share
// votes and results.
func buildGuard(ctx context.Context, cfg *config.Server, log zerolog.Logger) (backend.VoteGuard, func(), error) {
	if cfg.VoteGuard != "redis" {
		return backend.NewMemoryGuard(), func() {}, nil
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis vote guard connected")

	return redisdb.NewVoteGuard(rdb), func() { _ = rdb.Close() }, nil
}
