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

	"github.com/go-redis/redis/v8"

	"github.com/languageloom/languageloom-backend/internal/auth"
	"github.com/languageloom/languageloom-backend/internal/config"
	"github.com/languageloom/languageloom-backend/internal/db"
	"github.com/languageloom/languageloom-backend/internal/handlers"
	"github.com/languageloom/languageloom-backend/internal/lock"
	"github.com/languageloom/languageloom-backend/internal/logging"
	"github.com/languageloom/languageloom-backend/internal/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("error disconnecting from store", "error", err)
		}
	}()

	locker, redisClient, err := openLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if cfg.StripeSecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY not set, payment intents will fail")
	}
	stripeService := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeAPIURL)

	handler := handlers.NewHandler(handlers.Deps{
		Issuer:      auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Users:       services.NewUserService(store),
		Classes:     services.NewClassService(store, locker),
		Instructors: services.NewInstructorService(store),
		Selections:  services.NewSelectionService(store),
		Enrollments: services.NewEnrollmentService(store),
		Payments:    services.NewPaymentService(store, stripeService),
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*db.Store, error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("using in-memory store, data is lost on restart")
		return db.NewMemoryStore(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	store, err := db.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to MongoDB", "database", cfg.MongoDatabase)

	if err := store.EnsureIndexes(connectCtx, logger); err != nil {
		logger.Warn("could not create indexes", "error", err)
	}
	return store, nil
}

// openLocker returns the Redis locker when REDIS_URL is set and the in-process one
// otherwise. The returned client is nil for the latter.
func openLocker(ctx context.Context, cfg config.Config, logger *slog.Logger) (lock.Locker, *redis.Client, error) {
	if cfg.RedisURL == "" {
		return lock.NewLocal(), nil, nil
	}

	client, err := lock.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("using redis class locks", "lock_ttl", cfg.LockTTL)
	return lock.NewRedis(client, cfg.LockTTL, logger), client, nil
}
