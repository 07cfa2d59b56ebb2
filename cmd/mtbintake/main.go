// Command mtbintake runs the MTB case intake service: it loads its
// configuration, wires the validation catalog, the staging store, and the
// downstream query service together into the intake pipeline, and serves
// them over HTTP until asked to shut down.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/dnpm-intake/mtbvalidate/internal/api"
	"github.com/dnpm-intake/mtbvalidate/internal/catalog"
	"github.com/dnpm-intake/mtbvalidate/internal/config"
	"github.com/dnpm-intake/mtbvalidate/internal/intake"
	"github.com/dnpm-intake/mtbvalidate/internal/queryservice"
	"github.com/dnpm-intake/mtbvalidate/internal/repository"
	"github.com/dnpm-intake/mtbvalidate/internal/validator"
)

func main() {
	cfg, err := config.NewManager()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	logger := newLogger(cfg.Config().Logging)
	logger.WithField("site", cfg.SiteIdentifier()).Info("starting mtb intake service")

	reg, err := catalog.NewStaticRegistry()
	if err != nil {
		logger.Fatalf("loading reference catalog: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	staging, closeStaging, err := newStagingStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("opening staging store: %v", err)
	}
	defer closeStaging()

	qs := newQueryService(cfg, logger)

	pipeline := &intake.Pipeline{
		Registry:    reg,
		Clock:       validator.SystemClock{},
		Staging:     staging,
		Query:       qs,
		Log:         logger,
		SiteID:      cfg.SiteIdentifier(),
		Idempotency: newIdempotencyCache(cfg, logger),
	}

	server := api.NewServer(cfg, pipeline, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received, draining in-flight requests")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatalf("server stopped with error: %v", err)
	}
	logger.Info("mtb intake service stopped")
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// newStagingStore opens either the Postgres-backed or the single-file
// SQLite-backed StagingStore, depending on configuration, running schema
// migrations first in the Postgres case.
func newStagingStore(ctx context.Context, cfg *config.Manager, logger *logrus.Logger) (repository.StagingStore, func(), error) {
	if cfg.UsesSQLite() {
		store, err := repository.NewSQLiteStagingStore(cfg.Config().Database.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}

	connStr := cfg.DatabaseConnectionString()
	runner, err := repository.NewMigrationRunner(connStr, cfg.Config().Database.MigrationsPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating migration runner: %w", err)
	}
	if err := runner.Up(); err != nil {
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	store := repository.NewPostgresStagingStore(pool, logger)
	return store, pool.Close, nil
}

// newIdempotencyCache returns nil when no Redis URL is configured, leaving
// the upload retry short-circuit disabled rather than failing startup over
// an optional optimization.
func newIdempotencyCache(cfg *config.Manager, logger *logrus.Logger) *intake.IdempotencyCache {
	cacheCfg := cfg.Config().Cache
	if cacheCfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cacheCfg.RedisURL)
	if err != nil {
		logger.WithField("error", err).Warn("invalid cache.redis_url, disabling upload idempotency cache")
		return nil
	}
	return intake.NewIdempotencyCache(redis.NewClient(opts), cacheCfg.TTL)
}

func newQueryService(cfg *config.Manager, logger *logrus.Logger) queryservice.QueryService {
	qs := cfg.Config().QueryService
	return queryservice.NewHTTPClient(queryservice.Config{
		BaseURL:     qs.BaseURL,
		Timeout:     qs.Timeout,
		RateLimit:   rate.Limit(qs.RateLimit),
		RateBurst:   qs.RateBurst,
		MaxRequests: qs.MaxRequests,
		Interval:    qs.Interval,
		BreakerOpen: qs.BreakerOpen,
	}, logger)
}
