package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gobooks/internal/adapter/http"
	"github.com/iho/gobooks/internal/adapter/http/handler"
	"github.com/iho/gobooks/internal/adapter/http/middleware"
	boltRepo "github.com/iho/gobooks/internal/adapter/repository/bolt"
	"github.com/iho/gobooks/internal/adapter/repository/idgen"
	memoryRepo "github.com/iho/gobooks/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gobooks/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobooks/internal/adapter/repository/redis"
	"github.com/iho/gobooks/internal/infrastructure/config"
	"github.com/iho/gobooks/internal/infrastructure/logger"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
	"github.com/iho/gobooks/internal/infrastructure/postgres"
	"github.com/iho/gobooks/internal/infrastructure/redis"
	"github.com/iho/gobooks/internal/usecase"
)

// limiterIdleTTL is how long a client's rate limiter survives without traffic.
const limiterIdleTTL = time.Hour

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := newApp(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer app.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      app.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if app.limiter != nil {
		go sweepLimiters(ctx, app.limiter, log)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func sweepLimiters(ctx context.Context, rl *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(limiterIdleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(limiterIdleTTL); n > 0 {
				log.Debug().Int("removed", n).Msg("dropped idle rate limiters")
			}
		}
	}
}

// app is the wired HTTP service and the resources it owns.
type app struct {
	handler http.Handler
	limiter *middleware.RateLimiter
	closers []func()
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// storage is one backend's implementation of the repository interfaces.
type storage struct {
	txManager usecase.TransactionManager
	accounts  usecase.AccountRepository
	journal   usecase.JournalRepository
	ledger    usecase.LedgerRepository
	retrier   usecase.Retrier
	check     handler.HealthCheck
	close     func()
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)

	m := metrics.New(reg)
	opts := []usecase.Option{
		usecase.WithLogger(log),
		usecase.WithMetrics(m),
		usecase.WithReportConcurrency(cfg.ReportConcurrency),
		usecase.WithBalancePolicy(usecase.BalancePolicy(cfg.EntryBalancePolicy)),
	}
	if store.retrier != nil {
		opts = append(opts, usecase.WithRetrier(store.retrier))
	}

	checks := []handler.HealthCheck{store.check}

	var idempotencyStore usecase.IdempotencyStore
	if cfg.UsesRedis() {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { client.Close() })
		log.Info().Msg("connected to redis")

		checks = append(checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redis.Ping(ctx, client) },
		})

		if cfg.ReportCacheEnabled {
			opts = append(opts, usecase.WithReportCache(redisRepo.NewReportCache(client), cfg.ReportCacheTTL))
		}
		if cfg.IdempotencyEnabled {
			idempotencyStore = redisRepo.NewIdempotencyStore(client)
		}
	}

	ids := idgen.NewULIDGenerator()
	accountUC := usecase.NewAccountUseCase(store.accounts, ids, opts...)
	journalUC := usecase.NewJournalUseCase(store.txManager, store.journal, ids, opts...)
	reportUC := usecase.NewReportUseCase(store.accounts, store.journal, opts...)
	ledgerUC := usecase.NewLedgerUseCase(store.ledger)

	if cfg.RateLimitRPS > 0 {
		a.limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits)
	}

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		JournalHandler:     handler.NewJournalHandler(journalUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC),
		HealthHandler:      handler.NewHealthHandler(checks...),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        a.limiter,
		Metrics:            m,
		Gatherer:           reg,
		Logger:             log,
	})

	return a, nil
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if cfg.DatabaseMigrate {
			if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
				return nil, err
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Info().Msg("connected to postgres")

		return &storage{
			txManager: postgresRepo.NewTxManager(pool),
			accounts:  postgresRepo.NewAccountRepository(pool),
			journal:   postgresRepo.NewJournalRepository(pool),
			ledger:    postgresRepo.NewLedgerRepository(pool),
			retrier:   postgresRepo.NewRetrier(log),
			check:     handler.HealthCheck{Name: "postgres", Check: pool.Ping},
			close:     pool.Close,
		}, nil

	case config.DriverBolt:
		if dir := filepath.Dir(cfg.BoltPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create bolt directory: %w", err)
			}
		}

		store, err := boltRepo.Open(cfg.BoltPath, cfg.BoltTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		log.Info().Str("path", cfg.BoltPath).Msg("opened bolt store")

		return &storage{
			txManager: boltRepo.NewTxManager(store),
			accounts:  boltRepo.NewAccountRepository(store),
			journal:   boltRepo.NewJournalRepository(store),
			ledger:    boltRepo.NewLedgerRepository(store),
			check:     handler.HealthCheck{Name: "bolt", Check: store.Ping},
			close: func() {
				if err := store.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close bolt store")
				}
			},
		}, nil

	case config.DriverMemory:
		db := memoryRepo.NewDB()
		log.Warn().Msg("using in-memory storage; data is lost on restart")

		return &storage{
			txManager: memoryRepo.NewTxManager(db),
			accounts:  memoryRepo.NewAccountRepository(db),
			journal:   memoryRepo.NewJournalRepository(db),
			ledger:    memoryRepo.NewLedgerRepository(db),
			check:     handler.HealthCheck{Name: "memory", Check: func(context.Context) error { return nil }},
			close:     func() {},
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidConfig, cfg.StorageDriver)
	}
}
