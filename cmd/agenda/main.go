package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/agenda-bfa-go/internal/config"
	"github.com/boddenberg/agenda-bfa-go/internal/domain"
	"github.com/boddenberg/agenda-bfa-go/internal/handler"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/cache"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/observability"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/postgres"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/supabase"
	"github.com/boddenberg/agenda-bfa-go/internal/port"
	"github.com/boddenberg/agenda-bfa-go/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.String("cache_backend", cfg.CacheBackend),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
	)

	if cfg.SupabaseURL == "" {
		logger.Fatal("SUPABASE_URL is required")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "agenda-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	var profileCache port.Cache[*domain.Profile]
	switch cfg.CacheBackend {
	case config.CacheRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()
		profileCache = cache.NewRedis[*domain.Profile](rdb, "agenda:", cfg.CacheTTL, logger)
		logger.Info("profile cache: redis", zap.String("addr", cfg.RedisAddr))
	default:
		mem := cache.New[*domain.Profile](cfg.CacheTTL)
		defer mem.Close()
		profileCache = mem
		logger.Info("profile cache: in-memory")
	}

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("supabase")
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Hosted backend ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	supabaseClient := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		cb,
		resilienceCfg,
		logger,
	)

	var (
		profiles  port.ProfileStore  = supabaseClient
		schedules port.ScheduleStore = supabaseClient
		backend   handler.Pinger     = supabaseClient
	)

	if cfg.StorageBackend == config.StoragePostgres {
		if cfg.DatabaseURL == "" {
			logger.Fatal("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to create postgres pool", zap.Error(err))
		}
		defer pool.Close()

		store := postgres.NewStore(pool)
		profiles, schedules, backend = store, store, store
		logger.Info("using Postgres as data backend")
	} else {
		logger.Info("using Supabase as data backend",
			zap.String("supabase_url", cfg.SupabaseURL),
		)
	}

	// --- Services ---
	identitySvc := service.NewIdentityService(profiles, profileCache, cfg.SupabaseJWTSecret, metrics, logger)
	authSvc := service.NewAuthService(supabaseClient, profiles, identitySvc, logger)
	scheduleSvc := service.NewScheduleService(schedules, bulkhead, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(identitySvc, authSvc, scheduleSvc, backend, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
