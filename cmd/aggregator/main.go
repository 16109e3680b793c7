package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/crypto-aggregator/internal/cache"
	"github.com/rickgao/crypto-aggregator/internal/coingecko"
	"github.com/rickgao/crypto-aggregator/internal/config"
	"github.com/rickgao/crypto-aggregator/internal/database"
	"github.com/rickgao/crypto-aggregator/internal/health"
	"github.com/rickgao/crypto-aggregator/internal/prefetch"
	"github.com/rickgao/crypto-aggregator/internal/ratelimit"
	"github.com/rickgao/crypto-aggregator/internal/registry"
	"github.com/rickgao/crypto-aggregator/internal/resolve"
	"github.com/rickgao/crypto-aggregator/internal/server"
	"github.com/rickgao/crypto-aggregator/internal/store"
	"github.com/rickgao/crypto-aggregator/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/aggregator.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting aggregator",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"addr", cfg.Server.Addr,
		"api_url", cfg.API.BaseURL,
		"cache_backend", cfg.Cache.Backend,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	assetStore := store.NewPostgresStore(pool, logger)

	// Select the cache tier
	var assetCache cache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB, cfg.Cache.TTL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		assetCache = redisCache
	default:
		assetCache = cache.NewMemoryCache(cfg.Cache.TTL)
	}

	// Create origin API client
	apiClient := coingecko.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		coingecko.WithLogger(logger),
		coingecko.WithTimeout(cfg.API.Timeout),
		coingecko.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
	)

	// Start asset registry (initial blocking catalog sync)
	logger.Info("starting asset registry")
	assetRegistry := registry.New(registry.Config{
		RefreshInterval: cfg.Registry.RefreshInterval,
	}, apiClient, logger)
	if err := assetRegistry.Start(ctx); err != nil {
		logger.Error("failed to start asset registry", "error", err)
		os.Exit(1)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := assetRegistry.Stop(stopCtx); err != nil {
			logger.Error("asset registry stop failed", "error", err)
		}
	}()
	logger.Info("asset registry started", "assets", assetRegistry.Len())

	// Resolution engine
	engine := resolve.New(
		resolve.Config{
			PrefetchDays:   cfg.Prefetch.Days,
			MaxHistoryDays: cfg.Prefetch.MaxHistoryDays,
		},
		coingecko.NewQueryBuilder(cfg.API.APIKey, assetRegistry),
		assetRegistry,
		assetCache,
		assetStore,
		apiClient,
		logger,
	)

	// Rate limiter with its window reset loop
	limiter := ratelimit.New(int64(cfg.RateLimit.MaxRequests), logger)
	go limiter.RunResetLoop(ctx, cfg.RateLimit.Window)

	// Upstream health monitor
	monitor := health.NewMonitor(apiClient, cfg.Health.PingInterval, cfg.API.Timeout, logger)
	monitor.Start(ctx)
	defer monitor.Stop()

	// Warm the store in the background; the server serves while it runs
	prefetcher := prefetch.New(prefetch.Config{
		Assets:      cfg.Prefetch.Assets,
		Days:        cfg.Prefetch.Days,
		Concurrency: cfg.Prefetch.Concurrency,
		Timeout:     cfg.Prefetch.Timeout,
	}, engine, logger)
	go func() {
		if err := prefetcher.Run(ctx); err != nil {
			logger.Warn("prefetch run ended early", "error", err)
		}
	}()

	// HTTP edge, blocks until shutdown
	srv := server.NewServer(cfg.Server.Addr, engine, assetCache, assetStore, monitor, limiter, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("aggregator stopped")
}
