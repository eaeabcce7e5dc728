package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/cart"
	"sneaker_store_echo/internal/catalog"
	"sneaker_store_echo/internal/config"
	"sneaker_store_echo/internal/logging"
	"sneaker_store_echo/internal/services"
	"sneaker_store_echo/internal/tasks"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := services.InitDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	if err := services.AutoMigrate(db, logger); err != nil {
		logger.Fatal("run database migrations", zap.Error(err))
	}

	runnerOpts := tasks.RunnerOptions{Logger: logger}
	var cache services.Cache = services.NewMemoryCache()
	if cfg.Redis.URL != "" {
		redisCache, err := services.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal("connect redis", zap.Error(err))
		}
		defer redisCache.Close()
		cache = redisCache
		runnerOpts.Locker = redisCache
	} else {
		logger.Warn("REDIS_URL not set, tasks are not locked across workers and cache warming only affects this process")
	}

	client := backend.NewClient(backend.Options{
		BaseURL:    cfg.Backend.BaseURL,
		Timeout:    cfg.Backend.Timeout,
		MaxRetries: cfg.Backend.MaxRetries,
		Logger:     logger,
	})

	registry := tasks.NewRegistry()
	tasks.DefineTasks(registry, tasks.Deps{
		Catalog:      catalog.NewService(client, cache, cfg.Catalog.CacheTTL, logger),
		GuestCarts:   cart.NewGormGuestStore(db),
		GuestCartTTL: cfg.Session.GuestCartTTL,
		Logger:       logger,
	})
	runner := tasks.NewRunner(tasks.NewGormTaskStore(db), registry, runnerOpts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("worker started",
		zap.Duration("interval", cfg.Worker.Interval),
		zap.Strings("tasks", registry.Names()),
	)
	runner.Run(ctx, cfg.Worker.Interval)
	logger.Info("worker stopped")
}
