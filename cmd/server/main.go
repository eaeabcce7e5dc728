package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/cart"
	"sneaker_store_echo/internal/cartcookie"
	"sneaker_store_echo/internal/catalog"
	"sneaker_store_echo/internal/config"
	"sneaker_store_echo/internal/handlers"
	"sneaker_store_echo/internal/logging"
	"sneaker_store_echo/internal/middleware"
	"sneaker_store_echo/internal/orders"
	"sneaker_store_echo/internal/services"
	"sneaker_store_echo/internal/session"
	"sneaker_store_echo/internal/validation"
	"sneaker_store_echo/web/templates/pages"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *gorm.DB
	if cfg.Database.URL != "" {
		db, err = services.InitDB(cfg.Database.URL, logger)
		if err != nil {
			logger.Fatal("connect database", zap.Error(err))
		}
		if err := services.AutoMigrate(db, logger); err != nil {
			logger.Fatal("run database migrations", zap.Error(err))
		}
	} else {
		logger.Warn("DATABASE_URL not set, guest carts are kept in the cache")
	}

	var cache services.Cache = services.NewMemoryCache()
	if cfg.Redis.URL != "" {
		redisCache, err := services.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal("connect redis", zap.Error(err))
		}
		defer redisCache.Close()
		cache = redisCache
	} else {
		logger.Warn("REDIS_URL not set, sessions live in process memory")
	}

	var verifier services.TokenVerifier
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err := services.InitFirebase(ctx, cfg.Firebase.CredentialsPath)
		if err != nil {
			logger.Warn("firebase initialization failed, social login disabled", zap.Error(err))
		} else {
			verifier = authClient
		}
	}
	var firebaseWeb *pages.FirebaseWeb
	if verifier != nil && cfg.Firebase.WebEnabled() {
		firebaseWeb = &pages.FirebaseWeb{
			APIKey:     cfg.Firebase.APIKey,
			AuthDomain: cfg.Firebase.AuthDomain,
			ProjectID:  cfg.Firebase.ProjectID,
		}
	}

	var guests cart.GuestStore = cart.NewCacheGuestStore(cache, cfg.Session.GuestCartTTL)
	if db != nil {
		guests = cart.NewGormGuestStore(db)
	}

	client := backend.NewClient(backend.Options{
		BaseURL:    cfg.Backend.BaseURL,
		Timeout:    cfg.Backend.Timeout,
		MaxRetries: cfg.Backend.MaxRetries,
		Logger:     logger,
	})
	catalogService := catalog.NewService(client, cache, cfg.Catalog.CacheTTL, logger)
	if err := catalogService.Warm(ctx); err != nil {
		logger.Warn("warm catalog cache", zap.Error(err))
	}

	deps := handlers.Deps{
		Backend:             client,
		Catalog:             catalogService,
		Cart:                cart.NewService(client, guests, logger),
		Orders:              orders.NewService(client, logger),
		CartCookie:          cartcookie.New([]byte(cfg.Session.CartCookieSecret), cfg.IsProduction(), cfg.Session.GuestCartTTL),
		Verifier:            verifier,
		Firebase:            firebaseWeb,
		Logger:              logger,
		AssetBase:           cfg.Backend.AssetBaseURL,
		HeaderMaxCategories: cfg.Catalog.HeaderMaxCategories,
		SecureCookies:       cfg.IsProduction(),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = middleware.CustomErrorHandler(logger, handlers.ErrorLayout(deps))

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(session.Middleware(session.Options{
		Store:  session.NewCacheStore(cache, cfg.Session.TTL),
		TTL:    cfg.Session.TTL,
		Secure: cfg.IsProduction(),
		Logger: logger,
	}))

	e.Static("/static", "web/static")
	handlers.Register(e, deps)

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("backend", cfg.Backend.BaseURL))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", zap.Error(err))
	}
}
