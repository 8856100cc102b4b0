package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pesokrava/ecocart/internal/catalog"
	"github.com/Pesokrava/ecocart/internal/config"
	"github.com/Pesokrava/ecocart/internal/delivery/events"
	httpDelivery "github.com/Pesokrava/ecocart/internal/delivery/http"
	"github.com/Pesokrava/ecocart/internal/delivery/http/handler"
	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/cache"
	"github.com/Pesokrava/ecocart/internal/pkg/database"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/pkg/token"
	cacheRepo "github.com/Pesokrava/ecocart/internal/repository/cache"
	"github.com/Pesokrava/ecocart/internal/repository/memory"
	"github.com/Pesokrava/ecocart/internal/repository/postgres"
	"github.com/Pesokrava/ecocart/internal/repository/slot"
	"github.com/Pesokrava/ecocart/internal/usecase/gamification"
	"github.com/Pesokrava/ecocart/internal/usecase/shop"
	"github.com/Pesokrava/ecocart/internal/usecase/shopper"

	_ "github.com/Pesokrava/ecocart/docs"
)

const (
	connectRetries    = 10
	connectRetryDelay = 2 * time.Second
)

// @title EcoCart API
// @version 1.0
// @description Sustainable shopping storefront: catalog browsing, cart with eco swaps, wishlist, mock sign-in and carbon gamification.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/Pesokrava/ecocart
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token from POST /sessions, sent as "Bearer <token>"

// @tag.name Sessions
// @tag.description Shopper session endpoints

// @tag.name Products
// @tag.description Catalog listing and filters

// @tag.name Reference
// @tag.description Tips and delivery options

// @tag.name Cart
// @tag.description Cart lines, eco swaps and checkout summary

// @tag.name Wishlist
// @tag.description Saved products

// @tag.name Display
// @tag.description Theme and catalog mode preferences

// @tag.name Auth
// @tag.description Mock sign-in

// @tag.name Gamification
// @tag.description Stats, badges, leaderboard and impact report

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting EcoCart API...")

	startCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(startCtx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open storage backend", err)
	}
	defer backend.close()

	var publisher shop.EventPublisher
	if cfg.NATS.Enabled {
		appLogger.Info("Connecting to NATS...")
		natsPublisher, err := events.NewPublisher(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create NATS publisher", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		appLogger.Info("NATS disabled, shop events are not published")
	}

	provider, err := catalog.Load()
	if err != nil {
		appLogger.Fatal("Failed to load catalog", err)
	}

	slots := slot.NewAdapter(backend.slots, cfg.Storage.KeyPrefix, appLogger)
	registry := shopper.NewRegistry(slots, provider, appLogger, shopper.Options{
		LoginDelay:  cfg.Auth.LoginDelay,
		Publisher:   publisher,
		IdleTTL:     cfg.Sessions.IdleTTL,
		MaxSessions: cfg.Sessions.MaxCached,
		LoadTimeout: cfg.Sessions.LoadTimeout,
	})
	tokens := token.NewManager(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	gamificationService := gamification.NewService(provider.Leaderboard(), backend.standings, appLogger)

	handlers := httpDelivery.Handlers{
		Session:      handler.NewSessionHandler(registry, tokens, appLogger),
		Catalog:      handler.NewCatalogHandler(provider, cfg.Catalog.PageSize, appLogger),
		Cart:         handler.NewCartHandler(provider, appLogger),
		Display:      handler.NewDisplayHandler(appLogger),
		Auth:         handler.NewAuthHandler(appLogger),
		Gamification: handler.NewGamificationHandler(gamificationService, provider, appLogger),
	}

	router := httpDelivery.NewRouter(handlers, tokens, registry, cfg, appLogger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.WithFields(map[string]interface{}{
			"port":    cfg.Server.Port,
			"storage": cfg.Storage.Backend,
		}).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	<-startCtx.Done()
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}

// storage is the slot backend chosen by STORAGE_BACKEND. standings is nil
// unless PostgreSQL is in use.
type storage struct {
	slots     domain.SlotStore
	standings domain.StandingRepository
	close     func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		log.Info("Connecting to Redis...")
		client, err := cache.WaitForRedis(ctx, cfg, log, connectRetries, connectRetryDelay)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to Redis successfully")

		return &storage{
			slots: cacheRepo.NewRedisSlotStore(client, cfg.Storage.SlotTTL),
			close: func() { _ = client.Close() },
		}, nil

	case config.BackendPostgres:
		log.Info("Connecting to PostgreSQL...")
		db, err := database.WaitForDB(ctx, cfg, log, connectRetries, connectRetryDelay)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to PostgreSQL successfully")

		if err := database.RunMigrations(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		return &storage{
			slots:     postgres.NewSlotRepository(db),
			standings: postgres.NewStandingRepository(db),
			close:     func() { _ = db.Close() },
		}, nil

	default:
		log.Warn("Using in-memory storage, state is lost on restart")
		return &storage{
			slots: memory.NewSlotStore(),
			close: func() {},
		}, nil
	}
}
