package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Pesokrava/ecocart/internal/config"
	"github.com/Pesokrava/ecocart/internal/delivery/events"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/usecase/shop"
)

// The notifier tails every storefront event and writes it to the log. It
// reads with a plain subscription, so it never competes with the standings
// worker for work-queue messages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env).With("service", "notifier")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := events.NewConsumer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS consumer", err)
	}
	defer consumer.Close()

	if err := consumer.Subscribe(shop.EventsSubject, events.LoggingHandler(appLogger)); err != nil {
		appLogger.Fatal("Failed to subscribe to "+shop.EventsSubject, err)
	}

	appLogger.Infof("Notifier listening on %s", shop.EventsSubject)

	<-ctx.Done()
	appLogger.Info("Shutting down notifier service...")
}
