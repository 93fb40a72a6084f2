package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streadway/amqp"

	"market/internal/cache"
	"market/internal/config"
	"market/internal/database"
	"market/internal/server"
	"market/internal/services"
	"market/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	ctx := context.Background()

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Category cache ---
	store, closeStore, err := newCacheStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer closeStore()

	// --- RabbitMQ ---
	publisher, mqClient, err := newPublisher(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	if mqClient != nil {
		defer mqClient.Close() // Ensure the connection is closed on exit

		// Order events are consumed in-process and logged.
		if err := mqClient.Consume(func(msg amqp.Delivery) error {
			return services.HandleOrderCreated(msg.Body)
		}); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- HTTP server ---
	app, err := server.New(ctx, server.Deps{
		DB:        db,
		Cache:     store,
		Publisher: publisher,
		Config:    cfg,
	})
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	log.Printf("Starting server on port %s (%s)", cfg.AppPort, cfg.Env)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}

// newCacheStore returns Redis when REDIS_ADDR is set and an in-process store
// otherwise, together with its release function.
func newCacheStore(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, using in-memory category cache")
		store := cache.NewMemoryStore(time.Minute)
		return store, func() { store.Close() }, nil
	}
	store, err := cache.NewRedisStore(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

// newPublisher connects to RabbitMQ when RABBITMQ_URL is set. Without it,
// order events are dropped and the returned client is nil.
func newPublisher(cfg *config.Config) (services.EventPublisher, *rabbitmq.Client, error) {
	if cfg.RabbitMQURL == "" {
		log.Println("RABBITMQ_URL not set, order events are disabled")
		return services.NoopPublisher{}, nil, nil
	}
	client, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:         cfg.RabbitMQURL,
		BindingKeys: []string{services.OrderCreatedRoutingKey},
	})
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}
