package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dean3213321/inventory-pos/internal/backend"
	"github.com/dean3213321/inventory-pos/internal/cache"
	"github.com/dean3213321/inventory-pos/internal/checkout"
	"github.com/dean3213321/inventory-pos/internal/export"
	h "github.com/dean3213321/inventory-pos/internal/http"
	"github.com/dean3213321/inventory-pos/internal/publisher"
	"github.com/dean3213321/inventory-pos/internal/repository"
	"github.com/dean3213321/inventory-pos/internal/session"
)

type Config struct {
	HTTPPort        string
	BackendBaseURL  string
	RedisAddr       string
	KafkaBrokers    []string
	ReceiptDir      string
	RequestTimeout  time.Duration
	BackendTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		BackendBaseURL:  getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		ReceiptDir:      getEnv("RECEIPT_DIR", "./receipts"),
		RequestTimeout:  30 * time.Second,
		BackendTimeout:  5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("inventory-pos starting...")

	cfg := loadConfig()

	// Database setup
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "inventory")
	migrationsPath := getEnv("MIGRATIONS_PATH", "./internal/repository/migrations")

	port, err := strconv.Atoi(dbPort)
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	creds := &repository.Credentials{
		Host:              dbHost,
		Port:              port,
		User:              dbUser,
		Password:          dbPass,
		DBName:            dbName,
		MigrationsDirPath: migrationsPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Backend REST client
	backendClient := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout)
	log.Printf("Using inventory backend at %s", cfg.BackendBaseURL)

	// Redis-backed read-through catalog for the two listings
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	catalog := cache.NewCatalog(backendClient, cache.NewRedisCache(redisClient))

	// In-memory checkout sessions
	sessions := session.NewStore()
	defer sessions.Close()

	// Checkout pipeline
	renderer := export.NewFileRenderer(cfg.ReceiptDir)
	resolver := checkout.NewResolver(backendClient, catalog, cfg.BackendTimeout)
	committer := checkout.NewCommitter(backendClient, repo, renderer, cfg.BackendTimeout)

	// Outbox poller publishes completed sales to Kafka
	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	poller := publisher.NewOutboxPoller(repo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	checkoutHandler := h.NewCheckoutHandler(resolver, committer, catalog, sessions, cfg.RequestTimeout)
	adminHandler := h.NewAdminHandler(backendClient, catalog, cfg.RequestTimeout)

	r := h.NewRouter(checkoutHandler, adminHandler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Admin panel API listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
