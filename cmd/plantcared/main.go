package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plantcare-backend/config"
	"plantcare-backend/internal/api"
	"plantcare-backend/internal/catalog"
	"plantcare-backend/internal/db"
	"plantcare-backend/internal/model"
	"plantcare-backend/internal/notification"
	"plantcare-backend/internal/reminder"
	"plantcare-backend/internal/store"
	"plantcare-backend/internal/translate"
	"plantcare-backend/internal/watering"
	"plantcare-backend/internal/weather"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "plantcare-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Check for VAPID keys
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatalf("VAPID keys must be configured. Please generate them and add them to your config file.")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	weatherClient := weather.NewClient(&cfg.Weather)
	catalogClient := catalog.NewClient(&cfg.Catalog)
	calculator := watering.NewCalculator(cfg.Watering.Strategy)

	// Catalog ingestion, exposed through the admin endpoints.
	enrich := func(_ context.Context, p *model.Plant) bool { return translate.Enrich(p) }
	ingestor := catalog.WithLogging(
		catalog.NewIngestor(&cfg.Catalog, appStore, catalogClient, enrich), logger)

	// Reminder delivery: worker pool plus the periodic sweep feeding it.
	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, &webpushOptions)
	workerPool.Start(ctx)

	sweeper := reminder.NewSweeper(&cfg.Reminder, appStore, weatherClient, calculator, workerPool)
	go sweeper.Run(ctx)

	// Initialize router
	handler := api.NewHandler(appStore, weatherClient, catalogClient, calculator,
		ingestor, cfg.Catalog.ProcessName, &webpushOptions)
	router := api.NewRouter(&cfg.Server, handler)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
