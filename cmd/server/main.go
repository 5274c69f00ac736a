package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/infrastructure/config"
	"farewatch-service/internal/infrastructure/persistence"
	"farewatch-service/internal/interface/httpapi"
	"farewatch-service/internal/interface/provider"
	"farewatch-service/internal/interface/repository"
	"farewatch-service/internal/usecase"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Farewatch Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	subscriptionRepo := repository.NewGormSubscriptionRepository(gormDB)
	airlineRepo := repository.NewGormAirlineRepository(gormDB)
	snapshotRepo := repository.NewMongoPriceSnapshotRepository(db)
	notifier := repository.NewTelegramNotifier(cfg.TelegramBotToken, log)

	// Carrier names are loaded once; unknown codes fall back to the raw code
	airlines, err := airlineRepo.ListAll(ctx)
	if err != nil {
		log.Warn("Failed to load airline directory, falling back to raw codes", "error", err)
	}
	carriers := entity.NewCarrierDirectory(airlines)

	// Set up metrics
	m := metrics.NewMetrics("farewatch")

	// Set up fare provider and search engine
	fareProvider := provider.NewTravelpayoutsProvider(cfg.FareAPIBaseURL, cfg.FareAPIToken, cfg.Currency, log)
	engine := usecase.NewSearchEngine(fareProvider, cfg.LimitPerDate, m, log)

	// Start the price watcher in a goroutine
	watcher := usecase.NewPriceWatcher(subscriptionRepo, snapshotRepo, notifier, engine, carriers, m, log, usecase.PriceWatcherConfig{
		ScanInterval:   cfg.ScanInterval,
		ScanBackoff:    cfg.ScanBackoff,
		SubDelay:       cfg.SubDelay,
		FlexDays:       cfg.FlexDays,
		RoundTripLimit: cfg.RoundTripLimit,
		Currency:       cfg.Currency,
	})
	go watcher.Run(ctx)

	// Set up HTTP server for the API and metrics
	mux := http.NewServeMux()
	apiHandler := httpapi.NewHandler(engine, subscriptionRepo, snapshotRepo, carriers, log, cfg.FlexDays, cfg.RoundTripLimit)
	apiHandler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop the watcher

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Farewatch Service stopped")
}
