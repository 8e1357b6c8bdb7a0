package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/profitscout/scout-api/internal/api"
	"github.com/profitscout/scout-api/internal/api/handlers"
	"github.com/profitscout/scout-api/internal/artifacts"
	"github.com/profitscout/scout-api/internal/signals"
	"github.com/profitscout/scout-api/pkg/config"
	"github.com/profitscout/scout-api/pkg/database"
	"github.com/profitscout/scout-api/pkg/logger"
	"github.com/profitscout/scout-api/pkg/redis"
	"github.com/profitscout/scout-api/pkg/storage"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET /healthz                     - Health check
  GET /v1                          - List available datasets
  GET /v1/{dataset}/{id}           - Resolve a research artifact
  GET /v1/options-signals          - List tickers with options signals
  GET /v1/options-signals/top      - Top-ranked signals across tickers
  GET /v1/options-signals/{ticker} - Ranked signals for one ticker

Example:
  go run ./cmd/scout api
  go run ./cmd/scout api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":   cfg.Port,
		"env":    cfg.Env,
		"bucket": cfg.Storage.Bucket,
	}).Info("Initializing API server")

	// 3. Connect to the warehouse
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to warehouse")

	// 4. Create object storage client
	store, err := storage.NewClient(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer store.Close()

	// 5. Optional Redis for cross-replica rate limiting
	rdb, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	// 6. Create services
	artifactService := artifacts.NewService(store, log)
	signalService := signals.NewService(signals.NewRepository(db.Pool), log)

	// 7. Create handlers
	artifactHandler := handlers.NewArtifactHandler(artifactService, log)
	datasetHandler := handlers.NewDatasetHandler(artifactService, log)
	signalHandler := handlers.NewSignalHandler(signalService, log)

	// 8. Rate limiter
	var limiter api.Limiter
	if cfg.RateLimit.Enabled {
		if rdb.Enabled() {
			limiter = api.NewRedisLimiter(rdb, cfg.RateLimit.RPS)
		} else {
			limiter = api.NewLocalLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	// 9. Create router and server
	router := api.NewRouter(artifactHandler, datasetHandler, signalHandler, limiter, log)
	server := api.New(cfg, log, router)

	// 10. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
