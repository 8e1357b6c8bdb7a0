package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/profitscout/scout-api/pkg/config"
	"github.com/profitscout/scout-api/pkg/database"
	"github.com/profitscout/scout-api/pkg/logger"
	"github.com/profitscout/scout-api/pkg/storage"
)

// checkCmd verifies connectivity to the configured backends
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check backend connectivity",
	Long: `Verifies that configuration loads and both backends are reachable:
the warehouse database and the artifact storage bucket.

Example:
  go run ./cmd/scout check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fmt.Println("config: ok")

	log := logger.New(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	// Warehouse
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	fmt.Println("database: ok")

	// Object storage
	store, err := storage.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("storage ping: %w", err)
	}
	fmt.Printf("storage: ok (bucket %s)\n", cfg.Storage.Bucket)

	log.Info("All backends reachable")
	return nil
}
