package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/laudatorai/internal/config"
	"github.com/jonathan/laudatorai/internal/db"
	"github.com/jonathan/laudatorai/internal/observability"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	// migrations only need the database, so skip full config validation
	cfg := config.FromEnv()
	if configPath != "" {
		file, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		cfg = cfg.Merge(file)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}

	log := observability.NewLogger(cfg.LogLevel)
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migrations applied")
	return nil
}
