package main

import (
	"fmt"
	"os"

	"github.com/daytrack/internal/config"
	"github.com/daytrack/internal/db"
	"github.com/daytrack/internal/staging"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	root := &cobra.Command{
		Use:   "daytrackctl",
		Short: "Maintenance commands for the daytrack database",
		Long: `daytrackctl works on the same database and staging directory as the server.
Configuration is read from .env, daytrack.yaml and DAYTRACK_* variables.`,
		SilenceUsage: true,
	}

	addReplay(root)
	addRecompute(root)
	addSeed(root)
	addOwner(root)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStores 打开数据库与暂存目录
func openStores() (*gorm.DB, *staging.Store, config.AppConfig, error) {
	cfg := config.Load()

	if err := db.Init(db.Options{
		Driver:   cfg.DatabaseDriver,
		Path:     cfg.DatabasePath,
		DSN:      cfg.DatabaseDSN,
		LogLevel: cfg.DatabaseLogLevel,
	}); err != nil {
		return nil, nil, cfg, fmt.Errorf("initialize database: %w", err)
	}

	store, err := staging.Open(cfg.StagingDir)
	if err != nil {
		return nil, nil, cfg, err
	}
	return db.DB, store, cfg, nil
}
