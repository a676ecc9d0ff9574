package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/d2assist/d2assist/internal/config"
	"github.com/d2assist/d2assist/internal/database"
	"github.com/d2assist/d2assist/internal/storage"
)

// initStorage creates and initializes the configured history backend.
// The postgres type goes through the database manager so a dead server
// degrades to local SQLite instead of failing startup.
func initStorage() error {
	storageCfg := config.GetStorageConfig()

	deps := storage.Dependencies{LogManager: SlogManager}

	if storageCfg.Type == "postgres" {
		dbManager := database.NewManager(ZLogger)
		if err := dbManager.Connect(); err != nil {
			return fmt.Errorf("database connect: %w", err)
		}
		deps.DB = dbManager.DB
	}

	if storageCfg.Type == "sqlite" && storageCfg.SQLite.DumpPath == "" {
		storageCfg.SQLite.DumpPath = filepath.Join(
			viper.GetString("logsDir"),
			fmt.Sprintf("%s_%s.db", AppName, SessionStartTime.Format("20060102_150405")),
		)
	}

	backend, err := storage.NewBackend(storageCfg, deps)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("backend init: %w", err)
	}

	storageBackend = backend
	Logger.Info("Storage backend initialized", "type", storageCfg.Type)
	return nil
}
