package storage

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/d2assist/d2assist/internal/config"
	"github.com/d2assist/d2assist/internal/logging"
	gormstorage "github.com/d2assist/d2assist/internal/storage/gorm"
	"github.com/d2assist/d2assist/internal/storage/memory"
	sqlitestorage "github.com/d2assist/d2assist/internal/storage/sqlite"
)

// Dependencies holds what the factory may hand to a backend. DB is
// only used by the postgres type; when nil that backend opens its own
// connection from configuration.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return gormstorage.New(gormstorage.Dependencies{
			DB:         deps.DB,
			LogManager: deps.LogManager,
		}), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     cfg.SQLite.DumpPath,
		}, deps.LogManager)
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
