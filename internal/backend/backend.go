// Package backend picks the persist.Storage implementation named in the
// configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/jask/moneybox/internal/config"
	"github.com/jask/moneybox/internal/database"
	"github.com/jask/moneybox/internal/logger"
	"github.com/jask/moneybox/internal/persist"
	"github.com/jask/moneybox/internal/prefs"
)

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	FileBackend   BackendType = "file"
	MemoryBackend BackendType = "memory"
)

// IsValid checks if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// File backend specific
	DataDirectory string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(c config.StorageConfig) (Config, error) {
	bt := BackendType(c.Backend)
	if !bt.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", c.Backend)
	}
	return Config{Type: bt, SQLiteDBPath: c.Path, DataDirectory: c.Dir}, nil
}

// Open creates the storage for cfg, logging through the logger in ctx. The
// caller closes it after the stores built on top of it.
func Open(ctx context.Context, cfg Config) (persist.Storage, error) {
	log := logger.FromContext(ctx)
	switch cfg.Type {
	case SQLiteBackend:
		if cfg.SQLiteDBPath == "" {
			return nil, fmt.Errorf("sqlite backend needs a database path")
		}
		s, err := database.OpenKVStore(cfg.SQLiteDBPath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite storage: %w", err)
		}
		log.Info().Str("db_path", cfg.SQLiteDBPath).Msg("initialized sqlite backend")
		return s, nil
	case FileBackend:
		s, err := prefs.NewFileStore(cfg.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		log.Info().Str("data_directory", s.Dir()).Msg("initialized file backend")
		return s, nil
	case MemoryBackend:
		log.Info().Msg("initialized memory backend, nothing will be saved")
		return persist.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
