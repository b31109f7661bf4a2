package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"studydash/internal/config"
	"studydash/internal/dash"
)

// NewStorageFromConfig creates a Storage implementation based on the storage config type.
func NewStorageFromConfig(cfg config.StorageConfig) (dash.Storage, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite storage")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		s, err := NewSQLiteStorage(filepath.Join(cfg.DataDir, "studydash.db"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case "filesystem":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for filesystem storage")
		}
		s, err := NewFileSystemStorage(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
