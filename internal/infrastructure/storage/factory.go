package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/ports"
)

// Open builds the backend selected by settings. When SQLite cannot be opened
// the file backend under the same directory is used instead.
func Open(ctx context.Context, settings domain.StorageSettings, logger ports.Logger) (ports.KeyValueStore, error) {
	switch settings.Backend {
	case domain.BackendMemory:
		return NewMemory(0), nil
	case "", domain.BackendFile:
		return NewFileStore(settings.Path), nil
	case domain.BackendSQLite:
		store, err := OpenSQLite(filepath.Join(settings.Path, "history.db"))
		if err != nil {
			logger.Warn("sqlite unavailable, falling back to file storage", map[string]interface{}{
				"path":  settings.Path,
				"error": err.Error(),
			})
			return NewFileStore(settings.Path), nil
		}
		return store, nil
	case domain.BackendPostgres:
		return OpenPostgres(ctx, settings.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", settings.Backend)
	}
}
