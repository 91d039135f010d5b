// Package store opens the product store selected by configuration.
package store

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/store/postgres"
	"github.com/JonMunkholm/inventory/internal/store/sqlite"
)

// Open returns the backend named by cfg.Driver. The caller must Close it.
func Open(ctx context.Context, cfg config.DatabaseConfig) (core.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.Path, cfg.BusyTimeout)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
