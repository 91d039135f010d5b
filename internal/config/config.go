// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Files    FilesConfig
	Import   ImportConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds product store settings.
type DatabaseConfig struct {
	// Driver selects the store backend: sqlite or postgres (default: sqlite)
	Driver string `env:"DB_DRIVER" default:"sqlite"`

	// Path is the SQLite database file (default: inventory.db)
	Path string `env:"DB_PATH" default:"inventory.db"`

	// BusyTimeout is how long SQLite waits on a locked database (default: 5s)
	BusyTimeout time.Duration `env:"DB_BUSY_TIMEOUT" default:"5s"`

	// URL is the PostgreSQL connection string (required for postgres)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// FilesConfig holds CSV file locations.
type FilesConfig struct {
	// ImportPath is the CSV reconciled into the store (default: inventory.csv)
	ImportPath string `env:"INVENTORY_CSV" default:"inventory.csv"`

	// BackupPath is where backups are written (default: backup.csv)
	BackupPath string `env:"BACKUP_CSV" default:"backup.csv"`

	// FailedRowsPath receives rows skipped during import; empty disables it
	FailedRowsPath string `env:"IMPORT_FAILED_ROWS"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// OnStartup imports ImportPath before the menu opens (default: true)
	OnStartup bool `env:"IMPORT_ON_STARTUP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
