package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/coltype/internal/config"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connection holds the database connection
type Connection struct {
	DB     *sql.DB
	Driver string
}

// Open opens and pings the database described by cfg. For sqlite the URL is
// a file path or ":memory:".
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Connection, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("no database url configured")
	}

	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	if cfg.Driver == DriverSQLite {
		// a single connection keeps :memory: databases alive and serializes writers
		db.SetMaxOpenConns(1)
	} else {
		maxConns := cfg.MaxConnections
		if maxConns < 1 {
			maxConns = 1
		}
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns((maxConns + 1) / 2)
		db.SetConnMaxLifetime(time.Hour)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{DB: db, Driver: cfg.Driver}, nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.DB.Close()
}
