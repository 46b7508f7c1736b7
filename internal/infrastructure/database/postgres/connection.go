// Package postgres persists bulk evaluation runs and their per-structure
// results.  Persistence is optional: the engine runs fully in-memory when no
// DSN is configured.
package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/turtacn/MolDesc-Engine/internal/config"
	"github.com/turtacn/MolDesc-Engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

// sqlOpen is swappable for tests.
var sqlOpen = func(driverName, dsn string) (*sql.DB, error) {
	return sql.Open(driverName, dsn)
}

// Connection manages the PostgreSQL connection pool via the pgx stdlib
// driver.
type Connection struct {
	db     *sql.DB
	logger logging.Logger
}

// Connect opens a pooled connection using the store configuration and
// verifies it with a ping.
func Connect(ctx context.Context, cfg config.StoreConfig, logger logging.Logger) (*Connection, error) {
	if cfg.DSN == "" {
		return nil, errors.InvalidParam("store DSN is empty")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	db, err := sqlOpen("pgx", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open database connection")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database ping failed")
	}

	logger.Info("connected to result store",
		logging.Int("max_open_conns", cfg.MaxOpenConns))

	conn := &Connection{db: db, logger: logger}
	if cfg.AutoMigrate {
		if err := conn.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return conn, nil
}

// DB returns the underlying pool.
func (c *Connection) DB() *sql.DB { return c.db }

// Close releases the connection pool.
func (c *Connection) Close() error { return c.db.Close() }
