package postgres

import (
	"embed"

	"github.com/golang-migrate/migrate/v4"
	mpgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies all pending schema migrations embedded in the binary.
// Already-applied migrations are skipped; a schema that is fully up to date
// is not an error.
func (c *Connection) Migrate() error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load embedded migrations")
	}

	driver, err := mpgx.WithInstance(c.db, &mpgx.Config{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to init migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx", driver)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to init migrator")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "schema migration failed")
	}

	c.logger.Info("result store schema is up to date")
	return nil
}
