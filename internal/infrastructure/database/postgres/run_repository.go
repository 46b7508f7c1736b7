package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/turtacn/MolDesc-Engine/internal/domain/descriptor"
	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

// RunRepository persists bulk evaluation runs and their per-structure
// results.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository returns a repository over the given connection.
func NewRunRepository(conn *Connection) *RunRepository {
	return &RunRepository{db: conn.DB()}
}

// CreateRun records the start of a bulk run together with its column set.
func (r *RunRepository) CreateRun(ctx context.Context, runID uuid.UUID, workers int, descriptors []string) error {
	names, err := json.Marshal(descriptors)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode descriptor names")
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO runs (id, workers, descriptors) VALUES ($1, $2, $3)`,
		runID, workers, string(names))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert run")
	}
	return nil
}

// SaveResults stores one structure's ordered results.  Numeric values land
// in the value column; failure-tagged results store the cause and diagnostic
// stack in the failure column instead.
func (r *RunRepository) SaveResults(ctx context.Context, runID uuid.UUID, index int, structureName string, results []descriptor.Result) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, structure_index, structure_name, descriptor, kind, value, failure)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, res := range results {
		var value sql.NullFloat64
		var failure sql.NullString

		if res.Failed() {
			failure = sql.NullString{
				String: res.Err.Error() + " [" + res.StackTrace() + "]",
				Valid:  true,
			}
		} else if v, ferr := res.Float(); ferr == nil {
			value = sql.NullFloat64{Float64: v, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			runID, index, structureName, res.Name, res.Kind.String(), value, failure); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert result")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit results")
	}
	return nil
}
