// Package store persists profiles, routines and workout history in SQLite.
package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.NewSentinel("not found")

// Store groups the repositories.
type Store struct {
	Profiles   *ProfileRepository
	Benchmarks *BenchmarkRepository
	Routines   *RoutineRepository
	Workouts   *WorkoutRepository
}

// New creates a Store on db.
func New(db *sqlite.Database, logger *slog.Logger) *Store {
	base := baseRepository{db: db, logger: logger}
	return &Store{
		Profiles:   &ProfileRepository{baseRepository: base},
		Benchmarks: &BenchmarkRepository{baseRepository: base},
		Routines:   &RoutineRepository{baseRepository: base},
		Workouts:   &WorkoutRepository{baseRepository: base},
	}
}

type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

const timestampFormat = "2006-01-02T15:04:05.000Z"

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ensureUser creates the user row on first write. Users are owned by the authentication collaborator.
func ensureUser(ctx context.Context, db execer, userID string) error {
	if _, err := db.ExecContext(ctx, `INSERT INTO users (id) VALUES (?) ON CONFLICT (id) DO NOTHING`, userID); err != nil {
		return errors.Wrap(err, "ensure user", slog.String("user_id", userID))
	}
	return nil
}

// withTx runs fn in a write transaction that is committed when fn succeeds.
func (r *baseRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "failed to roll back", errors.SlogError(rollbackErr))
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}
