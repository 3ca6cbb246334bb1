package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/liftplan/internal/document"
	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/routine"
)

// RoutineRepository stores generated routines as sanitized JSON documents.
type RoutineRepository struct {
	baseRepository
}

// StoredRoutine is a persisted routine together with the document it was stored as.
type StoredRoutine struct {
	ID       string
	UserID   string
	Document json.RawMessage
	Routine  routine.Routine
}

// RoutineSummary lists a stored routine without its document.
type RoutineSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Save persists r for userID and returns the new routine id. Ids are time ordered.
func (r *RoutineRepository) Save(ctx context.Context, userID string, rt routine.Routine) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate routine id: %w", err)
	}
	doc, err := json.Marshal(document.FromValue(routine.Sanitize(rt)))
	if err != nil {
		return "", fmt.Errorf("marshal routine: %w", err)
	}
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		if err = ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO routines (id, user_id, title, document, generated_at) VALUES (?, ?, ?, ?, ?)`,
			id.String(), userID, rt.Title, string(doc), rt.GeneratedAt.UTC().Format(timestampFormat)); err != nil {
			return errors.Wrap(err, "insert routine", slog.String("user_id", userID))
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Get returns the routine with the given id or ErrNotFound.
func (r *RoutineRepository) Get(ctx context.Context, id string) (StoredRoutine, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return StoredRoutine{}, ErrNotFound
	}
	stored := StoredRoutine{ID: parsed.String()}
	var doc string
	err = r.db.ReadOnly.QueryRowContext(ctx, `SELECT user_id, document FROM routines WHERE id = ?`, stored.ID).
		Scan(&stored.UserID, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredRoutine{}, ErrNotFound
	}
	if err != nil {
		return StoredRoutine{}, errors.Wrap(err, "query routine", slog.String("routine_id", id))
	}
	stored.Document = json.RawMessage(doc)
	if err = json.Unmarshal(stored.Document, &stored.Routine); err != nil {
		return StoredRoutine{}, errors.Wrap(err, "unmarshal routine", slog.String("routine_id", id))
	}
	return stored, nil
}

// List returns the routines of userID, newest first.
func (r *RoutineRepository) List(ctx context.Context, userID string) ([]RoutineSummary, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, title, generated_at
		FROM routines
		WHERE user_id = ?
		ORDER BY generated_at DESC, id DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "query routines", slog.String("user_id", userID))
	}
	defer rows.Close()

	summaries := []RoutineSummary{}
	for rows.Next() {
		var (
			s           RoutineSummary
			generatedAt string
		)
		if err = rows.Scan(&s.ID, &s.Title, &generatedAt); err != nil {
			return nil, errors.Wrap(err, "scan routine")
		}
		if s.GeneratedAt, err = time.Parse(timestampFormat, generatedAt); err != nil {
			return nil, errors.Wrap(err, "parse generated_at", slog.String("generated_at", generatedAt))
		}
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate routines")
	}
	return summaries, nil
}
