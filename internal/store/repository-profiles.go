package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/profile"
)

// ProfileRepository stores raw user profiles.
type ProfileRepository struct {
	baseRepository
}

// Save replaces the stored profile of userID.
func (r *ProfileRepository) Save(ctx context.Context, userID string, raw profile.Raw) error {
	doc, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err = ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO profiles (user_id, document) VALUES (?, ?)
			ON CONFLICT (user_id) DO UPDATE SET
				document = excluded.document,
				updated = strftime('%Y-%m-%dT%H:%M:%fZ')`, userID, string(doc)); err != nil {
			return errors.Wrap(err, "upsert profile", slog.String("user_id", userID))
		}
		return nil
	})
}

// ReadUserProfile returns the stored profile or ErrNotFound. Field values are returned as decoded and
// may be of any JSON type.
func (r *ProfileRepository) ReadUserProfile(ctx context.Context, userID string) (profile.Raw, error) {
	var doc string
	err := r.db.ReadOnly.QueryRowContext(ctx, `SELECT document FROM profiles WHERE user_id = ?`, userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Raw{}, ErrNotFound
	}
	if err != nil {
		return profile.Raw{}, errors.Wrap(err, "query profile", slog.String("user_id", userID))
	}
	var raw profile.Raw
	if err = json.Unmarshal([]byte(doc), &raw); err != nil {
		return profile.Raw{}, errors.Wrap(err, "unmarshal profile", slog.String("user_id", userID))
	}
	return raw, nil
}
