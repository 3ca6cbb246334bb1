package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/profile"
)

// BenchmarkRepository stores self-reported lifts separately from the profile document so that they
// can be updated as the user gets stronger.
type BenchmarkRepository struct {
	baseRepository
}

// Set upserts the given benchmarks. Lifts not present are left untouched.
func (r *BenchmarkRepository) Set(ctx context.Context, userID string, benchmarks map[profile.Benchmark]float64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		for lift, load := range benchmarks {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO benchmarks (user_id, lift, load_kg) VALUES (?, ?, ?)
				ON CONFLICT (user_id, lift) DO UPDATE SET
					load_kg = excluded.load_kg,
					updated = strftime('%Y-%m-%dT%H:%M:%fZ')`, userID, string(lift), load); err != nil {
				return errors.Wrap(err, "upsert benchmark",
					slog.String("user_id", userID), slog.String("lift", string(lift)))
			}
		}
		return nil
	})
}

// ReadBenchmarks returns the stored benchmarks keyed by lift name. Users without any get an empty map.
func (r *BenchmarkRepository) ReadBenchmarks(ctx context.Context, userID string) (map[string]float64, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `SELECT lift, load_kg FROM benchmarks WHERE user_id = ?`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "query benchmarks", slog.String("user_id", userID))
	}
	defer rows.Close()

	benchmarks := map[string]float64{}
	for rows.Next() {
		var (
			lift string
			load float64
		)
		if err = rows.Scan(&lift, &load); err != nil {
			return nil, errors.Wrap(err, "scan benchmark")
		}
		benchmarks[lift] = load
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate benchmarks")
	}
	return benchmarks, nil
}
