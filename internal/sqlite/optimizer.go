package sqlite

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/liftplan/internal/errors"
)

const optimizeInterval = time.Hour

// runOptimizer keeps query planner statistics fresh for the long-lived connections until ctx is done.
// See https://www.sqlite.org/pragma.html#pragma_optimize.
func (db *Database) runOptimizer(ctx context.Context, interval time.Duration) {
	// 0x10002 also analyzes tables that have never been analyzed, which suits a freshly opened connection.
	db.optimize(ctx, "PRAGMA optimize = 0x10002")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			db.optimize(ctx, "PRAGMA optimize")
		}
	}
}

func (db *Database) optimize(ctx context.Context, pragma string) {
	start := time.Now()
	if _, err := db.ReadWrite.ExecContext(ctx, pragma); err != nil {
		if ctx.Err() != nil {
			return
		}
		err = errors.Wrap(err, "optimize database", slog.String("pragma", pragma))
		db.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database", errors.SlogError(err))
		return
	}
	db.logger.LogAttrs(ctx, slog.LevelDebug, "optimized database", slog.Duration("duration", time.Since(start)))
}
