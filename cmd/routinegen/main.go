// Command routinegen generates routines and load suggestions from local files without a database.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/logging"
)

func main() {
	ctx := context.Background()
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       level,
		ReplaceAttr: nil,
	})))
	if err := newRootCmd(logger, level).ExecuteContext(ctx); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "routinegen failed", errors.SlogError(err))
		os.Exit(1)
	}
}
