// Package testhelpers contains helpers shared by the package tests.
package testhelpers

import (
	"io"
	"log/slog"
	"testing"

	"github.com/myrjola/liftplan/internal/logging"
)

// NewLogger creates a debug level logger writing to logSink such as [NewWriter].
func NewLogger(logSink io.Writer) *slog.Logger {
	handler := logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	return slog.New(handler)
}

// NewTestLogger creates a logger whose output is only shown when t fails.
func NewTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return NewLogger(NewWriter(t))
}
