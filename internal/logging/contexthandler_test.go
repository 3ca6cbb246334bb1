package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/myrjola/liftplan/internal/logging"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(&buf, nil)))

	ctx := logging.WithAttrs(context.Background(), slog.String("user_id", "u-1"))
	pushCtx := logging.WithAttrs(ctx, slog.String("day", "push"))
	pullCtx := logging.WithAttrs(ctx, slog.String("day", "pull"))

	logger.InfoContext(pushCtx, "selected exercises")
	if got := buf.String(); !strings.Contains(got, "user_id=u-1") || !strings.Contains(got, "day=push") {
		t.Errorf("expected context attributes in %q", got)
	}
	buf.Reset()

	logger.InfoContext(pullCtx, "selected exercises")
	if got := buf.String(); strings.Contains(got, "day=push") {
		t.Errorf("sibling context leaked attributes: %q", got)
	}

	if got := len(logging.Attrs(context.Background())); got != 0 {
		t.Errorf("expected no attributes in empty context, got %d", got)
	}
}
