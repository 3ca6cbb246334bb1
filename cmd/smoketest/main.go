// Command smoketest checks that a deployed server can generate, store and render a routine.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/liftplan/internal/e2etest"
	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/logging"
	"github.com/myrjola/liftplan/internal/testhelpers"
)

var errUnexpectedStatus = errors.NewSentinel("unexpected status")

// GenerateRoutine stores a profile for a throwaway user, generates a routine and reads it back.
func GenerateRoutine(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	userID := "smoketest-" + uuid.NewString()
	status, err := client.PostJSON(ctx, "/api/users/"+userID+"/profile", map[string]any{
		"frequency":  3,
		"goals":      "hipertrofia",
		"experience": "principiante",
		"location":   "casa",
	}, nil)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if status != http.StatusNoContent {
		return fmt.Errorf("%w: save profile returned %d", errUnexpectedStatus, status)
	}

	var generated struct {
		ID string `json:"id"`
	}
	if status, err = client.PostJSON(ctx, "/api/users/"+userID+"/routines", "", &generated); err != nil {
		return fmt.Errorf("generate routine: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("%w: generate routine returned %d", errUnexpectedStatus, status)
	}

	doc, err := client.GetDoc(ctx, "/routines/"+generated.ID)
	if err != nil {
		return fmt.Errorf("get routine page: %w", err)
	}
	if days := doc.Find("article h2").Length(); days != 3 { //nolint:mnd // three days requested above.
		return fmt.Errorf("%w: routine page shows %d days", errUnexpectedStatus, days)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", errors.SlogError(err))
		os.Exit(1)
	}
	if err := GenerateRoutine(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error generating routine", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
}
