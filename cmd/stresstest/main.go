// Command stresstest simulates users logging months of history and then generating routines and
// asking for load suggestions concurrently.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/liftplan/internal/e2etest"
	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/logging"
	"github.com/myrjola/liftplan/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	numUsers                = 20
	maxConcurrentSetups     = 10
	maxConcurrentOperations = 20
	setupTimeout            = 2 * time.Minute
	scenarioTimeout         = 30 * time.Second
	historyWeeks            = 12
	successRateThreshold    = 95.0
	percentageMultiplier    = 100
	expectedArgsCount       = 2
)

var errUnexpectedStatus = errors.NewSentinel("unexpected status")

// lifts are logged for every simulated user with a starting load in kg.
//
//nolint:gochecknoglobals // fixture data.
var lifts = map[string]float64{
	"Sentadilla con barra": 60,
	"Press de banca":       40,
	"Peso muerto":          80,
	"Remo con barra":       40,
	"Press militar":        25,
	"Curl con mancuernas":  10,
	"Extensión de tríceps": 15,
}

type user struct {
	id     string
	client *e2etest.Client
}

func expectStatus(status, want int, what string) error {
	if status != want {
		return fmt.Errorf("%w: %s returned %d, want %d", errUnexpectedStatus, what, status, want)
	}
	return nil
}

// SetupUser stores a profile and benchmarks and logs weekly history for each lift.
func SetupUser(ctx context.Context, u user, rng *rand.Rand) error {
	status, err := u.client.PostJSON(ctx, "/api/users/"+u.id+"/profile", map[string]any{
		"frequency":  3 + rng.IntN(4), //nolint:mnd // 3-6 days
		"goals":      []string{"hipertrofia", "fuerza", "definición"}[rng.IntN(3)],
		"experience": []string{"principiante", "intermedio", "avanzado"}[rng.IntN(3)],
		"location":   []string{"gimnasio", "casa", "mínimo"}[rng.IntN(3)],
	}, nil)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if err = expectStatus(status, http.StatusNoContent, "save profile"); err != nil {
		return err
	}

	status, err = u.client.PostJSON(ctx, "/api/users/"+u.id+"/benchmarks", map[string]any{
		"squat": 80 + rng.IntN(60), "bench_press": 50 + rng.IntN(50), "deadlift": 100 + rng.IntN(80),
	}, nil)
	if err != nil {
		return fmt.Errorf("save benchmarks: %w", err)
	}
	if err = expectStatus(status, http.StatusOK, "save benchmarks"); err != nil {
		return err
	}

	start := time.Now().AddDate(0, 0, -7*historyWeeks)
	for week := range historyWeeks {
		var exercises []map[string]any
		for name, base := range lifts {
			// Roughly linear progress with the odd stall.
			load := base + float64(week/2+rng.IntN(2))*2.5 //nolint:mnd // 2.5 kg plates
			exercises = append(exercises, map[string]any{
				"exercise_name": name,
				"sets": []map[string]any{
					{"weight_kg": load, "reps": 8 + rng.IntN(3)},
					{"weight_kg": load, "reps": 6 + rng.IntN(3)},
				},
			})
		}
		status, err = u.client.PostJSON(ctx, "/api/users/"+u.id+"/workouts", map[string]any{
			"date":      start.AddDate(0, 0, 7*week).Format(time.DateOnly),
			"exercises": exercises,
		}, nil)
		if err != nil {
			return fmt.Errorf("log workout: %w", err)
		}
		if err = expectStatus(status, http.StatusNoContent, "log workout"); err != nil {
			return err
		}
	}
	return nil
}

// Scenario generates a routine, reads it back and asks for suggestions for every logged lift.
func Scenario(ctx context.Context, u user) error {
	var generated struct {
		ID string `json:"id"`
	}
	status, err := u.client.PostJSON(ctx, "/api/users/"+u.id+"/routines", "", &generated)
	if err != nil {
		return fmt.Errorf("generate routine: %w", err)
	}
	if err = expectStatus(status, http.StatusCreated, "generate routine"); err != nil {
		return err
	}
	if status, err = u.client.GetJSON(ctx, "/api/routines/"+generated.ID, nil); err != nil {
		return fmt.Errorf("get routine: %w", err)
	}
	if err = expectStatus(status, http.StatusOK, "get routine"); err != nil {
		return err
	}

	names := make([]string, 0, len(lifts))
	for name := range lifts {
		names = append(names, name)
	}
	status, err = u.client.PostJSON(ctx, "/api/users/"+u.id+"/suggestions",
		map[string]any{"goal": "hipertrofia", "exercises": names}, nil)
	if err != nil {
		return fmt.Errorf("suggestions: %w", err)
	}
	return expectStatus(status, http.StatusOK, "suggestions")
}

func forEachUser(
	ctx context.Context,
	users []user,
	limit int,
	timeout time.Duration,
	logger *slog.Logger,
	fn func(context.Context, user) error,
) (int64, int64) {
	var successCount, failureCount atomic.Int64
	var g errgroup.Group
	g.SetLimit(limit)
	for _, u := range users {
		g.Go(func() error {
			uctx, cancel := context.WithTimeout(logging.WithAttrs(ctx, slog.String("user_id", u.id)), timeout)
			defer cancel()
			if err := fn(uctx, u); err != nil {
				failureCount.Add(1)
				// Log individual failures but don't stop the other users.
				logger.LogAttrs(uctx, slog.LevelWarn, "user failed", errors.SlogError(err))
				return nil
			}
			successCount.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return successCount.Load(), failureCount.Load()
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
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

	if err := e2etest.NewClient(url).WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", errors.SlogError(err))
		os.Exit(1)
	}

	users := make([]user, numUsers)
	for i := range users {
		users[i] = user{id: "stresstest-" + uuid.NewString(), client: e2etest.NewClient(url)}
	}

	setupStart := time.Now()
	ok, failed := forEachUser(ctx, users, maxConcurrentSetups, setupTimeout, logger,
		func(ctx context.Context, u user) error {
			rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // test data
			return SetupUser(ctx, u, rng)
		})
	logger.LogAttrs(ctx, slog.LevelInfo, "User setup completed",
		slog.Duration("setup_duration", time.Since(setupStart)),
		slog.Int64("successful", ok), slog.Int64("failed", failed))

	loadTestStart := time.Now()
	ok, failed = forEachUser(ctx, users, maxConcurrentOperations, scenarioTimeout, logger, Scenario)
	successRate := float64(ok) / float64(len(users)) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", ok),
		slog.Int64("failed", failed),
		slog.Float64("success_rate", successRate),
		slog.Duration("load_test_duration", time.Since(loadTestStart)))

	if successRate < successRateThreshold {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed: success rate below threshold")
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Stress test successful 🙌", slog.Duration("total_duration", time.Since(start)))
}
