package overload

import (
	"context"
	"log/slog"
	"slices"

	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/logging"
	"github.com/myrjola/liftplan/internal/profile"
	"golang.org/x/sync/errgroup"
)

// HistoryReader reads the logged sessions of one exercise for a user.
type HistoryReader interface {
	ReadExerciseHistory(ctx context.Context, userID string, exerciseName string) ([]Session, error)
}

// ExerciseRecommendation pairs an exercise with its recommendation.
type ExerciseRecommendation struct {
	ExerciseName   string `json:"exercise_name"`
	Recommendation `json:"recommendation"`
}

// Service recommends loads from persisted history.
type Service struct {
	history     HistoryReader
	logger      *slog.Logger
	maxParallel int
}

// NewService creates a Service. maxParallel bounds concurrent history reads per workout.
func NewService(history HistoryReader, logger *slog.Logger, maxParallel int) *Service {
	return &Service{
		history:     history,
		logger:      logger,
		maxParallel: max(maxParallel, 1),
	}
}

// SuggestNextWeight recommends the next load for one exercise. A failed history read degrades to a
// no-data recommendation and is only logged.
func (s *Service) SuggestNextWeight(
	ctx context.Context,
	userID string,
	exerciseName string,
	goal profile.Goal,
) Recommendation {
	ctx = logging.WithAttrs(ctx, slog.String("exercise", exerciseName))
	history, err := s.history.ReadExerciseHistory(ctx, userID, exerciseName)
	if err != nil {
		err = errors.Wrap(err, "read exercise history", slog.String("user_id", userID))
		s.logger.LogAttrs(ctx, slog.LevelWarn, "history unavailable, skipping suggestion", errors.SlogError(err))
		return NoData(ReasonHistoryUnavailable)
	}

	// The analyzer expects oldest first regardless of how the source orders rows.
	history = slices.Clone(history)
	slices.SortStableFunc(history, func(a, b Session) int {
		return a.Date.Compare(b.Date)
	})

	rec := Analyze(history, exerciseName, goal)
	if rec.DeclineDetected {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "last session lighter than the previous one",
			slog.Int("sessions", len(history)))
	}
	return rec
}

// SuggestForWorkout recommends loads for every exercise of a workout concurrently. Results keep the
// order of exerciseNames. Each exercise fails independently, and ctx bounds the whole fetch.
func (s *Service) SuggestForWorkout(
	ctx context.Context,
	userID string,
	exerciseNames []string,
	goal profile.Goal,
) []ExerciseRecommendation {
	results := make([]ExerciseRecommendation, len(exerciseNames))
	var g errgroup.Group
	g.SetLimit(s.maxParallel)
	for i, name := range exerciseNames {
		g.Go(func() error {
			results[i] = ExerciseRecommendation{
				ExerciseName:   name,
				Recommendation: s.SuggestNextWeight(ctx, userID, name, goal),
			}
			return nil
		})
	}
	_ = g.Wait() // Never fails, errors degrade per exercise.
	return results
}
