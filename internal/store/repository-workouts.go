package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/overload"
)

// ErrInvalidWorkout is returned when a logged workout contains impossible values.
var ErrInvalidWorkout = errors.NewSentinel("invalid workout")

// WorkoutRepository stores completed sets and aggregates them into per-session history.
type WorkoutRepository struct {
	baseRepository
}

// Set is one completed set.
type Set struct {
	WeightKg float64 `json:"weight_kg" yaml:"weight_kg"`
	Reps     int     `json:"reps"      yaml:"reps"`
}

// LoggedExercise holds the sets performed of one exercise.
type LoggedExercise struct {
	Name string `json:"exercise_name" yaml:"exercise_name"`
	Sets []Set  `json:"sets"          yaml:"sets"`
}

// Workout is a completed training session.
type Workout struct {
	Date      time.Time        `json:"date"      yaml:"date"`
	Exercises []LoggedExercise `json:"exercises" yaml:"exercises"`
}

func (w Workout) validate() error {
	if w.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidWorkout)
	}
	for _, ex := range w.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return fmt.Errorf("%w: missing exercise name", ErrInvalidWorkout)
		}
		for _, s := range ex.Sets {
			if s.WeightKg < 0 || math.IsNaN(s.WeightKg) || math.IsInf(s.WeightKg, 0) || s.Reps < 0 {
				return fmt.Errorf("%w: %s has a set with weight %v and %d reps", ErrInvalidWorkout, ex.Name, s.WeightKg, s.Reps)
			}
		}
	}
	return nil
}

// LogWorkout stores the sets of w. Logging the same date again replaces the sets of the exercises it contains.
func (r *WorkoutRepository) LogWorkout(ctx context.Context, userID string, w Workout) error {
	if err := w.validate(); err != nil {
		return err
	}
	date := w.Date.Format(time.DateOnly)
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		for _, ex := range w.Exercises {
			name := strings.TrimSpace(ex.Name)
			key := exerciseKey(name)
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM workout_sets WHERE user_id = ? AND exercise_key = ? AND workout_date = ?`,
				userID, key, date); err != nil {
				return errors.Wrap(err, "delete previous sets", slog.String("exercise", name))
			}
			for i, s := range ex.Sets {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO workout_sets (user_id, exercise_name, exercise_key, workout_date, set_number, weight_kg, reps)
					VALUES (?, ?, ?, ?, ?, ?, ?)`, userID, name, key, date, i+1, s.WeightKg, s.Reps); err != nil {
					return errors.Wrap(err, "insert set", slog.String("exercise", name), slog.Int("set_number", i+1))
				}
			}
		}
		return nil
	})
}

// ReadExerciseHistory aggregates the logged sets of exerciseName into sessions, oldest first.
// Names match regardless of case and surrounding or repeated whitespace.
func (r *WorkoutRepository) ReadExerciseHistory(
	ctx context.Context,
	userID string,
	exerciseName string,
) ([]overload.Session, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT workout_date, MAX(weight_kg), SUM(weight_kg * reps), COUNT(*)
		FROM workout_sets
		WHERE user_id = ? AND exercise_key = ?
		GROUP BY workout_date
		ORDER BY workout_date`, userID, exerciseKey(exerciseName))
	if err != nil {
		return nil, errors.Wrap(err, "query history", slog.String("exercise", exerciseName))
	}
	defer rows.Close()

	var sessions []overload.Session
	for rows.Next() {
		var (
			s    overload.Session
			date string
		)
		if err = rows.Scan(&date, &s.MaxWeight, &s.TotalVolume, &s.SetCount); err != nil {
			return nil, errors.Wrap(err, "scan session")
		}
		if s.Date, err = time.Parse(time.DateOnly, date); err != nil {
			return nil, errors.Wrap(err, "parse workout date", slog.String("date", date))
		}
		sessions = append(sessions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate history")
	}
	return sessions, nil
}

// exerciseKey folds name so that "Sentadilla con barra" and "sentadilla  con BARRA" share a history.
func exerciseKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
