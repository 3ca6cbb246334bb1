// Package routine assembles multi-day training programs from the exercise catalog.
package routine

import (
	"time"

	"github.com/myrjola/liftplan/internal/catalog"
	"github.com/myrjola/liftplan/internal/profile"
)

// PrescribedExercise is a catalog exercise with the sets, reps and load a user should perform.
type PrescribedExercise struct {
	ExerciseID   string `json:"exercise_id"`
	Name         string `json:"name"`
	Sets         int    `json:"sets"`
	RepsScheme   string `json:"reps_scheme"`
	RestDuration string `json:"rest_duration"`
	// SuggestedWeight is nil when there is no benchmark to derive a load from.
	SuggestedWeight *string             `json:"suggested_weight"`
	MuscleGroup     catalog.MuscleGroup `json:"muscle_group"`
	Equipment       catalog.Equipment   `json:"equipment"`
	EquipmentLabel  string              `json:"equipment_label"`
	Notes           string              `json:"notes"`
	Techniques      []catalog.Technique `json:"techniques"`
	// EquipmentRelaxed is set when no exercise matched the allowed equipment and the filter was dropped.
	EquipmentRelaxed bool `json:"equipment_relaxed"`
}

// Day is one training day of a routine.
type Day struct {
	Day          int                   `json:"day"`
	Label        string                `json:"label"`
	Focus        string                `json:"focus"`
	MuscleGroups []catalog.MuscleGroup `json:"muscle_groups"`
	Warmup       string                `json:"warmup"`
	Exercises    []PrescribedExercise  `json:"exercises"`
	CoreCircuit  []PrescribedExercise  `json:"core_circuit"`
	Stretching   string                `json:"stretching"`
}

// Routine is a generated training program.
type Routine struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DaysPerWeek int           `json:"days_per_week"`
	SplitName   string        `json:"split_name"`
	Goal        profile.Goal  `json:"goal"`
	Level       profile.Level `json:"level"`
	Days        []Day         `json:"days"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// ExerciseIDs lists the ids of the main exercises in program order.
func (r Routine) ExerciseIDs() []string {
	var ids []string
	for _, d := range r.Days {
		for _, ex := range d.Exercises {
			ids = append(ids, ex.ExerciseID)
		}
	}
	return ids
}
