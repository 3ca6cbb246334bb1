// Package profile turns loosely typed user profiles into the canonical configuration used for routine generation.
package profile

import (
	"slices"

	"github.com/myrjola/liftplan/internal/catalog"
)

// Level is the training experience of a user.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Label is the user facing name.
func (l Level) Label() string {
	switch l {
	case LevelBeginner:
		return "Principiante"
	case LevelIntermediate:
		return "Intermedio"
	case LevelAdvanced:
		return "Avanzado"
	default:
		return string(l)
	}
}

// Goal is the primary training goal.
type Goal string

const (
	GoalHypertrophy Goal = "hypertrophy"
	GoalStrength    Goal = "strength"
	GoalDefinition  Goal = "definition"
	GoalEndurance   Goal = "endurance"
)

// ParseGoal maps free text to a goal using the same keyword rules as Normalize.
func ParseGoal(text string) Goal {
	return goalFromText(text)
}

// Label is the user facing name.
func (g Goal) Label() string {
	switch g {
	case GoalHypertrophy:
		return "Hipertrofia"
	case GoalStrength:
		return "Fuerza"
	case GoalDefinition:
		return "Definición"
	case GoalEndurance:
		return "Resistencia"
	default:
		return string(g)
	}
}

// GoalParams are the prescription adjustments a goal applies on top of catalog defaults.
type GoalParams struct {
	// SetsModifier is added to the catalog default sets.
	SetsModifier int
	// Rest is shown verbatim as the rest between sets.
	Rest string
	// TargetReps is the rep range the goal aims for.
	TargetReps string
}

// Params returns the prescription adjustments for g. Unknown goals get hypertrophy parameters.
func (g Goal) Params() GoalParams {
	switch g {
	case GoalStrength:
		return GoalParams{SetsModifier: 1, Rest: "3-4 min", TargetReps: "4-6"}
	case GoalDefinition:
		return GoalParams{SetsModifier: 0, Rest: "60 s", TargetReps: "12-15"}
	case GoalEndurance:
		return GoalParams{SetsModifier: 0, Rest: "45 s", TargetReps: "15-20"}
	case GoalHypertrophy:
		return GoalParams{SetsModifier: 0, Rest: "90 s", TargetReps: "8-12"}
	default:
		return GoalHypertrophy.Params()
	}
}

// Benchmark names a self-reported one-rep-max class lift.
type Benchmark string

const (
	BenchmarkBenchPress    Benchmark = "bench_press"
	BenchmarkShoulderPress Benchmark = "shoulder_press"
	BenchmarkDeadlift      Benchmark = "deadlift"
	BenchmarkSquat         Benchmark = "squat"
	BenchmarkPullUps       Benchmark = "pull_ups"
)

// Raw is a user profile as stored by the application. Every field is optional and may hold
// any decoded JSON or YAML value, e.g. "2-3 días" or 4 for Frequency.
type Raw struct {
	Frequency      any `json:"frequency"       yaml:"frequency"`
	Goals          any `json:"goals"           yaml:"goals"`
	SecondaryGoals any `json:"secondary_goals" yaml:"secondary_goals"`
	Experience     any `json:"experience"      yaml:"experience"`
	Location       any `json:"location"        yaml:"location"`
	Injuries       any `json:"injuries"        yaml:"injuries"`
	Benchmarks     any `json:"benchmarks"      yaml:"benchmarks"`
}

// Canonical is the normalized configuration a routine is generated from.
type Canonical struct {
	Level                Level                 `json:"level"`
	Goal                 Goal                  `json:"goal"`
	DaysPerWeek          int                   `json:"days_per_week"`
	AllowedEquipment     []catalog.Equipment   `json:"allowed_equipment"`
	ExcludedMuscleGroups []catalog.MuscleGroup `json:"excluded_muscle_groups"`
	Benchmarks           map[Benchmark]float64 `json:"benchmarks"`
}

// AllowsEquipment reports whether e is in the allowed equipment set.
func (c Canonical) AllowsEquipment(e catalog.Equipment) bool {
	return slices.Contains(c.AllowedEquipment, e)
}

// Excludes reports whether an injury rules out training mg.
func (c Canonical) Excludes(mg catalog.MuscleGroup) bool {
	return slices.Contains(c.ExcludedMuscleGroups, mg)
}

// Benchmark returns the load for b if the user reported one.
func (c Canonical) Benchmark(b Benchmark) (float64, bool) {
	v, ok := c.Benchmarks[b]
	return v, ok
}
