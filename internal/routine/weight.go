package routine

import (
	"math"
	"strconv"

	"github.com/myrjola/liftplan/internal/catalog"
	"github.com/myrjola/liftplan/internal/profile"
)

const (
	// weightIncrement is the smallest load step available with standard plates.
	weightIncrement = 2.5
	// minimumSuggestion filters out loads too small to be meaningful.
	minimumSuggestion = 5.0
	floatTolerance    = 1e-9
)

// benchmarkSource says which benchmark a muscle group derives its load from and at which fraction.
type benchmarkSource struct {
	benchmark profile.Benchmark
	fraction  float64
}

var muscleBenchmarks = map[catalog.MuscleGroup]benchmarkSource{
	catalog.MuscleChest:      {benchmark: profile.BenchmarkBenchPress, fraction: 1},
	catalog.MuscleShoulders:  {benchmark: profile.BenchmarkShoulderPress, fraction: 1},
	catalog.MuscleBack:       {benchmark: profile.BenchmarkPullUps, fraction: 1},
	catalog.MuscleQuadriceps: {benchmark: profile.BenchmarkSquat, fraction: 1},
	catalog.MuscleHamstrings: {benchmark: profile.BenchmarkDeadlift, fraction: 1},
	catalog.MuscleBiceps:     {benchmark: profile.BenchmarkBenchPress, fraction: 0.25}, //nolint:mnd // bench press share
	catalog.MuscleTriceps:    {benchmark: profile.BenchmarkBenchPress, fraction: 0.35}, //nolint:mnd // bench press share
}

func basePercentage(kind catalog.Kind, goal profile.Goal) float64 {
	compound := kind == catalog.KindCompound
	switch {
	case goal == profile.GoalStrength && compound:
		return 0.80 //nolint:mnd // percentage of benchmark
	case goal == profile.GoalStrength:
		return 0.60 //nolint:mnd // percentage of benchmark
	case goal == profile.GoalHypertrophy && compound:
		return 0.75 //nolint:mnd // percentage of benchmark
	case goal == profile.GoalHypertrophy:
		return 0.50 //nolint:mnd // percentage of benchmark
	case compound:
		return 0.70 //nolint:mnd // percentage of benchmark
	default:
		return 0.40 //nolint:mnd // percentage of benchmark
	}
}

// equipmentFactor discounts equipment relative to a barbell. Bodyweight exercises get no load.
func equipmentFactor(e catalog.Equipment) (float64, bool) {
	switch e {
	case catalog.EquipmentBarbell, catalog.EquipmentGuidedBar:
		return 1, true
	case catalog.EquipmentDumbbell:
		return 0.6, true //nolint:mnd // per hand
	case catalog.EquipmentCable:
		return 0.5, true //nolint:mnd // cable discount
	case catalog.EquipmentMachine:
		return 0.7, true //nolint:mnd // machine discount
	case catalog.EquipmentBodyweight:
		return 0, false
	default:
		return 0, false
	}
}

// SuggestWeight derives a starting load in kg for ex from the user's benchmarks.
// It reports false when no benchmark applies or the load would be below the noise floor.
func SuggestWeight(ex catalog.Exercise, p profile.Canonical) (float64, bool) {
	source, ok := muscleBenchmarks[ex.MuscleGroup]
	if !ok {
		return 0, false
	}
	benchmark, ok := p.Benchmark(source.benchmark)
	if !ok {
		return 0, false
	}
	factor, ok := equipmentFactor(ex.Equipment)
	if !ok {
		return 0, false
	}
	raw := benchmark * source.fraction * basePercentage(ex.Kind, p.Goal) * factor
	suggested := math.Floor(raw/weightIncrement+floatTolerance) * weightIncrement
	if suggested < minimumSuggestion {
		return 0, false
	}
	return suggested, true
}

// FormatWeight renders a load like "42.5 kg".
func FormatWeight(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64) + " kg"
}

func suggestedWeightText(ex catalog.Exercise, p profile.Canonical) *string {
	kg, ok := SuggestWeight(ex, p)
	if !ok {
		return nil
	}
	text := FormatWeight(kg)
	return &text
}
