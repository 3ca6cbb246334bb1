package routine

import (
	"cmp"
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/myrjola/liftplan/internal/catalog"
	"github.com/myrjola/liftplan/internal/profile"
)

const (
	coreCircuitSize = 3
	// curatedWeight is how much more likely a curated compound is to open a muscle group.
	curatedWeight = 2.0
	warmupNote    = "Primer ejercicio del día: realiza 2 series de aproximación con carga progresiva."
)

// selector picks exercises for one routine. It is not safe for concurrent use.
type selector struct {
	catalog *catalog.Catalog
	profile profile.Canonical
	rng     *rand.Rand
	logger  *slog.Logger
	// used holds every main exercise id already placed in the routine.
	used map[string]struct{}
}

func newSelector(c *catalog.Catalog, p profile.Canonical, rng *rand.Rand, logger *slog.Logger) *selector {
	return &selector{
		catalog: c,
		profile: p,
		rng:     rng,
		logger:  logger,
		used:    make(map[string]struct{}),
	}
}

// perMuscleCount is how many exercises each muscle group gets on a day training muscleGroups groups.
func perMuscleCount(level profile.Level, muscleGroups int) int {
	var count int
	switch level {
	case profile.LevelBeginner:
		count = 2
	case profile.LevelAdvanced:
		count = 4
	case profile.LevelIntermediate:
		count = 3
	default:
		count = 3
	}
	switch {
	case muscleGroups == 1:
		count += 2
	case muscleGroups >= 3: //nolint:mnd // three or more groups share the day
		count = max(count-1, 2) //nolint:mnd // floor
	}
	return count
}

// prefersCompound reports whether the level should open each muscle group with a compound lift.
func prefersCompound(level profile.Level) bool {
	return level != profile.LevelAdvanced
}

// selectDay picks the main exercises for every muscle group of a day in template order.
func (s *selector) selectDay(ctx context.Context, muscleGroups []catalog.MuscleGroup) []PrescribedExercise {
	exercises := []PrescribedExercise{}
	count := perMuscleCount(s.profile.Level, len(muscleGroups))
	for _, mg := range muscleGroups {
		exercises = append(exercises, s.selectMuscle(ctx, mg, count)...)
	}
	return exercises
}

// selectMuscle picks up to count exercises for mg. Injured muscle groups yield nothing. If the allowed
// equipment leaves no candidate the equipment filter is dropped, but never the injury or dedup filters.
func (s *selector) selectMuscle(ctx context.Context, mg catalog.MuscleGroup, count int) []PrescribedExercise {
	if s.profile.Excludes(mg) {
		return nil
	}

	pool := s.catalog.Filter(func(ex catalog.Exercise) bool {
		return ex.MuscleGroup == mg && s.profile.AllowsEquipment(ex.Equipment) && !s.isUsed(ex.ID)
	})
	relaxed := false
	if len(pool) == 0 {
		pool = s.catalog.Filter(func(ex catalog.Exercise) bool {
			return ex.MuscleGroup == mg && !s.isUsed(ex.ID)
		})
		relaxed = true
		s.logger.LogAttrs(ctx, slog.LevelDebug, "relaxed equipment filter",
			slog.String("muscle_group", string(mg)), slog.Int("candidates", len(pool)))
	}
	if len(pool) == 0 {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "no exercises left for muscle group",
			slog.String("muscle_group", string(mg)))
		return nil
	}

	picked := make([]PrescribedExercise, 0, min(count, len(pool)))

	if prefersCompound(s.profile.Level) {
		ordered := s.weightedOrder(pool)
		if idx := slices.IndexFunc(ordered, catalog.Exercise.IsCompound); idx >= 0 {
			opener := ordered[idx]
			pool = slices.DeleteFunc(pool, func(ex catalog.Exercise) bool { return ex.ID == opener.ID })
			picked = append(picked, s.prescribe(opener, relaxed, true))
			s.markUsed(opener.ID)
		}
	}

	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	for _, ex := range pool {
		if len(picked) >= count {
			break
		}
		picked = append(picked, s.prescribe(ex, relaxed, false))
		s.markUsed(ex.ID)
	}
	return picked
}

// selectCoreCircuit draws the accessory core circuit. Circuit exercises do not take part in deduplication.
func (s *selector) selectCoreCircuit(ctx context.Context) []PrescribedExercise {
	circuit := []PrescribedExercise{}
	if s.profile.Excludes(catalog.MuscleCore) {
		return circuit
	}
	pool := s.catalog.Filter(func(ex catalog.Exercise) bool {
		return ex.MuscleGroup == catalog.MuscleCore && s.profile.AllowsEquipment(ex.Equipment)
	})
	relaxed := false
	if len(pool) == 0 {
		pool = s.catalog.ByMuscleGroup(catalog.MuscleCore)
		relaxed = true
		s.logger.LogAttrs(ctx, slog.LevelDebug, "relaxed equipment filter for core circuit",
			slog.Int("candidates", len(pool)))
	}
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	for _, ex := range pool[:min(coreCircuitSize, len(pool))] {
		circuit = append(circuit, s.prescribe(ex, relaxed, false))
	}
	return circuit
}

// weightedOrder returns pool in a random order where curated exercises tend to come first.
// The input slice is not modified.
// Every permutation stays possible, so curation is a preference and not a filter.
func (s *selector) weightedOrder(pool []catalog.Exercise) []catalog.Exercise {
	type keyed struct {
		exercise catalog.Exercise
		key      float64
	}
	keys := make([]keyed, len(pool))
	for i, ex := range pool {
		weight := 1.0
		if ex.CuratedSource {
			weight = curatedWeight
		}
		// Weighted sampling without replacement: sort by u^(1/w) descending.
		keys[i] = keyed{exercise: ex, key: math.Pow(s.rng.Float64(), 1/weight)}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		return cmp.Compare(b.key, a.key)
	})
	ordered := make([]catalog.Exercise, len(keys))
	for i, k := range keys {
		ordered[i] = k.exercise
	}
	return ordered
}

func (s *selector) prescribe(ex catalog.Exercise, relaxed bool, opener bool) PrescribedExercise {
	params := s.profile.Goal.Params()
	notes := ex.Notes
	if opener {
		if notes != "" {
			notes += " "
		}
		notes += warmupNote
	}
	return PrescribedExercise{
		ExerciseID:       ex.ID,
		Name:             ex.Name,
		Sets:             max(ex.DefaultSets+params.SetsModifier, 1),
		RepsScheme:       ex.DefaultRepsScheme,
		RestDuration:     params.Rest,
		SuggestedWeight:  suggestedWeightText(ex, s.profile),
		MuscleGroup:      ex.MuscleGroup,
		Equipment:        ex.Equipment,
		EquipmentLabel:   ex.Equipment.Label(),
		Notes:            notes,
		Techniques:       techniquesForLevel(ex.IntensityTechniques, s.profile.Level),
		EquipmentRelaxed: relaxed,
	}
}

// techniquesForLevel drops intensity techniques that are too demanding for the level.
func techniquesForLevel(techniques []catalog.Technique, level profile.Level) []catalog.Technique {
	allowed := []catalog.Technique{}
	for _, t := range techniques {
		if techniqueLevel(t) <= levelRank(level) {
			allowed = append(allowed, t)
		}
	}
	return allowed
}

func techniqueLevel(t catalog.Technique) int {
	switch t {
	case catalog.TechniquePyramid, catalog.TechniqueIsometricHold, catalog.TechniqueTempo:
		return levelRank(profile.LevelBeginner)
	case catalog.TechniqueDropSet, catalog.TechniqueSuperset:
		return levelRank(profile.LevelIntermediate)
	case catalog.TechniqueRestPause:
		return levelRank(profile.LevelAdvanced)
	default:
		return levelRank(profile.LevelAdvanced)
	}
}

func levelRank(level profile.Level) int {
	switch level {
	case profile.LevelBeginner:
		return 0
	case profile.LevelIntermediate:
		return 1
	case profile.LevelAdvanced:
		return 2 //nolint:mnd // highest rank
	default:
		return 1
	}
}

func (s *selector) isUsed(id string) bool {
	_, ok := s.used[id]
	return ok
}

func (s *selector) markUsed(id string) {
	s.used[id] = struct{}{}
}
