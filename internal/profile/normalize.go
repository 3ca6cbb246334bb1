package profile

import (
	"fmt"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/myrjola/liftplan/internal/catalog"
)

const (
	defaultDaysPerWeek = 5
	MinDaysPerWeek     = 3
	MaxDaysPerWeek     = 6
)

var integerPattern = regexp.MustCompile(`\d+`)

// Normalize maps a raw profile to its canonical form. It never fails: every field that
// cannot be interpreted falls back to its default.
func Normalize(raw Raw) Canonical {
	return Canonical{
		Level:                levelFromText(joinText(raw.Experience)),
		Goal:                 goalFromText(joinText(raw.Goals, raw.SecondaryGoals)),
		DaysPerWeek:          daysPerWeek(raw.Frequency),
		AllowedEquipment:     equipmentForLocation(joinText(raw.Location)),
		ExcludedMuscleGroups: excludedMuscleGroups(raw.Injuries),
		Benchmarks:           benchmarks(raw.Benchmarks),
	}
}

// ClampDays forces days into the supported range.
func ClampDays(days int) int {
	return min(max(days, MinDaysPerWeek), MaxDaysPerWeek)
}

// daysPerWeek takes the largest integer in the frequency so that ranges like "2-3 días" pick the upper bound.
func daysPerWeek(frequency any) int {
	found := false
	largest := 0
	for _, text := range flatten(frequency) {
		for _, match := range integerPattern.FindAllString(text, -1) {
			n, err := strconv.Atoi(match)
			if err != nil {
				// Only digits match, so the number is out of range.
				n = MaxDaysPerWeek
			}
			if !found || n > largest {
				largest = n
				found = true
			}
		}
	}
	if !found {
		return defaultDaysPerWeek
	}
	return ClampDays(largest)
}

var goalKeywords = []struct {
	goal     Goal
	keywords []string
}{
	{goal: GoalStrength, keywords: []string{"fuerza", "strength", "potencia", "power"}},
	{goal: GoalDefinition, keywords: []string{
		"definici", "definition", "grasa", "fat", "adelgaz", "perder peso", "lose weight", "tonific",
	}},
	{goal: GoalEndurance, keywords: []string{"resistencia", "endurance", "cardio", "aguante", "stamina"}},
}

func goalFromText(text string) Goal {
	text = strings.ToLower(text)
	for _, gk := range goalKeywords {
		if containsAny(text, gk.keywords) {
			return gk.goal
		}
	}
	return GoalHypertrophy
}

var levelKeywords = []struct {
	level    Level
	keywords []string
}{
	{level: LevelBeginner, keywords: []string{"beginner", "principiante", "less than", "menos de", "0", "1"}},
	{level: LevelIntermediate, keywords: []string{"3-5", "intermediate", "intermedio"}},
	{level: LevelAdvanced, keywords: []string{"5+", "más de 5", "more than 5", "advanced", "avanzado", "expert", "experto"}},
}

func levelFromText(text string) Level {
	text = strings.ToLower(text)
	for _, lk := range levelKeywords {
		if containsAny(text, lk.keywords) {
			return lk.level
		}
	}
	return LevelIntermediate
}

var (
	bodyweightEquipment = []catalog.Equipment{catalog.EquipmentBodyweight}
	minimalEquipment    = []catalog.Equipment{catalog.EquipmentDumbbell, catalog.EquipmentBodyweight}
	homeEquipment       = []catalog.Equipment{
		catalog.EquipmentDumbbell, catalog.EquipmentBodyweight, catalog.EquipmentBarbell,
	}
)

var locationKeywords = []struct {
	equipment []catalog.Equipment
	keywords  []string
}{
	{equipment: bodyweightEquipment, keywords: []string{
		"sin equipo", "sin material", "peso corporal", "bodyweight", "no equipment", "calistenia", "calisthenics",
	}},
	{equipment: minimalEquipment, keywords: []string{"mínimo", "minimo", "minimal", "parque", "park", "hotel"}},
	{equipment: homeEquipment, keywords: []string{"casa", "hogar", "home", "garaje", "garage"}},
}

// equipmentForLocation returns a fresh slice, full gym when the location is unknown.
func equipmentForLocation(text string) []catalog.Equipment {
	text = strings.ToLower(text)
	for _, lk := range locationKeywords {
		if containsAny(text, lk.keywords) {
			return slices.Clone(lk.equipment)
		}
	}
	return catalog.AllEquipment()
}

var injuryKeywords = []struct {
	keywords []string
	groups   []catalog.MuscleGroup
}{
	{keywords: []string{"hombro", "shoulder", "manguito", "rotator"}, groups: []catalog.MuscleGroup{
		catalog.MuscleShoulders,
	}},
	{keywords: []string{"espalda", "lumbar", "back", "hernia"}, groups: []catalog.MuscleGroup{
		catalog.MuscleBack,
	}},
	{keywords: []string{"rodilla", "knee", "menisco", "ligamento"}, groups: []catalog.MuscleGroup{
		catalog.MuscleQuadriceps, catalog.MuscleHamstrings,
	}},
	{keywords: []string{"codo", "muñeca", "muneca", "elbow", "wrist"}, groups: []catalog.MuscleGroup{
		catalog.MuscleBiceps, catalog.MuscleTriceps,
	}},
}

var noInjuryAnswers = []string{"", "none", "ninguna", "ninguno", "no", "nada", "n/a"}

func excludedMuscleGroups(injuries any) []catalog.MuscleGroup {
	excluded := []catalog.MuscleGroup{}
	for _, text := range flatten(injuries) {
		text = strings.ToLower(strings.TrimSpace(text))
		if slices.Contains(noInjuryAnswers, text) {
			continue
		}
		for _, ik := range injuryKeywords {
			if !containsAny(text, ik.keywords) {
				continue
			}
			for _, mg := range ik.groups {
				if !slices.Contains(excluded, mg) {
					excluded = append(excluded, mg)
				}
			}
		}
	}
	return excluded
}

var benchmarkAliases = map[string]Benchmark{
	"benchpress":      BenchmarkBenchPress,
	"bench":           BenchmarkBenchPress,
	"pressbanca":      BenchmarkBenchPress,
	"pressdebanca":    BenchmarkBenchPress,
	"shoulderpress":   BenchmarkShoulderPress,
	"overheadpress":   BenchmarkShoulderPress,
	"pressmilitar":    BenchmarkShoulderPress,
	"presshombro":     BenchmarkShoulderPress,
	"pressdehombro":   BenchmarkShoulderPress,
	"deadlift":        BenchmarkDeadlift,
	"pesomuerto":      BenchmarkDeadlift,
	"squat":           BenchmarkSquat,
	"sentadilla":      BenchmarkSquat,
	"pullups":         BenchmarkPullUps,
	"pullup":          BenchmarkPullUps,
	"dominadas":       BenchmarkPullUps,
	"dominadaslastre": BenchmarkPullUps,
}

// benchmarks keeps the entries whose key is a known lift and whose value is a positive number.
func benchmarks(raw any) map[Benchmark]float64 {
	result := map[Benchmark]float64{}
	for key, value := range entries(raw) {
		b, ok := benchmarkAliases[benchmarkKey(key)]
		if !ok {
			continue
		}
		n, ok := number(value)
		if !ok || n <= 0 {
			continue
		}
		result[b] = n
	}
	return result
}

func benchmarkKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '.':
			return -1
		default:
			return r
		}
	}, strings.ToLower(key))
}

// entries iterates over string keyed maps as decoded by encoding/json and yaml.v3.
func entries(raw any) map[string]any {
	switch m := raw.(type) {
	case map[string]any:
		return m
	case map[string]float64:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out
	default:
		return nil
	}
}

func number(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint64:
		n = float64(x)
	case string:
		s := strings.TrimSpace(strings.ToLower(x))
		s = strings.TrimSpace(strings.TrimSuffix(s, "kg"))
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// flatten turns a scalar or list value into text fragments. Unknown shapes yield nothing.
func flatten(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return []string{x}
	case []string:
		return x
	case []any:
		var out []string
		for _, item := range x {
			out = append(out, flatten(item)...)
		}
		return out
	case bool:
		return nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return []string{strconv.FormatFloat(x, 'f', -1, 64)}
	case int, int64, float32, uint64:
		return []string{fmt.Sprint(x)}
	default:
		return nil
	}
}

func joinText(values ...any) string {
	var parts []string
	for _, v := range values {
		parts = append(parts, flatten(v)...)
	}
	return strings.Join(parts, " ")
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// WithBenchmarks returns a copy of c where the stored benchmarks override the ones given in the profile.
// Keys accept the same aliases as the profile answers.
func (c Canonical) WithBenchmarks(stored map[string]float64) Canonical {
	merged := make(map[Benchmark]float64, len(c.Benchmarks)+len(stored))
	maps.Copy(merged, c.Benchmarks)
	maps.Copy(merged, benchmarks(stored))
	c.Benchmarks = merged
	return c
}

// WithDefaults fills the fields of a hand-built profile the way Normalize would: days are clamped
// into the supported range, unknown goals and levels fall back to hypertrophy and intermediate,
// and an empty equipment list means a full gym.
func (c Canonical) WithDefaults() Canonical {
	if c.DaysPerWeek == 0 {
		c.DaysPerWeek = defaultDaysPerWeek
	}
	c.DaysPerWeek = ClampDays(c.DaysPerWeek)
	switch c.Goal {
	case GoalHypertrophy, GoalStrength, GoalDefinition, GoalEndurance:
	default:
		c.Goal = GoalHypertrophy
	}
	switch c.Level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
	default:
		c.Level = LevelIntermediate
	}
	if len(c.AllowedEquipment) == 0 {
		c.AllowedEquipment = catalog.AllEquipment()
	}
	return c
}
