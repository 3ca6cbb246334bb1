package routine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/myrjola/liftplan/internal/catalog"
	"github.com/myrjola/liftplan/internal/profile"
	"github.com/myrjola/liftplan/internal/split"
)

// RandFactory returns a fresh random source for one generation.
type RandFactory func() *rand.Rand

// SeededRand returns a factory whose sources all produce the same sequence for seed.
func SeededRand(seed uint64) RandFactory {
	return func() *rand.Rand {
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // variety, not security
	}
}

// EntropyRand returns a factory seeded from the runtime's random generator.
func EntropyRand() RandFactory {
	return func() *rand.Rand {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // variety, not security
	}
}

// Generator builds routines. It is safe for concurrent use: the catalog is read-only and every
// call gets its own random source.
type Generator struct {
	catalog *catalog.Catalog
	newRand RandFactory
	logger  *slog.Logger
	now     func() time.Time
}

// NewGenerator creates a generator drawing exercises from c.
func NewGenerator(c *catalog.Catalog, newRand RandFactory, logger *slog.Logger) *Generator {
	return &Generator{
		catalog: c,
		newRand: newRand,
		logger:  logger,
		now:     time.Now,
	}
}

// Generate normalizes raw and builds a routine for it. It never fails.
func (g *Generator) Generate(ctx context.Context, raw profile.Raw) Routine {
	return g.GenerateCanonical(ctx, profile.Normalize(raw))
}

// GenerateCanonical builds a routine for an already normalized profile. Missing or out of range
// fields get the same defaults Normalize applies, so it never fails either.
func (g *Generator) GenerateCanonical(ctx context.Context, p profile.Canonical) Routine {
	p = p.WithDefaults()
	template := split.Select(p.DaysPerWeek)
	sel := newSelector(g.catalog, p, g.newRand(), g.logger)
	params := p.Goal.Params()

	days := make([]Day, 0, len(template.Days))
	for i, dt := range template.Days {
		days = append(days, Day{
			Day:          i + 1,
			Label:        dt.Label,
			Focus:        dt.Focus,
			MuscleGroups: dt.MuscleGroups,
			Warmup:       warmupFor(dt),
			Exercises:    sel.selectDay(ctx, dt.MuscleGroups),
			CoreCircuit:  sel.selectCoreCircuit(ctx),
			Stretching:   stretchingFor(dt),
		})
	}

	r := Routine{
		Title:       fmt.Sprintf("Rutina de %s · %d días", p.Goal.Label(), len(days)),
		Description: description(p, template, len(days), params),
		DaysPerWeek: len(days),
		SplitName:   template.Name,
		Goal:        p.Goal,
		Level:       p.Level,
		Days:        days,
		GeneratedAt: g.now().UTC(),
	}
	g.logger.LogAttrs(ctx, slog.LevelDebug, "generated routine",
		slog.String("split", r.SplitName),
		slog.String("goal", string(r.Goal)),
		slog.String("level", string(r.Level)),
		slog.Int("exercises", len(r.ExerciseIDs())))
	return Sanitize(r)
}

func description(p profile.Canonical, t split.Template, days int, params profile.GoalParams) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Programa %s de %d días (%s) para nivel %s. ",
		strings.ToLower(p.Goal.Label()), days, t.Name, strings.ToLower(p.Level.Label()))
	fmt.Fprintf(&sb, "Descanso entre series: %s. Rango objetivo: %s repeticiones.", params.Rest, params.TargetReps)
	if len(p.ExcludedMuscleGroups) > 0 {
		labels := make([]string, 0, len(p.ExcludedMuscleGroups))
		for _, mg := range p.ExcludedMuscleGroups {
			labels = append(labels, strings.ToLower(mg.Label()))
		}
		fmt.Fprintf(&sb, " Se omiten por lesión: %s.", strings.Join(labels, ", "))
	}
	return sb.String()
}

func warmupFor(dt split.DayTemplate) string {
	return "5-10 minutos de cardio suave seguidos de movilidad articular para " + strings.ToLower(dt.Focus) + "."
}

func stretchingFor(dt split.DayTemplate) string {
	return "Estiramientos estáticos de 20-30 segundos por grupo: " + strings.ToLower(dt.Focus) + "."
}

// Sanitize replaces nil slices with empty ones so that the persisted document never omits a list.
// Optional values stay nil and encode as null. Scalar values are left untouched.
func Sanitize(r Routine) Routine {
	r.Days = nonNil(r.Days)
	for i := range r.Days {
		d := &r.Days[i]
		d.MuscleGroups = nonNil(d.MuscleGroups)
		d.Exercises = sanitizeExercises(d.Exercises)
		d.CoreCircuit = sanitizeExercises(d.CoreCircuit)
	}
	return r
}

func sanitizeExercises(exercises []PrescribedExercise) []PrescribedExercise {
	exercises = nonNil(exercises)
	for i := range exercises {
		exercises[i].Techniques = nonNil(exercises[i].Techniques)
	}
	return exercises
}

func nonNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}
