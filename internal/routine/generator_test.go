package routine_test

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/liftplan/internal/catalog"
	"github.com/myrjola/liftplan/internal/profile"
	"github.com/myrjola/liftplan/internal/routine"
	"github.com/myrjola/liftplan/internal/testhelpers"
)

func newGenerator(t *testing.T, c *catalog.Catalog, seed uint64) *routine.Generator {
	t.Helper()
	if c == nil {
		var err error
		if c, err = catalog.Default(); err != nil {
			t.Fatalf("Failed to load catalog: %v", err)
		}
	}
	return routine.NewGenerator(c, routine.SeededRand(seed), testhelpers.NewTestLogger(t))
}

func TestGenerate_noDuplicateExercises(t *testing.T) {
	levels := []string{"principiante", "intermedio", "avanzado"}
	locations := []string{"gimnasio", "casa", "mínimo", "sin equipo"}
	for days := 3; days <= 6; days++ {
		for _, level := range levels {
			for _, location := range locations {
				for seed := range uint64(5) {
					gen := newGenerator(t, nil, seed)
					r := gen.Generate(t.Context(), profile.Raw{
						Frequency:  days,
						Experience: level,
						Location:   location,
					})
					ids := r.ExerciseIDs()
					seen := make(map[string]bool, len(ids))
					for _, id := range ids {
						if seen[id] {
							t.Fatalf("days=%d level=%s location=%s seed=%d: exercise %s repeated",
								days, level, location, seed, id)
						}
						seen[id] = true
					}
					if len(r.Days) != days {
						t.Errorf("routine has %d days, want %d", len(r.Days), days)
					}
				}
			}
		}
	}
}

func TestGenerate_injuriesExcludeMuscleGroups(t *testing.T) {
	gen := newGenerator(t, nil, 42)
	r := gen.Generate(t.Context(), profile.Raw{
		Frequency: "5 días",
		Injuries:  "Tendinitis en el hombro y dolor de rodilla",
	})

	excluded := []catalog.MuscleGroup{catalog.MuscleShoulders, catalog.MuscleQuadriceps, catalog.MuscleHamstrings}
	for _, d := range r.Days {
		for _, ex := range d.Exercises {
			if slices.Contains(excluded, ex.MuscleGroup) {
				t.Errorf("day %d contains %s targeting excluded %s", d.Day, ex.ExerciseID, ex.MuscleGroup)
			}
		}
		onlyExcluded := true
		for _, mg := range d.MuscleGroups {
			if !slices.Contains(excluded, mg) {
				onlyExcluded = false
			}
		}
		if onlyExcluded && len(d.Exercises) != 0 {
			t.Errorf("day %d (%s) only trains excluded groups but has %d exercises", d.Day, d.Label, len(d.Exercises))
		}
	}
	if !strings.Contains(r.Description, "lesión") {
		t.Errorf("description does not mention the injuries: %q", r.Description)
	}
}

func TestGenerate_equipmentWithinAllowedSet(t *testing.T) {
	for seed := range uint64(10) {
		gen := newGenerator(t, nil, seed)
		raw := profile.Raw{Frequency: 4, Location: "casa"}
		allowed := profile.Normalize(raw).AllowedEquipment
		r := gen.Generate(t.Context(), raw)
		for _, d := range r.Days {
			for _, ex := range slices.Concat(d.Exercises, d.CoreCircuit) {
				if ex.EquipmentRelaxed {
					continue
				}
				if !slices.Contains(allowed, ex.Equipment) {
					t.Errorf("seed %d: %s uses %s outside %v", seed, ex.ExerciseID, ex.Equipment, allowed)
				}
			}
		}
	}
}

func TestGenerate_relaxesEquipmentWhenPoolIsEmpty(t *testing.T) {
	c, err := catalog.New([]catalog.Exercise{
		{
			ID: "bench", Name: "Press de banca con barra", MuscleGroup: catalog.MuscleChest,
			Equipment: catalog.EquipmentBarbell, Kind: catalog.KindCompound, DefaultSets: 3, DefaultRepsScheme: "10-8-6",
		},
		{
			ID: "plank", Name: "Plancha", MuscleGroup: catalog.MuscleCore,
			Equipment: catalog.EquipmentBodyweight, Kind: catalog.KindIsolation, DefaultSets: 3, DefaultRepsScheme: "45s",
		},
	})
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}
	gen := newGenerator(t, c, 1)

	r := gen.Generate(t.Context(), profile.Raw{Frequency: 3, Location: "sin equipo"})

	push := r.Days[0]
	if len(push.Exercises) != 1 {
		t.Fatalf("push day has %d exercises, want 1: %+v", len(push.Exercises), push.Exercises)
	}
	bench := push.Exercises[0]
	if bench.ExerciseID != "bench" || !bench.EquipmentRelaxed {
		t.Errorf("expected relaxed barbell bench press, got %+v", bench)
	}
	if len(r.Days[1].Exercises) != 0 {
		t.Errorf("pull day has exercises from an empty pool: %+v", r.Days[1].Exercises)
	}
	for _, d := range r.Days {
		if len(d.CoreCircuit) != 1 || d.CoreCircuit[0].ExerciseID != "plank" {
			t.Errorf("day %d core circuit = %+v, want plank", d.Day, d.CoreCircuit)
			continue
		}
		if d.CoreCircuit[0].EquipmentRelaxed {
			t.Errorf("day %d core circuit was relaxed although bodyweight is allowed", d.Day)
		}
	}
}

func TestGenerate_homeStrengthScenario(t *testing.T) {
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	gen := newGenerator(t, c, 7)

	r := gen.Generate(t.Context(), profile.Raw{Frequency: "4 días", Goals: "fuerza", Location: "casa"})

	if r.DaysPerWeek != 4 || len(r.Days) != 4 {
		t.Fatalf("routine has %d days (%d declared), want 4", len(r.Days), r.DaysPerWeek)
	}
	if r.Goal != profile.GoalStrength {
		t.Errorf("Goal = %q, want strength", r.Goal)
	}
	for _, d := range r.Days {
		if len(d.CoreCircuit) != 3 {
			t.Errorf("day %d core circuit has %d exercises, want 3", d.Day, len(d.CoreCircuit))
		}
		for _, ex := range d.Exercises {
			source, ok := c.Get(ex.ExerciseID)
			if !ok {
				t.Fatalf("exercise %s not in catalog", ex.ExerciseID)
			}
			if ex.Sets != source.DefaultSets+1 {
				t.Errorf("%s has %d sets, want %d", ex.ExerciseID, ex.Sets, source.DefaultSets+1)
			}
			if ex.RepsScheme != source.DefaultRepsScheme {
				t.Errorf("%s reps = %q, want catalog scheme %q", ex.ExerciseID, ex.RepsScheme, source.DefaultRepsScheme)
			}
			if ex.RestDuration != "3-4 min" {
				t.Errorf("%s rest = %q, want 3-4 min", ex.ExerciseID, ex.RestDuration)
			}
		}
	}
}

func TestGenerate_beginnerOpensWithCompound(t *testing.T) {
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	for seed := range uint64(10) {
		gen := newGenerator(t, c, seed)
		r := gen.Generate(t.Context(), profile.Raw{Frequency: 3, Experience: "principiante"})
		for _, d := range r.Days {
			var previous catalog.MuscleGroup
			for _, ex := range d.Exercises {
				if ex.MuscleGroup == previous {
					continue
				}
				previous = ex.MuscleGroup
				source, _ := c.Get(ex.ExerciseID)
				if !source.IsCompound() {
					t.Errorf("seed %d day %d: %s opens %s but is not compound", seed, d.Day, ex.ExerciseID, ex.MuscleGroup)
				}
				if !strings.Contains(ex.Notes, "aproximación") {
					t.Errorf("seed %d: opener %s lacks warm-up note: %q", seed, ex.ExerciseID, ex.Notes)
				}
			}
		}
	}
}

func TestGenerate_sameSeedSameRoutine(t *testing.T) {
	raw := profile.Raw{Frequency: 6, Experience: "avanzado"}
	first := newGenerator(t, nil, 99).Generate(t.Context(), raw)
	second := newGenerator(t, nil, 99).Generate(t.Context(), raw)
	if diff := cmp.Diff(first.ExerciseIDs(), second.ExerciseIDs()); diff != "" {
		t.Errorf("same seed produced different routines (-first +second):\n%s", diff)
	}
}

func TestGenerate_documentHasNoMissingFields(t *testing.T) {
	gen := newGenerator(t, nil, 3)
	r := gen.Generate(t.Context(), profile.Raw{})

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Failed to marshal routine: %v", err)
	}
	var doc struct {
		Days []struct {
			Exercises   []map[string]any `json:"exercises"`
			CoreCircuit []map[string]any `json:"core_circuit"`
		} `json:"days"`
	}
	if err = json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to unmarshal routine: %v", err)
	}
	for _, d := range doc.Days {
		if d.Exercises == nil || d.CoreCircuit == nil {
			t.Fatalf("day lists encoded as null: %s", data)
		}
		for _, ex := range d.Exercises {
			weight, ok := ex["suggested_weight"]
			if !ok {
				t.Errorf("suggested_weight missing from %v", ex)
			}
			if weight != nil {
				t.Errorf("suggested_weight = %v without benchmarks, want null", weight)
			}
			if techniques, ok := ex["techniques"]; !ok || techniques == nil {
				t.Errorf("techniques missing or null in %v", ex)
			}
		}
	}
}

func TestGenerate_suggestsWeightsFromBenchmarks(t *testing.T) {
	gen := newGenerator(t, nil, 5)
	r := gen.Generate(t.Context(), profile.Raw{
		Frequency:  3,
		Benchmarks: map[string]any{"sentadilla": 100, "peso muerto": 120},
	})

	legs := r.Days[2]
	var suggested int
	for _, ex := range legs.Exercises {
		if ex.SuggestedWeight != nil {
			suggested++
			if !strings.HasSuffix(*ex.SuggestedWeight, " kg") {
				t.Errorf("%s weight %q lacks unit", ex.ExerciseID, *ex.SuggestedWeight)
			}
		}
	}
	if suggested == 0 {
		t.Errorf("no leg exercise received a suggested weight: %+v", legs.Exercises)
	}
	for _, ex := range r.Days[0].Exercises {
		if ex.SuggestedWeight != nil {
			t.Errorf("%s has weight %q without a bench press benchmark", ex.ExerciseID, *ex.SuggestedWeight)
		}
	}
}

func TestRoutine_Markdown(t *testing.T) {
	gen := newGenerator(t, nil, 11)
	r := gen.Generate(t.Context(), profile.Raw{Frequency: 3, Goals: "hipertrofia"})

	md := r.Markdown()
	for _, want := range []string{
		"# " + r.Title,
		"## Día 1 · Empuje",
		"## Día 3 · Pierna",
		"| Ejercicio | Series |",
		"### Circuito de core",
		"**Estiramientos:**",
		r.Days[0].Exercises[0].Name,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown is missing %q:\n%s", want, md)
		}
	}
}

func TestGenerateCanonical_fillsDefaults(t *testing.T) {
	gen := newGenerator(t, nil, 8)
	r := gen.GenerateCanonical(t.Context(), profile.Canonical{DaysPerWeek: 10})

	if r.DaysPerWeek != 6 || len(r.Days) != 6 {
		t.Fatalf("routine has %d days (%d declared), want 6", len(r.Days), r.DaysPerWeek)
	}
	if r.Goal != profile.GoalHypertrophy || r.Level != profile.LevelIntermediate {
		t.Errorf("Goal, Level = %q, %q, want hypertrophy, intermediate", r.Goal, r.Level)
	}
	if r.Title != "Rutina de Hipertrofia · 6 días" {
		t.Errorf("Title = %q", r.Title)
	}
	if !strings.HasPrefix(r.Description, "Programa hipertrofia de 6 días") {
		t.Errorf("Description = %q, want 6 days of hypertrophy", r.Description)
	}
	for _, d := range r.Days {
		for _, ex := range slices.Concat(d.Exercises, d.CoreCircuit) {
			if ex.EquipmentRelaxed {
				t.Errorf("day %d: %s relaxed the equipment filter of a full gym", d.Day, ex.ExerciseID)
			}
		}
	}
}
