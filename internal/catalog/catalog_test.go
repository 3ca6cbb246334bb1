package catalog_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/liftplan/internal/catalog"
	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/ptr"
)

func validExercise(id string) catalog.Exercise {
	return catalog.Exercise{
		ID:                   id,
		Name:                 "Press de banca con barra",
		MuscleGroup:          catalog.MuscleChest,
		SecondaryMuscleGroup: ptr.Ref(catalog.MuscleTriceps),
		Equipment:            catalog.EquipmentBarbell,
		Kind:                 catalog.KindCompound,
		DefaultSets:          4,
		DefaultRepsScheme:    "12-10-8-6",
		IntensityTechniques:  []catalog.Technique{catalog.TechniquePyramid},
		CuratedSource:        true,
		Notes:                "",
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		exercises []catalog.Exercise
		wantErr   error
	}{
		{
			name:      "valid",
			exercises: []catalog.Exercise{validExercise("a"), validExercise("b")},
			wantErr:   nil,
		},
		{
			name:      "empty catalog",
			exercises: nil,
			wantErr:   nil,
		},
		{
			name:      "duplicate id",
			exercises: []catalog.Exercise{validExercise("a"), validExercise("a")},
			wantErr:   catalog.ErrDuplicateID,
		},
		{
			name: "unknown muscle group",
			exercises: []catalog.Exercise{func() catalog.Exercise {
				ex := validExercise("a")
				ex.MuscleGroup = "glutes"
				return ex
			}()},
			wantErr: catalog.ErrInvalidRecord,
		},
		{
			name: "unknown equipment",
			exercises: []catalog.Exercise{func() catalog.Exercise {
				ex := validExercise("a")
				ex.Equipment = "kettlebell"
				return ex
			}()},
			wantErr: catalog.ErrInvalidRecord,
		},
		{
			name: "zero default sets",
			exercises: []catalog.Exercise{func() catalog.Exercise {
				ex := validExercise("a")
				ex.DefaultSets = 0
				return ex
			}()},
			wantErr: catalog.ErrInvalidRecord,
		},
		{
			name: "unknown technique",
			exercises: []catalog.Exercise{func() catalog.Exercise {
				ex := validExercise("a")
				ex.IntensityTechniques = append(ex.IntensityTechniques, "cluster")
				return ex
			}()},
			wantErr: catalog.ErrInvalidRecord,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := catalog.New(tt.exercises)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("New() unexpected error: %v", err)
				}
				if c.Len() != len(tt.exercises) {
					t.Errorf("Len() = %d, want %d", c.Len(), len(tt.exercises))
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.HasPrefix(err.Error(), tt.wantErr.Error()) {
				t.Errorf("New() error = %q, want it to start with %q", err, tt.wantErr)
			}
		})
	}
}

func TestCatalog_returnsCopies(t *testing.T) {
	c, err := catalog.New([]catalog.Exercise{validExercise("a")})
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}

	ex, ok := c.Get("a")
	if !ok {
		t.Fatal("Get() did not find exercise")
	}
	ex.IntensityTechniques[0] = catalog.TechniqueDropSet
	*ex.SecondaryMuscleGroup = catalog.MuscleCore
	ex.Name = "changed"

	again, _ := c.Get("a")
	if diff := cmp.Diff(validExercise("a"), again); diff != "" {
		t.Errorf("catalog mutated through returned value (-want +got):\n%s", diff)
	}
}

func TestDefault(t *testing.T) {
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("Failed to load default catalog: %v", err)
	}

	for _, mg := range catalog.MuscleGroups() {
		exercises := c.ByMuscleGroup(mg)
		if len(exercises) < 6 {
			t.Errorf("muscle group %s has %d exercises, want at least 6", mg, len(exercises))
		}
		var homeFriendly int
		for _, ex := range exercises {
			if ex.Equipment == catalog.EquipmentBodyweight || ex.Equipment == catalog.EquipmentDumbbell {
				homeFriendly++
			}
		}
		if homeFriendly < 2 {
			t.Errorf("muscle group %s has %d home friendly exercises, want at least 2", mg, homeFriendly)
		}
	}

	squat, ok := c.Get("barbell-back-squat")
	if !ok {
		t.Fatal("default catalog is missing barbell-back-squat")
	}
	if squat.Name != "Sentadilla con barra" {
		t.Errorf("squat name = %q, want %q", squat.Name, "Sentadilla con barra")
	}

	for _, ex := range c.All() {
		if !utf8.ValidString(ex.Name) || strings.ContainsRune(ex.Name, utf8.RuneError) {
			t.Errorf("exercise %s has a malformed name %q", ex.ID, ex.Name)
		}
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name: "valid document",
			input: `exercises:
  - id: plank
    name: "Plancha frontal"
    muscle_group: core
    equipment: bodyweight
    kind: isolation
    default_sets: 3
    default_reps_scheme: "45s"
`,
			wantErr: false,
		},
		{
			name: "unknown field",
			input: `exercises:
  - id: plank
    name: "Plancha frontal"
    muscle_group: core
    equipment: bodyweight
    kind: isolation
    default_sets: 3
    difficulty: hard
`,
			wantErr: true,
		},
		{
			name:    "invalid utf-8",
			input:   "exercises:\n  - id: x\n    name: \"Sentadilla \xc3\x28\"\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Load(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
