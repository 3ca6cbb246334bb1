package routine_test

import (
	"testing"

	"github.com/myrjola/liftplan/internal/catalog"
	"github.com/myrjola/liftplan/internal/profile"
	"github.com/myrjola/liftplan/internal/routine"
)

func TestSuggestWeight(t *testing.T) {
	benchmarks := map[profile.Benchmark]float64{
		profile.BenchmarkBenchPress: 100,
		profile.BenchmarkSquat:      140,
		profile.BenchmarkPullUps:    20,
	}
	tests := []struct {
		name      string
		exercise  catalog.Exercise
		goal      profile.Goal
		want      float64
		wantFound bool
	}{
		{
			name:      "barbell compound strength",
			exercise:  catalog.Exercise{MuscleGroup: catalog.MuscleChest, Equipment: catalog.EquipmentBarbell, Kind: catalog.KindCompound},
			goal:      profile.GoalStrength,
			want:      80,
			wantFound: true,
		},
		{
			name:      "dumbbell compound hypertrophy floors to 2.5",
			exercise:  catalog.Exercise{MuscleGroup: catalog.MuscleChest, Equipment: catalog.EquipmentDumbbell, Kind: catalog.KindCompound},
			goal:      profile.GoalHypertrophy,
			want:      45,
			wantFound: true,
		},
		{
			name:      "machine compound endurance",
			exercise:  catalog.Exercise{MuscleGroup: catalog.MuscleQuadriceps, Equipment: catalog.EquipmentMachine, Kind: catalog.KindCompound},
			goal:      profile.GoalEndurance,
			want:      67.5,
			wantFound: true,
		},
		{
			name:      "cable isolation definition",
			exercise:  catalog.Exercise{MuscleGroup: catalog.MuscleChest, Equipment: catalog.EquipmentCable, Kind: catalog.KindIsolation},
			goal:      profile.GoalDefinition,
			want:      20,
			wantFound: true,
		},
		{
			name:      "biceps from bench press",
			exercise:  catalog.Exercise{MuscleGroup: catalog.MuscleBiceps, Equipment: catalog.EquipmentBarbell, Kind: catalog.KindIsolation},
			goal:      profile.GoalStrength,
			want:      15,
			wantFound: true,
		},
		{
			name:      "triceps from bench press",
			exercise:  catalog.Exercise{MuscleGroup: catalog.MuscleTriceps, Equipment: catalog.EquipmentCable, Kind: catalog.KindIsolation},
			goal:      profile.GoalHypertrophy,
			want:      7.5,
			wantFound: true,
		},
		{
			name:      "below noise floor",
			exercise:  catalog.Exercise{MuscleGroup: catalog.MuscleBack, Equipment: catalog.EquipmentCable, Kind: catalog.KindIsolation},
			goal:      profile.GoalDefinition,
			want:      0,
			wantFound: false,
		},
		{
			name:      "missing benchmark",
			exercise:  catalog.Exercise{MuscleGroup: catalog.MuscleShoulders, Equipment: catalog.EquipmentBarbell, Kind: catalog.KindCompound},
			goal:      profile.GoalStrength,
			want:      0,
			wantFound: false,
		},
		{
			name:      "bodyweight",
			exercise:  catalog.Exercise{MuscleGroup: catalog.MuscleChest, Equipment: catalog.EquipmentBodyweight, Kind: catalog.KindCompound},
			goal:      profile.GoalStrength,
			want:      0,
			wantFound: false,
		},
		{
			name:      "core has no benchmark",
			exercise:  catalog.Exercise{MuscleGroup: catalog.MuscleCore, Equipment: catalog.EquipmentCable, Kind: catalog.KindIsolation},
			goal:      profile.GoalStrength,
			want:      0,
			wantFound: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profile.Canonical{Goal: tt.goal, Benchmarks: benchmarks}
			got, found := routine.SuggestWeight(tt.exercise, p)
			if found != tt.wantFound || got != tt.want {
				t.Errorf("SuggestWeight() = (%v, %v), want (%v, %v)", got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestFormatWeight(t *testing.T) {
	for kg, want := range map[float64]string{42.5: "42.5 kg", 60: "60 kg", 7.5: "7.5 kg"} {
		if got := routine.FormatWeight(kg); got != want {
			t.Errorf("FormatWeight(%v) = %q, want %q", kg, got, want)
		}
	}
}
