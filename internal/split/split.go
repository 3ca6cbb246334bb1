// Package split maps a weekly training frequency to a fixed muscle-group-to-day template.
package split

import (
	"slices"

	"github.com/myrjola/liftplan/internal/catalog"
	"github.com/myrjola/liftplan/internal/profile"
)

// DayTemplate is one training day of a split.
type DayTemplate struct {
	Label        string                `json:"label"`
	Focus        string                `json:"focus"`
	MuscleGroups []catalog.MuscleGroup `json:"muscle_groups"`
}

// Template is a named, ordered list of training days.
type Template struct {
	Name string        `json:"name"`
	Days []DayTemplate `json:"days"`
}

var (
	push = DayTemplate{
		Label:        "Empuje",
		Focus:        "Pecho, hombros y tríceps",
		MuscleGroups: []catalog.MuscleGroup{catalog.MuscleChest, catalog.MuscleShoulders, catalog.MuscleTriceps},
	}
	pull = DayTemplate{
		Label:        "Tirón",
		Focus:        "Espalda y bíceps",
		MuscleGroups: []catalog.MuscleGroup{catalog.MuscleBack, catalog.MuscleBiceps},
	}
	legs = DayTemplate{
		Label:        "Pierna",
		Focus:        "Cuádriceps, femorales y glúteos",
		MuscleGroups: []catalog.MuscleGroup{catalog.MuscleQuadriceps, catalog.MuscleHamstrings},
	}
)

var templates = map[int]Template{
	3: {
		Name: "Push / Pull / Legs",
		Days: []DayTemplate{push, pull, legs},
	},
	4: {
		Name: "Torso / Pierna",
		Days: []DayTemplate{
			{
				Label:        "Torso A",
				Focus:        "Empujes y tirones horizontales",
				MuscleGroups: []catalog.MuscleGroup{catalog.MuscleChest, catalog.MuscleBack, catalog.MuscleShoulders},
			},
			{
				Label:        "Pierna A",
				Focus:        "Dominante de cuádriceps",
				MuscleGroups: []catalog.MuscleGroup{catalog.MuscleQuadriceps, catalog.MuscleHamstrings},
			},
			{
				Label: "Torso B",
				Focus: "Espalda, pecho y brazos",
				MuscleGroups: []catalog.MuscleGroup{
					catalog.MuscleBack, catalog.MuscleChest, catalog.MuscleBiceps, catalog.MuscleTriceps,
				},
			},
			{
				Label:        "Pierna B",
				Focus:        "Dominante de cadera",
				MuscleGroups: []catalog.MuscleGroup{catalog.MuscleHamstrings, catalog.MuscleQuadriceps},
			},
		},
	},
	5: {
		Name: "Rutina dividida por grupos musculares",
		Days: []DayTemplate{
			{Label: "Pecho", Focus: "Pecho", MuscleGroups: []catalog.MuscleGroup{catalog.MuscleChest}},
			{Label: "Espalda", Focus: "Espalda", MuscleGroups: []catalog.MuscleGroup{catalog.MuscleBack}},
			{
				Label:        "Pierna",
				Focus:        "Cuádriceps, femorales y glúteos",
				MuscleGroups: []catalog.MuscleGroup{catalog.MuscleQuadriceps, catalog.MuscleHamstrings},
			},
			{Label: "Hombros", Focus: "Hombros", MuscleGroups: []catalog.MuscleGroup{catalog.MuscleShoulders}},
			{
				Label:        "Brazos",
				Focus:        "Bíceps y tríceps",
				MuscleGroups: []catalog.MuscleGroup{catalog.MuscleBiceps, catalog.MuscleTriceps},
			},
		},
	},
	6: {
		Name: "Push / Pull / Legs x2",
		Days: []DayTemplate{push, pull, legs, push, pull, legs},
	},
}

// Select returns the template for daysPerWeek. Values outside the supported range are clamped first,
// so a template is always returned. The result is a copy the caller may modify.
func Select(daysPerWeek int) Template {
	t := templates[profile.ClampDays(daysPerWeek)]
	days := make([]DayTemplate, len(t.Days))
	for i, d := range t.Days {
		d.MuscleGroups = slices.Clone(d.MuscleGroups)
		days[i] = d
	}
	return Template{Name: t.Name, Days: days}
}
