package catalog

// MuscleGroup is the primary target of an exercise.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleQuadriceps MuscleGroup = "quadriceps"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleCore       MuscleGroup = "core"
)

// MuscleGroups lists every muscle group in display order.
func MuscleGroups() []MuscleGroup {
	return []MuscleGroup{
		MuscleChest, MuscleBack, MuscleShoulders, MuscleQuadriceps,
		MuscleHamstrings, MuscleBiceps, MuscleTriceps, MuscleCore,
	}
}

// Valid reports whether m is one of the known muscle groups.
func (m MuscleGroup) Valid() bool {
	switch m {
	case MuscleChest, MuscleBack, MuscleShoulders, MuscleQuadriceps,
		MuscleHamstrings, MuscleBiceps, MuscleTriceps, MuscleCore:
		return true
	default:
		return false
	}
}

// Label is the user facing name.
func (m MuscleGroup) Label() string {
	switch m {
	case MuscleChest:
		return "Pecho"
	case MuscleBack:
		return "Espalda"
	case MuscleShoulders:
		return "Hombros"
	case MuscleQuadriceps:
		return "Cuádriceps"
	case MuscleHamstrings:
		return "Femorales y glúteos"
	case MuscleBiceps:
		return "Bíceps"
	case MuscleTriceps:
		return "Tríceps"
	case MuscleCore:
		return "Core"
	default:
		return string(m)
	}
}

// Equipment is the class of equipment an exercise needs.
type Equipment string

const (
	EquipmentBarbell    Equipment = "barbell"
	EquipmentDumbbell   Equipment = "dumbbell"
	EquipmentCable      Equipment = "cable"
	EquipmentMachine    Equipment = "machine"
	EquipmentGuidedBar  Equipment = "guided_bar"
	EquipmentBodyweight Equipment = "bodyweight"
)

// AllEquipment lists every equipment class, i.e. a full gym.
func AllEquipment() []Equipment {
	return []Equipment{
		EquipmentBarbell, EquipmentDumbbell, EquipmentCable,
		EquipmentMachine, EquipmentGuidedBar, EquipmentBodyweight,
	}
}

// Valid reports whether e is one of the known equipment classes.
func (e Equipment) Valid() bool {
	switch e {
	case EquipmentBarbell, EquipmentDumbbell, EquipmentCable,
		EquipmentMachine, EquipmentGuidedBar, EquipmentBodyweight:
		return true
	default:
		return false
	}
}

// Label is the user facing name.
func (e Equipment) Label() string {
	switch e {
	case EquipmentBarbell:
		return "Barra"
	case EquipmentDumbbell:
		return "Mancuernas"
	case EquipmentCable:
		return "Polea"
	case EquipmentMachine:
		return "Máquina"
	case EquipmentGuidedBar:
		return "Multipower"
	case EquipmentBodyweight:
		return "Peso corporal"
	default:
		return string(e)
	}
}

// Kind tells multi-joint movements apart from single-joint ones.
type Kind string

const (
	KindCompound  Kind = "compound"
	KindIsolation Kind = "isolation"
)

// Technique is an intensity technique that suits an exercise.
type Technique string

const (
	TechniqueDropSet       Technique = "drop_set"
	TechniquePyramid       Technique = "pyramid"
	TechniqueSuperset      Technique = "superset"
	TechniqueIsometricHold Technique = "isometric_hold"
	TechniqueRestPause     Technique = "rest_pause"
	TechniqueTempo         Technique = "tempo"
)

// Valid reports whether t is one of the known techniques.
func (t Technique) Valid() bool {
	switch t {
	case TechniqueDropSet, TechniquePyramid, TechniqueSuperset,
		TechniqueIsometricHold, TechniqueRestPause, TechniqueTempo:
		return true
	default:
		return false
	}
}

// Exercise is a single catalog record, e.g. "Press de banca con barra".
type Exercise struct {
	ID                   string       `yaml:"id"                     json:"id"`
	Name                 string       `yaml:"name"                   json:"name"`
	MuscleGroup          MuscleGroup  `yaml:"muscle_group"           json:"muscle_group"`
	SecondaryMuscleGroup *MuscleGroup `yaml:"secondary_muscle_group" json:"secondary_muscle_group"`
	Equipment            Equipment    `yaml:"equipment"              json:"equipment"`
	Kind                 Kind         `yaml:"kind"                   json:"kind"`
	DefaultSets          int          `yaml:"default_sets"           json:"default_sets"`
	// DefaultRepsScheme is prescription text such as "12-10-8", not a number.
	DefaultRepsScheme   string      `yaml:"default_reps_scheme"  json:"default_reps_scheme"`
	IntensityTechniques []Technique `yaml:"intensity_techniques" json:"intensity_techniques"`
	// CuratedSource marks the hand-picked coach subset. It raises selection odds but is not a filter.
	CuratedSource bool   `yaml:"curated_source" json:"curated_source"`
	Notes         string `yaml:"notes"          json:"notes"`
}

// IsCompound reports whether the exercise is a multi-joint movement.
func (e Exercise) IsCompound() bool {
	return e.Kind == KindCompound
}
