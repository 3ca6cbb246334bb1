// Package catalog holds the read-only collection of exercises that routines are built from.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/myrjola/liftplan/internal/errors"
)

var (
	ErrDuplicateID   = errors.NewSentinel("duplicate exercise id")
	ErrInvalidRecord = errors.NewSentinel("invalid exercise record")
)

// Catalog is an immutable set of exercises. It is safe for concurrent use.
type Catalog struct {
	exercises []Exercise
	byID      map[string]int
}

// New validates exercises and builds a catalog from a private copy of them.
func New(exercises []Exercise) (*Catalog, error) {
	c := &Catalog{
		exercises: make([]Exercise, 0, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
	}
	var errs []error
	for _, ex := range exercises {
		if err := validate(ex); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, exists := c.byID[ex.ID]; exists {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateID, ex.ID))
			continue
		}
		c.byID[ex.ID] = len(c.exercises)
		c.exercises = append(c.exercises, clone(ex))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

func validate(ex Exercise) error {
	var problems []string
	if strings.TrimSpace(ex.ID) == "" {
		problems = append(problems, "empty id")
	}
	if strings.TrimSpace(ex.Name) == "" {
		problems = append(problems, "empty name")
	}
	if !ex.MuscleGroup.Valid() {
		problems = append(problems, fmt.Sprintf("unknown muscle group %q", ex.MuscleGroup))
	}
	if ex.SecondaryMuscleGroup != nil && !ex.SecondaryMuscleGroup.Valid() {
		problems = append(problems, fmt.Sprintf("unknown secondary muscle group %q", *ex.SecondaryMuscleGroup))
	}
	if !ex.Equipment.Valid() {
		problems = append(problems, fmt.Sprintf("unknown equipment %q", ex.Equipment))
	}
	if ex.Kind != KindCompound && ex.Kind != KindIsolation {
		problems = append(problems, fmt.Sprintf("unknown kind %q", ex.Kind))
	}
	if ex.DefaultSets < 1 {
		problems = append(problems, fmt.Sprintf("default sets %d < 1", ex.DefaultSets))
	}
	for _, t := range ex.IntensityTechniques {
		if !t.Valid() {
			problems = append(problems, fmt.Sprintf("unknown technique %q", t))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidRecord, ex.ID, strings.Join(problems, ", "))
	}
	return nil
}

// clone copies the reference fields so that callers cannot mutate catalog state.
func clone(ex Exercise) Exercise {
	ex.IntensityTechniques = slices.Clone(ex.IntensityTechniques)
	if ex.SecondaryMuscleGroup != nil {
		mg := *ex.SecondaryMuscleGroup
		ex.SecondaryMuscleGroup = &mg
	}
	return ex
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// Get looks up an exercise by id.
func (c *Catalog) Get(id string) (Exercise, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return clone(c.exercises[idx]), true
}

// All returns every exercise in catalog order.
func (c *Catalog) All() []Exercise {
	return c.Filter(func(Exercise) bool { return true })
}

// Filter returns the exercises matching keep in catalog order.
func (c *Catalog) Filter(keep func(Exercise) bool) []Exercise {
	var filtered []Exercise
	for _, ex := range c.exercises {
		if keep(ex) {
			filtered = append(filtered, clone(ex))
		}
	}
	return filtered
}

// ByMuscleGroup returns the exercises whose primary target is mg.
func (c *Catalog) ByMuscleGroup(mg MuscleGroup) []Exercise {
	return c.Filter(func(ex Exercise) bool { return ex.MuscleGroup == mg })
}
