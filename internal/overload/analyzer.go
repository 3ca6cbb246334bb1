// Package overload recommends the next session load per exercise from logged history.
package overload

import (
	"math"
	"strings"
	"time"

	"github.com/myrjola/liftplan/internal/profile"
)

// Session is the summary of one logged session of a single exercise.
type Session struct {
	Date        time.Time `json:"date"         yaml:"date"`
	MaxWeight   float64   `json:"max_weight"   yaml:"max_weight"`
	TotalVolume float64   `json:"total_volume" yaml:"total_volume"`
	SetCount    int       `json:"set_count"    yaml:"set_count"`
}

// State is the progression state of an exercise. Every Recommendation is in exactly one of them.
type State string

const (
	StateNoData      State = "no_data"
	StateStalled     State = "stalled"
	StateProgressing State = "progressing"
)

// Trend is the direction shown to the user.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendStalled Trend = "stalled"
	TrendStable  Trend = "stable"
)

const (
	ReasonNoHistory          = "no prior history"
	ReasonPlateau            = "plateau detected"
	ReasonProgression        = "progressive overload"
	ReasonHistoryUnavailable = "history unavailable"

	stalledConfidence     = 0.9
	progressingConfidence = 0.85
	lowerBodyIncrement    = 5.0
	upperBodyIncrement    = 2.5
	// plateauSessions is how many equal session maxima in a row count as a plateau.
	plateauSessions = 3
)

// Recommendation is the suggested load for the next session of one exercise.
type Recommendation struct {
	State State `json:"state"`
	// Suggestion is the next load in kg, nil when there is no history.
	Suggestion *float64 `json:"suggestion"`
	Reason     string   `json:"reason"`
	Confidence float64  `json:"confidence"`
	Trend      Trend    `json:"trend"`
	// Advice suggests how to break a plateau. Exercises are never substituted automatically.
	Advice *string `json:"advice"`
	// DeclineDetected marks a last session lighter than the one before. The recommendation still
	// progresses from the last session.
	DeclineDetected bool `json:"decline_detected"`
}

// NoData is the recommendation for an exercise without usable history.
func NoData(reason string) Recommendation {
	return Recommendation{
		State:           StateNoData,
		Suggestion:      nil,
		Reason:          reason,
		Confidence:      0,
		Trend:           TrendStable,
		Advice:          nil,
		DeclineDetected: false,
	}
}

// Analyze recommends the next load for exerciseName. history must be in ascending date order.
func Analyze(history []Session, exerciseName string, goal profile.Goal) Recommendation {
	maxima := make([]float64, 0, len(history))
	for _, s := range history {
		if math.IsNaN(s.MaxWeight) || math.IsInf(s.MaxWeight, 0) || s.MaxWeight < 0 {
			continue
		}
		maxima = append(maxima, s.MaxWeight)
	}
	if len(maxima) == 0 {
		return NoData(ReasonNoHistory)
	}

	last := maxima[len(maxima)-1]
	declined := len(maxima) >= 2 && last < maxima[len(maxima)-2]

	if isPlateau(maxima) {
		advice := plateauAdvice(goal)
		return Recommendation{
			State:           StateStalled,
			Suggestion:      &last,
			Reason:          ReasonPlateau,
			Confidence:      stalledConfidence,
			Trend:           TrendStalled,
			Advice:          &advice,
			DeclineDetected: false,
		}
	}

	next := last + Increment(exerciseName)
	return Recommendation{
		State:           StateProgressing,
		Suggestion:      &next,
		Reason:          ReasonProgression,
		Confidence:      progressingConfidence,
		Trend:           TrendUp,
		Advice:          nil,
		DeclineDetected: declined,
	}
}

func isPlateau(maxima []float64) bool {
	if len(maxima) < plateauSessions {
		return false
	}
	recent := maxima[len(maxima)-plateauSessions:]
	for _, w := range recent[1:] {
		if w != recent[0] {
			return false
		}
	}
	return true
}

var (
	lowerBodyPatterns = []string{
		"squat", "leg", "deadlift", "lunge",
		"sentadilla", "pierna", "peso muerto", "zancada", "prensa", "hip thrust",
	}
	upperBodyPatterns = []string{"shoulder", "bench", "hombro", "banca"}
)

// IsLowerBody reports whether the exercise name looks like a lower body lift. Names that also
// mention an upper body lift, e.g. "Landmine shoulder press from split squat", are upper body.
func IsLowerBody(exerciseName string) bool {
	name := strings.ToLower(exerciseName)
	for _, p := range upperBodyPatterns {
		if strings.Contains(name, p) {
			return false
		}
	}
	for _, p := range lowerBodyPatterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// Increment is the load added on top of the last session when progressing.
func Increment(exerciseName string) float64 {
	if IsLowerBody(exerciseName) {
		return lowerBodyIncrement
	}
	return upperBodyIncrement
}

func plateauAdvice(goal profile.Goal) string {
	switch goal {
	case profile.GoalStrength:
		return "Mantén la carga y prueba una pirámide descendente o cambia el orden de los ejercicios para romper el estancamiento."
	case profile.GoalDefinition, profile.GoalEndurance:
		return "Mantén la carga y reduce el descanso o añade una serie con tempo lento."
	case profile.GoalHypertrophy:
		return "Mantén la carga y varía la técnica: añade una serie descendente o cambia el orden de los ejercicios."
	default:
		return plateauAdvice(profile.GoalHypertrophy)
	}
}
