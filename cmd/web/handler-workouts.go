package main

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/myrjola/liftplan/internal/document"
	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/profile"
	"github.com/myrjola/liftplan/internal/store"
)

// maxSuggestionExercises bounds one suggestion request.
const maxSuggestionExercises = 30

type workoutRequest struct {
	// Date is the calendar day of the session in YYYY-MM-DD format.
	Date      string                 `json:"date"`
	Exercises []store.LoggedExercise `json:"exercises"`
}

// workoutsPOST logs a completed session.
func (app *application) workoutsPOST(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseUserIDParam(w, r)
	if !ok {
		return
	}
	var req workoutRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}
	err = app.store.Workouts.LogWorkout(r.Context(), userID, store.Workout{Date: date, Exercises: req.Exercises})
	if errors.Is(err, store.ErrInvalidWorkout) {
		app.clientError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type suggestionsRequest struct {
	Goal      string   `json:"goal"`
	Exercises []string `json:"exercises"`
}

type suggestionsResponse struct {
	Suggestions any `json:"suggestions"`
}

// suggestionsPOST recommends the next load for each exercise of the upcoming workout.
func (app *application) suggestionsPOST(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseUserIDParam(w, r)
	if !ok {
		return
	}
	var req suggestionsRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	names := make([]string, 0, len(req.Exercises))
	for _, name := range req.Exercises {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 || len(names) > maxSuggestionExercises {
		app.clientError(w, r, http.StatusBadRequest, "exercises must list between 1 and 30 names")
		return
	}

	recommendations := app.overload.SuggestForWorkout(r.Context(), userID, names, profile.ParseGoal(req.Goal))
	if err := r.Context().Err(); err != nil {
		// The client is gone or the request timed out. The recommendations would all be degraded.
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "suggestions aborted", errors.SlogError(err))
		return
	}
	app.writeJSON(w, r, http.StatusOK, suggestionsResponse{
		Suggestions: document.FromValue(recommendations),
	})
}
