package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/myrjola/liftplan/internal/document"
	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/profile"
	"github.com/myrjola/liftplan/internal/routine"
	"github.com/myrjola/liftplan/internal/store"
)

type routineResponse struct {
	ID      string `json:"id"`
	Routine any    `json:"routine"`
}

// routinesPOST generates and stores a routine. The request body may carry a profile that replaces the stored one
// for this generation only. Stored benchmarks take precedence over the ones in the profile.
func (app *application) routinesPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := app.parseUserIDParam(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "could not read body")
		return
	}

	var raw profile.Raw
	if len(bytes.TrimSpace(body)) > 0 {
		if err = json.Unmarshal(body, &raw); err != nil {
			app.clientError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	} else {
		raw, err = app.store.Profiles.ReadUserProfile(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			app.logger.LogAttrs(ctx, slog.LevelInfo, "no stored profile, generating with defaults",
				slog.String("user_id", userID))
		} else if err != nil {
			app.serverError(w, r, err)
			return
		}
	}

	stored, err := app.store.Benchmarks.ReadBenchmarks(ctx, userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	rt := app.generator.GenerateCanonical(ctx, profile.Normalize(raw).WithBenchmarks(stored))
	id, err := app.store.Routines.Save(ctx, userID, rt)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/routines/"+id)
	app.writeJSON(w, r, http.StatusCreated, routineResponse{ID: id, Routine: document.FromValue(rt)})
}

type routinesResponse struct {
	Routines []store.RoutineSummary `json:"routines"`
}

func (app *application) routinesGET(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseUserIDParam(w, r)
	if !ok {
		return
	}
	summaries, err := app.store.Routines.List(r.Context(), userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, routinesResponse{Routines: summaries})
}

// routineGET returns the stored document as it was persisted.
func (app *application) routineGET(w http.ResponseWriter, r *http.Request) {
	stored, err := app.store.Routines.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, routineResponse{ID: stored.ID, Routine: stored.Document})
}

type routineTemplateData struct {
	BaseTemplateData
	ID       string
	Title    string
	Markdown string
}

// routinePageGET renders a printable routine.
func (app *application) routinePageGET(w http.ResponseWriter, r *http.Request) {
	stored, err := app.store.Routines.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	data := routineTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		ID:               stored.ID,
		Title:            stored.Routine.Title,
		Markdown:         routine.Sanitize(stored.Routine).Markdown(),
	}
	app.render(w, r, http.StatusOK, "routine", data)
}
