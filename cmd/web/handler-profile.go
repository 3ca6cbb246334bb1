package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/liftplan/internal/profile"
)

// profilePOST stores the raw questionnaire answers. They are normalized when a routine is generated.
func (app *application) profilePOST(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseUserIDParam(w, r)
	if !ok {
		return
	}
	var raw profile.Raw
	if !app.decodeJSON(w, r, &raw) {
		return
	}
	if err := app.store.Profiles.Save(r.Context(), userID, raw); err != nil {
		app.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type benchmarksResponse struct {
	Benchmarks map[profile.Benchmark]float64 `json:"benchmarks"`
}

// benchmarksPOST records self-reported lifts. Keys accept the same aliases as the questionnaire,
// so {"sentadilla": 100} stores a squat benchmark.
func (app *application) benchmarksPOST(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.parseUserIDParam(w, r)
	if !ok {
		return
	}
	var body map[string]any
	if !app.decodeJSON(w, r, &body) {
		return
	}
	benchmarks := profile.Normalize(profile.Raw{Benchmarks: body}).Benchmarks //nolint:exhaustruct // only benchmarks.
	if len(benchmarks) == 0 {
		app.clientError(w, r, http.StatusBadRequest, "no recognized benchmark with a positive load")
		return
	}
	if len(benchmarks) < len(body) {
		app.logger.LogAttrs(r.Context(), slog.LevelInfo, "ignored unrecognized benchmarks",
			slog.Int("received", len(body)), slog.Int("stored", len(benchmarks)))
	}
	if err := app.store.Benchmarks.Set(r.Context(), userID, benchmarks); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, benchmarksResponse{Benchmarks: benchmarks})
}
