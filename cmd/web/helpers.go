package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/myrjola/liftplan/internal/contexthelpers"
	"github.com/myrjola/liftplan/internal/errors"
)

// maxBodyBytes limits request bodies. Profiles and workout logs are small.
const maxBodyBytes = 1 << 20

// maxUserIDLength matches the users table constraint.
const maxUserIDLength = 128

type errorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	if isAPI(r) {
		app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{
			Error:   http.StatusText(http.StatusInternalServerError),
			TraceID: contexthelpers.TraceID(r.Context()),
		})
		return
	}
	app.render(w, r, http.StatusInternalServerError, "error", newBaseTemplateData(r))
}

// clientError responds with status and a message that is safe to show to the caller.
func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	app.logger.LogAttrs(r.Context(), slog.LevelDebug, "client error",
		slog.Int("status_code", status), slog.String("reason", msg))
	app.writeJSON(w, r, status, errorResponse{Error: msg, TraceID: ""})
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	if isAPI(r) {
		app.clientError(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}
	app.render(w, r, http.StatusNotFound, "not-found", newBaseTemplateData(r))
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to marshal response", errors.SlogError(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// decodeJSON decodes the request body into dst. On failure it responds with 400 and returns false.
func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		app.clientError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

// parseUserIDParam returns the "userID" path parameter. On failure it responds with 400 and returns false.
func (app *application) parseUserIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.PathValue("userID"))
	if userID == "" || len(userID) > maxUserIDLength {
		app.clientError(w, r, http.StatusBadRequest, "invalid user id")
		return "", false
	}
	return userID, true
}
