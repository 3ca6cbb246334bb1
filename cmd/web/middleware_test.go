package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/myrjola/liftplan/internal/flightrecorder"
	"github.com/myrjola/liftplan/internal/testhelpers"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()
	templateFS, err := resolveTemplateFS("")
	if err != nil {
		t.Fatalf("Failed to resolve templates: %v", err)
	}
	return &application{ //nolint:exhaustruct // this is a test
		logger:     testhelpers.NewTestLogger(t),
		templateFS: templateFS,
		timeout:    2 * time.Second,
	}
}

func Test_application_timeoutHandler(t *testing.T) {
	tests := []struct {
		name     string
		sleepMS  int
		timesOut bool
	}{
		{
			name:     "completes within timeout",
			sleepMS:  500,
			timesOut: false,
		},
		{
			name:     "times out",
			sleepMS:  3000,
			timesOut: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				app := newTestApplication(t)
				handler := app.timeoutHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					select {
					case <-time.After(time.Duration(tt.sleepMS) * time.Millisecond):
						app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "completed"})
					case <-r.Context().Done():
					}
				}))

				req := httptest.NewRequest(http.MethodGet, "/api/slow", nil)
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, req)

				if tt.timesOut {
					if w.Code != http.StatusServiceUnavailable {
						t.Errorf("Expected status 503 on timeout, got %d", w.Code)
					}
					if !strings.Contains(w.Body.String(), "timed out") {
						t.Errorf("Expected timeout message in response body, got: %s", w.Body.String())
					}
				} else if w.Code != http.StatusOK {
					t.Errorf("Expected status 200, got %d", w.Code)
				}
			})
		})
	}
}

func Test_application_recoverPanic(t *testing.T) {
	app := newTestApplication(t)
	handler := app.logAndTraceRequest(app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	t.Run("API responds with JSON and trace id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/anything", nil))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("Expected status 500, got %d", w.Code)
		}
		var body errorResponse
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}
		if body.TraceID == "" || body.TraceID != w.Header().Get("X-Trace-Id") {
			t.Errorf("Expected trace id %q in body, got %q", w.Header().Get("X-Trace-Id"), body.TraceID)
		}
	})

	t.Run("page renders the error template", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/routines/x", nil))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("Expected status 500, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Algo salió mal") {
			t.Errorf("Expected error page, got: %s", w.Body.String())
		}
	})
}

func Test_secureHeaders(t *testing.T) {
	handler := secureHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	csp := w.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'none'") || !strings.Contains(csp, "style-src 'nonce-") {
		t.Errorf("Unexpected CSP: %s", csp)
	}
	_, rest, _ := strings.Cut(csp, "'nonce-")
	nonce, _, _ := strings.Cut(rest, "'")
	if nonce == "" {
		t.Errorf("Expected a nonce in CSP: %s", csp)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func Test_application_capturesTraceOnServerError(t *testing.T) {
	app := newTestApplication(t)
	traceDir := t.TempDir()
	recorder, err := flightrecorder.New(flightrecorder.Config{ //nolint:exhaustruct // defaults
		Logger:          app.logger,
		TracesDirectory: traceDir,
	})
	if err != nil {
		t.Fatalf("Failed to create flight recorder: %v", err)
	}
	if err = recorder.Start(t.Context()); err != nil {
		t.Fatalf("Failed to start flight recorder: %v", err)
	}
	t.Cleanup(func() { recorder.Stop(t.Context()) })
	app.flightRecorder = recorder

	handler := app.logAndTraceRequest(app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/anything", nil))

	entries, err := os.ReadDir(traceDir)
	if err != nil {
		t.Fatalf("Failed to read trace directory: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "server-error-") {
		t.Errorf("Expected one server-error trace, got %v", entries)
	}
}
