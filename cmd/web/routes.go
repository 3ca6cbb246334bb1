package main

import (
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				app.timeoutHandler(next)))))
		}
		api = func(next http.HandlerFunc) http.Handler {
			return shared(noCache(next))
		}
	)

	mux.Handle("GET /api/healthy", api(app.healthy))
	mux.Handle("POST /api/csp-violation-report", api(app.cspViolation))

	mux.Handle("POST /api/users/{userID}/profile", api(app.profilePOST))
	mux.Handle("POST /api/users/{userID}/benchmarks", api(app.benchmarksPOST))
	mux.Handle("POST /api/users/{userID}/routines", api(app.routinesPOST))
	mux.Handle("GET /api/users/{userID}/routines", api(app.routinesGET))
	mux.Handle("POST /api/users/{userID}/workouts", api(app.workoutsPOST))
	mux.Handle("POST /api/users/{userID}/suggestions", api(app.suggestionsPOST))
	mux.Handle("GET /api/routines/{id}", api(app.routineGET))

	mux.Handle("GET /routines/{id}", shared(http.HandlerFunc(app.routinePageGET)))

	mux.Handle("/", shared(http.HandlerFunc(app.notFound)))

	return mux
}
