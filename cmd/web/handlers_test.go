package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/myrjola/liftplan/internal/e2etest"
	"github.com/myrjola/liftplan/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "LIFTPLAN_SQLITE_URL":
		return ":memory:", true
	case "LIFTPLAN_ADDR":
		return "localhost:0", true
	case "LIFTPLAN_SEED":
		return "42", true
	default:
		return "", false
	}
}

func startServer(t *testing.T) *e2etest.Client {
	t.Helper()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	return server.Client()
}

type generatedRoutine struct {
	ID      string `json:"id"`
	Routine struct {
		Title       string `json:"title"`
		DaysPerWeek int    `json:"days_per_week"`
		Goal        string `json:"goal"`
		Days        []struct {
			Label     string `json:"label"`
			Exercises []struct {
				ExerciseID      string  `json:"exercise_id"`
				Name            string  `json:"name"`
				MuscleGroup     string  `json:"muscle_group"`
				SuggestedWeight *string `json:"suggested_weight"`
			} `json:"exercises"`
			CoreCircuit []map[string]any `json:"core_circuit"`
		} `json:"days"`
	} `json:"routine"`
}

func Test_application_routines(t *testing.T) {
	var (
		ctx    = t.Context()
		client = startServer(t)
	)

	status, err := client.PostJSON(ctx, "/api/users/ana/profile", map[string]any{
		"frequency":  "4 días por semana",
		"goals":      []string{"fuerza"},
		"experience": "3-5 años",
		"location":   "gimnasio",
		"injuries":   "dolor de hombro",
	}, nil)
	if err != nil || status != http.StatusNoContent {
		t.Fatalf("Failed to save profile: status %d: %v", status, err)
	}

	var benchmarks struct {
		Benchmarks map[string]float64 `json:"benchmarks"`
	}
	status, err = client.PostJSON(ctx, "/api/users/ana/benchmarks",
		map[string]any{"sentadilla": 100, "press banca": "70,5 kg", "curl": 30}, &benchmarks)
	if err != nil || status != http.StatusOK {
		t.Fatalf("Failed to save benchmarks: status %d: %v", status, err)
	}
	if benchmarks.Benchmarks["squat"] != 100 || benchmarks.Benchmarks["bench_press"] != 70.5 {
		t.Errorf("Unexpected stored benchmarks: %v", benchmarks.Benchmarks)
	}

	var generated generatedRoutine
	status, err = client.PostJSON(ctx, "/api/users/ana/routines", "", &generated)
	if err != nil || status != http.StatusCreated {
		t.Fatalf("Failed to generate routine: status %d: %v", status, err)
	}
	if generated.ID == "" {
		t.Fatalf("Expected a routine id")
	}
	r := generated.Routine
	if r.DaysPerWeek != 4 || len(r.Days) != 4 || r.Goal != "strength" {
		t.Errorf("Unexpected routine: %d days (%d declared), goal %q", len(r.Days), r.DaysPerWeek, r.Goal)
	}
	var suggested bool
	for _, d := range r.Days {
		if len(d.CoreCircuit) != 3 {
			t.Errorf("Day %s has %d core exercises, want 3", d.Label, len(d.CoreCircuit))
		}
		for _, ex := range d.Exercises {
			if ex.MuscleGroup == "shoulders" {
				t.Errorf("Shoulder exercise %s despite the injury", ex.ExerciseID)
			}
			if ex.SuggestedWeight != nil {
				suggested = true
			}
		}
	}
	if !suggested {
		t.Errorf("Expected stored benchmarks to produce suggested weights")
	}

	t.Run("stored document", func(t *testing.T) {
		var stored generatedRoutine
		status, err := client.GetJSON(ctx, "/api/routines/"+generated.ID, &stored)
		if err != nil || status != http.StatusOK {
			t.Fatalf("Failed to get routine: status %d: %v", status, err)
		}
		if stored.Routine.Title != r.Title || len(stored.Routine.Days) != len(r.Days) {
			t.Errorf("Stored routine %q differs from generated %q", stored.Routine.Title, r.Title)
		}
	})

	t.Run("listing", func(t *testing.T) {
		var list struct {
			Routines []struct {
				ID string `json:"id"`
			} `json:"routines"`
		}
		status, err := client.GetJSON(ctx, "/api/users/ana/routines", &list)
		if err != nil || status != http.StatusOK {
			t.Fatalf("Failed to list routines: status %d: %v", status, err)
		}
		if len(list.Routines) != 1 || list.Routines[0].ID != generated.ID {
			t.Errorf("Unexpected routine list: %+v", list.Routines)
		}
	})

	t.Run("printable page", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/routines/"+generated.ID)
		if err != nil {
			t.Fatalf("Failed to get routine page: %v", err)
		}
		if got := doc.Find("h1").First().Text(); got != r.Title {
			t.Errorf("Expected heading %q, got %q", r.Title, got)
		}
		if got := doc.Find("article h2").Length(); got != 4 {
			t.Errorf("Expected 4 day headings, got %d", got)
		}
		if doc.Find("article table").Length() == 0 {
			t.Errorf("Expected exercise tables")
		}
		firstExercise := r.Days[0].Exercises[0].Name
		if !strings.Contains(doc.Find("article table").First().Text(), firstExercise) {
			t.Errorf("Expected first table to list %q", firstExercise)
		}
		if _, ok := doc.Find("style").Attr("nonce"); !ok {
			t.Errorf("Expected inline style to carry the CSP nonce")
		}
	})

	t.Run("unknown routine", func(t *testing.T) {
		for _, path := range []string{"/api/routines/nope", "/api/routines/0190f8b4-0000-7000-8000-000000000000"} {
			status, err := client.GetJSON(ctx, path, nil)
			if err != nil || status != http.StatusNotFound {
				t.Errorf("GET %s: status %d: %v, want 404", path, status, err)
			}
		}
		resp, err := client.Get(ctx, "/routines/nope")
		if err != nil {
			t.Fatalf("Failed to get missing page: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404 for missing page, got %d", resp.StatusCode)
		}
	})
}

func Test_application_routinesPOST_profileInBody(t *testing.T) {
	var (
		ctx    = t.Context()
		client = startServer(t)
	)

	var generated generatedRoutine
	status, err := client.PostJSON(ctx, "/api/users/bea/routines",
		map[string]any{"frequency": 10, "location": "sin equipo"}, &generated)
	if err != nil || status != http.StatusCreated {
		t.Fatalf("Failed to generate routine: status %d: %v", status, err)
	}
	if len(generated.Routine.Days) != 6 {
		t.Errorf("Expected frequency to be clamped to 6 days, got %d", len(generated.Routine.Days))
	}

	status, err = client.PostJSON(ctx, "/api/users/bea/routines", "{not json", nil)
	if err != nil || status != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d: %v", status, err)
	}

	// Without a stored profile the defaults apply.
	status, err = client.PostJSON(ctx, "/api/users/carla/routines", "", &generated)
	if err != nil || status != http.StatusCreated {
		t.Fatalf("Failed to generate default routine: status %d: %v", status, err)
	}
	if len(generated.Routine.Days) != 5 {
		t.Errorf("Expected the default of 5 days, got %d", len(generated.Routine.Days))
	}
}

func Test_application_suggestions(t *testing.T) {
	var (
		ctx    = t.Context()
		client = startServer(t)
	)

	for _, w := range []map[string]any{
		{"date": "2026-05-01", "exercises": []map[string]any{
			{"exercise_name": "Sentadilla con barra", "sets": []map[string]any{{"weight_kg": 100, "reps": 5}}},
			{"exercise_name": "Press de banca", "sets": []map[string]any{{"weight_kg": 60, "reps": 8}}},
		}},
		{"date": "2026-05-03", "exercises": []map[string]any{
			{"exercise_name": "Press de banca", "sets": []map[string]any{{"weight_kg": 60, "reps": 8}}},
		}},
		{"date": "2026-05-05", "exercises": []map[string]any{
			{"exercise_name": "Press de banca", "sets": []map[string]any{{"weight_kg": 60, "reps": 7}}},
		}},
	} {
		status, err := client.PostJSON(ctx, "/api/users/dani/workouts", w, nil)
		if err != nil || status != http.StatusNoContent {
			t.Fatalf("Failed to log workout: status %d: %v", status, err)
		}
	}

	var got struct {
		Suggestions []struct {
			ExerciseName   string `json:"exercise_name"`
			Recommendation struct {
				State      string   `json:"state"`
				Suggestion *float64 `json:"suggestion"`
				Reason     string   `json:"reason"`
			} `json:"recommendation"`
		} `json:"suggestions"`
	}
	status, err := client.PostJSON(ctx, "/api/users/dani/suggestions", map[string]any{
		"goal":      "fuerza",
		"exercises": []string{"Sentadilla con barra", "Press de banca", "Remo con barra"},
	}, &got)
	if err != nil || status != http.StatusOK {
		t.Fatalf("Failed to get suggestions: status %d: %v", status, err)
	}
	if len(got.Suggestions) != 3 {
		t.Fatalf("Expected 3 suggestions, got %d", len(got.Suggestions))
	}

	squat, bench, row := got.Suggestions[0], got.Suggestions[1], got.Suggestions[2]
	if squat.ExerciseName != "Sentadilla con barra" || squat.Recommendation.State != "progressing" ||
		squat.Recommendation.Suggestion == nil || *squat.Recommendation.Suggestion != 105 {
		t.Errorf("Unexpected squat suggestion: %+v", squat)
	}
	if bench.Recommendation.State != "stalled" || *bench.Recommendation.Suggestion != 60 {
		t.Errorf("Unexpected bench suggestion: %+v", bench)
	}
	if row.Recommendation.State != "no_data" || row.Recommendation.Suggestion != nil {
		t.Errorf("Unexpected row suggestion: %+v", row)
	}

	t.Run("invalid requests", func(t *testing.T) {
		tests := []struct {
			name string
			path string
			body any
		}{
			{name: "bad date", path: "/api/users/dani/workouts", body: map[string]any{"date": "05/01/2026"}},
			{
				name: "negative weight",
				path: "/api/users/dani/workouts",
				body: map[string]any{"date": "2026-05-07", "exercises": []map[string]any{
					{"exercise_name": "Remo", "sets": []map[string]any{{"weight_kg": -1, "reps": 5}}},
				}},
			},
			{name: "no exercises", path: "/api/users/dani/suggestions", body: map[string]any{"goal": "fuerza"}},
			{name: "no benchmarks", path: "/api/users/dani/benchmarks", body: map[string]any{"curl": 20}},
			{name: "long user id", path: "/api/users/" + strings.Repeat("x", 200) + "/profile", body: map[string]any{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				status, err := client.PostJSON(ctx, tt.path, tt.body, nil)
				if err != nil || status != http.StatusBadRequest {
					t.Errorf("Expected 400, got %d: %v", status, err)
				}
			})
		}
	})
}

func Test_application_notFound(t *testing.T) {
	var (
		ctx    = t.Context()
		client = startServer(t)
	)

	resp, err := client.Get(ctx, "/nonexistent")
	if err != nil {
		t.Fatalf("Failed to get nonexistent path: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status code %d for nonexistent path, got %d", http.StatusNotFound, resp.StatusCode)
	}

	status, err := client.GetJSON(ctx, "/api/nonexistent", nil)
	if err != nil || status != http.StatusNotFound {
		t.Errorf("Expected JSON 404, got %d: %v", status, err)
	}
}
