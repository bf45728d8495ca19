package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/naveenspark/liftlog/pkg/domain"
)

func TestGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.User{ID: 1, Email: "test@example.com", IsActive: true}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("test-token"))
	me, err := c.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if me.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", me.Email, "test@example.com")
	}
	if me.ID != 1 {
		t.Errorf("ID = %d, want 1", me.ID)
	}
}

func TestGetMe_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("bad-token"))
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q, want it to contain 'HTTP 401'", got)
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Error("IsStatus(err, 401) = false, want true")
	}
	if got := Message(err); got != "Could not validate credentials" {
		t.Errorf("Message(err) = %q, want %q", got, "Could not validate credentials")
	}
}

func TestTokenSourceReadPerRequest(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]domain.WorkoutSession{}) //nolint:errcheck
	}))
	defer srv.Close()

	src := &swappableToken{}
	c := New(srv.URL, src)
	c.ListWorkouts(context.Background()) //nolint:errcheck
	src.token = "fresh"
	c.ListWorkouts(context.Background()) //nolint:errcheck

	if len(seen) != 2 {
		t.Fatalf("got %d requests, want 2", len(seen))
	}
	if seen[0] != "" {
		t.Errorf("first Authorization = %q, want empty", seen[0])
	}
	if seen[1] != "Bearer fresh" {
		t.Errorf("second Authorization = %q, want %q", seen[1], "Bearer fresh")
	}
}

type swappableToken struct{ token string }

func (s *swappableToken) ReadToken() string { return s.token }

func TestRequestToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/token" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, want form encoding", ct)
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("username") != "test@example.com" || r.PostForm.Get("password") != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.Token{AccessToken: "abc", TokenType: "bearer"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	tok, err := c.RequestToken(context.Background(), "test@example.com", "password123")
	if err != nil {
		t.Fatalf("RequestToken() error: %v", err)
	}
	if tok.AccessToken != "abc" {
		t.Errorf("AccessToken = %q, want %q", tok.AccessToken, "abc")
	}

	if _, err := c.RequestToken(context.Background(), "test@example.com", "wrong"); !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("wrong password error = %v, want HTTP 401", err)
	}
}

func TestGetMeWithToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer new-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(domain.User{ID: 7, Email: "a@b.co"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("stale-token"))
	u, err := c.GetMeWithToken(context.Background(), "new-token")
	if err != nil {
		t.Fatalf("GetMeWithToken() error: %v", err)
	}
	if u.ID != 7 {
		t.Errorf("ID = %d, want 7", u.ID)
	}
}

const workoutJSON = `{"id":1,"date":"2025-02-25T10:00:00","user_id":1,"entries":[
	{"id":1,"session_id":1,"exercise_name":"Bench Press","sets":3,"reps":10,"weight":100},
	{"id":2,"session_id":1,"exercise_name":"Squat","sets":3,"reps":8,"weight":150}]}`

func TestGetWorkout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workouts/1" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, workoutJSON) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	s, err := c.GetWorkout(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetWorkout() error: %v", err)
	}
	if got := s.Date.LongDate(); got != "February 25, 2025" {
		t.Errorf("Date = %q, want %q", got, "February 25, 2025")
	}
	if len(s.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(s.Entries))
	}
	if s.Entries[1].ExerciseName != "Squat" {
		t.Errorf("Entries[1].ExerciseName = %q, want %q", s.Entries[1].ExerciseName, "Squat")
	}
}

func TestSearchWorkouts_OmitsEmptyFilters(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workouts/search" {
			http.NotFound(w, r)
			return
		}
		rawQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]domain.WorkoutSession{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	if _, err := c.SearchWorkouts(context.Background(), domain.WorkoutSearch{ExerciseName: "Bench Press"}); err != nil {
		t.Fatalf("SearchWorkouts() error: %v", err)
	}
	if rawQuery != "exercise_name=Bench+Press" {
		t.Errorf("query = %q, want %q", rawQuery, "exercise_name=Bench+Press")
	}
}

func TestCreateEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/workouts/4/entries" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req domain.WorkoutEntryCreate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(domain.WorkoutEntry{ //nolint:errcheck
			ID:           9,
			SessionID:    4,
			ExerciseName: req.ExerciseName,
			Sets:         req.Sets,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	e, err := c.CreateEntry(context.Background(), 4, domain.WorkoutEntryCreate{ExerciseName: "Deadlift", Sets: 5, Reps: 5})
	if err != nil {
		t.Fatalf("CreateEntry() error: %v", err)
	}
	if e.ExerciseName != "Deadlift" || e.SessionID != 4 {
		t.Errorf("entry = %+v, want Deadlift in session 4", e)
	}
}

func TestCalculatePlates_Path(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workouts/calculate-plates/102.5" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.PlateCalculation{ //nolint:errcheck
			TargetWeight: 102.5, BarWeight: 20, WeightPerSide: 41.25,
			PlatesPerSide: []float64{25, 15, 1.25}, ActualWeight: 102.5,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	calc, err := c.CalculatePlates(context.Background(), 102.5)
	if err != nil {
		t.Fatalf("CalculatePlates() error: %v", err)
	}
	if len(calc.PlatesPerSide) != 3 {
		t.Errorf("got %d plates, want 3", len(calc.PlatesPerSide))
	}
}

func TestImportProgramCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workout-programs/import/csv" {
			http.NotFound(w, r)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close() //nolint:errcheck
		body, _ := io.ReadAll(f)
		if hdr.Filename != "plan.csv" || !strings.HasPrefix(string(body), "program_name") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(domain.WorkoutProgram{ID: 3, Name: "Imported"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	p, err := c.ImportProgramCSV(context.Background(), "plan.csv", strings.NewReader("program_name,week\nFive,1\n"))
	if err != nil {
		t.Fatalf("ImportProgramCSV() error: %v", err)
	}
	if p.Name != "Imported" {
		t.Errorf("Name = %q, want %q", p.Name, "Imported")
	}
}

func TestListPrograms_PublicOnly(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("public_only")
		json.NewEncoder(w).Encode([]domain.WorkoutProgram{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	if _, err := c.ListPrograms(context.Background(), true); err != nil {
		t.Fatalf("ListPrograms() error: %v", err)
	}
	if got != "true" {
		t.Errorf("public_only = %q, want %q", got, "true")
	}
}

func TestRequestIDHeader(t *testing.T) {
	ids := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids[r.Header.Get("X-Request-ID")] = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	c.DeleteWorkout(context.Background(), 1) //nolint:errcheck
	c.DeleteWorkout(context.Background(), 2) //nolint:errcheck
	if len(ids) != 2 || ids[""] {
		t.Errorf("request IDs = %v, want two distinct non-empty IDs", ids)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail string", `{"detail":"Workout not found"}`, "Workout not found"},
		{"detail list", `{"detail":[{"loc":["body","sets"],"msg":"must be greater than 0"}]}`, "sets: must be greater than 0"},
		{"error field", `{"error":"boom"}`, "boom"},
		{"plain text", "Internal Server Error", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage([]byte(tt.body)); got != tt.want {
				t.Errorf("errorMessage(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestErrorText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Workout not found"}) //nolint:errcheck
	}))
	c := New(srv.URL, StaticToken("tok"))

	_, err := c.GetWorkout(context.Background(), 3)
	if got := ErrorText(err, "request failed"); got != "Workout not found" {
		t.Errorf("ErrorText(server error) = %q, want the server message", got)
	}

	srv.Close()
	_, err = c.GetWorkout(context.Background(), 3)
	got := ErrorText(err, "request failed")
	if !strings.HasPrefix(got, "request failed: ") || len(got) == len("request failed: ") {
		t.Errorf("ErrorText(network error) = %q, want fallback with cause", got)
	}

	if got := ErrorText(nil, "request failed"); got != "request failed" {
		t.Errorf("ErrorText(nil) = %q", got)
	}
}

func TestUpdateEntry_Partial(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/workouts/4/entries/9" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(domain.WorkoutEntry{ID: 9, SessionID: 4, Weight: 62.5}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	w := 62.5
	e, err := c.UpdateEntry(context.Background(), 4, 9, domain.WorkoutEntryUpdate{Weight: &w})
	if err != nil {
		t.Fatalf("UpdateEntry() error: %v", err)
	}
	if e.Weight != 62.5 {
		t.Errorf("entry = %+v", e)
	}
	if len(body) != 1 || body["weight"] != 62.5 {
		t.Errorf("body = %v, want only weight", body)
	}
}

func TestListEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workouts/4/entries" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]domain.WorkoutEntry{{ID: 1}, {ID: 2}}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	entries, err := c.ListEntries(context.Background(), 4)
	if err != nil {
		t.Fatalf("ListEntries() error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	_, err := c.ListTemplates(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("error = %q, want it to contain 'HTTP 500'", err.Error())
	}
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.ListPlans(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]string{"Squat"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"), WithRateLimit(1, 1))
	if _, err := c.ListExercises(context.Background()); err != nil {
		t.Fatalf("first call error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.ListExercises(ctx); err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("second call error = %v, want rate limit error", err)
	}
}

func TestUpdateTemplateExercise(t *testing.T) {
	var method, path string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(domain.TemplateExercise{ID: 4, TemplateID: 2, Sets: 5})
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	ex, err := c.UpdateTemplateExercise(context.Background(), 2, 4, map[string]any{"sets": 5})
	if err != nil {
		t.Fatalf("UpdateTemplateExercise() error: %v", err)
	}
	if method != http.MethodPut || path != "/workout-templates/2/exercises/4" {
		t.Errorf("request = %s %s", method, path)
	}
	if body["sets"] != float64(5) {
		t.Errorf("body = %v, want sets=5", body)
	}
	if ex.Sets != 5 {
		t.Errorf("Sets = %d, want 5", ex.Sets)
	}
}

func TestDeleteTemplateExercise(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	if err := c.DeleteTemplateExercise(context.Background(), 2, 4); err != nil {
		t.Fatalf("DeleteTemplateExercise() error: %v", err)
	}
	if method != http.MethodDelete || path != "/workout-templates/2/exercises/4" {
		t.Errorf("request = %s %s", method, path)
	}
}

func TestPlanCRUD(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPost:
			var p domain.WorkoutPlanCreate
			json.NewDecoder(r.Body).Decode(&p) //nolint:errcheck
			json.NewEncoder(w).Encode(domain.WorkoutPlan{ID: 3, Name: p.Name, DurationWeeks: p.DurationWeeks, DaysPerWeek: p.DaysPerWeek}) //nolint:errcheck
		default:
			json.NewEncoder(w).Encode(domain.WorkoutPlan{ID: 3, Name: "Cut", DurationWeeks: 6, DaysPerWeek: 4}) //nolint:errcheck
		}
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	ctx := context.Background()
	p, err := c.CreatePlan(ctx, domain.WorkoutPlanCreate{Name: "Cut", DurationWeeks: 6, DaysPerWeek: 4})
	if err != nil {
		t.Fatalf("CreatePlan() error: %v", err)
	}
	if p.ID != 3 || p.DaysPerWeek != 4 {
		t.Errorf("plan = %+v", p)
	}
	if _, err := c.UpdatePlan(ctx, 3, map[string]any{"days_per_week": 4}); err != nil {
		t.Fatalf("UpdatePlan() error: %v", err)
	}
	if err := c.DeletePlan(ctx, 3); err != nil {
		t.Fatalf("DeletePlan() error: %v", err)
	}

	want := []string{"POST /workout-plans", "PUT /workout-plans/3", "DELETE /workout-plans/3"}
	if strings.Join(requests, ", ") != strings.Join(want, ", ") {
		t.Errorf("requests = %v, want %v", requests, want)
	}
}
