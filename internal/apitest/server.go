// Package apitest runs an in-memory stand-in for the workout API so client,
// CLI and TUI code can be exercised end to end in tests.
package apitest

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/liftlog/pkg/domain"
)

var secret = []byte("apitest-secret")

type ctxKey struct{}

type account struct {
	user     domain.User
	password string
}

// Server is a fake API backed by maps. Exported fields may be changed by a
// test before requests are made.
type Server struct {
	*httptest.Server

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration
	// FailEntry makes entry creation fail for this exercise name.
	FailEntry string

	mu        sync.Mutex
	ids       map[string]int
	accounts  map[string]*account
	workouts  map[int]*domain.WorkoutSession
	programs  map[int]*domain.WorkoutProgram
	templates map[int]*domain.WorkoutTemplate
	plans     map[int]*domain.WorkoutPlan
	progress  map[int]*domain.UserProgramProgress
	requests  []string
}

// New starts a server. Call Close when done.
func New() *Server {
	s := &Server{
		TokenTTL:  time.Hour,
		ids:       map[string]int{},
		accounts:  map[string]*account{},
		workouts:  map[int]*domain.WorkoutSession{},
		programs:  map[int]*domain.WorkoutProgram{},
		templates: map[int]*domain.WorkoutTemplate{},
		plans:     map[int]*domain.WorkoutPlan{},
		progress:  map[int]*domain.UserProgramProgress{},
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Post("/auth/token", s.token)
	r.Post("/users", s.register)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/auth/me", s.me)

		r.Route("/workouts", func(r chi.Router) {
			r.Get("/", s.listWorkouts)
			r.Post("/", s.createWorkout)
			r.Get("/search", s.searchWorkouts)
			r.Get("/stats/exercise/{name}", s.exerciseStats)
			r.Get("/stats/category/{category}", s.categoryStats)
			r.Get("/users/{uid}/personal-records", s.personalRecords)
			r.Get("/calculate-plates/{weight}", s.calculatePlates)
			r.Get("/{id}", s.getWorkout)
			r.Put("/{id}", s.updateWorkout)
			r.Delete("/{id}", s.deleteWorkout)
			r.Get("/{id}/entries", s.listEntries)
			r.Post("/{id}/entries", s.createEntry)
			r.Put("/{id}/entries/{eid}", s.updateEntry)
			r.Delete("/{id}/entries/{eid}", s.deleteEntry)
		})
		r.Get("/exercises", s.exercises)

		r.Route("/workout-programs", func(r chi.Router) {
			r.Get("/", s.listPrograms)
			r.Post("/", s.createProgram)
			r.Get("/progress", s.listProgress)
			r.Put("/progress/{pid}", s.updateProgress)
			r.Post("/import/csv", s.importCSV)
			r.Post("/workouts/{wid}/exercises", s.addProgramExercise)
			r.Get("/{id}", s.getProgram)
			r.Put("/{id}", s.updateProgram)
			r.Delete("/{id}", s.deleteProgram)
			r.Post("/{id}/assign", s.assignProgram)
		})

		r.Route("/workout-templates", func(r chi.Router) {
			r.Get("/", s.listTemplates)
			r.Post("/", s.createTemplate)
			r.Get("/{id}", s.getTemplate)
			r.Put("/{id}", s.updateTemplate)
			r.Delete("/{id}", s.deleteTemplate)
			r.Post("/{id}/exercises", s.addTemplateExercise)
			r.Put("/{id}/exercises/{eid}", s.updateTemplateExercise)
			r.Delete("/{id}/exercises/{eid}", s.deleteTemplateExercise)
		})

		r.Route("/workout-plans", func(r chi.Router) {
			r.Get("/", s.listPlans)
			r.Post("/", s.createPlan)
			r.Get("/{id}", s.getPlan)
			r.Put("/{id}", s.updatePlan)
			r.Delete("/{id}", s.deletePlan)
		})
	})
	return r
}

// --- test helpers ---

// AddUser creates an account and returns it.
func (s *Server) AddUser(email, password string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := domain.User{ID: s.id("users"), Email: email, IsActive: true}
	s.accounts[email] = &account{user: u, password: password}
	return u
}

// Token issues a token for email that expires at exp.
func Token(email string, exp time.Time) string {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	return tok
}

// AddWorkout stores a session for userID; entry ids are assigned.
func (s *Server) AddWorkout(userID int, date time.Time, entries ...domain.WorkoutEntry) domain.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := &domain.WorkoutSession{ID: s.id("workouts"), UserID: userID, Date: domain.Timestamp{Time: date}}
	for _, e := range entries {
		e.ID = s.id("entries")
		e.SessionID = w.ID
		w.Entries = append(w.Entries, e)
	}
	s.workouts[w.ID] = w
	return *w
}

// AddProgram stores p, assigning ids to it and its workouts and exercises.
func (s *Server) AddProgram(p domain.WorkoutProgram) domain.WorkoutProgram {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id("programs")
	for i := range p.Workouts {
		p.Workouts[i].ID = s.id("program_workouts")
		p.Workouts[i].ProgramID = p.ID
		for j := range p.Workouts[i].Exercises {
			p.Workouts[i].Exercises[j].ID = s.id("program_exercises")
			p.Workouts[i].Exercises[j].ProgramWorkoutID = p.Workouts[i].ID
		}
	}
	s.programs[p.ID] = &p
	return p
}

// AddTemplate stores a template.
func (s *Server) AddTemplate(t domain.WorkoutTemplate) domain.WorkoutTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id("templates")
	for i := range t.Exercises {
		t.Exercises[i].ID = s.id("template_exercises")
		t.Exercises[i].TemplateID = t.ID
	}
	s.templates[t.ID] = &t
	return t
}

// Requests returns "METHOD /path" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests matched "METHOD /path".
func (s *Server) Count(req string) int {
	n := 0
	for _, r := range s.Requests() {
		if r == req {
			n++
		}
	}
	return n
}

// Workout returns the stored session, if any.
func (s *Server) Workout(id int) (domain.WorkoutSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[id]
	if !ok {
		return domain.WorkoutSession{}, false
	}
	return *w, true
}

// id returns the next id in the named table, starting at 1.
func (s *Server) id(table string) int {
	s.ids[table]++
	return s.ids[table]
}

// --- middleware ---

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+strings.TrimSuffix(r.URL.Path, "/"))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return secret, nil })
		if err != nil {
			detail(w, r, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		s.mu.Lock()
		acct, ok := s.accounts[claims.Subject]
		s.mu.Unlock()
		if !ok {
			detail(w, r, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, acct.user)))
	})
}

func currentUser(r *http.Request) domain.User {
	u, _ := r.Context().Value(ctxKey{}).(domain.User)
	return u
}

func detail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"detail": msg})
}

func intParam(r *http.Request, name string) int {
	n, _ := strconv.Atoi(chi.URLParam(r, name))
	return n
}

// --- auth ---

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		detail(w, r, http.StatusBadRequest, "bad form")
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[r.PostForm.Get("username")]
	s.mu.Unlock()
	if !ok || acct.password != r.PostForm.Get("password") {
		detail(w, r, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	render.JSON(w, r, domain.Token{
		AccessToken: Token(acct.user.Email, time.Now().Add(s.TokenTTL)),
		TokenType:   "bearer",
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := render.DecodeJSON(r.Body, &creds); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	_, exists := s.accounts[creds.Email]
	s.mu.Unlock()
	if exists {
		detail(w, r, http.StatusBadRequest, "Email already registered")
		return
	}
	render.JSON(w, r, s.AddUser(creds.Email, creds.Password))
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, currentUser(r))
}

// --- workouts ---

func (s *Server) userWorkouts(userID int) []domain.WorkoutSession {
	var out []domain.WorkoutSession
	for _, wk := range s.workouts {
		if wk.UserID == userID {
			out = append(out, *wk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	if out == nil {
		out = []domain.WorkoutSession{}
	}
	return out
}

func (s *Server) listWorkouts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	render.JSON(w, r, s.userWorkouts(currentUser(r).ID))
}

func (s *Server) searchWorkouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.ToLower(q.Get("exercise_name"))
	start, _ := domain.ParseTimestamp(q.Get("start_date"))
	end, _ := domain.ParseTimestamp(q.Get("end_date"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.WorkoutSession{}
	for _, wk := range s.userWorkouts(currentUser(r).ID) {
		if !start.IsZero() && wk.Date.Before(start.Time) {
			continue
		}
		if !end.IsZero() && wk.Date.After(end.Add(24*time.Hour-time.Second)) {
			continue
		}
		if name != "" && !hasExercise(wk, name) {
			continue
		}
		out = append(out, wk)
	}
	render.JSON(w, r, out)
}

func hasExercise(wk domain.WorkoutSession, lowerName string) bool {
	for _, e := range wk.Entries {
		if strings.Contains(strings.ToLower(e.ExerciseName), lowerName) {
			return true
		}
	}
	return false
}

func (s *Server) createWorkout(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkoutSessionCreate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	date := time.Now().UTC()
	if req.Date != nil {
		if req.Date.After(time.Now()) {
			detail(w, r, http.StatusUnprocessableEntity, "Workout date cannot be in the future")
			return
		}
		date = req.Date.Time
	}
	wk := s.AddWorkout(currentUser(r).ID, date)
	s.mu.Lock()
	s.workouts[wk.ID].Notes = req.Notes
	wk = *s.workouts[wk.ID]
	s.mu.Unlock()
	wk.Entries = []domain.WorkoutEntry{}
	render.JSON(w, r, wk)
}

func (s *Server) ownedWorkout(w http.ResponseWriter, r *http.Request) (*domain.WorkoutSession, bool) {
	wk, ok := s.workouts[intParam(r, "id")]
	if !ok || wk.UserID != currentUser(r).ID {
		detail(w, r, http.StatusNotFound, "Workout not found")
		return nil, false
	}
	return wk, true
}

func (s *Server) getWorkout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wk, ok := s.ownedWorkout(w, r); ok {
		render.JSON(w, r, wk)
	}
}

func (s *Server) updateWorkout(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkoutSessionUpdate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wk, ok := s.ownedWorkout(w, r)
	if !ok {
		return
	}
	if req.Date != nil {
		wk.Date = *req.Date
	}
	if req.Notes != nil {
		wk.Notes = *req.Notes
	}
	render.JSON(w, r, wk)
}

func (s *Server) deleteWorkout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wk, ok := s.ownedWorkout(w, r); ok {
		delete(s.workouts, wk.ID)
		render.JSON(w, r, map[string]string{"message": "Workout deleted successfully"})
	}
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wk, ok := s.ownedWorkout(w, r); ok {
		entries := wk.Entries
		if entries == nil {
			entries = []domain.WorkoutEntry{}
		}
		render.JSON(w, r, entries)
	}
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkoutEntryCreate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if s.FailEntry != "" && req.ExerciseName == s.FailEntry {
		detail(w, r, http.StatusUnprocessableEntity, "Exercise name can only contain letters, numbers, spaces, and hyphens")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wk, ok := s.ownedWorkout(w, r)
	if !ok {
		return
	}
	e := domain.WorkoutEntry{
		ID: s.id("entries"), SessionID: wk.ID, ExerciseName: req.ExerciseName,
		Sets: req.Sets, Reps: req.Reps, Weight: req.Weight,
		Notes: req.Notes, Category: req.Category, Difficulty: req.Difficulty,
	}
	wk.Entries = append(wk.Entries, e)
	render.JSON(w, r, e)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkoutEntryUpdate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wk, ok := s.ownedWorkout(w, r)
	if !ok {
		return
	}
	eid := intParam(r, "eid")
	for i := range wk.Entries {
		e := &wk.Entries[i]
		if e.ID != eid {
			continue
		}
		if req.ExerciseName != nil {
			e.ExerciseName = *req.ExerciseName
		}
		if req.Sets != nil {
			e.Sets = *req.Sets
		}
		if req.Reps != nil {
			e.Reps = *req.Reps
		}
		if req.Weight != nil {
			e.Weight = *req.Weight
		}
		if req.Notes != nil {
			e.Notes = *req.Notes
		}
		if req.Category != nil {
			e.Category = *req.Category
		}
		if req.Difficulty != nil {
			e.Difficulty = *req.Difficulty
		}
		render.JSON(w, r, e)
		return
	}
	detail(w, r, http.StatusNotFound, "Entry not found")
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wk, ok := s.ownedWorkout(w, r)
	if !ok {
		return
	}
	eid := intParam(r, "eid")
	for i, e := range wk.Entries {
		if e.ID == eid {
			wk.Entries = append(wk.Entries[:i], wk.Entries[i+1:]...)
			render.JSON(w, r, map[string]string{"message": "Entry deleted successfully"})
			return
		}
	}
	detail(w, r, http.StatusNotFound, "Entry not found")
}

// --- stats ---

func (s *Server) exercises(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	names := []string{}
	for _, wk := range s.userWorkouts(currentUser(r).ID) {
		for _, e := range wk.Entries {
			if !seen[e.ExerciseName] {
				seen[e.ExerciseName] = true
				names = append(names, e.ExerciseName)
			}
		}
	}
	sort.Strings(names)
	render.JSON(w, r, names)
}

func (s *Server) exerciseStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days == 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	s.mu.Lock()
	defer s.mu.Unlock()
	stats := domain.ExerciseStats{Exercise: name, PeriodDays: days}
	var n int
	var sumW, sumR float64
	for _, wk := range s.userWorkouts(currentUser(r).ID) {
		if wk.Date.Before(since) {
			continue
		}
		for _, e := range wk.Entries {
			if e.ExerciseName != name {
				continue
			}
			n++
			sumW += e.Weight
			sumR += float64(e.Reps)
			stats.MaxWeight = math.Max(stats.MaxWeight, e.Weight)
			stats.TotalSets += e.Sets
		}
	}
	if n == 0 {
		detail(w, r, http.StatusNotFound, "No data found for this exercise")
		return
	}
	stats.AverageWeight = sumW / float64(n)
	stats.AverageReps = sumR / float64(n)
	render.JSON(w, r, stats)
}

func (s *Server) categoryStats(w http.ResponseWriter, r *http.Request) {
	cat := chi.URLParam(r, "category")
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days == 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	s.mu.Lock()
	defer s.mu.Unlock()
	byName := map[string]*domain.CategoryExercise{}
	var order []string
	for _, wk := range s.userWorkouts(currentUser(r).ID) {
		if wk.Date.Before(since) {
			continue
		}
		for _, e := range wk.Entries {
			if e.Category != cat {
				continue
			}
			ce, ok := byName[e.ExerciseName]
			if !ok {
				ce = &domain.CategoryExercise{Name: e.ExerciseName}
				byName[e.ExerciseName] = ce
				order = append(order, e.ExerciseName)
			}
			ce.PersonalRecord = math.Max(ce.PersonalRecord, e.Weight)
			ce.TotalVolume += float64(e.Sets*e.Reps) * e.Weight
		}
	}
	out := domain.CategoryStats{Category: cat, PeriodDays: days, Exercises: []domain.CategoryExercise{}}
	for _, name := range order {
		out.Exercises = append(out.Exercises, *byName[name])
	}
	render.JSON(w, r, out)
}

func (s *Server) personalRecords(w http.ResponseWriter, r *http.Request) {
	uid := intParam(r, "uid")
	if uid != currentUser(r).ID {
		detail(w, r, http.StatusForbidden, "Not authorized to view these records")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	best := map[string]*domain.PersonalRecord{}
	var order []string
	for _, wk := range s.userWorkouts(uid) {
		for _, e := range wk.Entries {
			pr, ok := best[e.ExerciseName]
			if !ok {
				pr = &domain.PersonalRecord{Exercise: e.ExerciseName, Category: e.Category}
				best[e.ExerciseName] = pr
				order = append(order, e.ExerciseName)
			}
			pr.MaxWeight = math.Max(pr.MaxWeight, e.Weight)
			pr.MaxReps = max(pr.MaxReps, e.Reps)
		}
	}
	sort.Strings(order)
	out := domain.PersonalRecords{UserID: uid, Records: []domain.PersonalRecord{}}
	for _, name := range order {
		out.Records = append(out.Records, *best[name])
	}
	render.JSON(w, r, out)
}

var plates = []float64{25, 20, 15, 10, 5, 2.5, 1.25}

const barWeight = 20.0

func (s *Server) calculatePlates(w http.ResponseWriter, r *http.Request) {
	target, err := strconv.ParseFloat(chi.URLParam(r, "weight"), 64)
	if err != nil || target < barWeight {
		detail(w, r, http.StatusBadRequest, "Target weight must be at least the bar weight")
		return
	}
	perSide := (target - barWeight) / 2
	remaining := perSide
	out := []float64{}
	for _, p := range plates {
		for remaining >= p {
			out = append(out, p)
			remaining -= p
		}
	}
	loaded := perSide - remaining
	render.JSON(w, r, domain.PlateCalculation{
		TargetWeight:  target,
		BarWeight:     barWeight,
		WeightPerSide: perSide,
		PlatesPerSide: out,
		ActualWeight:  barWeight + 2*loaded,
	})
}

// --- programs ---

func (s *Server) listPrograms(w http.ResponseWriter, r *http.Request) {
	publicOnly := r.URL.Query().Get("public_only") == "true"
	uid := currentUser(r).ID
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.WorkoutProgram{}
	for _, p := range s.programs {
		if p.IsPublic || (!publicOnly && p.CreatorID == uid) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	render.JSON(w, r, out)
}

func (s *Server) createProgram(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkoutProgramCreate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	p := domain.WorkoutProgram{
		Name: req.Name, Description: req.Description, DurationWeeks: req.DurationWeeks,
		IsPublic: req.IsPublic, CreatorID: currentUser(r).ID, Workouts: []domain.ProgramWorkout{},
	}
	for _, wc := range req.Workouts {
		pw := domain.ProgramWorkout{
			Name: wc.Name, WeekNumber: wc.WeekNumber, DayNumber: wc.DayNumber,
			Order: wc.Order, TemplateID: wc.TemplateID, Exercises: []domain.ProgramExercise{},
		}
		for _, ec := range wc.Exercises {
			pw.Exercises = append(pw.Exercises, programExercise(ec))
		}
		p.Workouts = append(p.Workouts, pw)
	}
	render.JSON(w, r, s.AddProgram(p))
}

func programExercise(ec domain.ProgramExerciseCreate) domain.ProgramExercise {
	return domain.ProgramExercise{
		ExerciseName: ec.ExerciseName, Sets: ec.Sets, InitialReps: ec.InitialReps,
		TargetReps: ec.TargetReps, InitialWeight: ec.InitialWeight,
		ProgressionStrategy: ec.ProgressionStrategy, ProgressionValue: ec.ProgressionValue,
		ProgressionFrequency: ec.ProgressionFrequency, Order: ec.Order, Notes: ec.Notes,
		Category: ec.Category, IsBarbellExercise: ec.IsBarbellExercise,
	}
}

func (s *Server) visibleProgram(w http.ResponseWriter, r *http.Request) (*domain.WorkoutProgram, bool) {
	p, ok := s.programs[intParam(r, "id")]
	if !ok || (!p.IsPublic && p.CreatorID != currentUser(r).ID) {
		detail(w, r, http.StatusNotFound, "Program not found")
		return nil, false
	}
	return p, true
}

func (s *Server) getProgram(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.visibleProgram(w, r); ok {
		render.JSON(w, r, p)
	}
}

func (s *Server) updateProgram(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.visibleProgram(w, r)
	if !ok {
		return
	}
	if p.CreatorID != currentUser(r).ID {
		detail(w, r, http.StatusForbidden, "Not authorized to update this program")
		return
	}
	if v, ok := req["name"].(string); ok {
		p.Name = v
	}
	if v, ok := req["description"].(string); ok {
		p.Description = v
	}
	if v, ok := req["duration_weeks"].(float64); ok {
		p.DurationWeeks = int(v)
	}
	if v, ok := req["is_public"].(bool); ok {
		p.IsPublic = v
	}
	render.JSON(w, r, p)
}

func (s *Server) deleteProgram(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.visibleProgram(w, r)
	if !ok {
		return
	}
	if p.CreatorID != currentUser(r).ID {
		detail(w, r, http.StatusForbidden, "Not authorized to delete this program")
		return
	}
	delete(s.programs, p.ID)
	render.JSON(w, r, map[string]string{"message": "Program deleted successfully"})
}

func (s *Server) addProgramExercise(w http.ResponseWriter, r *http.Request) {
	var req domain.ProgramExerciseCreate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	wid := intParam(r, "wid")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.programs {
		for i := range p.Workouts {
			if p.Workouts[i].ID != wid {
				continue
			}
			e := programExercise(req)
			e.ID = s.id("program_exercises")
			e.ProgramWorkoutID = wid
			p.Workouts[i].Exercises = append(p.Workouts[i].Exercises, e)
			render.JSON(w, r, e)
			return
		}
	}
	detail(w, r, http.StatusNotFound, "Program workout not found")
}

func (s *Server) assignProgram(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.visibleProgram(w, r)
	if !ok {
		return
	}
	uid := currentUser(r).ID
	for _, pr := range s.progress {
		if pr.UserID == uid && pr.ProgramID == p.ID && pr.IsActive {
			detail(w, r, http.StatusBadRequest, "User already has this program assigned")
			return
		}
	}
	pr := &domain.UserProgramProgress{
		ID: s.id("progress"), UserID: uid, ProgramID: p.ID, CurrentWeek: 1, CurrentDay: 1,
		StartDate: domain.Timestamp{Time: time.Now().UTC()}, IsActive: true,
	}
	s.progress[pr.ID] = pr
	render.JSON(w, r, pr)
}

func (s *Server) listProgress(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r).ID
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.UserProgramProgress{}
	for _, pr := range s.progress {
		if pr.UserID == uid {
			out = append(out, *pr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	render.JSON(w, r, out)
}

func (s *Server) updateProgress(w http.ResponseWriter, r *http.Request) {
	var req domain.ProgressUpdate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pr, ok := s.progress[intParam(r, "pid")]
	if !ok || pr.UserID != currentUser(r).ID {
		detail(w, r, http.StatusNotFound, "Progress not found")
		return
	}
	if req.CurrentWeek != nil {
		pr.CurrentWeek = *req.CurrentWeek
	}
	if req.CurrentDay != nil {
		pr.CurrentDay = *req.CurrentDay
	}
	if req.IsActive != nil {
		pr.IsActive = *req.IsActive
	}
	render.JSON(w, r, pr)
}

// importCSV accepts rows of program_name,week,day,workout_name,exercise,sets,reps,weight.
func (s *Server) importCSV(w http.ResponseWriter, r *http.Request) {
	f, _, err := r.FormFile("file")
	if err != nil {
		detail(w, r, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer f.Close() //nolint:errcheck // best-effort close
	data, err := io.ReadAll(f)
	if err != nil {
		detail(w, r, http.StatusBadRequest, "Could not read file")
		return
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		detail(w, r, http.StatusBadRequest, "CSV file is empty")
		return
	}
	p := domain.WorkoutProgram{CreatorID: currentUser(r).ID, Workouts: []domain.ProgramWorkout{}}
	index := map[string]int{}
	for n, line := range lines[1:] {
		cols := strings.Split(strings.TrimSpace(line), ",")
		if len(cols) < 8 {
			detail(w, r, http.StatusBadRequest, "Invalid CSV row "+strconv.Itoa(n+2))
			return
		}
		p.Name = cols[0]
		week, _ := strconv.Atoi(cols[1])
		day, _ := strconv.Atoi(cols[2])
		p.DurationWeeks = max(p.DurationWeeks, week)
		key := cols[1] + "/" + cols[2] + "/" + cols[3]
		i, ok := index[key]
		if !ok {
			p.Workouts = append(p.Workouts, domain.ProgramWorkout{
				Name: cols[3], WeekNumber: week, DayNumber: day,
				Order: len(p.Workouts) + 1, Exercises: []domain.ProgramExercise{},
			})
			i = len(p.Workouts) - 1
			index[key] = i
		}
		sets, _ := strconv.Atoi(cols[5])
		reps, _ := strconv.Atoi(cols[6])
		weight, _ := strconv.ParseFloat(cols[7], 64)
		pw := &p.Workouts[i]
		pw.Exercises = append(pw.Exercises, domain.ProgramExercise{
			ExerciseName: cols[4], Sets: sets, InitialReps: reps, TargetReps: reps,
			InitialWeight: weight, ProgressionStrategy: domain.ProgressionWeight,
			ProgressionValue: 2.5, ProgressionFrequency: 1, Order: len(pw.Exercises) + 1,
		})
	}
	render.JSON(w, r, s.AddProgram(p))
}

// --- templates ---

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r).ID
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.WorkoutTemplate{}
	for _, t := range s.templates {
		if t.CreatorID == uid {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	render.JSON(w, r, out)
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkoutTemplateCreate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	t := domain.WorkoutTemplate{
		Name: req.Name, Description: req.Description,
		CreatorID: currentUser(r).ID, Exercises: []domain.TemplateExercise{},
	}
	for _, ec := range req.Exercises {
		t.Exercises = append(t.Exercises, templateExercise(ec))
	}
	render.JSON(w, r, s.AddTemplate(t))
}

func templateExercise(ec domain.TemplateExerciseCreate) domain.TemplateExercise {
	return domain.TemplateExercise{
		ExerciseName: ec.ExerciseName, Sets: ec.Sets, Reps: ec.Reps, Weight: ec.Weight,
		Order: ec.Order, Notes: ec.Notes, Category: ec.Category,
	}
}

func (s *Server) ownedTemplate(w http.ResponseWriter, r *http.Request) (*domain.WorkoutTemplate, bool) {
	t, ok := s.templates[intParam(r, "id")]
	if !ok || t.CreatorID != currentUser(r).ID {
		detail(w, r, http.StatusNotFound, "Template not found")
		return nil, false
	}
	return t, true
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.ownedTemplate(w, r); ok {
		render.JSON(w, r, t)
	}
}

func (s *Server) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.ownedTemplate(w, r)
	if !ok {
		return
	}
	if v, ok := req["name"].(string); ok {
		t.Name = v
	}
	if v, ok := req["description"].(string); ok {
		t.Description = v
	}
	render.JSON(w, r, t)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.ownedTemplate(w, r); ok {
		delete(s.templates, t.ID)
		render.JSON(w, r, map[string]string{"message": "Template deleted successfully"})
	}
}

func (s *Server) addTemplateExercise(w http.ResponseWriter, r *http.Request) {
	var req domain.TemplateExerciseCreate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.ownedTemplate(w, r)
	if !ok {
		return
	}
	e := templateExercise(req)
	e.ID = s.id("template_exercises")
	e.TemplateID = t.ID
	t.Exercises = append(t.Exercises, e)
	render.JSON(w, r, e)
}

func (s *Server) updateTemplateExercise(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.ownedTemplate(w, r)
	if !ok {
		return
	}
	eid := intParam(r, "eid")
	for i := range t.Exercises {
		e := &t.Exercises[i]
		if e.ID != eid {
			continue
		}
		if v, ok := req["exercise_name"].(string); ok {
			e.ExerciseName = v
		}
		if v, ok := req["sets"].(float64); ok {
			e.Sets = int(v)
		}
		if v, ok := req["reps"].(float64); ok {
			e.Reps = int(v)
		}
		if v, ok := req["weight"].(float64); ok {
			e.Weight = &v
		}
		if v, ok := req["order"].(float64); ok {
			e.Order = int(v)
		}
		render.JSON(w, r, e)
		return
	}
	detail(w, r, http.StatusNotFound, "Exercise not found")
}

func (s *Server) deleteTemplateExercise(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.ownedTemplate(w, r)
	if !ok {
		return
	}
	eid := intParam(r, "eid")
	for i, e := range t.Exercises {
		if e.ID == eid {
			t.Exercises = append(t.Exercises[:i], t.Exercises[i+1:]...)
			render.JSON(w, r, map[string]string{"message": "Exercise deleted successfully"})
			return
		}
	}
	detail(w, r, http.StatusNotFound, "Exercise not found")
}

// --- plans ---

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r).ID
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.WorkoutPlan{}
	for _, p := range s.plans {
		if p.UserID == uid {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	render.JSON(w, r, out)
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkoutPlanCreate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &domain.WorkoutPlan{
		ID: s.id("plans"), Name: req.Name, Description: req.Description, UserID: currentUser(r).ID,
		DurationWeeks: req.DurationWeeks, DaysPerWeek: req.DaysPerWeek,
	}
	s.plans[p.ID] = p
	render.JSON(w, r, p)
}

func (s *Server) ownedPlan(w http.ResponseWriter, r *http.Request) (*domain.WorkoutPlan, bool) {
	p, ok := s.plans[intParam(r, "id")]
	if !ok || p.UserID != currentUser(r).ID {
		detail(w, r, http.StatusNotFound, "Workout plan not found")
		return nil, false
	}
	return p, true
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.ownedPlan(w, r); ok {
		render.JSON(w, r, p)
	}
}

func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		detail(w, r, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.ownedPlan(w, r)
	if !ok {
		return
	}
	if v, ok := req["name"].(string); ok {
		p.Name = v
	}
	if v, ok := req["description"].(string); ok {
		p.Description = v
	}
	if v, ok := req["duration_weeks"].(float64); ok {
		p.DurationWeeks = int(v)
	}
	if v, ok := req["days_per_week"].(float64); ok {
		p.DaysPerWeek = int(v)
	}
	render.JSON(w, r, p)
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.ownedPlan(w, r); ok {
		delete(s.plans, p.ID)
		render.JSON(w, r, map[string]string{"message": "Workout plan deleted successfully"})
	}
}
