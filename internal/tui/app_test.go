package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/apitest"
	"github.com/naveenspark/liftlog/internal/session"
	"github.com/naveenspark/liftlog/pkg/client"
	"github.com/naveenspark/liftlog/pkg/domain"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	testEmail    = "test@example.com"
	testPassword = "password123"
)

// newTestApp wires an App to a fake API. When signedIn is set the store holds
// a valid token for testEmail.
func newTestApp(t *testing.T, signedIn bool) (App, *apitest.Server) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	u := srv.AddUser(testEmail, testPassword)

	store := session.NewMemoryStore()
	if signedIn {
		if err := store.Save(apitest.Token(u.Email, time.Now().Add(time.Hour)), u); err != nil {
			t.Fatal(err)
		}
	}
	return appWithStore(store, srv), srv
}

func appWithStore(store session.Store, srv *apitest.Server) App {
	api := client.New(srv.URL, store)
	sess := session.NewContext(session.NewAuthClient(api, store, nil), session.NewEvaluator(store, nil))
	sess.Init()
	a := NewApp(Options{Session: sess, API: api, WebURL: "http://localhost:3000", Now: func() time.Time { return testNow }})
	a.width = 100
	a.height = 40
	return a
}

// run executes cmd and feeds every resulting message back into the App,
// following batches, until nothing is left.
func run(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case nil, tea.QuitMsg, shimmerTickMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		}
		model, next := a.Update(msg)
		a = model.(App)
		queue = append(queue, next)
	}
	return a
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		model, cmd := a.Update(key(k))
		a = run(t, model.(App), cmd)
	}
	return a
}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"1", viewDashboard},
		{"2", viewWorkouts},
		{"3", viewPrograms},
		{"4", viewTemplates},
		{"5", viewPlans},
		{"6", viewProfile},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			a, _ := newTestApp(t, true)
			a = press(t, a, tc.key)
			if a.view != tc.wantView {
				t.Errorf("after key %q: expected view=%d, got %d", tc.key, tc.wantView, a.view)
			}
		})
	}
}

func TestAppGlobalQuitOnQ(t *testing.T) {
	a, _ := newTestApp(t, false)
	_, cmd := a.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
}

func TestAppQNotFiredWhileTypingLogin(t *testing.T) {
	a, _ := newTestApp(t, false)
	a = press(t, a, "l")
	if a.view != viewLogin {
		t.Fatalf("expected login view after 'l', got %d", a.view)
	}
	model, _ := a.Update(key("q"))
	a = model.(App)
	if a.login.email != "q" {
		t.Errorf("expected login.email to be 'q', got %q", a.login.email)
	}
}

func TestAppShimmerFrameIncrements(t *testing.T) {
	a, _ := newTestApp(t, false)
	model, _ := a.Update(shimmerTickMsg{})
	if got := model.(App).frame; got != a.frame+1 {
		t.Errorf("expected frame=%d after shimmerTickMsg, got %d", a.frame+1, got)
	}
}

func TestAppViewRendersTabBar(t *testing.T) {
	a, _ := newTestApp(t, false)
	view := a.View()
	for _, tab := range []string{"Dashboard", "Workouts", "Programs", "Templates", "Plans", "Profile"} {
		if !strings.Contains(view, tab) {
			t.Errorf("expected %q tab in app view, got:\n%s", tab, view)
		}
	}
}

func TestAppLayoutFitsTerminal(t *testing.T) {
	a, srv := newTestApp(t, true)
	for i := 0; i < 40; i++ {
		srv.AddWorkout(1, testNow.AddDate(0, 0, -i), domain.WorkoutEntry{ExerciseName: "Squat", Sets: 5, Reps: 5, Weight: 100})
	}
	model, _ := a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	a = press(t, model.(App), "2")

	lines := strings.Split(a.View(), "\n")
	if len(lines) > 24 {
		t.Errorf("App.View() has %d lines, want at most 24", len(lines))
	}
}

func TestWorkoutsRequireLogin(t *testing.T) {
	a, srv := newTestApp(t, false)
	a = press(t, a, "2")

	view := a.View()
	if !strings.Contains(view, "You need to be logged in") {
		t.Errorf("expected sign-in prompt, got:\n%s", view)
	}
	if n := srv.Count("GET /workouts"); n != 0 {
		t.Errorf("expected no workout request while signed out, got %d", n)
	}
}

func TestWorkoutDetailRendersSession(t *testing.T) {
	a, srv := newTestApp(t, true)
	w := srv.AddWorkout(1, time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC),
		domain.WorkoutEntry{ExerciseName: "Bench Press", Category: "Chest", Sets: 3, Reps: 10, Weight: 60},
		domain.WorkoutEntry{ExerciseName: "Squat", Category: "Legs", Sets: 5, Reps: 5, Weight: 100},
	)
	if w.ID != 1 {
		t.Fatalf("expected first workout to get id 1, got %d", w.ID)
	}

	model, cmd := a.Update(openWorkoutMsg{id: 1})
	a = run(t, model.(App), cmd)

	view := a.View()
	for _, want := range []string{"Workout: February 25, 2025", "Bench Press", "Squat"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in detail view, got:\n%s", want, view)
		}
	}
}

func openBenchWorkout(t *testing.T) (App, *apitest.Server) {
	t.Helper()
	a, srv := newTestApp(t, true)
	srv.AddWorkout(1, time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC),
		domain.WorkoutEntry{ExerciseName: "Bench Press", Category: "Chest", Sets: 3, Reps: 10, Weight: 60},
	)
	model, cmd := a.Update(openWorkoutMsg{id: 1})
	return run(t, model.(App), cmd), srv
}

func TestWorkoutDetailEditNotes(t *testing.T) {
	a, srv := openBenchWorkout(t)
	a = press(t, a, "N")
	if !a.workouts.editingNotes {
		t.Fatal("expected notes editor")
	}
	a = paste(t, a, "Felt strong")
	a = press(t, a, "enter")

	if n := srv.Count("PUT /workouts/1"); n != 1 {
		t.Fatalf("expected one notes update, got %d", n)
	}
	if w, _ := srv.Workout(1); w.Notes != "Felt strong" {
		t.Errorf("server notes = %q", w.Notes)
	}
	view := a.View()
	for _, want := range []string{"Notes saved", "Felt strong"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q after saving notes, got:\n%s", want, view)
		}
	}
}

func TestWorkoutDetailEditNotesEscCancels(t *testing.T) {
	a, srv := openBenchWorkout(t)
	a = press(t, a, "N")
	a = paste(t, a, "never sent")
	a = press(t, a, "esc")

	if a.workouts.editingNotes {
		t.Error("expected esc to close the notes editor")
	}
	if a.workouts.mode != workoutsDetail {
		t.Error("expected to stay on the detail")
	}
	if n := srv.Count("PUT /workouts/1"); n != 0 {
		t.Errorf("expected no update, got %d", n)
	}
}

func TestWorkoutDetailEditEntry(t *testing.T) {
	a, srv := openBenchWorkout(t)
	a = press(t, a, "e")
	if a.workouts.entryEdit == nil {
		t.Fatal("expected entry editor")
	}
	a = press(t, a, "j", "j", "j", "j") // weight
	if f := a.workouts.entryEdit.field().Name; f != "weight" {
		t.Fatalf("expected weight field, got %q", f)
	}
	a = press(t, a, "enter")
	a.workouts.entryEdit.buf = ""
	a = press(t, a, "6", "2", ".", "5", "enter", "ctrl+s")

	if a.workouts.entryEdit != nil {
		t.Error("expected the editor to close after saving")
	}
	if n := srv.Count("PUT /workouts/1/entries/1"); n != 1 {
		t.Fatalf("expected one entry update, got %d", n)
	}
	if n := srv.Count("GET /workouts/1/entries"); n != 1 {
		t.Errorf("expected entries to be re-read once, got %d", n)
	}
	w, _ := srv.Workout(1)
	if e := w.Entries[0]; e.Weight != 62.5 || e.Sets != 3 || e.ExerciseName != "Bench Press" {
		t.Errorf("server entry = %+v", e)
	}
	if got := a.workouts.detail.Entries[0].Weight; got != 62.5 {
		t.Errorf("expected refreshed weight 62.5, got %v", got)
	}
	if !strings.Contains(a.View(), "Entry updated") {
		t.Errorf("expected confirmation, got:\n%s", a.View())
	}
}

func TestWorkoutDetailEditEntryValidates(t *testing.T) {
	a, srv := openBenchWorkout(t)
	a = press(t, a, "e", "j", "j", "enter") // sets
	a.workouts.entryEdit.buf = ""
	a = press(t, a, "0", "enter", "ctrl+s")

	if a.workouts.entryEdit == nil {
		t.Fatal("expected the editor to stay open on invalid input")
	}
	if len(a.workouts.editErrs) == 0 {
		t.Error("expected a field error for sets")
	}
	if n := srv.Count("PUT /workouts/1/entries/1"); n != 0 {
		t.Errorf("expected no request, got %d", n)
	}
}

func TestWorkoutDetailEditEntryUnchanged(t *testing.T) {
	a, srv := openBenchWorkout(t)
	a = press(t, a, "e", "ctrl+s")

	if n := srv.Count("PUT /workouts/1/entries/1"); n != 0 {
		t.Errorf("expected no request without changes, got %d", n)
	}
	if !strings.Contains(a.View(), "No changes") {
		t.Errorf("expected no-changes status, got:\n%s", a.View())
	}
}

func TestWorkoutDetailError(t *testing.T) {
	a, _ := newTestApp(t, true)
	model, cmd := a.Update(openWorkoutMsg{id: 99})
	a = run(t, model.(App), cmd)

	view := a.View()
	if !strings.Contains(view, "Error loading workout") {
		t.Errorf("expected error banner, got:\n%s", view)
	}
	if !strings.Contains(view, "Back to Workouts") {
		t.Errorf("expected back hint, got:\n%s", view)
	}

	a = press(t, a, "esc")
	if a.workouts.mode != workoutsList {
		t.Errorf("expected esc to return to the list")
	}
}

func TestWorkoutsFetchOncePerMount(t *testing.T) {
	a, srv := newTestApp(t, true)
	srv.AddWorkout(1, testNow, domain.WorkoutEntry{ExerciseName: "Deadlift", Sets: 1, Reps: 5, Weight: 180})

	a = press(t, a, "2")
	for i := 0; i < 3; i++ {
		_ = a.View()
	}
	if n := srv.Count("GET /workouts"); n != 1 {
		t.Fatalf("expected one list request after mount, got %d", n)
	}
	if !strings.Contains(a.View(), "Deadlift") {
		t.Errorf("expected workout in list, got:\n%s", a.View())
	}

	// cached result is still fresh when the tab is re-entered
	a = press(t, a, "1", "2")
	if n := srv.Count("GET /workouts"); n != 1 {
		t.Errorf("expected cached list on re-entry, got %d requests", n)
	}

	a = press(t, a, "r")
	if n := srv.Count("GET /workouts"); n != 2 {
		t.Errorf("expected refresh to refetch, got %d requests", n)
	}
}

func TestWorkoutSearch(t *testing.T) {
	a, srv := newTestApp(t, true)
	srv.AddWorkout(1, testNow, domain.WorkoutEntry{ExerciseName: "Bench Press", Sets: 3, Reps: 10, Weight: 60})
	srv.AddWorkout(1, testNow.AddDate(0, 0, -1), domain.WorkoutEntry{ExerciseName: "Squat", Sets: 5, Reps: 5, Weight: 100})

	a = press(t, a, "2", "/", "s", "q", "u", "enter")
	if n := srv.Count("GET /workouts/search"); n != 1 {
		t.Fatalf("expected one search request, got %d", n)
	}
	if got := len(a.workouts.sessions); got != 1 {
		t.Errorf("expected 1 matching session, got %d", got)
	}
}

func TestNewWorkoutValidationBlocksRequest(t *testing.T) {
	a, srv := newTestApp(t, true)
	a = press(t, a, "n")
	if a.view != viewNewWorkout {
		t.Fatalf("expected new workout form, got view %d", a.view)
	}

	a = press(t, a, "ctrl+s")
	view := a.View()
	if !strings.Contains(view, "Exercise is required") {
		t.Errorf("expected field error, got:\n%s", view)
	}
	if n := srv.Count("POST /workouts"); n != 0 {
		t.Errorf("expected no request for an invalid form, got %d", n)
	}
}

func TestNewWorkoutCreatesAndOpensDetail(t *testing.T) {
	a, srv := newTestApp(t, true)
	a = press(t, a, "n")
	if err := a.newWorkout.entries.list.Update(0, "exercise_name", "Bench Press"); err != nil {
		t.Fatal(err)
	}

	a = press(t, a, "ctrl+s")
	if a.view != viewWorkouts || a.workouts.mode != workoutsDetail {
		t.Fatalf("expected the new workout to open, view=%d mode=%d", a.view, a.workouts.mode)
	}
	if n := srv.Count("POST /workouts/1/entries"); n != 1 {
		t.Errorf("expected one entry request, got %d", n)
	}
	if !strings.Contains(a.View(), "Workout: March 1, 2025") {
		t.Errorf("expected created workout detail, got:\n%s", a.View())
	}
}

func TestNewWorkoutPartialFailureNamesStep(t *testing.T) {
	a, srv := newTestApp(t, true)
	srv.FailEntry = "Squat"
	a = press(t, a, "n")

	list := a.newWorkout.entries.list
	list.Update(0, "exercise_name", "Bench Press") //nolint:errcheck // row exists
	list.Add(domain.WorkoutEntryCreate{ExerciseName: "Squat", Sets: 5, Reps: 5, Weight: 100})

	a = press(t, a, "ctrl+s")
	view := a.View()
	if !strings.Contains(view, "Failed to create entry 2 (Squat)") {
		t.Errorf("expected failed step in status, got:\n%s", view)
	}
	if !strings.Contains(view, "saved:") {
		t.Errorf("expected completed steps in status, got:\n%s", view)
	}
	if _, ok := srv.Workout(1); !ok {
		t.Error("expected the partial session to remain without rollback")
	}
}

func TestLoginSignsIn(t *testing.T) {
	a, _ := newTestApp(t, false)
	a = press(t, a, "l")
	a.login.email = testEmail
	a.login.password = testPassword
	a = press(t, a, "ctrl+s")

	if a.d.user() == nil {
		t.Fatal("expected a signed-in user")
	}
	if a.view != viewDashboard {
		t.Errorf("expected return to dashboard, got view %d", a.view)
	}
	if !strings.Contains(a.View(), "Welcome back, "+testEmail) {
		t.Errorf("expected welcome line, got:\n%s", a.View())
	}
}

func paste(t *testing.T, a App, text string) App {
	t.Helper()
	model, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true})
	return run(t, model.(App), cmd)
}

func TestLoginAcceptsPastedCredentials(t *testing.T) {
	a, _ := newTestApp(t, false)
	a = press(t, a, "l")
	a = paste(t, a, testEmail)
	a = press(t, a, "tab")
	a = paste(t, a, testPassword)

	if a.login.email != testEmail || a.login.password != testPassword {
		t.Fatalf("pasted fields = %q / %q", a.login.email, a.login.password)
	}
	a = press(t, a, "ctrl+s")
	if a.d.user() == nil {
		t.Fatal("expected a signed-in user after pasting credentials")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	a, _ := newTestApp(t, false)
	a = press(t, a, "l")
	a.login.email = testEmail
	a.login.password = "wrong-password"
	a = press(t, a, "ctrl+s")

	if a.d.user() != nil {
		t.Fatal("expected no user after a rejected login")
	}
	if !strings.Contains(a.View(), "Invalid credentials") {
		t.Errorf("expected invalid credentials message, got:\n%s", a.View())
	}
}

func TestLoginValidatesBeforeRequest(t *testing.T) {
	a, srv := newTestApp(t, false)
	a = press(t, a, "l")
	a.login.email = "not-an-email"
	a.login.password = "abc"
	a = press(t, a, "ctrl+s")

	view := a.View()
	if !strings.Contains(view, "Email must be a valid email address") {
		t.Errorf("expected email error, got:\n%s", view)
	}
	if n := srv.Count("POST /auth/token"); n != 0 {
		t.Errorf("expected no token request, got %d", n)
	}
}

func TestRejectedTokenSignsOut(t *testing.T) {
	srv := apitest.New()
	t.Cleanup(srv.Close)
	store := session.NewMemoryStore()
	ghost := domain.User{ID: 7, Email: "ghost@example.com", IsActive: true}
	if err := store.Save(apitest.Token(ghost.Email, time.Now().Add(time.Hour)), ghost); err != nil {
		t.Fatal(err)
	}
	a := appWithStore(store, srv)

	a = press(t, a, "2")
	if a.d.user() != nil {
		t.Fatal("expected the session to be cleared after a 401")
	}
	if a.view != viewLogin {
		t.Errorf("expected login view, got %d", a.view)
	}
	if !strings.Contains(a.View(), "session has expired") {
		t.Errorf("expected expiry notice, got:\n%s", a.View())
	}
	if store.ReadToken() != "" {
		t.Error("expected stored token to be cleared")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	a, _ := newTestApp(t, true)
	a = press(t, a, "6", "o")
	if a.d.user() != nil {
		t.Fatal("expected no user after logout")
	}
	if a.view != viewDashboard {
		t.Errorf("expected dashboard after logout, got %d", a.view)
	}
	if !strings.Contains(a.View(), "Welcome to LiftLog") {
		t.Errorf("expected signed-out dashboard, got:\n%s", a.View())
	}
}

func TestProfilePlateCalculator(t *testing.T) {
	a, _ := newTestApp(t, true)
	a = press(t, a, "6", "w", "1", "0", "2", ".", "5", "enter")

	view := a.View()
	if !strings.Contains(view, "25 + 15 + 1.25") {
		t.Errorf("expected plates per side, got:\n%s", view)
	}
}

func TestTemplateStartsWorkout(t *testing.T) {
	a, srv := newTestApp(t, true)
	w := 40.0
	tpl := srv.AddTemplate(domain.WorkoutTemplate{Name: "Push Day", CreatorID: 1, Exercises: []domain.TemplateExercise{
		{ExerciseName: "Bench Press", Sets: 4, Reps: 8, Weight: &w, Category: "Chest"},
		{ExerciseName: "Dips", Sets: 3, Reps: 12, Category: "Chest"},
	}})

	a = press(t, a, "4")
	var cmd tea.Cmd
	a.templates, cmd = a.templates.openDetail(tpl.ID)
	a = run(t, a, cmd)
	a = press(t, a, "s")

	if a.view != viewNewWorkout {
		t.Fatalf("expected new workout form, got view %d", a.view)
	}
	items := a.newWorkout.entries.list.Items()
	if len(items) != 2 || items[0].ExerciseName != "Bench Press" || items[0].Weight != 40 {
		t.Errorf("expected entries copied from template, got %+v", items)
	}
}

func TestProgramAssignAndAdvance(t *testing.T) {
	a, srv := newTestApp(t, true)
	p := srv.AddProgram(domain.WorkoutProgram{Name: "5x5", DurationWeeks: 2, CreatorID: 1, Workouts: []domain.ProgramWorkout{
		{Name: "A", WeekNumber: 1, DayNumber: 1},
		{Name: "B", WeekNumber: 1, DayNumber: 3},
	}})

	a = press(t, a, "3")
	var cmd tea.Cmd
	a.programs, cmd = a.programs.openDetail(p.ID)
	a = run(t, a, cmd)

	a = press(t, a, "a")
	if !strings.Contains(a.View(), "Following: week 1, day 1") {
		t.Fatalf("expected progress after assign, got:\n%s", a.View())
	}
	a = press(t, a, "]")
	if !strings.Contains(a.View(), "Following: week 1, day 3") {
		t.Errorf("expected advance to day 3, got:\n%s", a.View())
	}
}

func TestPlanCreateEditDelete(t *testing.T) {
	a, srv := newTestApp(t, true)
	a = press(t, a, "5", "n")
	if a.view != viewPlanForm {
		t.Fatalf("expected plan form, got view %d", a.view)
	}
	if err := a.plan.fields.list.Update(0, "name", "Cut"); err != nil {
		t.Fatal(err)
	}

	a = press(t, a, "ctrl+s")
	if a.view != viewPlans || !a.plans.detailMode {
		t.Fatalf("expected new plan detail, view=%d detail=%v", a.view, a.plans.detailMode)
	}
	if !strings.Contains(a.View(), "Cut") {
		t.Errorf("expected plan name in detail, got:\n%s", a.View())
	}

	a = press(t, a, "e")
	if a.view != viewPlanForm || a.plan.editID != 1 {
		t.Fatalf("expected edit form for plan 1, view=%d editID=%d", a.view, a.plan.editID)
	}
	if err := a.plan.fields.list.Update(0, "days_per_week", "5"); err != nil {
		t.Fatal(err)
	}
	a = press(t, a, "ctrl+s")
	if n := srv.Count("PUT /workout-plans/1"); n != 1 {
		t.Errorf("expected one update request, got %d", n)
	}
	if a.plans.detail == nil || a.plans.detail.DaysPerWeek != 5 {
		t.Errorf("expected refreshed detail with 5 days/week, got %+v", a.plans.detail)
	}

	a = press(t, a, "d", "y")
	if n := srv.Count("DELETE /workout-plans/1"); n != 1 {
		t.Errorf("expected one delete request, got %d", n)
	}
	if a.plans.detailMode {
		t.Error("expected list after delete")
	}
	if !strings.Contains(a.View(), "Plan deleted") {
		t.Errorf("expected deleted status, got:\n%s", a.View())
	}
}

func TestPlanFormValidation(t *testing.T) {
	a, srv := newTestApp(t, true)
	a = press(t, a, "5", "n", "ctrl+s")
	if !strings.Contains(a.View(), "Name is required") {
		t.Errorf("expected name error, got:\n%s", a.View())
	}
	if n := srv.Count("POST /workout-plans"); n != 0 {
		t.Errorf("expected no request, got %d", n)
	}
}
