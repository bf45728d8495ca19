package tui

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/liftlog/internal/browser"
	"github.com/naveenspark/liftlog/internal/form"
	"github.com/naveenspark/liftlog/internal/logging"
	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/internal/session"
	"github.com/naveenspark/liftlog/pkg/client"
)

type view int

const (
	viewDashboard view = iota
	viewWorkouts
	viewPrograms
	viewTemplates
	viewPlans
	viewProfile
	viewLogin
	viewNewWorkout
	viewNewProgram
	viewNewTemplate
	viewPlanForm
)

// Options wires the App to its collaborators.
type Options struct {
	Session  *session.Context
	API      *client.Client
	Queries  *query.Client
	Log      *slog.Logger
	WebURL   string
	Rollback bool
	Now      func() time.Time
}

// App is the root Bubbletea model.
type App struct {
	d          *deps
	view       view
	back       view // where a successful sign-in returns to
	dashboard  dashboardModel
	workouts   workoutsModel
	programs   programsModel
	templates  templatesModel
	plans      plansModel
	profile    profileModel
	login      loginModel
	newWorkout newWorkoutModel
	program    programFormModel
	template   templateFormModel
	plan       planFormModel
	helpOpen   bool
	helpCursor int
	notice     string
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates the TUI application. Session must already be initialised.
func NewApp(opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	if opts.Queries == nil {
		opts.Queries = query.NewClient(nil, query.DefaultPolicy(), opts.Log)
	}
	d := &deps{
		api:      opts.API,
		session:  opts.Session,
		base:     opts.Queries,
		validate: form.NewValidator(),
		log:      opts.Log,
		now:      opts.Now,
		rollback: opts.Rollback,
		webURL:   opts.WebURL,
	}
	d.rescope()
	a := App{d: d}
	a.resetViews()
	return a
}

// resetViews drops per-user view state after the signed-in user changes.
func (a *App) resetViews() {
	a.dashboard = newDashboardModel(a.d)
	a.workouts = newWorkoutsModel(a.d)
	a.programs = newProgramsModel(a.d)
	a.templates = newTemplatesModel(a.d)
	a.plans = newPlansModel(a.d)
	a.profile = newProfileModel(a.d)
	a.login = newLoginModel(a.d)
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.dashboard.Init(), shimmerTickCmd())
}

// initView fetches whatever v shows.
func (a App) initView(v view) tea.Cmd {
	switch v {
	case viewDashboard:
		return a.dashboard.Init()
	case viewWorkouts:
		return a.workouts.Init()
	case viewPrograms:
		return a.programs.Init()
	case viewTemplates:
		return a.templates.Init()
	case viewPlans:
		return a.plans.Init()
	case viewProfile:
		return a.profile.Init()
	}
	return nil
}

// switchTab re-checks the session before showing v, so a token that expired
// while the program was open is noticed on the next navigation.
func (a App) switchTab(v view) (App, tea.Cmd) {
	had := a.d.user() != nil
	if a.d.session.Refresh() == nil && had {
		a = a.signedOut("Your session has expired. Please sign in again.")
	}
	a.d.rescope()
	if a.d.queries.Policy().RefetchOnFocus {
		a.d.queries.Reset(context.Background())
	}
	a.view = v
	return a, a.initView(v)
}

// signedOut clears cached data and per-user state.
func (a App) signedOut(notice string) App {
	a.d.queries.Reset(context.Background())
	a.d.rescope()
	a.resetViews()
	a.notice = notice
	return a
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if f, ok := msg.(failer); ok && a.d.user() != nil && client.IsStatus(f.failure(), http.StatusUnauthorized) {
		a.d.log.Info("api rejected session, signing out")
		a.d.session.Logout()
		a = a.signedOut("Your session has expired. Please sign in again.")
		if a.view < viewLogin {
			a.back = a.view
		}
		a.view = viewLogin
		return a, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.workouts, _ = a.workouts.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case authDoneMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg)
			return a, cmd
		}
		a.d.rescope()
		a.resetViews()
		a.notice = ""
		a.view = a.back
		a.d.log.Info("signed in", slog.Int("user_id", a.d.user().ID))
		return a, a.initView(a.view)

	case logoutMsg:
		a.d.session.Logout()
		a = a.signedOut("Signed out")
		a.view = viewDashboard
		return a, nil

	case closeFormMsg:
		return a.closeForm(msg.openID)

	case openWorkoutMsg:
		a.view = viewWorkouts
		var cmd tea.Cmd
		a.workouts, cmd = a.workouts.openDetail(msg.id)
		return a, cmd

	case startFromTemplateMsg:
		a.newWorkout = newWorkoutFromTemplate(a.d, msg.template)
		a.view = viewNewWorkout
		return a, nil

	case editPlanMsg:
		a.plan = editPlanFormModel(a.d, msg.plan)
		a.view = viewPlanForm
		return a, nil

	case tea.KeyMsg:
		a.notice = ""
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.helpOpen {
			return a.updateHelp(msg.String())
		}
		if !a.isEditing() {
			if next, cmd, handled := a.globalKey(msg.String()); handled {
				return next, cmd
			}
		}
		if a.view == viewLogin && msg.String() == "esc" {
			a.view = viewDashboard
			return a, a.dashboard.Init()
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewWorkouts:
		a.workouts, cmd = a.workouts.Update(msg)
	case viewPrograms:
		a.programs, cmd = a.programs.Update(msg)
	case viewTemplates:
		a.templates, cmd = a.templates.Update(msg)
	case viewPlans:
		a.plans, cmd = a.plans.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewNewWorkout:
		a.newWorkout, cmd = a.newWorkout.Update(msg)
	case viewNewProgram:
		a.program, cmd = a.program.Update(msg)
	case viewNewTemplate:
		a.template, cmd = a.template.Update(msg)
	case viewPlanForm:
		a.plan, cmd = a.plan.Update(msg)
	}
	return a, cmd
}

func (a App) updateHelp(key string) (App, tea.Cmd) {
	switch key {
	case "h", "esc":
		a.helpOpen = false
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.helpCursor < len(helpItems)-1 {
			a.helpCursor++
		}
	case "k", "up":
		if a.helpCursor > 0 {
			a.helpCursor--
		}
	case "enter":
		url := strings.TrimRight(a.d.webURL, "/") + helpItems[a.helpCursor].path
		if err := browser.Open(url); err != nil {
			a.d.log.Warn("open browser", slog.String("url", url), logging.Err(err))
		}
	}
	return a, nil
}

var tabKeys = map[string]view{
	"1": viewDashboard,
	"2": viewWorkouts,
	"3": viewPrograms,
	"4": viewTemplates,
	"5": viewPlans,
	"6": viewProfile,
}

func (a App) globalKey(key string) (App, tea.Cmd, bool) {
	if v, ok := tabKeys[key]; ok {
		if v == a.view {
			return a, nil, true
		}
		next, cmd := a.switchTab(v)
		return next, cmd, true
	}
	switch key {
	case "q":
		return a, tea.Quit, true
	case "h":
		a.helpOpen = true
		a.helpCursor = 0
		return a, nil, true
	case "l":
		if a.d.user() != nil || a.view == viewLogin {
			return a, nil, false
		}
		a.back = a.view
		a.login = newLoginModel(a.d)
		a.view = viewLogin
		return a, nil, true
	case "n":
		if a.d.user() == nil {
			return a, nil, false
		}
		switch a.view {
		case viewDashboard, viewWorkouts:
			a.newWorkout = newNewWorkoutModel(a.d)
			a.view = viewNewWorkout
		case viewPrograms:
			a.program = newProgramFormModel(a.d)
			a.view = viewNewProgram
		case viewTemplates:
			a.template = newTemplateFormModel(a.d)
			a.view = viewNewTemplate
		case viewPlans:
			a.plan = newPlanFormModel(a.d)
			a.view = viewPlanForm
		default:
			return a, nil, false
		}
		return a, nil, true
	}
	return a, nil, false
}

// closeForm returns from a create screen to its tab, opening the saved record
// when id is non-zero.
func (a App) closeForm(id int) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewNewWorkout:
		a.view = viewWorkouts
		if id != 0 {
			a.workouts, cmd = a.workouts.openDetail(id)
			return a, cmd
		}
	case viewNewProgram:
		a.view = viewPrograms
		if id != 0 {
			a.programs, cmd = a.programs.openDetail(id)
			return a, cmd
		}
	case viewNewTemplate:
		a.view = viewTemplates
		if id != 0 {
			a.templates, cmd = a.templates.openDetail(id)
			return a, cmd
		}
	case viewPlanForm:
		a.view = viewPlans
		if id != 0 {
			a.plans, cmd = a.plans.openDetail(id)
			return a, cmd
		}
	default:
		return a, nil
	}
	return a, a.initView(a.view)
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin, viewNewWorkout, viewNewProgram, viewNewTemplate, viewPlanForm:
		return true
	case viewWorkouts:
		return a.workouts.isEditing()
	case viewPrograms:
		return a.programs.isEditing()
	case viewTemplates:
		return a.templates.isEditing()
	case viewProfile:
		return a.profile.isEditing()
	}
	return false
}

func centered(s string, width int) string {
	pad := max((width-lipgloss.Width(s))/2, 0)
	return strings.Repeat(" ", pad) + s
}

func (a App) View() string {
	header := centered(renderShimmerLogo(a.frame), a.width) + "\n"
	if u := a.d.user(); u != nil {
		header += centered(metaStyle.Render(u.Email), a.width)
	} else if a.d.session.Loading() {
		header += centered(dimStyle.Render("checking session..."), a.width)
	} else {
		header += centered(dimStyle.Render("not signed in"), a.width)
	}

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Dashboard", viewDashboard},
		{"2", "Workouts", viewWorkouts},
		{"3", "Programs", viewPrograms},
		{"4", "Templates", viewTemplates},
		{"5", "Plans", viewPlans},
		{"6", "Profile", viewProfile},
	}
	active := a.view
	switch a.view {
	case viewNewWorkout:
		active = viewWorkouts
	case viewNewProgram:
		active = viewPrograms
	case viewNewTemplate:
		active = viewTemplates
	case viewPlanForm:
		active = viewPlans
	}
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == active {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		w := lipgloss.Width(label)
		left := max((colWidth-w)/2, 0)
		right := max(colWidth-w-left, 0)
		tabBar.WriteString(strings.Repeat(" ", left) + label + strings.Repeat(" ", right))
	}

	var body, help string
	switch a.view {
	case viewDashboard:
		body, help = a.dashboard.View(), a.dashboard.helpKeys()
	case viewWorkouts:
		body, help = a.workouts.View(), a.workouts.helpKeys()
	case viewPrograms:
		body, help = a.programs.View(), a.programs.helpKeys()
	case viewTemplates:
		body, help = a.templates.View(), a.templates.helpKeys()
	case viewPlans:
		body, help = a.plans.View(), a.plans.helpKeys()
	case viewProfile:
		body, help = a.profile.View(), a.profile.helpKeys()
	case viewLogin:
		body, help = a.login.View(), a.login.helpKeys()
	case viewNewWorkout:
		body, help = a.newWorkout.View(), a.newWorkout.helpKeys()
	case viewNewProgram:
		body, help = a.program.View(), a.program.helpKeys()
	case viewNewTemplate:
		body, help = a.template.View(), a.template.helpKeys()
	case viewPlanForm:
		body, help = a.plan.View(), a.plan.helpKeys()
	}
	if a.d.user() == nil && a.view != viewLogin && a.view != viewDashboard {
		help = helpLine("1-6", "tabs", "l", "sign in", "h", "help", "q", "quit")
	}

	if a.helpOpen {
		body = helpView(a.helpCursor, a.d.webURL)
		help = helpLine("j/k", "nav", "enter", "open", "esc", "close")
	}

	notice := ""
	if a.notice != "" {
		notice = " " + accentStyle.Render(a.notice)
	}

	// Chrome budget: header(2) + tabs(1) + notice(1) + help(1) = 5 lines + body
	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, notice, help)
}
