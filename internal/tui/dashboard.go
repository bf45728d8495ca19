package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/pkg/domain"
)

type progressLoadedMsg struct {
	result
	progress []domain.UserProgramProgress
}

type activeProgramMsg struct {
	result
	program *domain.WorkoutProgram
}

type dashboardModel struct {
	d        *deps
	sessions []domain.WorkoutSession
	loaded   bool
	err      string
	active   *domain.UserProgramProgress
	program  *domain.WorkoutProgram
	cursor   int
}

func newDashboardModel(d *deps) dashboardModel {
	return dashboardModel{d: d}
}

func (m dashboardModel) Init() tea.Cmd {
	if m.d.user() == nil {
		return nil
	}
	api, qc := m.d.api, m.d.queries
	return tea.Batch(
		fetch(qc, query.WorkoutsKey(), api.ListWorkouts, func(v []domain.WorkoutSession, err error) tea.Msg {
			return workoutsLoadedMsg{result: result{err}, sessions: v}
		}),
		fetch(qc, query.ProgressKey(), api.ListProgress, func(v []domain.UserProgramProgress, err error) tea.Msg {
			return progressLoadedMsg{result: result{err}, progress: v}
		}),
	)
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case workoutsLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = errText(msg.err, "failed to load workouts")
			return m, nil
		}
		m.err = ""
		m.sessions = msg.sessions
		m.cursor = min(m.cursor, max(len(recent(m.sessions))-1, 0))

	case progressLoadedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.active = nil
		for _, p := range msg.progress {
			if p.IsActive {
				p := p
				m.active = &p
				break
			}
		}
		if m.active == nil {
			m.program = nil
			return m, nil
		}
		api, id := m.d.api, m.active.ProgramID
		return m, fetch(m.d.queries, query.ProgramKey(id), func(ctx context.Context) (*domain.WorkoutProgram, error) {
			return api.GetProgram(ctx, id)
		}, func(v *domain.WorkoutProgram, err error) tea.Msg {
			return activeProgramMsg{result: result{err}, program: v}
		})

	case activeProgramMsg:
		if msg.err == nil {
			m.program = msg.program
		}

	case tea.KeyMsg:
		rows := recent(m.sessions)
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if m.cursor < len(rows) {
				id := rows[m.cursor].ID
				return m, func() tea.Msg { return openWorkoutMsg{id: id} }
			}
		}
	}
	return m, nil
}

// recent returns up to five sessions, newest first as the API orders them.
func recent(s []domain.WorkoutSession) []domain.WorkoutSession {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// weekStats counts sessions and volume in the seven days ending at now.
func weekStats(sessions []domain.WorkoutSession, now time.Time) (int, float64) {
	cutoff := now.AddDate(0, 0, -7)
	var n int
	var vol float64
	for _, s := range sessions {
		if s.Date.Time.After(cutoff) && !s.Date.Time.After(now) {
			n++
			vol += s.Volume()
		}
	}
	return n, vol
}

func (m dashboardModel) View() string {
	u := m.d.user()
	if u == nil {
		var b strings.Builder
		b.WriteString("\n " + titleStyle.Render("Welcome to LiftLog") + "\n\n")
		b.WriteString(" " + normalStyle.Render("Track workouts, follow programs and watch your numbers climb.") + "\n\n")
		b.WriteString(" " + helpEntry("l", "Sign In") + "   " + helpEntry("l ctrl+r", "Create Account") + "\n")
		return b.String()
	}

	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Welcome back, "+u.Email) + "\n\n")

	if !m.loaded {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("Error loading workouts: "+m.err) + "\n")
		return b.String()
	}

	n, vol := weekStats(m.sessions, m.d.now())
	fmt.Fprintf(&b, " %s %s   %s %s   %s %s\n\n",
		metaStyle.Render("workouts"), selectedStyle.Render(fmt.Sprintf("%d", len(m.sessions))),
		metaStyle.Render("this week"), selectedStyle.Render(fmt.Sprintf("%d", n)),
		metaStyle.Render("weekly volume"), selectedStyle.Render(fmtVolume(vol)),
	)

	if m.active != nil {
		name := fmt.Sprintf("program #%d", m.active.ProgramID)
		weeks := 0
		if m.program != nil {
			name = m.program.Name
			weeks = m.program.DurationWeeks
		}
		line := fmt.Sprintf("week %d day %d", m.active.CurrentWeek, m.active.CurrentDay)
		if weeks > 0 {
			line = fmt.Sprintf("week %d of %d, day %d", m.active.CurrentWeek, weeks, m.active.CurrentDay)
		}
		b.WriteString(" " + sectionHeaderStyle.Render("Active program") + "\n")
		b.WriteString("   " + selectedStyle.Render(name) + "  " + dimStyle.Render(line) + "\n\n")
	}

	b.WriteString(" " + sectionHeaderStyle.Render("Recent workouts") + "\n")
	rows := recent(m.sessions)
	if len(rows) == 0 {
		b.WriteString("   " + dimStyle.Render("No workouts yet. Press n to log your first one.") + "\n")
	}
	now := m.d.now()
	for i, s := range rows {
		cursor := " "
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
		}
		fmt.Fprintf(&b, "  %s %s  %s  %s\n", cursor,
			normalStyle.Render(s.Date.ShortDate()),
			metaStyle.Render(padRight(formatAgo(s.Date.Time, now), 10)),
			dimStyle.Render(fmt.Sprintf("%d exercises, %s vol", len(s.Entries), fmtVolume(s.Volume()))))
	}
	return b.String()
}

func (m dashboardModel) helpKeys() string {
	if m.d.user() == nil {
		return helpLine("1-6", "tabs", "l", "sign in", "h", "help", "q", "quit")
	}
	return helpLine("1-6", "tabs", "j/k", "nav", "enter", "open", "n", "log workout", "h", "help", "q", "quit")
}
