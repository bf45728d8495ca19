package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/browser"
	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/pkg/domain"
)

type recordsLoadedMsg struct {
	result
	records *domain.PersonalRecords
}

type exercisesLoadedMsg struct {
	result
	names []string
}

type exerciseStatsMsg struct {
	result
	name  string
	days  int
	stats *domain.ExerciseStats
}

type categoryStatsMsg struct {
	result
	category string
	days     int
	stats    *domain.CategoryStats
}

type platesMsg struct {
	result
	calc *domain.PlateCalculation
}

var statWindows = []int{7, 30, 90, 365}

type profileModel struct {
	d *deps

	records    *domain.PersonalRecords
	recordsErr string

	exercises []string
	exCursor  int
	exStats   *domain.ExerciseStats
	statsErr  string

	category int // index into domain.Categories, -1 when unset
	catStats *domain.CategoryStats

	window int // index into statWindows

	platesOpen  bool
	platesInput string
	plates      *domain.PlateCalculation
	platesErr   string

	status string
}

func newProfileModel(d *deps) profileModel {
	return profileModel{d: d, category: -1, window: 1}
}

func (m profileModel) days() int { return statWindows[m.window] }

func (m profileModel) Init() tea.Cmd {
	u := m.d.user()
	if u == nil {
		return nil
	}
	api, qc, uid := m.d.api, m.d.queries, u.ID
	cmds := []tea.Cmd{
		fetch(qc, query.PersonalRecordsKey(uid), func(ctx context.Context) (*domain.PersonalRecords, error) {
			return api.PersonalRecords(ctx, uid)
		}, func(v *domain.PersonalRecords, err error) tea.Msg {
			return recordsLoadedMsg{result: result{err}, records: v}
		}),
		fetch(qc, query.ExercisesKey(), api.ListExercises, func(v []string, err error) tea.Msg {
			return exercisesLoadedMsg{result: result{err}, names: v}
		}),
	}
	if m.category >= 0 {
		cmds = append(cmds, m.loadCategory())
	}
	return tea.Batch(cmds...)
}

func (m profileModel) loadExercise() tea.Cmd {
	if m.exCursor >= len(m.exercises) {
		return nil
	}
	api, name, days := m.d.api, m.exercises[m.exCursor], m.days()
	key := append(query.ExerciseStatsKey(name), strconv.Itoa(days))
	return fetch(m.d.queries, key, func(ctx context.Context) (*domain.ExerciseStats, error) {
		return api.ExerciseStats(ctx, name, days)
	}, func(v *domain.ExerciseStats, err error) tea.Msg {
		return exerciseStatsMsg{result: result{err}, name: name, days: days, stats: v}
	})
}

func (m profileModel) loadCategory() tea.Cmd {
	api, cat, days := m.d.api, domain.Categories[m.category], m.days()
	key := append(query.CategoryStatsKey(cat), strconv.Itoa(days))
	return fetch(m.d.queries, key, func(ctx context.Context) (*domain.CategoryStats, error) {
		return api.CategoryStats(ctx, cat, days)
	}, func(v *domain.CategoryStats, err error) tea.Msg {
		return categoryStatsMsg{result: result{err}, category: cat, days: days, stats: v}
	})
}

func (m profileModel) loadPlates(raw string) (profileModel, tea.Cmd) {
	w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || w <= 0 {
		m.platesErr = "enter a weight in kg, e.g. 102.5"
		return m, nil
	}
	m.platesErr = ""
	api := m.d.api
	return m, fetch(m.d.queries, query.PlatesKey(fmtWeight(w)), func(ctx context.Context) (*domain.PlateCalculation, error) {
		return api.CalculatePlates(ctx, w)
	}, func(v *domain.PlateCalculation, err error) tea.Msg {
		return platesMsg{result: result{err}, calc: v}
	})
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		if msg.err != nil {
			m.recordsErr = errText(msg.err, "failed to load records")
			return m, nil
		}
		m.recordsErr = ""
		m.records = msg.records

	case exercisesLoadedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.exercises = msg.names
		m.exCursor = min(m.exCursor, max(len(m.exercises)-1, 0))

	case exerciseStatsMsg:
		if msg.days != m.days() || m.exCursor >= len(m.exercises) || m.exercises[m.exCursor] != msg.name {
			return m, nil
		}
		if msg.err != nil {
			m.statsErr = errText(msg.err, "failed to load stats")
			m.exStats = nil
			return m, nil
		}
		m.statsErr = ""
		m.exStats = msg.stats

	case categoryStatsMsg:
		if m.category < 0 || msg.category != domain.Categories[m.category] || msg.days != m.days() {
			return m, nil
		}
		if msg.err != nil {
			m.statsErr = errText(msg.err, "failed to load stats")
			return m, nil
		}
		m.catStats = msg.stats

	case platesMsg:
		if msg.err != nil {
			m.platesErr = errText(msg.err, "failed to calculate plates")
			m.plates = nil
			return m, nil
		}
		m.plates = msg.calc

	case copyResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.status = "copied!"
		}

	case tea.KeyMsg:
		if m.d.user() == nil {
			return m, nil
		}
		key := msg.String()
		if m.platesOpen {
			switch key {
			case "enter":
				return m.loadPlates(m.platesInput)
			case "esc":
				m.platesOpen = false
				m.plates = nil
				m.platesErr = ""
			default:
				m.platesInput = editKey(m.platesInput, msg)
			}
			return m, nil
		}

		m.status = ""
		switch key {
		case "j", "down":
			if m.exCursor < len(m.exercises)-1 {
				m.exCursor++
				m.exStats = nil
			}
		case "k", "up":
			if m.exCursor > 0 {
				m.exCursor--
				m.exStats = nil
			}
		case "enter":
			return m, m.loadExercise()
		case "c":
			m.category = (m.category + 1) % len(domain.Categories)
			m.catStats = nil
			return m, m.loadCategory()
		case "t":
			m.window = (m.window + 1) % len(statWindows)
			cmds := []tea.Cmd{}
			if m.exStats != nil {
				m.exStats = nil
				cmds = append(cmds, m.loadExercise())
			}
			if m.category >= 0 {
				m.catStats = nil
				cmds = append(cmds, m.loadCategory())
			}
			return m, tea.Batch(cmds...)
		case "w":
			m.platesOpen = true
		case "y":
			if m.records != nil {
				text := recordsSummary(*m.records)
				return m, func() tea.Msg { return copyResultMsg{err: clipboard.WriteAll(text)} }
			}
		case "b":
			if err := browser.Open(m.d.webURL); err != nil {
				m.status = "could not open browser: " + err.Error()
			}
		case "o":
			return m, func() tea.Msg { return logoutMsg{} }
		}
	}
	return m, nil
}

func recordsSummary(r domain.PersonalRecords) string {
	var b strings.Builder
	b.WriteString("Personal records\n")
	for _, pr := range r.Records {
		fmt.Fprintf(&b, "- %s: %s kg, %d reps\n", pr.Exercise, fmtWeight(pr.MaxWeight), pr.MaxReps)
	}
	return b.String()
}

func (m profileModel) isEditing() bool {
	return m.platesOpen
}

func (m profileModel) View() string {
	return guard(m.d.user(), "view your profile", m.content)
}

func (m profileModel) content() string {
	u := m.d.user()
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Profile") + "\n")
	fmt.Fprintf(&b, " %s %s   %s %s\n\n",
		metaStyle.Render("email"), selectedStyle.Render(u.Email),
		metaStyle.Render("id"), normalStyle.Render(strconv.Itoa(u.ID)))

	b.WriteString(" " + sectionHeaderStyle.Render("Personal records") + "\n")
	switch {
	case m.recordsErr != "":
		b.WriteString("   " + errorStyle.Render(m.recordsErr) + "\n")
	case m.records == nil:
		b.WriteString("   " + dimStyle.Render("loading...") + "\n")
	case len(m.records.Records) == 0:
		b.WriteString("   " + dimStyle.Render("no records yet") + "\n")
	default:
		for _, pr := range m.records.Records {
			fmt.Fprintf(&b, "   %s %s  %s\n",
				prStyle.Render(padRight(pr.Exercise, 24)),
				CategoryStyle(pr.Category).Render(padRight(pr.Category, 10)),
				normalStyle.Render(fmt.Sprintf("%s kg . %d reps", fmtWeight(pr.MaxWeight), pr.MaxReps)))
		}
	}

	fmt.Fprintf(&b, "\n %s  %s\n", sectionHeaderStyle.Render("Exercise stats"), metaStyle.Render(fmt.Sprintf("last %d days", m.days())))
	if len(m.exercises) == 0 {
		b.WriteString("   " + dimStyle.Render("log a workout to see stats") + "\n")
	}
	for i, name := range m.exercises {
		cursor := " "
		label := normalStyle.Render(name)
		if i == m.exCursor {
			cursor = accentStyle.Render("▸")
			label = selectedStyle.Render(name)
		}
		b.WriteString("  " + cursor + " " + label + "\n")
		if i == m.exCursor && m.exStats != nil {
			s := m.exStats
			fmt.Fprintf(&b, "      %s\n", dimStyle.Render(fmt.Sprintf("avg %s kg . max %s kg . avg reps %.1f . %d sets",
				fmtWeight(s.AverageWeight), fmtWeight(s.MaxWeight), s.AverageReps, s.TotalSets)))
		}
	}
	if m.statsErr != "" {
		b.WriteString("   " + errorStyle.Render(m.statsErr) + "\n")
	}

	if m.category >= 0 {
		cat := domain.Categories[m.category]
		b.WriteString("\n " + CategoryStyle(cat).Render(cat) + "\n")
		switch {
		case m.catStats == nil:
			b.WriteString("   " + dimStyle.Render("loading...") + "\n")
		case len(m.catStats.Exercises) == 0:
			b.WriteString("   " + dimStyle.Render("nothing logged in this category") + "\n")
		default:
			for _, e := range m.catStats.Exercises {
				fmt.Fprintf(&b, "   %s %s\n", normalStyle.Render(padRight(e.Name, 24)),
					dimStyle.Render(fmt.Sprintf("PR %s kg . volume %s", fmtWeight(e.PersonalRecord), fmtVolume(e.TotalVolume))))
			}
		}
	}

	if m.platesOpen {
		b.WriteString("\n " + sectionHeaderStyle.Render("Plate calculator") + "\n")
		b.WriteString(renderInput("target kg", m.platesInput, "102.5", true, false) + "\n")
		if m.platesErr != "" {
			b.WriteString("   " + errorStyle.Render(m.platesErr) + "\n")
		}
		if p := m.plates; p != nil {
			plates := make([]string, len(p.PlatesPerSide))
			for i, w := range p.PlatesPerSide {
				plates[i] = fmtWeight(w)
			}
			fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render("per side"), selectedStyle.Render(strings.Join(plates, " + ")))
			line := fmt.Sprintf("bar %s kg . loaded %s kg", fmtWeight(p.BarWeight), fmtWeight(p.ActualWeight))
			if !p.Exact() {
				line += " (closest below target)"
			}
			b.WriteString("   " + dimStyle.Render(line) + "\n")
		}
	}
	if m.status != "" {
		b.WriteString("\n " + accentStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m profileModel) helpKeys() string {
	if m.platesOpen {
		return helpLine("enter", "calculate", "esc", "close")
	}
	return helpLine("j/k", "exercise", "enter", "stats", "c", "category", "t", "window", "w", "plates", "y", "copy PRs", "b", "web", "o", "log out")
}
