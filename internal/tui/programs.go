package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/form"
	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/pkg/domain"
)

type programsLoadedMsg struct {
	result
	publicOnly bool
	programs   []domain.WorkoutProgram
}

type programLoadedMsg struct {
	result
	id      int
	program *domain.WorkoutProgram
}

// programActionMsg reports a write on the open program; action names it for
// the status line ("assign program").
type programActionMsg struct {
	result
	action  string
	deleted bool
}

type programImportedMsg struct {
	result
	program *domain.WorkoutProgram
}

type programsModel struct {
	d          *deps
	detailMode bool
	publicOnly bool
	programs   []domain.WorkoutProgram
	cursor     int
	loading    bool
	err        string

	importing  bool
	importPath string

	detailID      int
	detail        *domain.WorkoutProgram
	detailErr     string
	progress      []domain.UserProgramProgress
	week          int
	workoutCursor int
	adding        *grid[domain.ProgramExerciseCreate]
	addErrs       form.Errors

	confirmDelete bool
	busy          bool
	status        string
}

func newProgramsModel(d *deps) programsModel {
	return programsModel{d: d, week: 1}
}

func (m programsModel) Init() tea.Cmd {
	if m.d.user() == nil {
		return nil
	}
	if m.detailMode {
		return m.loadDetail()
	}
	return m.load()
}

func (m programsModel) load() tea.Cmd {
	api, qc, pub := m.d.api, m.d.queries, m.publicOnly
	return fetch(qc, query.ProgramsKey(pub), func(ctx context.Context) ([]domain.WorkoutProgram, error) {
		return api.ListPrograms(ctx, pub)
	}, func(v []domain.WorkoutProgram, err error) tea.Msg {
		return programsLoadedMsg{result: result{err}, publicOnly: pub, programs: v}
	})
}

func (m programsModel) loadDetail() tea.Cmd {
	api, qc, id := m.d.api, m.d.queries, m.detailID
	return tea.Batch(
		fetch(qc, query.ProgramKey(id), func(ctx context.Context) (*domain.WorkoutProgram, error) {
			return api.GetProgram(ctx, id)
		}, func(v *domain.WorkoutProgram, err error) tea.Msg {
			return programLoadedMsg{result: result{err}, id: id, program: v}
		}),
		fetch(qc, query.ProgressKey(), api.ListProgress, func(v []domain.UserProgramProgress, err error) tea.Msg {
			return progressLoadedMsg{result: result{err}, progress: v}
		}),
	)
}

func (m programsModel) openDetail(id int) (programsModel, tea.Cmd) {
	m.detailMode = true
	m.detailID = id
	m.detail = nil
	m.detailErr = ""
	m.week = 1
	m.workoutCursor = 0
	m.adding = nil
	m.status = ""
	if m.d.user() == nil {
		return m, nil
	}
	return m, m.loadDetail()
}

// activeProgress returns the user's running progress on the open program.
func (m programsModel) activeProgress() *domain.UserProgramProgress {
	for i := range m.progress {
		if m.progress[i].ProgramID == m.detailID && m.progress[i].IsActive {
			return &m.progress[i]
		}
	}
	return nil
}

func (m programsModel) weekWorkouts() []domain.ProgramWorkout {
	if m.detail == nil {
		return nil
	}
	return m.detail.Week(m.week)
}

func programKeys(id int) []query.Key {
	return []query.Key{{"workout-programs"}, query.ProgramKey(id), query.ProgressKey()}
}

func (m programsModel) Update(msg tea.Msg) (programsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case programsLoadedMsg:
		if msg.publicOnly != m.publicOnly {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err, "failed to load programs")
			return m, nil
		}
		m.err = ""
		m.programs = msg.programs
		m.cursor = min(m.cursor, max(len(m.programs)-1, 0))

	case programLoadedMsg:
		if msg.id != m.detailID {
			return m, nil
		}
		if msg.err != nil {
			m.detailErr = errText(msg.err, "request failed")
			return m, nil
		}
		m.detailErr = ""
		m.detail = msg.program
		m.week = min(max(m.week, 1), max(m.detail.DurationWeeks, 1))

	case progressLoadedMsg:
		if msg.err == nil {
			m.progress = msg.progress
		}

	case programActionMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Failed to " + msg.action + ": " + errText(msg.err, "request failed")
			return m, nil
		}
		if msg.deleted {
			m.detailMode = false
			m.detail = nil
			m.status = "Program deleted"
			m.loading = true
			return m, m.load()
		}
		m.status = "Done: " + msg.action
		return m, m.loadDetail()

	case programImportedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Failed to import program: " + errText(msg.err, "request failed")
			return m, nil
		}
		return m.openDetail(msg.program.ID)

	case copyResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.status = "copied!"
		}

	case tea.KeyMsg:
		if m.d.user() == nil || m.busy {
			return m, nil
		}
		if m.detailMode {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m programsModel) updateList(msg tea.KeyMsg) (programsModel, tea.Cmd) {
	key := msg.String()
	if m.importing {
		switch key {
		case "enter":
			m.importing = false
			path := strings.TrimSpace(m.importPath)
			if path == "" {
				return m, nil
			}
			m.busy = true
			m.status = "importing " + filepath.Base(path) + "..."
			return m, m.importCSV(path)
		case "esc":
			m.importing = false
			m.importPath = ""
		default:
			m.importPath = editKey(m.importPath, msg)
		}
		return m, nil
	}

	m.status = ""
	switch key {
	case "j", "down":
		if m.cursor < len(m.programs)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.programs) {
			return m.openDetail(m.programs[m.cursor].ID)
		}
	case "p":
		m.publicOnly = !m.publicOnly
		m.cursor = 0
		m.loading = true
		return m, m.load()
	case "i":
		m.importing = true
	case "r":
		m.d.queries.Invalidate(context.Background(), query.Key{"workout-programs"})
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m programsModel) importCSV(path string) tea.Cmd {
	api := m.d.api
	return mutate(m.d.queries, func(ctx context.Context) (*domain.WorkoutProgram, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close() //nolint:errcheck // best-effort close
		return api.ImportProgramCSV(ctx, filepath.Base(path), f)
	}, []query.Key{{"workout-programs"}}, func(p *domain.WorkoutProgram, err error) tea.Msg {
		return programImportedMsg{result: result{err}, program: p}
	})
}

func (m programsModel) updateDetail(msg tea.KeyMsg) (programsModel, tea.Cmd) {
	key := msg.String()
	if m.adding != nil {
		return m.updateAdding(msg)
	}
	if m.confirmDelete {
		m.confirmDelete = false
		m.status = ""
		if key == "y" {
			return m.act("delete program", true, none(func(ctx context.Context) error {
				return m.d.api.DeleteProgram(ctx, m.detailID)
			}))
		}
		return m, nil
	}

	m.status = ""
	p := m.detail
	switch key {
	case "esc":
		m.detailMode = false
		m.detail = nil
		m.detailErr = ""
		return m, m.load()
	case "left":
		if m.week > 1 {
			m.week--
			m.workoutCursor = 0
		}
	case "right":
		if p != nil && m.week < p.DurationWeeks {
			m.week++
			m.workoutCursor = 0
		}
	case "j", "down":
		if m.workoutCursor < len(m.weekWorkouts())-1 {
			m.workoutCursor++
		}
	case "k", "up":
		if m.workoutCursor > 0 {
			m.workoutCursor--
		}
	case "a":
		if p == nil {
			return m, nil
		}
		if m.activeProgress() != nil {
			m.status = "You are already following this program"
			return m, nil
		}
		id := m.detailID
		return m.act("assign program", false, func(ctx context.Context) (struct{}, error) {
			_, err := m.d.api.AssignProgram(ctx, id)
			return struct{}{}, err
		})
	case "]":
		pr := m.activeProgress()
		if p == nil || pr == nil {
			m.status = "Assign the program first (a)"
			return m, nil
		}
		return m.updateProgress("advance program", pr.ID, p.Advance(*pr))
	case "s":
		pr := m.activeProgress()
		if pr == nil {
			return m, nil
		}
		stop := false
		return m.updateProgress("stop program", pr.ID, domain.ProgressUpdate{IsActive: &stop})
	case "u":
		if p == nil || p.CreatorID != m.d.user().ID {
			m.status = "Only the creator can change visibility"
			return m, nil
		}
		id, pub := p.ID, !p.IsPublic
		return m.act("change visibility", false, func(ctx context.Context) (struct{}, error) {
			_, err := m.d.api.UpdateProgram(ctx, id, map[string]any{"is_public": pub})
			return struct{}{}, err
		})
	case "d":
		if p != nil {
			m.confirmDelete = true
			m.status = "Delete this program? y to confirm"
		}
	case "e":
		if len(m.weekWorkouts()) == 0 {
			m.status = "No workout selected"
			return m, nil
		}
		list := form.NewProgramExerciseList()
		list.Add(form.NewProgramExercise())
		m.adding = newRecordGrid(list)
		m.addErrs = nil
	case "c":
		if p != nil {
			text := programSummary(*p)
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(text)}
			}
		}
	case "r":
		m.d.queries.Invalidate(context.Background(), programKeys(m.detailID)...)
		return m, m.loadDetail()
	}
	return m, nil
}

func (m programsModel) updateAdding(msg tea.KeyMsg) (programsModel, tea.Cmd) {
	key := msg.String()
	if !m.adding.editing {
		switch key {
		case "esc":
			m.adding = nil
			m.addErrs = nil
			return m, nil
		case "ctrl+s":
			e := m.adding.list.At(0)
			e.Order = len(m.weekWorkouts()[m.workoutCursor].Exercises) + 1
			if err := m.d.validate.Struct(e); err != nil {
				var fe form.Errors
				if errors.As(err, &fe) {
					m.addErrs = fe
				}
				return m, nil
			}
			wid := m.weekWorkouts()[m.workoutCursor].ID
			m.adding = nil
			m.addErrs = nil
			return m.act("add exercise", false, func(ctx context.Context) (struct{}, error) {
				_, err := m.d.api.AddProgramExercise(ctx, wid, e)
				return struct{}{}, err
			})
		}
	}
	m.adding.handleMsg(msg)
	return m, nil
}

func (m programsModel) updateProgress(action string, progressID int, u domain.ProgressUpdate) (programsModel, tea.Cmd) {
	return m.act(action, false, func(ctx context.Context) (struct{}, error) {
		_, err := m.d.api.UpdateProgress(ctx, progressID, u)
		return struct{}{}, err
	})
}

func (m programsModel) act(action string, deleted bool, fn func(context.Context) (struct{}, error)) (programsModel, tea.Cmd) {
	m.busy = true
	return m, mutate(m.d.queries, fn, programKeys(m.detailID), func(_ struct{}, err error) tea.Msg {
		return programActionMsg{result: result{err}, action: action, deleted: deleted}
	})
}

// programSummary is the plain-text program shared via the clipboard.
func programSummary(p domain.WorkoutProgram) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d weeks)\n", p.Name, p.DurationWeeks)
	if p.Description != "" {
		b.WriteString(p.Description + "\n")
	}
	for week := 1; week <= p.DurationWeeks; week++ {
		for _, w := range p.Week(week) {
			fmt.Fprintf(&b, "\nWeek %d Day %d: %s\n", week, w.DayNumber, w.Name)
			for _, e := range w.Exercises {
				fmt.Fprintf(&b, "- %s: %d x %d-%d @ %s\n", e.ExerciseName, e.Sets, e.InitialReps, e.TargetReps, fmtWeight(e.InitialWeight))
			}
		}
	}
	return b.String()
}

func progressionText(e domain.ProgramExercise) string {
	unit := "kg"
	if e.ProgressionStrategy == domain.ProgressionReps {
		unit = "reps"
	}
	every := "session"
	if e.ProgressionFrequency > 1 {
		every = fmt.Sprintf("%d sessions", e.ProgressionFrequency)
	}
	return fmt.Sprintf("+%s %s per %s", fmtWeight(e.ProgressionValue), unit, every)
}

func (m programsModel) isEditing() bool {
	return m.importing || (m.adding != nil)
}

func (m programsModel) View() string {
	if m.detailMode {
		return guard(m.d.user(), "view this program", m.detailView)
	}
	return guard(m.d.user(), "browse programs", m.listView)
}

func (m programsModel) listView() string {
	var b strings.Builder
	scope := "all"
	if m.publicOnly {
		scope = "public"
	}
	b.WriteString(" " + titleStyle.Render("Programs") + "  " + metaStyle.Render(scope) + "\n")
	if m.importing {
		b.WriteString(renderInput("csv file", m.importPath, "path/to/program.csv", true, false) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.loading && len(m.programs) == 0:
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render("Error loading programs: "+m.err) + "\n")
	case len(m.programs) == 0:
		b.WriteString(" " + dimStyle.Render("No programs yet. Press n to build one or i to import a CSV.") + "\n")
	}
	uid := m.d.user().ID
	for i, p := range m.programs {
		cursor := " "
		name := normalStyle.Render(padRight(p.Name, 28))
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			name = selectedStyle.Render(padRight(p.Name, 28))
		}
		tags := []string{fmt.Sprintf("%d weeks", p.DurationWeeks), fmt.Sprintf("%d workouts", len(p.Workouts))}
		if p.IsPublic {
			tags = append(tags, "public")
		}
		if p.CreatorID == uid {
			tags = append(tags, "yours")
		}
		fmt.Fprintf(&b, " %s %s  %s\n", cursor, name, dimStyle.Render(strings.Join(tags, " . ")))
	}
	if m.status != "" {
		b.WriteString("\n " + accentStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m programsModel) detailView() string {
	var b strings.Builder
	if m.detailErr != "" {
		b.WriteString(" " + errorStyle.Render("Error loading program: "+m.detailErr) + "\n\n")
		b.WriteString(" " + helpEntry("esc", "Back to Programs") + "\n")
		return b.String()
	}
	if m.detail == nil {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	p := m.detail
	b.WriteString(" " + titleStyle.Render(p.Name) + "  " + metaStyle.Render(fmt.Sprintf("%d weeks", p.DurationWeeks)) + "\n")
	if p.Description != "" {
		b.WriteString(" " + dimStyle.Render(p.Description) + "\n")
	}
	if pr := m.activeProgress(); pr != nil {
		b.WriteString(" " + successStyle.Render(fmt.Sprintf("Following: week %d, day %d", pr.CurrentWeek, pr.CurrentDay)) + "\n")
	}
	b.WriteString("\n ")
	for w := 1; w <= p.DurationWeeks; w++ {
		label := fmt.Sprintf("W%d", w)
		if w == m.week {
			b.WriteString(selectedStyle.Underline(true).Render(label) + " ")
		} else {
			b.WriteString(dimStyle.Render(label) + " ")
		}
	}
	b.WriteString("\n\n")

	workouts := m.weekWorkouts()
	if len(workouts) == 0 {
		b.WriteString(" " + dimStyle.Render(fmt.Sprintf("No workouts scheduled for week %d", m.week)) + "\n")
	}
	for i, w := range workouts {
		cursor := " "
		title := sectionHeaderStyle.Render(fmt.Sprintf("Day %d  %s", w.DayNumber, w.Name))
		if i == m.workoutCursor {
			cursor = accentStyle.Render("▸")
		}
		b.WriteString(" " + cursor + " " + title + "\n")
		for _, e := range w.Exercises {
			fmt.Fprintf(&b, "     %s %s  %s\n",
				normalStyle.Render(padRight(e.ExerciseName, 22)),
				metaStyle.Render(padRight(fmt.Sprintf("%d x %d-%d @ %s", e.Sets, e.InitialReps, e.TargetReps, fmtWeight(e.InitialWeight)), 20)),
				dimStyle.Render(progressionText(e)))
		}
	}

	if m.adding != nil {
		b.WriteString("\n " + sectionHeaderStyle.Render("Add exercise") + "\n")
		b.WriteString(m.adding.view(m.addErrs, "", true))
	}
	if m.busy {
		b.WriteString("\n " + dimStyle.Render("saving...") + "\n")
	} else if m.status != "" {
		b.WriteString("\n " + accentStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m programsModel) helpKeys() string {
	switch {
	case m.adding != nil && m.adding.editing:
		return helpLine("enter", "set", "esc", "cancel edit")
	case m.adding != nil:
		return helpLine("j/k", "field", "enter", "edit", "ctrl+s", "add", "esc", "cancel")
	case m.importing:
		return helpLine("enter", "import", "esc", "cancel")
	case m.detailMode:
		return helpLine("←/→", "week", "j/k", "workout", "a", "start", "]", "next day", "s", "stop", "e", "add exercise", "u", "public", "c", "copy", "d", "delete", "esc", "back")
	}
	return helpLine("j/k", "nav", "enter", "open", "n", "new", "p", "public/all", "i", "import csv", "r", "refresh", "q", "quit")
}
