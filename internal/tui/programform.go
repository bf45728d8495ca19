package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/form"
	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/pkg/domain"
)

type programCreatedMsg struct {
	result
	program *domain.WorkoutProgram
}

// exerciseLists holds one exercise list per workout row, index-aligned with
// the workouts grid.
type exerciseLists struct {
	lists []*form.List[domain.ProgramExerciseCreate]
}

func (s *exerciseLists) add() {
	s.lists = append(s.lists, form.NewProgramExerciseList())
}

func (s *exerciseLists) remove(i int) {
	s.lists = append(s.lists[:i], s.lists[i+1:]...)
}

func (s *exerciseLists) move(from, to int) {
	l := s.lists[from]
	s.lists = append(s.lists[:from], s.lists[from+1:]...)
	s.lists = append(s.lists[:to], append([]*form.List[domain.ProgramExerciseCreate]{l}, s.lists[to:]...)...)
}

type programFormModel struct {
	d          *deps
	header     *grid[domain.WorkoutProgramCreate]
	workouts   *grid[domain.ProgramWorkoutCreate]
	exercises  *exerciseLists
	exGrid     *grid[domain.ProgramExerciseCreate]
	exFor      int
	focus      int // 0 header, 1 workouts, 2 exercises of the selected workout
	errs       form.Errors
	status     string
	submitting bool
}

func newProgramFormModel(d *deps) programFormModel {
	ex := &exerciseLists{}
	workouts := newGrid(form.NewProgramWorkoutList(), form.NewProgramWorkout)
	workouts.list.Add(form.NewProgramWorkout(1))
	ex.add()
	workouts.onAdd = ex.add
	workouts.onRemove = ex.remove
	workouts.onMove = ex.move

	m := programFormModel{
		d:         d,
		header:    newRecordGrid(form.NewRecord(form.ProgramSchema, form.NewProgram())),
		workouts:  workouts,
		exercises: ex,
		exFor:     -1,
	}
	return m.syncExercises()
}

// syncExercises points the exercise grid at the selected workout's list.
func (m programFormModel) syncExercises() programFormModel {
	if m.workouts.list.Len() == 0 {
		m.exGrid = nil
		m.exFor = -1
		return m
	}
	row := m.workouts.row
	if m.exGrid != nil && m.exFor == row && m.exGrid.list == m.exercises.lists[row] {
		return m
	}
	m.exGrid = newGrid(m.exercises.lists[row], func(int) domain.ProgramExerciseCreate { return form.NewProgramExercise() },
		"exercise_name", "sets", "initial_reps", "target_reps", "initial_weight", "progression_strategy", "progression_value", "is_barbell_exercise")
	m.exFor = row
	return m
}

func (m programFormModel) editing() bool {
	return m.header.editing || m.workouts.editing || (m.exGrid != nil && m.exGrid.editing)
}

func (m programFormModel) Update(msg tea.Msg) (programFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case programCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = "Failed to create program: " + errText(msg.err, "request failed")
			return m, nil
		}
		id := msg.program.ID
		return m, func() tea.Msg { return closeFormMsg{openID: id} }

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		key := msg.String()
		if !m.editing() {
			switch key {
			case "ctrl+s":
				return m.submit()
			case "tab":
				m.focus = (m.focus + 1) % 3
				if m.focus == 2 && m.exGrid == nil {
					m.focus = 0
				}
				return m, nil
			case "esc":
				return m, func() tea.Msg { return closeFormMsg{} }
			}
		}
		switch m.focus {
		case 0:
			m.header.handleMsg(msg)
		case 1:
			m.workouts.handleMsg(msg)
			m = m.syncExercises()
		case 2:
			if m.exGrid != nil {
				m.exGrid.handleMsg(msg)
			}
		}
	}
	return m, nil
}

// build assembles the payload and validates it without any request.
func (m programFormModel) build() (domain.WorkoutProgramCreate, form.Errors) {
	p := m.header.list.At(0)
	p.Name = strings.TrimSpace(p.Name)
	p.Workouts = m.workouts.list.Items()
	for i := range p.Workouts {
		p.Workouts[i].Exercises = m.exercises.lists[i].Items()
	}

	errs := form.Errors{}
	if err := m.d.validate.Struct(p); err != nil {
		var fe form.Errors
		if !errors.As(err, &fe) {
			errs["name"] = err.Error()
			return p, errs
		}
		errs = fe
	}
	for i, w := range p.Workouts {
		if w.WeekNumber > p.DurationWeeks {
			errs["workouts["+strconv.Itoa(i)+"].week_number"] = "must be at most " + strconv.Itoa(p.DurationWeeks)
		}
	}
	return p, errs
}

func (m programFormModel) submit() (programFormModel, tea.Cmd) {
	p, errs := m.build()
	if len(errs) > 0 {
		m.errs = errs
		m.status = "Fix the highlighted fields"
		return m, nil
	}
	m.errs = nil
	m.status = ""
	m.submitting = true
	api := m.d.api
	return m, mutate(m.d.queries, func(ctx context.Context) (*domain.WorkoutProgram, error) {
		return api.CreateProgram(ctx, p)
	}, []query.Key{{"workout-programs"}}, func(v *domain.WorkoutProgram, err error) tea.Msg {
		return programCreatedMsg{result: result{err}, program: v}
	})
}

func (m programFormModel) View() string {
	return guard(m.d.user(), "create a program", func() string {
		var b strings.Builder
		b.WriteString(" " + titleStyle.Render("New Program") + "\n\n")
		b.WriteString(m.header.view(m.errs, "", m.focus == 0))
		b.WriteString("\n " + sectionHeaderStyle.Render("Workouts") + "\n")
		b.WriteString(m.workouts.view(m.errs, "workouts", m.focus == 1))
		if m.exGrid != nil {
			w := m.workouts.list.At(m.exFor)
			b.WriteString("\n " + sectionHeaderStyle.Render("Exercises for "+w.Name) + "\n")
			b.WriteString(m.exGrid.view(m.errs, "workouts["+strconv.Itoa(m.exFor)+"].exercises", m.focus == 2))
		}
		b.WriteString("\n")
		switch {
		case m.submitting:
			b.WriteString(" " + dimStyle.Render("saving...") + "\n")
		case m.status != "":
			b.WriteString(" " + errorStyle.Render(m.status) + "\n")
		}
		return b.String()
	})
}

func (m programFormModel) helpKeys() string {
	if m.editing() {
		return helpLine("enter", "set", "tab", "next field", "esc", "cancel edit")
	}
	return helpLine("enter", "edit", "ctrl+n", "add", "ctrl+x", "remove", "ctrl+k/j", "move", "tab", "section", "ctrl+s", "save", "esc", "cancel")
}
