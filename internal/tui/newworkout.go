package tui

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/form"
	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/internal/workflow"
	"github.com/naveenspark/liftlog/pkg/domain"
)

type workoutCreatedMsg struct {
	result
	res *workflow.CreateWorkoutResult
}

// closeFormMsg returns from a create screen to its list, optionally opening
// the record that was just created.
type closeFormMsg struct {
	openID int
}

type newWorkoutModel struct {
	d          *deps
	header     *grid[form.WorkoutHeader]
	entries    *grid[domain.WorkoutEntryCreate]
	focus      int // 0 header, 1 entries
	errs       form.Errors
	status     string
	submitting bool
}

func newNewWorkoutModel(d *deps) newWorkoutModel {
	list := form.NewEntryList()
	list.Add(form.NewEntry())
	return newWorkoutModel{
		d:      d,
		header: newRecordGrid(form.NewRecord(form.WorkoutHeaderSchema, form.NewWorkoutHeader(d.now()))),
		entries: newGrid(list, func(int) domain.WorkoutEntryCreate { return form.NewEntry() },
			"exercise_name", "category", "sets", "reps", "weight", "difficulty", "notes"),
		focus: 1,
	}
}

// newWorkoutFromTemplate pre-fills one entry per template exercise.
func newWorkoutFromTemplate(d *deps, t domain.WorkoutTemplate) newWorkoutModel {
	m := newNewWorkoutModel(d)
	if len(t.Exercises) == 0 {
		return m
	}
	list := m.entries.list
	list.Remove(0) //nolint:errcheck // the form starts with one row
	for _, e := range t.Exercises {
		entry := form.NewEntry()
		entry.ExerciseName = e.ExerciseName
		entry.Category = e.Category
		entry.Sets = e.Sets
		entry.Reps = e.Reps
		entry.Notes = e.Notes
		if e.Weight != nil {
			entry.Weight = *e.Weight
		}
		list.Add(entry)
	}
	m.header.list.Update(0, "notes", t.Name) //nolint:errcheck // known field
	return m
}

func (m newWorkoutModel) editing() bool {
	return m.header.editing || m.entries.editing
}

func (m newWorkoutModel) Update(msg tea.Msg) (newWorkoutModel, tea.Cmd) {
	switch msg := msg.(type) {
	case workoutCreatedMsg:
		m.submitting = false
		if msg.err == nil {
			id := msg.res.Session.ID
			return m, func() tea.Msg { return closeFormMsg{openID: id} }
		}
		m.status = createWorkoutFailure(msg.err)

	case tea.KeyMsg:
		key := msg.String()
		if m.submitting {
			return m, nil
		}
		if !m.editing() {
			switch key {
			case "ctrl+s":
				return m.submit()
			case "tab":
				m.focus = 1 - m.focus
				return m, nil
			case "esc":
				return m, func() tea.Msg { return closeFormMsg{} }
			}
		}
		if m.focus == 0 {
			m.header.handleMsg(msg)
		} else {
			m.entries.handleMsg(msg)
		}
	}
	return m, nil
}

// createWorkoutFailure names the step that failed and what was already saved.
func createWorkoutFailure(err error) string {
	var se *workflow.StepError
	if !errors.As(err, &se) {
		return "Failed to create workout: " + errText(err, "request failed")
	}
	msg := fmt.Sprintf("Failed to %s: %s", se.Step, errText(se.Err, "request failed"))
	switch {
	case len(se.RolledBack) > 0:
		msg += " (changes were undone)"
	case len(se.Completed) > 0:
		msg += " (saved: " + strings.Join(se.Completed, ", ") + ")"
	}
	return msg
}

// validate checks the date and every entry; it performs no request.
func (m newWorkoutModel) validate() (domain.WorkoutSessionCreate, []domain.WorkoutEntryCreate, form.Errors) {
	errs := form.Errors{}
	h := m.header.list.At(0)

	sess := domain.WorkoutSessionCreate{UserID: m.d.user().ID, Notes: strings.TrimSpace(h.Notes)}
	ts, err := form.ValidateWorkoutDate(h.Date, m.d.now())
	var fe form.Errors
	if errors.As(err, &fe) {
		maps.Copy(errs, fe)
	} else {
		sess.Date = &ts
	}
	if len(sess.Notes) > 500 {
		errs["notes"] = "must be at most 500 characters"
	}

	entries := m.entries.list.Items()
	if len(entries) == 0 {
		errs["entries"] = "add at least one exercise"
	}
	for i, e := range entries {
		if err := m.d.validate.Struct(e); err != nil {
			if errors.As(err, &fe) {
				for k, v := range fe {
					errs["entries["+strconv.Itoa(i)+"]."+k] = v
				}
			}
		}
	}
	return sess, entries, errs
}

func (m newWorkoutModel) submit() (newWorkoutModel, tea.Cmd) {
	sess, entries, errs := m.validate()
	if len(errs) > 0 {
		m.errs = errs
		m.status = "Fix the highlighted fields"
		return m, nil
	}
	m.errs = nil
	m.status = ""
	m.submitting = true

	d := m.d
	in := workflow.CreateWorkoutInput{Session: sess, Entries: entries}
	wd := workflow.CreateWorkoutDeps{API: d.api, Rollback: d.rollback, Log: d.log}
	uid := d.user().ID
	qc := d.queries
	return m, func() tea.Msg {
		res, err := query.Mutate(context.Background(), qc, func(ctx context.Context) (*workflow.CreateWorkoutResult, error) {
			return workflow.ExecuteCreateWorkout(ctx, in, wd)
		}, query.Mutation[*workflow.CreateWorkoutResult]{
			Invalidates: workoutKeys(uid, 0),
			OnError: func(error) {
				// a partial session may exist
				qc.Invalidate(context.Background(), query.WorkoutsKey())
			},
		})
		return workoutCreatedMsg{result: result{err}, res: res}
	}
}

func (m newWorkoutModel) View() string {
	return guard(m.d.user(), "log a workout", func() string {
		var b strings.Builder
		b.WriteString(" " + titleStyle.Render("New Workout") + "\n\n")
		b.WriteString(m.header.view(m.errs, "", m.focus == 0))
		b.WriteString("\n " + sectionHeaderStyle.Render("Exercises") + "\n")
		b.WriteString(m.entries.view(m.errs, "entries", m.focus == 1))
		if msg, ok := m.errs["entries"]; ok {
			b.WriteString(" " + errorStyle.Render(msg) + "\n")
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

func (m newWorkoutModel) helpKeys() string {
	if m.editing() {
		return helpLine("enter", "set", "tab", "next field", "esc", "cancel edit")
	}
	return helpLine("enter", "edit", "ctrl+n", "add", "ctrl+x", "remove", "tab", "section", "ctrl+s", "save", "esc", "cancel")
}
