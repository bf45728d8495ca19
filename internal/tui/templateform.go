package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/form"
	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/pkg/domain"
)

type templateCreatedMsg struct {
	result
	template *domain.WorkoutTemplate
}

type templateFormModel struct {
	d          *deps
	header     *grid[domain.WorkoutTemplateCreate]
	exercises  *grid[domain.TemplateExerciseCreate]
	focus      int
	errs       form.Errors
	status     string
	submitting bool
}

func newTemplateFormModel(d *deps) templateFormModel {
	list := form.NewTemplateExerciseList()
	list.Add(form.NewTemplateExercise())
	return templateFormModel{
		d:      d,
		header: newRecordGrid(form.NewRecord(form.TemplateSchema, domain.WorkoutTemplateCreate{})),
		exercises: newGrid(list, func(int) domain.TemplateExerciseCreate { return form.NewTemplateExercise() },
			"exercise_name", "category", "sets", "reps", "weight", "notes"),
	}
}

func (m templateFormModel) editing() bool {
	return m.header.editing || m.exercises.editing
}

func (m templateFormModel) Update(msg tea.Msg) (templateFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case templateCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = "Failed to create template: " + errText(msg.err, "request failed")
			return m, nil
		}
		id := msg.template.ID
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
				m.focus = 1 - m.focus
				return m, nil
			case "esc":
				return m, func() tea.Msg { return closeFormMsg{} }
			}
		}
		if m.focus == 0 {
			m.header.handleMsg(msg)
		} else {
			m.exercises.handleMsg(msg)
		}
	}
	return m, nil
}

func (m templateFormModel) submit() (templateFormModel, tea.Cmd) {
	t := m.header.list.At(0)
	t.Name = strings.TrimSpace(t.Name)
	t.Exercises = m.exercises.list.Items()
	if err := m.d.validate.Struct(t); err != nil {
		var fe form.Errors
		if errors.As(err, &fe) {
			m.errs = fe
		}
		m.status = "Fix the highlighted fields"
		return m, nil
	}
	m.errs = nil
	m.status = ""
	m.submitting = true
	api := m.d.api
	return m, mutate(m.d.queries, func(ctx context.Context) (*domain.WorkoutTemplate, error) {
		return api.CreateTemplate(ctx, t)
	}, []query.Key{query.TemplatesKey()}, func(v *domain.WorkoutTemplate, err error) tea.Msg {
		return templateCreatedMsg{result: result{err}, template: v}
	})
}

func (m templateFormModel) View() string {
	return guard(m.d.user(), "create a template", func() string {
		var b strings.Builder
		b.WriteString(" " + titleStyle.Render("New Template") + "\n\n")
		b.WriteString(m.header.view(m.errs, "", m.focus == 0))
		b.WriteString("\n " + sectionHeaderStyle.Render("Exercises") + "\n")
		b.WriteString(m.exercises.view(m.errs, "exercises", m.focus == 1))
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

func (m templateFormModel) helpKeys() string {
	if m.editing() {
		return helpLine("enter", "set", "tab", "next field", "esc", "cancel edit")
	}
	return helpLine("enter", "edit", "ctrl+n", "add", "ctrl+x", "remove", "ctrl+k/j", "move", "tab", "section", "ctrl+s", "save", "esc", "cancel")
}
