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

type planSavedMsg struct {
	result
	plan *domain.WorkoutPlan
}

// planFormModel creates a plan, or edits one when editID is set.
type planFormModel struct {
	d          *deps
	editID     int
	fields     *grid[domain.WorkoutPlanCreate]
	errs       form.Errors
	status     string
	submitting bool
}

func newPlanFormModel(d *deps) planFormModel {
	return planFormModel{d: d, fields: newRecordGrid(form.NewRecord(form.PlanSchema, form.NewPlan()))}
}

func editPlanFormModel(d *deps, p domain.WorkoutPlan) planFormModel {
	v := domain.WorkoutPlanCreate{
		Name:          p.Name,
		Description:   p.Description,
		DurationWeeks: p.DurationWeeks,
		DaysPerWeek:   p.DaysPerWeek,
	}
	return planFormModel{d: d, editID: p.ID, fields: newRecordGrid(form.NewRecord(form.PlanSchema, v))}
}

func (m planFormModel) Update(msg tea.Msg) (planFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case planSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = "Failed to save plan: " + errText(msg.err, "request failed")
			return m, nil
		}
		id := msg.plan.ID
		return m, func() tea.Msg { return closeFormMsg{openID: id} }

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		key := msg.String()
		if !m.fields.editing {
			switch key {
			case "ctrl+s":
				return m.submit()
			case "esc":
				return m, func() tea.Msg { return closeFormMsg{openID: m.editID} }
			}
		}
		m.fields.handleMsg(msg)
	}
	return m, nil
}

func (m planFormModel) submit() (planFormModel, tea.Cmd) {
	p := m.fields.list.At(0)
	p.Name = strings.TrimSpace(p.Name)
	if err := m.d.validate.Struct(p); err != nil {
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

	api, id := m.d.api, m.editID
	keys := []query.Key{query.PlansKey(), query.PlanKey(id)}
	return m, mutate(m.d.queries, func(ctx context.Context) (*domain.WorkoutPlan, error) {
		if id != 0 {
			return api.UpdatePlan(ctx, id, form.PlanFields(p))
		}
		return api.CreatePlan(ctx, p)
	}, keys, func(v *domain.WorkoutPlan, err error) tea.Msg {
		return planSavedMsg{result: result{err}, plan: v}
	})
}

func (m planFormModel) View() string {
	title := "New Plan"
	if m.editID != 0 {
		title = "Edit Plan"
	}
	return guard(m.d.user(), "manage plans", func() string {
		var b strings.Builder
		b.WriteString(" " + titleStyle.Render(title) + "\n\n")
		b.WriteString(m.fields.view(m.errs, "", true))
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

func (m planFormModel) helpKeys() string {
	if m.fields.editing {
		return helpLine("enter", "set", "esc", "cancel edit")
	}
	return helpLine("j/k", "field", "enter", "edit", "ctrl+s", "save", "esc", "cancel")
}
