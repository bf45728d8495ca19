package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/pkg/domain"
)

type plansLoadedMsg struct {
	result
	plans []domain.WorkoutPlan
}

type planLoadedMsg struct {
	result
	id   int
	plan *domain.WorkoutPlan
}

type planDeletedMsg struct {
	result
}

// editPlanMsg opens the plan form on an existing plan.
type editPlanMsg struct {
	plan domain.WorkoutPlan
}

type plansModel struct {
	d          *deps
	detailMode bool
	plans      []domain.WorkoutPlan
	cursor     int
	loading    bool
	err        string

	detailID  int
	detail    *domain.WorkoutPlan
	detailErr string

	confirmDelete bool
	status        string
}

func newPlansModel(d *deps) plansModel {
	return plansModel{d: d}
}

func (m plansModel) Init() tea.Cmd {
	if m.d.user() == nil {
		return nil
	}
	if m.detailMode {
		return m.loadDetail()
	}
	return m.load()
}

func (m plansModel) load() tea.Cmd {
	return fetch(m.d.queries, query.PlansKey(), m.d.api.ListPlans, func(v []domain.WorkoutPlan, err error) tea.Msg {
		return plansLoadedMsg{result: result{err}, plans: v}
	})
}

func (m plansModel) loadDetail() tea.Cmd {
	api, id := m.d.api, m.detailID
	return fetch(m.d.queries, query.PlanKey(id), func(ctx context.Context) (*domain.WorkoutPlan, error) {
		return api.GetPlan(ctx, id)
	}, func(v *domain.WorkoutPlan, err error) tea.Msg {
		return planLoadedMsg{result: result{err}, id: id, plan: v}
	})
}

func (m plansModel) openDetail(id int) (plansModel, tea.Cmd) {
	m.detailMode = true
	m.detailID = id
	m.detail = nil
	m.detailErr = ""
	m.status = ""
	if m.d.user() == nil {
		return m, nil
	}
	return m, m.loadDetail()
}

func (m plansModel) Update(msg tea.Msg) (plansModel, tea.Cmd) {
	switch msg := msg.(type) {
	case plansLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err, "failed to load plans")
			return m, nil
		}
		m.err = ""
		m.plans = msg.plans
		m.cursor = min(m.cursor, max(len(m.plans)-1, 0))

	case planLoadedMsg:
		if msg.id != m.detailID {
			return m, nil
		}
		if msg.err != nil {
			m.detailErr = errText(msg.err, "request failed")
			return m, nil
		}
		m.detailErr = ""
		m.detail = msg.plan

	case planDeletedMsg:
		if msg.err != nil {
			m.status = "Failed to delete plan: " + errText(msg.err, "request failed")
			return m, nil
		}
		m.detailMode = false
		m.detail = nil
		m.status = "Plan deleted"
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		if m.d.user() == nil {
			return m, nil
		}
		key := msg.String()
		if m.confirmDelete {
			m.confirmDelete = false
			m.status = ""
			if key == "y" {
				return m, m.deletePlan()
			}
			return m, nil
		}
		if m.detailMode {
			return m.updateDetail(key)
		}
		return m.updateList(key)
	}
	return m, nil
}

func (m plansModel) updateList(key string) (plansModel, tea.Cmd) {
	m.status = ""
	switch key {
	case "j", "down":
		if m.cursor < len(m.plans)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.plans) {
			return m.openDetail(m.plans[m.cursor].ID)
		}
	case "r":
		m.d.queries.Invalidate(context.Background(), query.PlansKey())
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m plansModel) updateDetail(key string) (plansModel, tea.Cmd) {
	m.status = ""
	switch key {
	case "esc":
		m.detailMode = false
		m.detail = nil
		m.detailErr = ""
		return m, m.load()
	case "e":
		if m.detail != nil {
			p := *m.detail
			return m, func() tea.Msg { return editPlanMsg{plan: p} }
		}
	case "d":
		if m.detail != nil {
			m.confirmDelete = true
			m.status = "Delete this plan? y to confirm"
		}
	case "r":
		m.d.queries.Invalidate(context.Background(), query.PlanKey(m.detailID))
		return m, m.loadDetail()
	}
	return m, nil
}

func (m plansModel) deletePlan() tea.Cmd {
	api, id := m.d.api, m.detailID
	return mutate(m.d.queries, none(func(ctx context.Context) error {
		return api.DeletePlan(ctx, id)
	}), []query.Key{query.PlansKey(), query.PlanKey(id)}, func(_ struct{}, err error) tea.Msg {
		return planDeletedMsg{result: result{err}}
	})
}

func (m plansModel) View() string {
	if m.detailMode {
		return guard(m.d.user(), "view this plan", m.detailView)
	}
	return guard(m.d.user(), "view your plans", m.listView)
}

func (m plansModel) listView() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Plans") + "\n\n")
	switch {
	case m.loading && len(m.plans) == 0:
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render("Error loading plans: "+m.err) + "\n")
	case len(m.plans) == 0:
		b.WriteString(" " + dimStyle.Render("No plans yet. Press n to create one.") + "\n")
	}
	for i, p := range m.plans {
		cursor := " "
		name := normalStyle.Render(padRight(p.Name, 28))
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			name = selectedStyle.Render(padRight(p.Name, 28))
		}
		fmt.Fprintf(&b, " %s %s  %s\n", cursor, name,
			dimStyle.Render(fmt.Sprintf("%d weeks . %d days/week", p.DurationWeeks, p.DaysPerWeek)))
	}
	if m.status != "" {
		b.WriteString("\n " + accentStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m plansModel) detailView() string {
	var b strings.Builder
	if m.detailErr != "" {
		b.WriteString(" " + errorStyle.Render("Error loading plan: "+m.detailErr) + "\n\n")
		b.WriteString(" " + helpEntry("esc", "Back to Plans") + "\n")
		return b.String()
	}
	if m.detail == nil {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	p := m.detail
	b.WriteString(" " + titleStyle.Render(p.Name) + "\n")
	if p.Description != "" {
		b.WriteString(" " + dimStyle.Render(p.Description) + "\n")
	}
	fmt.Fprintf(&b, "\n %s %s   %s %s   %s %s\n",
		metaStyle.Render("weeks"), selectedStyle.Render(fmt.Sprintf("%d", p.DurationWeeks)),
		metaStyle.Render("days/week"), selectedStyle.Render(fmt.Sprintf("%d", p.DaysPerWeek)),
		metaStyle.Render("sessions"), selectedStyle.Render(fmt.Sprintf("%d", p.DurationWeeks*p.DaysPerWeek)))
	if m.status != "" {
		b.WriteString("\n " + accentStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m plansModel) helpKeys() string {
	if m.detailMode {
		return helpLine("e", "edit", "d", "delete", "r", "refresh", "esc", "back")
	}
	return helpLine("j/k", "nav", "enter", "open", "n", "new", "r", "refresh", "q", "quit")
}
