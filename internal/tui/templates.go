package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/form"
	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/pkg/domain"
)

type templatesLoadedMsg struct {
	result
	templates []domain.WorkoutTemplate
}

type templateLoadedMsg struct {
	result
	id       int
	template *domain.WorkoutTemplate
}

type templateActionMsg struct {
	result
	action  string
	deleted bool
}

// startFromTemplateMsg opens the new-workout form filled from a template.
type startFromTemplateMsg struct {
	template domain.WorkoutTemplate
}

type templatesModel struct {
	d          *deps
	detailMode bool
	templates  []domain.WorkoutTemplate
	cursor     int
	loading    bool
	err        string

	detailID  int
	detail    *domain.WorkoutTemplate
	detailErr string
	exCursor  int

	renaming bool
	name     string
	adding   *grid[domain.TemplateExerciseCreate]
	addErrs  form.Errors

	confirmDelete bool
	busy          bool
	status        string
}

func newTemplatesModel(d *deps) templatesModel {
	return templatesModel{d: d}
}

func (m templatesModel) Init() tea.Cmd {
	if m.d.user() == nil {
		return nil
	}
	if m.detailMode {
		return m.loadDetail()
	}
	return m.load()
}

func (m templatesModel) load() tea.Cmd {
	return fetch(m.d.queries, query.TemplatesKey(), m.d.api.ListTemplates, func(v []domain.WorkoutTemplate, err error) tea.Msg {
		return templatesLoadedMsg{result: result{err}, templates: v}
	})
}

func (m templatesModel) loadDetail() tea.Cmd {
	api, id := m.d.api, m.detailID
	return fetch(m.d.queries, query.TemplateKey(id), func(ctx context.Context) (*domain.WorkoutTemplate, error) {
		return api.GetTemplate(ctx, id)
	}, func(v *domain.WorkoutTemplate, err error) tea.Msg {
		return templateLoadedMsg{result: result{err}, id: id, template: v}
	})
}

func (m templatesModel) openDetail(id int) (templatesModel, tea.Cmd) {
	m.detailMode = true
	m.detailID = id
	m.detail = nil
	m.detailErr = ""
	m.exCursor = 0
	m.adding = nil
	m.renaming = false
	m.status = ""
	if m.d.user() == nil {
		return m, nil
	}
	return m, m.loadDetail()
}

func (m templatesModel) Update(msg tea.Msg) (templatesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case templatesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err, "failed to load templates")
			return m, nil
		}
		m.err = ""
		m.templates = msg.templates
		m.cursor = min(m.cursor, max(len(m.templates)-1, 0))

	case templateLoadedMsg:
		if msg.id != m.detailID {
			return m, nil
		}
		if msg.err != nil {
			m.detailErr = errText(msg.err, "request failed")
			return m, nil
		}
		m.detailErr = ""
		m.detail = msg.template
		m.exCursor = min(m.exCursor, max(len(m.detail.Exercises)-1, 0))

	case templateActionMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Failed to " + msg.action + ": " + errText(msg.err, "request failed")
			return m, nil
		}
		if msg.deleted {
			m.detailMode = false
			m.detail = nil
			m.status = "Template deleted"
			m.loading = true
			return m, m.load()
		}
		return m, m.loadDetail()

	case tea.KeyMsg:
		if m.d.user() == nil || m.busy {
			return m, nil
		}
		if m.detailMode {
			return m.updateDetail(msg)
		}
		return m.updateList(msg.String())
	}
	return m, nil
}

func (m templatesModel) updateList(key string) (templatesModel, tea.Cmd) {
	m.status = ""
	switch key {
	case "j", "down":
		if m.cursor < len(m.templates)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.templates) {
			return m.openDetail(m.templates[m.cursor].ID)
		}
	case "r":
		m.d.queries.Invalidate(context.Background(), query.TemplatesKey())
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m templatesModel) updateDetail(msg tea.KeyMsg) (templatesModel, tea.Cmd) {
	key := msg.String()
	switch {
	case m.renaming:
		return m.updateRename(msg)
	case m.adding != nil:
		return m.updateAdding(msg)
	case m.confirmDelete:
		m.confirmDelete = false
		m.status = ""
		if key == "y" {
			id := m.detailID
			return m.act("delete template", true, func(ctx context.Context) error {
				return m.d.api.DeleteTemplate(ctx, id)
			})
		}
		return m, nil
	}

	m.status = ""
	t := m.detail
	switch key {
	case "esc":
		m.detailMode = false
		m.detail = nil
		m.detailErr = ""
		return m, m.load()
	case "j", "down":
		if t != nil && m.exCursor < len(t.Exercises)-1 {
			m.exCursor++
		}
	case "k", "up":
		if m.exCursor > 0 {
			m.exCursor--
		}
	case "+", "=", "-":
		if t == nil || m.exCursor >= len(t.Exercises) {
			return m, nil
		}
		e := t.Exercises[m.exCursor]
		sets := e.Sets + 1
		if key == "-" {
			sets = e.Sets - 1
		}
		if sets < 1 || sets > 20 {
			m.status = "Sets must be between 1 and 20"
			return m, nil
		}
		tid, eid := m.detailID, e.ID
		return m.act("update sets", false, func(ctx context.Context) error {
			_, err := m.d.api.UpdateTemplateExercise(ctx, tid, eid, map[string]any{"sets": sets})
			return err
		})
	case "x":
		if t == nil || m.exCursor >= len(t.Exercises) {
			return m, nil
		}
		tid, eid := m.detailID, t.Exercises[m.exCursor].ID
		return m.act("remove exercise", false, func(ctx context.Context) error {
			return m.d.api.DeleteTemplateExercise(ctx, tid, eid)
		})
	case "a":
		if t != nil {
			list := form.NewTemplateExerciseList()
			list.Add(form.NewTemplateExercise())
			m.adding = newRecordGrid(list)
			m.addErrs = nil
		}
	case "e":
		if t != nil {
			m.renaming = true
			m.name = t.Name
		}
	case "s":
		if t != nil {
			tpl := *t
			return m, func() tea.Msg { return startFromTemplateMsg{template: tpl} }
		}
	case "d":
		if t != nil {
			m.confirmDelete = true
			m.status = "Delete this template? y to confirm"
		}
	case "r":
		m.d.queries.Invalidate(context.Background(), query.TemplateKey(m.detailID))
		return m, m.loadDetail()
	}
	return m, nil
}

func (m templatesModel) updateRename(msg tea.KeyMsg) (templatesModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.renaming = false
	case "enter":
		name := strings.TrimSpace(m.name)
		if len([]rune(name)) < 2 {
			m.status = "Name must be at least 2 characters"
			return m, nil
		}
		m.renaming = false
		id := m.detailID
		return m.act("rename template", false, func(ctx context.Context) error {
			_, err := m.d.api.UpdateTemplate(ctx, id, map[string]any{"name": name})
			return err
		})
	default:
		m.name = editKey(m.name, msg)
	}
	return m, nil
}

func (m templatesModel) updateAdding(msg tea.KeyMsg) (templatesModel, tea.Cmd) {
	key := msg.String()
	if !m.adding.editing {
		switch key {
		case "esc":
			m.adding = nil
			m.addErrs = nil
			return m, nil
		case "ctrl+s":
			e := m.adding.list.At(0)
			e.Order = len(m.detail.Exercises) + 1
			if err := m.d.validate.Struct(e); err != nil {
				var fe form.Errors
				if errors.As(err, &fe) {
					m.addErrs = fe
				}
				return m, nil
			}
			m.adding = nil
			m.addErrs = nil
			id := m.detailID
			return m.act("add exercise", false, func(ctx context.Context) error {
				_, err := m.d.api.AddTemplateExercise(ctx, id, e)
				return err
			})
		}
	}
	m.adding.handleMsg(msg)
	return m, nil
}

func (m templatesModel) act(action string, deleted bool, fn func(context.Context) error) (templatesModel, tea.Cmd) {
	m.busy = true
	keys := []query.Key{query.TemplatesKey(), query.TemplateKey(m.detailID)}
	return m, mutate(m.d.queries, none(fn), keys, func(_ struct{}, err error) tea.Msg {
		return templateActionMsg{result: result{err}, action: action, deleted: deleted}
	})
}

func (m templatesModel) isEditing() bool {
	return m.renaming || m.adding != nil
}

func (m templatesModel) View() string {
	if m.detailMode {
		return guard(m.d.user(), "view this template", m.detailView)
	}
	return guard(m.d.user(), "view your templates", m.listView)
}

func (m templatesModel) listView() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Templates") + "\n\n")
	switch {
	case m.loading && len(m.templates) == 0:
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render("Error loading templates: "+m.err) + "\n")
	case len(m.templates) == 0:
		b.WriteString(" " + dimStyle.Render("No templates yet. Press n to create one.") + "\n")
	}
	for i, t := range m.templates {
		cursor := " "
		name := normalStyle.Render(padRight(t.Name, 28))
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			name = selectedStyle.Render(padRight(t.Name, 28))
		}
		fmt.Fprintf(&b, " %s %s  %s\n", cursor, name,
			dimStyle.Render(fmt.Sprintf("%d exercises", len(t.Exercises))))
	}
	if m.status != "" {
		b.WriteString("\n " + accentStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m templatesModel) detailView() string {
	var b strings.Builder
	if m.detailErr != "" {
		b.WriteString(" " + errorStyle.Render("Error loading template: "+m.detailErr) + "\n\n")
		b.WriteString(" " + helpEntry("esc", "Back to Templates") + "\n")
		return b.String()
	}
	if m.detail == nil {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	t := m.detail
	if m.renaming {
		b.WriteString(renderInput("name", m.name, "", true, false) + "\n")
	} else {
		b.WriteString(" " + titleStyle.Render(t.Name) + "\n")
	}
	if t.Description != "" {
		b.WriteString(" " + dimStyle.Render(t.Description) + "\n")
	}
	b.WriteString("\n")
	if len(t.Exercises) == 0 {
		b.WriteString(" " + dimStyle.Render("no exercises yet, press a to add one") + "\n")
	}
	for i, e := range t.Exercises {
		cursor := " "
		name := normalStyle.Render(padRight(e.ExerciseName, 24))
		if i == m.exCursor {
			cursor = accentStyle.Render("▸")
			name = selectedStyle.Render(padRight(e.ExerciseName, 24))
		}
		sets := fmt.Sprintf("%d x %d", e.Sets, e.Reps)
		if e.Weight != nil {
			sets = setLine(e.Sets, e.Reps, *e.Weight)
		}
		fmt.Fprintf(&b, " %s %s %s  %s\n", cursor, name,
			CategoryStyle(e.Category).Render(padRight(e.Category, 10)), normalStyle.Render(sets))
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

func (m templatesModel) helpKeys() string {
	switch {
	case m.renaming:
		return helpLine("enter", "save", "esc", "cancel")
	case m.adding != nil && m.adding.editing:
		return helpLine("enter", "set", "esc", "cancel edit")
	case m.adding != nil:
		return helpLine("j/k", "field", "enter", "edit", "ctrl+s", "add", "esc", "cancel")
	case m.detailMode:
		return helpLine("j/k", "nav", "+/-", "sets", "a", "add", "x", "remove", "e", "rename", "s", "start workout", "d", "delete", "esc", "back")
	}
	return helpLine("j/k", "nav", "enter", "open", "n", "new", "r", "refresh", "q", "quit")
}
