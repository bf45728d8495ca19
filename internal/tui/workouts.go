package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/form"
	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/pkg/domain"
)

// -- messages --

type workoutsLoadedMsg struct {
	result
	sessions []domain.WorkoutSession
}

type workoutLoadedMsg struct {
	result
	id      int
	session *domain.WorkoutSession
}

type workoutDeletedMsg struct {
	result
	id int
}

type entryDeletedMsg struct {
	result
	sessionID int
}

type workoutUpdatedMsg struct {
	result
	id int
}

type entryUpdatedMsg struct {
	result
	sessionID int
}

type entriesLoadedMsg struct {
	result
	sessionID int
	entries   []domain.WorkoutEntry
}

// openWorkoutMsg asks the App to show a session on the Workouts tab.
type openWorkoutMsg struct {
	id int
}

// -- model --

type workoutsMode int

const (
	workoutsList workoutsMode = iota
	workoutsDetail
)

type workoutsModel struct {
	d        *deps
	mode     workoutsMode
	sessions []domain.WorkoutSession
	cursor   int
	loading  bool
	err      string

	// search by exercise name; searching is true while typing
	search    string
	searching bool

	detailID      int
	detail        *domain.WorkoutSession
	detailLoading bool
	detailErr     string
	entryCursor   int

	// notes is the session notes draft while editingNotes is set.
	notes        string
	editingNotes bool

	// entryEdit holds the selected entry while it is being edited inline.
	entryEdit *grid[domain.WorkoutEntryCreate]
	editEntry domain.WorkoutEntry
	editErrs  form.Errors

	confirmDelete bool
	status        string
	width         int
	height        int
}

func newWorkoutsModel(d *deps) workoutsModel {
	return workoutsModel{d: d}
}

func (m workoutsModel) Init() tea.Cmd {
	if m.d.user() == nil {
		return nil
	}
	if m.mode == workoutsDetail {
		return m.loadDetail()
	}
	return m.load()
}

func (m workoutsModel) load() tea.Cmd {
	api, qc := m.d.api, m.d.queries
	wrap := func(v []domain.WorkoutSession, err error) tea.Msg {
		return workoutsLoadedMsg{result: result{err}, sessions: v}
	}
	if m.search != "" {
		q := domain.WorkoutSearch{ExerciseName: m.search}
		return fetch(qc, query.WorkoutSearchKey("exercise", m.search), func(ctx context.Context) ([]domain.WorkoutSession, error) {
			return api.SearchWorkouts(ctx, q)
		}, wrap)
	}
	return fetch(qc, query.WorkoutsKey(), api.ListWorkouts, wrap)
}

func (m workoutsModel) loadDetail() tea.Cmd {
	api, qc, id := m.d.api, m.d.queries, m.detailID
	return fetch(qc, query.WorkoutKey(id), func(ctx context.Context) (*domain.WorkoutSession, error) {
		return api.GetWorkout(ctx, id)
	}, func(v *domain.WorkoutSession, err error) tea.Msg {
		return workoutLoadedMsg{result: result{err}, id: id, session: v}
	})
}

// openDetail switches to the detail of session id and fetches it. The fetch
// key follows the id, so a different id always triggers a new read.
func (m workoutsModel) openDetail(id int) (workoutsModel, tea.Cmd) {
	m.mode = workoutsDetail
	m.detailID = id
	m.detail = nil
	m.detailErr = ""
	m.entryCursor = 0
	m = m.stopEditing()
	m.confirmDelete = false
	m.status = ""
	if m.d.user() == nil {
		return m, nil
	}
	m.detailLoading = true
	return m, m.loadDetail()
}

// loadEntries re-reads only the entries of the open session.
func (m workoutsModel) loadEntries() tea.Cmd {
	api, qc, id := m.d.api, m.d.queries, m.detailID
	return fetch(qc, query.WorkoutEntriesKey(id), func(ctx context.Context) ([]domain.WorkoutEntry, error) {
		return api.ListEntries(ctx, id)
	}, func(v []domain.WorkoutEntry, err error) tea.Msg {
		return entriesLoadedMsg{result: result{err}, sessionID: id, entries: v}
	})
}

func (m workoutsModel) stopEditing() workoutsModel {
	m.editingNotes = false
	m.notes = ""
	m.entryEdit = nil
	m.editErrs = nil
	return m
}

func workoutKeys(uid, id int) []query.Key {
	return []query.Key{
		query.WorkoutsKey(), query.WorkoutKey(id), query.ExercisesKey(),
		query.PersonalRecordsKey(uid), {"stats"},
	}
}

func (m workoutsModel) Update(msg tea.Msg) (workoutsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case workoutsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err, "failed to load workouts")
			return m, nil
		}
		m.err = ""
		m.sessions = msg.sessions
		if m.cursor >= len(m.sessions) {
			m.cursor = max(len(m.sessions)-1, 0)
		}

	case workoutLoadedMsg:
		if msg.id != m.detailID {
			return m, nil
		}
		m.detailLoading = false
		if msg.err != nil {
			m.detailErr = errText(msg.err, "request failed")
			return m, nil
		}
		m.detailErr = ""
		m.detail = msg.session
		if m.entryCursor >= len(m.detail.Entries) {
			m.entryCursor = max(len(m.detail.Entries)-1, 0)
		}

	case workoutDeletedMsg:
		if msg.err != nil {
			m.status = "Failed to delete workout: " + errText(msg.err, "request failed")
			return m, nil
		}
		m.status = "Workout deleted"
		m.mode = workoutsList
		m.detail = nil
		m.loading = true
		return m, m.load()

	case entryDeletedMsg:
		if msg.err != nil {
			m.status = "Failed to delete entry: " + errText(msg.err, "request failed")
			return m, nil
		}
		m.status = "Entry deleted"
		if m.mode == workoutsDetail && msg.sessionID == m.detailID {
			return m, m.loadDetail()
		}

	case workoutUpdatedMsg:
		if msg.err != nil {
			m.status = "Failed to save notes: " + errText(msg.err, "request failed")
			return m, nil
		}
		m.status = "Notes saved"
		if m.mode == workoutsDetail && msg.id == m.detailID {
			return m, m.loadDetail()
		}

	case entryUpdatedMsg:
		if msg.err != nil {
			m.status = "Failed to update entry: " + errText(msg.err, "request failed")
			return m, nil
		}
		m.status = "Entry updated"
		if m.mode == workoutsDetail && msg.sessionID == m.detailID {
			return m, m.loadEntries()
		}

	case entriesLoadedMsg:
		if msg.sessionID != m.detailID || m.detail == nil {
			return m, nil
		}
		if msg.err != nil {
			m.status = "Failed to reload entries: " + errText(msg.err, "request failed")
			return m, nil
		}
		// the detail may be shared with the query cache
		s := *m.detail
		s.Entries = msg.entries
		m.detail = &s
		if m.entryCursor >= len(s.Entries) {
			m.entryCursor = max(len(s.Entries)-1, 0)
		}

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
		if m.mode == workoutsDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m workoutsModel) updateList(msg tea.KeyMsg) (workoutsModel, tea.Cmd) {
	key := msg.String()
	if m.searching {
		switch key {
		case "enter":
			m.searching = false
			m.search = strings.TrimSpace(m.search)
			m.cursor = 0
			m.loading = true
			return m, m.load()
		case "esc":
			m.searching = false
			m.search = ""
		default:
			m.search = editKey(m.search, msg)
		}
		return m, nil
	}

	if m.confirmDelete {
		m.confirmDelete = false
		if key == "y" && m.cursor < len(m.sessions) {
			return m, m.deleteWorkout(m.sessions[m.cursor].ID)
		}
		m.status = ""
		return m, nil
	}

	m.status = ""
	switch key {
	case "j", "down":
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.sessions) {
			return m.openDetail(m.sessions[m.cursor].ID)
		}
	case "/":
		m.searching = true
	case "x":
		if m.search != "" {
			m.search = ""
			m.loading = true
			return m, m.load()
		}
	case "d":
		if m.cursor < len(m.sessions) {
			m.confirmDelete = true
			m.status = "Delete this workout? y to confirm"
		}
	case "r":
		m.d.queries.Invalidate(context.Background(), query.WorkoutsKey())
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m workoutsModel) updateDetail(msg tea.KeyMsg) (workoutsModel, tea.Cmd) {
	key := msg.String()
	switch {
	case m.editingNotes:
		return m.updateNotes(msg)
	case m.entryEdit != nil:
		return m.updateEntryEdit(msg)
	}
	if m.confirmDelete {
		m.confirmDelete = false
		m.status = ""
		if key == "y" {
			return m, m.deleteWorkout(m.detailID)
		}
		return m, nil
	}

	m.status = ""
	switch key {
	case "esc":
		m.mode = workoutsList
		m.detail = nil
		m.detailErr = ""
		return m, m.load()
	case "j", "down":
		if m.detail != nil && m.entryCursor < len(m.detail.Entries)-1 {
			m.entryCursor++
		}
	case "k", "up":
		if m.entryCursor > 0 {
			m.entryCursor--
		}
	case "d":
		if m.detail != nil {
			m.confirmDelete = true
			m.status = "Delete this workout? y to confirm"
		}
	case "x":
		if m.detail != nil && m.entryCursor < len(m.detail.Entries) {
			return m, m.deleteEntry(m.detail.Entries[m.entryCursor].ID)
		}
	case "enter", "e":
		if m.detail != nil && m.entryCursor < len(m.detail.Entries) {
			e := m.detail.Entries[m.entryCursor]
			list := form.NewEntryList()
			list.Add(entryDraft(e))
			m.entryEdit = newRecordGrid(list)
			m.editEntry = e
			m.editErrs = nil
		}
	case "N":
		if m.detail != nil {
			m.editingNotes = true
			m.notes = m.detail.Notes
		}
	case "c":
		if m.detail != nil {
			text := workoutSummary(*m.detail)
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(text)}
			}
		}
	case "r":
		m.d.queries.Invalidate(context.Background(), query.WorkoutKey(m.detailID))
		m.detailLoading = true
		return m, m.loadDetail()
	}
	return m, nil
}

func (m workoutsModel) updateNotes(msg tea.KeyMsg) (workoutsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.stopEditing()
	case "enter", "ctrl+s":
		notes := strings.TrimSpace(m.notes)
		m = m.stopEditing()
		if notes == m.detail.Notes {
			return m, nil
		}
		return m, m.updateWorkout(domain.WorkoutSessionUpdate{Notes: &notes})
	default:
		m.notes = editKey(m.notes, msg)
	}
	return m, nil
}

func (m workoutsModel) updateEntryEdit(msg tea.KeyMsg) (workoutsModel, tea.Cmd) {
	if !m.entryEdit.editing {
		switch msg.String() {
		case "esc":
			m = m.stopEditing()
			return m, nil
		case "ctrl+s":
			draft := m.entryEdit.list.At(0)
			if err := m.d.validate.Struct(draft); err != nil {
				var fe form.Errors
				if errors.As(err, &fe) {
					m.editErrs = fe
				}
				return m, nil
			}
			orig := m.editEntry
			m = m.stopEditing()
			u, changed := entryChanges(orig, draft)
			if !changed {
				m.status = "No changes"
				return m, nil
			}
			return m, m.updateEntry(orig.ID, u)
		}
	}
	m.entryEdit.handleMsg(msg)
	return m, nil
}

// entryDraft seeds the edit form with the stored entry.
func entryDraft(e domain.WorkoutEntry) domain.WorkoutEntryCreate {
	return domain.WorkoutEntryCreate{
		ExerciseName: e.ExerciseName, Sets: e.Sets, Reps: e.Reps, Weight: e.Weight,
		Notes: e.Notes, Category: e.Category, Difficulty: e.Difficulty,
	}
}

// entryChanges builds a partial update carrying only the fields that differ.
func entryChanges(orig domain.WorkoutEntry, d domain.WorkoutEntryCreate) (domain.WorkoutEntryUpdate, bool) {
	var u domain.WorkoutEntryUpdate
	changed := false
	if d.ExerciseName != orig.ExerciseName {
		u.ExerciseName, changed = &d.ExerciseName, true
	}
	if d.Sets != orig.Sets {
		u.Sets, changed = &d.Sets, true
	}
	if d.Reps != orig.Reps {
		u.Reps, changed = &d.Reps, true
	}
	if d.Weight != orig.Weight {
		u.Weight, changed = &d.Weight, true
	}
	if d.Notes != orig.Notes {
		u.Notes, changed = &d.Notes, true
	}
	if d.Category != orig.Category {
		u.Category, changed = &d.Category, true
	}
	if d.Difficulty != orig.Difficulty {
		u.Difficulty, changed = &d.Difficulty, true
	}
	return u, changed
}

func (m workoutsModel) updateWorkout(u domain.WorkoutSessionUpdate) tea.Cmd {
	api, id := m.d.api, m.detailID
	uid := m.d.user().ID
	return mutate(m.d.queries, func(ctx context.Context) (*domain.WorkoutSession, error) {
		return api.UpdateWorkout(ctx, id, u)
	}, workoutKeys(uid, id), func(_ *domain.WorkoutSession, err error) tea.Msg {
		return workoutUpdatedMsg{result: result{err}, id: id}
	})
}

func (m workoutsModel) updateEntry(entryID int, u domain.WorkoutEntryUpdate) tea.Cmd {
	api, sid := m.d.api, m.detailID
	uid := m.d.user().ID
	return mutate(m.d.queries, func(ctx context.Context) (*domain.WorkoutEntry, error) {
		return api.UpdateEntry(ctx, sid, entryID, u)
	}, workoutKeys(uid, sid), func(_ *domain.WorkoutEntry, err error) tea.Msg {
		return entryUpdatedMsg{result: result{err}, sessionID: sid}
	})
}

func (m workoutsModel) deleteWorkout(id int) tea.Cmd {
	api := m.d.api
	uid := m.d.user().ID
	return mutate(m.d.queries, none(func(ctx context.Context) error {
		return api.DeleteWorkout(ctx, id)
	}), workoutKeys(uid, id), func(_ struct{}, err error) tea.Msg {
		return workoutDeletedMsg{result: result{err}, id: id}
	})
}

func (m workoutsModel) deleteEntry(entryID int) tea.Cmd {
	api, sid := m.d.api, m.detailID
	uid := m.d.user().ID
	return mutate(m.d.queries, none(func(ctx context.Context) error {
		return api.DeleteEntry(ctx, sid, entryID)
	}), workoutKeys(uid, sid), func(_ struct{}, err error) tea.Msg {
		return entryDeletedMsg{result: result{err}, sessionID: sid}
	})
}

func (m workoutsModel) isEditing() bool {
	return m.searching || m.editingNotes || m.entryEdit != nil
}

func (m workoutsModel) View() string {
	if m.mode == workoutsDetail {
		return guard(m.d.user(), "view this workout", m.detailView)
	}
	return guard(m.d.user(), "view your workouts", m.listView)
}

func (m workoutsModel) listView() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Workouts"))
	if m.search != "" || m.searching {
		b.WriteString("  " + renderInput("exercise", m.search, "", m.searching, false))
	}
	b.WriteString("\n\n")

	if m.loading && len(m.sessions) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("Error loading workouts: "+m.err) + "\n")
		return b.String()
	}
	if len(m.sessions) == 0 {
		if m.search != "" {
			b.WriteString(" " + dimStyle.Render("no workouts with "+m.search) + "\n")
		} else {
			b.WriteString(" " + dimStyle.Render("No workouts yet. Press n to log your first one.") + "\n")
		}
		return b.String()
	}

	now := m.d.now()
	for i, s := range m.sessions {
		cursor := " "
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
		}
		date := selectedStyle.Render(s.Date.ShortDate())
		if i != m.cursor {
			date = normalStyle.Render(s.Date.ShortDate())
		}
		names := make([]string, 0, len(s.Entries))
		for _, e := range s.Entries {
			names = append(names, e.ExerciseName)
		}
		fmt.Fprintf(&b, " %s %s  %s  %s  %s\n",
			cursor, date,
			metaStyle.Render(padRight(formatAgo(s.Date.Time, now), 10)),
			dimStyle.Render(fmt.Sprintf("%2d ex  %8s vol", len(s.Entries), fmtVolume(s.Volume()))),
			normalStyle.Render(truncStr(strings.Join(names, ", "), 40)),
		)
	}
	if m.status != "" {
		b.WriteString("\n " + accentStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m workoutsModel) detailView() string {
	var b strings.Builder
	if m.detailErr != "" {
		b.WriteString(" " + errorStyle.Render("Error loading workout: "+m.detailErr) + "\n\n")
		b.WriteString(" " + helpEntry("esc", "Back to Workouts") + "\n")
		return b.String()
	}
	if m.detail == nil {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	s := m.detail
	b.WriteString(" " + titleStyle.Render("Workout: "+s.Date.LongDate()) + "\n")
	switch {
	case m.editingNotes:
		b.WriteString(renderInput("notes", m.notes, "how did it go?", true, false) + "\n")
	case s.Notes != "":
		b.WriteString(" " + dimStyle.Render(s.Notes) + "\n")
	}
	b.WriteString("\n")

	if len(s.Entries) == 0 {
		b.WriteString(" " + dimStyle.Render("no exercises recorded") + "\n")
	}
	for i, e := range s.Entries {
		cursor := " "
		name := normalStyle.Render(padRight(e.ExerciseName, 24))
		if i == m.entryCursor {
			cursor = accentStyle.Render("▸")
			name = selectedStyle.Render(padRight(e.ExerciseName, 24))
		}
		row := fmt.Sprintf(" %s %s %s  %s", cursor, name,
			CategoryStyle(e.Category).Render(padRight(e.Category, 10)),
			normalStyle.Render(padRight(setLine(e.Sets, e.Reps, e.Weight), 16)))
		if e.Difficulty > 0 {
			row += "  " + difficultyStyle(e.Difficulty).Render(fmt.Sprintf("RPE %d", e.Difficulty))
		}
		b.WriteString(row + "\n")
		if e.Notes != "" && i == m.entryCursor {
			b.WriteString("     " + metaStyle.Render(e.Notes) + "\n")
		}
	}
	if m.entryEdit != nil {
		b.WriteString("\n " + sectionHeaderStyle.Render("Edit "+m.editEntry.ExerciseName) + "\n")
		b.WriteString(m.entryEdit.view(m.editErrs, "", true))
	}
	b.WriteString("\n " + metaStyle.Render("Total volume ") + selectedStyle.Render(fmtVolume(s.Volume())) + "\n")
	if m.status != "" {
		b.WriteString("\n " + accentStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m workoutsModel) helpKeys() string {
	switch {
	case m.mode == workoutsDetail && m.editingNotes:
		return helpLine("enter", "save", "esc", "cancel")
	case m.mode == workoutsDetail && m.entryEdit != nil && m.entryEdit.editing:
		return helpLine("enter", "set", "esc", "cancel edit")
	case m.mode == workoutsDetail && m.entryEdit != nil:
		return helpLine("j/k", "field", "enter", "edit", "ctrl+s", "save", "esc", "cancel")
	case m.mode == workoutsDetail:
		return helpLine("j/k", "nav", "e", "edit entry", "N", "notes", "x", "delete entry", "d", "delete", "c", "copy", "r", "refresh", "esc", "back")
	}
	if m.searching {
		return helpLine("enter", "search", "esc", "cancel")
	}
	return helpLine("j/k", "nav", "enter", "open", "n", "new", "/", "search", "d", "delete", "r", "refresh", "h", "help", "q", "quit")
}
