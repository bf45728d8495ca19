package form

import (
	"time"

	"github.com/naveenspark/liftlog/pkg/domain"
)

// NewRecord returns a one-row list holding v, used for the header fields of
// a create screen.
func NewRecord[T any](schema Schema[T], v T) *List[T] {
	l := NewList(schema, nil)
	l.Add(v)
	return l
}

// WorkoutHeader is the session part of the new-workout screen. Date stays raw
// text until ValidateWorkoutDate parses it.
type WorkoutHeader struct {
	Date  string
	Notes string
}

func NewWorkoutHeader(now time.Time) WorkoutHeader {
	return WorkoutHeader{Date: now.Format("2006-01-02")}
}

var WorkoutHeaderSchema = Schema[WorkoutHeader]{
	{Name: "date", Label: "Date", Kind: String,
		Set: func(h *WorkoutHeader, v Value) { h.Date = v.S },
		Get: func(h WorkoutHeader) string { return h.Date }},
	{Name: "notes", Label: "Notes", Kind: String,
		Set: func(h *WorkoutHeader, v Value) { h.Notes = v.S },
		Get: func(h WorkoutHeader) string { return h.Notes }},
}

var ProgramSchema = Schema[domain.WorkoutProgramCreate]{
	{Name: "name", Label: "Name", Kind: String,
		Set: func(p *domain.WorkoutProgramCreate, v Value) { p.Name = v.S },
		Get: func(p domain.WorkoutProgramCreate) string { return p.Name }},
	{Name: "description", Label: "Description", Kind: String,
		Set: func(p *domain.WorkoutProgramCreate, v Value) { p.Description = v.S },
		Get: func(p domain.WorkoutProgramCreate) string { return p.Description }},
	{Name: "duration_weeks", Label: "Weeks", Kind: Int,
		Set: func(p *domain.WorkoutProgramCreate, v Value) { p.DurationWeeks = v.I },
		Get: func(p domain.WorkoutProgramCreate) string { return fmtInt(p.DurationWeeks) }},
	{Name: "is_public", Label: "Public", Kind: Bool,
		Set: func(p *domain.WorkoutProgramCreate, v Value) { p.IsPublic = v.B },
		Get: func(p domain.WorkoutProgramCreate) string { return fmtBool(p.IsPublic) }},
}

func NewProgram() domain.WorkoutProgramCreate {
	return domain.WorkoutProgramCreate{DurationWeeks: 4}
}

var TemplateSchema = Schema[domain.WorkoutTemplateCreate]{
	{Name: "name", Label: "Name", Kind: String,
		Set: func(t *domain.WorkoutTemplateCreate, v Value) { t.Name = v.S },
		Get: func(t domain.WorkoutTemplateCreate) string { return t.Name }},
	{Name: "description", Label: "Description", Kind: String,
		Set: func(t *domain.WorkoutTemplateCreate, v Value) { t.Description = v.S },
		Get: func(t domain.WorkoutTemplateCreate) string { return t.Description }},
}

var PlanSchema = Schema[domain.WorkoutPlanCreate]{
	{Name: "name", Label: "Name", Kind: String,
		Set: func(p *domain.WorkoutPlanCreate, v Value) { p.Name = v.S },
		Get: func(p domain.WorkoutPlanCreate) string { return p.Name }},
	{Name: "description", Label: "Description", Kind: String,
		Set: func(p *domain.WorkoutPlanCreate, v Value) { p.Description = v.S },
		Get: func(p domain.WorkoutPlanCreate) string { return p.Description }},
	{Name: "duration_weeks", Label: "Weeks", Kind: Int,
		Set: func(p *domain.WorkoutPlanCreate, v Value) { p.DurationWeeks = v.I },
		Get: func(p domain.WorkoutPlanCreate) string { return fmtInt(p.DurationWeeks) }},
	{Name: "days_per_week", Label: "Days/week", Kind: Int,
		Set: func(p *domain.WorkoutPlanCreate, v Value) { p.DaysPerWeek = v.I },
		Get: func(p domain.WorkoutPlanCreate) string { return fmtInt(p.DaysPerWeek) }},
}

func NewPlan() domain.WorkoutPlanCreate {
	return domain.WorkoutPlanCreate{DurationWeeks: 4, DaysPerWeek: 3}
}

// PlanFields returns p as a partial-update body.
func PlanFields(p domain.WorkoutPlanCreate) map[string]any {
	return map[string]any{
		"name":           p.Name,
		"description":    p.Description,
		"duration_weeks": p.DurationWeeks,
		"days_per_week":  p.DaysPerWeek,
	}
}
