package form

import "github.com/naveenspark/liftlog/pkg/domain"

// NewEntry is the blank workout entry offered by "add exercise".
func NewEntry() domain.WorkoutEntryCreate {
	return domain.WorkoutEntryCreate{Sets: 3, Reps: 10, Weight: 0, Difficulty: 5}
}

// EntrySchema is the field table of a workout entry row.
var EntrySchema = Schema[domain.WorkoutEntryCreate]{
	{Name: "exercise_name", Label: "Exercise", Kind: String,
		Set: func(e *domain.WorkoutEntryCreate, v Value) { e.ExerciseName = v.S },
		Get: func(e domain.WorkoutEntryCreate) string { return e.ExerciseName }},
	{Name: "category", Label: "Category", Kind: String,
		Set: func(e *domain.WorkoutEntryCreate, v Value) { e.Category = v.S },
		Get: func(e domain.WorkoutEntryCreate) string { return e.Category }},
	{Name: "sets", Label: "Sets", Kind: Int,
		Set: func(e *domain.WorkoutEntryCreate, v Value) { e.Sets = v.I },
		Get: func(e domain.WorkoutEntryCreate) string { return fmtInt(e.Sets) }},
	{Name: "reps", Label: "Reps", Kind: Int,
		Set: func(e *domain.WorkoutEntryCreate, v Value) { e.Reps = v.I },
		Get: func(e domain.WorkoutEntryCreate) string { return fmtInt(e.Reps) }},
	{Name: "weight", Label: "Weight", Kind: Float,
		Set: func(e *domain.WorkoutEntryCreate, v Value) { e.Weight = v.F },
		Get: func(e domain.WorkoutEntryCreate) string { return fmtFloat(e.Weight) }},
	{Name: "difficulty", Label: "Difficulty", Kind: Int,
		Set: func(e *domain.WorkoutEntryCreate, v Value) { e.Difficulty = v.I },
		Get: func(e domain.WorkoutEntryCreate) string { return fmtInt(e.Difficulty) }},
	{Name: "notes", Label: "Notes", Kind: String,
		Set: func(e *domain.WorkoutEntryCreate, v Value) { e.Notes = v.S },
		Get: func(e domain.WorkoutEntryCreate) string { return e.Notes }},
}

// NewEntryList returns a workout entry list. Workout entries carry no order
// field; the server keeps insertion order.
func NewEntryList() *List[domain.WorkoutEntryCreate] {
	return NewList(EntrySchema, nil)
}

// NewTemplateExercise is the blank template exercise row.
func NewTemplateExercise() domain.TemplateExerciseCreate {
	return domain.TemplateExerciseCreate{Sets: 3, Reps: 10, Category: "Other"}
}

var TemplateExerciseSchema = Schema[domain.TemplateExerciseCreate]{
	{Name: "exercise_name", Label: "Exercise", Kind: String,
		Set: func(e *domain.TemplateExerciseCreate, v Value) { e.ExerciseName = v.S },
		Get: func(e domain.TemplateExerciseCreate) string { return e.ExerciseName }},
	{Name: "category", Label: "Category", Kind: String,
		Set: func(e *domain.TemplateExerciseCreate, v Value) { e.Category = v.S },
		Get: func(e domain.TemplateExerciseCreate) string { return e.Category }},
	{Name: "sets", Label: "Sets", Kind: Int,
		Set: func(e *domain.TemplateExerciseCreate, v Value) { e.Sets = v.I },
		Get: func(e domain.TemplateExerciseCreate) string { return fmtInt(e.Sets) }},
	{Name: "reps", Label: "Reps", Kind: Int,
		Set: func(e *domain.TemplateExerciseCreate, v Value) { e.Reps = v.I },
		Get: func(e domain.TemplateExerciseCreate) string { return fmtInt(e.Reps) }},
	{Name: "weight", Label: "Weight", Kind: Float,
		Set: func(e *domain.TemplateExerciseCreate, v Value) {
			w := v.F
			e.Weight = &w
		},
		Get: func(e domain.TemplateExerciseCreate) string {
			if e.Weight == nil {
				return ""
			}
			return fmtFloat(*e.Weight)
		}},
	{Name: "notes", Label: "Notes", Kind: String,
		Set: func(e *domain.TemplateExerciseCreate, v Value) { e.Notes = v.S },
		Get: func(e domain.TemplateExerciseCreate) string { return e.Notes }},
}

func NewTemplateExerciseList() *List[domain.TemplateExerciseCreate] {
	return NewList(TemplateExerciseSchema, func(e *domain.TemplateExerciseCreate, n int) { e.Order = n })
}

// NewProgramExercise is the blank program exercise row.
func NewProgramExercise() domain.ProgramExerciseCreate {
	return domain.ProgramExerciseCreate{
		Sets:                 3,
		InitialReps:          8,
		TargetReps:           12,
		InitialWeight:        0,
		ProgressionStrategy:  domain.ProgressionWeight,
		ProgressionValue:     5,
		ProgressionFrequency: 1,
		Category:             "Other",
	}
}

var ProgramExerciseSchema = Schema[domain.ProgramExerciseCreate]{
	{Name: "exercise_name", Label: "Exercise", Kind: String,
		Set: func(e *domain.ProgramExerciseCreate, v Value) { e.ExerciseName = v.S },
		Get: func(e domain.ProgramExerciseCreate) string { return e.ExerciseName }},
	{Name: "category", Label: "Category", Kind: String,
		Set: func(e *domain.ProgramExerciseCreate, v Value) { e.Category = v.S },
		Get: func(e domain.ProgramExerciseCreate) string { return e.Category }},
	{Name: "sets", Label: "Sets", Kind: Int,
		Set: func(e *domain.ProgramExerciseCreate, v Value) { e.Sets = v.I },
		Get: func(e domain.ProgramExerciseCreate) string { return fmtInt(e.Sets) }},
	{Name: "initial_reps", Label: "Start reps", Kind: Int,
		Set: func(e *domain.ProgramExerciseCreate, v Value) { e.InitialReps = v.I },
		Get: func(e domain.ProgramExerciseCreate) string { return fmtInt(e.InitialReps) }},
	{Name: "target_reps", Label: "Target reps", Kind: Int,
		Set: func(e *domain.ProgramExerciseCreate, v Value) { e.TargetReps = v.I },
		Get: func(e domain.ProgramExerciseCreate) string { return fmtInt(e.TargetReps) }},
	{Name: "initial_weight", Label: "Start weight", Kind: Float,
		Set: func(e *domain.ProgramExerciseCreate, v Value) { e.InitialWeight = v.F },
		Get: func(e domain.ProgramExerciseCreate) string { return fmtFloat(e.InitialWeight) }},
	{Name: "progression_strategy", Label: "Progression", Kind: String,
		Set: func(e *domain.ProgramExerciseCreate, v Value) { e.ProgressionStrategy = v.S },
		Get: func(e domain.ProgramExerciseCreate) string { return e.ProgressionStrategy }},
	{Name: "progression_value", Label: "Step", Kind: Float,
		Set: func(e *domain.ProgramExerciseCreate, v Value) { e.ProgressionValue = v.F },
		Get: func(e domain.ProgramExerciseCreate) string { return fmtFloat(e.ProgressionValue) }},
	{Name: "progression_frequency", Label: "Every N", Kind: Int,
		Set: func(e *domain.ProgramExerciseCreate, v Value) { e.ProgressionFrequency = v.I },
		Get: func(e domain.ProgramExerciseCreate) string { return fmtInt(e.ProgressionFrequency) }},
	{Name: "is_barbell_exercise", Label: "Barbell", Kind: Bool,
		Set: func(e *domain.ProgramExerciseCreate, v Value) { e.IsBarbellExercise = v.B },
		Get: func(e domain.ProgramExerciseCreate) string { return fmtBool(e.IsBarbellExercise) }},
	{Name: "notes", Label: "Notes", Kind: String,
		Set: func(e *domain.ProgramExerciseCreate, v Value) { e.Notes = v.S },
		Get: func(e domain.ProgramExerciseCreate) string { return e.Notes }},
}

func NewProgramExerciseList() *List[domain.ProgramExerciseCreate] {
	return NewList(ProgramExerciseSchema, func(e *domain.ProgramExerciseCreate, n int) { e.Order = n })
}

// NewProgramWorkout is the blank scheduled workout for week 1.
func NewProgramWorkout(n int) domain.ProgramWorkoutCreate {
	return domain.ProgramWorkoutCreate{
		Name:       "Workout " + fmtInt(n),
		WeekNumber: 1,
		DayNumber:  min(n, 7),
	}
}

var ProgramWorkoutSchema = Schema[domain.ProgramWorkoutCreate]{
	{Name: "name", Label: "Name", Kind: String,
		Set: func(w *domain.ProgramWorkoutCreate, v Value) { w.Name = v.S },
		Get: func(w domain.ProgramWorkoutCreate) string { return w.Name }},
	{Name: "week_number", Label: "Week", Kind: Int,
		Set: func(w *domain.ProgramWorkoutCreate, v Value) { w.WeekNumber = v.I },
		Get: func(w domain.ProgramWorkoutCreate) string { return fmtInt(w.WeekNumber) }},
	{Name: "day_number", Label: "Day", Kind: Int,
		Set: func(w *domain.ProgramWorkoutCreate, v Value) { w.DayNumber = v.I },
		Get: func(w domain.ProgramWorkoutCreate) string { return fmtInt(w.DayNumber) }},
	{Name: "template_id", Label: "Template", Kind: Int,
		Set: func(w *domain.ProgramWorkoutCreate, v Value) {
			if v.I == 0 {
				w.TemplateID = nil
				return
			}
			id := v.I
			w.TemplateID = &id
		},
		Get: func(w domain.ProgramWorkoutCreate) string {
			if w.TemplateID == nil {
				return ""
			}
			return fmtInt(*w.TemplateID)
		}},
}

func NewProgramWorkoutList() *List[domain.ProgramWorkoutCreate] {
	return NewList(ProgramWorkoutSchema, func(w *domain.ProgramWorkoutCreate, n int) { w.Order = n })
}
