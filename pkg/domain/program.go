package domain

// Progression strategies understood by the API.
const (
	ProgressionWeight = "weight"
	ProgressionReps   = "reps"
)

// WorkoutProgram is a multi-week plan made of scheduled workouts.
type WorkoutProgram struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	DurationWeeks int              `json:"duration_weeks"`
	IsPublic      bool             `json:"is_public"`
	CreatorID     int              `json:"creator_id"`
	Workouts      []ProgramWorkout `json:"workouts"`
}

// Week returns the workouts scheduled in week n, in day order.
func (p WorkoutProgram) Week(n int) []ProgramWorkout {
	var out []ProgramWorkout
	for _, w := range p.Workouts {
		if w.WeekNumber == n {
			out = append(out, w)
		}
	}
	return out
}

type ProgramWorkout struct {
	ID         int               `json:"id"`
	ProgramID  int               `json:"program_id"`
	Name       string            `json:"name"`
	WeekNumber int               `json:"week_number"`
	DayNumber  int               `json:"day_number"`
	Order      int               `json:"order"`
	TemplateID *int              `json:"template_id,omitempty"`
	Exercises  []ProgramExercise `json:"exercises"`
}

type ProgramExercise struct {
	ID                   int     `json:"id"`
	ProgramWorkoutID     int     `json:"program_workout_id"`
	ExerciseName         string  `json:"exercise_name"`
	Sets                 int     `json:"sets"`
	InitialReps          int     `json:"initial_reps"`
	TargetReps           int     `json:"target_reps"`
	InitialWeight        float64 `json:"initial_weight"`
	ProgressionStrategy  string  `json:"progression_strategy"`
	ProgressionValue     float64 `json:"progression_value"`
	ProgressionFrequency int     `json:"progression_frequency"`
	Order                int     `json:"order"`
	Notes                string  `json:"notes,omitempty"`
	Category             string  `json:"category,omitempty"`
	IsBarbellExercise    bool    `json:"is_barbell_exercise,omitempty"`
}

// WorkoutProgramCreate is the payload for POST /workout-programs.
type WorkoutProgramCreate struct {
	Name          string                 `json:"name" validate:"required,min=2,max=100"`
	Description   string                 `json:"description,omitempty" validate:"max=500"`
	DurationWeeks int                    `json:"duration_weeks" validate:"min=1,max=52"`
	IsPublic      bool                   `json:"is_public"`
	Workouts      []ProgramWorkoutCreate `json:"workouts,omitempty" validate:"dive"`
}

type ProgramWorkoutCreate struct {
	Name       string                  `json:"name" validate:"required"`
	WeekNumber int                     `json:"week_number" validate:"min=1"`
	DayNumber  int                     `json:"day_number" validate:"min=1,max=7"`
	Order      int                     `json:"order" validate:"min=1"`
	TemplateID *int                    `json:"template_id,omitempty"`
	Exercises  []ProgramExerciseCreate `json:"exercises,omitempty" validate:"dive"`
}

type ProgramExerciseCreate struct {
	ExerciseName         string  `json:"exercise_name" validate:"required,min=2,max=50"`
	Sets                 int     `json:"sets" validate:"min=1,max=20"`
	InitialReps          int     `json:"initial_reps" validate:"min=1,max=100"`
	TargetReps           int     `json:"target_reps" validate:"min=1,max=100"`
	InitialWeight        float64 `json:"initial_weight" validate:"min=0,max=2000"`
	ProgressionStrategy  string  `json:"progression_strategy" validate:"oneof=weight reps"`
	ProgressionValue     float64 `json:"progression_value" validate:"min=0"`
	ProgressionFrequency int     `json:"progression_frequency" validate:"min=1"`
	Order                int     `json:"order" validate:"min=1"`
	Notes                string  `json:"notes,omitempty" validate:"max=500"`
	Category             string  `json:"category,omitempty" validate:"omitempty,category"`
	IsBarbellExercise    bool    `json:"is_barbell_exercise,omitempty"`
}

// UserProgramProgress tracks a user's position in an assigned program.
type UserProgramProgress struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ProgramID   int       `json:"program_id"`
	CurrentWeek int       `json:"current_week"`
	CurrentDay  int       `json:"current_day"`
	StartDate   Timestamp `json:"start_date"`
	IsActive    bool      `json:"is_active"`
}

// ProgressUpdate is the partial payload for PUT /workout-programs/progress/{id}.
type ProgressUpdate struct {
	CurrentWeek *int  `json:"current_week,omitempty"`
	CurrentDay  *int  `json:"current_day,omitempty"`
	IsActive    *bool `json:"is_active,omitempty"`
}

// Advance returns the update that moves pr to the next scheduled day. Days
// without workouts are skipped; finishing the last week deactivates pr.
func (p WorkoutProgram) Advance(pr UserProgramProgress) ProgressUpdate {
	week, day := pr.CurrentWeek, pr.CurrentDay
	for week <= p.DurationWeeks {
		day++
		if day > 7 {
			week++
			day = 1
		}
		for _, w := range p.Week(week) {
			if w.DayNumber == day {
				return ProgressUpdate{CurrentWeek: &week, CurrentDay: &day}
			}
		}
	}
	done := false
	return ProgressUpdate{IsActive: &done}
}
