package domain

// WorkoutTemplate is a reusable list of exercises.
type WorkoutTemplate struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	CreatorID   int                `json:"creator_id"`
	Exercises   []TemplateExercise `json:"exercises"`
}

type TemplateExercise struct {
	ID           int      `json:"id"`
	TemplateID   int      `json:"template_id"`
	ExerciseName string   `json:"exercise_name"`
	Sets         int      `json:"sets"`
	Reps         int      `json:"reps"`
	Weight       *float64 `json:"weight,omitempty"`
	Order        int      `json:"order"`
	Notes        string   `json:"notes,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// WorkoutTemplateCreate is the payload for POST /workout-templates.
type WorkoutTemplateCreate struct {
	Name        string                   `json:"name" validate:"required,min=2,max=100"`
	Description string                   `json:"description,omitempty" validate:"max=500"`
	Exercises   []TemplateExerciseCreate `json:"exercises,omitempty" validate:"dive"`
}

type TemplateExerciseCreate struct {
	ExerciseName string   `json:"exercise_name" validate:"required,min=2,max=50"`
	Sets         int      `json:"sets" validate:"min=1,max=20"`
	Reps         int      `json:"reps" validate:"min=1,max=100"`
	Weight       *float64 `json:"weight,omitempty" validate:"omitempty,min=0,max=2000"`
	Order        int      `json:"order" validate:"min=1"`
	Notes        string   `json:"notes,omitempty" validate:"max=500"`
	Category     string   `json:"category,omitempty" validate:"omitempty,category"`
}
