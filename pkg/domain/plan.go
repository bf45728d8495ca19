package domain

// WorkoutPlan is a lightweight weekly schedule owned by one user.
type WorkoutPlan struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	UserID        int    `json:"user_id"`
	DurationWeeks int    `json:"duration_weeks"`
	DaysPerWeek   int    `json:"days_per_week"`
}

// WorkoutPlanCreate is the payload for POST /workout-plans.
type WorkoutPlanCreate struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Description   string `json:"description,omitempty" validate:"max=500"`
	DurationWeeks int    `json:"duration_weeks" validate:"min=1,max=52"`
	DaysPerWeek   int    `json:"days_per_week" validate:"min=1,max=7"`
}
