package domain

import "slices"

// WorkoutSession is a dated training session with its entries.
type WorkoutSession struct {
	ID      int            `json:"id"`
	Date    Timestamp      `json:"date"`
	UserID  int            `json:"user_id"`
	Notes   string         `json:"notes,omitempty"`
	Entries []WorkoutEntry `json:"entries"`
}

// Volume is the sum of sets*reps*weight across all entries.
func (s WorkoutSession) Volume() float64 {
	var total float64
	for _, e := range s.Entries {
		total += float64(e.Sets*e.Reps) * e.Weight
	}
	return total
}

// WorkoutSessionCreate is the payload for POST /workouts.
type WorkoutSessionCreate struct {
	UserID int        `json:"user_id"`
	Date   *Timestamp `json:"date,omitempty"`
	Notes  string     `json:"notes,omitempty"`
}

// WorkoutSessionUpdate is the payload for PUT /workouts/{id}.
type WorkoutSessionUpdate struct {
	Date  *Timestamp `json:"date,omitempty"`
	Notes *string    `json:"notes,omitempty"`
}

// WorkoutEntry is one exercise performed in a session.
type WorkoutEntry struct {
	ID           int     `json:"id"`
	SessionID    int     `json:"session_id"`
	ExerciseName string  `json:"exercise_name"`
	Sets         int     `json:"sets"`
	Reps         int     `json:"reps"`
	Weight       float64 `json:"weight"`
	Notes        string  `json:"notes,omitempty"`
	Category     string  `json:"category,omitempty"`
	Difficulty   int     `json:"difficulty,omitempty"`
}

// WorkoutEntryCreate is the payload for POST /workouts/{id}/entries.
type WorkoutEntryCreate struct {
	ExerciseName string  `json:"exercise_name" validate:"required,min=2,max=50"`
	Sets         int     `json:"sets" validate:"min=1,max=20"`
	Reps         int     `json:"reps" validate:"min=1,max=100"`
	Weight       float64 `json:"weight" validate:"min=0,max=2000"`
	Notes        string  `json:"notes,omitempty" validate:"max=500"`
	Category     string  `json:"category,omitempty" validate:"omitempty,category"`
	Difficulty   int     `json:"difficulty,omitempty" validate:"omitempty,min=1,max=10"`
}

// WorkoutEntryUpdate is the partial payload for PUT /workouts/{sid}/entries/{eid}.
type WorkoutEntryUpdate struct {
	ExerciseName *string  `json:"exercise_name,omitempty"`
	Sets         *int     `json:"sets,omitempty"`
	Reps         *int     `json:"reps,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Difficulty   *int     `json:"difficulty,omitempty"`
}

// WorkoutSearch holds the optional filters of GET /workouts/search.
type WorkoutSearch struct {
	StartDate    string
	EndDate      string
	ExerciseName string
}

// Categories are the exercise categories the API accepts.
var Categories = []string{"Chest", "Back", "Legs", "Shoulders", "Arms", "Core", "Cardio", "Other"}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	return slices.Contains(Categories, c)
}
