package domain

// ExerciseStats summarises one exercise over a trailing window.
type ExerciseStats struct {
	Exercise      string  `json:"exercise"`
	PeriodDays    int     `json:"period_days"`
	AverageWeight float64 `json:"average_weight"`
	MaxWeight     float64 `json:"max_weight"`
	AverageReps   float64 `json:"average_reps"`
	TotalSets     int     `json:"total_sets"`
}

// CategoryExercise is a per-exercise line in CategoryStats.
type CategoryExercise struct {
	Name           string  `json:"name"`
	PersonalRecord float64 `json:"personal_record"`
	TotalVolume    float64 `json:"total_volume"`
}

// CategoryStats summarises a category over a trailing window.
type CategoryStats struct {
	Category   string             `json:"category"`
	PeriodDays int                `json:"period_days"`
	Exercises  []CategoryExercise `json:"exercises"`
}

type PersonalRecord struct {
	Exercise  string  `json:"exercise"`
	Category  string  `json:"category"`
	MaxWeight float64 `json:"max_weight"`
	MaxReps   int     `json:"max_reps"`
}

type PersonalRecords struct {
	UserID  int              `json:"user_id"`
	Records []PersonalRecord `json:"records"`
}

// PlateCalculation is the server's answer for loading a barbell.
type PlateCalculation struct {
	TargetWeight  float64   `json:"target_weight"`
	BarWeight     float64   `json:"bar_weight"`
	WeightPerSide float64   `json:"weight_per_side"`
	PlatesPerSide []float64 `json:"plates_per_side"`
	ActualWeight  float64   `json:"actual_weight"`
}

// Exact reports whether the plates reach the target weight.
func (p PlateCalculation) Exact() bool {
	return p.ActualWeight == p.TargetWeight
}
