package domain

import "testing"

func TestValidCategory(t *testing.T) {
	tests := []struct {
		category string
		valid    bool
	}{
		{"Chest", true},
		{"Legs", true},
		{"Other", true},
		{"chest", false},
		{"", false},
		{"Glutes", false},
	}

	for _, tt := range tests {
		if got := ValidCategory(tt.category); got != tt.valid {
			t.Errorf("ValidCategory(%q) = %v, want %v", tt.category, got, tt.valid)
		}
	}
}

func TestSessionVolume(t *testing.T) {
	s := WorkoutSession{Entries: []WorkoutEntry{
		{ExerciseName: "Bench Press", Sets: 3, Reps: 10, Weight: 100},
		{ExerciseName: "Squat", Sets: 5, Reps: 5, Weight: 140},
		{ExerciseName: "Plank", Sets: 3, Reps: 1, Weight: 0},
	}}
	if got := s.Volume(); got != 6500 {
		t.Errorf("Volume() = %v, want 6500", got)
	}
}

func TestProgramWeek(t *testing.T) {
	p := WorkoutProgram{Workouts: []ProgramWorkout{
		{Name: "A", WeekNumber: 1, DayNumber: 1},
		{Name: "B", WeekNumber: 1, DayNumber: 3},
		{Name: "C", WeekNumber: 2, DayNumber: 1},
	}}
	if got := len(p.Week(1)); got != 2 {
		t.Errorf("len(Week(1)) = %d, want 2", got)
	}
	if got := p.Week(2); len(got) != 1 || got[0].Name != "C" {
		t.Errorf("Week(2) = %+v, want [C]", got)
	}
	if got := p.Week(3); got != nil {
		t.Errorf("Week(3) = %+v, want nil", got)
	}
}

func TestPlateCalculationExact(t *testing.T) {
	p := PlateCalculation{TargetWeight: 100, ActualWeight: 100}
	if !p.Exact() {
		t.Error("Exact() = false, want true")
	}
	p.ActualWeight = 97.5
	if p.Exact() {
		t.Error("Exact() = true, want false")
	}
}

func TestProgramAdvance(t *testing.T) {
	p := WorkoutProgram{DurationWeeks: 2, Workouts: []ProgramWorkout{
		{WeekNumber: 1, DayNumber: 1}, {WeekNumber: 1, DayNumber: 3},
		{WeekNumber: 2, DayNumber: 2},
	}}

	u := p.Advance(UserProgramProgress{CurrentWeek: 1, CurrentDay: 1, IsActive: true})
	if u.CurrentWeek == nil || *u.CurrentWeek != 1 || *u.CurrentDay != 3 {
		t.Fatalf("expected week 1 day 3, got %+v", u)
	}

	u = p.Advance(UserProgramProgress{CurrentWeek: 1, CurrentDay: 3, IsActive: true})
	if u.CurrentWeek == nil || *u.CurrentWeek != 2 || *u.CurrentDay != 2 {
		t.Fatalf("expected week 2 day 2, got %+v", u)
	}

	u = p.Advance(UserProgramProgress{CurrentWeek: 2, CurrentDay: 2, IsActive: true})
	if u.IsActive == nil || *u.IsActive {
		t.Fatalf("expected program to finish, got %+v", u)
	}
}
