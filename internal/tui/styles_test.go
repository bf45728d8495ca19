package tui

import (
	"strings"
	"testing"
)

func TestCategoryStyleKnownCategory(t *testing.T) {
	for _, cat := range []string{"Chest", "Back", "Legs", "Shoulders", "Arms", "Core", "Cardio", "Other"} {
		t.Run(cat, func(t *testing.T) {
			rendered := CategoryStyle(cat).Render(cat)
			if !strings.Contains(rendered, cat) {
				t.Errorf("CategoryStyle(%q).Render(%q) = %q, want to contain %q", cat, cat, rendered, cat)
			}
		})
	}
}

func TestCategoryStyleUnknownFallback(t *testing.T) {
	rendered := CategoryStyle("Yoga").Render("Yoga")
	if !strings.Contains(rendered, "Yoga") {
		t.Errorf("CategoryStyle fallback did not render text: %q", rendered)
	}
}

func TestDifficultyStyle(t *testing.T) {
	for _, d := range []int{1, 5, 8, 10} {
		rendered := difficultyStyle(d).Render("RPE")
		if !strings.Contains(rendered, "RPE") {
			t.Errorf("difficultyStyle(%d) did not render content", d)
		}
	}
}

func TestHelpEntryFormat(t *testing.T) {
	result := helpEntry("q", "quit")
	if !strings.Contains(result, "q") {
		t.Errorf("helpEntry('q','quit') does not contain key 'q': %q", result)
	}
	if !strings.Contains(result, "quit") {
		t.Errorf("helpEntry('q','quit') does not contain label 'quit': %q", result)
	}
}

func TestHelpLinePairs(t *testing.T) {
	result := helpLine("j/k", "nav", "enter", "open", "dangling")
	for _, want := range []string{"j/k", "nav", "enter", "open"} {
		if !strings.Contains(result, want) {
			t.Errorf("helpLine missing %q: %q", want, result)
		}
	}
	if strings.Contains(result, "dangling") {
		t.Errorf("helpLine rendered an unpaired key: %q", result)
	}
}

func TestHelpViewLinksUseWebURL(t *testing.T) {
	result := helpView(1, "https://liftlog.example/")
	if !strings.Contains(result, "https://liftlog.example/workouts") {
		t.Errorf("help overlay should link to the web workouts page:\n%s", result)
	}
	if !strings.Contains(result, "> ") {
		t.Errorf("help overlay should mark the selected link:\n%s", result)
	}
}

func TestFmtVolume(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{1000, "1,000"},
		{12450, "12,450"},
		{1234567, "1,234,567"},
	}
	for _, tc := range tests {
		if got := fmtVolume(tc.in); got != tc.want {
			t.Errorf("fmtVolume(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSetLine(t *testing.T) {
	if got := setLine(3, 10, 62.5); got != "3 x 10 @ 62.5" {
		t.Errorf("setLine = %q, want %q", got, "3 x 10 @ 62.5")
	}
}
