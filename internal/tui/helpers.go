package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/naveenspark/liftlog/pkg/client"
	"github.com/naveenspark/liftlog/pkg/domain"
)

// formatAgo renders a relative day count for list rows.
func formatAgo(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 14:
		return fmt.Sprintf("%dd ago", days)
	default:
		return fmt.Sprintf("%dw ago", days/7)
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces to width runes, truncating if longer.
func padRight(s string, width int) string {
	s = truncStr(s, width)
	return s + strings.Repeat(" ", width-utf8.RuneCountInString(s))
}

func fmtWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// fmtVolume renders a volume with thousands separators, e.g. "12,450".
func fmtVolume(v float64) string {
	n := int64(v + 0.5)
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// setLine renders "3 x 10 @ 60" for an entry.
func setLine(sets, reps int, weight float64) string {
	return fmt.Sprintf("%d x %d @ %s", sets, reps, fmtWeight(weight))
}

// errText turns a failed API call into the message shown to the user,
// preferring the server's explanation over fallback.
func errText(err error, fallback string) string {
	return client.ErrorText(err, fallback)
}

// workoutSummary is the plain-text form of a session copied to the clipboard.
func workoutSummary(s domain.WorkoutSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workout: %s\n", s.Date.LongDate())
	for _, e := range s.Entries {
		fmt.Fprintf(&b, "- %s: %s\n", e.ExerciseName, setLine(e.Sets, e.Reps, e.Weight))
	}
	if s.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", s.Notes)
	}
	fmt.Fprintf(&b, "Volume: %s\n", fmtVolume(s.Volume()))
	return b.String()
}
