package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Key identifies a cached query, e.g. Key{"workout", "1"}. A key is a
// prefix of every key that extends it, so invalidating Key{"workout"}
// drops every single-workout entry.
type Key []string

func (k Key) String() string { return strings.Join(k, "/") }

// HasPrefix reports whether k starts with every part of p.
func (k Key) HasPrefix(p Key) bool {
	if len(p) > len(k) {
		return false
	}
	for i := range p {
		if k[i] != p[i] {
			return false
		}
	}
	return true
}

// Keys used by the views. Mutations invalidate with the same helpers.
func WorkoutsKey() Key { return Key{"workouts"} }
func WorkoutKey(id int) Key { return Key{"workout", itoa(id)} }
func WorkoutEntriesKey(id int) Key { return Key{"workout", itoa(id), "entries"} }
func WorkoutSearchKey(q ...string) Key { return append(Key{"workouts", "search"}, q...) }
func ExercisesKey() Key { return Key{"exercises"} }
func ExerciseStatsKey(name string) Key { return Key{"stats", "exercise", name} }
func CategoryStatsKey(cat string) Key { return Key{"stats", "category", cat} }
func PersonalRecordsKey(userID int) Key { return Key{"personal-records", itoa(userID)} }
func PlatesKey(weight string) Key { return Key{"plates", weight} }
func ProgramsKey(publicOnly bool) Key { return Key{"workout-programs", boolStr(publicOnly)} }
func ProgramKey(id int) Key { return Key{"workout-program", itoa(id)} }
func ProgressKey() Key { return Key{"program-progress"} }
func TemplatesKey() Key { return Key{"workout-templates"} }
func TemplateKey(id int) Key { return Key{"workout-template", itoa(id)} }
func PlansKey() Key { return Key{"workout-plans"} }
func PlanKey(id int) Key { return Key{"workout-plan", itoa(id)} }

// storageKey is the cache key for k. Parts are escaped and every key ends in
// "/" so that "workout/" is never a prefix of "workouts/".
func storageKey(k Key) string {
	var b strings.Builder
	for _, part := range k {
		b.WriteString(url.PathEscape(part))
		b.WriteByte('/')
	}
	return b.String()
}

func itoa(n int) string { return strconv.Itoa(n) }

func boolStr(b bool) string { return strconv.FormatBool(b) }
