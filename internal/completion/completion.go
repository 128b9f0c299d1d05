// Package completion holds the pure date-set logic behind habit check-ins:
// membership, toggling, streaks and the recent-days window.
//
// Every function takes "today" explicitly so results never depend on the
// wall clock.
package completion

import (
	"slices"
	"time"

	"github.com/julianstephens/habitflow/internal/constants"
)

// ParseDay parses a YYYY-MM-DD string into midnight UTC of that day.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(constants.DateFormat, s)
}

// FormatDay formats t's calendar day (in t's location) as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// IsComplete reports whether day is a member of dates.
func IsComplete(dates []string, day string) bool {
	return slices.Contains(dates, day)
}

// Toggle returns a new slice with day removed when present (every copy of it)
// or appended when absent. The input slice is not modified.
func Toggle(dates []string, day string) []string {
	if IsComplete(dates, day) {
		out := make([]string, 0, len(dates))
		for _, d := range dates {
			if d != day {
				out = append(out, d)
			}
		}
		return out
	}

	out := make([]string, len(dates), len(dates)+1)
	copy(out, dates)
	return append(out, day)
}

// CurrentStreak counts consecutive completed days ending today. A day that is
// not yet checked off does not break the streak: when today is missing the
// count starts from yesterday.
func CurrentStreak(dates []string, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}

	cursor := calendarDay(today)
	if _, ok := set[FormatDay(cursor)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := set[FormatDay(cursor)]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

// LongestStreak returns the longest run of consecutive valid days in dates.
func LongestStreak(dates []string) int {
	days := Normalize(dates)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	prev, _ := ParseDay(days[0])
	for _, d := range days[1:] {
		cur, _ := ParseDay(d)
		if cur.Equal(prev.AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
		prev = cur
	}
	return longest
}

// RecentWindow returns the constants.RecentWindowDays dates ending today,
// oldest first.
func RecentWindow(today time.Time) []string {
	day := calendarDay(today)
	out := make([]string, constants.RecentWindowDays)
	for i := range out {
		out[i] = FormatDay(day.AddDate(0, 0, i-(constants.RecentWindowDays-1)))
	}
	return out
}

// Normalize returns the valid dates of the set, deduplicated and sorted
// ascending. Entries that do not parse as YYYY-MM-DD are dropped.
func Normalize(dates []string) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		t, err := ParseDay(d)
		if err != nil || FormatDay(t) != d {
			continue
		}
		out = append(out, d)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Invalid returns the entries of dates that Normalize would drop, including
// extra copies of duplicated days.
func Invalid(dates []string) []string {
	var bad []string
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		t, err := ParseDay(d)
		if err != nil || FormatDay(t) != d {
			bad = append(bad, d)
			continue
		}
		if _, dup := seen[d]; dup {
			bad = append(bad, d)
			continue
		}
		seen[d] = struct{}{}
	}
	return bad
}

// calendarDay pins t's calendar date to noon UTC.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}
