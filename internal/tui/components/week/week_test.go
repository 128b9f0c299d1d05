package week

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitflow/internal/analytics"
)

func TestRenderScalesToBusiestDay(t *testing.T) {
	w := analytics.Weekly{
		Days: []analytics.DayCount{
			{Date: "2024-03-14", Weekday: "Thu", Completed: 4},
			{Date: "2024-03-15", Weekday: "Fri", Completed: 1},
			{Date: "2024-03-16", Weekday: "Sat", Completed: 0},
		},
		Total: 5,
	}
	lines := strings.Split(Render(w, 8), "\n")

	if got := strings.Count(lines[0], "█"); got != 8 {
		t.Errorf("busiest day bar = %d cells, want 8", got)
	}
	if got := strings.Count(lines[1], "█"); got != 2 {
		t.Errorf("second day bar = %d cells, want 2", got)
	}
	if strings.Contains(lines[2], "█") {
		t.Error("empty day should have no bar")
	}
	if !strings.Contains(lines[len(lines)-1], "5 completions") {
		t.Errorf("missing total: %q", lines[len(lines)-1])
	}
}

func TestRenderEmptyWeek(t *testing.T) {
	out := Render(analytics.Weekly{}, 0)
	if !strings.Contains(out, "0 completions") {
		t.Errorf("Render(empty) = %q", out)
	}
}
