package cli

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitflow/internal/analytics"
	"github.com/julianstephens/habitflow/internal/app"
)

func TestShortID(t *testing.T) {
	if got := ShortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("ShortID = %q", got)
	}
	if got := ShortID("h1"); got != "h1" {
		t.Errorf("ShortID(short) = %q", got)
	}
}

func TestWindowStrip(t *testing.T) {
	cells := []app.WindowCell{{Done: true}, {Done: false}, {Done: true}}
	if got := WindowStrip(cells); got != "■□■" {
		t.Errorf("WindowStrip = %q", got)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		n, top, width int
		want          int
	}{
		{4, 4, 10, 10},
		{2, 4, 10, 5},
		{1, 100, 10, 1},
		{0, 4, 10, 0},
		{3, 0, 10, 0},
	}
	for _, tt := range tests {
		if got := strings.Count(Bar(tt.n, tt.top, tt.width), "█"); got != tt.want {
			t.Errorf("Bar(%d, %d, %d) = %d cells, want %d", tt.n, tt.top, tt.width, got, tt.want)
		}
	}
}

func TestWeeklyLines(t *testing.T) {
	w := analytics.Weekly{Days: []analytics.DayCount{
		{Date: "2024-03-14", Weekday: "Thu", Completed: 2},
		{Date: "2024-03-15", Weekday: "Fri", Completed: 0},
	}}
	lines := WeeklyLines(w)
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Thu 03-14") || !strings.HasSuffix(lines[0], " 2") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if strings.Contains(lines[1], "█") {
		t.Errorf("empty day has a bar: %q", lines[1])
	}
}
