package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitflow/internal/analytics"
	"github.com/julianstephens/habitflow/internal/app"
	"github.com/julianstephens/habitflow/internal/constants"
)

// ShortID is the prefix shown in listings; commands accept any unique prefix.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Checkbox renders a completion mark.
func Checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// WindowStrip renders the recent-days window oldest first, one glyph per day.
func WindowStrip(cells []app.WindowCell) string {
	var b strings.Builder
	for _, c := range cells {
		if c.Done {
			b.WriteString("■")
		} else {
			b.WriteString("□")
		}
	}
	return b.String()
}

// Bar scales n against top into at most width block characters.
func Bar(n, top, width int) string {
	if n <= 0 || top <= 0 || width <= 0 {
		return ""
	}
	w := n * width / top
	if w == 0 {
		w = 1
	}
	return strings.Repeat("█", w)
}

// WeeklyLines renders one labelled bar per day of the window.
func WeeklyLines(w analytics.Weekly) []string {
	top := w.Max()
	lines := make([]string, 0, len(w.Days))
	for _, d := range w.Days {
		lines = append(lines, fmt.Sprintf("%s %s  %-*s %d",
			d.Weekday, d.Date[5:], constants.WeeklyStripMaxBarWidth,
			Bar(d.Completed, top, constants.WeeklyStripMaxBarWidth), d.Completed))
	}
	return lines
}
