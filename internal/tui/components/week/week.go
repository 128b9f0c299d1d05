// Package week renders the completions-per-day strip of the recent window.
package week

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitflow/internal/analytics"
	"github.com/julianstephens/habitflow/internal/constants"
)

var (
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("135"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	totalStyle = lipgloss.NewStyle().Bold(true)
)

// Render draws one bar per day, scaled to the busiest day and at most width
// cells wide.
func Render(w analytics.Weekly, width int) string {
	if width <= 0 || width > constants.WeeklyStripMaxBarWidth {
		width = constants.WeeklyStripMaxBarWidth
	}
	top := w.Max()

	lines := make([]string, 0, len(w.Days)+2)
	for _, d := range w.Days {
		n := 0
		if top > 0 && d.Completed > 0 {
			n = max(1, d.Completed*width/top)
		}
		label := labelStyle.Render(fmt.Sprintf("%s %s", d.Weekday, d.Date[5:]))
		bar := barStyle.Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf("%s  %s %d", label, bar, d.Completed))
	}
	lines = append(lines, "", totalStyle.Render(fmt.Sprintf("%d completions this week", w.Total)))
	return strings.Join(lines, "\n")
}
