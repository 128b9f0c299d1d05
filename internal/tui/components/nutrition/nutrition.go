package nutrition

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitflow/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	macroStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Align(lipgloss.Center)
	noteStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
)

// Render draws the macro breakdown. A nil estimate renders nothing.
func Render(d *models.NutritionData) string {
	if d == nil {
		return ""
	}

	macros := lipgloss.JoinHorizontal(lipgloss.Top,
		macroStyle.Render(fmt.Sprintf("Calories\n%.0f kcal", d.Calories)),
		macroStyle.Render(fmt.Sprintf("Protein\n%.0f g", d.Protein)),
		macroStyle.Render(fmt.Sprintf("Carbs\n%.0f g", d.Carbs)),
		macroStyle.Render(fmt.Sprintf("Fat\n%.0f g", d.Fat)),
	)

	parts := []string{titleStyle.Render(d.MealName), macros}
	if s := strings.TrimSpace(d.Summary); s != "" {
		parts = append(parts, noteStyle.Render(s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
