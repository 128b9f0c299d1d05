package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/tui/components/nutrition"
	"github.com/julianstephens/habitflow/internal/tui/components/week"
)

var tabTitles = map[constants.SessionState]string{
	constants.StateHabits:    "Habits",
	constants.StateWeek:      "Week",
	constants.StateNutrition: "Nutrition",
	constants.StateAdmin:     "Admin",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == constants.StateLogin {
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(constants.AppName),
			mutedStyle.Render("Log in with your email to continue."),
			m.viewStatus(),
			m.form.View(),
		))
	}

	var content string
	switch m.state {
	case constants.StateAddHabit, constants.StateSuggest, constants.StateMealInput:
		content = m.form.View()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	case constants.StateWeek:
		content = week.Render(m.dashboard.Weekly, m.width-24)
	case constants.StateNutrition:
		content = m.viewNutrition()
	case constants.StateAdmin:
		content = m.adminModel.View()
	default:
		content = m.viewHabits()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewHeader(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for _, t := range m.tabs() {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(tabTitles[t]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tabTitles[t]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHeader() string {
	if m.user == nil {
		return ""
	}
	return mutedStyle.Render(fmt.Sprintf(" %s · %s · %d/%d done today",
		m.user.Name, m.dashboard.Today, m.dashboard.CompletedToday(), len(m.dashboard.Habits)))
}

func (m Model) viewHabits() string {
	parts := []string{m.habitsModel.View()}
	if m.loading() {
		parts = append(parts, m.spinner.View()+" Asking the AI coach...")
	} else if m.insight != "" {
		parts = append(parts, insightStyle.Render(m.insight))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewNutrition() string {
	if m.loading() {
		return m.spinner.View() + " Estimating nutrition..."
	}
	if m.nutrition == nil {
		return mutedStyle.Render("Press enter to describe a meal.")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		nutrition.Render(m.nutrition),
		"",
		mutedStyle.Render("Press enter to analyze another meal."),
	)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render(" " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(" " + m.status)
	}
	return ""
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-8, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and its history?", m.habitToDeleteTitle)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
