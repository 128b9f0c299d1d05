// Package admin is the read-only organization overview with a per-user
// drill-down.
package admin

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitflow/internal/analytics"
	"github.com/julianstephens/habitflow/internal/app"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/tui/components/habitlist"
	"github.com/julianstephens/habitflow/internal/tui/components/week"
)

// DrillDownMsg asks the parent to load one user's dashboard.
type DrillDownMsg struct {
	UserID string
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Open  key.Binding
	Close key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view user")),
		Close: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

type Model struct {
	keys    KeyMap
	summary analytics.Summary
	users   []models.User
	cursor  int

	detailUser *models.User
	detail     *app.Dashboard
}

func New() Model {
	return Model{keys: DefaultKeyMap()}
}

func (m *Model) SetData(summary analytics.Summary, users []models.User) {
	m.summary = summary
	m.users = users
	if m.cursor >= len(users) {
		m.cursor = max(0, len(users)-1)
	}
}

// SetDetail shows one user's dashboard; a nil user returns to the overview.
func (m *Model) SetDetail(u *models.User, d *app.Dashboard) {
	m.detailUser = u
	m.detail = d
}

func (m Model) InDetail() bool {
	return m.detail != nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.InDetail() {
		if key.Matches(km, m.keys.Close) {
			m.SetDetail(nil, nil)
		}
		return m, nil
	}

	switch {
	case key.Matches(km, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, m.keys.Down):
		if m.cursor < len(m.users)-1 {
			m.cursor++
		}
	case key.Matches(km, m.keys.Open):
		if m.cursor < len(m.users) {
			id := m.users[m.cursor].ID
			return m, func() tea.Msg { return DrillDownMsg{UserID: id} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.InDetail() {
		return m.viewDetail()
	}

	s := m.summary
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statStyle.Render(fmt.Sprintf("Users\n%d", s.TotalUsers)),
		statStyle.Render(fmt.Sprintf("Habits\n%d", s.TotalHabits)),
		statStyle.Render(fmt.Sprintf("Done today\n%d", s.ActiveToday)),
		statStyle.Render(fmt.Sprintf("Completions\n%d", s.CompletedAll)),
	)

	var cats []string
	for _, c := range s.Categories {
		cats = append(cats, fmt.Sprintf("  %-16s %d", c.Name, c.Value))
	}
	if len(cats) == 0 {
		cats = append(cats, mutedStyle.Render("  no habits yet"))
	}

	habitsPerUser := make(map[string]int, len(s.Engagement))
	for _, e := range s.Engagement {
		habitsPerUser[e.UserID] = e.Habits
	}
	var rows []string
	for i, u := range m.users {
		line := fmt.Sprintf("%-20s %-6s %d habits", u.Name, u.Role, habitsPerUser[u.ID])
		if i == m.cursor {
			rows = append(rows, selectedStyle.Render("> "+line))
		} else {
			rows = append(rows, "  "+line)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		stats,
		"",
		headerStyle.Render("Habits by category"),
		strings.Join(cats, "\n"),
		"",
		headerStyle.Render("Users"),
		strings.Join(rows, "\n"),
		"",
		headerStyle.Render("Last 7 days"),
		week.Render(s.Weekly, 0),
	)
}

func (m Model) viewDetail() string {
	u := m.detailUser
	lines := []string{
		headerStyle.Render(fmt.Sprintf("%s <%s>", u.Name, u.Email)),
		mutedStyle.Render(fmt.Sprintf("%s, joined %s", u.Role, u.JoinedAt.Local().Format("2006-01-02"))),
		"",
	}
	if len(m.detail.Habits) == 0 {
		lines = append(lines, mutedStyle.Render("no habits"))
	}
	for _, v := range m.detail.Habits {
		mark := "○"
		if v.CompletedToday {
			mark = "✓"
		}
		lines = append(lines, fmt.Sprintf("%s %-24s %-10s streak %-3d %s",
			mark, v.Habit.Title, v.Habit.Category, v.Streak, habitlist.Strip(v.Window)))
	}
	lines = append(lines, "", mutedStyle.Render("esc: back"))
	return strings.Join(lines, "\n")
}
