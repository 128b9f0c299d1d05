package habitlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitflow/internal/app"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID    string
	Title string
}

type SuggestMsg struct{}

type InsightMsg struct{}

// colors maps palette tags to terminal colors.
var colors = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("33"),
	"green":  lipgloss.Color("42"),
	"purple": lipgloss.Color("135"),
	"rose":   lipgloss.Color("204"),
	"amber":  lipgloss.Color("214"),
	"cyan":   lipgloss.Color("44"),
}

type Item struct {
	View app.HabitView
}

func (i Item) Title() string {
	mark := "○ "
	if i.View.CompletedToday {
		mark = "✓ "
	}
	dot := lipgloss.NewStyle().Foreground(colors[i.View.Habit.ColorTag()]).Render("●")
	return mark + dot + " " + i.View.Habit.Title
}

func (i Item) Description() string {
	parts := []string{
		i.View.Habit.Category,
		fmt.Sprintf("streak %d", i.View.Streak),
		Strip(i.View.Window),
	}
	if i.View.Habit.ReminderTime != "" {
		parts = append(parts, "⏰ "+i.View.Habit.ReminderTime)
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.View.Habit.Title }

// Strip renders the recent-days window oldest first.
func Strip(cells []app.WindowCell) string {
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

type KeyMap struct {
	Toggle  key.Binding
	Add     key.Binding
	Delete  key.Binding
	Suggest key.Binding
	Insight key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle today"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "ai suggest"),
		),
		Insight: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "ai insight"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(views []app.HabitView, width, height int) Model {
	l := list.New(items(views), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Delete, keys.Suggest, keys.Insight}
	}

	return Model{list: l, keys: keys}
}

func items(views []app.HabitView) []list.Item {
	out := make([]list.Item, len(views))
	for i, v := range views {
		out[i] = Item{View: v}
	}
	return out
}

// SetHabits replaces the rows and keeps the cursor where it was.
func (m *Model) SetHabits(views []app.HabitView) {
	idx := m.list.Index()
	m.list.SetItems(items(views))
	if idx < len(views) {
		m.list.Select(idx)
	}
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Suggest):
			return m, func() tea.Msg { return SuggestMsg{} }
		case key.Matches(msg, m.keys.Insight):
			return m, func() tea.Msg { return InsightMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.View.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.View.Habit.ID, Title: i.View.Habit.Title} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No habits yet.\n  Press 'a' to add one or 's' for AI suggestions."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
