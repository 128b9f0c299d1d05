package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/tui/components/admin"
	"github.com/julianstephens/habitflow/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitsModel.SetSize(msg.Width-4, max(msg.Height-12, 4))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case suggestDoneMsg:
		if !m.accept(msg.tab, msg.seq) {
			return m, nil
		}
		m.refresh()
		switch {
		case msg.err != nil:
			m.err = msg.err
		case len(msg.added) == 0:
			m.status = "No suggestions right now. Try again later."
		default:
			m.status = fmt.Sprintf("Added %d suggested habits.", len(msg.added))
		}
		return m, nil

	case insightDoneMsg:
		if !m.accept(msg.tab, msg.seq) {
			return m, nil
		}
		m.insight, m.err = msg.text, msg.err
		return m, nil

	case nutritionDoneMsg:
		if !m.accept(msg.tab, msg.seq) {
			return m, nil
		}
		m.nutrition = msg.data
		if msg.data == nil {
			m.status = "Could not estimate that meal."
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateLogin:
		cmd = m.handleLogin(msg)
	case constants.StateAddHabit:
		cmd = m.handleAddHabit(msg)
	case constants.StateSuggest:
		cmd = m.handleSuggest(msg)
	case constants.StateMealInput:
		cmd = m.handleMeal(msg)
	case constants.StateConfirmDelete:
		cmd = m.handleConfirmDelete(msg)
	default:
		cmd = m.handleDashboard(msg)
	}
	if m.quitting {
		return m, tea.Quit
	}
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

// updateForm feeds msg to the active form. Esc aborts it.
func (m *Model) updateForm(msg tea.Msg) (huh.FormState, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		return huh.StateAborted, nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return m.form.State, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.state = m.tab
}

func (m *Model) handleLogin(msg tea.Msg) tea.Cmd {
	st, cmd := m.updateForm(msg)
	switch st {
	case huh.StateCompleted:
		user, err := m.svc.Login(m.input.Value)
		if err != nil {
			m.err = err
			m.startLogin()
			return m.form.Init()
		}
		m.user = user
		m.err = nil
		m.status = "Welcome back, " + user.FirstName() + "!"
		m.closeForm()
		m.refresh()
		return nil
	case huh.StateAborted:
		m.quitting = true
		m.cancel()
		return nil
	}
	return cmd
}

func (m *Model) handleAddHabit(msg tea.Msg) tea.Cmd {
	st, cmd := m.updateForm(msg)
	switch st {
	case huh.StateCompleted:
		h, err := m.svc.AddHabit(m.habitForm.Input(m.user.ID))
		if err != nil {
			m.err = err
			m.form.State = huh.StateNormal
			return nil
		}
		logger.Debug("Habit added from dashboard", "id", h.ID)
		m.status = "Added " + h.Title + "."
		m.closeForm()
		m.refresh()
		return nil
	case huh.StateAborted:
		m.closeForm()
		return nil
	}
	return cmd
}

func (m *Model) handleSuggest(msg tea.Msg) tea.Cmd {
	st, cmd := m.updateForm(msg)
	switch st {
	case huh.StateCompleted:
		m.closeForm()
		tab, seq := m.begin()
		return suggestCmd(m.ctx, m.svc, tab, seq, m.input.Value)
	case huh.StateAborted:
		m.closeForm()
		return nil
	}
	return cmd
}

func (m *Model) handleMeal(msg tea.Msg) tea.Cmd {
	st, cmd := m.updateForm(msg)
	switch st {
	case huh.StateCompleted:
		m.closeForm()
		m.nutrition = nil
		tab, seq := m.begin()
		return nutritionCmd(m.ctx, m.svc, tab, seq, m.input.Value)
	case huh.StateAborted:
		m.closeForm()
		return nil
	}
	return cmd
}

func (m *Model) handleConfirmDelete(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(km, m.keys.Confirm):
		removed, err := m.svc.DeleteHabit(m.habitToDeleteID)
		switch {
		case err != nil:
			m.err = err
		case removed:
			m.status = "Deleted " + m.habitToDeleteTitle + "."
		}
		m.habitToDeleteID, m.habitToDeleteTitle = "", ""
		m.state = m.tab
		m.refresh()
	case key.Matches(km, m.keys.Cancel):
		m.habitToDeleteID, m.habitToDeleteTitle = "", ""
		m.state = m.tab
	}
	return nil
}

func (m *Model) openForm(state constants.SessionState, form *huh.Form) tea.Cmd {
	m.form = form
	m.state = state
	m.status = ""
	m.err = nil
	return form.Init()
}

func (m *Model) handleDashboard(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{Frequency: constants.DefaultFrequency, Color: constants.DefaultColor}
		return m.openForm(constants.StateAddHabit, NewHabitForm(m.habitForm))

	case habitlist.SuggestMsg:
		m.input = &TextFormModel{}
		return m.openForm(constants.StateSuggest, NewTopicForm(&m.input.Value))

	case habitlist.InsightMsg:
		m.insight = ""
		tab, seq := m.begin()
		return insightCmd(m.ctx, m.svc, tab, seq, m.user.ID)

	case habitlist.ToggleHabitMsg:
		if _, err := m.svc.ToggleCompletion(msg.ID, ""); err != nil {
			m.err = err
		}
		m.refresh()
		return nil

	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID, m.habitToDeleteTitle = msg.ID, msg.Title
		m.state = constants.StateConfirmDelete
		return nil

	case admin.DrillDownMsg:
		u, err := m.svc.User(msg.UserID)
		if err != nil {
			m.err = err
			return nil
		}
		d, err := m.svc.Dashboard(u.ID)
		if err != nil {
			m.err = err
			return nil
		}
		m.adminModel.SetDetail(u, &d)
		return nil

	case tea.KeyMsg:
		filtering := m.tab == constants.StateHabits && m.habitsModel.Filtering()
		if !filtering {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				m.cancel()
				return nil
			case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
				m.switchTab(1)
				return nil
			case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
				m.switchTab(-1)
				return nil
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return nil
			case key.Matches(msg, m.keys.Logout):
				if err := m.svc.Logout(); err != nil {
					m.err = err
					return nil
				}
				m.startLogin()
				return m.form.Init()
			}
		}
	}

	var cmd tea.Cmd
	switch m.tab {
	case constants.StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case constants.StateNutrition:
		if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Meal) && !m.loading() {
			m.input = &TextFormModel{}
			return m.openForm(constants.StateMealInput, NewMealForm(&m.input.Value))
		}
	case constants.StateAdmin:
		m.adminModel, cmd = m.adminModel.Update(msg)
	}
	return cmd
}
