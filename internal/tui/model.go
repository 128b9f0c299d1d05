package tui

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitflow/internal/app"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/tui/components/admin"
	"github.com/julianstephens/habitflow/internal/tui/components/habitlist"
)

type Model struct {
	svc    *app.Service
	ctx    context.Context
	cancel context.CancelFunc

	user    *models.User
	state   constants.SessionState
	tab     constants.SessionState
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	habitsModel habitlist.Model
	adminModel  admin.Model
	dashboard   app.Dashboard
	insight     string
	nutrition   *models.NutritionData

	form      *huh.Form
	habitForm *HabitFormModel
	input     *TextFormModel

	habitToDeleteID    string
	habitToDeleteTitle string

	// pending maps a tab to the sequence number of its in-flight AI call.
	pending map[constants.SessionState]int
	seq     int

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(svc *app.Service) Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		svc:         svc,
		ctx:         ctx,
		cancel:      cancel,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		habitsModel: habitlist.New(nil, 0, 0),
		adminModel:  admin.New(),
		pending:     make(map[constants.SessionState]int),
		tab:         constants.StateHabits,
	}

	user, err := svc.CurrentUser()
	if err != nil {
		logger.Warn("Failed to read session", "error", err)
	}
	if user == nil {
		m.startLogin()
	} else {
		m.user = user
		m.state = constants.StateHabits
		m.refresh()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.form != nil {
		return tea.Batch(m.form.Init(), m.spinner.Tick)
	}
	return m.spinner.Tick
}

func (m *Model) startLogin() {
	m.user = nil
	m.input = &TextFormModel{}
	m.form = NewLoginForm(&m.input.Value)
	m.state = constants.StateLogin
	m.tab = constants.StateHabits
	clear(m.pending)
}

// tabs lists the dashboard tabs visible to the current user.
func (m Model) tabs() []constants.SessionState {
	tabs := []constants.SessionState{constants.StateHabits, constants.StateWeek, constants.StateNutrition}
	if m.user != nil && m.user.IsAdmin() {
		tabs = append(tabs, constants.StateAdmin)
	}
	return tabs
}

// switchTab moves delta tabs over. Results of AI calls started on the tab
// being left are dropped when they arrive.
func (m *Model) switchTab(delta int) {
	tabs := m.tabs()
	i := slices.Index(tabs, m.tab)
	if i < 0 {
		i = 0
	}
	next := tabs[(i+delta+len(tabs))%len(tabs)]
	if next == m.tab {
		return
	}
	delete(m.pending, m.tab)
	m.tab = next
	m.state = next
	m.refresh()
}

// refresh reloads the current user's dashboard and, for admins, the overview.
func (m *Model) refresh() {
	if m.user == nil {
		return
	}
	dash, err := m.svc.Dashboard(m.user.ID)
	if err != nil {
		m.err = err
		return
	}
	m.dashboard = dash
	m.habitsModel.SetHabits(dash.Habits)

	if m.user.IsAdmin() {
		summary, err := m.svc.AdminOverview()
		if err != nil {
			m.err = err
			return
		}
		users, err := m.svc.ListUsers()
		if err != nil {
			m.err = err
			return
		}
		m.adminModel.SetData(summary, users)
	}
}

func (m Model) loading() bool {
	_, ok := m.pending[m.tab]
	return ok
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateHabits:
		hk := habitlist.DefaultKeyMap()
		keys = append(keys, hk.Toggle, hk.Add, hk.Delete)
	case constants.StateNutrition:
		keys = append(keys, m.keys.Meal)
	case constants.StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Left, m.keys.Right, m.keys.Quit, m.keys.Help, m.keys.Logout}

	var actions []key.Binding
	switch m.state {
	case constants.StateHabits:
		hk := habitlist.DefaultKeyMap()
		actions = []key.Binding{hk.Toggle, hk.Add, hk.Delete, hk.Suggest, hk.Insight}
	case constants.StateNutrition:
		actions = []key.Binding{m.keys.Meal}
	case constants.StateAdmin:
		ak := admin.DefaultKeyMap()
		actions = []key.Binding{ak.Up, ak.Down, ak.Open, ak.Close}
	}
	return [][]key.Binding{global, actions}
}
