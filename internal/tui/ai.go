package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitflow/internal/app"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/models"
)

type suggestDoneMsg struct {
	tab   constants.SessionState
	seq   int
	added []models.Habit
	err   error
}

type insightDoneMsg struct {
	tab  constants.SessionState
	seq  int
	text string
	err  error
}

type nutritionDoneMsg struct {
	tab  constants.SessionState
	seq  int
	data *models.NutritionData
}

// begin registers an AI call for the current tab and returns its sequence.
func (m *Model) begin() (constants.SessionState, int) {
	m.seq++
	m.pending[m.tab] = m.seq
	m.status = ""
	m.err = nil
	return m.tab, m.seq
}

// accept reports whether a finished AI call should update the screen: it
// must be the latest call for its tab and that tab must still be shown.
func (m *Model) accept(tab constants.SessionState, seq int) bool {
	if m.pending[tab] != seq {
		return false
	}
	delete(m.pending, tab)
	return m.tab == tab && m.user != nil
}

func suggestCmd(ctx context.Context, svc *app.Service, tab constants.SessionState, seq int, topic string) tea.Cmd {
	return func() tea.Msg {
		added, err := svc.AddSuggestedHabits(ctx, topic)
		return suggestDoneMsg{tab: tab, seq: seq, added: added, err: err}
	}
}

func insightCmd(ctx context.Context, svc *app.Service, tab constants.SessionState, seq int, userID string) tea.Cmd {
	return func() tea.Msg {
		text, err := svc.Insight(ctx, userID)
		return insightDoneMsg{tab: tab, seq: seq, text: text, err: err}
	}
}

func nutritionCmd(ctx context.Context, svc *app.Service, tab constants.SessionState, seq int, meal string) tea.Cmd {
	return func() tea.Msg {
		return nutritionDoneMsg{tab: tab, seq: seq, data: svc.Nutrition(ctx, meal)}
	}
}
