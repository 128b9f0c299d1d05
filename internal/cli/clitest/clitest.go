// Package clitest builds command contexts backed by an in-memory store for
// command tests.
package clitest

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/julianstephens/habitflow/internal/app"
	"github.com/julianstephens/habitflow/internal/cli"
	"github.com/julianstephens/habitflow/internal/config"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
)

// Now is the fixed clock of every test context.
var Now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// Advisor returns canned answers and records what it was asked.
type Advisor struct {
	Suggestions []models.HabitSuggestion
	Insight     string
	Nutrition   *models.NutritionData

	Topics []string
	Meals  []string
}

func (a *Advisor) SuggestHabits(_ context.Context, topic string) []models.HabitSuggestion {
	a.Topics = append(a.Topics, topic)
	return a.Suggestions
}

func (a *Advisor) GetInsight(context.Context, []models.HabitSummary) string {
	if a.Insight == "" {
		return constants.DefaultInsightFallback
	}
	return a.Insight
}

func (a *Advisor) AnalyzeNutrition(_ context.Context, meal string) *models.NutritionData {
	a.Meals = append(a.Meals, meal)
	return a.Nutrition
}

// New returns a bootstrapped context with email logged in (none when empty),
// and the buffer collecting its output.
func New(t *testing.T, email string) (*cli.Context, *bytes.Buffer, *Advisor) {
	t.Helper()
	store := storage.NewMemoryStore()
	adv := &Advisor{}
	return NewWithStore(t, store, adv, email)
}

// NewWithStore is New over a caller-supplied, already initialized store.
func NewWithStore(t *testing.T, store storage.Provider, adv *Advisor, email string) (*cli.Context, *bytes.Buffer, *Advisor) {
	t.Helper()
	svc := app.New(store, adv, func() time.Time { return Now })
	if _, err := svc.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if email != "" {
		if _, err := svc.Login(email); err != nil {
			t.Fatalf("Login(%s) failed: %v", email, err)
		}
	}
	out := &bytes.Buffer{}
	return &cli.Context{
		Config:  &config.Config{ConfigPath: store.GetConfigPath()},
		Store:   store,
		Service: svc,
		Advisor: adv,
		Out:     out,
		In:      &bytes.Buffer{},
	}, out, adv
}
