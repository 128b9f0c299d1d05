package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitflow/internal/analytics"
	"github.com/julianstephens/habitflow/internal/completion"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
)

// WindowCell is one day of a habit's recent-days strip.
type WindowCell struct {
	Date    string
	Weekday string
	Done    bool
}

// HabitView is a habit with its derived figures for display.
type HabitView struct {
	Habit          models.Habit
	Streak         int
	LongestStreak  int
	CompletedToday bool
	Window         []WindowCell
}

// Dashboard is everything shown on one user's habit screen.
type Dashboard struct {
	Today  string
	Habits []HabitView
	Weekly analytics.Weekly
}

// CompletedToday counts the habits checked off today.
func (d Dashboard) CompletedToday() int {
	n := 0
	for _, h := range d.Habits {
		if h.CompletedToday {
			n++
		}
	}
	return n
}

// AllHabits returns every habit in stored order.
func (s *Service) AllHabits() ([]models.Habit, error) {
	habits, err := s.store.GetHabits()
	if err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}
	return habits, nil
}

// UserHabits returns the habits owned by userID in stored order.
func (s *Service) UserHabits(userID string) ([]models.Habit, error) {
	all, err := s.AllHabits()
	if err != nil {
		return nil, err
	}
	out := make([]models.Habit, 0)
	for _, h := range all {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

// Habit returns the habit with the given id.
func (s *Service) Habit(id string) (*models.Habit, error) {
	all, err := s.AllHabits()
	if err != nil {
		return nil, err
	}
	for _, h := range all {
		if h.ID == id {
			return &h, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
}

// AddHabit creates a habit for the session user. An admin may name another
// owner in in.UserID; the id is stored as given without checking the roster.
func (s *Service) AddHabit(in models.NewHabitInput) (models.Habit, error) {
	u, err := s.RequireUser()
	if err != nil {
		return models.Habit{}, err
	}
	in.UserID = strings.TrimSpace(in.UserID)
	switch {
	case in.UserID == "":
		in.UserID = u.ID
	case in.UserID != u.ID && !u.IsAdmin():
		return models.Habit{}, ErrForbidden
	}

	if strings.TrimSpace(in.Title) == "" {
		return models.Habit{}, ErrEmptyTitle
	}
	if err := models.ValidateReminderTime(in.ReminderTime); err != nil {
		return models.Habit{}, fmt.Errorf("%w: %v", ErrInvalidReminder, err)
	}

	habit := models.NewHabit(in, s.now())
	if err := s.appendHabits(habit); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit added", "id", habit.ID, "user", habit.UserID)
	return habit, nil
}

// AddSuggestedHabits asks the advisor for habits about topic and adds every
// suggestion to the session user. An empty result means nothing was added;
// advisor failures are not errors.
func (s *Service) AddSuggestedHabits(ctx context.Context, topic string) ([]models.Habit, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	u, err := s.RequireUser()
	if err != nil {
		return nil, err
	}

	suggestions := s.advisor.SuggestHabits(ctx, topic)
	added := make([]models.Habit, 0, len(suggestions))
	now := s.now()
	for _, sg := range suggestions {
		desc := sg.Description
		if strings.TrimSpace(desc) == "" {
			desc = constants.SuggestedDescription
		}
		added = append(added, models.NewHabit(models.NewHabitInput{
			UserID:      u.ID,
			Title:       sg.Title,
			Description: desc,
			Category:    constants.SuggestedCategory,
			Frequency:   sg.Frequency,
			Color:       constants.SuggestedColor,
		}, now))
	}
	if len(added) == 0 {
		return added, nil
	}

	if err := s.appendHabits(added...); err != nil {
		return nil, err
	}
	logger.Info("Suggested habits added", "topic", topic, "count", len(added))
	return added, nil
}

func (s *Service) appendHabits(add ...models.Habit) error {
	all, err := s.AllHabits()
	if err != nil {
		return err
	}
	if err := s.store.SaveHabits(append(all, add...)); err != nil {
		return fmt.Errorf("failed to save habits: %w", err)
	}
	return nil
}

// ToggleCompletion flips day in the habit's completion set. An empty day means
// today. It reports false, without error, when no habit has that id.
func (s *Service) ToggleCompletion(habitID, day string) (bool, error) {
	if day == "" {
		day = s.Today()
	} else if _, err := completion.ParseDay(day); err != nil {
		return false, fmt.Errorf("%w: %s (expected YYYY-MM-DD)", ErrInvalidDate, day)
	}

	all, err := s.AllHabits()
	if err != nil {
		return false, err
	}
	for i := range all {
		if all[i].ID != habitID {
			continue
		}
		all[i].CompletedDates = completion.Toggle(all[i].CompletedDates, day)
		if err := s.store.SaveHabits(all); err != nil {
			return false, fmt.Errorf("failed to save habits: %w", err)
		}
		logger.Debug("Habit toggled", "id", habitID, "day", day)
		return true, nil
	}
	return false, nil
}

// DeleteHabit removes the habit. It reports false, without error, when no
// habit has that id.
func (s *Service) DeleteHabit(habitID string) (bool, error) {
	all, err := s.AllHabits()
	if err != nil {
		return false, err
	}
	kept := make([]models.Habit, 0, len(all))
	for _, h := range all {
		if h.ID != habitID {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(all) {
		return false, nil
	}
	if err := s.store.SaveHabits(kept); err != nil {
		return false, fmt.Errorf("failed to save habits: %w", err)
	}
	logger.Info("Habit deleted", "id", habitID)
	return true, nil
}

// View derives the display figures for one habit.
func (s *Service) View(h models.Habit) HabitView {
	now := s.now()
	today := completion.FormatDay(now)
	days := completion.RecentWindow(now)
	window := make([]WindowCell, 0, len(days))
	for _, d := range days {
		cell := WindowCell{Date: d, Done: completion.IsComplete(h.CompletedDates, d)}
		if t, err := completion.ParseDay(d); err == nil {
			cell.Weekday = t.Weekday().String()[:3]
		}
		window = append(window, cell)
	}
	return HabitView{
		Habit:          h,
		Streak:         completion.CurrentStreak(h.CompletedDates, now),
		LongestStreak:  completion.LongestStreak(h.CompletedDates),
		CompletedToday: completion.IsComplete(h.CompletedDates, today),
		Window:         window,
	}
}

// Dashboard builds the habit screen for userID.
func (s *Service) Dashboard(userID string) (Dashboard, error) {
	habits, err := s.UserHabits(userID)
	if err != nil {
		return Dashboard{}, err
	}
	views := make([]HabitView, 0, len(habits))
	for _, h := range habits {
		views = append(views, s.View(h))
	}
	return Dashboard{
		Today:  s.Today(),
		Habits: views,
		Weekly: analytics.WeeklyTotals(habits, s.now()),
	}, nil
}

// AdminOverview aggregates every user and habit.
func (s *Service) AdminOverview() (analytics.Summary, error) {
	users, err := s.ListUsers()
	if err != nil {
		return analytics.Summary{}, err
	}
	habits, err := s.AllHabits()
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Overview(users, habits, s.now()), nil
}
