package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitflow/internal/constants"
)

// Habit is a recurring practice owned by one user.
//
// CompletedDates is logically a set of YYYY-MM-DD days; it is stored as a list
// and may contain duplicates or malformed values written by older clients.
type Habit struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Frequency      string    `json:"frequency"`
	CreatedAt      time.Time `json:"createdAt"`
	CompletedDates []string  `json:"completedDates"`
	Color          string    `json:"color"`
	ReminderTime   string    `json:"reminderTime,omitempty"`
}

// NewHabitInput carries the user-editable fields of a habit.
type NewHabitInput struct {
	UserID       string
	Title        string
	Description  string
	Category     string
	Frequency    string
	Color        string
	ReminderTime string
}

// NewHabit builds a habit with a fresh id, an empty completion set and
// defaults applied to every blank field.
func NewHabit(in NewHabitInput, now time.Time) Habit {
	return Habit{
		ID:             uuid.New().String(),
		UserID:         in.UserID,
		Title:          strings.TrimSpace(in.Title),
		Description:    orDefault(in.Description, constants.DefaultDescription),
		Category:       orDefault(in.Category, constants.DefaultCategory),
		Frequency:      orDefault(in.Frequency, constants.DefaultFrequency),
		CreatedAt:      now.UTC(),
		CompletedDates: []string{},
		Color:          NormalizeColor(in.Color),
		ReminderTime:   strings.TrimSpace(in.ReminderTime),
	}
}

// ColorTag returns the habit's color, normalised to the palette.
func (h Habit) ColorTag() string {
	return NormalizeColor(h.Color)
}

// NormalizeColor maps unknown or empty colors to the default palette entry.
func NormalizeColor(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if slices.Contains(constants.Palette, c) {
		return c
	}
	return constants.DefaultColor
}

// ValidateReminderTime accepts an empty value or a 24h HH:MM time of day.
func ValidateReminderTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) != len(constants.TimeFormat) {
		return fmt.Errorf("invalid reminder time %q (expected HH:MM)", s)
	}
	if _, err := time.Parse(constants.TimeFormat, s); err != nil {
		return fmt.Errorf("invalid reminder time %q (expected HH:MM)", s)
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

// Palette returns a copy of the allowed habit colors.
func Palette() []string {
	return slices.Clone(constants.Palette)
}
