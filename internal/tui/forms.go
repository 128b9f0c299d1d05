package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/models"
)

type HabitFormModel struct {
	Title       string
	Description string
	Category    string
	Frequency   string
	Color       string
	Reminder    string
}

// TextFormModel backs the single-field forms: login, topic and meal.
type TextFormModel struct {
	Value string
}

func (f *HabitFormModel) Input(userID string) models.NewHabitInput {
	return models.NewHabitInput{
		UserID:       userID,
		Title:        f.Title,
		Description:  f.Description,
		Category:     f.Category,
		Frequency:    f.Frequency,
		Color:        f.Color,
		ReminderTime: f.Reminder,
	}
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(what + " cannot be empty")
		}
		return nil
	}
}

func NewLoginForm(email *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("alex@gmail.com").
				Value(email).
				Validate(required("email")),
		),
	).WithShowHelp(false)
}

func NewHabitForm(hf *HabitFormModel) *huh.Form {
	palette := models.Palette()
	colorOpts := make([]huh.Option[string], 0, len(palette))
	for _, c := range palette {
		colorOpts = append(colorOpts, huh.NewOption(c, c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&hf.Title).
				Validate(required("title")),
			huh.NewInput().
				Title("Description").
				Placeholder(constants.DefaultDescription).
				Value(&hf.Description),
			huh.NewInput().
				Title("Category").
				Placeholder(constants.DefaultCategory).
				Value(&hf.Category),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(huh.NewOptions("Daily", "Weekly")...).
				Value(&hf.Frequency),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOpts...).
				Value(&hf.Color),
			huh.NewInput().
				Title("Reminder (HH:MM, optional)").
				Value(&hf.Reminder).
				Validate(models.ValidateReminderTime),
		),
	)
}

func NewTopicForm(topic *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What would you like to work on?").
				Placeholder("better sleep").
				Value(topic).
				Validate(required("topic")),
		),
	)
}

func NewMealForm(meal *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Describe your meal").
				Placeholder("two eggs, toast and an orange juice").
				Value(meal).
				Validate(required("meal")),
		),
	)
}
