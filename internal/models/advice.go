package models

// HabitSuggestion is one habit proposed by the AI coach.
type HabitSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Frequency   string `json:"frequency,omitempty"`
}

// HabitSummary is the per-habit digest sent with an insight request.
type HabitSummary struct {
	Title       string `json:"title"`
	Completions int    `json:"completions"`
	Frequency   string `json:"frequency"`
}

// NutritionData is the estimate returned for a free-text meal description.
// Protein, carbs and fat are in grams.
type NutritionData struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Summary  string  `json:"summary"`
	MealName string  `json:"mealName"`
}

// Summarize builds the insight digest for a list of habits.
func Summarize(habits []Habit) []HabitSummary {
	out := make([]HabitSummary, 0, len(habits))
	for _, h := range habits {
		out = append(out, HabitSummary{
			Title:       h.Title,
			Completions: len(h.CompletedDates),
			Frequency:   h.Frequency,
		})
	}
	return out
}
