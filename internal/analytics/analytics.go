// Package analytics derives read-only dashboard figures from users and habits.
// Nothing is cached; every call recomputes from its arguments.
package analytics

import (
	"time"

	"github.com/julianstephens/habitflow/internal/completion"
	"github.com/julianstephens/habitflow/internal/models"
)

// CategoryCount is the number of habits carrying one category label.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// UserCount is the number of habits owned by one user.
type UserCount struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Habits int    `json:"habits"`
}

// DayCount is the number of completions recorded on one day of the window.
type DayCount struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	Completed int    `json:"completed"`
}

// Weekly is the completion count for each day of the recent window.
type Weekly struct {
	Days  []DayCount `json:"days"`
	Total int        `json:"total"`
}

// Max returns the highest single-day count.
func (w Weekly) Max() int {
	m := 0
	for _, d := range w.Days {
		m = max(m, d.Completed)
	}
	return m
}

// Summary bundles the figures shown on the admin overview.
type Summary struct {
	TotalUsers   int             `json:"totalUsers"`
	TotalHabits  int             `json:"totalHabits"`
	Categories   []CategoryCount `json:"categories"`
	Engagement   []UserCount     `json:"engagement"`
	Weekly       Weekly          `json:"weekly"`
	ActiveToday  int             `json:"activeToday"`
	CompletedAll int             `json:"completedAll"`
}

// CategoryDistribution counts habits per category in first-seen order.
func CategoryDistribution(habits []models.Habit) []CategoryCount {
	index := make(map[string]int)
	out := make([]CategoryCount, 0)
	for _, h := range habits {
		i, ok := index[h.Category]
		if !ok {
			index[h.Category] = len(out)
			out = append(out, CategoryCount{Name: h.Category})
			i = len(out) - 1
		}
		out[i].Value++
	}
	return out
}

// UserEngagement returns one row per roster user, in roster order, with the
// number of habits they own. Habits of unknown users are not counted.
func UserEngagement(users []models.User, habits []models.Habit) []UserCount {
	counts := make(map[string]int, len(users))
	for _, h := range habits {
		counts[h.UserID]++
	}

	out := make([]UserCount, 0, len(users))
	for _, u := range users {
		out = append(out, UserCount{
			UserID: u.ID,
			Name:   u.FirstName(),
			Habits: counts[u.ID],
		})
	}
	return out
}

// WeeklyTotals counts completions across habits for each day of the recent
// window ending today.
func WeeklyTotals(habits []models.Habit, today time.Time) Weekly {
	window := completion.RecentWindow(today)
	w := Weekly{Days: make([]DayCount, 0, len(window))}
	for _, date := range window {
		n := 0
		for _, h := range habits {
			if completion.IsComplete(h.CompletedDates, date) {
				n++
			}
		}
		w.Days = append(w.Days, DayCount{
			Date:      date,
			Weekday:   weekdayLabel(date),
			Completed: n,
		})
		w.Total += n
	}
	return w
}

// Overview computes the admin summary over the full roster and habit set.
func Overview(users []models.User, habits []models.Habit, today time.Time) Summary {
	todayStr := completion.FormatDay(today)
	s := Summary{
		TotalUsers:  len(users),
		TotalHabits: len(habits),
		Categories:  CategoryDistribution(habits),
		Engagement:  UserEngagement(users, habits),
		Weekly:      WeeklyTotals(habits, today),
	}
	for _, h := range habits {
		if completion.IsComplete(h.CompletedDates, todayStr) {
			s.ActiveToday++
		}
		s.CompletedAll += len(completion.Normalize(h.CompletedDates))
	}
	return s
}

func weekdayLabel(date string) string {
	t, err := completion.ParseDay(date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()[:3]
}
