package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitflow/internal/app"
	"github.com/julianstephens/habitflow/internal/cli"
	"github.com/julianstephens/habitflow/internal/completion"
	"github.com/julianstephens/habitflow/internal/models"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with streaks and the last 7 days." default:"1"`
	Toggle HabitToggleCmd `cmd:"" help:"Mark or unmark a habit as done for a day."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
	Show   HabitShowCmd   `cmd:"" help:"Show one habit in detail."`
}

type HabitAddCmd struct {
	Title       string `arg:"" help:"Habit title."`
	Description string `help:"Short description." default:""`
	Category    string `help:"Category label." default:"Health"`
	Frequency   string `help:"Frequency label, e.g. Daily or Weekly." default:"Daily"`
	Color       string `help:"Color tag: blue, green, purple, rose, amber or cyan." default:"blue"`
	Reminder    string `help:"Daily reminder time (HH:MM)." default:""`
	User        string `help:"Owner user id (admin only)." default:""`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Service.AddHabit(models.NewHabitInput{
		UserID:       c.User,
		Title:        c.Title,
		Description:  c.Description,
		Category:     c.Category,
		Frequency:    c.Frequency,
		Color:        c.Color,
		ReminderTime: c.Reminder,
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added habit %q (%s)\n", h.Title, cli.ShortID(h.ID))
	return nil
}

type HabitListCmd struct {
	User string `help:"List another user's habits (admin only)." default:""`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	userID, err := targetUser(ctx, c.User)
	if err != nil {
		return err
	}
	d, err := ctx.Service.Dashboard(userID)
	if err != nil {
		return err
	}
	if len(d.Habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Printf("Habits for %s:\n\n", d.Today)
	for _, v := range d.Habits {
		ctx.Printf("%s %s  %-24s %-8s streak %-3d %s\n",
			cli.Checkbox(v.CompletedToday), cli.ShortID(v.Habit.ID), v.Habit.Title,
			v.Habit.Frequency, v.Streak, cli.WindowStrip(v.Window))
	}
	ctx.Printf("\nDone today: %d/%d\n", d.CompletedToday(), len(d.Habits))
	return nil
}

type HabitToggleCmd struct {
	ID   string `arg:"" help:"Habit id or unique id prefix."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	h, err := resolveHabit(ctx, c.ID)
	if err != nil {
		return err
	}
	if _, err := ctx.Service.ToggleCompletion(h.ID, c.Date); err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = ctx.Service.Today()
	}
	updated, err := ctx.Service.Habit(h.ID)
	if err != nil {
		return err
	}
	if completion.IsComplete(updated.CompletedDates, day) {
		ctx.Printf("Marked %q done for %s\n", h.Title, day)
	} else {
		ctx.Printf("Unmarked %q for %s\n", h.Title, day)
	}
	return nil
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit id or unique id prefix."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := resolveHabit(ctx, c.ID)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	if _, err := ctx.Service.DeleteHabit(h.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted habit %q\n", h.Title)
	return nil
}

type HabitShowCmd struct {
	ID string `arg:"" help:"Habit id or unique id prefix."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	h, err := resolveHabit(ctx, c.ID)
	if err != nil {
		return err
	}
	v := ctx.Service.View(*h)

	ctx.Printf("%s\n", h.Title)
	ctx.Printf("  id:          %s\n", h.ID)
	ctx.Printf("  owner:       %s\n", h.UserID)
	ctx.Printf("  description: %s\n", h.Description)
	ctx.Printf("  category:    %s\n", h.Category)
	ctx.Printf("  frequency:   %s\n", h.Frequency)
	ctx.Printf("  color:       %s\n", h.ColorTag())
	if h.ReminderTime != "" {
		ctx.Printf("  reminder:    %s\n", h.ReminderTime)
	}
	ctx.Printf("  created:     %s\n", h.CreatedAt.Local().Format("2006-01-02 15:04"))
	ctx.Printf("  done today:  %s\n", cli.Checkbox(v.CompletedToday))
	ctx.Printf("  streak:      %d (longest %d)\n", v.Streak, v.LongestStreak)
	ctx.Printf("  completions: %d\n", len(h.CompletedDates))
	ctx.Printf("  last 7 days: %s\n", cli.WindowStrip(v.Window))
	return nil
}

// targetUser returns the session user's id, or ref when an admin asks for
// someone else.
func targetUser(ctx *cli.Context, ref string) (string, error) {
	u, err := ctx.Service.RequireUser()
	if err != nil {
		return "", err
	}
	if ref == "" || ref == u.ID {
		return u.ID, nil
	}
	if !u.IsAdmin() {
		return "", app.ErrForbidden
	}
	target, err := ctx.Service.User(ref)
	if err != nil {
		return "", err
	}
	return target.ID, nil
}

// resolveHabit finds a habit visible to the session user by full id or
// unique prefix. Admins see every habit.
func resolveHabit(ctx *cli.Context, ref string) (*models.Habit, error) {
	u, err := ctx.Service.RequireUser()
	if err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty id", app.ErrHabitNotFound)
	}

	all, err := ctx.Service.AllHabits()
	if err != nil {
		return nil, err
	}
	var matches []models.Habit
	for _, h := range all {
		if h.UserID != u.ID && !u.IsAdmin() {
			continue
		}
		if h.ID == ref {
			return &h, nil
		}
		if strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", app.ErrHabitNotFound, ref)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("id prefix %q matches %d habits", ref, len(matches))
	}
}
