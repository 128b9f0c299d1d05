package admin

import (
	"github.com/julianstephens/habitflow/internal/cli"
)

type AdminCmd struct {
	Overview OverviewCmd `cmd:"" help:"Show totals, category distribution and engagement." default:"1"`
	User     UserCmd     `cmd:"" help:"Show one user's habits (read-only)."`
}

type OverviewCmd struct{}

func (c *OverviewCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Service.RequireAdmin(); err != nil {
		return err
	}
	sum, err := ctx.Service.AdminOverview()
	if err != nil {
		return err
	}

	ctx.Printf("Users:            %d\n", sum.TotalUsers)
	ctx.Printf("Habits:           %d\n", sum.TotalHabits)
	ctx.Printf("Done today:       %d\n", sum.ActiveToday)
	ctx.Printf("All completions:  %d\n", sum.CompletedAll)

	ctx.Println("\nHabits by category:")
	if len(sum.Categories) == 0 {
		ctx.Println("  (none)")
	}
	for _, cat := range sum.Categories {
		ctx.Printf("  %-16s %d\n", cat.Name, cat.Value)
	}

	ctx.Println("\nHabits per user:")
	for _, e := range sum.Engagement {
		ctx.Printf("  %-10s %-12s %d\n", e.UserID, e.Name, e.Habits)
	}

	ctx.Println("\nCompletions over the last 7 days:")
	for _, line := range cli.WeeklyLines(sum.Weekly) {
		ctx.Printf("  %s\n", line)
	}
	return nil
}

type UserCmd struct {
	ID string `arg:"" help:"User id."`
}

func (c *UserCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Service.RequireAdmin(); err != nil {
		return err
	}
	u, err := ctx.Service.User(c.ID)
	if err != nil {
		return err
	}
	d, err := ctx.Service.Dashboard(u.ID)
	if err != nil {
		return err
	}

	ctx.Printf("%s <%s> (%s)\n", u.Name, u.Email, u.Role)
	ctx.Printf("Joined %s, %d habits\n\n", u.JoinedAt.Local().Format("2006-01-02"), len(d.Habits))
	for _, v := range d.Habits {
		ctx.Printf("%s %-24s %-10s streak %-3d %s\n",
			cli.Checkbox(v.CompletedToday), v.Habit.Title, v.Habit.Category, v.Streak, cli.WindowStrip(v.Window))
	}
	return nil
}
