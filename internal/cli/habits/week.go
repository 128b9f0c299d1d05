package habits

import (
	"github.com/julianstephens/habitflow/internal/cli"
)

type WeekCmd struct {
	User string `help:"Show another user's week (admin only)." default:""`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	userID, err := targetUser(ctx, c.User)
	if err != nil {
		return err
	}
	d, err := ctx.Service.Dashboard(userID)
	if err != nil {
		return err
	}

	ctx.Println("Completions over the last 7 days:")
	ctx.Println()
	for _, line := range cli.WeeklyLines(d.Weekly) {
		ctx.Println(line)
	}
	ctx.Printf("\nTotal: %d\n", d.Weekly.Total)
	return nil
}
