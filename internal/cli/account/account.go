package account

import (
	"github.com/julianstephens/habitflow/internal/cli"
)

type LoginCmd struct {
	Email string `arg:"" help:"Email address of a roster user."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	u, err := ctx.Service.Login(c.Email)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Logged in as %s (%s)\n", u.Name, u.Role)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Service.Logout(); err != nil {
		return err
	}
	ctx.Println("✓ Logged out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	u, err := ctx.Service.CurrentUser()
	if err != nil {
		return err
	}
	if u == nil {
		ctx.Println("Not logged in.")
		return nil
	}
	ctx.Printf("%s <%s>\n", u.Name, u.Email)
	ctx.Printf("  id:     %s\n", u.ID)
	ctx.Printf("  role:   %s\n", u.Role)
	ctx.Printf("  joined: %s\n", u.JoinedAt.Local().Format("2006-01-02"))
	return nil
}

type UsersCmd struct{}

func (c *UsersCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Service.RequireAdmin(); err != nil {
		return err
	}
	users, err := ctx.Service.ListUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		ctx.Println("No users found.")
		return nil
	}
	for _, u := range users {
		ctx.Printf("%-10s %-16s %-24s %s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return nil
}
