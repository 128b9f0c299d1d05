package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitflow/internal/cli"
	"github.com/julianstephens/habitflow/internal/reminder"
)

type RemindCmd struct {
	Once bool `help:"Check reminders for the current minute and exit."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	d := reminder.NewDaemon(ctx.Service, ctx.Out, nil)
	if c.Once {
		_, err := d.Tick()
		return err
	}

	lock, err := reminder.AcquireLock(ctx.Config.Dir())
	if err != nil {
		return err
	}
	defer lock.Release()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Println("Reminder daemon running. Press Ctrl+C to stop.")
	return d.Run(runCtx)
}
