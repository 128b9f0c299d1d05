package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitflow/internal/advisor"
	"github.com/julianstephens/habitflow/internal/app"
	"github.com/julianstephens/habitflow/internal/cli"
	"github.com/julianstephens/habitflow/internal/cli/account"
	"github.com/julianstephens/habitflow/internal/cli/admin"
	"github.com/julianstephens/habitflow/internal/cli/ai"
	"github.com/julianstephens/habitflow/internal/cli/backups"
	"github.com/julianstephens/habitflow/internal/cli/habits"
	"github.com/julianstephens/habitflow/internal/cli/system"
	"github.com/julianstephens/habitflow/internal/config"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/errors"
	"github.com/julianstephens/habitflow/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path, JSON directory or PostgreSQL connection string. Connection strings must NOT embed a password; use the keyring, HABITFLOW_DB_CONNECTION or .pgpass." type:"string" env:"HABITFLOW_CONFIG" default:"~/.config/habitflow/habitflow.db"`
	Store   string `help:"Storage backend (sqlite, json, postgres, memory). Inferred from --config when empty." env:"HABITFLOW_STORE"`
	Debug   bool   `help:"Mirror logs to stderr at debug level."`
	DryRun  bool   `name:"dry-run" help:"Use a throwaway in-memory store."`

	Init   system.InitCmd   `cmd:"" help:"Initialize habitflow storage and seed the roster."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui    system.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Remind system.RemindCmd `cmd:"" help:"Run the habit reminder daemon."`
	Key    system.KeyCmd    `cmd:"" help:"Manage secrets in the OS keyring."`

	Login  account.LoginCmd  `cmd:"" help:"Log in by email."`
	Logout account.LogoutCmd `cmd:"" help:"End the current session."`
	Whoami account.WhoamiCmd `cmd:"" help:"Show the logged-in user."`
	Users  account.UsersCmd  `cmd:"" help:"List the roster (admin only)."`

	Habit habits.HabitCmd `cmd:"" help:"Manage habits and completions."`
	Week  habits.WeekCmd  `cmd:"" help:"Show completions over the last seven days."`
	Admin admin.AdminCmd  `cmd:"" help:"Organization overview (admin only)."`
	AI    ai.AICmd        `cmd:"" name:"ai" help:"AI coach: suggestions, insights and nutrition estimates."`

	Backup backups.BackupCmd `cmd:"" help:"Manage database backups."`
}

// selfLoading commands open storage on their own terms.
var selfLoading = map[string]bool{"init": true, "doctor": true, "key": true}

func main() {
	config.LoadDotenv()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal habit tracker with streaks, analytics and an AI coach"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg := config.Load(CLI.Config, CLI.Store, CLI.Debug)
	if CLI.DryRun {
		cfg.Store = constants.StoreMemory
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir()}); err != nil {
		errors.Fatal(err)
	}
	defer logger.Close()

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && command[0] == "key" {
		// Keyring commands must work before any storage is reachable.
		cfg.Store = constants.StoreMemory
	}

	store, err := cli.OpenStore(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	adv := advisor.NewGemini(advisor.Options{
		APIKey:            cfg.GeminiAPIKey,
		Model:             cfg.GeminiModel,
		BaseURL:           cfg.GeminiBaseURL,
		RequestsPerMinute: cfg.AIRequestsPerMin,
		Burst:             cfg.AIBurst,
	})
	svc := app.New(store, adv, nil)

	appCtx := &cli.Context{
		Config:  cfg,
		Store:   store,
		Service: svc,
		Advisor: adv,
		Out:     os.Stdout,
		In:      os.Stdin,
	}

	if cfg.StoreKind() == constants.StoreMemory {
		if err := store.Init(); err != nil {
			errors.Fatal(err)
		}
		if _, err := svc.Bootstrap(); err != nil {
			errors.Fatal(err)
		}
	} else if len(command) > 0 && !selfLoading[command[0]] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
		if _, err := svc.Bootstrap(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		logger.Close()
		errors.Fatal(err)
	}
}
