package system

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitflow/internal/cli"
	"github.com/julianstephens/habitflow/internal/config"
	"github.com/julianstephens/habitflow/internal/keyring"
	"github.com/julianstephens/habitflow/internal/storage"
)

type DoctorCmd struct {
	Fix bool `help:"Normalize completion dates and clear a stale session."`
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	check := func(name string, err error) {
		if err != nil {
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}
	warn := func(name string, err error) {
		if err != nil {
			ctx.Printf("⚠ %s: WARNING\n", name)
			ctx.Printf("   %v\n", err)
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}
	skip := func(name string) {
		ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", name)
	}

	loadErr := ctx.Store.Load()
	check("Storage reachable", loadErr)
	reachable := loadErr == nil

	if reachable {
		check("Schema version", checkSchemaVersion(ctx.Store))
	} else {
		skip("Schema version")
	}

	if ctx.BackupManager() != nil {
		warn("Backups present", checkBackupsPresent(ctx))
	}

	if reachable {
		if cmd.Fix {
			fixed, err := ctx.Service.Repair()
			check("Repair", err)
			if err == nil && fixed > 0 {
				ctx.Printf("   Normalized completion dates of %d habits\n", fixed)
			}
		}
		check("Data integrity", checkData(ctx))
	} else {
		skip("Data integrity")
	}

	check("Clock/timezone", checkClockTimezone())
	warn("AI coach", checkAPIKey())

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(store storage.Provider) error {
	v, ok := store.(storage.Versioned)
	if !ok {
		return nil
	}
	current, latest, err := v.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitflow init')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.BackupManager().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitflow backup create'")
	}
	return nil
}

func checkData(ctx *cli.Context) error {
	rep, err := ctx.Service.Check()
	if err != nil {
		return err
	}
	if rep.Clean() {
		return nil
	}

	var problems []string
	if n := len(rep.InvalidDates); n > 0 {
		ids := make([]string, 0, n)
		for id := range rep.InvalidDates {
			ids = append(ids, cli.ShortID(id))
		}
		sort.Strings(ids)
		problems = append(problems, fmt.Sprintf("%d habits with malformed or duplicate dates (%s); run with --fix", n, strings.Join(ids, ", ")))
	}
	if len(rep.DuplicateIDs) > 0 {
		problems = append(problems, fmt.Sprintf("duplicate habit ids: %s", strings.Join(rep.DuplicateIDs, ", ")))
	}
	if len(rep.OrphanHabits) > 0 {
		problems = append(problems, fmt.Sprintf("%d habits owned by unknown users", len(rep.OrphanHabits)))
	}
	if rep.StaleSession {
		problems = append(problems, "session points at a user missing from the roster; run with --fix")
	}
	return fmt.Errorf("%s", strings.Join(problems, "\n   "))
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkAPIKey() error {
	if _, source := config.ResolveAPIKey(); source == config.SourceNone {
		if !keyring.IsAvailable() {
			return fmt.Errorf("no Gemini API key and the OS keyring is unavailable; set GEMINI_API_KEY")
		}
		return fmt.Errorf("no Gemini API key configured; AI features will use fallback answers ('habitflow key set')")
	}
	return nil
}
