package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitflow/internal/cli"
	"github.com/julianstephens/habitflow/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Reset every record and reseed the roster (a backup is taken first)."`
	Source string `help:"Source database path, JSON directory or connection string to copy users and habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		ctx.PerformAutomaticBackup()
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitflow storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Force {
		if err := resetRecords(ctx.Store); err != nil {
			return err
		}
		ctx.Println("Reset all records.")
	}

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	seeded, err := ctx.Service.Bootstrap()
	if err != nil {
		return err
	}
	if seeded {
		ctx.Println("Seeded the default roster. Log in with 'habitflow login alex@gmail.com'.")
	}
	return nil
}

func resetRecords(store storage.Provider) error {
	if err := store.SaveCurrentUser(nil); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if err := store.SaveHabits(nil); err != nil {
		return fmt.Errorf("failed to clear habits: %w", err)
	}
	if err := store.SaveUsers(nil); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, sourcePath string) error {
	src, err := openSource(sourcePath)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	ctx.Println("  Migrating users...")
	users, err := src.GetUsers()
	if err != nil {
		return fmt.Errorf("failed to get users from source: %w", err)
	}
	if err := ctx.Store.SaveUsers(users); err != nil {
		return fmt.Errorf("failed to save users to destination: %w", err)
	}
	ctx.Printf("    Migrated %d users\n", len(users))

	ctx.Println("  Migrating habits...")
	habits, err := src.GetHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	if err := ctx.Store.SaveHabits(habits); err != nil {
		return fmt.Errorf("failed to save habits to destination: %w", err)
	}
	ctx.Printf("    Migrated %d habits\n", len(habits))
	return nil
}

// openSource picks a provider for a migration source: PostgreSQL for URLs,
// the JSON store for directories and SQLite otherwise.
func openSource(path string) (storage.Provider, error) {
	if storage.IsPostgresConnString(path) {
		if storage.HasEmbeddedCredentials(path) {
			return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
		}
		return storage.NewPostgresStore(path), nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return storage.NewJSONStore(path), nil
	}
	return storage.NewSQLiteStore(path), nil
}
