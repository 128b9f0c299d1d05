package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitflow/internal/cli"
	"github.com/julianstephens/habitflow/internal/config"
	"github.com/julianstephens/habitflow/internal/keyring"
	"github.com/julianstephens/habitflow/internal/storage"
)

// KeyCmd manages the secrets habitflow keeps in the OS keyring.
type KeyCmd struct {
	Set      KeySetCmd      `cmd:"" help:"Store the Gemini API key in the OS keyring."`
	Delete   KeyDeleteCmd   `cmd:"" help:"Remove the Gemini API key from the OS keyring."`
	Status   KeyStatusCmd   `cmd:"" help:"Show where the API key and connection string come from."`
	SetDB    KeySetDBCmd    `cmd:"" name:"set-db" help:"Store a PostgreSQL connection string in the OS keyring."`
	DeleteDB KeyDeleteDBCmd `cmd:"" name:"delete-db" help:"Remove the PostgreSQL connection string from the OS keyring."`
}

type KeySetCmd struct {
	Key string `arg:"" optional:"" help:"Gemini API key. Prompted for when omitted."`
}

func (cmd *KeySetCmd) Run(ctx *cli.Context) error {
	key := strings.TrimSpace(cmd.Key)
	if key == "" {
		err := huh.NewInput().
			Title("Gemini API key").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("key cannot be empty")
				}
				return nil
			}).
			Value(&key).
			Run()
		if err != nil {
			return err
		}
		key = strings.TrimSpace(key)
	}

	if err := keyring.SetAPIKey(key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}
	ctx.Println("✓ API key stored successfully in OS keyring")
	return nil
}

type KeyDeleteCmd struct{}

func (cmd *KeyDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring")
		}
		return fmt.Errorf("failed to delete API key from keyring: %w", err)
	}
	ctx.Println("✓ API key deleted from OS keyring")
	return nil
}

type KeyStatusCmd struct{}

func (cmd *KeyStatusCmd) Run(ctx *cli.Context) error {
	if keyring.IsAvailable() {
		ctx.Println("✓ OS keyring is available")
	} else {
		ctx.Println("❌ OS keyring is not available on this system")
	}

	switch _, source := config.ResolveAPIKey(); source {
	case config.SourceEnv:
		ctx.Println("✓ Gemini API key: from environment (GEMINI_API_KEY)")
	case config.SourceKeyring:
		ctx.Println("✓ Gemini API key: stored in keyring")
	default:
		ctx.Println("ℹ No Gemini API key configured; AI features use fallback answers")
	}

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		ctx.Printf("✓ Connection string: %s\n", maskPassword(connStr))
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println("ℹ No connection string stored in keyring")
	}
	return nil
}

type KeySetDBCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring."`
}

func (cmd *KeySetDBCmd) Run(ctx *cli.Context) error {
	if !storage.IsPostgresConnString(cmd.ConnectionString) && !strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if err := storage.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, storage.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
		ctx.Println("   To keep passwords separate from connection strings, use .pgpass instead.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	ctx.Println("✓ Connection string stored successfully in OS keyring")
	ctx.Println("  Use '--store postgres' to connect with it")
	return nil
}

type KeyDeleteDBCmd struct{}

func (cmd *KeyDeleteDBCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// maskPassword hides the password of a URL or DSN connection string.
func maskPassword(connStr string) string {
	if storage.IsPostgresConnString(connStr) {
		idx := strings.Index(connStr, "://")
		remaining := connStr[idx+3:]
		if at := strings.LastIndex(remaining, "@"); at != -1 {
			userInfo := remaining[:at]
			if colon := strings.Index(userInfo, ":"); colon != -1 {
				return connStr[:idx+3] + userInfo[:colon] + ":****" + remaining[at:]
			}
		}
		return connStr
	}

	parts := strings.Fields(connStr)
	for i, part := range parts {
		if strings.HasPrefix(part, "password=") {
			parts[i] = "password=****"
		}
	}
	return strings.Join(parts, " ")
}
