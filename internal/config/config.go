// Package config resolves runtime settings from flags, the environment, an
// optional .env file and the OS keyring.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/keyring"
	"github.com/julianstephens/habitflow/internal/storage"
)

// Sources of the Gemini API key, reported by `key status`.
const (
	SourceEnv     = "env"
	SourceKeyring = "keyring"
	SourceNone    = "none"
)

// Config is the resolved runtime configuration.
type Config struct {
	ConfigPath string
	Store      string
	Debug      bool

	GeminiAPIKey     string
	GeminiKeySource  string
	GeminiModel      string
	GeminiBaseURL    string
	AIRequestsPerMin int
	AIBurst          int
}

// LoadDotenv reads .env files into the process environment. Missing files are
// skipped and variables already set win over the files.
func LoadDotenv(files ...string) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load builds a Config from the given flag values and the environment. The
// API key is looked up in GEMINI_API_KEY first and the OS keyring second.
func Load(configPath, store string, debug bool) *Config {
	cfg := &Config{
		ConfigPath:       ExpandPath(configPath),
		Store:            strings.ToLower(strings.TrimSpace(store)),
		Debug:            debug,
		GeminiModel:      getEnv(constants.EnvGeminiModel, constants.DefaultGeminiModel),
		GeminiBaseURL:    getEnv(constants.EnvGeminiBaseURL, constants.DefaultGeminiBaseURL),
		AIRequestsPerMin: getEnvInt(constants.EnvAIRequestsPerMin, constants.DefaultAIRequestsPerMin),
		AIBurst:          constants.DefaultAIBurst,
	}
	cfg.GeminiAPIKey, cfg.GeminiKeySource = ResolveAPIKey()
	return cfg
}

// ResolveAPIKey returns the Gemini API key and where it came from.
func ResolveAPIKey() (string, string) {
	if v := strings.TrimSpace(os.Getenv(constants.EnvGeminiAPIKey)); v != "" {
		return v, SourceEnv
	}
	if v, err := keyring.GetAPIKey(); err == nil && v != "" {
		return v, SourceKeyring
	}
	return "", SourceNone
}

// ResolveConnString returns the PostgreSQL connection string to use when
// --config names none: the environment first, then the OS keyring.
func ResolveConnString() (string, error) {
	if v := strings.TrimSpace(os.Getenv(constants.EnvPostgresConnection)); v != "" {
		return v, nil
	}
	v, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

// StoreKind returns the provider kind, inferring it from the path when the
// store was not chosen explicitly.
func (c *Config) StoreKind() string {
	if c.Store != "" {
		return c.Store
	}
	if storage.IsPostgresConnString(c.ConfigPath) {
		return constants.StorePostgres
	}
	return constants.StoreSQLite
}

// StorePath returns the location handed to the provider. The JSON store keeps
// its records in a directory next to where the database file would live.
func (c *Config) StorePath() string {
	if c.StoreKind() == constants.StoreJSON && filepath.Ext(c.ConfigPath) != "" {
		return strings.TrimSuffix(c.ConfigPath, filepath.Ext(c.ConfigPath)) + "-data"
	}
	return c.ConfigPath
}

// Dir is the directory holding logs, backups and the reminder lock.
func (c *Config) Dir() string {
	if c.StoreKind() == constants.StorePostgres || c.StoreKind() == constants.StoreMemory {
		return ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	}
	return filepath.Dir(c.ConfigPath)
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
