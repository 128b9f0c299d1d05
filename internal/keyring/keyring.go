// Package keyring keeps habitflow secrets in the OS keyring: the Gemini API
// key and, optionally, a PostgreSQL connection string.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitflow/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the account
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(account string) (string, error) {
	v, err := keyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func set(account, value, what string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if err := keyring.Set(constants.AppName, account, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", what, err)
	}
	return nil
}

func del(account, what string) error {
	if err := keyring.Delete(constants.AppName, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", what, err)
	}
	return nil
}

// GetAPIKey returns the stored Gemini API key or ErrNotFound.
func GetAPIKey() (string, error) {
	return get(constants.DefaultKeyringUser)
}

// SetAPIKey stores the Gemini API key.
func SetAPIKey(key string) error {
	return set(constants.DefaultKeyringUser, strings.TrimSpace(key), "API key")
}

// DeleteAPIKey removes the stored Gemini API key.
func DeleteAPIKey() error {
	return del(constants.DefaultKeyringUser, "API key")
}

// GetConnectionString returns the stored PostgreSQL connection string or ErrNotFound.
func GetConnectionString() (string, error) {
	return get(constants.PostgresKeyringUser)
}

// SetConnectionString stores a PostgreSQL connection string.
func SetConnectionString(connStr string) error {
	return set(constants.PostgresKeyringUser, connStr, "connection string")
}

// DeleteConnectionString removes the stored PostgreSQL connection string.
func DeleteConnectionString() error {
	return del(constants.PostgresKeyringUser, "connection string")
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
