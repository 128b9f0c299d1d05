package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
)

// ErrNotLoaded is returned when a record is accessed before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

// backend is the raw key/value layer each provider implements.
type backend interface {
	readRecord(key string) (value []byte, found bool, err error)
	writeRecord(key string, value []byte) error
	deleteRecord(key string) error
}

// records implements the typed record accessors of Provider on top of a backend.
type records struct {
	b backend
}

func (r records) GetUsers() ([]models.User, error) {
	return readList[models.User](r.b, constants.UsersKey)
}

func (r records) SaveUsers(users []models.User) error {
	return writeList(r.b, constants.UsersKey, users)
}

func (r records) GetHabits() ([]models.Habit, error) {
	return readList[models.Habit](r.b, constants.HabitsKey)
}

func (r records) SaveHabits(habits []models.Habit) error {
	return writeList(r.b, constants.HabitsKey, habits)
}

func (r records) GetCurrentUser() (*models.User, error) {
	raw, found, err := r.b.readRecord(constants.CurrentUserKey)
	if err != nil || !found {
		return nil, err
	}

	var user *models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		repair(r.b, constants.CurrentUserKey, []byte("null"), err)
		return nil, nil
	}
	return user, nil
}

func (r records) SaveCurrentUser(user *models.User) error {
	if user == nil {
		return r.b.deleteRecord(constants.CurrentUserKey)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	return r.b.writeRecord(constants.CurrentUserKey, data)
}

func readList[T any](b backend, key string) ([]T, error) {
	raw, found, err := b.readRecord(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []T{}, nil
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		repair(b, key, []byte("[]"), err)
		return []T{}, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func writeList[T any](b backend, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	return b.writeRecord(key, data)
}

// repair overwrites a corrupt record with its empty value. A failed write is
// logged and otherwise ignored.
func repair(b backend, key string, empty []byte, cause error) {
	logger.Warn("Corrupt record replaced with empty value", "key", key, "error", cause)
	if err := b.writeRecord(key, empty); err != nil {
		logger.Error("Failed to repair corrupt record", "key", key, "error", err)
	}
}
