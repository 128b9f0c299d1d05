// Package app is the application layer shared by the CLI and the dashboard.
// It owns the session, the habit read-modify-write cycles and the calls out
// to the advisor; storage and the clock are injected.
package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitflow/internal/advisor"
	"github.com/julianstephens/habitflow/internal/completion"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in, run 'habitflow login EMAIL' first")
	ErrForbidden       = errors.New("this action requires an admin account")
	ErrUnknownEmail    = errors.New("no user with that email")
	ErrUnknownUser     = errors.New("user not found")
	ErrHabitNotFound   = errors.New("habit not found")
	ErrEmptyTitle      = errors.New("habit title cannot be empty")
	ErrEmptyTopic      = errors.New("topic cannot be empty")
	ErrInvalidReminder = errors.New("invalid reminder time")
	ErrInvalidDate     = errors.New("invalid date")
)

// Service ties a storage provider, an advisor and a clock together.
type Service struct {
	store   storage.Provider
	advisor advisor.Advisor
	now     func() time.Time
}

// New returns a Service. A nil clock means time.Now.
func New(store storage.Provider, adv advisor.Advisor, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, advisor: adv, now: clock}
}

// Store returns the underlying provider.
func (s *Service) Store() storage.Provider {
	return s.store
}

// Today returns the current calendar day as YYYY-MM-DD.
func (s *Service) Today() string {
	return completion.FormatDay(s.now())
}

// Bootstrap seeds the fixed roster when it is empty and makes sure the habit
// record exists. It reports whether the roster was seeded.
func (s *Service) Bootstrap() (bool, error) {
	users, err := s.store.GetUsers()
	if err != nil {
		return false, fmt.Errorf("failed to read users: %w", err)
	}

	if len(users) == 0 {
		if err := s.store.SaveUsers(seedUsers(s.now())); err != nil {
			return false, fmt.Errorf("failed to seed users: %w", err)
		}
		if err := s.store.SaveHabits([]models.Habit{}); err != nil {
			return false, fmt.Errorf("failed to create habit record: %w", err)
		}
		logger.Info("Seeded user roster", "users", 3)
		return true, nil
	}

	habits, err := s.store.GetHabits()
	if err != nil {
		return false, fmt.Errorf("failed to read habits: %w", err)
	}
	if len(habits) == 0 {
		if err := s.store.SaveHabits([]models.Habit{}); err != nil {
			return false, fmt.Errorf("failed to create habit record: %w", err)
		}
	}
	return false, nil
}

func seedUsers(now time.Time) []models.User {
	now = now.UTC()
	day := 24 * time.Hour
	return []models.User{
		{
			ID:       "admin-1",
			Name:     "Admin User",
			Email:    "admin@habitflow.com",
			Avatar:   fmt.Sprintf(constants.AvatarURLTemplate, 1),
			Role:     models.RoleAdmin,
			JoinedAt: now,
		},
		{
			ID:       "user-1",
			Name:     "Alex Johnson",
			Email:    "alex@gmail.com",
			Avatar:   fmt.Sprintf(constants.AvatarURLTemplate, 2),
			Role:     models.RoleUser,
			JoinedAt: now.Add(-10 * day),
		},
		{
			ID:       "user-2",
			Name:     "Sarah Smith",
			Email:    "sarah@gmail.com",
			Avatar:   fmt.Sprintf(constants.AvatarURLTemplate, 3),
			Role:     models.RoleUser,
			JoinedAt: now.Add(-5 * day),
		},
	}
}

// Login looks the email up in the roster and persists the session. The match
// is exact after trimming surrounding whitespace.
func (s *Service) Login(email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	users, err := s.store.GetUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			if err := s.store.SaveCurrentUser(&u); err != nil {
				return nil, fmt.Errorf("failed to save session: %w", err)
			}
			logger.Info("User logged in", "user", u.ID)
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEmail, email)
}

// Logout clears the session record.
func (s *Service) Logout() error {
	if err := s.store.SaveCurrentUser(nil); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CurrentUser returns the session user, or nil when nobody is logged in.
func (s *Service) CurrentUser() (*models.User, error) {
	u, err := s.store.GetCurrentUser()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return u, nil
}

func (s *Service) RequireUser() (*models.User, error) {
	u, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	return u, nil
}

func (s *Service) RequireAdmin() (*models.User, error) {
	u, err := s.RequireUser()
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, ErrForbidden
	}
	return u, nil
}

// ListUsers returns the roster in stored order.
func (s *Service) ListUsers() ([]models.User, error) {
	users, err := s.store.GetUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}

// User returns the roster entry with the given id.
func (s *Service) User(id string) (*models.User, error) {
	users, err := s.ListUsers()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownUser, id)
}
