package storage

import "github.com/julianstephens/habitflow/internal/models"

// Provider persists the three habitflow records: the user roster, the habit
// collection and the current session. Each record is read and replaced as a
// whole; there are no transactions spanning records.
//
// A record that is missing reads as its empty value. A record that cannot be
// decoded is overwritten with its empty value and reported only in the log.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Roster
	GetUsers() ([]models.User, error)
	SaveUsers([]models.User) error

	// Habits
	GetHabits() ([]models.Habit, error)
	SaveHabits([]models.Habit) error

	// Session; SaveCurrentUser(nil) clears it.
	GetCurrentUser() (*models.User, error)
	SaveCurrentUser(*models.User) error

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by the SQL providers, whose schema is managed by
// embedded migrations.
type Versioned interface {
	SchemaVersion() (current, latest int, err error)
}

var (
	_ Versioned = (*SQLiteStore)(nil)
	_ Versioned = (*PostgresStore)(nil)
)
