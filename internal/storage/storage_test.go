package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/models"
)

// providers returns a fresh, initialized provider of every file-backed and
// in-memory kind.
func providers(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()

	out := map[string]Provider{
		"memory": NewMemoryStore(),
		"json":   NewJSONStore(filepath.Join(dir, "data")),
		"sqlite": NewSQLiteStore(filepath.Join(dir, "habitflow.db")),
	}
	for name, p := range out {
		if err := p.Init(); err != nil {
			t.Fatalf("%s: Init failed: %v", name, err)
		}
		t.Cleanup(func() { p.Close() })
	}
	return out
}

func sampleUsers() []models.User {
	joined := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	return []models.User{
		{ID: "admin-1", Name: "Admin User", Email: "admin@habitflow.com", Role: models.RoleAdmin, JoinedAt: joined},
		{ID: "user-1", Name: "Alex Johnson", Email: "alex@gmail.com", Role: models.RoleUser, JoinedAt: joined},
	}
}

func TestEmptyRecords(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			users, err := p.GetUsers()
			if err != nil || users == nil || len(users) != 0 {
				t.Errorf("GetUsers() = %v, %v; want empty non-nil slice", users, err)
			}
			habits, err := p.GetHabits()
			if err != nil || habits == nil || len(habits) != 0 {
				t.Errorf("GetHabits() = %v, %v; want empty non-nil slice", habits, err)
			}
			cur, err := p.GetCurrentUser()
			if err != nil || cur != nil {
				t.Errorf("GetCurrentUser() = %v, %v; want nil", cur, err)
			}
		})
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			users := sampleUsers()
			if err := p.SaveUsers(users); err != nil {
				t.Fatalf("SaveUsers: %v", err)
			}
			got, err := p.GetUsers()
			if err != nil {
				t.Fatalf("GetUsers: %v", err)
			}
			if len(got) != 2 || got[1].Email != "alex@gmail.com" || !got[1].JoinedAt.Equal(users[1].JoinedAt) {
				t.Errorf("unexpected users: %+v", got)
			}

			habits := []models.Habit{{
				ID: "h1", UserID: "user-1", Title: "Drink 2L Water", Category: "Health",
				Frequency: "Daily", Color: "blue", CompletedDates: []string{"2024-01-01", "2024-01-02"},
			}}
			if err := p.SaveHabits(habits); err != nil {
				t.Fatalf("SaveHabits: %v", err)
			}
			gotHabits, err := p.GetHabits()
			if err != nil {
				t.Fatalf("GetHabits: %v", err)
			}
			if len(gotHabits) != 1 || len(gotHabits[0].CompletedDates) != 2 {
				t.Errorf("unexpected habits: %+v", gotHabits)
			}

			if err := p.SaveHabits(nil); err != nil {
				t.Fatalf("SaveHabits(nil): %v", err)
			}
			if gotHabits, _ := p.GetHabits(); len(gotHabits) != 0 {
				t.Errorf("expected replace semantics, got %+v", gotHabits)
			}
		})
	}
}

func TestSessionRecord(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			u := sampleUsers()[1]
			if err := p.SaveCurrentUser(&u); err != nil {
				t.Fatalf("SaveCurrentUser: %v", err)
			}
			cur, err := p.GetCurrentUser()
			if err != nil || cur == nil || cur.ID != "user-1" {
				t.Fatalf("GetCurrentUser() = %+v, %v", cur, err)
			}

			if err := p.SaveCurrentUser(nil); err != nil {
				t.Fatalf("SaveCurrentUser(nil): %v", err)
			}
			cur, err = p.GetCurrentUser()
			if err != nil || cur != nil {
				t.Errorf("after clear, GetCurrentUser() = %+v, %v", cur, err)
			}
			if err := p.SaveCurrentUser(nil); err != nil {
				t.Errorf("clearing an empty session failed: %v", err)
			}
		})
	}
}

func TestCorruptRecordsAreRepaired(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			b := p.(interface{ writeRecord(string, []byte) error })
			for _, key := range []string{constants.UsersKey, constants.HabitsKey, constants.CurrentUserKey} {
				if err := b.writeRecord(key, []byte("{not json")); err != nil {
					t.Fatalf("seeding corrupt %s: %v", key, err)
				}
			}

			users, err := p.GetUsers()
			if err != nil || len(users) != 0 {
				t.Errorf("GetUsers() on corrupt record = %v, %v", users, err)
			}
			habits, err := p.GetHabits()
			if err != nil || len(habits) != 0 {
				t.Errorf("GetHabits() on corrupt record = %v, %v", habits, err)
			}
			cur, err := p.GetCurrentUser()
			if err != nil || cur != nil {
				t.Errorf("GetCurrentUser() on corrupt record = %v, %v", cur, err)
			}

			r := p.(interface {
				readRecord(string) ([]byte, bool, error)
			})
			raw, found, err := r.readRecord(constants.HabitsKey)
			if err != nil || !found || string(raw) != "[]" {
				t.Errorf("habits record not repaired: %q found=%v err=%v", raw, found, err)
			}
			raw, _, _ = r.readRecord(constants.CurrentUserKey)
			if string(raw) != "null" {
				t.Errorf("session record not repaired: %q", raw)
			}
		})
	}
}

func TestWrongShapeIsTreatedAsCorrupt(t *testing.T) {
	s := NewMemoryStore()
	s.PutRaw(constants.HabitsKey, []byte(`{"id":"h1"}`))

	habits, err := s.GetHabits()
	if err != nil || len(habits) != 0 {
		t.Fatalf("GetHabits() = %v, %v", habits, err)
	}
	raw, _ := s.Raw(constants.HabitsKey)
	if string(raw) != "[]" {
		t.Errorf("record = %q, want []", raw)
	}
}

func TestNullListReadsAsEmpty(t *testing.T) {
	s := NewMemoryStore()
	s.PutRaw(constants.UsersKey, []byte("null"))

	users, err := s.GetUsers()
	if err != nil || users == nil || len(users) != 0 {
		t.Errorf("GetUsers() = %v, %v", users, err)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		kind string
		path string
		want string
	}{
		{"", "/tmp/habitflow.db", "*storage.SQLiteStore"},
		{"", "postgres://habitflow@localhost/habitflow", "*storage.PostgresStore"},
		{"json", "/tmp/data", "*storage.JSONStore"},
		{"SQLite", "/tmp/x.db", "*storage.SQLiteStore"},
		{"memory", "", "*storage.MemoryStore"},
	}
	for _, tt := range tests {
		p, err := New(tt.kind, tt.path)
		if err != nil {
			t.Errorf("New(%q, %q) error: %v", tt.kind, tt.path, err)
			continue
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("New(%q, %q) = %s, want %s", tt.kind, tt.path, got, tt.want)
		}
	}

	if _, err := New("redis", ""); err == nil {
		t.Error("expected an error for an unknown store kind")
	}
}

func typeName(p Provider) string {
	switch p.(type) {
	case *SQLiteStore:
		return "*storage.SQLiteStore"
	case *PostgresStore:
		return "*storage.PostgresStore"
	case *JSONStore:
		return "*storage.JSONStore"
	case *MemoryStore:
		return "*storage.MemoryStore"
	}
	return "unknown"
}
