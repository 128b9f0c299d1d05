package backups

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitflow/internal/cli"
	"github.com/julianstephens/habitflow/internal/cli/clitest"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
)

func newSQLiteContext(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitflow.db")
	store := storage.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx, out, _ := clitest.NewWithStore(t, store, &clitest.Advisor{}, "alex@gmail.com")
	return ctx, out, dbPath
}

func TestBackupCommandsNeedSQLite(t *testing.T) {
	ctx, _, _ := clitest.New(t, "alex@gmail.com")

	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("create: err = %v, want errNotSQLite", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("list: err = %v, want errNotSQLite", err)
	}
	if err := (&BackupRestoreCmd{Yes: true}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("restore: err = %v, want errNotSQLite", err)
	}
}

func TestBackupListEmpty(t *testing.T) {
	ctx, out, _ := newSQLiteContext(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out, _ := newSQLiteContext(t)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: habitflow-") {
		t.Errorf("unexpected create output:\n%s", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Available backups (1 total") {
		t.Errorf("unexpected list output:\n%s", out.String())
	}
}

func TestBackupRestoreLatest(t *testing.T) {
	ctx, out, dbPath := newSQLiteContext(t)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := ctx.Service.AddHabit(models.NewHabitInput{Title: "After backup"}); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	out.Reset()
	if err := (&BackupRestoreCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Database restored successfully") {
		t.Errorf("unexpected restore output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Previous database saved as") {
		t.Errorf("safety copy not reported:\n%s", out.String())
	}

	reopened := storage.NewSQLiteStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load after restore failed: %v", err)
	}
	defer reopened.Close()
	habits, err := reopened.GetHabits()
	if err != nil {
		t.Fatalf("GetHabits failed: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("habits after restore = %d, want 0", len(habits))
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, out, _ := newSQLiteContext(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	ctx.In = strings.NewReader("n\n")

	out.Reset()
	if err := (&BackupRestoreCmd{}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestBackupRestoreUnknownFile(t *testing.T) {
	ctx, _, _ := newSQLiteContext(t)

	err := (&BackupRestoreCmd{BackupFile: "habitflow-19990101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not found", err)
	}
}
