// Package reminder runs the minute-by-minute habit reminder loop.
package reminder

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/habitflow/internal/completion"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
)

// Source supplies the roster and habits on every tick.
type Source interface {
	ListUsers() ([]models.User, error)
	AllHabits() ([]models.Habit, error)
}

// Due returns the habits whose reminder time is now's HH:MM and which are
// not yet complete today.
func Due(habits []models.Habit, now time.Time) []models.Habit {
	hhmm := now.Format(constants.TimeFormat)
	today := completion.FormatDay(now)
	var out []models.Habit
	for _, h := range habits {
		if strings.TrimSpace(h.ReminderTime) != hhmm {
			continue
		}
		if completion.IsComplete(h.CompletedDates, today) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Daemon evaluates reminders on a cron schedule and writes them to out.
type Daemon struct {
	src  Source
	out  io.Writer
	now  func() time.Time
	cron *cron.Cron

	mu    sync.Mutex
	fired map[string]bool
}

func NewDaemon(src Source, out io.Writer, now func() time.Time) *Daemon {
	if now == nil {
		now = time.Now
	}
	return &Daemon{
		src:   src,
		out:   out,
		now:   now,
		cron:  cron.New(),
		fired: make(map[string]bool),
	}
}

// Tick checks for due reminders once and returns how many were emitted. A
// habit fires at most once per day and reminder time.
func (d *Daemon) Tick() (int, error) {
	habits, err := d.src.AllHabits()
	if err != nil {
		return 0, fmt.Errorf("failed to read habits: %w", err)
	}
	users, err := d.src.ListUsers()
	if err != nil {
		return 0, fmt.Errorf("failed to read users: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FirstName()
	}

	now := d.now()
	today := completion.FormatDay(now)

	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, h := range Due(habits, now) {
		key := h.ID + "|" + today + "|" + h.ReminderTime
		if d.fired[key] {
			continue
		}
		d.fired[key] = true
		n++

		owner := names[h.UserID]
		if owner == "" {
			owner = h.UserID
		}
		fmt.Fprintf(d.out, "[%s] Reminder for %s: %s\n", h.ReminderTime, owner, h.Title)
		logger.Info("Habit reminder", "habit", h.ID, "user", h.UserID, "time", h.ReminderTime)
	}
	return n, nil
}

// Start schedules Tick on constants.ReminderSchedule.
func (d *Daemon) Start() error {
	_, err := d.cron.AddFunc(constants.ReminderSchedule, func() {
		if _, err := d.Tick(); err != nil {
			logger.Error("Reminder check failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	d.cron.Start()
	logger.Info("Reminder daemon started", "schedule", constants.ReminderSchedule)
	return nil
}

// Stop waits for a running tick to finish.
func (d *Daemon) Stop() {
	<-d.cron.Stop().Done()
	logger.Info("Reminder daemon stopped")
}

// Run starts the daemon and blocks until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	d.Stop()
	return nil
}
