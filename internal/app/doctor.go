package app

import (
	"fmt"

	"github.com/julianstephens/habitflow/internal/completion"
)

// Report lists data problems that the stores tolerate but that are worth
// surfacing. None of them breaks the application.
type Report struct {
	// InvalidDates maps habit id to malformed or duplicate completion entries.
	InvalidDates map[string][]string
	DuplicateIDs []string
	// OrphanHabits are habits whose owner is not in the roster.
	OrphanHabits []string
	StaleSession bool
}

// Clean reports whether no problem was found.
func (r Report) Clean() bool {
	return len(r.InvalidDates) == 0 && len(r.DuplicateIDs) == 0 &&
		len(r.OrphanHabits) == 0 && !r.StaleSession
}

// Check inspects the stored records.
func (s *Service) Check() (Report, error) {
	rep := Report{InvalidDates: map[string][]string{}}

	users, err := s.ListUsers()
	if err != nil {
		return rep, err
	}
	habits, err := s.AllHabits()
	if err != nil {
		return rep, err
	}

	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.ID] = true
	}
	seen := make(map[string]bool, len(habits))
	for _, h := range habits {
		if seen[h.ID] {
			rep.DuplicateIDs = append(rep.DuplicateIDs, h.ID)
		}
		seen[h.ID] = true
		if !known[h.UserID] {
			rep.OrphanHabits = append(rep.OrphanHabits, h.ID)
		}
		if bad := completion.Invalid(h.CompletedDates); len(bad) > 0 {
			rep.InvalidDates[h.ID] = bad
		}
	}

	cur, err := s.CurrentUser()
	if err != nil {
		return rep, err
	}
	if cur != nil && !known[cur.ID] {
		rep.StaleSession = true
	}
	return rep, nil
}

// Repair normalizes every habit's completion set and clears a session that
// points at an unknown user. It returns the number of habits rewritten.
// Orphaned habits and duplicate ids are left alone.
func (s *Service) Repair() (int, error) {
	rep, err := s.Check()
	if err != nil {
		return 0, err
	}

	fixed := 0
	if len(rep.InvalidDates) > 0 {
		habits, err := s.AllHabits()
		if err != nil {
			return 0, err
		}
		for i := range habits {
			if _, ok := rep.InvalidDates[habits[i].ID]; ok {
				habits[i].CompletedDates = completion.Normalize(habits[i].CompletedDates)
				fixed++
			}
		}
		if err := s.store.SaveHabits(habits); err != nil {
			return 0, fmt.Errorf("failed to save habits: %w", err)
		}
	}

	if rep.StaleSession {
		if err := s.Logout(); err != nil {
			return fixed, err
		}
	}
	return fixed, nil
}

