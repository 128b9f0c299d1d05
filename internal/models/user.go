package models

import (
	"fmt"
	"strings"
	"time"
)

// UserRole enumerates the roles known to the roster.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// User is a roster entry. Login is a lookup by Email; there is no secret.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Avatar   string    `json:"avatar"`
	Role     UserRole  `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// IsAdmin reports whether the user may browse every user's data.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FirstName returns the first word of the user's name, used for compact chart labels.
func (u User) FirstName() string {
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return u.Name
	}
	return fields[0]
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (UserRole, error) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}
