package models

import (
	"regexp"
	"time"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/errs"
)

// Officer is a police or barangay officer. Distinct from Person.
type Officer struct {
	ID            int64
	Name          string
	BadgeNumber   string
	Rank          string
	ContactNumber string
	UserID        *int64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks required fields.
func (o *Officer) Validate() error {
	if blank(o.Name) {
		return errs.Validation("officer", "name is required")
	}
	if blank(o.BadgeNumber) {
		return errs.Validation("officer", "badge number is required")
	}
	return nil
}

// User is a login account. PasswordHash is produced outside the store.
type User struct {
	ID                 int64
	Username           string
	PasswordHash       string
	FirstName          string
	LastName           string
	Role               access.Role
	IsActive           bool
	MustChangePassword bool
	CreatedAt          time.Time
}

// Validate checks required fields.
func (u *User) Validate() error {
	if blank(u.Username) {
		return errs.Validation("user", "username is required")
	}
	if blank(u.PasswordHash) {
		return errs.Validation("user", "password hash is required")
	}
	_, err := access.ParseRole(string(u.Role))
	return err
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Status is a catalog entry describing a case status for display.
// Cases reference it by name, not by key.
type Status struct {
	ID          int64
	Name        string
	Description string
	Color       string
	SortOrder   int
	IsActive    bool
}

// Validate checks required fields.
func (s *Status) Validate() error {
	if blank(s.Name) {
		return errs.Validation("status", "name is required")
	}
	if s.Color != "" && !colorPattern.MatchString(s.Color) {
		return errs.Validation("status", "color %q must be #RRGGBB", s.Color)
	}
	return nil
}
