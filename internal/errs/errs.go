// Package errs defines the typed error taxonomy shared by the store, the workflow rules,
// and the migration engine. Errors are discriminated by Kind, never by message text.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindIllegalTransition Kind = "illegal_transition"
	KindMigration         Kind = "migration"
)

// Error is the concrete error type returned across package boundaries.
type Error struct {
	Kind    Kind
	Entity  string // e.g. "case", "respondent"; empty when not entity-specific
	ID      int64  // identifier the operation targeted, 0 when unknown
	Message string
	// Terminal is set on illegal transitions that were rejected because the
	// entity already sits in a terminal state.
	Terminal bool
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, errs.ErrNotFound) style comparisons match on Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Entity == "" || t.Entity == e.Entity
}

// Sentinels for errors.Is checks. They match any error of the same kind.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrIllegalTransition = &Error{Kind: KindIllegalTransition}
	ErrMigration         = &Error{Kind: KindMigration}
)

// Validation reports a missing or invalid field.
func Validation(entity, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports that entity id does not exist.
func NotFound(entity string, id int64) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

// NotFoundBy reports a lookup by a non-id key that matched nothing.
func NotFoundBy(entity, key, value string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: fmt.Sprintf("%s with %s %q not found", entity, key, value)}
}

// Conflict reports a unique constraint violation.
func Conflict(entity, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// IllegalTransition reports a workflow rule violation.
func IllegalTransition(entity string, id int64, format string, args ...any) *Error {
	return &Error{Kind: KindIllegalTransition, Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)}
}

// AlreadyTerminal reports a transition attempted out of a terminal state.
func AlreadyTerminal(entity string, id int64, state string) *Error {
	return &Error{
		Kind:     KindIllegalTransition,
		Entity:   entity,
		ID:       id,
		Terminal: true,
		Message:  fmt.Sprintf("%s %d is already terminal (%s)", entity, id, state),
	}
}

// Migration wraps a failed schema step. It is fatal for store open.
func Migration(version int, err error) *Error {
	return &Error{Kind: KindMigration, Message: fmt.Sprintf("migration to version %d failed", version), Err: err}
}

// MigrationPath reports that no ordered path exists between two schema versions.
func MigrationPath(from, to int) *Error {
	return &Error{Kind: KindMigration, Message: fmt.Sprintf("no migration path from version %d to %d", from, to)}
}

// KindOf returns the Kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err (or anything it wraps) has the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsTerminal reports whether err is an illegal transition out of a terminal state.
func IsTerminal(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindIllegalTransition && e.Terminal
}
