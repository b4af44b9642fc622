// Package guard holds the result type shared by the pure guard functions in internal/core.
package guard

import "github.com/example/blotter/internal/errs"

// Result represents the outcome of a guard evaluation.
type Result struct {
	Allowed  bool
	Reason   string // Human-readable reason (populated when not allowed)
	Kind     errs.Kind
	Entity   string
	ID       int64
	Terminal bool
}

// Allow returns an allowing result.
func Allow() Result {
	return Result{Allowed: true}
}

// Deny returns an illegal-transition denial.
func Deny(entity string, id int64, reason string) Result {
	return Result{Allowed: false, Reason: reason, Kind: errs.KindIllegalTransition, Entity: entity, ID: id}
}

// Invalid returns a validation denial.
func Invalid(entity string, id int64, reason string) Result {
	return Result{Allowed: false, Reason: reason, Kind: errs.KindValidation, Entity: entity, ID: id}
}

// Terminal returns a denial for an entity already in a terminal state.
func Terminal(entity string, id int64, state string) Result {
	e := errs.AlreadyTerminal(entity, id, state)
	return Result{Allowed: false, Reason: e.Message, Kind: e.Kind, Entity: entity, ID: id, Terminal: true}
}

// Error returns the guard result as a typed error if not allowed, nil otherwise.
func (r Result) Error() error {
	if r.Allowed {
		return nil
	}
	kind := r.Kind
	if kind == "" {
		kind = errs.KindIllegalTransition
	}
	return &errs.Error{Kind: kind, Entity: r.Entity, ID: r.ID, Message: r.Reason, Terminal: r.Terminal}
}
