// Package kpform contains the pure lifecycle rules for Katarungang Pambarangay forms.
package kpform

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/core/guard"
	"github.com/example/blotter/internal/errs"
)

const entity = "kp form"

// Status represents the state of a KP form.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusIssued    Status = "Issued"
	StatusFiled     Status = "Filed"
	StatusCancelled Status = "Cancelled"
)

// Statuses lists every form status.
func Statuses() []Status {
	return []Status{StatusDraft, StatusIssued, StatusFiled, StatusCancelled}
}

// ParseStatus maps a string onto the closed form status set.
func ParseStatus(s string) (Status, error) {
	trimmed := strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(trimmed, string(st)) {
			return st, nil
		}
	}
	return "", errs.Validation(entity, "unknown form status %q", s)
}

// Valid reports whether s is a known form status.
func (s Status) Valid() bool {
	for _, st := range Statuses() {
		if s == st {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the form is filed or cancelled.
func (s Status) IsTerminal() bool {
	return s == StatusFiled || s == StatusCancelled
}

var transitions = map[Status][]Status{
	StatusDraft:     {StatusIssued, StatusCancelled},
	StatusIssued:    {StatusFiled, StatusCancelled},
	StatusFiled:     {},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is in the form table.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TransitionContext is the input for moving a form along its lifecycle.
type TransitionContext struct {
	FormID      int64
	CaseID      int64
	FormType    string
	Current     Status
	Target      Status
	PerformedBy string
	Now         time.Time
}

// Plan is the outcome of a planned form transition. IssuedDate is set on Draft -> Issued.
type Plan struct {
	NoOp       bool
	NewStatus  Status
	IssuedDate *time.Time
	Effects    []effects.Effect
}

// PlanTransition validates a KP form transition.
func PlanTransition(ctx TransitionContext) (Plan, error) {
	if !ctx.Target.Valid() {
		return Plan{}, guard.Invalid(entity, ctx.FormID, fmt.Sprintf("unknown form status %q", ctx.Target)).Error()
	}
	if ctx.Current == ctx.Target {
		return Plan{NoOp: true, NewStatus: ctx.Current}, nil
	}
	if ctx.Current.IsTerminal() {
		return Plan{}, guard.Terminal(entity, ctx.FormID, string(ctx.Current)).Error()
	}
	if !CanTransition(ctx.Current, ctx.Target) {
		return Plan{}, guard.Deny(entity, ctx.FormID, fmt.Sprintf("cannot move form %d from %q to %q", ctx.FormID, ctx.Current, ctx.Target)).Error()
	}
	plan := Plan{NewStatus: ctx.Target}
	if ctx.Target == StatusIssued {
		now := ctx.Now
		plan.IssuedDate = &now
	}
	description := fmt.Sprintf("%s form %s", ctx.FormType, strings.ToLower(string(ctx.Target)))
	plan.Effects = effects.Audit(ctx.CaseID, effects.EventKPFormUpdated, "KP form updated", description,
		string(ctx.Current), string(ctx.Target), ctx.PerformedBy, ctx.Now)
	return plan, nil
}
