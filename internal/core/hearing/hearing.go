// Package hearing contains the pure lifecycle rules for case hearings.
package hearing

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/core/guard"
	"github.com/example/blotter/internal/errs"
)

const entity = "hearing"

// Status represents the state of a hearing.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Statuses lists every hearing status.
func Statuses() []Status {
	return []Status{StatusScheduled, StatusCompleted, StatusCancelled}
}

// ParseStatus maps a string onto the closed hearing status set.
func ParseStatus(s string) (Status, error) {
	trimmed := strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(trimmed, string(st)) {
			return st, nil
		}
	}
	return "", errs.Validation(entity, "unknown hearing status %q", s)
}

// Valid reports whether s is a known hearing status.
func (s Status) Valid() bool {
	for _, st := range Statuses() {
		if s == st {
			return true
		}
	}
	return false
}

// IsClosed reports whether the hearing is over.
func (s Status) IsClosed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// TransitionContext is the input for completing or cancelling a hearing.
type TransitionContext struct {
	HearingID   int64
	CaseID      int64
	Current     Status
	Target      Status
	Notes       string
	PerformedBy string
	Now         time.Time
}

// Plan is the outcome of a planned hearing transition.
type Plan struct {
	NoOp      bool
	NewStatus Status
	Effects   []effects.Effect
}

// PlanTransition validates Scheduled -> Completed | Cancelled.
func PlanTransition(ctx TransitionContext) (Plan, error) {
	if !ctx.Target.Valid() {
		return Plan{}, guard.Invalid(entity, ctx.HearingID, fmt.Sprintf("unknown hearing status %q", ctx.Target)).Error()
	}
	if ctx.Current == ctx.Target {
		return Plan{NoOp: true, NewStatus: ctx.Current}, nil
	}
	if ctx.Current.IsClosed() {
		return Plan{}, guard.Terminal(entity, ctx.HearingID, string(ctx.Current)).Error()
	}

	event, title := effects.EventHearingCompleted, "Hearing completed"
	if ctx.Target == StatusCancelled {
		event, title = effects.EventHearingCancelled, "Hearing cancelled"
	}
	description := fmt.Sprintf("Hearing %d %s", ctx.HearingID, strings.ToLower(string(ctx.Target)))
	if ctx.Notes != "" {
		description += ": " + ctx.Notes
	}
	return Plan{
		NewStatus: ctx.Target,
		Effects: effects.Audit(ctx.CaseID, event, title, description,
			string(ctx.Current), string(ctx.Target), ctx.PerformedBy, ctx.Now),
	}, nil
}

// ScheduledEffects returns the effects of scheduling a hearing.
func ScheduledEffects(caseID int64, at time.Time, location, purpose, performedBy string, now time.Time) []effects.Effect {
	description := fmt.Sprintf("Hearing on %s at %s", at.Format("2006-01-02 15:04"), location)
	if purpose != "" {
		description += " (" + purpose + ")"
	}
	return effects.Audit(caseID, effects.EventHearingScheduled, "Hearing scheduled", description,
		"", string(StatusScheduled), performedBy, now)
}
