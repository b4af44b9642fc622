// Package mediation contains the pure outcome rules for mediation sessions and the
// case status follow-ups they trigger.
package mediation

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/core/guard"
	"github.com/example/blotter/internal/errs"
)

const entity = "mediation session"

// Outcome is the state of a mediation session.
type Outcome string

const (
	OutcomeScheduled   Outcome = "Scheduled"
	OutcomeSuccessful  Outcome = "Successful"
	OutcomeFailed      Outcome = "Failed"
	OutcomeRescheduled Outcome = "Rescheduled"
)

// Outcomes lists every mediation outcome.
func Outcomes() []Outcome {
	return []Outcome{OutcomeScheduled, OutcomeSuccessful, OutcomeFailed, OutcomeRescheduled}
}

// ParseOutcome maps a string onto the closed outcome set.
func ParseOutcome(s string) (Outcome, error) {
	trimmed := strings.TrimSpace(s)
	for _, o := range Outcomes() {
		if strings.EqualFold(trimmed, string(o)) {
			return o, nil
		}
	}
	return "", errs.Validation(entity, "unknown mediation outcome %q", s)
}

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	for _, known := range Outcomes() {
		if o == known {
			return true
		}
	}
	return false
}

// IsClosed reports whether o is a final outcome.
func (o Outcome) IsClosed() bool {
	return o == OutcomeSuccessful || o == OutcomeFailed
}

var transitions = map[Outcome][]Outcome{
	OutcomeScheduled:   {OutcomeSuccessful, OutcomeFailed, OutcomeRescheduled},
	OutcomeRescheduled: {OutcomeSuccessful, OutcomeFailed, OutcomeRescheduled},
	OutcomeSuccessful:  {},
	OutcomeFailed:      {},
}

// CanTransition reports whether from -> to is in the outcome table.
// Rescheduled -> Rescheduled is a real transition (a new date), not a no-op.
func CanTransition(from, to Outcome) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// OutcomeContext is the input for planning an outcome update.
type OutcomeContext struct {
	SessionID       int64
	CaseID          int64
	CaseStatus      blotter.Status
	Current         Outcome
	Target          Outcome
	SettlementTerms string
	NewDate         *time.Time // required for Rescheduled
	PerformedBy     string
	Now             time.Time
}

// OutcomePlan is the outcome of a planned mediation update. CaseStatus is the case
// follow-up; empty when the case table does not allow it from the current status.
type OutcomePlan struct {
	NoOp       bool
	NewOutcome Outcome
	NewDate    *time.Time
	CaseStatus blotter.Status
	Effects    []effects.Effect
}

// PlanOutcome validates an outcome update and computes the case follow-up.
func PlanOutcome(ctx OutcomeContext) (OutcomePlan, error) {
	if !ctx.Target.Valid() {
		return OutcomePlan{}, guard.Invalid(entity, ctx.SessionID, fmt.Sprintf("unknown mediation outcome %q", ctx.Target)).Error()
	}
	if ctx.Current == ctx.Target && ctx.Target != OutcomeRescheduled {
		return OutcomePlan{NoOp: true, NewOutcome: ctx.Current}, nil
	}
	if ctx.Current.IsClosed() {
		return OutcomePlan{}, guard.Terminal(entity, ctx.SessionID, string(ctx.Current)).Error()
	}
	if !CanTransition(ctx.Current, ctx.Target) {
		return OutcomePlan{}, guard.Deny(entity, ctx.SessionID, fmt.Sprintf("cannot move mediation session %d from %q to %q", ctx.SessionID, ctx.Current, ctx.Target)).Error()
	}
	if ctx.Target == OutcomeRescheduled && ctx.NewDate == nil {
		return OutcomePlan{}, guard.Invalid(entity, ctx.SessionID, "a rescheduled session needs a new date").Error()
	}

	plan := OutcomePlan{NewOutcome: ctx.Target, NewDate: ctx.NewDate}
	description := fmt.Sprintf("Mediation session %d: %s", ctx.SessionID, ctx.Target)
	if ctx.SettlementTerms != "" {
		description += " (" + ctx.SettlementTerms + ")"
	}
	plan.Effects = effects.Audit(ctx.CaseID, effects.EventMediationOutcome, "Mediation outcome", description,
		string(ctx.Current), string(ctx.Target), ctx.PerformedBy, ctx.Now)

	var follow blotter.Status
	switch ctx.Target {
	case OutcomeSuccessful:
		follow = blotter.StatusSettled
	case OutcomeFailed:
		follow = blotter.StatusForLupon
	}
	if follow != "" && blotter.IsWorkflowTransition(ctx.CaseStatus, follow) {
		plan.CaseStatus = follow
		plan.Effects = append(plan.Effects, effects.Audit(ctx.CaseID, effects.EventStatusChanged, "Status updated",
			fmt.Sprintf("Status changed from %s to %s after mediation", ctx.CaseStatus, follow),
			string(ctx.CaseStatus), string(follow), ctx.PerformedBy, ctx.Now)...)
	}
	return plan, nil
}

// ScheduleContext is the input for planning a new mediation session.
type ScheduleContext struct {
	CaseID      int64
	CaseStatus  blotter.Status
	SessionDate time.Time
	Mediator    string
	PerformedBy string
	Now         time.Time
}

// SchedulePlan carries the optional case follow-up of scheduling.
type SchedulePlan struct {
	CaseStatus blotter.Status
	Effects    []effects.Effect
}

// PlanSchedule validates scheduling a session. Terminal cases cannot be mediated.
// A case waiting For Mediation moves to Mediation Ongoing.
func PlanSchedule(ctx ScheduleContext) (SchedulePlan, error) {
	if ctx.CaseStatus.IsTerminal() {
		return SchedulePlan{}, guard.Terminal("case", ctx.CaseID, string(ctx.CaseStatus)).Error()
	}
	if ctx.SessionDate.IsZero() {
		return SchedulePlan{}, errs.Validation(entity, "sessionDate is required")
	}
	description := fmt.Sprintf("Mediation scheduled on %s", ctx.SessionDate.Format("2006-01-02 15:04"))
	if ctx.Mediator != "" {
		description += " with " + ctx.Mediator
	}
	plan := SchedulePlan{
		Effects: effects.Audit(ctx.CaseID, effects.EventMediationScheduled, "Mediation scheduled", description,
			"", string(OutcomeScheduled), ctx.PerformedBy, ctx.Now),
	}
	if ctx.CaseStatus == blotter.StatusForMediation {
		plan.CaseStatus = blotter.StatusMediationOngoing
		plan.Effects = append(plan.Effects, effects.Audit(ctx.CaseID, effects.EventStatusChanged, "Status updated",
			fmt.Sprintf("Status changed from %s to %s", ctx.CaseStatus, plan.CaseStatus),
			string(ctx.CaseStatus), string(plan.CaseStatus), ctx.PerformedBy, ctx.Now)...)
	}
	return plan, nil
}
