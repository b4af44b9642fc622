// Package summons contains the pure delivery and compliance rules for summonses.
package summons

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/core/guard"
	"github.com/example/blotter/internal/errs"
)

const entity = "summons"

// DeliveryStatus is the stored delivery state of a summons.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "Pending"
	DeliveryDelivered DeliveryStatus = "Delivered"
	DeliveryFailed    DeliveryStatus = "Failed"
)

// DeliveryStatuses lists every delivery status.
func DeliveryStatuses() []DeliveryStatus {
	return []DeliveryStatus{DeliveryPending, DeliveryDelivered, DeliveryFailed}
}

// ParseDeliveryStatus maps a string onto the closed delivery status set.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	trimmed := strings.TrimSpace(s)
	for _, st := range DeliveryStatuses() {
		if strings.EqualFold(trimmed, string(st)) {
			return st, nil
		}
	}
	return "", errs.Validation(entity, "unknown delivery status %q", s)
}

// Valid reports whether s is a known delivery status.
func (s DeliveryStatus) Valid() bool {
	for _, st := range DeliveryStatuses() {
		if s == st {
			return true
		}
	}
	return false
}

// State is the combined workflow position: delivery status plus the compliance flag.
// A delivered summons with compliance recorded is in the terminal Complied state.
type State string

const (
	StatePending   State = "Pending"
	StateDelivered State = "Delivered"
	StateFailed    State = "Failed"
	StateComplied  State = "Complied"
)

// StateOf derives the workflow state from the stored columns.
func StateOf(delivery DeliveryStatus, complied bool) State {
	if complied {
		return StateComplied
	}
	return State(delivery)
}

var transitions = map[State][]State{
	StatePending:   {StateDelivered, StateFailed},
	StateFailed:    {StateDelivered, StatePending},
	StateDelivered: {StateComplied},
	StateComplied:  {},
}

// CanTransition reports whether from -> to is in the summons table.
func CanTransition(from, to State) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TransitionContext is the input for planning a summons change.
type TransitionContext struct {
	SummonsID     int64
	CaseID        int64
	SummonsNumber string
	Current       State
	Target        State
	Notes         string // compliance notes or failure reason
	PerformedBy   string
	At            time.Time // delivery or compliance date
	Now           time.Time
}

// Plan is the outcome of a planned summons transition.
type Plan struct {
	NoOp           bool
	NewDelivery    DeliveryStatus
	Complied       bool
	DeliveredDate  *time.Time
	ComplianceDate *time.Time
	Effects        []effects.Effect
}

// PlanTransition validates a summons change.
// Complied is terminal; same-state requests are no-ops otherwise.
func PlanTransition(ctx TransitionContext) (Plan, error) {
	switch ctx.Target {
	case StatePending, StateDelivered, StateFailed, StateComplied:
	default:
		return Plan{}, guard.Invalid(entity, ctx.SummonsID, fmt.Sprintf("unknown summons state %q", ctx.Target)).Error()
	}
	if ctx.Current == StateComplied {
		return Plan{}, guard.Terminal(entity, ctx.SummonsID, string(StateComplied)).Error()
	}
	if ctx.Current == ctx.Target {
		return Plan{NoOp: true, NewDelivery: DeliveryStatus(ctx.Current)}, nil
	}
	if !CanTransition(ctx.Current, ctx.Target) {
		return Plan{}, guard.Deny(entity, ctx.SummonsID, fmt.Sprintf("cannot move summons %d from %q to %q", ctx.SummonsID, ctx.Current, ctx.Target)).Error()
	}
	at := ctx.At
	if at.IsZero() {
		at = ctx.Now
	}

	var plan Plan
	var event, title, description string
	switch ctx.Target {
	case StateDelivered:
		plan.NewDelivery = DeliveryDelivered
		plan.DeliveredDate = &at
		event, title = effects.EventSummonsDelivered, "Summons delivered"
		description = fmt.Sprintf("Summons %s delivered on %s", ctx.SummonsNumber, at.Format("2006-01-02"))
	case StateFailed:
		plan.NewDelivery = DeliveryFailed
		event, title = effects.EventSummonsFailed, "Summons delivery failed"
		description = fmt.Sprintf("Summons %s could not be delivered", ctx.SummonsNumber)
	case StatePending:
		plan.NewDelivery = DeliveryPending
		event, title = effects.EventSummonsIssued, "Summons re-issued"
		description = fmt.Sprintf("Summons %s re-issued for delivery", ctx.SummonsNumber)
	case StateComplied:
		plan.NewDelivery = DeliveryDelivered
		plan.Complied = true
		plan.ComplianceDate = &at
		event, title = effects.EventSummonsComplied, "Summons complied"
		description = fmt.Sprintf("Summons %s complied on %s", ctx.SummonsNumber, at.Format("2006-01-02"))
	}
	if ctx.Notes != "" {
		description += ": " + ctx.Notes
	}
	plan.Effects = effects.Audit(ctx.CaseID, event, title, description,
		string(ctx.Current), string(ctx.Target), ctx.PerformedBy, ctx.Now)
	return plan, nil
}

// IssuedEffects returns the effects of issuing a new summons.
func IssuedEffects(caseID int64, summonsNumber, respondentName, performedBy string, now time.Time) []effects.Effect {
	description := fmt.Sprintf("Summons %s issued to %s", summonsNumber, respondentName)
	return effects.Audit(caseID, effects.EventSummonsIssued, "Summons issued", description,
		"", string(StatePending), performedBy, now)
}

// NextNumber formats the summons number for the n-th summons of a case.
func NextNumber(caseNumber string, n int) string {
	return fmt.Sprintf("SUM-%s-%02d", caseNumber, n)
}

// IsUncomplied reports whether a summons counts as uncomplied at cutoff:
// delivered, compliance never recorded, delivered on or before cutoff.
func IsUncomplied(delivery DeliveryStatus, complied bool, deliveredDate *time.Time, cutoff time.Time) bool {
	if delivery != DeliveryDelivered || complied || deliveredDate == nil {
		return false
	}
	return !deliveredDate.After(cutoff)
}
