// Package respondent contains the pure cooperation-status rules for respondents.
package respondent

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/core/guard"
	"github.com/example/blotter/internal/errs"
)

const entity = "respondent"

// CooperationStatus tracks how a respondent has answered the case.
type CooperationStatus string

const (
	StatusNotified          CooperationStatus = "Notified"
	StatusAppeared          CooperationStatus = "Appeared"
	StatusNoResponse        CooperationStatus = "No Response"
	StatusStatementRecorded CooperationStatus = "Statement Recorded"
)

// Statuses lists every cooperation status.
func Statuses() []CooperationStatus {
	return []CooperationStatus{StatusNotified, StatusAppeared, StatusNoResponse, StatusStatementRecorded}
}

// ParseStatus maps a string onto the closed cooperation status set.
func ParseStatus(s string) (CooperationStatus, error) {
	trimmed := strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(trimmed, string(st)) {
			return st, nil
		}
	}
	return "", errs.Validation(entity, "unknown cooperation status %q", s)
}

// Valid reports whether s is a known status.
func (s CooperationStatus) Valid() bool {
	for _, st := range Statuses() {
		if s == st {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s accepts no further transition.
func (s CooperationStatus) IsTerminal() bool {
	return s == StatusStatementRecorded
}

var transitions = map[CooperationStatus][]CooperationStatus{
	StatusNotified:          {StatusAppeared, StatusNoResponse},
	StatusNoResponse:        {StatusAppeared},
	StatusAppeared:          {StatusStatementRecorded},
	StatusStatementRecorded: {},
}

// CanTransition reports whether from -> to is in the cooperation table.
func CanTransition(from, to CooperationStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TransitionContext is the input for planning a cooperation status change.
type TransitionContext struct {
	RespondentID int64
	CaseID       int64
	PersonID     int64 // 0 when not linked to a Person
	Name         string
	Current      CooperationStatus
	Target       CooperationStatus
	PerformedBy  string
	At           time.Time // appearance or statement date to stamp
	Now          time.Time
}

// Plan is the outcome of a planned cooperation transition.
// AppearanceDate / StatementDate are set when the transition stamps them.
type Plan struct {
	NoOp           bool
	NewStatus      CooperationStatus
	AppearanceDate *time.Time
	StatementDate  *time.Time
	Effects        []effects.Effect
}

// PlanTransition validates a cooperation change and computes the date stamp and effects.
func PlanTransition(ctx TransitionContext) (Plan, error) {
	if !ctx.Target.Valid() {
		return Plan{}, guard.Invalid(entity, ctx.RespondentID, fmt.Sprintf("unknown cooperation status %q", ctx.Target)).Error()
	}
	if ctx.Current == ctx.Target {
		return Plan{NoOp: true, NewStatus: ctx.Current}, nil
	}
	if ctx.Current.IsTerminal() {
		return Plan{}, guard.Terminal(entity, ctx.RespondentID, string(ctx.Current)).Error()
	}
	if !CanTransition(ctx.Current, ctx.Target) {
		return Plan{}, guard.Deny(entity, ctx.RespondentID, fmt.Sprintf("cannot move respondent %d from %q to %q", ctx.RespondentID, ctx.Current, ctx.Target)).Error()
	}
	at := ctx.At
	if at.IsZero() {
		at = ctx.Now
	}

	plan := Plan{NewStatus: ctx.Target}
	var event, title, description string
	switch ctx.Target {
	case StatusAppeared:
		plan.AppearanceDate = &at
		event, title = effects.EventRespondentAppeared, "Respondent appeared"
		description = fmt.Sprintf("%s appeared on %s", displayName(ctx.Name), at.Format("2006-01-02"))
	case StatusNoResponse:
		event, title = effects.EventRespondentNoShow, "Respondent did not respond"
		description = fmt.Sprintf("%s did not respond to the notice", displayName(ctx.Name))
	case StatusStatementRecorded:
		plan.StatementDate = &at
		event, title = effects.EventStatementRecorded, "Statement recorded"
		description = fmt.Sprintf("Statement of %s recorded on %s", displayName(ctx.Name), at.Format("2006-01-02"))
	}
	plan.Effects = effects.Audit(ctx.CaseID, event, title, description,
		string(ctx.Current), string(ctx.Target), ctx.PerformedBy, ctx.Now)
	if ctx.PersonID > 0 {
		plan.Effects = append(plan.Effects, effects.PersonHistoryEffect{
			PersonID:    ctx.PersonID,
			CaseID:      ctx.CaseID,
			Role:        "Respondent",
			Description: description,
			At:          ctx.Now,
		})
	}
	return plan, nil
}

// AddedEffects returns the effects of attaching a new respondent to a case.
func AddedEffects(caseID, personID int64, name, performedBy string, now time.Time) []effects.Effect {
	description := fmt.Sprintf("Respondent %s added and notified", displayName(name))
	effs := effects.Audit(caseID, effects.EventRespondentAdded, "Respondent added", description,
		"", string(StatusNotified), performedBy, now)
	if personID > 0 {
		effs = append(effs, effects.PersonHistoryEffect{
			PersonID:    personID,
			CaseID:      caseID,
			Role:        "Respondent",
			Description: description,
			At:          now,
		})
	}
	return effs
}

// CanRecordStatement evaluates a new statement for a respondent.
// A respondent gives one statement; later ones are rejected as terminal.
func CanRecordStatement(respondentID int64, current CooperationStatus) guard.Result {
	if current == StatusStatementRecorded {
		return guard.Terminal(entity, respondentID, string(current))
	}
	return guard.Allow()
}

// StatementEditContext describes a change to an existing respondent statement.
type StatementEditContext struct {
	StatementID      int64
	Verified         bool
	StatementChanged bool
	ChannelChanged   bool
}

// CanEditStatement evaluates a statement edit.
// Rule: a verified statement is immutable except for its officer notes.
func CanEditStatement(ctx StatementEditContext) guard.Result {
	if ctx.Verified && (ctx.StatementChanged || ctx.ChannelChanged) {
		return guard.Deny("statement", ctx.StatementID, fmt.Sprintf("statement %d is verified; only officer notes may change", ctx.StatementID))
	}
	return guard.Allow()
}

// CanVerifyStatement evaluates a verification request.
// Re-verifying an already verified statement is rejected as terminal.
func CanVerifyStatement(statementID int64, verified bool, verifiedBy string) guard.Result {
	if verified {
		return guard.Terminal("statement", statementID, "verified")
	}
	if strings.TrimSpace(verifiedBy) == "" {
		return guard.Invalid("statement", statementID, "verifiedBy is required")
	}
	return guard.Allow()
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "respondent"
	}
	return name
}
