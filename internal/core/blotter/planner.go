package blotter

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/core/guard"
)

// Notification types emitted to case filers and officers.
const (
	NotifyStatusChanged   = "CASE_STATUS"
	NotifyResolved        = "CASE_RESOLVED"
	NotifyOfficerAssigned = "CASE_ASSIGNED"
)

// StatusChangeContext is the input for planning a ChangeStatus request.
type StatusChangeContext struct {
	CaseID        int64
	CaseNumber    string
	Current       Status
	Target        Status
	Role          access.Role
	PerformedBy   string
	FiledByUserID int64 // 0 when the filer has no user account
	Remarks       string
	Now           time.Time
}

// TransitionPlan is the result of a planned transition: the new state and the
// derived effects that must commit with it.
type TransitionPlan struct {
	NoOp      bool
	NewStatus Status
	Archive   bool
	Effects   []effects.Effect
}

// PlanStatusChange validates a workflow status change and returns its effects.
// Same-state requests are no-ops unless the state is terminal.
func PlanStatusChange(ctx StatusChangeContext) (TransitionPlan, error) {
	if !ctx.Target.Valid() {
		return TransitionPlan{}, guard.Invalid(entity, ctx.CaseID, fmt.Sprintf("unknown case status %q", ctx.Target)).Error()
	}
	if ctx.Current.IsTerminal() {
		return TransitionPlan{}, guard.Terminal(entity, ctx.CaseID, string(ctx.Current)).Error()
	}
	if ctx.Current == ctx.Target {
		return TransitionPlan{NoOp: true, NewStatus: ctx.Current}, nil
	}
	switch ctx.Target {
	case StatusResolved:
		return TransitionPlan{}, guard.Deny(entity, ctx.CaseID, "a case becomes Resolved only by recording a resolution").Error()
	case StatusArchived:
		return TransitionPlan{}, guard.Deny(entity, ctx.CaseID, "a case becomes Archived only through archival of a resolved case").Error()
	}
	if !IsWorkflowTransition(ctx.Current, ctx.Target) {
		return TransitionPlan{}, guard.Deny(entity, ctx.CaseID, fmt.Sprintf("cannot move case %d from %q to %q", ctx.CaseID, ctx.Current, ctx.Target)).Error()
	}
	if !CanTransition(ctx.Current, ctx.Target, ctx.Role) {
		return TransitionPlan{}, guard.Deny(entity, ctx.CaseID, fmt.Sprintf("role %q may not move case %d to %q", ctx.Role, ctx.CaseID, ctx.Target)).Error()
	}

	description := fmt.Sprintf("Status changed from %s to %s", ctx.Current, ctx.Target)
	if ctx.Remarks != "" {
		description += ": " + ctx.Remarks
	}
	effs := effects.Audit(ctx.CaseID, effects.EventStatusChanged, "Status updated", description,
		string(ctx.Current), string(ctx.Target), ctx.PerformedBy, ctx.Now)
	if ctx.FiledByUserID > 0 {
		effs = append(effs, effects.NotificationEffect{
			UserID:  ctx.FiledByUserID,
			CaseID:  ctx.CaseID,
			Title:   fmt.Sprintf("Case %s updated", ctx.CaseNumber),
			Message: fmt.Sprintf("Your case is now %s.", ctx.Target),
			Type:    NotifyStatusChanged,
			At:      ctx.Now,
		})
	}
	return TransitionPlan{NewStatus: ctx.Target, Effects: effs}, nil
}

// ResolutionContext is the input for planning CreateResolution.
type ResolutionContext struct {
	CaseID         int64
	CaseNumber     string
	Current        Status
	HasResolution  bool
	Role           access.Role
	ResolutionType string
	PerformedBy    string
	FiledByUserID  int64
	Now            time.Time
}

// PlanResolution is the only path that sets a case to Resolved.
// Rules:
// - a case holds at most one resolution; a second attempt is rejected as terminal
// - terminal cases cannot be resolved
// - caller must be able to manage cases
func PlanResolution(ctx ResolutionContext) (TransitionPlan, error) {
	if ctx.HasResolution || ctx.Current == StatusResolved {
		return TransitionPlan{}, guard.Terminal(entity, ctx.CaseID, string(StatusResolved)).Error()
	}
	if ctx.Current.IsTerminal() {
		return TransitionPlan{}, guard.Terminal(entity, ctx.CaseID, string(ctx.Current)).Error()
	}
	if !CanTransition(ctx.Current, StatusResolved, ctx.Role) {
		return TransitionPlan{}, guard.Deny(entity, ctx.CaseID, fmt.Sprintf("role %q may not resolve case %d", ctx.Role, ctx.CaseID)).Error()
	}

	description := fmt.Sprintf("Case resolved (%s)", ctx.ResolutionType)
	effs := effects.Audit(ctx.CaseID, effects.EventResolutionAdded, "Resolution recorded", description,
		string(ctx.Current), string(StatusResolved), ctx.PerformedBy, ctx.Now)
	if ctx.FiledByUserID > 0 {
		effs = append(effs, effects.NotificationEffect{
			UserID:  ctx.FiledByUserID,
			CaseID:  ctx.CaseID,
			Title:   fmt.Sprintf("Case %s resolved", ctx.CaseNumber),
			Message: fmt.Sprintf("Your case was resolved: %s.", ctx.ResolutionType),
			Type:    NotifyResolved,
			At:      ctx.Now,
		})
	}
	return TransitionPlan{NewStatus: StatusResolved, Effects: effs}, nil
}

// ArchiveContext is the input for planning ArchiveCase.
type ArchiveContext struct {
	CaseID      int64
	Current     Status
	IsArchived  bool
	Role        access.Role
	PerformedBy string
	Now         time.Time
}

// PlanArchive moves a resolved case out of active listings.
// The record stays in storage with isArchived = true and status Archived.
func PlanArchive(ctx ArchiveContext) (TransitionPlan, error) {
	if ctx.IsArchived || ctx.Current == StatusArchived {
		return TransitionPlan{}, guard.Terminal(entity, ctx.CaseID, string(StatusArchived)).Error()
	}
	if ctx.Current != StatusResolved {
		return TransitionPlan{}, guard.Deny(entity, ctx.CaseID, fmt.Sprintf("only resolved cases can be archived (case %d is %q)", ctx.CaseID, ctx.Current)).Error()
	}
	if !CanTransition(ctx.Current, StatusArchived, ctx.Role) {
		return TransitionPlan{}, guard.Deny(entity, ctx.CaseID, fmt.Sprintf("role %q may not archive case %d", ctx.Role, ctx.CaseID)).Error()
	}
	effs := effects.Audit(ctx.CaseID, effects.EventCaseArchived, "Case archived", "Case archived",
		string(ctx.Current), string(StatusArchived), ctx.PerformedBy, ctx.Now)
	return TransitionPlan{NewStatus: StatusArchived, Archive: true, Effects: effs}, nil
}

// IntakeEffects returns the effects of filing a new case.
func IntakeEffects(caseID int64, caseNumber, incidentType, performedBy string, now time.Time) []effects.Effect {
	description := fmt.Sprintf("Case %s filed (%s)", caseNumber, incidentType)
	return effects.Audit(caseID, effects.EventCaseCreated, "Case filed", description, "", string(InitialStatus()), performedBy, now)
}

// AssignmentEffects returns the effects of replacing the officer set of a case.
// notifyUserIDs are the user accounts linked to newly assigned officers.
func AssignmentEffects(caseID int64, caseNumber string, oldIDs, newIDs []int64, notifyUserIDs []int64, performedBy string, now time.Time) []effects.Effect {
	description := fmt.Sprintf("Assigned officers changed from %v to %v", oldIDs, newIDs)
	effs := effects.Audit(caseID, effects.EventOfficerAssigned, "Officers assigned", description,
		fmt.Sprint(oldIDs), fmt.Sprint(newIDs), performedBy, now)
	for _, uid := range notifyUserIDs {
		effs = append(effs, effects.NotificationEffect{
			UserID:  uid,
			CaseID:  caseID,
			Title:   fmt.Sprintf("Assigned to case %s", caseNumber),
			Message: fmt.Sprintf("You have been assigned to case %s.", caseNumber),
			Type:    NotifyOfficerAssigned,
			At:      now,
		})
	}
	return effs
}

// NewlyAssigned returns ids present in next but not in prev, in next's order.
func NewlyAssigned(prev, next []int64) []int64 {
	seen := make(map[int64]bool, len(prev))
	for _, id := range prev {
		seen[id] = true
	}
	var out []int64
	for _, id := range next {
		if !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}

// EditEffects returns the effects of a field edit. changed names the edited fields;
// an edit that changed nothing produces no effects.
func EditEffects(caseID int64, caseNumber string, changed []string, performedBy string, now time.Time) []effects.Effect {
	if len(changed) == 0 {
		return nil
	}
	description := fmt.Sprintf("Case %s updated: %s", caseNumber, strings.Join(changed, ", "))
	return effects.Audit(caseID, effects.EventCaseUpdated, "Case updated", description, "", "", performedBy, now)
}

// DeletedEffects records a physical case delete in the store-wide activity log.
// The case's own timeline and activity rows are removed with it.
func DeletedEffects(caseNumber, performedBy string, now time.Time) []effects.Effect {
	return []effects.Effect{effects.ActivityLogEffect{
		Action:      "CASE_DELETED",
		Description: fmt.Sprintf("Case %s deleted", caseNumber),
		OldValue:    caseNumber,
		PerformedBy: performedBy,
		At:          now,
	}}
}

// PartyAddedEffects returns the effects of attaching a suspect, witness or evidence item.
// personID is 0 when the record is not linked to a Person.
func PartyAddedEffects(caseID int64, eventType, title, description string, personID int64, role, performedBy string, now time.Time) []effects.Effect {
	effs := effects.Audit(caseID, eventType, title, description, "", "", performedBy, now)
	if personID > 0 {
		effs = append(effs, effects.PersonHistoryEffect{
			PersonID:    personID,
			CaseID:      caseID,
			Role:        role,
			Description: description,
			At:          now,
		})
	}
	return effs
}
