package blotter

import (
	"fmt"
	"strings"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/core/guard"
)

const entity = "case"

// DeleteContext provides context for case deletion guards.
type DeleteContext struct {
	CaseID  int64
	Status  Status
	Role    access.Role
	IsFiler bool // caller filed the case
}

// CanDeleteCase evaluates whether a case may be physically deleted.
// Rules:
// - only cases still in the intake state (Pending) may be deleted
// - only the filer or an Admin may delete
func CanDeleteCase(ctx DeleteContext) guard.Result {
	if ctx.Status != StatusPending {
		return guard.Deny(entity, ctx.CaseID, fmt.Sprintf("case %d cannot be deleted in status %q; only %q cases may be deleted", ctx.CaseID, ctx.Status, StatusPending))
	}
	if !ctx.IsFiler && ctx.Role != access.RoleAdmin {
		return guard.Deny(entity, ctx.CaseID, fmt.Sprintf("only the filer or an Admin may delete case %d", ctx.CaseID))
	}
	return guard.Allow()
}

// EditContext provides context for full-record case edits.
type EditContext struct {
	CaseID            int64
	Status            Status
	IsArchived        bool
	CaseNumberChanged bool
	StatusChanged     bool
	ArchivedChanged   bool
}

// CanEditCase evaluates whether field edits are allowed.
// Rules:
// - case number is immutable once assigned
// - status and archival change only through their workflow operations
// - terminal or archived cases are read-only
func CanEditCase(ctx EditContext) guard.Result {
	if ctx.CaseNumberChanged {
		return guard.Invalid(entity, ctx.CaseID, "case number is immutable once assigned")
	}
	if ctx.StatusChanged {
		return guard.Invalid(entity, ctx.CaseID, "status cannot be changed by an edit; use the status workflow")
	}
	if ctx.ArchivedChanged {
		return guard.Invalid(entity, ctx.CaseID, "archival cannot be changed by an edit; use archive")
	}
	if ctx.IsArchived || ctx.Status.IsTerminal() {
		return guard.Terminal(entity, ctx.CaseID, string(ctx.Status))
	}
	return guard.Allow()
}

// AssignOfficersContext provides context for officer assignment guards.
type AssignOfficersContext struct {
	CaseID          int64
	Status          Status
	Role            access.Role
	MissingOfficers []int64 // requested ids that do not exist
}

// CanAssignOfficers evaluates whether the officer set of a case may be replaced.
// Rules:
// - caller must be able to manage cases
// - case must not be terminal
// - every requested officer must exist
func CanAssignOfficers(ctx AssignOfficersContext) guard.Result {
	if !access.CanManageCases(ctx.Role) {
		return guard.Deny(entity, ctx.CaseID, fmt.Sprintf("role %q may not assign officers", ctx.Role))
	}
	if ctx.Status.IsTerminal() {
		return guard.Terminal(entity, ctx.CaseID, string(ctx.Status))
	}
	if len(ctx.MissingOfficers) > 0 {
		ids := make([]string, len(ctx.MissingOfficers))
		for i, id := range ctx.MissingOfficers {
			ids[i] = fmt.Sprint(id)
		}
		return guard.Invalid(entity, ctx.CaseID, fmt.Sprintf("unknown officer(s): %s", strings.Join(ids, ", ")))
	}
	return guard.Allow()
}

// SubRecordContext provides context for adding or changing records owned by a case
// (suspects, witnesses, evidence, respondents, hearings, summons, mediation, forms).
type SubRecordContext struct {
	CaseID     int64
	Status     Status
	IsArchived bool
}

// CanModifySubRecords evaluates whether a case still accepts new or changed sub-records.
// Rule: terminal or archived cases are frozen.
func CanModifySubRecords(ctx SubRecordContext) guard.Result {
	if ctx.IsArchived || ctx.Status.IsTerminal() {
		return guard.Terminal(entity, ctx.CaseID, string(ctx.Status))
	}
	return guard.Allow()
}
