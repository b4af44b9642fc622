// Package blotter contains the pure business logic for blotter case operations.
// This is part of the Functional Core - no I/O, only pure functions.
package blotter

import (
	"strings"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/errs"
)

// Status represents the possible states of a case.
type Status string

const (
	StatusPending            Status = "Pending"
	StatusUnderInvestigation Status = "Under Investigation"
	StatusForMediation       Status = "For Mediation"
	StatusMediationOngoing   Status = "Mediation Ongoing"
	StatusSettled            Status = "Settled"
	StatusForLupon           Status = "For Lupon"
	StatusReferredToCourt    Status = "Referred to Court"
	StatusResolved           Status = "Resolved"
	StatusArchived           Status = "Archived"
	StatusClosed             Status = "Closed"
)

// Statuses returns every case status in workflow order.
func Statuses() []Status {
	return []Status{
		StatusPending,
		StatusUnderInvestigation,
		StatusForMediation,
		StatusMediationOngoing,
		StatusSettled,
		StatusForLupon,
		StatusReferredToCourt,
		StatusResolved,
		StatusArchived,
		StatusClosed,
	}
}

// ParseStatus maps a stored or user-supplied string onto the closed status set.
// Matching ignores case and surrounding whitespace; anything else is rejected.
func ParseStatus(s string) (Status, error) {
	trimmed := strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(trimmed, string(st)) {
			return st, nil
		}
	}
	return "", errs.Validation("case", "unknown case status %q", s)
}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	for _, st := range Statuses() {
		if s == st {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no workflow transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed || s == StatusArchived
}

// InitialStatus returns the status a newly filed case starts in.
func InitialStatus() Status {
	return StatusPending
}

// workflowTransitions is the table of status changes reachable through ChangeStatus.
// Resolved and Archived are absent: they have dedicated operations.
var workflowTransitions = map[Status][]Status{
	StatusPending: {
		StatusUnderInvestigation, StatusForMediation, StatusMediationOngoing,
		StatusForLupon, StatusReferredToCourt, StatusClosed,
	},
	StatusUnderInvestigation: {
		StatusForMediation, StatusMediationOngoing, StatusSettled,
		StatusForLupon, StatusReferredToCourt, StatusClosed,
	},
	StatusForMediation: {
		StatusMediationOngoing, StatusSettled, StatusForLupon,
		StatusReferredToCourt, StatusClosed,
	},
	StatusMediationOngoing: {
		StatusSettled, StatusForLupon, StatusReferredToCourt, StatusClosed,
	},
	StatusSettled:         {StatusClosed},
	StatusForLupon:        {StatusSettled, StatusReferredToCourt, StatusClosed},
	StatusReferredToCourt: {StatusClosed},
	StatusResolved:        {},
	StatusClosed:          {},
	StatusArchived:        {},
}

// WorkflowTargets returns the statuses ChangeStatus may move from to.
func WorkflowTargets(from Status) []Status {
	targets := workflowTransitions[from]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// IsWorkflowTransition reports whether from -> to is in the ChangeStatus table.
func IsWorkflowTransition(from, to Status) bool {
	for _, t := range workflowTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// IsReachable reports whether to can follow from through any operation,
// including resolution (-> Resolved) and archival (Resolved -> Archived).
func IsReachable(from, to Status) bool {
	switch to {
	case StatusResolved:
		return from.Valid() && !from.IsTerminal()
	case StatusArchived:
		return from == StatusResolved
	}
	return IsWorkflowTransition(from, to)
}

// CanTransition is the role-aware decision point for a status change.
// Rules:
// - the transition must be reachable from the current status
// - only Admin may apply the Closed administrative override
// - Admin and Officer may perform every other transition; Clerk and User may not
func CanTransition(from, to Status, role access.Role) bool {
	if !IsReachable(from, to) {
		return false
	}
	if to == StatusClosed {
		return role == access.RoleAdmin
	}
	return access.CanManageCases(role)
}
