package blotter

import (
	"testing"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/errs"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "exact", input: "Pending", want: StatusPending},
		{name: "case insensitive", input: "under investigation", want: StatusUnderInvestigation},
		{name: "surrounding space", input: "  Referred to Court ", want: StatusReferredToCourt},
		{name: "unknown", input: "Dismissed", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				if !errs.IsKind(err, errs.KindValidation) {
					t.Fatalf("ParseStatus(%q) error = %v, want validation error", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(); got != StatusPending {
		t.Errorf("InitialStatus() = %q, want %q", got, StatusPending)
	}
}

func TestTerminalStatusesHaveNoWorkflowTargets(t *testing.T) {
	for _, st := range Statuses() {
		if st.IsTerminal() && len(WorkflowTargets(st)) != 0 {
			t.Errorf("terminal status %q has workflow targets %v", st, WorkflowTargets(st))
		}
	}
}

func TestEveryNonTerminalStatusCanBeClosed(t *testing.T) {
	for _, st := range Statuses() {
		if st.IsTerminal() {
			continue
		}
		if !IsWorkflowTransition(st, StatusClosed) {
			t.Errorf("status %q cannot reach Closed", st)
		}
	}
}

func TestWorkflowTargetsOnlyContainKnownStatuses(t *testing.T) {
	for _, st := range Statuses() {
		for _, target := range WorkflowTargets(st) {
			if !target.Valid() {
				t.Errorf("%q lists unknown target %q", st, target)
			}
			if target == StatusResolved || target == StatusArchived {
				t.Errorf("%q lists %q, which has a dedicated operation", st, target)
			}
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		role access.Role
		want bool
	}{
		{"officer starts investigation", StatusPending, StatusUnderInvestigation, access.RoleOfficer, true},
		{"officer skips to lupon", StatusPending, StatusForLupon, access.RoleOfficer, true},
		{"clerk cannot transition", StatusPending, StatusUnderInvestigation, access.RoleClerk, false},
		{"user cannot transition", StatusPending, StatusUnderInvestigation, access.RoleUser, false},
		{"officer cannot close", StatusPending, StatusClosed, access.RoleOfficer, false},
		{"admin can close", StatusUnderInvestigation, StatusClosed, access.RoleAdmin, true},
		{"backwards is not allowed", StatusForLupon, StatusPending, access.RoleAdmin, false},
		{"resolution reachable from ongoing", StatusMediationOngoing, StatusResolved, access.RoleOfficer, true},
		{"archive only from resolved", StatusSettled, StatusArchived, access.RoleAdmin, false},
		{"resolved can be archived", StatusResolved, StatusArchived, access.RoleOfficer, true},
		{"closed is terminal", StatusClosed, StatusUnderInvestigation, access.RoleAdmin, false},
		{"resolved cannot be reopened", StatusResolved, StatusPending, access.RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to, tt.role); got != tt.want {
				t.Errorf("CanTransition(%q, %q, %q) = %v, want %v", tt.from, tt.to, tt.role, got, tt.want)
			}
		})
	}
}
