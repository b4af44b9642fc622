package respondent

import (
	"testing"
	"time"

	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/errs"
)

var now = time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC)

func TestPlanTransition(t *testing.T) {
	appeared := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		current        CooperationStatus
		target         CooperationStatus
		at             time.Time
		wantKind       errs.Kind
		wantTerminal   bool
		wantNoOp       bool
		wantAppearance *time.Time
		wantStatement  bool
	}{
		{name: "notified to appeared stamps date", current: StatusNotified, target: StatusAppeared, at: appeared, wantAppearance: &appeared},
		{name: "appearance defaults to now", current: StatusNotified, target: StatusAppeared, wantAppearance: &now},
		{name: "notified to no response", current: StatusNotified, target: StatusNoResponse},
		{name: "late appearance", current: StatusNoResponse, target: StatusAppeared, at: appeared, wantAppearance: &appeared},
		{name: "statement after appearance", current: StatusAppeared, target: StatusStatementRecorded, wantStatement: true},
		{name: "same state is no-op", current: StatusAppeared, target: StatusAppeared, wantNoOp: true},
		{name: "statement without appearance", current: StatusNotified, target: StatusStatementRecorded, wantKind: errs.KindIllegalTransition},
		{name: "cannot go back to notified", current: StatusAppeared, target: StatusNotified, wantKind: errs.KindIllegalTransition},
		{name: "statement recorded again is no-op", current: StatusStatementRecorded, target: StatusStatementRecorded, wantNoOp: true},
		{name: "statement recorded is terminal", current: StatusStatementRecorded, target: StatusAppeared, wantKind: errs.KindIllegalTransition, wantTerminal: true},
		{name: "unknown target", current: StatusNotified, target: "Hiding", wantKind: errs.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanTransition(TransitionContext{
				RespondentID: 5,
				CaseID:       1,
				Name:         "Pedro Reyes",
				Current:      tt.current,
				Target:       tt.target,
				At:           tt.at,
				Now:          now,
			})
			if tt.wantKind != "" {
				if errs.KindOf(err) != tt.wantKind {
					t.Fatalf("error = %v, want kind %q", err, tt.wantKind)
				}
				if errs.IsTerminal(err) != tt.wantTerminal {
					t.Errorf("IsTerminal = %v, want %v", errs.IsTerminal(err), tt.wantTerminal)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if plan.NoOp != tt.wantNoOp {
				t.Errorf("NoOp = %v, want %v", plan.NoOp, tt.wantNoOp)
			}
			if tt.wantNoOp {
				if len(plan.Effects) != 0 {
					t.Errorf("no-op produced %d effects", len(plan.Effects))
				}
				return
			}
			if plan.NewStatus != tt.target {
				t.Errorf("NewStatus = %q, want %q", plan.NewStatus, tt.target)
			}
			if tt.wantAppearance != nil {
				if plan.AppearanceDate == nil || !plan.AppearanceDate.Equal(*tt.wantAppearance) {
					t.Errorf("AppearanceDate = %v, want %v", plan.AppearanceDate, *tt.wantAppearance)
				}
			} else if plan.AppearanceDate != nil {
				t.Errorf("AppearanceDate = %v, want nil", plan.AppearanceDate)
			}
			if (plan.StatementDate != nil) != tt.wantStatement {
				t.Errorf("StatementDate = %v, want set=%v", plan.StatementDate, tt.wantStatement)
			}
			if len(effects.OfType(plan.Effects, "timeline")) != 1 {
				t.Error("expected one timeline effect")
			}
		})
	}
}

func TestPlanTransitionRecordsPersonHistory(t *testing.T) {
	plan, err := PlanTransition(TransitionContext{
		RespondentID: 5, CaseID: 1, PersonID: 12,
		Current: StatusNotified, Target: StatusNoResponse, Now: now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hist := effects.OfType(plan.Effects, "person_history")
	if len(hist) != 1 {
		t.Fatalf("person history effects = %d, want 1", len(hist))
	}
	if h := hist[0].(effects.PersonHistoryEffect); h.PersonID != 12 || h.CaseID != 1 || h.Role != "Respondent" {
		t.Errorf("history = %+v", h)
	}
}

func TestCanEditStatement(t *testing.T) {
	if r := CanEditStatement(StatementEditContext{StatementID: 1, StatementChanged: true}); !r.Allowed {
		t.Errorf("unverified statement edit denied: %s", r.Reason)
	}
	if r := CanEditStatement(StatementEditContext{StatementID: 1, Verified: true}); !r.Allowed {
		t.Errorf("notes-only edit of verified statement denied: %s", r.Reason)
	}
	if r := CanEditStatement(StatementEditContext{StatementID: 1, Verified: true, StatementChanged: true}); r.Allowed {
		t.Error("expected verified statement text to be immutable")
	}
}

func TestCanVerifyStatement(t *testing.T) {
	if r := CanVerifyStatement(1, false, "PO2 Cruz"); !r.Allowed {
		t.Errorf("verification denied: %s", r.Reason)
	}
	if err := CanVerifyStatement(1, false, " ").Error(); !errs.IsKind(err, errs.KindValidation) {
		t.Errorf("blank verifier error = %v", err)
	}
	if err := CanVerifyStatement(1, true, "PO2 Cruz").Error(); !errs.IsTerminal(err) {
		t.Errorf("re-verification error = %v, want terminal", err)
	}
}

func TestCanRecordStatement(t *testing.T) {
	if r := CanRecordStatement(5, StatusAppeared); !r.Allowed {
		t.Errorf("statement after appearance denied: %s", r.Reason)
	}
	if err := CanRecordStatement(5, StatusStatementRecorded).Error(); !errs.IsTerminal(err) {
		t.Errorf("second statement error = %v, want terminal", err)
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("no response")
	if err != nil || got != StatusNoResponse {
		t.Errorf("ParseStatus(no response) = %q, %v", got, err)
	}
	if _, err := ParseStatus("Absent"); !errs.IsKind(err, errs.KindValidation) {
		t.Errorf("ParseStatus(Absent) error = %v", err)
	}
}
