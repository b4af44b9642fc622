package kpform

import (
	"testing"
	"time"

	"github.com/example/blotter/internal/errs"
)

func TestPlanTransition(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		current    Status
		target     Status
		wantKind   errs.Kind
		wantIssued bool
	}{
		{name: "issue draft", current: StatusDraft, target: StatusIssued, wantIssued: true},
		{name: "file issued", current: StatusIssued, target: StatusFiled},
		{name: "cancel draft", current: StatusDraft, target: StatusCancelled},
		{name: "cancel issued", current: StatusIssued, target: StatusCancelled},
		{name: "file draft directly", current: StatusDraft, target: StatusFiled, wantKind: errs.KindIllegalTransition},
		{name: "filed is terminal", current: StatusFiled, target: StatusCancelled, wantKind: errs.KindIllegalTransition},
		{name: "unknown", current: StatusDraft, target: "Signed", wantKind: errs.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanTransition(TransitionContext{FormID: 2, CaseID: 1, FormType: "KP-7", Current: tt.current, Target: tt.target, Now: now})
			if tt.wantKind != "" {
				if errs.KindOf(err) != tt.wantKind {
					t.Fatalf("error = %v, want kind %q", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if plan.NewStatus != tt.target {
				t.Errorf("NewStatus = %q, want %q", plan.NewStatus, tt.target)
			}
			if (plan.IssuedDate != nil) != tt.wantIssued {
				t.Errorf("IssuedDate = %v, want set=%v", plan.IssuedDate, tt.wantIssued)
			}
		})
	}
}

func TestSameStateIsNoOp(t *testing.T) {
	plan, err := PlanTransition(TransitionContext{FormID: 2, Current: StatusIssued, Target: StatusIssued})
	if err != nil || !plan.NoOp {
		t.Errorf("PlanTransition(Issued->Issued) = %+v, %v; want no-op", plan, err)
	}
	for _, closed := range []Status{StatusFiled, StatusCancelled} {
		plan, err := PlanTransition(TransitionContext{FormID: 2, Current: closed, Target: closed})
		if err != nil || !plan.NoOp {
			t.Errorf("PlanTransition(%s->%s) = %+v, %v; want no-op", closed, closed, plan, err)
		}
	}
	if _, err := PlanTransition(TransitionContext{FormID: 2, Current: StatusCancelled, Target: StatusIssued}); !errs.IsTerminal(err) {
		t.Errorf("Cancelled->Issued error = %v, want terminal", err)
	}
}
