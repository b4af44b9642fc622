package summons

import (
	"testing"
	"time"

	"github.com/example/blotter/internal/errs"
)

var now = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func TestStateOf(t *testing.T) {
	tests := []struct {
		delivery DeliveryStatus
		complied bool
		want     State
	}{
		{DeliveryPending, false, StatePending},
		{DeliveryDelivered, false, StateDelivered},
		{DeliveryFailed, false, StateFailed},
		{DeliveryDelivered, true, StateComplied},
	}
	for _, tt := range tests {
		if got := StateOf(tt.delivery, tt.complied); got != tt.want {
			t.Errorf("StateOf(%q, %v) = %q, want %q", tt.delivery, tt.complied, got, tt.want)
		}
	}
}

func TestPlanTransition(t *testing.T) {
	tests := []struct {
		name         string
		current      State
		target       State
		wantDelivery DeliveryStatus
		wantComplied bool
		wantNoOp     bool
		wantKind     errs.Kind
		wantTerminal bool
	}{
		{name: "deliver", current: StatePending, target: StateDelivered, wantDelivery: DeliveryDelivered},
		{name: "fail", current: StatePending, target: StateFailed, wantDelivery: DeliveryFailed},
		{name: "retry after failure", current: StateFailed, target: StateDelivered, wantDelivery: DeliveryDelivered},
		{name: "re-issue after failure", current: StateFailed, target: StatePending, wantDelivery: DeliveryPending},
		{name: "comply after delivery", current: StateDelivered, target: StateComplied, wantDelivery: DeliveryDelivered, wantComplied: true},
		{name: "same state", current: StateDelivered, target: StateDelivered, wantNoOp: true, wantDelivery: DeliveryDelivered},
		{name: "comply before delivery", current: StatePending, target: StateComplied, wantKind: errs.KindIllegalTransition},
		{name: "undeliver", current: StateDelivered, target: StateFailed, wantKind: errs.KindIllegalTransition},
		{name: "complied is terminal", current: StateComplied, target: StateComplied, wantKind: errs.KindIllegalTransition, wantTerminal: true},
		{name: "unknown", current: StatePending, target: "Lost", wantKind: errs.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanTransition(TransitionContext{
				SummonsID: 3, CaseID: 1, SummonsNumber: "SUM-2026-001-01",
				Current: tt.current, Target: tt.target, Now: now,
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
			if plan.NewDelivery != tt.wantDelivery {
				t.Errorf("NewDelivery = %q, want %q", plan.NewDelivery, tt.wantDelivery)
			}
			if plan.Complied != tt.wantComplied {
				t.Errorf("Complied = %v, want %v", plan.Complied, tt.wantComplied)
			}
			if tt.wantComplied && (plan.ComplianceDate == nil || !plan.ComplianceDate.Equal(now)) {
				t.Errorf("ComplianceDate = %v, want %v", plan.ComplianceDate, now)
			}
		})
	}
}

func TestIsUncomplied(t *testing.T) {
	cutoff := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	before := cutoff.Add(-48 * time.Hour)
	after := cutoff.Add(time.Hour)

	tests := []struct {
		name      string
		delivery  DeliveryStatus
		complied  bool
		delivered *time.Time
		want      bool
	}{
		{"delivered before cutoff", DeliveryDelivered, false, &before, true},
		{"delivered on cutoff", DeliveryDelivered, false, &cutoff, true},
		{"delivered after cutoff", DeliveryDelivered, false, &after, false},
		{"already complied", DeliveryDelivered, true, &before, false},
		{"never delivered", DeliveryPending, false, nil, false},
		{"failed", DeliveryFailed, false, &before, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUncomplied(tt.delivery, tt.complied, tt.delivered, cutoff); got != tt.want {
				t.Errorf("IsUncomplied() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextNumber(t *testing.T) {
	if got := NextNumber("2026-014", 2); got != "SUM-2026-014-02" {
		t.Errorf("NextNumber() = %q", got)
	}
}
