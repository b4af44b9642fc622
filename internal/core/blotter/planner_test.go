package blotter

import (
	"testing"
	"time"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/errs"
)

var fixedTime = time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

func TestPlanStatusChange(t *testing.T) {
	tests := []struct {
		name         string
		ctx          StatusChangeContext
		wantNoOp     bool
		wantStatus   Status
		wantKind     errs.Kind
		wantTerminal bool
		wantEffects  int
	}{
		{
			name:        "pending to investigation with filer notification",
			ctx:         StatusChangeContext{CaseID: 1, CaseNumber: "2026-001", Current: StatusPending, Target: StatusUnderInvestigation, Role: access.RoleOfficer, FiledByUserID: 7},
			wantStatus:  StatusUnderInvestigation,
			wantEffects: 3,
		},
		{
			name:        "no filer account means no notification",
			ctx:         StatusChangeContext{CaseID: 1, Current: StatusPending, Target: StatusForMediation, Role: access.RoleOfficer},
			wantStatus:  StatusForMediation,
			wantEffects: 2,
		},
		{
			name:       "same state is a no-op",
			ctx:        StatusChangeContext{CaseID: 1, Current: StatusForLupon, Target: StatusForLupon, Role: access.RoleOfficer},
			wantNoOp:   true,
			wantStatus: StatusForLupon,
		},
		{
			name:         "same terminal state is rejected",
			ctx:          StatusChangeContext{CaseID: 1, Current: StatusClosed, Target: StatusClosed, Role: access.RoleAdmin},
			wantKind:     errs.KindIllegalTransition,
			wantTerminal: true,
		},
		{
			name:         "leaving resolved is rejected as terminal",
			ctx:          StatusChangeContext{CaseID: 1, Current: StatusResolved, Target: StatusUnderInvestigation, Role: access.RoleAdmin},
			wantKind:     errs.KindIllegalTransition,
			wantTerminal: true,
		},
		{
			name:     "resolved only via resolution",
			ctx:      StatusChangeContext{CaseID: 1, Current: StatusSettled, Target: StatusResolved, Role: access.RoleAdmin},
			wantKind: errs.KindIllegalTransition,
		},
		{
			name:     "archived only via archival",
			ctx:      StatusChangeContext{CaseID: 1, Current: StatusSettled, Target: StatusArchived, Role: access.RoleAdmin},
			wantKind: errs.KindIllegalTransition,
		},
		{
			name:     "unknown target",
			ctx:      StatusChangeContext{CaseID: 1, Current: StatusPending, Target: Status("Dismissed"), Role: access.RoleAdmin},
			wantKind: errs.KindValidation,
		},
		{
			name:     "backwards move",
			ctx:      StatusChangeContext{CaseID: 1, Current: StatusReferredToCourt, Target: StatusForMediation, Role: access.RoleAdmin},
			wantKind: errs.KindIllegalTransition,
		},
		{
			name:     "officer cannot close",
			ctx:      StatusChangeContext{CaseID: 1, Current: StatusPending, Target: StatusClosed, Role: access.RoleOfficer},
			wantKind: errs.KindIllegalTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ctx.Now = fixedTime
			tt.ctx.PerformedBy = "desk-officer"
			plan, err := PlanStatusChange(tt.ctx)
			if tt.wantKind != "" {
				if got := errs.KindOf(err); got != tt.wantKind {
					t.Fatalf("PlanStatusChange() error kind = %q, want %q (err: %v)", got, tt.wantKind, err)
				}
				if errs.IsTerminal(err) != tt.wantTerminal {
					t.Errorf("IsTerminal = %v, want %v", errs.IsTerminal(err), tt.wantTerminal)
				}
				return
			}
			if err != nil {
				t.Fatalf("PlanStatusChange() unexpected error: %v", err)
			}
			if plan.NoOp != tt.wantNoOp {
				t.Errorf("NoOp = %v, want %v", plan.NoOp, tt.wantNoOp)
			}
			if plan.NewStatus != tt.wantStatus {
				t.Errorf("NewStatus = %q, want %q", plan.NewStatus, tt.wantStatus)
			}
			if len(plan.Effects) != tt.wantEffects {
				t.Errorf("len(Effects) = %d, want %d", len(plan.Effects), tt.wantEffects)
			}
		})
	}
}

func TestPlanStatusChangeEffectsDescribeOldAndNew(t *testing.T) {
	plan, err := PlanStatusChange(StatusChangeContext{
		CaseID:      9,
		Current:     StatusUnderInvestigation,
		Target:      StatusForLupon,
		Role:        access.RoleOfficer,
		PerformedBy: "PO1 Santos",
		Remarks:     "mediation declined",
		Now:         fixedTime,
	})
	if err != nil {
		t.Fatalf("PlanStatusChange() error: %v", err)
	}

	logs := effects.OfType(plan.Effects, "activity_log")
	if len(logs) != 1 {
		t.Fatalf("expected 1 activity log effect, got %d", len(logs))
	}
	al := logs[0].(effects.ActivityLogEffect)
	if al.OldValue != string(StatusUnderInvestigation) || al.NewValue != string(StatusForLupon) {
		t.Errorf("activity log values = %q -> %q", al.OldValue, al.NewValue)
	}
	if al.PerformedBy != "PO1 Santos" || !al.At.Equal(fixedTime) {
		t.Errorf("activity log performer/time = %q/%v", al.PerformedBy, al.At)
	}

	tl := effects.OfType(plan.Effects, "timeline")[0].(effects.TimelineEffect)
	want := "Status changed from Under Investigation to For Lupon: mediation declined"
	if tl.Description != want {
		t.Errorf("timeline description = %q, want %q", tl.Description, want)
	}
}

func TestPlanResolution(t *testing.T) {
	plan, err := PlanResolution(ResolutionContext{
		CaseID:         4,
		CaseNumber:     "2026-004",
		Current:        StatusSettled,
		Role:           access.RoleOfficer,
		ResolutionType: "Amicably Settled",
		FiledByUserID:  2,
		PerformedBy:    "desk-officer",
		Now:            fixedTime,
	})
	if err != nil {
		t.Fatalf("PlanResolution() error: %v", err)
	}
	if plan.NewStatus != StatusResolved {
		t.Errorf("NewStatus = %q, want Resolved", plan.NewStatus)
	}
	tl := effects.OfType(plan.Effects, "timeline")
	if len(tl) != 1 || tl[0].(effects.TimelineEffect).EventType != effects.EventResolutionAdded {
		t.Errorf("expected RESOLUTION_ADDED timeline effect, got %+v", tl)
	}
	if len(effects.OfType(plan.Effects, "notification")) != 1 {
		t.Error("expected filer notification")
	}

	_, err = PlanResolution(ResolutionContext{CaseID: 4, Current: StatusSettled, HasResolution: true, Role: access.RoleOfficer})
	if !errs.IsTerminal(err) {
		t.Errorf("second resolution error = %v, want terminal illegal transition", err)
	}

	_, err = PlanResolution(ResolutionContext{CaseID: 4, Current: StatusClosed, Role: access.RoleAdmin})
	if !errs.IsTerminal(err) {
		t.Errorf("resolving closed case error = %v, want terminal illegal transition", err)
	}

	_, err = PlanResolution(ResolutionContext{CaseID: 4, Current: StatusPending, Role: access.RoleClerk})
	if !errs.IsKind(err, errs.KindIllegalTransition) || errs.IsTerminal(err) {
		t.Errorf("clerk resolution error = %v, want non-terminal illegal transition", err)
	}
}

func TestPlanArchive(t *testing.T) {
	plan, err := PlanArchive(ArchiveContext{CaseID: 5, Current: StatusResolved, Role: access.RoleAdmin, Now: fixedTime})
	if err != nil {
		t.Fatalf("PlanArchive() error: %v", err)
	}
	if !plan.Archive || plan.NewStatus != StatusArchived {
		t.Errorf("plan = %+v, want archive to Archived", plan)
	}

	if _, err := PlanArchive(ArchiveContext{CaseID: 5, Current: StatusSettled, Role: access.RoleAdmin}); !errs.IsKind(err, errs.KindIllegalTransition) {
		t.Errorf("archiving settled case error = %v", err)
	}
	if _, err := PlanArchive(ArchiveContext{CaseID: 5, Current: StatusArchived, IsArchived: true, Role: access.RoleAdmin}); !errs.IsTerminal(err) {
		t.Errorf("re-archiving error = %v, want terminal", err)
	}
}

func TestNewlyAssigned(t *testing.T) {
	got := NewlyAssigned([]int64{1, 2}, []int64{2, 3, 3, 4})
	want := []int64{3, 4}
	if len(got) != len(want) {
		t.Fatalf("NewlyAssigned() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NewlyAssigned()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAssignmentEffectsNotifiesLinkedUsers(t *testing.T) {
	effs := AssignmentEffects(3, "2026-003", nil, []int64{10, 11}, []int64{40, 41}, "admin", fixedTime)
	if got := len(effects.OfType(effs, "notification")); got != 2 {
		t.Errorf("notifications = %d, want 2", got)
	}
	if got := len(effects.OfType(effs, "timeline")); got != 1 {
		t.Errorf("timeline events = %d, want 1", got)
	}
}

func TestEditEffects(t *testing.T) {
	if effs := EditEffects(1, "2026-001", nil, "clerk", fixedTime); len(effs) != 0 {
		t.Errorf("EditEffects() with no changes = %d effects, want 0", len(effs))
	}
	effs := EditEffects(1, "2026-001", []string{"narrative", "priority"}, "clerk", fixedTime)
	timeline := effects.OfType(effs, "timeline")
	if len(timeline) != 1 {
		t.Fatalf("timeline effects = %d, want 1", len(timeline))
	}
	te := timeline[0].(effects.TimelineEffect)
	if te.EventType != effects.EventCaseUpdated {
		t.Errorf("EventType = %q, want %q", te.EventType, effects.EventCaseUpdated)
	}
	if te.Description != "Case 2026-001 updated: narrative, priority" {
		t.Errorf("Description = %q", te.Description)
	}
}

func TestDeletedEffectsAreStoreWide(t *testing.T) {
	effs := DeletedEffects("2026-004", "admin", fixedTime)
	if len(effs) != 1 {
		t.Fatalf("effects = %d, want 1", len(effs))
	}
	a, ok := effs[0].(effects.ActivityLogEffect)
	if !ok {
		t.Fatalf("effect = %T, want ActivityLogEffect", effs[0])
	}
	if a.CaseID != 0 {
		t.Errorf("CaseID = %d, want 0 so the row outlives the case", a.CaseID)
	}
	if a.OldValue != "2026-004" {
		t.Errorf("OldValue = %q, want case number", a.OldValue)
	}
}

func TestPartyAddedEffectsLinksPersonHistory(t *testing.T) {
	unlinked := PartyAddedEffects(3, effects.EventEvidenceAdded, "Evidence added", "knife", 0, "", "officer", fixedTime)
	if got := len(effects.OfType(unlinked, "person_history")); got != 0 {
		t.Errorf("unlinked person_history effects = %d, want 0", got)
	}
	linked := PartyAddedEffects(3, effects.EventSuspectAdded, "Suspect added", "Juan", 9, "Suspect", "officer", fixedTime)
	history := effects.OfType(linked, "person_history")
	if len(history) != 1 {
		t.Fatalf("person_history effects = %d, want 1", len(history))
	}
	if h := history[0].(effects.PersonHistoryEffect); h.PersonID != 9 || h.Role != "Suspect" {
		t.Errorf("history = %+v", h)
	}
}
