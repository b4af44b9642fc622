package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/db"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
)

func TestFileCase_DefaultsAndIntakeTrail(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "clerk", access.RoleClerk)

	c := env.fileCase(t, ctx, "2024-001")
	assert.Greater(t, c.ID, int64(0))
	assert.Equal(t, blotter.StatusPending, c.Status)
	assert.Equal(t, models.PriorityNormal, c.Priority)
	require.NotNil(t, c.FiledByUserID)

	got, err := env.cases.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-001", got.CaseNumber)
	assert.Equal(t, "Noise complaint", got.Narrative)
	assert.Equal(t, blotter.StatusPending, got.Status)

	timeline, err := env.cases.Timeline(ctx, c.ID, true)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, effects.EventCaseCreated, timeline[0].EventType)
	assert.Equal(t, "clerk", timeline[0].PerformedBy)
}

func TestFileCase_GeneratesNumberAndRejectsUnknownOfficer(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "clerk", access.RoleClerk)

	c := env.fileCase(t, ctx, "")
	assert.Equal(t, "2026-001", c.CaseNumber)

	_, err := env.cases.FileCase(ctx, primary.FileCaseRequest{
		IncidentType: "Theft", Narrative: "n", IncidentLocation: "l", ComplainantName: "c",
		AssignedOfficerIDs: []int64{42},
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation), "got %v", err)
	assert.Equal(t, 1, env.count(t, "blotter_reports", ""), "a rejected filing writes nothing")
}

func TestFileFromTemplate_CountsUsage(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "clerk", access.RoleClerk)
	tmpl, err := env.templates.CreateTemplate(ctx, &models.CaseTemplate{
		Name: "Stray animal", IncidentType: "Animal", NarrativeTemplate: "A stray animal was reported", DefaultPriority: models.PriorityLow,
	})
	require.NoError(t, err)

	c, err := env.cases.FileFromTemplate(ctx, primary.FileFromTemplateRequest{
		TemplateID: tmpl.ID,
		Case:       primary.FileCaseRequest{IncidentLocation: "Purok 7", ComplainantName: "Ana Cruz"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Animal", c.IncidentType)
	assert.Equal(t, "A stray animal was reported", c.Narrative)
	assert.Equal(t, models.PriorityLow, c.Priority)

	again, err := env.templates.GetTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.UsageCount)
}

func TestChangeStatus_NotifiesFiler(t *testing.T) {
	env := newTestEnv(t)
	clerkCtx := env.actor(t, "clerk", access.RoleClerk)
	officerCtx := env.actor(t, "officer", access.RoleOfficer)
	c := env.fileCase(t, clerkCtx, "2026-010")

	updated, err := env.cases.ChangeStatus(officerCtx, primary.ChangeStatusRequest{
		CaseID: c.ID, Target: blotter.StatusUnderInvestigation, Remarks: "site visit",
	})
	require.NoError(t, err)
	assert.Equal(t, blotter.StatusUnderInvestigation, updated.Status)

	unread, err := env.notifications.ListForUser(clerkCtx, *c.FiledByUserID, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, blotter.NotifyStatusChanged, unread[0].Type)

	timeline, err := env.cases.Timeline(clerkCtx, c.ID, true)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, effects.EventStatusChanged, timeline[1].EventType)
	assert.Contains(t, timeline[1].Description, "site visit")
}

func TestChangeStatus_Guards(t *testing.T) {
	env := newTestEnv(t)
	clerkCtx := env.actor(t, "clerk", access.RoleClerk)
	officerCtx := env.actor(t, "officer", access.RoleOfficer)
	adminCtx := env.actor(t, "admin", access.RoleAdmin)
	c := env.fileCase(t, clerkCtx, "2026-011")

	tests := []struct {
		name   string
		ctx    context.Context
		target blotter.Status
	}{
		{"clerk cannot drive workflow", clerkCtx, blotter.StatusUnderInvestigation},
		{"officer cannot close", officerCtx, blotter.StatusClosed},
		{"resolved only through a resolution", adminCtx, blotter.StatusResolved},
		{"archived only through archival", adminCtx, blotter.StatusArchived},
		{"pending cannot jump to settled", adminCtx, blotter.StatusSettled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.cases.ChangeStatus(tt.ctx, primary.ChangeStatusRequest{CaseID: c.ID, Target: tt.target})
			assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "got %v", err)
		})
	}

	_, err := env.cases.ChangeStatus(adminCtx, primary.ChangeStatusRequest{CaseID: c.ID, Target: "Lost"})
	assert.True(t, errs.IsKind(err, errs.KindValidation), "got %v", err)

	same, err := env.cases.ChangeStatus(adminCtx, primary.ChangeStatusRequest{CaseID: c.ID, Target: blotter.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, blotter.StatusPending, same.Status)
	assert.Equal(t, 1, env.count(t, "case_timeline", "blotterReportId = ?", c.ID), "a no-op writes no timeline row")
}

func TestCreateResolution_OnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	clerkCtx := env.actor(t, "clerk", access.RoleClerk)
	officerCtx := env.actor(t, "officer", access.RoleOfficer)
	c := env.fileCase(t, clerkCtx, "2026-012")

	res, err := env.cases.CreateResolution(officerCtx, primary.CreateResolutionRequest{
		CaseID: c.ID, ResolutionType: "Amicably Settled", ResolutionDetails: "Parties agreed",
	})
	require.NoError(t, err)
	assert.Equal(t, "officer", res.ResolvedBy)
	assert.True(t, testNow.Equal(res.ResolvedDate))

	got, err := env.cases.GetCase(officerCtx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, blotter.StatusResolved, got.Status)
	assert.Equal(t, 1, env.count(t, "case_timeline", "blotterReportId = ? AND eventType = ?", c.ID, effects.EventResolutionAdded))

	_, err = env.cases.CreateResolution(officerCtx, primary.CreateResolutionRequest{CaseID: c.ID, ResolutionType: "Dismissed"})
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "got %v", err)
	assert.Equal(t, 1, env.count(t, "resolutions", "blotterReportId = ?", c.ID))
}

func TestTerminalCasesRefuseChanges(t *testing.T) {
	env := newTestEnv(t)
	clerkCtx := env.actor(t, "clerk", access.RoleClerk)
	adminCtx := env.actor(t, "admin", access.RoleAdmin)
	c := env.fileCase(t, clerkCtx, "2026-013")

	_, err := env.cases.CreateResolution(adminCtx, primary.CreateResolutionRequest{CaseID: c.ID, ResolutionType: "Dismissed"})
	require.NoError(t, err)

	_, err = env.cases.ChangeStatus(adminCtx, primary.ChangeStatusRequest{CaseID: c.ID, Target: blotter.StatusClosed})
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "status change: %v", err)

	_, err = env.respondents.AddRespondent(adminCtx, primary.AddRespondentRequest{CaseID: c.ID, Accusation: "late"})
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "sub-record: %v", err)

	_, err = env.hearings.ScheduleHearing(adminCtx, &models.Hearing{CaseID: c.ID, HearingDate: testNow.Add(time.Hour), Location: "Hall"})
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "hearing: %v", err)

	archived, err := env.cases.ArchiveCase(adminCtx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, blotter.StatusArchived, archived.Status)
	assert.True(t, archived.IsArchived)

	_, err = env.cases.ArchiveCase(adminCtx, c.ID)
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "archive twice: %v", err)

	active, err := env.cases.ListCases(adminCtx, models.CaseFilters{})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestArchiveCase_RequiresResolved(t *testing.T) {
	env := newTestEnv(t)
	adminCtx := env.actor(t, "admin", access.RoleAdmin)
	c := env.fileCase(t, adminCtx, "2026-014")

	_, err := env.cases.ArchiveCase(adminCtx, c.ID)
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "got %v", err)
}

func TestUpdateCase_RecordsChangedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "clerk", access.RoleClerk)
	c := env.fileCase(t, ctx, "2026-015")

	edit := c.Clone()
	edit.Narrative = "Noise complaint, repeated"
	edit.Priority = models.PriorityHigh
	updated, err := env.cases.UpdateCase(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, updated.Priority)

	timeline, err := env.cases.Timeline(ctx, c.ID, false)
	require.NoError(t, err)
	require.NotEmpty(t, timeline)
	assert.Equal(t, effects.EventCaseUpdated, timeline[0].EventType)

	renumber := updated.Clone()
	renumber.CaseNumber = "2026-999"
	_, err = env.cases.UpdateCase(ctx, renumber)
	require.Error(t, err, "case numbers are immutable")

	restatus := updated.Clone()
	restatus.Status = blotter.StatusClosed
	_, err = env.cases.UpdateCase(ctx, restatus)
	require.Error(t, err, "status changes only through the workflow")
}

func TestAssignOfficers_NotifiesNewlyAssigned(t *testing.T) {
	env := newTestEnv(t)
	adminCtx := env.actor(t, "admin", access.RoleAdmin)
	c := env.fileCase(t, adminCtx, "2026-016")

	linked := &models.User{Username: "po1", PasswordHash: "x", Role: access.RoleOfficer, IsActive: true}
	require.NoError(t, env.store.Users.Create(adminCtx, linked))
	first, err := env.officers.CreateOfficer(adminCtx, &models.Officer{Name: "PO1 Reyes", BadgeNumber: "PNP-1", UserID: &linked.ID, IsActive: true})
	require.NoError(t, err)
	second, err := env.officers.CreateOfficer(adminCtx, &models.Officer{Name: "PO2 Lim", BadgeNumber: "PNP-2", IsActive: true})
	require.NoError(t, err)

	updated, err := env.cases.AssignOfficers(adminCtx, c.ID, []int64{first.ID, second.ID, first.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID}, updated.AssignedOfficerIDs)

	n, err := env.notifications.CountUnread(adminCtx, linked.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Re-assigning the same set notifies nobody new.
	_, err = env.cases.AssignOfficers(adminCtx, c.ID, []int64{second.ID, first.ID})
	require.NoError(t, err)
	n, err = env.notifications.CountUnread(adminCtx, linked.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = env.cases.AssignOfficers(adminCtx, c.ID, []int64{999})
	assert.Error(t, err)
}

func TestDeleteCase_RemovesEverythingItOwns(t *testing.T) {
	env := newTestEnv(t)
	clerkCtx := env.actor(t, "clerk", access.RoleClerk)
	otherCtx := env.actor(t, "other", access.RoleClerk)
	officerCtx := env.actor(t, "officer", access.RoleOfficer)
	c := env.fileCase(t, clerkCtx, "2026-017")

	r, err := env.respondents.AddRespondent(officerCtx, primary.AddRespondentRequest{
		CaseID: c.ID, Accusation: "Noise",
		Person: &primary.PersonRef{FirstName: "Pedro", LastName: "Santos", ContactNumber: "0918"},
	})
	require.NoError(t, err)
	_, err = env.summons.IssueSummons(officerCtx, primary.IssueSummonsRequest{RespondentID: r.ID, AppearanceDate: testNow.Add(48 * time.Hour), NotifyNumber: "0918"})
	require.NoError(t, err)
	_, err = env.hearings.ScheduleHearing(officerCtx, &models.Hearing{CaseID: c.ID, HearingDate: testNow.Add(72 * time.Hour), Location: "Hall"})
	require.NoError(t, err)
	_, err = env.kpforms.CreateForm(officerCtx, &models.KPForm{CaseID: c.ID, FormType: "KP-9"})
	require.NoError(t, err)

	err = env.cases.DeleteCase(otherCtx, c.ID)
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "only the filer or an admin may delete: %v", err)

	require.NoError(t, env.cases.DeleteCase(clerkCtx, c.ID))

	for _, table := range db.CaseTables() {
		assert.Zero(t, env.count(t, table, "blotterReportId = ?", c.ID), "rows left in %s", table)
	}
	assert.Equal(t, 1, env.count(t, "persons", ""), "the person directory outlives the case")
	assert.Equal(t, 1, env.count(t, "activity_logs", "action = ?", "CASE_DELETED"))
}

func TestDeleteCase_OnlyPending(t *testing.T) {
	env := newTestEnv(t)
	adminCtx := env.actor(t, "admin", access.RoleAdmin)
	c := env.fileCase(t, adminCtx, "2026-018")
	_, err := env.cases.ChangeStatus(adminCtx, primary.ChangeStatusRequest{CaseID: c.ID, Target: blotter.StatusUnderInvestigation})
	require.NoError(t, err)

	err = env.cases.DeleteCase(adminCtx, c.ID)
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "got %v", err)
	assert.Equal(t, 1, env.count(t, "blotter_reports", "id = ?", c.ID))
}

func TestDashboard_CountsAtQueryTime(t *testing.T) {
	env := newTestEnv(t)
	clerkCtx := env.actor(t, "clerk", access.RoleClerk)
	adminCtx := env.actor(t, "admin", access.RoleAdmin)
	open := env.fileCase(t, clerkCtx, "2026-020")
	done := env.fileCase(t, clerkCtx, "2026-021")
	_, err := env.cases.CreateResolution(adminCtx, primary.CreateResolutionRequest{CaseID: done.ID, ResolutionType: "Dismissed"})
	require.NoError(t, err)
	_, err = env.hearings.ScheduleHearing(adminCtx, &models.Hearing{CaseID: open.ID, HearingDate: testNow.Add(time.Hour), Location: "Hall"})
	require.NoError(t, err)

	d, err := env.cases.Dashboard(clerkCtx, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, d.ActiveCases)
	assert.Equal(t, 1, d.ByStatus[blotter.StatusPending])
	assert.Equal(t, 1, d.ByStatus[blotter.StatusResolved])
	assert.Len(t, d.UpcomingHearings, 1)
	assert.Equal(t, 1, d.UnreadNotifications, "the resolution notified the filer")
}

func TestWatchCases_RefreshesAfterCommit(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "clerk", access.RoleClerk)
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := env.cases.WatchCases(watchCtx, models.CaseFilters{})
	select {
	case initial := <-updates:
		assert.Empty(t, initial)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot")
	}

	env.fileCase(t, ctx, "2026-030")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snapshot := <-updates:
			if len(snapshot) == 1 {
				assert.Equal(t, "2026-030", snapshot[0].CaseNumber)
				return
			}
		case <-deadline:
			t.Fatal("watch did not refresh after the filing committed")
		}
	}
}

func TestRejectionsAreCounted(t *testing.T) {
	env := newTestEnv(t)
	clerkCtx := env.actor(t, "clerk", access.RoleClerk)
	c := env.fileCase(t, clerkCtx, "2026-040")

	_, err := env.cases.ChangeStatus(clerkCtx, primary.ChangeStatusRequest{CaseID: c.ID, Target: blotter.StatusUnderInvestigation})
	require.Error(t, err)

	samples, err := env.metrics.Counters()
	require.NoError(t, err)
	var rejected float64
	for _, s := range samples {
		if s.Name == "blotter_transitions_rejected_total" {
			rejected += s.Value
		}
	}
	assert.Equal(t, float64(1), rejected)
}
