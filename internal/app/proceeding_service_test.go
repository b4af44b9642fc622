package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/core/hearing"
	"github.com/example/blotter/internal/core/kpform"
	"github.com/example/blotter/internal/core/mediation"
	"github.com/example/blotter/internal/core/respondent"
	"github.com/example/blotter/internal/core/summons"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
)

func TestRespondent_AppearanceThenStatement(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "officer", access.RoleOfficer)
	c := env.fileCase(t, ctx, "2026-101")

	r, err := env.respondents.AddRespondent(ctx, primary.AddRespondentRequest{
		CaseID: c.ID, Accusation: "Unpaid debt",
		Person: &primary.PersonRef{FirstName: "Juan", LastName: "Dela Cruz", ContactNumber: "09171234567"},
	})
	require.NoError(t, err)
	assert.Equal(t, respondent.StatusNotified, r.CooperationStatus)
	require.NotNil(t, r.PersonID)

	appearedAt := time.Date(2026, 3, 16, 14, 0, 0, 0, time.UTC)
	appeared, err := env.respondents.MarkAsAppeared(ctx, r.ID, appearedAt)
	require.NoError(t, err)
	assert.Equal(t, respondent.StatusAppeared, appeared.CooperationStatus)
	require.NotNil(t, appeared.AppearanceDate)
	assert.True(t, appearedAt.Equal(*appeared.AppearanceDate))

	stored, err := env.respondents.GetRespondent(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AppearanceDate)
	assert.True(t, appearedAt.Equal(*stored.AppearanceDate))

	stmt, err := env.respondents.RecordStatement(ctx, primary.RecordStatementRequest{
		RespondentID: r.ID, Statement: "I will pay next month", SubmittedVia: "In person",
	})
	require.NoError(t, err)
	assert.Equal(t, c.ID, stmt.CaseID)

	stored, err = env.respondents.GetRespondent(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, respondent.StatusStatementRecorded, stored.CooperationStatus)
	require.NotNil(t, stored.StatementDate)

	_, err = env.respondents.MarkNoResponse(ctx, r.ID)
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "statement recorded is terminal: %v", err)

	_, err = env.respondents.RecordStatement(ctx, primary.RecordStatementRequest{RespondentID: r.ID, Statement: "second thoughts"})
	assert.True(t, errs.IsTerminal(err), "one statement per respondent: %v", err)
	assert.Equal(t, 1, env.count(t, "respondent_statements", "respondentId = ?", r.ID))

	history, err := env.persons.History(ctx, *r.PersonID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, c.ID, history[0].CaseID)
}

func TestRespondent_StatementNeedsAppearance(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "officer", access.RoleOfficer)
	c := env.fileCase(t, ctx, "2026-102")
	r, err := env.respondents.AddRespondent(ctx, primary.AddRespondentRequest{CaseID: c.ID, Accusation: "Trespass"})
	require.NoError(t, err)

	_, err = env.respondents.RecordStatement(ctx, primary.RecordStatementRequest{RespondentID: r.ID, Statement: "text"})
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "got %v", err)
	assert.Zero(t, env.count(t, "respondent_statements", ""), "a refused statement is not stored")

	noShow, err := env.respondents.MarkNoResponse(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, respondent.StatusNoResponse, noShow.CooperationStatus)

	// No Response can still turn into an appearance.
	_, err = env.respondents.MarkAsAppeared(ctx, r.ID, time.Time{})
	require.NoError(t, err)

	_, err = env.respondents.UpdateRespondent(ctx, &models.Respondent{ID: r.ID, Accusation: "Trespass", CooperationStatus: respondent.StatusNotified})
	assert.True(t, errs.IsKind(err, errs.KindValidation), "status is not editable: %v", err)
}

func TestStatement_VerifiedStatementsAreFrozen(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "officer", access.RoleOfficer)
	c := env.fileCase(t, ctx, "2026-103")
	r, err := env.respondents.AddRespondent(ctx, primary.AddRespondentRequest{CaseID: c.ID, Accusation: "Trespass"})
	require.NoError(t, err)
	_, err = env.respondents.MarkAsAppeared(ctx, r.ID, testNow)
	require.NoError(t, err)
	stmt, err := env.respondents.RecordStatement(ctx, primary.RecordStatementRequest{RespondentID: r.ID, Statement: "original"})
	require.NoError(t, err)

	verified, err := env.respondents.VerifyStatement(ctx, stmt.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "officer", verified.VerifiedBy)
	require.NotNil(t, verified.VerifiedAt)

	_, err = env.respondents.VerifyStatement(ctx, stmt.ID, "someone")
	assert.Error(t, err)

	edit := *verified
	edit.Statement = "rewritten"
	_, err = env.respondents.EditStatement(ctx, &edit)
	assert.Error(t, err, "verified statement text is frozen")

	notes := *verified
	notes.OfficerNotes = "follow up"
	updated, err := env.respondents.EditStatement(ctx, &notes)
	require.NoError(t, err)
	assert.Equal(t, "follow up", updated.OfficerNotes)
	assert.Equal(t, "original", updated.Statement)
}

func TestSummons_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "officer", access.RoleOfficer)
	c := env.fileCase(t, ctx, "2026-104")
	r, err := env.respondents.AddRespondent(ctx, primary.AddRespondentRequest{CaseID: c.ID, Accusation: "Noise"})
	require.NoError(t, err)

	sm, err := env.summons.IssueSummons(ctx, primary.IssueSummonsRequest{
		RespondentID: r.ID, AppearanceDate: testNow.Add(72 * time.Hour), DeliveryMethod: "Personal", NotifyNumber: "09181112222",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUM-2026-104-01", sm.SummonsNumber)
	assert.Equal(t, summons.DeliveryPending, sm.DeliveryStatus)

	queued, err := env.notifications.ListSmsForCase(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Contains(t, queued[0].Message, "SUM-2026-104-01")

	second, err := env.summons.IssueSummons(ctx, primary.IssueSummonsRequest{RespondentID: r.ID, AppearanceDate: testNow.Add(96 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "SUM-2026-104-02", second.SummonsNumber)

	_, err = env.summons.RecordCompliance(ctx, sm.ID, testNow, "")
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "compliance needs delivery: %v", err)

	failed, err := env.summons.MarkFailed(ctx, sm.ID, "address not found")
	require.NoError(t, err)
	assert.Equal(t, summons.DeliveryFailed, failed.DeliveryStatus)

	reissued, err := env.summons.Reissue(ctx, sm.ID)
	require.NoError(t, err)
	assert.Equal(t, summons.DeliveryPending, reissued.DeliveryStatus)

	deliveredAt := testNow.Add(-48 * time.Hour)
	delivered, err := env.summons.MarkDelivered(ctx, sm.ID, deliveredAt, "")
	require.NoError(t, err)
	assert.Equal(t, "Personal", delivered.DeliveryMethod, "blank method keeps the one given at issue")
	require.NotNil(t, delivered.DeliveredDate)

	uncomplied, err := env.summons.ListUncomplied(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, uncomplied, 1)
	assert.Equal(t, sm.ID, uncomplied[0].ID)

	complied, err := env.summons.RecordCompliance(ctx, sm.ID, testNow, "appeared at hall")
	require.NoError(t, err)
	assert.True(t, complied.Complied)
	assert.Equal(t, "appeared at hall", complied.ComplianceNotes)

	_, err = env.summons.MarkFailed(ctx, sm.ID, "")
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "complied is terminal: %v", err)

	uncomplied, err = env.summons.ListUncomplied(ctx, testNow)
	require.NoError(t, err)
	assert.Empty(t, uncomplied)
	assert.Equal(t, 1, env.count(t, "case_timeline", "blotterReportId = ? AND eventType = ?", c.ID, effects.EventSummonsComplied))
}

func TestHearing_CompleteAndCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "officer", access.RoleOfficer)
	c := env.fileCase(t, ctx, "2026-105")

	first, err := env.hearings.ScheduleHearing(ctx, &models.Hearing{CaseID: c.ID, HearingDate: testNow.Add(24 * time.Hour), Location: "Barangay Hall", Purpose: "Confrontation"})
	require.NoError(t, err)
	assert.Equal(t, hearing.StatusScheduled, first.Status)
	second, err := env.hearings.ScheduleHearing(ctx, &models.Hearing{CaseID: c.ID, HearingDate: testNow.Add(48 * time.Hour), Location: "Barangay Hall"})
	require.NoError(t, err)

	done, err := env.hearings.CompleteHearing(ctx, first.ID, "both parties present")
	require.NoError(t, err)
	assert.Equal(t, hearing.StatusCompleted, done.Status)
	assert.Equal(t, "both parties present", done.Notes)

	cancelled, err := env.hearings.CancelHearing(ctx, second.ID, "")
	require.NoError(t, err)
	assert.Equal(t, hearing.StatusCancelled, cancelled.Status)

	_, err = env.hearings.CompleteHearing(ctx, second.ID, "")
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "got %v", err)

	again, err := env.hearings.CompleteHearing(ctx, first.ID, "late notes")
	require.NoError(t, err, "completing a completed hearing is a no-op")
	assert.Equal(t, hearing.StatusCompleted, again.Status)
	assert.Equal(t, "both parties present", again.Notes)
	assert.Equal(t, 1, env.count(t, "case_timeline", "eventType = ?", effects.EventHearingCompleted))

	upcoming, err := env.hearings.ListUpcoming(ctx, time.Time{}, 0)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}

func TestMediation_FollowUps(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "officer", access.RoleOfficer)

	tests := []struct {
		name       string
		number     string
		outcome    mediation.Outcome
		wantStatus blotter.Status
	}{
		{"successful settles the case", "2026-110", mediation.OutcomeSuccessful, blotter.StatusSettled},
		{"failed sends the case to lupon", "2026-111", mediation.OutcomeFailed, blotter.StatusForLupon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := env.fileCase(t, ctx, tt.number)
			_, err := env.cases.ChangeStatus(ctx, primary.ChangeStatusRequest{CaseID: c.ID, Target: blotter.StatusForMediation})
			require.NoError(t, err)

			session, err := env.mediations.ScheduleSession(ctx, &models.MediationSession{CaseID: c.ID, SessionDate: testNow.Add(24 * time.Hour), MediatorName: "Kagawad Ramos"})
			require.NoError(t, err)
			assert.Equal(t, mediation.OutcomeScheduled, session.Outcome)

			got, err := env.cases.GetCase(ctx, c.ID)
			require.NoError(t, err)
			assert.Equal(t, blotter.StatusMediationOngoing, got.Status)

			_, err = env.mediations.RecordOutcome(ctx, primary.RecordOutcomeRequest{SessionID: session.ID, Outcome: tt.outcome, SettlementTerms: "terms"})
			require.NoError(t, err)

			got, err = env.cases.GetCase(ctx, c.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)

			_, err = env.mediations.RecordOutcome(ctx, primary.RecordOutcomeRequest{SessionID: session.ID, Outcome: mediation.OutcomeRescheduled, NewDate: &testNow})
			assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "closed sessions are final: %v", err)

			same, err := env.mediations.RecordOutcome(ctx, primary.RecordOutcomeRequest{SessionID: session.ID, Outcome: tt.outcome, SettlementTerms: "other terms"})
			require.NoError(t, err, "repeating the recorded outcome is a no-op")
			assert.Equal(t, "terms", same.SettlementTerms)
			assert.Equal(t, 1, env.count(t, "case_timeline", "blotterReportId = ? AND eventType = ?", c.ID, effects.EventMediationOutcome))
		})
	}
}

func TestMediation_RescheduleNeedsDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "officer", access.RoleOfficer)
	c := env.fileCase(t, ctx, "2026-112")
	session, err := env.mediations.ScheduleSession(ctx, &models.MediationSession{CaseID: c.ID, SessionDate: testNow})
	require.NoError(t, err)

	_, err = env.mediations.RecordOutcome(ctx, primary.RecordOutcomeRequest{SessionID: session.ID, Outcome: mediation.OutcomeRescheduled})
	assert.True(t, errs.IsKind(err, errs.KindValidation), "got %v", err)

	later := testNow.Add(7 * 24 * time.Hour)
	moved, err := env.mediations.RecordOutcome(ctx, primary.RecordOutcomeRequest{SessionID: session.ID, Outcome: mediation.OutcomeRescheduled, NewDate: &later})
	require.NoError(t, err)
	assert.True(t, later.Equal(moved.SessionDate))

	got, err := env.cases.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, blotter.StatusPending, got.Status, "scheduling outside For Mediation leaves the case alone")
}

func TestKPForm_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "officer", access.RoleOfficer)
	c := env.fileCase(t, ctx, "2026-120")

	f, err := env.kpforms.CreateForm(ctx, &models.KPForm{CaseID: c.ID, FormType: "KP-7", Status: kpform.StatusFiled})
	require.NoError(t, err)
	assert.Equal(t, kpform.StatusDraft, f.Status, "forms always start as drafts")
	assert.Contains(t, f.DocumentRef, "kp/2026-120/")
	assert.Equal(t, "KP-7 for case 2026-120", f.Title)

	issued, err := env.kpforms.TransitionForm(ctx, f.ID, kpform.StatusIssued)
	require.NoError(t, err)
	require.NotNil(t, issued.IssuedDate)
	assert.True(t, testNow.Equal(*issued.IssuedDate))

	filed, err := env.kpforms.TransitionForm(ctx, f.ID, kpform.StatusFiled)
	require.NoError(t, err)
	assert.Equal(t, kpform.StatusFiled, filed.Status)

	_, err = env.kpforms.TransitionForm(ctx, f.ID, kpform.StatusCancelled)
	assert.True(t, errs.IsKind(err, errs.KindIllegalTransition), "got %v", err)
}

func TestParties_LinkThroughPersonDirectory(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "officer", access.RoleOfficer)
	c := env.fileCase(t, ctx, "2026-130")

	suspect, err := env.parties.AddSuspect(ctx, &models.Suspect{CaseID: c.ID, FirstName: "Pedro", LastName: "Santos"},
		&primary.PersonRef{FirstName: "Pedro", LastName: "Santos", ContactNumber: "0918"})
	require.NoError(t, err)
	require.NotNil(t, suspect.PersonID)

	_, err = env.parties.AddEvidence(ctx, &models.Evidence{CaseID: c.ID, EvidenceType: "Photo", Description: "Broken gate", MediaRefs: []string{"img-1", "img-2"}})
	require.NoError(t, err)
	items, err := env.parties.ListEvidence(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"img-1", "img-2"}, items[0].MediaRefs)

	cases, err := env.persons.CasesForPerson(ctx, *suspect.PersonID)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, c.ID, cases[0].ID)
}
