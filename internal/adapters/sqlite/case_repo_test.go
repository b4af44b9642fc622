package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/db"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
)

func TestCaseRepository_CreateDefaultsAndRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	filer := seedUser(t, s, "clerk", access.RoleClerk)
	officer := seedOfficer(t, s, "PNP-1", nil)
	incident := time.Date(2024, 2, 1, 22, 15, 0, 0, time.UTC)

	c := &models.Case{
		CaseNumber:         "2024-001",
		IncidentType:       "Disturbance",
		Narrative:          "Noise complaint",
		IncidentLocation:   "Purok 5",
		IncidentDate:       incident,
		ComplainantName:    "Maria Santos",
		ComplainantContact: "09170000000",
		FiledByUserID:      &filer,
		AssignedOfficerIDs: []int64{officer},
	}
	require.NoError(t, s.Cases.Create(ctx, c))
	assert.Greater(t, c.ID, int64(0))
	assert.Equal(t, blotter.StatusPending, c.Status)
	assert.Equal(t, models.PriorityNormal, c.Priority)

	got, err := s.Cases.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-001", got.CaseNumber)
	assert.Equal(t, "Noise complaint", got.Narrative)
	assert.Equal(t, blotter.StatusPending, got.Status)
	assert.True(t, incident.Equal(got.IncidentDate), "incident date %v", got.IncidentDate)
	assert.True(t, testNow.Equal(got.DateFiled))
	require.NotNil(t, got.FiledByUserID)
	assert.Equal(t, filer, *got.FiledByUserID)
	assert.Equal(t, []int64{officer}, got.AssignedOfficerIDs)
	assert.False(t, got.IsArchived)

	byNumber, err := s.Cases.GetByCaseNumber(ctx, "2024-001")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byNumber.ID)
}

func TestCaseRepository_GeneratedNumbers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := seedCase(t, s, "")
	second := seedCase(t, s, "")
	assert.Equal(t, "2026-001", first.CaseNumber)
	assert.Equal(t, "2026-002", second.CaseNumber)

	seedCase(t, s, "2026-041")
	next, err := s.Cases.NextCaseNumber(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, "2026-042", next)

	next, err = s.Cases.NextCaseNumber(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-001", next)
}

func TestCaseRepository_DuplicateNumberIsConflict(t *testing.T) {
	s := newTestStore(t)
	seedCase(t, s, "2026-007")

	dup := &models.Case{CaseNumber: "2026-007", IncidentType: "x", Narrative: "x", IncidentLocation: "x", ComplainantName: "x"}
	err := s.Cases.Create(context.Background(), dup)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindConflict), "got %v", err)
}

func TestCaseRepository_MissingRowsAreNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Cases.GetByID(ctx, 404)
	assert.True(t, errs.IsKind(err, errs.KindNotFound))

	_, err = s.Cases.GetByCaseNumber(ctx, "1999-001")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))

	err = s.Cases.Update(ctx, &models.Case{ID: 404, CaseNumber: "2026-404", IncidentType: "x", Narrative: "x", IncidentLocation: "x", ComplainantName: "x"})
	assert.True(t, errs.IsKind(err, errs.KindNotFound), "update: %v", err)

	err = s.Cases.UpdateStatus(ctx, 404, blotter.StatusClosed, false)
	assert.True(t, errs.IsKind(err, errs.KindNotFound), "update status: %v", err)

	err = s.Cases.Delete(ctx, 404)
	assert.True(t, errs.IsKind(err, errs.KindNotFound), "delete: %v", err)
}

func TestCaseRepository_UpdateIsFullReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCase(t, s, "2026-010")

	c.Narrative = "Rewritten narrative"
	c.ComplainantContact = ""
	c.Priority = models.PriorityUrgent
	require.NoError(t, s.Cases.Update(ctx, c))

	got, err := s.Cases.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rewritten narrative", got.Narrative)
	assert.Equal(t, models.PriorityUrgent, got.Priority)
	assert.Empty(t, got.ComplainantContact)
}

func TestCaseRepository_ListFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	officer := seedOfficer(t, s, "PNP-9", nil)

	pending := seedCase(t, s, "2026-001")
	assigned := seedCase(t, s, "2026-002")
	assigned.AssignedOfficerIDs = []int64{officer}
	require.NoError(t, s.Cases.Update(ctx, assigned))
	archived := seedCase(t, s, "2026-003")
	require.NoError(t, s.Cases.UpdateStatus(ctx, archived.ID, blotter.StatusArchived, true))

	all, err := s.Cases.List(ctx, models.CaseFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2, "archived cases are hidden by default")

	withArchived, err := s.Cases.List(ctx, models.CaseFilters{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, withArchived, 3)

	byOfficer, err := s.Cases.List(ctx, models.CaseFilters{OfficerID: officer})
	require.NoError(t, err)
	require.Len(t, byOfficer, 1)
	assert.Equal(t, assigned.ID, byOfficer[0].ID)

	byStatus, err := s.Cases.List(ctx, models.CaseFilters{Status: blotter.StatusPending})
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)
	_ = pending

	counts, err := s.Cases.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[blotter.StatusPending])
	assert.Zero(t, counts[blotter.StatusArchived], "archived cases are not counted")
}

func TestCaseRepository_Search(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCase(t, s, "2026-015")
	c.Narrative = "Stolen carabao from the rice field"
	require.NoError(t, s.Cases.Update(ctx, c))
	seedCase(t, s, "2026-016")

	hits, err := s.Cases.Search(ctx, "carabao", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, c.ID, hits[0].ID)

	hits, err = s.Cases.Search(ctx, "2026-01", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestCaseRepository_DeleteLeavesNoDependents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, s, "officer", access.RoleOfficer)
	c := seedCase(t, s, "2026-020")
	other := seedCase(t, s, "2026-021")
	person := seedPerson(t, s, "Pedro", "Santos", "0918")
	r := seedRespondent(t, s, c.ID, &person.ID)

	require.NoError(t, s.Statements.Create(ctx, &models.RespondentStatement{RespondentID: r.ID, CaseID: c.ID, Statement: "I was home", SubmittedAt: testNow}))
	require.NoError(t, s.Summons.Create(ctx, &models.Summons{CaseID: c.ID, RespondentID: r.ID, SummonsNumber: "S-2026-020-01", AppearanceDate: testNow.Add(48 * time.Hour)}))
	require.NoError(t, s.Suspects.Create(ctx, &models.Suspect{CaseID: c.ID, Alias: "Boy"}))
	require.NoError(t, s.Witnesses.Create(ctx, &models.Witness{CaseID: c.ID, FirstName: "Rosa", LastName: "Cruz"}))
	require.NoError(t, s.Evidence.Create(ctx, &models.Evidence{CaseID: c.ID, EvidenceType: "Photo", Description: "Fence", MediaRefs: []string{"img-1"}}))
	require.NoError(t, s.Hearings.Create(ctx, &models.Hearing{CaseID: c.ID, HearingDate: testNow.Add(72 * time.Hour), Location: "Hall"}))
	require.NoError(t, s.Resolutions.Create(ctx, &models.Resolution{CaseID: c.ID, ResolutionType: "Settled", ResolvedBy: "x", ResolvedDate: testNow}))
	require.NoError(t, s.Audit.AppendTimeline(ctx, &models.CaseTimeline{CaseID: c.ID, EventType: "CASE_CREATED", Title: "Filed"}))
	require.NoError(t, s.Audit.AppendActivity(ctx, &models.ActivityLog{CaseID: &c.ID, Action: "CASE_CREATED"}))
	require.NoError(t, s.Audit.AppendPersonHistory(ctx, &models.PersonHistory{PersonID: person.ID, CaseID: c.ID, Role: "Respondent"}))
	require.NoError(t, s.Notifications.Create(ctx, &models.Notification{UserID: user, CaseID: &c.ID, Title: "t"}))
	require.NoError(t, s.Sms.Create(ctx, &models.SmsNotification{CaseID: &c.ID, RecipientNumber: "0918", Message: "m"}))
	require.NoError(t, s.Mediations.Create(ctx, &models.MediationSession{CaseID: c.ID, SessionDate: testNow}))
	require.NoError(t, s.KPForms.Create(ctx, &models.KPForm{CaseID: c.ID, FormType: "KP-7"}))

	// One dependent on a second case must survive.
	require.NoError(t, s.Audit.AppendTimeline(ctx, &models.CaseTimeline{CaseID: other.ID, EventType: "CASE_CREATED", Title: "Filed"}))

	require.NoError(t, s.Cases.Delete(ctx, c.ID))

	for _, table := range db.CaseTables() {
		assert.Zero(t, s.count(t, table, "blotterReportId = ?", c.ID), "rows left in %s", table)
	}
	assert.Equal(t, 1, s.count(t, "case_timeline", "blotterReportId = ?", other.ID))
	assert.Equal(t, 1, s.count(t, "persons", ""), "persons are not owned by cases")
	_, err := s.Cases.GetByID(ctx, c.ID)
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestCaseRepository_UpsertKeepsPeerID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	peer := &models.Case{ID: 77, CaseNumber: "2025-100", IncidentType: "Theft", Narrative: "Bike", IncidentLocation: "Plaza", ComplainantName: "Ana", DateFiled: testNow}
	require.NoError(t, s.Cases.Upsert(ctx, peer))

	peer.Narrative = "Bike, recovered"
	peer.Status = blotter.StatusUnderInvestigation
	require.NoError(t, s.Cases.Upsert(ctx, peer))

	got, err := s.Cases.GetByID(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, "Bike, recovered", got.Narrative)
	assert.Equal(t, blotter.StatusUnderInvestigation, got.Status)
	assert.Equal(t, 1, s.count(t, "blotter_reports", ""))
}

func TestCaseRepository_RejectsUnknownStatusAtStore(t *testing.T) {
	s := newTestStore(t)
	c := seedCase(t, s, "2026-030")

	err := s.Cases.UpdateStatus(context.Background(), c.ID, blotter.Status("Lost"), false)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindValidation), "got %v", err)
}
