package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/db"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
)

func TestBootstrap_IsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inserted, err := env.bootstrap.EnsureDefaultStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(db.DefaultStatuses()), inserted)

	inserted, err = env.bootstrap.EnsureDefaultStatuses(ctx)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	statuses, err := env.bootstrap.ListStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, len(db.DefaultStatuses()))
	assert.Equal(t, string(blotter.StatusPending), statuses[0].Name)

	first, err := env.bootstrap.EnsureAdminAccount(ctx)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "admin", first.Username)
	require.NotEmpty(t, first.GeneratedPassword)

	admin, err := env.store.Users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, access.RoleAdmin, admin.Role)
	assert.True(t, admin.MustChangePassword, "a generated password must be changed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(first.GeneratedPassword)))

	second, err := env.bootstrap.EnsureAdminAccount(ctx)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Empty(t, second.GeneratedPassword)
	assert.Equal(t, 1, env.count(t, "users", "role = ?", string(access.RoleAdmin)))
}

func TestBootstrap_ConfiguredPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := NewBootstrapService(env.bootstrap.rt, env.store.Statuses, env.store.Users, AdminSeed{
		Username: "kapitan", Password: "s3cret-pass", Cost: bcrypt.MinCost,
	})

	res, err := svc.EnsureAdminAccount(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Empty(t, res.GeneratedPassword)

	admin, err := env.store.Users.GetByUsername(context.Background(), "kapitan")
	require.NoError(t, err)
	assert.False(t, admin.MustChangePassword)
}

func TestPersons_DeduplicateByKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := &models.Person{FirstName: "Juan", LastName: "Dela Cruz", ContactNumber: "09171234567"}

	first, created, err := env.persons.ResolvePerson(ctx, key)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := env.persons.ResolvePerson(ctx, &models.Person{FirstName: " Juan", LastName: "Dela Cruz ", ContactNumber: "09171234567"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, env.count(t, "persons", ""))

	other, created, err := env.persons.ResolvePerson(ctx, &models.Person{FirstName: "Juan", LastName: "Dela Cruz", ContactNumber: "09990000000"})
	require.NoError(t, err)
	assert.True(t, created, "a different contact number is a different person")
	assert.NotEqual(t, first.ID, other.ID)

	_, err = env.persons.SearchPersons(ctx, "  ", 10)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestOfficers_DeleteRefusedWhileAssigned(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.actor(t, "admin", access.RoleAdmin)
	o, err := env.officers.CreateOfficer(ctx, &models.Officer{Name: "PO1 Reyes", BadgeNumber: " PNP-7 ", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "PNP-7", o.BadgeNumber)

	c := env.fileCase(t, ctx, "2026-200")
	_, err = env.cases.AssignOfficers(ctx, c.ID, []int64{o.ID})
	require.NoError(t, err)

	err = env.officers.DeleteOfficer(ctx, o.ID)
	assert.True(t, errs.IsKind(err, errs.KindConflict), "got %v", err)

	_, err = env.cases.CreateResolution(ctx, primary.CreateResolutionRequest{CaseID: c.ID, ResolutionType: "Settled"})
	require.NoError(t, err)
	require.NoError(t, env.officers.DeleteOfficer(ctx, o.ID), "resolved cases no longer hold the officer")

	_, err = env.officers.CreateOfficer(ctx, &models.Officer{Name: "No Badge"})
	assert.True(t, errs.IsKind(err, errs.KindValidation), "got %v", err)
}

func TestTemplates_ImportCreatesAndUpdatesByName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.templates.CreateTemplate(ctx, &models.CaseTemplate{Name: "Noise", IncidentType: "Noise", NarrativeTemplate: "old", DefaultPriority: models.PriorityNormal})
	require.NoError(t, err)

	doc := `
templates:
  - name: Noise
    incidentType: Noise Complaint
    narrative: Loud music reported after 10 PM
    priority: low
  - name: Theft
    incidentType: Theft
    narrative: Item reported missing
`
	res, err := env.templates.ImportTemplates(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)

	list, err := env.templates.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	byName := map[string]*models.CaseTemplate{}
	for _, tmpl := range list {
		byName[tmpl.Name] = tmpl
	}
	assert.Equal(t, "Loud music reported after 10 PM", byName["Noise"].NarrativeTemplate)
	assert.Equal(t, models.PriorityLow, byName["Noise"].DefaultPriority)
	assert.Equal(t, models.PriorityNormal, byName["Theft"].DefaultPriority)
}

func TestTemplates_ImportIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	doc := `
templates:
  - name: Good
    incidentType: Theft
    narrative: fine
  - name: Bad
    incidentType: Theft
    narrative: fine
    priority: whenever
`
	_, err := env.templates.ImportTemplates(context.Background(), strings.NewReader(doc))
	assert.True(t, errs.IsKind(err, errs.KindValidation), "got %v", err)
	assert.Zero(t, env.count(t, "case_templates", ""))

	res, err := env.templates.ImportTemplates(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, res.Created)
}

func TestNotifications_SmsQueue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.notifications.QueueSms(ctx, &models.SmsNotification{Message: "no number"})
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	msg, err := env.notifications.QueueSms(ctx, &models.SmsNotification{RecipientNumber: "0917", Message: "Hearing tomorrow", DeliveryStatus: models.SmsSent})
	require.NoError(t, err)
	assert.Equal(t, models.SmsPending, msg.DeliveryStatus)

	pending, err := env.notifications.ListPendingSms(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, env.notifications.MarkSmsSent(ctx, msg.ID, time.Time{}))
	require.NoError(t, env.notifications.RecordSmsReply(ctx, msg.ID, "OK po", time.Time{}))

	pending, err = env.notifications.ListPendingSms(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSyncPull_UpsertsAndDetachesUnknownFilers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	unknownUser := int64(404)
	env.peer.officers = []*models.Officer{{ID: 5, Name: "PO3 Cruz", BadgeNumber: "PNP-5", UserID: &unknownUser, IsActive: true}}
	env.peer.persons = []*models.Person{{ID: 8, FirstName: "Lorna", LastName: "Diaz"}}
	env.peer.cases = []*models.Case{{
		ID: 30, CaseNumber: "2025-030", IncidentType: "Theft", Narrative: "Bicycle", IncidentLocation: "Plaza",
		ComplainantName: "Lorna Diaz", DateFiled: testNow.Add(-30 * 24 * time.Hour), FiledByUserID: &unknownUser,
		AssignedOfficerIDs: []int64{5},
	}}
	personID := int64(8)
	env.peer.respondents = []*models.Respondent{{ID: 40, CaseID: 30, PersonID: &personID, Accusation: "Took the bicycle"}}
	env.peer.hearings = []*models.Hearing{{ID: 50, CaseID: 30, HearingDate: testNow.Add(24 * time.Hour), Location: "Hall"}}
	env.peer.summons = []*models.Summons{{ID: 60, CaseID: 30, RespondentID: 40, SummonsNumber: "SUM-2025-030-01", IssuedDate: testNow, AppearanceDate: testNow.Add(24 * time.Hour)}}

	report, err := env.sync.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, primary.SyncReport{Cases: 1, Persons: 1, Officers: 1, Respondents: 1, Hearings: 1, Summons: 1, DetachedFilers: 1}, *report)

	c, err := env.store.Cases.GetByID(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, blotter.StatusPending, c.Status)
	assert.Nil(t, c.FiledByUserID)
	assert.Equal(t, []int64{5}, c.AssignedOfficerIDs)

	// A second pull updates in place.
	env.peer.cases[0].Narrative = "Bicycle, recovered"
	_, err = env.sync.Pull(ctx)
	require.NoError(t, err)
	c, err = env.store.Cases.GetByID(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, "Bicycle, recovered", c.Narrative)
	assert.Equal(t, 1, env.count(t, "blotter_reports", ""))

	exported, err := env.sync.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, exported.Cases, 1)
	assert.Len(t, exported.Persons, 1)
	assert.Len(t, exported.Officers, 1)
	assert.Len(t, exported.Respondents, 1)
	assert.Len(t, exported.Hearings, 1)
	assert.Len(t, exported.Summons, 1)
}

func TestSyncPull_WritesNothingOnBadRecordsOrFetchFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.peer.persons = []*models.Person{{ID: 1, FirstName: "Ok", LastName: "Person"}}
	env.peer.cases = []*models.Case{{ID: 2, CaseNumber: "2025-002", IncidentType: "x", IncidentLocation: "x", ComplainantName: "x"}}

	_, err := env.sync.Pull(ctx)
	assert.True(t, errs.IsKind(err, errs.KindValidation), "a case without narrative is rejected: %v", err)
	assert.Zero(t, env.count(t, "persons", ""))

	env.peer.fetchErr = errPeerDown
	_, err = env.sync.Pull(ctx)
	require.ErrorIs(t, err, errPeerDown)
}
