package app

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/blotter/internal/adapters/sqlite"
	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/ctxutil"
	"github.com/example/blotter/internal/db"
	"github.com/example/blotter/internal/live"
	"github.com/example/blotter/internal/logger"
	"github.com/example/blotter/internal/metrics"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// testEnv wires every service over a private in-memory store.
type testEnv struct {
	db      *sql.DB
	store   *sqlite.Store
	hub     *live.Hub
	metrics *metrics.Metrics
	peer    *mockPeerStore

	cases         *CaseServiceImpl
	persons       *PersonServiceImpl
	parties       *PartyServiceImpl
	respondents   *RespondentServiceImpl
	summons       *SummonsServiceImpl
	hearings      *HearingServiceImpl
	mediations    *MediationServiceImpl
	kpforms       *KPFormServiceImpl
	officers      *OfficerServiceImpl
	notifications *NotificationServiceImpl
	templates     *TemplateServiceImpl
	bootstrap     *BootstrapServiceImpl
	sync          *SyncServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database, err := db.Open(context.Background(), db.Options{Path: db.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	log := logger.Nop()
	hub := live.NewHub(log)
	m := metrics.New()
	clock := func() time.Time { return testNow }
	store := sqlite.NewStore(database, sqlite.Options{Clock: clock, Publisher: hub, Logger: log, Metrics: m})

	rt := Runtime{
		Tx:      store.Tx,
		Exec:    NewEffectExecutor(store.Audit, store.Notifications, store.Sms, log, m),
		Clock:   clock,
		Log:     log,
		Metrics: m,
	}
	peer := newMockPeerStore()
	return &testEnv{
		db:      database,
		store:   store,
		hub:     hub,
		metrics: m,
		peer:    peer,
		cases: NewCaseService(rt, CaseRepos{
			Cases:         store.Cases,
			Officers:      store.Officers,
			Resolutions:   store.Resolutions,
			Templates:     store.Templates,
			Respondents:   store.Respondents,
			Summons:       store.Summons,
			Hearings:      store.Hearings,
			Notifications: store.Notifications,
			Audit:         store.Audit,
		}, hub),
		persons:       NewPersonService(rt, store.Persons, store.Cases, store.Audit),
		parties:       NewPartyService(rt, store.Cases, store.Persons, store.Suspects, store.Witnesses, store.Evidence),
		respondents:   NewRespondentService(rt, store.Cases, store.Persons, store.Respondents, store.Statements),
		summons:       NewSummonsService(rt, store.Cases, store.Persons, store.Respondents, store.Summons),
		hearings:      NewHearingService(rt, store.Cases, store.Hearings),
		mediations:    NewMediationService(rt, store.Cases, store.Mediations),
		kpforms:       NewKPFormService(rt, store.Cases, store.KPForms),
		officers:      NewOfficerService(rt, store.Officers, store.Cases),
		notifications: NewNotificationService(rt, store.Notifications, store.Sms),
		templates:     NewTemplateService(rt, store.Templates),
		bootstrap:     NewBootstrapService(rt, store.Statuses, store.Users, AdminSeed{Cost: bcrypt.MinCost}),
		sync: NewSyncService(rt, peer, SyncRepos{
			Cases:       store.Cases,
			Persons:     store.Persons,
			Officers:    store.Officers,
			Respondents: store.Respondents,
			Hearings:    store.Hearings,
			Summons:     store.Summons,
			Users:       store.Users,
		}),
	}
}

// actor creates a user with the role and returns a context acting as that user.
func (e *testEnv) actor(t *testing.T, username string, role access.Role) context.Context {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x", FirstName: username, LastName: "Test", Role: role, IsActive: true}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return ctxutil.WithActor(context.Background(), ctxutil.Actor{Name: username, UserID: &u.ID, Role: role})
}

func (e *testEnv) fileCase(t *testing.T, ctx context.Context, number string) *models.Case {
	t.Helper()
	c, err := e.cases.FileCase(ctx, primary.FileCaseRequest{
		CaseNumber:       number,
		IncidentType:     "Noise Complaint",
		Narrative:        "Noise complaint",
		IncidentLocation: "Purok 2",
		IncidentDate:     testNow.Add(-24 * time.Hour),
		ComplainantName:  "Maria Santos",
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) count(t *testing.T, table, where string, args ...any) int {
	t.Helper()
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	require.NoError(t, e.db.QueryRow(query, args...).Scan(&n))
	return n
}

// Ensure mockPeerStore implements the interface
var _ secondary.PeerStore = (*mockPeerStore)(nil)

// mockPeerStore implements secondary.PeerStore for testing.
type mockPeerStore struct {
	cases       []*models.Case
	persons     []*models.Person
	officers    []*models.Officer
	respondents []*models.Respondent
	hearings    []*models.Hearing
	summons     []*models.Summons
	fetchErr    error
}

func newMockPeerStore() *mockPeerStore {
	return &mockPeerStore{}
}

var errPeerDown = errors.New("peer unreachable")

func (m *mockPeerStore) FetchCases(ctx context.Context) ([]*models.Case, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.cases, nil
}

func (m *mockPeerStore) FetchPersons(ctx context.Context) ([]*models.Person, error) {
	return m.persons, nil
}

func (m *mockPeerStore) FetchOfficers(ctx context.Context) ([]*models.Officer, error) {
	return m.officers, nil
}

func (m *mockPeerStore) FetchRespondents(ctx context.Context) ([]*models.Respondent, error) {
	return m.respondents, nil
}

func (m *mockPeerStore) FetchHearings(ctx context.Context) ([]*models.Hearing, error) {
	return m.hearings, nil
}

func (m *mockPeerStore) FetchSummons(ctx context.Context) ([]*models.Summons, error) {
	return m.summons, nil
}
