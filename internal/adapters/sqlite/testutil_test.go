// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// Every test store is opened through db.Open, which runs the real migration path.
// DO NOT hardcode CREATE TABLE statements in test files. Use newTestStore() and the
// seed* helpers so tests always run against the schema production uses.
package sqlite_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/blotter/internal/adapters/sqlite"
	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/db"
	"github.com/example/blotter/internal/models"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// recorder is a Publisher that remembers every publish.
type recorder struct {
	mu     sync.Mutex
	events [][]string
}

func (r *recorder) Publish(tables ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, append([]string(nil), tables...))
}

func (r *recorder) published() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.events...)
}

type testStore struct {
	*sqlite.Store
	db  *sql.DB
	pub *recorder
}

// newTestStore opens a migrated in-memory store with a fixed clock.
func newTestStore(t *testing.T) *testStore {
	t.Helper()
	database, err := db.Open(context.Background(), db.Options{Path: db.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	pub := &recorder{}
	store := sqlite.NewStore(database, sqlite.Options{
		Clock:     func() time.Time { return testNow },
		Publisher: pub,
	})
	return &testStore{Store: store, db: database, pub: pub}
}

// count returns the number of rows in table matching where.
func (s *testStore) count(t *testing.T, table, where string, args ...any) int {
	t.Helper()
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	require.NoError(t, s.db.QueryRow(query, args...).Scan(&n))
	return n
}

func seedUser(t *testing.T, s *testStore, username string, role access.Role) int64 {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x", FirstName: "Test", LastName: "User", Role: role, IsActive: true}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u.ID
}

func seedOfficer(t *testing.T, s *testStore, badge string, userID *int64) int64 {
	t.Helper()
	o := &models.Officer{Name: "Officer " + badge, BadgeNumber: badge, Rank: "PO1", UserID: userID, IsActive: true}
	require.NoError(t, s.Officers.Create(context.Background(), o))
	return o.ID
}

func seedCase(t *testing.T, s *testStore, number string) *models.Case {
	t.Helper()
	c := &models.Case{
		CaseNumber:       number,
		IncidentType:     "Noise Complaint",
		Narrative:        "Loud music after curfew",
		IncidentLocation: "Purok 3",
		ComplainantName:  "Juan Dela Cruz",
	}
	require.NoError(t, s.Cases.Create(context.Background(), c))
	return c
}

func seedPerson(t *testing.T, s *testStore, first, last, contact string) *models.Person {
	t.Helper()
	p := &models.Person{FirstName: first, LastName: last, ContactNumber: contact}
	require.NoError(t, s.Persons.Create(context.Background(), p))
	return p
}

func seedRespondent(t *testing.T, s *testStore, caseID int64, personID *int64) *models.Respondent {
	t.Helper()
	r := &models.Respondent{CaseID: caseID, PersonID: personID, Accusation: "Disturbing the peace"}
	require.NoError(t, s.Respondents.Create(context.Background(), r))
	return r
}
