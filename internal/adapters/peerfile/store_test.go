package peerfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/blotter/internal/adapters/peerfile"
	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/models"
)

func TestLoadsCamelCaseExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peer.json")
	doc := `{
  "cases": [{"id": 9, "caseNumber": "2026-009", "incidentType": "Theft", "narrative": "n",
             "incidentLocation": "Purok 1", "status": "Pending", "priority": "High",
             "complainantName": "Juan", "filedByUserId": 3, "assignedOfficerIds": [1, 2]}],
  "persons": [{"id": 4, "firstName": "Pedro", "lastName": "Santos", "personType": "Respondent"}],
  "officers": [],
  "respondents": [],
  "hearings": [],
  "summons": []
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	store := peerfile.NewStore(path)
	cases, err := store.FetchCases(context.Background())
	require.NoError(t, err)
	require.Len(t, cases, 1)
	c := cases[0]
	assert.Equal(t, int64(9), c.ID)
	assert.Equal(t, "2026-009", c.CaseNumber)
	assert.Equal(t, blotter.StatusPending, c.Status)
	assert.Equal(t, models.PriorityHigh, c.Priority)
	require.NotNil(t, c.FiledByUserID)
	assert.Equal(t, int64(3), *c.FiledByUserID)
	assert.Equal(t, []int64{1, 2}, c.AssignedOfficerIDs)

	persons, err := store.FetchPersons(context.Background())
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, models.PersonRespondent, persons[0].PersonType)
}

func TestFetchReturnsCopies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peer.json")
	uid := int64(5)
	require.NoError(t, peerfile.Write(path, &peerfile.Snapshot{
		Cases: []*models.Case{{ID: 1, CaseNumber: "2026-001", FiledByUserID: &uid, DateFiled: time.Now().UTC()}},
	}))
	store := peerfile.NewStore(path)
	ctx := context.Background()

	first, err := store.FetchCases(ctx)
	require.NoError(t, err)
	first[0].FiledByUserID = nil

	second, err := store.FetchCases(ctx)
	require.NoError(t, err)
	require.NotNil(t, second[0].FiledByUserID)
	assert.Equal(t, uid, *second[0].FiledByUserID)
}

func TestMissingFileFailsEveryFetch(t *testing.T) {
	store := peerfile.NewStore(filepath.Join(t.TempDir(), "absent.json"))
	_, err := store.FetchOfficers(context.Background())
	require.Error(t, err)
	_, err = store.FetchSummons(context.Background())
	require.Error(t, err)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := peerfile.NewStore("unused.json").FetchHearings(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
