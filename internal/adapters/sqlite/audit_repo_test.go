package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/ctxutil"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/secondary"
)

func TestAuditTrail_TimelineOrderAndPerformer(t *testing.T) {
	s := newTestStore(t)
	c := seedCase(t, s, "2026-001")
	ctx := ctxutil.WithActor(context.Background(), ctxutil.Actor{Name: "desk.clerk", Role: access.RoleClerk})

	var audit secondary.AuditTrail = s.Audit
	require.NoError(t, audit.AppendTimeline(ctx, &models.CaseTimeline{CaseID: c.ID, EventType: "CASE_FILED", Title: "Case filed"}))
	require.NoError(t, audit.AppendTimeline(ctx, &models.CaseTimeline{CaseID: c.ID, EventType: "STATUS_CHANGED", Title: "Moved", PerformedBy: "po1.santos"}))

	oldest, err := audit.ListTimeline(ctx, c.ID, true)
	require.NoError(t, err)
	require.Len(t, oldest, 2)
	assert.Equal(t, "CASE_FILED", oldest[0].EventType)
	assert.Equal(t, "desk.clerk", oldest[0].PerformedBy)
	assert.Equal(t, "po1.santos", oldest[1].PerformedBy)
	assert.True(t, testNow.Equal(oldest[0].CreatedAt), "createdAt %v", oldest[0].CreatedAt)

	newest, err := audit.ListTimeline(ctx, c.ID, false)
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, "STATUS_CHANGED", newest[0].EventType)
}

func TestAuditTrail_ActivityScopeAndLimit(t *testing.T) {
	s := newTestStore(t)
	c := seedCase(t, s, "2026-001")
	ctx := context.Background()

	var audit secondary.AuditTrail = s.Audit
	for _, action := range []string{"CASE_CREATED", "STATUS_CHANGED", "OFFICERS_ASSIGNED"} {
		require.NoError(t, audit.AppendActivity(ctx, &models.ActivityLog{CaseID: &c.ID, Action: action, Description: action}))
	}
	require.NoError(t, audit.AppendActivity(ctx, &models.ActivityLog{Action: "ADMIN_SEEDED", Description: "admin account created"}))

	forCase, err := audit.ListActivity(ctx, c.ID, 2)
	require.NoError(t, err)
	require.Len(t, forCase, 2)
	assert.Equal(t, "OFFICERS_ASSIGNED", forCase[0].Action)

	all, err := audit.ListActivity(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "ADMIN_SEEDED", all[0].Action)
	assert.Nil(t, all[0].CaseID)
}

func TestAuditTrail_PersonHistory(t *testing.T) {
	s := newTestStore(t)
	c := seedCase(t, s, "2026-001")
	p := seedPerson(t, s, "Maria", "Reyes", "09171234567")
	ctx := context.Background()

	var audit secondary.AuditTrail = s.Audit
	require.NoError(t, audit.AppendPersonHistory(ctx, &models.PersonHistory{PersonID: p.ID, CaseID: c.ID, Role: "Respondent", Description: "Named in complaint"}))

	history, err := audit.ListPersonHistory(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, c.ID, history[0].CaseID)
	assert.Equal(t, "Respondent", history[0].Role)

	none, err := audit.ListPersonHistory(ctx, p.ID+100)
	require.NoError(t, err)
	assert.Empty(t, none)
}
