package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.IncTransition("case", "Resolved")
	m.IncTransition("case", "Resolved")
	m.IncRejected("case", "illegal_transition")
	m.IncEffect("timeline")
	m.IncMigration()
	m.ObserveTx(time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("case", "Resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionsRejected.WithLabelValues("case", "illegal_transition")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EffectsApplied.WithLabelValues("timeline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MigrationsApplied))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncTransition("case", "Closed")
	m.IncRejected("case", "validation")
	m.IncEffect("sms")
	m.IncMigration()
	m.ObserveTx(time.Now())
	text, err := m.Text()
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestText(t *testing.T) {
	m := New()
	m.IncMigration()

	text, err := m.Text()
	require.NoError(t, err)
	assert.Contains(t, text, "blotter_migrations_applied_total 1")
}

func TestCountersSkipsZeroSeries(t *testing.T) {
	m := New()
	m.IncTransition("summons", "Complied")
	m.IncTransition("case", "Resolved")
	m.IncTransition("case", "Resolved")
	m.ObserveTx(time.Now())

	samples, err := m.Counters()
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, Sample{Name: "blotter_transitions_total", Labels: "entity=case,to=Resolved", Value: 2}, samples[0])
	assert.Equal(t, "entity=summons,to=Complied", samples[1].Labels)
}
