// Package metrics provides prometheus counters for workflow and storage activity.
package metrics

import (
	"bytes"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metrics tracks transitions, rejected requests, applied effects and migrations.
// All methods are safe on a nil receiver so callers without metrics skip the checks.
type Metrics struct {
	Registry            *prometheus.Registry
	Transitions         *prometheus.CounterVec
	TransitionsRejected *prometheus.CounterVec
	EffectsApplied      *prometheus.CounterVec
	MigrationsApplied   prometheus.Counter
	TxDuration          prometheus.Histogram
}

// New creates a Metrics instance on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "blotter_transitions_total",
			Help: "Workflow transitions committed, by entity and target state",
		}, []string{"entity", "to"}),
		TransitionsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "blotter_transitions_rejected_total",
			Help: "Workflow requests rejected, by entity and error kind",
		}, []string{"entity", "kind"}),
		EffectsApplied: f.NewCounterVec(prometheus.CounterOpts{
			Name: "blotter_effects_applied_total",
			Help: "Derived effects written, by effect type",
		}, []string{"type"}),
		MigrationsApplied: f.NewCounter(prometheus.CounterOpts{
			Name: "blotter_migrations_applied_total",
			Help: "Schema migration steps applied",
		}),
		TxDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "blotter_tx_duration_seconds",
			Help:    "Duration of store transactions",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
		}),
	}
}

// IncTransition records a committed transition.
func (m *Metrics) IncTransition(entity, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(entity, to).Inc()
}

// IncRejected records a rejected workflow request.
func (m *Metrics) IncRejected(entity, kind string) {
	if m == nil {
		return
	}
	m.TransitionsRejected.WithLabelValues(entity, kind).Inc()
}

// IncEffect records an applied effect.
func (m *Metrics) IncEffect(effectType string) {
	if m == nil {
		return
	}
	m.EffectsApplied.WithLabelValues(effectType).Inc()
}

// IncMigration records an applied migration step.
func (m *Metrics) IncMigration() {
	if m == nil {
		return
	}
	m.MigrationsApplied.Inc()
}

// ObserveTx records the duration of a transaction.
// Call with time.Now() at the start of the transaction.
func (m *Metrics) ObserveTx(start time.Time) {
	if m == nil {
		return
	}
	m.TxDuration.Observe(time.Since(start).Seconds())
}

// Text renders every registered metric in the prometheus text exposition format.
func (m *Metrics) Text() (string, error) {
	if m == nil {
		return "", nil
	}
	families, err := m.Registry.Gather()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Sample is one counter series.
type Sample struct {
	Name   string
	Labels string // k=v pairs joined by commas, sorted by key
	Value  float64
}

// Counters returns every non-zero counter series, ordered by name then labels.
func (m *Metrics) Counters() ([]Sample, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, metric := range mf.GetMetric() {
			v := metric.GetCounter().GetValue()
			if v == 0 {
				continue
			}
			out = append(out, Sample{Name: mf.GetName(), Labels: labelString(metric.GetLabel()), Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}

func labelString(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, lp := range pairs {
		parts = append(parts, lp.GetName()+"="+lp.GetValue())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
