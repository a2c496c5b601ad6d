package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveBadge("algorithm", OutcomeOK)
	m.ObserveBadge("algorithm", OutcomeOK)
	m.ObserveDecision("rejected")
	m.ObserveFetch("heuristic", true, 120*time.Millisecond)

	assert.Equal(t, 2.0, m.BadgeCount("algorithm", OutcomeOK))
	assert.Equal(t, 1.0, m.DecisionCount("rejected"))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "acrate_upstream_fetch_duration_seconds")
	assert.Contains(t, names, "acrate_badge_requests_total")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveBadge("algorithm", OutcomeOK)
		m.ObserveFetch("algorithm", false, time.Second)
		m.ObserveDecision("admitted")
	})
	assert.Zero(t, m.BadgeCount("algorithm", OutcomeOK))
	assert.Zero(t, m.DecisionCount("admitted"))
}
