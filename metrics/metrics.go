// Package metrics registra os coletores Prometheus do serviço de badges.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados de uma request de badge (label "outcome").
const (
	OutcomeOK            = "ok"
	OutcomeNoRating      = "no_rating"
	OutcomeRejected      = "rejected"
	OutcomeFetchError    = "fetch_error"
	OutcomeExtractError  = "extraction_error"
	OutcomeLimiterError  = "limiter_error"
	OutcomeInvalidParams = "invalid_params"
)

type Metrics struct {
	badges    *prometheus.CounterVec
	fetches   *prometheus.HistogramVec
	decisions *prometheus.CounterVec
}

// New cria e registra os coletores em reg. Com reg nil nada é registrado
// (útil em testes).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		badges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "acrate",
			Name:      "badge_requests_total",
			Help:      "Badge requests by category and outcome.",
		}, []string{"category", "outcome"}),
		fetches: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "acrate",
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Latency of profile page fetches.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"category", "result"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "acrate",
			Name:      "upstream_limiter_decisions_total",
			Help:      "Fixed-window limiter decisions in front of the profile site.",
		}, []string{"decision"}),
	}
	if reg != nil {
		reg.MustRegister(m.badges, m.fetches, m.decisions)
	}
	return m
}

func (m *Metrics) ObserveBadge(category, outcome string) {
	if m == nil {
		return
	}
	m.badges.WithLabelValues(category, outcome).Inc()
}

func (m *Metrics) ObserveFetch(category string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.fetches.WithLabelValues(category, result).Observe(d.Seconds())
}

// ObserveDecision: "admitted", "rejected" ou "error".
func (m *Metrics) ObserveDecision(decision string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(decision).Inc()
}

// BadgeCount devolve o contador atual (testes).
func (m *Metrics) BadgeCount(category, outcome string) float64 {
	if m == nil {
		return 0
	}
	return counterValue(m.badges.WithLabelValues(category, outcome))
}

func (m *Metrics) DecisionCount(decision string) float64 {
	if m == nil {
		return 0
	}
	return counterValue(m.decisions.WithLabelValues(decision))
}
