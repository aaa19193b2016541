// Package metrics holds the Prometheus collectors for decisions and matches.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Decisions counts policy decisions. Labels: phase, move
	Decisions *prometheus.CounterVec
	// InvalidRequests counts decisions rejected for bad arguments.
	InvalidRequests prometheus.Counter
	// MoodTransitions counts Calm to Provoked changes.
	MoodTransitions prometheus.Counter
	// Matches counts finished matches. Labels: opponent
	Matches *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in
// tests to keep them isolated.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pdmix",
			Name:      "decisions_total",
			Help:      "Total policy decisions by phase and move",
		}, []string{"phase", "move"}),
		InvalidRequests: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pdmix",
			Name:      "invalid_requests_total",
			Help:      "Total decisions rejected for invalid arguments",
		}),
		MoodTransitions: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pdmix",
			Name:      "mood_transitions_total",
			Help:      "Total Calm to Provoked transitions",
		}),
		Matches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pdmix",
			Name:      "matches_total",
			Help:      "Total finished matches by opponent",
		}, []string{"opponent"}),
	}
}

// ObserveDecision records one decision made with the given incoming mood.
func (m *Metrics) ObserveDecision(before policy.Mood, d policy.Decision) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(string(d.Phase), string(d.Move)).Inc()
	if before != d.Mood {
		m.MoodTransitions.Inc()
	}
}

// ObserveInvalid records a rejected decision.
func (m *Metrics) ObserveInvalid() {
	if m == nil {
		return
	}
	m.InvalidRequests.Inc()
}

// ObserveReport records every round of a finished match plus the match itself.
func (m *Metrics) ObserveReport(rep game.Report) {
	if m == nil {
		return
	}
	for _, r := range rep.Rounds {
		m.ObserveDecision(r.MoodBefore, policy.Decision{Move: r.Mine, Mood: r.MoodAfter, Phase: r.Phase})
	}
	m.Matches.WithLabelValues(rep.Opponent).Inc()
}
