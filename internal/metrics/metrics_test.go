package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

func TestObserveDecision(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveDecision(policy.Calm, policy.Decision{Move: policy.Cooperate, Mood: policy.Calm, Phase: policy.PhaseGradual})
	m.ObserveDecision(policy.Calm, policy.Decision{Move: policy.Defect, Mood: policy.Provoked, Phase: policy.PhaseEndgame})
	m.ObserveDecision(policy.Provoked, policy.Decision{Move: policy.Defect, Mood: policy.Provoked, Phase: policy.PhaseEndgame})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("gradual", "C")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Decisions.WithLabelValues("endgame", "D")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MoodTransitions))
}

func TestObserveReport(t *testing.T) {
	m := New(prometheus.NewRegistry())
	rep := game.Report{
		Opponent: "tit-for-tat",
		Rounds: []game.RoundResult{
			{Round: 1, Phase: policy.PhaseGradual, Mine: policy.Cooperate, MoodBefore: policy.Calm, MoodAfter: policy.Calm},
			{Round: 2, Phase: policy.PhaseEndgame, Mine: policy.Defect, MoodBefore: policy.Calm, MoodAfter: policy.Provoked},
		},
	}
	m.ObserveReport(rep)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Matches.WithLabelValues("tit-for-tat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MoodTransitions))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Decisions))
}

func TestObserveInvalid(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveInvalid()
	m.ObserveInvalid()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.InvalidRequests))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveInvalid()
		m.ObserveDecision(policy.Calm, policy.Decision{})
		m.ObserveReport(game.Report{})
	})
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
