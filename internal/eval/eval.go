// Package eval computes post-match statistics: overall and per-phase move
// counts, scores, and the rounds where the mood changed.
package eval

import (
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

var phaseOrder = []policy.Phase{policy.PhaseGradual, policy.PhaseSpiteful, policy.PhaseEndgame}

// #region summarize
// Summarize analyses a match report. Phases are attributed by the phase that
// actually produced each move. Incomplete reports are summarized as far as
// they go.
func Summarize(rep game.Report) Summary {
	s := Summary{
		Rounds:     len(rep.Rounds),
		MyScore:    rep.MyScore,
		TheirScore: rep.TheirScore,
	}

	byPhase := make(map[policy.Phase]*PhaseStats, len(phaseOrder))
	for _, p := range phaseOrder {
		byPhase[p] = &PhaseStats{Phase: p}
	}

	for _, r := range rep.Rounds {
		if r.Mine == policy.Cooperate {
			s.Cooperations++
		} else {
			s.Defections++
		}
		if r.Theirs == policy.Cooperate {
			s.OpponentCoops++
		} else {
			s.OpponentDefections++
		}

		if r.MoodBefore != r.MoodAfter {
			s.Transitions = append(s.Transitions, Transition{Round: r.Round, From: r.MoodBefore, To: r.MoodAfter})
		}

		ps, ok := byPhase[r.Phase]
		if !ok {
			continue
		}
		if ps.FirstRound == 0 {
			ps.FirstRound = r.Round
		}
		ps.LastRound = r.Round
		if r.Mine == policy.Cooperate {
			ps.Cooperations++
		} else {
			ps.Defections++
		}
	}

	for _, p := range phaseOrder {
		s.Phases = append(s.Phases, *byPhase[p])
	}
	return s
}

// #endregion summarize

// Phase returns the stats for p, zero-valued if absent.
func (s Summary) Phase(p policy.Phase) PhaseStats {
	for _, ps := range s.Phases {
		if ps.Phase == p {
			return ps
		}
	}
	return PhaseStats{Phase: p}
}
