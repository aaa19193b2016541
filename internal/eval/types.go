package eval

import "github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"

// #region phase-stats
// PhaseStats counts our moves inside one phase.
type PhaseStats struct {
	Phase        policy.Phase `json:"phase"`
	FirstRound   int          `json:"first_round"` // 0 when the phase never ran
	LastRound    int          `json:"last_round"`
	Cooperations int          `json:"cooperations"`
	Defections   int          `json:"defections"`
}

// Rounds returns the number of rounds played in the phase.
func (p PhaseStats) Rounds() int { return p.Cooperations + p.Defections }

// CoopRate is cooperations / rounds, 0 for an empty phase.
func (p PhaseStats) CoopRate() float64 {
	if p.Rounds() == 0 {
		return 0
	}
	return float64(p.Cooperations) / float64(p.Rounds())
}

// #endregion phase-stats

// #region transition
// Transition records a mood change and the round that produced it.
type Transition struct {
	Round int         `json:"round"`
	From  policy.Mood `json:"from"`
	To    policy.Mood `json:"to"`
}

// #endregion transition

// #region summary
// Summary is the post-match analysis.
type Summary struct {
	Rounds             int          `json:"rounds"`
	Cooperations       int          `json:"cooperations"`
	Defections         int          `json:"defections"`
	OpponentCoops      int          `json:"opponent_cooperations"`
	OpponentDefections int          `json:"opponent_defections"`
	MyScore            int          `json:"my_score"`
	TheirScore         int          `json:"their_score"`
	Phases             []PhaseStats `json:"phases"`
	Transitions        []Transition `json:"transitions"`
}

// CoopRate is our cooperation share over all rounds.
func (s Summary) CoopRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Cooperations) / float64(s.Rounds)
}

// OpponentCoopRate is the opponent's cooperation share.
func (s Summary) OpponentCoopRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.OpponentCoops) / float64(s.Rounds)
}

// Outcome is "win", "loss" or "draw" from our side.
func (s Summary) Outcome() string {
	switch {
	case s.MyScore > s.TheirScore:
		return "win"
	case s.MyScore < s.TheirScore:
		return "loss"
	default:
		return "draw"
	}
}

// #endregion summary
