package game

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// #region payoff
// Payoff is the per-round score table. The usual ordering is
// Temptation > Reward > Punishment > Sucker.
type Payoff struct {
	Reward     int `json:"reward" yaml:"reward"`         // both cooperate
	Temptation int `json:"temptation" yaml:"temptation"` // defect against a cooperator
	Sucker     int `json:"sucker" yaml:"sucker"`         // cooperate against a defector
	Punishment int `json:"punishment" yaml:"punishment"` // both defect
}

// DefaultPayoff returns the 3/5/0/1 table.
func DefaultPayoff() Payoff {
	return Payoff{
		Reward:     3,
		Temptation: 5,
		Sucker:     0,
		Punishment: 1,
	}
}

// Score returns (mine, theirs) points for one round.
func (p Payoff) Score(mine, theirs policy.Move) (int, int) {
	switch {
	case mine == policy.Cooperate && theirs == policy.Cooperate:
		return p.Reward, p.Reward
	case mine == policy.Defect && theirs == policy.Cooperate:
		return p.Temptation, p.Sucker
	case mine == policy.Cooperate && theirs == policy.Defect:
		return p.Sucker, p.Temptation
	default:
		return p.Punishment, p.Punishment
	}
}

// #endregion payoff

// #region match-config
// MatchConfig describes one game instance.
type MatchConfig struct {
	TotalRounds int
	Payoff      Payoff
	Opponent    string // label only, used in reports
}

// DefaultMatchConfig returns a 10-round game with the default payoff.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		TotalRounds: 10,
		Payoff:      DefaultPayoff(),
	}
}

// #endregion match-config

// #region round-result
// RoundResult records everything that happened in a single round.
type RoundResult struct {
	Round       int          `json:"round"`
	Phase       policy.Phase `json:"phase"`
	Mine        policy.Move  `json:"mine"`
	Theirs      policy.Move  `json:"theirs"`
	MoodBefore  policy.Mood  `json:"mood_before"`
	MoodAfter   policy.Mood  `json:"mood_after"`
	Overridden  bool         `json:"overridden,omitempty"` // MoodBefore was set by the caller
	MyPayoff    int          `json:"my_payoff"`
	TheirPayoff int          `json:"their_payoff"`
	MyTotal     int          `json:"my_total"`
	TheirTotal  int          `json:"their_total"`
}

// #endregion round-result

// #region report
// Report is a snapshot of a match, complete or in progress.
type Report struct {
	MatchID     string        `json:"match_id"`
	Opponent    string        `json:"opponent"`
	TotalRounds int           `json:"total_rounds"`
	SwitchRound int           `json:"switch_round"`
	Payoff      Payoff        `json:"payoff"`
	Rounds      []RoundResult `json:"rounds"`
	MyScore     int           `json:"my_score"`
	TheirScore  int           `json:"their_score"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at,omitzero"`
}

// Complete reports whether every round has been played.
func (r Report) Complete() bool {
	return len(r.Rounds) == r.TotalRounds
}

// #endregion report

// #region opponent
// Opponent supplies the other player's moves. own is the opponent's history,
// other is ours; both cover rounds 1..round-1.
type Opponent interface {
	Name() string
	Next(round int, own, other []policy.Move) policy.Move
}

// #endregion opponent

// ErrMatchOver is returned when playing past the final round.
var ErrMatchOver = errors.New("match over")
