// Package game drives a single iterated Prisoner's Dilemma match for the
// mixed policy: it owns both histories and the mood, asks the policy for a
// move each round, scores the round and threads the state forward.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// #region match
// Match is one game instance. Not safe for concurrent use; run independent
// matches on separate goroutines instead.
type Match struct {
	id         string
	cfg        MatchConfig
	mine       []policy.Move
	theirs     []policy.Move
	mood       policy.Mood
	rounds     []RoundResult
	overridden bool
	myScore    int
	theirScore int
	startedAt  time.Time
	finishedAt time.Time
}

// NewMatch creates a match with a fresh ID and a Calm mood.
func NewMatch(cfg MatchConfig) (*Match, error) {
	if cfg.TotalRounds < 2 {
		return nil, fmt.Errorf("new match: %w: total rounds %d < 2", policy.ErrInvalidArgument, cfg.TotalRounds)
	}
	return &Match{
		id:        uuid.New().String(),
		cfg:       cfg,
		mine:      make([]policy.Move, 0, cfg.TotalRounds),
		theirs:    make([]policy.Move, 0, cfg.TotalRounds),
		mood:      policy.Calm,
		rounds:    make([]RoundResult, 0, cfg.TotalRounds),
		startedAt: time.Now().UTC(),
	}, nil
}

// #endregion match

// #region accessors
func (m *Match) ID() string { return m.id }

// Round returns the number of the next round to be played.
func (m *Match) Round() int { return len(m.mine) + 1 }

func (m *Match) TotalRounds() int { return m.cfg.TotalRounds }

func (m *Match) Done() bool { return len(m.mine) >= m.cfg.TotalRounds }

func (m *Match) Mood() policy.Mood { return m.mood }

// Scores returns the running (mine, theirs) totals.
func (m *Match) Scores() (int, int) { return m.myScore, m.theirScore }

// Mine returns a copy of our history.
func (m *Match) Mine() []policy.Move { return append([]policy.Move(nil), m.mine...) }

// Theirs returns a copy of the opponent's history.
func (m *Match) Theirs() []policy.Move { return append([]policy.Move(nil), m.theirs...) }

// SetMood overwrites the carried mood between rounds. The policy accepts
// whatever it is given; Provoked set during the Gradual phase is carried
// until Spiteful play starts.
func (m *Match) SetMood(mood policy.Mood) error {
	if !mood.Valid() {
		return fmt.Errorf("set mood: %w: %q", policy.ErrInvalidArgument, string(mood))
	}
	m.mood = mood
	m.overridden = true
	return nil
}

// #endregion accessors

// #region play

// Decide returns the policy's choice for the upcoming round without
// advancing the match.
func (m *Match) Decide() (policy.Decision, error) {
	if m.Done() {
		return policy.Decision{}, ErrMatchOver
	}
	return policy.Decide(m.mine, m.theirs, m.mood, m.cfg.TotalRounds, m.Round())
}

// Play resolves the upcoming round against the opponent's simultaneous move.
func (m *Match) Play(theirs policy.Move) (RoundResult, error) {
	if !theirs.Valid() {
		return RoundResult{}, fmt.Errorf("play round %d: %w: opponent move %q", m.Round(), policy.ErrInvalidArgument, string(theirs))
	}
	d, err := m.Decide()
	if err != nil {
		return RoundResult{}, fmt.Errorf("play round %d: %w", m.Round(), err)
	}

	myPts, theirPts := m.cfg.Payoff.Score(d.Move, theirs)
	m.myScore += myPts
	m.theirScore += theirPts

	res := RoundResult{
		Round:       m.Round(),
		Phase:       d.Phase,
		Mine:        d.Move,
		Theirs:      theirs,
		MoodBefore:  m.mood,
		MoodAfter:   d.Mood,
		Overridden:  m.overridden,
		MyPayoff:    myPts,
		TheirPayoff: theirPts,
		MyTotal:     m.myScore,
		TheirTotal:  m.theirScore,
	}

	m.mine = append(m.mine, d.Move)
	m.theirs = append(m.theirs, theirs)
	m.mood = d.Mood
	m.overridden = false
	m.rounds = append(m.rounds, res)
	if m.Done() {
		m.finishedAt = time.Now().UTC()
	}
	return res, nil
}

// #endregion play

// #region report
// Report returns a snapshot of the match so far.
func (m *Match) Report() Report {
	return Report{
		MatchID:     m.id,
		Opponent:    m.cfg.Opponent,
		TotalRounds: m.cfg.TotalRounds,
		SwitchRound: policy.SwitchRound(m.cfg.TotalRounds),
		Payoff:      m.cfg.Payoff,
		Rounds:      append([]RoundResult(nil), m.rounds...),
		MyScore:     m.myScore,
		TheirScore:  m.theirScore,
		StartedAt:   m.startedAt,
		FinishedAt:  m.finishedAt,
	}
}

// #endregion report

// #region run
// Run plays m to completion against opp. The opponent is only shown the
// histories up to the previous round.
func Run(ctx context.Context, m *Match, opp Opponent) (Report, error) {
	for !m.Done() {
		if err := ctx.Err(); err != nil {
			return m.Report(), err
		}
		theirs := opp.Next(m.Round(), m.Theirs(), m.Mine())
		if _, err := m.Play(theirs); err != nil {
			return m.Report(), fmt.Errorf("match %s vs %s: %w", m.id, opp.Name(), err)
		}
	}
	return m.Report(), nil
}

// #endregion run
