// Package replay runs recorded fixtures through the match driver and
// compares every round against the expected move and mood.
package replay

import (
	"fmt"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// #region types

// ReplayResult captures one replayed round.
type ReplayResult struct {
	Round        int
	Phase        policy.Phase
	Theirs       policy.Move
	Move         policy.Move
	Mood         policy.Mood
	Override     bool // mood was forced before this round
	Checked      bool // fixture had an expectation for this round
	ExpectedMove policy.Move
	ExpectedMood policy.Mood
	Match        bool
	Reason       string
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalRounds int
	Checked     int
	Matched     int
	Mismatched  int
	Overrides   int
	MyScore     int
	TheirScore  int
}

// Passed reports whether every checked round matched.
func (s ReplaySummary) Passed() bool { return s.Mismatched == 0 }

// #endregion types

// #region replay

// Replay plays the fixture from round 1. Mood overrides are applied before
// the policy is asked for that round's move.
func Replay(f *Fixture) ([]ReplayResult, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	pattern, _ := f.Pattern()
	total, _ := f.Rounds()

	cfg := game.DefaultMatchConfig()
	cfg.TotalRounds = total
	cfg.Opponent = "fixture"
	if f.Payoff != nil {
		cfg.Payoff = *f.Payoff
	}
	m, err := game.NewMatch(cfg)
	if err != nil {
		return nil, err
	}

	expected := make(map[int]FixtureExpectedResult, len(f.Expected))
	for _, e := range f.Expected {
		expected[e.Round] = e
	}

	results := make([]ReplayResult, 0, total)
	for round := 1; round <= total; round++ {
		mood, override := f.MoodOverrides[round]
		if override {
			if err := m.SetMood(mood); err != nil {
				return results, err
			}
		}

		rr, err := m.Play(pattern[round-1])
		if err != nil {
			return results, fmt.Errorf("replay: %w", err)
		}

		res := ReplayResult{
			Round:    rr.Round,
			Phase:    rr.Phase,
			Theirs:   rr.Theirs,
			Move:     rr.Mine,
			Mood:     rr.MoodAfter,
			Override: override,
			Match:    true,
		}
		if e, ok := expected[round]; ok {
			res.Checked = true
			res.ExpectedMove = e.Move
			res.ExpectedMood = e.Mood
			switch {
			case e.Move != rr.Mine:
				res.Match = false
				res.Reason = fmt.Sprintf("move %s, want %s", rr.Mine, e.Move)
			case e.Mood != "" && e.Mood != rr.MoodAfter:
				res.Match = false
				res.Reason = fmt.Sprintf("mood %s, want %s", rr.MoodAfter, e.Mood)
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// Summarize computes aggregate stats from replay results. Scores are
// recomputed with the fixture's payoff.
func Summarize(f *Fixture, results []ReplayResult) ReplaySummary {
	payoff := game.DefaultPayoff()
	if f != nil && f.Payoff != nil {
		payoff = *f.Payoff
	}
	s := ReplaySummary{TotalRounds: len(results)}
	for _, r := range results {
		if r.Checked {
			s.Checked++
			if r.Match {
				s.Matched++
			} else {
				s.Mismatched++
			}
		}
		if r.Override {
			s.Overrides++
		}
		mine, theirs := payoff.Score(r.Move, r.Theirs)
		s.MyScore += mine
		s.TheirScore += theirs
	}
	return s
}

// #endregion replay
