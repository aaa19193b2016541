// Package policy implements the mixed Gradual / Spiteful decision policy for
// an iterated Prisoner's Dilemma with a known number of rounds.
//
// The game runs in three phases. Rounds before the switch round (70% of the
// game, rounded down) play Gradual. Rounds from the switch up to the third
// from last play Spiteful. The last two rounds always defect.
//
// Everything here is a pure function of its arguments; callers own the
// histories and the mood and thread them between calls.
package policy

import "fmt"

// #region phases

// SwitchRound returns the first Spiteful round for a game of total rounds,
// floor(0.7 * total).
func SwitchRound(total int) int {
	return total * 7 / 10
}

// PhaseOf reports which phase governs round in a game of total rounds.
func PhaseOf(total, round int) (Phase, error) {
	if err := checkBounds(total, round); err != nil {
		return "", err
	}
	return phaseOf(total, round), nil
}

func phaseOf(total, round int) Phase {
	switch {
	case round >= total-1:
		return PhaseEndgame
	case round < SwitchRound(total):
		return PhaseGradual
	default:
		return PhaseSpiteful
	}
}

// #endregion phases

// #region decide

// Decide picks the move for round given both histories (covering at least
// rounds 1..round-1), the incoming mood and the total round count.
//
// The last two rounds return (Defect, Provoked) regardless of anything else.
// The Gradual phase passes mood through untouched, so a caller-imposed
// Provoked mood only takes effect once Spiteful play begins.
func Decide(mine, theirs []Move, mood Mood, total, round int) (Decision, error) {
	if err := checkBounds(total, round); err != nil {
		return Decision{}, err
	}
	if !mood.Valid() {
		return Decision{}, fmt.Errorf("%w: mood %q", ErrInvalidArgument, string(mood))
	}
	if err := checkHistory("own", mine, round-1); err != nil {
		return Decision{}, err
	}
	if err := checkHistory("opponent", theirs, round-1); err != nil {
		return Decision{}, err
	}

	phase := phaseOf(total, round)
	switch phase {
	case PhaseEndgame:
		return Decision{Move: Defect, Mood: Provoked, Phase: phase}, nil
	case PhaseGradual:
		return Decision{Move: gradual(mine, theirs, round), Mood: mood, Phase: phase}, nil
	default:
		// switch >= 2 for every T that has a Spiteful round, so round >= 2 here.
		move, next := spiteful(theirs, round, mood)
		return Decision{Move: move, Mood: next, Phase: phase}, nil
	}
}

// #endregion decide

func checkBounds(total, round int) error {
	if total < 2 {
		return fmt.Errorf("%w: total rounds %d < 2", ErrInvalidArgument, total)
	}
	if round < 1 || round > total {
		return fmt.Errorf("%w: round %d outside [1, %d]", ErrInvalidArgument, round, total)
	}
	return nil
}
