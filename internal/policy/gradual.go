package policy

import "fmt"

// #region gradual
// Gradual cooperates until the opponent defects, then answers with a burst of
// defections as long as the opponent's total defection count so far.
//
// Rounds are 1-based; history index i holds round i+1. Both histories must
// cover rounds 1..round-1. Longer slices are fine, only that prefix is read.
func Gradual(mine, theirs []Move, round int) (Move, error) {
	if round < 1 {
		return "", fmt.Errorf("%w: round %d < 1", ErrInvalidArgument, round)
	}
	if err := checkHistory("own", mine, round-1); err != nil {
		return "", err
	}
	if err := checkHistory("opponent", theirs, round-1); err != nil {
		return "", err
	}
	return gradual(mine, theirs, round), nil
}

// gradual assumes validated input.
func gradual(mine, theirs []Move, round int) Move {
	if round == 1 {
		return Cooperate
	}

	// Defection last round always starts or extends the burst.
	if theirs[round-2] == Defect {
		return Defect
	}

	last := 0
	for r := round - 1; r >= 1; r-- {
		if theirs[r-1] == Defect {
			last = r
			break
		}
	}
	if last == 0 {
		return Cooperate
	}

	owed := countDefections(theirs[:last])
	served := countDefections(mine[last : round-1])
	if served < owed {
		return Defect
	}
	return Cooperate
}

// #endregion gradual

// #region helpers
func countDefections(h []Move) int {
	n := 0
	for _, m := range h {
		if m == Defect {
			n++
		}
	}
	return n
}

// checkHistory verifies h covers n rounds of valid moves.
func checkHistory(owner string, h []Move, n int) error {
	if len(h) < n {
		return fmt.Errorf("%w: %s history has %d rounds, need %d", ErrInvalidArgument, owner, len(h), n)
	}
	for i, m := range h[:n] {
		if !m.Valid() {
			return fmt.Errorf("%w: %s history round %d holds %q", ErrInvalidArgument, owner, i+1, string(m))
		}
	}
	return nil
}

// #endregion helpers
