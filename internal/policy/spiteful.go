package policy

import "fmt"

// Spiteful plays tit-for-tat until the opponent defects twice in a row, after
// which it defects for good. A Provoked mood short-circuits to defection
// without looking at history.
//
// It needs the opponent's previous move, so round must be at least 2 unless
// mood is already Provoked.
func Spiteful(theirs []Move, round int, mood Mood) (Move, Mood, error) {
	if !mood.Valid() {
		return "", "", fmt.Errorf("%w: mood %q", ErrInvalidArgument, string(mood))
	}
	if mood == Provoked {
		return Defect, Provoked, nil
	}
	if round < 2 {
		return "", "", fmt.Errorf("%w: spiteful play needs a previous round, got round %d", ErrInvalidArgument, round)
	}
	if err := checkHistory("opponent", theirs, round-1); err != nil {
		return "", "", err
	}
	move, next := spiteful(theirs, round, mood)
	return move, next, nil
}

// spiteful assumes validated input and round >= 2.
func spiteful(theirs []Move, round int, mood Mood) (Move, Mood) {
	if mood == Provoked {
		return Defect, Provoked
	}
	if round >= 3 && theirs[round-3] == Defect && theirs[round-2] == Defect {
		return Defect, Provoked
	}
	return theirs[round-2], Calm
}
