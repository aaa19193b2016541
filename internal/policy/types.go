package policy

import "errors"

// #region move
// Move is one player's action in a single round.
type Move string

const (
	Cooperate Move = "C"
	Defect    Move = "D"
)

// Valid reports whether m is one of the two defined moves.
func (m Move) Valid() bool {
	return m == Cooperate || m == Defect
}

// #endregion move

// #region mood
// Mood is the one-bit state carried between rounds. Provoked is sticky.
type Mood string

const (
	Calm     Mood = "calm"
	Provoked Mood = "provoked"
)

// Valid reports whether m is one of the two defined moods.
func (m Mood) Valid() bool {
	return m == Calm || m == Provoked
}

// #endregion mood

// #region phase
// Phase names the part of the game a round falls in.
type Phase string

const (
	PhaseGradual  Phase = "gradual"
	PhaseSpiteful Phase = "spiteful"
	PhaseEndgame  Phase = "endgame"
)

// #endregion phase

// #region decision
// Decision is the policy output for one round: the move to play, the mood to
// thread into the next call, and the phase that produced them.
type Decision struct {
	Move  Move
	Mood  Mood
	Phase Phase
}

// #endregion decision

// ErrInvalidArgument is wrapped by every precondition failure.
var ErrInvalidArgument = errors.New("invalid argument")
