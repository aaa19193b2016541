package logging

import "time"

// #region transition-entry
// TransitionEntry is a single row in the transition_log table: one mood
// change produced by the policy during a recorded match.
type TransitionEntry struct {
	MatchID   string
	Round     int
	Phase     string // phase that produced the change
	FromMood  string
	ToMood    string
	Reason    string
	CreatedAt time.Time
}

// #endregion transition-entry
