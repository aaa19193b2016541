package ledger

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
)

// MatchRecord is the header row of a recorded match.
type MatchRecord struct {
	MatchID     string      `json:"match_id"`
	Opponent    string      `json:"opponent"`
	TotalRounds int         `json:"total_rounds"`
	SwitchRound int         `json:"switch_round"`
	Payoff      game.Payoff `json:"payoff"`
	Played      int         `json:"played"`
	MyScore     int         `json:"my_score"`
	TheirScore  int         `json:"their_score"`
	StartedAt   time.Time   `json:"started_at"`
	FinishedAt  time.Time   `json:"finished_at,omitzero"`
}

// ErrNotFound is returned when a match ID has no recorded row.
var ErrNotFound = errors.New("not found")
