package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region schema
// TransitionSchema creates the transition_log table. The ledger runs it
// as part of its migrations.
const TransitionSchema = `
CREATE TABLE IF NOT EXISTS transition_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	match_id    TEXT NOT NULL,
	round       INTEGER NOT NULL,
	phase       TEXT NOT NULL,
	from_mood   TEXT NOT NULL,
	to_mood     TEXT NOT NULL,
	reason      TEXT,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// #region log-transition
// LogTransition writes a mood transition to the transition_log table.
func LogTransition(db Execer, entry TransitionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO transition_log (match_id, round, phase, from_mood, to_mood, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.MatchID,
		entry.Round,
		entry.Phase,
		entry.FromMood,
		entry.ToMood,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log transition: %w", err)
	}
	return nil
}

// #endregion log-transition

// #region list-transitions
// ListTransitions returns the transitions logged for a match in round order.
func ListTransitions(db Querier, matchID string) ([]TransitionEntry, error) {
	rows, err := db.Query(
		`SELECT match_id, round, phase, from_mood, to_mood, reason, created_at
		 FROM transition_log WHERE match_id = ? ORDER BY round ASC, id ASC`, matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var out []TransitionEntry
	for rows.Next() {
		var e TransitionEntry
		var reason sql.NullString
		var createdStr string
		if err := rows.Scan(&e.MatchID, &e.Round, &e.Phase, &e.FromMood, &e.ToMood, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		if reason.Valid {
			e.Reason = reason.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list-transitions

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
