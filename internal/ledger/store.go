// Package ledger records finished matches in SQLite for later inspection.
// It is an audit trail only; nothing reads a recorded match back into play.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/logging"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS matches (
	match_id      TEXT PRIMARY KEY,
	opponent      TEXT NOT NULL,
	total_rounds  INTEGER NOT NULL,
	switch_round  INTEGER NOT NULL,
	reward        INTEGER NOT NULL,
	temptation    INTEGER NOT NULL,
	sucker        INTEGER NOT NULL,
	punishment    INTEGER NOT NULL,
	played        INTEGER NOT NULL,
	my_score      INTEGER NOT NULL,
	their_score   INTEGER NOT NULL,
	started_at    TEXT NOT NULL,
	finished_at   TEXT
);

CREATE TABLE IF NOT EXISTS rounds (
	match_id      TEXT NOT NULL,
	round         INTEGER NOT NULL,
	phase         TEXT NOT NULL,
	mine          TEXT NOT NULL,
	theirs        TEXT NOT NULL,
	mood_before   TEXT NOT NULL,
	mood_after    TEXT NOT NULL,
	overridden    INTEGER NOT NULL DEFAULT 0,
	my_payoff     INTEGER NOT NULL,
	their_payoff  INTEGER NOT NULL,
	my_total      INTEGER NOT NULL,
	their_total   INTEGER NOT NULL,
	PRIMARY KEY (match_id, round),
	FOREIGN KEY (match_id) REFERENCES matches(match_id)
);
`

// #endregion schema

// #region store-struct
// Store manages recorded matches in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations. ":memory:" gives a
// throwaway store.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection: an in-memory database is per connection, and SQLite
	// serializes writers anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if _, err := db.Exec(logging.TransitionSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate transitions: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #region save-report
// SaveReport writes a match header, its rounds and its mood transitions in
// one transaction. Saving the same match twice replaces the earlier copy.
func (s *Store) SaveReport(rep game.Report) error {
	if rep.MatchID == "" {
		return fmt.Errorf("save report: empty match id")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM transition_log WHERE match_id = ?`,
		`DELETE FROM rounds WHERE match_id = ?`,
		`DELETE FROM matches WHERE match_id = ?`,
	} {
		if _, err := tx.Exec(q, rep.MatchID); err != nil {
			return fmt.Errorf("clear match %s: %w", rep.MatchID, err)
		}
	}

	var finished interface{}
	if !rep.FinishedAt.IsZero() {
		finished = rep.FinishedAt.Format(time.RFC3339Nano)
	}

	_, err = tx.Exec(
		`INSERT INTO matches (match_id, opponent, total_rounds, switch_round, reward, temptation, sucker, punishment,
		                      played, my_score, their_score, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.MatchID, rep.Opponent, rep.TotalRounds, rep.SwitchRound,
		rep.Payoff.Reward, rep.Payoff.Temptation, rep.Payoff.Sucker, rep.Payoff.Punishment, len(rep.Rounds),
		rep.MyScore, rep.TheirScore, rep.StartedAt.Format(time.RFC3339Nano), finished,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	for _, r := range rep.Rounds {
		_, err = tx.Exec(
			`INSERT INTO rounds (match_id, round, phase, mine, theirs, mood_before, mood_after, overridden,
			                     my_payoff, their_payoff, my_total, their_total)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rep.MatchID, r.Round, string(r.Phase), string(r.Mine), string(r.Theirs),
			string(r.MoodBefore), string(r.MoodAfter), boolToInt(r.Overridden),
			r.MyPayoff, r.TheirPayoff, r.MyTotal, r.TheirTotal,
		)
		if err != nil {
			return fmt.Errorf("insert round %d: %w", r.Round, err)
		}

		if r.MoodBefore == r.MoodAfter {
			continue
		}
		err = logging.LogTransition(tx, logging.TransitionEntry{
			MatchID:  rep.MatchID,
			Round:    r.Round,
			Phase:    string(r.Phase),
			FromMood: string(r.MoodBefore),
			ToMood:   string(r.MoodAfter),
			Reason:   transitionReason(r.Phase),
		})
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion save-report

// #region get-match
// GetMatch reads one match header.
func (s *Store) GetMatch(id string) (MatchRecord, error) {
	rec, err := scanMatch(s.db.QueryRow(
		`SELECT match_id, opponent, total_rounds, switch_round, reward, temptation, sucker, punishment,
		        played, my_score, their_score, started_at, finished_at
		 FROM matches WHERE match_id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return MatchRecord{}, fmt.Errorf("get match %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return MatchRecord{}, fmt.Errorf("get match %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get-match

// #region list-matches
// ListMatches returns the most recently started matches.
func (s *Store) ListMatches(limit int) ([]MatchRecord, error) {
	rows, err := s.db.Query(
		`SELECT match_id, opponent, total_rounds, switch_round, reward, temptation, sucker, punishment,
		        played, my_score, their_score, started_at, finished_at
		 FROM matches ORDER BY started_at DESC, match_id ASC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-matches

// #region list-rounds
// ListRounds returns the recorded rounds for a match in order.
func (s *Store) ListRounds(id string) ([]game.RoundResult, error) {
	if _, err := s.GetMatch(id); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT round, phase, mine, theirs, mood_before, mood_after, overridden,
		        my_payoff, their_payoff, my_total, their_total
		 FROM rounds WHERE match_id = ? ORDER BY round ASC`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var out []game.RoundResult
	for rows.Next() {
		var r game.RoundResult
		var phase, mine, theirs, before, after string
		var overridden int
		if err := rows.Scan(&r.Round, &phase, &mine, &theirs, &before, &after, &overridden,
			&r.MyPayoff, &r.TheirPayoff, &r.MyTotal, &r.TheirTotal); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		r.Phase = policy.Phase(phase)
		r.Mine = policy.Move(mine)
		r.Theirs = policy.Move(theirs)
		r.MoodBefore = policy.Mood(before)
		r.MoodAfter = policy.Mood(after)
		r.Overridden = overridden != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// Transitions returns the mood transitions logged for a match.
func (s *Store) Transitions(id string) ([]logging.TransitionEntry, error) {
	return logging.ListTransitions(s.db, id)
}

// #endregion list-rounds

// #region helpers
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (MatchRecord, error) {
	var rec MatchRecord
	var startedStr string
	var finishedStr sql.NullString
	err := row.Scan(&rec.MatchID, &rec.Opponent, &rec.TotalRounds, &rec.SwitchRound,
		&rec.Payoff.Reward, &rec.Payoff.Temptation, &rec.Payoff.Sucker, &rec.Payoff.Punishment, &rec.Played,
		&rec.MyScore, &rec.TheirScore, &startedStr, &finishedStr)
	if err != nil {
		return MatchRecord{}, err
	}
	rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
	if finishedStr.Valid {
		rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedStr.String)
	}
	return rec, nil
}

func transitionReason(p policy.Phase) string {
	switch p {
	case policy.PhaseEndgame:
		return "final rounds"
	case policy.PhaseSpiteful:
		return "two consecutive defections"
	}
	return ""
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
