package logging

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(TransitionSchema); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// #endregion helpers

// #region log-transition-tests
func TestLogTransition_Success(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	entry := TransitionEntry{
		MatchID:   "m1",
		Round:     7,
		Phase:     "spiteful",
		FromMood:  "calm",
		ToMood:    "provoked",
		Reason:    "two consecutive defections",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := LogTransition(db, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := ListTransitions(db, "m1")
	if err != nil {
		t.Fatalf("ListTransitions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].Round != 7 || got[0].ToMood != "provoked" || got[0].Reason != entry.Reason {
		t.Errorf("unexpected row %+v", got[0])
	}
	if !got[0].CreatedAt.Equal(entry.CreatedAt) {
		t.Errorf("created_at %v, want %v", got[0].CreatedAt, entry.CreatedAt)
	}
}

func TestLogTransition_ZeroCreatedAt(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	before := time.Now().UTC()
	err := LogTransition(db, TransitionEntry{MatchID: "m2", Round: 9, Phase: "endgame", FromMood: "calm", ToMood: "provoked"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var createdAtStr string
	db.QueryRow("SELECT created_at FROM transition_log").Scan(&createdAtStr)
	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		t.Fatalf("parse created_at: %v", err)
	}
	if createdAt.Before(before) {
		t.Error("expected auto-filled created_at to be >= test start time")
	}
}

func TestLogTransition_EmptyReasonIsNull(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	if err := LogTransition(db, TransitionEntry{MatchID: "m3", Round: 1, Phase: "gradual", FromMood: "calm", ToMood: "provoked"}); err != nil {
		t.Fatal(err)
	}
	var reason sql.NullString
	db.QueryRow("SELECT reason FROM transition_log").Scan(&reason)
	if reason.Valid {
		t.Error("expected NULL reason for empty string")
	}
}

func TestLogTransition_Error(t *testing.T) {
	db := setupDB(t)
	db.Close() // close to force error

	if err := LogTransition(db, TransitionEntry{MatchID: "m4"}); err == nil {
		t.Fatal("expected error on closed db")
	}
}

func TestListTransitions_OtherMatch(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	LogTransition(db, TransitionEntry{MatchID: "a", Round: 2, Phase: "spiteful", FromMood: "calm", ToMood: "provoked"})
	got, err := ListTransitions(db, "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows for other match, got %d", len(got))
	}
}

// #endregion log-transition-tests

// #region null-if-empty-tests
func TestNullIfEmpty(t *testing.T) {
	if nullIfEmpty("") != nil {
		t.Error("expected nil for empty string")
	}
	if nullIfEmpty("hello") != "hello" {
		t.Error("expected passthrough for non-empty string")
	}
}

// #endregion null-if-empty-tests
