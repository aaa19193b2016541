package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/ledger"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/opponent"
)

// run executes the root command with args against a throwaway ledger.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func useTempLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pdmix.db")
	t.Setenv("PDMIX_DB", path)
	return path
}

func TestPlay_DefaultPattern(t *testing.T) {
	useTempLedger(t)
	out, err := run(t, "play")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out, "Running a 10-round game") {
		t.Errorf("missing header in output:\n%s", out)
	}
	if !strings.Contains(out, "Cooperations: 4") {
		t.Errorf("expected 4 cooperations in summary:\n%s", out)
	}
}

func TestPlay_JSON(t *testing.T) {
	useTempLedger(t)
	out, err := run(t, "play", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var rep game.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	mine := make([]string, 0, len(rep.Rounds))
	for _, r := range rep.Rounds {
		mine = append(mine, string(r.Mine))
	}
	if got := strings.Join(mine, ""); got != "CCCDCDDDDD" {
		t.Errorf("moves %s, want CCCDCDDDDD", got)
	}
}

func TestPlay_Record(t *testing.T) {
	path := useTempLedger(t)
	if _, err := run(t, "play", "--pattern", "DDDD", "--record"); err != nil {
		t.Fatal(err)
	}
	store, err := ledger.NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	recs, err := store.ListMatches(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].TotalRounds != 4 {
		t.Errorf("unexpected recorded matches %+v", recs)
	}
}

func TestUsageErrors(t *testing.T) {
	useTempLedger(t)
	tests := []struct {
		name string
		args []string
	}{
		{"unknown-flag", []string{"play", "--bogus"}},
		{"bad-pattern", []string{"play", "--pattern", "CXD"}},
		{"unknown-opponent", []string{"play", "--against", "nobody"}},
		{"short-game", []string{"play", "--rounds", "1"}},
		{"replay-no-fixture", []string{"replay"}},
		{"sim-negative-rounds", []string{"sim", "--rounds", "-1", "--seed", "3"}},
		{"sim-short-game", []string{"sim", "--rounds", "1", "--seed", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := exitCode(err); code != exitUsage {
				t.Errorf("exit code %d, want %d (err: %v)", code, exitUsage, err)
			}
		})
	}
}

func TestReplay_Fixture(t *testing.T) {
	useTempLedger(t)
	out, err := run(t, "replay", "--fixture", filepath.Join("..", "..", "internal", "replay", "testdata", "mixed.json"))
	if err != nil {
		t.Fatalf("replay: %v\n%s", err, out)
	}
	if !strings.Contains(out, "mismatched 0") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestReplay_Mismatch(t *testing.T) {
	useTempLedger(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	body := `{"opponent": "C,C,C", "expected": [{"round": 1, "move": "D"}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "replay", "--fixture", path)
	if !errors.Is(err, errReplayMismatch) {
		t.Fatalf("expected errReplayMismatch, got %v", err)
	}
	if code := exitCode(err); code != exitRuntime {
		t.Errorf("exit code %d, want %d", code, exitRuntime)
	}
}

func TestSim_SeedIsDeterministic(t *testing.T) {
	useTempLedger(t)
	var moves [2]string
	for i := range moves {
		out, err := run(t, "sim", "--rounds", "30", "--seed", "7", "--json")
		if err != nil {
			t.Fatal(err)
		}
		var rep game.Report
		if err := json.Unmarshal([]byte(out), &rep); err != nil {
			t.Fatal(err)
		}
		if len(rep.Rounds) != 30 {
			t.Fatalf("got %d rounds, want 30", len(rep.Rounds))
		}
		var b strings.Builder
		for _, r := range rep.Rounds {
			b.WriteString(string(r.Theirs) + string(r.Mine))
		}
		moves[i] = b.String()
	}
	if moves[0] != moves[1] {
		t.Error("same seed produced different games")
	}
}

func TestSim_RoundsFromConfig(t *testing.T) {
	useTempLedger(t)
	cfgPath := filepath.Join(t.TempDir(), "pdmix.yaml")
	if err := os.WriteFile(cfgPath, []byte("rounds: 12\nseed: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--config", cfgPath, "sim", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var rep game.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.TotalRounds != 12 || len(rep.Rounds) != 12 {
		t.Errorf("got %d/%d rounds, want 12 from config", len(rep.Rounds), rep.TotalRounds)
	}
}

func TestTournamentThenInspect(t *testing.T) {
	path := useTempLedger(t)
	out, err := run(t, "tournament", "--games", "2", "--workers", "3", "--opponent", "always-defect,tit-for-tat")
	if err != nil {
		t.Fatalf("tournament: %v", err)
	}
	if !strings.Contains(out, "4 games of 10 rounds") || !strings.Contains(out, "tit-for-tat") {
		t.Errorf("unexpected tournament output:\n%s", out)
	}

	out, err = run(t, "inspect", "--db", path, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var recs []ledger.MatchRecord
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected 4 recorded matches, got %d", len(recs))
	}

	out, err = run(t, "inspect", "--db", path, "--match", recs[0].MatchID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Transitions:") {
		t.Errorf("unexpected detail output:\n%s", out)
	}
}

func TestInspect_UnknownMatch(t *testing.T) {
	useTempLedger(t)
	_, err := run(t, "inspect", "--match", "missing")
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSelectEntrants(t *testing.T) {
	all, err := selectEntrants(nil)
	if err != nil || len(all) != len(opponent.Names()) {
		t.Fatalf("selectEntrants(nil) = %d entrants, %v", len(all), err)
	}
	if _, err := selectEntrants([]string{"nobody"}); err == nil {
		t.Error("expected error for unknown opponent")
	}
}

func TestExport_RoundTrip(t *testing.T) {
	path := useTempLedger(t)
	if _, err := run(t, "play", "--pattern", "CDDCCDDCCC", "--record"); err != nil {
		t.Fatal(err)
	}
	store, err := ledger.NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	recs, err := store.ListMatches(1)
	store.Close()
	if err != nil || len(recs) != 1 {
		t.Fatalf("ListMatches: %v (%d)", err, len(recs))
	}

	fixture := filepath.Join(t.TempDir(), "exported.yaml")
	if _, err := run(t, "export", "--match", recs[0].MatchID, "--out", fixture); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := run(t, "replay", "--fixture", fixture); err != nil {
		t.Fatalf("replay of exported fixture: %v", err)
	}
}
