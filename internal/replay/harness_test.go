package replay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

func TestReplay_Fixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no fixtures found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			f, err := LoadFixture(path)
			if err != nil {
				t.Fatalf("LoadFixture: %v", err)
			}
			results, err := Replay(f)
			if err != nil {
				t.Fatalf("Replay: %v", err)
			}
			for _, r := range results {
				if !r.Match {
					t.Errorf("round %d: %s", r.Round, r.Reason)
				}
			}
			s := Summarize(f, results)
			if !s.Passed() {
				t.Errorf("summary: %d mismatched", s.Mismatched)
			}
			if s.Checked != len(f.Expected) {
				t.Errorf("checked %d rounds, fixture expects %d", s.Checked, len(f.Expected))
			}
		})
	}
}

func TestReplay_DetectsMismatch(t *testing.T) {
	f := &Fixture{
		Opponent: "CCCC",
		Expected: []FixtureExpectedResult{
			{Round: 1, Move: policy.Defect},
			{Round: 3, Move: policy.Defect, Mood: policy.Calm},
		},
	}
	results, err := Replay(f)
	if err != nil {
		t.Fatal(err)
	}
	s := Summarize(f, results)
	if s.Mismatched != 2 {
		t.Fatalf("expected 2 mismatches, got %d", s.Mismatched)
	}
	// round 3 is endgame at T=4, so the mood check fails after the move matches
	if !strings.Contains(results[2].Reason, "mood") {
		t.Errorf("round 3 reason %q, want mood mismatch", results[2].Reason)
	}
}

func TestReplay_OverrideCounted(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "manual_provoked.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	results, err := Replay(f)
	if err != nil {
		t.Fatal(err)
	}
	if !results[7].Override {
		t.Error("round 8 should be marked as overridden")
	}
	if s := Summarize(f, results); s.Overrides != 1 {
		t.Errorf("overrides %d, want 1", s.Overrides)
	}
}

func TestFixtureValidate(t *testing.T) {
	tests := []struct {
		name string
		f    Fixture
	}{
		{"bad-pattern", Fixture{Opponent: "CCX"}},
		{"too-short", Fixture{Opponent: "C"}},
		{"pattern-shorter-than-total", Fixture{Opponent: "CCC", TotalRounds: 5}},
		{"override-out-of-range", Fixture{Opponent: "CCC", MoodOverrides: map[int]policy.Mood{4: policy.Provoked}}},
		{"override-bad-mood", Fixture{Opponent: "CCC", MoodOverrides: map[int]policy.Mood{2: "angry"}}},
		{"expected-bad-move", Fixture{Opponent: "CCC", Expected: []FixtureExpectedResult{{Round: 1, Move: "X"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.f.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadFixture_Errors(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFixture(bad); err == nil {
		t.Error("expected parse error")
	}
}
