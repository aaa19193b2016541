package policy

import (
	"errors"
	"testing"
)

// runGradual plays Gradual alone against a pattern.
func runGradual(t *testing.T, pattern string) string {
	t.Helper()
	theirs := moves(pattern)
	var mine []Move
	for round := 1; round <= len(theirs); round++ {
		m, err := Gradual(mine, theirs, round)
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		mine = append(mine, m)
	}
	return string(joinMoves(mine))
}

func TestGradual_IsolatedDefection(t *testing.T) {
	// Defection at round 3 is punished once at round 4.
	got := runGradual(t, "CCDCCCC")
	if want := "CCCDCCC"; got != want {
		t.Errorf("moves %s, want %s", got, want)
	}
}

func TestGradual_PunishmentScaling(t *testing.T) {
	// Defections at 3, 7, 8. The burst after the third defection covers
	// rounds 9-11, three rounds for three total defections.
	got := runGradual(t, "CCDCCCDDCCCCCCC")
	if want := "CCCDCCCDDDDCCCC"; got != want {
		t.Errorf("moves %s, want %s", got, want)
	}
}

func TestGradual_BurstLengthMatchesTotal(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		// second isolated defection: total 2, burst of 2 after it
		{"two", "CDCCCDCCCC", "CCDCCCDDCC"},
		// third isolated defection: total 3
		{"three", "DCCCDCCCCDCCCCCC", "CDCCCDDCCCDDDCCC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runGradual(t, tt.pattern); got != tt.want {
				t.Errorf("moves %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGradual_NeverDefectedCooperates(t *testing.T) {
	if got := runGradual(t, "CCCCCC"); got != "CCCCCC" {
		t.Errorf("moves %s, want all C", got)
	}
}

func TestGradual_Errors(t *testing.T) {
	if _, err := Gradual(nil, nil, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("round 0: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Gradual(moves("C"), moves("CC"), 3); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("short own history: expected ErrInvalidArgument, got %v", err)
	}
}

func TestSpiteful_Standalone(t *testing.T) {
	tests := []struct {
		name     string
		theirs   string
		round    int
		mood     Mood
		wantMove Move
		wantMood Mood
	}{
		{"provoked-ignores-history", "", 1, Provoked, Defect, Provoked},
		{"round2-mirrors-c", "C", 2, Calm, Cooperate, Calm},
		{"round2-mirrors-d", "D", 2, Calm, Defect, Calm},
		{"single-defect-mirrors", "CD", 3, Calm, Defect, Calm},
		{"double-defect-provokes", "DD", 3, Calm, Defect, Provoked},
		{"recovered-cooperation", "DDC", 4, Calm, Cooperate, Calm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, mood, err := Spiteful(moves(tt.theirs), tt.round, tt.mood)
			if err != nil {
				t.Fatal(err)
			}
			if m != tt.wantMove || mood != tt.wantMood {
				t.Errorf("got (%s, %s), want (%s, %s)", m, mood, tt.wantMove, tt.wantMood)
			}
		})
	}
}

func TestSpiteful_RoundOneNeedsHistory(t *testing.T) {
	_, _, err := Spiteful(nil, 1, Calm)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
