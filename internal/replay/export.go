package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// #region fixture-export

// FromRounds turns a complete recorded match into a fixture whose
// expectations are the moves and moods that were actually played. Rounds
// whose incoming mood was set by the caller become mood overrides, and the
// match payoff is kept so replayed scores agree with the recording.
func FromRounds(description string, total int, payoff game.Payoff, rounds []game.RoundResult) (*Fixture, error) {
	if len(rounds) != total {
		return nil, fmt.Errorf("export fixture: match has %d of %d rounds", len(rounds), total)
	}
	f := &Fixture{
		Description: description,
		TotalRounds: total,
		Payoff:      &payoff,
		Expected:    make([]FixtureExpectedResult, 0, total),
	}
	theirs := make([]string, 0, total)
	for i, r := range rounds {
		if r.Round != i+1 {
			return nil, fmt.Errorf("export fixture: round %d out of order at index %d", r.Round, i)
		}
		theirs = append(theirs, string(r.Theirs))
		if r.Overridden {
			if f.MoodOverrides == nil {
				f.MoodOverrides = make(map[int]policy.Mood)
			}
			f.MoodOverrides[r.Round] = r.MoodBefore
		}
		f.Expected = append(f.Expected, FixtureExpectedResult{Round: r.Round, Move: r.Mine, Mood: r.MoodAfter})
	}
	f.Opponent = strings.Join(theirs, ",")
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("export fixture: %w", err)
	}
	return f, nil
}

// Save writes the fixture as YAML for .yaml/.yml paths and JSON otherwise.
func (f *Fixture) Save(path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(f)
	default:
		data, err = json.MarshalIndent(f, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-export
