package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/opponent"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// #region fixture-types

// Fixture is a recorded scenario: an opponent pattern, optional mood
// overrides applied by the driver, and the moves we expect back.
type Fixture struct {
	Description   string                  `json:"description" yaml:"description"`
	TotalRounds   int                     `json:"total_rounds" yaml:"total_rounds"` // 0 = pattern length
	Opponent      string                  `json:"opponent" yaml:"opponent"`         // e.g. "C,C,D,C"
	Payoff        *game.Payoff            `json:"payoff,omitempty" yaml:"payoff,omitempty"`
	MoodOverrides map[int]policy.Mood     `json:"mood_overrides,omitempty" yaml:"mood_overrides,omitempty"`
	Expected      []FixtureExpectedResult `json:"expected" yaml:"expected"`
}

// FixtureExpectedResult is the expected outcome for one round. An empty
// Mood is not checked.
type FixtureExpectedResult struct {
	Round int         `json:"round" yaml:"round"`
	Move  policy.Move `json:"move" yaml:"move"`
	Mood  policy.Mood `json:"mood,omitempty" yaml:"mood,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads a fixture file. .yaml and .yml are parsed as YAML,
// everything else as JSON.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

// Pattern parses the opponent moves.
func (f *Fixture) Pattern() ([]policy.Move, error) {
	return opponent.ParseMoves(f.Opponent)
}

// Rounds returns the game length, defaulting to the pattern length.
func (f *Fixture) Rounds() (int, error) {
	if f.TotalRounds > 0 {
		return f.TotalRounds, nil
	}
	p, err := f.Pattern()
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// Validate checks the fixture is internally consistent.
func (f *Fixture) Validate() error {
	pattern, err := f.Pattern()
	if err != nil {
		return err
	}
	total, _ := f.Rounds()
	if total < 2 {
		return fmt.Errorf("total rounds %d < 2", total)
	}
	if len(pattern) < total {
		return fmt.Errorf("opponent pattern has %d moves, need %d", len(pattern), total)
	}
	for round, mood := range f.MoodOverrides {
		if round < 1 || round > total {
			return fmt.Errorf("mood override at round %d outside [1, %d]", round, total)
		}
		if !mood.Valid() {
			return fmt.Errorf("mood override at round %d: invalid mood %q", round, string(mood))
		}
	}
	for _, e := range f.Expected {
		if e.Round < 1 || e.Round > total {
			return fmt.Errorf("expected result at round %d outside [1, %d]", e.Round, total)
		}
		if !e.Move.Valid() {
			return fmt.Errorf("expected result at round %d: invalid move %q", e.Round, string(e.Move))
		}
		if e.Mood != "" && !e.Mood.Valid() {
			return fmt.Errorf("expected result at round %d: invalid mood %q", e.Round, string(e.Mood))
		}
	}
	return nil
}

// #endregion fixture-loader
