// Package opponent provides move sources for the other side of a match.
package opponent

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"unicode"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// #region fixed-bots

type AlwaysCooperate struct{}

func (AlwaysCooperate) Name() string { return "always-cooperate" }

func (AlwaysCooperate) Next(int, []policy.Move, []policy.Move) policy.Move {
	return policy.Cooperate
}

type AlwaysDefect struct{}

func (AlwaysDefect) Name() string { return "always-defect" }

func (AlwaysDefect) Next(int, []policy.Move, []policy.Move) policy.Move {
	return policy.Defect
}

// TitForTat cooperates first, then copies our previous move.
type TitForTat struct{}

func (TitForTat) Name() string { return "tit-for-tat" }

func (TitForTat) Next(round int, _, other []policy.Move) policy.Move {
	if round == 1 || len(other) < round-1 {
		return policy.Cooperate
	}
	return other[round-2]
}

// #endregion fixed-bots

// #region pattern
// Pattern replays a fixed move sequence, wrapping around if the match is
// longer than the sequence.
type Pattern struct {
	Moves []policy.Move
	Label string
}

func (p Pattern) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return "pattern"
}

func (p Pattern) Next(round int, _, _ []policy.Move) policy.Move {
	if len(p.Moves) == 0 {
		return policy.Cooperate
	}
	return p.Moves[(round-1)%len(p.Moves)]
}

// ParseMoves reads moves like "C,C,D" or "C C D" or "CCD". Case-insensitive.
func ParseMoves(s string) ([]policy.Move, error) {
	var out []policy.Move
	for i, r := range s {
		if r == ',' || unicode.IsSpace(r) {
			continue
		}
		m := policy.Move(strings.ToUpper(string(r)))
		if !m.Valid() {
			return nil, fmt.Errorf("parse moves: invalid move %q at offset %d", string(r), i)
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("parse moves: empty pattern")
	}
	return out, nil
}

// FormatMoves renders a history as "CCD".
func FormatMoves(h []policy.Move) string {
	var b strings.Builder
	for _, m := range h {
		b.WriteString(string(m))
	}
	return b.String()
}

// #endregion pattern

// #region random
// Random cooperates with a fixed probability. Each instance owns its source
// so independent games never share random state.
type Random struct {
	CoopProb float64
	rng      *rand.Rand
}

// NewRandom returns a Random opponent seeded deterministically.
func NewRandom(coopProb float64, seed uint64) *Random {
	return &Random{
		CoopProb: coopProb,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (r *Random) Name() string { return fmt.Sprintf("random-%.2f", r.CoopProb) }

func (r *Random) Next(int, []policy.Move, []policy.Move) policy.Move {
	if r.rng.Float64() < r.CoopProb {
		return policy.Cooperate
	}
	return policy.Defect
}

// CoopRate draws a cooperation probability uniformly from [lo, hi).
func CoopRate(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Sequence draws a full n-round pattern from r, the way the simulator
// pre-generates its opponent. n <= 0 yields an empty pattern.
func (r *Random) Sequence(n int) []policy.Move {
	if n <= 0 {
		return []policy.Move{}
	}
	out := make([]policy.Move, n)
	for i := range out {
		out[i] = r.Next(i+1, nil, nil)
	}
	return out
}

// #endregion random

// #region registry

// Opponent is the interface every source here satisfies; it mirrors
// game.Opponent so this package stays free of the driver.
type Opponent interface {
	Name() string
	Next(round int, own, other []policy.Move) policy.Move
}

var builtins = map[string]func(seed uint64) Opponent{
	"always-cooperate": func(uint64) Opponent { return AlwaysCooperate{} },
	"always-defect":    func(uint64) Opponent { return AlwaysDefect{} },
	"tit-for-tat":      func(uint64) Opponent { return TitForTat{} },
	"random":           func(seed uint64) Opponent { return named{NewRandom(0.5, seed), "random"} },
	"mostly-cooperate": func(seed uint64) Opponent { return named{NewRandom(0.9, seed), "mostly-cooperate"} },
	"often-defect":     func(seed uint64) Opponent { return named{NewRandom(2.0/3.0, seed), "often-defect"} },
}

// ByName builds a built-in opponent. seed only matters for random ones.
func ByName(name string, seed uint64) (Opponent, error) {
	mk, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown opponent %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return mk(seed), nil
}

// Names lists the built-in opponents in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type named struct {
	Opponent
	label string
}

func (n named) Name() string { return n.label }

// #endregion registry
