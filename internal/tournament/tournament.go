// Package tournament plays many independent matches concurrently. Every game
// owns its Match and its opponent instance; nothing mutable is shared between
// goroutines except the optional Recorder and Metrics, which must be safe
// for concurrent use.
package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/eval"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/logging"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/metrics"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/opponent"
)

// #region types

// Entrant builds a fresh opponent for each game. seed is unique per game.
type Entrant struct {
	Name string
	New  func(seed uint64) game.Opponent
}

// Recorder persists finished matches. *ledger.Store satisfies it.
type Recorder interface {
	SaveReport(rep game.Report) error
}

// Config controls a tournament run.
type Config struct {
	Rounds  int
	Games   int // games per entrant
	Workers int
	Seed    uint64
	Payoff  game.Payoff
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// DefaultConfig returns 10 games of 10 rounds per entrant on 4 workers.
func DefaultConfig() Config {
	return Config{
		Rounds:  10,
		Games:   10,
		Workers: 4,
		Seed:    1,
		Payoff:  game.DefaultPayoff(),
	}
}

// Standing aggregates our results against one opponent.
type Standing struct {
	Opponent      string  `json:"opponent"`
	Games         int     `json:"games"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	MyScore       int     `json:"my_score"`
	TheirScore    int     `json:"their_score"`
	AvgMyScore    float64 `json:"avg_my_score"`
	AvgTheirScore float64 `json:"avg_their_score"`
	CoopRate      float64 `json:"coop_rate"`
}

// Result is the outcome of a run. Standings are sorted by opponent name.
type Result struct {
	Games     int        `json:"games"`
	Standings []Standing `json:"standings"`
}

// #endregion types

// #region builtins

// Builtins returns an entrant for every built-in opponent.
func Builtins() []Entrant {
	names := opponent.Names()
	out := make([]Entrant, 0, len(names))
	for _, name := range names {
		out = append(out, Entrant{
			Name: name,
			New: func(seed uint64) game.Opponent {
				opp, _ := opponent.ByName(name, seed)
				return opp
			},
		})
	}
	return out
}

// #endregion builtins

// #region run

type job struct {
	entrant int
	index   int
	seed    uint64
}

// Run plays cfg.Games matches against each entrant. rec may be nil. The
// first error cancels the remaining games.
func Run(ctx context.Context, cfg Config, entrants []Entrant, rec Recorder) (Result, error) {
	if err := validate(cfg, entrants); err != nil {
		return Result{}, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	jobs := make([]job, 0, len(entrants)*cfg.Games)
	for e := range entrants {
		for g := 0; g < cfg.Games; g++ {
			jobs = append(jobs, job{entrant: e, index: g, seed: gameSeed(cfg.Seed, len(jobs))})
		}
	}
	reports := make([]game.Report, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			ent := entrants[j.entrant]
			m, err := game.NewMatch(game.MatchConfig{
				TotalRounds: cfg.Rounds,
				Payoff:      cfg.Payoff,
				Opponent:    ent.Name,
			})
			if err != nil {
				return err
			}
			rep, err := game.Run(gctx, m, ent.New(j.seed))
			if err != nil {
				return err
			}
			if rec != nil {
				if err := rec.SaveReport(rep); err != nil {
					return fmt.Errorf("record match %s: %w", rep.MatchID, err)
				}
			}
			cfg.Metrics.ObserveReport(rep)
			logger.Debug("match finished",
				"match_id", rep.MatchID, "opponent", ent.Name, "game", j.index+1,
				"my_score", rep.MyScore, "their_score", rep.TheirScore)
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("tournament: %w", err)
	}

	res := aggregate(entrants, jobs, reports)
	logger.Info("tournament finished", "games", res.Games, "entrants", len(entrants))
	return res, nil
}

// #endregion run

// #region helpers

func validate(cfg Config, entrants []Entrant) error {
	switch {
	case cfg.Rounds < 2:
		return fmt.Errorf("tournament: rounds %d < 2", cfg.Rounds)
	case cfg.Games < 1:
		return fmt.Errorf("tournament: games %d < 1", cfg.Games)
	case cfg.Workers < 1:
		return fmt.Errorf("tournament: workers %d < 1", cfg.Workers)
	case len(entrants) == 0:
		return fmt.Errorf("tournament: no entrants")
	}
	for _, e := range entrants {
		if e.Name == "" || e.New == nil {
			return fmt.Errorf("tournament: entrant %q is incomplete", e.Name)
		}
	}
	return nil
}

// gameSeed spreads game indices over the seed space (splitmix64 finalizer).
func gameSeed(base uint64, i int) uint64 {
	z := base + uint64(i+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func aggregate(entrants []Entrant, jobs []job, reports []game.Report) Result {
	byName := make(map[string]*Standing, len(entrants))
	coops := make(map[string]int)
	moves := make(map[string]int)
	for i, j := range jobs {
		name := entrants[j.entrant].Name
		st, ok := byName[name]
		if !ok {
			st = &Standing{Opponent: name}
			byName[name] = st
		}
		sum := eval.Summarize(reports[i])
		st.Games++
		st.MyScore += sum.MyScore
		st.TheirScore += sum.TheirScore
		switch sum.Outcome() {
		case "win":
			st.Wins++
		case "loss":
			st.Losses++
		default:
			st.Draws++
		}
		coops[name] += sum.Cooperations
		moves[name] += sum.Rounds
	}

	res := Result{Games: len(jobs)}
	for name, st := range byName {
		st.AvgMyScore = float64(st.MyScore) / float64(st.Games)
		st.AvgTheirScore = float64(st.TheirScore) / float64(st.Games)
		if moves[name] > 0 {
			st.CoopRate = float64(coops[name]) / float64(moves[name])
		}
		res.Standings = append(res.Standings, *st)
	}
	sort.Slice(res.Standings, func(a, b int) bool {
		return res.Standings[a].Opponent < res.Standings[b].Opponent
	})
	return res
}

// #endregion helpers
