package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/ledger"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/metrics"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/tournament"
)

func newTournamentCmd(a *app) *cobra.Command {
	var (
		rounds   int
		games    int
		workers  int
		dbPath   string
		noRecord bool
		only     []string
		jsonOut  bool
	)
	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Play many independent games against the built-in opponents",
		Long: `Play --games games against every built-in opponent (or the ones named
with --opponent) on --workers goroutines. Each game has its own match state
and its own seeded opponent, so results do not depend on the worker count.
Every match is recorded in the ledger unless --no-record is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := tournament.DefaultConfig()
			cfg.Rounds = intFlag(cmd, "rounds", rounds, a.cfg.Rounds)
			cfg.Games = intFlag(cmd, "games", games, a.cfg.Games)
			cfg.Workers = intFlag(cmd, "workers", workers, a.cfg.Workers)
			cfg.Seed = a.cfg.Seed
			cfg.Payoff = a.cfg.Payoff
			cfg.Logger = a.logger
			cfg.Metrics = metrics.New(prometheus.NewRegistry())

			entrants, err := selectEntrants(only)
			if err != nil {
				return usageError{err}
			}

			var rec tournament.Recorder
			path := stringFlag(cmd, "db", dbPath, a.cfg.DBPath)
			if !noRecord {
				store, err := ledger.NewStore(path)
				if err != nil {
					return fmt.Errorf("open ledger %s: %w", path, err)
				}
				defer store.Close()
				rec = store
			}

			res, err := tournament.Run(cmd.Context(), cfg, entrants, rec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, res)
			}
			fmt.Fprintf(out, "%d games of %d rounds on %d workers\n\n", res.Games, cfg.Rounds, cfg.Workers)
			fmt.Fprintf(out, "%-18s | %5s | %4s | %4s | %4s | %7s | %7s | %5s\n",
				"Opponent", "Games", "W", "L", "D", "Avg me", "Avg them", "Coop")
			fmt.Fprintln(out, strings.Repeat("-", 80))
			for _, s := range res.Standings {
				fmt.Fprintf(out, "%-18s | %5d | %4d | %4d | %4d | %7.2f | %7.2f | %5.2f\n",
					s.Opponent, s.Games, s.Wins, s.Losses, s.Draws, s.AvgMyScore, s.AvgTheirScore, s.CoopRate)
			}
			if rec != nil {
				fmt.Fprintf(out, "\nRecorded %d matches in %s\n", res.Games, path)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 0, "rounds per game (default from config)")
	cmd.Flags().IntVar(&games, "games", 0, "games per opponent (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent games (default from config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "ledger path (default from config)")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "do not write matches to the ledger")
	cmd.Flags().StringSliceVar(&only, "opponent", nil, "restrict to these built-in opponents")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output standings as JSON")
	return cmd
}

func selectEntrants(names []string) ([]tournament.Entrant, error) {
	all := tournament.Builtins()
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]tournament.Entrant, len(all))
	for _, e := range all {
		byName[e.Name] = e
	}
	out := make([]tournament.Entrant, 0, len(names))
	for _, n := range names {
		e, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown opponent %q", n)
		}
		out = append(out, e)
	}
	return out, nil
}
