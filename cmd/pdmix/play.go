package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/eval"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/ledger"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/opponent"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

const defaultPattern = "CCDCDDCCDC"

func newPlayCmd(a *app) *cobra.Command {
	var (
		rounds  int
		pattern string
		against string
		record  bool
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game against a fixed pattern or a built-in opponent",
		Long: `Play one game and print every round.

The opponent is either a move pattern (C/D, wrapping around when shorter
than the game) or the name of a built-in opponent. Rounds default to the
pattern length.

Examples:
  pdmix play                                  # 10 rounds vs CCDCDDCCDC
  pdmix play --pattern "C,D" --rounds 20
  pdmix play --against tit-for-tat --rounds 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opp game.Opponent
			var total int
			if against != "" {
				o, err := opponent.ByName(against, a.cfg.Seed)
				if err != nil {
					return usageError{err}
				}
				opp = o
				total = intFlag(cmd, "rounds", rounds, a.cfg.Rounds)
			} else {
				moves, err := opponent.ParseMoves(pattern)
				if err != nil {
					return usageError{err}
				}
				opp = opponent.Pattern{Moves: moves, Label: "pattern " + opponent.FormatMoves(moves)}
				total = intFlag(cmd, "rounds", rounds, len(moves))
			}

			rep, err := playMatch(cmd, total, opp, a.cfg.Payoff)
			if err != nil {
				return err
			}
			if record {
				if err := a.record(rep); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, rep)
			}
			fmt.Fprintf(out, "Running a %d-round game against %s (switch at round %d)\n\n",
				total, opp.Name(), policy.SwitchRound(total))
			printRoundTable(out, rep.Rounds, false)
			printSummary(out, eval.Summarize(rep))
			if record {
				fmt.Fprintf(out, "\nRecorded match %s\n", rep.MatchID)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 0, "total rounds (default: pattern length, or config rounds with --against)")
	cmd.Flags().StringVar(&pattern, "pattern", defaultPattern, "opponent moves, e.g. CCD or C,C,D")
	cmd.Flags().StringVar(&against, "against", "", "built-in opponent name instead of a pattern")
	cmd.Flags().BoolVar(&record, "record", false, "save the match to the ledger")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output the match report as JSON")
	return cmd
}

func playMatch(cmd *cobra.Command, total int, opp game.Opponent, payoff game.Payoff) (game.Report, error) {
	if total < 2 {
		return game.Report{}, usagef("rounds must be >= 2, got %d", total)
	}
	m, err := game.NewMatch(game.MatchConfig{TotalRounds: total, Payoff: payoff, Opponent: opp.Name()})
	if err != nil {
		return game.Report{}, err
	}
	return game.Run(cmd.Context(), m, opp)
}

// record saves rep to the configured ledger.
func (a *app) record(rep game.Report) error {
	store, err := ledger.NewStore(a.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", a.cfg.DBPath, err)
	}
	defer store.Close()
	if err := store.SaveReport(rep); err != nil {
		return err
	}
	a.logger.Info("match recorded", "match_id", rep.MatchID, "db", a.cfg.DBPath)
	return nil
}
