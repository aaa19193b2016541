package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/ledger"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		dbPath  string
		matchID string
		last    int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Read back recorded matches",
		Long: `List the most recent matches in the ledger, or show every round and
mood transition of one match with --match.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := stringFlag(cmd, "db", dbPath, a.cfg.DBPath)
			store, err := ledger.NewStore(path)
			if err != nil {
				return fmt.Errorf("open ledger %s: %w", path, err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if matchID == "" {
				recs, err := store.ListMatches(last)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(out, recs)
				}
				if len(recs) == 0 {
					fmt.Fprintln(out, "no matches recorded")
					return nil
				}
				printMatches(out, recs)
				return nil
			}

			rec, err := store.GetMatch(matchID)
			if err != nil {
				return err
			}
			rounds, err := store.ListRounds(matchID)
			if err != nil {
				return err
			}
			trs, err := store.Transitions(matchID)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(out, map[string]any{"match": rec, "rounds": rounds, "transitions": trs})
			}
			fmt.Fprintf(out, "Match %s vs %s: %d of %d rounds, score %d vs %d (switch at %d)\n\n",
				rec.MatchID, rec.Opponent, rec.Played, rec.TotalRounds, rec.MyScore, rec.TheirScore, rec.SwitchRound)
			printRoundTable(out, rounds, true)
			fmt.Fprintln(out, "\nTransitions:")
			if len(trs) == 0 {
				fmt.Fprintln(out, "  none")
			}
			for _, t := range trs {
				fmt.Fprintf(out, "  Round %d (%s): %s -> %s  %s\n", t.Round, t.Phase, t.FromMood, t.ToMood, t.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "ledger path (default from config)")
	cmd.Flags().StringVar(&matchID, "match", "", "show one match in detail")
	cmd.Flags().IntVar(&last, "last", 20, "number of recent matches to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}
