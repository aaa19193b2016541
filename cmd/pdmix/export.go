package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/ledger"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/replay"
)

func newExportCmd(a *app) *cobra.Command {
	var dbPath, matchID, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a recorded match as a replay fixture",
		Long: `Write a recorded match as a fixture whose expectations are the moves
and moods that were played. The format follows the --out extension
(.yaml/.yml or JSON).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if matchID == "" || outPath == "" {
				return usagef("--match and --out are required")
			}
			path := stringFlag(cmd, "db", dbPath, a.cfg.DBPath)
			store, err := ledger.NewStore(path)
			if err != nil {
				return fmt.Errorf("open ledger %s: %w", path, err)
			}
			defer store.Close()

			rec, err := store.GetMatch(matchID)
			if err != nil {
				return err
			}
			rounds, err := store.ListRounds(matchID)
			if err != nil {
				return err
			}
			desc := fmt.Sprintf("match %s vs %s", rec.MatchID, rec.Opponent)
			f, err := replay.FromRounds(desc, rec.TotalRounds, rec.Payoff, rounds)
			if err != nil {
				return err
			}
			if err := f.Save(outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d-round fixture to %s\n", rec.TotalRounds, outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "ledger path (default from config)")
	cmd.Flags().StringVar(&matchID, "match", "", "match to export")
	cmd.Flags().StringVar(&outPath, "out", "", "output fixture path")
	return cmd
}
