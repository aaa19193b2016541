package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/replay"
)

var errReplayMismatch = errors.New("replay mismatch")

func newReplayCmd(a *app) *cobra.Command {
	var (
		fixturePath string
		jsonOut     bool
	)
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a fixture and compare every round",
		Long: `Replay a JSON or YAML fixture through the policy and compare each
round's move and mood with the expectation. Exits 1 on any mismatch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fixturePath == "" {
				return usagef("--fixture is required")
			}
			f, err := replay.LoadFixture(fixturePath)
			if err != nil {
				return err
			}
			results, err := replay.Replay(f)
			if err != nil {
				return err
			}
			sum := replay.Summarize(f, results)
			a.logger.Debug("replay finished", "fixture", fixturePath, "checked", sum.Checked, "mismatched", sum.Mismatched)

			out := cmd.OutOrStdout()
			if jsonOut {
				if err := writeJSON(out, map[string]any{"results": results, "summary": sum}); err != nil {
					return err
				}
			} else {
				if f.Description != "" {
					fmt.Fprintf(out, "%s\n\n", f.Description)
				}
				fmt.Fprintf(out, "%5s | %-8s | %-6s | %-4s | %-8s | %s\n", "Round", "Phase", "Theirs", "Mine", "Mood", "Result")
				for _, r := range results {
					status := "-"
					switch {
					case r.Checked && r.Match:
						status = "ok"
					case r.Checked:
						status = "MISMATCH: " + r.Reason
					}
					mood := string(r.Mood)
					if r.Override {
						mood += "*"
					}
					fmt.Fprintf(out, "%5d | %-8s | %-6s | %-4s | %-8s | %s\n", r.Round, r.Phase, r.Theirs, r.Move, mood, status)
				}
				fmt.Fprintf(out, "\nChecked %d, matched %d, mismatched %d, overrides %d. Score %d vs %d.\n",
					sum.Checked, sum.Matched, sum.Mismatched, sum.Overrides, sum.MyScore, sum.TheirScore)
			}
			if !sum.Passed() {
				return fmt.Errorf("%w: %d of %d checked rounds", errReplayMismatch, sum.Mismatched, sum.Checked)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "path to fixture (.json, .yaml)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output results as JSON")
	return cmd
}
