package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/config"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/logging"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfgPath string
	cfg     config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pdmix",
		Short: "Mixed Gradual / Spiteful Prisoner's Dilemma policy",
		Long: `pdmix drives the mixed iterated Prisoner's Dilemma policy.

The policy plays Gradual for the first 70% of a game, then Spiteful, and
always defects in the last two rounds.

Examples:
  pdmix play --pattern CCDCDDCCDC      # 10-round game against a fixed pattern
  pdmix sim --rounds 100 --seed 7      # random opponent, full round table
  pdmix replay --fixture mixed.json    # check a fixture, exit 1 on mismatch
  pdmix tournament --games 50          # all built-in opponents, concurrently
  pdmix serve                          # gRPC decision service + /metrics
  pdmix inspect --match <id>           # read back a recorded match
  pdmix export --match <id> --out f.yaml  # turn a recorded match into a fixture

Exit Codes:
  0 = Success
  1 = Runtime failure or replay mismatch
  2 = Usage error`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return usageError{err}
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return usageError{err}
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to a YAML config file")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	root.AddCommand(
		newPlayCmd(a),
		newSimCmd(a),
		newReplayCmd(a),
		newTournamentCmd(a),
		newServeCmd(a),
		newInspectCmd(a),
		newExportCmd(a),
	)
	return root
}

// intFlag returns the flag value when it was set, otherwise fallback.
func intFlag(cmd *cobra.Command, name string, v, fallback int) int {
	if cmd.Flags().Changed(name) {
		return v
	}
	return fallback
}

func stringFlag(cmd *cobra.Command, name, v, fallback string) string {
	if cmd.Flags().Changed(name) {
		return v
	}
	return fallback
}
