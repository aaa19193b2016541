package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/eval"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/game"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/ledger"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// #region round-table
func printRoundTable(w io.Writer, rounds []game.RoundResult, scores bool) {
	if scores {
		fmt.Fprintf(w, "%5s | %-8s | %-4s | %-8s | %-6s | %4s | %4s | %6s | %6s\n",
			"Round", "Phase", "Mine", "Mood", "Theirs", "Me", "Them", "Total", "Total")
		fmt.Fprintln(w, strings.Repeat("-", 72))
	} else {
		fmt.Fprintf(w, "%5s | %-8s | %-4s | %-8s | %-6s\n", "Round", "Phase", "Mine", "Mood", "Theirs")
		fmt.Fprintln(w, strings.Repeat("-", 45))
	}
	for _, r := range rounds {
		mark := ""
		if r.Overridden {
			mark = "*"
		}
		if scores {
			fmt.Fprintf(w, "%5d | %-8s | %-4s | %-8s | %-6s | %4d | %4d | %6d | %6d\n",
				r.Round, r.Phase, r.Mine, string(r.MoodAfter)+mark, r.Theirs,
				r.MyPayoff, r.TheirPayoff, r.MyTotal, r.TheirTotal)
		} else {
			fmt.Fprintf(w, "%5d | %-8s | %-4s | %-8s | %-6s\n", r.Round, r.Phase, r.Mine, string(r.MoodAfter)+mark, r.Theirs)
		}
	}
}

// #endregion round-table

// #region summary
func printSummary(w io.Writer, s eval.Summary) {
	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "  Cooperations: %d (%.2f)\n", s.Cooperations, s.CoopRate())
	fmt.Fprintf(w, "  Defections:   %d (%.2f)\n", s.Defections, 1-s.CoopRate())
	fmt.Fprintf(w, "  Score:        %d vs %d (%s)\n", s.MyScore, s.TheirScore, s.Outcome())
}

func printTransitions(w io.Writer, trs []eval.Transition) {
	fmt.Fprintln(w, "\nMood changes:")
	if len(trs) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	for _, t := range trs {
		fmt.Fprintf(w, "  Round %d: %s -> %s\n", t.Round, t.From, t.To)
	}
}

func printPhases(w io.Writer, s eval.Summary) {
	fmt.Fprintln(w, "\nPhase analysis:")
	for _, p := range []policy.Phase{policy.PhaseGradual, policy.PhaseSpiteful, policy.PhaseEndgame} {
		ps := s.Phase(p)
		if ps.Rounds() == 0 {
			fmt.Fprintf(w, "  %-8s (not reached)\n", p)
			continue
		}
		fmt.Fprintf(w, "  %-8s rounds %d-%d: %d C / %d D (coop %.2f)\n",
			p, ps.FirstRound, ps.LastRound, ps.Cooperations, ps.Defections, ps.CoopRate())
	}
}

// #endregion summary

// #region matches
func printMatches(w io.Writer, recs []ledger.MatchRecord) {
	fmt.Fprintf(w, "%-36s | %-18s | %6s | %5s | %5s | %s\n", "Match", "Opponent", "Rounds", "Me", "Them", "Started")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range recs {
		fmt.Fprintf(w, "%-36s | %-18s | %3d/%-2d | %5d | %5d | %s\n",
			r.MatchID, truncate(r.Opponent, 18), r.Played, r.TotalRounds, r.MyScore, r.TheirScore,
			r.StartedAt.Format("2006-01-02 15:04:05"))
	}
}

// #endregion matches

// #region helpers
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// #endregion helpers
