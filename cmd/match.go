package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sells-group/employer-resolve/internal/match"
)

var matchThreshold float64

// matchOutput is the full pairwise comparison report for two names.
type matchOutput struct {
	Keys    []match.MatchResult `json:"keys"`
	Scores  []match.MatchResult `json:"scores"`
	Hybrid  bool                `json:"hybrid"`
	Blocked bool                `json:"blocking_candidates"`
}

var matchCmd = &cobra.Command{
	Use:   "match <name-a> <name-b>",
	Short: "Compare two employer names with every matching strategy",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, b := args[0], args[1]

		threshold := matchThreshold
		if threshold <= 0 {
			threshold = cfg.Match.Threshold
		}

		out := matchOutput{
			Hybrid:  match.HybridMatch(a, b, threshold),
			Blocked: match.AreBlockingCandidates(a, b, matchConfig()),
		}
		for _, gen := range match.KeyGenerators() {
			out.Keys = append(out.Keys, match.MatchByKey(a, b, gen))
		}
		for _, scorer := range match.SimilarityScorers() {
			out.Scores = append(out.Scores, match.MatchByScore(a, b, scorer, threshold))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	matchCmd.Flags().Float64Var(&matchThreshold, "threshold", 0, "similarity threshold (default from config)")
	rootCmd.AddCommand(matchCmd)
}
