package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/employer-resolve/internal/match"
)

var indexWorkers int

// indexStats summarizes a built blocking index.
type indexStats struct {
	Names         int     `json:"names"`
	Keys          int     `json:"keys"`
	MaxBucket     int     `json:"max_bucket"`
	AvgBucket     float64 `json:"avg_bucket"`
	SingleBuckets int     `json:"single_buckets"`
}

var indexCmd = &cobra.Command{
	Use:   "index <source>",
	Short: "Build a blocking index over a name list and report bucket statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		names, err := readNames(ctx, args[0])
		if err != nil {
			return err
		}

		workers := indexWorkers
		if workers == 0 {
			workers = cfg.Match.Workers
		}
		idx, err := match.BuildIndexParallel(ctx, names, matchConfig(), workers)
		if err != nil {
			return err
		}

		stats := indexStats{Names: len(names), Keys: idx.Keys()}
		total := 0
		for _, size := range idx.BucketSizes() {
			total += size
			if size > stats.MaxBucket {
				stats.MaxBucket = size
			}
			if size == 1 {
				stats.SingleBuckets++
			}
		}
		if stats.Keys > 0 {
			stats.AvgBucket = float64(total) / float64(stats.Keys)
		}

		zap.L().Info("index built",
			zap.Int("names", stats.Names),
			zap.Int("keys", stats.Keys),
			zap.Int("max_bucket", stats.MaxBucket),
		)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	},
}

func init() {
	indexCmd.Flags().IntVar(&indexWorkers, "workers", 0, "index build workers (default from config)")
	rootCmd.AddCommand(indexCmd)
}
