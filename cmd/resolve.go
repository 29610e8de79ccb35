package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sells-group/employer-resolve/internal/employer"
)

var (
	resolveSource    string
	resolveThreshold float64
	resolveBulk      bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <source>",
	Short: "Canonicalize a name list into the employer store",
	Long:  "Reads employer names from a CSV/XLSX file or URL and resolves each one against the store, creating canonical records for names that match nothing.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		names, err := readNames(ctx, args[0])
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		threshold := resolveThreshold
		if threshold <= 0 {
			threshold = cfg.Match.Threshold
		}

		resolver := employer.NewResolver(st, matchConfig(), threshold)
		if err := resolver.Load(ctx); err != nil {
			return err
		}

		source := resolveSource
		if source == "" {
			source = args[0]
		}

		var result *employer.BatchResult
		if resolveBulk {
			result, err = resolver.ResolveBulk(ctx, names, source)
		} else {
			result, err = resolver.ResolveBatch(ctx, names, source)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveSource, "source", "", "source label recorded on aliases (default: the file path)")
	resolveCmd.Flags().Float64Var(&resolveThreshold, "threshold", 0, "similarity threshold (default from config)")
	resolveCmd.Flags().BoolVar(&resolveBulk, "bulk", false, "route writes through the store's bulk import (postgres only)")
	rootCmd.AddCommand(resolveCmd)
}
