package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/platewise/foodscan-cli/internal/analytics"
	"github.com/platewise/foodscan-cli/internal/model"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate nutrition statistics for the saved history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		repo, st, err := initRepository(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		stats := analytics.ComputeStats(repo.List(ctx))
		formatHealthStats(os.Stdout, stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// formatHealthStats writes aggregate stats to out.
func formatHealthStats(out io.Writer, s model.HealthStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total analyses:\t%d\n", s.TotalAnalyses)
	_, _ = fmt.Fprintf(w, "Total calories:\t%.0f\n", s.TotalCalories)
	_, _ = fmt.Fprintf(w, "Average calories:\t%d\n", s.AverageCalories)
	_, _ = fmt.Fprintf(w, "Average confidence:\t%.2f\n", s.AverageConfidence)
	_, _ = fmt.Fprintf(w, "Most analyzed food:\t%s\n", s.MostAnalyzedFood)
	_, _ = fmt.Fprintf(w, "Health score:\t%d/100\n", s.HealthScore)
	_ = w.Flush()
}
