package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/platewise/foodscan-cli/internal/model"
	"github.com/platewise/foodscan-cli/internal/nutrition"
)

var (
	analyzeNotes       string
	analyzeNoSave      bool
	analyzeConcurrency int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>...",
	Short: "Analyze food images and save the results to history",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := newBackendClient()

		// Uploads run concurrently; results land in input order.
		results := make([]*model.AnalysisResult, len(args))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(analyzeConcurrency)
		for i, path := range args {
			i, path := i, path // per-iteration copies; go directive predates 1.22 loop scoping
			g.Go(func() error {
				f, err := os.Open(path)
				if err != nil {
					return eris.Wrapf(err, "open %s", path)
				}
				defer f.Close()

				res, err := client.Analyze(gctx, filepath.Base(path), f)
				if err != nil {
					return eris.Wrapf(err, "analyze %s", path)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, res := range results {
			printAnalysis(os.Stdout, args[i], res)
		}

		if analyzeNoSave {
			return nil
		}

		repo, st, err := initRepository(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		// Saves stay sequential: each one is a read-modify-write of the
		// whole history snapshot.
		for _, res := range results {
			id, err := repo.Save(ctx, *res, analyzeNotes)
			if err != nil {
				return eris.Wrap(err, "save analysis")
			}
			zap.L().Info("analysis saved",
				zap.String("id", id),
				zap.String("food", res.PredictedClass),
			)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeNotes, "notes", "", "notes to attach to the saved analyses")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "print results without saving them")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 3, "max concurrent uploads")
	rootCmd.AddCommand(analyzeCmd)
}

// printAnalysis writes a human-readable summary of one result to out.
func printAnalysis(out io.Writer, path string, res *model.AnalysisResult) {
	fmt.Fprintf(out, "%s: %s (%.0f%% confidence, %.2fs)\n",
		path, res.PredictedClass, res.Confidence*100, res.ProcessingTime)

	if u := res.Nutrition.Unavailable; u != nil {
		fmt.Fprintf(out, "  nutrition unavailable: %s\n", u.Error)
		if u.Suggestion != "" {
			fmt.Fprintf(out, "  suggestion: %s\n", u.Suggestion)
		}
		return
	}

	f := res.Nutrition.Facts
	if f == nil {
		return
	}
	fmt.Fprintf(out, "  grade %s", nutrition.Grade(res.Nutrition))
	if f.Calories != nil {
		fmt.Fprintf(out, ", %.0f kcal", *f.Calories)
	}
	if f.ProteinG != nil {
		fmt.Fprintf(out, ", protein %s", nutrition.FormatValue(*f.ProteinG, "g"))
	}
	if f.CarbohydratesTotalG != nil {
		fmt.Fprintf(out, ", carbs %s", nutrition.FormatValue(*f.CarbohydratesTotalG, "g"))
	}
	if f.FatTotalG != nil {
		fmt.Fprintf(out, ", fat %s", nutrition.FormatValue(*f.FatTotalG, "g"))
	}
	fmt.Fprintln(out)
}
