package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/platewise/foodscan-cli/internal/model"
	"github.com/platewise/foodscan-cli/internal/nutrition"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage saved analyses",
	Long:  "Commands for listing, annotating, exporting, and deleting saved food analyses.",
}

// -- history list --

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses, most recent first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		repo, st, err := initRepository(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		entries := repo.List(ctx)
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "No saved analyses.")
			return nil
		}

		formatHistoryList(os.Stdout, entries)
		return nil
	},
}

// -- history show --

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved analysis in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repo, st, err := initRepository(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		for _, e := range repo.List(ctx) {
			if e.ID == args[0] {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(e)
			}
		}
		return eris.Errorf("no saved analysis with id %s", args[0])
	},
}

// -- history delete --

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repo, st, err := initRepository(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return repo.Delete(ctx, args[0])
	},
}

// -- history notes --

var historyNotesCmd = &cobra.Command{
	Use:   "notes <id> <text>",
	Short: "Replace the notes on a saved analysis",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repo, st, err := initRepository(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return repo.UpdateNotes(ctx, args[0], args[1])
	},
}

// -- history export --

var historyExportOut string

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full history as indented JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		repo, st, err := initRepository(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		out, err := repo.ExportAll(ctx)
		if err != nil {
			return err
		}

		if historyExportOut == "" {
			fmt.Fprintln(os.Stdout, out)
			return nil
		}
		return eris.Wrapf(os.WriteFile(historyExportOut, []byte(out+"\n"), 0o644),
			"write %s", historyExportOut)
	},
}

// -- history clear --

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		repo, st, err := initRepository(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return repo.ClearAll(ctx)
	},
}

func init() {
	historyExportCmd.Flags().StringVar(&historyExportOut, "out", "", "write the export to a file instead of stdout")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyNotesCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// formatHistoryList writes a tabular view of the history to out.
func formatHistoryList(out io.Writer, entries []model.SavedAnalysis) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSAVED\tFOOD\tCONF\tGRADE\tCAL\tNOTES")
	_, _ = fmt.Fprintln(w, "--\t-----\t----\t----\t-----\t---\t-----")

	for _, e := range entries {
		cal := "-"
		if f := e.Nutrition.Facts; f != nil && f.Calories != nil {
			cal = fmt.Sprintf("%.0f", *f.Calories)
		}

		notes := e.UserNotes
		if len(notes) > 24 {
			notes = notes[:21] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\t%s\n",
			truncateID(e.ID),
			e.SavedAt.Format("2006-01-02 15:04"),
			e.PredictedClass,
			e.Confidence,
			nutrition.Grade(e.Nutrition),
			cal,
			notes,
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
