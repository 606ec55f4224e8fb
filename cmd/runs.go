package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hrdocs-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List processing run history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		fileName, _ := cmd.Flags().GetString("file")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status:   store.RunStatus(status),
			FileName: fileName,
			Limit:    limit,
		})
		if err != nil {
			return eris.Wrap(err, "list runs")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

func init() {
	runsCmd.Flags().String("status", "", "filter by status (processing|succeeded|failed)")
	runsCmd.Flags().String("file", "", "filter by file name")
	runsCmd.Flags().Int("limit", 50, "max runs to list")
	rootCmd.AddCommand(runsCmd)
}

func formatRunsList(w io.Writer, runs []store.Run) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tSTATUS\tITEMS\tFAILED\tWHEN")
	for _, run := range runs {
		items, failed := "-", "-"
		if run.Result != nil {
			items = fmt.Sprint(run.Result.TotalProcessed)
			failed = fmt.Sprint(run.Result.FailureCount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(run.ID), run.FileName, run.Status, items, failed,
			run.CreatedAt.Local().Format(time.DateTime),
		)
	}
	tw.Flush()
}

// shortID abbreviates a run ID for display. The store does not constrain ID
// length, so short IDs pass through unchanged.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
