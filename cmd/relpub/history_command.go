package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"relpub/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent publish runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in configuration")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			if runID != "" {
				return renderRunFiles(cmd, store, runID)
			}
			return renderRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&runID, "files", "", "Show per-file outcomes for the given run ID")
	return cmd
}

func renderRuns(cmd *cobra.Command, store *history.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No publish runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Version,
			run.Organization,
			fmt.Sprintf("%d", run.Succeeded),
			fmt.Sprintf("%d", run.Failed),
			fmt.Sprintf("%d", run.Suppressed),
			run.Duration.Round(time.Millisecond).String(),
			run.Outcome,
			run.ID,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"When", "Version", "Org", "Uploaded", "Failed", "Suppressed", "Duration", "Outcome", "Run ID"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	))
	return nil
}

func renderRunFiles(cmd *cobra.Command, store *history.Store, runID string) error {
	files, err := store.FilesForRun(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("list run files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No files recorded for run %s\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(files))
	for _, file := range files {
		rows = append(rows, []string{
			file.Name,
			file.Status,
			fmt.Sprintf("%d", file.Attempts),
			file.Detail,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"File", "Status", "Attempts", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}
