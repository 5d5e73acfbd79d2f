package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"relpub/internal/history"
	"relpub/internal/logging"
	"relpub/internal/progress"
	"relpub/internal/publish"
	"relpub/internal/tracker"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var releaseVersion string
	var projects []string
	var dryRun bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "publish [output-dir]",
		Short: "Create a release and upload build output files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			for _, warning := range cfg.Deprecations() {
				logger.Warn(warning)
			}

			outputDir := ""
			if len(args) == 1 {
				outputDir = args[0]
			}

			client := tracker.New(tracker.Options{
				BaseURL:        cfg.Tracker.BaseURL,
				Organization:   cfg.Tracker.Organization,
				APIKey:         cfg.Tracker.APIKey,
				RequestTimeout: time.Duration(cfg.Tracker.RequestTimeout) * time.Second,
			})

			var store *history.Store
			if cfg.History.Enabled && !dryRun {
				store, err = history.Open(cfg.History.Path)
				if err != nil {
					logger.Warn("history unavailable for this run", logging.Error(err))
				} else {
					defer store.Close()
				}
			}

			reporter := progress.New(cmd.OutOrStdout(), 0)
			publisher := publish.New(publish.Options{
				Config:   cfg,
				Client:   client,
				Logger:   logger,
				Progress: reporter,
				History:  store,
			})

			report, err := publisher.Run(cmd.Context(), publish.Request{
				Version:   releaseVersion,
				Projects:  projects,
				OutputDir: outputDir,
				DryRun:    dryRun,
			})
			reporter.Finish()
			if err != nil {
				if errors.Is(err, publish.ErrLocked) {
					return fmt.Errorf("publish: %w", err)
				}
				if report != nil {
					renderReport(cmd, report, verbose)
				}
				return err
			}

			renderReport(cmd, report, verbose)
			if report.Failed > 0 {
				logger.Warn("publish completed with failed uploads",
					slog.Int("failed", report.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&releaseVersion, "release", "r", "", "Release version to create")
	cmd.Flags().StringArrayVarP(&projects, "project", "p", nil, "Project slug (repeatable; overrides configuration)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List selected files without issuing requests")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Always show the per-file outcome table")
	return cmd
}

func renderReport(cmd *cobra.Command, report *publish.Report, verbose bool) {
	out := cmd.OutOrStdout()

	if report.DryRun {
		fmt.Fprintf(out, "dry run for release %s: %d file(s) selected\n",
			report.Version, len(report.Selected))
		for _, name := range report.Selected {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return
	}

	fmt.Fprintf(out, "release %s: %d uploaded, %d failed, %d suppressed in %s\n",
		report.Version, report.Succeeded, report.Failed, report.Suppressed,
		report.Duration.Round(time.Millisecond))

	for _, warning := range report.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}

	if verbose || report.Failed > 0 || report.Suppressed > 0 {
		rows := make([][]string, 0, len(report.Outcomes))
		for _, outcome := range report.Outcomes {
			if outcome.Err == nil && !verbose {
				continue
			}
			status := "uploaded"
			switch {
			case outcome.Suppressed:
				status = "suppressed"
			case outcome.Err != nil:
				status = "failed"
			}
			detail := ""
			if outcome.Err != nil {
				detail = outcome.Err.Error()
			}
			rows = append(rows, []string{
				outcome.Task.RemoteName,
				status,
				fmt.Sprintf("%d", outcome.Task.Attempts),
				detail,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"File", "Status", "Attempts", "Detail"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		))
	}
}
