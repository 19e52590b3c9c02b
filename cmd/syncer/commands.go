package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"content_syncer/internal/config"
	"content_syncer/internal/scheduler"
	"content_syncer/internal/telemetry"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "syncer",
		Short:         "syncer scrapes video sites, filters the results and publishes them to WordPress.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	withApp := func(run func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := setupLogger(cfg.LogLevel)

			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.close(context.WithoutCancel(ctx))

			return run(ctx, a, args)
		}
	}

	root.AddCommand(
		newRunCmd(withApp),
		newFilterCmd(withApp),
		newUploadCmd(withApp),
		newScrapeCmd(withApp),
		newJobsCmd(withApp),
	)
	return root
}

type appRunner func(run func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error

func newRunCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Registers the configured jobs and runs them as they become due.",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if err := registerJobs(ctx, a.scheduler, a.cfg.Scheduler.Jobs); err != nil {
				return err
			}
			if a.cfg.Telemetry.MetricsEndpoint != "" {
				reg, err := telemetry.RegisterProcessGauges(otel.GetMeterProvider(), a.logger)
				if err != nil {
					return fmt.Errorf("register process gauges: %w", err)
				}
				defer reg.Unregister()
			}

			a.logger.Info("starting content syncer",
				"jobs", len(a.scheduler.Jobs()),
				"poll", a.cfg.Scheduler.Poll,
				"storage", a.cfg.Storage.Backend,
			)
			err := a.scheduler.Start(ctx, a.cfg.Scheduler.Poll)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("scheduler: %w", err)
			}
			return nil
		}),
	}
}

func newFilterCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "filter",
		Short: "Filters today's scraped records once.",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			stats, err := a.filters.Apply(ctx)
			if err != nil {
				return fmt.Errorf("apply filters: %w", err)
			}
			a.logger.Info("filters applied", "scraped", stats.Scraped, "new", stats.New, "accepted", stats.Accepted)
			return nil
		}),
	}
}

func newUploadCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Filters and uploads today's records to every destination once.",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if _, err := a.uploader.Upload(ctx); err != nil {
				return fmt.Errorf("upload: %w", err)
			}
			return nil
		}),
	}
}

func newScrapeCmd(withApp appRunner) *cobra.Command {
	var jobID string

	cmd := &cobra.Command{
		Use:   "scrape --job <id>",
		Short: "Scrapes the sites planned for a job once.",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if _, err := a.scraper.Scrape(ctx, jobID); err != nil {
				return fmt.Errorf("scrape: %w", err)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&jobID, "job", "", "job whose site schedule is used")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}

func newJobsCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "Lists the persisted scheduler state.",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			records, err := a.state.LoadAll(ctx)
			if err != nil {
				return fmt.Errorf("load jobs: %w", err)
			}
			t := jobsTable(records)
			t.SetOutputMirror(os.Stdout)
			t.Render()
			return nil
		}),
	}
}

func jobsTable(records []scheduler.JobRecord) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Every", "At", "On", "Action", "Last run", "Next run"})

	for _, rec := range records {
		at, on := "", ""
		if rec.AtTime != nil {
			at = *rec.AtTime
		}
		if rec.DayOfWeek != nil {
			on = rec.DayOfWeek.String()
		}
		t.AppendRow(table.Row{
			rec.ID,
			fmt.Sprintf("%d %s", rec.Interval, rec.Unit),
			at,
			on,
			describeAction(rec),
			formatTimestamp(rec.LastRun),
			formatTimestamp(rec.NextRun),
		})
	}
	return t
}

func describeAction(rec scheduler.JobRecord) string {
	parts := []string{rec.ActionName}
	parts = append(parts, rec.Args...)

	keys := make([]string, 0, len(rec.Kwargs))
	for k := range rec.Kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+rec.Kwargs[k])
	}
	return strings.Join(parts, " ")
}

func formatTimestamp(ts *scheduler.Timestamp) string {
	if ts == nil {
		return "-"
	}
	return ts.Format(time.DateTime)
}
