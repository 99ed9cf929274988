package main

import (
	"fmt"

	"github.com/gachalog/gachastats/internal/bucket"
	"github.com/gachalog/gachastats/internal/core/dates"
	"github.com/gachalog/gachastats/internal/core/model"
	"github.com/gachalog/gachastats/internal/logstore"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newBucketsCommand(a *app) *cobra.Command {
	var (
		rangeDays int
		start     string
		step      string
		format    string
		appID     string
	)

	cmd := &cobra.Command{
		Use:   "buckets <file|dir>",
		Short: "Sum pulls and expenses into fixed-width date buckets",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			stepDays, err := dates.ParseStep(step)
			if err != nil {
				return err
			}
			opts := bucket.Options{StepDays: stepDays, LabelFormat: format}
			if start != "" {
				if opts.Start, err = dates.Parse(start); err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
			}

			ds, err := logstore.Load(c.Context(), args[0])
			if err != nil {
				return err
			}

			var logs []model.DailyLog
			if appID != "" {
				if _, ok := ds.Logs[appID]; !ok {
					return fmt.Errorf("no logs for app %q", appID)
				}
				logs = ds.Logs[appID]
			} else {
				logs = lo.Flatten(lo.Values(ds.Logs))
			}

			return a.writeJSON(bucket.Build(bucket.FromLogs(logs), rangeDays, opts))
		},
	}

	cmd.Flags().IntVar(&rangeDays, "range", 30, "number of days in the window")
	cmd.Flags().StringVar(&start, "start", "", "first day of the window (YYYY-MM-DD), defaults to ending today")
	cmd.Flags().StringVar(&step, "step", "1d", "bucket width, e.g. 1d, 7d or 2w")
	cmd.Flags().StringVar(&format, "format", "", "label format using %1d, %2d, %d, %w, %Y and %m")
	cmd.Flags().StringVar(&appID, "app", "", "only bucket logs of this app")
	return cmd
}
