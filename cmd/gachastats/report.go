package main

import (
	"fmt"
	"log/slog"

	"github.com/gachalog/gachastats/internal/core/dates"
	"github.com/gachalog/gachastats/internal/logstore"
	"github.com/gachalog/gachastats/internal/report"
	"github.com/gachalog/gachastats/internal/stats"
	"github.com/spf13/cobra"
)

func newReportCommand(a *app) *cobra.Command {
	var (
		start      string
		end        string
		unit       string
		rank       bool
		correction float64
	)

	cmd := &cobra.Command{
		Use:   "report <file|dir>",
		Short: "Compute every statistical view for a log export",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			rateOpts, err := parseRateOptions(start, end, unit)
			if err != nil {
				return err
			}
			if !c.Flags().Changed("correction") {
				correction = a.cfg.Stats.RateCorrection
			}

			ds, err := logstore.Load(c.Context(), args[0])
			if err != nil {
				return err
			}
			slog.Debug("Loaded logs", "apps", len(ds.Apps))

			r, err := report.Build(c.Context(), a.agg, report.Input{Apps: ds.Apps, Logs: ds.Logs}, report.Options{
				Rate:           rateOpts,
				Ranking:        rank,
				RateCorrection: correction,
			})
			if err != nil {
				return fmt.Errorf("build report: %w", err)
			}
			return a.writeJSON(r)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day of the rate axis (YYYY-MM-DD), defaults to the earliest log")
	cmd.Flags().StringVar(&end, "end", "", "last day of the rate axis (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&unit, "unit", "", "rate axis unit: day, week or month (auto when empty)")
	cmd.Flags().BoolVar(&rank, "rank", false, "order pull stats by rare rate")
	cmd.Flags().Float64Var(&correction, "correction", 0, "added to the max rare rate before rounding up")
	return cmd
}

func parseRateOptions(start, end, unit string) (stats.RateOptions, error) {
	var opts stats.RateOptions
	u, err := dates.ParseUnit(unit)
	if err != nil {
		return opts, err
	}
	opts.Unit = u
	if start != "" {
		if opts.Start, err = dates.Parse(start); err != nil {
			return opts, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if end != "" {
		if opts.End, err = dates.Parse(end); err != nil {
			return opts, fmt.Errorf("invalid --end: %w", err)
		}
	}
	if !opts.Start.IsZero() && !opts.End.IsZero() && opts.End.Before(opts.Start) {
		return opts, fmt.Errorf("--end %s is before --start %s", opts.End, opts.Start)
	}
	return opts, nil
}
