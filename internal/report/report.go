package report

import (
	"context"

	"github.com/gachalog/gachastats/internal/core/model"
	"github.com/gachalog/gachastats/internal/stats"
	"golang.org/x/sync/errgroup"
)

// Input is everything a report is computed from.
type Input struct {
	Apps []model.AppDescriptor `json:"apps"`
	Logs model.LogsByApp       `json:"logs"`
}

// Options selects report variants.
type Options struct {
	Rate           stats.RateOptions
	Ranking        bool    // rank pull stats by rare rate
	RateCorrection float64 // added to the max rate before rounding up
}

// Report bundles every statistical view for one input.
type Report struct {
	ExpenseRatio    []stats.ExpenseShare   `json:"expense_ratio"`
	MonthlyExpenses []stats.MonthlyExpense `json:"monthly_expenses"`
	RareRates       []stats.RateSeries     `json:"rare_rates"`
	MaxRareRate     float64                `json:"max_rare_rate"`
	PullStats       []stats.PullStats      `json:"pull_stats"`
	DropRates       []stats.AppDropRates   `json:"drop_rates"`
	Drops           []stats.AppDrops       `json:"drops"`
}

// Build computes every view. Views are independent and run concurrently;
// each goroutine writes only its own field.
func Build(ctx context.Context, agg *stats.Aggregator, in Input, opts Options) (*Report, error) {
	var r Report
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.ExpenseRatio = agg.ExpenseRatioPie(in.Logs, in.Apps)
		return ctx.Err()
	})
	g.Go(func() error {
		r.MonthlyExpenses = agg.MonthlyExpenseStack(in.Logs, in.Apps)
		return ctx.Err()
	})
	g.Go(func() error {
		r.RareRates = agg.MultiCumulativeRareRate(in.Logs.WithApps(in.Apps), opts.Rate)
		r.MaxRareRate = stats.MaxRareRate(r.RareRates, opts.RateCorrection)
		return ctx.Err()
	})
	g.Go(func() error {
		r.PullStats = agg.AppPullStats(in.Logs, in.Apps, opts.Ranking)
		return ctx.Err()
	})
	g.Go(func() error {
		r.DropRates = agg.AppRareDropRates(in.Logs, in.Apps)
		return ctx.Err()
	})
	g.Go(func() error {
		r.Drops = agg.AppRareDrops(in.Logs, in.Apps)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &r, nil
}
