package stats

import (
	"sort"
	"time"

	"github.com/gachalog/gachastats/internal/core/dates"
	"github.com/gachalog/gachastats/internal/core/model"
	"github.com/gachalog/gachastats/internal/marker"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// DefaultSystemOtherLabel buckets drops that have no item name.
const DefaultSystemOtherLabel = "System Other"

// Aggregator turns per-app daily logs into statistical views. Every view
// is a pure function of its arguments (and the clock, for open-ended
// rate windows); inputs are never modified.
type Aggregator struct {
	matcher    *marker.Matcher
	otherLabel string
	countOpts  marker.CountOptions
	nowFn      func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithMatcher replaces the process-wide default matcher.
func WithMatcher(m *marker.Matcher) Option {
	return func(a *Aggregator) { a.matcher = m }
}

// WithSystemOtherLabel sets the placeholder key for unnamed drops.
func WithSystemOtherLabel(label string) Option {
	return func(a *Aggregator) {
		if label != "" {
			a.otherLabel = label
		}
	}
}

// WithCountOptions sets the marker scope used by AppRareDropRates.
func WithCountOptions(opts marker.CountOptions) Option {
	return func(a *Aggregator) { a.countOpts = opts }
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.nowFn = now }
}

// New creates an Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		otherLabel: DefaultSystemOtherLabel,
		nowFn:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.matcher == nil {
		a.matcher = marker.Default()
	}
	return a
}

// SystemOtherLabel returns the configured placeholder key.
func (a *Aggregator) SystemOtherLabel() string { return a.otherLabel }

func (a *Aggregator) today() dates.Date {
	return dates.FromTime(a.nowFn())
}

// percent returns part/whole as a percentage, or 0 when whole is not positive.
func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}

func sumExpense(logs []model.DailyLog) decimal.Decimal {
	total := decimal.Zero
	for _, l := range logs {
		total = total.Add(l.Expense)
	}
	return total
}

func sumPulls(logs []model.DailyLog) int64 {
	return lo.SumBy(logs, func(l model.DailyLog) int64 { return l.TotalPulls })
}

func sumRare(logs []model.DailyLog) int64 {
	return lo.SumBy(logs, func(l model.DailyLog) int64 { return l.DischargeItems })
}

// ExpenseRatioPie returns each app's total expense in apps order. When the
// grand total is not positive every value is zero.
func (a *Aggregator) ExpenseRatioPie(logsByApp model.LogsByApp, apps []model.AppDescriptor) []ExpenseShare {
	out := make([]ExpenseShare, 0, len(apps))
	grand := decimal.Zero
	for _, app := range apps {
		sum := sumExpense(logsByApp[app.AppID])
		grand = grand.Add(sum)
		out = append(out, ExpenseShare{
			AppID:    app.AppID,
			AppName:  app.Name,
			Currency: app.CurrencyUnit,
			Value:    sum,
		})
	}
	if !grand.IsPositive() {
		for i := range out {
			out[i].Value = decimal.Zero
		}
	}
	return out
}

// MonthlyExpenseStack sums expense per app per calendar month. Only months
// that have at least one log appear, in chronological order; apps without
// logs in a month get zero. Logs with malformed dates are skipped.
func (a *Aggregator) MonthlyExpenseStack(logsByApp model.LogsByApp, apps []model.AppDescriptor) []MonthlyExpense {
	byMonth := make(map[string]map[string]decimal.Decimal)
	for _, app := range apps {
		for _, l := range logsByApp[app.AppID] {
			d := l.ParsedDate()
			if d.IsZero() {
				continue
			}
			month := d.Month()
			row, ok := byMonth[month]
			if !ok {
				row = make(map[string]decimal.Decimal, len(apps))
				byMonth[month] = row
			}
			row[app.AppID] = row[app.AppID].Add(l.Expense)
		}
	}

	months := lo.Keys(byMonth)
	sort.Strings(months)

	out := make([]MonthlyExpense, 0, len(months))
	for _, month := range months {
		row := make(map[string]decimal.Decimal, len(apps))
		for _, app := range apps {
			row[app.AppID] = byMonth[month][app.AppID]
		}
		out = append(out, MonthlyExpense{Month: month, ByApp: row})
	}
	return out
}

// AppPullStats sums pulls and rare drops per app. With ranking the result
// is sorted by rare rate descending (stable); otherwise it follows apps.
func (a *Aggregator) AppPullStats(logsByApp model.LogsByApp, apps []model.AppDescriptor, ranking bool) []PullStats {
	out := make([]PullStats, 0, len(apps))
	for _, app := range apps {
		logs := logsByApp[app.AppID]
		pulls, rare := sumPulls(logs), sumRare(logs)
		out = append(out, PullStats{
			AppID:     app.AppID,
			AppName:   app.Name,
			Pulls:     pulls,
			RareDrops: rare,
			RareRate:  percent(rare, pulls),
		})
	}
	if ranking {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].RareRate > out[j].RareRate
		})
	}
	return out
}

// AppRareDropRates counts rare drops and marker categories per app.
func (a *Aggregator) AppRareDropRates(logsByApp model.LogsByApp, apps []model.AppDescriptor) []AppDropRates {
	out := make([]AppDropRates, 0, len(apps))
	for _, app := range apps {
		var r DropRates
		for _, l := range logsByApp[app.AppID] {
			r.Rare += l.DischargeItems
			r.LoseEvenOdds += a.matcher.CountInLog(marker.Lose, l, a.countOpts)
			r.GetPickup += a.matcher.CountInLog(marker.Pickup, l, a.countOpts)
			r.GetTarget += a.matcher.CountInLog(marker.Target, l, a.countOpts)
			r.GuaranteedPull += a.matcher.CountInLog(marker.Guaranteed, l, a.countOpts)
		}
		out = append(out, AppDropRates{AppID: app.AppID, AppName: app.Name, Rates: r})
	}
	return out
}
