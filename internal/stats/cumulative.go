package stats

import (
	"math"
	"sort"

	"github.com/gachalog/gachastats/internal/core/dates"
	"github.com/gachalog/gachastats/internal/core/model"
)

type datedLog struct {
	date  dates.Date
	pulls int64
	rare  int64
}

// MultiCumulativeRareRate builds one cumulative rare-rate series per app
// over a shared label axis.
//
// The window starts at opts.Start or the earliest valid log date across
// all apps, and ends at opts.End or today. Pulls logged before the window
// start are carried into the first point so rates reflect full history.
// Returns an empty slice when no start can be determined.
func (a *Aggregator) MultiCumulativeRareRate(apps []model.AppLogs, opts RateOptions) []RateSeries {
	minDate := opts.Start
	if minDate.IsZero() {
		for _, app := range apps {
			for _, l := range app.Logs {
				minDate = dates.Min(minDate, l.ParsedDate())
			}
		}
	}
	if minDate.IsZero() {
		return []RateSeries{}
	}

	maxDate := opts.End
	if maxDate.IsZero() {
		maxDate = a.today()
	}

	unit := opts.Unit
	if unit == "" {
		unit = dates.AutoUnit(minDate.DaysUntil(maxDate))
	}

	var axis []dates.Date
	for cur := minDate; !cur.After(maxDate); cur = unit.Step(cur) {
		axis = append(axis, cur)
	}

	out := make([]RateSeries, 0, len(apps))
	for _, app := range apps {
		out = append(out, RateSeries{
			AppID: app.AppID,
			Rate:  cumulativeSeries(app.Logs, axis, unit, maxDate),
		})
	}
	return out
}

// cumulativeSeries sums, for each label, the logs dated within the label's
// bucket [start, end], end clamped to maxDate. Logs dated before the first
// label seed the running totals. Logs outside every bucket, such as those
// between a month bucket end and the next mid-month label, are not counted.
func cumulativeSeries(logs []model.DailyLog, axis []dates.Date, unit dates.Unit, maxDate dates.Date) []RatePoint {
	sorted := make([]datedLog, 0, len(logs))
	for _, l := range logs {
		d := l.ParsedDate()
		if d.IsZero() {
			continue
		}
		sorted = append(sorted, datedLog{date: d, pulls: l.TotalPulls, rare: l.DischargeItems})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].date.Before(sorted[j].date)
	})

	points := make([]RatePoint, 0, len(axis))
	if len(axis) == 0 {
		return points
	}

	var cumPulls, cumRare int64
	for _, l := range sorted {
		if !l.date.Before(axis[0]) {
			break
		}
		cumPulls += l.pulls
		cumRare += l.rare
	}

	for _, start := range axis {
		end := bucketEnd(start, unit)
		if end.After(maxDate) {
			end = maxDate
		}

		var pulls, rare int64
		i := sort.Search(len(sorted), func(i int) bool {
			return !sorted[i].date.Before(start)
		})
		for ; i < len(sorted) && !sorted[i].date.After(end); i++ {
			pulls += sorted[i].pulls
			rare += sorted[i].rare
		}
		cumPulls += pulls
		cumRare += rare

		points = append(points, RatePoint{
			Date:                start.String(),
			Pulls:               pulls,
			RareDrops:           rare,
			CumulativePulls:     cumPulls,
			CumulativeRareDrops: cumRare,
			Rate:                percent(cumRare, cumPulls),
		})
	}
	return points
}

func bucketEnd(start dates.Date, unit dates.Unit) dates.Date {
	switch unit {
	case dates.Week:
		return start.AddDays(6)
	case dates.Month:
		return start.EndOfMonth()
	default:
		return start
	}
}

// MaxRareRate returns the highest rate across every series plus correction,
// rounded up to an integer. Returns 0 when there are no points.
func MaxRareRate(series []RateSeries, correction float64) float64 {
	found := false
	best := 0.0
	for _, s := range series {
		for _, p := range s.Rate {
			if !found || p.Rate > best {
				best = p.Rate
				found = true
			}
		}
	}
	if !found {
		return 0
	}
	return math.Ceil(best + correction)
}
