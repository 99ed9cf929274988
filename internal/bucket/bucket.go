package bucket

import (
	"strconv"
	"strings"

	"github.com/gachalog/gachastats/internal/core/dates"
	"github.com/gachalog/gachastats/internal/core/model"
	"github.com/shopspring/decimal"
)

// rangeSep joins the two ends of a multi-day label.
const rangeSep = "～"

// Entry is one dated row to be summed into buckets.
type Entry struct {
	Date       dates.Date
	TotalPulls int64
	RarePulls  int64
	Expense    decimal.Decimal
}

// FromLogs maps daily logs to entries. Logs with malformed dates keep a
// zero Date and never fall into any bucket.
func FromLogs(logs []model.DailyLog) []Entry {
	out := make([]Entry, 0, len(logs))
	for _, l := range logs {
		out = append(out, Entry{
			Date:       l.ParsedDate(),
			TotalPulls: l.TotalPulls,
			RarePulls:  l.DischargeItems,
			Expense:    l.Expense,
		})
	}
	return out
}

// Bucket is a contiguous, inclusive date range.
type Bucket struct {
	Start   dates.Date `json:"-"`
	End     dates.Date `json:"-"`
	Label   string     `json:"label"`
	Context string     `json:"context"` // ISO range, e.g. "2025-01-01～2025-01-07"
}

// Days returns the number of calendar days the bucket covers.
func (b Bucket) Days() int {
	return b.Start.DaysUntil(b.End) + 1
}

// Point is a bucket with its sums.
type Point struct {
	Bucket
	TotalPulls int64           `json:"total_pulls"`
	RarePulls  int64           `json:"rare_pulls"`
	OtherPulls int64           `json:"other_pulls"`
	Expense    decimal.Decimal `json:"expense"`
}

// Result is the output of Build. Labels[i] labels Points[i].
type Result struct {
	Labels []string `json:"labels"`
	Points []Point  `json:"points"`
}

// Options tunes Build. The zero value means: window ending today, one-day buckets.
type Options struct {
	// Start anchors the window. When zero the window ends on Today.
	Start dates.Date
	// StepDays is the bucket width; values < 1 mean 1.
	StepDays int
	// LabelFormat may use %1d / %2d (bucket start / end as M/d), %d (start
	// as M/d), %w (ISO week of start), %Y and %m (year / month of start).
	LabelFormat string
	// Today is the window end when Start is zero. Defaults to dates.Today().
	Today dates.Date
}

// Window returns the inclusive [start, end] range covered by rangeDays.
func (o Options) Window(rangeDays int) (dates.Date, dates.Date) {
	if !o.Start.IsZero() {
		return o.Start, o.Start.AddDays(rangeDays - 1)
	}
	end := o.Today
	if end.IsZero() {
		end = dates.Today()
	}
	return end.AddDays(-(rangeDays - 1)), end
}

// Build partitions a window of rangeDays days into consecutive buckets of
// StepDays days (the last one truncated at the window end) and sums the
// entries falling in each bucket. Buckets without entries hold zeros.
func Build(entries []Entry, rangeDays int, opts Options) Result {
	if rangeDays <= 0 {
		return Result{Labels: []string{}, Points: []Point{}}
	}
	step := opts.StepDays
	if step < 1 {
		step = 1
	}
	start, end := opts.Window(rangeDays)

	points := make([]Point, 0, (rangeDays+step-1)/step)
	for cur := start; !cur.After(end); cur = cur.AddDays(step) {
		last := cur.AddDays(step - 1)
		if last.After(end) {
			last = end
		}
		points = append(points, Point{
			Bucket:  newBucket(cur, last, opts.LabelFormat),
			Expense: decimal.Zero,
		})
	}

	for _, e := range entries {
		if e.Date.IsZero() || e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		p := &points[start.DaysUntil(e.Date)/step]
		p.TotalPulls += e.TotalPulls
		p.RarePulls += e.RarePulls
		p.Expense = p.Expense.Add(e.Expense)
	}

	labels := make([]string, len(points))
	for i := range points {
		points[i].OtherPulls = points[i].TotalPulls - points[i].RarePulls
		labels[i] = points[i].Label
	}
	return Result{Labels: labels, Points: points}
}

func newBucket(start, end dates.Date, format string) Bucket {
	b := Bucket{Start: start, End: end, Context: start.String()}
	if !start.Equal(end) {
		b.Context = start.String() + rangeSep + end.String()
	}
	b.Label = Label(start, end, format)
	return b
}

// Label renders a bucket label. With an empty format, single-day buckets
// render as "M/d" and longer buckets as "M/d～M/d".
func Label(start, end dates.Date, format string) string {
	if format == "" {
		if start.Equal(end) {
			return start.Short()
		}
		return start.Short() + rangeSep + end.Short()
	}
	return strings.NewReplacer(
		"%1d", start.Short(),
		"%2d", end.Short(),
		"%d", start.Short(),
		"%w", strconv.Itoa(start.ISOWeek()),
		"%Y", strconv.Itoa(start.Year()),
		"%m", twoDigits(start.MonthNumber()),
	).Replace(format)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
