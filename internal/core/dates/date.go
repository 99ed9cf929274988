package dates

import (
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the wire format of every calendar date in log records.
const ISOLayout = "2006-01-02"

// Date is a calendar day in UTC. The zero value is an invalid date.
type Date struct {
	t time.Time
}

// Parse parses an ISO YYYY-MM-DD date. Timestamps whose date is followed
// by 'T' or a space are truncated to their date part (e.g.
// "2025-01-01T10:00:00Z"); any other trailing text is invalid.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(ISOLayout) {
		if sep := s[len(ISOLayout)]; sep != 'T' && sep != ' ' {
			return Date{}, fmt.Errorf("invalid date %q: trailing text after date", s)
		}
		s = s[:len(ISOLayout)]
	}
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParse is Parse for constants and tests. It panics on invalid input.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// IsZero reports whether d is the invalid zero date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns d as midnight UTC.
func (d Date) Time() time.Time { return d.t }

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// After reports whether d is later than o.
func (d Date) After(o Date) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same day.
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

// AddDays adds n calendar days (n may be negative).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// AddMonths adds n calendar months, clamping to the last day of the target
// month (Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	y, m, day := d.t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return Date{t: time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)}
}

// EndOfMonth returns the last day of d's calendar month.
func (d Date) EndOfMonth() Date {
	y, m, _ := d.t.Date()
	return Date{t: time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)}
}

// DaysUntil returns the number of whole days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// ISOWeek returns the ISO 8601 week number of d.
func (d Date) ISOWeek() int {
	_, w := d.t.ISOWeek()
	return w
}

// Year returns d's year.
func (d Date) Year() int { return d.t.Year() }

// MonthNumber returns d's month as 1-12.
func (d Date) MonthNumber() int { return int(d.t.Month()) }

// String formats the date as YYYY-MM-DD; the zero Date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(ISOLayout)
}

// Short formats as M/d without zero padding (e.g. "1/7").
func (d Date) Short() string {
	return fmt.Sprintf("%d/%d", int(d.t.Month()), d.t.Day())
}

// Month formats as YYYY-MM.
func (d Date) Month() string {
	return d.t.Format("2006-01")
}

// Min returns the earlier of two dates, ignoring zero values.
func Min(a, b Date) Date {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case b.Before(a):
		return b
	}
	return a
}
