package dates

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the granularity of a chart axis.
type Unit string

const (
	Day   Unit = "day"
	Week  Unit = "week"
	Month Unit = "month"
)

// ParseUnit accepts day, week or month (case-insensitive). An empty string
// parses to "" so callers can auto-select a unit.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(strings.ToLower(strings.TrimSpace(s))); u {
	case "", Day, Week, Month:
		return u, nil
	default:
		return "", fmt.Errorf("invalid unit %q (must be day, week or month)", s)
	}
}

// Step advances d by one unit.
func (u Unit) Step(d Date) Date {
	switch u {
	case Week:
		return d.AddDays(7)
	case Month:
		return d.AddMonths(1)
	default:
		return d.AddDays(1)
	}
}

// AutoUnit picks an axis granularity for a span of days.
func AutoUnit(spanDays int) Unit {
	switch {
	case spanDays > 180:
		return Month
	case spanDays > 60:
		return Week
	default:
		return Day
	}
}

// ParseStep parses a bucket width in days. Supports a bare number ("3"),
// a "d" suffix ("7d") and a "w" suffix for weeks ("2w").
func ParseStep(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("step must not be empty")
	}

	mult := 1
	switch s[len(s)-1] {
	case 'd':
		s = s[:len(s)-1]
	case 'w':
		mult = 7
		s = s[:len(s)-1]
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid step %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("step must be positive, got %q", s)
	}
	return n * mult, nil
}

// XAxisLabels walks from start to end inclusive in steps of unit and
// returns each step as an ISO date. Returns nil if either date is invalid.
func XAxisLabels(start, end string, unit Unit) []string {
	s, err := Parse(start)
	if err != nil {
		return nil
	}
	e, err := Parse(end)
	if err != nil {
		return nil
	}
	return Labels(s, e, unit)
}

// Labels is XAxisLabels over already parsed dates.
func Labels(start, end Date, unit Unit) []string {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	var out []string
	for cur := start; !cur.After(end); cur = unit.Step(cur) {
		out = append(out, cur.String())
	}
	return out
}
