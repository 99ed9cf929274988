package stats

import (
	"github.com/bytedance/sonic"
	"github.com/gachalog/gachastats/internal/core/dates"
	"github.com/shopspring/decimal"
)

// ExpenseShare is one slice of the expense ratio pie.
type ExpenseShare struct {
	AppID    string          `json:"app_id"`
	AppName  string          `json:"app_name"`
	Currency string          `json:"currency"`
	Value    decimal.Decimal `json:"value"`
}

// MonthlyExpense is one row of the monthly expense stack: the month plus
// one amount per app.
type MonthlyExpense struct {
	Month string
	ByApp map[string]decimal.Decimal
}

// MarshalJSON flattens the row to {"month": "2025-01", "<appId>": amount, ...}.
func (m MonthlyExpense) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(m.ByApp)+1)
	for appID, v := range m.ByApp {
		flat[appID] = v
	}
	flat["month"] = m.Month
	return sonic.ConfigStd.Marshal(flat)
}

// RateOptions bounds the cumulative rate window. Zero values mean: start at
// the earliest log across all apps, end today, pick the unit from the span.
type RateOptions struct {
	Start dates.Date
	End   dates.Date
	Unit  dates.Unit
}

// RatePoint is one label of a cumulative rare-rate series.
type RatePoint struct {
	Date                string  `json:"date"`
	Pulls               int64   `json:"pulls"`
	RareDrops           int64   `json:"rare_drops"`
	CumulativePulls     int64   `json:"cumulative_pulls"`
	CumulativeRareDrops int64   `json:"cumulative_rare_drops"`
	Rate                float64 `json:"rate"`
}

// RateSeries is one app's cumulative rare-rate series.
type RateSeries struct {
	AppID string      `json:"app_id"`
	Rate  []RatePoint `json:"rate"`
}

// PullStats is an app's pull totals and rare rate (percent).
type PullStats struct {
	AppID     string  `json:"app_id"`
	AppName   string  `json:"app_name"`
	Pulls     int64   `json:"pulls"`
	RareDrops int64   `json:"rare_drops"`
	RareRate  float64 `json:"rare_rate"`
}

// DropRates counts rare drops by marker category.
type DropRates struct {
	Rare           int64 `json:"rare"`
	LoseEvenOdds   int64 `json:"lose_even_odds"`
	GetPickup      int64 `json:"get_pickup"`
	GetTarget      int64 `json:"get_target"`
	GuaranteedPull int64 `json:"guaranteed_pull"`
}

type AppDropRates struct {
	AppID   string    `json:"app_id"`
	AppName string    `json:"app_name"`
	Rates   DropRates `json:"rates"`
}

// Tally is a counted key in a ranking.
type Tally struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// DropItems holds the three drop rankings, each sorted by count descending.
type DropItems struct {
	Name       []Tally `json:"name"`
	RarityName []Tally `json:"rarity_name"` // key: "{rarity}|{name}"
	MarkerName []Tally `json:"marker_name"` // key: "{name}|{marker}"
}

type AppDrops struct {
	AppID   string    `json:"app_id"`
	AppName string    `json:"app_name"`
	Items   DropItems `json:"items"`
}
