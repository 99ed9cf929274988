package model

import (
	"strings"

	"github.com/gachalog/gachastats/internal/core/dates"
	"github.com/shopspring/decimal"
)

// DailyLog is one app's pull record for a single calendar day.
// (AppID, Date) is unique. DischargeItems <= TotalPulls is expected but not enforced.
type DailyLog struct {
	AppID          string          `json:"app_id"`
	Date           string          `json:"date"` // YYYY-MM-DD; invalid dates are skipped by date-dependent views
	TotalPulls     int64           `json:"total_pulls"`
	DischargeItems int64           `json:"discharge_items"`
	Expense        decimal.Decimal `json:"expense"` // in the app's currency unit
	DropDetails    []DropDetail    `json:"drop_details"`
	Tags           []string        `json:"tags,omitempty"`
	FreeText       string          `json:"free_text,omitempty"`
}

// ParsedDate returns the log's calendar day, or the zero Date if it is malformed.
func (l DailyLog) ParsedDate() dates.Date {
	d, err := dates.Parse(l.Date)
	if err != nil {
		return dates.Date{}
	}
	return d
}

// DropDetail is one recorded rare drop. Every field is optional.
type DropDetail struct {
	Rarity string `json:"rarity,omitempty"`
	Name   string `json:"name,omitempty"`
	Marker string `json:"marker,omitempty"`
}

func (d DropDetail) HasName() bool   { return strings.TrimSpace(d.Name) != "" }
func (d DropDetail) HasRarity() bool { return strings.TrimSpace(d.Rarity) != "" }
func (d DropDetail) HasMarker() bool { return strings.TrimSpace(d.Marker) != "" }

// AppDescriptor identifies an app for grouping and labelling.
type AppDescriptor struct {
	AppID        string `json:"app_id"`
	Name         string `json:"name"`
	CurrencyUnit string `json:"currency_unit,omitempty"`
}

// AppLogs pairs an app with its logs, for views that walk apps independently.
type AppLogs struct {
	AppID string     `json:"app_id"`
	Logs  []DailyLog `json:"logs"`
}

// LogsByApp maps appId to that app's logs. Iteration order carries no meaning;
// views that need an order take it from a []AppDescriptor.
type LogsByApp map[string][]DailyLog

// WithApps pairs every descriptor with its logs, preserving apps order.
func (m LogsByApp) WithApps(apps []AppDescriptor) []AppLogs {
	out := make([]AppLogs, 0, len(apps))
	for _, app := range apps {
		out = append(out, AppLogs{AppID: app.AppID, Logs: m[app.AppID]})
	}
	return out
}
