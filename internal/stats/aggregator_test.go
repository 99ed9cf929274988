package stats

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/gachalog/gachastats/internal/core/model"
	"github.com/gachalog/gachastats/internal/marker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

func newTestAggregator(opts ...Option) *Aggregator {
	base := []Option{
		WithMatcher(marker.New()),
		WithClock(func() time.Time { return fixedNow }),
	}
	return New(append(base, opts...)...)
}

func dailyLog(app, date string, pulls, rare, expense int64, details ...model.DropDetail) model.DailyLog {
	return model.DailyLog{
		AppID:          app,
		Date:           date,
		TotalPulls:     pulls,
		DischargeItems: rare,
		Expense:        decimal.NewFromInt(expense),
		DropDetails:    details,
	}
}

func TestAppPullStats_EndToEnd(t *testing.T) {
	agg := newTestAggregator()
	apps := []model.AppDescriptor{{AppID: "a1", Name: "Game A"}}
	logs := model.LogsByApp{
		"a1": {{
			AppID:          "a1",
			Date:           "2025-01-01",
			TotalPulls:     10,
			DischargeItems: 1,
			DropDetails:    []model.DropDetail{},
			Expense:        decimal.NewFromInt(1000),
			Tags:           []string{},
			FreeText:       "",
		}},
	}

	got := agg.AppPullStats(logs, apps, false)

	require.Equal(t, []PullStats{{AppID: "a1", AppName: "Game A", Pulls: 10, RareDrops: 1, RareRate: 10}}, got)
}

func TestAppPullStats_RankingAndZeroDivision(t *testing.T) {
	agg := newTestAggregator()
	apps := []model.AppDescriptor{
		{AppID: "low", Name: "Low"},
		{AppID: "none", Name: "None"},
		{AppID: "high", Name: "High"},
		{AppID: "tie", Name: "Tie"},
	}
	logs := model.LogsByApp{
		"low":  {dailyLog("low", "2025-01-01", 100, 1, 0)},
		"high": {dailyLog("high", "2025-01-01", 10, 1, 0), dailyLog("high", "2025-01-02", 10, 1, 0)},
		"tie":  {dailyLog("tie", "2025-01-01", 100, 1, 0)},
	}

	plain := agg.AppPullStats(logs, apps, false)
	require.Equal(t, []string{"low", "none", "high", "tie"}, appIDs(plain))
	require.Equal(t, float64(0), plain[1].RareRate)
	require.False(t, math.IsNaN(plain[1].RareRate))

	ranked := agg.AppPullStats(logs, apps, true)
	require.Equal(t, []string{"high", "low", "tie", "none"}, appIDs(ranked))
	require.InDelta(t, 10.0, ranked[0].RareRate, 1e-9)
	for i := 1; i < len(ranked); i++ {
		require.GreaterOrEqual(t, ranked[i-1].RareRate, ranked[i].RareRate)
	}
}

func appIDs(in []PullStats) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, s.AppID)
	}
	return out
}

func TestExpenseRatioPie(t *testing.T) {
	agg := newTestAggregator()
	apps := []model.AppDescriptor{
		{AppID: "a", Name: "A", CurrencyUnit: "JPY"},
		{AppID: "b", Name: "B", CurrencyUnit: "USD"},
	}

	t.Run("positive total", func(t *testing.T) {
		logs := model.LogsByApp{
			"a": {dailyLog("a", "2025-01-01", 0, 0, 1000), dailyLog("a", "2025-01-02", 0, 0, 500)},
			"b": {{AppID: "b", Date: "2025-01-01", Expense: decimal.RequireFromString("9.99")}},
		}
		got := agg.ExpenseRatioPie(logs, apps)

		require.Len(t, got, 2)
		require.Equal(t, "a", got[0].AppID)
		require.Equal(t, "JPY", got[0].Currency)
		require.True(t, decimal.NewFromInt(1500).Equal(got[0].Value))
		require.True(t, decimal.RequireFromString("9.99").Equal(got[1].Value))

		total := got[0].Value.Add(got[1].Value)
		require.True(t, decimal.RequireFromString("1509.99").Equal(total))
	})

	t.Run("zero total", func(t *testing.T) {
		logs := model.LogsByApp{"a": {dailyLog("a", "2025-01-01", 10, 1, 0)}}
		got := agg.ExpenseRatioPie(logs, apps)
		for _, s := range got {
			require.True(t, s.Value.IsZero())
		}
	})
}

func TestMonthlyExpenseStack(t *testing.T) {
	agg := newTestAggregator()
	apps := []model.AppDescriptor{{AppID: "a"}, {AppID: "b"}}
	logs := model.LogsByApp{
		"a": {
			dailyLog("a", "2025-03-02", 0, 0, 300),
			dailyLog("a", "2025-01-15", 0, 0, 100),
			dailyLog("a", "2025-01-20", 0, 0, 50),
			dailyLog("a", "bad-date", 0, 0, 999),
		},
		"b": {dailyLog("b", "2025-03-31", 0, 0, 7)},
	}

	got := agg.MonthlyExpenseStack(logs, apps)

	require.Len(t, got, 2, "february has no logs and is absent")
	require.Equal(t, "2025-01", got[0].Month)
	require.True(t, decimal.NewFromInt(150).Equal(got[0].ByApp["a"]))
	require.True(t, got[0].ByApp["b"].IsZero())
	require.Contains(t, got[0].ByApp, "b")
	require.Equal(t, "2025-03", got[1].Month)
	require.True(t, decimal.NewFromInt(300).Equal(got[1].ByApp["a"]))
	require.True(t, decimal.NewFromInt(7).Equal(got[1].ByApp["b"]))
}

func TestMonthlyExpense_MarshalJSON(t *testing.T) {
	row := MonthlyExpense{Month: "2025-01", ByApp: map[string]decimal.Decimal{"a": decimal.NewFromInt(150)}}

	raw, err := json.Marshal(row)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &flat))
	require.Equal(t, "2025-01", flat["month"])
	require.Contains(t, flat, "a")
}

func TestAppRareDropRates(t *testing.T) {
	agg := newTestAggregator()
	apps := []model.AppDescriptor{{AppID: "a", Name: "A"}, {AppID: "empty", Name: "Empty"}}
	logs := model.LogsByApp{
		"a": {
			dailyLog("a", "2025-01-01", 80, 3, 0,
				model.DropDetail{Name: "X", Marker: "pickup"},
				model.DropDetail{Name: "Y", Marker: "lost the 50/50"},
				model.DropDetail{Name: "Z"},
			),
			dailyLog("a", "2025-01-02", 90, 2, 0,
				model.DropDetail{Name: "X", Marker: "guaranteed"},
				model.DropDetail{Name: "W", Marker: "my target"},
			),
		},
	}

	got := agg.AppRareDropRates(logs, apps)

	require.Equal(t, DropRates{Rare: 5, LoseEvenOdds: 1, GetPickup: 1, GetTarget: 1, GuaranteedPull: 1}, got[0].Rates)
	require.Equal(t, "A", got[0].AppName)
	require.Equal(t, DropRates{}, got[1].Rates)
}

func TestAggregator_Idempotent(t *testing.T) {
	agg := newTestAggregator()
	apps := []model.AppDescriptor{{AppID: "a", Name: "A"}, {AppID: "b", Name: "B"}}
	logs := model.LogsByApp{
		"a": {
			dailyLog("a", "2025-02-01", 10, 2, 100, model.DropDetail{Name: "X", Marker: "pickup"}),
			dailyLog("a", "2025-01-01", 10, 1, 100),
		},
		"b": {dailyLog("b", "2025-01-05", 40, 1, 0)},
	}
	before := logs["a"][0].Date

	require.Equal(t, agg.AppPullStats(logs, apps, true), agg.AppPullStats(logs, apps, true))
	require.Equal(t, agg.AppRareDrops(logs, apps), agg.AppRareDrops(logs, apps))
	require.Equal(t, agg.AppRareDropRates(logs, apps), agg.AppRareDropRates(logs, apps))
	require.Equal(t, agg.MultiCumulativeRareRate(logs.WithApps(apps), RateOptions{}),
		agg.MultiCumulativeRareRate(logs.WithApps(apps), RateOptions{}))
	require.Equal(t, before, logs["a"][0].Date, "input order must not change")
}

func TestNew_Defaults(t *testing.T) {
	agg := New()
	require.Equal(t, DefaultSystemOtherLabel, agg.SystemOtherLabel())
	require.Same(t, marker.Default(), agg.matcher)

	agg = New(WithSystemOtherLabel(""))
	require.Equal(t, DefaultSystemOtherLabel, agg.SystemOtherLabel())
	agg = New(WithSystemOtherLabel("その他"))
	require.Equal(t, "その他", agg.SystemOtherLabel())
}
