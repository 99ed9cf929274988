package report

import (
	"context"
	"testing"
	"time"

	"github.com/gachalog/gachastats/internal/core/model"
	"github.com/gachalog/gachastats/internal/marker"
	"github.com/gachalog/gachastats/internal/stats"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testInput() Input {
	return Input{
		Apps: []model.AppDescriptor{
			{AppID: "a1", Name: "Game A", CurrencyUnit: "JPY"},
			{AppID: "a2", Name: "Game B", CurrencyUnit: "USD"},
		},
		Logs: model.LogsByApp{
			"a1": {{
				AppID: "a1", Date: "2025-01-01", TotalPulls: 10, DischargeItems: 1,
				Expense:     decimal.NewFromInt(1000),
				DropDetails: []model.DropDetail{{Rarity: "SSR", Name: "Foo", Marker: "pickup"}},
			}},
			"a2": {{
				AppID: "a2", Date: "2025-01-10", TotalPulls: 40, DischargeItems: 1,
				Expense: decimal.NewFromInt(30),
			}},
		},
	}
}

func TestBuild(t *testing.T) {
	agg := stats.New(
		stats.WithMatcher(marker.New()),
		stats.WithClock(func() time.Time { return time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC) }),
	)

	r, err := Build(context.Background(), agg, testInput(), Options{Ranking: true, RateCorrection: 0.5})
	require.NoError(t, err)

	require.Len(t, r.ExpenseRatio, 2)
	require.Len(t, r.MonthlyExpenses, 1)
	require.Len(t, r.RareRates, 2)
	require.Len(t, r.RareRates[0].Rate, 20)
	require.Equal(t, 11.0, r.MaxRareRate)
	require.Equal(t, "a1", r.PullStats[0].AppID)
	require.Equal(t, int64(1), r.DropRates[0].Rates.GetPickup)
	require.Equal(t, "Foo", r.Drops[0].Items.Name[0].Key)
	require.Equal(t, stats.DefaultSystemOtherLabel, r.Drops[1].Items.Name[0].Key)
}

func TestBuild_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, stats.New(), testInput(), Options{})
	require.ErrorIs(t, err, context.Canceled)
}
