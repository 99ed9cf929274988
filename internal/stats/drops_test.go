package stats

import (
	"testing"

	"github.com/gachalog/gachastats/internal/core/model"
	"github.com/stretchr/testify/require"
)

func TestAppRareDrops_UnrecordedDropsGoToPlaceholder(t *testing.T) {
	agg := newTestAggregator(WithSystemOtherLabel("other"))
	apps := []model.AppDescriptor{{AppID: "a", Name: "A"}}
	logs := model.LogsByApp{
		"a": {dailyLog("a", "2025-01-01", 50, 3, 0, model.DropDetail{Name: "Foo"})},
	}

	got := agg.AppRareDrops(logs, apps)

	require.Len(t, got, 1)
	require.Equal(t, []Tally{{Key: "other", Count: 2}, {Key: "Foo", Count: 1}}, got[0].Items.Name)
	require.Empty(t, got[0].Items.RarityName)
	require.Empty(t, got[0].Items.MarkerName)
}

func TestAppRareDrops_Tallies(t *testing.T) {
	agg := newTestAggregator()
	other := DefaultSystemOtherLabel
	apps := []model.AppDescriptor{{AppID: "a", Name: "A"}, {AppID: "b", Name: "B"}}
	logs := model.LogsByApp{
		"a": {
			dailyLog("a", "2025-01-01", 100, 4, 0,
				model.DropDetail{Rarity: "SSR", Name: "Alice", Marker: "pickup 🎉"},
				model.DropDetail{Rarity: "SSR", Name: "Bob", Marker: "lose"},
				model.DropDetail{Rarity: "SR", Marker: "pity"},
				model.DropDetail{},
			),
			dailyLog("a", "2025-01-02", 100, 2, 0,
				model.DropDetail{Rarity: "SSR", Name: "Bob"},
				model.DropDetail{Rarity: "SSR", Name: "Bob", Marker: "lose"},
			),
		},
	}

	got := agg.AppRareDrops(logs, apps)

	require.Len(t, got, 2)
	items := got[0].Items
	require.Equal(t, []Tally{
		{Key: "Bob", Count: 3},
		{Key: other, Count: 2},
		{Key: "Alice", Count: 1},
	}, items.Name)
	require.Equal(t, []Tally{
		{Key: "SSR|Bob", Count: 3},
		{Key: "SSR|Alice", Count: 1},
		{Key: "SR|" + other, Count: 1},
	}, items.RarityName)
	require.Equal(t, []Tally{
		{Key: "Bob|lose", Count: 2},
		{Key: "Alice|pickup", Count: 1},
		{Key: other + "|pity", Count: 1},
	}, items.MarkerName)

	require.Equal(t, "b", got[1].AppID)
	require.Empty(t, got[1].Items.Name)
}

func TestAppRareDrops_StableTies(t *testing.T) {
	agg := newTestAggregator()
	apps := []model.AppDescriptor{{AppID: "a"}}
	logs := model.LogsByApp{
		"a": {dailyLog("a", "2025-01-01", 10, 3, 0,
			model.DropDetail{Name: "Zed"},
			model.DropDetail{Name: "Amy"},
			model.DropDetail{Name: "Max"},
		)},
	}

	got := agg.AppRareDrops(logs, apps)

	require.Equal(t, []Tally{{Key: "Zed", Count: 1}, {Key: "Amy", Count: 1}, {Key: "Max", Count: 1}}, got[0].Items.Name)
}
