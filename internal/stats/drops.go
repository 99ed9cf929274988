package stats

import (
	"sort"
	"strings"

	"github.com/gachalog/gachastats/internal/core/model"
	"github.com/gachalog/gachastats/internal/marker"
)

// tally counts keys and remembers first-seen order for stable ranking.
type tally struct {
	index map[string]int
	items []Tally
}

func newTally() *tally {
	return &tally{index: make(map[string]int)}
}

func (t *tally) add(key string, n int64) {
	if i, ok := t.index[key]; ok {
		t.items[i].Count += n
		return
	}
	t.index[key] = len(t.items)
	t.items = append(t.items, Tally{Key: key, Count: n})
}

// ranked returns the tallies by count descending; ties keep first-seen order.
func (t *tally) ranked() []Tally {
	out := append(make([]Tally, 0, len(t.items)), t.items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// AppRareDrops ranks each app's rare drops by item name, by rarity+name
// and by name+marker. Drops without a name count under the system other
// label, as do rare drops that were counted but never detailed.
func (a *Aggregator) AppRareDrops(logsByApp model.LogsByApp, apps []model.AppDescriptor) []AppDrops {
	out := make([]AppDrops, 0, len(apps))
	for _, app := range apps {
		names, rarities, markers := newTally(), newTally(), newTally()

		for _, l := range logsByApp[app.AppID] {
			for _, d := range l.DropDetails {
				name := a.otherLabel
				if d.HasName() {
					name = strings.TrimSpace(d.Name)
				}
				names.add(name, 1)

				if d.HasRarity() {
					rarities.add(strings.TrimSpace(d.Rarity)+"|"+name, 1)
				}
				if d.HasMarker() {
					markers.add(name+"|"+strings.TrimSpace(marker.StripEmoji(d.Marker)), 1)
				}
			}

			if missing := l.DischargeItems - int64(len(l.DropDetails)); missing > 0 {
				names.add(a.otherLabel, missing)
			}
		}

		out = append(out, AppDrops{
			AppID:   app.AppID,
			AppName: app.Name,
			Items: DropItems{
				Name:       names.ranked(),
				RarityName: rarities.ranked(),
				MarkerName: markers.ranked(),
			},
		})
	}
	return out
}
