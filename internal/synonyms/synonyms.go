package synonyms

import (
	"github.com/samber/lo"
)

// Category is one of the four fixed marker tags.
type Category string

const (
	Lose       Category = "lose"
	Pickup     Category = "pickup"
	Target     Category = "target"
	Guaranteed Category = "guaranteed"
)

// Categories lists every marker category in declaration order.
var Categories = []Category{Lose, Pickup, Target, Guaranteed}

// Valid reports whether c is one of the four marker categories.
func (c Category) Valid() bool {
	return lo.Contains(Categories, c)
}

// DefaultLocale is the fallback when a locale has no dictionary.
const DefaultLocale = "en"

// Phrases maps a category to its marker phrases.
type Phrases map[Category][]string

// Dictionary maps a locale code to its phrases.
type Dictionary map[string]Phrases

// Builtin is the dictionary shipped with the engine. Phrases are stored
// raw; the matcher normalizes them before compiling.
var Builtin = Dictionary{
	"en": {
		Lose: {
			"lose the 50/50", "lost the 50/50", "lose 50/50", "lost 50/50",
			"lost the coin flip", "off-banner", "off banner", "spook", "spooked", "lose", "lost",
		},
		Pickup: {
			"pickup", "pick up", "picked up", "pick-up", "rate-up", "rate up",
			"on-banner", "on banner", "won the 50/50", "win the 50/50", "won 50/50", "featured",
		},
		Target: {"target", "targeted", "wanted", "want", "desired", "goal"},
		Guaranteed: {
			"guaranteed", "guarantee", "pity", "hard pity", "soft pity", "spark", "sparked", "selector",
		},
	},
	"ja": {
		Lose:       {"すり抜け", "すりぬけ", "スリ抜け", "天井すり抜け", "pu外し", "ハズレ"},
		Pickup:     {"ピックアップ", "ピック", "pu", "puゲット", "当たり"},
		Target:     {"狙い", "本命", "目当て", "お目当て"},
		Guaranteed: {"確定", "天井", "確定枠", "交換", "確定演出"},
	},
	"zh": {
		Lose:       {"歪了", "歪", "小保底歪", "歪卡"},
		Pickup:     {"up", "不歪", "出up", "小保底不歪"},
		Target:     {"目标", "想要", "本命"},
		Guaranteed: {"大保底", "保底", "井", "吃井"},
	},
	"ko": {
		Lose:       {"픽뚫", "천장 픽뚫", "픽업 실패"},
		Pickup:     {"픽업", "픽업 성공"},
		Target:     {"목표", "노림"},
		Guaranteed: {"확정", "천장", "확정 천장"},
	},
}

// Get returns the built-in phrases for a locale and category, or nil if
// the locale is unknown.
func Get(locale string, category Category) []string {
	return Builtin.Get(locale, category)
}

// Get returns the phrases for a locale and category, or nil if the locale is unknown.
func (d Dictionary) Get(locale string, category Category) []string {
	return d[locale][category]
}

// Locale returns a locale's phrases, falling back to English when the
// locale is unknown.
func (d Dictionary) Locale(locale string) Phrases {
	if p, ok := d[locale]; ok {
		return p
	}
	return d[DefaultLocale]
}

// Locales returns the locale codes present in d.
func (d Dictionary) Locales() []string {
	return lo.Keys(d)
}

// MergeAll unions the built-in dictionary with extra dictionaries across
// every locale. Duplicate phrases are dropped per category (case-sensitive,
// before normalization); first occurrence wins the position.
func MergeAll(extra ...Dictionary) Phrases {
	return Merge(append([]Dictionary{Builtin}, extra...)...)
}

// Merge is MergeAll without the built-in dictionary.
func Merge(dicts ...Dictionary) Phrases {
	out := make(Phrases, len(Categories))
	for _, c := range Categories {
		var all []string
		for _, d := range dicts {
			for _, locale := range sortedLocales(d) {
				all = append(all, d[locale][c]...)
			}
		}
		out[c] = lo.Uniq(all)
	}
	return out
}

// Combine overlays extra dictionaries onto base per locale, deduplicating
// each locale's phrases. Neither input is modified.
func Combine(base Dictionary, extra ...Dictionary) Dictionary {
	out := make(Dictionary, len(base))
	for _, d := range append([]Dictionary{base}, extra...) {
		for locale, phrases := range d {
			merged, ok := out[locale]
			if !ok {
				merged = make(Phrases, len(Categories))
				out[locale] = merged
			}
			for c, list := range phrases {
				merged[c] = lo.Uniq(append(append([]string(nil), merged[c]...), list...))
			}
		}
	}
	return out
}
