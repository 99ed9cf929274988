package marker

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gachalog/gachastats/internal/core/model"
	"github.com/gachalog/gachastats/internal/synonyms"
	"golang.org/x/sync/singleflight"
)

// Category is a marker tag. Classification adds Other to the four
// dictionary categories.
type Category = synonyms.Category

const (
	Lose       = synonyms.Lose
	Pickup     = synonyms.Pickup
	Target     = synonyms.Target
	Guaranteed = synonyms.Guaranteed

	// Other is returned by Classify when no category matches.
	Other Category = "other"
)

// GlobalKey selects the set compiled from every locale at once.
const GlobalKey = "__global__"

// classifyOrder is the priority in which Classify tests categories.
// Pickup goes first because "won the 50/50" style phrases overlap lose phrases.
var classifyOrder = []Category{Pickup, Lose, Target, Guaranteed}

// Scope selects which compiled set CountInLog tests against.
type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopeByLocale Scope = "by-locale"
)

// CompiledSet holds one pattern per marker category.
type CompiledSet struct {
	Lose       *regexp.Regexp
	Pickup     *regexp.Regexp
	Target     *regexp.Regexp
	Guaranteed *regexp.Regexp
}

// For returns the pattern for category c, or nil for an unknown category.
func (s *CompiledSet) For(c Category) *regexp.Regexp {
	switch c {
	case Lose:
		return s.Lose
	case Pickup:
		return s.Pickup
	case Target:
		return s.Target
	case Guaranteed:
		return s.Guaranteed
	}
	return nil
}

func compileSet(p synonyms.Phrases) *CompiledSet {
	return &CompiledSet{
		Lose:       Compile(p[Lose]),
		Pickup:     Compile(p[Pickup]),
		Target:     Compile(p[Target]),
		Guaranteed: Compile(p[Guaranteed]),
	}
}

// Matcher classifies marker text against a synonym dictionary. Compiled
// sets are built lazily per key and kept for the matcher's lifetime; the
// key space is bounded by the number of locales plus GlobalKey.
// A Matcher is safe for concurrent use.
type Matcher struct {
	dict   synonyms.Dictionary
	global synonyms.Phrases

	mu    sync.RWMutex
	cache map[string]*CompiledSet
	group singleflight.Group
}

// New creates a matcher over the built-in dictionary plus extra dictionaries.
func New(extra ...synonyms.Dictionary) *Matcher {
	return &Matcher{
		dict:   synonyms.Combine(synonyms.Builtin, extra...),
		global: synonyms.MergeAll(extra...),
		cache:  make(map[string]*CompiledSet),
	}
}

var (
	defaultOnce    sync.Once
	defaultMatcher *Matcher
)

// Default returns the process-wide matcher over the built-in dictionary.
func Default() *Matcher {
	defaultOnce.Do(func() {
		defaultMatcher = New()
	})
	return defaultMatcher
}

// Compiled returns the compiled set for key: GlobalKey compiles the merged
// dictionary, any other key compiles that locale (English if unknown).
func (m *Matcher) Compiled(key string) *CompiledSet {
	m.mu.RLock()
	set, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return set
	}

	v, _, _ := m.group.Do(key, func() (interface{}, error) {
		var built *CompiledSet
		if key == GlobalKey {
			built = compileSet(m.global)
		} else {
			built = compileSet(m.dict.Locale(key))
		}
		m.mu.Lock()
		m.cache[key] = built
		m.mu.Unlock()
		return built, nil
	})
	return v.(*CompiledSet)
}

// CachedKeys reports how many compiled sets are held.
func (m *Matcher) CachedKeys() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// Classify returns the first category whose phrases appear in text, testing
// pickup, lose, target, guaranteed in that order, or Other.
func (m *Matcher) Classify(text string) Category {
	n := Normalize(text)
	if n == "" {
		return Other
	}
	set := m.Compiled(GlobalKey)
	for _, c := range classifyOrder {
		if set.For(c).MatchString(n) {
			return c
		}
	}
	return Other
}

// CountOptions selects the compiled set used by CountInLog.
// The zero value counts against the global set.
type CountOptions struct {
	Scope  Scope
	Locale string // used with ScopeByLocale; defaults to "en"
}

func (o CountOptions) key() string {
	if o.Scope != ScopeByLocale {
		return GlobalKey
	}
	if strings.TrimSpace(o.Locale) == "" {
		return synonyms.DefaultLocale
	}
	return o.Locale
}

// CountInLog counts the drop details in log whose marker matches category.
// Details without marker text and unknown categories contribute nothing.
func (m *Matcher) CountInLog(category Category, log model.DailyLog, opts CountOptions) int64 {
	re := m.Compiled(opts.key()).For(category)
	if re == nil {
		return 0
	}
	var n int64
	for _, d := range log.DropDetails {
		if !d.HasMarker() {
			continue
		}
		if re.MatchString(Normalize(d.Marker)) {
			n++
		}
	}
	return n
}
