package synonyms

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// rawDictionary is the on-disk YAML shape of one extra dictionary file.
type rawDictionary struct {
	Locale     string   `yaml:"locale"`
	Lose       []string `yaml:"lose"`
	Pickup     []string `yaml:"pickup"`
	Target     []string `yaml:"target"`
	Guaranteed []string `yaml:"guaranteed"`
}

// LoadDir reads every *.yaml / *.yml file in dir into one Dictionary.
// Several files may contribute to the same locale. A missing directory is
// valid and yields an empty dictionary.
func LoadDir(dir string) (Dictionary, error) {
	out := Dictionary{}
	if strings.TrimSpace(dir) == "" {
		return out, nil
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("synonym dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("synonym path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading synonym dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading synonym file %s: %w", path, err)
		}

		var raw rawDictionary
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing synonym file %s: %w", path, err)
		}
		locale := strings.TrimSpace(raw.Locale)
		if locale == "" {
			return nil, fmt.Errorf("synonym file %s: locale must not be empty", path)
		}

		phrases, ok := out[locale]
		if !ok {
			phrases = Phrases{}
			out[locale] = phrases
		}
		for c, list := range map[Category][]string{
			Lose:       raw.Lose,
			Pickup:     raw.Pickup,
			Target:     raw.Target,
			Guaranteed: raw.Guaranteed,
		} {
			list = lo.Compact(lo.Map(list, func(s string, _ int) string { return strings.TrimSpace(s) }))
			if len(list) > 0 {
				phrases[c] = lo.Uniq(append(phrases[c], list...))
			}
		}
		slog.Debug("Loaded synonym file", "path", path, "locale", locale)
	}
	return out, nil
}

// sortedLocales returns d's locales with the default locale first and the
// rest in lexical order, so merged phrase lists are deterministic.
func sortedLocales(d Dictionary) []string {
	locales := d.Locales()
	sort.Slice(locales, func(i, j int) bool {
		if locales[i] == DefaultLocale || locales[j] == DefaultLocale {
			return locales[i] == DefaultLocale
		}
		return locales[i] < locales[j]
	})
	return locales
}
