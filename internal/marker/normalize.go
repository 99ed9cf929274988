package marker

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// unifiedPunct is replaced by a single space during normalization.
var unifiedPunct = strings.NewReplacer(
	"/", " ",
	"-", " ",
	"_", " ",
	",", " ",
	"(", " ",
	")", " ",
)

// boundaryClass is the set of characters allowed on either side of a phrase.
const boundaryClass = `[\s|,;:.!?]`

// neverMatch compiles for a category with no phrases.
var neverMatch = regexp.MustCompile(`[^\x00-\x{10FFFF}]`)

// Normalize folds free text into the comparable form phrases are compiled
// from: NFKC, emoji removed, lower-cased, "/ - _ , ( )" turned into spaces,
// whitespace collapsed and trimmed.
func Normalize(text string) string {
	s := norm.NFKC.String(text)
	s = StripEmoji(s)
	s = strings.ToLower(s)
	s = unifiedPunct.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// StripEmoji removes code points outside the Basic Multilingual Plane,
// which is where emoji live.
func StripEmoji(text string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return -1
		}
		return r
	}, text)
}

// Compile builds a case-insensitive pattern matching any of phrases as a
// whole token: each phrase must be preceded by start-of-text or a boundary
// character and followed by a boundary character or end-of-text.
// Phrases are normalized before escaping; blank phrases are ignored.
func Compile(phrases []string) *regexp.Regexp {
	alts := make([]string, 0, len(phrases))
	seen := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		n := Normalize(p)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		alts = append(alts, regexp.QuoteMeta(n))
	}
	if len(alts) == 0 {
		return neverMatch
	}
	return regexp.MustCompile(`(?i)(?:^|` + boundaryClass + `)(?:` + strings.Join(alts, "|") + `)(?:` + boundaryClass + `|$)`)
}
