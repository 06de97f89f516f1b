// Package parser extracts typed rows from the raw payloads of the list
// sources: the detention facility HTML table, the legal service provider PDF,
// and the grantee JSON API. It also holds the organization name normalization
// that every cross-source comparison goes through.
package parser

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var legalSuffixes = map[string]struct{}{ //nolint:gochecknoglobals
	"inc":        {},
	"llc":        {},
	"llp":        {},
	"ltd":        {},
	"corp":       {},
	"foundation": {},
	"the":        {},
}

// NormalizeName maps an organization name to the form used for cross-source
// comparison: diacritics removed, lowercased, legal suffixes ("inc", "llc",
// "llp", "ltd", "corp", "foundation", "the") and punctuation stripped,
// whitespace collapsed. NormalizeName is idempotent.
//
// Two names denote the same entity only if their normalized forms are equal;
// raw names are never compared across sources.
func NormalizeName(s string) string {
	return strings.Join(nameTokens(s), " ")
}

func nameTokens(s string) []string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	folded = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, folded)
	fields := strings.Fields(folded)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := legalSuffixes[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

const minSignificantWordLen = 3

// significantWords returns the normalized words of s that are long enough to
// carry meaning in a word overlap comparison.
func significantWords(s string) []string {
	words := []string{}
	seen := map[string]struct{}{}
	for _, w := range nameTokens(s) {
		if len(w) < minSignificantWordLen {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

// WordOverlap returns the fraction of the significant words of name that
// appear in line, between 0 and 1.
func WordOverlap(name, line string) float64 {
	words := significantWords(name)
	if len(words) == 0 {
		return 0
	}
	lineWords := map[string]struct{}{}
	for _, w := range nameTokens(line) {
		lineWords[w] = struct{}{}
	}
	matched := 0
	for _, w := range words {
		if _, ok := lineWords[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(words))
}

// BorderlineMargin is the distance below the overlap threshold within which a
// best match is reported as borderline for human review.
const BorderlineMargin = 0.15

// Match is the result of matching a name against unstructured lines.
type Match struct {
	Matched    bool
	Borderline bool
	Score      float64
	Line       string
}

// MatchProviderLines matches name against lines. A line containing the whole
// normalized name is a full match. Otherwise the line with the highest word
// overlap is taken, and it matches when the overlap reaches threshold.
// A best score within BorderlineMargin below threshold is flagged Borderline;
// borderline matches are never treated as matches.
func MatchProviderLines(name string, lines []string, threshold float64) Match {
	normalized := NormalizeName(name)
	if normalized == "" {
		return Match{}
	}
	best := Match{}
	for _, line := range lines {
		nl := NormalizeName(line)
		if strings.Contains(" "+nl+" ", " "+normalized+" ") {
			return Match{Matched: true, Score: 1, Line: line}
		}
		if score := WordOverlap(name, line); score > best.Score {
			best = Match{Score: score, Line: line}
		}
	}
	if best.Score >= threshold {
		best.Matched = true
		return best
	}
	if best.Score > 0 && best.Score >= threshold-BorderlineMargin {
		best.Borderline = true
	}
	return best
}

// NameIndex maps normalized names to the indexes of the entries carrying them.
type NameIndex map[string][]int

// NewNameIndex indexes names by their normalized form.
func NewNameIndex(names []string) NameIndex {
	idx := NameIndex{}
	for i, name := range names {
		n := NormalizeName(name)
		if n == "" {
			continue
		}
		idx[n] = append(idx[n], i)
	}
	return idx
}

// Lookup returns the indexes of the entries whose normalized name equals the
// normalized form of name.
func (idx NameIndex) Lookup(name string) []int {
	return idx[NormalizeName(name)]
}

// uniqueSorted returns the distinct values in ascending order.
func uniqueSorted(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	arr := make([]string, 0, len(set))
	for v := range set {
		arr = append(arr, v)
	}
	sort.Strings(arr)
	return arr
}
