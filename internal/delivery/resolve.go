package delivery

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Abubakarusba/scorelaship-bot/internal/catalog"
)

// DefaultSimilarityThreshold is the minimum category similarity for a row to
// count as a match.
const DefaultSimilarityThreshold = 0.8

// Similarity returns a normalized edit-distance ratio between two category
// names: 1.0 for identical, 0.0 for completely dissimilar. Comparison is over
// lower-cased, whitespace-trimmed strings, so casing and stray spaces never
// affect matching, and small typos ("Nigerai") stay above the default
// threshold.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	if la+lb == 0 {
		return 1
	}
	d := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(d)/float64(la+lb)
}

// Resolve returns the catalog rows whose category matches the requested one,
// in catalog order. No match is an empty result, not an error.
func Resolve(cat *catalog.Catalog, requested string, threshold float64) []catalog.Item {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	var out []catalog.Item
	for _, it := range cat.Items {
		if Similarity(it.Opp.Category, requested) >= threshold {
			out = append(out, it)
		}
	}
	return out
}
