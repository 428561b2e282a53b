// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"net/url"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/insight-engine/pkg/types"
)

const defaultMaxUnique = 15

// nearDuplicateShare is the token-overlap fraction of the smaller title
// at which two results count as the same finding.
const nearDuplicateShare = 0.7

// trackingParams vary per click without changing the destination and are
// stripped during URL normalization.
var trackingParams = map[string]bool{
	"fbclid": true,
	"gclid":  true,
	"ref":    true,
	"source": true,
}

// Deduplicate drops exact URL duplicates and near-duplicate titles,
// first seen wins, then ranks the survivors and truncates to maxUnique.
// Returns the survivors and the number of duplicates removed; truncation
// is not counted as removal. The pass is order-sensitive: callers must
// hand in results in strategy execution order (prd011-topic-research
// R2.1-R2.4).
func Deduplicate(results []types.SearchResult, maxUnique int) ([]types.SearchResult, int) {
	if maxUnique <= 0 {
		maxUnique = defaultMaxUnique
	}

	var kept []types.SearchResult
	var keptTokens []map[string]bool
	seen := make(map[string]bool, len(results))

	for _, r := range results {
		u := normalizeURL(r.URL)
		if seen[u] {
			continue
		}
		tokens := titleTokens(r.Title)
		if matchesKeptTitle(tokens, keptTokens) {
			continue
		}
		seen[u] = true
		keptTokens = append(keptTokens, tokens)
		kept = append(kept, r)
	}
	removed := len(results) - len(kept)

	rank(kept)
	if len(kept) > maxUnique {
		kept = kept[:maxUnique]
	}
	return kept, removed
}

// rank orders by relevance descending, dated results ahead on ties. The
// stable sort keeps fetch order as the final tie-break.
func rank(results []types.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RelevanceScore != results[j].RelevanceScore {
			return results[i].RelevanceScore > results[j].RelevanceScore
		}
		return results[i].HasDate() && !results[j].HasDate()
	})
}

// normalizeURL canonicalizes a URL for exact-duplicate comparison:
// lowercased scheme and host, fragment dropped, tracking parameters
// stripped, trailing slash trimmed. Unparseable URLs compare verbatim.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for param := range q {
		if trackingParams[param] || strings.HasPrefix(param, "utm_") {
			q.Del(param)
		}
	}
	u.RawQuery = q.Encode()

	return strings.TrimSuffix(u.String(), "/")
}

// titleTokens splits a case-folded title into its distinct alphanumeric
// words.
func titleTokens(title string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make(map[string]bool, len(words))
	for _, w := range words {
		tokens[w] = true
	}
	return tokens
}

// matchesKeptTitle reports whether tokens overlap any kept title by at
// least nearDuplicateShare of the smaller token set.
func matchesKeptTitle(tokens map[string]bool, kept []map[string]bool) bool {
	for _, k := range kept {
		if tokenOverlap(tokens, k) {
			return true
		}
	}
	return false
}

func tokenOverlap(a, b map[string]bool) bool {
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	if smaller == 0 {
		return false
	}
	shared := 0
	for tok := range a {
		if b[tok] {
			shared++
		}
	}
	return float64(shared) >= nearDuplicateShare*float64(smaller)
}
