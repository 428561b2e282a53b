// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"strings"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// maxKeySources bounds how many top-ranked results become findings.
const maxKeySources = 3

// Categorize buckets results under the focus area stamped at fetch time.
// Content is never re-classified: a result fetched for the pricing
// variant stays a pricing result even when its text reads like news
// (prd012-signal-extraction R1.1).
func Categorize(results []types.SearchResult) map[types.FocusArea][]types.SearchResult {
	buckets := make(map[types.FocusArea][]types.SearchResult)
	for _, r := range results {
		buckets[r.Focus] = append(buckets[r.Focus], r)
	}
	return buckets
}

// deriveFindings renders the evidence into short human-readable
// statements: one line per non-empty signal family plus the top-ranked
// sources. A topic with results always yields at least one finding; a
// topic with none yields none.
func deriveFindings(ev *types.TopicEvidence) []string {
	var findings []string

	if techs := ev.Signals.Technical.Technologies; len(techs) > 0 {
		findings = append(findings, fmt.Sprintf("Technologies in play: %s.", strings.Join(techs, ", ")))
	}
	if comps := ev.Signals.Market.Competitors; len(comps) > 0 {
		findings = append(findings, fmt.Sprintf("Competitors mentioned: %s.", strings.Join(comps, ", ")))
	}
	if sizes := ev.Signals.Market.MarketSizes; len(sizes) > 0 {
		findings = append(findings, fmt.Sprintf("Market size figures cited: %s.", strings.Join(sizes, ", ")))
	}
	if models := ev.Signals.Pricing.Models; len(models) > 0 {
		findings = append(findings, fmt.Sprintf("Pricing models discussed: %s.", strings.Join(models, ", ")))
	}

	for i, r := range ev.Results {
		if i >= maxKeySources {
			break
		}
		findings = append(findings, fmt.Sprintf("Key source: %s (%s).", r.Title, r.URL))
	}
	return findings
}
