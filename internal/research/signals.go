// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// Signal dictionaries. Matching is token-exact against case-folded
// result text; no stemming, so "pricing" and "priced" are distinct
// entries (prd012-signal-extraction R2.4).
var (
	marketTerms = []string{
		"market", "markets", "industry", "sector", "demand", "revenue", "share",
	}
	competitorNames = []string{
		"amazon", "anthropic", "aws", "azure", "cloudflare", "confluent",
		"databricks", "datadog", "gcp", "google", "ibm", "meta", "microsoft",
		"nvidia", "openai", "oracle", "redhat", "salesforce", "snowflake",
		"vmware",
	}
	growthTerms = []string{
		"accelerating", "adoption", "boom", "cagr", "expanding", "forecast",
		"growing", "growth", "projected", "rising", "surge", "surging",
	}

	technologyTerms = []string{
		"ai", "api", "apis", "cloud", "containers", "database", "databases",
		"docker", "encryption", "golang", "graphql", "grpc", "java",
		"javascript", "kafka", "kubernetes", "linux", "llm", "microservices",
		"ml", "mysql", "oauth", "postgres", "postgresql", "python", "redis",
		"rest", "rust", "sdk", "serverless", "terraform", "typescript", "wasm",
	}
	performanceTerms = []string{
		"benchmark", "benchmarks", "concurrency", "cpu", "efficient", "fast",
		"faster", "latency", "memory", "performance", "qps", "rps",
		"scalability", "scalable", "throughput",
	}
	integrationTerms = []string{
		"compatibility", "compatible", "connector", "connectors",
		"integrates", "integration", "integrations", "interoperability",
		"plugin", "plugins", "webhook", "webhooks",
	}

	costTerms = []string{
		"affordable", "billing", "budget", "cheap", "cost", "costs",
		"expensive", "fee", "fees", "price", "priced", "prices", "pricing",
	}
	pricingModelTerms = []string{
		"enterprise", "freemium", "license", "licensing", "metered",
		"prepaid", "subscription", "subscriptions", "tier", "tiered", "tiers",
	}
	savingsTerms = []string{
		"cheaper", "discount", "discounts", "reduce", "reduced", "reduction",
		"roi", "save", "saved", "savings",
	}
)

// marketSizeRe flags currency-plus-scale figures such as "$4.3 billion"
// or "€12bn".
var marketSizeRe = regexp.MustCompile(`(?i)[$€£]\s?\d+(?:[.,]\d+)?\s?(?:billion|million|trillion|bn|mn|tn)`)

// ExtractSignals scans the combined title+snippet text of the results
// against the three signal dictionaries (prd012-signal-extraction
// R1-R3). Each family reports the distinct terms matched, sorted, plus a
// total mention count across its dictionaries.
func ExtractSignals(results []types.SearchResult) types.SignalSet {
	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(r.Title)
		sb.WriteString(" ")
		sb.WriteString(r.Snippet)
		sb.WriteString(" ")
	}
	text := strings.ToLower(sb.String())
	counts := tokenCounts(text)
	sizeMatches := marketSizeRe.FindAllString(text, -1)

	market := types.MarketSignals{
		Competitors: matchedTerms(counts, competitorNames),
		GrowthTerms: matchedTerms(counts, growthTerms),
		MarketSizes: distinctMatches(sizeMatches),
	}
	market.Mentions = totalMentions(counts, marketTerms, competitorNames, growthTerms) + len(sizeMatches)

	technical := types.TechnicalSignals{
		Technologies: matchedTerms(counts, technologyTerms),
		Performance:  matchedTerms(counts, performanceTerms),
		Integrations: matchedTerms(counts, integrationTerms),
	}
	technical.Mentions = totalMentions(counts, technologyTerms, performanceTerms, integrationTerms)

	pricing := types.PricingSignals{
		CostTerms: matchedTerms(counts, costTerms),
		Models:    matchedTerms(counts, pricingModelTerms),
		Savings:   matchedTerms(counts, savingsTerms),
	}
	pricing.Mentions = totalMentions(counts, costTerms, pricingModelTerms, savingsTerms)

	return types.SignalSet{Market: market, Technical: technical, Pricing: pricing}
}

// tokenCounts splits case-folded text into alphanumeric tokens with
// occurrence counts.
func tokenCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		counts[w]++
	}
	return counts
}

// matchedTerms returns the dictionary entries present in the token
// counts, sorted.
func matchedTerms(counts map[string]int, dict []string) []string {
	var matched []string
	for _, term := range dict {
		if counts[term] > 0 {
			matched = append(matched, term)
		}
	}
	sort.Strings(matched)
	return matched
}

// totalMentions sums the occurrences of every dictionary entry across
// the given dictionaries.
func totalMentions(counts map[string]int, dicts ...[]string) int {
	total := 0
	for _, dict := range dicts {
		for _, term := range dict {
			total += counts[term]
		}
	}
	return total
}

// distinctMatches normalizes regex matches (case-folded, space-collapsed)
// and returns the distinct set, sorted.
func distinctMatches(matches []string) []string {
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		norm := strings.Join(strings.Fields(strings.ToLower(m)), " ")
		if !seen[norm] {
			seen[norm] = true
			out = append(out, norm)
		}
	}
	sort.Strings(out)
	return out
}
