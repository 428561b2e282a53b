// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Stage identifies a phase of the per-topic research lifecycle. Stages
// advance monotonically and are never revisited. There is no failed stage:
// a topic that loses every provider still reaches StageComplete, with empty
// results and near-zero scores.
// Per prd011-topic-research R1.3.
type Stage string

const (
	StageInitialized   Stage = "initialized"
	StageGathering     Stage = "gathering"
	StageDeduplicating Stage = "deduplicating"
	StageCategorizing  Stage = "categorizing"
	StageScoring       Stage = "scoring"
	StageComplete      Stage = "complete"
)

// StrategyOutcome records how one query variant fared. Every variant
// attempted produces exactly one outcome, successful or not, so coverage
// scoring can count attempts without guessing.
type StrategyOutcome struct {
	// Focus is the variant's research angle.
	Focus FocusArea `json:"focus" yaml:"focus"`

	// Query is the expanded query text the variant sent.
	Query string `json:"query" yaml:"query"`

	// ResultCount is the number of results the gateway returned.
	ResultCount int `json:"result_count" yaml:"result_count"`

	// Provider is the method that served the variant: a provider name,
	// "cache", "scrape", or "none" when every source failed.
	Provider string `json:"provider" yaml:"provider"`

	// Failed reports whether the variant produced no usable response.
	Failed bool `json:"failed" yaml:"failed"`

	// Error holds a diagnostic note for failed or degraded variants.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// MarketSignals holds market-intelligence evidence found in result text.
type MarketSignals struct {
	// Mentions counts every occurrence of a market dictionary term,
	// competitor name, or market-size figure across the scanned text.
	Mentions int `json:"mentions" yaml:"mentions"`

	// Competitors lists distinct vendor names matched, sorted.
	Competitors []string `json:"competitors,omitempty" yaml:"competitors,omitempty"`

	// GrowthTerms lists distinct growth-indicator terms matched, sorted.
	GrowthTerms []string `json:"growth_terms,omitempty" yaml:"growth_terms,omitempty"`

	// MarketSizes lists distinct currency-plus-scale figures matched
	// (e.g. "$4.3 billion"), sorted.
	MarketSizes []string `json:"market_sizes,omitempty" yaml:"market_sizes,omitempty"`
}

// TechnicalSignals holds technology evidence found in result text.
type TechnicalSignals struct {
	// Mentions counts every occurrence of a technical dictionary term.
	Mentions int `json:"mentions" yaml:"mentions"`

	// Technologies lists distinct technology keywords matched, sorted.
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`

	// Performance lists distinct performance terms matched, sorted.
	Performance []string `json:"performance,omitempty" yaml:"performance,omitempty"`

	// Integrations lists distinct integration terms matched, sorted.
	Integrations []string `json:"integrations,omitempty" yaml:"integrations,omitempty"`
}

// PricingSignals holds pricing evidence found in result text.
type PricingSignals struct {
	// Mentions counts every occurrence of a pricing dictionary term.
	Mentions int `json:"mentions" yaml:"mentions"`

	// CostTerms lists distinct cost terms matched, sorted.
	CostTerms []string `json:"cost_terms,omitempty" yaml:"cost_terms,omitempty"`

	// Models lists distinct pricing-model terms matched, sorted.
	Models []string `json:"models,omitempty" yaml:"models,omitempty"`

	// Savings lists distinct savings terms matched, sorted.
	Savings []string `json:"savings,omitempty" yaml:"savings,omitempty"`
}

// SignalSet groups the three signal families extracted from a topic's
// unique results. Per prd012-signal-extraction R2.1-R2.3.
type SignalSet struct {
	Market    MarketSignals    `json:"market" yaml:"market"`
	Technical TechnicalSignals `json:"technical" yaml:"technical"`
	Pricing   PricingSignals   `json:"pricing" yaml:"pricing"`
}

// Empty reports whether no family matched anything.
func (s SignalSet) Empty() bool {
	return s.Market.Mentions == 0 && s.Technical.Mentions == 0 && s.Pricing.Mentions == 0
}

// TopicEvidence is the full, deduplicated harvest for one topic. It is
// assembled stage by stage and frozen once scoring begins; downstream
// consumers (analyzers, reports) only ever read it.
type TopicEvidence struct {
	// Topic is the research subject.
	Topic string `json:"topic" yaml:"topic"`

	// Context is the optional hint that narrowed the query variants.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`

	// Stage is the lifecycle phase last entered.
	Stage Stage `json:"stage" yaml:"stage"`

	// Results holds the unique results, ranked and capped.
	Results []SearchResult `json:"results" yaml:"results"`

	// Sources lists the distinct methods that contributed results
	// (provider names plus "cache" and "scrape"), sorted.
	Sources []string `json:"sources" yaml:"sources"`

	// Outcomes records one entry per strategy attempted, in execution order.
	Outcomes []StrategyOutcome `json:"outcomes" yaml:"outcomes"`

	// DuplicatesRemoved counts results dropped by deduplication.
	DuplicatesRemoved int `json:"duplicates_removed" yaml:"duplicates_removed"`

	// Categorized buckets the unique results by the focus area stamped at
	// fetch time. Results are never re-classified by content.
	Categorized map[FocusArea][]SearchResult `json:"categorized" yaml:"categorized"`

	// Signals holds the extracted market, technical, and pricing signals.
	Signals SignalSet `json:"signals" yaml:"signals"`

	// Findings are short human-readable statements derived from signals
	// and top results. Empty when the topic produced no results.
	Findings []string `json:"findings,omitempty" yaml:"findings,omitempty"`

	// Errors collects diagnostic notes from degraded strategies.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}
