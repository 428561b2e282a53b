// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the insight-engine pipeline.
// Implements: prd010-provider-gateway (SearchQuery, SearchResult, R4.1-R4.3);
//
//	prd011-topic-research (FocusArea, StrategyOutcome, TopicEvidence);
//	prd012-signal-extraction (SignalSet);
//	prd013-quality-scoring (QualityReport, BatchReport).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import "time"

// SearchType selects which provider cascade a query is routed through.
// Per prd010-provider-gateway R2.1.
type SearchType string

const (
	// SearchGeneral prefers the keyword engine, then curated and paid APIs.
	SearchGeneral SearchType = "general"

	// SearchTechnical prefers curated documentation-quality sources first.
	SearchTechnical SearchType = "technical"

	// SearchNews prefers sources with fresh coverage.
	SearchNews SearchType = "news"
)

// FocusArea tags a query variant, and every result it returns, with the
// research angle that produced it. The tag is assigned at fetch time and
// never re-classified afterwards.
type FocusArea string

const (
	FocusTrends    FocusArea = "current-trends"
	FocusMarket    FocusArea = "market-intelligence"
	FocusTechnical FocusArea = "technical-analysis"
	FocusPricing   FocusArea = "pricing-analysis"
	FocusPractical FocusArea = "practical-insights"
)

// AllFocusAreas lists the focus areas in strategy execution order.
var AllFocusAreas = []FocusArea{
	FocusTrends,
	FocusMarket,
	FocusTechnical,
	FocusPricing,
	FocusPractical,
}

// SearchQuery describes a single request to the search gateway.
type SearchQuery struct {
	// Text is the query string sent to the backend.
	Text string `json:"text" yaml:"text"`

	// MaxResults caps the number of results a provider should return.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Type selects the provider cascade: general, technical, or news.
	// Unknown values route through the general cascade.
	Type SearchType `json:"type" yaml:"type"`

	// Focus is the research angle this query variant serves.
	Focus FocusArea `json:"focus" yaml:"focus"`

	// SourceTopic is the research topic that produced this query.
	SourceTopic string `json:"source_topic" yaml:"source_topic"`
}

// SearchResult represents one item returned by a search provider.
// Per prd010-provider-gateway R4.1, each result names the provider that
// found it and carries a relevance score in [0, 1] anchored to that
// provider's confidence band.
type SearchResult struct {
	// Title is the result title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the result link, stored as returned. Deduplication works on
	// a normalized form but never rewrites the stored value.
	URL string `json:"url" yaml:"url"`

	// Snippet is the short excerpt or abstract the provider returned.
	Snippet string `json:"snippet" yaml:"snippet"`

	// PublishedDate is the publication date when the provider reports one.
	// The zero value means unknown; ranked output prefers dated results.
	PublishedDate time.Time `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	// Provider identifies which backend found this result
	// (e.g. "tavily", "brave", "duckduckgo", "scrape").
	Provider string `json:"provider" yaml:"provider"`

	// RelevanceScore is a value between 0.0 and 1.0. Providers without
	// native ranking stamp their fixed confidence default.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// Focus is the research angle of the query variant that fetched this
	// result. Stamped by the researcher, not by providers.
	Focus FocusArea `json:"focus,omitempty" yaml:"focus,omitempty"`
}

// HasDate reports whether the provider supplied a publication date.
func (r SearchResult) HasDate() bool { return !r.PublishedDate.IsZero() }
