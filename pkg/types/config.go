package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the budget for a single provider request. Values are
	// clamped to the 10-30s band when zero or out of range.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "insight-engine/0.1"). Per prd010-provider-gateway R5.3.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GatewayConfig holds settings for the search gateway and its provider
// cascade. Per prd010-provider-gateway R5.1-R5.5.
type GatewayConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of results requested per query (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// TavilyAPIKey enables the curated Tavily provider when set.
	TavilyAPIKey string `json:"tavily_api_key,omitempty" yaml:"tavily_api_key,omitempty"`

	// BraveAPIKey enables the paid Brave provider when set.
	BraveAPIKey string `json:"brave_api_key,omitempty" yaml:"brave_api_key,omitempty"`

	// ProviderRate is the minimum interval between calls to any single
	// provider, shared across all topic workers (default 200ms).
	ProviderRate time.Duration `json:"provider_rate" yaml:"provider_rate"`

	// BreakerThreshold is the number of consecutive failures after which
	// a provider is skipped until its cooldown lapses. Zero disables the
	// breaker (default 3).
	BreakerThreshold int `json:"breaker_threshold" yaml:"breaker_threshold"`
}

// ResearchConfig holds settings for the topic researcher.
// Per prd011-topic-research R4.1-R4.5.
type ResearchConfig struct {
	GatewayConfig `yaml:",inline"`

	// StrategyDelay is the pause between consecutive query variants of
	// one topic (default 1s). Zero disables pacing.
	StrategyDelay time.Duration `json:"strategy_delay" yaml:"strategy_delay"`

	// TopicTimeout bounds one topic's full research pass. Zero means no
	// deadline (default 2m). An expired deadline stops that topic's
	// remaining variants only.
	TopicTimeout time.Duration `json:"topic_timeout" yaml:"topic_timeout"`

	// MaxParallelTopics bounds concurrent topics in a batch (default 4).
	MaxParallelTopics int `json:"max_parallel_topics" yaml:"max_parallel_topics"`

	// MaxUnique caps the deduplicated result list per topic (default 15).
	MaxUnique int `json:"max_unique" yaml:"max_unique"`
}

// CacheConfig holds settings for the result cache.
// Per prd014-result-cache R1.2, R2.4.
type CacheConfig struct {
	// Dir is the directory for the SQLite cache store. Empty selects the
	// in-memory store, which lives only as long as the process.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// TTL is the lifetime of cached API results (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// ScrapeTTL is the lifetime of cached scrape payloads. Scraped pages
	// change slowly, so the default is longer (6h).
	ScrapeTTL time.Duration `json:"scrape_ttl" yaml:"scrape_ttl"`

	// MaxEntries bounds the in-memory store before oldest-first eviction
	// (default 512). Ignored by the SQLite store.
	MaxEntries int `json:"max_entries" yaml:"max_entries"`
}

// EngineConfig groups all stage configurations for the engine.
type EngineConfig struct {
	Research ResearchConfig `json:"research" yaml:"research"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
}
