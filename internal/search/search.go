// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search routes queries through a cascade of web search providers
// and degrades stepwise as providers fail or lack credentials.
// Implements: prd010-provider-gateway (R1-R5);
//
//	docs/ARCHITECTURE § Search Gateway.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// Provider is a single search backend behind the gateway. Each provider
// implements this interface per the Strategy pattern (R1.1).
type Provider interface {
	// Name returns the identifier used in results, cache keys, and
	// strategy outcomes.
	Name() string

	// Available reports whether the provider can be attempted at all.
	// Credential-gated providers return false without their key; the
	// cascade then skips them with no network call (R1.4).
	Available() bool

	// Search executes one query, mapping the backend's wire format into
	// SearchResults stamped with the provider's confidence band.
	Search(ctx context.Context, query types.SearchQuery, cfg types.GatewayConfig) ([]types.SearchResult, error)
}

// Sentinel errors used for cascade classification.
var (
	// ErrUnavailable marks a provider skipped without an attempt:
	// missing credentials or an open health breaker.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrExhausted reports that no provider and no scrape could serve a
	// query. It only ever appears inside Response.ErrorNote; the gateway
	// itself never fails on it (R3.4).
	ErrExhausted = errors.New("all providers exhausted")
)

// Method values reported in Response.Method beside plain provider names.
const (
	MethodCache = "cache"
	MethodNone  = "none"
)

// Response is the gateway's answer to one query. Total source failure
// yields empty Results plus an ErrorNote, never an error.
type Response struct {
	// Results are the served results, capped at the query's MaxResults.
	Results []types.SearchResult

	// Method names what served the query: a provider name, "cache",
	// "scrape", or "none".
	Method string

	// FromCache reports whether the results were served without a
	// network call.
	FromCache bool

	// ErrorNote carries the cascade trace when Method is "none".
	ErrorNote string
}

const (
	defaultMaxResults = 10
	defaultUserAgent  = "insight-engine/0.1"
)

// clampTimeout keeps per-request budgets inside the 10-30s operating band
// (R5.2). Zero selects the 15s default.
func clampTimeout(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return 15 * time.Second
	case d < 10*time.Second:
		return 10 * time.Second
	case d > 30*time.Second:
		return 30 * time.Second
	}
	return d
}

// userAgent returns the configured User-Agent or the package default.
func userAgent(cfg types.GatewayConfig) string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	return defaultUserAgent
}

// capResults truncates results to max, leaving the slice alone when it
// already fits.
func capResults(results []types.SearchResult, max int) []types.SearchResult {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}

// dateFormats are the wire formats providers use for published dates.
var dateFormats = []string{
	time.RFC3339,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate tries each known provider date format, returning the zero
// time when none fit. Results without a parseable date simply rank behind
// dated ones; a bad date is never an error.
func parseDate(s string) time.Time {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
