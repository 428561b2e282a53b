// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores serialized search results keyed by content hash, so
// repeated queries inside a TTL window skip the network entirely.
// Implements: prd014-result-cache (R1-R4);
//
//	docs/ARCHITECTURE § Result Cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// Cache is the store the gateway consults before any network call. Both
// implementations are safe for concurrent use by topic workers; when two
// workers race a Put on the same key, one write wins whole (R3.2).
type Cache interface {
	// Get returns the cached results for key, or ok=false on a miss or
	// expired entry. Storage errors read as misses; the cache never
	// fails a search.
	Get(ctx context.Context, key string) ([]types.SearchResult, bool)

	// Put stores results under key with the given lifetime, replacing
	// any previous entry.
	Put(ctx context.Context, key, provider string, results []types.SearchResult, ttl time.Duration) error
}

// Key builds the cache key for a query/provider pair: a sha256 over the
// normalized query text and the provider name, hex-truncated to 16 chars.
// Normalization lowercases and collapses whitespace so trivially
// reworded queries share an entry (R1.1).
func Key(text, provider string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	sum := sha256.Sum256([]byte(normalized + "|" + provider))
	return hex.EncodeToString(sum[:])[:16]
}
