// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pdiddy/insight-engine/pkg/types"
)

const defaultMaxEntries = 512

// memoryEntry is one cached result list with its expiry bookkeeping.
type memoryEntry struct {
	provider  string
	results   []types.SearchResult
	fetchedAt time.Time
	expiresAt time.Time
}

// Memory is the in-process cache used when no cache directory is
// configured, and by most tests. Entries expire lazily on read; when the
// store is full the oldest entry is evicted first.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	maxEntries int
}

// NewMemory returns an empty in-memory cache. maxEntries <= 0 selects the
// default bound (512).
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Memory{
		entries:    make(map[string]*memoryEntry),
		maxEntries: maxEntries,
	}
}

// Get returns the cached results for key, dropping the entry when its TTL
// has lapsed.
func (m *Memory) Get(_ context.Context, key string) ([]types.SearchResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}

	// Copy so callers cannot mutate the cached slice.
	out := make([]types.SearchResult, len(e.results))
	copy(out, e.results)
	return out, true
}

// Put stores results under key, evicting the oldest entry when full.
func (m *Memory) Put(_ context.Context, key, provider string, results []types.SearchResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictOldest()
	}

	stored := make([]types.SearchResult, len(results))
	copy(stored, results)

	now := time.Now()
	m.entries[key] = &memoryEntry{
		provider:  provider,
		results:   stored,
		fetchedAt: now,
		expiresAt: now.Add(ttl),
	}
	return nil
}

// Len returns the number of live entries, expired ones included until read.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// evictOldest removes the entry with the earliest fetch time. Callers hold mu.
func (m *Memory) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	for key, e := range m.entries {
		if oldestKey == "" || e.fetchedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.fetchedAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
