// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// BreakerCooldown is how long an open provider breaker waits before
// letting a probe request through. Tests override this to avoid real waits.
var BreakerCooldown = time.Minute

// healthBoard tracks provider failures with one circuit breaker per
// provider. A provider whose breaker is open reads as temporarily
// unavailable: the cascade skips it without burning a network call on a
// backend that just failed several times in a row (R1.5).
type healthBoard struct {
	mu        sync.Mutex
	breakers  map[string]*gobreaker.CircuitBreaker[[]types.SearchResult]
	threshold int
}

func newHealthBoard(threshold int) *healthBoard {
	return &healthBoard{
		breakers:  make(map[string]*gobreaker.CircuitBreaker[[]types.SearchResult]),
		threshold: threshold,
	}
}

// run executes fn under the named provider's breaker. A threshold of zero
// disables health tracking entirely.
func (h *healthBoard) run(name string, fn func() ([]types.SearchResult, error)) ([]types.SearchResult, error) {
	if h.threshold <= 0 {
		return fn()
	}
	return h.breaker(name).Execute(fn)
}

func (h *healthBoard) breaker(name string) *gobreaker.CircuitBreaker[[]types.SearchResult] {
	h.mu.Lock()
	defer h.mu.Unlock()

	if b, ok := h.breakers[name]; ok {
		return b
	}

	threshold := uint32(h.threshold)
	b := gobreaker.NewCircuitBreaker[[]types.SearchResult](gobreaker.Settings{
		Name:    name,
		Timeout: BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
	h.breakers[name] = b
	return b
}

// isCircuitOpen reports whether err came from the breaker itself rather
// than the provider call.
func isCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
