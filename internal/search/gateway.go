// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/insight-engine/internal/cache"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// cascadeOrder lists provider names per search type, best first
// (R2.1-R2.3). The scrape fallback belongs to no cascade; it always runs
// last, after every listed provider has failed or been skipped.
var cascadeOrder = map[types.SearchType][]string{
	types.SearchTechnical: {NameTavily, NameBrave, NameDuckDuckGo},
	types.SearchNews:      {NameTavily, NameDuckDuckGo, NameBrave},
	types.SearchGeneral:   {NameDuckDuckGo, NameTavily, NameBrave},
}

// cascadeFor returns the provider order for a search type. Unknown types
// route through the general cascade.
func cascadeFor(t types.SearchType) []string {
	if order, ok := cascadeOrder[t]; ok {
		return order
	}
	return cascadeOrder[types.SearchGeneral]
}

// Gateway executes queries against the provider cascade with cache
// consultation, availability gating, per-provider pacing, and health
// tracking. One gateway is shared by every topic worker in a run; the
// pacing and health state it holds is deliberately process-wide (R5.4).
type Gateway struct {
	providers map[string]Provider
	store     cache.Cache
	health    *healthBoard
	limiters  map[string]*rate.Limiter
	cfg       types.GatewayConfig
	ccfg      types.CacheConfig
	w         io.Writer
}

// New builds a gateway over the standard provider set: tavily, brave,
// duckduckgo, and the scrape fallback.
func New(cfg types.GatewayConfig, ccfg types.CacheConfig, store cache.Cache, w io.Writer) *Gateway {
	return NewWith(cfg, ccfg, store, w, DefaultProviders(cfg)...)
}

// NewWith builds a gateway over an explicit provider set; tests inject
// mocks here. A provider named "scrape" is held out of the cascades and
// used only as the final fallback. A nil store gets an in-memory cache.
func NewWith(cfg types.GatewayConfig, ccfg types.CacheConfig, store cache.Cache, w io.Writer, providers ...Provider) *Gateway {
	if w == nil {
		w = io.Discard
	}
	if store == nil {
		store = cache.NewMemory(ccfg.MaxEntries)
	}

	g := &Gateway{
		providers: make(map[string]Provider, len(providers)),
		store:     store,
		health:    newHealthBoard(cfg.BreakerThreshold),
		limiters:  make(map[string]*rate.Limiter, len(providers)),
		cfg:       cfg,
		ccfg:      ccfg,
		w:         w,
	}
	for _, p := range providers {
		g.providers[p.Name()] = p
		g.limiters[p.Name()] = newProviderLimiter(cfg.ProviderRate)
	}
	return g
}

// DefaultProviders constructs the production provider set from cfg. Slice
// order is not cascade order; the gateway re-orders per search type.
func DefaultProviders(cfg types.GatewayConfig) []Provider {
	client := &http.Client{Timeout: clampTimeout(cfg.Timeout)}
	return []Provider{
		&Tavily{Client: client, APIKey: cfg.TavilyAPIKey},
		&Brave{Client: client, APIKey: cfg.BraveAPIKey},
		&DuckDuckGo{Client: client},
		&Scrape{Client: client},
	}
}

// newProviderLimiter paces calls to one provider. Burst 1 enforces strict
// spacing regardless of how many topic workers share the gateway.
func newProviderLimiter(minInterval time.Duration) *rate.Limiter {
	if minInterval <= 0 {
		minInterval = 200 * time.Millisecond
	}
	return rate.NewLimiter(rate.Every(minInterval), 1)
}

// Search runs the cascade for one query (R3.1-R3.4): cache first, then
// each available provider in type order, then the raw-page scrape. The
// first source with results wins. Nothing here is fatal; when every
// source fails the response carries an ErrorNote and the error is nil.
func (g *Gateway) Search(ctx context.Context, query types.SearchQuery) (Response, error) {
	if query.MaxResults <= 0 {
		query.MaxResults = g.cfg.MaxResults
	}
	if query.MaxResults <= 0 {
		query.MaxResults = defaultMaxResults
	}

	var notes []string
	for _, name := range cascadeFor(query.Type) {
		p, ok := g.providers[name]
		if !ok {
			continue
		}
		resp, note := g.tryProvider(ctx, p, query)
		if note != "" {
			notes = append(notes, note)
		}
		if resp != nil {
			return *resp, nil
		}
	}

	// Last resort: scrape a results page directly (R3.3).
	if p, ok := g.providers[NameScrape]; ok {
		resp, note := g.tryProvider(ctx, p, query)
		if note != "" {
			notes = append(notes, note)
		}
		if resp != nil {
			return *resp, nil
		}
	}

	note := ErrExhausted.Error()
	if len(notes) > 0 {
		note = fmt.Sprintf("%s: %s", note, strings.Join(notes, "; "))
	}
	return Response{Method: MethodNone, ErrorNote: note}, nil
}

// tryProvider runs one cascade step: cache consult, availability and
// health gating, pacing, then the provider call under its request budget.
// A nil response means fall through to the next step; the note, when set,
// joins the cascade trace.
func (g *Gateway) tryProvider(ctx context.Context, p Provider, query types.SearchQuery) (*Response, string) {
	name := p.Name()
	key := cache.Key(query.Text, name)

	if results, ok := g.store.Get(ctx, key); ok && len(results) > 0 {
		return &Response{
			Results:   capResults(results, query.MaxResults),
			Method:    MethodCache,
			FromCache: true,
		}, ""
	}

	if !p.Available() {
		return nil, fmt.Sprintf("%s: %v", name, ErrUnavailable)
	}

	if err := g.limiters[name].Wait(ctx); err != nil {
		return nil, fmt.Sprintf("%s: %v", name, err)
	}

	results, err := g.health.run(name, func() ([]types.SearchResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, clampTimeout(g.cfg.Timeout))
		defer cancel()
		return p.Search(callCtx, query, g.cfg)
	})
	if err != nil {
		if isCircuitOpen(err) {
			return nil, fmt.Sprintf("%s: %v", name, ErrUnavailable)
		}
		fmt.Fprintf(g.w, "warning: provider %s failed: %v\n", name, err)
		return nil, fmt.Sprintf("%s: %v", name, err)
	}
	if len(results) == 0 {
		return nil, fmt.Sprintf("%s: no results", name)
	}

	results = capResults(results, query.MaxResults)
	if err := g.store.Put(ctx, key, name, results, g.ttlFor(name)); err != nil {
		fmt.Fprintf(g.w, "warning: caching %s results: %v\n", name, err)
	}
	return &Response{Results: results, Method: name}, nil
}

// ttlFor picks the cache lifetime for a provider's results. Scrape
// payloads change slowly and keep a longer TTL (R4.2).
func (g *Gateway) ttlFor(name string) time.Duration {
	if name == NameScrape {
		if g.ccfg.ScrapeTTL > 0 {
			return g.ccfg.ScrapeTTL
		}
		return 6 * time.Hour
	}
	if g.ccfg.TTL > 0 {
		return g.ccfg.TTL
	}
	return time.Hour
}

// Status describes one provider for operator-facing listings.
type Status struct {
	Name      string
	Available bool
	Band      float64
}

// ProviderStatus reports each configured provider in cascade display
// order, the scrape fallback last.
func (g *Gateway) ProviderStatus() []Status {
	order := []string{NameTavily, NameBrave, NameDuckDuckGo, NameScrape}
	bands := map[string]float64{
		NameTavily:     TavilyBand,
		NameBrave:      BraveBand,
		NameDuckDuckGo: DuckDuckGoBand,
		NameScrape:     ScrapeBand,
	}

	var out []Status
	for _, name := range order {
		p, ok := g.providers[name]
		if !ok {
			continue
		}
		out = append(out, Status{Name: name, Available: p.Available(), Band: bands[name]})
	}
	return out
}
