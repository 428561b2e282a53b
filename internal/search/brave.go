// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/insight-engine/internal/httputil"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// braveAPIBase is the Brave web search endpoint. Declared as a var so
// tests can substitute an httptest server.
var braveAPIBase = "https://api.search.brave.com/res/v1/web/search"

// NameBrave identifies the paid web search adapter.
const NameBrave = "brave"

// BraveBand is the confidence assigned to paid-tier results. Brave does
// not expose a per-result relevance score.
const BraveBand = 0.85

// Brave queries the Brave Search API, the paid tier of the provider
// cascade (prd010-provider-gateway R1.2). Requires a subscription token.
type Brave struct {
	Client *http.Client
	APIKey string
}

func (b *Brave) Name() string { return NameBrave }

// Available reports whether a subscription token is configured.
func (b *Brave) Available() bool { return b.APIKey != "" }

// Search issues the query against Brave and maps the web results. News
// queries restrict freshness to the past week.
func (b *Brave) Search(ctx context.Context, query types.SearchQuery, cfg types.GatewayConfig) ([]types.SearchResult, error) {
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{}
	params.Set("q", query.Text)
	params.Set("count", strconv.Itoa(maxResults))
	if query.Type == types.SearchNews {
		params.Set("freshness", "pw")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)
	req.Header.Set("User-Agent", userAgent(cfg))

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Brave API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Brave API returned HTTP %d", resp.StatusCode)
	}

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("parsing Brave response: %w", err)
	}

	var results []types.SearchResult
	for _, item := range br.Web.Results {
		results = append(results, types.SearchResult{
			Title:          item.Title,
			URL:            item.URL,
			Snippet:        item.Description,
			PublishedDate:  parseDate(item.PageAge),
			Provider:       NameBrave,
			RelevanceScore: BraveBand,
		})
	}
	return results, nil
}

type braveResponse struct {
	Web braveWebSection `json:"web"`
}

type braveWebSection struct {
	Results []braveResult `json:"results"`
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	PageAge     string `json:"page_age"`
}
