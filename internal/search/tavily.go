// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// tavilyAPIBase is the Tavily search endpoint. Declared as a var so tests
// can substitute an httptest server.
var tavilyAPIBase = "https://api.tavily.com/search"

// NameTavily identifies the curated research API adapter.
const NameTavily = "tavily"

// TavilyBand is the confidence default stamped on curated results when
// the API does not supply its own relevance score.
const TavilyBand = 0.90

// Tavily queries the Tavily research API, the curated tier of the
// provider cascade (prd010-provider-gateway R1.2). Requires an API key.
type Tavily struct {
	Client *http.Client
	APIKey string
}

func (t *Tavily) Name() string { return NameTavily }

// Available reports whether an API key is configured.
func (t *Tavily) Available() bool { return t.APIKey != "" }

// Search posts the query to Tavily and maps the response. Technical
// queries request advanced search depth; news queries use the news topic
// vertical.
func (t *Tavily) Search(ctx context.Context, query types.SearchQuery, cfg types.GatewayConfig) ([]types.SearchResult, error) {
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	body := tavilyRequest{
		APIKey:      t.APIKey,
		Query:       query.Text,
		SearchDepth: "basic",
		Topic:       "general",
		MaxResults:  maxResults,
	}
	if query.Type == types.SearchTechnical {
		body.SearchDepth = "advanced"
	}
	if query.Type == types.SearchNews {
		body.Topic = "news"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding Tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIBase, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent(cfg))

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Tavily API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("Tavily API rate limited (HTTP 429)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Tavily API returned HTTP %d", resp.StatusCode)
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing Tavily response: %w", err)
	}

	var results []types.SearchResult
	for _, item := range tr.Results {
		results = append(results, types.SearchResult{
			Title:          item.Title,
			URL:            item.URL,
			Snippet:        item.Content,
			PublishedDate:  parseDate(item.PublishedDate),
			Provider:       NameTavily,
			RelevanceScore: tavilyScore(item.Score),
		})
	}
	return results, nil
}

// tavilyScore keeps the API's native relevance ranking when present,
// clamped to [0, 1], and falls back to the curated band otherwise.
func tavilyScore(native float64) float64 {
	if native <= 0 {
		return TavilyBand
	}
	if native > 1 {
		return 1.0
	}
	return native
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	Topic       string `json:"topic"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date"`
}
