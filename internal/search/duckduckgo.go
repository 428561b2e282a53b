// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/insight-engine/internal/httputil"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// duckduckgoAPIBase is the DuckDuckGo Instant Answer endpoint. Declared
// as a var so tests can substitute an httptest server.
var duckduckgoAPIBase = "https://api.duckduckgo.com/"

// NameDuckDuckGo identifies the keyword search adapter.
const NameDuckDuckGo = "duckduckgo"

// DuckDuckGoBand is the confidence assigned to keyword results. The
// Instant Answer API does not rank its topics.
const DuckDuckGoBand = 0.80

// DuckDuckGo queries the DuckDuckGo Instant Answer API, the keyword tier
// of the provider cascade (prd010-provider-gateway R1.2). Needs no
// credentials, so it is always available.
type DuckDuckGo struct {
	Client *http.Client
}

func (d *DuckDuckGo) Name() string { return NameDuckDuckGo }

// Available always reports true; the Instant Answer API is unauthenticated.
func (d *DuckDuckGo) Available() bool { return true }

// Search fetches the instant answer for the query. The abstract, when
// present, becomes the first result; related topics follow in API order.
func (d *DuckDuckGo) Search(ctx context.Context, query types.SearchQuery, cfg types.GatewayConfig) ([]types.SearchResult, error) {
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{}
	params.Set("q", query.Text)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, duckduckgoAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent(cfg))

	resp, err := httputil.DoWithRetry(ctx, d.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DuckDuckGo API returned HTTP %d", resp.StatusCode)
	}

	var dr ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("parsing DuckDuckGo response: %w", err)
	}

	var results []types.SearchResult
	if dr.AbstractText != "" && dr.AbstractURL != "" {
		results = append(results, types.SearchResult{
			Title:          dr.Heading,
			URL:            dr.AbstractURL,
			Snippet:        dr.AbstractText,
			Provider:       NameDuckDuckGo,
			RelevanceScore: DuckDuckGoBand,
		})
	}
	for _, topic := range flattenTopics(dr.RelatedTopics) {
		if topic.FirstURL == "" || topic.Text == "" {
			continue
		}
		results = append(results, types.SearchResult{
			Title:          topicTitle(topic.Text),
			URL:            topic.FirstURL,
			Snippet:        topic.Text,
			Provider:       NameDuckDuckGo,
			RelevanceScore: DuckDuckGoBand,
		})
	}
	return capResults(results, maxResults), nil
}

// flattenTopics expands category groups in place. The API nests grouped
// answers one level deep under a Topics list.
func flattenTopics(topics []ddgTopic) []ddgTopic {
	var flat []ddgTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			flat = append(flat, flattenTopics(t.Topics)...)
			continue
		}
		flat = append(flat, t)
	}
	return flat
}

// topicTitle extracts the leading name from a topic's combined
// "Name - description" text.
func topicTitle(text string) string {
	if name, _, found := strings.Cut(text, " - "); found && name != "" {
		return name
	}
	return text
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}
