// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// scrapeBase is the DuckDuckGo HTML endpoint used by the fallback
// scraper. Declared as a var so tests can substitute an httptest server.
var scrapeBase = "https://html.duckduckgo.com/html/"

// NameScrape identifies the HTML scrape adapter, the last resort of the
// provider cascade.
const NameScrape = "scrape"

// ScrapeBand is the confidence assigned to scraped results. Scraped
// pages carry no ranking signal and the markup is brittle, so they score
// below every API tier.
const ScrapeBand = 0.60

// Scrape extracts results from the DuckDuckGo HTML search page. It runs
// only after every API provider has been tried
// (prd010-provider-gateway R1.3) and needs no credentials.
type Scrape struct {
	Client *http.Client
}

func (s *Scrape) Name() string { return NameScrape }

// Available always reports true; scraping needs no credentials.
func (s *Scrape) Available() bool { return true }

// Search fetches the HTML results page and walks its DOM for result
// links and snippets.
func (s *Scrape) Search(ctx context.Context, query types.SearchQuery, cfg types.GatewayConfig) ([]types.SearchResult, error) {
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{}
	params.Set("q", query.Text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scrapeBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent(cfg))

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching results page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("results page returned HTTP %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing results page: %w", err)
	}

	var items []scrapeItem
	collectItems(doc, &items)

	var results []types.SearchResult
	for _, item := range items {
		if item.title == "" || item.url == "" {
			continue
		}
		results = append(results, types.SearchResult{
			Title:          item.title,
			URL:            item.url,
			Snippet:        item.snippet,
			Provider:       NameScrape,
			RelevanceScore: ScrapeBand,
		})
	}
	return capResults(results, maxResults), nil
}

type scrapeItem struct {
	title   string
	url     string
	snippet string
}

// collectItems walks the DOM collecting result anchors and their
// snippets. A result__a anchor starts a new item; the following
// result__snippet node fills in its snippet.
func collectItems(n *html.Node, items *[]scrapeItem) {
	if n.Type == html.ElementNode {
		switch {
		case n.Data == "a" && hasClass(n, "result__a"):
			*items = append(*items, scrapeItem{
				title: textContent(n),
				url:   decodeRedirect(attrValue(n, "href")),
			})
		case hasClass(n, "result__snippet"):
			if len(*items) > 0 && (*items)[len(*items)-1].snippet == "" {
				(*items)[len(*items)-1].snippet = textContent(n)
			}
			return
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectItems(child, items)
	}
}

// decodeRedirect unwraps DuckDuckGo's /l/ redirect links, which carry
// the destination in a uddg query parameter.
func decodeRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// hasClass reports whether the node's class attribute contains the given
// class token.
func hasClass(n *html.Node, class string) bool {
	for _, token := range strings.Fields(attrValue(n, "class")) {
		if token == class {
			return true
		}
	}
	return false
}

// attrValue returns the named attribute's value, or "" when absent.
func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// textContent concatenates the text nodes under n, collapsing runs of
// whitespace.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
