// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// Strategy is one query variant recipe: the research angle it covers,
// the search type it routes through, and the keyword suffix appended to
// the topic.
type Strategy struct {
	Focus  types.FocusArea
	Type   types.SearchType
	suffix string
}

// strategies defines the five variants run for every topic, in execution
// order. Outcome recording and result concatenation preserve this order
// (prd011-topic-research R1.1).
var strategies = []Strategy{
	{Focus: types.FocusTrends, Type: types.SearchNews, suffix: "latest developments"},
	{Focus: types.FocusMarket, Type: types.SearchGeneral, suffix: "market size competitors"},
	{Focus: types.FocusTechnical, Type: types.SearchTechnical, suffix: "architecture implementation details"},
	{Focus: types.FocusPricing, Type: types.SearchGeneral, suffix: "pricing cost comparison"},
	{Focus: types.FocusPractical, Type: types.SearchGeneral, suffix: "best practices case studies"},
}

// queryText renders the variant's query: topic, focus suffix, the
// current year for trends so news stays anchored to the present, then
// the caller's context hint.
func (s Strategy) queryText(topic, hint string, now time.Time) string {
	parts := []string{topic, s.suffix}
	if s.Focus == types.FocusTrends {
		parts = append(parts, strconv.Itoa(now.Year()))
	}
	if hint != "" {
		parts = append(parts, hint)
	}
	return strings.Join(parts, " ")
}

// BuildQueries expands one topic into its query variants, one per focus
// area, in execution order.
func BuildQueries(topic, hint string, maxResults int) []types.SearchQuery {
	now := time.Now()
	queries := make([]types.SearchQuery, 0, len(strategies))
	for _, s := range strategies {
		queries = append(queries, types.SearchQuery{
			Text:        s.queryText(topic, hint, now),
			MaxResults:  maxResults,
			Type:        s.Type,
			Focus:       s.Focus,
			SourceTopic: topic,
		})
	}
	return queries
}
