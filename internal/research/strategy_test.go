// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/insight-engine/pkg/types"
)

func TestBuildQueriesExpandsAllFocusAreas(t *testing.T) {
	queries := BuildQueries("container orchestration", "", 10)
	if len(queries) != len(types.AllFocusAreas) {
		t.Fatalf("len(queries) = %d, want %d", len(queries), len(types.AllFocusAreas))
	}
	for i, focus := range types.AllFocusAreas {
		if queries[i].Focus != focus {
			t.Errorf("queries[%d].Focus = %q, want %q (execution order)", i, queries[i].Focus, focus)
		}
	}
}

func TestBuildQueriesSearchTypes(t *testing.T) {
	wantTypes := map[types.FocusArea]types.SearchType{
		types.FocusTrends:    types.SearchNews,
		types.FocusMarket:    types.SearchGeneral,
		types.FocusTechnical: types.SearchTechnical,
		types.FocusPricing:   types.SearchGeneral,
		types.FocusPractical: types.SearchGeneral,
	}
	for _, q := range BuildQueries("container orchestration", "", 10) {
		if q.Type != wantTypes[q.Focus] {
			t.Errorf("%s variant Type = %q, want %q", q.Focus, q.Type, wantTypes[q.Focus])
		}
	}
}

func TestBuildQueriesText(t *testing.T) {
	queries := BuildQueries("container orchestration", "", 10)
	for _, q := range queries {
		if !strings.HasPrefix(q.Text, "container orchestration ") {
			t.Errorf("%s query = %q, should start with the topic", q.Focus, q.Text)
		}
		if q.SourceTopic != "container orchestration" {
			t.Errorf("%s SourceTopic = %q", q.Focus, q.SourceTopic)
		}
		if q.MaxResults != 10 {
			t.Errorf("%s MaxResults = %d, want 10", q.Focus, q.MaxResults)
		}
	}

	// The trends variant anchors its news query to the current year.
	year := fmt.Sprintf("%d", time.Now().Year())
	if !strings.Contains(queries[0].Text, year) {
		t.Errorf("trends query = %q, should contain %s", queries[0].Text, year)
	}
	for _, q := range queries[1:] {
		if strings.Contains(q.Text, year) {
			t.Errorf("%s query = %q, only trends should carry the year", q.Focus, q.Text)
		}
	}
}

func TestBuildQueriesContextHint(t *testing.T) {
	queries := BuildQueries("container orchestration", "enterprise deployments", 10)
	for _, q := range queries {
		if !strings.HasSuffix(q.Text, " enterprise deployments") {
			t.Errorf("%s query = %q, should end with the context hint", q.Focus, q.Text)
		}
	}
}
