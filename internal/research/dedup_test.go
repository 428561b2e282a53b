// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"testing"
	"time"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// --- URL normalization ---

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"scheme and host fold", "HTTPS://Example.COM/Path", "https://example.com/Path"},
		{"trailing slash trimmed", "https://example.com/", "https://example.com"},
		{"fragment dropped", "https://example.com/page#section", "https://example.com/page"},
		{"utm params stripped", "https://example.com/page?utm_source=x&utm_campaign=y&id=3", "https://example.com/page?id=3"},
		{"click ids stripped", "https://example.com/page?fbclid=abc", "https://example.com/page"},
		{"plain query kept", "https://example.com/page?id=3", "https://example.com/page?id=3"},
		{"unparseable kept verbatim", "://bad", "://bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeURL(tt.input); got != tt.want {
				t.Errorf("normalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// --- exact duplicates ---

func TestDeduplicateExactURL(t *testing.T) {
	results := []types.SearchResult{
		{Title: "Kubernetes Guide", URL: "https://example.com/k8s?utm_source=feed", Provider: "tavily", RelevanceScore: 0.9},
		{Title: "K8s Guide (mirror)", URL: "https://EXAMPLE.com/k8s#intro", Provider: "brave", RelevanceScore: 0.85},
		{Title: "Service Meshes", URL: "https://example.com/mesh", Provider: "brave", RelevanceScore: 0.85},
	}

	kept, removed := Deduplicate(results, 15)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(kept) != 2 {
		t.Fatalf("len(kept) = %d, want 2", len(kept))
	}
	// First seen wins.
	if kept[0].Provider != "tavily" {
		t.Errorf("kept[0].Provider = %q, the first occurrence should survive", kept[0].Provider)
	}
}

// --- near-duplicate titles ---

func TestDeduplicateNearDuplicateTitles(t *testing.T) {
	results := []types.SearchResult{
		{Title: "Kubernetes Cluster Management Guide", URL: "https://a.example.com/1", RelevanceScore: 0.9},
		{Title: "kubernetes cluster management guide 2026!", URL: "https://b.example.com/2", RelevanceScore: 0.8},
	}

	kept, removed := Deduplicate(results, 15)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(kept) != 1 {
		t.Fatalf("len(kept) = %d, want 1", len(kept))
	}
	if kept[0].URL != "https://a.example.com/1" {
		t.Errorf("kept[0].URL = %q, first seen should win", kept[0].URL)
	}
}

func TestDeduplicateDistinctTitlesSurvive(t *testing.T) {
	results := []types.SearchResult{
		{Title: "Kubernetes Cluster Management", URL: "https://a.example.com/1", RelevanceScore: 0.9},
		{Title: "Kubernetes Pricing Overview", URL: "https://b.example.com/2", RelevanceScore: 0.8},
	}

	kept, removed := Deduplicate(results, 15)
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if len(kept) != 2 {
		t.Errorf("len(kept) = %d, below-threshold overlap must keep both", len(kept))
	}
}

func TestDeduplicateOverlapBoundary(t *testing.T) {
	// Ten tokens each, exactly seven shared: 7/10 meets the threshold.
	a := "alpha beta gamma delta epsilon zeta eta theta iota kappa"
	b := "alpha beta gamma delta epsilon zeta eta lambda mu nu"

	kept, removed := Deduplicate([]types.SearchResult{
		{Title: a, URL: "https://a.example.com/1"},
		{Title: b, URL: "https://b.example.com/2"},
	}, 15)
	if removed != 1 {
		t.Errorf("removed = %d, want 1 (seventy percent overlap collapses)", removed)
	}
	if len(kept) != 1 {
		t.Errorf("len(kept) = %d, want 1", len(kept))
	}

	// Six of ten shared stays under the threshold.
	c := "alpha beta gamma delta epsilon zeta pi rho sigma tau"
	kept, removed = Deduplicate([]types.SearchResult{
		{Title: a, URL: "https://a.example.com/1"},
		{Title: c, URL: "https://c.example.com/3"},
	}, 15)
	if removed != 0 {
		t.Errorf("removed = %d, want 0 (sixty percent overlap keeps both)", removed)
	}
	if len(kept) != 2 {
		t.Errorf("len(kept) = %d, want 2", len(kept))
	}
}

// --- ranking ---

func TestDeduplicateRanking(t *testing.T) {
	dated := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	results := []types.SearchResult{
		{Title: "Mid Score", URL: "https://example.com/a", RelevanceScore: 0.8},
		{Title: "High Undated", URL: "https://example.com/b", RelevanceScore: 0.9},
		{Title: "High Dated", URL: "https://example.com/c", RelevanceScore: 0.9, PublishedDate: dated},
		{Title: "Low Dated", URL: "https://example.com/d", RelevanceScore: 0.6, PublishedDate: dated},
	}

	kept, _ := Deduplicate(results, 15)
	wantOrder := []string{"High Dated", "High Undated", "Mid Score", "Low Dated"}
	for i, title := range wantOrder {
		if kept[i].Title != title {
			t.Errorf("kept[%d].Title = %q, want %q", i, kept[i].Title, title)
		}
	}
}

func TestDeduplicateStableOnTies(t *testing.T) {
	// Equal scores, neither dated: fetch order is preserved.
	results := []types.SearchResult{
		{Title: "First Fetched", URL: "https://example.com/1", RelevanceScore: 0.8},
		{Title: "Second Fetched", URL: "https://example.com/2", RelevanceScore: 0.8},
		{Title: "Third Fetched", URL: "https://example.com/3", RelevanceScore: 0.8},
	}

	kept, _ := Deduplicate(results, 15)
	for i, want := range []string{"First Fetched", "Second Fetched", "Third Fetched"} {
		if kept[i].Title != want {
			t.Errorf("kept[%d].Title = %q, want %q (stable order)", i, kept[i].Title, want)
		}
	}
}

// --- capping ---

func TestDeduplicateCap(t *testing.T) {
	var results []types.SearchResult
	for i := 0; i < 25; i++ {
		results = append(results, types.SearchResult{
			Title:          fmt.Sprintf("topic%d coverage%d analysis%d", i, i, i),
			URL:            fmt.Sprintf("https://example.com/p%d", i),
			RelevanceScore: 1.0 - float64(i)/25.0,
		})
	}

	kept, removed := Deduplicate(results, 0)
	if len(kept) != defaultMaxUnique {
		t.Errorf("len(kept) = %d, want default cap %d", len(kept), defaultMaxUnique)
	}
	// Truncation is not duplicate removal.
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	// The cap keeps the highest-ranked entries.
	if kept[0].Title != "topic0 coverage0 analysis0" {
		t.Errorf("kept[0].Title = %q, want the top-scored entry", kept[0].Title)
	}
}

func TestDeduplicateNeverIncreases(t *testing.T) {
	results := []types.SearchResult{
		{Title: "One", URL: "https://example.com/1"},
		{Title: "Two", URL: "https://example.com/2"},
		{Title: "One", URL: "https://example.com/1"},
	}
	kept, _ := Deduplicate(results, 15)
	if len(kept) > len(results) {
		t.Errorf("len(kept) = %d > len(input) = %d", len(kept), len(results))
	}
	// The only copy of a unique URL always survives.
	found := false
	for _, r := range kept {
		if r.URL == "https://example.com/2" {
			found = true
		}
	}
	if !found {
		t.Error("unique URL was dropped")
	}
}

func TestDeduplicateEmpty(t *testing.T) {
	kept, removed := Deduplicate(nil, 15)
	if len(kept) != 0 || removed != 0 {
		t.Errorf("Deduplicate(nil) = %d kept, %d removed, want 0, 0", len(kept), removed)
	}
}
