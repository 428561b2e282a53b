// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pdiddy/insight-engine/pkg/types"
)

const sampleDDGJSON = `{
  "Heading": "Apache Kafka",
  "AbstractText": "Apache Kafka is a distributed event streaming platform.",
  "AbstractURL": "https://en.wikipedia.org/wiki/Apache_Kafka",
  "RelatedTopics": [
    {
      "Text": "Kafka Streams - A client library for stream processing.",
      "FirstURL": "https://duckduckgo.com/Kafka_Streams"
    },
    {
      "Text": "Confluent - A company founded by the creators of Kafka.",
      "FirstURL": "https://duckduckgo.com/Confluent"
    },
    {
      "Name": "Related clients",
      "Topics": [
        {
          "Text": "librdkafka - The C client implementation.",
          "FirstURL": "https://duckduckgo.com/librdkafka"
        }
      ]
    }
  ]
}`

func ddgTestServer(statusCode int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func TestDuckDuckGoSearch(t *testing.T) {
	var receivedQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleDDGJSON)
	}))
	defer ts.Close()

	old := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	defer func() { duckduckgoAPIBase = old }()

	p := &DuckDuckGo{Client: ts.Client()}
	results, err := p.Search(context.Background(), types.SearchQuery{Text: "apache kafka", Type: types.SearchGeneral}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if receivedQuery.Get("q") != "apache kafka" {
		t.Errorf("q = %q", receivedQuery.Get("q"))
	}
	if receivedQuery.Get("format") != "json" {
		t.Errorf("format = %q, want json", receivedQuery.Get("format"))
	}
	if receivedQuery.Get("no_html") != "1" {
		t.Errorf("no_html = %q, want 1", receivedQuery.Get("no_html"))
	}
	if receivedQuery.Get("skip_disambig") != "1" {
		t.Errorf("skip_disambig = %q, want 1", receivedQuery.Get("skip_disambig"))
	}

	// Abstract first, then two plain topics, then the nested one.
	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}

	r0 := results[0]
	if r0.Title != "Apache Kafka" {
		t.Errorf("Title = %q, want the heading", r0.Title)
	}
	if r0.URL != "https://en.wikipedia.org/wiki/Apache_Kafka" {
		t.Errorf("URL = %q", r0.URL)
	}
	if r0.Provider != "duckduckgo" {
		t.Errorf("Provider = %q, want %q", r0.Provider, "duckduckgo")
	}
	if math.Abs(r0.RelevanceScore-DuckDuckGoBand) > 0.001 {
		t.Errorf("RelevanceScore = %f, want band %f", r0.RelevanceScore, DuckDuckGoBand)
	}

	// Topic titles are the name portion before " - ".
	if results[1].Title != "Kafka Streams" {
		t.Errorf("Title = %q, want %q", results[1].Title, "Kafka Streams")
	}
	if results[1].Snippet != "Kafka Streams - A client library for stream processing." {
		t.Errorf("Snippet = %q, want the full topic text", results[1].Snippet)
	}

	// Nested groups are flattened in order.
	if results[3].Title != "librdkafka" {
		t.Errorf("Title = %q, want flattened nested topic", results[3].Title)
	}
}

func TestDuckDuckGoNoAbstract(t *testing.T) {
	noAbstract := `{
		"Heading": "",
		"AbstractText": "",
		"AbstractURL": "",
		"RelatedTopics": [
			{"Text": "Only Topic - The only entry.", "FirstURL": "https://duckduckgo.com/Only_Topic"}
		]
	}`

	ts := ddgTestServer(http.StatusOK, noAbstract)
	defer ts.Close()

	old := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	defer func() { duckduckgoAPIBase = old }()

	p := &DuckDuckGo{Client: ts.Client()}
	results, err := p.Search(context.Background(), types.SearchQuery{Text: "obscure"}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Title != "Only Topic" {
		t.Errorf("Title = %q", results[0].Title)
	}
}

func TestDuckDuckGoSkipsTopicsWithoutURL(t *testing.T) {
	partial := `{
		"AbstractText": "",
		"AbstractURL": "",
		"RelatedTopics": [
			{"Text": "No URL here.", "FirstURL": ""},
			{"Text": "", "FirstURL": "https://duckduckgo.com/empty"},
			{"Text": "Kept - Survives filtering.", "FirstURL": "https://duckduckgo.com/kept"}
		]
	}`

	ts := ddgTestServer(http.StatusOK, partial)
	defer ts.Close()

	old := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	defer func() { duckduckgoAPIBase = old }()

	p := &DuckDuckGo{Client: ts.Client()}
	results, err := p.Search(context.Background(), types.SearchQuery{Text: "q"}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Title != "Kept" {
		t.Errorf("Title = %q, want %q", results[0].Title, "Kept")
	}
}

func TestDuckDuckGoMaxResults(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"AbstractText":"","AbstractURL":"","RelatedTopics":[`)
	for i := 0; i < 20; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"Text":"Topic %d - entry.","FirstURL":"https://duckduckgo.com/t%d"}`, i, i)
	}
	sb.WriteString(`]}`)

	ts := ddgTestServer(http.StatusOK, sb.String())
	defer ts.Close()

	old := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	defer func() { duckduckgoAPIBase = old }()

	p := &DuckDuckGo{Client: ts.Client()}
	results, err := p.Search(context.Background(), types.SearchQuery{Text: "q", MaxResults: 5}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("len(results) = %d, want 5", len(results))
	}
}

func TestDuckDuckGoAlwaysAvailable(t *testing.T) {
	if !(&DuckDuckGo{}).Available() {
		t.Error("Available() = false, keyless provider should always be available")
	}
}

func TestDuckDuckGoHTTPError(t *testing.T) {
	ts := ddgTestServer(http.StatusBadGateway, "")
	defer ts.Close()

	old := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	defer func() { duckduckgoAPIBase = old }()

	p := &DuckDuckGo{Client: ts.Client()}
	_, err := p.Search(context.Background(), types.SearchQuery{Text: "q"}, testCfg())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("error = %q, should contain HTTP 502", err.Error())
	}
}

func TestDuckDuckGoMalformedJSON(t *testing.T) {
	ts := ddgTestServer(http.StatusOK, `{not valid json`)
	defer ts.Close()

	old := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	defer func() { duckduckgoAPIBase = old }()

	p := &DuckDuckGo{Client: ts.Client()}
	_, err := p.Search(context.Background(), types.SearchQuery{Text: "q"}, testCfg())
	if err == nil {
		t.Fatal("expected JSON parse error")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("error = %q, should mention parsing", err.Error())
	}
}

func TestTopicTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Kafka Streams - A client library.", "Kafka Streams"},
		{"No separator here", "No separator here"},
		{" - leading separator", " - leading separator"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := topicTitle(tt.input); got != tt.want {
				t.Errorf("topicTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFlattenTopics(t *testing.T) {
	topics := []ddgTopic{
		{Text: "A", FirstURL: "https://example.com/a"},
		{Topics: []ddgTopic{
			{Text: "B", FirstURL: "https://example.com/b"},
			{Text: "C", FirstURL: "https://example.com/c"},
		}},
		{Text: "D", FirstURL: "https://example.com/d"},
	}

	flat := flattenTopics(topics)
	if len(flat) != 4 {
		t.Fatalf("len(flat) = %d, want 4", len(flat))
	}
	want := []string{"A", "B", "C", "D"}
	for i, w := range want {
		if flat[i].Text != w {
			t.Errorf("flat[%d].Text = %q, want %q", i, flat[i].Text, w)
		}
	}
}
