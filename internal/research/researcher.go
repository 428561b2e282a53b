// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research drives topics through the evidence pipeline: query
// expansion, the provider cascade, deduplication, categorization, signal
// extraction, and quality scoring.
// Implements: prd011-topic-research (R1-R4), prd012-signal-extraction,
// prd013-quality-scoring;
//
//	docs/ARCHITECTURE § Research Pipeline.
package research

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/insight-engine/internal/cache"
	"github.com/pdiddy/insight-engine/internal/search"
	"github.com/pdiddy/insight-engine/pkg/types"
)

const defaultMaxParallelTopics = 4

// Searcher is the slice of the gateway the researcher needs; the
// concrete search.Gateway satisfies it.
type Searcher interface {
	Search(ctx context.Context, query types.SearchQuery) (search.Response, error)
}

// Analyzer contributes free-form commentary on finished topic evidence.
// The engine treats it as optional and best-effort: analyzer output is
// appended to the engine's own findings, and an analyzer failure leaves
// those findings in place.
type Analyzer interface {
	Analyze(ctx context.Context, ev *types.TopicEvidence) ([]string, error)
}

// TopicRequest names one topic to research plus an optional context hint
// appended to its query variants.
type TopicRequest struct {
	Topic   string `json:"topic" yaml:"topic"`
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// Engine runs research calls over a shared gateway. One engine is safe
// for use by a single batch call at a time; the gateway behind it
// carries all cross-call state (pacing, health, cache).
type Engine struct {
	// Gateway serves every query variant. Required.
	Gateway Searcher

	// Config tunes pacing, parallelism, timeouts, and result caps.
	Config types.ResearchConfig

	// Analyzer, when set, adds commentary to each topic's findings.
	Analyzer Analyzer

	// History, when set, stores each finished batch report.
	History *cache.Store

	// W receives progress and warning lines.
	W io.Writer
}

// New builds an engine over the given gateway. A nil w discards
// progress output.
func New(gw Searcher, cfg types.ResearchConfig, w io.Writer) *Engine {
	if w == nil {
		w = io.Discard
	}
	return &Engine{Gateway: gw, Config: cfg, W: w}
}

// ResearchTopic runs the pipeline for one topic up to the scoring stage:
// gather per variant, deduplicate, categorize, extract signals, derive
// findings. The returned evidence is always structurally complete; a
// topic that loses every provider carries empty results and populated
// Errors, never a failure (prd011-topic-research R3.2). Scoring itself
// is batch-level and applied by ResearchBatch.
func (e *Engine) ResearchTopic(ctx context.Context, topic, hint string) types.TopicEvidence {
	if e.Config.TopicTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Config.TopicTimeout)
		defer cancel()
	}

	ev := types.TopicEvidence{
		Topic:   topic,
		Context: hint,
		Stage:   types.StageInitialized,
	}

	ev.Stage = types.StageGathering
	pool := e.gather(ctx, &ev)

	ev.Stage = types.StageDeduplicating
	ev.Results, ev.DuplicatesRemoved = Deduplicate(pool, e.Config.MaxUnique)

	ev.Stage = types.StageCategorizing
	ev.Categorized = Categorize(ev.Results)
	ev.Signals = ExtractSignals(ev.Results)
	ev.Findings = deriveFindings(&ev)

	if e.Analyzer != nil {
		extra, err := e.Analyzer.Analyze(ctx, &ev)
		if err != nil {
			fmt.Fprintf(e.W, "warning: analyzer failed for %q: %v\n", topic, err)
		} else {
			ev.Findings = append(ev.Findings, extra...)
		}
	}

	ev.Stage = types.StageScoring
	return ev
}

// gather runs the query variants serially with pacing, recording one
// outcome per variant. A variant failure never aborts its siblings; an
// expired topic deadline fails the remaining variants without a network
// call (R1.2, R1.5).
func (e *Engine) gather(ctx context.Context, ev *types.TopicEvidence) []types.SearchResult {
	queries := BuildQueries(ev.Topic, ev.Context, e.Config.MaxResults)

	var pool []types.SearchResult
	for i, q := range queries {
		if i > 0 && e.Config.StrategyDelay > 0 {
			time.Sleep(e.Config.StrategyDelay)
		}

		outcome := types.StrategyOutcome{Focus: q.Focus, Query: q.Text}

		if err := ctx.Err(); err != nil {
			outcome.Failed = true
			outcome.Error = err.Error()
			ev.Outcomes = append(ev.Outcomes, outcome)
			ev.Errors = append(ev.Errors, fmt.Sprintf("%s: %v", q.Focus, err))
			continue
		}

		resp, err := e.Gateway.Search(ctx, q)
		if err != nil {
			outcome.Failed = true
			outcome.Error = err.Error()
			ev.Outcomes = append(ev.Outcomes, outcome)
			ev.Errors = append(ev.Errors, fmt.Sprintf("%s: %v", q.Focus, err))
			fmt.Fprintf(e.W, "warning: %s variant for %q failed: %v\n", q.Focus, ev.Topic, err)
			continue
		}

		outcome.Provider = resp.Method
		outcome.ResultCount = len(resp.Results)
		if resp.ErrorNote != "" {
			outcome.Failed = true
			outcome.Error = resp.ErrorNote
			ev.Errors = append(ev.Errors, fmt.Sprintf("%s: %s", q.Focus, resp.ErrorNote))
		}
		ev.Outcomes = append(ev.Outcomes, outcome)

		// Stamp the variant's focus so categorization can bucket without
		// re-classifying. Cached results are stamped the same way.
		for j := range resp.Results {
			resp.Results[j].Focus = q.Focus
		}
		pool = append(pool, resp.Results...)

		fmt.Fprintf(e.W, "  %s: %d results via %s\n", q.Focus, len(resp.Results), resp.Method)
	}

	ev.Sources = servingSources(ev.Outcomes)
	return pool
}

// servingSources lists the distinct methods that contributed results,
// sorted.
func servingSources(outcomes []types.StrategyOutcome) []string {
	seen := make(map[string]bool)
	for _, o := range outcomes {
		if o.ResultCount == 0 || o.Provider == "" || o.Provider == search.MethodNone {
			continue
		}
		seen[o.Provider] = true
	}

	sources := make([]string, 0, len(seen))
	for s := range seen {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}

// ResearchBatch researches every requested topic with bounded
// parallelism, then scores and aggregates. Input order is preserved in
// the report regardless of completion order. The report is always
// complete; data loss shows up as low scores and per-topic errors, never
// as an error from this method (R4.2).
func (e *Engine) ResearchBatch(ctx context.Context, requests []TopicRequest) (*types.BatchReport, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("no topics to research")
	}

	report := &types.BatchReport{
		ID:      uuid.NewString(),
		Started: time.Now().UTC(),
		Topics:  make([]types.TopicEvidence, len(requests)),
		Reports: make(map[string]types.QualityReport, len(requests)),
	}

	parallel := e.Config.MaxParallelTopics
	if parallel <= 0 {
		parallel = defaultMaxParallelTopics
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, req := range requests {
		g.Go(func() error {
			fmt.Fprintf(e.W, "researching %q\n", req.Topic)
			report.Topics[i] = e.ResearchTopic(gctx, req.Topic, req.Context)
			return nil
		})
	}
	// Workers never return errors; evidence records its own.
	_ = g.Wait()

	completeness := Completeness(report.Topics)
	for i := range report.Topics {
		ev := &report.Topics[i]
		report.Reports[ev.Topic] = ScoreTopic(*ev, completeness)
		ev.Stage = types.StageComplete
	}

	report.CommonTechnologies = CommonTechnologies(report.Topics)
	report.TopCompetitor = TopCompetitor(report.Topics)
	report.Finished = time.Now().UTC()

	fmt.Fprintf(e.W, "batch %s: %d topics, mean overall %.2f\n",
		report.ID, len(report.Topics), report.Overall())

	if e.History != nil {
		if err := e.History.SaveReport(ctx, report); err != nil {
			fmt.Fprintf(e.W, "warning: saving report: %v\n", err)
		}
	}
	return report, nil
}
