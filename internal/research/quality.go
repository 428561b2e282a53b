// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"sort"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// Score weights and grade thresholds (prd013-quality-scoring R1.4, R3.1).
const (
	coverageWeight     = 0.4
	diversityWeight    = 0.3
	completenessWeight = 0.3

	gradeExcellentFloor = 0.8
	gradeGoodFloor      = 0.6
	gradeFairFloor      = 0.4

	// excellentSourceCount is the distinct-source count treated as full
	// diversity.
	excellentSourceCount = 10
)

// ScoreTopic computes one topic's quality report given the batch-level
// completeness. Recomputation from the same evidence yields the same
// report.
func ScoreTopic(ev types.TopicEvidence, completeness float64) types.QualityReport {
	coverage := coverageScore(ev.Outcomes)
	diversity := diversityScore(ev.Sources)
	overall := coverageWeight*coverage + diversityWeight*diversity + completenessWeight*completeness
	return types.QualityReport{
		Coverage:        coverage,
		SourceDiversity: diversity,
		Completeness:    completeness,
		Overall:         overall,
		Grade:           GradeFor(overall),
	}
}

// coverageScore is the fraction of attempted strategies that returned at
// least one result.
func coverageScore(outcomes []types.StrategyOutcome) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	served := 0
	for _, o := range outcomes {
		if o.ResultCount > 0 {
			served++
		}
	}
	return float64(served) / float64(len(outcomes))
}

// diversityScore scales the distinct source count against the assumed
// excellent count of ten, capped at 1.0.
func diversityScore(sources []string) float64 {
	d := float64(len(sources)) / excellentSourceCount
	if d > 1 {
		return 1
	}
	return d
}

// Completeness is the fraction of topics whose findings are non-empty.
// It is a batch-level score: every topic's report in one batch carries
// the same value.
func Completeness(topics []types.TopicEvidence) float64 {
	if len(topics) == 0 {
		return 0
	}
	withFindings := 0
	for _, ev := range topics {
		if len(ev.Findings) > 0 {
			withFindings++
		}
	}
	return float64(withFindings) / float64(len(topics))
}

// GradeFor maps an overall score to its grade bucket.
func GradeFor(score float64) string {
	switch {
	case score >= gradeExcellentFloor:
		return types.GradeExcellent
	case score >= gradeGoodFloor:
		return types.GradeGood
	case score >= gradeFairFloor:
		return types.GradeFair
	}
	return types.GradePoor
}

// CommonTechnologies lists the technologies matched in more than one
// topic's technical signals, sorted.
func CommonTechnologies(topics []types.TopicEvidence) []string {
	counts := make(map[string]int)
	for _, ev := range topics {
		for _, tech := range ev.Signals.Technical.Technologies {
			counts[tech]++
		}
	}

	var common []string
	for tech, n := range counts {
		if n > 1 {
			common = append(common, tech)
		}
	}
	sort.Strings(common)
	return common
}

// TopCompetitor returns the competitor matched across the most topics,
// ties broken alphabetically. Empty when no topic matched one.
func TopCompetitor(topics []types.TopicEvidence) string {
	counts := make(map[string]int)
	for _, ev := range topics {
		for _, c := range ev.Signals.Market.Competitors {
			counts[c]++
		}
	}

	var top string
	best := 0
	for c, n := range counts {
		if n > best || (n == best && n > 0 && c < top) {
			top, best = c, n
		}
	}
	return top
}
