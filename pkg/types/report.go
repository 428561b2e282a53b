// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Grade labels for QualityReport.Grade, from best to worst.
// Per prd013-quality-scoring R3.1.
const (
	GradeExcellent = "excellent"
	GradeGood      = "good"
	GradeFair      = "fair"
	GradePoor      = "poor"
)

// QualityReport scores one topic's evidence. All component scores and the
// weighted overall are values in [0, 1].
type QualityReport struct {
	// Coverage is the fraction of attempted strategies that returned at
	// least one result.
	Coverage float64 `json:"coverage" yaml:"coverage"`

	// SourceDiversity is the distinct source count scaled against ten,
	// capped at 1.0.
	SourceDiversity float64 `json:"source_diversity" yaml:"source_diversity"`

	// Completeness is the batch-level fraction of topics with non-empty
	// findings. Every topic in a batch carries the same value.
	Completeness float64 `json:"completeness" yaml:"completeness"`

	// Overall is 0.4*Coverage + 0.3*SourceDiversity + 0.3*Completeness.
	Overall float64 `json:"overall" yaml:"overall"`

	// Grade maps Overall to excellent, good, fair, or poor.
	Grade string `json:"grade" yaml:"grade"`
}

// BatchReport aggregates one research run over a set of topics. It is the
// unit persisted to history; together with cache entries it is the only
// state that outlives a run.
type BatchReport struct {
	// ID is a random identifier assigned when the run starts.
	ID string `json:"id" yaml:"id"`

	// Topics holds the per-topic evidence in input order.
	Topics []TopicEvidence `json:"topics" yaml:"topics"`

	// Reports maps topic to its quality report.
	Reports map[string]QualityReport `json:"reports" yaml:"reports"`

	// CommonTechnologies lists technologies seen in more than one topic, sorted.
	CommonTechnologies []string `json:"common_technologies,omitempty" yaml:"common_technologies,omitempty"`

	// TopCompetitor is the most frequently matched competitor across all
	// topics' market signals; empty when none matched.
	TopCompetitor string `json:"top_competitor,omitempty" yaml:"top_competitor,omitempty"`

	// Started and Finished bound the run's wall-clock execution.
	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished" yaml:"finished"`
}

// Overall returns the mean of the per-topic overall scores, 0 for an
// empty batch.
func (b BatchReport) Overall() float64 {
	if len(b.Reports) == 0 {
		return 0
	}
	var sum float64
	for _, r := range b.Reports {
		sum += r.Overall
	}
	return sum / float64(len(b.Reports))
}
