package domain

import "time"

// RegressionResult is the optional sequence-regression score reported
// alongside, never blended into, the criteria-based score.
type RegressionResult struct {
	// Score is the regression score on its native 0-9 scale, rounded to
	// the nearest half point and word-count-penalized.
	Score float64 `json:"score" validate:"min=0,max=9"`

	// PenaltyApplied reports whether the word-count penalty multiplier
	// reduced the raw regression score.
	PenaltyApplied bool `json:"penalty_applied"`
}

// ScoreReport is the terminal, immutable output of one scoring
// invocation. Persistence, if any, is the caller's responsibility.
type ScoreReport struct {
	// ID uniquely identifies this report for correlation and audit.
	ID string `json:"id" validate:"required,uuid"`

	// Score100 is the weighted overall score on the 0-100 scale.
	Score100 float64 `json:"score_100" validate:"min=0,max=100"`

	// Score10 is Score100/10 rounded to one decimal, 0-10.
	Score10 float64 `json:"score_10" validate:"min=0,max=10"`

	// CEFRBand is the proficiency band the 0-10 score maps to.
	CEFRBand CEFRLevel `json:"cefr_band" validate:"required"`

	// Criteria holds the four rubric criterion scores in reporting order.
	Criteria []CriterionScore `json:"criteria" validate:"required,len=4,dive"`

	// OffTopic is the relevance verdict that shaped task response.
	OffTopic OffTopicVerdict `json:"off_topic"`

	// WordCount is the deterministic length policy outcome.
	WordCount WordCountResult `json:"word_count"`

	// Regression carries the optional independent regression score.
	// Nil when the regression path is disabled.
	Regression *RegressionResult `json:"regression,omitempty"`

	// Degraded reports that one or more signals fell back to documented
	// defaults after exhausting retries.
	Degraded bool `json:"degraded"`

	// DegradedComponents names the components responsible for a degraded
	// result, e.g. "relevance-judge".
	DegradedComponents []string `json:"degraded_components,omitempty"`

	// ScoredAt records when the report was produced.
	ScoredAt time.Time `json:"scored_at" validate:"required"`

	// Elapsed is the wall-clock duration of the scoring invocation.
	Elapsed time.Duration `json:"elapsed_ms"`
}

// Validate checks the report against its range and shape invariants.
func (r *ScoreReport) Validate() error { return validate.Struct(r) }

// CriterionValue returns the named criterion's value from the report,
// with ok reporting whether it was present.
func (r *ScoreReport) CriterionValue(name Criterion) (float64, bool) {
	for _, c := range r.Criteria {
		if c.Name == name {
			return c.Value, true
		}
	}
	return 0, false
}
