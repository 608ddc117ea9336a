package domain

// Metric names the quality judge is expected to report. Metrics beyond
// these are carried through untouched; these two feed the criteria
// aggregator directly.
const (
	MetricLexicalDiversity = "lexical_diversity"
	MetricSentenceVariety  = "sentence_variety"
)

// DimensionAssessment is one writing-quality dimension's judgment: a
// 0-100 score, supporting numeric metrics, and free-text feedback lines.
type DimensionAssessment struct {
	// Score is the dimension sub-score, 0-100, clamped by the adapter.
	Score float64 `json:"score" validate:"min=0,max=100"`

	// Metrics maps named numeric features (e.g. lexical_diversity) to
	// values. Metric ranges are feature-specific; ratio metrics are 0-1.
	Metrics map[string]float64 `json:"metrics,omitempty"`

	// Feedback carries the judge's per-dimension feedback lines.
	Feedback []string `json:"feedback,omitempty"`
}

// QualityAssessment groups the four writing-quality dimensions returned
// by the quality judge for one essay.
type QualityAssessment struct {
	Vocabulary DimensionAssessment `json:"vocabulary"`
	Grammar    DimensionAssessment `json:"grammar"`
	Coherence  DimensionAssessment `json:"coherence"`
	Mechanics  DimensionAssessment `json:"mechanics"`
}

// Validate checks all dimension scores against their range invariants.
func (q *QualityAssessment) Validate() error { return validate.Struct(q) }

// Metric returns the named metric from the dimension, with ok reporting
// whether it was present.
func (d *DimensionAssessment) Metric(name string) (float64, bool) {
	v, ok := d.Metrics[name]
	return v, ok
}
