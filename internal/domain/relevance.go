package domain

// RelevanceAssessment fuses the two independent relevance signals for one
// submission: the external validator's judgment and the locally computed
// embedding similarity. All 0-100 fields are clamped by their producers,
// never rejected.
type RelevanceAssessment struct {
	// TopicRelevance is the validator's judgment of how on-topic the
	// essay is, 0-100.
	TopicRelevance float64 `json:"topic_relevance" validate:"min=0,max=100"`

	// RequiredElements scores coverage of the prompt's semantic slots, 0-100.
	RequiredElements float64 `json:"required_elements" validate:"min=0,max=100"`

	// ContentQuality is the validator's judgment of content depth, 0-100.
	ContentQuality float64 `json:"content_quality" validate:"min=0,max=100"`

	// SemanticMatch is the validator's essay-to-prompt semantic alignment, 0-100.
	SemanticMatch float64 `json:"semantic_match" validate:"min=0,max=100"`

	// Confidence is the validator's confidence in its own judgment, 0-1.
	Confidence float64 `json:"confidence" validate:"min=0,max=1"`

	// EmbeddingRelevance is the cosine-similarity relevance computed by
	// the embedding engine, normalized to 0-100. It is populated by the
	// pipeline, not the validator.
	EmbeddingRelevance float64 `json:"embedding_relevance" validate:"min=0,max=100"`
}

// Validate checks all assessment fields against their range invariants.
func (r *RelevanceAssessment) Validate() error { return validate.Struct(r) }

// OffTopicSeverity is the discrete classification of how unrelated a
// submission is to its prompt.
type OffTopicSeverity string

// Severity grades, most to least severe. The task-response criterion
// multiplies by a per-severity factor, with SeverityComplete flooring
// the contribution near zero.
const (
	SeverityComplete   OffTopicSeverity = "complete"
	SeverityPartial    OffTopicSeverity = "partial"
	SeverityIncomplete OffTopicSeverity = "incomplete"
	SeverityNone       OffTopicSeverity = "none"
)

// OffTopicVerdict is the deterministic fusion of the two relevance
// signals. Higher combined relevance never yields a more severe
// classification.
type OffTopicVerdict struct {
	// CombinedRelevance is the weighted fusion of validator and
	// embedding relevance, 0-100.
	CombinedRelevance float64 `json:"combined_relevance" validate:"min=0,max=100"`

	// Severity is the discrete off-topic classification.
	Severity OffTopicSeverity `json:"severity" validate:"required,oneof=complete partial incomplete none"`
}

// Validate checks the verdict against its structural constraints.
func (v *OffTopicVerdict) Validate() error { return validate.Struct(v) }
