// Package criteria combines the upstream signals into the four rubric
// criterion scores and weights them into the final 0-100 / 0-10 score
// with its CEFR band. Both stages are pure, side-effect-free transforms.
package criteria

import (
	"github.com/ahrav/go-essayscore/internal/domain"
)

// Task-response base blend: combined relevance carries most of the
// weight, required-element coverage the rest.
const (
	relevanceBaseWeight = 0.7
	elementsBaseWeight  = 0.3
)

// Sub-score scale factors for the lexical-resource and grammar criteria.
// Each criterion's sub-scores sum to at most 100 before clamping.
const (
	lexicalRangeScale          = 40.0
	lexicalSophisticationScale = 0.30
	lexicalAccuracyScale       = 0.30

	grammarRangeScale    = 50.0
	grammarAccuracyScale = 0.50
)

// Default per-severity multipliers applied to task response.
const (
	CompleteMultiplier   = 0.0
	PartialMultiplier    = 0.3
	IncompleteMultiplier = 0.7
	NoneMultiplier       = 1.0
)

// SeverityMultipliers maps each off-topic severity to its task-response
// multiplier.
type SeverityMultipliers map[domain.OffTopicSeverity]float64

// DefaultSeverityMultipliers returns the standard multiplier table.
// Returns a fresh copy to prevent mutation.
func DefaultSeverityMultipliers() SeverityMultipliers {
	return SeverityMultipliers{
		domain.SeverityComplete:   CompleteMultiplier,
		domain.SeverityPartial:    PartialMultiplier,
		domain.SeverityIncomplete: IncompleteMultiplier,
		domain.SeverityNone:       NoneMultiplier,
	}
}

// Inputs carries everything the aggregator consumes: the fused relevance
// verdict, the raw assessment it came from, the word-count outcome, and
// the per-dimension quality judgment.
type Inputs struct {
	Relevance domain.RelevanceAssessment
	OffTopic  domain.OffTopicVerdict
	WordCount domain.WordCountResult
	Quality   domain.QualityAssessment
}

// Aggregate produces the four rubric criterion scores, each clamped to
// [0, 100]. Deterministic: fixed inputs always yield identical output.
//
// A nil or incomplete multiplier table falls back to the defaults so the
// transform stays total.
func Aggregate(in Inputs, multipliers SeverityMultipliers) []domain.CriterionScore {
	if multipliers == nil {
		multipliers = DefaultSeverityMultipliers()
	}
	multiplier, ok := multipliers[in.OffTopic.Severity]
	if !ok {
		multiplier = NoneMultiplier
	}

	base := in.OffTopic.CombinedRelevance*relevanceBaseWeight +
		domain.Clamp100(in.Relevance.RequiredElements)*elementsBaseWeight
	taskResponse := domain.Clamp100(base * in.WordCount.PenaltyFactor * multiplier)

	lexical := domain.Clamp100(
		lexicalRange(in.Quality.Vocabulary) +
			in.Quality.Vocabulary.Score*lexicalSophisticationScale +
			domain.Clamp100(in.Relevance.SemanticMatch)*lexicalAccuracyScale)

	grammar := domain.Clamp100(
		grammarRange(in.Quality.Grammar) +
			in.Quality.Grammar.Score*grammarAccuracyScale)

	coherence := domain.Clamp100(in.Quality.Coherence.Score)

	return []domain.CriterionScore{
		{Name: domain.CriterionTaskResponse, Value: taskResponse},
		{Name: domain.CriterionLexicalResource, Value: lexical},
		{Name: domain.CriterionGrammar, Value: grammar},
		{Name: domain.CriterionCoherence, Value: coherence},
	}
}

// lexicalRange converts the lexical-diversity ratio metric to the 0-40
// range sub-score, falling back to the dimension score when the judge
// reported no metric.
func lexicalRange(vocabulary domain.DimensionAssessment) float64 {
	if diversity, ok := vocabulary.Metric(domain.MetricLexicalDiversity); ok {
		return domain.Clamp01(diversity) * lexicalRangeScale
	}
	return vocabulary.Score / 100 * lexicalRangeScale
}

// grammarRange converts the sentence-variety ratio metric to the 0-50
// range sub-score, falling back to the dimension score when the judge
// reported no metric.
func grammarRange(grammar domain.DimensionAssessment) float64 {
	if variety, ok := grammar.Metric(domain.MetricSentenceVariety); ok {
		return domain.Clamp01(variety) * grammarRangeScale
	}
	return grammar.Score / 100 * grammarRangeScale
}
