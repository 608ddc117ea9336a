// Package offtopic fuses the validator and embedding relevance signals
// into a combined relevance and a discrete off-topic severity.
//
// Classification is a pure function with two cross-validation rules on
// top of the weighted average: when both signals independently land in
// the complete band, agreement forces the complete verdict; when the
// signals disagree by more than the configured spread, severity is
// capped at partial because confidence in the harsher classification is
// low.
package offtopic

import (
	"fmt"
	"math"

	"github.com/ahrav/go-essayscore/internal/domain"
)

// Default fusion weights and thresholds. Domain-tunable configuration
// taken from observed behavior, not calibrated constants.
const (
	DefaultValidatorWeight = 0.7
	DefaultEmbeddingWeight = 0.3

	// Severity thresholds on combined relevance: below Complete is a
	// complete miss, below Partial a heavy one, below Incomplete a light
	// one, and at or above Incomplete no penalty applies.
	DefaultCompleteThreshold   = 30.0
	DefaultPartialThreshold    = 50.0
	DefaultIncompleteThreshold = 70.0

	// DefaultMaxSpread is the maximum disagreement between the two
	// signals before the severity cap engages.
	DefaultMaxSpread = 40.0
)

// weightSumTolerance bounds floating-point drift when checking that the
// two fusion weights sum to 1.0.
const weightSumTolerance = 1e-9

// Config holds the fusion weights and classification thresholds.
type Config struct {
	// ValidatorWeight and EmbeddingWeight must sum to 1.0.
	ValidatorWeight float64 `json:"validator_weight"`
	EmbeddingWeight float64 `json:"embedding_weight"`

	// CompleteThreshold < PartialThreshold < IncompleteThreshold carve
	// combined relevance into the four severity bands.
	CompleteThreshold   float64 `json:"complete_threshold"`
	PartialThreshold    float64 `json:"partial_threshold"`
	IncompleteThreshold float64 `json:"incomplete_threshold"`

	// MaxSpread caps severity at partial when the signals disagree by
	// more than this many points.
	MaxSpread float64 `json:"max_spread"`
}

// DefaultConfig returns the standard fusion configuration.
func DefaultConfig() Config {
	return Config{
		ValidatorWeight:     DefaultValidatorWeight,
		EmbeddingWeight:     DefaultEmbeddingWeight,
		CompleteThreshold:   DefaultCompleteThreshold,
		PartialThreshold:    DefaultPartialThreshold,
		IncompleteThreshold: DefaultIncompleteThreshold,
		MaxSpread:           DefaultMaxSpread,
	}
}

// Validate fails fast on a malformed configuration: weights that do not
// sum to 1.0, or thresholds out of order.
func (c Config) Validate() error {
	if c.ValidatorWeight < 0 || c.EmbeddingWeight < 0 {
		return fmt.Errorf("fusion weights must be non-negative, got %f/%f",
			c.ValidatorWeight, c.EmbeddingWeight)
	}
	if sum := c.ValidatorWeight + c.EmbeddingWeight; math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: got %f", domain.ErrWeightSum, sum)
	}
	if !(c.CompleteThreshold < c.PartialThreshold && c.PartialThreshold < c.IncompleteThreshold) {
		return fmt.Errorf("thresholds must be strictly increasing, got %f/%f/%f",
			c.CompleteThreshold, c.PartialThreshold, c.IncompleteThreshold)
	}
	if c.MaxSpread <= 0 {
		return fmt.Errorf("max spread must be positive, got %f", c.MaxSpread)
	}
	return nil
}

// Classifier maps a relevance assessment to an off-topic verdict.
type Classifier struct {
	cfg Config
}

// NewClassifier builds a classifier, failing fast on invalid configuration.
func NewClassifier(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("offtopic config: %w", err)
	}
	return &Classifier{cfg: cfg}, nil
}

// Classify fuses the assessment's validator and embedding relevance into
// a combined relevance and severity. Pure: identical inputs always yield
// identical verdicts, and increasing combined relevance never yields a
// more severe classification.
func (c *Classifier) Classify(assessment domain.RelevanceAssessment) domain.OffTopicVerdict {
	validator := domain.Clamp100(assessment.TopicRelevance)
	embedding := domain.Clamp100(assessment.EmbeddingRelevance)

	combined := validator*c.cfg.ValidatorWeight + embedding*c.cfg.EmbeddingWeight
	severity := c.severityFor(combined)

	// Independent agreement below the complete threshold overrides the
	// weighted average: both signals concurring raises confidence in the
	// harshest verdict.
	if validator < c.cfg.CompleteThreshold && embedding < c.cfg.CompleteThreshold {
		severity = domain.SeverityComplete
	} else if math.Abs(validator-embedding) > c.cfg.MaxSpread {
		// Disagreement beyond the spread lowers confidence, so the
		// harsher-than-partial classifications are avoided.
		if severity == domain.SeverityComplete {
			severity = domain.SeverityPartial
		}
	}

	return domain.OffTopicVerdict{
		CombinedRelevance: domain.Clamp100(combined),
		Severity:          severity,
	}
}

func (c *Classifier) severityFor(combined float64) domain.OffTopicSeverity {
	switch {
	case combined < c.cfg.CompleteThreshold:
		return domain.SeverityComplete
	case combined < c.cfg.PartialThreshold:
		return domain.SeverityPartial
	case combined < c.cfg.IncompleteThreshold:
		return domain.SeverityIncomplete
	default:
		return domain.SeverityNone
	}
}
