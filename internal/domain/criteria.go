package domain

import (
	"errors"
	"fmt"
	"math"
)

// Criterion is one of the four writing-rubric dimensions scored
// independently before final weighting.
type Criterion string

// The four rubric criteria. Their weights must sum to 1.0 in any
// weight set accepted by the final scorer.
const (
	CriterionTaskResponse    Criterion = "taskResponse"
	CriterionLexicalResource Criterion = "lexicalResource"
	CriterionGrammar         Criterion = "grammar"
	CriterionCoherence       Criterion = "coherence"
)

// Criteria lists the four rubric criteria in reporting order.
func Criteria() []Criterion {
	return []Criterion{
		CriterionTaskResponse,
		CriterionLexicalResource,
		CriterionGrammar,
		CriterionCoherence,
	}
}

// CriterionScore is one rubric criterion's 0-100 score.
type CriterionScore struct {
	Name  Criterion `json:"name" validate:"required,oneof=taskResponse lexicalResource grammar coherence"`
	Value float64   `json:"value" validate:"min=0,max=100"`
}

// Validate checks the criterion score against its constraints.
func (c *CriterionScore) Validate() error { return validate.Struct(c) }

// Default criterion weights used by the final scorer. Domain-tunable
// configuration, not calibrated constants.
const (
	TaskResponseWeight    = 0.35
	LexicalResourceWeight = 0.25
	GrammarWeight         = 0.25
	CoherenceWeight       = 0.15
)

// weightSumTolerance bounds floating-point drift when checking that a
// weight set sums to 1.0.
const weightSumTolerance = 1e-9

// ErrWeightSum indicates a weight set does not sum to 1.0.
var ErrWeightSum = errors.New("weights must sum to 1.0")

// CriterionWeights maps each rubric criterion to its share of the final
// score.
type CriterionWeights map[Criterion]float64

// DefaultCriterionWeights returns the standard criterion weight set.
// Returns a fresh copy to prevent mutation.
func DefaultCriterionWeights() CriterionWeights {
	return CriterionWeights{
		CriterionTaskResponse:    TaskResponseWeight,
		CriterionLexicalResource: LexicalResourceWeight,
		CriterionGrammar:         GrammarWeight,
		CriterionCoherence:       CoherenceWeight,
	}
}

// Validate checks that every criterion carries a non-negative weight and
// that the weights sum to 1.0 within tolerance. Called at scorer
// construction so that a bad weight set fails before any scoring request
// is accepted.
func (w CriterionWeights) Validate() error {
	var sum float64
	for _, c := range Criteria() {
		weight, ok := w[c]
		if !ok {
			return fmt.Errorf("missing weight for criterion %q", c)
		}
		if weight < 0 {
			return fmt.Errorf("negative weight %f for criterion %q", weight, c)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: got %f", ErrWeightSum, sum)
	}
	return nil
}
