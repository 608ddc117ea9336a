package criteria

import (
	"fmt"

	"github.com/ahrav/go-essayscore/internal/domain"
)

// FinalScorer weights the four criterion scores into the overall 0-100
// and 0-10 scores and maps the latter to a CEFR band. Construction
// validates the weight set; scoring itself is pure and total.
type FinalScorer struct {
	weights domain.CriterionWeights
	bands   domain.BandTable
}

// NewFinalScorer builds a final scorer, failing fast when the weights do
// not sum to 1.0. A nil weight map uses the defaults.
func NewFinalScorer(weights domain.CriterionWeights, bands domain.BandTable) (*FinalScorer, error) {
	if weights == nil {
		weights = domain.DefaultCriterionWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("final scorer weights: %w", err)
	}
	return &FinalScorer{weights: weights, bands: bands}, nil
}

// Result is the final weighted outcome.
type Result struct {
	Score100 float64
	Score10  float64
	Band     domain.CEFRLevel
}

// Score weights the criterion scores into the overall result. Criteria
// missing from the slice contribute zero at their configured weight, so
// the result stays within [0, 100] for any valid input.
func (s *FinalScorer) Score(criteria []domain.CriterionScore) Result {
	var score100 float64
	for _, c := range criteria {
		if w, ok := s.weights[c.Name]; ok {
			score100 += domain.Clamp100(c.Value) * w
		}
	}
	score100 = domain.Clamp100(score100)
	score10 := domain.RoundTo1Decimal(score100 / 10)

	return Result{
		Score100: score100,
		Score10:  score10,
		Band:     s.bands.Lookup(score10),
	}
}
