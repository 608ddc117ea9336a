// Package wordcount implements the deterministic word-count policy: a
// piecewise function of actual essay length against the prompt's bounds,
// producing a sub-score and the penalty multiplier applied to task
// response.
package wordcount

import (
	"strings"

	"github.com/ahrav/go-essayscore/internal/domain"
)

// Piecewise score constants. The too-short band scales linearly up to
// tooShortCeiling; the good band spans goodFloor..excellentFloor; the
// excellent band adds a bonus capped at 100.
const (
	tooShortCeiling  = 70.0
	goodFloor        = 70.0
	goodSpan         = 20.0
	excellentFloor   = 90.0
	excellentBonus   = 10.0
	tooLongScore     = 85.0
	tooShortPenalty  = 0.7
	tooLongPenalty   = 0.95
	noPenalty        = 1.0
)

// Count returns the number of whitespace-separated words in text.
func Count(text string) int {
	return len(strings.Fields(text))
}

// Evaluate applies the word-count policy to an actual length and the
// prompt's bounds. Pure and total: every non-negative length maps to
// exactly one result, and single-point bands (minimum == target or
// target == maximum) clamp their interpolation ratio to 1 instead of
// dividing by zero.
func Evaluate(actual int, bounds domain.WordCountBounds) domain.WordCountResult {
	switch {
	case actual < bounds.Minimum:
		ratio := 0.0
		if bounds.Minimum > 0 {
			ratio = float64(actual) / float64(bounds.Minimum)
		}
		return domain.WordCountResult{
			ActualWords:   actual,
			Status:        domain.WordCountTooShort,
			Score:         domain.Clamp100(ratio * tooShortCeiling),
			PenaltyFactor: tooShortPenalty,
		}

	case actual < bounds.Target:
		ratio := boundedRatio(actual-bounds.Minimum, bounds.Target-bounds.Minimum)
		return domain.WordCountResult{
			ActualWords:   actual,
			Status:        domain.WordCountGood,
			Score:         goodFloor + ratio*goodSpan,
			PenaltyFactor: noPenalty,
		}

	case actual <= bounds.Maximum:
		ratio := boundedRatio(actual-bounds.Target, bounds.Maximum-bounds.Target)
		return domain.WordCountResult{
			ActualWords:   actual,
			Status:        domain.WordCountExcellent,
			Score:         domain.Clamp100(excellentFloor + ratio*excellentBonus),
			PenaltyFactor: noPenalty,
		}

	default:
		return domain.WordCountResult{
			ActualWords:   actual,
			Status:        domain.WordCountTooLong,
			Score:         tooLongScore,
			PenaltyFactor: tooLongPenalty,
		}
	}
}

// boundedRatio returns numerator/denominator clamped to [0, 1], treating
// a zero denominator as a single-point boundary (ratio 1).
func boundedRatio(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 1.0
	}
	return domain.Clamp01(float64(numerator) / float64(denominator))
}
