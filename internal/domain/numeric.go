package domain

import "math"

// Clamp bounds v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to [0, 1], the range of confidence values.
func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }

// Clamp100 bounds v to [0, 100], the range of sub-criterion scores.
func Clamp100(v float64) float64 { return Clamp(v, 0, 100) }

// RoundTo1Decimal rounds v to one decimal place using round-half-up.
// math.Round already rounds halves away from zero, which for the
// non-negative scores used here is round-half-up; banker's rounding is
// deliberately not used.
func RoundTo1Decimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// RoundToHalf rounds v to the nearest 0.5 using round-half-up.
// Used by the sequence-regression scorer, whose scale reports in
// half-point steps.
func RoundToHalf(v float64) float64 {
	return math.Round(v*2) / 2
}
