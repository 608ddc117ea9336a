package wordcount

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahrav/go-essayscore/internal/domain"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: "  \n\t ", want: 0},
		{name: "simple sentence", text: "The quick brown fox", want: 4},
		{name: "mixed whitespace", text: "one\ntwo\t three  four", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.text))
		})
	}
}

func TestEvaluate(t *testing.T) {
	bounds := domain.WordCountBounds{Minimum: 150, Target: 250, Maximum: 300}

	tests := []struct {
		name        string
		actual      int
		wantStatus  domain.WordCountStatus
		wantScore   float64
		wantPenalty float64
	}{
		{
			name:        "zero words",
			actual:      0,
			wantStatus:  domain.WordCountTooShort,
			wantScore:   0,
			wantPenalty: 0.7,
		},
		{
			name:        "just below minimum",
			actual:      149,
			wantStatus:  domain.WordCountTooShort,
			wantScore:   149.0 / 150.0 * 70,
			wantPenalty: 0.7,
		},
		{
			name:        "exactly minimum",
			actual:      150,
			wantStatus:  domain.WordCountGood,
			wantScore:   70,
			wantPenalty: 1.0,
		},
		{
			name:        "just below target",
			actual:      245,
			wantStatus:  domain.WordCountGood,
			wantScore:   70 + 95.0/100.0*20,
			wantPenalty: 1.0,
		},
		{
			name:        "exactly target",
			actual:      250,
			wantStatus:  domain.WordCountExcellent,
			wantScore:   90,
			wantPenalty: 1.0,
		},
		{
			name:        "exactly maximum",
			actual:      300,
			wantStatus:  domain.WordCountExcellent,
			wantScore:   100,
			wantPenalty: 1.0,
		},
		{
			name:        "one past maximum",
			actual:      301,
			wantStatus:  domain.WordCountTooLong,
			wantScore:   85,
			wantPenalty: 0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.actual, bounds)
			assert.Equal(t, tt.actual, got.ActualWords)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.InDelta(t, tt.wantPenalty, got.PenaltyFactor, 1e-9)
		})
	}
}

func TestEvaluate_SinglePointBounds(t *testing.T) {
	// minimum == target == maximum must not divide by zero; interpolation
	// ratios clamp to 1 at the single-point boundary.
	bounds := domain.WordCountBounds{Minimum: 100, Target: 100, Maximum: 100}

	below := Evaluate(99, bounds)
	assert.Equal(t, domain.WordCountTooShort, below.Status)

	at := Evaluate(100, bounds)
	assert.Equal(t, domain.WordCountExcellent, at.Status)
	assert.InDelta(t, 100.0, at.Score, 1e-9)
	assert.InDelta(t, 1.0, at.PenaltyFactor, 1e-9)

	above := Evaluate(101, bounds)
	assert.Equal(t, domain.WordCountTooLong, above.Status)
}

func TestEvaluate_Determinism(t *testing.T) {
	bounds := domain.WordCountBounds{Minimum: 150, Target: 250, Maximum: 300}
	first := Evaluate(245, bounds)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(245, bounds))
	}
}
