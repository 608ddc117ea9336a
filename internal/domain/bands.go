package domain

import (
	"fmt"
	"sort"
)

// BandStep maps a minimum 0-10 score to a CEFR band. Steps are evaluated
// highest floor first; the first floor at or below the score wins.
type BandStep struct {
	Floor float64   `json:"floor" validate:"min=0,max=10"`
	Band  CEFRLevel `json:"band" validate:"required"`
}

// BandTable is a monotonic step table from 0-10 scores to CEFR bands.
// Lookup is total: any score in [0, 10] resolves to exactly one band.
type BandTable struct {
	steps []BandStep
	floor CEFRLevel
}

// DefaultBandTable returns the standard CEFR step table.
func DefaultBandTable() BandTable {
	table, err := NewBandTable([]BandStep{
		{Floor: 9.0, Band: LevelC2},
		{Floor: 8.0, Band: LevelC1},
		{Floor: 7.0, Band: LevelB2},
		{Floor: 6.0, Band: LevelB1},
		{Floor: 5.0, Band: LevelA2},
		{Floor: 3.0, Band: LevelA1},
	}, LevelPreA1)
	if err != nil {
		// The default table is a compile-time constant; a failure here is
		// a programming error.
		panic(err)
	}
	return table
}

// NewBandTable builds a band table from steps plus the band used below
// the lowest floor. Duplicate floors are rejected; steps may arrive in
// any order.
func NewBandTable(steps []BandStep, floor CEFRLevel) (BandTable, error) {
	if len(steps) == 0 {
		return BandTable{}, fmt.Errorf("band table requires at least one step")
	}
	if floor == "" {
		return BandTable{}, fmt.Errorf("band table requires a floor band")
	}

	sorted := make([]BandStep, len(steps))
	copy(sorted, steps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Floor > sorted[j].Floor })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Floor == sorted[i-1].Floor {
			return BandTable{}, fmt.Errorf("duplicate band floor %.1f", sorted[i].Floor)
		}
	}

	return BandTable{steps: sorted, floor: floor}, nil
}

// Lookup maps a 0-10 score to its CEFR band. Scores outside [0, 10] are
// clamped first so the lookup stays total.
func (t BandTable) Lookup(score10 float64) CEFRLevel {
	score10 = Clamp(score10, 0, 10)
	for _, step := range t.steps {
		if score10 >= step.Floor {
			return step.Band
		}
	}
	return t.floor
}
