package domain

// WordCountStatus classifies actual essay length against the prompt's
// word-count bounds.
type WordCountStatus string

// Length classifications. Boundary semantics: actual == minimum is good,
// actual == maximum is excellent, actual == maximum+1 is too long.
const (
	WordCountTooShort  WordCountStatus = "tooShort"
	WordCountGood      WordCountStatus = "good"
	WordCountExcellent WordCountStatus = "excellent"
	WordCountTooLong   WordCountStatus = "tooLong"
)

// WordCountResult is the deterministic outcome of the word-count policy:
// a sub-score and a penalty multiplier applied to task response.
type WordCountResult struct {
	// ActualWords is the counted essay length.
	ActualWords int `json:"actual_words" validate:"min=0"`

	// Status classifies the length against the bounds.
	Status WordCountStatus `json:"status" validate:"required,oneof=tooShort good excellent tooLong"`

	// Score is the word-count sub-score, 0-100.
	Score float64 `json:"score" validate:"min=0,max=100"`

	// PenaltyFactor is the multiplier applied to the task-response
	// criterion, in (0, 1].
	PenaltyFactor float64 `json:"penalty_factor" validate:"gt=0,max=1"`
}

// Validate checks the result against its range invariants.
func (w *WordCountResult) Validate() error { return validate.Struct(w) }
