package scoring

import "errors"

// Pipeline-level sentinel errors.
var (
	// ErrScoringUnavailable indicates every external signal failed, so no
	// usable score could be produced. A single failed signal degrades the
	// report instead of raising this.
	ErrScoringUnavailable = errors.New("scoring unavailable: all external signals failed")

	// ErrCancelled indicates the caller cancelled before the external
	// calls completed. In-flight calls are abandoned, not awaited.
	ErrCancelled = errors.New("scoring cancelled")

	// ErrMissingCollaborator indicates a required collaborator was not
	// provided at pipeline construction.
	ErrMissingCollaborator = errors.New("missing required collaborator")
)
