package scoring

import (
	"context"
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/ahrav/go-essayscore/internal/domain"
	"github.com/ahrav/go-essayscore/pkg/activity"
)

// Activities exposes the scoring pipeline as Temporal activities for
// batch and durable execution. The synchronous library path calls the
// pipeline directly and never requires Temporal.
type Activities struct {
	activity.BaseActivities
	pipeline *Pipeline
}

// NewActivities builds the scoring activity set around a constructed
// pipeline.
func NewActivities(base activity.BaseActivities, pipeline *Pipeline) *Activities {
	return &Activities{BaseActivities: base, pipeline: pipeline}
}

// ScoreEssay scores one submission. Invalid submissions fail
// non-retryably; transient judge failures already retried and degraded
// inside the pipeline surface here only as ErrScoringUnavailable.
func (a *Activities) ScoreEssay(ctx context.Context, sub domain.Submission) (*domain.ScoreReport, error) {
	wfCtx := a.GetWorkflowContext(ctx)
	activity.SafeLog(ctx, "scoring essay",
		"workflow_id", wfCtx.WorkflowID, "level", sub.Level)
	a.RecordHeartbeat(ctx, "scoring")

	report, err := a.pipeline.Score(ctx, sub)
	if err != nil {
		activity.SafeLogError(ctx, "scoring failed", "error", err)
		if errors.Is(err, ErrScoringUnavailable) {
			// All external signals exhausted their retries already.
			return nil, temporal.NewNonRetryableApplicationError(
				"scoring unavailable", "ScoringUnavailable", err)
		}
		return nil, err
	}

	activity.SafeLog(ctx, "essay scored",
		"report_id", report.ID,
		"score_10", report.Score10,
		"band", report.CEFRBand,
		"degraded", report.Degraded)
	return report, nil
}
