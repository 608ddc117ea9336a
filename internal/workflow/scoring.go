// Package workflow orchestrates essay scoring as a Temporal workflow
// for durable batch execution. All workflow code uses workflow-safe
// APIs only; the scoring itself runs inside the ScoreEssay activity.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ahrav/go-essayscore/internal/domain"
)

// ScoreEssayActivity is the registered name of the scoring activity.
const ScoreEssayActivity = "ScoreEssay"

// defaultActivityTimeout bounds one scoring activity execution,
// covering the pipeline's three external calls plus their retries.
const defaultActivityTimeout = 2 * time.Minute

// EssayScoringWorkflow validates the submission and executes the
// scoring activity with bounded retry. Deterministic by construction;
// every side effect lives in the activity.
func EssayScoringWorkflow(
	ctx workflow.Context,
	sub domain.Submission,
) (*domain.ScoreReport, error) {
	// Version gate enables safe evolution of the workflow definition.
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "essay-scoring.v", workflow.DefaultVersion, currentVersion)

	if err := sub.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid submission", "Validation", err)
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: defaultActivityTimeout,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var report domain.ScoreReport
	if err := workflow.ExecuteActivity(ctx, ScoreEssayActivity, sub).Get(ctx, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
