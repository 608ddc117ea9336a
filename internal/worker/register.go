package worker

import (
	sdkactivity "go.temporal.io/sdk/activity"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/go-essayscore/internal/scoring"
	"github.com/ahrav/go-essayscore/internal/workflow"
	"github.com/ahrav/go-essayscore/pkg/activity"
	"github.com/ahrav/go-essayscore/pkg/events"
)

// RegisterAll registers the scoring workflow and activity with the
// Temporal worker. Not thread-safe; call once during worker startup
// before the worker runs.
func RegisterAll(w sdkworker.Worker, pipeline *scoring.Pipeline, sink events.EventSink) {
	if sink == nil {
		sink = events.NewNoOpEventSink()
	}
	base := activity.NewBaseActivities(sink)
	scoringActivities := scoring.NewActivities(base, pipeline)

	w.RegisterWorkflow(workflow.EssayScoringWorkflow)
	w.RegisterActivityWithOptions(scoringActivities.ScoreEssay,
		sdkactivity.RegisterOptions{Name: workflow.ScoreEssayActivity})
}
