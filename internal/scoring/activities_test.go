package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/ahrav/go-essayscore/internal/domain"
	"github.com/ahrav/go-essayscore/pkg/activity"
)

func TestActivities_ScoreEssay(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}

	t.Run("returns a report", func(t *testing.T) {
		deps, _, _, _, _ := healthyDeps()
		p, err := NewPipeline(DefaultConfig(), deps)
		require.NoError(t, err)

		env := testSuite.NewTestActivityEnvironment()
		acts := NewActivities(activity.NewBaseActivities(nil), p)
		env.RegisterActivity(acts.ScoreEssay)

		val, err := env.ExecuteActivity(acts.ScoreEssay, onTopicSubmission())
		require.NoError(t, err)

		var report domain.ScoreReport
		require.NoError(t, val.Get(&report))
		assert.InDelta(t, 7.4, report.Score10, 1e-9)
		assert.Equal(t, domain.LevelB2, report.CEFRBand)
	})

	t.Run("total signal loss is non-retryable", func(t *testing.T) {
		deps, embeddings, relevance, quality, _ := healthyDeps()
		embeddings.err = errors.New("encoder down")
		relevance.err = errors.New("validator down")
		quality.err = errors.New("quality down")

		p, err := NewPipeline(DefaultConfig(), deps)
		require.NoError(t, err)

		env := testSuite.NewTestActivityEnvironment()
		acts := NewActivities(activity.NewBaseActivities(nil), p)
		env.RegisterActivity(acts.ScoreEssay)

		_, err = env.ExecuteActivity(acts.ScoreEssay, onTopicSubmission())
		require.Error(t, err)

		var appErr *temporal.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "ScoringUnavailable", appErr.Type())
		assert.True(t, appErr.NonRetryable())
	})
}
