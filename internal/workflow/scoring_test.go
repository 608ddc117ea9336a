package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/ahrav/go-essayscore/internal/domain"
)

func validSubmission() domain.Submission {
	return domain.Submission{
		Text:   strings.TrimSpace(strings.Repeat("word ", 245)),
		Prompt: "Write 150-300 words about your favorite journey.",
		Level:  domain.LevelB1,
	}
}

func stubReport() domain.ScoreReport {
	return domain.ScoreReport{
		ID:       "9e4c5a1a-6f9a-4d55-9a34-6a1f9f6f1b2d",
		Score100: 73.9445,
		Score10:  7.4,
		CEFRBand: domain.LevelB2,
		Criteria: []domain.CriterionScore{
			{Name: domain.CriterionTaskResponse, Value: 83.77},
			{Name: domain.CriterionLexicalResource, Value: 70.5},
			{Name: domain.CriterionGrammar, Value: 60},
			{Name: domain.CriterionCoherence, Value: 80},
		},
	}
}

func TestEssayScoringWorkflow(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}

	t.Run("returns the activity report", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		defer env.AssertExpectations(t)

		want := stubReport()
		env.RegisterActivityWithOptions(
			func(_ context.Context, sub domain.Submission) (*domain.ScoreReport, error) {
				assert.Equal(t, domain.LevelB1, sub.Level)
				out := want
				return &out, nil
			},
			activity.RegisterOptions{Name: ScoreEssayActivity},
		)

		env.ExecuteWorkflow(EssayScoringWorkflow, validSubmission())
		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var report domain.ScoreReport
		require.NoError(t, env.GetWorkflowResult(&report))
		assert.Equal(t, want.ID, report.ID)
		assert.InDelta(t, want.Score10, report.Score10, 1e-9)
		assert.Equal(t, want.CEFRBand, report.CEFRBand)
		assert.Len(t, report.Criteria, 4)
	})

	t.Run("invalid submission fails before the activity runs", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		defer env.AssertExpectations(t)

		activityRan := false
		env.RegisterActivityWithOptions(
			func(_ context.Context, _ domain.Submission) (*domain.ScoreReport, error) {
				activityRan = true
				return nil, nil
			},
			activity.RegisterOptions{Name: ScoreEssayActivity},
		)

		env.ExecuteWorkflow(EssayScoringWorkflow, domain.Submission{Text: "essay"})
		require.True(t, env.IsWorkflowCompleted())

		err := env.GetWorkflowError()
		require.Error(t, err)

		var appErr *temporal.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Validation", appErr.Type())
		assert.True(t, appErr.NonRetryable())
		assert.False(t, activityRan)
	})

	t.Run("non-retryable activity failure surfaces once", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		defer env.AssertExpectations(t)

		calls := 0
		env.RegisterActivityWithOptions(
			func(_ context.Context, _ domain.Submission) (*domain.ScoreReport, error) {
				calls++
				return nil, temporal.NewNonRetryableApplicationError(
					"scoring unavailable", "ScoringUnavailable", nil)
			},
			activity.RegisterOptions{Name: ScoreEssayActivity},
		)

		env.ExecuteWorkflow(EssayScoringWorkflow, validSubmission())
		require.True(t, env.IsWorkflowCompleted())

		err := env.GetWorkflowError()
		require.Error(t, err)

		var appErr *temporal.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "ScoringUnavailable", appErr.Type())
		assert.Equal(t, 1, calls)
	})

	t.Run("transient activity failures are retried", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		defer env.AssertExpectations(t)

		want := stubReport()
		calls := 0
		env.RegisterActivityWithOptions(
			func(_ context.Context, _ domain.Submission) (*domain.ScoreReport, error) {
				calls++
				if calls < 3 {
					return nil, temporal.NewApplicationError("transient", "Transient")
				}
				out := want
				return &out, nil
			},
			activity.RegisterOptions{Name: ScoreEssayActivity},
		)

		env.ExecuteWorkflow(EssayScoringWorkflow, validSubmission())
		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())
		assert.Equal(t, 3, calls)

		var report domain.ScoreReport
		require.NoError(t, env.GetWorkflowResult(&report))
		assert.Equal(t, want.ID, report.ID)
	})
}

func TestEssayScoringWorkflow_Determinism(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}

	sub := validSubmission()
	var scores []float64
	for i := 0; i < 3; i++ {
		env := testSuite.NewTestWorkflowEnvironment()
		env.RegisterActivityWithOptions(
			func(_ context.Context, _ domain.Submission) (*domain.ScoreReport, error) {
				out := stubReport()
				return &out, nil
			},
			activity.RegisterOptions{Name: ScoreEssayActivity},
		)
		env.ExecuteWorkflow(EssayScoringWorkflow, sub)
		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var report domain.ScoreReport
		require.NoError(t, env.GetWorkflowResult(&report))
		scores = append(scores, report.Score10)
		env.AssertExpectations(t)
	}

	for i := 1; i < len(scores); i++ {
		assert.Equal(t, scores[0], scores[i])
	}
}
