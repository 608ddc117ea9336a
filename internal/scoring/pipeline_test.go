package scoring

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-essayscore/internal/domain"
	"github.com/ahrav/go-essayscore/pkg/events"
)

// stubEmbeddings returns a fixed relevance, optionally blocking until
// the context is cancelled.
type stubEmbeddings struct {
	relevance float64
	err       error
	block     bool
	calls     int
}

func (s *stubEmbeddings) Relevance(ctx context.Context, _, _ string) (float64, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return s.relevance, s.err
}

type stubRelevanceJudge struct {
	assessment domain.RelevanceAssessment
	err        error
	block      bool
	calls      int
}

func (s *stubRelevanceJudge) AssessRelevance(ctx context.Context, _, _ string) (*domain.RelevanceAssessment, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	out := s.assessment
	return &out, nil
}

type stubQualityJudge struct {
	assessment domain.QualityAssessment
	err        error
	block      bool
	calls      int
}

func (s *stubQualityJudge) AssessQuality(ctx context.Context, _ string, _ domain.CEFRLevel) (*domain.QualityAssessment, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	out := s.assessment
	return &out, nil
}

type stubRegression struct {
	result domain.RegressionResult
	err    error
}

func (s *stubRegression) Score(_ context.Context, _, _ string, _ float64) (*domain.RegressionResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := s.result
	return &out, nil
}

// recordingSink captures emitted envelopes for assertions.
type recordingSink struct {
	mu        sync.Mutex
	envelopes []events.Envelope
}

func (r *recordingSink) Append(_ context.Context, envelope events.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envelopes = append(r.envelopes, envelope)
	return nil
}

func (r *recordingSink) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.envelopes))
	for _, e := range r.envelopes {
		out = append(out, e.Type)
	}
	return out
}

func healthyDeps() (Dependencies, *stubEmbeddings, *stubRelevanceJudge, *stubQualityJudge, *recordingSink) {
	embeddings := &stubEmbeddings{relevance: 72}
	relevance := &stubRelevanceJudge{assessment: domain.RelevanceAssessment{
		TopicRelevance:   85,
		RequiredElements: 90,
		ContentQuality:   75,
		SemanticMatch:    80,
		Confidence:       0.9,
	}}
	quality := &stubQualityJudge{assessment: domain.QualityAssessment{
		Vocabulary: domain.DimensionAssessment{
			Score:   75,
			Metrics: map[string]float64{domain.MetricLexicalDiversity: 0.6},
		},
		Grammar: domain.DimensionAssessment{
			Score:   70,
			Metrics: map[string]float64{domain.MetricSentenceVariety: 0.5},
		},
		Coherence: domain.DimensionAssessment{Score: 80},
		Mechanics: domain.DimensionAssessment{Score: 85},
	}}
	sink := &recordingSink{}
	return Dependencies{
		Embeddings: embeddings,
		Relevance:  relevance,
		Quality:    quality,
		Events:     sink,
	}, embeddings, relevance, quality, sink
}

// essayOf builds an essay with exactly n words.
func essayOf(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func onTopicSubmission() domain.Submission {
	return domain.Submission{
		Text:   essayOf(245),
		Prompt: "Write 150-300 words about your favorite journey.",
		Level:  domain.LevelB1,
	}
}

func TestNewPipeline_Validation(t *testing.T) {
	deps, _, _, _, _ := healthyDeps()

	tests := []struct {
		name    string
		cfg     func() Config
		deps    func() Dependencies
		wantErr error
	}{
		{
			name: "valid defaults",
			cfg:  DefaultConfig,
			deps: func() Dependencies { return deps },
		},
		{
			name: "criterion weights not summing to one",
			cfg: func() Config {
				cfg := DefaultConfig()
				cfg.Weights = domain.CriterionWeights{
					domain.CriterionTaskResponse:    0.35,
					domain.CriterionLexicalResource: 0.25,
					domain.CriterionGrammar:         0.25,
					domain.CriterionCoherence:       0.14,
				}
				return cfg
			},
			deps:    func() Dependencies { return deps },
			wantErr: domain.ErrWeightSum,
		},
		{
			name: "off-topic weights not summing to one",
			cfg: func() Config {
				cfg := DefaultConfig()
				cfg.OffTopic.EmbeddingWeight = 0.4
				return cfg
			},
			deps:    func() Dependencies { return deps },
			wantErr: domain.ErrWeightSum,
		},
		{
			name: "missing embedding engine",
			cfg:  DefaultConfig,
			deps: func() Dependencies {
				d := deps
				d.Embeddings = nil
				return d
			},
			wantErr: ErrMissingCollaborator,
		},
		{
			name: "missing relevance judge",
			cfg:  DefaultConfig,
			deps: func() Dependencies {
				d := deps
				d.Relevance = nil
				return d
			},
			wantErr: ErrMissingCollaborator,
		},
		{
			name: "missing quality judge",
			cfg:  DefaultConfig,
			deps: func() Dependencies {
				d := deps
				d.Quality = nil
				return d
			},
			wantErr: ErrMissingCollaborator,
		},
		{
			name: "regression enabled without a scorer",
			cfg: func() Config {
				cfg := DefaultConfig()
				cfg.EnableRegression = true
				return cfg
			},
			deps:    func() Dependencies { return deps },
			wantErr: ErrMissingCollaborator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPipeline(tt.cfg(), tt.deps())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestPipeline_Score_OnTopic(t *testing.T) {
	deps, embeddings, relevance, quality, sink := healthyDeps()
	p, err := NewPipeline(DefaultConfig(), deps)
	require.NoError(t, err)

	report, err := p.Score(context.Background(), onTopicSubmission())
	require.NoError(t, err)
	require.NoError(t, report.Validate())

	assert.Equal(t, 1, embeddings.calls)
	assert.Equal(t, 1, relevance.calls)
	assert.Equal(t, 1, quality.calls)

	// 85*0.7 + 72*0.3 = 81.1, clearly on topic.
	assert.InDelta(t, 81.1, report.OffTopic.CombinedRelevance, 1e-9)
	assert.Equal(t, domain.SeverityNone, report.OffTopic.Severity)

	// 245 of 150/250/300 is in the good band, no penalty.
	assert.Equal(t, 245, report.WordCount.ActualWords)
	assert.Equal(t, domain.WordCountGood, report.WordCount.Status)
	assert.InDelta(t, 1.0, report.WordCount.PenaltyFactor, 1e-9)

	taskResponse, ok := report.CriterionValue(domain.CriterionTaskResponse)
	require.True(t, ok)
	assert.InDelta(t, 83.77, taskResponse, 1e-9)
	lexical, _ := report.CriterionValue(domain.CriterionLexicalResource)
	assert.InDelta(t, 70.5, lexical, 1e-9)
	grammar, _ := report.CriterionValue(domain.CriterionGrammar)
	assert.InDelta(t, 60.0, grammar, 1e-9)
	coherence, _ := report.CriterionValue(domain.CriterionCoherence)
	assert.InDelta(t, 80.0, coherence, 1e-9)

	want100 := 83.77*0.35 + 70.5*0.25 + 60.0*0.25 + 80.0*0.15
	assert.InDelta(t, want100, report.Score100, 1e-9)
	assert.InDelta(t, 7.4, report.Score10, 1e-9)
	assert.Equal(t, domain.LevelB2, report.CEFRBand)

	assert.False(t, report.Degraded)
	assert.Empty(t, report.DegradedComponents)
	assert.Nil(t, report.Regression)

	assert.Equal(t, []string{events.TypeScoringCompleted}, sink.types())
}

func TestPipeline_Score_DegradedRelevanceJudge(t *testing.T) {
	deps, _, relevance, _, sink := healthyDeps()
	relevance.err = errors.New("judge down")

	p, err := NewPipeline(DefaultConfig(), deps)
	require.NoError(t, err)

	report, err := p.Score(context.Background(), onTopicSubmission())
	require.NoError(t, err)

	assert.True(t, report.Degraded)
	assert.Equal(t, []string{ComponentRelevanceJudge}, report.DegradedComponents)

	// Embedding-only fallback: both fusion inputs are the embedding
	// signal, so combined relevance equals it.
	assert.InDelta(t, 72.0, report.OffTopic.CombinedRelevance, 1e-9)
	assert.Equal(t, domain.SeverityNone, report.OffTopic.Severity)

	assert.Contains(t, sink.types(), events.TypeScoringDegraded)
}

func TestPipeline_Score_DegradedEmbeddings(t *testing.T) {
	deps, embeddings, _, _, _ := healthyDeps()
	embeddings.err = errors.New("encoder not loaded")

	p, err := NewPipeline(DefaultConfig(), deps)
	require.NoError(t, err)

	report, err := p.Score(context.Background(), onTopicSubmission())
	require.NoError(t, err)

	assert.True(t, report.Degraded)
	assert.Equal(t, []string{ComponentEmbedding}, report.DegradedComponents)

	// Validator-only fallback: fusion collapses to the validator signal.
	assert.InDelta(t, 85.0, report.OffTopic.CombinedRelevance, 1e-9)
}

func TestPipeline_Score_DegradedQualityJudge(t *testing.T) {
	deps, _, _, quality, _ := healthyDeps()
	quality.err = errors.New("judge down")

	p, err := NewPipeline(DefaultConfig(), deps)
	require.NoError(t, err)

	report, err := p.Score(context.Background(), onTopicSubmission())
	require.NoError(t, err)

	assert.True(t, report.Degraded)
	assert.Equal(t, []string{ComponentQualityJudge}, report.DegradedComponents)

	// B1 neutral default is 50 across dimensions, with metric fallbacks
	// deriving the range sub-scores from the dimension score.
	coherence, _ := report.CriterionValue(domain.CriterionCoherence)
	assert.InDelta(t, 50.0, coherence, 1e-9)
	grammar, _ := report.CriterionValue(domain.CriterionGrammar)
	assert.InDelta(t, 50.0/100*50+50*0.5, grammar, 1e-9)
}

func TestPipeline_Score_CompleteOffTopic(t *testing.T) {
	deps, embeddings, relevance, _, _ := healthyDeps()
	embeddings.relevance = 12
	relevance.assessment.TopicRelevance = 12

	p, err := NewPipeline(DefaultConfig(), deps)
	require.NoError(t, err)

	report, err := p.Score(context.Background(), onTopicSubmission())
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityComplete, report.OffTopic.Severity)

	// Task response floors, leaving the score to the other criteria.
	taskResponse, _ := report.CriterionValue(domain.CriterionTaskResponse)
	assert.Zero(t, taskResponse)

	lexical, _ := report.CriterionValue(domain.CriterionLexicalResource)
	grammar, _ := report.CriterionValue(domain.CriterionGrammar)
	coherence, _ := report.CriterionValue(domain.CriterionCoherence)
	want := lexical*0.25 + grammar*0.25 + coherence*0.15
	assert.InDelta(t, want, report.Score100, 1e-9)
}

func TestPipeline_Score_EmptyEssay(t *testing.T) {
	deps, embeddings, relevance, quality, sink := healthyDeps()
	p, err := NewPipeline(DefaultConfig(), deps)
	require.NoError(t, err)

	report, err := p.Score(context.Background(), domain.Submission{
		Text:   "   ",
		Prompt: "Write 150-300 words about your favorite journey.",
		Level:  domain.LevelB1,
	})
	require.NoError(t, err)

	// No external calls for an empty essay.
	assert.Zero(t, embeddings.calls)
	assert.Zero(t, relevance.calls)
	assert.Zero(t, quality.calls)

	assert.Zero(t, report.Score100)
	assert.Zero(t, report.Score10)
	assert.Equal(t, domain.LevelPreA1, report.CEFRBand)
	assert.Equal(t, domain.SeverityComplete, report.OffTopic.Severity)
	assert.Equal(t, domain.WordCountTooShort, report.WordCount.Status)
	assert.Zero(t, report.WordCount.Score)
	assert.False(t, report.Degraded)

	assert.Equal(t, []string{events.TypeScoringCompleted}, sink.types())
}

func TestPipeline_Score_AllSignalsFail(t *testing.T) {
	deps, embeddings, relevance, quality, _ := healthyDeps()
	embeddings.err = errors.New("encoder down")
	relevance.err = errors.New("validator down")
	quality.err = errors.New("quality down")

	p, err := NewPipeline(DefaultConfig(), deps)
	require.NoError(t, err)

	_, err = p.Score(context.Background(), onTopicSubmission())
	assert.ErrorIs(t, err, ErrScoringUnavailable)
}

func TestPipeline_Score_BothRelevanceSignalsFail(t *testing.T) {
	deps, embeddings, relevance, _, _ := healthyDeps()
	embeddings.err = errors.New("encoder down")
	relevance.err = errors.New("validator down")

	p, err := NewPipeline(DefaultConfig(), deps)
	require.NoError(t, err)

	report, err := p.Score(context.Background(), onTopicSubmission())
	require.NoError(t, err)

	// Relevance floors to zero and classifies as completely off topic,
	// but quality still carries the report.
	assert.True(t, report.Degraded)
	assert.ElementsMatch(t,
		[]string{ComponentEmbedding, ComponentRelevanceJudge},
		report.DegradedComponents)
	assert.Equal(t, domain.SeverityComplete, report.OffTopic.Severity)
	assert.Positive(t, report.Score100)
}

func TestPipeline_Score_Cancellation(t *testing.T) {
	deps, embeddings, relevance, quality, _ := healthyDeps()
	embeddings.block = true
	relevance.block = true
	quality.block = true

	p, err := NewPipeline(DefaultConfig(), deps)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = p.Score(ctx, onTopicSubmission())
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestPipeline_Score_InvalidSubmission(t *testing.T) {
	deps, _, _, _, _ := healthyDeps()
	p, err := NewPipeline(DefaultConfig(), deps)
	require.NoError(t, err)

	_, err = p.Score(context.Background(), domain.Submission{Text: "essay", Prompt: "prompt"})
	assert.Error(t, err)
}

func TestPipeline_Score_Regression(t *testing.T) {
	t.Run("attached when enabled", func(t *testing.T) {
		deps, _, _, _, _ := healthyDeps()
		deps.Regression = &stubRegression{result: domain.RegressionResult{Score: 7.5}}

		cfg := DefaultConfig()
		cfg.EnableRegression = true
		p, err := NewPipeline(cfg, deps)
		require.NoError(t, err)

		report, err := p.Score(context.Background(), onTopicSubmission())
		require.NoError(t, err)
		require.NotNil(t, report.Regression)
		assert.InDelta(t, 7.5, report.Regression.Score, 1e-9)
	})

	t.Run("failure omits the result without degrading", func(t *testing.T) {
		deps, _, _, _, _ := healthyDeps()
		deps.Regression = &stubRegression{err: errors.New("model missing")}

		cfg := DefaultConfig()
		cfg.EnableRegression = true
		p, err := NewPipeline(cfg, deps)
		require.NoError(t, err)

		report, err := p.Score(context.Background(), onTopicSubmission())
		require.NoError(t, err)
		assert.Nil(t, report.Regression)
		assert.False(t, report.Degraded)
	})

	t.Run("disabled leaves the result nil", func(t *testing.T) {
		deps, _, _, _, _ := healthyDeps()
		deps.Regression = &stubRegression{result: domain.RegressionResult{Score: 7.5}}

		p, err := NewPipeline(DefaultConfig(), deps)
		require.NoError(t, err)

		report, err := p.Score(context.Background(), onTopicSubmission())
		require.NoError(t, err)
		assert.Nil(t, report.Regression)
	})
}
