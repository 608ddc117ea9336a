// Package scoring orchestrates one essay assessment: prompt analysis,
// concurrent external signal collection, off-topic classification,
// word-count policy, criteria aggregation, and final scoring into a
// ScoreReport.
//
// The three external signals (semantic encoder, relevance judge,
// quality judge) fan out concurrently with independent timeouts and
// fan in before classification. A failed signal degrades the report
// with documented fallback values; only the loss of all three aborts
// the request.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/go-essayscore/internal/analyzer"
	"github.com/ahrav/go-essayscore/internal/criteria"
	"github.com/ahrav/go-essayscore/internal/domain"
	"github.com/ahrav/go-essayscore/internal/offtopic"
	"github.com/ahrav/go-essayscore/internal/wordcount"
	"github.com/ahrav/go-essayscore/pkg/events"
)

// Degraded component names recorded in the report.
const (
	ComponentEmbedding      = "embedding-engine"
	ComponentRelevanceJudge = "relevance-judge"
	ComponentQualityJudge   = "quality-judge"
)

// fallbackConfidence is the confidence attached to a relevance
// assessment synthesized from the embedding signal alone.
const fallbackConfidence = 0.3

// EmbeddingEngine is the semantic-similarity capability: essay and
// prompt compared on the 0-100 relevance scale.
type EmbeddingEngine interface {
	Relevance(ctx context.Context, essay, prompt string) (float64, error)
}

// RelevanceJudge is the external content-validator capability.
type RelevanceJudge interface {
	AssessRelevance(ctx context.Context, essay, prompt string) (*domain.RelevanceAssessment, error)
}

// QualityJudge is the external per-dimension quality capability.
type QualityJudge interface {
	AssessQuality(ctx context.Context, essay string, level domain.CEFRLevel) (*domain.QualityAssessment, error)
}

// RegressionScorer is the optional independent sequence-regression
// capability.
type RegressionScorer interface {
	Score(ctx context.Context, essay, prompt string, penaltyFactor float64) (*domain.RegressionResult, error)
}

// Dependencies are the pipeline's injected collaborators. Embeddings,
// Relevance, and Quality are required; Regression only when the
// regression path is enabled; a nil Events sink disables emission.
type Dependencies struct {
	Embeddings EmbeddingEngine
	Relevance  RelevanceJudge
	Quality    QualityJudge
	Regression RegressionScorer
	Events     events.EventSink
}

// Pipeline scores submissions. Safe for concurrent use; every scoring
// request's intermediate state is request-local.
type Pipeline struct {
	cfg        Config
	analyzer   *analyzer.Analyzer
	classifier *offtopic.Classifier
	scorer     *criteria.FinalScorer
	deps       Dependencies
	logger     *slog.Logger
}

// NewPipeline validates configuration and collaborators and assembles
// the pipeline. All fatal configuration errors surface here, before any
// scoring request is accepted.
func NewPipeline(cfg Config, deps Dependencies) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	if deps.Embeddings == nil {
		return nil, fmt.Errorf("%w: embedding engine", ErrMissingCollaborator)
	}
	if deps.Relevance == nil {
		return nil, fmt.Errorf("%w: relevance judge", ErrMissingCollaborator)
	}
	if deps.Quality == nil {
		return nil, fmt.Errorf("%w: quality judge", ErrMissingCollaborator)
	}
	if cfg.EnableRegression && deps.Regression == nil {
		return nil, fmt.Errorf("%w: regression scorer", ErrMissingCollaborator)
	}
	if deps.Events == nil {
		deps.Events = events.NewNoOpEventSink()
	}

	classifier, err := offtopic.NewClassifier(cfg.OffTopic)
	if err != nil {
		return nil, err
	}
	scorer, err := criteria.NewFinalScorer(cfg.Weights, cfg.Bands)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:        cfg,
		analyzer:   analyzer.New(cfg.FallbackBounds),
		classifier: classifier,
		scorer:     scorer,
		deps:       deps,
		logger:     slog.Default().With("component", "scoring"),
	}, nil
}

// signals carries the fan-in outcome of the three external calls.
type signals struct {
	embeddingRelevance float64
	assessment         domain.RelevanceAssessment
	quality            domain.QualityAssessment
	degraded           []string
}

type embedResult struct {
	relevance float64
	err       error
}

type relevanceResult struct {
	assessment *domain.RelevanceAssessment
	err        error
}

type qualityResult struct {
	assessment *domain.QualityAssessment
	err        error
}

// Score assesses one submission and returns its report. A degraded
// report is still a report; Score fails only on invalid input, caller
// cancellation, or the loss of every external signal.
func (p *Pipeline) Score(ctx context.Context, sub domain.Submission) (*domain.ScoreReport, error) {
	start := time.Now()

	if err := sub.Validate(); err != nil {
		return nil, fmt.Errorf("invalid submission: %w", err)
	}

	spec := p.analyzer.Analyze(sub.Prompt, sub.TaskMeta)

	words := wordcount.Count(sub.Text)
	if words == 0 {
		// Nothing to assess. Floor report, no external calls.
		report := p.assemble(spec, signals{}, words, start)
		p.emit(ctx, report)
		return report, nil
	}

	sig, err := p.collect(ctx, sub)
	if err != nil {
		return nil, err
	}

	report := p.assemble(spec, sig, words, start)

	if p.cfg.EnableRegression {
		p.attachRegression(ctx, sub, report)
	}

	p.emit(ctx, report)
	return report, nil
}

// collect fans out the three external calls and fans their results back
// in, degrading per-signal on failure. Caller cancellation abandons
// in-flight calls.
func (p *Pipeline) collect(ctx context.Context, sub domain.Submission) (signals, error) {
	embedCh := make(chan embedResult, 1)
	relevanceCh := make(chan relevanceResult, 1)
	qualityCh := make(chan qualityResult, 1)

	go func() {
		callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
		defer cancel()
		rel, err := p.deps.Embeddings.Relevance(callCtx, sub.Text, sub.Prompt)
		embedCh <- embedResult{relevance: rel, err: err}
	}()
	go func() {
		callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
		defer cancel()
		assessment, err := p.deps.Relevance.AssessRelevance(callCtx, sub.Text, sub.Prompt)
		relevanceCh <- relevanceResult{assessment: assessment, err: err}
	}()
	go func() {
		callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
		defer cancel()
		assessment, err := p.deps.Quality.AssessQuality(callCtx, sub.Text, sub.Level)
		qualityCh <- qualityResult{assessment: assessment, err: err}
	}()

	var embed embedResult
	var relevance relevanceResult
	var quality qualityResult
	for pending := 3; pending > 0; pending-- {
		select {
		case embed = <-embedCh:
		case relevance = <-relevanceCh:
		case quality = <-qualityCh:
		case <-ctx.Done():
			return signals{}, fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
		}
	}

	if embed.err != nil && relevance.err != nil && quality.err != nil {
		return signals{}, fmt.Errorf("%w: %w", ErrScoringUnavailable,
			errors.Join(embed.err, relevance.err, quality.err))
	}

	var sig signals

	switch {
	case relevance.err == nil && embed.err == nil:
		sig.assessment = *relevance.assessment
		sig.embeddingRelevance = embed.relevance
	case relevance.err == nil:
		// Encoder lost. The validator signal stands in for both halves
		// so fusion reduces to validator-only relevance.
		sig.assessment = *relevance.assessment
		sig.embeddingRelevance = relevance.assessment.TopicRelevance
		sig.degraded = append(sig.degraded, ComponentEmbedding)
		p.logger.Warn("embedding engine failed, using validator-only relevance", "error", embed.err)
	case embed.err == nil:
		// Validator lost. The embedding signal stands in for every
		// validator field at reduced confidence.
		sig.assessment = embeddingOnlyAssessment(embed.relevance)
		sig.embeddingRelevance = embed.relevance
		sig.degraded = append(sig.degraded, ComponentRelevanceJudge)
		p.logger.Warn("relevance judge failed, using embedding-only relevance", "error", relevance.err)
	default:
		// Both relevance signals lost; quality alone survives. Relevance
		// floors to zero, which classifies as completely off-topic.
		sig.degraded = append(sig.degraded, ComponentEmbedding, ComponentRelevanceJudge)
		p.logger.Warn("both relevance signals failed, flooring relevance",
			"embedding_error", embed.err, "relevance_error", relevance.err)
	}

	if quality.err == nil {
		sig.quality = *quality.assessment
	} else {
		sig.quality = neutralQuality(sub.Level)
		sig.degraded = append(sig.degraded, ComponentQualityJudge)
		p.logger.Warn("quality judge failed, using neutral defaults",
			"level", sub.Level, "error", quality.err)
	}

	return sig, nil
}

// assemble runs the pure tail of the pipeline: classification, word
// count policy, aggregation, final scoring, and report construction.
func (p *Pipeline) assemble(
	spec domain.PromptSpec,
	sig signals,
	words int,
	start time.Time,
) *domain.ScoreReport {
	sig.assessment.EmbeddingRelevance = sig.embeddingRelevance
	verdict := p.classifier.Classify(sig.assessment)
	wc := wordcount.Evaluate(words, spec.Bounds)

	crits := criteria.Aggregate(criteria.Inputs{
		Relevance: sig.assessment,
		OffTopic:  verdict,
		WordCount: wc,
		Quality:   sig.quality,
	}, p.cfg.SeverityMultipliers)

	res := p.scorer.Score(crits)

	return &domain.ScoreReport{
		ID:                 uuid.New().String(),
		Score100:           res.Score100,
		Score10:            res.Score10,
		CEFRBand:           res.Band,
		Criteria:           crits,
		OffTopic:           verdict,
		WordCount:          wc,
		Degraded:           len(sig.degraded) > 0,
		DegradedComponents: sig.degraded,
		ScoredAt:           time.Now().UTC(),
		Elapsed:            time.Since(start),
	}
}

// attachRegression runs the independent regression path and attaches its
// result. Regression failures are logged and omitted; they never degrade
// or fail the criteria-based score.
func (p *Pipeline) attachRegression(ctx context.Context, sub domain.Submission, report *domain.ScoreReport) {
	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	defer cancel()

	result, err := p.deps.Regression.Score(callCtx, sub.Text, sub.Prompt, report.WordCount.PenaltyFactor)
	if err != nil {
		p.logger.Warn("regression scorer failed, omitting regression score", "error", err)
		return
	}
	report.Regression = result
}

// emit publishes the completion events with best-effort delivery.
func (p *Pipeline) emit(ctx context.Context, report *domain.ScoreReport) {
	payload, err := json.Marshal(report)
	if err != nil {
		p.logger.Warn("failed to marshal report for event emission", "error", err)
		return
	}

	types := []string{events.TypeScoringCompleted}
	if report.Degraded {
		types = append(types, events.TypeScoringDegraded)
	}

	for _, eventType := range types {
		envelope := events.Envelope{
			ID:        uuid.New().String(),
			Type:      eventType,
			Source:    "scoring-pipeline",
			Version:   "1.0.0",
			Timestamp: time.Now().UTC(),
			ReportID:  report.ID,
			Payload:   payload,
		}
		if err := p.deps.Events.Append(ctx, envelope); err != nil {
			p.logger.Warn("event emission failed", "event_type", eventType, "error", err)
		}
	}
}

// embeddingOnlyAssessment synthesizes the validator half of a relevance
// assessment from the embedding signal at reduced confidence.
func embeddingOnlyAssessment(relevance float64) domain.RelevanceAssessment {
	rel := domain.Clamp100(relevance)
	return domain.RelevanceAssessment{
		TopicRelevance:   rel,
		RequiredElements: rel,
		ContentQuality:   rel,
		SemanticMatch:    rel,
		Confidence:       fallbackConfidence,
	}
}

// neutralQualityScores maps the declared level to the neutral dimension
// score used when the quality judge is unavailable. A mid-range default
// keeps degraded reports plausible without flattering or punishing.
var neutralQualityScores = map[domain.CEFRLevel]float64{
	domain.LevelPreA1: 20,
	domain.LevelA1:    30,
	domain.LevelA2:    40,
	domain.LevelB1:    50,
	domain.LevelB2:    60,
	domain.LevelC1:    70,
	domain.LevelC2:    80,
}

// neutralQuality returns the level-calibrated fallback quality
// assessment. Unknown levels default to the B1 midpoint.
func neutralQuality(level domain.CEFRLevel) domain.QualityAssessment {
	score, ok := neutralQualityScores[level]
	if !ok {
		score = neutralQualityScores[domain.LevelB1]
	}
	dim := domain.DimensionAssessment{Score: score}
	return domain.QualityAssessment{
		Vocabulary: dim,
		Grammar:    dim,
		Coherence:  dim,
		Mechanics:  dim,
	}
}
