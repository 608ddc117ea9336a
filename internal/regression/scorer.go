package regression

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahrav/go-essayscore/internal/domain"
	"github.com/ahrav/go-essayscore/internal/embedding"
)

// ErrRegressorUnavailable indicates the regressor or token embedder
// could not produce a prediction. The regression path is optional, so
// callers typically log and omit the result rather than fail scoring.
var ErrRegressorUnavailable = errors.New("regressor unavailable")

// scoreScale maps the regressor's raw [0, 1] output to the 0-9 scale.
const scoreScale = 9.0

// TokenEmbedder extracts one embedding vector per token. Implementations
// fix the vector width per instance, matching the sentence encoder's.
type TokenEmbedder interface {
	EmbedTokens(ctx context.Context, tokens []string) ([][]float64, error)
}

// Regressor predicts a raw score in [0, 1] from a fixed-shape token
// tensor. Out-of-range predictions are clamped by the scorer.
type Regressor interface {
	Predict(ctx context.Context, tensor [][]float64) (float64, error)
}

// Config holds the regression path's shape parameters.
type Config struct {
	// MaxSequenceLength is the fixed token length the regressor expects.
	// Non-positive values fall back to DefaultMaxSequenceLength.
	MaxSequenceLength int `json:"max_sequence_length"`

	// QuestionAware concatenates the mean-pooled prompt embedding to
	// every token vector, doubling the feature width.
	QuestionAware bool `json:"question_aware"`
}

// DefaultConfig returns the standard regression configuration.
func DefaultConfig() Config {
	return Config{MaxSequenceLength: DefaultMaxSequenceLength}
}

// Scorer runs the sequence-regression scoring path.
type Scorer struct {
	cfg       Config
	embedder  TokenEmbedder
	regressor Regressor
}

// NewScorer builds a scorer, failing fast when a collaborator is missing.
func NewScorer(cfg Config, embedder TokenEmbedder, regressor Regressor) (*Scorer, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: nil token embedder", ErrRegressorUnavailable)
	}
	if regressor == nil {
		return nil, fmt.Errorf("%w: nil regressor", ErrRegressorUnavailable)
	}
	if cfg.MaxSequenceLength <= 0 {
		cfg.MaxSequenceLength = DefaultMaxSequenceLength
	}
	return &Scorer{cfg: cfg, embedder: embedder, regressor: regressor}, nil
}

// Score tokenizes and embeds the essay, shapes the fixed-length tensor,
// runs the regressor, and converts the raw prediction to the 0-9 scale:
// unscaled by 9.0, rounded to the nearest half point, then multiplied
// by the word-count penalty factor.
//
// An empty essay scores 0 without touching the embedder or regressor.
func (s *Scorer) Score(
	ctx context.Context,
	essay, prompt string,
	penaltyFactor float64,
) (*domain.RegressionResult, error) {
	if penaltyFactor <= 0 || penaltyFactor > 1 {
		penaltyFactor = 1
	}

	tokens := Tokenize(essay, s.cfg.MaxSequenceLength)
	if len(tokens) == 0 {
		return &domain.RegressionResult{Score: 0, PenaltyApplied: false}, nil
	}

	vectors, err := s.embedder.EmbedTokens(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("%w: essay tokens: %w", ErrRegressorUnavailable, err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: embedder returned no vectors", ErrRegressorUnavailable)
	}
	width := len(vectors[0])

	if s.cfg.QuestionAware {
		question, err := s.questionVector(ctx, prompt)
		if err != nil {
			return nil, err
		}
		if len(question) > 0 {
			vectors = ConcatQuestion(vectors, question)
			width *= 2
		}
	}

	tensor := PadOrTruncate(vectors, s.cfg.MaxSequenceLength, width)

	raw, err := s.regressor.Predict(ctx, tensor)
	if err != nil {
		return nil, fmt.Errorf("%w: predict: %w", ErrRegressorUnavailable, err)
	}

	score := domain.RoundToHalf(domain.Clamp01(raw) * scoreScale)
	penalized := score * penaltyFactor

	return &domain.RegressionResult{
		Score:          domain.Clamp(penalized, 0, scoreScale),
		PenaltyApplied: penaltyFactor < 1 && penalized < score,
	}, nil
}

// questionVector embeds the prompt tokens and mean-pools them into the
// single broadcast vector. An empty prompt yields no vector and leaves
// the tensor question-unaware.
func (s *Scorer) questionVector(ctx context.Context, prompt string) ([]float64, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, nil
	}
	tokens := Tokenize(prompt, s.cfg.MaxSequenceLength)
	if len(tokens) == 0 {
		return nil, nil
	}
	vectors, err := s.embedder.EmbedTokens(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("%w: prompt tokens: %w", ErrRegressorUnavailable, err)
	}
	return embedding.MeanPool(vectors), nil
}
