// Package embedding computes the semantic-similarity relevance signal:
// essay and prompt are encoded to fixed-size vectors by an injected
// encoder and compared with cosine similarity, normalized to 0-100.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahrav/go-essayscore/internal/domain"
)

// ErrEncoderUnavailable indicates the semantic encoder could not produce
// a vector. The caller decides whether to degrade or abort.
var ErrEncoderUnavailable = errors.New("encoder unavailable")

// ErrDimensionMismatch indicates two vectors of different dimensionality
// were compared; the encoder contract fixes the dimension per instance.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Encoder is the capability interface for a semantic text encoder. One
// shared, stateless-per-call instance encodes both essay and prompt.
type Encoder interface {
	// Embed converts text to a fixed-length vector. Implementations wrap
	// failures so they match ErrEncoderUnavailable.
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Engine computes embedding-based relevance with a configured encoder.
type Engine struct {
	encoder Encoder
}

// NewEngine builds an engine around the shared encoder instance.
func NewEngine(encoder Encoder) (*Engine, error) {
	if encoder == nil {
		return nil, fmt.Errorf("%w: nil encoder", ErrEncoderUnavailable)
	}
	return &Engine{encoder: encoder}, nil
}

// Relevance encodes essay and prompt and returns their cosine similarity
// normalized to [0, 100]. An empty essay short-circuits to 0 without an
// encode call; an empty prompt compares against nothing and also yields 0.
// Encoder failures surface wrapped in ErrEncoderUnavailable.
func (e *Engine) Relevance(ctx context.Context, essay, prompt string) (float64, error) {
	if strings.TrimSpace(essay) == "" || strings.TrimSpace(prompt) == "" {
		return 0, nil
	}

	essayVec, err := e.encoder.Embed(ctx, essay)
	if err != nil {
		return 0, fmt.Errorf("%w: essay: %w", ErrEncoderUnavailable, err)
	}
	promptVec, err := e.encoder.Embed(ctx, prompt)
	if err != nil {
		return 0, fmt.Errorf("%w: prompt: %w", ErrEncoderUnavailable, err)
	}

	cos, err := Cosine(essayVec, promptVec)
	if err != nil {
		return 0, err
	}
	return NormalizeCosine(cos), nil
}

// NormalizeCosine maps a cosine similarity in [-1, 1] to the 0-100
// relevance scale.
func NormalizeCosine(cos float64) float64 {
	return domain.Clamp100((cos + 1) / 2 * 100)
}
