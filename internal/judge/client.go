package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ahrav/go-essayscore/internal/domain"
	"github.com/ahrav/go-essayscore/internal/judge/cache"
	"github.com/ahrav/go-essayscore/internal/judge/configuration"
	judgeerrors "github.com/ahrav/go-essayscore/internal/judge/errors"
	"github.com/ahrav/go-essayscore/internal/judge/ratelimit"
	"github.com/ahrav/go-essayscore/internal/judge/retry"
	"github.com/ahrav/go-essayscore/internal/judge/transport"
)

// Client calls the external relevance and quality judge services through
// the middleware chain. The model tier is resolved once at construction;
// scoring requests never branch on availability.
type Client struct {
	handler transport.Handler
	model   string
	cfg     configuration.Config
	logger  *slog.Logger
}

// Option customizes client construction.
type Option func(*options)

type options struct {
	probe func(ctx context.Context, tier configuration.ModelTier) error
}

// WithTierProbe overrides the availability probe used to resolve the
// model tier at construction. Tests inject a stub probe here.
func WithTierProbe(probe func(ctx context.Context, tier configuration.ModelTier) error) Option {
	return func(o *options) { o.probe = probe }
}

// NewClient validates the configuration, resolves the model tier, and
// assembles the middleware chain: logging -> cache -> rate limit ->
// retry -> HTTP. All configuration errors surface here, before any
// scoring request is accepted.
func NewClient(ctx context.Context, cfg *configuration.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("judge config: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.CallTimeout}
	}

	adapter := newJSONAdapter(cfg.Endpoint, cfg.APIKey)
	if o.probe == nil {
		o.probe = httpProbe(httpClient, cfg)
	}

	model, err := resolveTier(ctx, cfg.ModelTiers, o.probe)
	if err != nil {
		return nil, err
	}

	retryMw, err := retry.NewMiddleware(cfg.Retry)
	if err != nil {
		return nil, err
	}

	handler := transport.Chain(
		transport.NewHTTPHandler(httpClient, adapter),
		newLoggingMiddleware(),
		cache.NewMiddleware(cfg.Cache),
		ratelimit.NewMiddleware(cfg.RateLimit),
		retryMw,
	)

	return &Client{
		handler: handler,
		model:   model,
		cfg:     *cfg,
		logger:  slog.Default().With("component", "judge"),
	}, nil
}

// Model returns the tier resolved at construction.
func (c *Client) Model() string { return c.model }

// resolveTier walks the prioritized capability list once and returns the
// first tier that answers the probe. A single-tier list skips the probe.
func resolveTier(
	ctx context.Context,
	tiers []configuration.ModelTier,
	probe func(ctx context.Context, tier configuration.ModelTier) error,
) (string, error) {
	if len(tiers) == 1 {
		return tiers[0].Name, nil
	}

	logger := slog.Default().With("component", "judge")
	for _, tier := range tiers {
		if err := probe(ctx, tier); err != nil {
			logger.Warn("model tier unavailable, trying next",
				"tier", tier.Name, "error", err)
			continue
		}
		logger.Info("resolved judge model tier", "tier", tier.Name)
		return tier.Name, nil
	}
	return "", judgeerrors.ErrNoTierAvailable
}

// httpProbe checks tier availability with a GET against the service's
// model listing.
func httpProbe(client *http.Client, cfg *configuration.Config) func(context.Context, configuration.ModelTier) error {
	return func(ctx context.Context, tier configuration.ModelTier) error {
		url := fmt.Sprintf("%s/v1/models/%s", cfg.Endpoint, tier.Name)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return err
		}
		if cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("probe returned status %d", resp.StatusCode)
		}
		return nil
	}
}

// relevancePayload is the validator service's reply shape.
type relevancePayload struct {
	TopicRelevance   float64 `json:"topic_relevance"`
	RequiredElements float64 `json:"required_elements"`
	ContentQuality   float64 `json:"content_quality"`
	SemanticMatch    float64 `json:"semantic_match"`
	Confidence       float64 `json:"confidence"`
}

// AssessRelevance sends essay and prompt to the content validator and
// returns its half of the relevance assessment. Out-of-range fields are
// clamped, not rejected; transport failures surface classified for the
// caller's retry/degrade decision.
func (c *Client) AssessRelevance(ctx context.Context, essay, prompt string) (*domain.RelevanceAssessment, error) {
	resp, err := c.handler.Handle(ctx, &transport.Request{
		Operation: transport.OpRelevance,
		Essay:     essay,
		Prompt:    prompt,
		Model:     c.model,
		Timeout:   c.cfg.CallTimeout,
	})
	if err != nil {
		return nil, err
	}

	var payload relevancePayload
	if err := json.Unmarshal(resp.RawJSON, &payload); err != nil {
		return nil, fmt.Errorf("%w: relevance: %w", judgeerrors.ErrInvalidResponse, err)
	}

	return &domain.RelevanceAssessment{
		TopicRelevance:   domain.Clamp100(payload.TopicRelevance),
		RequiredElements: domain.Clamp100(payload.RequiredElements),
		ContentQuality:   domain.Clamp100(payload.ContentQuality),
		SemanticMatch:    domain.Clamp100(payload.SemanticMatch),
		Confidence:       domain.Clamp01(payload.Confidence),
	}, nil
}

// qualityPayload is the quality service's reply shape.
type qualityPayload struct {
	Vocabulary dimensionPayload `json:"vocabulary"`
	Grammar    dimensionPayload `json:"grammar"`
	Coherence  dimensionPayload `json:"coherence"`
	Mechanics  dimensionPayload `json:"mechanics"`
}

type dimensionPayload struct {
	Score    float64            `json:"score"`
	Metrics  map[string]float64 `json:"metrics"`
	Feedback []string           `json:"feedback"`
}

// AssessQuality sends the essay and target CEFR level to the quality
// assessor and returns the per-dimension judgment with scores clamped to
// range.
func (c *Client) AssessQuality(ctx context.Context, essay string, level domain.CEFRLevel) (*domain.QualityAssessment, error) {
	resp, err := c.handler.Handle(ctx, &transport.Request{
		Operation: transport.OpQuality,
		Essay:     essay,
		Level:     string(level),
		Model:     c.model,
		Timeout:   c.cfg.CallTimeout,
	})
	if err != nil {
		return nil, err
	}

	var payload qualityPayload
	if err := json.Unmarshal(resp.RawJSON, &payload); err != nil {
		return nil, fmt.Errorf("%w: quality: %w", judgeerrors.ErrInvalidResponse, err)
	}

	return &domain.QualityAssessment{
		Vocabulary: payload.Vocabulary.toDomain(),
		Grammar:    payload.Grammar.toDomain(),
		Coherence:  payload.Coherence.toDomain(),
		Mechanics:  payload.Mechanics.toDomain(),
	}, nil
}

func (p dimensionPayload) toDomain() domain.DimensionAssessment {
	return domain.DimensionAssessment{
		Score:    domain.Clamp100(p.Score),
		Metrics:  p.Metrics,
		Feedback: p.Feedback,
	}
}
