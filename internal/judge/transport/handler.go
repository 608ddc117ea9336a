// Package transport provides the composable middleware pipeline for
// judge-service requests: a Handler abstraction, middleware chaining,
// and the core HTTP handler that talks to the configured service.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	judgeerrors "github.com/ahrav/go-essayscore/internal/judge/errors"
)

// Operation names the judge call being made.
type Operation string

// The two judge operations: relevance/content validation and
// writing-quality assessment.
const (
	OpRelevance Operation = "relevance"
	OpQuality   Operation = "quality"
)

// Request is one judge-service call: the essay plus the operation's
// context (prompt for relevance, CEFR level for quality).
type Request struct {
	// Operation selects which judgment is requested.
	Operation Operation `json:"operation"`

	// Essay is the text under assessment.
	Essay string `json:"essay"`

	// Prompt is the originating task prompt. Set for OpRelevance.
	Prompt string `json:"prompt,omitempty"`

	// Level is the writer's declared CEFR level. Set for OpQuality.
	Level string `json:"level,omitempty"`

	// Model is the judge model tier resolved at client construction.
	Model string `json:"model"`

	// Timeout bounds this call; zero falls back to the HTTP client's
	// timeout.
	Timeout time.Duration `json:"-"`
}

// Response is the raw judge-service reply plus transport metadata. The
// client parses RawJSON into the operation's domain type.
type Response struct {
	// RawJSON is the service's JSON body.
	RawJSON json.RawMessage `json:"raw_json"`

	// LatencyMs measures the round trip in milliseconds.
	LatencyMs int64 `json:"latency_ms"`

	// FromCache reports that the cache middleware served this response.
	FromCache bool `json:"from_cache"`
}

// Handler processes judge requests through the middleware pipeline.
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, *Request) (*Response, error)

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Middleware transforms a Handler into an enhanced Handler. Applied in
// reverse order with the last middleware closest to the core handler.
type Middleware func(Handler) Handler

// Chain builds a middleware pipeline around a core handler. Middleware
// executes in the order provided, first middleware outermost.
func Chain(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Adapter builds the service-specific HTTP request and parses its
// response. Implementations stay vendor-neutral behind this interface.
type Adapter interface {
	Build(ctx context.Context, req *Request) (*http.Request, error)
	Parse(httpResp *http.Response) (*Response, error)
	Name() string
}

// NewHTTPHandler creates the core handler that performs the actual HTTP
// round trip through the given adapter.
func NewHTTPHandler(client *http.Client, adapter Adapter) Handler {
	return &httpHandler{client: client, adapter: adapter}
}

type httpHandler struct {
	client  *http.Client
	adapter Adapter
}

// Handle implements Handler by calling the judge service over HTTP with
// the request's timeout applied to the context.
func (h *httpHandler) Handle(ctx context.Context, req *Request) (*Response, error) {
	reqCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := h.adapter.Build(reqCtx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", req.Operation, err)
	}

	start := time.Now()
	httpResp, err := h.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", req.Operation, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		return nil, statusError(req, httpResp)
	}

	resp, err := h.adapter.Parse(httpResp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", req.Operation, err)
	}
	resp.LatencyMs = latency.Milliseconds()
	return resp, nil
}

// statusError converts a non-200 reply into a classified JudgeError,
// carrying any Retry-After guidance the service sent.
func statusError(req *Request, httpResp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4<<10))

	retryAfter := 0
	if v := httpResp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			retryAfter = seconds
		}
	}

	return &judgeerrors.JudgeError{
		Service:    string(req.Operation),
		StatusCode: httpResp.StatusCode,
		Message:    string(body),
		Type:       judgeerrors.ClassifyStatus(httpResp.StatusCode),
		RetryAfter: retryAfter,
	}
}
