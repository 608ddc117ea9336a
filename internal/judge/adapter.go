// Package judge implements the client for the external language-
// understanding services: the relevance/content validator and the
// writing-quality assessor. Requests flow through a composable
// middleware chain (logging, caching, rate limiting, retry) before the
// HTTP round trip, mirroring one vendor-neutral JSON contract per
// operation.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ahrav/go-essayscore/internal/judge/transport"
)

// jsonAdapter builds and parses the vendor-neutral JSON-over-HTTP
// contract: POST {endpoint}/v1/{operation} with a JSON body, JSON back.
type jsonAdapter struct {
	endpoint string
	apiKey   string
}

func newJSONAdapter(endpoint, apiKey string) *jsonAdapter {
	return &jsonAdapter{endpoint: endpoint, apiKey: apiKey}
}

// Name identifies the adapter in logs.
func (a *jsonAdapter) Name() string { return "judge-json" }

// Build constructs the HTTP request for a judge call.
func (a *jsonAdapter) Build(ctx context.Context, req *transport.Request) (*http.Request, error) {
	body, err := json.Marshal(map[string]string{
		"model":  req.Model,
		"essay":  req.Essay,
		"prompt": req.Prompt,
		"level":  req.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", req.Operation, err)
	}

	url := fmt.Sprintf("%s/v1/%s", a.endpoint, req.Operation)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	}
	return httpReq, nil
}

// Parse reads the raw JSON reply; operation-specific decoding happens in
// the client so the transport stays payload-agnostic.
func (a *jsonAdapter) Parse(httpResp *http.Response) (*transport.Response, error) {
	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &transport.Response{RawJSON: raw}, nil
}
