package judge

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahrav/go-essayscore/internal/judge/transport"
)

// newLoggingMiddleware returns middleware that logs every judge call
// with its operation, model, latency, and cache provenance. Failures log
// at warn level with the error; the error itself propagates unchanged.
func newLoggingMiddleware() transport.Middleware {
	logger := slog.Default().With("component", "judge")

	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			start := time.Now()
			resp, err := next.Handle(ctx, req)
			elapsed := time.Since(start)

			if err != nil {
				logger.Warn("judge call failed",
					"operation", req.Operation,
					"model", req.Model,
					"elapsed", elapsed,
					"error", err)
				return nil, err
			}

			logger.Debug("judge call completed",
				"operation", req.Operation,
				"model", req.Model,
				"elapsed", elapsed,
				"from_cache", resp.FromCache)
			return resp, nil
		})
	}
}
