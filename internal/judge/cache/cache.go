// Package cache provides the optional Redis-backed response cache for
// judge assessments. Identical submissions re-scored within the TTL are
// served from cache instead of re-judged. Redis failures never fail the
// request; the call proceeds uncached.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ahrav/go-essayscore/internal/judge/configuration"
	"github.com/ahrav/go-essayscore/internal/judge/transport"
)

// keyPrefix namespaces cache entries in a shared Redis deployment.
const keyPrefix = "essayscore:judge:"

// Key derives the deterministic cache key for a request: the operation
// plus a SHA-256 digest over every input that shapes the judgment.
func Key(req *transport.Request) string {
	h := sha256.New()
	h.Write([]byte(req.Essay))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	h.Write([]byte{0})
	h.Write([]byte(req.Level))
	h.Write([]byte{0})
	h.Write([]byte(req.Model))
	return fmt.Sprintf("%s%s:%s", keyPrefix, req.Operation, hex.EncodeToString(h.Sum(nil)))
}

type cacheMiddleware struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewMiddleware creates the cache middleware from configuration. A
// disabled cache yields a pass-through middleware; an enabled one
// connects lazily to the configured Redis address.
func NewMiddleware(cfg configuration.CacheConfig) transport.Middleware {
	if !cfg.Enabled {
		return func(next transport.Handler) transport.Handler { return next }
	}

	cm := &cacheMiddleware{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr}),
		ttl:    cfg.TTL,
		logger: slog.Default().With("component", "judge-cache"),
	}
	return cm.middleware()
}

// NewMiddlewareWithClient creates the cache middleware around an
// existing Redis client. Used by tests and callers that manage their own
// connection pool.
func NewMiddlewareWithClient(client *redis.Client, ttl time.Duration) transport.Middleware {
	cm := &cacheMiddleware{
		client: client,
		ttl:    ttl,
		logger: slog.Default().With("component", "judge-cache"),
	}
	return cm.middleware()
}

func (c *cacheMiddleware) middleware() transport.Middleware {
	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			key := Key(req)

			if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
				return &transport.Response{RawJSON: raw, FromCache: true}, nil
			} else if err != redis.Nil {
				// Degrade to the live call on any Redis failure.
				c.logger.Warn("cache lookup failed", "key", key, "error", err)
			}

			resp, err := next.Handle(ctx, req)
			if err != nil {
				return nil, err
			}

			if setErr := c.client.Set(ctx, key, []byte(resp.RawJSON), c.ttl).Err(); setErr != nil {
				c.logger.Warn("cache store failed", "key", key, "error", setErr)
			}
			return resp, nil
		})
	}
}
