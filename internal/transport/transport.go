// Package transport executes outbound catalog requests. Every request passes
// the per-provider rate limiter before hitting the network, and upstream
// failures are translated into domain errors so callers never see raw HTTP
// statuses.
package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	apperr "github.com/frameguessr/frameguessr-server/internal/errors"
	"github.com/frameguessr/frameguessr-server/internal/ratelimit"
)

const defaultTimeout = 30 * time.Second

// Request describes one outbound GET.
type Request struct {
	// Key selects the rate-limiter bucket, one per provider.
	Key string
	// URL is the fully built request URL including query string.
	URL string
	// Header carries provider auth headers. May be nil.
	Header http.Header
	// Cacheable requests are served from the TTL body cache when possible.
	// Randomized discovery must leave this false or rounds would repeat.
	Cacheable bool
}

// Client is the shared fetcher for all provider clients.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedLimiter
	cache   *bodyCache
	logger  *slog.Logger
}

// New creates a transport client. cacheTTL bounds how long cacheable bodies
// are reused.
func New(limiter *ratelimit.KeyedLimiter, cacheTTL time.Duration, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: limiter,
		cache:   newBodyCache(cacheTTL),
		logger:  logger,
	}
}

// Get fetches the request URL and returns the response body.
//
// Upstream statuses map to domain errors: 429 to rate limited, 401/403 to
// unauthorized, 404 to not found, anything else non-2xx to a provider error
// carrying the status. Transport-level failures map to a network error unless
// the context was canceled, which wins.
func (c *Client) Get(ctx context.Context, req Request) ([]byte, error) {
	if req.Cacheable {
		if body, ok := c.cache.get(req.URL); ok {
			c.logger.Debug("cache hit", "provider", req.Key, "url", req.URL)
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx, req.Key); err != nil {
		if cerr := apperr.FromContext(err); cerr != nil {
			return nil, cerr
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "rate limit wait")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "create request")
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "FrameGuessr/1.0")
	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}

	c.logger.Debug("provider request", "provider", req.Key, "url", req.URL)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if cerr := apperr.FromContext(ctx.Err()); cerr != nil {
			return nil, cerr
		}
		return nil, apperr.Network(fmt.Sprintf("%s unreachable", req.Key)).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Network(fmt.Sprintf("read %s response", req.Key)).WithCause(err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if req.Cacheable {
			c.cache.put(req.URL, body)
		}
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperr.RateLimited(fmt.Sprintf("%s rejected the request", req.Key))
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apperr.Unauthorized(fmt.Sprintf("%s rejected credentials", req.Key))
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.NotFoundf("%s resource not found", req.Key)
	default:
		return nil, apperr.Providerf(resp.StatusCode, "%s returned status %d", req.Key, resp.StatusCode)
	}
}
