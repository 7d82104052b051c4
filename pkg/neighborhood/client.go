package neighborhood

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/buildinfo"
	"github.com/matzehuels/argmap/pkg/cache"
	"github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/expand"
	"github.com/matzehuels/argmap/pkg/httputil"
	"github.com/matzehuels/argmap/pkg/observability"
)

const httpTimeout = 10 * time.Second

// Client fetches neighborhoods and summaries from an argument service:
//
//	GET {base}/arguments/{id}/neighborhood?depth=&supporting=&opposing=&preferences=
//	GET {base}/arguments/{id}/summary
//
// Responses are cached when a cache is configured. Transient failures (5xx,
// 429, network errors) are retried with backoff.
type Client struct {
	http     *http.Client
	base     *url.URL
	cache    cache.Cache
	keyer    cache.Keyer
	headers  map[string]string
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithCache stores responses in ch. A nil keyer scopes keys by base URL.
func WithCache(ch cache.Cache, keyer cache.Keyer) Option {
	return func(c *Client) {
		c.cache = ch
		if keyer != nil {
			c.keyer = keyer
		}
	}
}

// WithHeaders adds headers to every request, for example Authorization.
func WithHeaders(h map[string]string) Option { return func(c *Client) { c.headers = h } }

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.delay = delay
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(c *Client) { c.logger = l } }

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid source URL")
	}
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		base:     u,
		cache:    cache.NewNullCache(),
		keyer:    cache.NewScopedKeyer(nil, u.Host+":"),
		attempts: 3,
		delay:    time.Second,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	return c, nil
}

// Neighborhood fetches the elements around argID.
func (c *Client) Neighborhood(ctx context.Context, argID string, f expand.Filters) (argument.Delta, error) {
	if err := errors.ValidateArgumentID(argID); err != nil {
		return argument.Delta{}, err
	}
	q := url.Values{}
	q.Set("depth", strconv.Itoa(max(f.Depth, 1)))
	q.Set("supporting", strconv.FormatBool(f.IncludeSupporting))
	q.Set("opposing", strconv.FormatBool(f.IncludeOpposing))
	q.Set("preferences", strconv.FormatBool(f.IncludePreferences))

	key := c.keyer.NeighborhoodKey(argID, cache.NeighborhoodKeyOpts{
		Depth:       max(f.Depth, 1),
		Supporting:  f.IncludeSupporting,
		Opposing:    f.IncludeOpposing,
		Preferences: f.IncludePreferences,
	})

	var d argument.Delta
	err := c.cached(ctx, "neighborhood", key, cache.TTLNeighborhood, &d, func() error {
		return c.get(ctx, c.endpoint(argID, "neighborhood", q), &d)
	})
	if err != nil {
		return argument.Delta{}, err
	}
	return d, nil
}

// Summary fetches connection counts for argID.
func (c *Client) Summary(ctx context.Context, argID string) (expand.Summary, error) {
	if err := errors.ValidateArgumentID(argID); err != nil {
		return expand.Summary{}, err
	}
	var s expand.Summary
	err := c.cached(ctx, "summary", c.keyer.SummaryKey(argID), cache.TTLSummary, &s, func() error {
		return c.get(ctx, c.endpoint(argID, "summary", nil), &s)
	})
	if err != nil {
		return expand.Summary{}, err
	}
	return s, nil
}

func (c *Client) endpoint(argID, resource string, q url.Values) string {
	u := *c.base
	u.Path = c.base.Path + "/arguments/" + argID + "/" + resource
	u.RawPath = c.base.EscapedPath() + "/arguments/" + url.PathEscape(argID) + "/" + resource
	u.RawQuery = q.Encode()
	return u.String()
}

// cached reads v from the cache or runs fetch with retries and stores v.
func (c *Client) cached(ctx context.Context, kind, key string, ttl time.Duration, v any, fetch func() error) error {
	hooks := observability.Cache()
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		if json.Unmarshal(data, v) == nil {
			hooks.OnCacheHit(ctx, kind)
			return nil
		}
	} else if err != nil {
		c.logger.Debug("cache read failed", "key", key, "error", err)
	}
	hooks.OnCacheMiss(ctx, kind)

	retrying := func(attempt int, wait time.Duration, err error) {
		c.logger.Debug("retrying", "key", key, "attempt", attempt, "wait", wait, "error", err)
	}
	if err := httputil.RetryNotify(ctx, c.attempts, c.delay, fetch, retrying); err != nil {
		return err
	}

	if data, err := json.Marshal(v); err == nil {
		if err := c.cache.Set(ctx, key, data, ttl); err == nil {
			hooks.OnCacheSet(ctx, kind, len(data))
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "request failed"))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	c.logger.Debug("fetched", "url", rawURL, "status", resp.StatusCode, "duration", time.Since(start))

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode response")
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "argument not found")
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return httputil.Retryable(errors.Wrap(errors.ErrCodeRateLimited, &errors.RateLimitedError{
			RetryAfter: retryAfter,
			Message:    fmt.Sprintf("status %d", code),
		}, "argument service rate limit"))
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "status %d", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d", code)
	}
}
