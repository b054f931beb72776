package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/freqscout/freqscout-cli/internal/resilience"
)

// maxBodyBytes caps page reads; frequency database pages are well under this.
const maxBodyBytes = 2 * 1024 * 1024

// Cache is the optional page-body cache consulted before hitting the network.
type Cache interface {
	Get(ctx context.Context, url string) (string, bool, error)
	Put(ctx context.Context, url, body string) error
}

// Client is a polite HTTP page fetcher for the frequency database site:
// one request at a time, rate limited, browser-like user agent.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	cache     Cache
	clock     clockwork.Clock
	retry     resilience.RetryConfig
}

// Option configures the Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithCache attaches a page-body cache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLimiter overrides the request rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithClock overrides the clock used by Pause. Tests use a fake clock.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithRetry overrides the retry policy for transient fetch failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// New creates a Client with sensible defaults.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter:   rate.NewLimiter(rate.Every(300*time.Millisecond), 1),
		userAgent: "Mozilla/5.0 (compatible; freqscout/1.0)",
		clock:     clockwork.NewRealClock(),
		retry:     resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches a URL and returns its body as a string. Non-2xx statuses are
// errors; callers treat them as "no records for this fetch".
func (c *Client) Get(ctx context.Context, targetURL string) (string, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, targetURL)
		if err != nil {
			zap.L().Warn("page cache read failed", zap.String("url", targetURL), zap.Error(err))
		} else if ok {
			zap.L().Debug("page cache hit", zap.String("url", targetURL))
			return body, nil
		}
	}

	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (string, error) {
		return c.fetchOnce(ctx, targetURL)
	})
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, targetURL, body); err != nil {
			zap.L().Warn("page cache write failed", zap.String("url", targetURL), zap.Error(err))
		}
	}

	return body, nil
}

func (c *Client) fetchOnce(ctx context.Context, targetURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "fetch: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "fetch: request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("fetch: status %d for %s", resp.StatusCode, targetURL)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return "", resilience.NewTransientError(err, resp.StatusCode)
		}
		return "", err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", eris.Wrap(err, "fetch: read body")
	}

	return string(body), nil
}

// Pause sleeps for the given politeness delay, honoring cancellation.
func (c *Client) Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "fetch: pause interrupted")
	case <-c.clock.After(d):
		return nil
	}
}
