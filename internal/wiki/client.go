package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"wikipath/internal/logger"
)

const (
	// DefaultAPIURL is the English Wikipedia action API endpoint.
	DefaultAPIURL = "https://en.wikipedia.org/w/api.php"
	// DefaultUserAgent identifies the tool to Wikimedia servers, which
	// reject requests without a descriptive agent.
	DefaultUserAgent = "wikipath/1.0 (shortest link path finder)"

	maxResponseBytes = 8 << 20
)

// Client talks to a MediaWiki action API. It is safe for concurrent use;
// all requests share one rate limiter and one cookie jar.
type Client struct {
	apiURL      string
	http        *http.Client
	limiter     *rate.Limiter
	userAgent   string
	logger      logger.Logger
	pingRetries int
}

type Option func(*Client)

// WithHTTPClient replaces the HTTP client. A cookie jar is added when the
// client has none, since login state lives in cookies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		clone := *hc
		if clone.Jar == nil {
			clone.Jar = c.http.Jar
		}
		c.http = &clone
	}
}

// WithRateLimit caps requests per second across all callers. A
// non-positive rps disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithPingRetries sets how many times Ping retries before giving up.
func WithPingRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.pingRetries = n
		}
	}
}

// NewClient builds a client for the API at apiURL. An unparsable or
// non-HTTP address is an ErrConfig.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(apiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid api url %q", ErrConfig, apiURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		apiURL:      u.String(),
		http:        &http.Client{Jar: jar, Timeout: 30 * time.Second},
		limiter:     rate.NewLimiter(rate.Inf, 0),
		userAgent:   DefaultUserAgent,
		logger:      logger.NewNoopLogger(),
		pingRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIURL returns the endpoint the client talks to.
func (c *Client) APIURL() string {
	return c.apiURL
}

func (c *Client) get(ctx context.Context, params url.Values) (gjson.Result, error) {
	return c.do(ctx, http.MethodGet, params)
}

func (c *Client) post(ctx context.Context, params url.Values) (gjson.Result, error) {
	return c.do(ctx, http.MethodPost, params)
}

// do sends one API request and returns the parsed body. API-level errors
// in the body are returned as *APIError.
func (c *Client) do(ctx context.Context, method string, params url.Values) (gjson.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return gjson.Result{}, err
	}

	params.Set("format", "json")
	params.Set("formatversion", "2")

	var (
		req *http.Request
		err error
	)
	if method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, method, c.apiURL, strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.apiURL+"?"+params.Encode(), nil)
	}
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("action", params.Get("action")),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return gjson.Result{}, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("malformed json response (%d bytes)", len(body))
	}

	res := gjson.ParseBytes(body)
	if apiErr := res.Get("error"); apiErr.Exists() {
		return gjson.Result{}, &APIError{
			Code: apiErr.Get("code").String(),
			Info: apiErr.Get("info").String(),
		}
	}
	return res, nil
}
