package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

// Ping checks that the API answers a siteinfo query and returns the wiki's
// site name. Transient failures are retried; a final failure is ErrConfig.
func (c *Client) Ping(ctx context.Context) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: ping %s: %w", ErrConfig, c.apiURL, err)
	}

	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.HTTPClient = c.http
	rc.RetryMax = c.pingRetries
	rc.RetryWaitMin = 50 * time.Millisecond
	rc.RetryWaitMax = time.Second

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet,
		c.apiURL+"?action=query&meta=siteinfo&format=json&formatversion=2", nil)
	if err != nil {
		return "", fmt.Errorf("%w: ping %s: %w", ErrConfig, c.apiURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := rc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: ping %s: %w", ErrConfig, c.apiURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: ping %s: %w", ErrConfig, c.apiURL, &StatusError{StatusCode: resp.StatusCode})
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: ping %s: %w", ErrConfig, c.apiURL, err)
	}
	site := gjson.GetBytes(body, "query.general.sitename")
	if !site.Exists() {
		return "", fmt.Errorf("%w: %s does not look like a mediawiki api", ErrConfig, c.apiURL)
	}
	return site.String(), nil
}
