package wiki

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// Login signs in with bot credentials. The session cookie is kept in the
// client's jar for later requests. Any failure is an ErrConfig.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	tokens, err := c.get(ctx, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {"login"},
	})
	if err != nil {
		return fmt.Errorf("%w: fetch login token: %w", ErrConfig, err)
	}
	token := tokens.Get("query.tokens.logintoken").String()
	if token == "" {
		return fmt.Errorf("%w: api returned no login token", ErrConfig)
	}

	res, err := c.post(ctx, url.Values{
		"action":     {"login"},
		"lgname":     {creds.Username},
		"lgpassword": {creds.Password},
		"lgtoken":    {token},
	})
	if err != nil {
		return fmt.Errorf("%w: login as %q: %w", ErrConfig, creds.Username, err)
	}
	if result := res.Get("login.result").String(); result != "Success" {
		reason := res.Get("login.reason").String()
		return fmt.Errorf("%w: login as %q rejected: %s %s", ErrConfig, creds.Username, result, reason)
	}

	c.logger.Info("logged in", zap.String("user", res.Get("login.lgusername").String()))
	return nil
}
