package wiki

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"

	"wikipath/internal/models"
)

// FetchLinks returns the main-namespace articles linked from title, in the
// order the API lists them, following continuation until exhausted.
// Redirects are resolved to their target page. A missing or invalid page is
// a FailureNotFound error; throttling is FailureRateLimited; anything else
// is FailureNetwork.
func (c *Client) FetchLinks(ctx context.Context, title models.Title) ([]models.Title, error) {
	params := url.Values{
		"action":      {"query"},
		"prop":        {"links"},
		"plnamespace": {"0"},
		"pllimit":     {"max"},
		"titles":      {title.String()},
		"redirects":   {"1"},
	}

	var links []models.Title
	for {
		res, err := c.get(ctx, params)
		if err != nil {
			return nil, models.NewFetchError(title, classify(err), err)
		}

		page := res.Get("query.pages.0")
		if !page.Exists() || page.Get("missing").Bool() || page.Get("invalid").Bool() {
			return nil, models.NewFetchError(title, models.FailureNotFound, nil)
		}
		page.Get("links").ForEach(func(_, link gjson.Result) bool {
			if t := link.Get("title").String(); t != "" {
				links = append(links, models.Title(t))
			}
			return true
		})

		cont := res.Get("continue")
		if !cont.Exists() {
			return links, nil
		}
		cont.ForEach(func(key, value gjson.Result) bool {
			params.Set(key.String(), value.String())
			return true
		})
	}
}
