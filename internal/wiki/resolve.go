package wiki

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"wikipath/internal/models"
)

// ResolveTitle validates user input against the article search. When one
// of the top hits is exactly the input it is returned; otherwise the hits
// come back as an *AmbiguousTitleError. No hits is ErrTitleNotFound.
func (c *Client) ResolveTitle(ctx context.Context, input string) (models.Title, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty title", ErrTitleNotFound)
	}

	res, err := c.get(ctx, url.Values{
		"action":      {"query"},
		"list":        {"search"},
		"srsearch":    {input},
		"srnamespace": {"0"},
		"srlimit":     {"5"},
	})
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", input, err)
	}

	var suggestions []models.Title
	res.Get("query.search.#.title").ForEach(func(_, title gjson.Result) bool {
		suggestions = append(suggestions, models.Title(title.String()))
		return true
	})
	if len(suggestions) == 0 {
		return "", fmt.Errorf("%w: %q", ErrTitleNotFound, input)
	}
	if slices.Contains(suggestions, models.Title(input)) {
		return models.Title(input), nil
	}
	return "", &AmbiguousTitleError{Input: input, Suggestions: suggestions}
}
