package playstore

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"
)

// SuggestOptions carries the partial term to complete.
type SuggestOptions struct {
	Locale `mapstructure:",squash"`
	Term   string `mapstructure:"term"`
}

// Suggest returns search completions for a partial term.
func (c *Client) Suggest(ctx context.Context, params Params) ([]string, error) {
	var opts SuggestOptions
	if err := c.decodeOptions(params, &opts); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Term) == "" {
		return nil, invalidOption("term missing")
	}

	inner := mustJSON([]any{[]any{nil, []any{opts.Term}, []any{10}, []any{2}, 4}})
	payload, err := c.batchExecute(ctx, rpcSuggest, inner, c.locale(opts.Locale))
	if err != nil {
		return nil, err
	}

	suggestions := []string{}
	payload.Get("0.0").ForEach(func(_, entry gjson.Result) bool {
		if s := entry.Get("0").String(); s != "" {
			suggestions = append(suggestions, s)
		}
		return true
	})
	return suggestions, nil
}
