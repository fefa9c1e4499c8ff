package playstore

import (
	"context"
	"net/http"
	"strings"
)

const (
	searchPath       = "/store/search"
	defaultSearchNum = 20
	maxSearchNum     = 250
)

// SearchOptions describes a store search.
type SearchOptions struct {
	Locale     `mapstructure:",squash"`
	Term       string `mapstructure:"term"`
	Num        int    `mapstructure:"num"`
	Price      string `mapstructure:"price"`
	FullDetail bool   `mapstructure:"fullDetail"`
}

// Search returns the apps matching a term.
func (c *Client) Search(ctx context.Context, params Params) ([]App, error) {
	opts := SearchOptions{Num: defaultSearchNum, Price: "all"}
	if err := c.decodeOptions(params, &opts); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Term) == "" {
		return nil, invalidOption("Search term missing")
	}
	if opts.Num > maxSearchNum {
		return nil, invalidOption("The number of results can't exceed %d", maxSearchNum)
	}
	price, ok := searchPrices[strings.ToLower(opts.Price)]
	if !ok {
		return nil, invalidOption("Invalid price %s, expected all, free or paid", opts.Price)
	}
	locale := c.locale(opts.Locale)

	q := localeQuery(locale)
	q.Set("q", opts.Term)
	q.Set("c", "apps")
	q.Set("price", price)
	resp, err := c.fetch(ctx, upstreamRequest{method: http.MethodGet, path: searchPath, query: q, kind: kindPage})
	if err != nil {
		return nil, err
	}
	apps, err := parseAppCards(resp.body)
	if err != nil {
		return nil, err
	}
	return c.finishCollection(ctx, apps, opts.Num, opts.FullDetail, locale)
}
