package playstore

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

// SimilarOptions selects the app whose neighbours are wanted.
type SimilarOptions struct {
	Locale     `mapstructure:",squash"`
	AppID      string `mapstructure:"appId"`
	FullDetail bool   `mapstructure:"fullDetail"`
}

// Similar returns the "similar apps" cluster linked from an app's page.
// An app without such a cluster yields an empty list.
func (c *Client) Similar(ctx context.Context, params Params) ([]App, error) {
	var opts SimilarOptions
	if err := c.decodeOptions(params, &opts); err != nil {
		return nil, err
	}
	if opts.AppID == "" {
		return nil, invalidOption("appId missing")
	}
	locale := c.locale(opts.Locale)

	page, err := c.detailsPage(ctx, opts.AppID, locale)
	if err != nil {
		return nil, err
	}
	href, err := clusterLink(page)
	if err != nil {
		return nil, err
	}
	if href == "" {
		return []App{}, nil
	}

	cluster, err := url.Parse(href)
	if err != nil {
		return nil, eris.Wrapf(err, "parse cluster link %q", href)
	}
	q := cluster.Query()
	for key, values := range localeQuery(locale) {
		if q.Get(key) == "" {
			q[key] = values
		}
	}
	resp, err := c.fetch(ctx, upstreamRequest{method: http.MethodGet, path: cluster.Path, query: q, kind: kindPage})
	if err != nil {
		return nil, err
	}
	apps, err := parseAppCards(resp.body)
	if err != nil {
		return nil, err
	}
	return c.finishCollection(ctx, apps, 0, opts.FullDetail, locale)
}
