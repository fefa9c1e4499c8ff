package playstore

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rotisserie/eris"
)

const defaultDeveloperNum = 60

// DeveloperOptions selects a developer's catalogue.
type DeveloperOptions struct {
	Locale     `mapstructure:",squash"`
	DevID      string `mapstructure:"devId"`
	Num        int    `mapstructure:"num"`
	FullDetail bool   `mapstructure:"fullDetail"`
}

// Developer returns the apps published by one developer.
func (c *Client) Developer(ctx context.Context, params Params) ([]App, error) {
	opts := DeveloperOptions{Num: defaultDeveloperNum}
	if err := c.decodeOptions(params, &opts); err != nil {
		return nil, err
	}
	if opts.DevID == "" {
		return nil, invalidOption("devId missing")
	}
	locale := c.locale(opts.Locale)

	q := localeQuery(locale)
	q.Set("id", opts.DevID)
	resp, err := c.fetch(ctx, upstreamRequest{method: http.MethodGet, path: developerPath(opts.DevID), query: q, kind: kindPage})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, eris.Wrap(err, "Developer not found (404)")
		}
		return nil, err
	}
	apps, err := parseAppCards(resp.body)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		apps[i].DeveloperID = opts.DevID
	}
	return c.finishCollection(ctx, apps, opts.Num, opts.FullDetail, locale)
}

// Numeric developer ids have their own landing page.
func developerPath(devID string) string {
	if _, err := strconv.ParseUint(devID, 10, 64); err == nil {
		return "/store/apps/dev"
	}
	return "/store/apps/developer"
}
