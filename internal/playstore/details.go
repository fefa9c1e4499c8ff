package playstore

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// withFullDetail replaces each summary with the app's full details, keeping
// order. At most DetailConcurrency detail pages are in flight at once.
func (c *Client) withFullDetail(ctx context.Context, apps []App, locale Locale) ([]App, error) {
	detailed := make([]App, len(apps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.DetailConcurrency)
	for i, summary := range apps {
		g.Go(func() error {
			app, err := c.appDetails(gctx, summary.AppID, locale)
			if err != nil {
				return err
			}
			detailed[i] = *app
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detailed, nil
}

// finishCollection truncates apps to num (when positive) and optionally
// expands them to full details.
func (c *Client) finishCollection(ctx context.Context, apps []App, num int, fullDetail bool, locale Locale) ([]App, error) {
	if num > 0 && len(apps) > num {
		apps = apps[:num]
	}
	if apps == nil {
		apps = []App{}
	}
	if !fullDetail || len(apps) == 0 {
		return apps, nil
	}
	return c.withFullDetail(ctx, apps, locale)
}
