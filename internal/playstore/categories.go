package playstore

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

const (
	storeAppsPath  = "/store/apps"
	categoryPrefix = "/store/apps/category/"
)

// Categories lists the category identifiers linked from the store front.
// It takes no options beyond the default locale.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	resp, err := c.fetch(ctx, upstreamRequest{
		method: http.MethodGet,
		path:   storeAppsPath,
		query:  localeQuery(c.locale(Locale{})),
		kind:   kindPage,
	})
	if err != nil {
		return nil, err
	}
	return parseCategories(resp.body)
}

func parseCategories(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "parse store front")
	}
	seen := map[string]bool{}
	ids := []string{}
	doc.Find(`a[href*="` + categoryPrefix + `"]`).Each(func(_ int, link *goquery.Selection) {
		href := link.AttrOr("href", "")
		_, id, ok := strings.Cut(href, categoryPrefix)
		if !ok {
			return
		}
		id, _, _ = strings.Cut(id, "?")
		id = strings.Trim(id, "/")
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	})
	return ids, nil
}
