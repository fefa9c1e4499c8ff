package playstore

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
)

// AppOptions selects one listing.
type AppOptions struct {
	Locale `mapstructure:",squash"`
	AppID  string `mapstructure:"appId"`
}

// Paths into the ds:5 block of a details page.
const (
	detailsKey          = "ds:5"
	pathTitle           = "1.2.0.0"
	pathDescriptionHTML = "1.2.72.0.1"
	pathSummary         = "1.2.73.0.1"
	pathInstalls        = "1.2.13.0"
	pathMinInstalls     = "1.2.13.1"
	pathMaxInstalls     = "1.2.13.2"
	pathScore           = "1.2.51.0.1"
	pathScoreText       = "1.2.51.0.0"
	pathRatings         = "1.2.51.2.1"
	pathReviews         = "1.2.51.3.1"
	pathHistogram       = "1.2.51.1"
	pathPriceMicros     = "1.2.57.0.0.0.0.1.0.0"
	pathCurrency        = "1.2.57.0.0.0.0.1.0.1"
	pathPriceText       = "1.2.57.0.0.0.0.1.0.2"
	pathAvailable       = "1.2.18.0"
	pathOffersIAP       = "1.2.19.0"
	pathAndroidVersion  = "1.2.140.1.1.0.0.1"
	pathDeveloper       = "1.2.68.0"
	pathDeveloperLink   = "1.2.68.1.4.2"
	pathDeveloperEmail  = "1.2.69.1.0"
	pathDeveloperSite   = "1.2.69.0.5.2"
	pathDeveloperAddr   = "1.2.69.2.0"
	pathPrivacyPolicy   = "1.2.99.0.5.2"
	pathGenre           = "1.2.79.0.0.0"
	pathGenreID         = "1.2.79.0.0.2"
	pathIcon            = "1.2.95.0.3.2"
	pathHeaderImage     = "1.2.96.0.3.2"
	pathScreenshots     = "1.2.78.0"
	pathVideo           = "1.2.100.0.0.3.2"
	pathContentRating   = "1.2.9.0"
	pathAdSupported     = "1.2.48"
	pathReleased        = "1.2.10.0"
	pathUpdatedSeconds  = "1.2.145.0.1.0"
	pathVersion         = "1.2.140.0.0.0"
	pathRecentChanges   = "1.2.144.1.1"
)

// App fetches the full details of one listing.
func (c *Client) App(ctx context.Context, params Params) (*App, error) {
	var opts AppOptions
	if err := c.decodeOptions(params, &opts); err != nil {
		return nil, err
	}
	if opts.AppID == "" {
		return nil, invalidOption("appId missing")
	}
	return c.appDetails(ctx, opts.AppID, c.locale(opts.Locale))
}

func (c *Client) appDetails(ctx context.Context, appID string, locale Locale) (*App, error) {
	html, err := c.detailsPage(ctx, appID, locale)
	if err != nil {
		return nil, err
	}
	data := parseScriptData(html)
	if !data.has(detailsKey) {
		return nil, eris.Errorf("app details for %s missing from page", appID)
	}
	app := buildApp(appID, data)
	return &app, nil
}

func (c *Client) detailsPage(ctx context.Context, appID string, locale Locale) ([]byte, error) {
	q := localeQuery(locale)
	q.Set("id", appID)
	resp, err := c.fetch(ctx, upstreamRequest{
		method: http.MethodGet,
		path:   detailsPath,
		query:  q,
		kind:   kindPage,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, eris.Wrap(err, "App not found (404)")
		}
		return nil, err
	}
	return resp.body, nil
}

func buildApp(appID string, data scriptData) App {
	get := func(path string) gjson.Result { return data.get(detailsKey, path) }

	descriptionHTML := get(pathDescriptionHTML).String()
	priceMicros := get(pathPriceMicros).Float()

	app := App{
		AppID:            appID,
		Title:            get(pathTitle).String(),
		URL:              appURL(appID),
		Icon:             get(pathIcon).String(),
		Developer:        get(pathDeveloper).String(),
		DeveloperID:      developerIDFromLink(get(pathDeveloperLink).String()),
		Summary:          get(pathSummary).String(),
		Currency:         get(pathCurrency).String(),
		Price:            priceMicros / 1e6,
		Free:             priceMicros == 0,
		Score:            get(pathScore).Float(),
		ScoreText:        get(pathScoreText).String(),
		Description:      htmlToText(descriptionHTML),
		DescriptionHTML:  descriptionHTML,
		Installs:         get(pathInstalls).String(),
		MinInstalls:      get(pathMinInstalls).Int(),
		MaxInstalls:      get(pathMaxInstalls).Int(),
		Ratings:          get(pathRatings).Int(),
		Reviews:          get(pathReviews).Int(),
		Histogram:        buildHistogram(get(pathHistogram)),
		PriceText:        priceText(get(pathPriceText).String()),
		Available:        boolPtr(get(pathAvailable).Bool()),
		OffersIAP:        boolPtr(get(pathOffersIAP).String() != ""),
		IAPRange:         get(pathOffersIAP).String(),
		AndroidVersion:   normalizeAndroidVersion(get(pathAndroidVersion).String()),
		DeveloperEmail:   get(pathDeveloperEmail).String(),
		DeveloperWebsite: get(pathDeveloperSite).String(),
		DeveloperAddress: get(pathDeveloperAddr).String(),
		PrivacyPolicy:    get(pathPrivacyPolicy).String(),
		Genre:            get(pathGenre).String(),
		GenreID:          get(pathGenreID).String(),
		HeaderImage:      get(pathHeaderImage).String(),
		Screenshots:      imageURLs(get(pathScreenshots)),
		Video:            get(pathVideo).String(),
		ContentRating:    get(pathContentRating).String(),
		AdSupported:      boolPtr(get(pathAdSupported).Bool()),
		Released:         get(pathReleased).String(),
		Updated:          get(pathUpdatedSeconds).Int() * 1000,
		Version:          firstNonEmpty(get(pathVersion).String(), "VARY"),
		RecentChanges:    get(pathRecentChanges).String(),
	}
	return app
}

// buildHistogram maps the five star buckets (index 1..5, value at [1]).
func buildHistogram(raw gjson.Result) map[string]int64 {
	if !raw.IsArray() {
		return nil
	}
	out := make(map[string]int64, 5)
	for star := 1; star <= 5; star++ {
		key := strconv.Itoa(star)
		out[key] = raw.Get(key + ".1").Int()
	}
	return out
}

func imageURLs(raw gjson.Result) []string {
	var urls []string
	raw.ForEach(func(_, item gjson.Result) bool {
		if u := item.Get("3.2").String(); u != "" {
			urls = append(urls, u)
		}
		return true
	})
	return urls
}

func developerIDFromLink(link string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Query().Get("id")
}

func priceText(raw string) string {
	if raw == "" {
		return "Free"
	}
	return raw
}

func normalizeAndroidVersion(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 || fields[0] == "Varies" {
		return "VARY"
	}
	return fields[0]
}

func boolPtr(v bool) *bool { return &v }

// htmlToText flattens the description markup, keeping line breaks.
func htmlToText(html string) string {
	if html == "" {
		return ""
	}
	html = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n").Replace(html)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}
