package playstore

import (
	"bytes"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

const (
	detailsPath      = "/store/apps/details"
	detailsLinkSel   = `a[href*="/store/apps/details?id="]`
	developerLinkSel = `a[href*="/store/apps/dev"]`
)

// parseAppCards collects the distinct apps linked from a store listing page
// (search results, developer pages, clusters) in page order.
func parseAppCards(html []byte) ([]App, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "parse listing page")
	}

	seen := map[string]int{}
	apps := []App{}
	doc.Find(detailsLinkSel).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		appID := appIDFromHref(href)
		if appID == "" {
			return
		}
		card := cardFromLink(appID, link)
		if idx, ok := seen[appID]; ok {
			apps[idx] = mergeCard(apps[idx], card)
			return
		}
		seen[appID] = len(apps)
		apps = append(apps, card)
	})
	return apps, nil
}

func cardFromLink(appID string, link *goquery.Selection) App {
	app := App{
		AppID: appID,
		URL:   appURL(appID),
		Free:  true,
	}
	app.Title = firstNonEmpty(
		strings.TrimSpace(link.AttrOr("aria-label", "")),
		strings.TrimSpace(link.AttrOr("title", "")),
		strings.TrimSpace(link.Find(`[title]`).First().AttrOr("title", "")),
		strings.TrimSpace(link.Find("span").First().Text()),
	)
	if img := link.Find("img").First(); img.Length() > 0 {
		app.Icon = firstNonEmpty(img.AttrOr("src", ""), img.AttrOr("data-src", ""))
	}

	card := cardScope(appID, link)
	if dev := card.Find(developerLinkSel).First(); dev.Length() > 0 {
		app.Developer = strings.TrimSpace(dev.Text())
		app.DeveloperID = developerIDFromLink(dev.AttrOr("href", ""))
	}
	if rated := card.Find(`[aria-label^="Rated"]`).First(); rated.Length() > 0 {
		if score, ok := parseRatingLabel(rated.AttrOr("aria-label", "")); ok {
			app.Score = score
			app.ScoreText = strconv.FormatFloat(score, 'f', 1, 64)
		}
	}
	card.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		text := strings.TrimSpace(span.Text())
		price, ok := parseCardPrice(text)
		if !ok {
			return true
		}
		app.Price = price
		app.PriceText = text
		app.Free = false
		return false
	})
	return app
}

// cardScope widens a details link to its parent when the parent links to
// no other app, so the developer, rating and price beside the link count.
func cardScope(appID string, link *goquery.Selection) *goquery.Selection {
	parent := link.Parent()
	if parent.Length() == 0 {
		return link
	}
	shared := false
	parent.Find(detailsLinkSel).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		shared = appIDFromHref(a.AttrOr("href", "")) != appID
		return !shared
	})
	if shared {
		return link
	}
	return parent
}

// parseRatingLabel reads "Rated 4.4 stars out of five stars".
func parseRatingLabel(label string) (float64, bool) {
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return 0, false
	}
	score, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, false
	}
	return score, true
}

// parseCardPrice accepts a currency-prefixed amount such as "$2.99" or
// "€1,49". Bare numbers are ratings or counts, not prices.
func parseCardPrice(text string) (float64, bool) {
	amount := strings.TrimLeftFunc(text, func(r rune) bool { return !unicode.IsDigit(r) })
	prefix := strings.TrimSpace(strings.TrimSuffix(text, amount))
	if prefix == "" || amount == "" || len([]rune(prefix)) > 3 {
		return 0, false
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", "."), 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

// mergeCard fills gaps when the same app is linked more than once on a page.
func mergeCard(existing, next App) App {
	if existing.Title == "" {
		existing.Title = next.Title
	}
	if existing.Icon == "" {
		existing.Icon = next.Icon
	}
	if existing.Developer == "" {
		existing.Developer, existing.DeveloperID = next.Developer, next.DeveloperID
	}
	if existing.Score == 0 {
		existing.Score, existing.ScoreText = next.Score, next.ScoreText
	}
	if existing.Free && !next.Free {
		existing.Free, existing.Price, existing.PriceText = false, next.Price, next.PriceText
	}
	return existing
}

func appIDFromHref(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("id")
}

func appURL(appID string) string {
	return DefaultBaseURL + detailsPath + "?id=" + url.QueryEscape(appID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// clusterLink returns the first "see more" cluster link on a details page.
func clusterLink(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", eris.Wrap(err, "parse details page")
	}
	href, _ := doc.Find(`a[href*="/store/apps/collection/cluster"]`).First().Attr("href")
	return href, nil
}
