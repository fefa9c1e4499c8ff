package playstore

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	defaultListNum = 500
	maxListNum     = 500
)

// ListOptions selects a top chart.
type ListOptions struct {
	Locale     `mapstructure:",squash"`
	Collection string `mapstructure:"collection"`
	Category   string `mapstructure:"category"`
	Num        int    `mapstructure:"num"`
	FullDetail bool   `mapstructure:"fullDetail"`
}

// List returns the apps of a top chart (collection x category).
func (c *Client) List(ctx context.Context, params Params) ([]App, error) {
	opts := ListOptions{Collection: "TOP_FREE", Category: "APPLICATION", Num: defaultListNum}
	if err := c.decodeOptions(params, &opts); err != nil {
		return nil, err
	}
	opts.Collection = strings.ToUpper(opts.Collection)
	opts.Category = strings.ToUpper(opts.Category)
	if !collections[opts.Collection] {
		return nil, invalidOption("Invalid collection %s", opts.Collection)
	}
	if !categories[opts.Category] {
		return nil, invalidOption("Invalid category %s", opts.Category)
	}
	if opts.Num <= 0 {
		return nil, invalidOption("num must be a positive number")
	}
	if opts.Num > maxListNum {
		return nil, invalidOption("Cannot retrieve more than %d apps", maxListNum)
	}
	locale := c.locale(opts.Locale)

	payload, err := c.batchExecute(ctx, rpcList, listRequest(opts.Collection, opts.Category, opts.Num), locale)
	if err != nil {
		return nil, err
	}
	return c.finishCollection(ctx, parseListPayload(payload), opts.Num, opts.FullDetail, locale)
}

// listRequest is the vyAe2 query for one chart page of num entries.
func listRequest(collection, category string, num int) string {
	fields := []int{96, 108, 72, 100, 27, 177, 183, 222, 8, 57, 169, 110, 11, 184, 16, 1, 139, 152, 194, 165, 92, 52, 149, 164, 14}
	return mustJSON([]any{
		[]any{
			nil,
			[]any{[]any{8, []any{20, num}}, true, nil, fields},
			nil, nil, nil, nil, nil, nil, nil,
			[]any{2, collection, category},
		},
	})
}

func parseListPayload(payload gjson.Result) []App {
	apps := []App{}
	payload.Get("0.1.0.28.0").ForEach(func(_, item gjson.Result) bool {
		entry := item.Get("0")
		appID := entry.Get("0.0").String()
		if appID == "" {
			return true
		}
		priceMicros := entry.Get("8.1.0.0").Float()
		apps = append(apps, App{
			AppID:     appID,
			Title:     entry.Get("3").String(),
			URL:       firstNonEmpty(absoluteURL(entry.Get("10.4.2").String()), appURL(appID)),
			Icon:      entry.Get("1.3.2").String(),
			Developer: entry.Get("14").String(),
			Currency:  entry.Get("8.1.0.1").String(),
			Price:     priceMicros / 1e6,
			Free:      priceMicros == 0,
			Summary:   entry.Get("13.1").String(),
			ScoreText: entry.Get("4.0").String(),
			Score:     entry.Get("4.1").Float(),
		})
		return true
	})
	return apps
}
