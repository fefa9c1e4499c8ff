package playstore

import (
	"context"
	"errors"
	"net/http"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
)

const (
	dataSafetyPath = "/store/apps/datasafety"
	dataSafetyKey  = "ds:3"
)

// DataSafetyOptions selects an app.
type DataSafetyOptions struct {
	Locale `mapstructure:",squash"`
	AppID  string `mapstructure:"appId"`
}

// DataSafety returns the data-safety declarations of an app.
func (c *Client) DataSafety(ctx context.Context, params Params) (*DataSafety, error) {
	var opts DataSafetyOptions
	if err := c.decodeOptions(params, &opts); err != nil {
		return nil, err
	}
	if opts.AppID == "" {
		return nil, invalidOption("appId missing")
	}

	q := localeQuery(c.locale(opts.Locale))
	q.Del("gl")
	q.Set("id", opts.AppID)
	resp, err := c.fetch(ctx, upstreamRequest{method: http.MethodGet, path: dataSafetyPath, query: q, kind: kindPage})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, eris.Wrap(err, "App not found (404)")
		}
		return nil, err
	}

	data := parseScriptData(resp.body)
	if !data.has(dataSafetyKey) {
		return nil, eris.Errorf("data safety for %s missing from page", opts.AppID)
	}
	return &DataSafety{
		SharedData:        dataEntries(data.get(dataSafetyKey, "1.2.137.4.0.0")),
		CollectedData:     dataEntries(data.get(dataSafetyKey, "1.2.137.4.1.0")),
		SecurityPractices: securityPractices(data.get(dataSafetyKey, "1.2.137.9.2")),
		PrivacyPolicyURL:  data.get(dataSafetyKey, pathPrivacyPolicy).String(),
	}, nil
}

// dataEntries flattens [category, ..., details] groups into one entry per
// detail, tagging each with its category name.
func dataEntries(raw gjson.Result) []DataEntry {
	entries := []DataEntry{}
	raw.ForEach(func(_, group gjson.Result) bool {
		kind := group.Get("0.1").String()
		group.Get("4").ForEach(func(_, detail gjson.Result) bool {
			entries = append(entries, DataEntry{
				Data:     detail.Get("0").String(),
				Optional: detail.Get("1").Bool(),
				Purpose:  detail.Get("2").String(),
				Type:     kind,
			})
			return true
		})
		return true
	})
	return entries
}

func securityPractices(raw gjson.Result) []SecurityPractice {
	practices := []SecurityPractice{}
	raw.ForEach(func(_, item gjson.Result) bool {
		practices = append(practices, SecurityPractice{
			Practice:    item.Get("1").String(),
			Description: item.Get("2.1").String(),
		})
		return true
	})
	return practices
}
