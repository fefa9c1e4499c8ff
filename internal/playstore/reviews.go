package playstore

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultReviewsNum = 150
	reviewsPageSize   = 150
)

// ReviewsOptions selects which reviews to fetch.
type ReviewsOptions struct {
	Locale              `mapstructure:",squash"`
	AppID               string `mapstructure:"appId"`
	Sort                string `mapstructure:"sort"`
	Num                 int    `mapstructure:"num"`
	Paginate            bool   `mapstructure:"paginate"`
	NextPaginationToken string `mapstructure:"nextPaginationToken"`
}

// Reviews fetches reviews for an app. Without paginate it keeps requesting
// pages until num reviews are collected or the upstream runs out; with
// paginate it returns a single page and its continuation token.
func (c *Client) Reviews(ctx context.Context, params Params) (*Reviews, error) {
	opts := ReviewsOptions{Num: defaultReviewsNum}
	if err := c.decodeOptions(params, &opts); err != nil {
		return nil, err
	}
	if opts.AppID == "" {
		return nil, invalidOption("appId missing")
	}
	sort, ok := parseReviewSort(opts.Sort)
	if !ok {
		return nil, invalidOption("Invalid sort %s", opts.Sort)
	}
	if opts.Num <= 0 {
		opts.Num = defaultReviewsNum
	}
	locale := c.locale(opts.Locale)

	out := &Reviews{Data: []Review{}}
	token := opts.NextPaginationToken
	for {
		pageSize := min(opts.Num-len(out.Data), reviewsPageSize)
		if opts.Paginate {
			pageSize = min(opts.Num, reviewsPageSize)
		}
		payload, err := c.batchExecute(ctx, rpcReviews, reviewsRequest(opts.AppID, sort, pageSize, token), locale)
		if err != nil {
			return nil, err
		}
		page := parseReviews(opts.AppID, payload.Get("0"))
		out.Data = append(out.Data, page...)
		token = payload.Get("1.1").String()

		if opts.Paginate || token == "" || len(page) == 0 || len(out.Data) >= opts.Num {
			break
		}
	}

	if !opts.Paginate && len(out.Data) > opts.Num {
		out.Data = out.Data[:opts.Num]
	}
	if token != "" {
		out.NextPaginationToken = &token
	}
	return out, nil
}

func reviewsRequest(appID string, sort, num int, token string) string {
	page := []any{num, nil, nil}
	if token != "" {
		page[2] = token
	}
	return mustJSON([]any{
		nil, nil,
		[]any{2, sort, page, nil, []any{}},
		[]any{appID, 7},
	})
}

func parseReviews(appID string, entries gjson.Result) []Review {
	var reviews []Review
	entries.ForEach(func(_, entry gjson.Result) bool {
		id := entry.Get("0").String()
		if id == "" {
			return true
		}
		score := entry.Get("2").Int()
		reviews = append(reviews, Review{
			ID:        id,
			UserName:  entry.Get("1.0").String(),
			UserImage: entry.Get("1.1.3.2").String(),
			Date:      isoTimestamp(entry.Get("5.0")),
			Score:     score,
			ScoreText: strconv.FormatInt(score, 10),
			URL:       appURL(appID) + "&reviewId=" + url.QueryEscape(id),
			Text:      entry.Get("4").String(),
			ReplyDate: optionalString(isoTimestamp(entry.Get("7.2.0"))),
			ReplyText: optionalString(entry.Get("7.1").String()),
			Version:   optionalString(entry.Get("10").String()),
			ThumbsUp:  entry.Get("6").Int(),
			Criterias: parseCriteria(entry.Get("12.0")),
		})
		return true
	})
	return reviews
}

func parseCriteria(raw gjson.Result) []Criterion {
	criteria := []Criterion{}
	raw.ForEach(func(_, item gjson.Result) bool {
		c := Criterion{Criteria: item.Get("0").String()}
		if rating := item.Get("1.0"); rating.Exists() && rating.Type != gjson.Null {
			v := rating.Int()
			c.Rating = &v
		}
		criteria = append(criteria, c)
		return true
	})
	return criteria
}

// isoTimestamp renders a unix-seconds value as RFC 3339 in UTC.
func isoTimestamp(seconds gjson.Result) string {
	if !seconds.Exists() || seconds.Type == gjson.Null {
		return ""
	}
	return time.Unix(seconds.Int(), 0).UTC().Format(time.RFC3339)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
