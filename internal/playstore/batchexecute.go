package playstore

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
)

const batchExecutePath = "/_/PlayStoreUi/data/batchexecute"

// RPC identifiers understood by the batchexecute endpoint.
const (
	rpcSuggest     = "IJ4APc"
	rpcReviews     = "UsvDTd"
	rpcPermissions = "xdSrCf"
	rpcList        = "vyAe2"
)

var batchRequestID atomic.Int64

func init() {
	batchRequestID.Store(100000)
}

// encodeBatchBody wraps one RPC call in the f.req envelope. inner must already
// be valid JSON; the endpoint expects it as a string inside the envelope.
func encodeBatchBody(rpcID, inner string) ([]byte, error) {
	envelope := [][][]any{{{rpcID, inner, nil, "generic"}}}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return nil, eris.Wrap(err, "encode batchexecute envelope")
	}
	return []byte("f.req=" + url.QueryEscape(string(raw))), nil
}

// decodeBatchResponse extracts the payload of rpcID from a batchexecute
// response. A missing or null payload yields an empty result, not an error.
func decodeBatchResponse(rpcID string, body []byte) (gjson.Result, error) {
	// Responses open with the )]}' anti-hijacking prefix line.
	if idx := bytes.IndexByte(body, '\n'); idx >= 0 && bytes.HasPrefix(body, []byte(")]}'")) {
		body = body[idx+1:]
	}
	body = bytes.TrimSpace(body)
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, eris.New("malformed batchexecute response")
	}

	var payload gjson.Result
	gjson.ParseBytes(body).ForEach(func(_, entry gjson.Result) bool {
		if entry.Get("0").String() == "wrb.fr" && entry.Get("1").String() == rpcID {
			payload = entry.Get("2")
			return false
		}
		return true
	})
	if payload.Type != gjson.String {
		return gjson.Result{}, nil
	}
	if !gjson.Valid(payload.Str) {
		return gjson.Result{}, eris.Errorf("malformed %s payload", rpcID)
	}
	return gjson.Parse(payload.Str), nil
}

// batchExecute posts a single RPC and returns its decoded payload.
func (c *Client) batchExecute(ctx context.Context, rpcID, inner string, locale Locale) (gjson.Result, error) {
	body, err := encodeBatchBody(rpcID, inner)
	if err != nil {
		return gjson.Result{}, err
	}

	q := localeQuery(locale)
	q.Set("rpcids", rpcID)
	q.Set("authuser", "")
	q.Set("soc-app", "121")
	q.Set("soc-platform", "1")
	q.Set("soc-device", "1")
	q.Set("_reqid", strconv.FormatInt(batchRequestID.Add(1), 10))

	resp, err := c.fetch(ctx, upstreamRequest{
		method: http.MethodPost,
		path:   batchExecutePath,
		query:  q,
		body:   body,
		kind:   kindBatch,
	})
	if err != nil {
		return gjson.Result{}, err
	}
	return decodeBatchResponse(rpcID, resp.body)
}

// mustJSON marshals values the package builds itself; they are always encodable.
func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(raw)
}
