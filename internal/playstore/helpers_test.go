package playstore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

// nested builds a sparse JSON array tree from dotted index paths, mirroring
// the positional payloads Google Play embeds in its pages.
func nested(values map[string]any) []any {
	root := []any{}
	for path, v := range values {
		root = setIndexPath(root, strings.Split(path, "."), v)
	}
	return root
}

func setIndexPath(node []any, parts []string, v any) []any {
	idx, err := strconv.Atoi(parts[0])
	if err != nil {
		panic(fmt.Sprintf("bad index %q", parts[0]))
	}
	for len(node) <= idx {
		node = append(node, nil)
	}
	if len(parts) == 1 {
		node[idx] = v
		return node
	}
	child, _ := node[idx].([]any)
	node[idx] = setIndexPath(child, parts[1:], v)
	return node
}

// initDataPage renders an HTML page carrying one AF_initDataCallback block per key.
func initDataPage(t *testing.T, blocks map[string]any, extraHTML string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("<html><head>")
	for key, data := range blocks {
		raw, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal %s: %v", key, err)
		}
		fmt.Fprintf(&b, "<script nonce=\"n\">AF_initDataCallback({key: '%s', hash: '1', data:%s, sideChannel: {}});</script>", key, raw)
	}
	b.WriteString("</head><body>")
	b.WriteString(extraHTML)
	b.WriteString("</body></html>")
	return b.String()
}

// batchResponse renders a batchexecute reply whose rpcID entry carries payload.
func batchResponse(t *testing.T, rpcID string, payload any) string {
	t.Helper()
	inner, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	outer, err := json.Marshal([]any{
		[]any{"wrb.fr", rpcID, string(inner), nil, nil, nil, "generic"},
		[]any{"di", 42},
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return ")]}'\n\n" + string(outer)
}

// batchInner decodes the inner RPC request from a batchexecute POST.
func batchInner(t *testing.T, r *http.Request) (string, []any) {
	t.Helper()
	if err := r.ParseForm(); err != nil {
		t.Errorf("parse form: %v", err)
		return "", nil
	}
	var envelope [][][]any
	if err := json.Unmarshal([]byte(r.PostForm.Get("f.req")), &envelope); err != nil {
		t.Errorf("decode f.req: %v", err)
		return "", nil
	}
	call := envelope[0][0]
	var inner []any
	if err := json.Unmarshal([]byte(call[1].(string)), &inner); err != nil {
		t.Errorf("decode inner: %v", err)
	}
	return call[0].(string), inner
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
}

func detailsBlock(appID string) []any {
	return nested(map[string]any{
		"1.2.0.0":              "Sample " + appID,
		"1.2.72.0.1":           "Line one<br>Line <b>two</b>",
		"1.2.73.0.1":           "A short summary",
		"1.2.13.0":             "1,000,000+",
		"1.2.13.1":             1000000,
		"1.2.13.2":             1534567,
		"1.2.51.0.0":           "4.5",
		"1.2.51.0.1":           4.53,
		"1.2.51.2.1":           2000,
		"1.2.51.3.1":           800,
		"1.2.51.1":             []any{nil, []any{nil, 10}, []any{nil, 20}, []any{nil, 30}, []any{nil, 40}, []any{nil, 1900}},
		"1.2.57.0.0.0.0.1.0.0": 1990000,
		"1.2.57.0.0.0.0.1.0.1": "USD",
		"1.2.57.0.0.0.0.1.0.2": "$1.99",
		"1.2.18.0":             true,
		"1.2.19.0":             "$0.99 - $9.99 per item",
		"1.2.140.1.1.0.0.1":    "8.0 and up",
		"1.2.68.0":             "Sample Dev",
		"1.2.68.1.4.2":         "/store/apps/developer?id=Sample+Dev",
		"1.2.69.1.0":           "dev@example.com",
		"1.2.69.0.5.2":         "https://example.com",
		"1.2.69.2.0":           "1 Main St",
		"1.2.99.0.5.2":         "https://example.com/privacy",
		"1.2.79.0.0.0":         "Tools",
		"1.2.79.0.0.2":         "TOOLS",
		"1.2.95.0.3.2":         "https://img.example/icon.png",
		"1.2.96.0.3.2":         "https://img.example/header.png",
		"1.2.78.0":             []any{nested(map[string]any{"3.2": "https://img.example/s1.png"}), nested(map[string]any{"3.2": "https://img.example/s2.png"})},
		"1.2.9.0":              "Everyone",
		"1.2.48":               true,
		"1.2.10.0":             "Jan 2, 2020",
		"1.2.145.0.1.0":        1700000000,
		"1.2.140.0.0.0":        "2.1.0",
		"1.2.144.1.1":          "Bug fixes",
	})
}
