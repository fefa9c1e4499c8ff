package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/gplay-api/internal/config"
)

func testConfig(t *testing.T, upstream string) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Scraper.BaseURL = upstream
	cfg.Server.ShutdownTimeoutSeconds = 2
	return cfg
}

func TestBuildWiresHandler(t *testing.T) {
	t.Parallel()

	app, err := Build(testConfig(t, "http://127.0.0.1:1"), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, app.Dispatcher())

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body["methods"], 10)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<a href="/store/apps/category/TOOLS">Tools</a>`))
	}))
	t.Cleanup(upstream.Close)

	app, err := Build(testConfig(t, upstream.URL), zap.NewNop())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()

	resp, err := http.Post(fmt.Sprintf("http://%s/categories", ln.Addr()), "application/json", nil)
	require.NoError(t, err)
	var categories []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	require.NoError(t, resp.Body.Close())
	require.Equal(t, []string{"TOOLS"}, categories)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}
