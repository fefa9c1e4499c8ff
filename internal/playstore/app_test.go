package playstore

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppParsesDetailsPage(t *testing.T) {
	t.Parallel()

	var gotQuery atomic.Value
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != detailsPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte(initDataPage(t, map[string]any{"ds:5": detailsBlock("com.sample")}, "")))
	}))

	app, err := client.App(context.Background(), Params{"appId": "com.sample", "lang": "de", "country": "at"})
	require.NoError(t, err)
	query, _ := gotQuery.Load().(string)
	require.Contains(t, query, "id=com.sample")
	require.Contains(t, query, "hl=de")
	require.Contains(t, query, "gl=at")

	require.Equal(t, "com.sample", app.AppID)
	require.Equal(t, "Sample com.sample", app.Title)
	require.Equal(t, "https://play.google.com/store/apps/details?id=com.sample", app.URL)
	require.Equal(t, "Line one\nLine two", app.Description)
	require.Equal(t, 1.99, app.Price)
	require.False(t, app.Free)
	require.Equal(t, "USD", app.Currency)
	require.Equal(t, "$1.99", app.PriceText)
	require.Equal(t, int64(1000000), app.MinInstalls)
	require.Equal(t, map[string]int64{"1": 10, "2": 20, "3": 30, "4": 40, "5": 1900}, app.Histogram)
	require.Equal(t, "Sample Dev", app.DeveloperID)
	require.Equal(t, "8.0", app.AndroidVersion)
	require.Equal(t, []string{"https://img.example/s1.png", "https://img.example/s2.png"}, app.Screenshots)
	require.Equal(t, int64(1700000000000), app.Updated)
	require.NotNil(t, app.OffersIAP)
	require.True(t, *app.OffersIAP)
	require.Equal(t, "2.1.0", app.Version)
}

func TestAppRequiresAppID(t *testing.T) {
	t.Parallel()

	client := New(Config{}, nil)
	_, err := client.App(context.Background(), Params{})
	require.ErrorIs(t, err, ErrInvalidOption)
	require.EqualError(t, err, "appId missing")
}

func TestAppNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.NotFoundHandler())
	_, err := client.App(context.Background(), Params{"appId": "com.missing"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotFound))
	require.Contains(t, err.Error(), "App not found (404)")
}

func TestAppMissingDetailsBlock(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>nothing here</body></html>"))
	}))
	_, err := client.App(context.Background(), Params{"appId": "com.sample"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing from page")
}

func TestAppBlankAndroidVersion(t *testing.T) {
	t.Parallel()

	block := detailsBlock("com.sample")
	block = setIndexPath(block, strings.Split(pathAndroidVersion, "."), " ")
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(initDataPage(t, map[string]any{"ds:5": block}, "")))
	}))

	app, err := client.App(context.Background(), Params{"appId": "com.sample"})
	require.NoError(t, err)
	require.Equal(t, "VARY", app.AndroidVersion)
}

func TestNormalizeAndroidVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                   "VARY",
		" ":                  "VARY",
		"\t\n":               "VARY",
		"Varies with device": "VARY",
		"5.0 and up":         "5.0",
	}
	for in, want := range tests {
		if got := normalizeAndroidVersion(in); got != want {
			t.Fatalf("normalizeAndroidVersion(%q) = %q, want %q", in, got, want)
		}
	}
}
