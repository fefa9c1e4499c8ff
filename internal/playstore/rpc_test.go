package playstore

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeBatch(t *testing.T) {
	t.Parallel()

	body, err := encodeBatchBody(rpcSuggest, `[[null,["pan"],[10],[2],4]]`)
	require.NoError(t, err)
	require.Contains(t, string(body), "f.req=")

	payload, err := decodeBatchResponse(rpcSuggest, []byte(batchResponse(t, rpcSuggest, []any{"ok"})))
	require.NoError(t, err)
	require.Equal(t, "ok", payload.Get("0").String())

	empty, err := decodeBatchResponse(rpcReviews, []byte(batchResponse(t, rpcSuggest, []any{"ok"})))
	require.NoError(t, err)
	require.False(t, empty.Exists())

	_, err = decodeBatchResponse(rpcSuggest, []byte(")]}'\n\nnot json"))
	require.Error(t, err)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Query().Get("rpcids") != rpcSuggest {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.RawQuery)
		}
		rpc, inner := batchInner(t, r)
		if rpc != rpcSuggest || inner[0].([]any)[1].([]any)[0] != "pan" {
			t.Errorf("unexpected inner request %v", inner)
		}
		payload := nested(map[string]any{"0.0": []any{[]any{"panda"}, []any{"pandora"}}})
		_, _ = w.Write([]byte(batchResponse(t, rpcSuggest, payload)))
	}))

	got, err := client.Suggest(context.Background(), Params{"term": "pan"})
	require.NoError(t, err)
	require.Equal(t, []string{"panda", "pandora"}, got)

	_, err = client.Suggest(context.Background(), Params{"term": " "})
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestList(t *testing.T) {
	t.Parallel()

	entry := nested(map[string]any{
		"0.0.0":     "com.top",
		"0.3":       "Top App",
		"0.1.3.2":   "https://img.example/top.png",
		"0.14":      "Top Dev",
		"0.8.1.0.0": 0,
		"0.8.1.0.1": "USD",
		"0.13.1":    "Best app",
		"0.4.0":     "4.8",
		"0.4.1":     4.81,
		"0.10.4.2":  "/store/apps/details?id=com.top",
	})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, inner := batchInner(t, r)
		chart := inner[0].([]any)[9].([]any)
		if chart[1] != "TOP_PAID" || chart[2] != "GAME" {
			t.Errorf("unexpected chart %v", chart)
		}
		payload := nested(map[string]any{"0.1.0.28.0": []any{entry}})
		_, _ = w.Write([]byte(batchResponse(t, rpcList, payload)))
	}))

	apps, err := client.List(context.Background(), Params{"collection": "top_paid", "category": "GAME", "num": 5})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, "com.top", apps[0].AppID)
	require.Equal(t, "Top App", apps[0].Title)
	require.True(t, apps[0].Free)
	require.Equal(t, 4.81, apps[0].Score)
	require.Equal(t, "https://play.google.com/store/apps/details?id=com.top", apps[0].URL)
}

func TestListValidatesOptions(t *testing.T) {
	t.Parallel()

	client := New(Config{}, nil)
	_, err := client.List(context.Background(), Params{"collection": "NEWEST"})
	require.ErrorIs(t, err, ErrInvalidOption)
	_, err = client.List(context.Background(), Params{"category": "NOPE"})
	require.ErrorIs(t, err, ErrInvalidOption)
	_, err = client.List(context.Background(), Params{"num": 501})
	require.ErrorIs(t, err, ErrInvalidOption)
}

func reviewEntry(id string, score int) []any {
	return nested(map[string]any{
		"0":       id,
		"1.0":     "User " + id,
		"1.1.3.2": "https://img.example/u.png",
		"2":       score,
		"4":       "Great",
		"5.0":     1700000000,
		"6":       3,
		"10":      "1.0.0",
	})
}

func TestReviewsLoopsUntilNum(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		_, inner := batchInner(t, r)
		page := inner[2].([]any)[2].([]any)
		var payload []any
		if n == 1 {
			if page[2] != nil {
				t.Errorf("first page should carry no token, got %v", page[2])
			}
			payload = []any{[]any{reviewEntry("r1", 5), reviewEntry("r2", 4)}, []any{nil, "tok-2"}}
		} else {
			if page[2] != "tok-2" {
				t.Errorf("expected continuation token, got %v", page[2])
			}
			payload = []any{[]any{reviewEntry("r3", 3), reviewEntry("r4", 2)}, []any{nil, "tok-3"}}
		}
		_, _ = w.Write([]byte(batchResponse(t, rpcReviews, payload)))
	}))

	got, err := client.Reviews(context.Background(), Params{"appId": "com.sample", "num": 3, "sort": "RATING"})
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())
	require.Len(t, got.Data, 3)
	require.Equal(t, "r1", got.Data[0].ID)
	require.Equal(t, "5", got.Data[0].ScoreText)
	require.Equal(t, "2023-11-14T22:13:20Z", got.Data[0].Date)
	require.Equal(t, "https://play.google.com/store/apps/details?id=com.sample&reviewId=r1", got.Data[0].URL)
	require.NotNil(t, got.Data[0].Version)
	require.Nil(t, got.Data[0].ReplyText)
	require.NotNil(t, got.NextPaginationToken)
	require.Equal(t, "tok-3", *got.NextPaginationToken)
}

func TestReviewsPaginateReturnsOnePage(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		payload := []any{[]any{reviewEntry("r1", 5)}, []any{nil, "tok-2"}}
		_, _ = w.Write([]byte(batchResponse(t, rpcReviews, payload)))
	}))

	got, err := client.Reviews(context.Background(), Params{"appId": "com.sample", "paginate": "true", "nextPaginationToken": "tok-1"})
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())
	require.Len(t, got.Data, 1)
	require.Equal(t, "tok-2", *got.NextPaginationToken)
}

func TestReviewsValidatesOptions(t *testing.T) {
	t.Parallel()

	client := New(Config{}, nil)
	_, err := client.Reviews(context.Background(), Params{})
	require.EqualError(t, err, "appId missing")
	_, err = client.Reviews(context.Background(), Params{"appId": "x", "sort": "LOUDEST"})
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestParseReviewSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"", 2, true},
		{"newest", 2, true},
		{"HELPFULNESS", 1, true},
		{"3", 3, true},
		{"9", 0, false},
		{"LOUDEST", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseReviewSort(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("parseReviewSort(%q) = %d,%v want %d,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func permissionsPayload() []any {
	return []any{
		[]any{
			[]any{"Location", nil, []any{[]any{nil, "precise location"}, []any{nil, "approximate location"}}},
		},
		[]any{
			[]any{"Other", nil, []any{[]any{nil, "full network access"}, []any{nil, "precise location"}}},
		},
	}
}

func TestPermissions(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rpc, inner := batchInner(t, r)
		if rpc != rpcPermissions || inner[0].([]any)[1].([]any)[0] != "com.sample" {
			t.Errorf("unexpected request %s %v", rpc, inner)
		}
		_, _ = w.Write([]byte(batchResponse(t, rpcPermissions, permissionsPayload())))
	}))

	full, err := client.Permissions(context.Background(), Params{"appId": "com.sample"})
	require.NoError(t, err)
	perms, ok := full.([]Permission)
	require.True(t, ok)
	require.Len(t, perms, 4)
	require.Equal(t, Permission{Permission: "precise location", Type: "Location"}, perms[0])

	short, err := client.Permissions(context.Background(), Params{"appId": "com.sample", "short": true})
	require.NoError(t, err)
	require.Equal(t, []string{"precise location", "approximate location", "full network access"}, short)
}

func TestPermissionsEmptyPayload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(batchResponse(t, rpcSuggest, []any{})))
	}))

	got, err := client.Permissions(context.Background(), Params{"appId": "com.sample"})
	require.NoError(t, err)
	require.Equal(t, []Permission{}, got)
}

func TestDataSafety(t *testing.T) {
	t.Parallel()

	block := nested(map[string]any{
		"1.2.137.4.0.0": []any{
			nested(map[string]any{"0.1": "Location", "4": []any{[]any{"Approximate location", true, "Analytics"}}}),
		},
		"1.2.137.4.1.0": []any{
			nested(map[string]any{"0.1": "Personal info", "4": []any{[]any{"Email address", false, "Account management"}, []any{"Name", true, "Personalization"}}}),
		},
		"1.2.137.9.2": []any{
			nested(map[string]any{"1": "Data is encrypted in transit", "2.1": "Your data is transferred over a secure connection"}),
		},
		"1.2.99.0.5.2": "https://example.com/privacy",
	})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != dataSafetyPath || r.URL.Query().Get("id") != "com.sample" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(initDataPage(t, map[string]any{"ds:3": block}, "")))
	}))

	got, err := client.DataSafety(context.Background(), Params{"appId": "com.sample"})
	require.NoError(t, err)
	require.Equal(t, []DataEntry{{Data: "Approximate location", Optional: true, Purpose: "Analytics", Type: "Location"}}, got.SharedData)
	require.Len(t, got.CollectedData, 2)
	require.Equal(t, "Personal info", got.CollectedData[1].Type)
	require.Equal(t, "Data is encrypted in transit", got.SecurityPractices[0].Practice)
	require.Equal(t, "https://example.com/privacy", got.PrivacyPolicyURL)
}
