package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jpl-au/suggest/internal/store"
	"github.com/jpl-au/suggest/internal/store/storetest"
	"github.com/jpl-au/suggest/internal/suggest"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	idx := storetest.Open(t, []storetest.Item{
		{Name: "apple pie", QRank: 50, Popular: true},
		{Name: "apple tart", QRank: 80, Popular: true},
	})
	s := NewServer(suggest.New(idx, suggest.DefaultOptions()), zap.NewNop(), opts)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&buf))
	return resp, buf
}

func TestSuggest(t *testing.T) {
	ts := newTestServer(t, Options{})

	for _, path := range []string{"/", "/suggest"} {
		t.Run(path, func(t *testing.T) {
			resp, body := get(t, ts.URL+path+"?q=apple")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

			var items []map[string]any
			require.NoError(t, json.Unmarshal(body, &items))
			require.Len(t, items, 2)
			assert.Equal(t, "apple tart", items[0]["name"])
			assert.Equal(t, "apple pie", items[1]["name"])
		})
	}
}

func TestSuggest_MissingQuery(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestSuggest_InvalidQuery(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := get(t, ts.URL+`/?q=apple%20%22pie`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e map[string]string
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "invalid_query", e["code"])
}

func TestSuggest_AllowOrigin(t *testing.T) {
	ts := newTestServer(t, Options{AllowOrigin: "*"})

	resp, _ := get(t, ts.URL+"/?q=apple")
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

type failingResolver struct{ err error }

func (f failingResolver) ResolveDetail(context.Context, string) (suggest.Resolution, error) {
	return suggest.Resolution{}, f.err
}

func TestSuggest_IndexUnavailable(t *testing.T) {
	s := NewServer(failingResolver{fmt.Errorf("%w: gone", store.ErrIndexUnavailable)}, zap.NewNop(), Options{})
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, body := get(t, ts.URL+"/?q=apple")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "index_unavailable")
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	// Generate a lookup so the counter has a sample.
	get(t, ts.URL+"/?q=apple")

	mresp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	assert.Equal(t, http.StatusOK, mresp.StatusCode)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	idx := storetest.Open(t, nil)
	s := NewServer(suggest.New(idx, suggest.DefaultOptions()), zap.NewNop(), Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
