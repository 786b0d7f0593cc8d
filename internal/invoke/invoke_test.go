package invoke_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/suggest/internal/invoke"
	"github.com/jpl-au/suggest/internal/store"
	"github.com/jpl-au/suggest/internal/store/storetest"
	"github.com/jpl-au/suggest/internal/suggest"
)

func newHandler(t *testing.T) *invoke.Handler {
	t.Helper()
	idx := storetest.Open(t, []storetest.Item{
		{Name: "apple pie", State: "CA", QRank: 50, Popular: true},
		{Name: "apple tart", State: "OR", QRank: 80, Popular: true},
	})
	return invoke.New(suggest.New(idx, suggest.DefaultOptions()), "test:invoke")
}

func TestInvoke(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	t.Run("hits", func(t *testing.T) {
		resp, err := h.Invoke(ctx, invoke.Request{QueryStringParameters: map[string]string{"q": "apple"}})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Headers["Content-Type"])

		var items []map[string]any
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &items))
		require.Len(t, items, 2)
		assert.Equal(t, "apple tart", items[0]["name"])
		assert.Equal(t, "OR", items[0]["state"])
		assert.Equal(t, float64(80), items[0]["qrank"])
		assert.Equal(t, "apple pie", items[1]["name"])
	})

	t.Run("absent q is empty string", func(t *testing.T) {
		resp, err := h.Invoke(ctx, invoke.Request{})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "[]", resp.Body)
	})

	t.Run("no hits is empty array", func(t *testing.T) {
		resp, err := h.Invoke(ctx, invoke.Request{QueryStringParameters: map[string]string{"q": "zebra"}})
		require.NoError(t, err)
		assert.Equal(t, "[]", resp.Body)
	})

	t.Run("invalid query propagates", func(t *testing.T) {
		_, err := h.Invoke(ctx, invoke.Request{QueryStringParameters: map[string]string{"q": `apple "pie`}})
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrInvalidQuery)
	})
}

func TestDecodeEvent(t *testing.T) {
	req, err := invoke.DecodeEvent(strings.NewReader(`{"rawPath":"/","queryStringParameters":{"q":"apple pie"}}`))
	require.NoError(t, err)
	assert.Equal(t, "apple pie", req.Query())

	req, err = invoke.DecodeEvent(strings.NewReader(`{"queryStringParameters":null}`))
	require.NoError(t, err)
	assert.Equal(t, "", req.Query())

	_, err = invoke.DecodeEvent(strings.NewReader(`{not json`))
	assert.Error(t, err)
}

func TestEncodeResponse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, invoke.EncodeResponse(&buf, invoke.Response{StatusCode: 200, Body: "[]"}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(200), got["statusCode"])
	assert.Equal(t, "[]", got["body"])
	assert.NotContains(t, got, "headers")
}
