package http_request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHttpRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "token", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`{"items":["AAPL"]}`))
	}))
	t.Cleanup(srv.Close)

	h := handlers.New()
	(&Module{Client: srv.Client()}).Register(h)
	reg, ok := h.Get("http_request")
	require.True(t, ok)

	res, err := reg.Fn(context.Background(), &handlers.Call{Input: &Input{
		URL:    srv.URL + "/portfolio",
		Header: map[string]string{"X-Api-Key": "token"},
	}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status_code": 200, "body": `{"items":["AAPL"]}`}, res.Value)
	assert.Equal(t, 18, res.Units)

	_, err = reg.Fn(context.Background(), &handlers.Call{Input: &Input{URL: srv.URL + "/missing"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
