// Package http_request provides the `http_request` transform, which fetches
// a URL and stores the response in state.
package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/specialistvlad/slotgraph/internal/node"
)

// Module implements the handlers.Module interface for this package.
type Module struct {
	// Client is shared by every request. Nil means a client with a 30s timeout.
	Client *http.Client
}

// Input defines the arguments for the transform.
type Input struct {
	URL    string            `cty:"url"`
	Method string            `cty:"method,optional"`
	Header map[string]string `cty:"header,optional"`
}

func (m *Module) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// run is the handler for the 'http_request' transform. Units is the number
// of body bytes received.
func (m *Module) run(ctx context.Context, call *handlers.Call) (node.Result, error) {
	input := call.Input.(*Input)
	method := input.Method
	if method == "" {
		method = http.MethodGet
	}
	logger := ctxlog.FromContext(ctx)
	logger.Info("Making HTTP request", "method", method, "url", input.URL)

	req, err := http.NewRequestWithContext(ctx, method, input.URL, nil)
	if err != nil {
		return node.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range input.Header {
		req.Header.Set(k, v)
	}

	resp, err := m.client().Do(req)
	if err != nil {
		return node.Result{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return node.Result{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return node.Result{}, fmt.Errorf("%s %s: unexpected status %s", method, input.URL, resp.Status)
	}

	return node.Result{
		Value: map[string]any{
			"status_code": resp.StatusCode,
			"body":        string(bodyBytes),
		},
		Units: len(bodyBytes),
	}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("http_request", &handlers.RegisteredHandler{
		NewInput: func() any { return new(Input) },
		Fn:       m.run,
	})
}
