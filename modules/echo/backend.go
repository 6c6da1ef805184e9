// Package echo provides a resource backend that stands in for a real model
// runtime. Its instances answer prompts by echoing them, which keeps
// pipelines runnable without hardware.
package echo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/resource"
)

// Name is the backend name registry entries use to select this backend.
const Name = "echo"

// ErrReleased is returned by Generate after the instance was released.
var ErrReleased = errors.New("echo model already released")

// Backend loads echo models.
type Backend struct {
	// LoadDelay simulates the time it takes to make a model resident.
	LoadDelay time.Duration
}

var _ resource.Loader = Backend{}

// Load implements resource.Loader.
func (b Backend) Load(ctx context.Context, entry resource.Entry, strategy resource.Strategy) (resource.Instance, error) {
	if b.LoadDelay > 0 {
		select {
		case <-time.After(b.LoadDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	ctxlog.FromContext(ctx).Debug("Echo model loaded.", "resource", entry.Name, "path", entry.Path, "strategy", strategy)
	return &Model{entry: entry, strategy: strategy}, nil
}

// Register adds the backend to b under Name and as the default.
func Register(b resource.Backends, backend Backend) {
	b.Register(Name, backend)
	if _, ok := b[""]; !ok {
		b.Register("", backend)
	}
}

// Model is a resident echo model.
type Model struct {
	entry    resource.Entry
	strategy resource.Strategy
	released atomic.Bool
}

var (
	_ resource.Instance  = (*Model)(nil)
	_ resource.Generator = (*Model)(nil)
)

// Generate implements resource.Generator. The reply is the prompt prefixed
// with the model name; units counts its words. A numeric "max_tokens"
// parameter caps the reply length in words.
func (m *Model) Generate(ctx context.Context, prompt string, params map[string]any) (string, int, error) {
	if m.released.Load() {
		return "", 0, ErrReleased
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	kind := "text"
	if m.entry.IsVision() {
		kind = "vision"
	}
	words := strings.Fields(fmt.Sprintf("[%s %s %s] %s", m.entry.Name, kind, m.strategy, prompt))
	if limit, ok := maxTokens(params); ok && limit < len(words) {
		words = words[:limit]
	}
	return strings.Join(words, " "), len(words), nil
}

// Release implements resource.Instance.
func (m *Model) Release(context.Context) error {
	if m.released.Swap(true) {
		return ErrReleased
	}
	return nil
}

func maxTokens(params map[string]any) (int, bool) {
	switch v := params["max_tokens"].(type) {
	case int:
		return v, v > 0
	case float64:
		return int(v), v > 0
	default:
		return 0, false
	}
}
