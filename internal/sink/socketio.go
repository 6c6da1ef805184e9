package sink

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	defaultEvent          = "run_finished"
	defaultConnectTimeout = 15 * time.Second
)

// SocketIOConfig configures the socket.io publisher.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// SocketIO emits one event per run. The connection is opened on the first
// export and kept until Close.
type SocketIO struct {
	cfg SocketIOConfig

	mu     sync.Mutex
	client *socket.Socket
}

// NewSocketIO validates cfg and returns an unconnected publisher.
func NewSocketIO(cfg SocketIOConfig) (*SocketIO, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("socket.io URL %q needs a scheme and host", cfg.URL)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "/"
	}
	if cfg.Event == "" {
		cfg.Event = defaultEvent
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	return &SocketIO{cfg: cfg}, nil
}

// Export implements Sink.
func (s *SocketIO) Export(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil || !s.client.Connected() {
		client, err := s.connect(ctx)
		if err != nil {
			return err
		}
		s.client = client
	}

	if err := s.client.Emit(s.cfg.Event, payload(run)); err != nil {
		return fmt.Errorf("emit %s: %w", s.cfg.Event, err)
	}
	ctxlog.FromContext(ctx).Info("Run published over socket.io.", "event", s.cfg.Event, "run_id", run.ID, "sid", s.client.Id())
	return nil
}

func (s *SocketIO) connect(ctx context.Context) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", s.cfg.URL)

	parsedURL, _ := url.Parse(s.cfg.URL)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetReconnection(false)
	if s.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(s.cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	logger.Debug("Connecting...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(s.cfg.ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", s.cfg.ConnectTimeout)
	}
}

// Close disconnects the client, if any.
func (s *SocketIO) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Disconnect()
		s.client = nil
	}
	return nil
}

// payload is the JSON-friendly event body.
func payload(run Run) map[string]any {
	p := map[string]any{
		"run_id":       run.ID,
		"pipeline":     run.Pipeline,
		"timestamp":    run.StartedAt.UTC().Format(time.RFC3339),
		"status":       run.Status(),
		"duration_sec": run.Duration.Seconds(),
		"metrics":      run.Records(),
		"results":      run.Results(),
	}
	if run.Err != nil {
		p["error"] = run.Err.Error()
	}
	return p
}
