package editor

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Events emitted towards the editor.
const (
	EventGraph    = "graph"
	EventRejected = "rejected"
)

// ErrQueueFull is reported to the editor when a command could not be buffered.
var ErrQueueFull = errors.New("command queue full")

// Options configures Connect.
type Options struct {
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Rejection is the payload of a "rejected" event.
type Rejection struct {
	Event string `json:"event"`
	Error string `json:"error"`
}

type emitter interface {
	Emit(ev string, args ...any) error
}

// Bridge is a connected editor session.
type Bridge struct {
	io     emitter
	close  func()
	queue  *Queue
	logger *slog.Logger
}

func newBridge(io emitter, q *Queue, logger *slog.Logger) *Bridge {
	return &Bridge{io: io, close: func() {}, queue: q, logger: logger}
}

// Connect dials the editor and subscribes to the edit events. Decoded
// commands land on q. It returns once the socket is connected, or fails when
// the connection errors, ctx ends or opts.Timeout elapses.
func Connect(ctx context.Context, opts Options, q *Queue) (*Bridge, error) {
	logger := ctxlog.FromContext(ctx).With("component", "editor", "url", opts.URL)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse editor url: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("parse editor url %q: scheme and host are required", opts.URL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sopts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sopts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	b := newBridge(io, q, logger)
	b.close = func() { io.Disconnect() }

	for _, ev := range []string{EventAddNode, EventAddLink, EventRemoveLink, EventRemoveNode} {
		io.On(types.EventName(ev), func(args ...any) {
			b.handle(ev, args...)
		})
	}

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})
	io.On(types.EventName("disconnect"), func(reason ...any) {
		logger.Info("Editor disconnected.", "reason", reason)
	})

	logger.Debug("Connecting to editor.")
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("editor connection failed: %w", err)
		}
		logger.Info("Connected to editor.", "sid", io.Id())
		return b, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for editor connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for editor connection", timeout)
	}
}

func (b *Bridge) handle(event string, args ...any) {
	var payload any
	if len(args) > 0 {
		payload = args[0]
	}
	cmd, err := Decode(event, payload)
	if err != nil {
		b.Reject(event, err)
		return
	}
	if !b.queue.Enqueue(cmd) {
		b.Reject(event, ErrQueueFull)
		return
	}
	b.logger.Debug("Editor command queued.", "event", event)
}

// Reject tells the editor that a command for event was not applied.
func (b *Bridge) Reject(event string, err error) {
	b.logger.Warn("Editor command rejected.", "event", event, "error", err)
	if emitErr := b.io.Emit(EventRejected, Rejection{Event: event, Error: err.Error()}); emitErr != nil {
		b.logger.Warn("Failed to emit rejection.", "error", emitErr)
	}
}

// Publish sends s to the editor.
func (b *Bridge) Publish(s Snapshot) error {
	if err := b.io.Emit(EventGraph, s); err != nil {
		return fmt.Errorf("publish graph: %w", err)
	}
	return nil
}

// Close disconnects from the editor.
func (b *Bridge) Close() {
	b.logger.Debug("Disconnecting from editor.")
	b.close()
}
