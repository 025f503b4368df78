package rollbar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const accessTokenHeader = "X-Rollbar-Access-Token"

// Transport delivers assembled payload envelopes to the reporting backend.
type Transport interface {
	// Send delivers one payload envelope.
	Send(ctx context.Context, payload map[string]any) error
	// Close flushes pending deliveries and releases transport resources.
	Close() error
}

// HTTPTransport posts payloads to the item API synchronously.
type HTTPTransport struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPTransport builds the synchronous HTTP transport.
// Params: endpoint item API URL; token project access token; timeout per-request bound.
// Returns: transport instance.
func NewHTTPTransport(endpoint, token string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
	}
}

// Send posts one payload and verifies the response status.
// Params: ctx cancels the request; payload envelope to deliver.
// Returns: error on encode failure, transport failure, or non-2xx response.
func (t *HTTPTransport) Send(ctx context.Context, payload map[string]any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, t.token)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", t.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("POST %s: unexpected status %s: %s", t.endpoint, resp.Status, strings.TrimSpace(string(body)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Close releases idle connections held by the HTTP client.
// Params: none.
// Returns: always nil.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// AsyncTransport queues payloads and delivers them on one background worker.
// A full queue drops the new payload rather than blocking the reporter.
type AsyncTransport struct {
	next   Transport
	queue  chan map[string]any
	done   chan struct{}
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewAsyncTransport wraps a transport with a bounded background delivery queue.
// Params: next delegate transport; queueSize pending payload bound; logger delivery diagnostics.
// Returns: transport instance with the delivery worker started.
func NewAsyncTransport(next Transport, queueSize int, logger *slog.Logger) *AsyncTransport {
	t := &AsyncTransport{
		next:   next,
		queue:  make(chan map[string]any, queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go t.deliver()
	return t
}

// Send enqueues one payload without blocking.
// Params: ctx unused, enqueueing is immediate; payload envelope to deliver.
// Returns: error only when the transport is already closed.
func (t *AsyncTransport) Send(_ context.Context, payload map[string]any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("async transport is closed")
	}

	select {
	case t.queue <- payload:
	default:
		t.logger.Warn("payload queue full, dropping payload",
			slog.Int("queue_size", cap(t.queue)),
		)
	}
	return nil
}

// deliver drains the queue until Close stops intake.
// Delivery uses a background context so queued payloads survive caller cancellation.
// Params: none.
// Returns: none.
func (t *AsyncTransport) deliver() {
	defer close(t.done)

	for payload := range t.queue {
		if err := t.next.Send(context.Background(), payload); err != nil {
			t.logger.Error("payload delivery failed",
				slog.String("error", err.Error()),
			)
		}
	}
}

// Close stops intake, waits for queued deliveries, and closes the delegate.
// Params: none.
// Returns: delegate close error.
func (t *AsyncTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	close(t.queue)
	t.mu.Unlock()

	<-t.done
	return t.next.Close()
}
