// Package render wraps the headless document render service that lays out
// contract text and rasterizes it to PDF bytes.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Request describes one document to render. Layout and typography belong to
// the render service; callers only supply a template name and its data.
type Request struct {
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// Engine renders documents. An engine is started lazily on first render,
// reusable across files within one sweep, and must be closed when the sweep
// completes. It is not safe to share across concurrent sweeps.
type Engine interface {
	Start(ctx context.Context) error
	Render(ctx context.Context, req Request) ([]byte, error)
	Close() error
}

// Option configures the HTTP engine.
type Option func(*httpEngine)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(e *httpEngine) {
		e.http = hc
	}
}

// httpEngine implements Engine against an HTTP render service.
type httpEngine struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	started bool
}

// NewEngine creates an engine talking to the render service at baseURL.
func NewEngine(baseURL string, opts ...Option) Engine {
	e := &httpEngine{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start verifies the render service is reachable. Idempotent; Render calls
// it automatically on first use.
func (e *httpEngine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/healthz", nil)
	if err != nil {
		return eris.Wrap(err, "render: build health request")
	}
	resp, err := e.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "render: service unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("render: health check returned %d", resp.StatusCode)
	}

	e.started = true
	zap.L().Debug("render: engine started", zap.String("base_url", e.baseURL))
	return nil
}

// Render produces the document bytes for one request.
func (e *httpEngine) Render(ctx context.Context, r Request) ([]byte, error) {
	if err := e.Start(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(r)
	if err != nil {
		return nil, eris.Wrap(err, "render: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "render: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "render: request")
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "render: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("render: status %d rendering %s", resp.StatusCode, r.Template)
	}
	if len(out) == 0 {
		return nil, eris.Errorf("render: empty document for %s", r.Template)
	}
	return out, nil
}

// Close releases the engine. Subsequent renders restart it.
func (e *httpEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = false
	e.http.CloseIdleConnections()
	return nil
}
