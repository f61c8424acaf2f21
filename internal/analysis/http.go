package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	analyzePath = "/analyze"
	applyPath   = "/apply"
	healthPath  = "/healthz"

	// defaultTimeout bounds a single analyze or apply call when the
	// caller supplies no HTTP client of its own.
	defaultTimeout = 30 * time.Second

	// readyMaxElapsed bounds the startup health probe.
	readyMaxElapsed = 15 * time.Second
)

// HTTPClient talks JSON over HTTP to the analysis service.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the underlying http.Client (tests, custom
// timeouts, instrumented transports).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// NewHTTPClient creates a client for the analysis service at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Analyze implements Client.
func (h *HTTPClient) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	var result AnalyzeResult
	if err := h.post(ctx, analyzePath, req, &result); err != nil {
		return nil, fmt.Errorf("analyzing edit: %w", err)
	}
	return &result, nil
}

// Apply implements Client.
func (h *HTTPClient) Apply(ctx context.Context, req ApplyRequest) (*ApplyResult, error) {
	var result ApplyResult
	if err := h.post(ctx, applyPath, req, &result); err != nil {
		return nil, fmt.Errorf("applying commit: %w", err)
	}
	return &result, nil
}

// WaitReady probes the service's health endpoint with exponential
// backoff until it answers 200 or the elapsed-time cap is hit. This is a
// startup liveness check only — analyze/apply calls are never retried.
func (h *HTTPClient) WaitReady(ctx context.Context) error {
	probe := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+healthPath, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := h.http.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health check returned %s", resp.Status)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = readyMaxElapsed

	if err := backoff.Retry(probe, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("analysis service at %s not ready: %w", h.baseURL, err)
	}
	return nil
}

// post sends body as JSON and decodes the 200 response into out.
// Non-200 responses become errors carrying the service's message when
// one is present.
func (h *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service returned %s: %s", resp.Status, serviceMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// serviceMessage extracts a human-readable error from a failure body.
// Falls back to the raw (truncated) body when it isn't the expected
// {"error": "..."} shape.
func serviceMessage(r io.Reader) string {
	const maxBody = 512

	data, err := io.ReadAll(io.LimitReader(r, maxBody))
	if err != nil || len(data) == 0 {
		return "no details"
	}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &envelope) == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return strings.TrimSpace(string(data))
}
