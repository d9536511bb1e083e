// Ollama HTTP adapter.
// OllamaClient calls the local Ollama REST API using net/http.
// Endpoints used:
//   - POST /api/generate: non-streaming completion
//   - GET  /api/tags: reachability probe (lists available models)
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/matiasleandrokruk/summarygate/internal/infra/config"
	"github.com/matiasleandrokruk/summarygate/internal/infra/metrics"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"

	pathGenerate = "/api/generate"
	pathTags     = "/api/tags"

	opGenerate = "generate"
	opProbe    = "probe"

	// maxErrorBody caps how much of a non-200 body is kept for logs.
	maxErrorBody = 4 << 10
)

// OllamaClient implements InferenceClient against a running Ollama instance.
// It performs exactly one attempt per call.
type OllamaClient struct {
	baseURL         string
	model           string
	options         GenerationOptions
	probeTimeout    time.Duration
	generateTimeout time.Duration
	httpClient      *http.Client
	slots           *semaphore.Weighted // nil when uncapped
	metrics         *metrics.Metrics
}

// Option customizes an OllamaClient.
type Option func(*OllamaClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *OllamaClient) { o.httpClient = c }
}

// WithMetrics records backend calls into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *OllamaClient) { o.metrics = m }
}

// NewOllamaClient creates an OllamaClient from the backend configuration.
// Deadlines come from the per-call contexts, so the http.Client itself has no timeout.
func NewOllamaClient(cfg config.OllamaConfig, opts ...Option) *OllamaClient {
	c := &OllamaClient{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		model:           cfg.Model,
		options:         DefaultGenerationOptions,
		probeTimeout:    cfg.ProbeTimeout,
		generateTimeout: cfg.GenerateTimeout,
		httpClient:      &http.Client{},
	}
	if cfg.MaxConcurrent > 0 {
		c.slots = semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root, used in operator-facing messages.
func (c *OllamaClient) BaseURL() string {
	return c.baseURL
}

// ─── internal Ollama JSON types ──────────────────────────────────────────────

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

// Response is a pointer so a missing field can be told apart from "".
type ollamaGenerateResponse struct {
	Response *string `json:"response"`
}

// ─── InferenceClient implementation ─────────────────────────────────────────

// Probe calls GET /api/tags and reports true only on HTTP 200.
func (c *OllamaClient) Probe(ctx context.Context) bool {
	start := time.Now()
	err := c.probe(ctx)
	c.metrics.RecordBackend(opProbe, resultLabel(err), time.Since(start))
	return err == nil
}

func (c *OllamaClient) probe(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.baseURL+pathTags, nil)
	if err != nil {
		return &Error{Kind: KindUnexpected, Err: fmt.Errorf("build request: %w", err)}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(ctx, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &Error{Kind: KindBackendError, Status: resp.StatusCode}
	}
	return nil
}

// Generate performs a non-streaming completion via POST /api/generate.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := c.generate(ctx, prompt)
	c.metrics.RecordBackend(opGenerate, resultLabel(err), time.Since(start))
	return text, err
}

func (c *OllamaClient) generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	release, err := c.acquire(callCtx)
	if err != nil {
		return "", classify(ctx, err)
	}
	defer release()

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: c.options.Temperature,
			MaxTokens:   c.options.MaxTokens,
		},
	})
	if err != nil {
		return "", &Error{Kind: KindUnexpected, Err: err}
	}

	resp, err := c.doPost(callCtx, pathGenerate, body)
	if err != nil {
		return "", classify(ctx, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &Error{Kind: KindBackendError, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out ollamaGenerateResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
		// A deadline hitting mid-body surfaces as a decode error.
		if ctxErr := callCtx.Err(); ctxErr != nil {
			return "", classify(ctx, ctxErr)
		}
		return "", &Error{Kind: KindEmptyResult, Err: fmt.Errorf("decode generate response: %w", decodeErr)}
	}
	if out.Response == nil {
		return "", &Error{Kind: KindEmptyResult, Err: errors.New("response field missing")}
	}
	return strings.TrimSpace(*out.Response), nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// acquire takes a concurrency slot, waiting at most until ctx is done.
func (c *OllamaClient) acquire(ctx context.Context) (func(), error) {
	if c.slots == nil {
		return func() {}, nil
	}
	if err := c.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	c.metrics.BackendSlotAcquired()
	return func() {
		c.slots.Release(1)
		c.metrics.BackendSlotReleased()
	}, nil
}

// doPost sends a POST request to baseURL+path.
// Caller is responsible for closing the response body.
func (c *OllamaClient) doPost(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama post %s: build request: %w", path, err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	return c.httpClient.Do(req)
}

// classify maps a transport error to an *Error. parent is the caller's
// context: its cancellation means the caller left, not that we timed out.
func classify(parent context.Context, err error) *Error {
	if errors.Is(parent.Err(), context.Canceled) {
		return &Error{Kind: KindCanceled, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	if isUnreachable(err) {
		return &Error{Kind: KindUnreachable, Err: err}
	}
	return &Error{Kind: KindUnexpected, Err: err}
}

func isUnreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// resultLabel turns a call result into a metrics label.
func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return string(llmErr.Kind)
	}
	return string(KindUnexpected)
}
