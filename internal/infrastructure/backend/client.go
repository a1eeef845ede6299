// Package backend talks to the website-generation API. Client is the only
// place that knows the base URL and attaches credentials; the facades map
// logical operations onto paths and payloads.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

const (
	defaultTimeout  = 30 * time.Second
	maxErrorBodyLen = 64 << 10

	HeaderRequestID = "X-Request-ID"
)

// ErrTransport marks failures where no HTTP response was received.
var ErrTransport = errors.New("backend unreachable")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status of err if it is, or wraps, an *APIError.
func StatusCode(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

// Message returns the server-supplied message carried by err, if any.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// RequestObserver is notified after every backend call.
type RequestObserver interface {
	ObserveBackendRequest(operation string, status int, elapsed time.Duration)
}

// Config captures the settings of a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues requests against the backend. Every request carries the
// persisted bearer token unless it is marked public.
type Client struct {
	base     *url.URL
	http     *http.Client
	tokens   ports.TokenStore
	observer RequestObserver
	log      zerolog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithObserver registers a RequestObserver.
func WithObserver(o RequestObserver) ClientOption {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient validates the base URL and builds a Client.
func NewClient(cfg Config, tokens ports.TokenStore, log zerolog.Logger, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
		log:    log.With().Str("component", "backend").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured origin.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Ping reports whether the backend answers HTTP at all; any status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base.String()+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	resp.Body.Close()
	return nil
}

// Request is one logical call.
type Request struct {
	Method string
	Path   string
	Body   any
	// Public requests are sent without the bearer token.
	Public bool
	// Operation names the call in logs and metrics.
	Operation string
}

// Do sends req and decodes a successful JSON response into out (when non-nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(req.Operation, 0, elapsed)
		c.log.Warn().Err(err).
			Str("operation", req.Operation).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("backend request failed")
		return fmt.Errorf("%s: %w: %v", req.Operation, ErrTransport, err)
	}
	defer resp.Body.Close()

	c.observe(req.Operation, resp.StatusCode, elapsed)
	c.log.Debug().
		Str("operation", req.Operation).
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Str("request_id", httpReq.Header.Get(HeaderRequestID)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s: decode response: %w", req.Operation, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	// Path segments are expected to be escaped already; see escapeID.
	target := c.base.JoinPath(req.Path)

	var body io.Reader
	if req.Body != nil {
		buf, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", req.Operation, err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req.Operation, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if !req.Public && c.tokens != nil {
		token, err := c.tokens.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: read token: %w", req.Operation, err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, nil
}

func (c *Client) observe(operation string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveBackendRequest(operation, status, elapsed)
	}
}

// decodeError reads the {"error": "..."} envelope the backend uses; plain
// text bodies are used verbatim.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(raw, &envelope); err == nil {
		msg = envelope.Error
		if msg == "" {
			msg = envelope.Message
		}
	} else if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/plain") {
		msg = strings.TrimSpace(string(raw))
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// escapeID makes an id safe to use as one path segment. Empty and dot
// segments are refused since path cleaning would move them to another endpoint.
func escapeID(id string) (string, error) {
	switch id {
	case "", ".", "..":
		return "", fmt.Errorf("%w: invalid id %q", domain.ErrInvalidInput, id)
	}
	return url.PathEscape(id), nil
}
