// Package client is the HTTP boundary to the remote auth API. A single
// configured client attaches the persisted bearer token to every
// request, normalizes every failure into an APIError, and reacts to an
// unauthorized response by clearing the stored session and emitting an
// explicit event.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/albin6/authdeck/storage"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 1 << 20

	fallbackMessage = "Something went wrong. Please try again."
	expiredMessage  = "Your session has expired. Please log in again."
)

// Client is the single configured HTTP client for the auth API.
type Client struct {
	baseURL        string
	httpc          *http.Client
	store          *storage.TokenStore
	log            *slog.Logger
	onUnauthorized func()
	tracer         trace.Tracer

	refreshGroup singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithOnUnauthorized registers the hook invoked after an unauthorized
// response has cleared the persisted tokens. The session controller
// uses it to reset in-memory state; the redirect decision stays with
// the consumer instead of being buried in the transport layer.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// New creates a client for the auth API rooted at baseURL.
func New(baseURL string, store *storage.TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		tracer:  otel.Tracer("authdeck/client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpc == nil {
		c.httpc = &http.Client{Timeout: defaultTimeout}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// do performs one request and decodes the response body into out when
// out is non-nil. Every failure comes back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path)
	defer span.End()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fallbackMessage, Err: fmt.Errorf("encoding request: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &APIError{Message: fallbackMessage, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	bearerAttached := false
	if tokens, err := c.store.Load(); err == nil && tokens.Access != "" {
		req.Header.Set("Authorization", "Bearer "+tokens.Access)
		bearerAttached = true
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	requestDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		requestsTotal.WithLabelValues(path, "transport_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return &APIError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &APIError{Message: fallbackMessage, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized && bearerAttached {
		// Stale token: invalidate the whole session, independent of
		// which operation triggered the response.
		c.invalidateSession()
		span.SetStatus(codes.Error, "unauthorized")
		return &APIError{
			Message:    messageOr(data, expiredMessage),
			StatusCode: resp.StatusCode,
			Err:        ErrUnauthorized,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{
			Message:    messageOr(data, fallbackMessage),
			StatusCode: resp.StatusCode,
		}
		if resp.StatusCode == http.StatusUnauthorized {
			apiErr.Err = ErrUnauthorized
		}
		span.SetStatus(codes.Error, apiErr.Message)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{Message: fallbackMessage, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}

// invalidateSession clears both persisted tokens and fires the
// unauthorized hook.
func (c *Client) invalidateSession() {
	unauthorizedTotal.Inc()
	if err := c.store.Clear(); err != nil {
		c.log.Warn("clearing stored tokens failed", slog.String("error", err.Error()))
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	c.log.Info("stored session invalidated by unauthorized response")
}

// doEnvelope performs a request against an envelope-shaped endpoint and
// unwraps the data object. A response with success=false is a declared
// failure carrying the body's message.
func doEnvelope[T any](c *Client, ctx context.Context, method, path string, body any) (*T, string, error) {
	var env envelope[T]
	if err := c.do(ctx, method, path, body, &env); err != nil {
		return nil, "", err
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fallbackMessage
		}
		return nil, "", &APIError{Message: msg, Code: env.Code}
	}
	return env.Data, env.Message, nil
}

// messageOr extracts the envelope message from a raw response body,
// falling back when the body has no usable message.
func messageOr(data []byte, fallback string) string {
	var env envelope[json.RawMessage]
	if err := json.Unmarshal(data, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return fallback
}
