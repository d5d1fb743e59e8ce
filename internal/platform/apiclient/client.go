// Package apiclient is the shared HTTP transport for the student management API.
// It attaches the stored bearer token and a request ID to every call, encodes
// bodies as JSON or CBOR, unwraps the {success, data, message} envelope and
// classifies failures into apperr.NetworkError and apperr.ServerError.
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/janisto/campus-admin/internal/apperr"
	applog "github.com/janisto/campus-admin/internal/platform/logging"
)

const (
	DefaultBaseURL   = "http://localhost:5000/api"
	defaultUserAgent = "campus-admin"
	requestIDHeader  = "X-Request-Id"
	maxBodyBytes     = 8 << 20
)

// TokenSource supplies the bearer token for outbound requests. An empty token
// sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// Client issues requests against the API base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	codec      codec
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API base URL, e.g. http://localhost:5000/api.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTokenSource sets where the bearer token is read from on every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithFormat selects the wire encoding.
func WithFormat(f Format) Option {
	return func(c *Client) {
		c.codec = codecFor(f)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates an API client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		codec:      jsonCodec{},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches path with query and decodes the envelope payload into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body to path and decodes the envelope payload into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put sends body to path and decodes the envelope payload into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete removes the resource at path. out may be nil.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do performs one request. body and out may be nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := c.codec.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", c.codec.ContentType())
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", c.codec.ContentType())
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	applog.LogDebug(ctx, "api request", zap.String("op", op), zap.String("requestId", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperr.NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &apperr.NetworkError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.serverError(ctx, op, requestID, resp, raw)
	}

	if len(raw) == 0 || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	env, err := c.codec.splitEnvelope(raw)
	if err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	if !env.Success {
		se := apperr.NewServerError(resp.StatusCode, env.Message)
		se.RequestID = firstNonEmpty(env.RequestID, requestID)
		return se
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := c.codec.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decoding payload: %w", op, err)
	}
	return nil
}

func (c *Client) serverError(ctx context.Context, op, requestID string, resp *http.Response, raw []byte) error {
	var message, serverID string
	if len(raw) > 0 {
		if env, err := c.codec.splitEnvelope(raw); err == nil {
			message = env.Message
			serverID = env.RequestID
		}
	}
	se := apperr.NewServerError(resp.StatusCode, message)
	se.RequestID = firstNonEmpty(serverID, resp.Header.Get(requestIDHeader), requestID)

	applog.LogWarn(ctx, "api request failed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.String("requestId", se.RequestID),
		zap.String("message", se.Message),
	)
	return se
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
