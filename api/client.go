// Package api is the HTTP client for the franchise service's REST contract:
// the /auth password lifecycle endpoints and the /franchises CRUD tree with
// its top-products aggregate query.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// TokenSource supplies the bearer credential attached to every mutating
// request. The session engine implements it.
type TokenSource interface {
	Token() string
}

// Client talks to one franchise service deployment.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     zerolog.Logger
}

// Option modifies a Client instance.
type Option func(*Client)

// WithHTTPClient swaps the underlying *http.Client (primarily for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// SetTokenSource attaches the bearer credential source. The session engine
// implements TokenSource but needs the client to log in, so wiring runs
// client first, then the engine, then this call.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// New creates a Client for the service at baseURL. tokens may be nil for an
// unauthenticated client (the reset-password flow needs no session); attach
// the source later with SetTokenSource.
func New(baseURL string, tokens TokenSource, options ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[api.New] baseURL is required")
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		log:     zerolog.Nop(),
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// do issues one request and decodes the response into out (when non-nil).
// Error statuses are mapped to *RemoteError with the server message or the
// canned fallback. Nothing is retried.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] marshal request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "[Client.do] build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		remote := &RemoteError{Status: resp.StatusCode, Message: decodeErrorMessage(resp.Body)}
		c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Str("message", remote.Message).Msg("request rejected")
		return remote
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[Client.do] decode %s %s response", method, path)
	}
	return nil
}

func decodeErrorMessage(body io.Reader) string {
	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&apiErr); err != nil || strings.TrimSpace(apiErr.Message) == "" {
		return FallbackMessage
	}
	return apiErr.Message
}

func (c *Client) franchisePath(segments ...string) string {
	path := "/franchises"
	for _, segment := range segments {
		path += "/" + segment
	}
	return path
}
