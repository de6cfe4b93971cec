package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client performs authenticated calls against the Home Assistant REST API.
// A Client is safe for concurrent use; all calls share one connection pool.
type Client struct {
	httpClient *http.Client
	timeout    *time.Duration
	userAgent  string
	defaults   Credentials
	fallback   CredentialSource
	logger     zerolog.Logger
	poster     Poster
}

// NewClient creates a new Home Assistant client.
func NewClient(logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "hassctl",
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		httpClient := *c.httpClient
		httpClient.Timeout = *c.timeout
		c.httpClient = &httpClient
	}
	c.poster = Poster{client: c}
	return c
}

// Request returns the write side of the API.
func (c *Client) Request() *Poster {
	return &c.poster
}

// response is a raw HTTP exchange result. Status is not interpreted here.
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// get performs an authenticated GET against creds.BaseURL + path.
func (c *Client) get(ctx context.Context, creds Credentials, path string) (*response, error) {
	return c.do(ctx, creds, http.MethodGet, path, nil)
}

// post performs an authenticated POST. A body that serializes to nothing
// (nil, or JSON null) is sent as a bodyless request.
func (c *Client) post(ctx context.Context, creds Credentials, path string, body any) (*response, error) {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Op: "failed to encode request body", Err: err}
		}
		if !isEmptyPayload(encoded) {
			payload = encoded
		}
	}
	return c.do(ctx, creds, http.MethodPost, path, payload)
}

func isEmptyPayload(b []byte) bool {
	trimmed := bytes.TrimSpace(b)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// do performs an HTTP request with authentication
func (c *Client) do(ctx context.Context, creds Credentials, method, path string, payload []byte) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, creds.BaseURL+path, body)
	if err != nil {
		return nil, &TransportError{Op: "failed to create request", Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+creds.Token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "failed to read response body", Err: err}
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Msg("Home Assistant API request")

	return &response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// call resolves credentials and performs a GET or POST.
func (c *Client) call(ctx context.Context, explicit Credentials, method, path string, body any) (*response, error) {
	creds, err := c.resolve(explicit)
	if err != nil {
		return nil, err
	}

	switch method {
	case http.MethodGet:
		return c.get(ctx, creds, path)
	case http.MethodPost:
		return c.post(ctx, creds, path, body)
	default:
		return nil, fmt.Errorf("unsupported method %s", method)
	}
}
