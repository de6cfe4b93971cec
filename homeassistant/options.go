package homeassistant

import (
	"net/http"
	"time"
)

// DefaultTimeout is the per-request timeout of the client built by NewClient.
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request. The client is
// shared by all calls, so it should pool connections.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the HTTP client timeout. It applies to a copy of the
// client given to WithHTTPClient, whatever the option order.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = &timeout
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithCredentials sets client-wide credentials used whenever a call does not
// supply its own.
func WithCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.defaults = creds
	}
}

// WithFallback sets the source consulted when neither the call nor the
// client carries a credential.
func WithFallback(source CredentialSource) Option {
	return func(c *Client) {
		c.fallback = source
	}
}
