package homeassistant

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

const testToken = "test-token"

// recordedRequest captures what the fake Home Assistant received.
type recordedRequest struct {
	Method     string
	RequestURI string
	Body       []byte
	Header     http.Header
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) add(req recordedRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

func (r *recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func (r *recorder) Last() recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		return recordedRequest{}
	}
	return r.requests[len(r.requests)-1]
}

// newTestServer serves a fixed status and body and records every request.
func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *recorder) {
	t.Helper()

	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		rec.add(recordedRequest{
			Method:     r.Method,
			RequestURI: r.RequestURI,
			Body:       body,
			Header:     r.Header.Clone(),
		})

		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	return server, rec
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient(zerolog.Nop(), WithCredentials(Credentials{
		BaseURL: server.URL,
		Token:   testToken,
	}))
}

// statusCheckedCalls invokes every endpoint that fails on a non-2xx status.
func statusCheckedCalls(ctx context.Context) map[string]func(c *Client) error {
	return map[string]func(c *Client) error{
		"ping": func(c *Client) error {
			_, err := c.Ping(ctx, Credentials{})
			return err
		},
		"config": func(c *Client) error {
			_, err := c.Config(ctx, Credentials{})
			return err
		},
		"events": func(c *Client) error {
			_, err := c.Events(ctx, Credentials{})
			return err
		},
		"services": func(c *Client) error {
			_, err := c.Services(ctx, Credentials{})
			return err
		},
		"history": func(c *Client) error {
			_, err := c.History(ctx, Credentials{}, HistoryOptions{EntityID: "light.kitchen"})
			return err
		},
		"logbook": func(c *Client) error {
			_, err := c.Logbook(ctx, Credentials{}, "")
			return err
		},
		"states": func(c *Client) error {
			_, err := c.States(ctx, Credentials{}, "")
			return err
		},
		"single state": func(c *Client) error {
			_, err := c.States(ctx, Credentials{}, "light.kitchen")
			return err
		},
		"post state": func(c *Client) error {
			_, err := c.Request().State(ctx, Credentials{}, "sensor.x", StateUpdateRequest{State: "1"})
			return err
		},
		"post events": func(c *Client) error {
			_, err := c.Request().Events(ctx, Credentials{}, "tag_scanned", nil)
			return err
		},
		"post service": func(c *Client) error {
			_, err := c.Request().Service(ctx, Credentials{}, "light", "turn_on", nil, false)
			return err
		},
		"config check": func(c *Client) error {
			_, err := c.Request().ConfigCheck(ctx, Credentials{})
			return err
		},
	}
}

// statusUncheckedCalls invokes every endpoint that returns the body whatever
// the status.
func statusUncheckedCalls(ctx context.Context) map[string]func(c *Client) error {
	return map[string]func(c *Client) error{
		"error log": func(c *Client) error {
			_, err := c.ErrorLog(ctx, Credentials{})
			return err
		},
		"camera proxy": func(c *Client) error {
			_, err := c.CameraProxy(ctx, Credentials{}, "camera.front", time.Unix(1700000000, 0))
			return err
		},
		"template": func(c *Client) error {
			_, err := c.Request().Template(ctx, Credentials{}, TemplateRequest{Template: "{{ 1 }}"})
			return err
		},
		"intent": func(c *Client) error {
			_, err := c.Request().Intent(ctx, Credentials{}, map[string]any{"name": "HassTurnOn"})
			return err
		},
	}
}
