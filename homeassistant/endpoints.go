package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Ping queries /api/ and returns the API status message.
func (c *Client) Ping(ctx context.Context, creds Credentials) (*SimpleMessage, error) {
	resp, err := c.call(ctx, creds, http.MethodGet, "/api/", nil)
	if err != nil {
		return nil, err
	}
	msg, err := decodeJSON[SimpleMessage]("ping", checkStatus, resp)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Config queries /api/config.
func (c *Client) Config(ctx context.Context, creds Credentials) (*Config, error) {
	resp, err := c.call(ctx, creds, http.MethodGet, "/api/config", nil)
	if err != nil {
		return nil, err
	}
	cfg, err := decodeJSON[Config]("config", checkStatus, resp)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Events queries /api/events.
func (c *Client) Events(ctx context.Context, creds Credentials) ([]Event, error) {
	resp, err := c.call(ctx, creds, http.MethodGet, "/api/events", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Event]("events", checkStatus, resp)
}

// Services queries /api/services. The element schema is left open; see
// DecodeServices for a typed view.
func (c *Client) Services(ctx context.Context, creds Credentials) ([]json.RawMessage, error) {
	resp, err := c.call(ctx, creds, http.MethodGet, "/api/services", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[json.RawMessage]("services", checkStatus, resp)
}

// HistoryOptions selects what /api/history/period returns.
type HistoryOptions struct {
	EntityID               string
	MinimalResponse        bool
	NoAttributes           bool
	SignificantChangesOnly bool
}

// query renders the options. Flags are bare tokens without a value.
func (o HistoryOptions) query() string {
	var sb strings.Builder
	sb.WriteString("?filter_entity_id=")
	sb.WriteString(o.EntityID)
	if o.MinimalResponse {
		sb.WriteString("&minimal_response")
	}
	if o.NoAttributes {
		sb.WriteString("&no_attributes")
	}
	if o.SignificantChangesOnly {
		sb.WriteString("&significant_changes_only")
	}
	return sb.String()
}

// History queries /api/history/period. HA answers with one list per entity;
// the lists are concatenated in the order received.
func (c *Client) History(ctx context.Context, creds Credentials, opts HistoryOptions) ([]HistoryPoint, error) {
	resp, err := c.call(ctx, creds, http.MethodGet, "/api/history/period"+opts.query(), nil)
	if err != nil {
		return nil, err
	}
	nested, err := decodeList[[]HistoryPoint]("history", checkStatus, resp)
	if err != nil {
		return nil, err
	}

	var total int
	for _, inner := range nested {
		total += len(inner)
	}
	points := make([]HistoryPoint, 0, total)
	for _, inner := range nested {
		points = append(points, inner...)
	}
	return points, nil
}

// Logbook queries /api/logbook. The entity id is appended after a bare "?",
// so an empty id requests "/api/logbook?".
func (c *Client) Logbook(ctx context.Context, creds Credentials, entityID string) ([]LogbookEntry, error) {
	resp, err := c.call(ctx, creds, http.MethodGet, "/api/logbook?"+entityID, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[LogbookEntry]("logbook", checkStatus, resp)
}

// States queries /api/states, or /api/states/{entityID} when an id is given.
// The result is always a list; a single entity yields one element.
func (c *Client) States(ctx context.Context, creds Credentials, entityID string) ([]State, error) {
	if entityID == "" {
		resp, err := c.call(ctx, creds, http.MethodGet, "/api/states", nil)
		if err != nil {
			return nil, err
		}
		return decodeList[State]("states", checkStatus, resp)
	}

	state, err := c.state(ctx, creds, entityID)
	if err != nil {
		return nil, err
	}
	return []State{state}, nil
}

// state fetches exactly one entity from /api/states/{entityID}.
func (c *Client) state(ctx context.Context, creds Credentials, entityID string) (State, error) {
	if strings.TrimSpace(entityID) == "" {
		return State{}, ErrEmptyEntityID
	}
	resp, err := c.call(ctx, creds, http.MethodGet, "/api/states/"+entityID, nil)
	if err != nil {
		return State{}, err
	}
	return decodeJSON[State]("states", checkStatus, resp)
}

// ErrorLog returns the raw body of GET /api/states. Deployed clients read
// this path rather than /api/error_log, and the status is not checked.
func (c *Client) ErrorLog(ctx context.Context, creds Credentials) (string, error) {
	resp, err := c.call(ctx, creds, http.MethodGet, "/api/states", nil)
	if err != nil {
		return "", err
	}
	return decodeText(ignoreStatus, resp)
}

// CameraProxy returns the image served by /api/camera_proxy/{entityID} for
// the given time, truncated to unix seconds. The status is not checked.
func (c *Client) CameraProxy(ctx context.Context, creds Credentials, entityID string, at time.Time) ([]byte, error) {
	path := fmt.Sprintf("/api/camera_proxy/%s?time=%d", entityID, at.Unix())
	resp, err := c.call(ctx, creds, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeBytes(ignoreStatus, resp)
}

// Calendars is not implemented and never issues a request.
func (c *Client) Calendars(ctx context.Context, creds Credentials) ([]CalendarEntry, error) {
	return nil, fmt.Errorf("calendars: %w", ErrNotSupported)
}
