package homeassistant

import (
	"context"
	"encoding/json"
	"time"
)

// Reader defines the read operations of the Home Assistant REST API
type Reader interface {
	Ping(ctx context.Context, creds Credentials) (*SimpleMessage, error)
	Config(ctx context.Context, creds Credentials) (*Config, error)
	Events(ctx context.Context, creds Credentials) ([]Event, error)
	Services(ctx context.Context, creds Credentials) ([]json.RawMessage, error)
	History(ctx context.Context, creds Credentials, opts HistoryOptions) ([]HistoryPoint, error)
	Logbook(ctx context.Context, creds Credentials, entityID string) ([]LogbookEntry, error)
	States(ctx context.Context, creds Credentials, entityID string) ([]State, error)
	StatesOf(ctx context.Context, creds Credentials, entityIDs ...string) ([]State, error)
	ErrorLog(ctx context.Context, creds Credentials) (string, error)
	CameraProxy(ctx context.Context, creds Credentials, entityID string, at time.Time) ([]byte, error)
	Calendars(ctx context.Context, creds Credentials) ([]CalendarEntry, error)
}

// Writer defines the write operations of the Home Assistant REST API
type Writer interface {
	State(ctx context.Context, creds Credentials, entityID string, req StateUpdateRequest) (*State, error)
	Events(ctx context.Context, creds Credentials, eventType string, data any) (*SimpleMessage, error)
	Service(ctx context.Context, creds Credentials, domain, service string, data any, returnResponse bool) (json.RawMessage, error)
	Template(ctx context.Context, creds Credentials, req TemplateRequest) (string, error)
	ConfigCheck(ctx context.Context, creds Credentials) (*ConfigCheckResult, error)
	Intent(ctx context.Context, creds Credentials, data any) (string, error)
}

var (
	_ Reader = (*Client)(nil)
	_ Writer = (*Poster)(nil)
)
