package homeassistant

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/blang/semver"
)

// Config is the response of GET /api/config.
type Config struct {
	Components            []string   `json:"components"`
	ConfigDir             string     `json:"config_dir"`
	Elevation             float64    `json:"elevation"`
	Latitude              float64    `json:"latitude"`
	LocationName          string     `json:"location_name"`
	Longitude             float64    `json:"longitude"`
	TimeZone              string     `json:"time_zone"`
	UnitSystem            UnitSystem `json:"unit_system"`
	Version               string     `json:"version"`
	WhitelistExternalDirs []string   `json:"whitelist_external_dirs"`
}

func (c *Config) UnmarshalJSON(data []byte) error {
	type alias Config
	if err := requireFields(data,
		"components", "config_dir", "elevation", "latitude", "location_name",
		"longitude", "time_zone", "unit_system", "version", "whitelist_external_dirs",
	); err != nil {
		return err
	}
	return json.Unmarshal(data, (*alias)(c))
}

// AtLeast reports whether the instance runs version min or newer. HA
// calendar versions such as "2024.6.0" and "2024.6.0b3" are accepted.
func (c Config) AtLeast(min string) (bool, error) {
	have, err := parseVersion(c.Version)
	if err != nil {
		return false, fmt.Errorf("invalid Home Assistant version %q: %w", c.Version, err)
	}
	want, err := parseVersion(min)
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", min, err)
	}
	return have.GTE(want), nil
}

// parseVersion maps HA suffixes like "0b3" or "0.dev0" onto semver
// pre-release identifiers.
func parseVersion(v string) (semver.Version, error) {
	v = strings.TrimSpace(v)
	if i := strings.IndexFunc(v, unicode.IsLetter); i > 0 && v[i-1] != '-' {
		v = strings.TrimSuffix(v[:i], ".") + "-" + v[i:]
	}
	return semver.ParseTolerant(v)
}

// UnitSystem holds the units configured on the instance.
type UnitSystem struct {
	Length      string `json:"length"`
	Mass        string `json:"mass"`
	Temperature string `json:"temperature"`
	Volume      string `json:"volume"`
}

func (u *UnitSystem) UnmarshalJSON(data []byte) error {
	type alias UnitSystem
	if err := requireFields(data, "length", "mass", "temperature", "volume"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*alias)(u))
}

// Event is one entry of GET /api/events.
type Event struct {
	Event         string `json:"event"`
	ListenerCount int    `json:"listener_count"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	if err := requireFields(data, "event", "listener_count"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*alias)(e))
}

// HistoryPoint is one recorded state of an entity. Minimal responses omit
// everything but State and LastChanged after the first point of each entity.
type HistoryPoint struct {
	EntityID    string      `json:"entity_id,omitempty"`
	State       string      `json:"state"`
	Attributes  *Attributes `json:"attributes,omitempty"`
	LastChanged time.Time   `json:"last_changed"`
	LastUpdated time.Time   `json:"last_updated,omitzero"`
}

func (h *HistoryPoint) UnmarshalJSON(data []byte) error {
	type alias HistoryPoint
	if err := requireFields(data, "state", "last_changed"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*alias)(h))
}

// LogbookEntry is one entry of GET /api/logbook.
type LogbookEntry struct {
	Name      string    `json:"name"`
	Message   string    `json:"message,omitempty"`
	Source    string    `json:"source,omitempty"`
	EntityID  string    `json:"entity_id"`
	ContextID string    `json:"context_id,omitempty"`
	Domain    string    `json:"domain,omitempty"`
	When      time.Time `json:"when"`
}

// UnmarshalJSON accepts the context identifier under either context_id or
// context_user_id.
func (l *LogbookEntry) UnmarshalJSON(data []byte) error {
	type alias LogbookEntry
	if err := requireFields(data, "name", "entity_id", "when"); err != nil {
		return err
	}
	aux := struct {
		*alias
		ContextUserID string `json:"context_user_id"`
	}{alias: (*alias)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if l.ContextID == "" {
		l.ContextID = aux.ContextUserID
	}
	return nil
}

// State is the current state of an entity.
type State struct {
	EntityID     string      `json:"entity_id,omitempty"`
	State        string      `json:"state"`
	Attributes   *Attributes `json:"attributes,omitempty"`
	LastChanged  time.Time   `json:"last_changed,omitzero"`
	LastReported time.Time   `json:"last_reported,omitzero"`
	LastUpdated  time.Time   `json:"last_updated,omitzero"`
	Context      *Context    `json:"context,omitempty"`
}

func (s *State) UnmarshalJSON(data []byte) error {
	type alias State
	if err := requireFields(data, "state"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*alias)(s))
}

// Attribute returns the named attribute, looking at the well-known fields
// before the open map.
func (s State) Attribute(name string) (any, bool) {
	if s.Attributes == nil {
		return nil, false
	}
	return s.Attributes.Get(name)
}

// Context links a state change to the user or automation that caused it.
type Context struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

func (c *Context) UnmarshalJSON(data []byte) error {
	type alias Context
	if err := requireFields(data, "id"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*alias)(c))
}

// CalendarEntry describes a calendar entity.
type CalendarEntry struct {
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
}

// SimpleMessage is the {"message": ...} body several endpoints answer with.
type SimpleMessage struct {
	Message string `json:"message"`
}

func (m *SimpleMessage) UnmarshalJSON(data []byte) error {
	type alias SimpleMessage
	if err := requireFields(data, "message"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*alias)(m))
}

// ConfigCheckResult is the response of POST /api/config/core/check_config.
type ConfigCheckResult struct {
	Errors   string `json:"errors,omitempty"`
	Result   string `json:"result"`
	Warnings string `json:"warnings,omitempty"`
}

func (r *ConfigCheckResult) UnmarshalJSON(data []byte) error {
	type alias ConfigCheckResult
	if err := requireFields(data, "result"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*alias)(r))
}

// Valid reports whether the configuration check passed.
func (r ConfigCheckResult) Valid() bool {
	return r.Result == "valid"
}

// ServiceDomain is a typed view of one element of GET /api/services.
type ServiceDomain struct {
	Domain   string                     `json:"domain"`
	Services map[string]json.RawMessage `json:"services"`
}

// DecodeServices converts the open JSON returned by Services into typed
// domain records.
func DecodeServices(raw []json.RawMessage) ([]ServiceDomain, error) {
	domains := make([]ServiceDomain, 0, len(raw))
	for i, item := range raw {
		if err := requireFields(item, "domain", "services"); err != nil {
			return nil, &DecodeError{Endpoint: "services", Err: fmt.Errorf("element %d: %w", i, err)}
		}
		var d ServiceDomain
		if err := json.Unmarshal(item, &d); err != nil {
			return nil, &DecodeError{Endpoint: "services", Err: fmt.Errorf("element %d: %w", i, err)}
		}
		domains = append(domains, d)
	}
	return domains, nil
}

// StateUpdateRequest is the body of POST /api/states/{entity_id}. Attributes
// are written next to state in the same JSON object.
type StateUpdateRequest struct {
	State      string
	Attributes map[string]any
}

// MarshalJSON flattens Attributes into the top-level object. A "state"
// attribute never overrides State.
func (r StateUpdateRequest) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Attributes)+1)
	for k, v := range r.Attributes {
		out[k] = v
	}
	out["state"] = r.State
	return json.Marshal(out)
}

func (r *StateUpdateRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	state, ok := raw["state"].(string)
	if !ok {
		return fmt.Errorf("missing required field %q", "state")
	}
	delete(raw, "state")
	r.State = state
	r.Attributes = nil
	if len(raw) > 0 {
		r.Attributes = raw
	}
	return nil
}

// TemplateRequest is the body of POST /api/template.
type TemplateRequest struct {
	Template string `json:"template"`
}
