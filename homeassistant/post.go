package homeassistant

import (
	"context"
	"encoding/json"
	"net/http"
)

// Poster groups the write operations of the API. Obtain one from
// Client.Request.
type Poster struct {
	client *Client
}

// State creates or updates the state of entityID.
func (p *Poster) State(ctx context.Context, creds Credentials, entityID string, req StateUpdateRequest) (*State, error) {
	resp, err := p.client.call(ctx, creds, http.MethodPost, "/api/states/"+entityID, req)
	if err != nil {
		return nil, err
	}
	state, err := decodeJSON[State]("state", checkStatus, resp)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Events fires an event of eventType. data may be nil, in which case the
// request carries no body.
func (p *Poster) Events(ctx context.Context, creds Credentials, eventType string, data any) (*SimpleMessage, error) {
	resp, err := p.client.call(ctx, creds, http.MethodPost, "/api/events/"+eventType, data)
	if err != nil {
		return nil, err
	}
	msg, err := decodeJSON[SimpleMessage]("events", checkStatus, resp)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Service calls domain.service with data. When returnResponse is set the
// request asks HA to include the service response.
func (p *Poster) Service(ctx context.Context, creds Credentials, domain, service string, data any, returnResponse bool) (json.RawMessage, error) {
	path := "/api/services/" + domain + "/" + service
	if returnResponse {
		path += "?return_response"
	}
	resp, err := p.client.call(ctx, creds, http.MethodPost, path, data)
	if err != nil {
		return nil, err
	}
	return decodeJSON[json.RawMessage]("service", checkStatus, resp)
}

// Template renders a template server side and returns the text. The status
// is not checked; HA reports template errors in the body.
func (p *Poster) Template(ctx context.Context, creds Credentials, req TemplateRequest) (string, error) {
	resp, err := p.client.call(ctx, creds, http.MethodPost, "/api/template", req)
	if err != nil {
		return "", err
	}
	return decodeText(ignoreStatus, resp)
}

// ConfigCheck asks HA to validate configuration.yaml.
func (p *Poster) ConfigCheck(ctx context.Context, creds Credentials) (*ConfigCheckResult, error) {
	resp, err := p.client.call(ctx, creds, http.MethodPost, "/api/config/core/check_config", map[string]any{})
	if err != nil {
		return nil, err
	}
	result, err := decodeJSON[ConfigCheckResult]("config_check", checkStatus, resp)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Intent hands an intent to /api/intent/handle and returns the raw answer.
// The status is not checked.
func (p *Poster) Intent(ctx context.Context, creds Credentials, data any) (string, error) {
	resp, err := p.client.call(ctx, creds, http.MethodPost, "/api/intent/handle", data)
	if err != nil {
		return "", err
	}
	return decodeText(ignoreStatus, resp)
}
