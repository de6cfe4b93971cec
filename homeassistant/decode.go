package homeassistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// statusPolicy names how an endpoint treats the HTTP status of a response.
type statusPolicy int

const (
	// checkStatus fails with *HTTPError on any non-2xx status.
	checkStatus statusPolicy = iota
	// ignoreStatus returns the body whatever the status; callers interpret it.
	ignoreStatus
)

func (p statusPolicy) apply(resp *response) error {
	if p == ignoreStatus {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode}
	}
	return nil
}

// decodeJSON applies the status policy and decodes the body into T.
func decodeJSON[T any](endpoint string, policy statusPolicy, resp *response) (T, error) {
	var out T
	if err := policy.apply(resp); err != nil {
		return out, err
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, &DecodeError{Endpoint: endpoint, Err: err}
	}
	return out, nil
}

// decodeList decodes a JSON array of E. Unlike decodeJSON it rejects a null
// body, which would otherwise decode into a nil slice.
func decodeList[E any](endpoint string, policy statusPolicy, resp *response) ([]E, error) {
	if err := policy.apply(resp); err != nil {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(resp.Body), []byte("null")) {
		return nil, &DecodeError{Endpoint: endpoint, Err: errors.New("expected a list, got null")}
	}
	return decodeJSON[[]E](endpoint, policy, resp)
}

// decodeText applies the status policy and returns the body as text.
func decodeText(policy statusPolicy, resp *response) (string, error) {
	if err := policy.apply(resp); err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// decodeBytes applies the status policy and returns the raw body.
func decodeBytes(policy statusPolicy, resp *response) ([]byte, error) {
	if err := policy.apply(resp); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// requireFields fails unless every named key is present and non-null in the
// JSON object data.
func requireFields(data []byte, fields ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, field := range fields {
		value, ok := raw[field]
		if !ok || string(value) == "null" {
			return fmt.Errorf("missing required field %q", field)
		}
	}
	return nil
}
