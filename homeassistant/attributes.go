package homeassistant

import (
	"encoding/json"
)

// Attributes are the attributes of a state. The fields HA sets on most
// entities are named; everything else lands in Extra and is written back
// flat on encode.
type Attributes struct {
	FriendlyName string
	Editable     *bool
	ID           string
	Source       string
	UserID       string
	Icon         string

	Extra map[string]any
}

type namedAttributes struct {
	FriendlyName string `json:"friendly_name,omitempty"`
	Editable     *bool  `json:"editable,omitempty"`
	ID           string `json:"id,omitempty"`
	Source       string `json:"source,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	Icon         string `json:"icon,omitempty"`
}

var namedAttributeKeys = map[string]struct{}{
	"friendly_name": {},
	"editable":      {},
	"id":            {},
	"source":        {},
	"user_id":       {},
	"icon":          {},
}

func (a *Attributes) UnmarshalJSON(data []byte) error {
	var named namedAttributes
	if err := json.Unmarshal(data, &named); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = Attributes{
		FriendlyName: named.FriendlyName,
		Editable:     named.Editable,
		ID:           named.ID,
		Source:       named.Source,
		UserID:       named.UserID,
		Icon:         named.Icon,
	}
	for k, v := range raw {
		if _, ok := namedAttributeKeys[k]; ok {
			continue
		}
		if a.Extra == nil {
			a.Extra = make(map[string]any)
		}
		a.Extra[k] = v
	}
	return nil
}

func (a Attributes) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+len(namedAttributeKeys))
	for k, v := range a.Extra {
		out[k] = v
	}
	if a.FriendlyName != "" {
		out["friendly_name"] = a.FriendlyName
	}
	if a.Editable != nil {
		out["editable"] = *a.Editable
	}
	if a.ID != "" {
		out["id"] = a.ID
	}
	if a.Source != "" {
		out["source"] = a.Source
	}
	if a.UserID != "" {
		out["user_id"] = a.UserID
	}
	if a.Icon != "" {
		out["icon"] = a.Icon
	}
	return json.Marshal(out)
}

// Get returns an attribute by its JSON name.
func (a *Attributes) Get(name string) (any, bool) {
	switch name {
	case "friendly_name":
		return a.FriendlyName, a.FriendlyName != ""
	case "editable":
		if a.Editable == nil {
			return nil, false
		}
		return *a.Editable, true
	case "id":
		return a.ID, a.ID != ""
	case "source":
		return a.Source, a.Source != ""
	case "user_id":
		return a.UserID, a.UserID != ""
	case "icon":
		return a.Icon, a.Icon != ""
	}
	v, ok := a.Extra[name]
	return v, ok
}
