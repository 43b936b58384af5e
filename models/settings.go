package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"funnelapi/errs"
)

const orderBumpsKey = "orderBumps"

// StepSettings is the per-step configuration blob. Order bumps are read out when orderBumps is a
// list of objects; every other key, including an orderBumps value of any other shape, is carried
// through untouched so the blob can grow without migrations.
type StepSettings struct {
	OrderBumps []OrderBump
	Extra      map[string]interface{}
}

// OrderBump is an upsell offer embedded in a step's settings. It is held as the stored object so
// keys this service does not write survive a re-encode.
type OrderBump map[string]interface{}

// NewOrderBump builds a bump with the fields this service writes. design is left out when nil.
func NewOrderBump(id, name string, products []ProductSettings, design map[string]interface{}) OrderBump {
	if products == nil {
		products = []ProductSettings{}
	}
	b := OrderBump{
		"id":       id,
		"name":     name,
		"products": products,
	}
	if design != nil {
		b["design"] = design
	}
	return b
}

func (b OrderBump) ID() string {
	id, _ := b["id"].(string)
	return id
}

func (b OrderBump) Name() string {
	name, _ := b["name"].(string)
	return name
}

// Priority returns the stored priority, or 0 when it is absent or not an integer.
func (b OrderBump) Priority() int {
	switch v := b["priority"].(type) {
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case float64:
		return int(v)
	}
	return 0
}

// ProductSettings is a free-form product entry of an order bump.
type ProductSettings map[string]interface{}

func (p ProductSettings) ID() string {
	id, _ := p["id"].(string)
	return id
}

func (p ProductSettings) SetID(id string) {
	p["id"] = id
}

// AppendOrderBump adds a copy of b at the end of the list. Its priority is always its 1-based
// position. An orderBumps value that was not a list is replaced.
func (s *StepSettings) AppendOrderBump(b OrderBump) OrderBump {
	added := make(OrderBump, len(b)+1)
	for k, v := range b {
		added[k] = v
	}
	added["priority"] = len(s.OrderBumps) + 1

	delete(s.Extra, orderBumpsKey)
	s.OrderBumps = append(s.OrderBumps, added)
	return added
}

func (s StepSettings) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(s.Extra)+1)
	for k, v := range s.Extra {
		out[k] = v
	}
	if s.OrderBumps != nil {
		out[orderBumpsKey] = s.OrderBumps
	}
	return json.Marshal(out)
}

func (s *StepSettings) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	s.OrderBumps = nil
	s.Extra = nil
	for key, raw := range fields {
		var v interface{}
		if err := decodeJSON(raw, &v); err != nil {
			return err
		}
		if key == orderBumpsKey {
			if bumps, ok := asOrderBumps(v); ok {
				s.OrderBumps = bumps
				continue
			}
		}
		if s.Extra == nil {
			s.Extra = make(map[string]interface{})
		}
		s.Extra[key] = v
	}
	return nil
}

// asOrderBumps accepts only a list whose every element is an object.
func asOrderBumps(v interface{}) ([]OrderBump, bool) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	bumps := make([]OrderBump, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, false
		}
		bumps = append(bumps, OrderBump(obj))
	}
	return bumps, true
}

// decodeJSON keeps numbers as json.Number so values survive repeated encode/decode cycles.
func decodeJSON(raw []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// DecodeSettings parses the stored settings column. Empty text is an empty object; anything that
// is not a JSON object fails with *errs.FormatError.
func DecodeSettings(raw string) (StepSettings, error) {
	var s StepSettings
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return s, nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		return s, &errs.FormatError{Err: errors.New("settings must be a JSON object")}
	}
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return StepSettings{}, &errs.FormatError{Err: err}
	}
	return s, nil
}

// EncodeSettings serializes settings for the settings column.
func EncodeSettings(s StepSettings) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", &errs.FormatError{Err: err}
	}
	return string(b), nil
}
