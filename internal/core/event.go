package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Event names on the wire.
const (
	EventMessage    = "message"
	EventOwnMessage = "own message"
)

// Event is the JSON text frame exchanged with clients: {"event": ..., "data": ...}.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EncodeEvent wraps data into an event frame. Raw JSON is embedded as-is.
func EncodeEvent(name string, data any) (Frame, error) {
	var raw json.RawMessage
	switch v := data.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = json.RawMessage(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %q event: %w", name, err)
		}
		raw = b
	}
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	b, err := json.Marshal(Event{Name: name, Data: raw})
	if err != nil {
		return nil, fmt.Errorf("encode %q event: %w", name, err)
	}
	return b, nil
}

// DecodeEvent reads a client frame. A JSON object with a string "event" and
// no keys besides "event" and "data" is an envelope; any other JSON value,
// objects with extra keys included, is the payload of a message event;
// anything else is a message event whose payload is the frame text.
func DecodeEvent(f Frame) Event {
	trimmed := bytes.TrimSpace(f)
	if !json.Valid(trimmed) {
		text, _ := json.Marshal(string(f))
		return Event{Name: EventMessage, Data: text}
	}
	if name, data, ok := envelope(trimmed); ok {
		return Event{Name: name, Data: data}
	}
	return Event{Name: EventMessage, Data: json.RawMessage(trimmed)}
}

func envelope(b []byte) (string, json.RawMessage, bool) {
	if b[0] != '{' {
		return "", nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return "", nil, false
	}
	for k := range fields {
		if k != "event" && k != "data" {
			return "", nil, false
		}
	}
	var name string
	if err := json.Unmarshal(fields["event"], &name); err != nil || name == "" {
		return "", nil, false
	}
	return name, fields["data"], true
}
