package domain

import "encoding/json"

// Attachment is the outgoing attachment shape. Payload is passed through as-is.
type Attachment struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// UpdateMessage is the message part of a canonical update.
// MID and Seq are computed; Text and Attachments are copied from the raw payload.
// Attachments keep every element byte for byte, whatever its shape.
type UpdateMessage struct {
	MID         string       `json:"mid"`
	Seq         *int64       `json:"seq"`
	Text        string       `json:"text,omitempty"`
	Attachments []json.RawMessage `json:"attachments,omitempty"`
}

// Update is the normalized form of one inbound message.
type Update struct {
	Raw       json.RawMessage `json:"raw"`
	Sender    Participant     `json:"sender"`
	Recipient Participant     `json:"recipient"`
	Timestamp int64           `json:"timestamp"`
	Message   UpdateMessage   `json:"message"`
}
