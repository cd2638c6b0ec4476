package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkeye/botsocket/pkg/domain"
)

// ErrMalformedPayload matches every *MalformedPayloadError via errors.Is.
var ErrMalformedPayload = errors.New("malformed inbound payload")

// MalformedPayloadError is reported when an inbound payload is not a JSON object.
// Type uses JavaScript typeof names since clients are mostly browsers.
type MalformedPayloadError struct {
	Type  string
	Value string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("Expected JSON object but got '%s' %s instead", e.Type, e.Value)
}

func (e *MalformedPayloadError) Is(target error) bool { return target == ErrMalformedPayload }

type inboundPayload struct {
	Message json.RawMessage `json:"message"`
}

type inboundMessage struct {
	Text        json.RawMessage `json:"text"`
	Attachments json.RawMessage `json:"attachments"`
}

// MessageID builds the deterministic {botID}.{key}.{ms} identifier.
func MessageID(botID string, key domain.GroupKey, at time.Time) string {
	return fmt.Sprintf("%s.%s.%d", botID, key, at.UnixMilli())
}

// Normalize converts a raw inbound payload into a canonical update.
// Computed fields always win over anything found in the payload.
func Normalize(raw json.RawMessage, key domain.GroupKey, botID string, now time.Time) (domain.Update, error) {
	if err := requireObject(raw); err != nil {
		return domain.Update{}, err
	}

	update := domain.Update{
		Raw:       append(json.RawMessage(nil), raw...),
		Sender:    domain.NewParticipant(key),
		Recipient: domain.Participant{ID: botID},
		Timestamp: now.UnixMilli(),
		Message: domain.UpdateMessage{
			MID: MessageID(botID, key, now),
		},
	}

	var payload inboundPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return update, nil
	}
	var msg inboundMessage
	if err := json.Unmarshal(payload.Message, &msg); err != nil {
		return update, nil
	}

	var text string
	if json.Unmarshal(msg.Text, &text) == nil {
		update.Message.Text = text
	}
	update.Message.Attachments = decodeAttachments(msg.Attachments)
	return update, nil
}

// decodeAttachments returns the elements of an attachments array untouched.
// Anything other than a non-empty array is ignored.
func decodeAttachments(raw json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil
	}
	return items
}

func requireObject(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return &MalformedPayloadError{Type: "undefined", Value: "undefined"}
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return &MalformedPayloadError{Type: "string", Value: string(raw)}
	}
	switch val := v.(type) {
	case map[string]any:
		return nil
	case string:
		return &MalformedPayloadError{Type: "string", Value: val}
	case float64:
		return &MalformedPayloadError{Type: "number", Value: string(trimmed)}
	case bool:
		return &MalformedPayloadError{Type: "boolean", Value: string(trimmed)}
	default:
		return &MalformedPayloadError{Type: "object", Value: jsString(val)}
	}
}

// jsString renders a decoded JSON value the way String(value) does in a browser.
func jsString(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return fmt.Sprint(val)
	case float64:
		return fmt.Sprint(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			if item == nil {
				continue
			}
			parts[i] = jsString(item)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}
