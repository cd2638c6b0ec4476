package domain

import "encoding/json"

// QuickReply is an optional button offered along with a text message.
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title,omitempty"`
	Payload     string `json:"payload,omitempty"`
}

// MessageBody is the content of an outgoing message.
type MessageBody struct {
	Text         string       `json:"text,omitempty"`
	Attachment   *Attachment  `json:"attachment,omitempty"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
}

// Sender actions understood by clients.
const (
	SenderActionTypingOn  = "typing_on"
	SenderActionTypingOff = "typing_off"
	SenderActionMarkSeen  = "mark_seen"
)

// OutgoingMessage is what host code asks the bot to deliver. Recipient.ID is
// a GroupKey; the whole value is written to every connection of that group.
// Extra carries any other top-level fields; named fields win on a clash.
type OutgoingMessage struct {
	Recipient    Participant                `json:"recipient"`
	Message      *MessageBody               `json:"message,omitempty"`
	SenderAction string                     `json:"sender_action,omitempty"`
	Extra        map[string]json.RawMessage `json:"-"`
}

func (m OutgoingMessage) MarshalJSON() ([]byte, error) {
	type plain OutgoingMessage
	base, err := json.Marshal(plain(m))
	if err != nil || len(m.Extra) == 0 {
		return base, err
	}

	fields := make(map[string]json.RawMessage, len(m.Extra)+3)
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range m.Extra {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}

// DispatchResult is returned for every dispatch, whether or not any
// connection was there to receive it.
type DispatchResult struct {
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
}
