package domain

// ReceivesAttachment lists the inbound attachment types a transport handles.
type ReceivesAttachment struct {
	Audio    bool `json:"audio"`
	File     bool `json:"file"`
	Image    bool `json:"image"`
	Video    bool `json:"video"`
	Location bool `json:"location"`
	Fallback bool `json:"fallback"`
}

// Receives declares inbound capabilities. The adapter never interprets it;
// the host uses it to negotiate across transports.
type Receives struct {
	Text       bool               `json:"text"`
	Attachment ReceivesAttachment `json:"attachment"`
	Echo       bool               `json:"echo"`
	Read       bool               `json:"read"`
	Postback   bool               `json:"postback"`
	QuickReply bool               `json:"quickReply"`
}

type SenderActions struct {
	TypingOn  bool `json:"typingOn"`
	TypingOff bool `json:"typingOff"`
	MarkSeen  bool `json:"markSeen"`
}

type SendsAttachment struct {
	Audio bool `json:"audio"`
	File  bool `json:"file"`
	Image bool `json:"image"`
	Video bool `json:"video"`
}

// Sends declares outbound capabilities.
type Sends struct {
	Text               bool            `json:"text"`
	QuickReply         bool            `json:"quickReply"`
	LocationQuickReply bool            `json:"locationQuickReply"`
	SenderAction       SenderActions   `json:"senderAction"`
	Attachment         SendsAttachment `json:"attachment"`
}

// DefaultReceives is what a socket client can send out of the box: text only.
func DefaultReceives() *Receives {
	return &Receives{Text: true}
}

// DefaultSends is what the adapter delivers out of the box: text only.
func DefaultSends() *Sends {
	return &Sends{Text: true}
}
