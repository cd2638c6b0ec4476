package socketbot

import (
	"context"

	"github.com/dkeye/botsocket/pkg/domain"
)

// SendMessage writes msg to every connection of msg.Recipient.ID. A
// recipient with no live connection is not an error.
func (b *Bot) SendMessage(ctx context.Context, msg domain.OutgoingMessage) (domain.DispatchResult, error) {
	return b.orch.Send(ctx, msg)
}

// SendRaw is the same path as SendMessage; socket clients get the message
// object exactly as given.
func (b *Bot) SendRaw(ctx context.Context, msg domain.OutgoingMessage) (domain.DispatchResult, error) {
	return b.SendMessage(ctx, msg)
}

// SendTextTo sends a text message to a user id.
func (b *Bot) SendTextTo(ctx context.Context, userID, text string) (domain.DispatchResult, error) {
	return b.SendMessage(ctx, domain.OutgoingMessage{
		Recipient: domain.Participant{ID: userID},
		Message:   &domain.MessageBody{Text: text},
	})
}

// Reply sends text back to the sender of u.
func (b *Bot) Reply(ctx context.Context, u domain.Update, text string) (domain.DispatchResult, error) {
	return b.SendTextTo(ctx, u.Sender.ID, text)
}

// SendAttachmentTo sends a single attachment to a user id.
func (b *Bot) SendAttachmentTo(ctx context.Context, userID string, a domain.Attachment) (domain.DispatchResult, error) {
	return b.SendMessage(ctx, domain.OutgoingMessage{
		Recipient: domain.Participant{ID: userID},
		Message:   &domain.MessageBody{Attachment: &a},
	})
}

// SendIsTypingTo sends a typing_on sender action to a user id.
func (b *Bot) SendIsTypingTo(ctx context.Context, userID string) (domain.DispatchResult, error) {
	return b.SendMessage(ctx, domain.OutgoingMessage{
		Recipient:    domain.Participant{ID: userID},
		SenderAction: domain.SenderActionTypingOn,
	})
}
