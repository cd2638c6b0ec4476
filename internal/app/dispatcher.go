package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/botsocket/internal/core"
	"github.com/dkeye/botsocket/pkg/domain"
)

// ErrMissingRecipient is returned for outgoing messages without recipient.id.
var ErrMissingRecipient = errors.New("outgoing message has no recipient id")

// Dispatcher writes outgoing messages to every connection of the addressed group.
type Dispatcher struct {
	BotID    string
	Registry *core.Registry
	Policy   Policy
	Now      func() time.Time
}

// Dispatch fans msg out on the message event. An empty or unknown group is
// not an error: the result is returned whether or not anyone received it.
func (d *Dispatcher) Dispatch(ctx context.Context, msg domain.OutgoingMessage) (domain.DispatchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.DispatchResult{}, err
	}
	key := msg.Recipient.Key()
	if key == "" {
		return domain.DispatchResult{}, ErrMissingRecipient
	}

	frame, err := core.EncodeEvent(core.EventMessage, msg)
	if err != nil {
		return domain.DispatchResult{}, err
	}

	res := d.Registry.Broadcast(key, nil, frame)
	applyPolicy(d.Policy, key, res)
	log.Debug().Str("module", "app.dispatcher").Str("group", string(key)).Int("sent_to", res.SentTo).Msg("dispatched")

	return domain.DispatchResult{
		RecipientID: msg.Recipient.ID,
		MessageID:   MessageID(d.BotID, key, d.now()),
	}, nil
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
