package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/botsocket/internal/core"
	"github.com/dkeye/botsocket/pkg/domain"
)

// Echo tells the sender's other connections that a message was sent.
// It uses its own event so clients that do not listen for it pay nothing.
type Echo struct {
	Registry *core.Registry
	Policy   Policy
}

// Notify sends raw as an "own message" event to every member of key but sender.
func (e *Echo) Notify(key domain.GroupKey, sender core.Connection, raw json.RawMessage) core.BroadcastResult {
	if e.Registry.MemberCount(key) < 2 {
		return core.BroadcastResult{}
	}
	frame, err := core.EncodeEvent(core.EventOwnMessage, raw)
	if err != nil {
		log.Error().Err(err).Str("module", "app.echo").Str("group", string(key)).Msg("encode own message")
		return core.BroadcastResult{}
	}
	res := e.Registry.Broadcast(key, sender, frame)
	applyPolicy(e.Policy, key, res)
	return res
}
