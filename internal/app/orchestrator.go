package app

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/botsocket/internal/core"
	"github.com/dkeye/botsocket/pkg/domain"
)

// Sink receives what the orchestrator surfaces to the host framework.
type Sink interface {
	EmitUpdate(domain.Update)
	EmitError(error)
}

// Orchestrator wires identity, membership, echo, normalization and dispatch
// for one bot. Transport adapters call OnConnect, OnMessage and OnDisconnect.
type Orchestrator struct {
	BotID      string
	Registry   *core.Registry
	Echo       *Echo
	Dispatcher *Dispatcher
	Limiter    *GroupRateLimiter
	Sink       Sink
	Now        func() time.Time
}

func NewOrchestrator(botID string, policy Policy, limiter *GroupRateLimiter, sink Sink, now func() time.Time) *Orchestrator {
	if now == nil {
		now = time.Now
	}
	reg := core.NewRegistry()
	return &Orchestrator{
		BotID:      botID,
		Registry:   reg,
		Echo:       &Echo{Registry: reg, Policy: policy},
		Dispatcher: &Dispatcher{BotID: botID, Registry: reg, Policy: policy, Now: now},
		Limiter:    limiter,
		Sink:       sink,
		Now:        now,
	}
}

// OnConnect resolves the group of a new connection and joins it.
func (o *Orchestrator) OnConnect(conn core.Connection, handshake *url.URL) domain.GroupKey {
	key := core.ResolveGroupKey(handshake, conn.ID())
	o.Registry.Join(key, conn)
	return key
}

// OnMessage handles one inbound payload from conn. The echo goes out on every
// receipt, before the rate limit and normalization, so discarded and
// malformed payloads are echoed as well.
func (o *Orchestrator) OnMessage(key domain.GroupKey, conn core.Connection, raw json.RawMessage) {
	o.Echo.Notify(key, conn, raw)

	if !o.Limiter.Allow(key) {
		log.Warn().Str("module", "app.orch").Str("group", string(key)).Str("conn", string(conn.ID())).Msg("rate limit exceeded; message discarded")
		return
	}

	update, err := Normalize(raw, key, o.BotID, o.Now())
	if err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("group", string(key)).Msg("malformed payload")
		if o.Sink != nil {
			o.Sink.EmitError(err)
		}
		return
	}
	if o.Sink != nil {
		o.Sink.EmitUpdate(update)
	}
}

// OnDisconnect removes conn from its group. Calling it more than once is harmless.
func (o *Orchestrator) OnDisconnect(key domain.GroupKey, conn core.Connection) {
	if !o.Registry.Leave(key, conn) {
		return
	}
	if o.Registry.MemberCount(key) == 0 {
		o.Limiter.Forget(key)
	}
}

// Send delivers an outgoing message to its recipient group.
func (o *Orchestrator) Send(ctx context.Context, msg domain.OutgoingMessage) (domain.DispatchResult, error) {
	return o.Dispatcher.Dispatch(ctx, msg)
}

func (o *Orchestrator) Rooms() []core.RoomInfo {
	return o.Registry.List()
}
