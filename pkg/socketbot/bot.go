// Package socketbot is a bot transport that talks to clients over WebSocket.
//
// Connections opened with the same botmasterUserId query parameter share a
// group: replies go to every connection of the group, and when one of them
// sends a message the others get an "own message" event with the payload.
package socketbot

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/botsocket/internal/adapters/ws"
	"github.com/dkeye/botsocket/internal/app"
	"github.com/dkeye/botsocket/internal/core"
	"github.com/dkeye/botsocket/pkg/domain"
)

// Type is the transport name reported to the host.
const Type = "socketio"

// RoomInfo describes one user group and how many connections it has.
type RoomInfo = core.RoomInfo

// UpdateHandler receives every well-formed inbound message.
type UpdateHandler func(b *Bot, u domain.Update)

// ErrorHandler receives per-message errors such as malformed payloads.
type ErrorHandler func(b *Bot, err error)

// Bot is the adapter instance the host framework works with.
type Bot struct {
	id       string
	receives *domain.Receives
	sends    *domain.Sends

	orch *app.Orchestrator
	ctl  *ws.Controller

	mu             sync.RWMutex
	updateHandlers []UpdateHandler
	errorHandlers  []ErrorHandler
}

// New validates settings and mounts the socket route on settings.Server.
func New(settings Settings) (*Bot, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}

	b := &Bot{
		id:       settings.ID,
		receives: settings.Receives,
		sends:    settings.Sends,
	}
	if b.receives == nil {
		b.receives = domain.DefaultReceives()
	}
	if b.sends == nil {
		b.sends = domain.DefaultSends()
	}

	var policy app.Policy = app.DropPolicy{}
	if settings.KickSlowConsumers {
		policy = app.KickPolicy{}
	}
	limiter := app.NewGroupRateLimiter(settings.RateLimit.Limit, settings.RateLimit.Interval)
	b.orch = app.NewOrchestrator(settings.ID, policy, limiter, b, settings.Now)
	b.ctl = ws.NewController(b.orch, ws.Options{
		ReadLimit:   settings.ReadLimit,
		PingPeriod:  settings.PingPeriod,
		SendBuffer:  settings.SendBuffer,
		CheckOrigin: settings.CheckOrigin,
	})

	path := settings.Path
	if path == "" {
		path = DefaultPath
	}
	settings.Server.GET(path, b.ctl.Handle)
	log.Info().Str("module", "socketbot").Str("bot", b.id).Str("path", path).Msg("socket route mounted")
	return b, nil
}

func (b *Bot) ID() string { return b.id }

func (b *Bot) Type() string { return Type }

func (b *Bot) Receives() *domain.Receives { return b.receives }

func (b *Bot) Sends() *domain.Sends { return b.sends }

// Rooms lists the user groups that currently have live connections.
func (b *Bot) Rooms() []RoomInfo { return b.orch.Rooms() }

// Connections is the number of live sockets across all groups.
func (b *Bot) Connections() int { return b.ctl.Live() }

// OnUpdate registers h for every normalized inbound message. Handlers run in
// registration order on the sending connection's goroutine.
func (b *Bot) OnUpdate(h UpdateHandler) {
	b.mu.Lock()
	b.updateHandlers = append(b.updateHandlers, h)
	b.mu.Unlock()
}

// OnError registers h for per-message errors.
func (b *Bot) OnError(h ErrorHandler) {
	b.mu.Lock()
	b.errorHandlers = append(b.errorHandlers, h)
	b.mu.Unlock()
}

// EmitUpdate implements app.Sink.
func (b *Bot) EmitUpdate(u domain.Update) {
	b.mu.RLock()
	handlers := append([]UpdateHandler(nil), b.updateHandlers...)
	b.mu.RUnlock()
	for _, h := range handlers {
		h(b, u)
	}
}

// EmitError implements app.Sink.
func (b *Bot) EmitError(err error) {
	b.mu.RLock()
	handlers := append([]ErrorHandler(nil), b.errorHandlers...)
	b.mu.RUnlock()
	if len(handlers) == 0 {
		log.Warn().Err(err).Str("module", "socketbot").Str("bot", b.id).Msg("unhandled bot error")
		return
	}
	for _, h := range handlers {
		h(b, err)
	}
}

// Close disconnects every client and refuses new ones.
func (b *Bot) Close() {
	b.ctl.Close()
}
