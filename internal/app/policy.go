package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/botsocket/internal/core"
	"github.com/dkeye/botsocket/pkg/domain"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a connection whose send queue is full.
type Policy interface {
	OnBackpressure(key domain.GroupKey, conn core.Connection) BackpressureAction
}

// DropPolicy loses the frame and keeps the connection.
type DropPolicy struct{}

func (DropPolicy) OnBackpressure(domain.GroupKey, core.Connection) BackpressureAction {
	return DropFrame
}

// KickPolicy closes slow connections; their disconnect cleanup removes them
// from the group.
type KickPolicy struct{}

func (KickPolicy) OnBackpressure(domain.GroupKey, core.Connection) BackpressureAction {
	return KickMember
}

func applyPolicy(p Policy, key domain.GroupKey, res core.BroadcastResult) {
	if p == nil {
		p = DropPolicy{}
	}
	for _, slow := range res.Dropped {
		switch p.OnBackpressure(key, slow) {
		case KickMember:
			log.Warn().Str("module", "app.policy").Str("group", string(key)).Str("conn", string(slow.ID())).Msg("kicking slow connection")
			slow.Close()
		case DropFrame:
			log.Debug().Str("module", "app.policy").Str("group", string(key)).Str("conn", string(slow.ID())).Msg("frame dropped")
		}
	}
}
