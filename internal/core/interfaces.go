package core

import "github.com/dkeye/botsocket/pkg/domain"

// BroadcastResult reports delivery stats/backpressure to the caller.
type BroadcastResult struct {
	SentTo  int
	Dropped []Connection
}

// RoomInfo is a read-only view of one group for diagnostics.
type RoomInfo struct {
	Key         domain.GroupKey `json:"key"`
	MemberCount int             `json:"client_count"`
}
