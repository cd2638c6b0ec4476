package core

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/botsocket/pkg/domain"
)

// Registry maps group keys to the live connections of that group.
// It never closes adapter-owned resources.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[domain.GroupKey]map[ConnID]Connection
	byConn map[ConnID]domain.GroupKey
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[domain.GroupKey]map[ConnID]Connection),
		byConn: make(map[ConnID]domain.GroupKey),
	}
}

// Join adds conn to the group. A connection belongs to one group at a time,
// so joining another group moves it.
func (r *Registry) Join(key domain.GroupKey, conn Connection) {
	id := conn.ID()
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byConn[id]; ok {
		if prev == key {
			return
		}
		r.removeLocked(prev, id)
	}

	members, ok := r.rooms[key]
	if !ok {
		members = make(map[ConnID]Connection)
		r.rooms[key] = members
	}
	members[id] = conn
	r.byConn[id] = key
	log.Info().Str("module", "core.registry").Str("conn", string(id)).Str("group", string(key)).Int("members", len(members)).Msg("member joined")
}

// Leave removes conn from the group and reports whether it was a member.
func (r *Registry) Leave(key domain.GroupKey, conn Connection) bool {
	id := conn.ID()
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.byConn[id]; !ok || cur != key {
		return false
	}
	r.removeLocked(key, id)
	log.Info().Str("module", "core.registry").Str("conn", string(id)).Str("group", string(key)).Msg("member left")
	return true
}

func (r *Registry) removeLocked(key domain.GroupKey, id ConnID) {
	delete(r.byConn, id)
	members, ok := r.rooms[key]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(r.rooms, key)
	}
}

// GroupOf returns the group a connection currently belongs to.
func (r *Registry) GroupOf(id ConnID) (domain.GroupKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.byConn[id]
	return key, ok
}

// MembersExcept returns a snapshot of the group without except.
// A nil except returns every member. Unknown groups yield nil.
func (r *Registry) MembersExcept(key domain.GroupKey, except Connection) []Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[key]
	if !ok {
		return nil
	}
	out := make([]Connection, 0, len(members))
	for id, c := range members {
		if except != nil && id == except.ID() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// AllMembers returns a snapshot of every connection in the group.
func (r *Registry) AllMembers(key domain.GroupKey) []Connection {
	return r.MembersExcept(key, nil)
}

// Broadcast writes f to every member of the group except except.
// Writes happen on a snapshot so slow members never hold the lock.
func (r *Registry) Broadcast(key domain.GroupKey, except Connection, f Frame) BroadcastResult {
	res := BroadcastResult{}
	for _, c := range r.MembersExcept(key, except) {
		if err := c.TrySend(f); err != nil {
			res.Dropped = append(res.Dropped, c)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.registry").Str("group", string(key)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *Registry) MemberCount(key domain.GroupKey) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[key])
}

// Len is the number of live connections across all groups.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

// List returns every non-empty group sorted by key.
func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RoomInfo, 0, len(r.rooms))
	for key, members := range r.rooms {
		out = append(out, RoomInfo{Key: key, MemberCount: len(members)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
