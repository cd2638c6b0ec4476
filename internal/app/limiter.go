package app

import (
	"sync"
	"time"

	"github.com/dkeye/botsocket/pkg/domain"
)

// GroupRateLimiter is a sliding window limit on inbound messages per group.
// All connections of a group share one window.
type GroupRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.GroupKey][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

// NewGroupRateLimiter returns nil when limit or interval is not positive,
// which Allow treats as unlimited.
func NewGroupRateLimiter(limit int, interval time.Duration) *GroupRateLimiter {
	if limit <= 0 || interval <= 0 {
		return nil
	}
	return &GroupRateLimiter{
		history:  make(map[domain.GroupKey][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *GroupRateLimiter) Allow(key domain.GroupKey) bool {
	if rl == nil {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[key]
	fresh := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[key] = fresh
		return false
	}

	rl.history[key] = append(fresh, now)
	return true
}

// Forget drops the window of a group that has no connections left.
func (rl *GroupRateLimiter) Forget(key domain.GroupKey) {
	if rl == nil {
		return
	}
	rl.mu.Lock()
	delete(rl.history, key)
	rl.mu.Unlock()
}
