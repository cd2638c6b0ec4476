package app

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/botsocket/internal/core"
	"github.com/dkeye/botsocket/pkg/domain"
)

func newTestOrchestrator(limiter *GroupRateLimiter) (*Orchestrator, *recordingSink) {
	sink := &recordingSink{}
	o := NewOrchestrator("botId", nil, limiter, sink, func() time.Time { return fixedNow })
	return o, sink
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestOrchestrator_OnConnectResolvesGroup(t *testing.T) {
	o, _ := newTestOrchestrator(nil)
	a, b := newFakeConn("a"), newFakeConn("b")

	assert.Equal(t, domain.GroupKey("something"), o.OnConnect(a, mustURL(t, "/socket.io?botmasterUserId=something")))
	assert.Equal(t, domain.GroupKey("b"), o.OnConnect(b, mustURL(t, "/socket.io")))
	assert.Equal(t, []core.RoomInfo{{Key: "b", MemberCount: 1}, {Key: "something", MemberCount: 1}}, o.Rooms())
}

func TestOrchestrator_OnMessageEmitsUpdateAndEcho(t *testing.T) {
	o, sink := newTestOrchestrator(nil)
	a, b := newFakeConn("a"), newFakeConn("b")
	u := mustURL(t, "/socket.io?botmasterUserId=userId1")
	key := o.OnConnect(a, u)
	o.OnConnect(b, u)

	o.OnMessage(key, a, json.RawMessage(`{"message":{"text":"Hello"}}`))

	require.Len(t, sink.updates, 1)
	assert.Empty(t, sink.errs)
	assert.Equal(t, "userId1", sink.updates[0].Sender.ID)
	assert.Equal(t, "Hello", sink.updates[0].Message.Text)
	assert.Empty(t, a.events(t))
	require.Len(t, b.events(t), 1)
}

func TestOrchestrator_OnMessageMalformed(t *testing.T) {
	o, sink := newTestOrchestrator(nil)
	a, b := newFakeConn("a"), newFakeConn("b")
	u := mustURL(t, "/socket.io?botmasterUserId=userId1")
	key := o.OnConnect(a, u)
	o.OnConnect(b, u)

	o.OnMessage(key, a, json.RawMessage(`"Hello World!"`))

	assert.Empty(t, sink.updates)
	require.Len(t, sink.errs, 1)
	assert.EqualError(t, sink.errs[0], "Expected JSON object but got 'string' Hello World! instead")
	evs := b.events(t)
	require.Len(t, evs, 1)
	assert.Equal(t, core.EventOwnMessage, evs[0].Name)
}

func TestOrchestrator_RateLimited(t *testing.T) {
	o, sink := newTestOrchestrator(NewGroupRateLimiter(1, time.Minute))
	a := newFakeConn("a")
	key := o.OnConnect(a, nil)

	o.OnMessage(key, a, json.RawMessage(`{"message":{"text":"1"}}`))
	o.OnMessage(key, a, json.RawMessage(`{"message":{"text":"2"}}`))

	require.Len(t, sink.updates, 1)
	assert.Equal(t, "1", sink.updates[0].Message.Text)
}

func TestOrchestrator_RateLimitedMessagesAreStillEchoed(t *testing.T) {
	o, sink := newTestOrchestrator(NewGroupRateLimiter(1, time.Minute))
	a, b := newFakeConn("a"), newFakeConn("b")
	u := mustURL(t, "/socket.io?botmasterUserId=userId1")
	key := o.OnConnect(a, u)
	o.OnConnect(b, u)

	o.OnMessage(key, a, json.RawMessage(`{"message":{"text":"1"}}`))
	o.OnMessage(key, a, json.RawMessage(`{"message":{"text":"2"}}`))

	require.Len(t, sink.updates, 1)
	echoes := b.events(t)
	require.Len(t, echoes, 2)
	assert.Equal(t, core.EventOwnMessage, echoes[1].Name)
	assert.JSONEq(t, `{"message":{"text":"2"}}`, string(echoes[1].Data))
	assert.Empty(t, a.events(t))
}

func TestOrchestrator_OnDisconnect(t *testing.T) {
	o, _ := newTestOrchestrator(NewGroupRateLimiter(1, time.Minute))
	a, b := newFakeConn("a"), newFakeConn("b")
	u := mustURL(t, "/socket.io?botmasterUserId=userId1")
	key := o.OnConnect(a, u)
	o.OnConnect(b, u)

	o.OnDisconnect(key, a)
	o.OnDisconnect(key, a)

	_, err := o.Send(context.Background(), textTo("userId1", "after"))
	require.NoError(t, err)
	assert.Empty(t, a.events(t))
	assert.Len(t, b.events(t), 1)

	o.OnDisconnect(key, b)
	assert.Empty(t, o.Rooms())
	_, err = o.Send(context.Background(), textTo("userId1", "gone"))
	assert.NoError(t, err)
}
