package socketbot

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/botsocket/internal/core"
	"github.com/dkeye/botsocket/pkg/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	bot     *Bot
	srv     *httptest.Server
	path    string
	updates chan domain.Update
	errs    chan error
}

func newTestEnv(t *testing.T, mutate func(*Settings)) *testEnv {
	t.Helper()
	engine := gin.New()
	settings := Settings{ID: "botId", Server: engine}
	if mutate != nil {
		mutate(&settings)
	}
	b, err := New(settings)
	require.NoError(t, err)

	env := &testEnv{
		bot:     b,
		srv:     httptest.NewServer(engine),
		path:    settings.Path,
		updates: make(chan domain.Update, 16),
		errs:    make(chan error, 16),
	}
	if env.path == "" {
		env.path = DefaultPath
	}
	b.OnUpdate(func(_ *Bot, u domain.Update) { env.updates <- u })
	b.OnError(func(_ *Bot, err error) { env.errs <- err })

	t.Cleanup(func() {
		b.Close()
		env.srv.Close()
	})
	return env
}

func (e *testEnv) dial(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(e.srv.URL, "http") + e.path
	if userID != "" {
		u += "?botmasterUserId=" + url.QueryEscape(userID)
	}
	c, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// waitMembers blocks until the group has n live connections.
func (e *testEnv) waitMembers(t *testing.T, key string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, r := range e.bot.Rooms() {
			if string(r.Key) == key {
				return r.MemberCount == n
			}
		}
		return n == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func (e *testEnv) nextUpdate(t *testing.T) domain.Update {
	t.Helper()
	select {
	case u := <-e.updates:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return domain.Update{}
	}
}

func (e *testEnv) nextError(t *testing.T) error {
	t.Helper()
	select {
	case err := <-e.errs:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error")
		return nil
	}
}

func sendMessage(t *testing.T, c *websocket.Conn, data any) {
	t.Helper()
	require.NoError(t, c.WriteJSON(map[string]any{"event": "message", "data": data}))
}

func readEvent(t *testing.T, c *websocket.Conn) core.Event {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := c.ReadMessage()
	require.NoError(t, err)
	var ev core.Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func readOutgoing(t *testing.T, c *websocket.Conn) domain.OutgoingMessage {
	t.Helper()
	ev := readEvent(t, c)
	require.Equal(t, core.EventMessage, ev.Name)
	var msg domain.OutgoingMessage
	require.NoError(t, json.Unmarshal(ev.Data, &msg))
	return msg
}
