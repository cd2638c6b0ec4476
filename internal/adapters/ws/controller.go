// Package ws attaches the bot to clients over gorilla/websocket.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/botsocket/internal/app"
)

// Options tunes the socket transport. Zero values take the defaults below.
type Options struct {
	ReadLimit   int64
	PingPeriod  time.Duration
	WriteWait   time.Duration
	SendBuffer  int
	CheckOrigin func(*http.Request) bool
}

const (
	defaultReadLimit  = 32768
	defaultPingPeriod = 54 * time.Second
	defaultWriteWait  = 10 * time.Second
	defaultSendBuffer = 256
)

func (o Options) withDefaults() Options {
	if o.ReadLimit == 0 {
		o.ReadLimit = defaultReadLimit
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = defaultPingPeriod
	}
	if o.WriteWait <= 0 {
		o.WriteWait = defaultWriteWait
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = defaultSendBuffer
	}
	if o.CheckOrigin == nil {
		o.CheckOrigin = func(*http.Request) bool { return true }
	}
	return o
}

// Controller upgrades requests and runs one read and one write pump per
// connection, feeding the orchestrator.
type Controller struct {
	orch     *app.Orchestrator
	opts     Options
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*WsConn]struct{}
	closed bool
}

func NewController(orch *app.Orchestrator, opts Options) *Controller {
	opts = opts.withDefaults()
	return &Controller{
		orch: orch,
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		conns: make(map[*WsConn]struct{}),
	}
}

// Handle is the gin handler for the socket route.
func (ctl *Controller) Handle(c *gin.Context) {
	ctl.ServeHTTP(c.Writer, c.Request)
}

func (ctl *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctl.mu.Lock()
	closed := ctl.closed
	ctl.mu.Unlock()
	if closed {
		http.Error(w, "bot is shut down", http.StatusServiceUnavailable)
		return
	}

	ws, err := ctl.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Str("remote", r.RemoteAddr).Msg("ws upgrade")
		return
	}

	conn := newWsConn(ws, ctl.opts.SendBuffer)
	if !ctl.track(conn) {
		conn.Close()
		return
	}
	key := ctl.orch.OnConnect(conn, r.URL)
	log.Info().Str("module", "ws").Str("conn", string(conn.id)).Str("group", string(key)).Str("remote", r.RemoteAddr).Msg("new WS connection")

	go ctl.writePump(conn)
	go ctl.readPump(key, conn)
}

func (ctl *Controller) track(c *WsConn) bool {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if ctl.closed {
		return false
	}
	ctl.conns[c] = struct{}{}
	return true
}

func (ctl *Controller) untrack(c *WsConn) {
	ctl.mu.Lock()
	delete(ctl.conns, c)
	ctl.mu.Unlock()
}

// Close refuses new connections and closes the live ones. Their read pumps
// run the usual disconnect cleanup.
func (ctl *Controller) Close() {
	ctl.mu.Lock()
	ctl.closed = true
	conns := make([]*WsConn, 0, len(ctl.conns))
	for c := range ctl.conns {
		conns = append(conns, c)
	}
	ctl.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
	log.Info().Str("module", "ws").Int("closed", len(conns)).Msg("controller closed")
}

// Live is the number of tracked connections.
func (ctl *Controller) Live() int {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return len(ctl.conns)
}
