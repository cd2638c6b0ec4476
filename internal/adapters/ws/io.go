package ws

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/botsocket/internal/core"
	"github.com/dkeye/botsocket/pkg/domain"
)

func (ctl *Controller) writePump(c *WsConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Debug().Err(err).Str("module", "ws").Str("conn", string(c.id)).Msg("writePump set deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("module", "ws").Str("conn", string(c.id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("module", "ws").Str("conn", string(c.id)).Msg("writePump ping error")
				return
			}
		}
	}
}

// readPump owns the disconnect: whatever ends the connection, cleanup runs
// here exactly once.
func (ctl *Controller) readPump(key domain.GroupKey, c *WsConn) {
	defer func() {
		ctl.orch.OnDisconnect(key, c)
		ctl.untrack(c)
		c.Close()
		log.Info().Str("module", "ws").Str("conn", string(c.id)).Str("group", string(key)).Msg("connection closed")
	}()

	pongWait := ctl.opts.PingPeriod * 10 / 9
	if ctl.opts.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.opts.ReadLimit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			logReadError(c, err)
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		ctl.handleFrame(key, c, data)
	}
}

func (ctl *Controller) handleFrame(key domain.GroupKey, c *WsConn, data []byte) {
	ev := core.DecodeEvent(data)
	if ev.Name != core.EventMessage {
		log.Debug().Str("module", "ws").Str("conn", string(c.id)).Str("event", ev.Name).Msg("ignoring event")
		return
	}
	ctl.orch.OnMessage(key, c, ev.Data)
}

func logReadError(c *WsConn, err error) {
	switch {
	case c.isClosed():
	case errors.Is(err, websocket.ErrReadLimit):
		log.Warn().Str("module", "ws").Str("conn", string(c.id)).Msg("message exceeded read limit")
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		log.Debug().Str("module", "ws").Str("conn", string(c.id)).Msg("client disconnected")
	default:
		log.Info().Err(err).Str("module", "ws").Str("conn", string(c.id)).Msg("read error")
	}
}
