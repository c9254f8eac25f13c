package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/murmurhouse/murmur/internal/room"
)

func (ctl *StreamWSController) writePump(ctx context.Context, c *WsViewerConn) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "stream").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "stream").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "stream").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "stream").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *StreamWSController) readPump(ctx context.Context, cancel context.CancelFunc, rm *room.Room, c *WsViewerConn) {
	defer func() {
		log.Info().Str("module", "stream").Str("viewer", c.id).Msg("readPump closing")
		rm.Disconnect(c.id)
		cancel()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Str("module", "stream").Str("viewer", c.id).Msg("readPump read error")
				}
				return
			}
			ctl.handleFrame(c, data)
		}
	}
}

// handleFrame processes the few client->server frames viewers may send.
// The stream is otherwise one-way.
func (ctl *StreamWSController) handleFrame(c *WsViewerConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "stream").Msg("bad json frame")
		return
	}

	switch env.Type {
	case "ping":
		b, _ := json.Marshal(map[string]string{"type": "pong"})
		_ = c.TrySend(b)
	default:
		log.Debug().Str("module", "stream").Str("type", env.Type).Msg("ignoring client frame")
	}
}
