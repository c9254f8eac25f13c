package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/murmurhouse/murmur/internal/domain"
	"github.com/murmurhouse/murmur/internal/room"
)

var ErrBackpressure = errors.New("backpressure")

// StreamWSController upgrades viewer connections and wires them into rooms.
type StreamWSController struct {
	Rooms   *room.Supervisor
	limiter *ConnectRateLimiter
}

func NewStreamWSController(sup *room.Supervisor) *StreamWSController {
	return &StreamWSController{
		Rooms:   sup,
		limiter: NewConnectRateLimiter(10, time.Minute),
	}
}

// WsViewerConn is one viewer's websocket. The send channel is drained by
// writePump; TrySend never blocks the room actor.
type WsViewerConn struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *WsViewerConn) ID() string { return c.id }

func (c *WsViewerConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsViewerConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleStream upgrades the request and attaches the viewer to the room.
// The snapshot goes out first, then live events until the socket drops.
func (ctl *StreamWSController) HandleStream(ctx context.Context, c *gin.Context) {
	roomID := domain.RoomID(c.Param("room"))
	rm, err := ctl.Rooms.Room(roomID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrRoomDisabled) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	sid := c.GetString("client_token")
	if !ctl.limiter.Allow(sid) {
		log.Warn().Str("module", "stream").Str("sid", sid).Msg("reconnecting too fast")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "reconnecting too fast"})
		return
	}
	log.Info().Str("module", "stream").Str("room", string(roomID)).Str("sid", sid).Msg("new WS viewer")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}

	conn := &WsViewerConn{
		// one browser can hold several tabs on the same room
		id:   uuid.NewString(),
		conn: ws,
		send: make(chan []byte, 32),
	}

	snap, err := rm.Connect(conn)
	if err != nil {
		log.Warn().Err(err).Str("module", "stream").Str("room", string(roomID)).Msg("connect refused")
		conn.Close()
		return
	}
	ctl.sendConnected(conn, snap)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, rm, conn)
}

func (ctl *StreamWSController) sendConnected(c *WsViewerConn, snap room.Snapshot) {
	ev := struct {
		Type string `json:"type"`
		room.Snapshot
	}{Type: room.EventConnected, Snapshot: snap}

	b, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "stream").Msg("snapshot marshal")
		return
	}
	if err := c.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "stream").Msg("snapshot send")
	}
}
