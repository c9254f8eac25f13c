package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/murmurhouse/murmur/internal/config"
	"github.com/murmurhouse/murmur/internal/domain"
	"github.com/murmurhouse/murmur/internal/room"
)

// avgCostPerMessage is the rough per-message spend used for the service-wide
// daily estimate: ~400 tokens of prompt+completion at gpt-4o-mini rates.
const avgCostPerMessage = 0.0012

// Handlers serves the read-only JSON API over the room supervisor.
type Handlers struct {
	Config *config.Config
	Rooms  *room.Supervisor
}

func (h *Handlers) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "murmur",
		"version": "1.0.0",
		"endpoints": []string{
			"/healthz",
			"/status",
			"/api/rooms/:room/stats",
			"/api/rooms/:room/archives",
			"/api/rooms/:room/search?q=",
			"/api/rooms/:room/stream",
		},
	})
}

func (h *Handlers) Healthz(c *gin.Context) {
	status := "healthy"
	if h.Config.OpenAI.APIKey == "" {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// Status aggregates every enabled room's daily usage into one view.
func (h *Handlers) Status(c *gin.Context) {
	views := h.Rooms.List()

	type roomStatus struct {
		Room          domain.RoomID `json:"room"`
		Running       bool          `json:"running"`
		MessagesToday int           `json:"messagesToday"`
		DailyLimit    int           `json:"dailyLimit"`
		Remaining     int           `json:"remaining"`
		Viewers       int           `json:"viewers"`
	}

	rooms := make([]roomStatus, 0, len(views))
	total := 0
	for _, v := range views {
		rooms = append(rooms, roomStatus{
			Room:          v.RoomID,
			Running:       v.IsRunning,
			MessagesToday: v.DailyUsage.Count,
			DailyLimit:    v.DailyUsage.Limit,
			Remaining:     v.DailyUsage.Remaining,
			Viewers:       v.Viewers,
		})
		total += v.DailyUsage.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"rooms":              rooms,
		"totalDailyMessages": total,
		"estimatedDailyCost": float64(total) * avgCostPerMessage,
	})
}

func (h *Handlers) RoomStats(c *gin.Context) {
	rm, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rm.Stats())
}

func (h *Handlers) RoomArchives(c *gin.Context) {
	rm, ok := h.lookup(c)
	if !ok {
		return
	}
	limit := queryInt(c, "limit", 20)
	archives, err := rm.Archives(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", c.Param("room")).Msg("archive listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "archive listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"archives": archives, "count": len(archives)})
}

func (h *Handlers) RoomSearch(c *gin.Context) {
	rm, ok := h.lookup(c)
	if !ok {
		return
	}
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}
	limit := queryInt(c, "limit", 10)
	hits, err := rm.SearchArchives(c.Request.Context(), q, limit)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", c.Param("room")).Msg("archive search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "archive search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "results": hits, "count": len(hits)})
}

// lookup resolves the :room parameter, writing the error response itself
// when the room cannot serve.
func (h *Handlers) lookup(c *gin.Context) (*room.Room, bool) {
	rm, err := h.Rooms.Room(domain.RoomID(c.Param("room")))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return rm, true
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
