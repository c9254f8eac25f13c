package httpapi

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/murmurhouse/murmur/internal/adapters/stream"
	"github.com/murmurhouse/murmur/internal/config"
	"github.com/murmurhouse/murmur/internal/room"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware tags every browser with a stable cookie token so
// logs can correlate a viewer across reconnects.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// CORSMiddleware mirrors the permissive policy of the public API: any origin
// may read room state and open a stream.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, sup *room.Supervisor) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("MurmurSessions", store))
	r.Use(ClientTokenMiddleware())
	r.Use(CORSMiddleware())

	h := &Handlers{Config: cfg, Rooms: sup}
	ws := stream.NewStreamWSController(sup)

	r.GET("/", h.Banner)
	r.GET("/healthz", h.Healthz)
	r.GET("/status", h.Status)

	log.Info().Str("module", "adapters.http").Int("port", cfg.Port).Msg("router setup")

	api := r.Group("/api")
	rooms := api.Group("/rooms/:room")
	rooms.GET("/stats", h.RoomStats)
	rooms.GET("/archives", h.RoomArchives)
	rooms.GET("/search", h.RoomSearch)
	rooms.GET("/stream", func(c *gin.Context) {
		ws.HandleStream(ctx, c)
	})

	return r
}
