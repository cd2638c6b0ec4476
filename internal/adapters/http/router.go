package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/botsocket/internal/config"
	"github.com/dkeye/botsocket/pkg/socketbot"
)

// RoomLister is the part of a bot the diagnostics API reads.
type RoomLister interface {
	ID() string
	Rooms() []socketbot.RoomInfo
	Connections() int
}

func SetupRouter(cfg *config.Config) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}

// RegisterAPI mounts /health and /api/rooms for bot.
func RegisterAPI(r gin.IRoutes, bot RoomLister) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "bot": bot.ID(), "connections": bot.Connections()})
	})
	r.GET("/api/rooms", func(c *gin.Context) {
		rooms := bot.Rooms()
		if rooms == nil {
			rooms = []socketbot.RoomInfo{}
		}
		c.JSON(http.StatusOK, gin.H{"rooms": rooms})
	})
}
