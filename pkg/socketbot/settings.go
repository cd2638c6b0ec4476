package socketbot

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/botsocket/pkg/domain"
)

// DefaultPath is where the socket route is mounted when Settings.Path is empty.
const DefaultPath = "/socket.io"

// RateLimit caps inbound messages per user group. Zero disables it.
type RateLimit struct {
	Limit    int
	Interval time.Duration
}

// Settings configures a Bot. ID and Server are required.
type Settings struct {
	// ID is the bot identity used as recipient.id and in message ids.
	ID string
	// Server is the router the socket route is attached to.
	Server gin.IRoutes
	Path   string

	// Receives and Sends are handed to the host as-is; nil means defaults.
	Receives *domain.Receives
	Sends    *domain.Sends

	ReadLimit   int64
	PingPeriod  time.Duration
	SendBuffer  int
	CheckOrigin func(*http.Request) bool

	RateLimit         RateLimit
	KickSlowConsumers bool

	// Now is the clock used for timestamps; time.Now when nil.
	Now func() time.Time
}

func (s Settings) validate() error {
	if s.ID == "" {
		return &ConfigurationError{Field: "id"}
	}
	if s.Server == nil {
		return &ConfigurationError{Field: "server"}
	}
	return nil
}
