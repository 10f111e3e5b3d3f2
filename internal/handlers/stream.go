package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/crossfun/backend/internal/logger"
	"github.com/crossfun/backend/internal/middleware"
	ws "github.com/crossfun/backend/internal/websocket"
)

// StreamHandler upgrades authenticated clients onto the chat hub.
type StreamHandler struct {
	hub      *ws.Hub
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewStreamHandler(hub *ws.Hub, log *logger.Logger, allowedOrigins []string) *StreamHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &StreamHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				return origins[r.Header.Get("Origin")]
			},
		},
	}
}

// Stream handles GET /api/chat/stream. The caller authenticates via the
// bearer header or a token query parameter, then subscribes to token rooms
// over the socket.
func (h *StreamHandler) Stream(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, user.ID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
