package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// UserIDKey is the gin context key the auth middleware stores the caller under
const UserIDKey = "userID"

// Handler upgrades authenticated requests to the live review feed
type Handler struct {
	hub      *Hub
	messages *MessageHandler
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		messages: NewMessageHandler(logger),
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Open the live review feed
// @Description Upgrades to a WebSocket that receives snapshot review events addressed to the caller
// @Tags reviews, websocket
// @Security BearerAuth
// @Param token query string false "Access token when headers cannot be set"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /ws/reviews [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	value, exists := c.Get(UserIDKey)
	userID, ok := value.(int64)
	if !exists || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   gin.H{"kind": "Unauthenticated", "message": "Authentication required"},
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		send:     make(chan []byte, 64),
		userID:   userID,
		messages: h.messages,
		logger:   h.logger,
	}
	if !h.hub.attach(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
