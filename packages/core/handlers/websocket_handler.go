package handlers

import (
	"net/http"

	"robotics-event-api/packages/core/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler accepts connections from the given origins, or from
// anywhere when the list is empty.
func NewWebSocketHandler(hub *realtime.Hub, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// ServeMatchControl subscribes to status changes of every match
// @Summary Match control stream
// @Description WebSocket stream of match.status events for all matches
// @Tags realtime
// @Router /ws/match-control [get]
func (h *WebSocketHandler) ServeMatchControl(c *gin.Context) {
	h.serve(c, realtime.RoomMatchControl)
}

// ServeMatch subscribes to the events of one match
// @Summary Match stream
// @Description WebSocket stream of match.status and score.updated events for one match
// @Tags realtime
// @Param id path int true "Match ID"
// @Router /ws/matches/{id} [get]
func (h *WebSocketHandler) ServeMatch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	h.serve(c, realtime.MatchRoom(id))
}

func (h *WebSocketHandler) serve(c *gin.Context, room string) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("room", room), zap.Error(err))
		return
	}

	client := realtime.NewClient(h.hub, conn, room)
	if !h.hub.Join(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
