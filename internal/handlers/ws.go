package handlers

import (
	"log"
	"net/http"

	"github.com/Levi-LMN/Trivia/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleAttemptWebSocket godoc
// @Summary      Live monitor feed for one attempt
// @Description  Admin-side read-only stream of answer, completion and cheat events for an attempt in progress
// @Tags         websocket
// @Param        id path int true "Attempt ID"
// @Router       /ws/attempt/{id} [get]
func (h *WSHandler) HandleAttemptWebSocket(c *gin.Context) {
	attemptID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddConnection(attemptID, conn)
	defer h.hub.RemoveConnection(attemptID, conn)

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
