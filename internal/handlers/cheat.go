package handlers

import (
	"net/http"

	"github.com/Levi-LMN/Trivia/internal/services"
	"github.com/Levi-LMN/Trivia/internal/ws"

	"github.com/gin-gonic/gin"
)

type CheatHandler struct {
	cheatService *services.CheatService
	hub          *ws.Hub
}

func NewCheatHandler(cheatService *services.CheatService, hub *ws.Hub) *CheatHandler {
	return &CheatHandler{cheatService: cheatService, hub: hub}
}

type FlagCheatRequest struct {
	Kind string `json:"kind" binding:"required" example:"tab_switch"`
}

type FlagCheatResponse struct {
	Recorded bool  `json:"recorded"`
	Total    int64 `json:"total"`
}

// Flag godoc
// @Summary      Report a client-side violation
// @Description  Records the violation against the caller's open attempt; without one the flag is dropped, not an error
// @Tags         cheat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Param        request body FlagCheatRequest true "Violation kind"
// @Success      200 {object} FlagCheatResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/cheat [post]
func (h *CheatHandler) Flag(c *gin.Context) {
	participantID := c.GetUint("participant_id")
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req FlagCheatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	attemptID, total, recorded := h.cheatService.Record(participantID, sessionID, req.Kind)
	if recorded {
		h.hub.Broadcast(attemptID, ws.Event{Type: "cheat_flagged", Data: gin.H{
			"violation": req.Kind,
			"total":     total,
		}})
	}
	c.JSON(http.StatusOK, FlagCheatResponse{Recorded: recorded, Total: total})
}
