package handlers

import (
	"errors"
	"net/http"

	"github.com/Levi-LMN/Trivia/internal/services"
	"github.com/Levi-LMN/Trivia/internal/ws"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	attemptService *services.AttemptService
	hub            *ws.Hub
}

func NewAttemptHandler(attemptService *services.AttemptService, hub *ws.Hub) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService, hub: hub}
}

type SubmitAnswerRequest struct {
	QuestionID uint     `json:"question_id" binding:"required" example:"7"`
	Letter     string   `json:"letter" example:"B"`
	Letters    []string `json:"letters" example:"A,C"`
	Blanks     []string `json:"blanks" example:"Mordecai,Haman"`
}

// Enter godoc
// @Summary      Enter a quiz session
// @Description  First visit opens an attempt; later visits resume it at the next unanswered question
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Success      200 {object} services.AttemptState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/attempt [get]
func (h *AttemptHandler) Enter(c *gin.Context) {
	participantID := c.GetUint("participant_id")
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	state, err := h.attemptService.Enter(participantID, sessionID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	if state.Completed {
		h.hub.Broadcast(state.AttemptID, ws.Event{Type: "attempt_completed", Data: state})
	}
	c.JSON(http.StatusOK, state)
}

// SubmitAnswer godoc
// @Summary      Submit one answer
// @Description  Grades and records the answer; resubmitting an answered question is a no-op that reports the original outcome
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Param        request body SubmitAnswerRequest true "Answer payload; letter, letters or blanks depending on question type"
// @Success      200 {object} services.SubmitResult
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/answer [post]
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	participantID := c.GetUint("participant_id")
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sub := services.Submission{
		Letter:  req.Letter,
		Letters: req.Letters,
		Blanks:  req.Blanks,
	}
	result, err := h.attemptService.SubmitAnswer(participantID, sessionID, req.QuestionID, sub)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrSessionNotFound) || errors.Is(err, services.ErrQuestionNotInSession) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	if result.Accepted {
		h.hub.Broadcast(result.State.AttemptID, ws.Event{Type: "answer_recorded", Data: result.State})
	}
	if result.State != nil && result.State.Completed {
		h.hub.Broadcast(result.State.AttemptID, ws.Event{Type: "attempt_completed", Data: result.State})
	}
	c.JSON(http.StatusOK, result)
}

// Finish godoc
// @Summary      Finish the attempt
// @Description  Seals the open attempt regardless of progress; used for manual submission and anti-cheat auto-submit
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Success      200 {object} services.AttemptState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/finish [post]
func (h *AttemptHandler) Finish(c *gin.Context) {
	participantID := c.GetUint("participant_id")
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	state, err := h.attemptService.Finish(participantID, sessionID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(state.AttemptID, ws.Event{Type: "attempt_completed", Data: state})
	c.JSON(http.StatusOK, state)
}

// Status godoc
// @Summary      Poll the countdown
// @Description  Server-authoritative remaining seconds for the caller's open attempt; read-only
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Success      200 {object} services.TimerStatus
// @Router       /api/v1/quizzes/{id}/status [get]
func (h *AttemptHandler) Status(c *gin.Context) {
	participantID := c.GetUint("participant_id")
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.attemptService.Status(participantID, sessionID))
}
