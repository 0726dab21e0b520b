package handlers

import (
	"net/http"

	"github.com/Levi-LMN/Trivia/internal/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	attemptService *services.AttemptService
	scoringService *services.ScoringService
}

func NewQuizHandler(attemptService *services.AttemptService, scoringService *services.ScoringService) *QuizHandler {
	return &QuizHandler{attemptService: attemptService, scoringService: scoringService}
}

// ListSessions godoc
// @Summary      List active quiz sessions
// @Description  Active sessions decorated with the caller's progress and live countdowns
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.SessionOverview
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/quizzes [get]
func (h *QuizHandler) ListSessions(c *gin.Context) {
	participantID := c.GetUint("participant_id")

	overview, err := h.attemptService.Overview(participantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list quiz sessions"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

// MyResults godoc
// @Summary      All of the caller's attempt results
// @Description  Scored summaries of every attempt, newest first
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.AttemptSummary
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/results [get]
func (h *QuizHandler) MyResults(c *gin.Context) {
	participantID := c.GetUint("participant_id")

	summaries, err := h.scoringService.ParticipantSummaries(participantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load results"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

type SessionResultResponse struct {
	Summary *services.AttemptSummary `json:"summary"`
	Answers []services.AnswerDetail  `json:"answers"`
}

// SessionResult godoc
// @Summary      The caller's result for one quiz session
// @Description  Graded answers and totals for the most recent attempt at the session
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Success      200 {object} SessionResultResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/result [get]
func (h *QuizHandler) SessionResult(c *gin.Context) {
	participantID := c.GetUint("participant_id")
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	summary, answers, err := h.scoringService.AttemptResult(participantID, sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SessionResultResponse{Summary: summary, Answers: answers})
}

// Leaderboard godoc
// @Summary      Cross-session leaderboard
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.LeaderboardEntry
// @Router       /api/v1/leaderboard [get]
func (h *QuizHandler) Leaderboard(c *gin.Context) {
	entries, err := h.scoringService.Leaderboard(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
