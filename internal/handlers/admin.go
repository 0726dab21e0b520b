package handlers

import (
	"net/http"

	"github.com/Levi-LMN/Trivia/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	authService    *services.AuthService
	adminService   *services.AdminService
	scoringService *services.ScoringService
}

func NewAdminHandler(authService *services.AuthService, adminService *services.AdminService, scoringService *services.ScoringService) *AdminHandler {
	return &AdminHandler{authService: authService, adminService: adminService, scoringService: scoringService}
}

type AdminLoginRequest struct {
	Passphrase string `json:"passphrase" binding:"required" example:"letmein"`
}

type AdminTokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// Login godoc
// @Summary      Admin login
// @Description  Exchange the shared passphrase for an admin token
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body AdminLoginRequest true "Passphrase"
// @Success      200 {object} AdminTokenResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.authService.AdminLogin(req.Passphrase)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, AdminTokenResponse{Token: token})
}

// Stats godoc
// @Summary      Dashboard counters
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} services.DashboardStats
// @Router       /api/v1/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListSessions godoc
// @Summary      List quiz sessions with counts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.SessionSummary
// @Router       /api/v1/admin/quizzes [get]
func (h *AdminHandler) ListSessions(c *gin.Context) {
	sessions, err := h.adminService.ListSessions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list quiz sessions"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// CreateSession godoc
// @Summary      Create a quiz session
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.SessionInput true "Session data"
// @Success      201 {object} QuizSession
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes [post]
func (h *AdminHandler) CreateSession(c *gin.Context) {
	var input services.SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	qs, err := h.adminService.CreateSession(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, qs)
}

// UpdateSession godoc
// @Summary      Update a quiz session
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Param        request body services.SessionInput true "Session data"
// @Success      200 {object} QuizSession
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id} [put]
func (h *AdminHandler) UpdateSession(c *gin.Context) {
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input services.SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	qs, err := h.adminService.UpdateSession(sessionID, input)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, qs)
}

// ToggleActive godoc
// @Summary      Toggle a session's active flag
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id}/toggle-active [post]
func (h *AdminHandler) ToggleActive(c *gin.Context) {
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.ToggleActive(sessionID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "session visibility toggled"})
}

// ToggleRandomize godoc
// @Summary      Toggle a session's question shuffling
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id}/toggle-randomize [post]
func (h *AdminHandler) ToggleRandomize(c *gin.Context) {
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.ToggleRandomize(sessionID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "randomization toggled"})
}

// DeleteSession godoc
// @Summary      Delete a quiz session and everything under it
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id} [delete]
func (h *AdminHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteSession(sessionID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "session deleted"})
}

// ListSections godoc
// @Summary      List a session's sections
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Success      200 {array} services.SectionSummary
// @Router       /api/v1/admin/quizzes/{id}/sections [get]
func (h *AdminHandler) ListSections(c *gin.Context) {
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	sections, err := h.adminService.ListSections(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list sections"})
		return
	}
	c.JSON(http.StatusOK, sections)
}

// CreateSection godoc
// @Summary      Add a section to a session
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz session ID"
// @Param        request body services.SectionInput true "Section data"
// @Success      201 {object} Section
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id}/sections [post]
func (h *AdminHandler) CreateSection(c *gin.Context) {
	sessionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input services.SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sec, err := h.adminService.CreateSection(sessionID, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sec)
}

// UpdateSection godoc
// @Summary      Update a section
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Section ID"
// @Param        request body services.SectionInput true "Section data"
// @Success      200 {object} Section
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/sections/{id} [put]
func (h *AdminHandler) UpdateSection(c *gin.Context) {
	sectionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input services.SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sec, err := h.adminService.UpdateSection(sectionID, input)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, sec)
}

// DeleteSection godoc
// @Summary      Delete a section and its questions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Section ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/sections/{id} [delete]
func (h *AdminHandler) DeleteSection(c *gin.Context) {
	sectionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteSection(sectionID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "section deleted"})
}

// ListQuestions godoc
// @Summary      List a section's questions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Section ID"
// @Success      200 {array} Question
// @Router       /api/v1/admin/sections/{id}/questions [get]
func (h *AdminHandler) ListQuestions(c *gin.Context) {
	sectionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	questions, err := h.adminService.ListQuestions(sectionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list questions"})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// CreateQuestion godoc
// @Summary      Add a question to a section
// @Description  The canonical answer is validated against the question type before anything is stored
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Section ID"
// @Param        request body services.QuestionInput true "Question data"
// @Success      201 {object} Question
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/sections/{id}/questions [post]
func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	sectionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	q, err := h.adminService.CreateQuestion(sectionID, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, q)
}

// UpdateQuestion godoc
// @Summary      Update a question
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Param        request body services.QuestionInput true "Question data"
// @Success      200 {object} Question
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/questions/{id} [put]
func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	questionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	q, err := h.adminService.UpdateQuestion(questionID, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, q)
}

// DeleteQuestion godoc
// @Summary      Delete a question
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/questions/{id} [delete]
func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteQuestion(questionID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}

// Participants godoc
// @Summary      Participant roster with score and cheat aggregates
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.ParticipantRow
// @Router       /api/v1/admin/participants [get]
func (h *AdminHandler) Participants(c *gin.Context) {
	rows, err := h.adminService.Participants()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list participants"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type ParticipantDetailResponse struct {
	Participant *Participant              `json:"participant"`
	Attempts    []services.AttemptSummary `json:"attempts"`
	RewardCodes []services.RewardCodeRow  `json:"reward_codes"`
	CheatFlags  []services.CheatFlagRow   `json:"cheat_flags"`
}

// ParticipantDetail godoc
// @Summary      One participant's attempts, reward codes and recent flags
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Success      200 {object} ParticipantDetailResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/participants/{id} [get]
func (h *AdminHandler) ParticipantDetail(c *gin.Context) {
	participantID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	participant, err := h.adminService.GetParticipant(participantID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	attempts, _ := h.scoringService.ParticipantSummaries(participantID)
	codes, _ := h.adminService.RewardCodes(participantID)
	flags, _ := h.adminService.CheatFlags(participantID, 20)

	c.JSON(http.StatusOK, ParticipantDetailResponse{
		Participant: participant,
		Attempts:    attempts,
		RewardCodes: codes,
		CheatFlags:  flags,
	})
}
