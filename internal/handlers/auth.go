package handlers

import (
	"errors"
	"net/http"

	"github.com/Levi-LMN/Trivia/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type IdentifyRequest struct {
	Phone string `json:"phone" binding:"required" example:"0712345678"`
}

type RegisterRequest struct {
	Phone string `json:"phone" binding:"required" example:"+254712345678"`
	Name  string `json:"name" binding:"required,min=2,max=100" example:"Jane Wanjiku"`
}

type AuthResponse struct {
	Token       string       `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	Participant *Participant `json:"participant"`
}

// Identify godoc
// @Summary      Identify a returning participant
// @Description  Look up a participant by phone number and return a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body IdentifyRequest true "Phone number in any Kenyan format"
// @Success      200 {object} AuthResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/auth/identify [post]
func (h *AuthHandler) Identify(c *gin.Context) {
	var req IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, token, err := h.authService.Identify(req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPhone) {
			// Distinct status so the client routes to registration.
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, Participant: participant})
}

// Register godoc
// @Summary      Register a new participant
// @Description  Create a participant for a new phone number and return a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, token, err := h.authService.Register(req.Phone, req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, Participant: participant})
}
