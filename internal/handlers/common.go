package handlers

import (
	"net/http"
	"strconv"

	"github.com/Levi-LMN/Trivia/internal/models"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type QuizSession = models.QuizSession
type Section = models.Section
type Question = models.Question
type Participant = models.Participant

// uintParam parses a numeric path parameter, answering 400 itself on garbage.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(v), true
}
