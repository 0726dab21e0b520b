package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Levi-LMN/Trivia/internal/services"

	"github.com/gin-gonic/gin"
)

// ParticipantAuth validates a participant bearer token. A token whose
// participant row no longer exists (store reset) is rejected with a
// distinct reason so clients drop their cached identity and re-identify.
func ParticipantAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		participantID, err := authService.ValidateParticipantToken(token)
		if err != nil {
			if errors.Is(err, services.ErrParticipantGone) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "participant no longer exists", "reidentify": true})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("participant_id", participantID)
		c.Next()
	}
}

func AdminAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		if err := authService.ValidateAdminToken(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		return "", false
	}
	return parts[1], true
}
