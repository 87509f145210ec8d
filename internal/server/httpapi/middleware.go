package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const userIDKey = "swapdiary_user_id"

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// authMiddleware validates the bearer JWT and stores the caller's ID.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token", Code: "unauthorized"})
			return
		}
		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(c, err)
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func userIDFrom(c *gin.Context) (string, error) {
	id := c.GetString(userIDKey)
	if id == "" {
		return "", common.ErrUnauthorized
	}
	return id, nil
}
