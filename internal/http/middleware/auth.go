package middleware

import (
	"net/http"
	"strings"

	"tasklist_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the context key the auth middleware stores the resolved
// user id under.
const UserIDKey = "user_id"

// JWT rejects requests without a valid bearer access token and puts the
// token's user id into the gin context. No handler behind it runs for an
// unauthenticated request.
func JWT(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		userID, err := tokens.ParseAccess(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
