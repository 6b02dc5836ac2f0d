package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserContextKey is the gin context key holding the authenticated user id.
const UserContextKey = "userID"

// Middleware validates the bearer token and stores the user id in the
// request context for downstream handlers.
func Middleware(verifier *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header format. Use: Bearer <token>"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(UserContextKey, claims.UserID)
		c.Next()
	}
}

// UserID extracts the authenticated user id stored by Middleware.
func UserID(c *gin.Context) string {
	id, _ := c.Get(UserContextKey)
	s, _ := id.(string)
	return s
}
