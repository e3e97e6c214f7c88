package auth

import (
	"net/http"
	"strings"

	"courier/domain"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth_user_id"

// Middleware validates the Bearer token on every request it guards and
// injects the authenticated user id for downstream handlers. The core
// trusts this id unconditionally once set.
func Middleware(tokens TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization token is missing"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}
		c.Set(identityKey, domain.UserID(claims.UserID))
		c.Next()
	}
}

// UserID retrieves the authenticated user id injected by Middleware.
func UserID(c *gin.Context) (domain.UserID, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(domain.UserID)
	return id, ok
}
