// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/ventilation-store/internal/pkg/auth"
)

const (
	userIDKey      = "user_id"
	userEmailKey   = "user_email"
	isAdminKey     = "is_admin"
	tokenClaimsKey = "token_claims"
)

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			return
		}

		if !authenticate(c, jwtManager, tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Next()
	}
}

// AdminMiddleware ensures the user is an admin. It must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(isAdminKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		if !IsAdminFromContext(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			return
		}

		c.Next()
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present
// and lets anonymous requests through otherwise
func OptionalAuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization")); tokenString != "" {
			authenticate(c, jwtManager, tokenString)
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtManager *auth.JWTManager, tokenString string) bool {
	claims, err := jwtManager.ValidateAccessToken(tokenString)
	if err != nil {
		return false
	}

	userID, err := claims.UserID()
	if err != nil {
		return false
	}

	c.Set(userIDKey, userID)
	c.Set(userEmailKey, claims.Email)
	c.Set(isAdminKey, claims.IsAdmin())
	c.Set(tokenClaimsKey, claims)
	return true
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserEmailFromContext extracts user email from gin context
func GetUserEmailFromContext(c *gin.Context) string {
	return c.GetString(userEmailKey)
}

// IsAdminFromContext checks if user is admin from gin context
func IsAdminFromContext(c *gin.Context) bool {
	return c.GetBool(isAdminKey)
}
