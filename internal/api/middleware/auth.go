package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"roofline/server/internal/auth"
	"roofline/server/internal/models"
	"roofline/server/internal/services"
)

const (
	// ContextKeyEmail holds the verified principal email in Gin context.
	ContextKeyEmail = "authEmail"
	// ContextKeyName holds the principal's display name, when present.
	ContextKeyName = "authName"
)

// Authenticate creates a Gin middleware that verifies the bearer credential
// through the identity gate. No store access happens before verification.
func Authenticate(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Credential verification failed"})
			return
		}

		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyName, claims.Name)
		c.Next()
	}
}

// AuthEmail returns the verified principal email set by Authenticate.
func AuthEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

// RequireSelf ensures the verified email matches the email the route names,
// taken from the path parameter or query key given. Assumes Authenticate ran
// first.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requested := c.Param(param)
		if requested == "" {
			requested = c.Query(param)
		}
		if requested == "" || !strings.EqualFold(requested, AuthEmail(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: email does not match credential"})
			return
		}
		c.Next()
	}
}

// RequireRole ensures the principal's user record carries one of the given
// roles. Assumes Authenticate ran first.
func RequireRole(userSvc services.IUserService, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := userSvc.FindByEmail(c.Request.Context(), AuthEmail(c))
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: unknown user"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to resolve user role"})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: insufficient role"})
	}
}
