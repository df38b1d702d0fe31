package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tutorsworld/tutors-world-api/internal/models"
	"github.com/tutorsworld/tutors-world-api/internal/service"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
	"github.com/tutorsworld/tutors-world-api/pkg/response"
)

// ContextClaimsKey is the gin context key holding the caller's claims.
const ContextClaimsKey = "auth_claims"

// Auth verifies the bearer token and stores the claims on the context.
func Auth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing bearer token"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the authenticated caller's claims, if present.
func ClaimsFrom(c *gin.Context) (*models.JWTClaims, bool) {
	value, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}
