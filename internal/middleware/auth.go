package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"homebound/internal/pkg/apperror"
	jwtsvc "homebound/internal/pkg/jwt"
	"homebound/internal/pkg/response"
)

// Auth validates the bearer token issued by the identity provider and
// puts user_id and role into the request context. Everything behind it
// is owner-scoped by that user_id.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			abortUnauthorized(c, "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			abortUnauthorized(c, "Invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			abortUnauthorized(c, "Empty token")
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	response.Fail(c, apperror.New(apperror.CodeUnauthorized, message))
	c.Abort()
}
