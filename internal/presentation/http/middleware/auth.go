package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cactus-admin-api/pkg/utils"
)

// AccessTokenQuery is the query parameter accepted in place of the Authorization
// header on routes that are opened directly by the browser (PDF links).
const AccessTokenQuery = "access_token"

// AuthMiddleware creates a JWT authentication middleware. With allowQuery the
// token may also be passed as ?access_token=.
func AuthMiddleware(jwtManager *utils.JWTManager, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok && allowQuery {
			tokenString = c.Query(AccessTokenQuery)
			ok = tokenString != ""
		}
		if !ok {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil || claims.Role != utils.RoleAdmin {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("auth_subject", claims.Subject)
		c.Set("auth_role", claims.Role)

		c.Next()
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
