package auth

import (
	"strings"

	"codeberg.org/echowrite/server/internal/errors"
	"github.com/gin-gonic/gin"
)

// resolves the bearer token and stores the principal in the request context
func Middleware(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			errors.Abort(c, errors.KindUnauthenticated, "Unauthorized", nil)
			return
		}

		principal, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if IsNoPrincipal(err) {
				errors.Abort(c, errors.KindUnauthenticated, "Invalid token", nil)
				return
			}

			errors.Abort(c, errors.KindServerError, "failed to verify token", err)
			return
		}

		c.Set(principalKey, principal)
		c.Set(userIDKey, principal.UserID)
		c.Set(userEmailKey, principal.Email)

		c.Next()
	}
}

// extracts the principal set by Middleware
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}

	principal, ok := value.(*Principal)
	return principal, ok
}

// extracts user_id from context after Middleware
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(userIDKey)
	return userID, userID != ""
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
