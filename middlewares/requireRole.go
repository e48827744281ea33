package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(ctx *gin.Context) {
		claims, ok := CurrentClaims(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}

		if !allowed[claims.Role] {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not have access to this resource"})
			return
		}

		ctx.Next()
	}
}
