package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/utils"
)

const claimsKey = "claims"

type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

// RequireAuth accepts "Authorization: Bearer <token>" and stores the parsed
// claims on the context.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token required"})
			return
		}

		claims, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		ctx.Set(claimsKey, claims)
		ctx.Next()
	}
}

func CurrentClaims(ctx *gin.Context) (*utils.Claims, bool) {
	value, exists := ctx.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*utils.Claims)
	return claims, ok
}
