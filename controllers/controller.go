package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/apperr"
	"github.com/Kariqs/farmers-market-api/middlewares"
	"github.com/Kariqs/farmers-market-api/models"
	"github.com/Kariqs/farmers-market-api/services"
	"github.com/Kariqs/farmers-market-api/utils"
)

const (
	msgInvalidInput        = "invalid input"
	msgInternalServerError = "Internal server error"
	msgNotYourResource     = "You can only manage your own farm"
)

// Controller serves every HTTP handler of the API.
type Controller struct {
	Accounts *services.AccountService
	Catalog  *services.CatalogService
	Carts    *services.CartService
	Orders   *services.OrderService
	Tokens   *utils.TokenIssuer
	Log      *slog.Logger
	// Ping reports whether the backing stores are reachable.
	Ping func() error
}

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// respondWithError maps a service error to its status code. Internal errors
// are logged with their cause and answered with a generic message.
func (c *Controller) respondWithError(ctx *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		c.Log.Error("request failed",
			"method", ctx.Request.Method, "path", ctx.FullPath(), "error", err)
		_ = ctx.Error(err)
	}
	sendErrorResponse(ctx, status, apperr.Message(err))
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil || id == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}

func claimsOrAbort(ctx *gin.Context) (*utils.Claims, bool) {
	claims, ok := middlewares.CurrentClaims(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Authorization token required")
		return nil, false
	}
	return claims, true
}

// sellerScope resolves the farm a request may act on. Admins may act on any
// farm, sellers only on their own.
func sellerScope(ctx *gin.Context, farmerID uint) bool {
	claims, ok := claimsOrAbort(ctx)
	if !ok {
		return false
	}
	if claims.Role == models.RoleAdmin {
		return true
	}
	if claims.Role == models.RoleSeller && claims.SellerID != 0 && claims.SellerID == farmerID {
		return true
	}
	sendErrorResponse(ctx, http.StatusForbidden, msgNotYourResource)
	return false
}

// ownerFilter is the seller id product writes are restricted to, or zero
// for admins.
func ownerFilter(ctx *gin.Context) (uint, bool) {
	claims, ok := claimsOrAbort(ctx)
	if !ok {
		return 0, false
	}
	if claims.Role == models.RoleAdmin {
		return 0, true
	}
	if claims.SellerID == 0 {
		sendErrorResponse(ctx, http.StatusForbidden, msgNotYourResource)
		return 0, false
	}
	return claims.SellerID, true
}
