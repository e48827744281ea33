package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (c *Controller) AddToCart(ctx *gin.Context) {
	claims, ok := claimsOrAbort(ctx)
	if !ok {
		return
	}
	productID, ok := parseID(ctx, "productId")
	if !ok {
		return
	}
	qty, err := strconv.Atoi(ctx.DefaultQuery("qty", "1"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid qty")
		return
	}

	lines, err := c.Carts.AddItem(ctx.Request.Context(), claims.SessionID, productID, qty)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, lines)
}

func (c *Controller) GetCart(ctx *gin.Context) {
	claims, ok := claimsOrAbort(ctx)
	if !ok {
		return
	}
	lines, err := c.Carts.Lines(ctx.Request.Context(), claims.SessionID)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, lines)
}

func (c *Controller) Checkout(ctx *gin.Context) {
	claims, ok := claimsOrAbort(ctx)
	if !ok {
		return
	}
	cart, err := c.Carts.Checkout(ctx.Request.Context(), claims.SessionID)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cart)
}

// RemoveFromCart removes by position in the current line list.
func (c *Controller) RemoveFromCart(ctx *gin.Context) {
	claims, ok := claimsOrAbort(ctx)
	if !ok {
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid index")
		return
	}

	lines, err := c.Carts.RemoveItem(ctx.Request.Context(), claims.SessionID, index)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, lines)
}

func (c *Controller) RemoveCartLine(ctx *gin.Context) {
	claims, ok := claimsOrAbort(ctx)
	if !ok {
		return
	}
	lines, err := c.Carts.RemoveLine(ctx.Request.Context(), claims.SessionID, ctx.Param("lineId"))
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, lines)
}
