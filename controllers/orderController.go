package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/receipts"
)

func (c *Controller) PlaceOrder(ctx *gin.Context) {
	claims, ok := claimsOrAbort(ctx)
	if !ok {
		return
	}

	placed, err := c.Orders.PlaceOrder(ctx.Request.Context(), claims.AccountID, claims.SessionID)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, placed)
}

func (c *Controller) GetOrders(ctx *gin.Context) {
	claims, ok := claimsOrAbort(ctx)
	if !ok {
		return
	}

	orders, err := c.Orders.History(ctx.Request.Context(), claims.AccountID)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, orders)
}

// GetOrderReceipt renders the receipt of one of the caller's orders.
func (c *Controller) GetOrderReceipt(ctx *gin.Context) {
	claims, ok := claimsOrAbort(ctx)
	if !ok {
		return
	}
	orderID, ok := parseID(ctx, "orderId")
	if !ok {
		return
	}

	receipt, err := c.Orders.Receipt(ctx.Request.Context(), claims.AccountID, orderID)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	var body bytes.Buffer
	if err := receipts.Render(&body, receipt); err != nil {
		c.respondWithError(ctx, err)
		return
	}
	ctx.Header("Cache-Control", "private, no-store")
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", body.Bytes())
}

func (c *Controller) UpdateDeliveryStatus(ctx *gin.Context) {
	orderID, ok := parseID(ctx, "orderId")
	if !ok {
		return
	}
	var body struct {
		Delivered *bool `json:"delivered" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	order, err := c.Orders.SetDeliveryStatus(ctx.Request.Context(), orderID, *body.Delivered)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order)
}

func (c *Controller) GetUndeliveredOrders(ctx *gin.Context) {
	count, err := c.Orders.UndeliveredCount(ctx.Request.Context())
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"undeliveredOrderCount": count})
}
