package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/models"
)

func (c *Controller) GetSellerProfile(ctx *gin.Context) {
	seller, err := c.Catalog.GetSellerByEmail(ctx.Request.Context(), ctx.Param("email"))
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	if !sellerScope(ctx, seller.ID) {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, seller)
}

func (c *Controller) UpdateSellerProfile(ctx *gin.Context) {
	farmerID, ok := parseID(ctx, "farmerId")
	if !ok || !sellerScope(ctx, farmerID) {
		return
	}

	var input models.SellerProfileUpdate
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	seller, err := c.Catalog.UpdateSellerProfile(ctx.Request.Context(), farmerID, input)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, seller)
}

func (c *Controller) GetSellerSales(ctx *gin.Context) {
	farmerID, ok := parseID(ctx, "farmerId")
	if !ok || !sellerScope(ctx, farmerID) {
		return
	}

	sales, err := c.Catalog.SellerSales(ctx.Request.Context(), farmerID)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, sales)
}

func (c *Controller) GetSellerStats(ctx *gin.Context) {
	farmerID, ok := parseID(ctx, "farmerId")
	if !ok || !sellerScope(ctx, farmerID) {
		return
	}

	stats, err := c.Catalog.SellerStats(ctx.Request.Context(), farmerID)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, stats)
}

func (c *Controller) GetSellers(ctx *gin.Context) {
	sellers, err := c.Catalog.ListSellers(ctx.Request.Context())
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, sellers)
}

func (c *Controller) GetSeller(ctx *gin.Context) {
	farmerID, ok := parseID(ctx, "farmerId")
	if !ok {
		return
	}
	seller, err := c.Catalog.GetSeller(ctx.Request.Context(), farmerID)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, seller)
}

func (c *Controller) CreateCategory(ctx *gin.Context) {
	var body struct {
		Name string `json:"categoryName" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "categoryName is required")
		return
	}

	category, err := c.Catalog.CreateCategory(ctx.Request.Context(), body.Name)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, category)
}
