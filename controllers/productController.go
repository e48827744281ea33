package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/models"
	"github.com/Kariqs/farmers-market-api/services"
)

const maxImageSize = 5 << 20

func (c *Controller) GetProducts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	result, err := c.Catalog.ListProducts(ctx.Request.Context(), services.ProductQuery{
		Search: ctx.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"products": result.Products,
		"metadata": gin.H{
			"total":      result.Total,
			"page":       result.Page,
			"limit":      result.Limit,
			"totalPages": (result.Total + int64(result.Limit) - 1) / int64(result.Limit),
		},
	})
}

func (c *Controller) GetCategories(ctx *gin.Context) {
	categories, err := c.Catalog.ListCategories(ctx.Request.Context())
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, categories)
}

func (c *Controller) GetSellerProducts(ctx *gin.Context) {
	farmerID, ok := parseID(ctx, "farmerId")
	if !ok || !sellerScope(ctx, farmerID) {
		return
	}

	items, err := c.Catalog.ListSellerProducts(ctx.Request.Context(), farmerID)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, items)
}

func (c *Controller) GetSellerProduct(ctx *gin.Context) {
	farmerID, ok := parseID(ctx, "farmerId")
	if !ok || !sellerScope(ctx, farmerID) {
		return
	}
	productID, ok := parseID(ctx, "productId")
	if !ok {
		return
	}

	item, err := c.Catalog.GetSellerProduct(ctx.Request.Context(), farmerID, productID)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, item)
}

func (c *Controller) CreateProduct(ctx *gin.Context) {
	farmerID, ok := parseID(ctx, "farmerId")
	if !ok || !sellerScope(ctx, farmerID) {
		return
	}

	var input models.NewStockItem
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := c.Catalog.AddProduct(ctx.Request.Context(), farmerID, input)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, item)
}

func (c *Controller) UpdateProduct(ctx *gin.Context) {
	productID, ok := parseID(ctx, "productId")
	if !ok {
		return
	}
	ownerID, ok := ownerFilter(ctx)
	if !ok {
		return
	}

	var input models.StockItemUpdate
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := c.Catalog.UpdateProduct(ctx.Request.Context(), ownerID, productID, input)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, item)
}

func (c *Controller) DeleteProduct(ctx *gin.Context) {
	productID, ok := parseID(ctx, "productId")
	if !ok {
		return
	}
	ownerID, ok := ownerFilter(ctx)
	if !ok {
		return
	}

	if err := c.Catalog.DeleteProduct(ctx.Request.Context(), ownerID, productID); err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted successfully."})
}

// UploadProductImage expects a multipart form with an "image" file.
func (c *Controller) UploadProductImage(ctx *gin.Context) {
	farmerID, ok := parseID(ctx, "farmerId")
	if !ok || !sellerScope(ctx, farmerID) {
		return
	}
	productID, ok := parseID(ctx, "productId")
	if !ok {
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "No image uploaded")
		return
	}
	if file.Size > maxImageSize {
		sendErrorResponse(ctx, http.StatusBadRequest, "Image must be 5MB or smaller")
		return
	}

	f, err := file.Open()
	if err != nil {
		c.Log.Error("error opening uploaded file", "filename", file.Filename, "error", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid form data")
		return
	}
	defer f.Close()

	item, err := c.Catalog.SetProductImage(ctx.Request.Context(), farmerID, productID,
		file.Filename, file.Header.Get("Content-Type"), f)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, item)
}
