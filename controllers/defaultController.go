package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Farmers Market API. Authenticated routes expect "Authorization: Bearer <token>".

USER
- POST "/user/register" - Create a buyer or seller account
- POST "/user/login" - Log in and start a cart session
- POST "/user/logout" - Clear the current cart session
- POST "/user/addtocart/:productId?qty=N" - Add a product to the cart
- GET "/user/cart" - List cart lines
- GET "/user/checkout" - Cart lines with grand total
- POST "/user/removefromcart/:index" - Remove a cart line by position
- DELETE "/user/cart/lines/:lineId" - Remove a cart line by id
- POST "/user/placeorder" - Place an order from the cart
- GET "/user/orders" - Order history
- GET "/user/orders/:orderId/receipt" - Receipt of one of your orders

CATALOG
- GET "/products" - Browse products (page, limit, search)
- GET "/categories" - List categories

SELLER
- GET "/seller/profile/:email" - Seller profile
- PUT "/seller/profile/:farmerId" - Update seller profile
- GET "/seller/categories" - List categories
- GET|POST "/seller/products/:farmerId" - List or add products
- GET "/seller/products/:farmerId/:productId" - Get one product
- PUT|DELETE "/seller/products/:productId" - Update or delete a product
- POST "/seller/products/:farmerId/:productId/image" - Upload a product image
- GET "/seller/sales/:farmerId" - Sales lines
- GET "/seller/stats/:farmerId" - Sales statistics

ADMIN
- GET "/admin/sellers" - List sellers
- GET "/admin/sellers/:farmerId" - Get one seller
- POST "/admin/categories" - Create a category
- PATCH "/admin/orders/:orderId/delivery" - Set delivery status
- GET "/admin/orders/undelivered" - Count undelivered orders`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func (c *Controller) Healthz(ctx *gin.Context) {
	if c.Ping != nil {
		if err := c.Ping(); err != nil {
			c.Log.Error("health check failed", "error", err)
			sendErrorResponse(ctx, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"status": "ok"})
}
