package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/controllers"
)

func OrderRoutes(server *gin.Engine, c *controllers.Controller, requireAuth gin.HandlerFunc) {
	server.POST("/user/placeorder", requireAuth, c.PlaceOrder)
	server.GET("/user/orders", requireAuth, c.GetOrders)
	server.GET("/user/orders/:orderId/receipt", requireAuth, c.GetOrderReceipt)
}
