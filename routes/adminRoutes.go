package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/controllers"
	"github.com/Kariqs/farmers-market-api/middlewares"
	"github.com/Kariqs/farmers-market-api/models"
)

func AdminRoutes(server *gin.Engine, c *controllers.Controller, requireAuth gin.HandlerFunc) {
	admin := server.Group("/admin", requireAuth, middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("/sellers", c.GetSellers)
		admin.GET("/sellers/:farmerId", c.GetSeller)
		admin.POST("/categories", c.CreateCategory)
		admin.PATCH("/orders/:orderId/delivery", c.UpdateDeliveryStatus)
		admin.GET("/orders/undelivered", c.GetUndeliveredOrders)
	}
}
