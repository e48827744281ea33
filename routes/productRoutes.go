package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/controllers"
	"github.com/Kariqs/farmers-market-api/middlewares"
	"github.com/Kariqs/farmers-market-api/models"
)

func ProductRoutes(server *gin.Engine, c *controllers.Controller, requireAuth gin.HandlerFunc) {
	server.GET("/products", c.GetProducts)
	server.GET("/categories", c.GetCategories)

	seller := server.Group("/seller", requireAuth, middlewares.RequireRole(models.RoleSeller, models.RoleAdmin))
	{
		seller.GET("/profile/:email", c.GetSellerProfile)
		seller.PUT("/profile/:farmerId", c.UpdateSellerProfile)
		seller.GET("/categories", c.GetCategories)

		seller.GET("/products/:farmerId", c.GetSellerProducts)
		seller.POST("/products/:farmerId", c.CreateProduct)
		seller.GET("/products/:farmerId/:productId", c.GetSellerProduct)
		seller.POST("/products/:farmerId/:productId/image", c.UploadProductImage)
		seller.PUT("/products/:productId", c.UpdateProduct)
		seller.DELETE("/products/:productId", c.DeleteProduct)

		seller.GET("/sales/:farmerId", c.GetSellerSales)
		seller.GET("/stats/:farmerId", c.GetSellerStats)
	}
}
