package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/controllers"
)

func CartRoutes(server *gin.Engine, c *controllers.Controller, requireAuth gin.HandlerFunc) {
	cart := server.Group("/user", requireAuth)
	{
		cart.POST("/addtocart/:productId", c.AddToCart)
		cart.GET("/cart", c.GetCart)
		cart.GET("/checkout", c.Checkout)
		cart.POST("/removefromcart/:index", c.RemoveFromCart)
		cart.DELETE("/cart/lines/:lineId", c.RemoveCartLine)
	}
}
