package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/controllers"
)

func AuthRoutes(server *gin.Engine, c *controllers.Controller, requireAuth gin.HandlerFunc) {
	user := server.Group("/user")
	{
		user.POST("/register", c.Register)
		user.POST("/login", c.Login)
		user.POST("/logout", requireAuth, c.Logout)
	}
}
