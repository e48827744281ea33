package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/controllers"
)

func DefaultRoutes(server *gin.Engine, c *controllers.Controller) {
	server.GET("/", controllers.GetHome)
	server.GET("/healthz", c.Healthz)
}
