package routes

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/controllers"
	"github.com/Kariqs/farmers-market-api/middlewares"
)

type Options struct {
	AllowedOrigins []string
	// UploadDir holds objects kept on disk. Only product images under it are
	// served publicly, at /uploads/products.
	UploadDir string
	Log       *slog.Logger
}

func NewRouter(c *controllers.Controller, opts Options) *gin.Engine {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}

	server := gin.New()
	server.Use(middlewares.RequestLogger(opts.Log), middlewares.Recovery(opts.Log))
	server.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if opts.UploadDir != "" {
		server.Static("/uploads/products", filepath.Join(opts.UploadDir, "products"))
	}

	requireAuth := middlewares.RequireAuth(c.Tokens)

	DefaultRoutes(server, c)
	AuthRoutes(server, c, requireAuth)
	CartRoutes(server, c, requireAuth)
	OrderRoutes(server, c, requireAuth)
	ProductRoutes(server, c, requireAuth)
	AdminRoutes(server, c, requireAuth)
	return server
}
