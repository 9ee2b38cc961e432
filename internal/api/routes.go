package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the API endpoints and CORS policy on the router.
func SetupRoutes(router *gin.Engine, handler *Handler, allowOrigins []string) {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowOrigins) == 1 && allowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowOrigins
	}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/sales", handler.GetSales)
		api.GET("/leases", handler.GetLeases)
		api.GET("/regulation", handler.GetRegulation)
		api.GET("/regions", handler.GetRegions)
		api.GET("/status", handler.GetStatus)
		api.POST("/refresh", handler.Refresh)
	}
}
