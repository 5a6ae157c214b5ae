package transport

import (
	"github.com/gin-gonic/gin"
)

func InitRoutes(renderHandler *RenderHandler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/render/image", renderHandler.RenderImage)
	router.GET("/render/uid", renderHandler.RenderProfile)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "portrait-render-service",
		})
	})
	return router
}
