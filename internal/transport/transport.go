package transport

import (
	"time"

	"github.com/ds124wfegd/media-editor/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

func InitRoutes(imgHandler *ImageHandler, timeout time.Duration) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(timeout))

	router.POST("/upload", imgHandler.UploadImage)
	router.POST("/preview", imgHandler.Preview)

	image := router.Group("/image/:id")
	{
		image.GET("", imgHandler.GetImage)
		image.DELETE("", imgHandler.DeleteImage)
		image.GET("/file", imgHandler.GetImageFile)

		image.GET("/customizations", imgHandler.GetCustomizations)
		image.POST("/customizations", imgHandler.AddCustomizations)
		image.DELETE("/customizations", imgHandler.ResetCustomizations)

		image.POST("/render", imgHandler.RenderImage)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "media-editor",
		})
	})
	return router
}
