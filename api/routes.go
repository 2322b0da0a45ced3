package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"pdf_watermarker/watermark"
)

// Config holds application configuration
type Config struct {
	Port             string
	MaxFileSize      int64
	FontSources      []string
	FontFetchTimeout time.Duration
}

func SetupRoutes(r *gin.Engine, config *Config, compositor *watermark.Compositor) {
	apiGroup := r.Group("/api/pdf")
	{
		apiGroup.POST("/watermark", func(c *gin.Context) { HandleWatermark(c, config, compositor) })
		apiGroup.POST("/inspect", func(c *gin.Context) { HandleInspect(c, config) })
		apiGroup.POST("/preview-grid", func(c *gin.Context) { HandlePreviewGrid(c) })
	}
}
