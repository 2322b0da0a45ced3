package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pdf_watermarker/api"
	"pdf_watermarker/watermark"
)

const (
	// DefaultMaxFileSize is the default maximum upload size (20MB)
	DefaultMaxFileSize = 20 * 1024 * 1024

	// DefaultPort is the default server port
	DefaultPort = "8080"

	// ServerReadTimeout is the HTTP server read timeout
	ServerReadTimeout = 30 * time.Second

	// ServerWriteTimeout must cover a full watermark operation including a
	// first-time font download, which is bounded at two minutes per source.
	ServerWriteTimeout = 8 * time.Minute

	// ServerIdleTimeout is the HTTP server idle timeout
	ServerIdleTimeout = 60 * time.Second

	// GracefulShutdownTimeout is the timeout for graceful shutdown
	GracefulShutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	config := &api.Config{
		Port:             getEnv("PORT", DefaultPort),
		MaxFileSize:      getEnvInt64("MAX_FILE_SIZE", DefaultMaxFileSize),
		FontSources:      getEnvList("FONT_SOURCES", nil),
		FontFetchTimeout: getEnvDuration("FONT_FETCH_TIMEOUT", watermark.DefaultFontTimeout),
	}

	// The resolver's font cache lives for the whole process: the first
	// non-Latin watermark triggers at most one fetch sequence.
	resolver := watermark.NewFontResolver(config.FontSources, config.FontFetchTimeout)
	compositor := watermark.NewCompositor(resolver)

	r := gin.Default()

	// API routes with config
	api.SetupRoutes(r, config, compositor)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "pdf_watermarker",
		})
	})

	// Create HTTP server with timeout settings
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", config.Port),
		Handler:      r,
		ReadTimeout:  ServerReadTimeout,
		WriteTimeout: ServerWriteTimeout,
		IdleTimeout:  ServerIdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		log.Printf("Max file size: %d bytes", config.MaxFileSize)
		if len(config.FontSources) > 0 {
			log.Printf("Font sources: %d configured", len(config.FontSources))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList parses a comma-separated list, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
