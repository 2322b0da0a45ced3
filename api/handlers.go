package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pdf_watermarker/watermark"
)

func HandleWatermark(c *gin.Context, config *Config, compositor *watermark.Compositor) {
	data, originalName, ok := readPDFUpload(c, config)
	if !ok {
		return
	}

	cfg, err := parseWatermarkConfig(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var pages []int
	if sel := c.PostForm("pages"); sel != "" {
		pages, err = watermark.ParsePageSelection(sel)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	out, err := compositor.ApplyToPages(c.Request.Context(), data, cfg, pages, logStatus)
	if err != nil {
		log.Printf("Watermark operation error: %v", err)
		status, msg := errorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	filename := WatermarkedFilenamePrefix + sanitizeFilename(originalName)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", out)
}

func HandleInspect(c *gin.Context, config *Config) {
	data, _, ok := readPDFUpload(c, config)
	if !ok {
		return
	}

	info, err := watermark.Inspect(data)
	if err != nil {
		status, msg := errorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, info)
}

// HandlePreviewGrid returns the lattice a given page size and spacing would
// produce, computed with the same geometry the compositor uses. A preview
// renderer that consumes this stays consistent with the applied watermark.
func HandlePreviewGrid(c *gin.Context) {
	width, err := formFloat(c, "width", 0)
	if err != nil || width <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width must be a positive number"})
		return
	}
	height, err := formFloat(c, "height", 0)
	if err != nil || height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "height must be a positive number"})
		return
	}

	defaults := watermark.DefaultConfig()
	spacingX, err := formFloat(c, "spacing_x", defaults.SpacingX)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid spacing_x"})
		return
	}
	spacingY, err := formFloat(c, "spacing_y", defaults.SpacingY)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid spacing_y"})
		return
	}

	geom := watermark.Geometry(width, height)
	stepX := watermark.EffectiveSpacing(spacingX)
	stepY := watermark.EffectiveSpacing(spacingY)
	points := watermark.LatticePoints(geom, stepX, stepY)

	c.JSON(http.StatusOK, gin.H{
		"diagonal": geom.Diagonal,
		"step_x":   stepX,
		"step_y":   stepY,
		"count":    len(points),
		"points":   points,
	})
}

// readPDFUpload pulls the "pdf" multipart file into memory, enforcing the
// size limit and the PDF header check. On failure it writes the error
// response itself and returns ok=false.
func readPDFUpload(c *gin.Context, config *Config) (data []byte, filename string, ok bool) {
	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file provided"})
		return nil, "", false
	}
	defer file.Close()

	if header.Size > config.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file size %d exceeds maximum allowed %d bytes", header.Size, config.MaxFileSize),
		})
		return nil, "", false
	}

	data, err = io.ReadAll(io.LimitReader(file, config.MaxFileSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return nil, "", false
	}
	if int64(len(data)) > config.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds maximum allowed size"})
		return nil, "", false
	}
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid PDF file: header does not match"})
		return nil, "", false
	}

	return data, header.Filename, true
}

// parseWatermarkConfig reads the form fields, applying defaults for absent
// values, and validates the documented ranges.
func parseWatermarkConfig(c *gin.Context) (watermark.Config, error) {
	cfg := watermark.DefaultConfig()

	cfg.Text = strings.TrimSpace(c.PostForm("text"))
	if cfg.Text == "" {
		return cfg, fmt.Errorf("watermark text is required")
	}
	if v := c.PostForm("color"); v != "" {
		cfg.Color = v
	}

	var err error
	if cfg.Opacity, err = formFloat(c, "opacity", cfg.Opacity); err != nil {
		return cfg, fmt.Errorf("invalid opacity")
	}
	if cfg.FontSize, err = formFloat(c, "font_size", cfg.FontSize); err != nil {
		return cfg, fmt.Errorf("invalid font_size")
	}
	if cfg.Rotation, err = formFloat(c, "rotation", cfg.Rotation); err != nil {
		return cfg, fmt.Errorf("invalid rotation")
	}
	if cfg.SpacingX, err = formFloat(c, "spacing_x", cfg.SpacingX); err != nil {
		return cfg, fmt.Errorf("invalid spacing_x")
	}
	if cfg.SpacingY, err = formFloat(c, "spacing_y", cfg.SpacingY); err != nil {
		return cfg, fmt.Errorf("invalid spacing_y")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func formFloat(c *gin.Context, field string, def float64) (float64, error) {
	v := c.PostForm(field)
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

// errorResponse maps a core error to an HTTP status and a client-safe message.
func errorResponse(err error) (int, string) {
	msg := err.Error()
	if len(msg) > ErrorMessageLimit {
		msg = msg[:ErrorMessageLimit] + "..."
	}
	switch {
	case errors.Is(err, watermark.ErrEncrypted):
		return http.StatusBadRequest, msg
	case errors.Is(err, watermark.ErrInvalidInput):
		return http.StatusBadRequest, msg
	case errors.Is(err, watermark.ErrFontUnavailable):
		return http.StatusBadGateway, msg
	default:
		return http.StatusInternalServerError, msg
	}
}

// logStatus forwards core progress events to the server log.
func logStatus(e watermark.Event) {
	log.Printf("[%s] %s", e.Phase, e.Message)
}

// sanitizeFilename removes path traversal attempts and dangerous characters
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.TrimSpace(filepath.Base(filename))

	if filename == "" {
		filename = "document.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		filename += ".pdf"
	}
	return filename
}
