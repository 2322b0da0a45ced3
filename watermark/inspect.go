package watermark

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageDim is one page's size in points.
type PageDim struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DocumentInfo is the result of inspecting a PDF: everything the tiling
// engine and a preview layer need to know about the document.
type DocumentInfo struct {
	PageCount int       `json:"page_count"`
	Pages     []PageDim `json:"pages"`
}

// IsEncrypted reports whether the document carries an encryption dictionary.
// The check is a raw scan for the trailer's /Encrypt entry so it works
// before (and without) full parsing.
func IsEncrypted(data []byte) bool {
	return bytes.Contains(data, []byte("/Encrypt"))
}

// Inspect parses the document and returns its page count and per-page
// dimensions. Encrypted input fails with ErrEncrypted before any parsing;
// malformed input fails with ErrInvalidInput.
func Inspect(data []byte) (*DocumentInfo, error) {
	if IsEncrypted(data) {
		return nil, ErrEncrypted
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: reading page dimensions: %v", ErrInvalidInput, err)
	}

	info := &DocumentInfo{PageCount: ctx.PageCount, Pages: make([]PageDim, 0, len(dims))}
	for _, d := range dims {
		info.Pages = append(info.Pages, PageDim{Width: d.Width, Height: d.Height})
	}
	return info, nil
}
