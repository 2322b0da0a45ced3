package watermark

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"golang.org/x/image/font/opentype"
)

// Compositor tiles a rotated, styled text pattern across every page of a PDF
// and returns the mutated document. One call is one logical operation: pages
// and tiles are processed sequentially in deterministic order, and either the
// whole document is watermarked or nothing is returned.
type Compositor struct {
	Fonts *FontResolver
}

// NewCompositor builds a compositor. A nil resolver gets the package
// defaults (remote SimHei sources, two-minute attempt timeout).
func NewCompositor(fonts *FontResolver) *Compositor {
	if fonts == nil {
		fonts = NewFontResolver(nil, 0)
	}
	return &Compositor{Fonts: fonts}
}

// Apply watermarks every page of the document. See ApplyToPages.
func (c *Compositor) Apply(ctx context.Context, data []byte, cfg Config, status StatusFunc) ([]byte, error) {
	return c.ApplyToPages(ctx, data, cfg, nil, status)
}

// ApplyToPages watermarks the selected pages (1-based; nil means all) and
// returns the serialized result. The input is never modified.
//
// Failure short-circuits the whole operation: encrypted input fails with
// ErrEncrypted before anything else, malformed input with ErrInvalidInput,
// font problems with ErrFontUnavailable or ErrFontEmbed, and save problems
// with ErrSerialization. No partial output is ever returned.
func (c *Compositor) ApplyToPages(ctx context.Context, data []byte, cfg Config, pages []int, status StatusFunc) ([]byte, error) {
	if IsEncrypted(data) {
		return nil, ErrEncrypted
	}

	info, err := Inspect(data)
	if err != nil {
		return nil, err
	}
	if pages != nil {
		if err := ValidatePageNumbers(pages, info.PageCount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	fnt, err := c.Fonts.Resolve(ctx, cfg.Text, status)
	if err != nil {
		return nil, err
	}

	col := HexToRGB(cfg.Color)
	stepX := EffectiveSpacing(cfg.SpacingX)
	stepY := EffectiveSpacing(cfg.SpacingY)

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)

	if fnt.Embedded() {
		status.emit(PhaseFontEmbed, "embedding downloaded font")
		if _, err := opentype.Parse(fnt.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFontEmbed, err)
		}
		doc.AddUTF8FontFromBytes(fnt.Family, fnt.Style, fnt.Data)
		if doc.Err() {
			return nil, fmt.Errorf("%w: %v", ErrFontEmbed, doc.Error())
		}
	}

	status.emit(PhaseWatermark, fmt.Sprintf("applying watermark to %d pages", info.PageCount))
	if err := c.stampPages(doc, data, info, cfg, fnt, col, stepX, stepY, pageSet(pages)); err != nil {
		return nil, err
	}
	if doc.Err() {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, doc.Error())
	}

	status.emit(PhaseSave, "saving watermarked document")
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	out := buf.Bytes()

	// Output sanity check: same page count as the input.
	check, err := Inspect(out)
	if err != nil {
		return nil, fmt.Errorf("%w: output failed verification: %v", ErrSerialization, err)
	}
	if check.PageCount != info.PageCount {
		return nil, fmt.Errorf("%w: output has %d pages, expected %d", ErrSerialization, check.PageCount, info.PageCount)
	}
	return out, nil
}

// stampPages imports every source page as a template and overlays the tile
// grid on the selected ones. The importer panics on malformed structures it
// cannot parse; that is converted to ErrInvalidInput here.
func (c *Compositor) stampPages(doc *fpdf.Fpdf, data []byte, info *DocumentInfo, cfg Config, fnt Font, col RGB, stepX, stepY float64, selected map[int]bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: importing pages: %v", ErrInvalidInput, r)
		}
	}()

	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(data))

	for i := 1; i <= info.PageCount; i++ {
		tpl := imp.ImportPageFromStream(doc, &rs, i, "/MediaBox")

		var w, h float64
		if i-1 < len(info.Pages) {
			w, h = info.Pages[i-1].Width, info.Pages[i-1].Height
		}
		if w == 0 || h == 0 {
			w, h = 595.28, 841.89 // A4
		}

		doc.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		imp.UseImportedTemplate(doc, tpl, 0, 0, w, h)

		if selected == nil || selected[i] {
			drawTiles(doc, cfg, fnt, col, Geometry(w, h), stepX, stepY)
		}
	}
	return nil
}

// drawTiles draws one rotated text instance per lattice point. Rotation is
// applied per tile about that tile's own anchor, not about the page center.
func drawTiles(doc *fpdf.Fpdf, cfg Config, fnt Font, col RGB, geom PageGeometry, stepX, stepY float64) {
	doc.SetFont(fnt.Family, fnt.Style, cfg.FontSize)
	doc.SetTextColor(channel(col.R), channel(col.G), channel(col.B))
	doc.SetAlpha(clamp01(cfg.Opacity), "Normal")

	for _, pt := range LatticePoints(geom, stepX, stepY) {
		doc.TransformBegin()
		doc.TransformRotate(cfg.Rotation, pt.X, pt.Y)
		doc.Text(pt.X, pt.Y, cfg.Text)
		doc.TransformEnd()
	}

	// Imported templates on later pages are drawn with the current state.
	doc.SetAlpha(1, "Normal")
}

func pageSet(pages []int) map[int]bool {
	if pages == nil {
		return nil
	}
	set := make(map[int]bool, len(pages))
	for _, p := range pages {
		set[p] = true
	}
	return set
}

func channel(v float64) int {
	return int(math.Round(v * 255))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
