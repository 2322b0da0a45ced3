package watermark

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Documented configuration ranges. Range validation belongs to the calling
// layer; the core only enforces the spacing floor and the color fallback.
const (
	MinOpacity  = 0.05
	MaxOpacity  = 1.0
	MinFontSize = 10.0
	MaxFontSize = 200.0
	MaxRotation = 360.0
	MinSpacing  = 50.0
	MaxSpacing  = 1000.0

	// SpacingFloor is applied at draw time regardless of the configured
	// value, to prevent runaway tile counts.
	SpacingFloor = 20.0
)

// Config describes the desired watermark appearance and tiling geometry.
// It is treated as immutable for the duration of one operation.
type Config struct {
	Text     string  `json:"text"`
	Color    string  `json:"color"`     // 6-hex-digit RGB, optional leading '#'
	Opacity  float64 `json:"opacity"`   // [0.05, 1]
	FontSize float64 `json:"font_size"` // [10, 200] points
	Rotation float64 `json:"rotation"`  // [-360, 360] degrees counter-clockwise
	SpacingX float64 `json:"spacing_x"` // [50, 1000] points
	SpacingY float64 `json:"spacing_y"` // [50, 1000] points
}

// DefaultConfig returns the default watermark appearance.
func DefaultConfig() Config {
	return Config{
		Color:    "#cccccc",
		Opacity:  0.3,
		FontSize: 50,
		Rotation: 45,
		SpacingX: 250,
		SpacingY: 250,
	}
}

// Validate checks every numeric field against its documented range. It is
// meant for the upload-handling layer; Apply itself tolerates out-of-range
// values by clamping spacing and falling back on bad colors.
func (c Config) Validate() error {
	if c.Opacity < MinOpacity || c.Opacity > MaxOpacity {
		return fmt.Errorf("opacity %g out of range [%g, %g]", c.Opacity, MinOpacity, MaxOpacity)
	}
	if c.FontSize < MinFontSize || c.FontSize > MaxFontSize {
		return fmt.Errorf("font size %g out of range [%g, %g]", c.FontSize, MinFontSize, MaxFontSize)
	}
	if c.Rotation < -MaxRotation || c.Rotation > MaxRotation {
		return fmt.Errorf("rotation %g out of range [%g, %g]", c.Rotation, -MaxRotation, MaxRotation)
	}
	if c.SpacingX < MinSpacing || c.SpacingX > MaxSpacing {
		return fmt.Errorf("horizontal spacing %g out of range [%g, %g]", c.SpacingX, MinSpacing, MaxSpacing)
	}
	if c.SpacingY < MinSpacing || c.SpacingY > MaxSpacing {
		return fmt.Errorf("vertical spacing %g out of range [%g, %g]", c.SpacingY, MinSpacing, MaxSpacing)
	}
	return nil
}

// RGB holds normalized color channels, each in [0, 1].
type RGB struct {
	R, G, B float64
}

// FallbackRGB is the light gray used when a color string does not parse.
var FallbackRGB = RGB{R: 0.8, G: 0.8, B: 0.8}

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)

// HexToRGB converts a 6-hex-digit color string (optional leading '#') into
// normalized channels. Malformed input yields FallbackRGB rather than an
// error: a bad color is cosmetic, unlike a bad font source.
func HexToRGB(s string) RGB {
	m := hexColorPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return FallbackRGB
	}
	v, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return FallbackRGB
	}
	return RGB{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}
}

// EffectiveSpacing clamps a configured spacing to the draw-time floor.
func EffectiveSpacing(v float64) float64 {
	if v < SpacingFloor {
		return SpacingFloor
	}
	return v
}
