package imaging

import (
	"fmt"
	"image"
	"math"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSVColor is a color in HSV space, in the units the saturation stage
// reasons about.
type HSVColor struct {
	H float64 `json:"h"` // Hue: 0-360 degrees
	S float64 `json:"s"` // Saturation: 0-1
	V float64 `json:"v"` // Value: 0-1

	// S8 is the 8-bit saturation (0-255) the pipeline clamps and rescales.
	S8 int `json:"s8"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	X   int      `json:"x"`
	Y   int      `json:"y"`
	Hex string   `json:"hex"` // "#rrggbb"
	RGB RGBColor `json:"rgb"`
	HSV HSVColor `json:"hsv"`
	HSL HSLColor `json:"hsl"`
}

// SampleColor reads the color at (x, y), relative to the image's top-left
// corner. Alpha is ignored.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < 0 || x >= bounds.Dx() || y < 0 || y >= bounds.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, bounds.Dx(), bounds.Dy())
	}

	c := toColorful(img.At(bounds.Min.X+x, bounds.Min.Y+y))
	r8, g8, b8 := c.RGB255()

	h, s, v := c.Hsv()
	hl, sl, l := c.Hsl()

	return &ColorResult{
		X:   x,
		Y:   y,
		Hex: c.Hex(),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSV: HSVColor{
			H:  round2(h),
			S:  round2(s),
			V:  round2(v),
			S8: int(math.RoundToEven(s * 255)),
		},
		HSL: HSLColor{
			H: int(hl),
			S: int(sl * 100),
			L: int(l * 100),
		},
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
