package enhance

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/util"
)

// Saturation clamp bounds. Remapped saturation never reaches 0 or 255.
const (
	MinSaturation = 1
	MaxSaturation = 254
)

// HSV is an 8-bit hue/saturation/value image. Each pixel occupies three
// bytes: H in [0, 179] (degrees halved), S and V in [0, 255].
type HSV struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// At returns the H, S and V bytes at (x, y), relative to Rect.Min.
func (m *HSV) At(x, y int) (h, s, v uint8) {
	i := y*m.Stride + x*3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// ToHSV converts img to 8-bit HSV.
func ToHSV(img image.Image) *HSV {
	src := Normalize(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := &HSV{Pix: make([]uint8, w*h*3), Stride: w * 3, Rect: src.Rect}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := y*src.Stride + x*4
			hue, sat, val := util.RGBToHSV(color.RGBA{R: src.Pix[si], G: src.Pix[si+1], B: src.Pix[si+2], A: 0xFF})
			hi := math.RoundToEven(hue / 2)
			if hi >= 180 {
				hi -= 180
			}
			di := y*out.Stride + x*3
			out.Pix[di] = uint8(hi)
			out.Pix[di+1] = saturateUint8(sat * 255)
			out.Pix[di+2] = saturateUint8(val * 255)
		}
	}
	return out
}

// RGBA converts the HSV image back to an opaque RGBA image.
func (m *HSV) RGBA() *image.RGBA {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hue, sat, val := m.At(x, y)
			c := util.HSVToRGB(float64(hue)*2, float64(sat)/255, float64(val)/255)
			di := y*dst.Stride + x*4
			dst.Pix[di] = c.R
			dst.Pix[di+1] = c.G
			dst.Pix[di+2] = c.B
			dst.Pix[di+3] = 0xFF
		}
	}
	return dst
}

// ScaleSaturation multiplies every S sample by factor, clamps the product to
// [MinSaturation, MaxSaturation] and truncates it to 8 bits. Hue and value
// are left untouched.
func (m *HSV) ScaleSaturation(factor float64) {
	for i := 1; i < len(m.Pix); i += 3 {
		m.Pix[i] = scaleSaturation(m.Pix[i], factor)
	}
}

func scaleSaturation(s uint8, factor float64) uint8 {
	v := float64(s) * factor
	switch {
	case math.IsNaN(v), v < MinSaturation:
		v = MinSaturation
	case v > MaxSaturation:
		v = MaxSaturation
	}
	return uint8(v)
}

// RemapSaturation rescales the saturation of img by factor. Factors outside
// [0, 2] are accepted; the clamp keeps the result well defined.
func RemapSaturation(img image.Image, factor float64) *image.RGBA {
	hsv := ToHSV(img)
	hsv.ScaleSaturation(factor)
	return hsv.RGBA()
}
