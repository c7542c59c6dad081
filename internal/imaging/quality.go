package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/histogram"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ChannelStats summarises one colour channel's histogram.
type ChannelStats struct {
	Mean float64 `json:"mean"`
	Min  int     `json:"min"`
	Max  int     `json:"max"`
}

// QualityMetrics are no-reference measures of an image's look.
type QualityMetrics struct {
	// Sharpness is the mean Sobel gradient magnitude of the luminance
	// (0-255 scale). Higher is crisper.
	Sharpness float64 `json:"sharpness"`

	// Contrast is the RMS contrast: standard deviation of the luminance,
	// 0-255 scale.
	Contrast float64 `json:"contrast"`

	// Brightness is the mean luminance, 0-255 scale.
	Brightness float64 `json:"brightness"`

	// Saturation is the mean HSV saturation, 0-1.
	Saturation float64 `json:"saturation"`

	Red   ChannelStats `json:"red"`
	Green ChannelStats `json:"green"`
	Blue  ChannelStats `json:"blue"`
}

// Comparison contrasts the metrics of an image before and after enhancement.
type Comparison struct {
	Before QualityMetrics `json:"before"`
	After  QualityMetrics `json:"after"`

	// SharpnessGain, ContrastGain and SaturationGain are After/Before
	// ratios; 0 when the Before value is 0.
	SharpnessGain  float64 `json:"sharpness_gain"`
	ContrastGain   float64 `json:"contrast_gain"`
	SaturationGain float64 `json:"saturation_gain"`

	// MeanDeltaE is the mean CIEDE2000 colour difference per pixel, on the
	// conventional scale (black to white is 100).
	MeanDeltaE float64 `json:"mean_delta_e"`
}

// Measure computes QualityMetrics for img.
func Measure(img image.Image) QualityMetrics {
	src := clone.AsRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w == 0 || h == 0 {
		return QualityMetrics{}
	}

	luma := make([]float64, w*h)
	var sumL, sumSqL, sumS float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]

			// ITU-R BT.601 luminance
			l := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			luma[y*w+x] = l
			sumL += l
			sumSqL += l * l

			_, s, _ := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hsv()
			sumS += s
		}
	}

	n := float64(w * h)
	mean := sumL / n
	hist := histogram.NewRGBAHistogram(src)

	return QualityMetrics{
		Sharpness:  sobelMean(luma, w, h),
		Contrast:   math.Sqrt(math.Max(sumSqL/n-mean*mean, 0)),
		Brightness: mean,
		Saturation: sumS / n,
		Red:        channelStats(hist.R),
		Green:      channelStats(hist.G),
		Blue:       channelStats(hist.B),
	}
}

// Compare measures before and after and relates them. Both images must have
// the same dimensions.
func Compare(before, after image.Image) (*Comparison, error) {
	bb, ab := before.Bounds(), after.Bounds()
	if bb.Dx() != ab.Dx() || bb.Dy() != ab.Dy() {
		return nil, fmt.Errorf("cannot compare %dx%d with %dx%d", bb.Dx(), bb.Dy(), ab.Dx(), ab.Dy())
	}

	c := &Comparison{
		Before:     Measure(before),
		After:      Measure(after),
		MeanDeltaE: meanDeltaE(before, after),
	}
	c.SharpnessGain = ratio(c.After.Sharpness, c.Before.Sharpness)
	c.ContrastGain = ratio(c.After.Contrast, c.Before.Contrast)
	c.SaturationGain = ratio(c.After.Saturation, c.Before.Saturation)
	return c, nil
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func channelStats(h histogram.Histogram) ChannelStats {
	var total, weighted int
	for v, c := range h.Bins {
		total += c
		weighted += v * c
	}
	if total == 0 {
		return ChannelStats{}
	}
	return ChannelStats{
		Mean: float64(weighted) / float64(total),
		Min:  firstNonEmpty(h.Bins),
		Max:  lastNonEmpty(h.Bins),
	}
}

func firstNonEmpty(bins []int) int {
	for i, c := range bins {
		if c > 0 {
			return i
		}
	}
	return 0
}

func lastNonEmpty(bins []int) int {
	for i := len(bins) - 1; i >= 0; i-- {
		if bins[i] > 0 {
			return i
		}
	}
	return 0
}

// sobelMean returns the mean gradient magnitude over interior pixels.
func sobelMean(luma []float64, w, h int) float64 {
	if w < 3 || h < 3 {
		return 0
	}

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	var sum float64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := luma[(y+ky)*w+x+kx]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			sum += math.Sqrt(gx*gx + gy*gy)
		}
	}
	return sum / float64((w-2)*(h-2))
}

// deltaEScale converts go-colorful distances (L in [0, 1]) to the
// conventional CIEDE2000 scale where L runs to 100.
const deltaEScale = 100

func meanDeltaE(a, b image.Image) float64 {
	ab, bb := a.Bounds(), b.Bounds()
	w, h := ab.Dx(), ab.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ca := toColorful(a.At(ab.Min.X+x, ab.Min.Y+y))
			cb := toColorful(b.At(bb.Min.X+x, bb.Min.Y+y))
			sum += ca.DistanceCIEDE2000(cb) * deltaEScale
		}
	}
	return sum / float64(w*h)
}

// toColorful converts c to a colorful.Color, ignoring alpha.
func toColorful(c color.Color) colorful.Color {
	r, g, b, _ := c.RGBA()
	return colorful.Color{R: float64(r>>8) / 255, G: float64(g>>8) / 255, B: float64(b>>8) / 255}
}
