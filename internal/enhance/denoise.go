package enhance

import (
	"context"
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Denoise smooths a plane with a bilateral filter of the given diameter,
// using the fixed ColorSigma and SpaceSigma scales. A strength of 0 (or any
// non-positive value) falls back to the filter's default neighbourhood,
// derived from SpaceSigma. The result has the same dimensions as plane.
//
// Cost grows with the square of the neighbourhood radius.
func Denoise(plane *image.Gray, strength int) *image.Gray {
	out, _ := DenoiseContext(context.Background(), plane, strength)
	return out
}

// DenoiseContext is Denoise with cancellation. ctx is checked before every
// output row; once it is done the partial result is dropped and ctx.Err()
// returned.
func DenoiseContext(ctx context.Context, plane *image.Gray, strength int) (*image.Gray, error) {
	return bilateral(ctx, plane, strength, ColorSigma, SpaceSigma)
}

// bilateralRadius returns the neighbourhood radius for a diameter.
func bilateralRadius(diameter int, sigmaSpace float64) int {
	var radius int
	if diameter <= 0 {
		radius = int(math.RoundToEven(sigmaSpace * 1.5))
	} else {
		radius = diameter / 2
	}
	if radius < 1 {
		radius = 1
	}
	return radius
}

func bilateral(ctx context.Context, src *image.Gray, diameter int, sigmaColor, sigmaSpace float64) (*image.Gray, error) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if sigmaColor <= 0 {
		sigmaColor = 1
	}
	if sigmaSpace <= 0 {
		sigmaSpace = 1
	}
	radius := bilateralRadius(diameter, sigmaSpace)
	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)

	var colorWeight [256]float32
	for i := range colorWeight {
		colorWeight[i] = float32(math.Exp(float64(i*i) * colorCoeff))
	}

	pad, stride := padReflect101(src, radius, radius, radius, radius)

	// Only taps inside the circle of the radius contribute.
	offsets := make([]int, 0, (2*radius+1)*(2*radius+1))
	spaceWeight := make([]float32, 0, cap(offsets))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r := math.Sqrt(float64(dx*dx + dy*dy))
			if r > float64(radius) {
				continue
			}
			offsets = append(offsets, dy*stride+dx)
			spaceWeight = append(spaceWeight, float32(math.Exp(r*r*spaceCoeff)))
		}
	}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			if ctx.Err() != nil {
				return
			}
			row := dst.Pix[y*dst.Stride : y*dst.Stride+w]
			base := (y+radius)*stride + radius
			for x := range row {
				center := pad[base+x]
				var sum, wsum float32
				for k, off := range offsets {
					v := pad[base+x+off]
					wt := spaceWeight[k] * colorWeight[absDiff(v, center)]
					sum += float32(v) * wt
					wsum += wt
				}
				row[x] = saturateUint8(float64(sum / wsum))
			}
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return dst, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// saturateUint8 rounds half to even and clamps to [0, 255].
func saturateUint8(v float64) uint8 {
	r := math.RoundToEven(v)
	if r <= 0 {
		return 0
	}
	if r >= 255 {
		return 255
	}
	return uint8(r)
}
