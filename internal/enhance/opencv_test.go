//go:build opencv

package enhance

import (
	"context"
	"image"
	"testing"
)

func createGradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(40 + x*150/w)
			img.Pix[i+1] = uint8(60 + y*120/h)
			img.Pix[i+2] = uint8(90 + (x+y)*80/(w+h))
			img.Pix[i+3] = 255
		}
	}
	return img
}

// Rounding differs in places (OpenCV vectorises with fixed point) and the
// sharpening kernel amplifies single-step differences, so parity is measured
// as the mean absolute channel difference.
const parityTolerance = 2.0

func TestOpenCVParity(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		p    Params
	}{
		{"preset", 32, 24, Preset()},
		{"odd size", 17, 11, Preset()},
		{"strong", 30, 30, Params{DenoiseStrength: 9, ClipLimit: 2.0, SharpenSize: 5, Saturation: 1.6}},
		{"identity sharpen", 21, 21, Params{DenoiseStrength: 3, ClipLimit: 0.5, SharpenSize: 1, Saturation: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createGradientImage(tt.w, tt.h)

			native, err := Native.Process(context.Background(), img, tt.p)
			if err != nil {
				t.Fatalf("native: %v", err)
			}
			ref, err := OpenCV.Process(context.Background(), img, tt.p)
			if err != nil {
				t.Fatalf("opencv: %v", err)
			}

			if native.Rect != ref.Rect {
				t.Fatalf("bounds differ: %v vs %v", native.Rect, ref.Rect)
			}
			var sum int
			for i := range native.Pix {
				d := int(native.Pix[i]) - int(ref.Pix[i])
				if d < 0 {
					d = -d
				}
				sum += d
			}
			if mean := float64(sum) / float64(len(native.Pix)); mean > parityTolerance {
				t.Errorf("mean channel difference %.3f exceeds %.1f", mean, parityTolerance)
			}
		})
	}
}

func TestOpenCVBackendRegistered(t *testing.T) {
	if _, err := Backend("opencv"); err != nil {
		t.Fatalf("opencv backend not registered: %v", err)
	}
}
