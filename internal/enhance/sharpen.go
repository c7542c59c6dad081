package enhance

import (
	"image"

	"github.com/anthonynsimon/bild/convolution"
)

// SharpenKernel builds the size x size high-pass kernel: every cell is -1
// except the centre, which is size². The coefficients sum to 1, so flat
// regions keep their brightness. size must be odd and >= 1.
func SharpenKernel(size int) (*convolution.Kernel, error) {
	if err := checkKernelSize(size); err != nil {
		return nil, err
	}
	k := convolution.NewKernel(size, size)
	for i := range k.Matrix {
		k.Matrix[i] = -1
	}
	c := size / 2
	k.Matrix[c*size+c] = float64(size * size)
	return k, nil
}

// Sharpen convolves every colour channel of img with SharpenKernel(size).
// Pixels beyond the border are replicated from the nearest edge, so the
// output has the input's dimensions. size 1 is the identity.
func Sharpen(img image.Image, size int) (*image.RGBA, error) {
	k, err := SharpenKernel(size)
	if err != nil {
		return nil, err
	}
	src := Normalize(img)
	if src.Rect.Empty() {
		return src, nil
	}
	return convolution.Convolve(src, k, &convolution.Options{KeepAlpha: true}), nil
}
