//go:build opencv

package enhance

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// OpenCV runs the pipeline through OpenCV via gocv. It is only compiled with
// the "opencv" build tag and serves as the reference the native filters are
// checked against.
var OpenCV Processor = ProcessorFunc(processOpenCV)

func init() {
	RegisterBackend("opencv", OpenCV)
}

func processOpenCV(ctx context.Context, img image.Image, p Params) (*image.RGBA, error) {
	if err := p.checkDomain(); err != nil {
		return nil, err
	}

	src, err := gocv.ImageToMatRGB(Normalize(img))
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to Mat: %w", err)
	}
	defer src.Close()

	planes := gocv.Split(src)
	defer func() {
		for _, m := range planes {
			m.Close()
		}
	}()

	clahe := gocv.NewCLAHEWithParams(p.ClipLimit, image.Point{X: TileGrid, Y: TileGrid})
	defer clahe.Close()

	for i := range planes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		blurred := gocv.NewMat()
		if err := gocv.BilateralFilter(planes[i], &blurred, p.DenoiseStrength, ColorSigma, SpaceSigma); err != nil {
			blurred.Close()
			return nil, fmt.Errorf("bilateral filter failed: %w", err)
		}
		eq := gocv.NewMat()
		if err := clahe.Apply(blurred, &eq); err != nil {
			blurred.Close()
			eq.Close()
			return nil, fmt.Errorf("CLAHE failed: %w", err)
		}
		blurred.Close()
		planes[i].Close()
		planes[i] = eq
	}

	merged := gocv.NewMat()
	defer merged.Close()
	if err := gocv.Merge(planes, &merged); err != nil {
		return nil, fmt.Errorf("merge failed: %w", err)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	if err := gocv.CvtColor(merged, &hsv, gocv.ColorBGRToHSV); err != nil {
		return nil, fmt.Errorf("BGR to HSV conversion failed: %w", err)
	}
	data, err := hsv.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("failed to access HSV data: %w", err)
	}
	for i := 1; i < len(data); i += 3 {
		data[i] = scaleSaturation(data[i], p.Saturation)
	}

	bgr := gocv.NewMat()
	defer bgr.Close()
	if err := gocv.CvtColor(hsv, &bgr, gocv.ColorHSVToBGR); err != nil {
		return nil, fmt.Errorf("HSV to BGR conversion failed: %w", err)
	}

	kernel := gocv.NewMatWithSize(p.SharpenSize, p.SharpenSize, gocv.MatTypeCV32F)
	defer kernel.Close()
	for y := 0; y < p.SharpenSize; y++ {
		for x := 0; x < p.SharpenSize; x++ {
			kernel.SetFloatAt(y, x, -1)
		}
	}
	c := p.SharpenSize / 2
	kernel.SetFloatAt(c, c, float32(p.SharpenSize*p.SharpenSize))

	sharpened := gocv.NewMat()
	defer sharpened.Close()
	if err := gocv.Filter2D(bgr, &sharpened, -1, kernel, image.Point{X: -1, Y: -1}, 0, gocv.BorderReplicate); err != nil {
		return nil, fmt.Errorf("filter2D failed: %w", err)
	}

	out, err := sharpened.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert Mat to image: %w", err)
	}
	return Normalize(out), nil
}
