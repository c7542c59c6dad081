package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// MaxPreviewSide bounds the longer side of a preview, after scaling.
const MaxPreviewSide = 2048

// PreviewResult contains a PNG preview of an image or part of it.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Region      string `json:"region"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RegionRect resolves a named region of bounds. An empty name or "full"
// selects the whole image.
func RegionRect(bounds image.Rectangle, region string) (image.Rectangle, error) {
	w := bounds.Dx()
	h := bounds.Dy()
	midX := w / 2
	midY := h / 2

	var x1, y1, x2, y2 int

	switch region {
	case "", "full":
		x1, y1, x2, y2 = 0, 0, w, h
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW := w / 4
		qH := h / 4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return image.Rectangle{}, fmt.Errorf("unknown region: %s", region)
	}

	r := image.Rect(x1, y1, x2, y2).Add(bounds.Min)
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("region %q of a %dx%d image is empty", region, w, h)
	}
	return r, nil
}

// Preview crops img to the named region, scales it by scale (Lanczos) and
// encodes it as PNG. A scale of 0 or 1 keeps the native size. The target
// size is capped to MaxPreviewSide on its longer side before resizing.
func Preview(img image.Image, region string, scale float64) (*PreviewResult, error) {
	if scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("scale must be a finite positive number, got %g", scale)
	}

	rect, err := RegionRect(img.Bounds(), region)
	if err != nil {
		return nil, err
	}

	var out image.Image = imaging.Crop(img, rect)

	newWidth, newHeight := previewSize(rect.Dx(), rect.Dy(), scale)
	if newWidth != rect.Dx() || newHeight != rect.Dy() {
		out = imaging.Resize(out, newWidth, newHeight, imaging.Lanczos)
	}

	data, err := EncodePNGBase64(out)
	if err != nil {
		return nil, err
	}

	if region == "" {
		region = "full"
	}
	return &PreviewResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Region:      region,
		ImageBase64: data,
		MimeType:    "image/png",
	}, nil
}

// previewSize returns the w x h region scaled by scale, shrunk to fit
// MaxPreviewSide. Each side is at least 1.
func previewSize(w, h int, scale float64) (int, int) {
	fw, fh := float64(w), float64(h)
	if scale != 0 && scale != 1.0 {
		fw = math.Floor(fw * scale)
		fh = math.Floor(fh * scale)
	}
	if long := math.Max(fw, fh); long > MaxPreviewSide {
		fw = math.Round(fw * MaxPreviewSide / long)
		fh = math.Round(fh * MaxPreviewSide / long)
	}
	return max(int(fw), 1), max(int(fh), 1)
}
