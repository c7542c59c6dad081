package enhance

import (
	"context"
	"image"
	"math"

	"github.com/anthonynsimon/bild/histogram"
)

const histBins = 256

// Equalize applies contrast-limited adaptive histogram equalization to a
// plane using a TileGrid x TileGrid grid of tiles. Histogram bins above
// clipLimit times the average bin count are clipped and the excess is spread
// over all bins before each tile's mapping curve is built. Pixels are mapped
// by bilinear interpolation between the curves of the four nearest tile
// centres.
//
// clipLimit must be > 0, otherwise the returned error wraps
// ErrInvalidParameter.
func Equalize(plane *image.Gray, clipLimit float64) (*image.Gray, error) {
	return EqualizeContext(context.Background(), plane, clipLimit)
}

// EqualizeContext is Equalize with cancellation, checked per tile row and
// per output row.
func EqualizeContext(ctx context.Context, plane *image.Gray, clipLimit float64) (*image.Gray, error) {
	if err := checkClipLimit(clipLimit); err != nil {
		return nil, err
	}
	return clahe(ctx, plane, clipLimit, TileGrid, TileGrid)
}

func clahe(ctx context.Context, src *image.Gray, clipLimit float64, tilesX, tilesY int) (*image.Gray, error) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst, nil
	}

	// Extend bottom/right so the plane divides evenly into tiles.
	var padX, padY int
	if w%tilesX != 0 {
		padX = tilesX - w%tilesX
	}
	if h%tilesY != 0 {
		padY = tilesY - h%tilesY
	}
	ext, stride := padReflect101(src, 0, 0, padX, padY)
	tileW := (w + padX) / tilesX
	tileH := (h + padY) / tilesY
	tileArea := tileW * tileH

	limit := int(clipLimit * float64(tileArea) / histBins)
	if limit < 1 {
		limit = 1
	}
	lutScale := float32(histBins-1) / float32(tileArea)

	luts := make([][histBins]uint8, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for tx := 0; tx < tilesX; tx++ {
			hist := histogram.Histogram{Bins: make([]int, histBins)}
			for y := ty * tileH; y < (ty+1)*tileH; y++ {
				row := ext[y*stride+tx*tileW : y*stride+(tx+1)*tileW]
				for _, v := range row {
					hist.Bins[v]++
				}
			}
			clipHistogram(hist.Bins, limit)

			cdf := hist.Cumulative()
			lut := &luts[ty*tilesX+tx]
			for i, c := range cdf.Bins {
				lut[i] = saturateUint8(float64(float32(c) * lutScale))
			}
		}
	}

	// Per-column interpolation coordinates are shared by every row.
	invTW := float32(1) / float32(tileW)
	invTH := float32(1) / float32(tileH)
	tx1 := make([]int, w)
	tx2 := make([]int, w)
	xa := make([]float32, w)
	for x := 0; x < w; x++ {
		txf := float32(x)*invTW - 0.5
		t1 := int(math.Floor(float64(txf)))
		xa[x] = txf - float32(t1)
		tx1[x] = max(t1, 0)
		tx2[x] = min(t1+1, tilesX-1)
	}

	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tyf := float32(y)*invTH - 0.5
		t1 := int(math.Floor(float64(tyf)))
		ya := tyf - float32(t1)
		ty1 := max(t1, 0)
		ty2 := min(t1+1, tilesY-1)

		srow := src.Pix[src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y):]
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := range drow {
			v := srow[x]
			a := 1 - xa[x]
			top := float32(luts[ty1*tilesX+tx1[x]][v])*a + float32(luts[ty1*tilesX+tx2[x]][v])*xa[x]
			bottom := float32(luts[ty2*tilesX+tx1[x]][v])*a + float32(luts[ty2*tilesX+tx2[x]][v])*xa[x]
			drow[x] = saturateUint8(float64(top*(1-ya) + bottom*ya))
		}
	}

	return dst, nil
}

// clipHistogram clamps every bin to limit and redistributes the clipped
// mass: an even share to every bin, then the remainder one count at a time at
// a fixed stride starting from bin 0.
func clipHistogram(bins []int, limit int) {
	clipped := 0
	for i, c := range bins {
		if c > limit {
			clipped += c - limit
			bins[i] = limit
		}
	}

	batch := clipped / len(bins)
	residual := clipped - batch*len(bins)
	for i := range bins {
		bins[i] += batch
	}
	if residual != 0 {
		step := max(len(bins)/residual, 1)
		for i := 0; i < len(bins) && residual > 0; i += step {
			bins[i]++
			residual--
		}
	}
}
