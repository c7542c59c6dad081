package enhance

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/channel"
	"github.com/anthonynsimon/bild/clone"
)

// Normalize returns an opaque *image.RGBA copy of img whose bounds start at
// (0,0). Translucent pixels are flattened onto black.
func Normalize(img image.Image) *image.RGBA {
	dst := clone.Pad(img, 0, 0, clone.NoFill)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xFF
	}
	return dst
}

// Split decomposes img into its R, G and B planes.
func Split(img image.Image) (r, g, b *image.Gray) {
	src := Normalize(img)
	if src.Rect.Empty() {
		return image.NewGray(src.Rect), image.NewGray(src.Rect), image.NewGray(src.Rect)
	}
	return channel.Extract(src, channel.Red),
		channel.Extract(src, channel.Green),
		channel.Extract(src, channel.Blue)
}

// Merge recombines three planes into an opaque RGBA image. It is the exact
// inverse of Split for planes of equal size.
func Merge(r, g, b *image.Gray) (*image.RGBA, error) {
	if r == nil || g == nil || b == nil {
		return nil, fmt.Errorf("merge: nil plane: %w", ErrDimensionMismatch)
	}
	w, h := r.Rect.Dx(), r.Rect.Dy()
	for _, p := range []*image.Gray{g, b} {
		if p.Rect.Dx() != w || p.Rect.Dy() != h {
			return nil, fmt.Errorf("merge: plane %dx%d does not match %dx%d: %w",
				p.Rect.Dx(), p.Rect.Dy(), w, h, ErrDimensionMismatch)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		ri := r.PixOffset(r.Rect.Min.X, r.Rect.Min.Y+y)
		gi := g.PixOffset(g.Rect.Min.X, g.Rect.Min.Y+y)
		bi := b.PixOffset(b.Rect.Min.X, b.Rect.Min.Y+y)
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			row[x*4+0] = r.Pix[ri+x]
			row[x*4+1] = g.Pix[gi+x]
			row[x*4+2] = b.Pix[bi+x]
			row[x*4+3] = 0xFF
		}
	}
	return dst, nil
}

// reflect101 maps an out-of-range index into [0, n) by mirroring around the
// edge pixels without repeating them (gfedcb|abcdefgh|gfedcba).
func reflect101(p, n int) int {
	if n == 1 {
		return 0
	}
	for p < 0 || p >= n {
		if p < 0 {
			p = -p
		} else {
			p = 2*(n-1) - p
		}
	}
	return p
}

// padReflect101 copies a plane into a flat buffer extended by the given
// margins, filling the margins by reflect-101. It returns the buffer and its
// row stride.
func padReflect101(src *image.Gray, left, top, right, bottom int) ([]uint8, int) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	stride := w + left + right
	rows := h + top + bottom
	buf := make([]uint8, stride*rows)

	xmap := make([]int, stride)
	for x := range xmap {
		xmap[x] = reflect101(x-left, w)
	}
	for y := 0; y < rows; y++ {
		sy := reflect101(y-top, h)
		srow := src.Pix[src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+sy):]
		drow := buf[y*stride : (y+1)*stride]
		for x, sx := range xmap {
			drow[x] = srow[sx]
		}
	}
	return buf, stride
}
