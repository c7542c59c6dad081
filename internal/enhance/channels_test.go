package enhance

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"
)

// createInMemoryImage creates a solid-colour test image
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createNoiseImage creates a deterministic pseudo-random opaque image
func createNoiseImage(width, height int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	return img
}

// createGrayPlane creates a plane filled by fn(x, y)
func createGrayPlane(width, height int, fn func(x, y int) uint8) *image.Gray {
	p := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p.Pix[y*p.Stride+x] = fn(x, y)
		}
	}
	return p
}

func rgbaEqual(a, b *image.RGBA) bool {
	if a.Rect.Dx() != b.Rect.Dx() || a.Rect.Dy() != b.Rect.Dy() {
		return false
	}
	for y := 0; y < a.Rect.Dy(); y++ {
		for x := 0; x < a.Rect.Dx(); x++ {
			if a.RGBAAt(a.Rect.Min.X+x, a.Rect.Min.Y+y) != b.RGBAAt(b.Rect.Min.X+x, b.Rect.Min.Y+y) {
				return false
			}
		}
	}
	return true
}

func TestSplit_ChannelOrder(t *testing.T) {
	img := createInMemoryImage(4, 3, color.RGBA{200, 100, 50, 255})

	r, g, b := Split(img)

	for _, tt := range []struct {
		name  string
		plane *image.Gray
		want  uint8
	}{
		{"red", r, 200},
		{"green", g, 100},
		{"blue", b, 50},
	} {
		if tt.plane.Rect.Dx() != 4 || tt.plane.Rect.Dy() != 3 {
			t.Errorf("%s plane: got %dx%d, want 4x3", tt.name, tt.plane.Rect.Dx(), tt.plane.Rect.Dy())
		}
		if got := tt.plane.GrayAt(2, 1).Y; got != tt.want {
			t.Errorf("%s plane: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestSplitMerge_Inverse(t *testing.T) {
	tests := []struct {
		name string
		img  *image.RGBA
	}{
		{"solid", createInMemoryImage(10, 10, color.RGBA{128, 64, 32, 255})},
		{"noise", createNoiseImage(37, 23, 1)},
		{"single pixel", createNoiseImage(1, 1, 2)},
		{"single row", createNoiseImage(17, 1, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := Merge(Split(tt.img))
			if err != nil {
				t.Fatalf("Merge failed: %v", err)
			}
			if !rgbaEqual(merged, tt.img) {
				t.Error("merge(split(img)) differs from img")
			}
		})
	}
}

func TestMerge_DimensionMismatch(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 10, 10))
	b := image.NewGray(image.Rect(0, 0, 10, 10))

	tests := []struct {
		name    string
		r, g, b *image.Gray
	}{
		{"wider green", a, image.NewGray(image.Rect(0, 0, 11, 10)), b},
		{"taller blue", a, b, image.NewGray(image.Rect(0, 0, 10, 9))},
		{"nil plane", a, nil, b},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Merge(tt.r, tt.g, tt.b)
			if !errors.Is(err, ErrDimensionMismatch) {
				t.Fatalf("expected ErrDimensionMismatch, got %v", err)
			}
			if img != nil {
				t.Error("Merge should not return an image on error")
			}
		})
	}
}

func TestNormalize_SubImageOrigin(t *testing.T) {
	src := createNoiseImage(20, 20, 4)
	sub := src.SubImage(image.Rect(5, 6, 15, 12)).(*image.RGBA)

	got := Normalize(sub)

	if got.Rect.Min != (image.Point{}) {
		t.Errorf("origin: got %v, want (0,0)", got.Rect.Min)
	}
	if got.Rect.Dx() != 10 || got.Rect.Dy() != 6 {
		t.Fatalf("size: got %dx%d, want 10x6", got.Rect.Dx(), got.Rect.Dy())
	}
	if got.RGBAAt(0, 0) != src.RGBAAt(5, 6) {
		t.Errorf("pixel (0,0): got %v, want %v", got.RGBAAt(0, 0), src.RGBAAt(5, 6))
	}
}

func TestNormalize_DropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0
	}

	got := Normalize(img)
	for i := 3; i < len(got.Pix); i += 4 {
		if got.Pix[i] != 255 {
			t.Fatalf("alpha at %d: got %d, want 255", i, got.Pix[i])
		}
	}
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		p, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-7, 5, 1},
		{12, 5, 4},
		{3, 1, 0},
		{-3, 1, 0},
		{2, 2, 0},
		{-1, 2, 1},
	}

	for _, tt := range tests {
		if got := reflect101(tt.p, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d): got %d, want %d", tt.p, tt.n, got, tt.want)
		}
	}
}

func TestPadReflect101(t *testing.T) {
	// Row 0..3 in a single-row plane
	plane := createGrayPlane(4, 1, func(x, y int) uint8 { return uint8(x) })

	buf, stride := padReflect101(plane, 2, 1, 2, 0)

	if stride != 8 {
		t.Fatalf("stride: got %d, want 8", stride)
	}
	want := []uint8{2, 1, 0, 1, 2, 3, 2, 1}
	for row := 0; row < 2; row++ {
		for x, w := range want {
			if got := buf[row*stride+x]; got != w {
				t.Errorf("row %d col %d: got %d, want %d", row, x, got, w)
			}
		}
	}
}
