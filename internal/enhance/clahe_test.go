package enhance

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"
)

func TestEqualize_InvalidClipLimit(t *testing.T) {
	plane := createGrayPlane(10, 10, func(x, y int) uint8 { return uint8(x * 20) })

	for _, clip := range []float64{0, -1, math.NaN()} {
		got, err := Equalize(plane, clip)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("clip %v: expected ErrInvalidParameter, got %v", clip, err)
		}
		if got != nil {
			t.Errorf("clip %v: expected no output on error", clip)
		}
		var pe *ParamError
		if !errors.As(err, &pe) || pe.Name != "clip_limit" {
			t.Errorf("clip %v: expected ParamError for clip_limit, got %v", clip, err)
		}
	}
}

func TestEqualize_PreservesDimensions(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{10, 10},
		{9, 9},
		{7, 5},
		{1, 1},
		{2, 2},
		{64, 3},
	}

	for _, tt := range tests {
		plane := createGrayPlane(tt.w, tt.h, func(x, y int) uint8 { return uint8(x*7 + y*13) })
		got, err := Equalize(plane, 0.35)
		if err != nil {
			t.Fatalf("%dx%d: Equalize failed: %v", tt.w, tt.h, err)
		}
		if got.Rect.Dx() != tt.w || got.Rect.Dy() != tt.h {
			t.Errorf("got %dx%d, want %dx%d", got.Rect.Dx(), got.Rect.Dy(), tt.w, tt.h)
		}
	}
}

func TestEqualize_FlatPlaneStaysUniform(t *testing.T) {
	plane := createGrayPlane(10, 10, func(x, y int) uint8 { return 128 })

	got, err := Equalize(plane, 0.35)
	if err != nil {
		t.Fatalf("Equalize failed: %v", err)
	}

	// 10x10 extends to 12x12: 4x4 tiles, clip limit 1, 15 clipped counts
	// spread every 17th bin, so the CDF at 128 is 9 of 16.
	for i, v := range got.Pix {
		if v != 143 {
			t.Fatalf("pixel %d: got %d, want 143", i, v)
		}
	}
}

func TestEqualize_StretchesLowContrast(t *testing.T) {
	plane := createGrayPlane(48, 48, func(x, y int) uint8 { return uint8(100 + (x+y)*20/94) })

	got, err := Equalize(plane, 2.0)
	if err != nil {
		t.Fatalf("Equalize failed: %v", err)
	}

	inLo, inHi := minMax(plane)
	outLo, outHi := minMax(got)
	if outHi-outLo <= inHi-inLo {
		t.Errorf("output range %d-%d not wider than input range %d-%d", outLo, outHi, inLo, inHi)
	}
}

func TestEqualize_HigherClipMoreContrast(t *testing.T) {
	plane := createGrayPlane(48, 48, func(x, y int) uint8 { return uint8(100 + (x+y)*20/94) })

	low, err := Equalize(plane, 0.1)
	if err != nil {
		t.Fatalf("Equalize failed: %v", err)
	}
	high, err := Equalize(plane, 3.0)
	if err != nil {
		t.Fatalf("Equalize failed: %v", err)
	}

	if variance(high) < variance(low) {
		t.Errorf("clip 3.0 variance %f below clip 0.1 variance %f", variance(high), variance(low))
	}
}

func TestClipHistogram(t *testing.T) {
	tests := []struct {
		name  string
		bins  func() []int
		limit int
	}{
		{
			"single spike",
			func() []int { b := make([]int, 256); b[128] = 16; return b },
			1,
		},
		{
			"large spike with batch",
			func() []int { b := make([]int, 256); b[10] = 1000; return b },
			4,
		},
		{
			"below limit",
			func() []int { b := make([]int, 256); b[3] = 2; b[4] = 2; return b },
			5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bins := tt.bins()
			before := total(bins)

			clipHistogram(bins, tt.limit)

			if after := total(bins); after != before {
				t.Errorf("total mass changed: %d -> %d", before, after)
			}
		})
	}
}

func TestClipHistogram_ResidualStride(t *testing.T) {
	bins := make([]int, 256)
	bins[128] = 16

	clipHistogram(bins, 1)

	if bins[128] != 1 {
		t.Errorf("bin 128: got %d, want 1", bins[128])
	}
	for i := 0; i < 256; i++ {
		want := 0
		if i%17 == 0 && i/17 < 15 {
			want = 1
		}
		if i == 128 {
			continue
		}
		if bins[i] != want {
			t.Errorf("bin %d: got %d, want %d", i, bins[i], want)
		}
	}
}

func minMax(p *image.Gray) (lo, hi int) {
	lo, hi = 255, 0
	for _, v := range p.Pix {
		if int(v) < lo {
			lo = int(v)
		}
		if int(v) > hi {
			hi = int(v)
		}
	}
	return lo, hi
}

func total(bins []int) int {
	n := 0
	for _, c := range bins {
		n += c
	}
	return n
}

func TestEqualizeContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := EqualizeContext(ctx, createGrayPlane(30, 30, func(x, y int) uint8 { return uint8(x + y) }), 0.35)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got != nil {
		t.Error("no plane should be returned when cancelled")
	}
}
