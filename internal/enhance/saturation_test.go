package enhance

import (
	"image/color"
	"math"
	"testing"
)

func TestToHSV_Primaries(t *testing.T) {
	tests := []struct {
		name    string
		c       color.RGBA
		h, s, v uint8
	}{
		{"red", color.RGBA{255, 0, 0, 255}, 0, 255, 255},
		{"green", color.RGBA{0, 255, 0, 255}, 60, 255, 255},
		{"blue", color.RGBA{0, 0, 255, 255}, 120, 255, 255},
		{"black", color.RGBA{0, 0, 0, 255}, 0, 0, 0},
		{"white", color.RGBA{255, 255, 255, 255}, 0, 0, 255},
		{"gray", color.RGBA{128, 128, 128, 255}, 0, 0, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hsv := ToHSV(createInMemoryImage(2, 2, tt.c))
			h, s, v := hsv.At(1, 1)
			if h != tt.h || s != tt.s || v != tt.v {
				t.Errorf("got (%d,%d,%d), want (%d,%d,%d)", h, s, v, tt.h, tt.s, tt.v)
			}
		})
	}
}

func TestToHSV_HueRange(t *testing.T) {
	hsv := ToHSV(createNoiseImage(32, 32, 11))
	for i := 0; i < len(hsv.Pix); i += 3 {
		if hsv.Pix[i] >= 180 {
			t.Fatalf("hue at %d out of range: %d", i/3, hsv.Pix[i])
		}
	}
}

func TestScaleSaturation_Clamp(t *testing.T) {
	tests := []struct {
		name   string
		s      uint8
		factor float64
		want   uint8
	}{
		{"zero factor floors", 200, 0, MinSaturation},
		{"negative factor floors", 200, -1, MinSaturation},
		{"NaN floors", 200, math.NaN(), MinSaturation},
		{"gray stays at floor", 0, 1.1, MinSaturation},
		{"half truncates", 101, 0.5, 50},
		{"preset boost", 100, 1.1, 110},
		{"full saturation capped", 255, 1.0, MaxSaturation},
		{"large factor capped", 200, 5, MaxSaturation},
		{"identity", 128, 1.0, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scaleSaturation(tt.s, tt.factor); got != tt.want {
				t.Errorf("scaleSaturation(%d, %v): got %d, want %d", tt.s, tt.factor, got, tt.want)
			}
		})
	}
}

func TestScaleSaturation_BoundsAndUntouchedChannels(t *testing.T) {
	src := ToHSV(createNoiseImage(24, 24, 5))

	for _, factor := range []float64{0, 0.5, 1.1, 2, 5, -1, math.NaN()} {
		hsv := &HSV{Pix: append([]uint8(nil), src.Pix...), Stride: src.Stride, Rect: src.Rect}
		hsv.ScaleSaturation(factor)

		for i := 0; i < len(hsv.Pix); i += 3 {
			if hsv.Pix[i] != src.Pix[i] {
				t.Fatalf("factor %v: hue changed at %d", factor, i/3)
			}
			if s := hsv.Pix[i+1]; s < MinSaturation || s > MaxSaturation {
				t.Fatalf("factor %v: saturation %d out of [%d, %d]", factor, s, MinSaturation, MaxSaturation)
			}
			if hsv.Pix[i+2] != src.Pix[i+2] {
				t.Fatalf("factor %v: value changed at %d", factor, i/3)
			}
		}
	}
}

func TestRemapSaturation_PreservesDimensions(t *testing.T) {
	img := createNoiseImage(13, 9, 3)
	got := RemapSaturation(img, 1.1)
	if got.Rect.Dx() != 13 || got.Rect.Dy() != 9 {
		t.Errorf("got %dx%d, want 13x9", got.Rect.Dx(), got.Rect.Dy())
	}
}

func TestRemapSaturation_GrayPicksUpFloor(t *testing.T) {
	img := createInMemoryImage(4, 4, color.RGBA{128, 128, 128, 255})

	got := RemapSaturation(img, 1.1)

	// S=1 at hue 0 lowers G and B by one step.
	want := color.RGBA{128, 127, 127, 255}
	if c := got.RGBAAt(0, 0); c != want {
		t.Errorf("got %v, want %v", c, want)
	}
}

func TestRemapSaturation_ZeroDesaturates(t *testing.T) {
	img := createInMemoryImage(4, 4, color.RGBA{200, 40, 40, 255})

	got := RemapSaturation(img, 0).RGBAAt(1, 1)

	spread := int(got.R) - int(got.B)
	if spread < 0 || spread > 2 {
		t.Errorf("factor 0 left colour %v, want near gray", got)
	}
}

func TestRemapSaturation_BoostIncreasesSaturation(t *testing.T) {
	img := createInMemoryImage(4, 4, color.RGBA{160, 120, 100, 255})

	before := ToHSV(img)
	after := ToHSV(RemapSaturation(img, 1.5))

	_, s0, _ := before.At(0, 0)
	_, s1, _ := after.At(0, 0)
	if s1 <= s0 {
		t.Errorf("saturation %d -> %d, want an increase", s0, s1)
	}
}
