package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestMeasure_FlatImage(t *testing.T) {
	m := Measure(createInMemoryImage(20, 20, color.RGBA{100, 100, 100, 255}))

	if m.Sharpness != 0 {
		t.Errorf("Sharpness: got %v, want 0", m.Sharpness)
	}
	if m.Contrast > 1e-3 {
		t.Errorf("Contrast: got %v, want 0", m.Contrast)
	}
	if math.Abs(m.Brightness-100) > 1e-6 {
		t.Errorf("Brightness: got %v, want 100", m.Brightness)
	}
	if m.Saturation != 0 {
		t.Errorf("Saturation: got %v, want 0", m.Saturation)
	}
	want := ChannelStats{Mean: 100, Min: 100, Max: 100}
	for name, got := range map[string]ChannelStats{"red": m.Red, "green": m.Green, "blue": m.Blue} {
		if got != want {
			t.Errorf("%s: got %+v, want %+v", name, got, want)
		}
	}
}

func TestMeasure_ChannelStats(t *testing.T) {
	m := Measure(createPatternImage(10, 10))

	// Red is 255 in the red and white quadrants, 0 elsewhere.
	if m.Red.Min != 0 || m.Red.Max != 255 {
		t.Errorf("red range: got %d-%d, want 0-255", m.Red.Min, m.Red.Max)
	}
	if math.Abs(m.Red.Mean-127.5) > 1e-9 {
		t.Errorf("red mean: got %v, want 127.5", m.Red.Mean)
	}
	// Three of four quadrants are fully saturated.
	if math.Abs(m.Saturation-0.75) > 1e-9 {
		t.Errorf("Saturation: got %v, want 0.75", m.Saturation)
	}
}

func TestMeasure_EdgesRaiseSharpness(t *testing.T) {
	flat := Measure(createInMemoryImage(20, 20, color.Gray{128}))
	edged := Measure(createPatternImage(20, 20))

	if edged.Sharpness <= flat.Sharpness {
		t.Errorf("pattern sharpness %v not above flat %v", edged.Sharpness, flat.Sharpness)
	}
	if edged.Contrast <= flat.Contrast {
		t.Errorf("pattern contrast %v not above flat %v", edged.Contrast, flat.Contrast)
	}
}

func TestMeasure_Empty(t *testing.T) {
	m := Measure(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if m != (QualityMetrics{}) {
		t.Errorf("expected zero metrics, got %+v", m)
	}
}

func TestCompare(t *testing.T) {
	before := createInMemoryImage(16, 16, color.RGBA{120, 100, 90, 255})
	after := createInMemoryImage(16, 16, color.RGBA{160, 100, 60, 255})

	c, err := Compare(before, after)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if c.SaturationGain <= 1 {
		t.Errorf("SaturationGain: got %v, want > 1", c.SaturationGain)
	}
	if c.MeanDeltaE <= 1 {
		t.Errorf("MeanDeltaE: got %v, want a visible difference", c.MeanDeltaE)
	}
	// Flat images have no edges to relate.
	if c.SharpnessGain != 0 {
		t.Errorf("SharpnessGain on flat images: got %v, want 0", c.SharpnessGain)
	}
}

func TestCompare_Identical(t *testing.T) {
	img := createPatternImage(12, 12)

	c, err := Compare(img, img)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if c.MeanDeltaE > 1e-9 {
		t.Errorf("MeanDeltaE: got %v, want 0", c.MeanDeltaE)
	}
	if c.SharpnessGain != 1 || c.ContrastGain != 1 || c.SaturationGain != 1 {
		t.Errorf("gains: got %v/%v/%v, want 1", c.SharpnessGain, c.ContrastGain, c.SaturationGain)
	}
}

func TestCompare_DimensionMismatch(t *testing.T) {
	if _, err := Compare(createPatternImage(10, 10), createPatternImage(10, 11)); err == nil {
		t.Error("expected error for mismatched dimensions")
	}
}

func TestCompare_DeltaEConventionalScale(t *testing.T) {
	black := createInMemoryImage(4, 4, color.RGBA{0, 0, 0, 255})
	white := createInMemoryImage(4, 4, color.RGBA{255, 255, 255, 255})

	c, err := Compare(black, white)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	// Black to white spans the whole lightness axis.
	if math.Abs(c.MeanDeltaE-100) > 0.01 {
		t.Errorf("MeanDeltaE black->white: got %v, want 100", c.MeanDeltaE)
	}
}
