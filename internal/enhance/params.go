package enhance

import (
	"fmt"
	"math"
)

// Fixed smoothing scales of the bilateral filter. They are intentionally
// independent of the user-facing denoise strength.
const (
	ColorSigma = 55.0
	SpaceSigma = 55.0
)

// TileGrid is the number of CLAHE tiles along each axis.
const TileGrid = 3

// Params holds the four user-tunable knobs of the pipeline.
type Params struct {
	// DenoiseStrength is the bilateral neighbourhood diameter (0-15).
	// Zero selects the filter's default size derived from SpaceSigma.
	DenoiseStrength int `json:"denoise_strength"`

	// ClipLimit is the CLAHE contrast clamp (0.1-3.0). Must be > 0.
	ClipLimit float64 `json:"clip_limit"`

	// SharpenSize is the side length of the sharpening kernel (odd, 1-9).
	SharpenSize int `json:"sharpen_size"`

	// Saturation multiplies the HSV saturation channel (0.0-2.0).
	Saturation float64 `json:"saturation"`
}

// Preset returns the default parameter set.
func Preset() Params {
	return Params{
		DenoiseStrength: 5,
		ClipLimit:       0.35,
		SharpenSize:     3,
		Saturation:      1.1,
	}
}

// Range documents one parameter's valid interval and preset value.
type Range struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Step        float64 `json:"step"`
	Preset      float64 `json:"preset"`
	Description string  `json:"description"`
}

// Ranges returns the declared range of every parameter, in display order.
func Ranges() []Range {
	p := Preset()
	return []Range{
		{
			Name: "denoise_strength", Type: "integer", Min: 0, Max: 15, Step: 1,
			Preset:      float64(p.DenoiseStrength),
			Description: "Neighbourhood diameter of the edge-preserving bilateral filter",
		},
		{
			Name: "clip_limit", Type: "number", Min: 0.1, Max: 3.0, Step: 0.05,
			Preset:      p.ClipLimit,
			Description: "CLAHE contrast clip limit",
		},
		{
			Name: "sharpen_size", Type: "integer", Min: 1, Max: 9, Step: 2,
			Preset:      float64(p.SharpenSize),
			Description: "Side length of the sharpening kernel (odd)",
		},
		{
			Name: "saturation", Type: "number", Min: 0.0, Max: 2.0, Step: 0.05,
			Preset:      p.Saturation,
			Description: "Multiplier applied to the HSV saturation channel",
		},
	}
}

// Validate enforces the declared ranges. The stages themselves only reject
// values outside their mathematical domain; this is the stricter check the
// server and CLI apply to user input.
func (p Params) Validate() error {
	if p.DenoiseStrength < 0 || p.DenoiseStrength > 15 {
		return &ParamError{Name: "denoise_strength", Value: float64(p.DenoiseStrength), Reason: "must be in [0, 15]"}
	}
	if math.IsNaN(p.ClipLimit) || p.ClipLimit < 0.1 || p.ClipLimit > 3.0 {
		return &ParamError{Name: "clip_limit", Value: p.ClipLimit, Reason: "must be in [0.1, 3.0]"}
	}
	if p.SharpenSize < 1 || p.SharpenSize > 9 || p.SharpenSize%2 == 0 {
		return &ParamError{Name: "sharpen_size", Value: float64(p.SharpenSize), Reason: "must be odd and in [1, 9]"}
	}
	if math.IsNaN(p.Saturation) || p.Saturation < 0 || p.Saturation > 2.0 {
		return &ParamError{Name: "saturation", Value: p.Saturation, Reason: "must be in [0.0, 2.0]"}
	}
	return nil
}

// checkDomain rejects values no stage can compute with. It runs before any
// work so that a bad sharpen size never costs a full denoise pass.
func (p Params) checkDomain() error {
	if err := checkClipLimit(p.ClipLimit); err != nil {
		return err
	}
	if err := checkKernelSize(p.SharpenSize); err != nil {
		return err
	}
	return nil
}

func checkClipLimit(clipLimit float64) error {
	if !(clipLimit > 0) {
		return &ParamError{Name: "clip_limit", Value: clipLimit, Reason: "must be greater than zero"}
	}
	return nil
}

func checkKernelSize(size int) error {
	if size < 1 || size%2 == 0 {
		return &ParamError{Name: "sharpen_size", Value: float64(size), Reason: "must be odd and >= 1"}
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("denoise=%d clip=%.2f sharpen=%d saturation=%.2f",
		p.DenoiseStrength, p.ClipLimit, p.SharpenSize, p.Saturation)
}
