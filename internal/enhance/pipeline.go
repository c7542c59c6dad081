package enhance

import (
	"context"
	"fmt"
	"image"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Processor runs the full enhancement pipeline on one image.
type Processor interface {
	Process(ctx context.Context, img image.Image, p Params) (*image.RGBA, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, img image.Image, p Params) (*image.RGBA, error)

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, img image.Image, p Params) (*image.RGBA, error) {
	return f(ctx, img, p)
}

// Native is the pure Go implementation of the pipeline.
var Native Processor = ProcessorFunc(Process)

var (
	backendsMu sync.RWMutex
	backends   = map[string]Processor{"native": Native}
)

// RegisterBackend makes a Processor selectable by name. Backends that need
// native libraries register themselves from build-tagged files.
func RegisterBackend(name string, p Processor) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = p
}

// Backend returns the Processor registered under name. An empty name
// selects "native".
func Backend(name string) (Processor, error) {
	if name == "" {
		name = "native"
	}
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	p, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown enhancement backend %q (available: %v)", name, backendNames())
	}
	return p, nil
}

func backendNames() []string {
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Process denoises, equalizes, re-saturates and sharpens img.
//
// The R, G and B planes are denoised and equalized concurrently and joined
// before the saturation stage. ctx is checked between stages and row by row
// inside denoising and equalization; a cancelled context aborts the call
// with ctx.Err(). On any error no image is returned.
func Process(ctx context.Context, img image.Image, p Params) (*image.RGBA, error) {
	if err := p.checkDomain(); err != nil {
		return nil, err
	}

	r, g, b := Split(img)
	planes := [3]*image.Gray{r, g, b}

	grp, gctx := errgroup.WithContext(ctx)
	for i := range planes {
		i := i
		grp.Go(func() error {
			denoised, err := DenoiseContext(gctx, planes[i], p.DenoiseStrength)
			if err != nil {
				return err
			}
			eq, err := EqualizeContext(gctx, denoised, p.ClipLimit)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return fmt.Errorf("equalize plane %d: %w", i, err)
			}
			planes[i] = eq
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	merged, err := Merge(planes[0], planes[1], planes[2])
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saturated := RemapSaturation(merged, p.Saturation)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Sharpen(saturated, p.SharpenSize)
}
