// Package terrain synthesises greyscale heightmaps from layered Perlin noise.
//
// Generated maps feed the vectorize pipeline the same way a loaded image does: every
// pixel is opaque and grey, so the red channel carries the height.
package terrain

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/perlin"
	"github.com/disintegration/imaging"
)

// ErrInvalidSize is returned for non-positive dimensions.
var ErrInvalidSize = errors.New("invalid heightmap size")

// MaxSide bounds each dimension of a generated map.
const MaxSide = 4096

// Layer is one octave of the heightmap.
type Layer struct {
	// Size is the feature size as a fraction of the longer image side.
	Size float64 `json:"size"`

	// Weight is the layer's share of the sum before normalisation.
	Weight float64 `json:"weight"`
}

// DefaultLayers produce broad landmasses with two rougher detail octaves.
var DefaultLayers = []Layer{
	{Size: 0.3, Weight: 1},
	{Size: 0.1, Weight: 1},
	{Size: 0.05, Weight: 0.5},
}

// Options controls Generate.
type Options struct {
	Width  int
	Height int

	// Seed makes the output reproducible. Layer i uses Seed+i.
	Seed int64

	// Layers defaults to DefaultLayers when empty.
	Layers []Layer

	// BlurRadius applies a Gaussian blur after normalisation when > 0.
	BlurRadius float64
}

// Generate renders a heightmap.
//
// Layer values are summed with normalised weights, then stretched so the lowest
// point is 0 and the highest 255. A perfectly flat map is all 0.
func Generate(opts Options) (*image.NRGBA, error) {
	if opts.Width < 1 || opts.Height < 1 || opts.Width > MaxSide || opts.Height > MaxSide {
		return nil, fmt.Errorf("%w: %dx%d (each side must be 1-%d)", ErrInvalidSize, opts.Width, opts.Height, MaxSide)
	}

	layers := opts.Layers
	if len(layers) == 0 {
		layers = DefaultLayers
	}
	var total float64
	for _, l := range layers {
		if l.Size <= 0 || l.Weight < 0 {
			return nil, fmt.Errorf("invalid layer size=%v weight=%v", l.Size, l.Weight)
		}
		total += l.Weight
	}
	if total == 0 {
		return nil, errors.New("layer weights sum to zero")
	}

	heights := Heights(opts.Width, opts.Height, opts.Seed, layers, total)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, h := range heights {
		lo = math.Min(lo, h)
		hi = math.Max(hi, h)
	}
	span := hi - lo

	img := image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	for i, h := range heights {
		var v uint8
		if span > 0 {
			v = uint8(math.Round((h - lo) / span * 255))
		}
		img.Pix[i*4+0] = v
		img.Pix[i*4+1] = v
		img.Pix[i*4+2] = v
		img.Pix[i*4+3] = 255
	}

	if opts.BlurRadius > 0 {
		img = imaging.Clone(blur.Gaussian(img, opts.BlurRadius))
		// The kernel sum can round alpha down to 254.
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 255
		}
	}
	return img, nil
}

// Heights returns the raw weighted noise sum for every pixel in row-major order.
func Heights(width, height int, seed int64, layers []Layer, totalWeight float64) []float64 {
	side := float64(width)
	if height > width {
		side = float64(height)
	}

	heights := make([]float64, width*height)
	for i, l := range layers {
		noise := perlin.NewPerlin(2, 2, 1, seed+int64(i))
		scale := 1 / (l.Size * side)
		w := l.Weight / totalWeight
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				heights[y*width+x] += w * noise.Noise2D(float64(x)*scale, float64(y)*scale)
			}
		}
	}
	return heights
}
