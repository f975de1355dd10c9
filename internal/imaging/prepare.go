package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// MaxPreparedSide bounds each side of a prepared image after scaling.
const MaxPreparedSide = 8192

// Rect is a pixel region. (X1,Y1) is inclusive and (X2,Y2) exclusive.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// PrepareOptions is the optional pre-pass applied before sampling.
//
// Steps run in field order: crop (Rect wins over Region), grayscale, invert, blur,
// then scale. The zero value leaves the image unchanged apart from normalising it to
// *image.NRGBA.
type PrepareOptions struct {
	// Rect crops to an explicit region.
	Rect *Rect

	// Region crops to a named region; see RegionRect.
	Region string

	// Grayscale replaces every pixel with its luminance so channel 0 carries brightness
	// instead of red.
	Grayscale bool

	// Invert swaps high and low ground.
	Invert bool

	// Blur is a Gaussian sigma applied when > 0.
	Blur float64

	// Scale resizes with Lanczos resampling. 0 and 1 leave the size unchanged.
	Scale float64
}

// Prepare applies opts to img and returns a new image. img is never modified.
//
// # Errors
//
//   - crop region outside the image bounds, or empty
//   - unknown region name
//   - negative scale, or a scaled side outside 1..MaxPreparedSide
func Prepare(img image.Image, opts PrepareOptions) (*image.NRGBA, error) {
	out := imaging.Clone(img)
	bounds := out.Bounds()

	var crop *Rect
	switch {
	case opts.Rect != nil:
		crop = opts.Rect
	case opts.Region != "":
		r, err := RegionRect(bounds.Dx(), bounds.Dy(), opts.Region)
		if err != nil {
			return nil, err
		}
		crop = &r
	}
	if crop != nil {
		if crop.X1 < 0 || crop.Y1 < 0 || crop.X2 > bounds.Dx() || crop.Y2 > bounds.Dy() {
			return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
				crop.X1, crop.Y1, crop.X2, crop.Y2, bounds.Dx(), bounds.Dy())
		}
		if crop.X1 >= crop.X2 || crop.Y1 >= crop.Y2 {
			return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
		}
		out = imaging.Crop(out, image.Rect(crop.X1, crop.Y1, crop.X2, crop.Y2))
	}

	if opts.Grayscale {
		out = imaging.Grayscale(out)
	}
	if opts.Invert {
		out = imaging.Invert(out)
	}
	if opts.Blur > 0 {
		out = imaging.Blur(out, opts.Blur)
	}

	if opts.Scale < 0 {
		return nil, fmt.Errorf("invalid scale %v: must be positive", opts.Scale)
	}
	if opts.Scale != 0 && opts.Scale != 1 {
		w := int(float64(out.Bounds().Dx()) * opts.Scale)
		h := int(float64(out.Bounds().Dy()) * opts.Scale)
		if w < 1 || h < 1 || w > MaxPreparedSide || h > MaxPreparedSide {
			return nil, fmt.Errorf("scale %v gives %dx%d (each side must be 1-%d)", opts.Scale, w, h, MaxPreparedSide)
		}
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}

	return out, nil
}

// RegionRect resolves a named region of a width x height image.
//
// Names: top-left, top-right, bottom-left, bottom-right, top-half, bottom-half,
// left-half, right-half, center (the middle 50% on each axis).
func RegionRect(width, height int, region string) (Rect, error) {
	midX := width / 2
	midY := height / 2

	switch region {
	case "top-left":
		return Rect{0, 0, midX, midY}, nil
	case "top-right":
		return Rect{midX, 0, width, midY}, nil
	case "bottom-left":
		return Rect{0, midY, midX, height}, nil
	case "bottom-right":
		return Rect{midX, midY, width, height}, nil
	case "top-half":
		return Rect{0, 0, width, midY}, nil
	case "bottom-half":
		return Rect{0, midY, width, height}, nil
	case "left-half":
		return Rect{0, 0, midX, height}, nil
	case "right-half":
		return Rect{midX, 0, width, height}, nil
	case "center":
		qW := width / 4
		qH := height / 4
		return Rect{qW, qH, width - qW, height - qH}, nil
	default:
		return Rect{}, fmt.Errorf("unknown region: %s", region)
	}
}
