package contour

import (
	"fmt"
	"image"

	"golang.org/x/image/vector"

	"github.com/ironsheep/terrain-contour-mcp/internal/raster"
)

// Rasterize fills the polygons of a path into an alpha mask of the given size.
//
// One path unit maps to one pixel. Rings traced by BoundaryTracer have opposite
// winding for holes, so the accumulated coverage cancels inside them.
func Rasterize(path string, width, height int) (*image.Alpha, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid mask size %dx%d", width, height)
	}
	polygons, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	z := vector.NewRasterizer(width, height)
	for _, p := range polygons {
		z.MoveTo(float32(p[0].X), float32(p[0].Y))
		for _, pt := range p[1:] {
			z.LineTo(float32(pt.X), float32(pt.Y))
		}
		z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask, nil
}

// MaskToGrid thresholds an alpha mask at half coverage into a BinaryGrid.
func MaskToGrid(mask *image.Alpha) *raster.BinaryGrid {
	b := mask.Bounds()
	g := raster.NewBinaryGrid(b.Dx(), b.Dy())
	for r := 0; r < b.Dy(); r++ {
		for c := 0; c < b.Dx(); c++ {
			g.Set(r, c, mask.AlphaAt(b.Min.X+c, b.Min.Y+r).A >= 128)
		}
	}
	return g
}
