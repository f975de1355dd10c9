package classify

import (
	"fmt"

	"github.com/ironsheep/terrain-contour-mcp/internal/raster"
)

// Grids holds the two binary views produced from one intensity grid.
type Grids struct {
	// Fill has 1 where intensity >= FillByte.
	Fill *raster.BinaryGrid

	// Hole has 1 where intensity < HoleByte.
	Hole *raster.BinaryGrid

	// FillByte and HoleByte are the byte thresholds actually applied.
	FillByte uint8
	HoleByte uint8
}

// Classify applies both threshold predicates to the same intensity grid.
//
// The fill and hole grids are computed independently in a single pass; neither reads
// the other. A cell can therefore be set in both (intensity >= fill and < hole when
// the hole threshold is above the fill threshold), in one, or in neither.
func Classify(grid *raster.IntensityGrid, t Thresholds) (*Grids, error) {
	fillByte, holeByte, err := t.Bytes()
	if err != nil {
		return nil, err
	}

	fill := raster.NewBinaryGrid(grid.Width, grid.Height)
	hole := raster.NewBinaryGrid(grid.Width, grid.Height)
	for i, v := range grid.Cells {
		if v >= fillByte {
			fill.Cells[i] = 1
		}
		if v < holeByte {
			hole.Cells[i] = 1
		}
	}

	return &Grids{
		Fill:     fill,
		Hole:     hole,
		FillByte: fillByte,
		HoleByte: holeByte,
	}, nil
}

// SamplePoints walks grid at the given stride and returns flat (row, col) pairs.
//
// Rows 0, stride, 2*stride, ... are visited, and within each row the columns
// 0, stride, 2*stride, .... Every visited cell equal to marker contributes two
// consecutive values: its row index then its column index, both already in grid
// coordinates. The result holds at most 2*ceil(h/stride)*ceil(w/stride) values and is
// never nil.
func SamplePoints(grid *raster.BinaryGrid, stride int, marker uint8) ([]uint32, error) {
	if stride < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStride, stride)
	}

	points := make([]uint32, 0)
	for r := 0; r < grid.Height; r += stride {
		for c := 0; c < grid.Width; c += stride {
			if grid.At(r, c) == marker {
				points = append(points, uint32(r), uint32(c))
			}
		}
	}
	return points, nil
}
