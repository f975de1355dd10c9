package regions

import (
	"sort"

	"github.com/ironsheep/terrain-contour-mcp/internal/raster"
)

// Bounds is a cell-aligned bounding box.
//
//   - (X1, Y1) is the top-left cell (inclusive)
//   - (X2, Y2) is one past the bottom-right cell (exclusive)
type Bounds struct {
	X1 int `json:"x1"` // Left column (inclusive)
	Y1 int `json:"y1"` // Top row (inclusive)
	X2 int `json:"x2"` // Right column (exclusive)
	Y2 int `json:"y2"` // Bottom row (exclusive)
}

// Point is a cell coordinate.
type Point struct {
	X int `json:"x"` // Column
	Y int `json:"y"` // Row
}

// Region is one 4-connected group of cells sharing the marker value.
type Region struct {
	// Bounds encloses every cell of the region.
	Bounds Bounds `json:"bounds"`

	// Center is the centre of Bounds, rounded down.
	Center Point `json:"center"`

	// Area is the number of cells in the region.
	Area int `json:"area"`

	// TouchesEdge is true when the region reaches the grid border. For hole regions
	// this separates enclosed lakes from open background.
	TouchesEdge bool `json:"touches_edge"`
}

// Result lists the regions found in one grid.
type Result struct {
	// Regions sorted by area, largest first.
	Regions []Region `json:"regions"`

	// Count is len(Regions).
	Count int `json:"count"`

	// TotalArea is the sum of all region areas.
	TotalArea int `json:"total_area"`
}

// Label finds every 4-connected region of cells equal to marker.
//
// Parameters:
//   - grid: the binary grid to scan.
//   - marker: the cell value that belongs to a region (1 for islands, 0 for gaps).
//   - minArea: regions with fewer cells are dropped. Use 0 or 1 to keep everything.
//
// # Connectivity
//
// Cells are joined only through shared edges, never through corners. This matches
// BoundaryTracer, which emits one ring per 4-connected component.
func Label(grid *raster.BinaryGrid, marker uint8, minArea int) *Result {
	w, h := grid.Width, grid.Height
	visited := make([]bool, w*h)
	regions := make([]Region, 0)
	total := 0

	for start := range grid.Cells {
		if visited[start] || grid.Cells[start] != marker {
			continue
		}
		r := floodFill(grid, visited, start, marker)
		if r.Area < minArea {
			continue
		}
		regions = append(regions, r)
		total += r.Area
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Area > regions[j].Area
	})

	return &Result{
		Regions:   regions,
		Count:     len(regions),
		TotalArea: total,
	}
}

// floodFill walks one region with an explicit stack so large regions cannot
// overflow the goroutine stack.
func floodFill(grid *raster.BinaryGrid, visited []bool, start int, marker uint8) Region {
	w, h := grid.Width, grid.Height
	minX, minY := w, h
	maxX, maxY := -1, -1
	area := 0
	edge := false

	stack := []int{start}
	visited[start] = true
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := i%w, i/w
		area++
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
		if x == 0 || y == 0 || x == w-1 || y == h-1 {
			edge = true
		}

		for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
			nx, ny := n[0], n[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			j := ny*w + nx
			if visited[j] || grid.Cells[j] != marker {
				continue
			}
			visited[j] = true
			stack = append(stack, j)
		}
	}

	return Region{
		Bounds:      Bounds{X1: minX, Y1: minY, X2: maxX + 1, Y2: maxY + 1},
		Center:      Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		Area:        area,
		TouchesEdge: edge,
	}
}
