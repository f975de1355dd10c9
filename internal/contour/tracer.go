package contour

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ironsheep/terrain-contour-mcp/internal/raster"
)

// ErrMalformedGrid is returned by BoundaryTracer when a grid's cell slice does not
// match its declared dimensions.
var ErrMalformedGrid = errors.New("malformed grid")

// Tracer turns a binary grid into a path string.
//
// Implementations must enclose every cell valued 1 and exclude every cell valued 0,
// emitting holes as oppositely wound sub-paths of the same string so the result
// renders correctly under the even-odd rule.
type Tracer interface {
	Trace(grid *raster.BinaryGrid, evenOdd bool) (string, error)
}

// TracerFunc adapts a plain function to the Tracer interface.
type TracerFunc func(grid *raster.BinaryGrid, evenOdd bool) (string, error)

// Trace calls f(grid, evenOdd).
func (f TracerFunc) Trace(grid *raster.BinaryGrid, evenOdd bool) (string, error) {
	return f(grid, evenOdd)
}

// Edge directions in screen space (y grows downward). Turning right is d+1.
const (
	east = iota
	south
	west
	north
)

var (
	stepX = [4]int{1, 0, -1, 0}
	stepY = [4]int{0, 1, 0, -1}
)

// BoundaryTracer is the default Tracer. It follows cell edges between 1 and 0 cells.
//
// Output uses absolute commands only: "M x y" to start a ring, "H x" and "V y" for
// axis-aligned runs and "Z" to close, with no separators between rings, e.g.
//
//	M0 0H2V1H3V3H1V2H0Z
//
// x is the column and y the row of a cell corner. Outer rings run clockwise on screen
// and hole rings counter-clockwise, which renders identically under the even-odd and
// non-zero rules, so the evenOdd flag does not change the output. Cells that touch only
// at a corner are traced as separate rings (4-connectivity). Rings appear in the order
// of their top-left corner, scanning rows top to bottom.
type BoundaryTracer struct{}

// Trace implements Tracer.
func (BoundaryTracer) Trace(grid *raster.BinaryGrid, evenOdd bool) (string, error) {
	if grid == nil {
		return "", fmt.Errorf("%w: nil grid", ErrMalformedGrid)
	}
	if grid.Width < 0 || grid.Height < 0 || len(grid.Cells) != grid.Width*grid.Height {
		return "", fmt.Errorf("%w: %d cells for %dx%d", ErrMalformedGrid, len(grid.Cells), grid.Width, grid.Height)
	}

	w, h := grid.Width, grid.Height
	stride := w + 1
	filled := func(r, c int) bool {
		return r >= 0 && r < h && c >= 0 && c < w && grid.Cells[r*w+c] != 0
	}

	// out[v] is a bitmask of the directions of boundary edges leaving corner v.
	out := make([]uint8, stride*(h+1))
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			if !filled(r, c) {
				continue
			}
			if !filled(r-1, c) {
				out[r*stride+c] |= 1 << east
			}
			if !filled(r, c+1) {
				out[r*stride+c+1] |= 1 << south
			}
			if !filled(r+1, c) {
				out[(r+1)*stride+c+1] |= 1 << west
			}
			if !filled(r, c-1) {
				out[(r+1)*stride+c] |= 1 << north
			}
		}
	}

	visited := make([]uint8, len(out))
	var buf []byte
	var ring []int // corner vertex indices of the current ring

	for v := range out {
		for d := 0; d < 4; d++ {
			if out[v]&(1<<d) == 0 || visited[v]&(1<<d) != 0 {
				continue
			}

			ring = ring[:0]
			cv, cd := v, d
			for {
				visited[cv] |= 1 << cd
				nv := cv + stepX[cd] + stepY[cd]*stride
				nd := nextDirection(out[nv], cd)
				if nd != cd {
					ring = append(ring, nv)
				}
				cv, cd = nv, nd
				if cv == v && cd == d {
					break
				}
			}

			buf = appendRing(buf, ring, stride)
		}
	}

	return string(buf), nil
}

// nextDirection picks the edge to follow out of a corner: right turn first, then
// straight, then left. Taking the right turn at a saddle keeps the ring hugging the
// cell it is already tracing.
func nextDirection(mask uint8, in int) int {
	for _, d := range [3]int{(in + 1) % 4, in, (in + 3) % 4} {
		if mask&(1<<d) != 0 {
			return d
		}
	}
	// Unreachable for boundaries built by Trace: every corner has as many edges
	// leaving as entering.
	return in
}

// appendRing writes one closed ring. The last corner in ring is where the walk
// re-entered the start corner, so it is emitted as the move target.
func appendRing(buf []byte, ring []int, stride int) []byte {
	if len(ring) == 0 {
		return buf
	}
	start := ring[len(ring)-1]
	px, py := start%stride, start/stride

	buf = append(buf, 'M')
	buf = strconv.AppendInt(buf, int64(px), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(py), 10)

	// The final segment back to the start corner is implied by Z.
	for _, v := range ring[:len(ring)-1] {
		x, y := v%stride, v/stride
		if y == py {
			buf = append(buf, 'H')
			buf = strconv.AppendInt(buf, int64(x), 10)
		} else {
			buf = append(buf, 'V')
			buf = strconv.AppendInt(buf, int64(y), 10)
		}
		px, py = x, y
	}
	return append(buf, 'Z')
}
