package raster

// IntensityGrid is a row-major grid of 8-bit intensities sampled from one channel.
//
// Cells holds Height rows of Width values; cell (row, col) lives at
// Cells[row*Width+col]. The grid is never modified after Sample builds it.
type IntensityGrid struct {
	Width  int
	Height int
	Cells  []uint8
}

// At returns the intensity at (row, col).
func (g *IntensityGrid) At(row, col int) uint8 {
	return g.Cells[row*g.Width+col]
}

// BinaryGrid is a row-major grid of 0/1 cells with the same layout as IntensityGrid.
type BinaryGrid struct {
	Width  int
	Height int
	Cells  []uint8
}

// NewBinaryGrid allocates an all-zero grid.
func NewBinaryGrid(width, height int) *BinaryGrid {
	return &BinaryGrid{
		Width:  width,
		Height: height,
		Cells:  make([]uint8, width*height),
	}
}

// BinaryGridFromRows builds a grid from nested rows. All rows must share the
// length of the first row; any non-zero value is stored as 1.
func BinaryGridFromRows(rows [][]uint8) (*BinaryGrid, error) {
	if len(rows) == 0 {
		return NewBinaryGrid(0, 0), nil
	}
	width := len(rows[0])
	if width == 0 {
		return nil, ErrInvalidWidth
	}
	g := NewBinaryGrid(width, len(rows))
	for r, row := range rows {
		if len(row) != width {
			return nil, ErrInvalidBufferLength
		}
		for c, v := range row {
			if v != 0 {
				g.Cells[r*width+c] = 1
			}
		}
	}
	return g, nil
}

// At returns the cell value at (row, col).
func (g *BinaryGrid) At(row, col int) uint8 {
	return g.Cells[row*g.Width+col]
}

// Set stores 1 when on is true and 0 otherwise.
func (g *BinaryGrid) Set(row, col int, on bool) {
	var v uint8
	if on {
		v = 1
	}
	g.Cells[row*g.Width+col] = v
}

// Rows copies the grid into nested rows, the shape tracers traditionally consume.
func (g *BinaryGrid) Rows() [][]uint8 {
	rows := make([][]uint8, g.Height)
	for r := range rows {
		rows[r] = append([]uint8(nil), g.Cells[r*g.Width:(r+1)*g.Width]...)
	}
	return rows
}

// Count returns how many cells equal v.
func (g *BinaryGrid) Count(v uint8) int {
	n := 0
	for _, c := range g.Cells {
		if c == v {
			n++
		}
	}
	return n
}
