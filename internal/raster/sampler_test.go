package raster

import (
	"errors"
	"testing"
)

// framePattern expands a 0/1 pattern into RGBA pixels with the red channel set to
// 255 for 1 and 0 for 0. Other channels carry noise so the sampler must ignore them.
func framePattern(t *testing.T, rows [][]uint8) Frame {
	t.Helper()
	height := len(rows)
	width := len(rows[0])
	pix := make([]byte, 0, width*height*BytesPerPixel)
	for _, row := range rows {
		for _, v := range row {
			var red byte
			if v != 0 {
				red = 255
			}
			pix = append(pix, red, 77, 200, 255)
		}
	}
	return Frame{Pix: pix, Width: width, Height: height}
}

func TestSample_Dimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"single pixel", 1, 1},
		{"wide", 7, 2},
		{"tall", 2, 9},
		{"square", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pix := make([]byte, tt.width*tt.height*BytesPerPixel)
			for i := 0; i < tt.width*tt.height; i++ {
				pix[i*BytesPerPixel] = byte(i)
				pix[i*BytesPerPixel+1] = 0xAA
			}

			grid, err := Sample(Frame{Pix: pix, Width: tt.width, Height: tt.height})
			if err != nil {
				t.Fatalf("Sample failed: %v", err)
			}
			if grid.Width != tt.width || grid.Height != tt.height {
				t.Fatalf("dimensions: got %dx%d, want %dx%d", grid.Width, grid.Height, tt.width, tt.height)
			}
			for r := 0; r < tt.height; r++ {
				for c := 0; c < tt.width; c++ {
					want := pix[(r*tt.width+c)*BytesPerPixel]
					if got := grid.At(r, c); got != want {
						t.Errorf("cell (%d,%d): got %d, want %d", r, c, got, want)
					}
				}
			}
		})
	}
}

func TestSample_DerivedHeight(t *testing.T) {
	f := framePattern(t, [][]uint8{{1, 0, 1}, {0, 1, 0}})
	f.Height = 0

	grid, err := Sample(f)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if grid.Height != 2 {
		t.Errorf("derived height: got %d, want 2", grid.Height)
	}
	if grid.At(1, 1) != 255 || grid.At(1, 0) != 0 {
		t.Errorf("unexpected cells: %v", grid.Cells)
	}
}

func TestSample_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantErr error
	}{
		{"zero width", Frame{Pix: make([]byte, 16), Width: 0}, ErrInvalidWidth},
		{"negative width", Frame{Pix: make([]byte, 16), Width: -3}, ErrInvalidWidth},
		{"length not multiple of 4", Frame{Pix: make([]byte, 15), Width: 1}, ErrInvalidBufferLength},
		{"short final row", Frame{Pix: make([]byte, 5*BytesPerPixel), Width: 2}, ErrInvalidBufferLength},
		{"height mismatch", Frame{Pix: make([]byte, 6*BytesPerPixel), Width: 2, Height: 4}, ErrInvalidBufferLength},
		{"negative height", Frame{Pix: make([]byte, 4*BytesPerPixel), Width: 2, Height: -2}, ErrInvalidBufferLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := Sample(tt.frame)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error: got %v, want %v", err, tt.wantErr)
			}
			if grid != nil {
				t.Error("expected no grid on error")
			}
		})
	}
}

func TestSample_EmptyBuffer(t *testing.T) {
	grid, err := Sample(Frame{Width: 4})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if grid.Height != 0 || len(grid.Cells) != 0 {
		t.Errorf("expected empty grid, got %dx%d", grid.Width, grid.Height)
	}
}

func TestSampleChannel(t *testing.T) {
	f := Frame{Pix: []byte{1, 2, 3, 4, 5, 6, 7, 8}, Width: 2}

	for channel, want := range [][]uint8{{1, 5}, {2, 6}, {3, 7}, {4, 8}} {
		grid, err := SampleChannel(f, channel)
		if err != nil {
			t.Fatalf("channel %d: %v", channel, err)
		}
		if grid.Cells[0] != want[0] || grid.Cells[1] != want[1] {
			t.Errorf("channel %d: got %v, want %v", channel, grid.Cells, want)
		}
	}

	if _, err := SampleChannel(f, 4); err == nil {
		t.Error("expected error for channel offset 4")
	}
}

func TestBinaryGridFromRows(t *testing.T) {
	g, err := BinaryGridFromRows([][]uint8{{1, 0}, {0, 9}})
	if err != nil {
		t.Fatalf("BinaryGridFromRows failed: %v", err)
	}
	if g.At(1, 1) != 1 {
		t.Errorf("non-zero values should normalise to 1, got %d", g.At(1, 1))
	}
	if g.Count(1) != 2 || g.Count(0) != 2 {
		t.Errorf("counts: got %d ones, %d zeros", g.Count(1), g.Count(0))
	}

	if _, err := BinaryGridFromRows([][]uint8{{1, 0}, {1}}); !errors.Is(err, ErrInvalidBufferLength) {
		t.Errorf("ragged rows: got %v, want ErrInvalidBufferLength", err)
	}

	rows := g.Rows()
	rows[0][0] = 0
	if g.At(0, 0) != 1 {
		t.Error("Rows must return a copy")
	}
}
