package raster

import "fmt"

const (
	// BytesPerPixel is the fixed record size of a Frame pixel.
	BytesPerPixel = 4

	// ClassificationChannel is the byte offset inside each pixel that Sample reads.
	ClassificationChannel = 0
)

// Frame is a borrowed view of an interleaved RGBA pixel buffer.
//
// Height may be left at zero, in which case it is derived as len(Pix)/4/Width.
// The sampler never writes to Pix.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
}

// Dimensions validates the frame geometry and returns its width and height.
//
// # Errors
//
//   - ErrInvalidWidth if Width <= 0
//   - ErrInvalidBufferLength if len(Pix) is not a multiple of 4
//   - ErrInvalidBufferLength if the pixel count is not Width*Height (explicit height)
//     or not a multiple of Width (derived height)
func (f Frame) Dimensions() (width, height int, err error) {
	if f.Width <= 0 {
		return 0, 0, fmt.Errorf("%w: width %d", ErrInvalidWidth, f.Width)
	}
	if len(f.Pix)%BytesPerPixel != 0 {
		return 0, 0, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidBufferLength, len(f.Pix), BytesPerPixel)
	}
	if f.Height < 0 {
		return 0, 0, fmt.Errorf("%w: negative height %d", ErrInvalidBufferLength, f.Height)
	}

	pixels := len(f.Pix) / BytesPerPixel
	if f.Height == 0 {
		if pixels%f.Width != 0 {
			return 0, 0, fmt.Errorf("%w: %d pixels do not fill rows of width %d", ErrInvalidBufferLength, pixels, f.Width)
		}
		return f.Width, pixels / f.Width, nil
	}
	if pixels != f.Width*f.Height {
		return 0, 0, fmt.Errorf("%w: %d pixels, want %dx%d", ErrInvalidBufferLength, pixels, f.Width, f.Height)
	}
	return f.Width, f.Height, nil
}

// Sample extracts the classification channel of every pixel into an IntensityGrid.
//
// The buffer is walked with stride BytesPerPixel starting at ClassificationChannel, and
// the resulting flat sequence is cut into rows of Width cells. Validation happens
// before allocation, so a rejected frame never yields a partial grid.
func Sample(f Frame) (*IntensityGrid, error) {
	return SampleChannel(f, ClassificationChannel)
}

// SampleChannel is Sample for an arbitrary channel offset in [0, 4).
func SampleChannel(f Frame, channel int) (*IntensityGrid, error) {
	if channel < 0 || channel >= BytesPerPixel {
		return nil, fmt.Errorf("channel offset %d outside pixel of %d bytes", channel, BytesPerPixel)
	}
	width, height, err := f.Dimensions()
	if err != nil {
		return nil, err
	}

	cells := make([]uint8, width*height)
	for i := range cells {
		cells[i] = f.Pix[i*BytesPerPixel+channel]
	}

	return &IntensityGrid{
		Width:  width,
		Height: height,
		Cells:  cells,
	}, nil
}
