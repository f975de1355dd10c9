package vectorize

import (
	"fmt"
	"strings"
)

// HoleMode selects how hole regions appear in a Result. It is either TracedOutline
// or SampledPoints; no other implementations exist.
type HoleMode interface {
	holeMode()
	String() string
}

// TracedOutline traces the hole grid into a second full-resolution path.
type TracedOutline struct{}

func (TracedOutline) holeMode() {}

// String returns "outline".
func (TracedOutline) String() string { return "outline" }

// SampleSource names the grid that SampledPoints walks.
type SampleSource int

const (
	// HoleCells samples the hole grid and emits cells valued 1.
	HoleCells SampleSource = iota

	// EmptyFillCells samples the fill grid and emits cells valued 0.
	EmptyFillCells
)

// String returns the source name used in configuration.
func (s SampleSource) String() string {
	if s == EmptyFillCells {
		return "fill"
	}
	return "hole"
}

// SampledPoints emits a flat list of (row, col) pairs taken every Stride cells.
type SampledPoints struct {
	// Stride is the row and column step. Must be at least 1.
	Stride int

	// Source picks the grid and marker. The zero value samples hole cells.
	Source SampleSource
}

func (SampledPoints) holeMode() {}

// String returns "points(stride=N,source=S)".
func (m SampledPoints) String() string {
	return fmt.Sprintf("points(stride=%d,source=%s)", m.Stride, m.Source)
}

// marker is the cell value SampledPoints emits for its source.
func (m SampledPoints) marker() uint8 {
	if m.Source == EmptyFillCells {
		return 0
	}
	return 1
}

// ParseHoleMode builds a HoleMode from configuration values.
//
// mode is "outline" or "points"; stride and source ("hole" or "fill") are only read
// for "points".
func ParseHoleMode(mode string, stride int, source string) (HoleMode, error) {
	switch strings.ToLower(mode) {
	case "", "outline":
		return TracedOutline{}, nil
	case "points":
		m := SampledPoints{Stride: stride}
		switch strings.ToLower(source) {
		case "", "hole":
			m.Source = HoleCells
		case "fill":
			m.Source = EmptyFillCells
		default:
			return nil, fmt.Errorf("unknown sample source %q (want hole or fill)", source)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown hole mode %q (want outline or points)", mode)
	}
}
