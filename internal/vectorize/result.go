package vectorize

import (
	"encoding/json"

	"github.com/ironsheep/terrain-contour-mcp/internal/regions"
)

// Result is the immutable output of one pipeline run.
//
// Exactly one hole representation is present, matching the HoleMode the run used.
// Slices handed out by accessors are copies.
type Result struct {
	path       string
	holePath   string
	holePoints []uint32
	mode       HoleMode
	stats      *Stats
}

// Stats summarises the classified grids. It is only filled when Config.Stats is set.
type Stats struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	FillCells int `json:"fill_cells"`
	HoleCells int `json:"hole_cells"`

	// FillByte and HoleByte are the thresholds actually applied after scaling.
	FillByte uint8 `json:"fill_byte"`
	HoleByte uint8 `json:"hole_byte"`

	Islands     *regions.Result `json:"islands"`
	HoleRegions *regions.Result `json:"hole_regions"`
}

// Path returns the outline of the fill region.
func (r *Result) Path() string {
	return r.path
}

// Mode returns the hole representation this result carries.
func (r *Result) Mode() HoleMode {
	return r.mode
}

// HolePath returns the hole outline. ok is false when the run sampled points instead.
func (r *Result) HolePath() (path string, ok bool) {
	if _, traced := r.mode.(TracedOutline); !traced {
		return "", false
	}
	return r.holePath, true
}

// HolePoints returns a copy of the flat (row, col) samples. ok is false when the run
// traced an outline instead.
func (r *Result) HolePoints() (points []uint32, ok bool) {
	if _, sampled := r.mode.(SampledPoints); !sampled {
		return nil, false
	}
	return append([]uint32{}, r.holePoints...), true
}

// Stats returns the grid summary, or nil when it was not requested.
func (r *Result) Stats() *Stats {
	return r.stats
}

// MarshalJSON encodes the result as {"path": ..., "holes": ...} where holes is a
// string in outline mode and an array of integers in points mode.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Path  string      `json:"path"`
		Mode  string      `json:"hole_mode"`
		Holes interface{} `json:"holes"`
		Stats *Stats      `json:"stats,omitempty"`
	}{
		Path:  r.path,
		Mode:  r.mode.String(),
		Stats: r.stats,
	}
	if points, ok := r.HolePoints(); ok {
		out.Holes = points
	} else {
		out.Holes = r.holePath
	}
	return json.Marshal(out)
}
