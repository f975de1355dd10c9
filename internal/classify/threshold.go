package classify

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrThresholdOutOfRange is returned under RejectOutOfRange for thresholds
	// outside [0, 1] or NaN.
	ErrThresholdOutOfRange = errors.New("threshold out of range")

	// ErrInvalidStride is returned when a sampling stride is less than 1.
	ErrInvalidStride = errors.New("invalid stride")
)

// Policy decides what happens to a threshold outside [0, 1].
type Policy int

const (
	// ClampToRange pins out-of-range thresholds to the nearest bound (NaN becomes 0).
	ClampToRange Policy = iota

	// RejectOutOfRange fails with ErrThresholdOutOfRange.
	RejectOutOfRange
)

// String returns the policy name used in configuration.
func (p Policy) String() string {
	switch p {
	case RejectOutOfRange:
		return "reject"
	default:
		return "clamp"
	}
}

// ParsePolicy maps "clamp" or "reject" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "clamp":
		return ClampToRange, nil
	case "reject":
		return RejectOutOfRange, nil
	default:
		return ClampToRange, fmt.Errorf("unknown threshold policy %q (want clamp or reject)", s)
	}
}

// Thresholds holds the two independent classification knobs, normalised to [0, 1].
type Thresholds struct {
	// Fill marks a cell occupied when intensity >= round(Fill*255).
	Fill float64 `json:"fill"`

	// Hole marks a cell empty when intensity < round(Hole*255).
	Hole float64 `json:"hole"`

	// Policy governs values outside [0, 1]. The zero value clamps.
	Policy Policy `json:"-"`
}

// Bytes converts both thresholds to the [0, 255] byte domain.
func (t Thresholds) Bytes() (fill, hole uint8, err error) {
	fill, err = ToByte(t.Fill, t.Policy)
	if err != nil {
		return 0, 0, fmt.Errorf("fill %w", err)
	}
	hole, err = ToByte(t.Hole, t.Policy)
	if err != nil {
		return 0, 0, fmt.Errorf("hole %w", err)
	}
	return fill, hole, nil
}

// ToByte scales a normalised threshold to a byte as round(v*255).
//
// Under ClampToRange values below 0 (and NaN) become 0 and values above 1 become 255.
// Under RejectOutOfRange such values return ErrThresholdOutOfRange.
func ToByte(v float64, p Policy) (uint8, error) {
	if math.IsNaN(v) || v < 0 || v > 1 {
		if p == RejectOutOfRange {
			return 0, fmt.Errorf("%w: %v not in [0,1]", ErrThresholdOutOfRange, v)
		}
		switch {
		case math.IsNaN(v), v < 0:
			v = 0
		default:
			v = 1
		}
	}
	return uint8(math.Round(v * 255)), nil
}
