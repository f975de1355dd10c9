// Package classify applies dual thresholds to intensity grids and stride-samples the
// resulting binary grids.
//
// # Threshold Semantics
//
// Thresholds are normalised floats converted to bytes with round(v*255):
//   - Fill: a cell is occupied when intensity >= fill byte
//   - Hole: a cell is a hole when intensity < hole byte
//
// The two predicates read the same intensity grid and never each other's output.
//
// # Out-of-range Thresholds
//
// The default ClampToRange policy pins values to [0, 1] before scaling; NaN is
// treated as 0. RejectOutOfRange returns ErrThresholdOutOfRange instead.
package classify
