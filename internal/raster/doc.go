// Package raster turns interleaved 4-channel pixel buffers into dense intensity grids.
//
// This package is the first stage of the vectorization pipeline. It knows nothing about
// thresholds or paths; it only validates the buffer geometry and extracts one channel
// per pixel into a row-major grid.
//
// # Buffer Layout
//
// A Frame holds pixels as consecutive 4-byte records (R, G, B, A). Pixel (row, col) starts
// at byte offset (row*Width + col) * 4. The sampler reads the byte at channel offset 0
// (red) of every pixel and discards the other three.
//
// # Coordinate System
//
// Grids are addressed as (row, col):
//   - row: vertical position (0 = topmost row)
//   - col: horizontal position (0 = leftmost column)
//
// # Error Handling
//
// Geometry problems are reported before any grid is allocated:
//   - ErrInvalidWidth: width is zero or negative
//   - ErrInvalidBufferLength: length not a multiple of 4, or not Width*Height*4
//
// Both are sentinel errors wrapped with context; use errors.Is to test for them.
package raster
