package raster

import "errors"

var (
	// ErrInvalidWidth is returned when a frame declares a width of zero or less.
	ErrInvalidWidth = errors.New("invalid width")

	// ErrInvalidBufferLength is returned when the buffer length does not describe
	// a whole number of 4-byte pixels covering exactly Width*Height cells.
	ErrInvalidBufferLength = errors.New("invalid buffer length")
)
