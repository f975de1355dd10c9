// Package imaging connects image files to the vectorize pipeline.
//
// It loads heightmaps from disk, applies an optional pre-pass (crop, grayscale,
// invert, blur, scale) and converts the result into the interleaved RGBA buffer the
// pipeline samples. It also renders previews that overlay the classified grids and a
// re-rasterized path on top of the sampled channel.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the top-left:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// This matches the grids and paths produced downstream: grid cell (row, col) is
// pixel (x=col, y=row).
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Prepare, ToFrame and Preview never
// modify their input and can be called concurrently.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Crop regions outside image bounds or with x1 >= x2 or y1 >= y2
//   - Scales producing an empty or oversized image
//   - Grids whose size does not match the previewed image
//   - File I/O and decode errors during loading
package imaging
