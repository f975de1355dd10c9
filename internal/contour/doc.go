// Package contour traces binary grids into vector paths and reads those paths back.
//
// The pipeline only depends on the Tracer interface; BoundaryTracer is the default
// implementation and TracerFunc lets tests inject fakes.
//
// # Path Format
//
// Paths use a small subset of the SVG path mini-language:
//   - M x y: start a ring at a cell corner
//   - H x / V y: axis-aligned run to column x or row y
//   - Z: close the ring
//
// Several rings are concatenated in one string. Filled regions wind clockwise on
// screen and holes counter-clockwise, so the even-odd and non-zero rules agree.
//
// # Reading Paths Back
//
// ParsePath splits a path into Polygon rings. RadialDistance, DouglasPeucker and
// SimplifyPolygon reduce vertex counts for downstream geometry (triangulation,
// physics colliders). Rasterize renders a path into an alpha mask with
// golang.org/x/image/vector, which is how the tests check that a traced path encloses
// exactly the filled cells.
package contour
