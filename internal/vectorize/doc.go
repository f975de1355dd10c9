// Package vectorize assembles the raster-to-vector pipeline.
//
// A Pipeline turns an interleaved RGBA buffer into a Result holding the outline of the
// filled terrain and a representation of its holes:
//
//	pix -> raster.Sample -> classify.Classify -> {fill, hole}
//	fill -> Tracer -> Path
//	hole -> Tracer -> HolePath          (TracedOutline)
//	hole|fill -> classify.SamplePoints  (SampledPoints)
//
// # Purity
//
// Run has no side effects besides debug logging. Two runs over identical inputs return
// byte-identical paths and hole data.
//
// # Result Encoding
//
// Result implements json.Marshaler:
//
//	{"path": "M0 0H6V5H0Z", "hole_mode": "outline", "holes": ""}
//	{"path": "M0 0H6V5H0Z", "hole_mode": "points(stride=4,source=hole)", "holes": [0, 4]}
package vectorize
