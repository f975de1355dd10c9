package contour

// RadialDistance drops every point closer than tolerance to the last kept point.
// The first and last points are always kept.
func RadialDistance(points []Point, tolerance float64) []Point {
	if len(points) <= 1 {
		return points
	}
	sqTolerance := tolerance * tolerance

	prev := points[0]
	kept := []Point{prev}
	for _, p := range points[1:] {
		if sqDist(p, prev) > sqTolerance {
			kept = append(kept, p)
			prev = p
		}
	}

	if last := points[len(points)-1]; prev != last {
		kept = append(kept, last)
	}
	return kept
}

// DouglasPeucker simplifies a polyline with the Ramer-Douglas-Peucker algorithm,
// keeping every point that deviates more than tolerance from the simplified line.
func DouglasPeucker(points []Point, tolerance float64) []Point {
	if len(points) <= 2 {
		return points
	}
	sqTolerance := tolerance * tolerance
	last := len(points) - 1

	kept := []Point{points[0]}
	kept = douglasPeuckerStep(points, 0, last, sqTolerance, kept)
	return append(kept, points[last])
}

func douglasPeuckerStep(points []Point, first, last int, sqTolerance float64, kept []Point) []Point {
	maxSqDist := sqTolerance
	index := -1

	for i := first + 1; i < last; i++ {
		if d := sqSegDist(points[i], points[first], points[last]); d > maxSqDist {
			index = i
			maxSqDist = d
		}
	}

	if index < 0 {
		return kept
	}
	if index-first > 1 {
		kept = douglasPeuckerStep(points, first, index, sqTolerance, kept)
	}
	kept = append(kept, points[index])
	if last-index > 1 {
		kept = douglasPeuckerStep(points, index, last, sqTolerance, kept)
	}
	return kept
}

// SimplifyPolygon applies radial-distance and then Douglas-Peucker simplification to a
// closed ring, keeping at least a triangle when the input had one.
func SimplifyPolygon(p Polygon, tolerance float64) Polygon {
	if len(p) <= 3 || tolerance <= 0 {
		return p
	}
	// Close the ring so the last edge is considered, then drop the duplicate.
	closed := append(append([]Point(nil), p...), p[0])
	out := DouglasPeucker(RadialDistance(closed, tolerance), tolerance)
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return p
	}
	return Polygon(out)
}

func sqDist(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// sqSegDist returns the squared distance from p to the segment a-b.
func sqSegDist(p, a, b Point) float64 {
	x, y := a.X, a.Y
	dx, dy := b.X-x, b.Y-y

	if dx != 0 || dy != 0 {
		t := ((p.X-x)*dx + (p.Y-y)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x, y = b.X, b.Y
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}

	dx, dy = p.X-x, p.Y-y
	return dx*dx + dy*dy
}
