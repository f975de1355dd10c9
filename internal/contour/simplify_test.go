package contour

import "testing"

func TestRadialDistance(t *testing.T) {
	points := []Point{{0, 0}, {0.1, 0}, {0.2, 0}, {1, 0}, {1.05, 0}, {2, 0}}

	got := RadialDistance(points, 0.5)
	want := []Point{{0, 0}, {1, 0}, {2, 0}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRadialDistance_KeepsLastPoint(t *testing.T) {
	got := RadialDistance([]Point{{0, 0}, {3, 0}, {3.1, 0}}, 1)
	if last := got[len(got)-1]; last != (Point{3.1, 0}) {
		t.Errorf("last point: got %v, want (3.1,0)", last)
	}
}

func TestDouglasPeucker(t *testing.T) {
	tests := []struct {
		name      string
		points    []Point
		tolerance float64
		want      int
	}{
		{"collinear collapses", []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, 0.1, 2},
		{"corner kept", []Point{{0, 0}, {2, 0}, {2, 2}}, 0.1, 3},
		{"small bump removed", []Point{{0, 0}, {1, 0.05}, {2, 0}}, 0.1, 2},
		{"large bump kept", []Point{{0, 0}, {1, 1}, {2, 0}}, 0.1, 3},
		{"two points untouched", []Point{{0, 0}, {5, 5}}, 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DouglasPeucker(tt.points, tt.tolerance)
			if len(got) != tt.want {
				t.Errorf("got %d points %v, want %d", len(got), got, tt.want)
			}
			if got[0] != tt.points[0] || got[len(got)-1] != tt.points[len(tt.points)-1] {
				t.Error("endpoints must be preserved")
			}
		})
	}
}

func TestSimplifyPolygon(t *testing.T) {
	// A square with redundant points along each side.
	square := Polygon{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}, {1, 2}, {0, 2}, {0, 1}}

	got := SimplifyPolygon(square, 0.1)
	if len(got) != 4 {
		t.Fatalf("got %v, want 4 corners", got)
	}
	if got.SignedArea() != square.SignedArea() {
		t.Errorf("area changed: got %v, want %v", got.SignedArea(), square.SignedArea())
	}

	if out := SimplifyPolygon(square, 0); len(out) != len(square) {
		t.Error("zero tolerance should return the ring unchanged")
	}
}
