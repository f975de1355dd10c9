package contour

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidPath is returned by ParsePath for syntax it does not understand.
var ErrInvalidPath = errors.New("invalid path")

// Point is a vertex in path coordinates (x = column, y = row, y grows downward).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is one closed ring of a path. The closing edge from the last point back
// to the first is implicit.
type Polygon []Point

// SignedArea returns the shoelace area of the ring. In screen coordinates a
// clockwise ring has positive area.
func (p Polygon) SignedArea() float64 {
	var sum float64
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Clockwise reports whether the ring winds clockwise on screen. Rings traced by
// BoundaryTracer are clockwise for filled regions and counter-clockwise for holes.
func (p Polygon) Clockwise() bool {
	return p.SignedArea() > 0
}

// ParsePath splits a path string into closed polygons.
//
// Supported commands are M, L, H, V and Z in absolute and relative (lower-case) form.
// Coordinates may be separated by spaces or commas. Extra coordinate pairs after M are
// treated as implicit L commands. A new M or a Z ends the current polygon; a trailing
// polygon without Z is still returned. Degenerate rings with fewer than 3 points are
// dropped.
func ParsePath(s string) ([]Polygon, error) {
	sc := pathScanner{s: s}
	var (
		polygons []Polygon
		current  Polygon
		cur      Point
		start    Point
		cmd      byte
	)

	flush := func() {
		if len(current) >= 3 {
			polygons = append(polygons, current)
		}
		current = nil
	}

	for {
		sc.skipSeparators()
		if sc.done() {
			break
		}
		if c := sc.peek(); isCommand(c) {
			cmd = c
			sc.pos++
		} else if cmd == 0 {
			return nil, fmt.Errorf("%w: expected command at offset %d", ErrInvalidPath, sc.pos)
		}

		switch cmd {
		case 'Z', 'z':
			flush()
			cur = start
			cmd = 0
			continue

		case 'M', 'm':
			x, y, err := sc.pair()
			if err != nil {
				return nil, err
			}
			if cmd == 'm' {
				x, y = cur.X+x, cur.Y+y
			}
			flush()
			cur = Point{X: x, Y: y}
			start = cur
			current = append(current, cur)
			// Subsequent pairs are line-to in the same mode.
			if cmd == 'M' {
				cmd = 'L'
			} else {
				cmd = 'l'
			}

		case 'L', 'l':
			x, y, err := sc.pair()
			if err != nil {
				return nil, err
			}
			if cmd == 'l' {
				x, y = cur.X+x, cur.Y+y
			}
			cur = Point{X: x, Y: y}
			current = append(current, cur)

		case 'H', 'h':
			x, err := sc.number()
			if err != nil {
				return nil, err
			}
			if cmd == 'h' {
				x += cur.X
			}
			cur.X = x
			current = append(current, cur)

		case 'V', 'v':
			y, err := sc.number()
			if err != nil {
				return nil, err
			}
			if cmd == 'v' {
				y += cur.Y
			}
			cur.Y = y
			current = append(current, cur)

		default:
			return nil, fmt.Errorf("%w: unsupported command %q", ErrInvalidPath, cmd)
		}
	}
	flush()

	return polygons, nil
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'Z', 'z':
		return true
	}
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z' && c != 'e')
}

// pathScanner reads numbers and command letters from a path string.
type pathScanner struct {
	s   string
	pos int
}

func (sc *pathScanner) done() bool { return sc.pos >= len(sc.s) }

func (sc *pathScanner) peek() byte { return sc.s[sc.pos] }

func (sc *pathScanner) skipSeparators() {
	for !sc.done() {
		switch sc.peek() {
		case ' ', ',', '\t', '\n', '\r':
			sc.pos++
		default:
			return
		}
	}
}

func (sc *pathScanner) number() (float64, error) {
	sc.skipSeparators()
	begin := sc.pos
	if !sc.done() && (sc.peek() == '-' || sc.peek() == '+') {
		sc.pos++
	}
	for !sc.done() {
		c := sc.peek()
		isExpSign := (c == '-' || c == '+') && sc.pos > begin && (sc.s[sc.pos-1] == 'e' || sc.s[sc.pos-1] == 'E')
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || isExpSign {
			sc.pos++
			continue
		}
		break
	}
	if begin == sc.pos {
		return 0, fmt.Errorf("%w: expected number at offset %d", ErrInvalidPath, begin)
	}
	v, err := strconv.ParseFloat(sc.s[begin:sc.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return v, nil
}

func (sc *pathScanner) pair() (float64, float64, error) {
	x, err := sc.number()
	if err != nil {
		return 0, 0, err
	}
	y, err := sc.number()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
