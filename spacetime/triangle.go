package spacetime

// Point is a position in (x, y, ct) space.
type Point struct {
	X, Y, CT float64
}

// Edge names one side of the triangle.
type Edge uint8

const (
	// EdgeHypotenuse runs from the origin to the event on the x axis.
	EdgeHypotenuse Edge = iota
	// EdgeSpaceY runs from the origin to the event on the y axis.
	EdgeSpaceY
	// EdgeSpaceX joins the two events at height ct.
	EdgeSpaceX
)

// Triangle is the right triangle drawn for a Result.
//
// Its vertices are the origin O, A = (x, 0, ct) and B = (0, y, ct).
type Triangle struct {
	O, A, B Point
}

// TriangleOf lays r out as plot vertices.
func TriangleOf(r Result) Triangle {
	return Triangle{
		O: Point{},
		A: Point{X: r.X, CT: r.CT},
		B: Point{Y: r.Y, CT: r.CT},
	}
}

// Vertices returns O, A and B in order.
func (t Triangle) Vertices() []Point {
	return []Point{t.O, t.A, t.B}
}

// Segment returns the end points of edge e.
func (t Triangle) Segment(e Edge) (Point, Point) {
	switch e {
	case EdgeSpaceY:
		return t.O, t.B
	case EdgeSpaceX:
		return t.A, t.B
	default:
		return t.O, t.A
	}
}
