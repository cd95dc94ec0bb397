package spacetime

import "math"

// Tolerance used when comparing ct² with x² + y².
//
// The values are the numpy.isclose defaults.
const (
	DefaultRelTolerance = 1e-5
	DefaultAbsTolerance = 1e-8
)

// DefaultTolerance is the tolerance Holds uses.
var DefaultTolerance = Tolerance{Rel: DefaultRelTolerance, Abs: DefaultAbsTolerance}

// Tolerance bounds the accepted difference between two squared magnitudes:
//
//	|a - b| <= Abs + Rel*|b|
type Tolerance struct {
	Rel float64
	Abs float64
}

// Hypotenuse returns sqrt(x² + y²), the derived magnitude ct.
//
// The sign of either leg is irrelevant. NaN inputs yield NaN.
func Hypotenuse(x, y float64) float64 {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN()
	}
	return math.Hypot(x, y)
}

// SumOfSquares returns x² + y².
func SumOfSquares(x, y float64) float64 {
	return x*x + y*y
}

// Holds reports whether ct² equals x² + y² within DefaultTolerance.
func Holds(ct, x, y float64) bool {
	return DefaultTolerance.Holds(ct, x, y)
}

// Holds reports whether ct² equals x² + y² within t.
func (t Tolerance) Holds(ct, x, y float64) bool {
	return t.Close(ct*ct, SumOfSquares(x, y))
}

// Close reports whether a is within t of b. The comparison is asymmetric in
// the same way numpy.isclose is: the relative term scales with |b|.
func (t Tolerance) Close(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if a == b {
		return true
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	return math.Abs(a-b) <= t.Abs+t.Rel*math.Abs(b)
}

// Result is one evaluation of the relation for a pair of legs.
type Result struct {
	X            float64
	Y            float64
	CT           float64
	SumOfSquares float64
	Holds        bool
}

// Evaluate computes ct for x and y and checks the relation within tol.
func Evaluate(x, y float64, tol Tolerance) Result {
	ct := Hypotenuse(x, y)
	return Result{
		X:            x,
		Y:            y,
		CT:           ct,
		SumOfSquares: SumOfSquares(x, y),
		Holds:        tol.Holds(ct, x, y),
	}
}
