// Package spacetime holds the arithmetic behind the light cone plot.
//
// Two space magnitudes x and y are the legs of a right triangle; the derived
// magnitude ct (time multiplied by the speed of light) is its hypotenuse:
//
//	ct² = x² + y²
//
// Hypotenuse computes ct, Holds checks the relation within DefaultTolerance,
// and Evaluate bundles both into a Result. Triangle lays the three magnitudes
// out as plot vertices.
package spacetime
