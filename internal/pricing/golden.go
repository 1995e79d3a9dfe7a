package pricing

import "math"

var invPhi = (math.Sqrt(5) - 1) / 2

// Interval width at which the search stops; well below a cent on rent scales.
const searchTolerance = 1e-3

// goldenSectionMax finds the argmax of f on [lower, upper]. f must be
// unimodal on the interval for an exact answer; the strategies' objectives
// are piecewise linear-quadratic in price, which qualifies.
func goldenSectionMax(f func(float64) float64, lower, upper float64) float64 {
	a, b := lower, upper
	c := b - (b-a)*invPhi
	d := a + (b-a)*invPhi
	for b-a > searchTolerance {
		if f(c) >= f(d) {
			b = d
		} else {
			a = c
		}
		c = b - (b-a)*invPhi
		d = a + (b-a)*invPhi
	}
	return (a + b) / 2
}

func goldenSectionMin(f func(float64) float64, lower, upper float64) float64 {
	return goldenSectionMax(func(x float64) float64 { return -f(x) }, lower, upper)
}
