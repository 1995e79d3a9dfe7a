package pricing

import "math"

const monthsPerYear = 12

// priceBounds validates an optimization interval. When current rent and the
// market baseline diverge sharply the interval can invert; the strategies
// collapse it to the midpoint and mark the result low-confidence instead of
// failing.
func priceBounds(lower, upper float64) (float64, float64, bool) {
	if lower > upper {
		mid := (lower + upper) / 2
		return mid, mid, true
	}
	return lower, upper, false
}

// revenuePrice maximizes annualized expected revenue
// price * P(lease | price, base) * 12 over a band limited both by the
// maximum adjustment away from market and by how far we let a single
// repricing move from the current rent.
func (o *Optimizer) revenuePrice(current, base float64) (float64, bool) {
	lower, upper, degenerate := priceBounds(
		math.Max(base*(1-o.maxAdjustment), current*0.8),
		math.Min(base*(1+o.maxAdjustment), current*1.3),
	)
	if degenerate {
		return lower, true
	}
	price := goldenSectionMax(func(p float64) float64 {
		return p * o.curve.Probability(p, base) * monthsPerYear
	}, lower, upper)
	return price, false
}

// leaseUpPrice minimizes expected days to lease over an asymmetric band that
// is more permissive downward, biasing toward faster absorption.
func (o *Optimizer) leaseUpPrice(current, base float64) (float64, bool) {
	lower, upper, degenerate := priceBounds(
		math.Max(base*(1-o.maxAdjustment), current*0.7),
		math.Min(base*(1+o.maxAdjustment*0.5), current*1.1),
	)
	if degenerate {
		return lower, true
	}
	price := goldenSectionMin(func(p float64) float64 {
		return o.curve.ExpectedDaysToLease(p, base)
	}, lower, upper)
	return price, false
}

// balancedPrice blends the two strategies: weight 1 is pure revenue, 0 pure
// lease-up. The demand probability is recomputed for the blended price.
func (o *Optimizer) balancedPrice(current, base, weight float64) (float64, bool) {
	revenue, revDegenerate := o.revenuePrice(current, base)
	leaseUp, leaseDegenerate := o.leaseUpPrice(current, base)
	return revenue*weight + leaseUp*(1-weight), revDegenerate || leaseDegenerate
}
