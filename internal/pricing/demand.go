package pricing

// DefaultElasticity is the percent demand change per 1% price deviation from
// the market baseline.
const DefaultElasticity = -0.003

// leaseWindowDays is the reference leasing window the probability is
// expressed against.
const leaseWindowDays = 30.0

// DemandCurve maps a candidate price and a market baseline to a leasing
// probability. Stateless; elasticity is fixed at construction.
type DemandCurve struct {
	Elasticity float64
}

func NewDemandCurve(elasticity float64) DemandCurve {
	if elasticity == 0 {
		elasticity = DefaultElasticity
	}
	return DemandCurve{Elasticity: elasticity}
}

// Probability estimates the chance of leasing within the reference window at
// the given price. With no usable baseline it returns 0.5. The result is
// clipped to [0.05, cap] where the cap is 0.95 for steep discounts
// (price/base < 0.6) and 1.5 otherwise; values above 1 are an internal
// "very likely, priced conservatively" signal, not a literal probability.
func (d DemandCurve) Probability(price, basePrice float64) float64 {
	if basePrice <= 0 {
		return 0.5
	}

	ratio := (price - basePrice) / basePrice
	raw := 1 + d.Elasticity*ratio*100

	upperCap := 1.5
	if price/basePrice < 0.6 {
		upperCap = 0.95
	}
	return clip(raw, 0.05, upperCap)
}

// ExpectedDaysToLease scales the reference window inversely by demand.
func (d DemandCurve) ExpectedDaysToLease(price, basePrice float64) float64 {
	return leaseWindowDays / d.Probability(price, basePrice)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
