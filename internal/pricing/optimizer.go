package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/rentroll-ai/backend/internal/models"
)

// ErrUnknownStrategy marks a strategy tag the engine does not recognize.
// This is a client error: it fails the call instead of being retried or
// silently defaulted.
var ErrUnknownStrategy = errors.New("unknown optimization strategy")

// Mode selects between the canonical elasticity-driven optimizer and the
// transparent median-offset rules. The median mode is an explicitly
// configured alternative, never a fallback.
type Mode string

const (
	ModeElastic Mode = "elastic"
	ModeMedian  Mode = "median"
)

func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case ModeElastic, ModeMedian:
		return Mode(value), nil
	default:
		return "", fmt.Errorf("unknown pricing mode %q", value)
	}
}

const (
	defaultMaxAdjustment = 0.25
	defaultWeight        = 0.5
)

// Optimizer prices a single unit against its comparable set. It holds no
// mutable state: Optimize is a pure function of its inputs, so one instance
// is safe for concurrent use.
type Optimizer struct {
	curve         DemandCurve
	maxAdjustment float64
	mode          Mode
}

func NewOptimizer(elasticity, maxAdjustment float64, mode Mode) *Optimizer {
	if maxAdjustment <= 0 {
		maxAdjustment = defaultMaxAdjustment
	}
	if mode == "" {
		mode = ModeElastic
	}
	return &Optimizer{
		curve:         NewDemandCurve(elasticity),
		maxAdjustment: maxAdjustment,
		mode:          mode,
	}
}

// WithElasticity returns an optimizer using the override, leaving the
// receiver untouched. A nil override returns the receiver as is.
func (o *Optimizer) WithElasticity(elasticity *float64) *Optimizer {
	if elasticity == nil {
		return o
	}
	clone := *o
	clone.curve = NewDemandCurve(*elasticity)
	return &clone
}

// Request carries the per-call pricing knobs.
type Request struct {
	Strategy        models.OptimizationStrategy
	Weight          *float64 // balanced blend, 0 = pure lease-up, 1 = pure revenue
	ExcludedCompIDs []string
}

// Optimize filters the comparables, dispatches to the requested strategy and
// assembles the result record. The comp_data summary reflects the filtered
// set so reported statistics match what drove the price.
func (o *Optimizer) Optimize(unit models.UnitSnapshot, comps []models.Comparable, req Request) (models.OptimizationResult, error) {
	if _, err := models.ParseStrategy(string(req.Strategy)); err != nil {
		return models.OptimizationResult{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, req.Strategy)
	}

	result := models.OptimizationResult{
		UnitID:       unit.UnitID,
		CurrentRent:  unit.AdvertisedRent,
		StrategyUsed: req.Strategy,
	}

	filtered := FilterComparables(unit, comps, req.ExcludedCompIDs)
	result.CompData = SummarizeComps(filtered)

	if len(filtered) == 0 {
		// Not an error: no price change is proposed and confidence is
		// explicitly absent, not zero.
		result.SuggestedRent = roundTo(unit.AdvertisedRent, 2)
		return result, nil
	}

	base := MedianCompPrice(filtered)

	var price float64
	if o.mode == ModeMedian {
		price = o.medianModePrice(unit.AdvertisedRent, base, req.Strategy)
		confidence := confidenceFromCount(len(filtered))
		days := staticDaysToLease(req.Strategy)
		result.Confidence = &confidence
		result.ExpectedDaysToLease = &days
	} else {
		var degenerate bool
		switch req.Strategy {
		case models.StrategyRevenue:
			price, degenerate = o.revenuePrice(unit.AdvertisedRent, base)
		case models.StrategyLeaseUp:
			price, degenerate = o.leaseUpPrice(unit.AdvertisedRent, base)
		default:
			price, degenerate = o.balancedPrice(unit.AdvertisedRent, base, clampWeight(req.Weight))
		}

		prob := o.curve.Probability(price, base)
		confidence := clip(prob, 0, 1)
		if degenerate {
			confidence /= 2
		}
		days := int(math.Round(leaseWindowDays / prob))
		result.DemandProbability = &prob
		result.Confidence = &confidence
		result.ExpectedDaysToLease = &days
	}

	result.SuggestedRent = roundTo(price, 2)
	result.RentChange = roundTo(result.SuggestedRent-unit.AdvertisedRent, 2)
	if unit.AdvertisedRent != 0 {
		result.RentChangePct = roundTo(result.RentChange/unit.AdvertisedRent*100, 2)
	}
	result.RevenueImpactAnnual = roundTo(result.RentChange*monthsPerYear, 2)
	return result, nil
}

func (o *Optimizer) medianModePrice(current, base float64, strategy models.OptimizationStrategy) float64 {
	switch strategy {
	case models.StrategyRevenue:
		return medianRevenuePrice(current, base)
	case models.StrategyLeaseUp:
		return medianLeaseUpPrice(base)
	default:
		return medianBalancedPrice(current, base)
	}
}

func clampWeight(weight *float64) float64 {
	if weight == nil {
		return defaultWeight
	}
	return clip(*weight, 0, 1)
}
