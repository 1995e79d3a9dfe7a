package pricing

import (
	"math"

	"github.com/rentroll-ai/backend/internal/models"
)

// Deterministic median-offset pricing, selectable with PRICING_MODE=median.
// Transparent rules: revenue prices 5% above market (never below current),
// lease-up 5% below, balanced nudges toward the median. Confidence comes
// from comparable count and expected days to lease are static per strategy.

func medianRevenuePrice(current, base float64) float64 {
	return math.Max(current, math.Round(base*1.05))
}

func medianLeaseUpPrice(base float64) float64 {
	return math.Round(base * 0.95)
}

// medianBalancedPrice keeps the current rent when it already sits within 10%
// of market, moves halfway up when under market, and 30% of the gap down when
// over it.
func medianBalancedPrice(current, base float64) float64 {
	if base <= 0 {
		return current
	}
	ratio := current / base
	switch {
	case ratio >= 0.9 && ratio <= 1.1:
		return current
	case current < base:
		return math.Round(current + (base-current)*0.5)
	default:
		return math.Round(current - (current-base)*0.3)
	}
}

func confidenceFromCount(count int) float64 {
	switch {
	case count >= 10:
		return 0.95
	case count >= 5:
		return 0.80
	case count >= 3:
		return 0.60
	default:
		return 0.30
	}
}

func staticDaysToLease(strategy models.OptimizationStrategy) int {
	switch strategy {
	case models.StrategyRevenue:
		return 38
	case models.StrategyLeaseUp:
		return 23
	default:
		return 30
	}
}
