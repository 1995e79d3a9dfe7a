package pricing

import "github.com/rentroll-ai/backend/internal/models"

// Size band for comparability: unit footprint is the primary price driver.
const (
	sqftBandLower = 0.8
	sqftBandUpper = 1.2
)

// FilterComparables narrows a raw comparable set to the subset usable for
// pricing one unit. Stages: caller exclusions, ±20% sqft band, then
// available-only when any active listing survives. The sqft and availability
// stages revert to their pre-stage set rather than emptying the result, since
// a coarse partial match beats none. Exclusions are never reverted: a comp the
// user rejected must not drive a price.
func FilterComparables(unit models.UnitSnapshot, comps []models.Comparable, excludedIDs []string) []models.Comparable {
	if len(comps) == 0 {
		return nil
	}

	filtered := comps
	if len(excludedIDs) > 0 {
		excluded := make(map[string]struct{}, len(excludedIDs))
		for _, id := range excludedIDs {
			excluded[id] = struct{}{}
		}
		filtered = keepComps(filtered, func(c models.Comparable) bool {
			_, skip := excluded[c.CompID]
			return !skip
		})
		if len(filtered) == 0 {
			return nil
		}
	}

	if unit.Sqft > 0 {
		minSqft := float64(unit.Sqft) * sqftBandLower
		maxSqft := float64(unit.Sqft) * sqftBandUpper
		inBand := keepComps(filtered, func(c models.Comparable) bool {
			sqft := float64(c.CompSqft)
			return sqft >= minSqft && sqft <= maxSqft
		})
		if len(inBand) > 0 {
			filtered = inBand
		}
	}

	available := keepComps(filtered, func(c models.Comparable) bool {
		return c.IsAvailable
	})
	if len(available) > 0 {
		filtered = available
	}

	return filtered
}

func keepComps(comps []models.Comparable, keep func(models.Comparable) bool) []models.Comparable {
	out := make([]models.Comparable, 0, len(comps))
	for _, c := range comps {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
