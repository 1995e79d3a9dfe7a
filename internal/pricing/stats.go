package pricing

import (
	"math"
	"sort"

	"github.com/rentroll-ai/backend/internal/models"
)

// MedianCompPrice is the market baseline for the demand curve. Returns 0 for
// an empty set.
func MedianCompPrice(comps []models.Comparable) float64 {
	if len(comps) == 0 {
		return 0
	}
	prices := make([]float64, len(comps))
	for i, c := range comps {
		prices[i] = c.CompPrice
	}
	sort.Float64s(prices)
	mid := len(prices) / 2
	if len(prices)%2 == 0 {
		return (prices[mid-1] + prices[mid]) / 2
	}
	return prices[mid]
}

// SummarizeComps builds the comp_data block of a result from the filtered
// comparable set.
func SummarizeComps(comps []models.Comparable) models.CompSummary {
	summary := models.CompSummary{TotalComps: len(comps)}
	if len(comps) == 0 {
		return summary
	}

	minPrice := math.Inf(1)
	maxPrice := math.Inf(-1)
	var priceTotal, simTotal float64
	for _, c := range comps {
		priceTotal += c.CompPrice
		simTotal += c.SimilarityScore
		if c.CompPrice < minPrice {
			minPrice = c.CompPrice
		}
		if c.CompPrice > maxPrice {
			maxPrice = c.CompPrice
		}
	}

	n := float64(len(comps))
	avgSim := roundTo(simTotal/n, 2)
	summary.AvgCompPrice = roundTo(priceTotal/n, 2)
	summary.MedianCompPrice = roundTo(MedianCompPrice(comps), 2)
	summary.MinCompPrice = minPrice
	summary.MaxCompPrice = maxPrice
	summary.AvgSimilarityScore = &avgSim
	return summary
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
