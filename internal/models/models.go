package models

import (
	"fmt"
	"time"
)

type UnitStatus string

const (
	StatusOccupied UnitStatus = "OCCUPIED"
	StatusVacant   UnitStatus = "VACANT"
	StatusNotice   UnitStatus = "NOTICE"
)

type OptimizationStrategy string

const (
	StrategyRevenue  OptimizationStrategy = "revenue"
	StrategyLeaseUp  OptimizationStrategy = "lease_up"
	StrategyBalanced OptimizationStrategy = "balanced"
)

// ParseStrategy maps a wire value onto a known strategy tag. An unknown tag
// is a client error and must fail the call, not default anywhere.
func ParseStrategy(value string) (OptimizationStrategy, error) {
	switch OptimizationStrategy(value) {
	case StrategyRevenue, StrategyLeaseUp, StrategyBalanced:
		return OptimizationStrategy(value), nil
	default:
		return "", fmt.Errorf("unknown optimization strategy %q", value)
	}
}

// UnitSnapshot is one row of the warehouse unit_snapshot mart table.
type UnitSnapshot struct {
	UnitID         string     `json:"unit_id"`
	Property       string     `json:"property"`
	Bed            int        `json:"bed"`
	Bath           float64    `json:"bath"`
	Sqft           int        `json:"sqft"`
	Status         UnitStatus `json:"status"`
	AdvertisedRent float64    `json:"advertised_rent"`
	MarketRent     *float64   `json:"market_rent,omitempty"`
	RentPerSqft    *float64   `json:"rent_per_sqft,omitempty"`
	NeedsPricing   bool       `json:"needs_pricing"`
	PricingUrgency string     `json:"pricing_urgency,omitempty"`
	UnitType       string     `json:"unit_type,omitempty"`
}

// Comparable is one competing listing paired with a unit in the
// unit_competitor_pairs mart table.
type Comparable struct {
	CompID          string  `json:"comp_id"`
	CompProperty    string  `json:"comp_property"`
	Bed             int     `json:"bed"`
	Bath            float64 `json:"bath"`
	CompSqft        int     `json:"comp_sqft"`
	CompPrice       float64 `json:"comp_price"`
	IsAvailable     bool    `json:"is_available"`
	SqftDeltaPct    float64 `json:"sqft_delta_pct"`
	SimilarityScore float64 `json:"similarity_score"`
	CompRank        int     `json:"comp_rank"`
}

// CompSummary reports the comparables that actually drove a suggested price,
// i.e. it is computed over the filtered set, not the raw warehouse rows.
type CompSummary struct {
	TotalComps         int      `json:"total_comps"`
	AvgCompPrice       float64  `json:"avg_comp_price"`
	MedianCompPrice    float64  `json:"median_comp_price"`
	MinCompPrice       float64  `json:"min_comp_price"`
	MaxCompPrice       float64  `json:"max_comp_price"`
	AvgSimilarityScore *float64 `json:"avg_similarity_score,omitempty"`
}

// OptimizationResult is the outcome of pricing one unit. Confidence and
// DemandProbability are nil exactly when no comparables survived filtering.
type OptimizationResult struct {
	UnitID              string               `json:"unit_id"`
	CurrentRent         float64              `json:"current_rent"`
	SuggestedRent       float64              `json:"suggested_rent"`
	RentChange          float64              `json:"rent_change"`
	RentChangePct       float64              `json:"rent_change_pct"`
	Confidence          *float64             `json:"confidence"`
	StrategyUsed        OptimizationStrategy `json:"strategy_used"`
	DemandProbability   *float64             `json:"demand_probability"`
	ExpectedDaysToLease *int                 `json:"expected_days_to_lease"`
	RevenueImpactAnnual float64              `json:"revenue_impact_annual"`
	CompData            CompSummary          `json:"comp_data"`
}

// BatchResult aggregates one batch run. Results holds successes only, in
// completion order; callers needing correlation key by unit_id.
type BatchResult struct {
	BatchID     string               `json:"batch_id"`
	Processed   int                  `json:"total_units_processed"`
	Succeeded   int                  `json:"successful_optimizations"`
	Failed      int                  `json:"failed_optimizations"`
	Results     []OptimizationResult `json:"results"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// UnitTypeSummary is one row of the unit-type rollup on the summary endpoint.
type UnitTypeSummary struct {
	UnitType     string  `json:"unit_type"`
	UnitCount    int     `json:"unit_count"`
	AvgRent      float64 `json:"avg_rent"`
	AvgSqft      float64 `json:"avg_sqft"`
	VacantCount  int     `json:"vacant_count"`
	NeedsPricing int     `json:"needs_pricing"`
}

// PortfolioAnalytics is the portfolio-wide rollup on the summary endpoint.
type PortfolioAnalytics struct {
	TotalUnits            int     `json:"total_units"`
	VacantUnits           int     `json:"vacant_units"`
	OccupiedUnits         int     `json:"occupied_units"`
	NoticeUnits           int     `json:"notice_units"`
	UnitsNeedingPricing   int     `json:"units_needing_pricing"`
	TotalRevenuePotential float64 `json:"total_revenue_potential"`
	CurrentAnnualRevenue  float64 `json:"current_annual_revenue"`
	AvgRentPerSqft        float64 `json:"avg_rent_per_sqft"`
}
