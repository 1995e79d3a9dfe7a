package pricing

import (
	"testing"

	"github.com/rentroll-ai/backend/internal/models"
)

func comp(id string, sqft int, price float64, available bool) models.Comparable {
	return models.Comparable{
		CompID:      id,
		CompSqft:    sqft,
		CompPrice:   price,
		IsAvailable: available,
	}
}

func TestFilterSqftBand(t *testing.T) {
	unit := models.UnitSnapshot{UnitID: "U1", Sqft: 1000}
	comps := []models.Comparable{
		comp("in-low", 800, 1900, true),
		comp("in-high", 1200, 2100, true),
		comp("too-small", 700, 1500, true),
		comp("too-big", 1400, 2600, true),
	}

	got := FilterComparables(unit, comps, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 comps in band, got %d", len(got))
	}
	for _, c := range got {
		if float64(c.CompSqft) < 800 || float64(c.CompSqft) > 1200 {
			t.Fatalf("comp %s outside size band", c.CompID)
		}
	}
}

func TestFilterSqftBandFallback(t *testing.T) {
	unit := models.UnitSnapshot{UnitID: "U1", Sqft: 1000}
	comps := []models.Comparable{
		comp("c1", 500, 1200, true),
		comp("c2", 2000, 3200, true),
	}

	got := FilterComparables(unit, comps, nil)
	if len(got) != 2 {
		t.Fatalf("expected fallback to full set, got %d comps", len(got))
	}
}

func TestFilterPrefersAvailable(t *testing.T) {
	unit := models.UnitSnapshot{UnitID: "U1", Sqft: 1000}
	comps := []models.Comparable{
		comp("active", 1000, 2000, true),
		comp("leased", 1000, 1900, false),
	}

	got := FilterComparables(unit, comps, nil)
	if len(got) != 1 || got[0].CompID != "active" {
		t.Fatalf("expected only the active listing, got %+v", got)
	}
}

func TestFilterKeepsLeasedWhenNoneActive(t *testing.T) {
	unit := models.UnitSnapshot{UnitID: "U1", Sqft: 1000}
	comps := []models.Comparable{
		comp("leased-a", 1000, 2000, false),
		comp("leased-b", 1050, 2050, false),
	}

	got := FilterComparables(unit, comps, nil)
	if len(got) != 2 {
		t.Fatalf("expected all leased comps kept, got %d", len(got))
	}
}

func TestFilterExclusions(t *testing.T) {
	unit := models.UnitSnapshot{UnitID: "U1", Sqft: 1000}
	comps := []models.Comparable{
		comp("keep", 1000, 2000, true),
		comp("rejected", 1000, 2500, true),
	}

	got := FilterComparables(unit, comps, []string{"rejected"})
	if len(got) != 1 || got[0].CompID != "keep" {
		t.Fatalf("expected rejected comp removed, got %+v", got)
	}
}

func TestFilterExclusionsNeverRevert(t *testing.T) {
	unit := models.UnitSnapshot{UnitID: "U1", Sqft: 1000}
	comps := []models.Comparable{
		comp("c1", 1000, 2000, true),
		comp("c2", 1000, 2100, true),
	}

	got := FilterComparables(unit, comps, []string{"c1", "c2"})
	if len(got) != 0 {
		t.Fatalf("expected empty set when every comp is excluded, got %+v", got)
	}
}

func TestFilterSkipsBandWithoutUnitSqft(t *testing.T) {
	unit := models.UnitSnapshot{UnitID: "U1", Sqft: 0}
	comps := []models.Comparable{
		comp("c1", 400, 1200, true),
		comp("c2", 3000, 5200, true),
	}

	got := FilterComparables(unit, comps, nil)
	if len(got) != 2 {
		t.Fatalf("expected size band skipped without unit sqft, got %d comps", len(got))
	}
}

func TestFilterEmptyInput(t *testing.T) {
	unit := models.UnitSnapshot{UnitID: "U1", Sqft: 1000}
	if got := FilterComparables(unit, nil, nil); len(got) != 0 {
		t.Fatalf("expected empty output for empty input, got %+v", got)
	}
}
