package models

import "testing"

func TestParseStrategy(t *testing.T) {
	cases := map[string]OptimizationStrategy{
		"revenue":  StrategyRevenue,
		"lease_up": StrategyLeaseUp,
		"balanced": StrategyBalanced,
	}
	for raw, want := range cases {
		got, err := ParseStrategy(raw)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("%s: expected %s, got %s", raw, want, got)
		}
	}

	for _, raw := range []string{"", "REVENUE", "lease-up", "smart"} {
		if _, err := ParseStrategy(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
