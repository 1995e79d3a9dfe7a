package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rentroll-ai/backend/internal/models"
	"github.com/rentroll-ai/backend/internal/pricing"
)

// fakeWarehouse serves canned units and comparables and can be told to fail
// or panic for specific unit ids. It also tracks concurrent comparable
// fetches so tests can observe the semaphore at work.
type fakeWarehouse struct {
	mu          sync.Mutex
	units       map[string]models.UnitSnapshot
	vacant      []models.UnitSnapshot
	comps       map[string][]models.Comparable
	failFor     map[string]bool
	panicFor    map[string]bool
	fetchDelay  time.Duration
	inFlight    int
	maxInFlight int
}

func (f *fakeWarehouse) GetUnit(ctx context.Context, unitID string) (models.UnitSnapshot, error) {
	unit, ok := f.units[unitID]
	if !ok {
		return models.UnitSnapshot{}, fmt.Errorf("unit %s not found", unitID)
	}
	return unit, nil
}

func (f *fakeWarehouse) GetVacantUnits(ctx context.Context, limit int) ([]models.UnitSnapshot, error) {
	if limit > 0 && len(f.vacant) > limit {
		return f.vacant[:limit], nil
	}
	return f.vacant, nil
}

func (f *fakeWarehouse) GetUnitComparables(ctx context.Context, unitID string, maxComps int) ([]models.Comparable, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	if f.fetchDelay > 0 {
		time.Sleep(f.fetchDelay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if f.panicFor[unitID] {
		panic("corrupt comparable row")
	}
	if f.failFor[unitID] {
		return nil, fmt.Errorf("warehouse query failed for %s", unitID)
	}
	return f.comps[unitID], nil
}

func testUnit(id string) models.UnitSnapshot {
	return models.UnitSnapshot{
		UnitID:         id,
		Property:       "Test Property",
		Sqft:           1000,
		Status:         models.StatusVacant,
		AdvertisedRent: 2000,
	}
}

func testComps() []models.Comparable {
	return []models.Comparable{
		{CompID: "C1", CompSqft: 950, CompPrice: 1950, IsAvailable: true},
		{CompID: "C2", CompSqft: 1000, CompPrice: 2050, IsAvailable: true},
		{CompID: "C3", CompSqft: 1050, CompPrice: 2000, IsAvailable: true},
	}
}

func newFakeWarehouse(ids ...string) *fakeWarehouse {
	f := &fakeWarehouse{
		units:    map[string]models.UnitSnapshot{},
		comps:    map[string][]models.Comparable{},
		failFor:  map[string]bool{},
		panicFor: map[string]bool{},
	}
	for _, id := range ids {
		unit := testUnit(id)
		f.units[id] = unit
		f.vacant = append(f.vacant, unit)
		f.comps[id] = testComps()
	}
	return f
}

func newService(store *fakeWarehouse) *OptimizeService {
	return &OptimizeService{
		Store:  store,
		Engine: pricing.NewOptimizer(pricing.DefaultElasticity, 0.25, pricing.ModeElastic),
		Logger: zerolog.Nop(),
	}
}

func TestOptimizeUnit(t *testing.T) {
	svc := newService(newFakeWarehouse("U1"))

	result, err := svc.OptimizeUnit(context.Background(), "U1", Params{Strategy: models.StrategyRevenue})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UnitID != "U1" || result.SuggestedRent <= 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestOptimizeUnitPropagatesNotFound(t *testing.T) {
	svc := newService(newFakeWarehouse("U1"))

	if _, err := svc.OptimizeUnit(context.Background(), "MISSING", Params{Strategy: models.StrategyRevenue}); err == nil {
		t.Fatalf("expected error for unknown unit")
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	store := newFakeWarehouse("U1", "U2", "U3", "U4", "U5")
	store.failFor["U3"] = true
	svc := newService(store)

	result, err := svc.OptimizeBatch(context.Background(), BatchParams{
		Params:  Params{Strategy: models.StrategyRevenue},
		UnitIDs: []string{"U1", "U2", "U3", "U4", "U5"},
	})
	if err != nil {
		t.Fatalf("batch must not fail on a single bad unit: %v", err)
	}
	if result.Processed != 5 || result.Succeeded != 4 || result.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	for _, res := range result.Results {
		if res.UnitID == "U3" {
			t.Fatalf("failed unit must not appear in results")
		}
	}
	if result.BatchID == "" {
		t.Fatalf("expected a batch id")
	}
}

func TestBatchRecoversPanics(t *testing.T) {
	store := newFakeWarehouse("U1", "U2", "U3")
	store.panicFor["U2"] = true
	svc := newService(store)

	result, err := svc.OptimizeBatch(context.Background(), BatchParams{
		Params:  Params{Strategy: models.StrategyBalanced},
		UnitIDs: []string{"U1", "U2", "U3"},
	})
	if err != nil {
		t.Fatalf("panic must be contained: %v", err)
	}
	if result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("unexpected counts after panic: %+v", result)
	}
}

func TestBatchRespectsMaxUnits(t *testing.T) {
	svc := newService(newFakeWarehouse("U1", "U2", "U3", "U4", "U5"))

	result, err := svc.OptimizeBatch(context.Background(), BatchParams{
		Params:   Params{Strategy: models.StrategyRevenue},
		UnitIDs:  []string{"U1", "U2", "U3", "U4", "U5"},
		MaxUnits: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Processed != 2 || result.Succeeded != 2 {
		t.Fatalf("expected cap at 2 units, got %+v", result)
	}
}

func TestBatchVacantFallback(t *testing.T) {
	svc := newService(newFakeWarehouse("U1", "U2", "U3"))

	result, err := svc.OptimizeBatch(context.Background(), BatchParams{
		Params: Params{Strategy: models.StrategyLeaseUp},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Processed != 3 || result.Succeeded != 3 {
		t.Fatalf("expected every needs-pricing unit processed, got %+v", result)
	}
}

func TestBatchSkipsMissingIDs(t *testing.T) {
	svc := newService(newFakeWarehouse("U1", "U2"))

	result, err := svc.OptimizeBatch(context.Background(), BatchParams{
		Params:  Params{Strategy: models.StrategyRevenue},
		UnitIDs: []string{"U1", "GHOST", "U2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Processed != 2 || result.Succeeded != 2 || result.Failed != 0 {
		t.Fatalf("unresolvable ids should be skipped, got %+v", result)
	}
}

func TestBatchConcurrencyBound(t *testing.T) {
	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("U%d", i+1)
	}
	store := newFakeWarehouse(ids...)
	store.fetchDelay = 5 * time.Millisecond
	svc := newService(store)
	svc.MaxConcurrency = 2

	result, err := svc.OptimizeBatch(context.Background(), BatchParams{
		Params:  Params{Strategy: models.StrategyRevenue},
		UnitIDs: ids,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Succeeded != 10 {
		t.Fatalf("expected all units to finish, got %+v", result)
	}
	if store.maxInFlight > 2 {
		t.Fatalf("semaphore breached: saw %d concurrent fetches", store.maxInFlight)
	}
}

func TestBatchCancelledContextKeepsPartials(t *testing.T) {
	svc := newService(newFakeWarehouse("U1", "U2", "U3"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.OptimizeBatch(ctx, BatchParams{
		Params:  Params{Strategy: models.StrategyRevenue},
		UnitIDs: []string{"U1", "U2", "U3"},
	})
	if err != nil {
		t.Fatalf("cancellation should not fail the batch: %v", err)
	}
	if result.Succeeded != 0 || result.Failed != result.Processed {
		t.Fatalf("expected no admissions after cancellation, got %+v", result)
	}
}

func TestBatchIDsAreUnique(t *testing.T) {
	svc := newService(newFakeWarehouse("U1"))

	first, err := svc.OptimizeBatch(context.Background(), BatchParams{
		Params: Params{Strategy: models.StrategyRevenue},
	})
	if err != nil {
		t.Fatalf("first batch: %v", err)
	}
	second, err := svc.OptimizeBatch(context.Background(), BatchParams{
		Params: Params{Strategy: models.StrategyRevenue},
	})
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if first.BatchID == second.BatchID {
		t.Fatalf("batch ids must be unique, both were %s", first.BatchID)
	}
}
