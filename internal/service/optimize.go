package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/rentroll-ai/backend/internal/models"
	"github.com/rentroll-ai/backend/internal/pricing"
)

// UnitSource and CompSource are the two read-only capabilities the optimizer
// consumes; *db.Store satisfies both, fakes stand in for tests.
type UnitSource interface {
	GetUnit(ctx context.Context, unitID string) (models.UnitSnapshot, error)
	GetVacantUnits(ctx context.Context, limit int) ([]models.UnitSnapshot, error)
}

type CompSource interface {
	GetUnitComparables(ctx context.Context, unitID string, maxComps int) ([]models.Comparable, error)
}

type Warehouse interface {
	UnitSource
	CompSource
}

const (
	defaultMaxConcurrency = 100
	defaultMaxBatchUnits  = 100
)

// OptimizeService orchestrates the pricing engine over warehouse data: one
// unit per call, or a bounded-concurrency batch.
type OptimizeService struct {
	Store          Warehouse
	Engine         *pricing.Optimizer
	Logger         zerolog.Logger
	MaxComps       int
	MaxConcurrency int64
	MaxBatchUnits  int
}

// Params carries the caller's pricing knobs for one unit or a whole batch.
type Params struct {
	Strategy        models.OptimizationStrategy
	Weight          *float64
	Elasticity      *float64
	ExcludedCompIDs []string
}

type BatchParams struct {
	Params
	UnitIDs  []string
	MaxUnits int
}

// OptimizeUnit prices a single unit. Errors (unknown unit, unknown strategy,
// store failures) propagate to the caller.
func (s *OptimizeService) OptimizeUnit(ctx context.Context, unitID string, params Params) (models.OptimizationResult, error) {
	unit, err := s.Store.GetUnit(ctx, unitID)
	if err != nil {
		return models.OptimizationResult{}, err
	}
	return s.optimizeOne(ctx, unit, params)
}

// OptimizeBatch fans the engine out across many units behind a counting
// semaphore. A failure inside one unit's optimization is logged and counted;
// it never aborts sibling tasks or the batch. On context cancellation no new
// tasks are admitted but results completed so far are still returned.
func (s *OptimizeService) OptimizeBatch(ctx context.Context, params BatchParams) (models.BatchResult, error) {
	batchID := uuid.NewString()
	logger := s.Logger.With().Str("batch_id", batchID).Logger()

	units, err := s.collectUnits(ctx, params)
	if err != nil {
		return models.BatchResult{}, err
	}

	result := models.BatchResult{
		BatchID:     batchID,
		Processed:   len(units),
		Results:     []models.OptimizationResult{},
		GeneratedAt: time.Now().UTC(),
	}
	if len(units) == 0 {
		return result, nil
	}

	maxConcurrency := s.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	sem := semaphore.NewWeighted(maxConcurrency)

	logger.Info().Int("units", len(units)).Str("strategy", string(params.Strategy)).
		Msg("starting batch optimization")

	resultCh := make(chan models.OptimizationResult, len(units))
	var wg sync.WaitGroup
	for _, unit := range units {
		if err := sem.Acquire(ctx, 1); err != nil {
			logger.Warn().Err(err).Msg("batch cancelled, keeping completed results")
			break
		}
		wg.Add(1)
		go func(unit models.UnitSnapshot) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := s.optimizeOne(ctx, unit, params.Params)
			if err != nil {
				logger.Error().Err(err).Str("unit_id", unit.UnitID).Msg("unit optimization failed")
				return
			}
			resultCh <- res
		}(unit)
	}
	wg.Wait()
	close(resultCh)

	for res := range resultCh {
		result.Results = append(result.Results, res)
	}
	result.Succeeded = len(result.Results)
	result.Failed = result.Processed - result.Succeeded

	logger.Info().Int("succeeded", result.Succeeded).Int("failed", result.Failed).
		Msg("batch optimization completed")
	return result, nil
}

// collectUnits resolves the batch's unit set: the explicit id list when
// given (missing ids are skipped), otherwise the needs-pricing set. Both are
// capped at MaxUnits.
func (s *OptimizeService) collectUnits(ctx context.Context, params BatchParams) ([]models.UnitSnapshot, error) {
	maxUnits := params.MaxUnits
	limit := s.MaxBatchUnits
	if limit <= 0 {
		limit = defaultMaxBatchUnits
	}
	if maxUnits <= 0 || maxUnits > limit {
		maxUnits = limit
	}

	if len(params.UnitIDs) == 0 {
		return s.Store.GetVacantUnits(ctx, maxUnits)
	}

	ids := params.UnitIDs
	if len(ids) > maxUnits {
		ids = ids[:maxUnits]
	}
	units := make([]models.UnitSnapshot, 0, len(ids))
	for _, id := range ids {
		unit, err := s.Store.GetUnit(ctx, id)
		if err != nil {
			s.Logger.Warn().Err(err).Str("unit_id", id).Msg("skipping unresolvable unit")
			continue
		}
		units = append(units, unit)
	}
	return units, nil
}

// optimizeOne fetches comparables and runs the engine for one unit. A panic
// inside the engine is converted to an error so a single bad row cannot take
// down a batch.
func (s *OptimizeService) optimizeOne(ctx context.Context, unit models.UnitSnapshot, params Params) (result models.OptimizationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("optimization panicked for unit %s: %v", unit.UnitID, r)
		}
	}()

	comps, err := s.Store.GetUnitComparables(ctx, unit.UnitID, s.MaxComps)
	if err != nil {
		return models.OptimizationResult{}, err
	}

	engine := s.Engine.WithElasticity(params.Elasticity)
	return engine.Optimize(unit, comps, pricing.Request{
		Strategy:        params.Strategy,
		Weight:          params.Weight,
		ExcludedCompIDs: params.ExcludedCompIDs,
	})
}
