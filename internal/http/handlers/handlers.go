package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/rentroll-ai/backend/internal/db"
	"github.com/rentroll-ai/backend/internal/models"
	"github.com/rentroll-ai/backend/internal/pricing"
	"github.com/rentroll-ai/backend/internal/service"
)

type Handler struct {
	Store     *db.Store
	Optimize  *service.OptimizeService
	Validator *validator.Validate
	Logger    zerolog.Logger
}

type OptimizeRequest struct {
	Strategy         string   `json:"strategy" validate:"required"`
	Weight           *float64 `json:"weight" validate:"omitempty,gte=0,lte=1"`
	CustomElasticity *float64 `json:"custom_elasticity"`
	ExcludedCompIDs  []string `json:"excluded_comp_ids"`
}

type BatchOptimizeRequest struct {
	UnitIDs          []string `json:"unit_ids"`
	Strategy         string   `json:"strategy" validate:"required"`
	Weight           *float64 `json:"weight" validate:"omitempty,gte=0,lte=1"`
	CustomElasticity *float64 `json:"custom_elasticity"`
	MaxUnits         int      `json:"max_units" validate:"omitempty,gte=1"`
}

type OptimizeResponse struct {
	UnitID       string                    `json:"unit_id"`
	Optimization models.OptimizationResult `json:"optimization"`
	GeneratedAt  time.Time                 `json:"generated_at"`
}

type UnitsListResponse struct {
	Units      []models.UnitSnapshot `json:"units"`
	TotalCount int                   `json:"total_count"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	HasNext    bool                  `json:"has_next"`
}

type ComparablesResponse struct {
	UnitID      string              `json:"unit_id"`
	Unit        models.UnitSnapshot `json:"unit"`
	Comparables []models.Comparable `json:"comparables"`
	models.CompSummary
}

type SummaryResponse struct {
	Portfolio models.PortfolioAnalytics `json:"portfolio"`
	UnitTypes []models.UnitTypeSummary  `json:"unit_types"`
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary List units
// @Description List unit snapshots with optional property/status/needs_pricing filters
// @Tags units
// @Produce json
// @Param property query string false "Property name"
// @Param status query string false "OCCUPIED, VACANT or NOTICE"
// @Param needs_pricing query bool false "Only units flagged for repricing"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} UnitsListResponse
// @Router /api/v1/units [get]
func (h *Handler) UnitsList(c *gin.Context) {
	filter := db.UnitFilter{
		Property: c.Query("property"),
		Status:   c.Query("status"),
	}
	if raw := c.Query("needs_pricing"); raw != "" {
		needs, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "needs_pricing must be a boolean", nil)
			return
		}
		filter.NeedsPricing = &needs
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))

	units, total, err := h.Store.GetUnits(c.Request.Context(), filter)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to list units")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list units", nil)
		return
	}
	if units == nil {
		units = []models.UnitSnapshot{}
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	c.JSON(http.StatusOK, UnitsListResponse{
		Units:      units,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		HasNext:    filter.Page*filter.PageSize < total,
	})
}

// @Summary Unit details
// @Tags units
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} models.UnitSnapshot
// @Failure 404 {object} map[string]any
// @Router /api/v1/units/{id} [get]
func (h *Handler) UnitDetails(c *gin.Context) {
	unit, err := h.Store.GetUnit(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrUnitNotFound) {
			writeError(c, http.StatusNotFound, "UNIT_NOT_FOUND", "Unit not found", nil)
			return
		}
		h.Logger.Error().Err(err).Str("unit_id", c.Param("id")).Msg("failed to get unit")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get unit", nil)
		return
	}
	c.JSON(http.StatusOK, unit)
}

// @Summary Unit comparables
// @Description Ranked competing listings with summary statistics
// @Tags units
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} ComparablesResponse
// @Failure 404 {object} map[string]any
// @Router /api/v1/units/{id}/comparables [get]
func (h *Handler) UnitComparables(c *gin.Context) {
	unitID := c.Param("id")
	unit, err := h.Store.GetUnit(c.Request.Context(), unitID)
	if err != nil {
		if errors.Is(err, db.ErrUnitNotFound) {
			writeError(c, http.StatusNotFound, "UNIT_NOT_FOUND", "Unit not found", nil)
			return
		}
		h.Logger.Error().Err(err).Str("unit_id", unitID).Msg("failed to get unit")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get unit", nil)
		return
	}

	comps, err := h.Store.GetUnitComparables(c.Request.Context(), unitID, h.Optimize.MaxComps)
	if err != nil {
		h.Logger.Error().Err(err).Str("unit_id", unitID).Msg("failed to get comparables")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get comparables", nil)
		return
	}
	if comps == nil {
		comps = []models.Comparable{}
	}

	c.JSON(http.StatusOK, ComparablesResponse{
		UnitID:      unitID,
		Unit:        unit,
		Comparables: comps,
		CompSummary: pricing.SummarizeComps(comps),
	})
}

// @Summary Optimize one unit
// @Description Recommend an advertised rent for a unit under the given strategy
// @Tags optimize
// @Accept json
// @Produce json
// @Param id path string true "Unit ID"
// @Param request body OptimizeRequest true "Optimization parameters"
// @Success 200 {object} OptimizeResponse
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/v1/units/{id}/optimize [post]
func (h *Handler) OptimizeUnit(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Validation failed", err.Error())
		return
	}
	strategy, err := models.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_STRATEGY", err.Error(), nil)
		return
	}

	result, err := h.Optimize.OptimizeUnit(c.Request.Context(), c.Param("id"), service.Params{
		Strategy:        strategy,
		Weight:          req.Weight,
		Elasticity:      req.CustomElasticity,
		ExcludedCompIDs: req.ExcludedCompIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, db.ErrUnitNotFound):
			writeError(c, http.StatusNotFound, "UNIT_NOT_FOUND", "Unit not found", nil)
		case errors.Is(err, pricing.ErrUnknownStrategy):
			writeError(c, http.StatusBadRequest, "INVALID_STRATEGY", err.Error(), nil)
		default:
			h.Logger.Error().Err(err).Str("unit_id", c.Param("id")).Msg("optimization failed")
			writeError(c, http.StatusInternalServerError, "OPTIMIZATION_FAILED", "Optimization failed", nil)
		}
		return
	}

	c.JSON(http.StatusOK, OptimizeResponse{
		UnitID:       result.UnitID,
		Optimization: result,
		GeneratedAt:  time.Now().UTC(),
	})
}

// @Summary Optimize a batch of units
// @Description Run the optimizer across many units with bounded concurrency. Individual failures are counted, never fatal.
// @Tags optimize
// @Accept json
// @Produce json
// @Param request body BatchOptimizeRequest true "Batch parameters"
// @Success 200 {object} models.BatchResult
// @Failure 400 {object} map[string]any
// @Router /api/v1/batch/optimize [post]
func (h *Handler) BatchOptimize(c *gin.Context) {
	var req BatchOptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Validation failed", err.Error())
		return
	}
	strategy, err := models.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_STRATEGY", err.Error(), nil)
		return
	}

	result, err := h.Optimize.OptimizeBatch(c.Request.Context(), service.BatchParams{
		Params: service.Params{
			Strategy:   strategy,
			Weight:     req.Weight,
			Elasticity: req.CustomElasticity,
		},
		UnitIDs:  req.UnitIDs,
		MaxUnits: req.MaxUnits,
	})
	if err != nil {
		h.Logger.Error().Err(err).Msg("batch optimization failed")
		writeError(c, http.StatusInternalServerError, "BATCH_FAILED", "Batch optimization failed", nil)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Portfolio summary
// @Tags analytics
// @Produce json
// @Success 200 {object} SummaryResponse
// @Router /api/v1/summary [get]
func (h *Handler) Summary(c *gin.Context) {
	portfolio, err := h.Store.GetPortfolioAnalytics(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to get portfolio analytics")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get summary", nil)
		return
	}
	unitTypes, err := h.Store.GetUnitTypesSummary(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to get unit types summary")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get summary", nil)
		return
	}
	if unitTypes == nil {
		unitTypes = []models.UnitTypeSummary{}
	}

	c.JSON(http.StatusOK, SummaryResponse{Portfolio: portfolio, UnitTypes: unitTypes})
}

// @Summary List properties
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/properties [get]
func (h *Handler) Properties(c *gin.Context) {
	properties, err := h.Store.GetProperties(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to list properties")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list properties", nil)
		return
	}
	if properties == nil {
		properties = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	body := gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
	if details != nil {
		body["error"].(gin.H)["details"] = details
	}
	c.JSON(status, body)
}
