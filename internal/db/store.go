package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentroll-ai/backend/internal/models"
)

var ErrUnitNotFound = errors.New("unit not found")

// TableConfig names the warehouse schemas feeding the optimizer. It is built
// from configuration and passed in at construction; nothing mutates it after
// that.
type TableConfig struct {
	Mart    string
	Staging string
}

func DefaultTables() TableConfig {
	return TableConfig{Mart: "mart", Staging: "staging"}
}

func (t TableConfig) unitSnapshot() string {
	return t.Mart + ".unit_snapshot"
}

func (t TableConfig) competitorPairs() string {
	return t.Mart + ".unit_competitor_pairs"
}

// Store reads the analytical warehouse. All methods are read-only; the
// optimizer never writes back.
type Store struct {
	Pool   *pgxpool.Pool
	Tables TableConfig
}

func New(ctx context.Context, databaseURL string, tables TableConfig) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if tables.Mart == "" {
		tables = DefaultTables()
	}
	return &Store{Pool: pool, Tables: tables}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

const unitColumns = `unit_id, property, bed, bath, sqft, status, advertised_rent,
	market_rent, rent_per_sqft, needs_pricing, COALESCE(pricing_urgency, ''), COALESCE(unit_type, '')`

func scanUnit(row pgx.Row) (models.UnitSnapshot, error) {
	var u models.UnitSnapshot
	err := row.Scan(&u.UnitID, &u.Property, &u.Bed, &u.Bath, &u.Sqft, &u.Status,
		&u.AdvertisedRent, &u.MarketRent, &u.RentPerSqft, &u.NeedsPricing,
		&u.PricingUrgency, &u.UnitType)
	return u, err
}

func (s *Store) GetUnit(ctx context.Context, unitID string) (models.UnitSnapshot, error) {
	row := s.Pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE unit_id = $1`, unitColumns, s.Tables.unitSnapshot()),
		unitID)
	u, err := scanUnit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.UnitSnapshot{}, ErrUnitNotFound
		}
		return models.UnitSnapshot{}, err
	}
	return u, nil
}

// UnitFilter narrows the units listing. Zero values mean "no constraint".
type UnitFilter struct {
	Property     string
	Status       string
	NeedsPricing *bool
	Page         int
	PageSize     int
}

func (s *Store) GetUnits(ctx context.Context, filter UnitFilter) ([]models.UnitSnapshot, int, error) {
	if filter.PageSize <= 0 || filter.PageSize > 200 {
		filter.PageSize = 50
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	var args []any
	var wheres []string
	if filter.Property != "" {
		args = append(args, filter.Property)
		wheres = append(wheres, fmt.Sprintf("property = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.NeedsPricing != nil {
		args = append(args, *filter.NeedsPricing)
		wheres = append(wheres, fmt.Sprintf("needs_pricing = $%d", len(args)))
	}
	whereClause := ""
	if len(wheres) > 0 {
		whereClause = " WHERE " + strings.Join(wheres, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.Tables.unitSnapshot()) + whereClause
	if err := s.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, unitColumns, s.Tables.unitSnapshot()) + whereClause +
		fmt.Sprintf(` ORDER BY %s, property, unit_id LIMIT $%d OFFSET $%d`,
			urgencyOrder, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.UnitSnapshot
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// urgencyOrder surfaces the units a pricing manager should look at first.
const urgencyOrder = `CASE COALESCE(pricing_urgency, '')
	WHEN 'IMMEDIATE' THEN 1
	WHEN 'HIGH' THEN 2
	WHEN 'MEDIUM' THEN 3
	ELSE 4 END`

// GetVacantUnits returns the needs-pricing unit set, most urgent first.
func (s *Store) GetVacantUnits(ctx context.Context, limit int) ([]models.UnitSnapshot, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE needs_pricing = TRUE ORDER BY %s, advertised_rent DESC`,
		unitColumns, s.Tables.unitSnapshot(), urgencyOrder)
	var args []any
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $1"
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UnitSnapshot
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetUnitComparables returns the ranked competitor pairings for a unit. An
// empty result is normal, never an error.
func (s *Store) GetUnitComparables(ctx context.Context, unitID string, maxComps int) ([]models.Comparable, error) {
	query := fmt.Sprintf(`SELECT comp_id, comp_property, bed, bath, comp_sqft, comp_price,
		is_available, COALESCE(sqft_delta_pct, 0), COALESCE(similarity_score, 0), comp_rank
		FROM %s WHERE unit_id = $1 ORDER BY comp_rank`, s.Tables.competitorPairs())
	args := []any{unitID}
	if maxComps > 0 {
		args = append(args, maxComps)
		query += " LIMIT $2"
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Comparable
	for rows.Next() {
		var c models.Comparable
		if err := rows.Scan(&c.CompID, &c.CompProperty, &c.Bed, &c.Bath, &c.CompSqft,
			&c.CompPrice, &c.IsAvailable, &c.SqftDeltaPct, &c.SimilarityScore, &c.CompRank); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetProperties(ctx context.Context) ([]string, error) {
	rows, err := s.Pool.Query(ctx,
		fmt.Sprintf(`SELECT DISTINCT property FROM %s WHERE property IS NOT NULL ORDER BY property`,
			s.Tables.unitSnapshot()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetUnitTypesSummary(ctx context.Context) ([]models.UnitTypeSummary, error) {
	rows, err := s.Pool.Query(ctx, fmt.Sprintf(`
		SELECT COALESCE(unit_type, 'UNKNOWN'),
			COUNT(*),
			COALESCE(AVG(advertised_rent), 0),
			COALESCE(AVG(sqft), 0),
			COUNT(*) FILTER (WHERE status = 'VACANT'),
			COUNT(*) FILTER (WHERE needs_pricing)
		FROM %s
		GROUP BY unit_type
		ORDER BY unit_type`, s.Tables.unitSnapshot()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UnitTypeSummary
	for rows.Next() {
		var t models.UnitTypeSummary
		if err := rows.Scan(&t.UnitType, &t.UnitCount, &t.AvgRent, &t.AvgSqft,
			&t.VacantCount, &t.NeedsPricing); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetPortfolioAnalytics(ctx context.Context) (models.PortfolioAnalytics, error) {
	row := s.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'VACANT'),
			COUNT(*) FILTER (WHERE status = 'OCCUPIED'),
			COUNT(*) FILTER (WHERE status = 'NOTICE'),
			COUNT(*) FILTER (WHERE needs_pricing),
			COALESCE(SUM(advertised_rent * 12) FILTER (WHERE status = 'VACANT'), 0),
			COALESCE(SUM(advertised_rent * 12) FILTER (WHERE status = 'OCCUPIED'), 0),
			COALESCE(AVG(rent_per_sqft), 0)
		FROM %s`, s.Tables.unitSnapshot()))

	var a models.PortfolioAnalytics
	if err := row.Scan(&a.TotalUnits, &a.VacantUnits, &a.OccupiedUnits, &a.NoticeUnits,
		&a.UnitsNeedingPricing, &a.TotalRevenuePotential, &a.CurrentAnnualRevenue,
		&a.AvgRentPerSqft); err != nil {
		return models.PortfolioAnalytics{}, err
	}
	return a, nil
}
