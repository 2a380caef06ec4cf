package repository

import (
	"database/sql"
	"fmt"
	"time"

	"shikayat/models"
)

// AnalyticsRepository executes the grouped queries behind the analytics
// report. All methods are read-only and degrade to empty results on an empty
// filtered set; they never invent zero-filled buckets.
type AnalyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// GetTotals mirrors the dashboard headline counters for the report header.
func (r *AnalyticsRepository) GetTotals(scope models.EffectiveScope) (models.Totals, error) {
	where, args := scopeConditions(scope)
	query := `SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN c.status = 'resolved' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN c.is_important THEN 1 ELSE 0 END), 0)` +
		complaintBase + where

	var t models.Totals
	if err := r.db.QueryRow(query, args...).Scan(&t.Total, &t.Resolved, &t.Important); err != nil {
		return models.Totals{}, fmt.Errorf("failed to compute totals: %w", err)
	}
	return t, nil
}

// StatusDistribution counts complaints per status. Absent statuses are
// omitted from the map, not zero-filled.
func (r *AnalyticsRepository) StatusDistribution(scope models.EffectiveScope) (map[string]int, error) {
	return r.distribution(scope, "c.status")
}

// PriorityDistribution counts complaints per priority.
func (r *AnalyticsRepository) PriorityDistribution(scope models.EffectiveScope) (map[string]int, error) {
	return r.distribution(scope, "c.priority")
}

func (r *AnalyticsRepository) distribution(scope models.EffectiveScope, column string) (map[string]int, error) {
	where, args := scopeConditions(scope)
	query := `SELECT ` + column + `, COUNT(*)` + complaintBase + where +
		` GROUP BY ` + column

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		dist[key] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distribution: %w", err)
	}
	return dist, nil
}

// AverageResolutionDays is the mean of (resolved_at - created_at) in days
// over resolved records only; 0 when none are resolved.
func (r *AnalyticsRepository) AverageResolutionDays(scope models.EffectiveScope) (float64, error) {
	where, args := scopeConditions(scope)
	where = andCondition(where, "c.status = 'resolved' AND c.resolved_at IS NOT NULL")
	query := `SELECT COALESCE(AVG(TIMESTAMPDIFF(SECOND, c.created_at, c.resolved_at)), 0) / 86400.0` +
		complaintBase + where

	var days float64
	if err := r.db.QueryRow(query, args...).Scan(&days); err != nil {
		return 0, fmt.Errorf("failed to compute average resolution time: %w", err)
	}
	return days, nil
}

// TopRegions ranks regions at the given level by total complaint count,
// descending, ties broken by ascending region id.
func (r *AnalyticsRepository) TopRegions(scope models.EffectiveScope, level models.ViewLevel, limit int) ([]models.RegionStat, error) {
	column, err := regionGroupColumn(level)
	if err != nil {
		return nil, err
	}
	where, args := scopeConditions(scope)
	query := `SELECT l.location_id, l.name, COUNT(*),
		COALESCE(SUM(CASE WHEN c.status = 'resolved' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN c.is_important THEN 1 ELSE 0 END), 0)` +
		complaintBase + `
	JOIN locations l ON l.location_id = ` + column + where + `
	GROUP BY l.location_id, l.name
	ORDER BY COUNT(*) DESC, l.location_id ASC
	LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top regions: %w", err)
	}
	defer rows.Close()

	var stats []models.RegionStat
	for rows.Next() {
		var s models.RegionStat
		if err := rows.Scan(&s.ID, &s.Name, &s.Total, &s.Resolved, &s.Important); err != nil {
			return nil, fmt.Errorf("failed to scan region ranking: %w", err)
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating region rankings: %w", err)
	}
	return stats, nil
}

// DepartmentStats rolls complaints up to the parent category. Complaints
// whose sub-category has no parent are excluded (they are departments used
// directly, which reference data forbids).
func (r *AnalyticsRepository) DepartmentStats(scope models.EffectiveScope, limit int) ([]models.DepartmentStat, error) {
	where, args := scopeConditions(scope)
	query := `SELECT d.category_id, d.name, COUNT(*),
		COALESCE(SUM(CASE WHEN c.status = 'resolved' THEN 1 ELSE 0 END), 0)
	FROM complaints c
	JOIN categories sc ON sc.category_id = c.sub_category_id
	JOIN categories d ON d.category_id = sc.parent_id` + where + `
	GROUP BY d.category_id, d.name
	ORDER BY COUNT(*) DESC, d.category_id ASC
	LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query department stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DepartmentStat
	for rows.Next() {
		var s models.DepartmentStat
		if err := rows.Scan(&s.ID, &s.Name, &s.Total, &s.Resolved); err != nil {
			return nil, fmt.Errorf("failed to scan department stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating department stats: %w", err)
	}
	return stats, nil
}

// CategoryStats rolls complaints up per sub-category with the owning
// department's name for labeling.
func (r *AnalyticsRepository) CategoryStats(scope models.EffectiveScope, limit int) ([]models.CategoryStat, error) {
	where, args := scopeConditions(scope)
	query := `SELECT sc.category_id, sc.name, COALESCE(d.name, ''), COUNT(*),
		COALESCE(SUM(CASE WHEN c.status = 'resolved' THEN 1 ELSE 0 END), 0)
	FROM complaints c
	JOIN categories sc ON sc.category_id = c.sub_category_id
	LEFT JOIN categories d ON d.category_id = sc.parent_id` + where + `
	GROUP BY sc.category_id, sc.name, d.name
	ORDER BY COUNT(*) DESC, sc.category_id ASC
	LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category stats: %w", err)
	}
	defer rows.Close()

	var stats []models.CategoryStat
	for rows.Next() {
		var s models.CategoryStat
		if err := rows.Scan(&s.ID, &s.Name, &s.DepartmentName, &s.Total, &s.Resolved); err != nil {
			return nil, fmt.Errorf("failed to scan category stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category stats: %w", err)
	}
	return stats, nil
}

// MonthlySeries buckets complaints created since the given instant by
// (year, month), chronologically ascending. Months without complaints
// produce no row.
func (r *AnalyticsRepository) MonthlySeries(scope models.EffectiveScope, since time.Time) ([]models.TimeSeriesPoint, error) {
	where, args := scopeConditions(scope)
	where = andCondition(where, "c.created_at >= ?")
	args = append(args, since)
	query := `SELECT YEAR(c.created_at), MONTH(c.created_at), COUNT(*),
		COALESCE(SUM(CASE WHEN c.status = 'resolved' THEN 1 ELSE 0 END), 0)` +
		complaintBase + where + `
	GROUP BY YEAR(c.created_at), MONTH(c.created_at)
	ORDER BY YEAR(c.created_at) ASC, MONTH(c.created_at) ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly series: %w", err)
	}
	defer rows.Close()

	var points []models.TimeSeriesPoint
	for rows.Next() {
		var p models.TimeSeriesPoint
		if err := rows.Scan(&p.Year, &p.Month, &p.Total, &p.Resolved); err != nil {
			return nil, fmt.Errorf("failed to scan monthly bucket: %w", err)
		}
		points = append(points, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly series: %w", err)
	}
	return points, nil
}

// HourCount is one hour-of-day bucket (0–23).
type HourCount struct {
	Hour  int
	Count int
}

// TopHours returns the busiest submission hours, count descending, hour
// ascending on ties.
func (r *AnalyticsRepository) TopHours(scope models.EffectiveScope, limit int) ([]HourCount, error) {
	where, args := scopeConditions(scope)
	query := `SELECT HOUR(c.created_at), COUNT(*)` + complaintBase + where + `
	GROUP BY HOUR(c.created_at)
	ORDER BY COUNT(*) DESC, HOUR(c.created_at) ASC
	LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query peak hours: %w", err)
	}
	defer rows.Close()

	var counts []HourCount
	for rows.Next() {
		var h HourCount
		if err := rows.Scan(&h.Hour, &h.Count); err != nil {
			return nil, fmt.Errorf("failed to scan hour bucket: %w", err)
		}
		counts = append(counts, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating peak hours: %w", err)
	}
	return counts, nil
}

// DayCount is one day-of-week bucket. Weekday follows MySQL DAYOFWEEK:
// 1 = Sunday … 7 = Saturday.
type DayCount struct {
	Weekday int
	Count   int
}

// DayOfWeekCounts returns every observed day-of-week bucket, count
// descending, weekday ascending on ties.
func (r *AnalyticsRepository) DayOfWeekCounts(scope models.EffectiveScope) ([]DayCount, error) {
	where, args := scopeConditions(scope)
	query := `SELECT DAYOFWEEK(c.created_at), COUNT(*)` + complaintBase + where + `
	GROUP BY DAYOFWEEK(c.created_at)
	ORDER BY COUNT(*) DESC, DAYOFWEEK(c.created_at) ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query peak days: %w", err)
	}
	defer rows.Close()

	var counts []DayCount
	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.Weekday, &d.Count); err != nil {
			return nil, fmt.Errorf("failed to scan day bucket: %w", err)
		}
		counts = append(counts, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating peak days: %w", err)
	}
	return counts, nil
}
