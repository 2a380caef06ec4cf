package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"shikayat/models"
)

// complaintBase joins categories so the orthogonal department filter can be
// applied in the same WHERE clause as the jurisdiction filter.
const complaintBase = ` FROM complaints c
	LEFT JOIN categories sc ON sc.category_id = c.sub_category_id`

// scopeConditions turns an effective scope into SQL. All region ids are
// filtered on the denormalized complaint columns; the department filter goes
// through the joined sub-category's parent.
func scopeConditions(scope models.EffectiveScope) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if scope.ProvinceID != nil {
		clauses = append(clauses, "c.province_id = ?")
		args = append(args, *scope.ProvinceID)
	}
	if scope.DistrictID != nil {
		clauses = append(clauses, "c.district_id = ?")
		args = append(args, *scope.DistrictID)
	}
	if scope.TehsilID != nil {
		clauses = append(clauses, "c.tehsil_id = ?")
		args = append(args, *scope.TehsilID)
	}
	if scope.DepartmentID != nil {
		clauses = append(clauses, "sc.parent_id = ?")
		args = append(args, *scope.DepartmentID)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// andCondition appends an extra predicate to a (possibly empty) WHERE clause.
func andCondition(where, extra string) string {
	if where == "" {
		return " WHERE " + extra
	}
	return where + " AND " + extra
}

// regionGroupColumn maps a region view level to the complaint column it
// groups by.
func regionGroupColumn(level models.ViewLevel) (string, error) {
	switch level {
	case models.ViewProvinces:
		return "c.province_id", nil
	case models.ViewDistricts:
		return "c.district_id", nil
	case models.ViewTehsils:
		return "c.tehsil_id", nil
	}
	return "", fmt.Errorf("level %q does not group by region", level)
}

// DashboardRepository executes the grouped counts behind the dashboard.
type DashboardRepository struct {
	db *sql.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// GetTotals computes the headline counters over the full scope-filtered set
// in a single pass. Pending and the resolution rate are derived by the
// service (pending = total - resolved).
func (r *DashboardRepository) GetTotals(scope models.EffectiveScope) (models.Totals, error) {
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

// GetRegionStats rolls complaints up to the given region level. Rows come
// back ordered by total descending, region id ascending (the deterministic
// tie-break used everywhere).
func (r *DashboardRepository) GetRegionStats(scope models.EffectiveScope, level models.ViewLevel) ([]models.RegionStat, error) {
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
	ORDER BY COUNT(*) DESC, l.location_id ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query region stats: %w", err)
	}
	defer rows.Close()

	var stats []models.RegionStat
	for rows.Next() {
		var s models.RegionStat
		if err := rows.Scan(&s.ID, &s.Name, &s.Total, &s.Resolved, &s.Important); err != nil {
			return nil, fmt.Errorf("failed to scan region stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating region stats: %w", err)
	}
	return stats, nil
}

// GetTickets lists leaf records for the Tickets view. The ordering
// (importance flag descending, then creation time descending) is part of the
// dashboard contract, not an incidental default.
func (r *DashboardRepository) GetTickets(scope models.EffectiveScope) ([]models.Complaint, error) {
	where, args := scopeConditions(scope)
	query := `SELECT c.complaint_id, c.ticket_code, c.citizen_id, c.subject, c.description,
		c.sub_category_id, c.province_id, c.district_id, c.tehsil_id, c.attachment_path,
		c.status, c.priority, c.is_important, c.created_at,
		c.resolved_at, c.resolution_note, c.resolution_attachment_path` +
		complaintBase + where + `
	ORDER BY c.is_important DESC, c.created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.Complaint
	for rows.Next() {
		var c models.Complaint
		if err := scanComplaint(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}
	return tickets, nil
}
