package service

import (
	"fmt"
	"time"

	"shikayat/models"
	"shikayat/repository"
)

// Ranking sizes per level, matching the dashboard's drill depth: broader
// levels get shorter lists.
const (
	topProvincesLimit   = 10
	topDistrictsLimit   = 15
	topTehsilsLimit     = 20
	topTehsilsDistrict  = 15
	topDepartmentsLimit = 10
	topCategoriesLimit  = 15
	peakHoursLimit      = 5
)

// dayNames labels day-of-week buckets; the grouping key is the calendar
// day-of-week (1 = Sunday … 7 = Saturday), names are labels only.
var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// AnalyticsService computes the multi-dimensional report for the caller's
// own jurisdiction level. Unlike the dashboard it is role-driven, not
// drill-driven: no navigation input, the binding alone sets the scope.
type AnalyticsService struct {
	repo    *repository.AnalyticsRepository
	lookups *LookupService
	now     func() time.Time
}

// NewAnalyticsService creates a new analytics service. now is the injected
// clock (UTC) used for the trailing-12-month window.
func NewAnalyticsService(repo *repository.AnalyticsRepository, lookups *LookupService, now func() time.Time) *AnalyticsService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &AnalyticsService{repo: repo, lookups: lookups, now: now}
}

// GetAnalytics builds the full report. Every rate and percentage degrades to
// 0 on an empty filtered set; the computation never fails for lack of data.
func (s *AnalyticsService) GetAnalytics(caller models.Caller) (*models.AnalyticsReport, error) {
	if !caller.Role.Can().ViewAnalytics {
		return nil, fmt.Errorf("%w: role %q cannot view analytics", models.ErrForbidden, caller.Role)
	}
	regions, err := s.lookups.Regions()
	if err != nil {
		return nil, err
	}

	// Role-driven scope: the caller's own binding, no drill-down.
	scope, err := ResolveScope(caller, models.Navigation{}, regions)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.GetTotals(scope)
	if err != nil {
		return nil, err
	}
	totals.Pending = totals.Total - totals.Resolved
	totals.ResolutionRate = rate(totals.Resolved, totals.Total)

	report := &models.AnalyticsReport{
		Title:  analyticsTitle(scope, regions),
		Role:   caller.Role,
		Totals: totals,
	}

	avgDays, err := s.repo.AverageResolutionDays(scope)
	if err != nil {
		return nil, err
	}
	report.AverageResolutionDays = round2(avgDays)

	if report.StatusDistribution, err = s.repo.StatusDistribution(scope); err != nil {
		return nil, err
	}
	if report.PriorityDistribution, err = s.repo.PriorityDistribution(scope); err != nil {
		return nil, err
	}

	if err := s.fillRankings(report, caller, scope); err != nil {
		return nil, err
	}

	departments, err := s.repo.DepartmentStats(scope, topDepartmentsLimit)
	if err != nil {
		return nil, err
	}
	for i := range departments {
		departments[i].ResolutionRate = rate(departments[i].Resolved, departments[i].Total)
		departments[i].PercentageOfTotal = rate(departments[i].Total, totals.Total)
	}
	report.TopDepartments = departments

	categories, err := s.repo.CategoryStats(scope, topCategoriesLimit)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].ResolutionRate = rate(categories[i].Resolved, categories[i].Total)
		categories[i].PercentageOfTotal = rate(categories[i].Total, totals.Total)
	}
	report.TopCategories = categories

	since := s.now().AddDate(0, -12, 0)
	months, err := s.repo.MonthlySeries(scope, since)
	if err != nil {
		return nil, err
	}
	for i := range months {
		months[i].Pending = months[i].Total - months[i].Resolved
		months[i].ResolutionRate = rate(months[i].Resolved, months[i].Total)
		months[i].Period = time.Date(months[i].Year, time.Month(months[i].Month), 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
	}
	report.ComplaintsByMonth = months

	hours, err := s.repo.TopHours(scope, peakHoursLimit)
	if err != nil {
		return nil, err
	}
	report.PeakHours = make([]models.PeakPeriod, 0, len(hours))
	for _, h := range hours {
		report.PeakHours = append(report.PeakHours, models.PeakPeriod{
			Period:     fmt.Sprintf("%02d:00", h.Hour),
			Count:      h.Count,
			Percentage: rate(h.Count, totals.Total),
		})
	}

	days, err := s.repo.DayOfWeekCounts(scope)
	if err != nil {
		return nil, err
	}
	report.PeakDays = make([]models.PeakPeriod, 0, len(days))
	for _, d := range days {
		label := ""
		if d.Weekday >= 1 && d.Weekday <= 7 {
			label = dayNames[d.Weekday-1]
		}
		report.PeakDays = append(report.PeakDays, models.PeakPeriod{
			Period:     label,
			Count:      d.Count,
			Percentage: rate(d.Count, totals.Total),
		})
	}

	return report, nil
}

// fillRankings picks the ranking breadth for the caller's level: national
// callers see provinces and districts, provincial callers districts and
// tehsils, district callers their tehsils. A zonal admin has a single zone,
// so no ranking applies.
func (s *AnalyticsService) fillRankings(report *models.AnalyticsReport, caller models.Caller, scope models.EffectiveScope) error {
	annotate := func(stats []models.RegionStat) []models.RegionStat {
		for i := range stats {
			stats[i].Pending = stats[i].Total - stats[i].Resolved
			stats[i].ResolutionRate = rate(stats[i].Resolved, stats[i].Total)
		}
		return stats
	}

	switch caller.Role {
	case models.RoleSuperAdmin:
		provinces, err := s.repo.TopRegions(scope, models.ViewProvinces, topProvincesLimit)
		if err != nil {
			return err
		}
		report.TopProvinces = annotate(provinces)
		districts, err := s.repo.TopRegions(scope, models.ViewDistricts, topDistrictsLimit)
		if err != nil {
			return err
		}
		report.TopDistricts = annotate(districts)

	case models.RoleProvincialAdmin:
		districts, err := s.repo.TopRegions(scope, models.ViewDistricts, topDistrictsLimit)
		if err != nil {
			return err
		}
		report.TopDistricts = annotate(districts)
		tehsils, err := s.repo.TopRegions(scope, models.ViewTehsils, topTehsilsLimit)
		if err != nil {
			return err
		}
		report.TopTehsils = annotate(tehsils)

	case models.RoleDistrictAdmin:
		tehsils, err := s.repo.TopRegions(scope, models.ViewTehsils, topTehsilsDistrict)
		if err != nil {
			return err
		}
		report.TopTehsils = annotate(tehsils)
	}
	return nil
}

func analyticsTitle(scope models.EffectiveScope, regions *RegionTree) string {
	switch {
	case scope.TehsilID != nil:
		if name := regions.Name(*scope.TehsilID); name != "" {
			return "Analytics - " + name
		}
		return "Analytics - Zone"
	case scope.DistrictID != nil:
		if name := regions.Name(*scope.DistrictID); name != "" {
			return "Analytics - " + name
		}
		return "Analytics - District"
	case scope.ProvinceID != nil:
		if name := regions.Name(*scope.ProvinceID); name != "" {
			return "Analytics - " + name
		}
		return "Analytics - Province"
	default:
		return "Analytics - National Overview"
	}
}
