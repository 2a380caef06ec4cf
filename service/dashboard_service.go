package service

import (
	"fmt"

	"shikayat/models"
	"shikayat/repository"
)

// DashboardService drives the scope → view level → aggregation pipeline
// behind the staff dashboard.
type DashboardService struct {
	repo    *repository.DashboardRepository
	lookups *LookupService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repo *repository.DashboardRepository, lookups *LookupService) *DashboardService {
	return &DashboardService{repo: repo, lookups: lookups}
}

// GetDashboard resolves the caller's effective scope, picks a view level and
// computes the aggregates. Headline totals always cover the full filtered
// set, whichever breakdown is rendered.
func (s *DashboardService) GetDashboard(caller models.Caller, nav models.Navigation) (*models.DashboardResult, error) {
	if !caller.Role.Can().ViewDashboard {
		return nil, fmt.Errorf("%w: role %q cannot view the dashboard", models.ErrForbidden, caller.Role)
	}
	regions, err := s.lookups.Regions()
	if err != nil {
		return nil, err
	}
	categories, err := s.lookups.Categories()
	if err != nil {
		return nil, err
	}

	scope, err := ResolveScope(caller, nav, regions)
	if err != nil {
		return nil, err
	}
	if scope.DepartmentID != nil && !categories.IsDepartment(*scope.DepartmentID) {
		return nil, fmt.Errorf("%w: department %d unknown", models.ErrValidation, *scope.DepartmentID)
	}
	level := SelectViewLevel(scope)

	totals, err := s.repo.GetTotals(scope)
	if err != nil {
		return nil, err
	}
	totals.Pending = totals.Total - totals.Resolved
	totals.ResolutionRate = rate(totals.Resolved, totals.Total)

	result := &models.DashboardResult{
		Title:     dashboardTitle(scope, regions),
		Role:      caller.Role,
		ViewLevel: level,
		Totals:    totals,
	}

	if level == models.ViewTickets {
		tickets, err := s.repo.GetTickets(scope)
		if err != nil {
			return nil, err
		}
		result.Tickets = make([]models.TicketRecord, 0, len(tickets))
		for _, c := range tickets {
			result.Tickets = append(result.Tickets, models.TicketRecord{
				Complaint:    c,
				ProvinceName: regions.Name(c.ProvinceID),
				DistrictName: regions.Name(c.DistrictID),
				TehsilName:   regions.Name(c.TehsilID),
				CategoryName: categories.Name(c.SubCategoryID),
			})
		}
		return result, nil
	}

	stats, err := s.repo.GetRegionStats(scope, level)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].Pending = stats[i].Total - stats[i].Resolved
		stats[i].ResolutionRate = rate(stats[i].Resolved, stats[i].Total)
	}
	result.Regions = stats
	return result, nil
}

// dashboardTitle labels the page after the most specific region in scope.
func dashboardTitle(scope models.EffectiveScope, regions *RegionTree) string {
	switch {
	case scope.TehsilID != nil:
		if name := regions.Name(*scope.TehsilID); name != "" {
			return name + " Zone Complaints"
		}
		return "Complaints List"
	case scope.DistrictID != nil:
		if name := regions.Name(*scope.DistrictID); name != "" {
			return name + " District Dashboard"
		}
		return "District Overview"
	case scope.ProvinceID != nil:
		if name := regions.Name(*scope.ProvinceID); name != "" {
			return name + " Province Dashboard"
		}
		return "Province Overview"
	default:
		return "National Overview"
	}
}
