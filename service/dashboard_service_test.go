package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shikayat/models"
	"shikayat/repository"
)

// preloadedLookups builds a lookup service with the test trees already
// cached, so no lookup queries hit the mock.
func preloadedLookups(t *testing.T) *LookupService {
	t.Helper()
	regions, err := NewRegionTree(testLocations())
	require.NoError(t, err)
	categories, err := NewCategoryTree(testCategories())
	require.NoError(t, err)
	return &LookupService{regions: regions, categories: categories}
}

func TestGetDashboardZonalAdmin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewDashboardService(repository.NewDashboardRepository(db), preloadedLookups(t))
	caller := models.Caller{
		UserID: 5, Role: models.RoleZonalAdmin,
		ProvinceID: ptr(1), DistrictID: ptr(10), TehsilID: ptr(100),
	}

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1), int64(10), int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "resolved", "important"}).AddRow(12, 7, 2))

	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	ticketRows := sqlmock.NewRows([]string{
		"complaint_id", "ticket_code", "citizen_id", "subject", "description",
		"sub_category_id", "province_id", "district_id", "tehsil_id", "attachment_path",
		"status", "priority", "is_important", "created_at",
		"resolved_at", "resolution_note", "resolution_attachment_path",
	}).
		AddRow(2, "SHK-2026-aaaa1111", 9, "Streetlight out", "dark corner", 10, 1, 10, 100, nil,
			"pending", "normal", true, created, nil, nil, nil).
		AddRow(1, "SHK-2026-bbbb2222", 8, "Garbage pileup", "overflowing bins", 10, 1, 10, 100, nil,
			"resolved", "normal", false, created.Add(-24*time.Hour), created, "cleared", nil)
	mock.ExpectQuery("SELECT c.complaint_id").
		WithArgs(int64(1), int64(10), int64(100)).
		WillReturnRows(ticketRows)

	result, err := svc.GetDashboard(caller, models.Navigation{})
	require.NoError(t, err)

	assert.Equal(t, models.ViewTickets, result.ViewLevel)
	assert.Equal(t, 12, result.Totals.Total)
	assert.Equal(t, 7, result.Totals.Resolved)
	assert.Equal(t, 5, result.Totals.Pending)
	assert.InDelta(t, 58.33, result.Totals.ResolutionRate, 0.001)
	assert.Equal(t, "Model Town Zone Complaints", result.Title)

	require.Len(t, result.Tickets, 2)
	assert.True(t, result.Tickets[0].IsImportant, "important tickets come first")
	assert.Equal(t, "Model Town", result.Tickets[0].TehsilName)
	assert.Equal(t, "Lahore", result.Tickets[0].DistrictName)
	assert.Equal(t, "Punjab", result.Tickets[0].ProvinceName)
	assert.Equal(t, "Garbage Collection", result.Tickets[0].CategoryName)
	assert.Nil(t, result.Regions)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDashboardSuperAdminDrillToProvince(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewDashboardService(repository.NewDashboardRepository(db), preloadedLookups(t))
	caller := models.Caller{UserID: 1, Role: models.RoleSuperAdmin}

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "resolved", "important"}).AddRow(30, 12, 4))

	mock.ExpectQuery("SELECT l.location_id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"location_id", "name", "total", "resolved", "important"}).
			AddRow(10, "Lahore", 20, 10, 3).
			AddRow(11, "Kasur", 10, 2, 1))

	result, err := svc.GetDashboard(caller, models.Navigation{ProvinceID: ptr(1)})
	require.NoError(t, err)

	assert.Equal(t, models.ViewDistricts, result.ViewLevel)
	assert.Equal(t, "Punjab Province Dashboard", result.Title)
	require.Len(t, result.Regions, 2)
	assert.Equal(t, "Lahore", result.Regions[0].Name)
	assert.Equal(t, 10, result.Regions[0].Pending)
	assert.InDelta(t, 50.0, result.Regions[0].ResolutionRate, 0.001)
	assert.InDelta(t, 20.0, result.Regions[1].ResolutionRate, 0.001)
	assert.Nil(t, result.Tickets)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDashboardEmptyScopeHasZeroRate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewDashboardService(repository.NewDashboardRepository(db), preloadedLookups(t))
	caller := models.Caller{UserID: 2, Role: models.RoleProvincialAdmin, ProvinceID: ptr(2)}

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "resolved", "important"}).AddRow(0, 0, 0))
	mock.ExpectQuery("SELECT l.location_id").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"location_id", "name", "total", "resolved", "important"}))

	result, err := svc.GetDashboard(caller, models.Navigation{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Totals.Total)
	assert.Equal(t, float64(0), result.Totals.ResolutionRate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDashboardCitizenForbidden(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewDashboardService(repository.NewDashboardRepository(db), preloadedLookups(t))
	_, err = svc.GetDashboard(models.Caller{UserID: 9, Role: models.RoleCitizen}, models.Navigation{})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestGetDashboardUnknownDepartmentRejected(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewDashboardService(repository.NewDashboardRepository(db), preloadedLookups(t))
	caller := models.Caller{UserID: 1, Role: models.RoleSuperAdmin}

	_, err = svc.GetDashboard(caller, models.Navigation{DepartmentID: ptr(9999)})
	assert.ErrorIs(t, err, models.ErrValidation)

	// A sub-category id is not a department either.
	_, err = svc.GetDashboard(caller, models.Navigation{DepartmentID: ptr(10)})
	assert.ErrorIs(t, err, models.ErrValidation)
}
