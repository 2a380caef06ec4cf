package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shikayat/models"
)

func ptr(v int64) *int64 { return &v }

func TestScopeConditions(t *testing.T) {
	t.Run("empty scope has no filter", func(t *testing.T) {
		where, args := scopeConditions(models.EffectiveScope{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("all fields combine with AND", func(t *testing.T) {
		where, args := scopeConditions(models.EffectiveScope{
			ProvinceID:   ptr(1),
			DistrictID:   ptr(10),
			TehsilID:     ptr(100),
			DepartmentID: ptr(3),
		})
		assert.Equal(t, " WHERE c.province_id = ? AND c.district_id = ? AND c.tehsil_id = ? AND sc.parent_id = ?", where)
		assert.Equal(t, []interface{}{int64(1), int64(10), int64(100), int64(3)}, args)
	})

	t.Run("department filter alone", func(t *testing.T) {
		where, args := scopeConditions(models.EffectiveScope{DepartmentID: ptr(3)})
		assert.Equal(t, " WHERE sc.parent_id = ?", where)
		assert.Equal(t, []interface{}{int64(3)}, args)
	})
}

func TestAndCondition(t *testing.T) {
	assert.Equal(t, " WHERE c.status = 'resolved'", andCondition("", "c.status = 'resolved'"))
	assert.Equal(t, " WHERE c.province_id = ? AND c.status = 'resolved'",
		andCondition(" WHERE c.province_id = ?", "c.status = 'resolved'"))
}

func TestRegionGroupColumn(t *testing.T) {
	col, err := regionGroupColumn(models.ViewProvinces)
	require.NoError(t, err)
	assert.Equal(t, "c.province_id", col)

	col, err = regionGroupColumn(models.ViewTehsils)
	require.NoError(t, err)
	assert.Equal(t, "c.tehsil_id", col)

	_, err = regionGroupColumn(models.ViewTickets)
	assert.Error(t, err)
}

func TestGetTicketsOrdering(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewDashboardRepository(db)

	// The importance-then-recency ordering must be part of the statement.
	mock.ExpectQuery(`ORDER BY c\.is_important DESC, c\.created_at DESC`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{
			"complaint_id", "ticket_code", "citizen_id", "subject", "description",
			"sub_category_id", "province_id", "district_id", "tehsil_id", "attachment_path",
			"status", "priority", "is_important", "created_at",
			"resolved_at", "resolution_note", "resolution_attachment_path",
		}))

	_, err = repo.GetTickets(models.EffectiveScope{TehsilID: ptr(100)})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTotalsSinglePass(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewDashboardRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "resolved", "important"}).AddRow(30, 12, 4))

	totals, err := repo.GetTotals(models.EffectiveScope{ProvinceID: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, 30, totals.Total)
	assert.Equal(t, 12, totals.Resolved)
	assert.Equal(t, 4, totals.Important)
	// Pending and the rate are derived downstream.
	assert.Zero(t, totals.Pending)
	assert.Zero(t, totals.ResolutionRate)
}
