package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shikayat/models"
	"shikayat/notification"
	"shikayat/repository"
)

func newSuggestionService(t *testing.T) (*SuggestionService, sqlmock.Sqlmock) {
	svc, mock := newSuggestionServiceWithSender(t, notification.NoopSender{})
	return svc, mock
}

func newSuggestionServiceWithSender(t *testing.T, sender notification.Sender) (*SuggestionService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewSuggestionService(
		repository.NewSuggestionRepository(db),
		repository.NewUserRepository(db),
		preloadedLookups(t),
		sender,
		zerolog.Nop(),
		fixedNow,
	)
	return svc, mock
}

func suggestionRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"suggestion_id", "ticket_code", "citizen_id", "subject", "description",
		"sub_category_id", "province_id", "district_id", "tehsil_id", "attachment_path",
		"status", "priority", "is_important", "created_at",
		"resolved_at", "resolution_note", "resolution_attachment_path",
	}).AddRow(
		7, "SHK-2026-ffff0000", 9, "Park benches", "more seating",
		10, 1, 10, 100, nil,
		"pending", "normal", false, fixedNow(),
		nil, nil, nil,
	)
}

func TestListSuggestionsByScope(t *testing.T) {
	svc, mock := newSuggestionService(t)
	admin := models.Caller{UserID: 4, Role: models.RoleDistrictAdmin, ProvinceID: ptr(1), DistrictID: ptr(10)}

	mock.ExpectQuery("SELECT c.suggestion_id").
		WithArgs(int64(1), int64(10)).
		WillReturnRows(suggestionRow())

	suggestions, err := svc.ListByScope(admin, models.Navigation{})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Park benches", suggestions[0].Subject)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSuggestionsByScopeRejectsCitizen(t *testing.T) {
	svc, _ := newSuggestionService(t)
	_, err := svc.ListByScope(models.Caller{UserID: 9, Role: models.RoleCitizen}, models.Navigation{})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestSuggestionCommentLandsOnSuggestionThread(t *testing.T) {
	svc, mock := newSuggestionService(t)
	owner := models.Caller{UserID: 9, Role: models.RoleCitizen}

	mock.ExpectQuery("SELECT").WithArgs(int64(7)).WillReturnRows(suggestionRow())
	mock.ExpectExec("INSERT INTO complaint_logs").
		WillReturnResult(sqlmock.NewResult(3, 1))

	entry, err := svc.AddComment(owner, 7, models.AddCommentRequest{Message: "please consider"})
	require.NoError(t, err)
	require.True(t, entry.SuggestionID.Valid)
	assert.Equal(t, int64(7), entry.SuggestionID.Int64)
	assert.False(t, entry.ComplaintID.Valid)
}

func TestSuggestionResolvedNotificationCarriesNote(t *testing.T) {
	sender := &captureSender{}
	svc, mock := newSuggestionServiceWithSender(t, sender)
	admin := models.Caller{UserID: 2, Role: models.RoleProvincialAdmin, ProvinceID: ptr(1)}

	mock.ExpectQuery("SELECT").WithArgs(int64(7)).WillReturnRows(suggestionRow())
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE suggestions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO complaint_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	expectUserLookup(mock, 9)

	note := "benches installed at the main gate"
	err := svc.ChangeStatus(context.Background(), admin, 7, models.ChangeStatusRequest{
		NewStatus: "resolved",
		Note:      &note,
	})
	require.NoError(t, err)

	require.Len(t, sender.body, 1)
	assert.Contains(t, sender.body[0], "Resolution Note: benches installed at the main gate")
}

func TestSuggestionStatusChangeOutsideJurisdiction(t *testing.T) {
	svc, mock := newSuggestionService(t)
	admin := models.Caller{UserID: 3, Role: models.RoleProvincialAdmin, ProvinceID: ptr(2)}

	mock.ExpectQuery("SELECT").WithArgs(int64(7)).WillReturnRows(suggestionRow())

	err := svc.ChangeStatus(context.Background(), admin, 7, models.ChangeStatusRequest{NewStatus: "in_progress"})
	assert.ErrorIs(t, err, models.ErrForbidden)
}
