package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shikayat/models"
	"shikayat/notification"
	"shikayat/repository"
)

var complaintCols = []string{
	"complaint_id", "ticket_code", "citizen_id", "subject", "description",
	"sub_category_id", "province_id", "district_id", "tehsil_id", "attachment_path",
	"status", "priority", "is_important", "created_at",
	"resolved_at", "resolution_note", "resolution_attachment_path",
}

// captureSender records every email handed to it.
type captureSender struct {
	to      []string
	subject []string
	body    []string
}

func (c *captureSender) Send(_ context.Context, to, subject, body string) error {
	c.to = append(c.to, to)
	c.subject = append(c.subject, subject)
	c.body = append(c.body, body)
	return nil
}

func newComplaintService(t *testing.T) (*ComplaintService, sqlmock.Sqlmock) {
	svc, mock := newComplaintServiceWithSender(t, notification.NoopSender{})
	return svc, mock
}

func newComplaintServiceWithSender(t *testing.T, sender notification.Sender) (*ComplaintService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewComplaintService(
		repository.NewComplaintRepository(db),
		repository.NewUserRepository(db),
		preloadedLookups(t),
		sender,
		zerolog.Nop(),
		fixedNow,
	)
	return svc, mock
}

func expectUserLookup(mock sqlmock.Sqlmock, userID int64) {
	mock.ExpectQuery("SELECT user_id").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "email", "full_name", "role", "province_id", "district_id", "tehsil_id", "created_at",
		}).AddRow(userID, "citizen@example.com", "Test Citizen", "citizen", nil, nil, nil, fixedNow()))
}

func pendingComplaintRow() *sqlmock.Rows {
	return sqlmock.NewRows(complaintCols).AddRow(
		42, "SHK-2026-abcd1234", 9, "Garbage pileup", "overflowing bins",
		10, 1, 10, 100, nil,
		"pending", "normal", false, fixedNow().Add(-48*time.Hour),
		nil, nil, nil,
	)
}

func TestSubmitComplaint(t *testing.T) {
	svc, mock := newComplaintService(t)
	citizen := models.Caller{UserID: 9, Role: models.RoleCitizen}

	mock.ExpectExec("INSERT INTO complaints").
		WillReturnResult(sqlmock.NewResult(7, 1))
	expectUserLookup(mock, 9)

	complaint, err := svc.Submit(context.Background(), citizen, models.SubmitRecordRequest{
		Subject:       "  Broken streetlight  ",
		Description:   "Dark at night",
		SubCategoryID: 10,
		ProvinceID:    1,
		DistrictID:    10,
		TehsilID:      100,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), complaint.ID)
	assert.True(t, strings.HasPrefix(complaint.TicketCode, "SHK-2026-"), complaint.TicketCode)
	assert.Len(t, complaint.TicketCode, len("SHK-2026-")+8)
	assert.Equal(t, "Broken streetlight", complaint.Subject)
	assert.Equal(t, models.StatusPending, complaint.Status)
	assert.Equal(t, models.PriorityNormal, complaint.Priority)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitComplaintValidation(t *testing.T) {
	svc, _ := newComplaintService(t)
	citizen := models.Caller{UserID: 9, Role: models.RoleCitizen}
	valid := models.SubmitRecordRequest{
		Subject: "s", Description: "d", SubCategoryID: 10,
		ProvinceID: 1, DistrictID: 10, TehsilID: 100,
	}

	t.Run("staff cannot submit", func(t *testing.T) {
		admin := models.Caller{UserID: 1, Role: models.RoleSuperAdmin}
		_, err := svc.Submit(context.Background(), admin, valid)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("blank subject", func(t *testing.T) {
		req := valid
		req.Subject = "   "
		_, err := svc.Submit(context.Background(), citizen, req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("department id as sub-category", func(t *testing.T) {
		req := valid
		req.SubCategoryID = 1
		_, err := svc.Submit(context.Background(), citizen, req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("tehsil outside district", func(t *testing.T) {
		req := valid
		req.TehsilID = 110
		_, err := svc.Submit(context.Background(), citizen, req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestChangeStatusResolveCommitsAtomically(t *testing.T) {
	svc, mock := newComplaintService(t)
	admin := models.Caller{UserID: 2, Role: models.RoleProvincialAdmin, ProvinceID: ptr(1)}

	mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE complaints").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO complaint_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	expectUserLookup(mock, 9)

	note := "Crew dispatched and cleared"
	err := svc.ChangeStatus(context.Background(), admin, 42, models.ChangeStatusRequest{
		NewStatus: "resolved",
		Note:      &note,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStatusNotificationCarriesResolutionNote(t *testing.T) {
	t.Run("resolving includes the note", func(t *testing.T) {
		sender := &captureSender{}
		svc, mock := newComplaintServiceWithSender(t, sender)
		admin := models.Caller{UserID: 2, Role: models.RoleProvincialAdmin, ProvinceID: ptr(1)}

		mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE complaints").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO complaint_logs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
		expectUserLookup(mock, 9)

		note := "drain cleared by crew"
		err := svc.ChangeStatus(context.Background(), admin, 42, models.ChangeStatusRequest{
			NewStatus: "resolved",
			Note:      &note,
		})
		require.NoError(t, err)

		require.Len(t, sender.body, 1)
		assert.Equal(t, "citizen@example.com", sender.to[0])
		assert.Contains(t, sender.body[0], `is now "resolved"`)
		assert.Contains(t, sender.body[0], "Resolution Note: drain cleared by crew")
	})

	t.Run("other transitions carry no note line", func(t *testing.T) {
		sender := &captureSender{}
		svc, mock := newComplaintServiceWithSender(t, sender)
		admin := models.Caller{UserID: 2, Role: models.RoleProvincialAdmin, ProvinceID: ptr(1)}

		mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE complaints").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO complaint_logs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
		expectUserLookup(mock, 9)

		err := svc.ChangeStatus(context.Background(), admin, 42, models.ChangeStatusRequest{
			NewStatus: "in_progress",
		})
		require.NoError(t, err)

		require.Len(t, sender.body, 1)
		assert.NotContains(t, sender.body[0], "Resolution Note")
	})
}

func TestChangeStatusRollsBackWhenLogFails(t *testing.T) {
	svc, mock := newComplaintService(t)
	admin := models.Caller{UserID: 2, Role: models.RoleProvincialAdmin, ProvinceID: ptr(1)}

	mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE complaints").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO complaint_logs").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := svc.ChangeStatus(context.Background(), admin, 42, models.ChangeStatusRequest{
		NewStatus: "in_progress",
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStatusResolveRequiresNote(t *testing.T) {
	svc, mock := newComplaintService(t)
	admin := models.Caller{UserID: 2, Role: models.RoleProvincialAdmin, ProvinceID: ptr(1)}

	mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())

	blank := "   "
	err := svc.ChangeStatus(context.Background(), admin, 42, models.ChangeStatusRequest{
		NewStatus: "resolved",
		Note:      &blank,
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestChangeStatusOutsideJurisdiction(t *testing.T) {
	svc, mock := newComplaintService(t)
	// Bound to Sindh; the fixture complaint lives in Punjab.
	admin := models.Caller{UserID: 3, Role: models.RoleProvincialAdmin, ProvinceID: ptr(2)}

	mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())

	err := svc.ChangeStatus(context.Background(), admin, 42, models.ChangeStatusRequest{NewStatus: "in_progress"})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestChangeStatusUnknownStatus(t *testing.T) {
	svc, mock := newComplaintService(t)
	admin := models.Caller{UserID: 2, Role: models.RoleProvincialAdmin, ProvinceID: ptr(1)}

	mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())

	err := svc.ChangeStatus(context.Background(), admin, 42, models.ChangeStatusRequest{NewStatus: "closed"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSetImportance(t *testing.T) {
	t.Run("zonal admin lacks the capability", func(t *testing.T) {
		svc, _ := newComplaintService(t)
		zonal := models.Caller{
			UserID: 5, Role: models.RoleZonalAdmin,
			ProvinceID: ptr(1), DistrictID: ptr(10), TehsilID: ptr(100),
		}
		err := svc.SetImportance(zonal, 42, true)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("district admin flags a record", func(t *testing.T) {
		svc, mock := newComplaintService(t)
		admin := models.Caller{UserID: 4, Role: models.RoleDistrictAdmin, ProvinceID: ptr(1), DistrictID: ptr(10)}

		mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())
		mock.ExpectExec("UPDATE complaints SET is_important").
			WithArgs(true, int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, svc.SetImportance(admin, 42, true))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAddComment(t *testing.T) {
	t.Run("owner writes a public comment", func(t *testing.T) {
		svc, mock := newComplaintService(t)
		owner := models.Caller{UserID: 9, Role: models.RoleCitizen}

		mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())
		mock.ExpectExec("INSERT INTO complaint_logs").
			WillReturnResult(sqlmock.NewResult(5, 1))

		entry, err := svc.AddComment(owner, 42, models.AddCommentRequest{Message: "Any update?"})
		require.NoError(t, err)
		assert.Equal(t, models.LogPublic, entry.Type)
		assert.Equal(t, "Any update?", entry.Message)
	})

	t.Run("non-owner citizen rejected", func(t *testing.T) {
		svc, mock := newComplaintService(t)
		stranger := models.Caller{UserID: 99, Role: models.RoleCitizen}

		mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())

		_, err := svc.AddComment(stranger, 42, models.AddCommentRequest{Message: "hello"})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("citizen cannot write internal notes", func(t *testing.T) {
		svc, mock := newComplaintService(t)
		owner := models.Caller{UserID: 9, Role: models.RoleCitizen}

		mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())

		_, err := svc.AddComment(owner, 42, models.AddCommentRequest{Message: "note", Internal: true})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("senior staff public comment gets the override prefix", func(t *testing.T) {
		svc, mock := newComplaintService(t)
		admin := models.Caller{UserID: 2, Role: models.RoleProvincialAdmin, ProvinceID: ptr(1)}

		mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())
		mock.ExpectExec("INSERT INTO complaint_logs").
			WillReturnResult(sqlmock.NewResult(6, 1))

		entry, err := svc.AddComment(admin, 42, models.AddCommentRequest{Message: "Escalating this"})
		require.NoError(t, err)
		assert.Equal(t, "[Override] Escalating this", entry.Message)
		assert.Equal(t, models.LogPublic, entry.Type)
	})

	t.Run("staff internal note keeps its text", func(t *testing.T) {
		svc, mock := newComplaintService(t)
		admin := models.Caller{UserID: 2, Role: models.RoleProvincialAdmin, ProvinceID: ptr(1)}

		mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())
		mock.ExpectExec("INSERT INTO complaint_logs").
			WillReturnResult(sqlmock.NewResult(7, 1))

		entry, err := svc.AddComment(admin, 42, models.AddCommentRequest{Message: "crew backlog", Internal: true})
		require.NoError(t, err)
		assert.Equal(t, models.LogInternalNote, entry.Type)
		assert.Equal(t, "crew backlog", entry.Message)
	})
}

func TestGetComplaintFiltersInternalNotesForCitizens(t *testing.T) {
	svc, mock := newComplaintService(t)
	owner := models.Caller{UserID: 9, Role: models.RoleCitizen}

	mock.ExpectQuery("SELECT").WithArgs(int64(42)).WillReturnRows(pendingComplaintRow())
	mock.ExpectQuery("SELECT log_id").WithArgs(int64(42)).WillReturnRows(
		sqlmock.NewRows([]string{"log_id", "complaint_id", "suggestion_id", "sender_id", "message", "log_type", "created_at"}).
			AddRow(1, 42, nil, 9, "Any update?", "public", fixedNow()).
			AddRow(2, 42, nil, 2, "crew backlog", "internal_note", fixedNow()).
			AddRow(3, 42, nil, 2, "Status updated to in_progress", "status_change", fixedNow()),
	)

	detail, err := svc.Get(owner, 42)
	require.NoError(t, err)
	require.Len(t, detail.Logs, 2, "internal notes hidden from citizens")
	for _, l := range detail.Logs {
		assert.NotEqual(t, models.LogInternalNote, l.Type)
	}
}
