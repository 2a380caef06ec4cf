package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shikayat/models"
	"shikayat/notification"
	"shikayat/repository"
)

// ComplaintService covers the complaint lifecycle: citizen submission,
// retrieval, and the staff mutations (status transitions, importance flag,
// log thread).
type ComplaintService struct {
	repo    *repository.ComplaintRepository
	users   *repository.UserRepository
	lookups *LookupService
	sender  notification.Sender
	logger  zerolog.Logger
	now     func() time.Time
}

func NewComplaintService(
	repo *repository.ComplaintRepository,
	users *repository.UserRepository,
	lookups *LookupService,
	sender notification.Sender,
	logger zerolog.Logger,
	now func() time.Time,
) *ComplaintService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ComplaintService{
		repo:    repo,
		users:   users,
		lookups: lookups,
		sender:  sender,
		logger:  logger,
		now:     now,
	}
}

// newTicketCode mints a reference of the form SHK-<year>-<8 hex chars>.
func newTicketCode(now time.Time) string {
	return fmt.Sprintf("SHK-%d-%s", now.Year(), uuid.New().String()[:8])
}

// Submit files a new complaint for the calling citizen. The region chain and
// sub-category are validated against the lookup trees before anything is
// written.
func (s *ComplaintService) Submit(ctx context.Context, caller models.Caller, req models.SubmitRecordRequest) (*models.Complaint, error) {
	if !caller.Role.Can().SubmitRecords {
		return nil, fmt.Errorf("%w: role %q cannot submit records", models.ErrForbidden, caller.Role)
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", models.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", models.ErrValidation)
	}

	categories, err := s.lookups.Categories()
	if err != nil {
		return nil, err
	}
	if !categories.IsSubCategory(req.SubCategoryID) {
		return nil, fmt.Errorf("%w: sub_category_id %d is not a sub-category", models.ErrValidation, req.SubCategoryID)
	}

	regions, err := s.lookups.Regions()
	if err != nil {
		return nil, err
	}
	if err := regions.ValidateChain(req.ProvinceID, req.DistrictID, req.TehsilID); err != nil {
		return nil, err
	}

	now := s.now()
	complaint := &models.Complaint{
		TicketCode:    newTicketCode(now),
		CitizenID:     caller.UserID,
		Subject:       strings.TrimSpace(req.Subject),
		Description:   strings.TrimSpace(req.Description),
		SubCategoryID: req.SubCategoryID,
		ProvinceID:    req.ProvinceID,
		DistrictID:    req.DistrictID,
		TehsilID:      req.TehsilID,
		Status:        models.StatusPending,
		Priority:      models.PriorityNormal,
		CreatedAt:     now,
	}
	if req.AttachmentPath != nil && *req.AttachmentPath != "" {
		complaint.AttachmentPath = sql.NullString{String: *req.AttachmentPath, Valid: true}
	}

	if err := s.repo.CreateComplaint(complaint); err != nil {
		return nil, err
	}

	s.notifyCitizen(ctx, caller.UserID,
		"Complaint received: "+complaint.TicketCode,
		fmt.Sprintf("Your complaint %q has been registered with reference %s. You will be notified when its status changes.", complaint.Subject, complaint.TicketCode),
	)

	return complaint, nil
}

// ComplaintDetail is a complaint with its log thread. Internal notes are
// already filtered out for citizen callers.
type ComplaintDetail struct {
	Complaint models.Complaint      `json:"complaint"`
	Logs      []models.ComplaintLog `json:"logs"`
}

// Get returns one complaint with its thread. Citizens can only read their
// own records; staff only records inside their jurisdiction.
func (s *ComplaintService) Get(caller models.Caller, id int64) (*ComplaintDetail, error) {
	complaint, err := s.repo.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(caller, complaint); err != nil {
		return nil, err
	}

	logs, err := s.repo.GetLogsByComplaintID(id)
	if err != nil {
		return nil, err
	}
	if !caller.Role.Can().ViewInternalNotes {
		logs = filterPublicLogs(logs)
	}
	return &ComplaintDetail{Complaint: *complaint, Logs: logs}, nil
}

// ListMine returns the calling citizen's own complaints, newest first.
func (s *ComplaintService) ListMine(caller models.Caller) ([]models.Complaint, error) {
	return s.repo.GetComplaintsByCitizenID(caller.UserID)
}

// ChangeStatus applies a staff status transition. Moving to resolved requires
// a non-empty note; moving away from resolved clears the resolution fields.
// The update and its audit log entry commit atomically.
func (s *ComplaintService) ChangeStatus(ctx context.Context, caller models.Caller, complaintID int64, req models.ChangeStatusRequest) error {
	if !caller.Role.Can().ChangeStatus {
		return fmt.Errorf("%w: role %q cannot change status", models.ErrForbidden, caller.Role)
	}

	complaint, err := s.repo.GetComplaintByID(complaintID)
	if err != nil {
		return err
	}
	if !ScopeCovers(caller, complaint.ProvinceID, complaint.DistrictID, complaint.TehsilID) {
		return fmt.Errorf("%w: complaint %d is outside your jurisdiction", models.ErrForbidden, complaintID)
	}

	newStatus := models.ComplaintStatus(req.NewStatus)
	if !models.ValidStatus(newStatus) {
		return fmt.Errorf("%w: unknown status %q", models.ErrValidation, req.NewStatus)
	}

	var resolvedAt *time.Time
	var note, attachment *string
	if newStatus == models.StatusResolved {
		if req.Note == nil || strings.TrimSpace(*req.Note) == "" {
			return fmt.Errorf("%w: a resolution note is required to resolve", models.ErrValidation)
		}
		trimmed := strings.TrimSpace(*req.Note)
		note = &trimmed
		attachment = req.AttachmentPath
		t := s.now()
		resolvedAt = &t
	}

	message := "Status updated to " + string(newStatus)
	if note != nil {
		message += ": " + *note
	}
	logEntry := &models.ComplaintLog{
		SenderID: caller.UserID,
		Message:  message,
		Type:     models.LogStatusChange,
	}

	if err := s.repo.UpdateStatusWithLog(complaintID, newStatus, resolvedAt, note, attachment, logEntry); err != nil {
		return err
	}

	body := fmt.Sprintf("The status of your complaint %s is now %q.", complaint.TicketCode, newStatus)
	if note != nil {
		body += "\n\nResolution Note: " + *note
	}
	s.notifyCitizen(ctx, complaint.CitizenID, "Update on "+complaint.TicketCode, body)
	return nil
}

// SetImportance sets the importance flag to the requested value. Repeating
// the same value is a no-op, not an error.
func (s *ComplaintService) SetImportance(caller models.Caller, complaintID int64, important bool) error {
	if !caller.Role.Can().ToggleImportance {
		return fmt.Errorf("%w: role %q cannot change importance", models.ErrForbidden, caller.Role)
	}
	complaint, err := s.repo.GetComplaintByID(complaintID)
	if err != nil {
		return err
	}
	if !ScopeCovers(caller, complaint.ProvinceID, complaint.DistrictID, complaint.TehsilID) {
		return fmt.Errorf("%w: complaint %d is outside your jurisdiction", models.ErrForbidden, complaintID)
	}
	return s.repo.SetImportance(complaintID, important)
}

// AddComment appends a message to the complaint's log thread. Staff with the
// override capability get an [Override] prefix so citizens can tell a senior
// intervention from the handling officer's replies.
func (s *ComplaintService) AddComment(caller models.Caller, complaintID int64, req models.AddCommentRequest) (*models.ComplaintLog, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrValidation)
	}

	complaint, err := s.repo.GetComplaintByID(complaintID)
	if err != nil {
		return nil, err
	}

	logType := models.LogPublic
	message := strings.TrimSpace(req.Message)

	if caller.Role.IsStaff() {
		if !ScopeCovers(caller, complaint.ProvinceID, complaint.DistrictID, complaint.TehsilID) {
			return nil, fmt.Errorf("%w: complaint %d is outside your jurisdiction", models.ErrForbidden, complaintID)
		}
		if req.Internal {
			logType = models.LogInternalNote
		}
		if caller.Role.Can().OverrideComments && !req.Internal {
			message = "[Override] " + message
		}
	} else {
		if complaint.CitizenID != caller.UserID {
			return nil, fmt.Errorf("%w: not your complaint", models.ErrForbidden)
		}
		if req.Internal {
			return nil, fmt.Errorf("%w: citizens cannot write internal notes", models.ErrForbidden)
		}
	}

	entry := &models.ComplaintLog{
		ComplaintID: sql.NullInt64{Int64: complaintID, Valid: true},
		SenderID:    caller.UserID,
		Message:     message,
		Type:        logType,
	}
	if err := s.repo.AddLog(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ComplaintService) authorizeRead(caller models.Caller, complaint *models.Complaint) error {
	if caller.Role.IsStaff() {
		if !ScopeCovers(caller, complaint.ProvinceID, complaint.DistrictID, complaint.TehsilID) {
			return fmt.Errorf("%w: complaint %d is outside your jurisdiction", models.ErrForbidden, complaint.ID)
		}
		return nil
	}
	if complaint.CitizenID != caller.UserID {
		return fmt.Errorf("%w: not your complaint", models.ErrForbidden)
	}
	return nil
}

// notifyCitizen emails the record owner. Failures are logged and swallowed.
func (s *ComplaintService) notifyCitizen(ctx context.Context, userID int64, subject, body string) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("notification skipped, user lookup failed")
		return
	}
	if err := s.sender.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("notification send failed")
	}
}

func filterPublicLogs(logs []models.ComplaintLog) []models.ComplaintLog {
	out := logs[:0]
	for _, l := range logs {
		if l.Type != models.LogInternalNote {
			out = append(out, l)
		}
	}
	return out
}
