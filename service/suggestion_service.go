package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shikayat/models"
	"shikayat/notification"
	"shikayat/repository"
)

// SuggestionService mirrors the complaint lifecycle for the suggestions
// track. Suggestions never enter the complaint dashboards or analytics.
type SuggestionService struct {
	repo    *repository.SuggestionRepository
	users   *repository.UserRepository
	lookups *LookupService
	sender  notification.Sender
	logger  zerolog.Logger
	now     func() time.Time
}

func NewSuggestionService(
	repo *repository.SuggestionRepository,
	users *repository.UserRepository,
	lookups *LookupService,
	sender notification.Sender,
	logger zerolog.Logger,
	now func() time.Time,
) *SuggestionService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &SuggestionService{
		repo:    repo,
		users:   users,
		lookups: lookups,
		sender:  sender,
		logger:  logger,
		now:     now,
	}
}

// Submit files a new suggestion for the calling citizen.
func (s *SuggestionService) Submit(ctx context.Context, caller models.Caller, req models.SubmitRecordRequest) (*models.Suggestion, error) {
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
	suggestion := &models.Suggestion{
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
		suggestion.AttachmentPath = sql.NullString{String: *req.AttachmentPath, Valid: true}
	}

	if err := s.repo.CreateSuggestion(suggestion); err != nil {
		return nil, err
	}

	s.notifyCitizen(ctx, caller.UserID,
		"Suggestion received: "+suggestion.TicketCode,
		fmt.Sprintf("Your suggestion %q has been registered with reference %s.", suggestion.Subject, suggestion.TicketCode),
	)
	return suggestion, nil
}

// SuggestionDetail is a suggestion with its log thread.
type SuggestionDetail struct {
	Suggestion models.Suggestion     `json:"suggestion"`
	Logs       []models.ComplaintLog `json:"logs"`
}

// Get returns one suggestion with its thread, under the same ownership and
// jurisdiction rules as complaints.
func (s *SuggestionService) Get(caller models.Caller, id int64) (*SuggestionDetail, error) {
	suggestion, err := s.repo.GetSuggestionByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(caller, suggestion); err != nil {
		return nil, err
	}

	logs, err := s.repo.GetLogsBySuggestionID(id)
	if err != nil {
		return nil, err
	}
	if !caller.Role.Can().ViewInternalNotes {
		logs = filterPublicLogs(logs)
	}
	return &SuggestionDetail{Suggestion: *suggestion, Logs: logs}, nil
}

// ListMine returns the calling citizen's own suggestions, newest first.
func (s *SuggestionService) ListMine(caller models.Caller) ([]models.Suggestion, error) {
	return s.repo.GetSuggestionsByCitizenID(caller.UserID)
}

// ListByScope lists the suggestions a staff caller can see, honoring the
// same drill-down narrowing rules as the dashboard.
func (s *SuggestionService) ListByScope(caller models.Caller, nav models.Navigation) ([]models.Suggestion, error) {
	if !caller.Role.Can().ViewDashboard {
		return nil, fmt.Errorf("%w: role %q cannot list suggestions", models.ErrForbidden, caller.Role)
	}
	regions, err := s.lookups.Regions()
	if err != nil {
		return nil, err
	}
	scope, err := ResolveScope(caller, nav, regions)
	if err != nil {
		return nil, err
	}
	return s.repo.GetSuggestionsByScope(scope)
}

// ChangeStatus applies a staff status transition to a suggestion.
func (s *SuggestionService) ChangeStatus(ctx context.Context, caller models.Caller, suggestionID int64, req models.ChangeStatusRequest) error {
	if !caller.Role.Can().ChangeStatus {
		return fmt.Errorf("%w: role %q cannot change status", models.ErrForbidden, caller.Role)
	}

	suggestion, err := s.repo.GetSuggestionByID(suggestionID)
	if err != nil {
		return err
	}
	if !ScopeCovers(caller, suggestion.ProvinceID, suggestion.DistrictID, suggestion.TehsilID) {
		return fmt.Errorf("%w: suggestion %d is outside your jurisdiction", models.ErrForbidden, suggestionID)
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

	if err := s.repo.UpdateStatusWithLog(suggestionID, newStatus, resolvedAt, note, attachment, logEntry); err != nil {
		return err
	}

	body := fmt.Sprintf("The status of your suggestion %s is now %q.", suggestion.TicketCode, newStatus)
	if note != nil {
		body += "\n\nResolution Note: " + *note
	}
	s.notifyCitizen(ctx, suggestion.CitizenID, "Update on "+suggestion.TicketCode, body)
	return nil
}

// SetImportance sets the importance flag on a suggestion.
func (s *SuggestionService) SetImportance(caller models.Caller, suggestionID int64, important bool) error {
	if !caller.Role.Can().ToggleImportance {
		return fmt.Errorf("%w: role %q cannot change importance", models.ErrForbidden, caller.Role)
	}
	suggestion, err := s.repo.GetSuggestionByID(suggestionID)
	if err != nil {
		return err
	}
	if !ScopeCovers(caller, suggestion.ProvinceID, suggestion.DistrictID, suggestion.TehsilID) {
		return fmt.Errorf("%w: suggestion %d is outside your jurisdiction", models.ErrForbidden, suggestionID)
	}
	return s.repo.SetImportance(suggestionID, important)
}

// AddComment appends a message to the suggestion's log thread.
func (s *SuggestionService) AddComment(caller models.Caller, suggestionID int64, req models.AddCommentRequest) (*models.ComplaintLog, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrValidation)
	}

	suggestion, err := s.repo.GetSuggestionByID(suggestionID)
	if err != nil {
		return nil, err
	}

	logType := models.LogPublic
	message := strings.TrimSpace(req.Message)

	if caller.Role.IsStaff() {
		if !ScopeCovers(caller, suggestion.ProvinceID, suggestion.DistrictID, suggestion.TehsilID) {
			return nil, fmt.Errorf("%w: suggestion %d is outside your jurisdiction", models.ErrForbidden, suggestionID)
		}
		if req.Internal {
			logType = models.LogInternalNote
		}
		if caller.Role.Can().OverrideComments && !req.Internal {
			message = "[Override] " + message
		}
	} else {
		if suggestion.CitizenID != caller.UserID {
			return nil, fmt.Errorf("%w: not your suggestion", models.ErrForbidden)
		}
		if req.Internal {
			return nil, fmt.Errorf("%w: citizens cannot write internal notes", models.ErrForbidden)
		}
	}

	entry := &models.ComplaintLog{
		SuggestionID: sql.NullInt64{Int64: suggestionID, Valid: true},
		SenderID:     caller.UserID,
		Message:      message,
		Type:         logType,
	}
	if err := s.repo.AddLog(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *SuggestionService) authorizeRead(caller models.Caller, suggestion *models.Suggestion) error {
	if caller.Role.IsStaff() {
		if !ScopeCovers(caller, suggestion.ProvinceID, suggestion.DistrictID, suggestion.TehsilID) {
			return fmt.Errorf("%w: suggestion %d is outside your jurisdiction", models.ErrForbidden, suggestion.ID)
		}
		return nil
	}
	if suggestion.CitizenID != caller.UserID {
		return fmt.Errorf("%w: not your suggestion", models.ErrForbidden)
	}
	return nil
}

func (s *SuggestionService) notifyCitizen(ctx context.Context, userID int64, subject, body string) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("notification skipped, user lookup failed")
		return
	}
	if err := s.sender.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("notification send failed")
	}
}
