package repository

import (
	"database/sql"
	"fmt"
	"time"

	"shikayat/models"
)

// SuggestionRepository mirrors the complaint repository for the structurally
// identical suggestion track. Suggestions never enter the complaint
// aggregates, so there is no grouped-count surface here.
type SuggestionRepository struct {
	db *sql.DB
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(db *sql.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

const suggestionColumns = `
	suggestion_id, ticket_code, citizen_id, subject, description,
	sub_category_id, province_id, district_id, tehsil_id, attachment_path,
	status, priority, is_important, created_at,
	resolved_at, resolution_note, resolution_attachment_path`

func scanSuggestion(row interface{ Scan(...interface{}) error }, s *models.Suggestion) error {
	return row.Scan(
		&s.ID, &s.TicketCode, &s.CitizenID, &s.Subject, &s.Description,
		&s.SubCategoryID, &s.ProvinceID, &s.DistrictID, &s.TehsilID, &s.AttachmentPath,
		&s.Status, &s.Priority, &s.IsImportant, &s.CreatedAt,
		&s.ResolvedAt, &s.ResolutionNote, &s.ResolutionAttachmentPath,
	)
}

// CreateSuggestion inserts a new suggestion and backfills its generated id.
func (r *SuggestionRepository) CreateSuggestion(s *models.Suggestion) error {
	result, err := r.db.Exec(`
		INSERT INTO suggestions (
			ticket_code, citizen_id, subject, description, sub_category_id,
			province_id, district_id, tehsil_id, attachment_path,
			status, priority, is_important
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.TicketCode, s.CitizenID, s.Subject, s.Description, s.SubCategoryID,
		s.ProvinceID, s.DistrictID, s.TehsilID, s.AttachmentPath,
		s.Status, s.Priority, s.IsImportant,
	)
	if err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get suggestion ID: %w", err)
	}
	s.ID = id
	return nil
}

// GetSuggestionByID retrieves a suggestion by its ID
func (r *SuggestionRepository) GetSuggestionByID(id int64) (*models.Suggestion, error) {
	var s models.Suggestion
	err := scanSuggestion(r.db.QueryRow(
		`SELECT`+suggestionColumns+` FROM suggestions WHERE suggestion_id = ?`, id,
	), &s)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: suggestion %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	return &s, nil
}

// GetSuggestionsByCitizenID retrieves a citizen's own suggestions, newest
// first.
func (r *SuggestionRepository) GetSuggestionsByCitizenID(citizenID int64) ([]models.Suggestion, error) {
	rows, err := r.db.Query(
		`SELECT`+suggestionColumns+` FROM suggestions WHERE citizen_id = ? ORDER BY created_at DESC`,
		citizenID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []models.Suggestion
	for rows.Next() {
		var s models.Suggestion
		if err := scanSuggestion(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestions: %w", err)
	}
	return suggestions, nil
}

// GetSuggestionsByScope lists suggestions inside an effective scope with the
// same importance-then-recency ordering as the complaint ticket view.
func (r *SuggestionRepository) GetSuggestionsByScope(scope models.EffectiveScope) ([]models.Suggestion, error) {
	where, args := scopeConditions(scope)
	query := `SELECT c.suggestion_id, c.ticket_code, c.citizen_id, c.subject, c.description,
		c.sub_category_id, c.province_id, c.district_id, c.tehsil_id, c.attachment_path,
		c.status, c.priority, c.is_important, c.created_at,
		c.resolved_at, c.resolution_note, c.resolution_attachment_path
	FROM suggestions c
	LEFT JOIN categories sc ON sc.category_id = c.sub_category_id` + where + `
	ORDER BY c.is_important DESC, c.created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions by scope: %w", err)
	}
	defer rows.Close()

	var suggestions []models.Suggestion
	for rows.Next() {
		var s models.Suggestion
		if err := scanSuggestion(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestions: %w", err)
	}
	return suggestions, nil
}

// UpdateStatusWithLog applies a status transition and appends its audit log
// entry in one transaction, fail-closed exactly like the complaint path.
func (r *SuggestionRepository) UpdateStatusWithLog(
	suggestionID int64,
	newStatus models.ComplaintStatus,
	resolvedAt *time.Time,
	resolutionNote *string,
	resolutionAttachmentPath *string,
	logEntry *models.ComplaintLog,
) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.Exec(
		`UPDATE suggestions
		 SET status = ?, resolved_at = ?, resolution_note = ?, resolution_attachment_path = ?
		 WHERE suggestion_id = ?`,
		newStatus, resolvedAt, resolutionNote, resolutionAttachmentPath, suggestionID,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update suggestion status: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to read affected rows: %w", err)
	} else if affected == 0 {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM suggestions WHERE suggestion_id = ?`, suggestionID).Scan(&exists); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to verify suggestion existence: %w", err)
		}
		if exists == 0 {
			tx.Rollback()
			return fmt.Errorf("%w: suggestion %d", models.ErrNotFound, suggestionID)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO complaint_logs (complaint_id, suggestion_id, sender_id, message, log_type)
		 VALUES (NULL, ?, ?, ?, ?)`,
		suggestionID, logEntry.SenderID, logEntry.Message, logEntry.Type,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to append status log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status change: %w", err)
	}
	return nil
}

// SetImportance sets the importance flag to the desired value (idempotent).
func (r *SuggestionRepository) SetImportance(suggestionID int64, important bool) error {
	res, err := r.db.Exec(
		`UPDATE suggestions SET is_important = ? WHERE suggestion_id = ?`,
		important, suggestionID,
	)
	if err != nil {
		return fmt.Errorf("failed to set importance: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		var exists int
		if err := r.db.QueryRow(`SELECT COUNT(*) FROM suggestions WHERE suggestion_id = ?`, suggestionID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to verify suggestion existence: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("%w: suggestion %d", models.ErrNotFound, suggestionID)
		}
	}
	return nil
}

// AddLog appends a single thread entry.
func (r *SuggestionRepository) AddLog(logEntry *models.ComplaintLog) error {
	res, err := r.db.Exec(
		`INSERT INTO complaint_logs (complaint_id, suggestion_id, sender_id, message, log_type)
		 VALUES (NULL, ?, ?, ?, ?)`,
		logEntry.SuggestionID, logEntry.SenderID, logEntry.Message, logEntry.Type,
	)
	if err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		logEntry.ID = id
	}
	return nil
}

// GetLogsBySuggestionID retrieves the log thread, oldest first.
func (r *SuggestionRepository) GetLogsBySuggestionID(suggestionID int64) ([]models.ComplaintLog, error) {
	rows, err := r.db.Query(
		`SELECT log_id, complaint_id, suggestion_id, sender_id, message, log_type, created_at
		 FROM complaint_logs
		 WHERE suggestion_id = ?
		 ORDER BY created_at ASC, log_id ASC`,
		suggestionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ComplaintLog
	for rows.Next() {
		var l models.ComplaintLog
		if err := rows.Scan(&l.ID, &l.ComplaintID, &l.SuggestionID, &l.SenderID, &l.Message, &l.Type, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		logs = append(logs, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating logs: %w", err)
	}
	return logs, nil
}
