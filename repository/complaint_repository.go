package repository

import (
	"database/sql"
	"fmt"
	"time"

	"shikayat/models"
)

// ComplaintRepository handles database operations for complaints
type ComplaintRepository struct {
	db *sql.DB
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

const complaintColumns = `
	complaint_id, ticket_code, citizen_id, subject, description,
	sub_category_id, province_id, district_id, tehsil_id, attachment_path,
	status, priority, is_important, created_at,
	resolved_at, resolution_note, resolution_attachment_path`

func scanComplaint(row interface{ Scan(...interface{}) error }, c *models.Complaint) error {
	return row.Scan(
		&c.ID, &c.TicketCode, &c.CitizenID, &c.Subject, &c.Description,
		&c.SubCategoryID, &c.ProvinceID, &c.DistrictID, &c.TehsilID, &c.AttachmentPath,
		&c.Status, &c.Priority, &c.IsImportant, &c.CreatedAt,
		&c.ResolvedAt, &c.ResolutionNote, &c.ResolutionAttachmentPath,
	)
}

// CreateComplaint inserts a new complaint and backfills its generated id.
func (r *ComplaintRepository) CreateComplaint(complaint *models.Complaint) error {
	query := `
		INSERT INTO complaints (
			ticket_code, citizen_id, subject, description, sub_category_id,
			province_id, district_id, tehsil_id, attachment_path,
			status, priority, is_important
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(
		query,
		complaint.TicketCode,
		complaint.CitizenID,
		complaint.Subject,
		complaint.Description,
		complaint.SubCategoryID,
		complaint.ProvinceID,
		complaint.DistrictID,
		complaint.TehsilID,
		complaint.AttachmentPath,
		complaint.Status,
		complaint.Priority,
		complaint.IsImportant,
	)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get complaint ID: %w", err)
	}
	complaint.ID = id
	return nil
}

// GetComplaintByID retrieves a complaint by its ID
func (r *ComplaintRepository) GetComplaintByID(id int64) (*models.Complaint, error) {
	var c models.Complaint
	err := scanComplaint(r.db.QueryRow(
		`SELECT`+complaintColumns+` FROM complaints WHERE complaint_id = ?`, id,
	), &c)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: complaint %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return &c, nil
}

// GetComplaintsByCitizenID retrieves a citizen's own complaints, newest first.
func (r *ComplaintRepository) GetComplaintsByCitizenID(citizenID int64) ([]models.Complaint, error) {
	rows, err := r.db.Query(
		`SELECT`+complaintColumns+` FROM complaints WHERE citizen_id = ? ORDER BY created_at DESC`,
		citizenID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		var c models.Complaint
		if err := scanComplaint(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complaints: %w", err)
	}
	return complaints, nil
}

// UpdateStatusWithLog applies a status transition and appends its audit log
// entry in one transaction. Either both land or neither does: a failed log
// append rolls the status change back. Resolution fields are passed as a
// whole; nil values clear the columns, which is how leaving the resolved
// state erases note, attachment and timestamp.
func (r *ComplaintRepository) UpdateStatusWithLog(
	complaintID int64,
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
		`UPDATE complaints
		 SET status = ?, resolved_at = ?, resolution_note = ?, resolution_attachment_path = ?
		 WHERE complaint_id = ?`,
		newStatus, resolvedAt, resolutionNote, resolutionAttachmentPath, complaintID,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update complaint status: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to read affected rows: %w", err)
	} else if affected == 0 {
		// MySQL reports 0 affected rows for no-op updates too, so re-check
		// existence before deciding this is a missing record.
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM complaints WHERE complaint_id = ?`, complaintID).Scan(&exists); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to verify complaint existence: %w", err)
		}
		if exists == 0 {
			tx.Rollback()
			return fmt.Errorf("%w: complaint %d", models.ErrNotFound, complaintID)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO complaint_logs (complaint_id, suggestion_id, sender_id, message, log_type)
		 VALUES (?, NULL, ?, ?, ?)`,
		complaintID, logEntry.SenderID, logEntry.Message, logEntry.Type,
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

// SetImportance sets the importance flag to the desired value. Idempotent;
// no log entry is written for this flag.
func (r *ComplaintRepository) SetImportance(complaintID int64, important bool) error {
	res, err := r.db.Exec(
		`UPDATE complaints SET is_important = ? WHERE complaint_id = ?`,
		important, complaintID,
	)
	if err != nil {
		return fmt.Errorf("failed to set importance: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		var exists int
		if err := r.db.QueryRow(`SELECT COUNT(*) FROM complaints WHERE complaint_id = ?`, complaintID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to verify complaint existence: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("%w: complaint %d", models.ErrNotFound, complaintID)
		}
	}
	return nil
}

// AddLog appends a chat/comment entry to a complaint thread (immutable once
// written).
func (r *ComplaintRepository) AddLog(logEntry *models.ComplaintLog) error {
	result, err := r.db.Exec(
		`INSERT INTO complaint_logs (complaint_id, suggestion_id, sender_id, message, log_type)
		 VALUES (?, ?, ?, ?, ?)`,
		logEntry.ComplaintID, logEntry.SuggestionID, logEntry.SenderID, logEntry.Message, logEntry.Type,
	)
	if err != nil {
		return fmt.Errorf("failed to create log entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get log ID: %w", err)
	}
	logEntry.ID = id
	return nil
}

// GetLogsByComplaintID retrieves the log thread, oldest first.
func (r *ComplaintRepository) GetLogsByComplaintID(complaintID int64) ([]models.ComplaintLog, error) {
	rows, err := r.db.Query(
		`SELECT log_id, complaint_id, suggestion_id, sender_id, message, log_type, created_at
		 FROM complaint_logs
		 WHERE complaint_id = ?
		 ORDER BY created_at ASC, log_id ASC`,
		complaintID,
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
