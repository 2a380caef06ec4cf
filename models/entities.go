package models

import (
	"database/sql"
	"time"
)

// LocationType is the level of a node in the administrative hierarchy.
type LocationType string

const (
	LocationProvince LocationType = "province"
	LocationDistrict LocationType = "district"
	LocationTehsil   LocationType = "tehsil"
)

// ComplaintStatus represents the possible statuses of a complaint or suggestion
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusRejected   ComplaintStatus = "rejected"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Priority represents complaint priority levels
type Priority string

const (
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// LogType classifies entries on the complaint/suggestion log thread.
type LogType string

const (
	LogPublic       LogType = "public"
	LogInternalNote LogType = "internal_note"
	LogStatusChange LogType = "status_change"
)

// Location is one node of the Province → District → Tehsil tree.
// A province has no parent; a tehsil's parent is always a district.
type Location struct {
	ID       int64         `db:"location_id" json:"location_id"`
	Name     string        `db:"name" json:"name"`
	Type     LocationType  `db:"location_type" json:"location_type"`
	ParentID sql.NullInt64 `db:"parent_id" json:"parent_id"`
}

// Category is one node of the Department → Sub-category tree.
// A department has no parent.
type Category struct {
	ID       int64         `db:"category_id" json:"category_id"`
	Name     string        `db:"name" json:"name"`
	ParentID sql.NullInt64 `db:"parent_id" json:"parent_id"`
}

// Complaint represents a citizen complaint.
// Province/district/tehsil are stored redundantly (tehsil implies the rest)
// so jurisdiction filters and rollups never need tree walks in SQL.
//
// Invariant: resolved_at, resolution_note and resolution_attachment_path are
// set if and only if status = resolved; leaving resolved clears all three.
type Complaint struct {
	ID                       int64           `db:"complaint_id" json:"complaint_id"`
	TicketCode               string          `db:"ticket_code" json:"ticket_code"`
	CitizenID                int64           `db:"citizen_id" json:"citizen_id"`
	Subject                  string          `db:"subject" json:"subject"`
	Description              string          `db:"description" json:"description"`
	SubCategoryID            int64           `db:"sub_category_id" json:"sub_category_id"`
	ProvinceID               int64           `db:"province_id" json:"province_id"`
	DistrictID               int64           `db:"district_id" json:"district_id"`
	TehsilID                 int64           `db:"tehsil_id" json:"tehsil_id"`
	AttachmentPath           sql.NullString  `db:"attachment_path" json:"attachment_path"`
	Status                   ComplaintStatus `db:"status" json:"status"`
	Priority                 Priority        `db:"priority" json:"priority"`
	IsImportant              bool            `db:"is_important" json:"is_important"`
	CreatedAt                time.Time       `db:"created_at" json:"created_at"`
	ResolvedAt               sql.NullTime    `db:"resolved_at" json:"resolved_at"`
	ResolutionNote           sql.NullString  `db:"resolution_note" json:"resolution_note"`
	ResolutionAttachmentPath sql.NullString  `db:"resolution_attachment_path" json:"resolution_attachment_path"`
}

// Suggestion is structurally identical to Complaint but lives on its own
// track: its own table, its own listing, and it never enters the complaint
// aggregates.
type Suggestion struct {
	ID                       int64           `db:"suggestion_id" json:"suggestion_id"`
	TicketCode               string          `db:"ticket_code" json:"ticket_code"`
	CitizenID                int64           `db:"citizen_id" json:"citizen_id"`
	Subject                  string          `db:"subject" json:"subject"`
	Description              string          `db:"description" json:"description"`
	SubCategoryID            int64           `db:"sub_category_id" json:"sub_category_id"`
	ProvinceID               int64           `db:"province_id" json:"province_id"`
	DistrictID               int64           `db:"district_id" json:"district_id"`
	TehsilID                 int64           `db:"tehsil_id" json:"tehsil_id"`
	AttachmentPath           sql.NullString  `db:"attachment_path" json:"attachment_path"`
	Status                   ComplaintStatus `db:"status" json:"status"`
	Priority                 Priority        `db:"priority" json:"priority"`
	IsImportant              bool            `db:"is_important" json:"is_important"`
	CreatedAt                time.Time       `db:"created_at" json:"created_at"`
	ResolvedAt               sql.NullTime    `db:"resolved_at" json:"resolved_at"`
	ResolutionNote           sql.NullString  `db:"resolution_note" json:"resolution_note"`
	ResolutionAttachmentPath sql.NullString  `db:"resolution_attachment_path" json:"resolution_attachment_path"`
}

// ComplaintLog is an append-only log/chat entry. Exactly one of ComplaintID
// and SuggestionID is set. Entries are never updated or deleted.
type ComplaintLog struct {
	ID           int64         `db:"log_id" json:"log_id"`
	ComplaintID  sql.NullInt64 `db:"complaint_id" json:"complaint_id"`
	SuggestionID sql.NullInt64 `db:"suggestion_id" json:"suggestion_id"`
	SenderID     int64         `db:"sender_id" json:"sender_id"`
	Message      string        `db:"message" json:"message"`
	Type         LogType       `db:"log_type" json:"log_type"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

// User is a citizen or staff account. Staff accounts carry the jurisdiction
// binding for their role: a provincial admin always has province_id, a
// district admin district_id+province_id, a zonal admin all three.
type User struct {
	ID         int64         `db:"user_id" json:"user_id"`
	Email      string        `db:"email" json:"email"`
	FullName   string        `db:"full_name" json:"full_name"`
	Role       Role          `db:"role" json:"role"`
	ProvinceID sql.NullInt64 `db:"province_id" json:"province_id"`
	DistrictID sql.NullInt64 `db:"district_id" json:"district_id"`
	TehsilID   sql.NullInt64 `db:"tehsil_id" json:"tehsil_id"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}
