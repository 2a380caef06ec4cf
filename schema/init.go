// Package schema creates missing tables on startup; it never drops or overwrites existing ones.
package schema

import (
	"database/sql"
	"fmt"
)

// InitializeDatabase ensures all tables exist, created in FK dependency order:
// locations → categories → users → complaints → suggestions → complaint_logs.
// Existing tables are left untouched; no data is ever removed.
func InitializeDatabase(db *sql.DB) error {
	tables := []struct {
		name string
		ddl  string
	}{
		{"locations", createLocations},
		{"categories", createCategories},
		{"users", createUsers},
		{"complaints", createComplaints},
		{"suggestions", createSuggestions},
		{"complaint_logs", createComplaintLogs},
	}
	for _, t := range tables {
		exists, err := tableExists(db, t.name)
		if err != nil {
			return fmt.Errorf("failed to check table %s: %w", t.name, err)
		}
		if exists {
			continue
		}
		if _, err := db.Exec(t.ddl); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.name, err)
		}
	}
	return nil
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`,
		name,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Region/category parents are RESTRICT on delete: a region or department with
// children cannot be removed.
const createLocations = `
CREATE TABLE locations (
	location_id   BIGINT NOT NULL AUTO_INCREMENT,
	name          VARCHAR(120) NOT NULL,
	location_type ENUM('province','district','tehsil') NOT NULL,
	parent_id     BIGINT NULL,
	PRIMARY KEY (location_id),
	KEY idx_locations_parent (parent_id),
	CONSTRAINT fk_locations_parent FOREIGN KEY (parent_id)
		REFERENCES locations (location_id) ON DELETE RESTRICT
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const createCategories = `
CREATE TABLE categories (
	category_id BIGINT NOT NULL AUTO_INCREMENT,
	name        VARCHAR(120) NOT NULL,
	parent_id   BIGINT NULL,
	PRIMARY KEY (category_id),
	KEY idx_categories_parent (parent_id),
	CONSTRAINT fk_categories_parent FOREIGN KEY (parent_id)
		REFERENCES categories (category_id) ON DELETE RESTRICT
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const createUsers = `
CREATE TABLE users (
	user_id     BIGINT NOT NULL AUTO_INCREMENT,
	email       VARCHAR(255) NOT NULL,
	full_name   VARCHAR(255) NOT NULL,
	role        ENUM('super_admin','provincial_admin','district_admin','zonal_admin','citizen') NOT NULL DEFAULT 'citizen',
	province_id BIGINT NULL,
	district_id BIGINT NULL,
	tehsil_id   BIGINT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id),
	UNIQUE KEY uq_users_email (email),
	CONSTRAINT fk_users_province FOREIGN KEY (province_id) REFERENCES locations (location_id),
	CONSTRAINT fk_users_district FOREIGN KEY (district_id) REFERENCES locations (location_id),
	CONSTRAINT fk_users_tehsil  FOREIGN KEY (tehsil_id)  REFERENCES locations (location_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const createComplaints = `
CREATE TABLE complaints (
	complaint_id               BIGINT NOT NULL AUTO_INCREMENT,
	ticket_code                VARCHAR(32) NOT NULL,
	citizen_id                 BIGINT NOT NULL,
	subject                    VARCHAR(255) NOT NULL,
	description                TEXT NOT NULL,
	sub_category_id            BIGINT NOT NULL,
	province_id                BIGINT NOT NULL,
	district_id                BIGINT NOT NULL,
	tehsil_id                  BIGINT NOT NULL,
	attachment_path            VARCHAR(512) NULL,
	status                     ENUM('pending','in_progress','resolved','rejected') NOT NULL DEFAULT 'pending',
	priority                   ENUM('normal','high','critical') NOT NULL DEFAULT 'normal',
	is_important               TINYINT(1) NOT NULL DEFAULT 0,
	created_at                 TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	resolved_at                TIMESTAMP NULL,
	resolution_note            TEXT NULL,
	resolution_attachment_path VARCHAR(512) NULL,
	PRIMARY KEY (complaint_id),
	UNIQUE KEY uq_complaints_ticket (ticket_code),
	KEY idx_complaints_scope (province_id, district_id, tehsil_id),
	KEY idx_complaints_status (status),
	KEY idx_complaints_created (created_at),
	CONSTRAINT fk_complaints_citizen  FOREIGN KEY (citizen_id) REFERENCES users (user_id),
	CONSTRAINT fk_complaints_category FOREIGN KEY (sub_category_id) REFERENCES categories (category_id),
	CONSTRAINT fk_complaints_province FOREIGN KEY (province_id) REFERENCES locations (location_id),
	CONSTRAINT fk_complaints_district FOREIGN KEY (district_id) REFERENCES locations (location_id),
	CONSTRAINT fk_complaints_tehsil   FOREIGN KEY (tehsil_id)  REFERENCES locations (location_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const createSuggestions = `
CREATE TABLE suggestions (
	suggestion_id              BIGINT NOT NULL AUTO_INCREMENT,
	ticket_code                VARCHAR(32) NOT NULL,
	citizen_id                 BIGINT NOT NULL,
	subject                    VARCHAR(255) NOT NULL,
	description                TEXT NOT NULL,
	sub_category_id            BIGINT NOT NULL,
	province_id                BIGINT NOT NULL,
	district_id                BIGINT NOT NULL,
	tehsil_id                  BIGINT NOT NULL,
	attachment_path            VARCHAR(512) NULL,
	status                     ENUM('pending','in_progress','resolved','rejected') NOT NULL DEFAULT 'pending',
	priority                   ENUM('normal','high','critical') NOT NULL DEFAULT 'normal',
	is_important               TINYINT(1) NOT NULL DEFAULT 0,
	created_at                 TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	resolved_at                TIMESTAMP NULL,
	resolution_note            TEXT NULL,
	resolution_attachment_path VARCHAR(512) NULL,
	PRIMARY KEY (suggestion_id),
	UNIQUE KEY uq_suggestions_ticket (ticket_code),
	KEY idx_suggestions_scope (province_id, district_id, tehsil_id),
	CONSTRAINT fk_suggestions_citizen  FOREIGN KEY (citizen_id) REFERENCES users (user_id),
	CONSTRAINT fk_suggestions_category FOREIGN KEY (sub_category_id) REFERENCES categories (category_id),
	CONSTRAINT fk_suggestions_province FOREIGN KEY (province_id) REFERENCES locations (location_id),
	CONSTRAINT fk_suggestions_district FOREIGN KEY (district_id) REFERENCES locations (location_id),
	CONSTRAINT fk_suggestions_tehsil   FOREIGN KEY (tehsil_id)  REFERENCES locations (location_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Append-only: rows are inserted by mutation handlers and chat, never updated
// or deleted. Exactly one of complaint_id / suggestion_id is set.
const createComplaintLogs = `
CREATE TABLE complaint_logs (
	log_id        BIGINT NOT NULL AUTO_INCREMENT,
	complaint_id  BIGINT NULL,
	suggestion_id BIGINT NULL,
	sender_id     BIGINT NOT NULL,
	message       TEXT NOT NULL,
	log_type      ENUM('public','internal_note','status_change') NOT NULL DEFAULT 'public',
	created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (log_id),
	KEY idx_logs_complaint (complaint_id),
	KEY idx_logs_suggestion (suggestion_id),
	CONSTRAINT fk_logs_complaint  FOREIGN KEY (complaint_id) REFERENCES complaints (complaint_id),
	CONSTRAINT fk_logs_suggestion FOREIGN KEY (suggestion_id) REFERENCES suggestions (suggestion_id),
	CONSTRAINT fk_logs_sender     FOREIGN KEY (sender_id) REFERENCES users (user_id),
	CONSTRAINT chk_logs_target CHECK (
		(complaint_id IS NULL) <> (suggestion_id IS NULL)
	)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
