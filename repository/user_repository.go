package repository

import (
	"database/sql"
	"fmt"

	"shikayat/models"
)

// UserRepository reads citizen/staff accounts. Account creation and role
// assignment happen upstream in the identity provider; this side only needs
// lookups for notification addresses and existence checks.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByID retrieves a user by id.
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(
		`SELECT user_id, email, full_name, role, province_id, district_id, tehsil_id, created_at
		 FROM users WHERE user_id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.ProvinceID, &u.DistrictID, &u.TehsilID, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// UserExists reports whether a user id is present.
func (r *UserRepository) UserExists(id int64) (bool, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE user_id = ?`, id).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}
