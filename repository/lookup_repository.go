package repository

import (
	"database/sql"
	"fmt"

	"shikayat/models"
)

// LookupRepository handles the region and category reference tables.
type LookupRepository struct {
	db *sql.DB
}

// NewLookupRepository creates a new lookup repository
func NewLookupRepository(db *sql.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// GetAllLocations retrieves every region row, ordered by id so tree builds
// are deterministic.
func (r *LookupRepository) GetAllLocations() ([]models.Location, error) {
	rows, err := r.db.Query(`
		SELECT location_id, name, location_type, parent_id
		FROM locations
		ORDER BY location_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Type, &loc.ParentID); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}
	return locations, nil
}

// GetAllCategories retrieves every category row ordered by id.
func (r *LookupRepository) GetAllCategories() ([]models.Category, error) {
	rows, err := r.db.Query(`
		SELECT category_id, name, parent_id
		FROM categories
		ORDER BY category_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// DeleteLocation removes a region. The parent FK is RESTRICT, so deleting a
// region that still has children (or complaints) fails at the store and the
// error propagates to the caller.
func (r *LookupRepository) DeleteLocation(id int64) error {
	res, err := r.db.Exec(`DELETE FROM locations WHERE location_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: location %d", models.ErrNotFound, id)
	}
	return nil
}

// DeleteCategory removes a category; RESTRICT semantics as DeleteLocation.
func (r *LookupRepository) DeleteCategory(id int64) error {
	res, err := r.db.Exec(`DELETE FROM categories WHERE category_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %d", models.ErrNotFound, id)
	}
	return nil
}
