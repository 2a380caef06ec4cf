package service

import (
	"fmt"
	"sync"

	"shikayat/models"
	"shikayat/repository"
)

// LookupService serves the cached region/category trees. Reference data
// changes rarely, so both trees are built once on first use and refreshed
// only through an explicit Reload.
type LookupService struct {
	repo *repository.LookupRepository

	mu         sync.RWMutex
	regions    *RegionTree
	categories *CategoryTree
}

// NewLookupService creates a new lookup service
func NewLookupService(repo *repository.LookupRepository) *LookupService {
	return &LookupService{repo: repo}
}

// Regions returns the cached region tree, loading it on first use.
func (s *LookupService) Regions() (*RegionTree, error) {
	s.mu.RLock()
	tree := s.regions
	s.mu.RUnlock()
	if tree != nil {
		return tree, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regions, nil
}

// Categories returns the cached category tree, loading it on first use.
func (s *LookupService) Categories() (*CategoryTree, error) {
	s.mu.RLock()
	tree := s.categories
	s.mu.RUnlock()
	if tree != nil {
		return tree, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories, nil
}

// Reload rebuilds both trees from the store. Called at startup and after
// reference-data changes.
func (s *LookupService) Reload() error {
	locations, err := s.repo.GetAllLocations()
	if err != nil {
		return fmt.Errorf("failed to load locations: %w", err)
	}
	regions, err := NewRegionTree(locations)
	if err != nil {
		return fmt.Errorf("failed to index region tree: %w", err)
	}
	categoryRows, err := s.repo.GetAllCategories()
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	categories, err := NewCategoryTree(categoryRows)
	if err != nil {
		return fmt.Errorf("failed to index category tree: %w", err)
	}

	s.mu.Lock()
	s.regions = regions
	s.categories = categories
	s.mu.Unlock()
	return nil
}

// RegionChildren lists the child regions of parentID; with no parent it
// lists the provinces.
func (s *LookupService) RegionChildren(parentID *int64) ([]models.Location, error) {
	tree, err := s.Regions()
	if err != nil {
		return nil, err
	}
	if parentID == nil {
		return tree.Provinces(), nil
	}
	if _, ok := tree.Get(*parentID); !ok {
		return nil, fmt.Errorf("%w: location %d", models.ErrNotFound, *parentID)
	}
	return tree.Children(*parentID), nil
}

// CategoryChildren lists the sub-categories of a department; with no
// department it lists the departments.
func (s *LookupService) CategoryChildren(departmentID *int64) ([]models.Category, error) {
	tree, err := s.Categories()
	if err != nil {
		return nil, err
	}
	if departmentID == nil {
		return tree.Departments(), nil
	}
	if !tree.IsDepartment(*departmentID) {
		return nil, fmt.Errorf("%w: department %d", models.ErrNotFound, *departmentID)
	}
	return tree.SubCategoriesOf(*departmentID), nil
}
