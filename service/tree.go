package service

import (
	"fmt"
	"sort"

	"shikayat/models"
)

// RegionTree is an in-memory index over the Province → District → Tehsil
// hierarchy: node arena plus parent/child maps, so ancestor checks are
// O(depth) and child listings O(1) without repeated store round-trips.
type RegionTree struct {
	nodes    map[int64]models.Location
	children map[int64][]int64
	roots    []int64
}

// NewRegionTree indexes the location rows. It rejects rows whose parent does
// not exist and cycles introduced by bad reference data.
func NewRegionTree(locations []models.Location) (*RegionTree, error) {
	t := &RegionTree{
		nodes:    make(map[int64]models.Location, len(locations)),
		children: make(map[int64][]int64),
	}
	for _, loc := range locations {
		t.nodes[loc.ID] = loc
	}
	for _, loc := range locations {
		if !loc.ParentID.Valid {
			t.roots = append(t.roots, loc.ID)
			continue
		}
		parent := loc.ParentID.Int64
		if _, ok := t.nodes[parent]; !ok {
			return nil, fmt.Errorf("location %d references missing parent %d", loc.ID, parent)
		}
		t.children[parent] = append(t.children[parent], loc.ID)
	}
	// Cycle check: every node must reach a root within the tree depth.
	for id := range t.nodes {
		seen := 0
		cur := id
		for {
			node := t.nodes[cur]
			if !node.ParentID.Valid {
				break
			}
			cur = node.ParentID.Int64
			seen++
			if seen > len(t.nodes) {
				return nil, fmt.Errorf("cycle detected at location %d", id)
			}
		}
	}
	sort.Slice(t.roots, func(i, j int) bool { return t.roots[i] < t.roots[j] })
	return t, nil
}

// Get returns the node for id.
func (t *RegionTree) Get(id int64) (models.Location, bool) {
	loc, ok := t.nodes[id]
	return loc, ok
}

// Name returns the node's name, or "" for an unknown id.
func (t *RegionTree) Name(id int64) string {
	return t.nodes[id].Name
}

// ParentID returns the node's parent id.
func (t *RegionTree) ParentID(id int64) (int64, bool) {
	loc, ok := t.nodes[id]
	if !ok || !loc.ParentID.Valid {
		return 0, false
	}
	return loc.ParentID.Int64, true
}

// IsDescendantOf walks ancestors of id looking for ancestorID.
func (t *RegionTree) IsDescendantOf(id, ancestorID int64) bool {
	cur := id
	for {
		parent, ok := t.ParentID(cur)
		if !ok {
			return false
		}
		if parent == ancestorID {
			return true
		}
		cur = parent
	}
}

// Children returns the direct children of id, ordered by id.
func (t *RegionTree) Children(id int64) []models.Location {
	ids := append([]int64(nil), t.children[id]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.Location, 0, len(ids))
	for _, cid := range ids {
		out = append(out, t.nodes[cid])
	}
	return out
}

// Provinces returns all root nodes ordered by id.
func (t *RegionTree) Provinces() []models.Location {
	out := make([]models.Location, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.nodes[id])
	}
	return out
}

// ValidateChain checks that tehsil ∈ district ∈ province and that each id has
// the right level. Used at submission time so the denormalized region columns
// can never disagree with the tree.
func (t *RegionTree) ValidateChain(provinceID, districtID, tehsilID int64) error {
	province, ok := t.Get(provinceID)
	if !ok || province.Type != models.LocationProvince {
		return fmt.Errorf("%w: province %d unknown", models.ErrValidation, provinceID)
	}
	district, ok := t.Get(districtID)
	if !ok || district.Type != models.LocationDistrict {
		return fmt.Errorf("%w: district %d unknown", models.ErrValidation, districtID)
	}
	tehsil, ok := t.Get(tehsilID)
	if !ok || tehsil.Type != models.LocationTehsil {
		return fmt.Errorf("%w: tehsil %d unknown", models.ErrValidation, tehsilID)
	}
	if !district.ParentID.Valid || district.ParentID.Int64 != provinceID {
		return fmt.Errorf("%w: district %d is not in province %d", models.ErrValidation, districtID, provinceID)
	}
	if !tehsil.ParentID.Valid || tehsil.ParentID.Int64 != districtID {
		return fmt.Errorf("%w: tehsil %d is not in district %d", models.ErrValidation, tehsilID, districtID)
	}
	return nil
}

// CategoryTree indexes the two-level Department → Sub-category hierarchy.
type CategoryTree struct {
	nodes    map[int64]models.Category
	children map[int64][]int64
	roots    []int64
}

// NewCategoryTree indexes the category rows.
func NewCategoryTree(categories []models.Category) (*CategoryTree, error) {
	t := &CategoryTree{
		nodes:    make(map[int64]models.Category, len(categories)),
		children: make(map[int64][]int64),
	}
	for _, c := range categories {
		t.nodes[c.ID] = c
	}
	for _, c := range categories {
		if !c.ParentID.Valid {
			t.roots = append(t.roots, c.ID)
			continue
		}
		parent := c.ParentID.Int64
		p, ok := t.nodes[parent]
		if !ok {
			return nil, fmt.Errorf("category %d references missing parent %d", c.ID, parent)
		}
		if p.ParentID.Valid {
			return nil, fmt.Errorf("category %d nests deeper than two levels", c.ID)
		}
		t.children[parent] = append(t.children[parent], c.ID)
	}
	sort.Slice(t.roots, func(i, j int) bool { return t.roots[i] < t.roots[j] })
	return t, nil
}

// Get returns the node for id.
func (t *CategoryTree) Get(id int64) (models.Category, bool) {
	c, ok := t.nodes[id]
	return c, ok
}

// Name returns the node's name, or "" for an unknown id.
func (t *CategoryTree) Name(id int64) string {
	return t.nodes[id].Name
}

// IsDepartment reports whether id is a root (department) node.
func (t *CategoryTree) IsDepartment(id int64) bool {
	c, ok := t.nodes[id]
	return ok && !c.ParentID.Valid
}

// IsSubCategory reports whether id is a leaf (sub-category) node.
func (t *CategoryTree) IsSubCategory(id int64) bool {
	c, ok := t.nodes[id]
	return ok && c.ParentID.Valid
}

// DepartmentOf returns the parent department of a sub-category.
func (t *CategoryTree) DepartmentOf(subCategoryID int64) (models.Category, bool) {
	c, ok := t.nodes[subCategoryID]
	if !ok || !c.ParentID.Valid {
		return models.Category{}, false
	}
	parent, ok := t.nodes[c.ParentID.Int64]
	return parent, ok
}

// Departments returns all root categories ordered by id.
func (t *CategoryTree) Departments() []models.Category {
	out := make([]models.Category, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.nodes[id])
	}
	return out
}

// SubCategoriesOf returns the children of a department ordered by id.
func (t *CategoryTree) SubCategoriesOf(departmentID int64) []models.Category {
	ids := append([]int64(nil), t.children[departmentID]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.Category, 0, len(ids))
	for _, cid := range ids {
		out = append(out, t.nodes[cid])
	}
	return out
}
