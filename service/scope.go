package service

import (
	"fmt"

	"shikayat/models"
)

// ResolveScope derives the effective data-visibility filter for a caller.
// Security comes first, navigation second: drill-down ids may narrow the
// caller's bound jurisdiction but can never escape it. A navigation id that
// disagrees with the binding, or names a region outside it, is an
// authorization violation and fails with ErrForbidden rather than being
// silently clamped.
func ResolveScope(caller models.Caller, nav models.Navigation, regions *RegionTree) (models.EffectiveScope, error) {
	var scope models.EffectiveScope

	switch caller.Role {
	case models.RoleSuperAdmin:
		s, err := resolveSuperScope(nav, regions)
		if err != nil {
			return models.EffectiveScope{}, err
		}
		scope = s

	case models.RoleProvincialAdmin:
		if caller.ProvinceID == nil {
			return models.EffectiveScope{}, fmt.Errorf("%w: provincial admin without a province binding", models.ErrForbidden)
		}
		bound := *caller.ProvinceID
		if nav.ProvinceID != nil && *nav.ProvinceID != bound {
			return models.EffectiveScope{}, fmt.Errorf("%w: province %d is outside your jurisdiction", models.ErrForbidden, *nav.ProvinceID)
		}
		scope.ProvinceID = &bound
		if nav.DistrictID != nil {
			if err := requireWithin(regions, *nav.DistrictID, bound, models.LocationDistrict); err != nil {
				return models.EffectiveScope{}, err
			}
			scope.DistrictID = nav.DistrictID
		}
		if nav.TehsilID != nil {
			if err := requireWithin(regions, *nav.TehsilID, bound, models.LocationTehsil); err != nil {
				return models.EffectiveScope{}, err
			}
			if scope.DistrictID != nil && !regions.IsDescendantOf(*nav.TehsilID, *scope.DistrictID) {
				return models.EffectiveScope{}, fmt.Errorf("%w: tehsil %d is not in district %d", models.ErrForbidden, *nav.TehsilID, *scope.DistrictID)
			}
			scope.TehsilID = nav.TehsilID
		}

	case models.RoleDistrictAdmin:
		if caller.DistrictID == nil || caller.ProvinceID == nil {
			return models.EffectiveScope{}, fmt.Errorf("%w: district admin without a district binding", models.ErrForbidden)
		}
		bound := *caller.DistrictID
		if nav.ProvinceID != nil && *nav.ProvinceID != *caller.ProvinceID {
			return models.EffectiveScope{}, fmt.Errorf("%w: province %d is outside your jurisdiction", models.ErrForbidden, *nav.ProvinceID)
		}
		if nav.DistrictID != nil && *nav.DistrictID != bound {
			return models.EffectiveScope{}, fmt.Errorf("%w: district %d is outside your jurisdiction", models.ErrForbidden, *nav.DistrictID)
		}
		scope.ProvinceID = caller.ProvinceID
		scope.DistrictID = &bound
		if nav.TehsilID != nil {
			if err := requireWithin(regions, *nav.TehsilID, bound, models.LocationTehsil); err != nil {
				return models.EffectiveScope{}, err
			}
			scope.TehsilID = nav.TehsilID
		}

	case models.RoleZonalAdmin:
		if caller.TehsilID == nil || caller.DistrictID == nil || caller.ProvinceID == nil {
			return models.EffectiveScope{}, fmt.Errorf("%w: zonal admin without a tehsil binding", models.ErrForbidden)
		}
		if nav.ProvinceID != nil && *nav.ProvinceID != *caller.ProvinceID {
			return models.EffectiveScope{}, fmt.Errorf("%w: province %d is outside your jurisdiction", models.ErrForbidden, *nav.ProvinceID)
		}
		if nav.DistrictID != nil && *nav.DistrictID != *caller.DistrictID {
			return models.EffectiveScope{}, fmt.Errorf("%w: district %d is outside your jurisdiction", models.ErrForbidden, *nav.DistrictID)
		}
		if nav.TehsilID != nil && *nav.TehsilID != *caller.TehsilID {
			return models.EffectiveScope{}, fmt.Errorf("%w: tehsil %d is outside your jurisdiction", models.ErrForbidden, *nav.TehsilID)
		}
		scope.ProvinceID = caller.ProvinceID
		scope.DistrictID = caller.DistrictID
		scope.TehsilID = caller.TehsilID

	default:
		return models.EffectiveScope{}, fmt.Errorf("%w: role %q has no jurisdiction scope", models.ErrForbidden, caller.Role)
	}

	if nav.DepartmentID != nil {
		scope.DepartmentID = nav.DepartmentID
	}
	return scope, nil
}

// resolveSuperScope applies navigation verbatim for a super admin, but still
// rejects ids that do not exist or contradict each other.
func resolveSuperScope(nav models.Navigation, regions *RegionTree) (models.EffectiveScope, error) {
	var scope models.EffectiveScope
	if nav.ProvinceID != nil {
		if err := requireType(regions, *nav.ProvinceID, models.LocationProvince); err != nil {
			return scope, err
		}
		scope.ProvinceID = nav.ProvinceID
	}
	if nav.DistrictID != nil {
		if err := requireType(regions, *nav.DistrictID, models.LocationDistrict); err != nil {
			return scope, err
		}
		if scope.ProvinceID != nil && !regions.IsDescendantOf(*nav.DistrictID, *scope.ProvinceID) {
			return scope, fmt.Errorf("%w: district %d is not in province %d", models.ErrValidation, *nav.DistrictID, *scope.ProvinceID)
		}
		scope.DistrictID = nav.DistrictID
	}
	if nav.TehsilID != nil {
		if err := requireType(regions, *nav.TehsilID, models.LocationTehsil); err != nil {
			return scope, err
		}
		if scope.DistrictID != nil && !regions.IsDescendantOf(*nav.TehsilID, *scope.DistrictID) {
			return scope, fmt.Errorf("%w: tehsil %d is not in district %d", models.ErrValidation, *nav.TehsilID, *scope.DistrictID)
		}
		if scope.DistrictID == nil && scope.ProvinceID != nil && !regions.IsDescendantOf(*nav.TehsilID, *scope.ProvinceID) {
			return scope, fmt.Errorf("%w: tehsil %d is not in province %d", models.ErrValidation, *nav.TehsilID, *scope.ProvinceID)
		}
		scope.TehsilID = nav.TehsilID
	}
	return scope, nil
}

func requireType(regions *RegionTree, id int64, want models.LocationType) error {
	loc, ok := regions.Get(id)
	if !ok {
		return fmt.Errorf("%w: unknown %s id %d", models.ErrValidation, want, id)
	}
	if loc.Type != want {
		return fmt.Errorf("%w: location %d is not a %s", models.ErrValidation, id, want)
	}
	return nil
}

// requireWithin checks that id is a region of the wanted level inside the
// caller's bound ancestor; anything else reads as an escape attempt.
func requireWithin(regions *RegionTree, id, ancestorID int64, want models.LocationType) error {
	loc, ok := regions.Get(id)
	if !ok || loc.Type != want {
		return fmt.Errorf("%w: unknown %s id %d", models.ErrValidation, want, id)
	}
	if !regions.IsDescendantOf(id, ancestorID) {
		return fmt.Errorf("%w: %s %d is outside your jurisdiction", models.ErrForbidden, want, id)
	}
	return nil
}

// SelectViewLevel picks which layer to render for a scope. The most specific
// non-nil location field wins; this is a strict total order, so exactly one
// level is valid for any scope.
func SelectViewLevel(scope models.EffectiveScope) models.ViewLevel {
	switch {
	case scope.TehsilID != nil:
		return models.ViewTickets
	case scope.DistrictID != nil:
		return models.ViewTehsils
	case scope.ProvinceID != nil:
		return models.ViewDistricts
	default:
		return models.ViewProvinces
	}
}

// ScopeCovers reports whether a record at the given region ids is inside the
// caller's bound jurisdiction. Used by the mutation handlers before touching
// a record.
func ScopeCovers(caller models.Caller, provinceID, districtID, tehsilID int64) bool {
	switch caller.Role {
	case models.RoleSuperAdmin:
		return true
	case models.RoleProvincialAdmin:
		return caller.ProvinceID != nil && *caller.ProvinceID == provinceID
	case models.RoleDistrictAdmin:
		return caller.DistrictID != nil && *caller.DistrictID == districtID
	case models.RoleZonalAdmin:
		return caller.TehsilID != nil && *caller.TehsilID == tehsilID
	}
	return false
}
