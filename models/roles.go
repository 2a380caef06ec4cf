package models

// Role is the closed set of account roles. Authorization decisions go through
// the capability table below instead of comparing role strings at call sites.
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RoleProvincialAdmin Role = "provincial_admin"
	RoleDistrictAdmin   Role = "district_admin"
	RoleZonalAdmin      Role = "zonal_admin"
	RoleCitizen         Role = "citizen"
)

// ParseRole maps a claim string to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperAdmin, RoleProvincialAdmin, RoleDistrictAdmin, RoleZonalAdmin, RoleCitizen:
		return Role(s), true
	}
	return "", false
}

// Capability describes what a role may do.
type Capability struct {
	ViewDashboard     bool
	ViewAnalytics     bool
	ChangeStatus      bool
	ToggleImportance  bool
	ViewInternalNotes bool
	OverrideComments  bool
	SubmitRecords     bool
}

// roleCapabilities is the single capability matrix. Importance toggling stops
// at district level; the [Override] comment prefix applies to senior
// (non-zonal) staff.
var roleCapabilities = map[Role]Capability{
	RoleSuperAdmin: {
		ViewDashboard:     true,
		ViewAnalytics:     true,
		ChangeStatus:      true,
		ToggleImportance:  true,
		ViewInternalNotes: true,
		OverrideComments:  true,
	},
	RoleProvincialAdmin: {
		ViewDashboard:     true,
		ViewAnalytics:     true,
		ChangeStatus:      true,
		ToggleImportance:  true,
		ViewInternalNotes: true,
		OverrideComments:  true,
	},
	RoleDistrictAdmin: {
		ViewDashboard:     true,
		ViewAnalytics:     true,
		ChangeStatus:      true,
		ToggleImportance:  true,
		ViewInternalNotes: true,
		OverrideComments:  true,
	},
	RoleZonalAdmin: {
		ViewDashboard:     true,
		ViewAnalytics:     true,
		ChangeStatus:      true,
		ViewInternalNotes: true,
	},
	RoleCitizen: {
		SubmitRecords: true,
	},
}

// Can returns the capability set for the role; unknown roles get the zero
// value (may do nothing).
func (r Role) Can() Capability {
	return roleCapabilities[r]
}

// IsStaff reports whether the role is an administrative role.
func (r Role) IsStaff() bool {
	switch r {
	case RoleSuperAdmin, RoleProvincialAdmin, RoleDistrictAdmin, RoleZonalAdmin:
		return true
	}
	return false
}

// Caller is the authenticated request principal with its jurisdiction
// binding, resolved upstream by the identity provider and threaded
// explicitly through every core entry point.
type Caller struct {
	UserID     int64
	Role       Role
	ProvinceID *int64
	DistrictID *int64
	TehsilID   *int64
}
