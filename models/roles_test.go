package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, r := range []Role{RoleSuperAdmin, RoleProvincialAdmin, RoleDistrictAdmin, RoleZonalAdmin, RoleCitizen} {
		parsed, ok := ParseRole(string(r))
		assert.True(t, ok)
		assert.Equal(t, r, parsed)
	}

	_, ok := ParseRole("mayor")
	assert.False(t, ok)
	_, ok = ParseRole("")
	assert.False(t, ok)
}

func TestCapabilityMatrix(t *testing.T) {
	assert.True(t, RoleSuperAdmin.Can().ToggleImportance)
	assert.True(t, RoleDistrictAdmin.Can().ToggleImportance)
	assert.False(t, RoleZonalAdmin.Can().ToggleImportance, "importance stops at district level")
	assert.False(t, RoleZonalAdmin.Can().OverrideComments)
	assert.True(t, RoleZonalAdmin.Can().ChangeStatus)

	assert.False(t, RoleCitizen.Can().ViewDashboard)
	assert.True(t, RoleCitizen.Can().SubmitRecords)
	assert.False(t, RoleSuperAdmin.Can().SubmitRecords)

	// Unknown roles may do nothing.
	assert.Equal(t, Capability{}, Role("mayor").Can())
}

func TestIsStaff(t *testing.T) {
	assert.True(t, RoleZonalAdmin.IsStaff())
	assert.True(t, RoleSuperAdmin.IsStaff())
	assert.False(t, RoleCitizen.IsStaff())
	assert.False(t, Role("").IsStaff())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusRejected))
	assert.False(t, ValidStatus("closed"))
	assert.False(t, ValidStatus(""))
}
