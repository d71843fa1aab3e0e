package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleOwner, RoleManager, RoleAccountant, RoleCashier} {
		assert.True(t, ValidRole(r), r)
	}
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}

func TestCanManage(t *testing.T) {
	assert.True(t, CanManage(RoleOwner))
	assert.True(t, CanManage(RoleManager))
	assert.False(t, CanManage(RoleAccountant))
	assert.False(t, CanManage(RoleCashier))
}
