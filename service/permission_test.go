package service

import (
	"errors"
	"testing"

	"teamspend/models"

	"github.com/stretchr/testify/assert"
)

func TestRequireLedgerAccess(t *testing.T) {
	tests := []struct {
		name    string
		user    *models.User
		wantErr string
	}{
		{"approved user", &models.User{Role: models.RoleUser, IsApproved: true}, ""},
		{"approved manager", &models.User{Role: models.RoleManager, IsApproved: true}, ""},
		{"admin", &models.User{Role: models.RoleAdmin, IsApproved: true}, "Admins cannot have expenses"},
		{"unapproved user", &models.User{Role: models.RoleUser}, "User is not approved yet"},
		{"unapproved manager", &models.User{Role: models.RoleManager}, "User is not approved yet"},
		{"unknown role", &models.User{Role: "intern", IsApproved: true}, "Unknown role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireLedgerAccess(tt.user)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
			assert.Equal(t, KindPermission, KindOf(err))
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(&models.User{Role: models.RoleAdmin}))
	assert.EqualError(t, RequireAdmin(&models.User{Role: models.RoleUser}), "You are not an admin")
	assert.EqualError(t, RequireAdmin(&models.User{Role: models.RoleManager}), "You are not an admin")
}

func TestRequireManager(t *testing.T) {
	assert.NoError(t, RequireManager(&models.User{Role: models.RoleManager}))
	assert.EqualError(t, RequireManager(&models.User{Role: models.RoleUser}), "You are not a manager")
	assert.EqualError(t, RequireManager(&models.User{Role: models.RoleAdmin}), "You are not a manager")
}

func TestRequireApproved(t *testing.T) {
	assert.NoError(t, RequireApproved(&models.User{IsApproved: true}))
	assert.EqualError(t, RequireApproved(&models.User{}), "You are not approved")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindPermission, KindOf(PermissionDenied("x")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("x")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("x")))
	assert.Equal(t, KindConflict, KindOf(Conflict("x")))
	assert.Equal(t, KindInvalid, KindOf(Invalid("x")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, models.RoleUser.Valid())
	assert.True(t, models.RoleManager.Valid())
	assert.True(t, models.RoleAdmin.Valid())
	assert.False(t, models.Role("intern").Valid())
	assert.False(t, models.Role("").Valid())
}
