package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/models"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

func TestPermissionsFor(t *testing.T) {
	tests := []struct {
		role          models.Role
		viewFamily    bool
		manageMembers bool
		deleteFamily  bool
	}{
		{models.RoleOwner, true, true, true},
		{models.RoleAdmin, true, true, false},
		{models.RoleMember, true, false, false},
		{models.Role(""), false, false, false},
		{models.Role("INTRUDER"), false, false, false},
	}

	for _, tt := range tests {
		perms := PermissionsFor(tt.role)
		require.Equal(t, tt.viewFamily, perms[PermViewFamily], "role %q", tt.role)
		require.Equal(t, tt.manageMembers, perms[PermManageMembers], "role %q", tt.role)
		require.Equal(t, tt.deleteFamily, perms[PermDeleteFamily], "role %q", tt.role)
	}
}

func ctxForRole(role models.Role) *AuthContext {
	familyID := uuid.New()
	return &AuthContext{
		IsAuthenticated: true,
		User: &models.User{
			ID:       uuid.New(),
			Role:     role,
			FamilyID: &familyID,
		},
		Permissions: PermissionsFor(role),
	}
}

func TestRequireAuthenticated(t *testing.T) {
	require.NoError(t, RequireAuthenticated(ctxForRole(models.RoleMember)))

	err := RequireAuthenticated(Anonymous(""))
	require.Error(t, err)
	require.True(t, utils.IsKind(err, utils.KindAuthentication))

	err = RequireAuthenticated(nil)
	require.True(t, utils.IsKind(err, utils.KindAuthentication))
}

func TestRequireFamilyMembership(t *testing.T) {
	require.NoError(t, RequireFamilyMembership(ctxForRole(models.RoleMember)))

	solo := ctxForRole(models.RoleMember)
	solo.User.FamilyID = nil
	err := RequireFamilyMembership(solo)
	require.True(t, utils.IsKind(err, utils.KindAuthorization))

	err = RequireFamilyMembership(Anonymous(""))
	require.True(t, utils.IsKind(err, utils.KindAuthentication))
}

func TestRequirePermission(t *testing.T) {
	require.NoError(t, RequirePermission(ctxForRole(models.RoleOwner), PermDeleteFamily))

	err := RequirePermission(ctxForRole(models.RoleMember), PermDeleteFamily)
	require.Error(t, err)
	require.True(t, utils.IsKind(err, utils.KindAuthorization))

	err = RequirePermission(ctxForRole(models.RoleMember), PermManageMembers)
	require.True(t, utils.IsKind(err, utils.KindAuthorization))

	// anonymous callers get an authentication error, not authorization
	err = RequirePermission(Anonymous(""), PermViewFamily)
	require.True(t, utils.IsKind(err, utils.KindAuthentication))
}

func TestRequireSelfOrPermission(t *testing.T) {
	member := ctxForRole(models.RoleMember)

	// acting on self passes without the permission
	require.NoError(t, RequireSelfOrPermission(member, member.User.ID, PermManageMembers))

	// acting on someone else requires it
	err := RequireSelfOrPermission(member, uuid.New(), PermManageMembers)
	require.True(t, utils.IsKind(err, utils.KindAuthorization))

	admin := ctxForRole(models.RoleAdmin)
	require.NoError(t, RequireSelfOrPermission(admin, uuid.New(), PermManageMembers))
}
