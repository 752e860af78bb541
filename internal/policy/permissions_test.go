// internal/policy/permissions_test.go
package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openprocure/procure-backend/internal/models"
)

func TestPermissionsFor(t *testing.T) {
	tests := []struct {
		name  string
		role  models.Role
		count int
	}{
		{"super admin has every permission", models.RoleSuperAdmin, 12},
		{"admin lacks manage_organizations and manage_users", models.RoleAdmin, 10},
		{"approver is view, transition, reports", models.RoleApprover, 3},
		{"requester is view, create, edit", models.RoleRequester, 3},
		{"unknown role gets nothing", models.Role("auditor"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, PermissionsFor(tt.role), tt.count)
		})
	}
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	perms := PermissionsFor(models.RoleApprover)
	perms[0] = Permission("tampered")

	assert.NotContains(t, PermissionsFor(models.RoleApprover), Permission("tampered"))
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       models.Role
		permission Permission
		want       bool
	}{
		{"admin can finalize negotiation", models.RoleAdmin, PermissionFinalizeNegotiation, true},
		{"admin cannot manage organizations", models.RoleAdmin, PermissionManageOrganizations, false},
		{"admin cannot manage users", models.RoleAdmin, PermissionManageUsers, false},
		{"approver can transition", models.RoleApprover, PermissionTransitionRequest, true},
		{"approver cannot create requests", models.RoleApprover, PermissionCreateRequests, false},
		{"approver cannot submit proposals", models.RoleApprover, PermissionSubmitProposal, false},
		{"requester can create requests", models.RoleRequester, PermissionCreateRequests, true},
		{"requester cannot transition", models.RoleRequester, PermissionTransitionRequest, false},
		{"super admin can manage users", models.RoleSuperAdmin, PermissionManageUsers, true},
		{"unknown role has nothing", models.Role("auditor"), PermissionViewRequests, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestHasAnyPermission(t *testing.T) {
	assert.True(t, HasAnyPermission(models.RoleApprover, PermissionCreateRequests, PermissionTransitionRequest))
	assert.False(t, HasAnyPermission(models.RoleApprover, PermissionCreateRequests, PermissionManageUsers))

	// Empty list is vacuously false.
	assert.False(t, HasAnyPermission(models.RoleSuperAdmin))
}

func TestHasAllPermissions(t *testing.T) {
	assert.True(t, HasAllPermissions(models.RoleRequester, PermissionViewRequests, PermissionEditRequest))
	assert.False(t, HasAllPermissions(models.RoleRequester, PermissionViewRequests, PermissionTransitionRequest))

	// Empty list is vacuously true, even for an unknown role.
	assert.True(t, HasAllPermissions(models.RoleRequester))
	assert.True(t, HasAllPermissions(models.Role("auditor")))
}
