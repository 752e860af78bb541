// internal/policy/permissions.go
package policy

import "github.com/openprocure/procure-backend/internal/models"

// Permission is an enumerated capability. Permissions are never combined or
// inherited dynamically; each role owns a fixed, explicit set.
type Permission string

const (
	PermissionViewRequests        Permission = "view_requests"
	PermissionCreateRequests      Permission = "create_requests"
	PermissionEditRequest         Permission = "edit_request"
	PermissionTransitionRequest   Permission = "transition_request"
	PermissionSubmitProposal      Permission = "submit_proposal"
	PermissionFinalizeNegotiation Permission = "finalize_negotiation"
	PermissionCreateVendor        Permission = "create_vendor"
	PermissionSendInvitations     Permission = "send_invitations"
	PermissionManageOrganizations Permission = "manage_organizations"
	PermissionManageDepartments   Permission = "manage_departments"
	PermissionManageUsers         Permission = "manage_users"
	PermissionViewReports         Permission = "view_reports"
)

// rolePermissions is the access policy. Changing policy means editing this
// table, never the predicates below.
var rolePermissions = map[models.Role][]Permission{
	models.RoleSuperAdmin: {
		PermissionViewRequests,
		PermissionCreateRequests,
		PermissionEditRequest,
		PermissionTransitionRequest,
		PermissionSubmitProposal,
		PermissionFinalizeNegotiation,
		PermissionCreateVendor,
		PermissionSendInvitations,
		PermissionManageOrganizations,
		PermissionManageDepartments,
		PermissionManageUsers,
		PermissionViewReports,
	},
	models.RoleAdmin: {
		PermissionViewRequests,
		PermissionCreateRequests,
		PermissionEditRequest,
		PermissionTransitionRequest,
		PermissionSubmitProposal,
		PermissionFinalizeNegotiation,
		PermissionCreateVendor,
		PermissionSendInvitations,
		PermissionManageDepartments,
		PermissionViewReports,
	},
	models.RoleApprover: {
		PermissionViewRequests,
		PermissionTransitionRequest,
		PermissionViewReports,
	},
	models.RoleRequester: {
		PermissionViewRequests,
		PermissionCreateRequests,
		PermissionEditRequest,
	},
}

// permissionSets is the lookup-form of rolePermissions, built once so the
// predicates stay allocation-free on the hot path.
var permissionSets = func() map[models.Role]map[Permission]struct{} {
	sets := make(map[models.Role]map[Permission]struct{}, len(rolePermissions))
	for role, perms := range rolePermissions {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		sets[role] = set
	}
	return sets
}()

// PermissionsFor returns the granted permission set for a role. Unknown
// roles get an empty set, never an error.
func PermissionsFor(role models.Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the role grants a single permission.
func HasPermission(role models.Role, permission Permission) bool {
	_, ok := permissionSets[role][permission]
	return ok
}

// HasAnyPermission reports whether the role grants at least one of the given
// permissions. An empty list is vacuously false.
func HasAnyPermission(role models.Role, permissions ...Permission) bool {
	set := permissionSets[role]
	for _, p := range permissions {
		if _, ok := set[p]; ok {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role grants every given permission.
// An empty list is vacuously true.
func HasAllPermissions(role models.Role, permissions ...Permission) bool {
	set := permissionSets[role]
	for _, p := range permissions {
		if _, ok := set[p]; !ok {
			return false
		}
	}
	return true
}
