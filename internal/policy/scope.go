// internal/policy/scope.go
package policy

import (
	"github.com/google/uuid"

	"github.com/openprocure/procure-backend/internal/models"
)

// Principal is the authenticated actor, resolved once per call from the
// session token. Every policy function takes it explicitly; there is no
// ambient session state.
type Principal struct {
	UserID         uuid.UUID   `json:"user_id"`
	Username       string      `json:"username"`
	Role           models.Role `json:"role"`
	OrganizationID *uuid.UUID  `json:"organization_id,omitempty"`
	DepartmentID   *uuid.UUID  `json:"department_id,omitempty"`
	DepartmentName string      `json:"department_name,omitempty"`
}

// CanAccess reports whether the principal may see or act on a resource
// scoped to the given organization and department.
//
// Admin roles and approvers have global scope. Approver's global reach is
// observed behavior carried over deliberately, not a new grant. Requesters
// are compared by department name only (exact, case-sensitive); a resource
// with no department is open to them. Organization is captured on both sides
// but not part of the requester comparison.
func CanAccess(p Principal, resourceOrg, resourceDept *string) bool {
	switch p.Role {
	case models.RoleSuperAdmin, models.RoleAdmin:
		return true
	case models.RoleApprover:
		return true
	case models.RoleRequester:
		if resourceDept == nil || *resourceDept == "" {
			return true
		}
		return *resourceDept == p.DepartmentName
	default:
		return false
	}
}
