// internal/policy/transitions_test.go
package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openprocure/procure-backend/internal/models"
)

func TestAvailableTransitionsByRole(t *testing.T) {
	superAdmin := Principal{Role: models.RoleSuperAdmin}
	admin := Principal{Role: models.RoleAdmin}
	approver := Principal{Role: models.RoleApprover}
	requester := Principal{Role: models.RoleRequester, DepartmentName: "Finance"}

	tests := []struct {
		name      string
		status    models.RequestStatus
		principal Principal
		count     int
	}{
		{"approver decides at Request Created", models.StatusRequestCreated, approver, 2},
		{"admin decides at Request Created", models.StatusRequestCreated, admin, 2},
		{"requester never transitions", models.StatusRequestCreated, requester, 0},
		{"only admin at Pre-Approval", models.StatusPreApproval, admin, 2},
		{"approver blocked at Pre-Approval", models.StatusPreApproval, approver, 0},
		{"only admin at Review Stage", models.StatusReviewStage, admin, 2},
		{"approver blocked at Review Stage", models.StatusReviewStage, approver, 0},
		{"no role gate opens Negotiation Stage", models.StatusNegotiation, admin, 0},
		{"approver blocked at Negotiation Stage", models.StatusNegotiation, approver, 0},
		{"approver decides at Post Approval", models.StatusPostApproval, approver, 2},
		{"admin decides at Post Approval", models.StatusPostApproval, admin, 2},
		{"Completed is terminal", models.StatusCompleted, superAdmin, 0},
		{"Declined is terminal", models.StatusDeclined, superAdmin, 0},
		{"unknown status has no edges", models.RequestStatus("Limbo"), superAdmin, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableTransitions(tt.status, tt.principal, nil, nil)
			require.NotNil(t, got)
			assert.Len(t, got, tt.count)
		})
	}
}

func TestAvailableTransitionsSuperAdminBypassesRoleGate(t *testing.T) {
	superAdmin := Principal{Role: models.RoleSuperAdmin}

	// Pre-Approval is admin-only by role, yet super admin gets both edges.
	got := AvailableTransitions(models.StatusPreApproval, superAdmin, strPtr("Acme"), strPtr("Sales"))
	require.Len(t, got, 2)
	assert.Equal(t, models.StatusReviewStage, got[0].TargetStatus)
	assert.Equal(t, models.StatusDeclined, got[1].TargetStatus)

	// Negotiation Stage edges are still visible to super admin here; the
	// workflow gate is the coordinator's concern, not the table's.
	got = AvailableTransitions(models.StatusNegotiation, superAdmin, nil, nil)
	assert.Len(t, got, 2)
}

func TestAvailableTransitionsScopeFilter(t *testing.T) {
	admin := Principal{Role: models.RoleAdmin, DepartmentName: "Finance"}

	// Admins have global scope; a foreign department does not hide edges.
	got := AvailableTransitions(models.StatusPreApproval, admin, nil, strPtr("Sales"))
	assert.Len(t, got, 2)
}

func TestAvailableTransitionsEdgeContent(t *testing.T) {
	admin := Principal{Role: models.RoleAdmin}

	got := AvailableTransitions(models.StatusRequestCreated, admin, nil, nil)
	require.Len(t, got, 2)

	assert.Equal(t, "11", got[0].ID)
	assert.Equal(t, TransitionApprove, got[0].Name)
	assert.Equal(t, models.StatusPreApproval, got[0].TargetStatus)
	assert.Equal(t, "green", got[0].ColorCategory)

	assert.Equal(t, "12", got[1].ID)
	assert.Equal(t, TransitionDecline, got[1].Name)
	assert.Equal(t, models.StatusDeclined, got[1].TargetStatus)
	assert.Equal(t, "red", got[1].ColorCategory)
}

func TestAvailableTransitionsReturnsCopy(t *testing.T) {
	admin := Principal{Role: models.RoleAdmin}

	got := AvailableTransitions(models.StatusRequestCreated, admin, nil, nil)
	got[0].TargetStatus = models.StatusCompleted

	again := AvailableTransitions(models.StatusRequestCreated, admin, nil, nil)
	assert.Equal(t, models.StatusPreApproval, again[0].TargetStatus)
}

func TestTransitionByID(t *testing.T) {
	tr, ok := TransitionByID(models.StatusReviewStage, "31")
	require.True(t, ok)
	assert.Equal(t, models.StatusNegotiation, tr.TargetStatus)

	// An id from another status does not resolve.
	_, ok = TransitionByID(models.StatusReviewStage, "11")
	assert.False(t, ok)

	_, ok = TransitionByID(models.StatusCompleted, "51")
	assert.False(t, ok)
}

func TestEveryDeclineTargetsDeclined(t *testing.T) {
	for status, edges := range transitionTable {
		for _, edge := range edges {
			if edge.Name == TransitionDecline {
				assert.Equal(t, models.StatusDeclined, edge.TargetStatus, "decline from %s", status)
				assert.Equal(t, "red", edge.ColorCategory)
			}
		}
	}
}

func TestApproveChainReachesCompleted(t *testing.T) {
	status := models.StatusRequestCreated
	steps := 0
	for !status.IsTerminal() {
		edges := transitionTable[status]
		require.NotEmpty(t, edges, "non-terminal status %s must have edges", status)
		status = edges[0].TargetStatus
		steps++
		require.LessOrEqual(t, steps, 10, "approve chain must terminate")
	}
	assert.Equal(t, models.StatusCompleted, status)
	assert.Equal(t, 5, steps)
}
