// internal/services/request_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/openprocure/procure-backend/internal/models"
	"github.com/openprocure/procure-backend/internal/utils"
)

func newRequestFixture(t *testing.T) (*gorm.DB, *RequestService, *NegotiationService) {
	t.Helper()
	db := setupTestDB(t)
	negotiationService := NewNegotiationService(db, nil)
	return db, NewRequestService(db, negotiationService, nil), negotiationService
}

func TestCreateRequest(t *testing.T) {
	_, svc, _ := newRequestFixture(t)
	requester := requesterPrincipal("Finance")

	request, err := svc.CreateRequest(requester, &CreateRequestRequest{
		Title:        "200 CRM licenses",
		Vendor:       "Initech",
		LicenseCount: 200,
		UnitCost:     49.90,
		Currency:     "USD",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusRequestCreated, request.Status)
	assert.True(t, strings.HasPrefix(request.Key, "PR-"))
	assert.Len(t, request.Key, 11)
	assert.Equal(t, requester.UserID, request.CreatorID)

	// Department defaults to the creator's when the payload omits it.
	require.NotNil(t, request.Department)
	assert.Equal(t, "Finance", *request.Department)

	vendor, ok := request.FieldString(models.FieldVendor)
	require.True(t, ok)
	assert.Equal(t, "Initech", vendor)

	count, ok := request.FieldFloat(models.FieldLicenseCount)
	require.True(t, ok)
	assert.Equal(t, float64(200), count)
}

func TestCreateRequestExplicitDepartmentWins(t *testing.T) {
	_, svc, _ := newRequestFixture(t)

	request, err := svc.CreateRequest(requesterPrincipal("Finance"), &CreateRequestRequest{
		Title:      "Shared tooling",
		Department: deptPtr("Engineering"),
	})
	require.NoError(t, err)
	require.NotNil(t, request.Department)
	assert.Equal(t, "Engineering", *request.Department)
}

func TestCreateRequestForbidden(t *testing.T) {
	_, svc, _ := newRequestFixture(t)

	_, err := svc.CreateRequest(approverPrincipal(), &CreateRequestRequest{Title: "Nope"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetRequestScoping(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	seedRequest(t, db, "PR-FINANCE1", models.StatusRequestCreated, deptPtr("Finance"))
	seedRequest(t, db, "PR-SALES001", models.StatusRequestCreated, deptPtr("Sales"))
	seedRequest(t, db, "PR-SHARED01", models.StatusRequestCreated, nil)

	finance := requesterPrincipal("Finance")

	_, err := svc.GetRequest("PR-FINANCE1", finance)
	assert.NoError(t, err)

	_, err = svc.GetRequest("PR-SHARED01", finance)
	assert.NoError(t, err)

	_, err = svc.GetRequest("PR-SALES001", finance)
	assert.ErrorIs(t, err, ErrForbidden)

	// Approvers and admins see every department.
	_, err = svc.GetRequest("PR-SALES001", approverPrincipal())
	assert.NoError(t, err)
	_, err = svc.GetRequest("PR-SALES001", adminPrincipal())
	assert.NoError(t, err)

	_, err = svc.GetRequest("PR-MISSING1", finance)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchRequestsRequesterScope(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	seedRequest(t, db, "PR-FINANCE1", models.StatusRequestCreated, deptPtr("Finance"))
	seedRequest(t, db, "PR-SALES001", models.StatusRequestCreated, deptPtr("Sales"))
	seedRequest(t, db, "PR-SHARED01", models.StatusRequestCreated, nil)

	params := RequestSearchParams{PaginationParams: utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}}

	requests, total, err := svc.SearchRequests(params, requesterPrincipal("Finance"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, requests, 2)

	requests, total, err = svc.SearchRequests(params, adminPrincipal())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, requests, 3)
}

func TestSearchRequestsStatusFilter(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	seedRequest(t, db, "PR-TEST0001", models.StatusRequestCreated, nil)
	seedRequest(t, db, "PR-TEST0002", models.StatusNegotiation, nil)

	status := models.StatusNegotiation
	params := RequestSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"},
		Status:           &status,
	}

	requests, total, err := svc.SearchRequests(params, adminPrincipal())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, requests, 1)
	assert.Equal(t, "PR-TEST0002", requests[0].Key)
}

func TestAvailableTransitionsByLifecycle(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	seedRequest(t, db, "PR-CREATED1", models.StatusRequestCreated, nil)
	seedRequest(t, db, "PR-DONE0001", models.StatusCompleted, nil)

	transitions, err := svc.AvailableTransitions("PR-CREATED1", approverPrincipal())
	require.NoError(t, err)
	assert.Len(t, transitions, 2)

	transitions, err = svc.AvailableTransitions("PR-CREATED1", requesterPrincipal(""))
	require.NoError(t, err)
	assert.Empty(t, transitions)

	// Terminal status: empty for everyone, super admin included.
	transitions, err = svc.AvailableTransitions("PR-DONE0001", superAdminPrincipal())
	require.NoError(t, err)
	assert.Empty(t, transitions)

	_, err = svc.AvailableTransitions("PR-MISSING1", adminPrincipal())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAvailableTransitionsNegotiationGate(t *testing.T) {
	db, svc, negotiation := newRequestFixture(t)
	seedRequest(t, db, "PR-NEGO0001", models.StatusNegotiation, nil)
	root := superAdminPrincipal()

	// The final proposal is outstanding: the edges stay hidden even from
	// super admin.
	transitions, err := svc.AvailableTransitions("PR-NEGO0001", root)
	require.NoError(t, err)
	assert.Empty(t, transitions)

	_, err = negotiation.SubmitProposal("PR-NEGO0001", adminPrincipal(), &SubmitProposalRequest{Slot: "final", LicenseCount: 10, UnitCost: 80})
	require.NoError(t, err)

	transitions, err = svc.AvailableTransitions("PR-NEGO0001", root)
	require.NoError(t, err)
	assert.Len(t, transitions, 2)
}

func TestTransitionApprove(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	seedRequest(t, db, "PR-TEST0001", models.StatusRequestCreated, nil)

	result, err := svc.Transition("PR-TEST0001", "11", approverPrincipal())
	require.NoError(t, err)

	assert.Equal(t, models.StatusRequestCreated, result.FromStatus)
	assert.Equal(t, models.StatusPreApproval, result.ToStatus)
	assert.Equal(t, "Approve", result.Transition.Name)

	var request models.ProcurementRequest
	require.NoError(t, db.Where("key = ?", "PR-TEST0001").First(&request).Error)
	assert.Equal(t, models.StatusPreApproval, request.Status)
}

func TestTransitionDecline(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	seedRequest(t, db, "PR-TEST0001", models.StatusPreApproval, nil)

	result, err := svc.Transition("PR-TEST0001", "22", adminPrincipal())
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeclined, result.ToStatus)

	// Declined is terminal; nothing moves it again.
	_, err = svc.Transition("PR-TEST0001", "11", superAdminPrincipal())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTransitionRoleGate(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	seedRequest(t, db, "PR-TEST0001", models.StatusPreApproval, nil)

	// Pre-Approval is admin-only; the approver holds transition_request but
	// not this status.
	_, err := svc.Transition("PR-TEST0001", "21", approverPrincipal())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Transition("PR-TEST0001", "21", requesterPrincipal("Finance"))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Transition("PR-TEST0001", "21", adminPrincipal())
	assert.NoError(t, err)
}

func TestTransitionRejectsForeignID(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	seedRequest(t, db, "PR-TEST0001", models.StatusRequestCreated, nil)

	// "21" is a Pre-Approval edge; it does not resolve from Request Created.
	_, err := svc.Transition("PR-TEST0001", "21", adminPrincipal())
	assert.ErrorIs(t, err, ErrForbidden)

	var request models.ProcurementRequest
	require.NoError(t, db.Where("key = ?", "PR-TEST0001").First(&request).Error)
	assert.Equal(t, models.StatusRequestCreated, request.Status)
}

func TestTransitionNegotiationGate(t *testing.T) {
	db, svc, negotiation := newRequestFixture(t)
	seedRequest(t, db, "PR-NEGO0001", models.StatusNegotiation, nil)
	root := superAdminPrincipal()

	_, err := svc.Transition("PR-NEGO0001", "41", root)
	assert.ErrorIs(t, err, ErrFinalNotSubmitted)

	_, err = negotiation.SubmitProposal("PR-NEGO0001", adminPrincipal(), &SubmitProposalRequest{Slot: "final", LicenseCount: 10, UnitCost: 80})
	require.NoError(t, err)

	result, err := svc.Transition("PR-NEGO0001", "41", root)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPostApproval, result.ToStatus)
}

func TestTransitionFullApprovalChain(t *testing.T) {
	db, svc, negotiation := newRequestFixture(t)
	seedRequest(t, db, "PR-CHAIN001", models.StatusNegotiation, nil)
	admin := adminPrincipal()

	// Walk the back half of the lifecycle: negotiate, then approve through
	// to Completed.
	_, err := negotiation.SubmitProposal("PR-CHAIN001", admin, &SubmitProposalRequest{Slot: "first", LicenseCount: 10, UnitCost: 100})
	require.NoError(t, err)
	_, err = negotiation.SubmitProposal("PR-CHAIN001", admin, &SubmitProposalRequest{Slot: "final", LicenseCount: 10, UnitCost: 85})
	require.NoError(t, err)

	_, err = negotiation.Finalize("PR-CHAIN001", admin)
	require.NoError(t, err)

	// Negotiation Stage has no role gate; only super admin moves it once
	// the workflow gate opens.
	result, err := svc.Transition("PR-CHAIN001", "41", superAdminPrincipal())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPostApproval, result.ToStatus)

	result, err = svc.Transition("PR-CHAIN001", "51", admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, result.ToStatus)
	assert.True(t, result.ToStatus.IsTerminal())
}
