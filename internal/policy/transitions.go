// internal/policy/transitions.go
package policy

import "github.com/openprocure/procure-backend/internal/models"

// Transition is a single legal edge in the request lifecycle. IDs and names
// serialize as-is to the UI layer.
type Transition struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	TargetStatus  models.RequestStatus `json:"target_status"`
	ColorCategory string               `json:"color_category"`
}

const (
	TransitionApprove = "Approve"
	TransitionDecline = "Decline"
)

// transitionTable is the exhaustive per-status edge set. At most two edges
// per status (Approve, Decline); terminal statuses have none. Do not extend
// ad hoc.
var transitionTable = map[models.RequestStatus][]Transition{
	models.StatusRequestCreated: {
		{ID: "11", Name: TransitionApprove, TargetStatus: models.StatusPreApproval, ColorCategory: "green"},
		{ID: "12", Name: TransitionDecline, TargetStatus: models.StatusDeclined, ColorCategory: "red"},
	},
	models.StatusPreApproval: {
		{ID: "21", Name: TransitionApprove, TargetStatus: models.StatusReviewStage, ColorCategory: "green"},
		{ID: "22", Name: TransitionDecline, TargetStatus: models.StatusDeclined, ColorCategory: "red"},
	},
	models.StatusReviewStage: {
		{ID: "31", Name: TransitionApprove, TargetStatus: models.StatusNegotiation, ColorCategory: "green"},
		{ID: "32", Name: TransitionDecline, TargetStatus: models.StatusDeclined, ColorCategory: "red"},
	},
	models.StatusNegotiation: {
		{ID: "41", Name: TransitionApprove, TargetStatus: models.StatusPostApproval, ColorCategory: "green"},
		{ID: "42", Name: TransitionDecline, TargetStatus: models.StatusDeclined, ColorCategory: "red"},
	},
	models.StatusPostApproval: {
		{ID: "51", Name: TransitionApprove, TargetStatus: models.StatusCompleted, ColorCategory: "green"},
		{ID: "52", Name: TransitionDecline, TargetStatus: models.StatusDeclined, ColorCategory: "red"},
	},
}

// transitionRoles gates each source status by role. SUPER_ADMIN bypasses
// this table everywhere. Negotiation Stage has no entry on purpose: nobody
// transitions out of it by role alone. The negotiation gate (final proposal
// submitted) is enforced by the lifecycle coordinator for every role,
// super admin included.
var transitionRoles = map[models.RequestStatus][]models.Role{
	models.StatusRequestCreated: {models.RoleApprover, models.RoleAdmin},
	models.StatusPreApproval:    {models.RoleAdmin},
	models.StatusReviewStage:    {models.RoleAdmin},
	models.StatusNegotiation:    {},
	models.StatusPostApproval:   {models.RoleApprover, models.RoleAdmin},
}

// AvailableTransitions returns the ordered legal transition set for the
// principal on a request in the given status and scope. It returns an empty
// slice, never an error, when nothing is legal; the caller can hide or
// disable controls from this value alone.
//
// The negotiation gate is intentionally not evaluated here: this function is
// pure over its inputs so it can run once per row in list views. The
// coordinator filters Negotiation Stage edges by workflow state.
func AvailableTransitions(status models.RequestStatus, p Principal, resourceOrg, resourceDept *string) []Transition {
	edges, ok := transitionTable[status]
	if !ok {
		return []Transition{}
	}

	if p.Role == models.RoleSuperAdmin {
		return append([]Transition{}, edges...)
	}

	if !CanAccess(p, resourceOrg, resourceDept) {
		return []Transition{}
	}

	for _, role := range transitionRoles[status] {
		if role == p.Role {
			return append([]Transition{}, edges...)
		}
	}
	return []Transition{}
}

// TransitionByID resolves a client-supplied transition id against the table
// for the given source status. Ids are re-derived server-side; an id valid
// for another status resolves to false here.
func TransitionByID(status models.RequestStatus, id string) (Transition, bool) {
	for _, t := range transitionTable[status] {
		if t.ID == id {
			return t, true
		}
	}
	return Transition{}, false
}
