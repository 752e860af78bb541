// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAccessDenied           = "auth.access_denied"

	// Requests
	KeyRequestCreated       = "request.created"
	KeyRequestNotFound      = "request.not_found"
	KeyRequestTransitioned  = "request.transitioned"
	KeyRequestForbidden     = "request.forbidden"
	KeyRequestConflict      = "request.conflict"
	KeyTransitionNotAllowed = "request.transition_not_allowed"

	// Negotiation
	KeyProposalSubmitted        = "proposal.submitted"
	KeyProposalAlreadySubmitted = "proposal.already_submitted"
	KeyProposalOutOfOrder       = "proposal.out_of_order"
	KeyProposalFinalLocked      = "proposal.final_locked"
	KeyNegotiationFinalized     = "proposal.finalized"
	KeyNegotiationIncomplete    = "proposal.final_missing"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"
)
