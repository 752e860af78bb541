// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/openprocure/procure-backend/internal/i18n"
	"github.com/openprocure/procure-backend/internal/services"
	"github.com/openprocure/procure-backend/internal/utils"
)

// handleServiceError maps the domain error taxonomy onto HTTP. Forbidden
// becomes a disabled control client-side, workflow violations become inline
// validation messages, and transient persistence failures carry a retry
// affordance.
func handleServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "request")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyRequestForbidden))
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyRequestConflict))
	case errors.Is(err, services.ErrAlreadySubmitted):
		utils.UnprocessableResponse(c, "ALREADY_SUBMITTED", i18n.T(lang, i18n.KeyProposalAlreadySubmitted))
	case errors.Is(err, services.ErrOutOfOrder):
		utils.UnprocessableResponse(c, "OUT_OF_ORDER", i18n.T(lang, i18n.KeyProposalOutOfOrder))
	case errors.Is(err, services.ErrFinalLocked):
		utils.UnprocessableResponse(c, "FINAL_LOCKED", i18n.T(lang, i18n.KeyProposalFinalLocked))
	case errors.Is(err, services.ErrNotInNegotiation):
		utils.UnprocessableResponse(c, "NOT_IN_NEGOTIATION", err.Error())
	case errors.Is(err, services.ErrFinalNotSubmitted):
		utils.UnprocessableResponse(c, "FINAL_NOT_SUBMITTED", i18n.T(lang, i18n.KeyNegotiationIncomplete))
	case services.IsTransient(err):
		utils.ServiceUnavailableResponse(c, "")
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
