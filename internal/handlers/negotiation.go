// internal/handlers/negotiation.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openprocure/procure-backend/internal/i18n"
	"github.com/openprocure/procure-backend/internal/services"
	"github.com/openprocure/procure-backend/internal/utils"
)

type NegotiationHandler struct {
	negotiationService *services.NegotiationService
}

func NewNegotiationHandler(negotiationService *services.NegotiationService) *NegotiationHandler {
	return &NegotiationHandler{
		negotiationService: negotiationService,
	}
}

// POST /requests/:key/proposals
func (h *NegotiationHandler) SubmitProposal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.SubmitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	proposal, err := h.negotiationService.SubmitProposal(c.Param("key"), principal, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyProposalSubmitted),
		"proposal": proposal,
	})
}

// GET /requests/:key/negotiation
func (h *NegotiationHandler) GetWorkflowState(c *gin.Context) {
	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	state, err := h.negotiationService.State(c.Param("key"), principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"negotiation": state,
	})
}

// POST /requests/:key/negotiation/finalize
func (h *NegotiationHandler) Finalize(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	record, err := h.negotiationService.Finalize(c.Param("key"), principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyNegotiationFinalized),
		"finalization": record,
	})
}
