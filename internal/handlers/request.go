// internal/handlers/request.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openprocure/procure-backend/internal/i18n"
	"github.com/openprocure/procure-backend/internal/models"
	"github.com/openprocure/procure-backend/internal/services"
	"github.com/openprocure/procure-backend/internal/utils"
)

type RequestHandler struct {
	requestService *services.RequestService
}

func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// POST /requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	request, err := h.requestService.CreateRequest(principal, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRequestCreated),
		"request": request,
	})
}

// GET /requests
func (h *RequestHandler) SearchRequests(c *gin.Context) {
	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := services.RequestSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.RequestStatus(statusStr)
		params.Status = &status
	}

	requests, total, err := h.requestService.SearchRequests(params, principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(requests, total, params.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /requests/:key
func (h *RequestHandler) GetRequest(c *gin.Context) {
	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	request, err := h.requestService.GetRequest(c.Param("key"), principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"request": request,
	})
}

// GET /requests/:key/transitions
//
// An empty list is the normal answer for terminal statuses, roles without a
// gate on the current status, and a Negotiation Stage request whose final
// proposal is still outstanding. The UI renders its controls from this list.
func (h *RequestHandler) GetAvailableTransitions(c *gin.Context) {
	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	transitions, err := h.requestService.AvailableTransitions(c.Param("key"), principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"transitions": transitions,
	})
}

type transitionPayload struct {
	TransitionID string `json:"transition_id" validate:"required"`
}

// POST /requests/:key/transitions
func (h *RequestHandler) ExecuteTransition(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var payload transitionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&payload)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.requestService.Transition(c.Param("key"), payload.TransitionID, principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyRequestTransitioned),
		"request":     result.Request,
		"transition":  result.Transition,
		"from_status": result.FromStatus,
		"to_status":   result.ToStatus,
	})
}
