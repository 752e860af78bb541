// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openprocure/procure-backend/internal/models"
	"github.com/openprocure/procure-backend/internal/services"
	"github.com/openprocure/procure-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	stats, err := h.adminService.GetDashboardStats(principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	filter := services.UserFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role := models.Role(roleStr)
		filter.Role = &role
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.UserStatus(statusStr)
		filter.Status = &status
	}

	users, total, err := h.adminService.GetUsers(filter, principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(users, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}
