// internal/services/admin_service.go
package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/openprocure/procure-backend/internal/models"
	"github.com/openprocure/procure-backend/internal/policy"
	"github.com/openprocure/procure-backend/internal/utils"
)

type AdminService struct {
	db *gorm.DB
}

// DashboardStats are raw figures for the reporting surface; rendering is the
// UI collaborator's problem.
type DashboardStats struct {
	TotalRequests       int64            `json:"total_requests"`
	RequestsByStatus    map[string]int64 `json:"requests_by_status"`
	NewRequestsThisWeek int64            `json:"new_requests_this_week"`
	InNegotiation       int64            `json:"in_negotiation"`
	FinalizedCount      int64            `json:"finalized_count"`
	TotalOptimizedCost  float64          `json:"total_optimized_cost"`
	ActiveUsers         int64            `json:"active_users"`
}

type UserFilter struct {
	utils.PaginationParams
	Role   *models.Role       `json:"role,omitempty"`
	Status *models.UserStatus `json:"status,omitempty"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) GetDashboardStats(p policy.Principal) (*DashboardStats, error) {
	if !policy.HasPermission(p.Role, policy.PermissionViewReports) {
		return nil, fmt.Errorf("%w: role %s may not view reports", ErrForbidden, p.Role)
	}

	stats := &DashboardStats{
		RequestsByStatus: make(map[string]int64),
	}

	if err := s.db.Model(&models.ProcurementRequest{}).Count(&stats.TotalRequests).Error; err != nil {
		return nil, persistence("dashboard stats", err)
	}

	statuses := []models.RequestStatus{
		models.StatusRequestCreated,
		models.StatusPreApproval,
		models.StatusReviewStage,
		models.StatusNegotiation,
		models.StatusPostApproval,
		models.StatusCompleted,
		models.StatusDeclined,
	}
	for _, status := range statuses {
		var count int64
		if err := s.db.Model(&models.ProcurementRequest{}).
			Where("status = ?", status).Count(&count).Error; err != nil {
			return nil, persistence("dashboard stats", err)
		}
		stats.RequestsByStatus[string(status)] = count
	}
	stats.InNegotiation = stats.RequestsByStatus[string(models.StatusNegotiation)]

	weekStart := time.Now().AddDate(0, 0, -7)
	if err := s.db.Model(&models.ProcurementRequest{}).
		Where("created_at >= ?", weekStart).Count(&stats.NewRequestsThisWeek).Error; err != nil {
		return nil, persistence("dashboard stats", err)
	}

	if err := s.db.Model(&models.ProcurementRequest{}).
		Where("finalized_at IS NOT NULL").Count(&stats.FinalizedCount).Error; err != nil {
		return nil, persistence("dashboard stats", err)
	}

	if err := s.db.Model(&models.ProcurementRequest{}).
		Where("finalized_at IS NOT NULL").
		Select("COALESCE(SUM(optimized_cost), 0)").Scan(&stats.TotalOptimizedCost).Error; err != nil {
		return nil, persistence("dashboard stats", err)
	}

	if err := s.db.Model(&models.User{}).
		Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, persistence("dashboard stats", err)
	}

	return stats, nil
}

func (s *AdminService) GetUsers(filter UserFilter, p policy.Principal) ([]models.User, int64, error) {
	if !policy.HasPermission(p.Role, policy.PermissionManageUsers) {
		return nil, 0, fmt.Errorf("%w: role %s may not manage users", ErrForbidden, p.Role)
	}

	query := s.db.Model(&models.User{}).Preload("Organization").Preload("Department")

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, persistence("count users", err)
	}

	allowedSortFields := []string{"created_at", "username", "email", "role"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, persistence("list users", err)
	}

	return users, total, nil
}
