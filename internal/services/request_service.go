// internal/services/request_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openprocure/procure-backend/internal/database"
	"github.com/openprocure/procure-backend/internal/models"
	"github.com/openprocure/procure-backend/internal/policy"
	"github.com/openprocure/procure-backend/internal/utils"
)

// RequestService coordinates the request lifecycle: it loads the resource,
// consults the policy tables for the legal transition set, applies the
// negotiation gate, and commits the status change. Each operation is
// load-decide-save; nothing holds storage open across calls.
type RequestService struct {
	db                  *gorm.DB
	negotiationService  *NegotiationService
	notificationService *NotificationService
}

type CreateRequestRequest struct {
	Title        string  `json:"title" validate:"required,max=255"`
	Organization *string `json:"organization,omitempty"`
	Department   *string `json:"department,omitempty"`
	Vendor       string  `json:"vendor,omitempty"`
	Description  string  `json:"description,omitempty"`
	CostCenter   string  `json:"cost_center,omitempty"`
	Currency     string  `json:"currency,omitempty"`
	LicenseCount float64 `json:"license_count,omitempty" validate:"gte=0"`
	UnitCost     float64 `json:"unit_cost,omitempty" validate:"gte=0"`
}

type RequestSearchParams struct {
	utils.PaginationParams
	Status *models.RequestStatus `json:"status,omitempty"`
}

// TransitionResult is the outcome of a committed transition, including the
// domain event payload handed to the notification collaborator.
type TransitionResult struct {
	Request    *models.ProcurementRequest `json:"request"`
	Transition policy.Transition          `json:"transition"`
	FromStatus models.RequestStatus       `json:"from_status"`
	ToStatus   models.RequestStatus       `json:"to_status"`
}

func NewRequestService(db *gorm.DB, negotiationService *NegotiationService, notificationService *NotificationService) *RequestService {
	return &RequestService{
		db:                  db,
		negotiationService:  negotiationService,
		notificationService: notificationService,
	}
}

// CreateRequest opens a new request in Request Created. The resource scope
// defaults to the creator's department when the payload does not set one.
func (s *RequestService) CreateRequest(p policy.Principal, req *CreateRequestRequest) (*models.ProcurementRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !policy.HasPermission(p.Role, policy.PermissionCreateRequests) {
		return nil, fmt.Errorf("%w: role %s may not create requests", ErrForbidden, p.Role)
	}

	key, err := utils.GenerateRequestKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request key: %w", err)
	}

	department := req.Department
	if department == nil && p.DepartmentName != "" {
		dept := p.DepartmentName
		department = &dept
	}

	request := &models.ProcurementRequest{
		Key:          key,
		Title:        req.Title,
		Status:       models.StatusRequestCreated,
		Organization: req.Organization,
		Department:   department,
		CreatorID:    p.UserID,
	}

	if req.Vendor != "" {
		request.SetField(models.FieldVendor, req.Vendor)
	}
	if req.Description != "" {
		request.SetField(models.FieldDescription, req.Description)
	}
	if req.CostCenter != "" {
		request.SetField(models.FieldCostCenter, req.CostCenter)
	}
	if req.Currency != "" {
		request.SetField(models.FieldCurrency, req.Currency)
	}
	if req.LicenseCount > 0 {
		request.SetField(models.FieldLicenseCount, req.LicenseCount)
	}
	if req.UnitCost > 0 {
		request.SetField(models.FieldUnitCost, req.UnitCost)
	}

	if err := s.db.Create(request).Error; err != nil {
		return nil, persistence("create request", err)
	}

	return request, nil
}

// GetRequest loads a request and applies read-visibility scoping.
func (s *RequestService) GetRequest(key string, p policy.Principal) (*models.ProcurementRequest, error) {
	var request models.ProcurementRequest
	if err := s.db.Preload("Creator").Preload("Proposals", func(db *gorm.DB) *gorm.DB {
		return db.Order("submitted_at ASC")
	}).Where("key = ?", key).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistence("load request", err)
	}

	if !policy.CanAccess(p, request.Organization, request.Department) {
		return nil, fmt.Errorf("%w: request %s is outside your scope", ErrForbidden, key)
	}

	return &request, nil
}

// SearchRequests lists requests visible to the principal. Requester
// visibility is restricted to unscoped requests and the requester's own
// department; other roles see everything.
func (s *RequestService) SearchRequests(params RequestSearchParams, p policy.Principal) ([]models.ProcurementRequest, int64, error) {
	if !policy.HasPermission(p.Role, policy.PermissionViewRequests) {
		return nil, 0, fmt.Errorf("%w: role %s may not list requests", ErrForbidden, p.Role)
	}

	query := s.db.Model(&models.ProcurementRequest{}).Preload("Creator")

	if p.Role == models.RoleRequester {
		query = query.Where("department IS NULL OR department = '' OR department = ?", p.DepartmentName)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("title LIKE ? OR key LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, persistence("count requests", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status", "key"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var requests []models.ProcurementRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, persistence("list requests", err)
	}

	return requests, total, nil
}

// AvailableTransitions returns the transitions the principal may execute on
// the request right now. The slice is empty, never an error, when nothing is
// legal; UI controls are rendered from this value alone. For a request in
// Negotiation Stage the edges only appear once the final proposal is in.
func (s *RequestService) AvailableTransitions(key string, p policy.Principal) ([]policy.Transition, error) {
	var request models.ProcurementRequest
	if err := s.db.Where("key = ?", key).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistence("load request", err)
	}

	transitions := policy.AvailableTransitions(request.Status, p, request.Organization, request.Department)

	if request.Status == models.StatusNegotiation && len(transitions) > 0 {
		open, err := s.negotiationService.finalSubmitted(s.db, request.ID)
		if err != nil {
			return nil, err
		}
		if !open {
			return []policy.Transition{}, nil
		}
	}

	return transitions, nil
}

// Transition executes a transition by id. The id is re-derived server-side
// against the policy tables; a client-supplied id is never trusted. Two
// concurrent attempts on the same request cannot both succeed: the status
// update is conditional on the status the decision was computed against.
func (s *RequestService) Transition(key, transitionID string, p policy.Principal) (*TransitionResult, error) {
	var result *TransitionResult

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var request models.ProcurementRequest
		if err := tx.Where("key = ?", key).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return persistence("load request", err)
		}

		transitions := policy.AvailableTransitions(request.Status, p, request.Organization, request.Department)
		if len(transitions) == 0 {
			return fmt.Errorf("%w: no transitions available from %q for role %s", ErrForbidden, request.Status, p.Role)
		}

		transition, ok := policy.TransitionByID(request.Status, transitionID)
		if !ok {
			return fmt.Errorf("%w: transition %q is not legal from %q", ErrForbidden, transitionID, request.Status)
		}

		if request.Status == models.StatusNegotiation {
			open, err := s.negotiationService.finalSubmitted(tx, request.ID)
			if err != nil {
				return err
			}
			if !open {
				return fmt.Errorf("%w: negotiation gate is closed for %s", ErrFinalNotSubmitted, key)
			}
		}

		res := tx.Model(&models.ProcurementRequest{}).
			Where("key = ? AND status = ?", key, request.Status).
			Update("status", transition.TargetStatus)
		if res.Error != nil {
			return persistence("apply transition", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: request %s changed status concurrently", ErrConflict, key)
		}

		fromStatus := request.Status
		request.Status = transition.TargetStatus
		result = &TransitionResult{
			Request:    &request,
			Transition: transition,
			FromStatus: fromStatus,
			ToStatus:   transition.TargetStatus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The decision is committed; event delivery failure is logged, never
	// propagated back as a transition failure.
	if s.notificationService != nil {
		if nerr := s.notificationService.RecordTransitionEvent(result.Request, result.FromStatus, result.ToStatus); nerr != nil {
			logrus.WithError(nerr).WithFields(logrus.Fields{
				"request_key": key,
				"to_status":   result.ToStatus,
			}).Error("Failed to record transition event")
		}
	}

	return result, nil
}
